package composite

import "errors"

var (
	// ErrCorruptData is returned when decoded bytes do not form a valid
	// composite name, or when a name fails a structural check it was
	// expected to pass (for example a prefix showing up where a complete
	// cell name is required).
	ErrCorruptData = errors.New("corrupt composite data")

	// ErrUnsupportedOperation is returned by capability methods that the
	// concrete name type does not support (row markers on dense types,
	// collection cells on types without collections). Callers should
	// resolve these at schema-binding time, not per cell.
	ErrUnsupportedOperation = errors.New("unsupported operation for this name type")
)
