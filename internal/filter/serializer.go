package filter

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/flynnfc/gamgeedb/internal/composite"
)

// Wire framing for filters: a one-byte kind tag, then the variant payload.
// All name encoding is delegated to the composite codec.

const (
	kindNames byte = 1
	kindSlice byte = 2
)

// maxFilterNames bounds the name count of a names filter on the wire. A
// corrupt count must fail validation, never drive an allocation.
const maxFilterNames = 1 << 16

// Serializer (de)serializes filters bound to one name type.
type Serializer struct {
	typ *composite.Type
}

// NewSerializer binds a filter serializer to a name type.
func NewSerializer(typ *composite.Type) Serializer {
	return Serializer{typ: typ}
}

// Serialize writes the filter's binary form.
func (s Serializer) Serialize(w io.Writer, f Filter) error {
	switch f := f.(type) {
	case *Names:
		if len(f.names) > maxFilterNames {
			return fmt.Errorf("filter: names filter with %d names exceeds limit %d", len(f.names), maxFilterNames)
		}
		if _, err := w.Write([]byte{kindNames}); err != nil {
			return err
		}
		if err := binary.Write(w, binary.BigEndian, uint32(len(f.names))); err != nil {
			return err
		}
		for _, n := range f.names {
			if err := composite.Encode(w, n); err != nil {
				return err
			}
		}
		return nil
	case *Slice:
		if _, err := w.Write([]byte{kindSlice}); err != nil {
			return err
		}
		if err := composite.Encode(w, f.Start); err != nil {
			return err
		}
		if err := composite.Encode(w, f.Finish); err != nil {
			return err
		}
		reversed := byte(0)
		if f.Reversed {
			reversed = 1
		}
		_, err := w.Write([]byte{reversed})
		return err
	default:
		return fmt.Errorf("filter: cannot serialize %T", f)
	}
}

// Deserialize reads one filter back. A names payload containing anything but
// complete cell names is corrupt and surfaces immediately.
func (s Serializer) Deserialize(r io.Reader) (Filter, error) {
	var tag [1]byte
	if _, err := io.ReadFull(r, tag[:]); err != nil {
		return nil, fmt.Errorf("filter: truncated filter: %w", composite.ErrCorruptData)
	}
	switch tag[0] {
	case kindNames:
		var count uint32
		if err := binary.Read(r, binary.BigEndian, &count); err != nil {
			return nil, fmt.Errorf("filter: truncated names filter: %w", composite.ErrCorruptData)
		}
		if count > maxFilterNames {
			return nil, fmt.Errorf("filter: names filter with %d names exceeds limit: %w", count, composite.ErrCorruptData)
		}
		names := make([]composite.Name, 0, count)
		for i := uint32(0); i < count; i++ {
			n, err := composite.Decode(r)
			if err != nil {
				return nil, err
			}
			if n.IsEmpty() || !n.IsComplete() {
				return nil, fmt.Errorf("filter: names filter holds a non-cell name: %w", composite.ErrCorruptData)
			}
			names = append(names, n)
		}
		return NewNames(s.typ, names...)
	case kindSlice:
		start, err := composite.Decode(r)
		if err != nil {
			return nil, err
		}
		finish, err := composite.Decode(r)
		if err != nil {
			return nil, err
		}
		var reversed [1]byte
		if _, err := io.ReadFull(r, reversed[:]); err != nil {
			return nil, fmt.Errorf("filter: truncated slice filter: %w", composite.ErrCorruptData)
		}
		if reversed[0] > 1 {
			return nil, fmt.Errorf("filter: invalid reversed flag %d: %w", reversed[0], composite.ErrCorruptData)
		}
		return NewSlice(s.typ, start, finish, reversed[0] == 1), nil
	default:
		return nil, fmt.Errorf("filter: unknown filter kind %d: %w", tag[0], composite.ErrCorruptData)
	}
}

// SerializedSize returns the exact encoded size of the filter.
func (s Serializer) SerializedSize(f Filter) int {
	switch f := f.(type) {
	case *Names:
		size := 1 + 4
		for _, n := range f.names {
			size += composite.EncodedSize(n)
		}
		return size
	case *Slice:
		return 1 + composite.EncodedSize(f.Start) + composite.EncodedSize(f.Finish) + 1
	default:
		return 0
	}
}
