package storage

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/flynnfc/gamgeedb/internal/composite"
)

// The serializers here are thin wrappers over the composite codec: they add
// the cell/atom payload framing and the structural narrowing checks, nothing
// else. Buffer layout stays the composite layer's concern.

// maxValueSize bounds a cell value's length prefix. A corrupt prefix must
// fail validation, never drive an allocation.
const maxValueSize = 1 << 26

// CellSerializer (de)serializes whole cells. Deserialization verifies the
// decoded name really is a complete cell name; a prefix in that position
// means the bytes were corrupted upstream.
type CellSerializer struct {
	typ *composite.Type
}

// NewCellSerializer binds a cell serializer to a name type.
func NewCellSerializer(typ *composite.Type) CellSerializer {
	return CellSerializer{typ: typ}
}

// Serialize writes the cell's binary form.
func (s CellSerializer) Serialize(w io.Writer, c Cell) error {
	if err := composite.Encode(w, c.Name); err != nil {
		return err
	}
	if err := writeValue(w, c.Value); err != nil {
		return err
	}
	if err := binary.Write(w, binary.BigEndian, c.Timestamp); err != nil {
		return err
	}
	return binary.Write(w, binary.BigEndian, c.ExpiresAt)
}

// Deserialize reads one cell back. The name is narrowed to a complete cell
// name; anything else surfaces immediately as corrupt data.
func (s CellSerializer) Deserialize(r io.Reader) (Cell, error) {
	name, err := composite.Decode(r)
	if err != nil {
		return Cell{}, err
	}
	if name.IsEmpty() || !name.IsComplete() {
		return Cell{}, fmt.Errorf("storage: decoded name is not a complete cell name: %w", composite.ErrCorruptData)
	}
	value, err := readValue(r)
	if err != nil {
		return Cell{}, err
	}
	var ts, exp int64
	if err := binary.Read(r, binary.BigEndian, &ts); err != nil {
		return Cell{}, truncated(err)
	}
	if err := binary.Read(r, binary.BigEndian, &exp); err != nil {
		return Cell{}, truncated(err)
	}
	return Cell{Name: name, Value: value, Timestamp: ts, ExpiresAt: exp}, nil
}

// SerializedSize returns the exact encoded size of the cell.
func (s CellSerializer) SerializedSize(c Cell) int {
	return composite.EncodedSize(c.Name) + 4 + len(c.Value) + 8 + 8
}

// AtomSerializer (de)serializes the atom sum type: a one-byte kind tag
// followed by the variant payload.
type AtomSerializer struct {
	cells CellSerializer
	typ   *composite.Type
}

// NewAtomSerializer binds an atom serializer to a name type.
func NewAtomSerializer(typ *composite.Type) AtomSerializer {
	return AtomSerializer{cells: NewCellSerializer(typ), typ: typ}
}

// Serialize writes the atom's binary form.
func (s AtomSerializer) Serialize(w io.Writer, a Atom) error {
	if _, err := w.Write([]byte{byte(a.Kind())}); err != nil {
		return err
	}
	if t, ok := a.RangeTombstone(); ok {
		if err := composite.Encode(w, t.Min); err != nil {
			return err
		}
		if err := composite.Encode(w, t.Max); err != nil {
			return err
		}
		if err := binary.Write(w, binary.BigEndian, t.Deletion.MarkedAt); err != nil {
			return err
		}
		return binary.Write(w, binary.BigEndian, t.Deletion.LocalDeletionTime)
	}
	cell, _ := a.Cell()
	return s.cells.Serialize(w, cell)
}

// Deserialize reads one atom back, rejecting unknown kind tags as corrupt.
func (s AtomSerializer) Deserialize(r io.Reader) (Atom, error) {
	var tag [1]byte
	if _, err := io.ReadFull(r, tag[:]); err != nil {
		return Atom{}, truncated(err)
	}
	switch AtomKind(tag[0]) {
	case KindCell:
		cell, err := s.cells.Deserialize(r)
		if err != nil {
			return Atom{}, err
		}
		return CellAtom(cell), nil
	case KindRangeTombstone:
		min, err := composite.Decode(r)
		if err != nil {
			return Atom{}, err
		}
		max, err := composite.Decode(r)
		if err != nil {
			return Atom{}, err
		}
		var d Deletion
		if err := binary.Read(r, binary.BigEndian, &d.MarkedAt); err != nil {
			return Atom{}, truncated(err)
		}
		if err := binary.Read(r, binary.BigEndian, &d.LocalDeletionTime); err != nil {
			return Atom{}, truncated(err)
		}
		return TombstoneAtom(RangeTombstone{Min: min, Max: max, Deletion: d}), nil
	default:
		return Atom{}, fmt.Errorf("storage: unknown atom kind %d: %w", tag[0], composite.ErrCorruptData)
	}
}

// SerializedSize returns the exact encoded size of the atom.
func (s AtomSerializer) SerializedSize(a Atom) int {
	if t, ok := a.RangeTombstone(); ok {
		return 1 + composite.EncodedSize(t.Min) + composite.EncodedSize(t.Max) + 8 + 8
	}
	cell, _ := a.Cell()
	return 1 + s.cells.SerializedSize(cell)
}

func writeValue(w io.Writer, b []byte) error {
	if len(b) > maxValueSize {
		return fmt.Errorf("storage: value of %d bytes exceeds limit %d", len(b), maxValueSize)
	}
	if err := binary.Write(w, binary.BigEndian, uint32(len(b))); err != nil {
		return err
	}
	_, err := w.Write(b)
	return err
}

func readValue(r io.Reader) ([]byte, error) {
	var size uint32
	if err := binary.Read(r, binary.BigEndian, &size); err != nil {
		return nil, truncated(err)
	}
	if size > maxValueSize {
		return nil, fmt.Errorf("storage: value of %d bytes exceeds limit: %w", size, composite.ErrCorruptData)
	}
	b := make([]byte, size)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, truncated(err)
	}
	return b, nil
}

func truncated(err error) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return fmt.Errorf("storage: truncated payload: %w", composite.ErrCorruptData)
	}
	return err
}
