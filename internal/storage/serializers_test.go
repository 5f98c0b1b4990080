package storage

import (
	"bytes"
	"errors"
	"testing"

	"github.com/flynnfc/gamgeedb/internal/composite"
)

func TestCellSerializerRoundTrip(t *testing.T) {
	s := testSuite(t)
	ser := NewCellSerializer(s.Type())

	original := cellAt(t, s, "row", "col")
	original.Value = []byte("some value")
	original.Timestamp = 1234
	original.ExpiresAt = 5678

	var buf bytes.Buffer
	if err := ser.Serialize(&buf, original); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	if got, want := buf.Len(), ser.SerializedSize(original); got != want {
		t.Errorf("wrote %d bytes, SerializedSize said %d", got, want)
	}

	readBack, err := ser.Deserialize(&buf)
	if err != nil {
		t.Fatalf("Deserialize failed: %v", err)
	}
	if s.Type().Compare(readBack.Name, original.Name) != 0 {
		t.Error("name did not survive the round trip")
	}
	if !bytes.Equal(readBack.Value, original.Value) {
		t.Errorf("Value = %q, want %q", readBack.Value, original.Value)
	}
	if readBack.Timestamp != original.Timestamp {
		t.Errorf("Timestamp = %d, want %d", readBack.Timestamp, original.Timestamp)
	}
	if readBack.ExpiresAt != original.ExpiresAt {
		t.Errorf("ExpiresAt = %d, want %d", readBack.ExpiresAt, original.ExpiresAt)
	}
}

func TestCellSerializerRejectsPrefix(t *testing.T) {
	s := testSuite(t)
	ser := NewCellSerializer(s.Type())

	// A bare prefix in a cell position is corruption, not a cell.
	prefix, err := s.Type().Prefix([]byte("row"), []byte("1"))
	if err != nil {
		t.Fatalf("Prefix failed: %v", err)
	}
	var buf bytes.Buffer
	if err := composite.Encode(&buf, prefix); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	// Plausible-looking payload after the name.
	buf.Write([]byte{0, 0, 0, 1, 'v', 0, 0, 0, 0, 0, 0, 0, 1, 0, 0, 0, 0, 0, 0, 0, 0})

	if _, err := ser.Deserialize(&buf); !errors.Is(err, composite.ErrCorruptData) {
		t.Errorf("expected ErrCorruptData for prefix-only name, got %v", err)
	}
}

func TestCellSerializerRejectsEmptyName(t *testing.T) {
	s := testSuite(t)
	ser := NewCellSerializer(s.Type())

	empty, err := s.Type().Prefix()
	if err != nil {
		t.Fatalf("Prefix failed: %v", err)
	}
	var buf bytes.Buffer
	if err := composite.Encode(&buf, empty); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if _, err := ser.Deserialize(&buf); !errors.Is(err, composite.ErrCorruptData) {
		t.Errorf("expected ErrCorruptData for empty name, got %v", err)
	}
}

func TestCellSerializerRejectsOversizedValueLength(t *testing.T) {
	s := testSuite(t)
	ser := NewCellSerializer(s.Type())

	// A valid name followed by a corrupt value length prefix. The length
	// must fail validation before any allocation is sized from it.
	cell := cellAt(t, s, "row", "col")
	var buf bytes.Buffer
	if err := composite.Encode(&buf, cell.Name); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	buf.Write([]byte{0xff, 0xff, 0xff, 0xf0})

	if _, err := ser.Deserialize(&buf); !errors.Is(err, composite.ErrCorruptData) {
		t.Errorf("expected ErrCorruptData for oversized value length, got %v", err)
	}
}

func TestCellSerializerRejectsOversizedValueOnWrite(t *testing.T) {
	s := testSuite(t)
	ser := NewCellSerializer(s.Type())

	cell := cellAt(t, s, "row", "col")
	cell.Value = make([]byte, maxValueSize+1)

	var buf bytes.Buffer
	if err := ser.Serialize(&buf, cell); err == nil {
		t.Error("Serialize accepted a value beyond the codec limit")
	}
}

func TestAtomSerializerRoundTrip(t *testing.T) {
	s := testSuite(t)
	ser := NewAtomSerializer(s.Type())

	cell := cellAt(t, s, "row", "col")
	rt := tombstoneOver(t, s, "a", "b", Deletion{MarkedAt: 42, LocalDeletionTime: 7})

	for _, original := range []Atom{CellAtom(cell), TombstoneAtom(rt)} {
		var buf bytes.Buffer
		if err := ser.Serialize(&buf, original); err != nil {
			t.Fatalf("Serialize failed: %v", err)
		}
		if got, want := buf.Len(), ser.SerializedSize(original); got != want {
			t.Errorf("wrote %d bytes, SerializedSize said %d", got, want)
		}
		readBack, err := ser.Deserialize(&buf)
		if err != nil {
			t.Fatalf("Deserialize failed: %v", err)
		}
		if readBack.Kind() != original.Kind() {
			t.Fatalf("Kind = %d, want %d", readBack.Kind(), original.Kind())
		}
		if s.CompareAtoms(readBack, original) != 0 {
			t.Error("atom did not survive the round trip")
		}
	}
}

func TestAtomSerializerRejectsUnknownKind(t *testing.T) {
	s := testSuite(t)
	ser := NewAtomSerializer(s.Type())

	if _, err := ser.Deserialize(bytes.NewReader([]byte{0xee})); !errors.Is(err, composite.ErrCorruptData) {
		t.Errorf("expected ErrCorruptData for unknown atom kind, got %v", err)
	}
}
