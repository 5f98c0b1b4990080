package composite

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// Wire framing for a name: a uint16 component count, each component
// length-prefixed with a uint32 (BigEndian, so encoded names sort like their
// fields), then the EOC marker and the completeness flag, one byte each.

const (
	maxComponents    = 1 << 8
	maxComponentSize = 1 << 26
)

// Encode writes the binary form of a name. Names beyond the codec limits
// are rejected before anything is written, so every name Encode accepts can
// be decoded again.
func Encode(w io.Writer, n Name) error {
	if n.Size() > maxComponents {
		return fmt.Errorf("composite: %d components exceeds limit %d", n.Size(), maxComponents)
	}
	for i := 0; i < n.Size(); i++ {
		if len(n.Component(i)) > maxComponentSize {
			return fmt.Errorf("composite: component %d of %d bytes exceeds limit %d", i, len(n.Component(i)), maxComponentSize)
		}
	}
	if err := binary.Write(w, binary.BigEndian, uint16(n.Size())); err != nil {
		return err
	}
	for i := 0; i < n.Size(); i++ {
		if err := writeComponent(w, n.Component(i)); err != nil {
			return err
		}
	}
	flags := []byte{byte(n.EOC()), 0}
	if n.IsComplete() {
		flags[1] = 1
	}
	_, err := w.Write(flags)
	return err
}

// Decode reads a name previously written by Encode. Malformed framing is
// reported as ErrCorruptData; the caller decides whether the decoded name is
// structurally acceptable (complete vs prefix) for its context.
func Decode(r io.Reader) (Name, error) {
	var count uint16
	if err := binary.Read(r, binary.BigEndian, &count); err != nil {
		return Name{}, corrupt(err)
	}
	if count > maxComponents {
		return Name{}, fmt.Errorf("composite: %d components exceeds limit: %w", count, ErrCorruptData)
	}
	components := make([][]byte, count)
	for i := range components {
		c, err := readComponent(r)
		if err != nil {
			return Name{}, err
		}
		components[i] = c
	}
	var flags [2]byte
	if _, err := io.ReadFull(r, flags[:]); err != nil {
		return Name{}, corrupt(err)
	}
	eoc := EOC(int8(flags[0]))
	if eoc < EOCStart || eoc > EOCEnd {
		return Name{}, fmt.Errorf("composite: invalid EOC marker %d: %w", flags[0], ErrCorruptData)
	}
	if flags[1] > 1 {
		return Name{}, fmt.Errorf("composite: invalid completeness flag %d: %w", flags[1], ErrCorruptData)
	}
	return Name{components: components, eoc: eoc, complete: flags[1] == 1}, nil
}

// EncodedSize returns the exact number of bytes Encode will produce, for
// buffer pre-allocation.
func EncodedSize(n Name) int {
	size := 2 + 2 // component count + eoc + completeness
	for i := 0; i < n.Size(); i++ {
		size += 4 + len(n.Component(i))
	}
	return size
}

// EncodeToBytes is a convenience wrapper around Encode for callers that key
// on the encoded form (bloom filters, WAL records).
func EncodeToBytes(n Name) []byte {
	buf := bytes.NewBuffer(make([]byte, 0, EncodedSize(n)))
	// Against a bytes.Buffer, Encode only fails for names beyond the
	// codec limits, which no constructed name reaches in practice.
	_ = Encode(buf, n)
	return buf.Bytes()
}

func writeComponent(w io.Writer, b []byte) error {
	if err := binary.Write(w, binary.BigEndian, uint32(len(b))); err != nil {
		return err
	}
	_, err := w.Write(b)
	return err
}

func readComponent(r io.Reader) ([]byte, error) {
	var size uint32
	if err := binary.Read(r, binary.BigEndian, &size); err != nil {
		return nil, corrupt(err)
	}
	if size > maxComponentSize {
		return nil, fmt.Errorf("composite: component of %d bytes exceeds limit: %w", size, ErrCorruptData)
	}
	b := make([]byte, size)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, corrupt(err)
	}
	return b, nil
}

// corrupt maps a short read inside a name's framing to ErrCorruptData;
// anything else (a genuine transport failure) passes through untouched.
func corrupt(err error) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return fmt.Errorf("composite: truncated name: %w", ErrCorruptData)
	}
	return err
}
