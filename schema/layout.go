package schema

import (
	"errors"
	"fmt"
)

// BitsPerByte is the bit count of one wire byte.
const BitsPerByte = 8

// ErrWidth reports a bit or byte count that no register type can hold.
var ErrWidth = errors.New("unsupported width")

// RegisterWidth returns the smallest integer width in bits that holds the
// given bit count. A single bit resolves to width 1, the boolean register.
func RegisterWidth(bits uint32) (uint32, error) {
	switch {
	case bits == 1:
		return 1, nil
	case bits >= 2 && bits <= 8:
		return 8, nil
	case bits <= 16:
		return 16, nil
	case bits <= 32:
		return 32, nil
	case bits <= 64:
		return 64, nil
	}
	return 0, fmt.Errorf("%w: %d bits", ErrWidth, bits)
}

// FieldLayout is the derived placement of a named field within its register.
// The field occupies the bits [Offset, Offset+Field.Bits) and Mask is the
// unshifted mask of Field.Bits ones.
type FieldLayout struct {
	Field  *Field
	Offset uint32
	Mask   uint64
}

// Extract reads the field's bits out of a register value.
func (l FieldLayout) Extract(reg uint64) uint64 { return reg >> l.Offset & l.Mask }

// Insert writes val into the field's bits of reg, leaving all bits outside
// [Offset, Offset+Bits) unchanged.
func (l FieldLayout) Insert(reg, val uint64) uint64 {
	return reg&^(l.Mask<<l.Offset) | (val&l.Mask)<<l.Offset
}

// Size returns the register width in bits for the summed slot widths, at
// least one byte so the register is addressable as a structure member.
func (b *BitField) Size() (uint32, error) {
	var sum uint32
	for _, s := range b.Slots {
		sum += s.Bits
	}
	if sum == 1 {
		sum = BitsPerByte
	}
	w, err := RegisterWidth(sum)
	if err != nil {
		return 0, fmt.Errorf("bitfield %s: %w", b.Name, err)
	}
	return w, nil
}

// Layout walks the slots in declaration order and derives each named field's
// offset and mask, packing LSB first. Reserved slots only advance the offset.
// It validates every field width and that each enumerated value fits in its
// field's bits.
func (b *BitField) Layout() ([]FieldLayout, error) {
	if _, err := b.Size(); err != nil {
		return nil, err
	}
	res := make([]FieldLayout, 0, len(b.Slots))
	var off uint32
	for _, s := range b.Slots {
		if s.Field != nil {
			f := s.Field
			if _, err := RegisterWidth(f.Bits); err != nil {
				return nil, fmt.Errorf("bitfield %s field %s: %w", b.Name, f.Name, err)
			}
			mask := uint64(1)<<f.Bits - 1
			for _, ev := range f.Enums {
				if ev.Val&^mask != 0 {
					return nil, fmt.Errorf("bitfield %s field %s: %w: value %s=%d exceeds %d bits",
						b.Name, f.Name, ErrWidth, ev.Name, ev.Val, f.Bits)
				}
			}
			res = append(res, FieldLayout{Field: f, Offset: off, Mask: mask})
		}
		off += s.Bits
	}
	return res, nil
}

// Size returns the member's serialized byte width. Alternative members
// contribute their group default's size.
func (m *Member) Size(alts *Alternatives) (uint32, error) {
	switch {
	case m.Alt != "":
		g, err := alts.Get(m.Alt)
		if err != nil {
			return 0, fmt.Errorf("member %s: %w", m.Name, err)
		}
		return g.Default().Size(alts)
	case m.BitField != nil:
		w, err := m.BitField.Size()
		if err != nil {
			return 0, fmt.Errorf("member %s: %w", m.Name, err)
		}
		return w / BitsPerByte, nil
	}
	switch m.Bytes {
	case 1, 2, 4, 8:
		return m.Bytes, nil
	}
	return 0, fmt.Errorf("member %s: %w: %d bytes", m.Name, ErrWidth, m.Bytes)
}

// Size returns the structure's serialized byte count with every alternative
// member at its group default.
func (s *Structure) Size(alts *Alternatives) (uint32, error) {
	var sum uint32
	for i := range s.Members {
		n, err := s.Members[i].Size(alts)
		if err != nil {
			return 0, fmt.Errorf("structure %s: %w", s.Name, err)
		}
		sum += n
	}
	return sum, nil
}
