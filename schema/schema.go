// Package schema models binary layouts: bit-packed registers subdivided into
// named fields and densely packed byte structures whose members may hold one
// of several alternative sub-layouts. Schemas are immutable builder products;
// the generators only read them.
package schema

// EnumValue names one raw value of an enumerated bit field.
type EnumValue struct {
	Name string
	Doc  string
	Val  uint64
}

// Field is a named bit range within a register, optionally enumerated.
type Field struct {
	Name  string
	Doc   string
	Bits  uint32
	Enums []EnumValue
}

// Enum appends a named value.
func (f *Field) Enum(name string, val uint64) *Field { return f.EnumDoc(name, "", val) }

// EnumDoc appends a named value with a doc string.
func (f *Field) EnumDoc(name, doc string, val uint64) *Field {
	f.Enums = append(f.Enums, EnumValue{Name: name, Doc: doc, Val: val})
	return f
}

// Slot is one entry of a register in declaration order. A nil Field marks
// reserved bits that only advance the offset.
type Slot struct {
	Field *Field
	Bits  uint32
}

// BitField describes a fixed width register subdivided into named bit ranges.
// Slot order is the wire order; field offsets are always derived from it.
type BitField struct {
	Name  string
	Doc   string
	Slots []Slot
}

func NewBitField(name, doc string) *BitField { return &BitField{Name: name, Doc: doc} }

// AddField appends a named field of the given bit width. The callback, if any,
// declares the field's enumerated values.
func (b *BitField) AddField(name, doc string, bits uint32, fn func(*Field)) *BitField {
	f := &Field{Name: name, Doc: doc, Bits: bits}
	if fn != nil {
		fn(f)
	}
	b.Slots = append(b.Slots, Slot{Field: f, Bits: bits})
	return b
}

// AddReserved appends unnamed reserved bits.
func (b *BitField) AddReserved(bits uint32) *BitField {
	b.Slots = append(b.Slots, Slot{Bits: bits})
	return b
}
