package gengo

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/rudihorn/prot2go/schema"
)

func macSchemas() ([]*schema.Structure, *schema.Alternatives, *schema.BitField) {
	addrNone := schema.NewStructure("addr_none")
	addrShort := schema.NewStructure("addr_short").AddUint16("address")
	addrExtended := schema.NewStructure("addr_extended").AddUint64("address")
	panNone := schema.NewStructure("pan_none")
	panShort := schema.NewStructure("pan_short").AddUint16("pan")
	address := schema.NewGroup("address", addrNone).Add(addrShort).Add(addrExtended)
	panid := schema.NewGroup("panid", panNone).Add(panShort)
	fc := schema.NewBitField("frame_control", "").
		AddField("dest_addr_mode", "", 2, nil).
		AddReserved(14)
	mhr := schema.NewStructure("mhr").
		AddBitField("frame_control", fc).
		AddUint8("sequence_number").
		AddAlt("dest_pan", panid).
		AddAlt("dest_address", address).
		AddAlt("source_pan", panid).
		AddAlt("source_address", address)
	ss := []*schema.Structure{addrNone, addrShort, addrExtended, panNone, panShort, mhr}
	return ss, schema.NewAlternatives(address, panid), fc
}

func TestWriteStructureFixed(t *testing.T) {
	s := schema.NewStructure("pan_short").AddUint16("pan")
	g, sb := testGen()
	if err := WriteStructure(g, s, schema.NewAlternatives()); err != nil {
		t.Fatalf("write error: %v", err)
	}
	want := `// PanShort is the densely packed pan_short record of 2 bytes.
type PanShort struct {
	pan uint16
}

func NewPanShort() *PanShort { return &PanShort{} }

// Pan reads the pan member.
func (v *PanShort) Pan() uint16 { return v.pan }

// SetPan writes the pan member.
func (v *PanShort) SetPan(x uint16) *PanShort {
	v.pan = x
	return v
}

// Size returns the serialized byte count.
func (v *PanShort) Size() int { return 2 }

// MarshalBinary writes the members in declaration order, little endian,
// with no padding.
func (v *PanShort) MarshalBinary() ([]byte, error) {
	b := make([]byte, 0, v.Size())
	b = binary.LittleEndian.AppendUint16(b, v.pan)
	return b, nil
}

// UnmarshalBinary reads the members in declaration order, little endian.
func (v *PanShort) UnmarshalBinary(data []byte) error {
	if len(data) < 2 {
		return fmt.Errorf("pan_short: %w", io.ErrUnexpectedEOF)
	}
	v.pan = binary.LittleEndian.Uint16(data[0:2])
	return nil
}
`
	if got := sb.String(); got != want {
		t.Errorf("want:\n%s\ngot:\n%s", want, got)
	}
	imports := []string{"encoding/binary", "fmt", "io"}
	if !reflect.DeepEqual(g.Imports.List, imports) {
		t.Errorf("want imports %v got %v", imports, g.Imports.List)
	}
}

func TestWriteStructureEmpty(t *testing.T) {
	s := schema.NewStructure("pan_none")
	g, sb := testGen()
	if err := WriteStructure(g, s, schema.NewAlternatives()); err != nil {
		t.Fatalf("write error: %v", err)
	}
	got := sb.String()
	frags := []string{
		"type PanNone struct{}\n",
		"func (v *PanNone) Size() int { return 0 }",
		"func (v *PanNone) MarshalBinary() ([]byte, error) {\n\treturn nil, nil\n}",
		"func (v *PanNone) UnmarshalBinary(data []byte) error {\n\treturn nil\n}",
	}
	for _, frag := range frags {
		if !strings.Contains(got, frag) {
			t.Errorf("missing fragment %q in:\n%s", frag, got)
		}
	}
	if len(g.Imports.List) != 0 {
		t.Errorf("want no imports got %v", g.Imports.List)
	}
}

func TestWriteStructureAlternatives(t *testing.T) {
	ss, alts, _ := macSchemas()
	mhr := ss[len(ss)-1]
	g, sb := testGen()
	if err := WriteStructure(g, mhr, alts); err != nil {
		t.Fatalf("write error: %v", err)
	}
	got := sb.String()
	frags := []string{
		// the parameterized form binds each alternative member statically
		"type Mhr[DestPan PanidOption, DestAddress AddressOption, SourcePan PanidOption, SourceAddress AddressOption] struct {\n" +
			"\tframeControl uint16\n\tsequenceNumber uint8\n\tdestPan DestPan\n\tdestAddress DestAddress\n\tsourcePan SourcePan\n\tsourceAddress SourceAddress\n}",
		"func NewMhr[DestPan PanidOption, DestAddress AddressOption, SourcePan PanidOption, SourceAddress AddressOption]() *Mhr[DestPan, DestAddress, SourcePan, SourceAddress] {",
		"type MhrDefault = Mhr[PanNone, AddrNone, PanNone, AddrNone]",
		"func (v *Mhr[T0, T1, T2, T3]) DestPan() T0 { return v.destPan }",
		"func (v *Mhr[T0, T1, T2, T3]) SetSequenceNumber(x uint8) *Mhr[T0, T1, T2, T3] {",
		"func (v *Mhr[T0, T1, T2, T3]) FrameControl() FrameControlR { return NewFrameControlR(v.frameControl) }",
		// the flattened form pairs each member with its group union
		"type MhrVar struct {\n\tframeControl uint16\n\tsequenceNumber uint8\n\tdestPan Panid\n\tdestAddress Address\n\tsourcePan Panid\n\tsourceAddress Address\n}",
		"\t\tdestPan: DefaultPanid(),\n",
		"func (v *MhrVar) ModifyDestPan(fn func(Panid) Panid) *MhrVar {\n\tv.destPan = fn(v.destPan)\n\treturn v\n}",
		"func (v *MhrVar) ModifyFrameControl(fn func(*FrameControlW)) *MhrVar {\n\tw := NewFrameControlW(v.frameControl)\n\tfn(w)\n\tv.frameControl = w.Bits()\n\treturn v\n}",
		"func (v *MhrVar) Size() int {\n\treturn 3 + v.destPan.Size() + v.destAddress.Size() + v.sourcePan.Size() + v.sourceAddress.Size()\n}",
		"\tb = binary.LittleEndian.AppendUint16(b, v.frameControl)\n",
		"\tb = append(b, v.sequenceNumber)\n",
		"\tp, err := v.destPan.MarshalBinary()\n",
		"\tp, err = v.destAddress.MarshalBinary()\n",
	}
	for _, frag := range frags {
		if !strings.Contains(got, frag) {
			t.Errorf("missing fragment %q in:\n%s", frag, got)
		}
	}
	if strings.Contains(got, "func (v *MhrVar) UnmarshalBinary") {
		t.Errorf("flattened form must not decode without a wire discriminant:\n%s", got)
	}
}

func TestWriteStructureUnknownGroup(t *testing.T) {
	s := schema.NewStructure("hdr").
		AddAlt("pan", schema.NewGroup("unregistered", schema.NewStructure("none")))
	g, _ := testGen()
	err := WriteStructure(g, s, schema.NewAlternatives())
	if !errors.Is(err, schema.ErrUnknownGroup) {
		t.Errorf("want ErrUnknownGroup got %v", err)
	}
}

func TestWriteAlternatives(t *testing.T) {
	_, alts, _ := macSchemas()
	g, sb := testGen()
	if err := WriteAlternatives(g, alts); err != nil {
		t.Fatalf("write error: %v", err)
	}
	got := sb.String()
	frags := []string{
		"type AddressOption interface {\n\tAddrNone | AddrShort | AddrExtended\n}",
		"type Address interface {\n\tisAddress()\n\tSize() int\n\tMarshalBinary() ([]byte, error)\n}",
		"func (*AddrNone) isAddress() {}",
		"func (*AddrExtended) isAddress() {}",
		"func DefaultAddress() Address { return NewAddrNone() }",
		"func ReadAddressAddrShort(data []byte) (Address, error) {\n\tv := NewAddrShort()\n\tif err := v.UnmarshalBinary(data); err != nil {\n\t\treturn nil, err\n\t}\n\treturn v, nil\n}",
		"type PanidOption interface {\n\tPanNone | PanShort\n}",
		"func DefaultPanid() Panid { return NewPanNone() }",
	}
	for _, frag := range frags {
		if !strings.Contains(got, frag) {
			t.Errorf("missing fragment %q in:\n%s", frag, got)
		}
	}
	if i, j := strings.Index(got, "type AddressOption"), strings.Index(got, "type PanidOption"); i > j {
		t.Errorf("groups must render in registration order")
	}
}
