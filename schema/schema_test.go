package schema

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBitFieldBuilder(t *testing.T) {
	b := NewBitField("ctl", "control register").
		AddField("mode", "", 2, func(f *Field) {
			f.Enum("idle", 0).Enum("run", 1)
		}).
		AddReserved(6)
	want := &BitField{Name: "ctl", Doc: "control register", Slots: []Slot{
		{Field: &Field{Name: "mode", Bits: 2, Enums: []EnumValue{
			{Name: "idle", Val: 0},
			{Name: "run", Val: 1},
		}}, Bits: 2},
		{Bits: 6},
	}}
	if diff := cmp.Diff(want, b); diff != "" {
		t.Errorf("bitfield mismatch (-want +got):\n%s", diff)
	}
}

func TestStructureBuilder(t *testing.T) {
	none := NewStructure("pan_none")
	short := NewStructure("pan_short").AddUint16("pan")
	panid := NewGroup("panid", none).Add(short)
	s := NewStructure("hdr").
		AddUint8("seq").
		AddAlt("pan", panid)
	want := &Structure{Name: "hdr", Members: []Member{
		{Name: "seq", Bytes: 1},
		{Name: "pan", Alt: "panid"},
	}}
	if diff := cmp.Diff(want, s); diff != "" {
		t.Errorf("structure mismatch (-want +got):\n%s", diff)
	}
	if panid.Default() != none {
		t.Errorf("want pan_none as group default got %v", panid.Default())
	}
}

func TestAlternatives(t *testing.T) {
	a := NewGroup("address", NewStructure("addr_none"))
	p := NewGroup("panid", NewStructure("pan_none"))
	alts := NewAlternatives(a, p)
	got := alts.List()
	if len(got) != 2 || got[0] != a || got[1] != p {
		t.Errorf("want insertion order [address panid] got %v", got)
	}
	// replacing keeps the original position
	p2 := NewGroup("panid", NewStructure("pan_none")).
		Add(NewStructure("pan_short").AddUint16("pan"))
	alts.Insert(p2)
	got = alts.List()
	if len(got) != 2 || got[1] != p2 {
		t.Errorf("want panid replaced in place got %v", got)
	}
	g, err := alts.Get("address")
	if err != nil || g != a {
		t.Errorf("get address got %v, %v", g, err)
	}
	if _, err = alts.Get("missing"); !errors.Is(err, ErrUnknownGroup) {
		t.Errorf("want ErrUnknownGroup got %v", err)
	}
}
