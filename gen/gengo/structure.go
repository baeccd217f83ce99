package gengo

import (
	"fmt"
	"strings"

	"github.com/rudihorn/prot2go/gen"
	"github.com/rudihorn/prot2go/schema"
)

// member carries the resolved generation info for one structure member.
type member struct {
	m     *schema.Member
	name  string // exported accessor name
	field string // generated struct field name
	typ   string // field type for fixed members
	bytes uint32 // fixed byte width, 0 for alternatives
	group *schema.Group
	gname string // cased group name, set for alternative members
	reg   string // cased bitfield name, set for bitfield members
	param int    // type parameter index for alternative members, else -1
}

func resolveMembers(s *schema.Structure, alts *schema.Alternatives) ([]member, error) {
	res := make([]member, 0, len(s.Members))
	var k int
	for i := range s.Members {
		m := &s.Members[i]
		mm := member{m: m, name: GoName(m.Name), param: -1}
		mm.field = unexported(mm.name)
		switch {
		case m.Alt != "":
			grp, err := alts.Get(m.Alt)
			if err != nil {
				return nil, fmt.Errorf("structure %s member %s: %w", s.Name, m.Name, err)
			}
			mm.group = grp
			mm.gname = GoName(grp.Name)
			mm.param = k
			k++
		case m.BitField != nil:
			w, err := m.BitField.Size()
			if err != nil {
				return nil, fmt.Errorf("structure %s member %s: %w", s.Name, m.Name, err)
			}
			mm.typ, err = GoRegType(w)
			if err != nil {
				return nil, fmt.Errorf("structure %s member %s: %w", s.Name, m.Name, err)
			}
			mm.bytes = w / schema.BitsPerByte
			mm.reg = GoName(m.BitField.Name)
		default:
			ty, err := GoTypeBytes(m.Bytes)
			if err != nil {
				return nil, fmt.Errorf("structure %s member %s: %w", s.Name, m.Name, err)
			}
			mm.typ = ty
			mm.bytes = m.Bytes
		}
		res = append(res, mm)
	}
	return res, nil
}

// WriteStructure emits the packed record type, one accessor set per member
// and the serialization routines. A structure with alternative members gets a
// parameterized form bound by each group's option constraint, a default alias
// and a flattened runtime form holding tagged union values; only the latter
// serializes, since the active option is not known statically.
func WriteStructure(g *gen.Gen, s *schema.Structure, alts *schema.Alternatives) error {
	ms, err := resolveMembers(s, alts)
	if err != nil {
		return err
	}
	n := GoName(s.Name)
	var k int
	for _, m := range ms {
		if m.group != nil {
			k++
		}
	}
	if k == 0 {
		writeFixed(g, s, n, ms)
		return nil
	}
	writeParam(g, s, n, ms, k)
	writeVar(g, s, n, ms)
	return nil
}

func writeFixed(g *gen.Gen, s *schema.Structure, n string, ms []member) {
	var size uint32
	for _, m := range ms {
		size += m.bytes
	}
	g.Fmt("// %s is the densely packed %s record of %d bytes.\n", n, s.Name, size)
	if len(ms) == 0 {
		g.Fmt("type %s struct{}\n\n", n)
	} else {
		g.Fmt("type %s struct {\n", n)
		for _, m := range ms {
			g.Fmt("\t%s %s\n", m.field, m.typ)
		}
		g.Fmt("}\n\n")
	}
	g.Fmt("func New%[1]s() *%[1]s { return &%[1]s{} }\n", n)
	for i := range ms {
		writeAccessors(g, n, "", ms[i], false)
	}
	g.Fmt("\n// Size returns the serialized byte count.\n")
	g.Fmt("func (v *%s) Size() int { return %d }\n", n, size)
	g.Fmt("\n// MarshalBinary writes the members in declaration order, little endian,\n// with no padding.\n")
	g.Fmt("func (v *%s) MarshalBinary() ([]byte, error) {\n", n)
	if size == 0 {
		g.Fmt("\treturn nil, nil\n}\n")
	} else {
		g.Fmt("\tb := make([]byte, 0, v.Size())\n")
		for _, m := range ms {
			writeAppend(g, m)
		}
		g.Fmt("\treturn b, nil\n}\n")
	}
	g.Fmt("\n// UnmarshalBinary reads the members in declaration order, little endian.\n")
	g.Fmt("func (v *%s) UnmarshalBinary(data []byte) error {\n", n)
	if size > 0 {
		g.Imports.Add("fmt")
		g.Imports.Add("io")
		g.Fmt("\tif len(data) < %d {\n\t\treturn fmt.Errorf(\"%s: %%w\", io.ErrUnexpectedEOF)\n\t}\n", size, s.Name)
		var off uint32
		for _, m := range ms {
			writeRead(g, m, off)
			off += m.bytes
		}
	}
	g.Fmt("\treturn nil\n}\n")
}

func writeParam(g *gen.Gen, s *schema.Structure, n string, ms []member, k int) {
	var decl, names, defs strings.Builder
	for _, m := range ms {
		if m.group == nil {
			continue
		}
		if decl.Len() > 0 {
			decl.WriteString(", ")
			names.WriteString(", ")
			defs.WriteString(", ")
		}
		fmt.Fprintf(&decl, "%s %sOption", m.name, m.gname)
		names.WriteString(m.name)
		defs.WriteString(GoName(m.group.Default().Name))
	}
	g.Fmt("// %s is the %s record parameterized over its alternative members for\n// call sites that bind each option statically.\n", n, s.Name)
	g.Fmt("type %s[%s] struct {\n", n, decl.String())
	for _, m := range ms {
		if m.group != nil {
			g.Fmt("\t%s %s\n", m.field, m.name)
		} else {
			g.Fmt("\t%s %s\n", m.field, m.typ)
		}
	}
	g.Fmt("}\n\n")
	g.Fmt("func New%[1]s[%[2]s]() *%[1]s[%[3]s] {\n\treturn &%[1]s[%[3]s]{}\n}\n\n", n, decl.String(), names.String())
	g.Fmt("// %[1]sDefault binds every alternative member of %[2]s to its group default.\n", n, s.Name)
	g.Fmt("type %[1]sDefault = %[1]s[%[2]s]\n", n, defs.String())
	var ps strings.Builder
	for i := 0; i < k; i++ {
		if i > 0 {
			ps.WriteString(", ")
		}
		fmt.Fprintf(&ps, "T%d", i)
	}
	targs := "[" + ps.String() + "]"
	for i := range ms {
		writeAccessors(g, n, targs, ms[i], false)
	}
}

func writeVar(g *gen.Gen, s *schema.Structure, n string, ms []member) {
	vn := n + "Var"
	g.Fmt("\n// %s is the runtime form of %s: each alternative member holds its\n// group's tagged union value, pairing the active option with its payload.\n", vn, s.Name)
	g.Fmt("type %s struct {\n", vn)
	for _, m := range ms {
		if m.group != nil {
			g.Fmt("\t%s %s\n", m.field, m.gname)
		} else {
			g.Fmt("\t%s %s\n", m.field, m.typ)
		}
	}
	g.Fmt("}\n\n")
	g.Fmt("// New%s returns a value with every alternative member at its group default.\n", vn)
	g.Fmt("func New%[1]s() *%[1]s {\n\treturn &%[1]s{\n", vn)
	for _, m := range ms {
		if m.group != nil {
			g.Fmt("\t\t%s: Default%s(),\n", m.field, m.gname)
		}
	}
	g.Fmt("\t}\n}\n")
	for i := range ms {
		writeAccessors(g, vn, "", ms[i], true)
	}
	var fixed uint32
	for _, m := range ms {
		fixed += m.bytes
	}
	g.Fmt("\n// Size returns the serialized byte count of the active configuration.\n")
	g.Fmt("func (v *%s) Size() int {\n\treturn ", vn)
	first := true
	if fixed > 0 {
		g.Fmt("%d", fixed)
		first = false
	}
	for _, m := range ms {
		if m.group == nil {
			continue
		}
		if !first {
			g.Fmt(" + ")
		}
		g.Fmt("v.%s.Size()", m.field)
		first = false
	}
	g.Fmt("\n}\n")
	g.Fmt("\n// MarshalBinary writes the members in declaration order, little endian,\n// with no padding. Alternative members write their active option's own\n// representation; no tag byte is written.\n")
	g.Fmt("func (v *%s) MarshalBinary() ([]byte, error) {\n\tb := make([]byte, 0, v.Size())\n", vn)
	firstAlt := true
	for _, m := range ms {
		if m.group == nil {
			writeAppend(g, m)
			continue
		}
		if firstAlt {
			g.Fmt("\tp, err := v.%s.MarshalBinary()\n", m.field)
			firstAlt = false
		} else {
			g.Fmt("\tp, err = v.%s.MarshalBinary()\n", m.field)
		}
		g.Fmt("\tif err != nil {\n\t\treturn nil, err\n\t}\n\tb = append(b, p...)\n")
	}
	g.Fmt("\treturn b, nil\n}\n")
}

func writeAccessors(g *gen.Gen, n, targs string, m member, flat bool) {
	rt := n + targs
	switch {
	case m.group != nil && !flat:
		t := fmt.Sprintf("T%d", m.param)
		if targs == "" {
			t = m.name
		}
		g.Fmt("\n// %s reads the %s member.\n", m.name, m.m.Name)
		g.Fmt("func (v *%s) %s() %s { return v.%s }\n", rt, m.name, t, m.field)
		g.Fmt("\n// Set%s writes the %s member.\n", m.name, m.m.Name)
		g.Fmt("func (v *%[1]s) Set%[2]s(x %[3]s) *%[1]s {\n\tv.%[4]s = x\n\treturn v\n}\n",
			rt, m.name, t, m.field)
	case m.group != nil:
		g.Fmt("\n// %s reads the %s member.\n", m.name, m.m.Name)
		g.Fmt("func (v *%s) %s() %s { return v.%s }\n", rt, m.name, m.gname, m.field)
		g.Fmt("\n// Modify%s applies fn to the %s member and stores the result,\n// returning the structure for chaining.\n", m.name, m.m.Name)
		g.Fmt("func (v *%[1]s) Modify%[2]s(fn func(%[3]s) %[3]s) *%[1]s {\n\tv.%[4]s = fn(v.%[4]s)\n\treturn v\n}\n",
			rt, m.name, m.gname, m.field)
	case m.reg != "":
		g.Fmt("\n// %s reads the %s register member.\n", m.name, m.m.Name)
		g.Fmt("func (v *%[1]s) %[2]s() %[3]sR { return New%[3]sR(v.%[4]s) }\n", rt, m.name, m.reg, m.field)
		g.Fmt("\n// Modify%s applies fn to a %s register writer and stores the result,\n// returning the structure for chaining.\n", m.name, m.m.Name)
		g.Fmt("func (v *%[1]s) Modify%[2]s(fn func(*%[3]sW)) *%[1]s {\n\tw := New%[3]sW(v.%[4]s)\n\tfn(w)\n\tv.%[4]s = w.Bits()\n\treturn v\n}\n",
			rt, m.name, m.reg, m.field)
	default:
		g.Fmt("\n// %s reads the %s member.\n", m.name, m.m.Name)
		g.Fmt("func (v *%s) %s() %s { return v.%s }\n", rt, m.name, m.typ, m.field)
		g.Fmt("\n// Set%s writes the %s member.\n", m.name, m.m.Name)
		g.Fmt("func (v *%[1]s) Set%[2]s(x %[3]s) *%[1]s {\n\tv.%[4]s = x\n\treturn v\n}\n",
			rt, m.name, m.typ, m.field)
	}
}

func writeAppend(g *gen.Gen, m member) {
	switch m.bytes {
	case 1:
		g.Fmt("\tb = append(b, v.%s)\n", m.field)
	case 2:
		g.Imports.Add("encoding/binary")
		g.Fmt("\tb = binary.LittleEndian.AppendUint16(b, v.%s)\n", m.field)
	case 4:
		g.Imports.Add("encoding/binary")
		g.Fmt("\tb = binary.LittleEndian.AppendUint32(b, v.%s)\n", m.field)
	case 8:
		g.Imports.Add("encoding/binary")
		g.Fmt("\tb = binary.LittleEndian.AppendUint64(b, v.%s)\n", m.field)
	}
}

func writeRead(g *gen.Gen, m member, off uint32) {
	switch m.bytes {
	case 1:
		g.Fmt("\tv.%s = data[%d]\n", m.field, off)
	case 2:
		g.Imports.Add("encoding/binary")
		g.Fmt("\tv.%s = binary.LittleEndian.Uint16(data[%d:%d])\n", m.field, off, off+2)
	case 4:
		g.Imports.Add("encoding/binary")
		g.Fmt("\tv.%s = binary.LittleEndian.Uint32(data[%d:%d])\n", m.field, off, off+4)
	case 8:
		g.Imports.Add("encoding/binary")
		g.Fmt("\tv.%s = binary.LittleEndian.Uint64(data[%d:%d])\n", m.field, off, off+8)
	}
}

// WriteAlternatives emits, per registered group, the option constraint
// interface, the tagged union interface with one marker method per option,
// the default constructor and one decoder per option. The wire format
// carries no discriminant, so callers pick the option to read from external
// context, such as a sibling addressing mode field.
func WriteAlternatives(g *gen.Gen, alts *schema.Alternatives) error {
	for i, grp := range alts.List() {
		if i != 0 {
			g.Byte('\n')
		}
		gn := GoName(grp.Name)
		g.Fmt("// %sOption constrains a %s member slot to the group's option layouts.\n", gn, grp.Name)
		g.Fmt("type %sOption interface {\n\t", gn)
		for j, o := range grp.Options {
			if j > 0 {
				g.Fmt(" | ")
			}
			g.Fmt("%s", GoName(o.Name))
		}
		g.Fmt("\n}\n\n")
		g.Fmt("// %s holds exactly one %s option layout as a tagged value.\n", gn, grp.Name)
		g.Fmt("type %[1]s interface {\n\tis%[1]s()\n\tSize() int\n\tMarshalBinary() ([]byte, error)\n}\n", gn)
		for _, o := range grp.Options {
			g.Fmt("\nfunc (*%s) is%s() {}\n", GoName(o.Name), gn)
		}
		g.Fmt("\n// Default%s returns the group default, a %s value.\n", gn, grp.Default().Name)
		g.Fmt("func Default%[1]s() %[1]s { return New%[2]s() }\n", gn, GoName(grp.Default().Name))
		for _, o := range grp.Options {
			on := GoName(o.Name)
			g.Fmt("\n// Read%[1]s%[2]s decodes data as the %[3]s option.\n", gn, on, o.Name)
			g.Fmt("func Read%[1]s%[2]s(data []byte) (%[1]s, error) {\n\tv := New%[2]s()\n\tif err := v.UnmarshalBinary(data); err != nil {\n\t\treturn nil, err\n\t}\n\treturn v, nil\n}\n", gn, on)
		}
	}
	return nil
}
