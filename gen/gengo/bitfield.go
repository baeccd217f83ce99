package gengo

import (
	"fmt"

	"github.com/rudihorn/prot2go/gen"
	"github.com/rudihorn/prot2go/schema"
)

// WriteBitField emits a reader and writer pair for the register schema plus
// one enumerated value type per enumerated field. Fields pack LSB first in
// slot order; the writer updates are masked so bits outside the addressed
// field are never touched.
func WriteBitField(g *gen.Gen, b *schema.BitField) error {
	lay, err := b.Layout()
	if err != nil {
		return err
	}
	size, err := b.Size()
	if err != nil {
		return err
	}
	sty, err := GoRegType(size)
	if err != nil {
		return fmt.Errorf("bitfield %s: %w", b.Name, err)
	}
	n := GoName(b.Name)
	g.Fmt("// %sR reads the %s register fields.\n", n, b.Name)
	if b.Doc != "" {
		g.Prepend(b.Doc, "// ")
	}
	g.Fmt("type %sR struct {\n\tbits %s\n}\n\n", n, sty)
	g.Fmt("func New%[1]sR(bits %[2]s) %[1]sR { return %[1]sR{bits} }\n\n", n, sty)
	g.Fmt("// Bits returns the raw register value.\n")
	g.Fmt("func (r %sR) Bits() %s { return r.bits }\n\n", n, sty)
	g.Fmt("// %sW writes the %s register fields.\n", n, b.Name)
	g.Fmt("type %sW struct {\n\tbits %s\n}\n\n", n, sty)
	g.Fmt("func New%[1]sW(bits %[2]s) *%[1]sW { return &%[1]sW{bits} }\n\n", n, sty)
	g.Fmt("// Bits returns the raw register value.\n")
	g.Fmt("func (w *%sW) Bits() %s { return w.bits }\n", n, sty)
	for _, l := range lay {
		if err := writeField(g, b, n, sty, l); err != nil {
			return err
		}
	}
	return nil
}

func writeField(g *gen.Gen, b *schema.BitField, n, sty string, l schema.FieldLayout) error {
	f := l.Field
	fty, err := GoType(f.Bits)
	if err != nil {
		return fmt.Errorf("bitfield %s field %s: %w", b.Name, f.Name, err)
	}
	fn := GoName(f.Name)
	enum := len(f.Enums) > 0
	bit := f.Bits == 1
	ety := fty
	if bit {
		ety = "uint8"
	}
	mask := hex(l.Mask)
	smask := hex(l.Mask << l.Offset)
	if enum {
		g.Fmt("\n// %s enumerates the declared %s values.\n", fn, f.Name)
		g.Fmt("type %s %s\n\n", fn, ety)
		g.Fmt("const (\n")
		for _, ev := range f.Enums {
			if ev.Doc != "" {
				g.Prepend(ev.Doc, "\t// ")
			}
			g.Fmt("\t%s%s %s = %d\n", fn, GoName(ev.Name), fn, ev.Val)
		}
		g.Fmt(")\n")
	}
	g.Fmt("\n// %s reads the %s field.\n", fn, f.Name)
	if f.Doc != "" {
		g.Prepend(f.Doc, "// ")
	}
	switch {
	case bit:
		g.Fmt("func (r %[1]sR) %[2]s() %[2]sR {\n\treturn %[2]sR{r.bits&%[3]s != 0}\n}\n", n, fn, smask)
	case fty == sty:
		g.Fmt("func (r %[1]sR) %[2]s() %[2]sR {\n\treturn %[2]sR{r.bits >> %[3]d & %[4]s}\n}\n",
			n, fn, l.Offset, mask)
	default:
		g.Fmt("func (r %[1]sR) %[2]s() %[2]sR {\n\treturn %[2]sR{%[5]s(r.bits >> %[3]d & %[4]s)}\n}\n",
			n, fn, l.Offset, mask, fty)
	}
	g.Fmt("\n// %sR is the %s field reader.\n", fn, f.Name)
	g.Fmt("type %sR struct {\n\tbits %s\n}\n\n", fn, fty)
	if bit {
		g.Fmt("// Bit returns the raw field bit.\n")
		g.Fmt("func (r %sR) Bit() bool { return r.bits }\n", fn)
	} else {
		g.Fmt("// Bits returns the raw field value.\n")
		g.Fmt("func (r %[1]sR) Bits() %[2]s { return r.bits }\n", fn, fty)
	}
	if enum {
		writeVariantReader(g, f, fn, bit)
	}
	g.Fmt("\n// %s writes the %s field.\n", fn, f.Name)
	g.Fmt("func (w *%[1]sW) %[2]s() %[2]sW { return %[2]sW{w} }\n", n, fn)
	g.Fmt("\n// %sW is the %s field writer.\n", fn, f.Name)
	g.Fmt("type %sW struct {\n\tw *%sW\n}\n\n", fn, n)
	if bit {
		g.Fmt("// Bit writes the raw field bit, leaving all other register bits unchanged.\n")
		g.Fmt("func (f %[1]sW) Bit(v bool) *%[2]sW {\n\tf.w.bits &^= %[3]s\n\tif v {\n\t\tf.w.bits |= %[3]s\n\t}\n\treturn f.w\n}\n",
			fn, n, smask)
	} else {
		g.Fmt("// Bits writes a raw field value, leaving all other register bits unchanged.\n")
		if fty == sty {
			g.Fmt("func (f %[1]sW) Bits(v %[3]s) *%[2]sW {\n\tf.w.bits = f.w.bits&^(%[4]s<<%[5]d) | (v&%[4]s)<<%[5]d\n\treturn f.w\n}\n",
				fn, n, fty, mask, l.Offset)
		} else {
			g.Fmt("func (f %[1]sW) Bits(v %[3]s) *%[2]sW {\n\tf.w.bits = f.w.bits&^(%[4]s<<%[5]d) | (%[6]s(v)&%[4]s)<<%[5]d\n\treturn f.w\n}\n",
				fn, n, fty, mask, l.Offset, sty)
		}
	}
	if enum {
		writeVariantWriter(g, f, fn, n, fty, bit)
	}
	return nil
}

// writeVariantReader emits the total decode of raw bits into a declared
// value. Undeclared raw values are reported, not treated as unreachable.
func writeVariantReader(g *gen.Gen, f *schema.Field, fn string, bit bool) {
	g.Fmt("\n// Variant decodes the field. The bool reports whether the raw value\n// matches a declared value.\n")
	if bit {
		var zero, one string
		for _, ev := range f.Enums {
			if ev.Val == 0 && zero == "" {
				zero = fn + GoName(ev.Name)
			}
			if ev.Val == 1 && one == "" {
				one = fn + GoName(ev.Name)
			}
		}
		g.Fmt("func (r %[1]sR) Variant() (%[1]s, bool) {\n", fn)
		if one != "" {
			g.Fmt("\tif r.bits {\n\t\treturn %s, true\n\t}\n", one)
		} else {
			g.Fmt("\tif r.bits {\n\t\treturn %s(1), false\n\t}\n", fn)
		}
		if zero != "" {
			g.Fmt("\treturn %s, true\n}\n", zero)
		} else {
			g.Fmt("\treturn %s(0), false\n}\n", fn)
		}
	} else {
		g.Fmt("func (r %[1]sR) Variant() (%[1]s, bool) {\n\tswitch %[1]s(r.bits) {\n\tcase ", fn)
		for i, ev := range f.Enums {
			if i > 0 {
				g.Fmt(", ")
			}
			g.Fmt("%s%s", fn, GoName(ev.Name))
		}
		g.Fmt(":\n\t\treturn %[1]s(r.bits), true\n\t}\n\treturn %[1]s(r.bits), false\n}\n", fn)
	}
	for _, ev := range f.Enums {
		vn := GoName(ev.Name)
		g.Fmt("\n// Is%s checks if the field value is %s%s.\n", vn, fn, vn)
		switch {
		case bit && ev.Val != 0:
			g.Fmt("func (r %sR) Is%s() bool { return r.bits }\n", fn, vn)
		case bit:
			g.Fmt("func (r %sR) Is%s() bool { return !r.bits }\n", fn, vn)
		default:
			g.Fmt("func (r %[1]sR) Is%[2]s() bool { return %[1]s(r.bits) == %[1]s%[2]s }\n", fn, vn)
		}
	}
}

func writeVariantWriter(g *gen.Gen, f *schema.Field, fn, n, fty string, bit bool) {
	g.Fmt("\n// Variant writes a declared value.\n")
	if bit {
		g.Fmt("func (f %[1]sW) Variant(v %[1]s) *%[2]sW { return f.Bit(v != 0) }\n", fn, n)
	} else {
		g.Fmt("func (f %[1]sW) Variant(v %[1]s) *%[2]sW { return f.Bits(%[3]s(v)) }\n", fn, n, fty)
	}
	for _, ev := range f.Enums {
		vn := GoName(ev.Name)
		g.Fmt("\n// %s sets the %s field to %s%s.\n", vn, f.Name, fn, vn)
		if bit {
			g.Fmt("func (f %[1]sW) %[2]s() *%[3]sW { return f.Bit(%[4]v) }\n", fn, vn, n, ev.Val != 0)
		} else {
			g.Fmt("func (f %[1]sW) %[2]s() *%[3]sW { return f.Variant(%[1]s%[2]s) }\n", fn, vn, n)
		}
	}
}
