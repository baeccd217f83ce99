package gengo

import (
	"bytes"
	"fmt"
	"go/format"
	"os"
	"path/filepath"
	"strings"

	"github.com/rudihorn/prot2go/gen"
	"github.com/rudihorn/prot2go/schema"
	"xelf.org/xelf/bfr"
)

// File collects the generated declarations for one Go source file and renders
// them with package and import declarations as formatted source.
type File struct {
	g *gen.Gen
	b *bytes.Buffer
}

// NewFile returns a file sink generating package pkg, which can be a full
// import path. Callers must call Close to release the buffer.
func NewFile(pkg string) *File {
	b := bfr.Get()
	g := NewGen(pkg)
	g.P = bfr.P{Writer: b, Tab: "\t"}
	return &File{g: g, b: b}
}

// Close releases the file buffer back to the pool.
func (f *File) Close() {
	if f.b != nil {
		bfr.Put(f.b)
		f.b, f.g = nil, nil
	}
}

// BitField renders the register reader and writer declarations for b.
func (f *File) BitField(b *schema.BitField) error {
	f.g.Byte('\n')
	if err := WriteBitField(f.g, b); err != nil {
		return fmt.Errorf("write bitfield %s: %w", b.Name, err)
	}
	return nil
}

// Structure renders the record declarations for s, resolving alternative
// members against alts.
func (f *File) Structure(s *schema.Structure, alts *schema.Alternatives) error {
	f.g.Byte('\n')
	if err := WriteStructure(f.g, s, alts); err != nil {
		return fmt.Errorf("write structure %s: %w", s.Name, err)
	}
	return nil
}

// Alternatives renders the union declarations for every registered group.
func (f *File) Alternatives(alts *schema.Alternatives) error {
	f.g.Byte('\n')
	if err := WriteAlternatives(f.g, alts); err != nil {
		return fmt.Errorf("write alternatives: %w", err)
	}
	return nil
}

// Bytes assembles header, package clause and the collected imports around the
// written declarations and returns the formatted source.
func (f *File) Bytes() ([]byte, error) {
	g := f.g
	b := bfr.Get()
	defer bfr.Put(b)
	// swap new buffer with context buffer for the file head
	tmp := g.Writer
	g.Writer = b
	g.Fmt("%spackage %s\n", g.Header, pkgName(g.Pkg))
	if len(g.Imports.List) > 0 {
		g.Fmt("\nimport (\n")
		groups := groupImports(g.Imports.List, "github", "xelf")
		for i, gr := range groups {
			if i != 0 {
				g.Byte('\n')
			}
			for _, im := range gr {
				g.Fmt("\t\"%s\"\n", im)
			}
		}
		g.Fmt(")\n")
	}
	// swap back
	g.Writer = tmp
	b.Write(f.b.Bytes())
	res, err := format.Source(b.Bytes())
	if err != nil {
		return nil, fmt.Errorf("format %s: %w", b.Bytes(), err)
	}
	return res, nil
}

// WriteFile renders the file and writes it to path, creating missing parent
// directories.
func (f *File) WriteFile(path string) error {
	res, err := f.Bytes()
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err = os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	err = os.WriteFile(path, res, 0644)
	if err != nil {
		return fmt.Errorf("write file %s error: %v", path, err)
	}
	return nil
}

func pkgName(pkg string) string {
	if idx := strings.LastIndexByte(pkg, '/'); idx != -1 {
		pkg = pkg[idx+1:]
	}
	if idx := strings.IndexByte(pkg, '.'); idx != -1 {
		pkg = pkg[:idx]
	}
	return pkg
}

func groupImports(list []string, pres ...string) (res [][]string) {
	other := make([]string, 0, len(list))
	rest := make([]string, 0, len(list))
Next:
	for _, im := range list {
		for _, pre := range pres {
			if strings.HasPrefix(im, pre) {
				rest = append(rest, im)
				continue Next
			}
		}
		other = append(other, im)
	}
	if len(other) > 0 {
		res = append(res, other)
	}
	if len(rest) > 0 {
		res = append(res, rest)
	}
	return res
}
