// Package gengo renders Go accessor code for bit field and structure schemas.
// The emitted source reads and writes the described layouts with exact bit and
// byte placement and no hidden allocation.
package gengo

import (
	"go/token"
	"strings"

	"github.com/rudihorn/prot2go/gen"
	"xelf.org/xelf/cor"
)

// NewGen returns a generation context for one output file of package pkg.
func NewGen(pkg string) *gen.Gen {
	return &gen.Gen{Pkg: pkg, Header: "// Code generated by prot2go. DO NOT EDIT.\n\n"}
}

// Schema names may use chars that are not valid in a Go identifier.
const blacklist = "()[]/"

func isSep(r rune) bool { return r == '_' || r == '-' || r == ' ' || r == '.' }

// GoName converts a free form schema name to an exported Go identifier.
// Blacklisted chars are stripped, separator chars split words and each word
// is cased. A leading digit is guarded with an X.
func GoName(name string) string {
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(blacklist, r) {
			return -1
		}
		return r
	}, name)
	var b strings.Builder
	for _, part := range strings.FieldsFunc(name, isSep) {
		b.WriteString(cor.Cased(strings.ToLower(part)))
	}
	s := b.String()
	if s == "" || s[0] >= '0' && s[0] <= '9' {
		s = "X" + s
	}
	return s
}

// unexported lowers the first rune of an exported identifier for use as a
// generated struct field name, guarding Go keywords.
func unexported(name string) string {
	s := strings.ToLower(name[:1]) + name[1:]
	if token.IsKeyword(s) {
		s += "_"
	}
	return s
}
