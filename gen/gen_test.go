package gen

import (
	"reflect"
	"strings"
	"testing"

	"xelf.org/xelf/bfr"
)

func TestImportsAdd(t *testing.T) {
	var i Imports
	for _, p := range []string{"io", "fmt", "encoding/binary", "fmt", "io"} {
		i.Add(p)
	}
	want := []string{"encoding/binary", "fmt", "io"}
	if !reflect.DeepEqual(i.List, want) {
		t.Errorf("want %v got %v", want, i.List)
	}
}

func TestPrepend(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"one line", "// one line\n"},
		{"first\nsecond", "// first\n// second\n"},
		{"Specifies x.\n\tMore detail.", "// Specifies x.\n// More detail.\n"},
	}
	for _, test := range tests {
		var b strings.Builder
		g := &Gen{P: bfr.P{Writer: &b}}
		g.Prepend(test.text, "// ")
		if got := b.String(); got != test.want {
			t.Errorf("prepend %q want %q got %q", test.text, test.want, got)
		}
	}
}
