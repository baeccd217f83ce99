package log

import "testing"

func TestLine(t *testing.T) {
	got := line("ERR ", "boom", []interface{}{"key", 1}, []interface{}{"tag", "x"})
	want := "ERR boom key=1 tag=x"
	if got != want {
		t.Errorf("want %q got %q", want, got)
	}
}

func TestWith(t *testing.T) {
	l := (&Default{}).with("a", 1)
	l2 := l.with("b", 2)
	if len(l2.Tags) != 4 || l2.Tags[0] != "b" || l2.Tags[2] != "a" {
		t.Errorf("want new tags before inherited got %v", l2.Tags)
	}
	if len(l.Tags) != 2 {
		t.Errorf("parent logger must keep its tags got %v", l.Tags)
	}
}
