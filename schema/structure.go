package schema

import (
	"errors"
	"fmt"
)

// ErrUnknownGroup reports a member referencing an undeclared alternative group.
var ErrUnknownGroup = errors.New("unknown alternative group")

// Member is one structure member in wire order. The kind is derived: a set Alt
// names an alternative group, a set BitField references a register layout,
// otherwise the member is a primitive of Bytes bytes.
type Member struct {
	Name     string
	Bytes    uint32
	BitField *BitField
	Alt      string
}

// Structure describes a densely packed record. Member order is the wire order,
// with no padding between members.
type Structure struct {
	Name    string
	Members []Member
}

func NewStructure(name string) *Structure { return &Structure{Name: name} }

// AddPrim appends an unsigned integer member of the given byte width.
func (s *Structure) AddPrim(name string, bytes uint32) *Structure {
	s.Members = append(s.Members, Member{Name: name, Bytes: bytes})
	return s
}

func (s *Structure) AddUint8(name string) *Structure  { return s.AddPrim(name, 1) }
func (s *Structure) AddUint16(name string) *Structure { return s.AddPrim(name, 2) }
func (s *Structure) AddUint32(name string) *Structure { return s.AddPrim(name, 4) }
func (s *Structure) AddUint64(name string) *Structure { return s.AddPrim(name, 8) }

// AddBitField appends a member backed by the given register layout.
func (s *Structure) AddBitField(name string, bf *BitField) *Structure {
	s.Members = append(s.Members, Member{Name: name, BitField: bf})
	return s
}

// AddAlt appends a member that holds one of the group's option layouts.
func (s *Structure) AddAlt(name string, g *Group) *Structure {
	s.Members = append(s.Members, Member{Name: name, Alt: g.Name})
	return s
}

// Group is a named set of mutually exclusive option layouts a member may
// hold. Options[0] is the default; the constructor inserts it, so the default
// is always part of the option list.
type Group struct {
	Name    string
	Options []*Structure
}

func NewGroup(name string, def *Structure) *Group {
	return &Group{Name: name, Options: []*Structure{def}}
}

// Add appends another option layout.
func (g *Group) Add(s *Structure) *Group {
	g.Options = append(g.Options, s)
	return g
}

// Default returns the default option layout.
func (g *Group) Default() *Structure { return g.Options[0] }

// Alternatives is the registry of alternative groups. Groups keep their
// insertion order so generated output is deterministic.
type Alternatives struct {
	list []*Group
}

func NewAlternatives(groups ...*Group) *Alternatives {
	a := &Alternatives{}
	for _, g := range groups {
		a.Insert(g)
	}
	return a
}

// Insert adds the group to the registry, replacing a same named group in place.
func (a *Alternatives) Insert(g *Group) *Alternatives {
	for i, o := range a.list {
		if o.Name == g.Name {
			a.list[i] = g
			return a
		}
	}
	a.list = append(a.list, g)
	return a
}

// List returns the registered groups in insertion order.
func (a *Alternatives) List() []*Group {
	if a == nil {
		return nil
	}
	return a.list
}

// Get returns the group for name or an error wrapping ErrUnknownGroup.
func (a *Alternatives) Get(name string) (*Group, error) {
	if a != nil {
		for _, g := range a.list {
			if g.Name == name {
				return g, nil
			}
		}
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownGroup, name)
}
