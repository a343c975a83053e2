package types

import (
	"fmt"
)

const (
	ClassHTBType ClassType = "htb"
)

// ClassType is the type of a class, it matches the type of the qdisc the class belongs to
type ClassType string

// ClassAttrs holds Class object attributes
type ClassAttrs struct {
	Parent uint32
	Handle uint32
}

// GenCmdLineArgs implements CmdLineGenerator interface
func (ca *ClassAttrs) GenCmdLineArgs() []string {
	return []string{"parent", FormatHandle(ca.Parent), "classid", FormatHandle(ca.Handle)}
}

// Class is an interface which represents a TC class object
type Class interface {
	// Attrs returns ClassAttrs for a class
	Attrs() *ClassAttrs
	// Type returns the Class type
	Type() ClassType
	// Equals returns true if both classes have the same attributes and parameters
	Equals(Class) bool

	// Driver Specific related Interfaces
	CmdLineGenerator
}

// HTBClass is a hierarchical token bucket class. Rate and Ceil are in bits/sec.
type HTBClass struct {
	ClassAttrs
	Rate uint64
	Ceil uint64
	Prio uint32
}

// Attrs implements Class interface
func (h *HTBClass) Attrs() *ClassAttrs {
	return &h.ClassAttrs
}

// Type implements Class interface
func (h *HTBClass) Type() ClassType {
	return ClassHTBType
}

// Equals implements Class interface
func (h *HTBClass) Equals(other Class) bool {
	o, ok := other.(*HTBClass)
	if !ok {
		return false
	}
	return *h == *o
}

// GenCmdLineArgs implements CmdLineGenerator interface
func (h *HTBClass) GenCmdLineArgs() []string {
	args := h.ClassAttrs.GenCmdLineArgs()
	args = append(args, string(ClassHTBType),
		"rate", fmt.Sprintf("%dbit", h.Rate),
		"ceil", fmt.Sprintf("%dbit", h.Ceil),
		"prio", fmt.Sprintf("%d", h.Prio))
	return args
}

// NewHTBClassBuilder returns a new HTBClassBuilder
func NewHTBClassBuilder() *HTBClassBuilder {
	return &HTBClassBuilder{}
}

// HTBClassBuilder is an HTBClass builder
type HTBClassBuilder struct {
	class HTBClass
}

// WithParent sets the parent handle
func (hb *HTBClassBuilder) WithParent(p uint32) *HTBClassBuilder {
	hb.class.Parent = p
	return hb
}

// WithHandle sets the class handle (classid)
func (hb *HTBClassBuilder) WithHandle(h uint32) *HTBClassBuilder {
	hb.class.Handle = h
	return hb
}

// WithRate sets the guaranteed rate in bits/sec
func (hb *HTBClassBuilder) WithRate(bps uint64) *HTBClassBuilder {
	hb.class.Rate = bps
	return hb
}

// WithCeil sets the maximum rate in bits/sec
func (hb *HTBClassBuilder) WithCeil(bps uint64) *HTBClassBuilder {
	hb.class.Ceil = bps
	return hb
}

// WithPrio sets the class priority
func (hb *HTBClassBuilder) WithPrio(prio uint32) *HTBClassBuilder {
	hb.class.Prio = prio
	return hb
}

// Build builds and returns a new HTBClass instance. Ceil defaults to Rate.
func (hb *HTBClassBuilder) Build() *HTBClass {
	c := hb.class
	if c.Ceil == 0 {
		c.Ceil = c.Rate
	}
	return &c
}
