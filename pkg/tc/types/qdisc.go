package types

import (
	"fmt"
)

const (
	QDiscHTBType QDiscType = "htb"
)

// QDiscType is the type of qdisc
type QDiscType string

// QDiscAttrs holds QDisc object attributes
type QDiscAttrs struct {
	Parent *uint32
	Handle *uint32
}

// NewQDiscAttrs creates new QDiscAttrs instance
func NewQDiscAttrs(parent, handle *uint32) *QDiscAttrs {
	return &QDiscAttrs{
		Parent: parent,
		Handle: handle,
	}
}

// GenCmdLineArgs implements CmdLineGenerator interface
func (qa *QDiscAttrs) GenCmdLineArgs() []string {
	args := []string{}
	if qa.Parent == nil || *qa.Parent == HandleRoot {
		args = append(args, "root")
	} else {
		args = append(args, "parent", FormatHandle(*qa.Parent))
	}
	if qa.Handle != nil {
		major, _ := MajorMinor(*qa.Handle)
		args = append(args, "handle", fmt.Sprintf("%x:", major))
	}
	return args
}

// QDisc is an interface which represents a TC qdisc object
type QDisc interface {
	// Attrs returns QDiscAttrs for a qdisc
	Attrs() *QDiscAttrs
	// Type returns the QDisc type
	Type() QDiscType
	// Equals returns true if both qdiscs are of the same type and have the same attributes
	Equals(QDisc) bool

	// Driver Specific related Interfaces
	CmdLineGenerator
}

// HTBQDisc is a hierarchical token bucket qdisc
type HTBQDisc struct {
	QDiscAttrs
	// DefaultClass is the minor of the class unclassified traffic is sent to
	DefaultClass uint32
}

// Attrs implements QDisc interface
func (h *HTBQDisc) Attrs() *QDiscAttrs {
	return &h.QDiscAttrs
}

// Type implements QDisc interface
func (h *HTBQDisc) Type() QDiscType {
	return QDiscHTBType
}

// Equals implements QDisc interface
func (h *HTBQDisc) Equals(other QDisc) bool {
	o, ok := other.(*HTBQDisc)
	if !ok {
		return false
	}
	return h.DefaultClass == o.DefaultClass &&
		u32Equal(h.Parent, o.Parent, HandleRoot) &&
		u32Equal(h.Handle, o.Handle, 0)
}

// GenCmdLineArgs implements CmdLineGenerator interface
func (h *HTBQDisc) GenCmdLineArgs() []string {
	args := h.QDiscAttrs.GenCmdLineArgs()
	return append(args, string(QDiscHTBType), "default", fmt.Sprintf("%x", h.DefaultClass))
}

// u32Equal compares optional values, nil equals nilVal
func u32Equal(first, second *uint32, nilVal uint32) bool {
	f, s := nilVal, nilVal
	if first != nil {
		f = *first
	}
	if second != nil {
		s = *second
	}
	return f == s
}

// Builders

// NewQDiscAttrsBuilder returns a new QDiscAttrsBuilder
func NewQDiscAttrsBuilder() *QDiscAttrsBuilder {
	return &QDiscAttrsBuilder{}
}

// QDiscAttrsBuilder is a QDiscAttrs builder
type QDiscAttrsBuilder struct {
	qDiscAttrs QDiscAttrs
}

// WithParent adds Parent to QDiscAttrsBuilder
func (qb *QDiscAttrsBuilder) WithParent(p uint32) *QDiscAttrsBuilder {
	qb.qDiscAttrs.Parent = &p
	return qb
}

// WithHandle adds Handle to QDiscAttrsBuilder
func (qb *QDiscAttrsBuilder) WithHandle(h uint32) *QDiscAttrsBuilder {
	qb.qDiscAttrs.Handle = &h
	return qb
}

// Build builds and returns a new QDiscAttrs instance
func (qb *QDiscAttrsBuilder) Build() *QDiscAttrs {
	return NewQDiscAttrs(qb.qDiscAttrs.Parent, qb.qDiscAttrs.Handle)
}

// NewHTBQDiscBuilder returns a new HTBQDiscBuilder for a root qdisc
func NewHTBQDiscBuilder() *HTBQDiscBuilder {
	return &HTBQDiscBuilder{qDiscAttrsBuilder: NewQDiscAttrsBuilder().WithParent(HandleRoot)}
}

// HTBQDiscBuilder is an HTBQDisc builder
type HTBQDiscBuilder struct {
	qDiscAttrsBuilder *QDiscAttrsBuilder
	defaultClass      uint32
}

// WithParent adds Parent to HTBQDiscBuilder
func (hb *HTBQDiscBuilder) WithParent(p uint32) *HTBQDiscBuilder {
	hb.qDiscAttrsBuilder.WithParent(p)
	return hb
}

// WithHandle adds Handle to HTBQDiscBuilder
func (hb *HTBQDiscBuilder) WithHandle(h uint32) *HTBQDiscBuilder {
	hb.qDiscAttrsBuilder.WithHandle(h)
	return hb
}

// WithDefaultClass sets the minor of the default class
func (hb *HTBQDiscBuilder) WithDefaultClass(minor uint32) *HTBQDiscBuilder {
	hb.defaultClass = minor
	return hb
}

// Build builds and returns a new HTBQDisc instance
// Note: calling Build() multiple times will not return a completely
// new object on each call. that is, pointer types will not be deep copied.
func (hb *HTBQDiscBuilder) Build() *HTBQDisc {
	return &HTBQDisc{
		QDiscAttrs:   *hb.qDiscAttrsBuilder.Build(),
		DefaultClass: hb.defaultClass,
	}
}
