package types

import "strings"

const (
	CBQFlagRED CBQFlags = 1 << iota
	CBQFlagECN
	CBQFlagRIO
	CBQFlagClearDSCP
	CBQFlagFlowValve
	CBQFlagBorrow
	CBQFlagWRR
	CBQFlagEfficient
	CBQFlagRootClass
	CBQFlagDefaultClass
)

// CBQMaxPriority is the number of CBQ priority levels
const CBQMaxPriority = 8

var cbqFlagNames = []struct {
	flag CBQFlags
	name string
}{
	{CBQFlagRED, "red"},
	{CBQFlagECN, "ecn"},
	{CBQFlagRIO, "rio"},
	{CBQFlagClearDSCP, "cleardscp"},
	{CBQFlagFlowValve, "flowvalve"},
	{CBQFlagBorrow, "borrow"},
	{CBQFlagWRR, "wrr"},
	{CBQFlagEfficient, "efficient"},
	{CBQFlagRootClass, "root"},
	{CBQFlagDefaultClass, "default"},
}

// CBQFlags is the class flag bitset passed to the kernel scheduler
type CBQFlags uint32

// Has returns true if all bits of f are set
func (c CBQFlags) Has(f CBQFlags) bool {
	return c&f == f
}

// Names returns the keyword of every set flag in bit order
func (c CBQFlags) Names() []string {
	names := []string{}
	for _, fn := range cbqFlagNames {
		if c.Has(fn.flag) {
			names = append(names, fn.name)
		}
	}
	return names
}

// String implements fmt.Stringer
func (c CBQFlags) String() string {
	return strings.Join(c.Names(), " ")
}

// ParseCBQFlag converts a flag keyword to CBQFlags, returns false if the keyword is unknown
func ParseCBQFlag(name string) (CBQFlags, bool) {
	for _, fn := range cbqFlagNames {
		if fn.name == name {
			return fn.flag, true
		}
	}
	return 0, false
}

// CBQOpts holds the CBQ class options. Field widths follow the kernel ABI.
type CBQOpts struct {
	MinBurst      uint32
	MaxBurst      uint32
	PacketSize    uint32
	MaxPacketSize uint32
	NsPerByte     uint32
	MaxIdle       uint32
	MinIdle       int32
	OffTime       uint32
	Flags         CBQFlags
}
