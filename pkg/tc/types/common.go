package types

import (
	"fmt"
)

const (
	// HandleRoot is the parent handle of a root qdisc
	HandleRoot uint32 = 0xffffffff
)

// CmdLineGenerator is an interface for generating tc command line args for a tc object
type CmdLineGenerator interface {
	// GenCmdLineArgs returns tc command line arguments which can be incorporated
	// when invoking tc command via shell
	GenCmdLineArgs() []string
}

// MakeHandle returns the tc handle major:minor
func MakeHandle(major, minor uint16) uint32 {
	return uint32(major)<<16 | uint32(minor)
}

// MajorMinor splits a tc handle into its major and minor parts
func MajorMinor(handle uint32) (uint16, uint16) {
	return uint16(handle >> 16), uint16(handle & 0xffff)
}

// FormatHandle returns handle in tc notation, e.g 1:a
func FormatHandle(handle uint32) string {
	if handle == HandleRoot {
		return "root"
	}
	major, minor := MajorMinor(handle)
	return fmt.Sprintf("%x:%x", major, minor)
}
