package types

import (
	"fmt"

	"golang.org/x/sys/unix"
)

const (
	// IfNameSize is the size of the interface name field, including the terminating NUL
	IfNameSize = unix.IFNAMSIZ
	// QNameSize is the size of the queue name field, including the terminating NUL
	QNameSize = 64

	// DefaultQLimit is the queue limit (in packets) used when none was configured
	DefaultQLimit = 50
	// DefaultMTU is used when the interface MTU cannot be determined
	DefaultMTU = 1500
	// MCLBytes is the size of a kernel mbuf cluster
	MCLBytes = 2048
)

const (
	SchedulerNone SchedulerKind = iota
	SchedulerCBQ
	SchedulerPRIQ
	SchedulerHFSC
)

// SchedulerKind is the queueing discipline attached to an interface
type SchedulerKind int

// String returns the scheduler keyword
func (s SchedulerKind) String() string {
	switch s {
	case SchedulerNone:
		return "none"
	case SchedulerCBQ:
		return "cbq"
	case SchedulerPRIQ:
		return "priq"
	case SchedulerHFSC:
		return "hfsc"
	}
	return fmt.Sprintf("Unknown(%d)", int(s))
}

// ParseSchedulerKind converts a scheduler keyword to SchedulerKind
func ParseSchedulerKind(s string) (SchedulerKind, error) {
	switch s {
	case "", "none":
		return SchedulerNone, nil
	case "cbq":
		return SchedulerCBQ, nil
	case "priq":
		return SchedulerPRIQ, nil
	case "hfsc":
		return SchedulerHFSC, nil
	}
	return SchedulerNone, fmt.Errorf("unknown scheduler: %q", s)
}

// BandwidthSpec is a requested bandwidth, either absolute (bits/sec) or a percentage of the
// parent (or link) bandwidth. Absolute takes precedence when both are set.
type BandwidthSpec struct {
	Absolute uint64
	Percent  uint32
}

// IsZero returns true if neither an absolute value nor a percentage was requested
func (b BandwidthSpec) IsZero() bool {
	return b.Absolute == 0 && b.Percent == 0
}

// Eval returns the bandwidth for the spec relative to ref. percentages are applied
// to ref with integer division first, so 50% of 999 is 450.
func (b BandwidthSpec) Eval(ref uint64) uint64 {
	if b.Absolute > 0 {
		return b.Absolute
	}
	if b.Percent > 0 {
		return ref / 100 * uint64(b.Percent)
	}
	return 0
}

// QueueSpec is one configured queue, or the queue-bearing interface itself when QueueName is empty
type QueueSpec struct {
	InterfaceName string
	// QueueName is empty for the interface (root) entry
	QueueName string
	Scheduler SchedulerKind
	// InterfaceBandwidth is the link bandwidth in bits/sec, copied from the interface entry
	InterfaceBandwidth uint64
	// Bandwidth is the resolved bandwidth in bits/sec
	Bandwidth uint64
	// RequestedBandwidth is what the configuration asked for, resolved into Bandwidth on admission
	RequestedBandwidth BandwidthSpec
	ParentName         string
	ParentID           uint32
	QID                uint32
	QLimit             uint32
	Priority           uint8
	// TBRSize is the token bucket regulator depth in bytes, interface entries only
	TBRSize uint32

	CBQOpts CBQOpts
}

// IsInterface returns true if spec is the interface (root) entry
func (q *QueueSpec) IsInterface() bool {
	return q.QueueName == ""
}

// HasParent returns true if the queue references a parent queue
func (q *QueueSpec) HasParent() bool {
	return q.ParentName != ""
}

// String returns a short identifier of the queue for logs and errors
func (q *QueueSpec) String() string {
	if q.IsInterface() {
		return fmt.Sprintf("altq on %s", q.InterfaceName)
	}
	return fmt.Sprintf("queue %s on %s", q.QueueName, q.InterfaceName)
}

// DeepCopy returns a copy of the queue spec. QueueSpec holds no reference types so a value copy suffices.
func (q *QueueSpec) DeepCopy() *QueueSpec {
	c := *q
	return &c
}
