package records

import (
	"fmt"
	"net"
	"strings"

	"github.com/k8snetworkplumbingwg/altqctl/pkg/altq/types"
)

const (
	ClassFilter ResourceClass = iota
	ClassNAT
	ClassBinat
	ClassRedirect
	ClassQueue
)

// CommitOrder is the order in which resource classes are committed
var CommitOrder = []ResourceClass{ClassNAT, ClassBinat, ClassRedirect, ClassQueue, ClassFilter}

// ResourceClass is an independently ticketed group of configuration records
type ResourceClass int

// String implements fmt.Stringer
func (c ResourceClass) String() string {
	switch c {
	case ClassFilter:
		return "filter"
	case ClassNAT:
		return "nat"
	case ClassBinat:
		return "binat"
	case ClassRedirect:
		return "rdr"
	case ClassQueue:
		return "queue"
	}
	return fmt.Sprintf("Unknown(%d)", int(c))
}

const (
	ScopeFilter Scope = 1 << iota
	ScopeNAT
	ScopeQueue

	ScopeAll = ScopeFilter | ScopeNAT | ScopeQueue
)

// Scope selects the resource classes a load touches. NAT covers nat, binat and rdr.
type Scope uint

// Includes returns true if class is in scope
func (s Scope) Includes(class ResourceClass) bool {
	switch class {
	case ClassFilter:
		return s&ScopeFilter != 0
	case ClassNAT, ClassBinat, ClassRedirect:
		return s&ScopeNAT != 0
	case ClassQueue:
		return s&ScopeQueue != 0
	}
	return false
}

// Classes returns the resource classes in scope, in commit order
func (s Scope) Classes() []ResourceClass {
	out := make([]ResourceClass, 0, len(CommitOrder))
	for _, c := range CommitOrder {
		if s.Includes(c) {
			out = append(out, c)
		}
	}
	return out
}

// String implements fmt.Stringer
func (s Scope) String() string {
	if s == ScopeAll {
		return "all"
	}
	var parts []string
	if s&ScopeFilter != 0 {
		parts = append(parts, "filter")
	}
	if s&ScopeNAT != 0 {
		parts = append(parts, "nat")
	}
	if s&ScopeQueue != 0 {
		parts = append(parts, "queue")
	}
	return strings.Join(parts, ",")
}

// ParseScope converts a scope keyword (all, filter, nat, queue) to Scope
func ParseScope(s string) (Scope, error) {
	switch s {
	case "all", "":
		return ScopeAll, nil
	case "filter":
		return ScopeFilter, nil
	case "nat":
		return ScopeNAT, nil
	case "queue":
		return ScopeQueue, nil
	}
	return 0, fmt.Errorf("unknown load scope: %q", s)
}

// Record is a configuration record routed to one resource class
type Record interface {
	// Class returns the resource class the record belongs to
	Class() ResourceClass
	// String returns a short description used in logs and errors
	String() string
}

// Queue is an interface or queue declaration
type Queue struct {
	Spec *types.QueueSpec
}

// Class implements Record
func (q *Queue) Class() ResourceClass {
	return ClassQueue
}

// String implements Record
func (q *Queue) String() string {
	return q.Spec.String()
}

const (
	ActionPass Action = "pass"
	ActionDrop Action = "block"

	DirectionIn  Direction = "in"
	DirectionOut Direction = "out"

	ProtocolTCP Protocol = "tcp"
	ProtocolUDP Protocol = "udp"
)

// Action is the action of a filter rule
type Action string

// Direction is the packet direction a rule applies to
type Direction string

// Protocol is the IP protocol a rule matches
type Protocol string

// Match holds the packet match of a rule. nil / zero fields match anything.
type Match struct {
	Interface string
	Protocol  Protocol
	Src       *net.IPNet
	Dst       *net.IPNet
	DstPort   uint16
}

// String returns the pf-like textual form of the match
func (m *Match) String() string {
	parts := []string{}
	if m.Interface != "" {
		parts = append(parts, "on", m.Interface)
	}
	if m.Protocol != "" {
		parts = append(parts, "proto", string(m.Protocol))
	}
	parts = append(parts, "from", ipNetString(m.Src), "to", ipNetString(m.Dst))
	if m.DstPort != 0 {
		parts = append(parts, "port", fmt.Sprint(m.DstPort))
	}
	return strings.Join(parts, " ")
}

// FilterRule is a packet filter rule, optionally assigning matched traffic to a queue
type FilterRule struct {
	Action    Action
	Direction Direction
	Quick     bool
	Match     Match
	Queue     string
}

// Class implements Record
func (r *FilterRule) Class() ResourceClass {
	return ClassFilter
}

// String implements Record
func (r *FilterRule) String() string {
	s := fmt.Sprintf("%s %s %s", r.Action, r.Direction, r.Match.String())
	if r.Queue != "" {
		s += " queue " + r.Queue
	}
	return s
}

// NatRule translates the source address of matched packets
type NatRule struct {
	Match     Match
	Translate *net.IPNet
}

// Class implements Record
func (r *NatRule) Class() ResourceClass {
	return ClassNAT
}

// String implements Record
func (r *NatRule) String() string {
	return fmt.Sprintf("nat %s -> %s", r.Match.String(), ipNetString(r.Translate))
}

// BinatRule is a bidirectional one to one address mapping
type BinatRule struct {
	Interface string
	Internal  *net.IPNet
	External  *net.IPNet
}

// Class implements Record
func (r *BinatRule) Class() ResourceClass {
	return ClassBinat
}

// String implements Record
func (r *BinatRule) String() string {
	return fmt.Sprintf("binat on %s from %s to any -> %s", r.Interface,
		ipNetString(r.Internal), ipNetString(r.External))
}

// RedirectRule redirects matched packets to another address and port
type RedirectRule struct {
	Match      Match
	Target     *net.IPNet
	TargetPort uint16
}

// Class implements Record
func (r *RedirectRule) Class() ResourceClass {
	return ClassRedirect
}

// String implements Record
func (r *RedirectRule) String() string {
	s := fmt.Sprintf("rdr %s -> %s", r.Match.String(), ipNetString(r.Target))
	if r.TargetPort != 0 {
		s += fmt.Sprintf(" port %d", r.TargetPort)
	}
	return s
}

func ipNetString(n *net.IPNet) string {
	if n == nil {
		return "any"
	}
	return n.String()
}
