package netlink

import (
	"github.com/vishvananda/netlink"

	"github.com/k8snetworkplumbingwg/altqctl/pkg/tc/types"
)

// bitsPerByte converts between the byte rates kept by the kernel and bit rates
const bitsPerByte = 8

// u32ValFromPtr returns defaultVal if p is nil, else returns the value of p
func u32ValFromPtr(p *uint32, defaultVal uint32) uint32 {
	var v = defaultVal

	if p != nil {
		v = *p
	}
	return v
}

// qdiscToNlQdisc converts an HTBQDisc to netlink Htb qdisc
func qdiscToNlQdisc(qd *types.HTBQDisc, linkIdx int) *netlink.Htb {
	nlQd := netlink.NewHtb(netlink.QdiscAttrs{
		LinkIndex: linkIdx,
		Parent:    u32ValFromPtr(qd.Parent, netlink.HANDLE_ROOT),
		Handle:    u32ValFromPtr(qd.Handle, 0),
	})
	nlQd.Defcls = qd.DefaultClass
	return nlQd
}

// nlQdiscToQdisc converts a netlink Htb qdisc to HTBQDisc
func nlQdiscToQdisc(qd *netlink.Htb) *types.HTBQDisc {
	return types.NewHTBQDiscBuilder().
		WithParent(qd.Parent).
		WithHandle(qd.Handle).
		WithDefaultClass(qd.Defcls).
		Build()
}

// classToNlClass converts an HTBClass to netlink HtbClass
func classToNlClass(c *types.HTBClass, linkIdx int) *netlink.HtbClass {
	return netlink.NewHtbClass(
		netlink.ClassAttrs{
			LinkIndex: linkIdx,
			Parent:    c.Parent,
			Handle:    c.Handle,
		},
		netlink.HtbClassAttrs{
			Rate: c.Rate,
			Ceil: c.Ceil,
			Prio: c.Prio,
		})
}

// nlClassToClass converts a netlink HtbClass to HTBClass. the kernel reports top level classes
// with a root parent, those are normalized to the handle of the qdisc they belong to.
func nlClassToClass(c *netlink.HtbClass) *types.HTBClass {
	parent := c.Parent
	if parent == netlink.HANDLE_ROOT {
		major, _ := types.MajorMinor(c.Handle)
		parent = types.MakeHandle(major, 0)
	}
	return types.NewHTBClassBuilder().
		WithParent(parent).
		WithHandle(c.Handle).
		WithRate(c.Rate * bitsPerByte).
		WithCeil(c.Ceil * bitsPerByte).
		WithPrio(c.Prio).
		Build()
}
