package config

import (
	"context"
	"fmt"
	"net"

	"github.com/pkg/errors"

	altqtypes "github.com/k8snetworkplumbingwg/altqctl/pkg/altq/types"
	netpkg "github.com/k8snetworkplumbingwg/altqctl/pkg/net"
	"github.com/k8snetworkplumbingwg/altqctl/pkg/records"
	"github.com/k8snetworkplumbingwg/altqctl/pkg/utils"
)

// DefaultPriority is the priority of queues that do not set one
const DefaultPriority uint8 = 1

// Records implements transaction.Source. records are produced in file order: nat, binat and rdr
// rules, then every interface followed by its queues, then filter rules. conversion errors are
// reported when the offending record is reached, after the records before it were yielded.
func (c *Config) Records(ctx context.Context, yield func(rec records.Record) error) error {
	emit := func(rec records.Record, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		return yield(rec)
	}

	for i := range c.NAT {
		rec, err := c.NAT[i].toRecord()
		if err := emit(rec, errors.Wrapf(err, "nat rule %d", i)); err != nil {
			return err
		}
	}
	for i := range c.Binat {
		rec, err := c.Binat[i].toRecord()
		if err := emit(rec, errors.Wrapf(err, "binat rule %d", i)); err != nil {
			return err
		}
	}
	for i := range c.Redirect {
		rec, err := c.Redirect[i].toRecord()
		if err := emit(rec, errors.Wrapf(err, "rdr rule %d", i)); err != nil {
			return err
		}
	}
	for i := range c.Interfaces {
		ifc := &c.Interfaces[i]
		rec, err := ifc.toRecord()
		if err := emit(rec, errors.Wrapf(err, "interface %s", ifc.Name)); err != nil {
			return err
		}
		for j := range ifc.Queues {
			rec, err := ifc.Queues[j].toRecord(ifc)
			if err := emit(rec, errors.Wrapf(err, "queue %s on %s", ifc.Queues[j].Name, ifc.Name)); err != nil {
				return err
			}
		}
	}
	for i := range c.Filter {
		rec, err := c.Filter[i].toRecord()
		if err := emit(rec, errors.Wrapf(err, "filter rule %d", i)); err != nil {
			return err
		}
	}
	return nil
}

// StaticLinks returns the links section as StaticLink entries keyed by interface name
func (c *Config) StaticLinks() (map[string]netpkg.StaticLink, error) {
	links := make(map[string]netpkg.StaticLink, len(c.Links))
	for _, l := range c.Links {
		if l.Name == "" {
			return nil, fmt.Errorf("link without name")
		}
		speed, err := l.Speed.Parse()
		if err != nil {
			return nil, errors.Wrapf(err, "link %s", l.Name)
		}
		if speed.Percent != 0 {
			return nil, fmt.Errorf("link %s: speed must be absolute", l.Name)
		}
		links[l.Name] = netpkg.StaticLink{MTU: l.MTU, Speed: speed.Absolute}
	}
	return links, nil
}

// withBandwidth sets the requested bandwidth of b from bw
func withBandwidth(b *altqtypes.QueueSpecBuilder, bw Bandwidth) error {
	spec, err := bw.Parse()
	if err != nil {
		return err
	}
	if spec.Absolute != 0 {
		b.WithBandwidth(spec.Absolute)
	} else if spec.Percent != 0 {
		b.WithBandwidthPercent(spec.Percent)
	}
	return nil
}

func (i *Interface) toRecord() (records.Record, error) {
	if i.Name == "" {
		return nil, fmt.Errorf("interface name is required")
	}
	sched, err := altqtypes.ParseSchedulerKind(i.Scheduler)
	if err != nil {
		return nil, err
	}
	b := altqtypes.NewQueueSpecBuilder().
		WithInterface(i.Name).
		WithScheduler(sched).
		WithQLimit(i.QLimit).
		WithTBRSize(i.TBRSize)
	if err := withBandwidth(b, i.Bandwidth); err != nil {
		return nil, err
	}
	return &records.Queue{Spec: b.Build()}, nil
}

func (q *Queue) toRecord(ifc *Interface) (records.Record, error) {
	if q.Name == "" {
		return nil, fmt.Errorf("queue name is required")
	}
	sched, err := altqtypes.ParseSchedulerKind(ifc.Scheduler)
	if err != nil {
		return nil, err
	}
	var flags altqtypes.CBQFlags
	for _, name := range q.Flags {
		f, ok := altqtypes.ParseCBQFlag(name)
		if !ok {
			return nil, fmt.Errorf("unknown queue flag %q", name)
		}
		flags |= f
	}
	prio := DefaultPriority
	if q.Priority != nil {
		prio = *q.Priority
	}

	b := altqtypes.NewQueueSpecBuilder().
		WithInterface(ifc.Name).
		WithName(q.Name).
		WithParent(q.Parent).
		WithScheduler(sched).
		WithPriority(prio).
		WithQLimit(q.QLimit).
		WithCBQFlags(flags).
		WithPacketSize(q.PacketSize, q.MaxPacketSize).
		WithBurst(q.MinBurst, q.MaxBurst)
	if err := withBandwidth(b, q.Bandwidth); err != nil {
		return nil, err
	}
	return &records.Queue{Spec: b.Build()}, nil
}

func (m *Match) toMatch() (records.Match, error) {
	out := records.Match{
		Interface: m.On,
		Protocol:  records.Protocol(m.Proto),
		DstPort:   m.Port,
	}
	switch out.Protocol {
	case "", records.ProtocolTCP, records.ProtocolUDP:
	default:
		return out, fmt.Errorf("unsupported protocol %q", m.Proto)
	}
	if m.Port != 0 && out.Protocol == "" {
		return out, fmt.Errorf("port requires proto tcp or udp")
	}

	var err error
	if out.Src, err = utils.IPToIPNet(m.From); err != nil {
		return out, errors.Wrap(err, "from")
	}
	if out.Dst, err = utils.IPToIPNet(m.To); err != nil {
		return out, errors.Wrap(err, "to")
	}
	return out, nil
}

// requiredIPNet parses s, which may not be empty or "any"
func requiredIPNet(field, s string) (*net.IPNet, error) {
	ipn, err := utils.IPToIPNet(s)
	if err != nil {
		return nil, errors.Wrap(err, field)
	}
	if ipn == nil {
		return nil, fmt.Errorf("%s address is required", field)
	}
	return ipn, nil
}

func (r *FilterRule) toRecord() (records.Record, error) {
	m, err := r.Match.toMatch()
	if err != nil {
		return nil, err
	}
	out := &records.FilterRule{
		Action:    records.Action(r.Action),
		Direction: records.Direction(r.Direction),
		Quick:     r.Quick,
		Match:     m,
		Queue:     r.Queue,
	}
	switch out.Action {
	case records.ActionPass, records.ActionDrop:
	default:
		return nil, fmt.Errorf("unknown action %q", r.Action)
	}
	switch out.Direction {
	case "", records.DirectionIn, records.DirectionOut:
	default:
		return nil, fmt.Errorf("unknown direction %q", r.Direction)
	}
	if out.Queue != "" && out.Action != records.ActionPass {
		return nil, fmt.Errorf("queue assignment requires action pass")
	}
	return out, nil
}

func (r *NatRule) toRecord() (records.Record, error) {
	m, err := r.Match.toMatch()
	if err != nil {
		return nil, err
	}
	if m.Interface == "" {
		return nil, fmt.Errorf("nat rule requires an interface")
	}
	to, err := requiredIPNet("translate", r.Translate)
	if err != nil {
		return nil, err
	}
	return &records.NatRule{Match: m, Translate: to}, nil
}

func (r *BinatRule) toRecord() (records.Record, error) {
	if r.On == "" {
		return nil, fmt.Errorf("binat rule requires an interface")
	}
	internal, err := requiredIPNet("internal", r.Internal)
	if err != nil {
		return nil, err
	}
	external, err := requiredIPNet("external", r.External)
	if err != nil {
		return nil, err
	}
	if utils.IsIPv4(internal.IP) != utils.IsIPv4(external.IP) {
		return nil, fmt.Errorf("binat address families differ")
	}
	return &records.BinatRule{Interface: r.On, Internal: internal, External: external}, nil
}

func (r *RedirectRule) toRecord() (records.Record, error) {
	m, err := r.Match.toMatch()
	if err != nil {
		return nil, err
	}
	if m.Interface == "" {
		return nil, fmt.Errorf("rdr rule requires an interface")
	}
	target, err := requiredIPNet("target", r.Target)
	if err != nil {
		return nil, err
	}
	if r.TargetPort != 0 && m.Protocol == "" {
		return nil, fmt.Errorf("target port requires proto tcp or udp")
	}
	return &records.RedirectRule{Match: m, Target: target, TargetPort: r.TargetPort}, nil
}
