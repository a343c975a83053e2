package generator

import (
	"fmt"
	"math"

	altqtypes "github.com/k8snetworkplumbingwg/altqctl/pkg/altq/types"
	tctypes "github.com/k8snetworkplumbingwg/altqctl/pkg/tc/types"
)

const (
	// QDiscMajor is the major of the root qdisc handle and of every class handle
	QDiscMajor uint16 = 1
	// maxHTBPrio is the lowest HTB priority, 0 is the highest
	maxHTBPrio = 7
)

// NewHTBGenerator creates a new HTBGenerator instance
func NewHTBGenerator() *HTBGenerator {
	return &HTBGenerator{}
}

// HTBGenerator realizes queue hierarchies with the Linux hierarchical token bucket scheduler
type HTBGenerator struct{}

// GenerateFromQueues implements Generator interface
// It renders TC objects for the provided queues as follows
//  1. a root HTB qdisc with handle 1: whose default class is the queue flagged default
//  2. a class 1:<qid> per queue, under class 1:<parent qid> or under the qdisc for top level queues
//  3. class rate is the queue bandwidth, ceil is the parent bandwidth for borrowing queues
//     Note: an interface without a scheduler yields no qdisc
func (g *HTBGenerator) GenerateFromQueues(queues []*altqtypes.QueueSpec) (*Objects, error) {
	var iface *altqtypes.QueueSpec
	byName := make(map[string]*altqtypes.QueueSpec)
	for _, q := range queues {
		if q.IsInterface() {
			iface = q
			continue
		}
		byName[q.QueueName] = q
	}
	if iface == nil {
		return nil, fmt.Errorf("no interface entry in queues")
	}

	tcObj := &Objects{Classes: make([]tctypes.Class, 0)}
	if iface.Scheduler == altqtypes.SchedulerNone {
		return tcObj, nil
	}

	var defaultClass uint32
	for _, q := range queues {
		if q.IsInterface() {
			continue
		}
		if q.InterfaceName != iface.InterfaceName {
			return nil, fmt.Errorf("%s does not belong to interface %s", q, iface.InterfaceName)
		}
		if q.QID > math.MaxUint16 {
			return nil, fmt.Errorf("%s: qid %d does not fit a class minor", q, q.QID)
		}
		if q.CBQOpts.Flags.Has(altqtypes.CBQFlagDefaultClass) {
			defaultClass = q.QID
		}
		class, err := g.genClass(iface, q, byName)
		if err != nil {
			return nil, err
		}
		tcObj.Classes = append(tcObj.Classes, class)
	}

	tcObj.QDisc = tctypes.NewHTBQDiscBuilder().
		WithHandle(tctypes.MakeHandle(QDiscMajor, 0)).
		WithDefaultClass(defaultClass).
		Build()
	return tcObj, nil
}

// genClass generates the class of queue q
func (g *HTBGenerator) genClass(iface, q *altqtypes.QueueSpec, byName map[string]*altqtypes.QueueSpec) (tctypes.Class, error) {
	parentHandle := tctypes.MakeHandle(QDiscMajor, 0)
	parentBW := iface.InterfaceBandwidth
	if q.HasParent() {
		p, ok := byName[q.ParentName]
		if !ok {
			return nil, fmt.Errorf("%s: parent %s not found", q, q.ParentName)
		}
		parentHandle = tctypes.MakeHandle(QDiscMajor, uint16(p.QID))
		parentBW = p.Bandwidth
	}

	rate := q.Bandwidth
	if rate == 0 {
		// schedulers without bandwidth shares get the whole link
		rate = iface.InterfaceBandwidth
	}
	ceil := rate
	if q.CBQOpts.Flags.Has(altqtypes.CBQFlagBorrow) && parentBW > ceil {
		ceil = parentBW
	}

	return tctypes.NewHTBClassBuilder().
		WithParent(parentHandle).
		WithHandle(tctypes.MakeHandle(QDiscMajor, uint16(q.QID))).
		WithRate(rate).
		WithCeil(ceil).
		WithPrio(htbPrio(q.Priority)).
		Build(), nil
}

// htbPrio converts a queue priority, higher is more important, to an HTB priority, lower is
// more important
func htbPrio(prio uint8) uint32 {
	if prio > maxHTBPrio {
		prio = maxHTBPrio
	}
	return uint32(maxHTBPrio - prio)
}
