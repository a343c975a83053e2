package kernel

import (
	"github.com/pkg/errors"
	"k8s.io/apimachinery/pkg/util/sets"
	"k8s.io/klog/v2"

	altqtypes "github.com/k8snetworkplumbingwg/altqctl/pkg/altq/types"
	"github.com/k8snetworkplumbingwg/altqctl/pkg/records"
	"github.com/k8snetworkplumbingwg/altqctl/pkg/tc"
	"github.com/k8snetworkplumbingwg/altqctl/pkg/tc/generator"
	"github.com/k8snetworkplumbingwg/altqctl/pkg/transaction"
)

// Store is the backend that keeps the staged and committed records
type Store interface {
	transaction.Backend
	// Staged returns the records staged under ticket
	Staged(class records.ResourceClass, ticket transaction.Ticket) ([]records.Record, error)
	// Active returns the committed records of class
	Active(class records.ResourceClass) []records.Record
}

// ActuatorFactory creates the actuator for a network interface
type ActuatorFactory func(ifName string) (tc.Actuator, error)

// NewBackend creates a Backend on top of store. every committed interface is realized by an
// actuator of each factory, in order.
func NewBackend(store Store, gen generator.Generator, log klog.Logger, factories ...ActuatorFactory) *Backend {
	return &Backend{
		Store:     store,
		gen:       gen,
		factories: factories,
		log:       log,
	}
}

// Backend is a transaction.Backend that realizes the queue table on the host when it is committed.
// Every class other than queue is passed through to the Store. A queue commit only reaches the
// Store once every interface was realized, so a failed commit leaves the previous table active in
// the Store. Interfaces realized before the failing one are not rolled back: they keep the new tree
// until the next load, and the returned error names them.
type Backend struct {
	Store
	gen       generator.Generator
	factories []ActuatorFactory
	log       klog.Logger
}

// Commit implements transaction.Backend
func (b *Backend) Commit(class records.ResourceClass, ticket transaction.Ticket) error {
	if class != records.ClassQueue {
		return b.Store.Commit(class, ticket)
	}

	staged, err := b.Store.Staged(class, ticket)
	if err != nil {
		return err
	}

	var realized []string
	ifNames, queues := groupByInterface(staged)
	for _, ifName := range ifNames {
		tcObjs, err := b.gen.GenerateFromQueues(queues[ifName])
		if err != nil {
			return partialCommitError(errors.Wrapf(err, "failed to generate tc objects for %s", ifName), realized)
		}
		if err := b.actuate(ifName, tcObjs); err != nil {
			return partialCommitError(err, realized)
		}
		realized = append(realized, ifName)
	}

	// interfaces that are no longer configured lose their qdisc
	previous, _ := groupByInterface(b.Store.Active(class))
	current := sets.New(ifNames...)
	for _, ifName := range previous {
		if current.Has(ifName) {
			continue
		}
		b.log.V(2).Info("removing queues from interface", "interface", ifName)
		if err := b.actuate(ifName, &generator.Objects{}); err != nil {
			return partialCommitError(err, realized)
		}
		realized = append(realized, ifName)
	}

	return b.Store.Commit(class, ticket)
}

// partialCommitError annotates err with the interfaces whose new queue tree stays in place
func partialCommitError(err error, realized []string) error {
	if len(realized) == 0 {
		return err
	}
	return errors.Wrapf(err, "queue commit incomplete, interfaces %v keep the new queues until the next load", realized)
}

func (b *Backend) actuate(ifName string, tcObjs *generator.Objects) error {
	for _, factory := range b.factories {
		actuator, err := factory(ifName)
		if err != nil {
			return errors.Wrapf(err, "failed to create actuator for %s", ifName)
		}
		if err := actuator.Actuate(tcObjs); err != nil {
			return errors.Wrapf(err, "failed to actuate queues on %s", ifName)
		}
	}
	b.log.V(4).Info("interface realized", "interface", ifName, "classes", len(tcObjs.Classes))
	return nil
}

// groupByInterface returns the interfaces of the queue records in recs in declaration order,
// and the queue specs of each interface
func groupByInterface(recs []records.Record) ([]string, map[string][]*altqtypes.QueueSpec) {
	var ifNames []string
	queues := make(map[string][]*altqtypes.QueueSpec)
	for _, rec := range recs {
		q, ok := rec.(*records.Queue)
		if !ok {
			continue
		}
		ifName := q.Spec.InterfaceName
		if _, ok := queues[ifName]; !ok {
			ifNames = append(ifNames, ifName)
		}
		queues[ifName] = append(queues[ifName], q.Spec)
	}
	return ifNames, queues
}
