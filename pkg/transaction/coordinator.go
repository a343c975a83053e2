package transaction

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"k8s.io/apimachinery/pkg/util/sets"
	"k8s.io/klog/v2"

	"github.com/k8snetworkplumbingwg/altqctl/pkg/altq/admission"
	"github.com/k8snetworkplumbingwg/altqctl/pkg/altq/types"
	"github.com/k8snetworkplumbingwg/altqctl/pkg/records"
)

// Options control a configuration load
type Options struct {
	// Scope selects the resource classes the load touches
	Scope records.Scope
	// DryRun stages and validates but never commits
	DryRun bool
	// Timeout bounds the whole load, zero means no timeout
	Timeout time.Duration
}

// LoadResult describes the outcome of a load. it is returned on failure too, reflecting how far
// the load got.
type LoadResult struct {
	// ID identifies the load in logs
	ID string
	// Tickets holds the ticket issued for every begun class
	Tickets map[records.ResourceClass]Ticket
	// Staged counts the records staged per class
	Staged map[records.ResourceClass]int
	// Skipped counts records of classes outside the load scope
	Skipped int
	// Interfaces lists the interfaces that received queue records, in declaration order
	Interfaces []string
	// Committed lists the committed classes in commit order
	Committed []records.ResourceClass
	// Warnings holds the non fatal conditions found during admission
	Warnings []error
	DryRun   bool
}

// NewCoordinator creates a new Coordinator
func NewCoordinator(backend Backend, validator *admission.Validator, opts Options, log klog.Logger) *Coordinator {
	if opts.Scope == 0 {
		opts.Scope = records.ScopeAll
	}
	return &Coordinator{
		backend:   backend,
		validator: validator,
		opts:      opts,
		log:       log,
	}
}

// Coordinator loads a configuration into a Backend as one unit: every in scope class is begun,
// every record is admitted and staged, queue trees are validated, and only then are the classes
// committed in a fixed order. A failure before the first commit leaves the active configuration
// of every class untouched.
type Coordinator struct {
	backend   Backend
	validator *admission.Validator
	opts      Options
	log       klog.Logger
}

// load holds the state of one Load call
type load struct {
	result  *LoadResult
	touched sets.Set[string]
}

// Load runs a configuration load with records from src
func (c *Coordinator) Load(ctx context.Context, src Source) (*LoadResult, error) {
	if c.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.Timeout)
		defer cancel()
	}

	l := &load{
		result: &LoadResult{
			ID:      uuid.NewString(),
			Tickets: make(map[records.ResourceClass]Ticket),
			Staged:  make(map[records.ResourceClass]int),
			DryRun:  c.opts.DryRun,
		},
		touched: sets.New[string](),
	}
	log := c.log.WithValues("load", l.result.ID)
	log.V(2).Info("starting load", "scope", c.opts.Scope.String(), "dryRun", c.opts.DryRun)

	c.validator.Reset()

	// begin
	for _, class := range c.opts.Scope.Classes() {
		if err := c.checkContext(ctx, "begin", class); err != nil {
			return l.result, err
		}
		ticket, err := c.backend.Begin(class)
		if err != nil {
			qerr := types.NewQueueError(types.ErrorKindBackendBeginFailed, "", "",
				"failed to begin %s", class).WithCause(err)
			return l.result, qerr
		}
		log.V(4).Info("class begun", "class", class.String(), "ticket", ticket)
		l.result.Tickets[class] = ticket
	}

	// stage
	idx := 0
	err := src.Records(ctx, func(rec records.Record) error {
		idx++
		if err := c.stage(ctx, l, rec); err != nil {
			return errors.Wrapf(err, "record %d (%s)", idx, rec.String())
		}
		return nil
	})
	l.result.Warnings = c.validator.Warnings()
	if err != nil {
		return l.result, err
	}

	// validate
	for _, ifName := range c.validator.Registry().Interfaces() {
		if l.touched.Has(ifName) {
			l.result.Interfaces = append(l.result.Interfaces, ifName)
		}
	}
	if err := c.validator.ValidateInterfaces(l.result.Interfaces); err != nil {
		return l.result, errors.Wrap(err, "queue validation failed")
	}

	if c.opts.DryRun {
		log.V(2).Info("dry run, not committing", "staged", l.result.Staged)
		return l.result, nil
	}

	// commit
	for _, class := range c.opts.Scope.Classes() {
		if err := c.checkContext(ctx, "commit", class); err != nil {
			return l.result, err
		}
		if err := c.backend.Commit(class, l.result.Tickets[class]); err != nil {
			qerr := types.NewQueueError(types.ErrorKindBackendCommitFailed, "", "",
				"failed to commit %s, committed so far: %v", class, l.result.Committed).WithCause(err)
			return l.result, qerr
		}
		log.V(4).Info("class committed", "class", class.String(), "records", l.result.Staged[class])
		l.result.Committed = append(l.result.Committed, class)
	}

	log.V(2).Info("load committed", "classes", len(l.result.Committed), "interfaces", l.result.Interfaces)
	return l.result, nil
}

// stage admits queue records and adds rec to the backend under its class ticket
func (c *Coordinator) stage(ctx context.Context, l *load, rec records.Record) error {
	class := rec.Class()
	if !c.opts.Scope.Includes(class) {
		c.log.V(6).Info("skipping out of scope record", "class", class.String(), "record", rec.String())
		l.result.Skipped++
		return nil
	}

	if q, ok := rec.(*records.Queue); ok {
		var err error
		if q.Spec.IsInterface() {
			err = c.validator.AdmitInterface(q.Spec)
		} else {
			err = c.validator.Admit(q.Spec)
		}
		if err != nil {
			return err
		}
		l.touched.Insert(q.Spec.InterfaceName)
	}

	if err := c.checkContext(ctx, "add", class); err != nil {
		return err
	}
	if err := c.backend.Add(class, l.result.Tickets[class], rec); err != nil {
		return errors.Wrapf(err, "failed to stage %s record", class)
	}
	l.result.Staged[class]++
	return nil
}

// checkContext returns a BackendTimeout error if ctx is done
func (c *Coordinator) checkContext(ctx context.Context, op string, class records.ResourceClass) error {
	if err := ctx.Err(); err != nil {
		return types.NewQueueError(types.ErrorKindBackendTimeout, "", "",
			"%s %s", op, class).WithCause(err)
	}
	return nil
}
