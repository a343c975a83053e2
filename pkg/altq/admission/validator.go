package admission

import (
	"github.com/pkg/errors"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"
	"k8s.io/klog/v2"

	"github.com/k8snetworkplumbingwg/altqctl/pkg/altq/cbq"
	"github.com/k8snetworkplumbingwg/altqctl/pkg/altq/registry"
	"github.com/k8snetworkplumbingwg/altqctl/pkg/altq/tree"
	"github.com/k8snetworkplumbingwg/altqctl/pkg/altq/types"
	"github.com/k8snetworkplumbingwg/altqctl/pkg/utils"
)

const (
	// PRIQMaxPriority is the number of PRIQ priority levels
	PRIQMaxPriority = 16
	maxTBRSize      = 0xffff
)

// LinkInfo provides the properties of a network interface that queue evaluation depends on
type LinkInfo interface {
	// MTU returns the MTU of the interface
	MTU(ifName string) (uint32, error)
	// Speed returns the link speed in bits/sec, 0 if unknown
	Speed(ifName string) (uint64, error)
}

// NewValidator creates a new Validator storing admitted entries in reg
func NewValidator(reg *registry.Registry, links LinkInfo, log klog.Logger) *Validator {
	return &Validator{
		reg:   reg,
		links: links,
		log:   log,
		qids:  newQIDAllocator(),
		mtus:  make(map[string]uint32),
	}
}

// Validator admits interface and queue entries into a Registry and checks the
// structure of the resulting queue trees
type Validator struct {
	reg      *registry.Registry
	links    LinkInfo
	log      klog.Logger
	qids     *qidAllocator
	mtus     map[string]uint32
	warnings []error
}

// Registry returns the registry admitted entries are stored in
func (v *Validator) Registry() *registry.Registry {
	return v.reg
}

// Warnings returns the non fatal conditions found since the last Reset
func (v *Validator) Warnings() []error {
	return v.warnings
}

// Reset empties the registry and forgets queue ids and warnings
func (v *Validator) Reset() {
	v.reg.Reset()
	v.qids = newQIDAllocator()
	v.mtus = make(map[string]uint32)
	v.warnings = nil
}

// AdmitInterface evaluates an interface (root) entry and stores it
func (v *Validator) AdmitInterface(spec *types.QueueSpec) error {
	if err := checkNames(spec); err != nil {
		return err
	}
	if !spec.IsInterface() {
		return errors.Errorf("%s is not an interface entry", spec)
	}
	if v.reg.LookupRoot(spec.InterfaceName) != nil {
		return types.NewQueueError(types.ErrorKindDuplicateInterface, spec.InterfaceName, "",
			"altq already defined on interface")
	}

	if spec.RequestedBandwidth.Absolute > 0 {
		spec.InterfaceBandwidth = spec.RequestedBandwidth.Absolute
	} else {
		speed, err := v.links.Speed(spec.InterfaceName)
		if err != nil || speed == 0 {
			qerr := types.NewQueueError(types.ErrorKindUnknownInterfaceBandwidth, spec.InterfaceName, "",
				"interface does not know its bandwidth, please specify an absolute bandwidth")
			return qerr.WithCause(err)
		}
		spec.InterfaceBandwidth = spec.RequestedBandwidth.Eval(speed)
		if spec.InterfaceBandwidth == 0 {
			spec.InterfaceBandwidth = speed
		}
	}
	spec.Bandwidth = spec.InterfaceBandwidth

	if spec.QLimit == 0 {
		spec.QLimit = types.DefaultQLimit
	}
	if spec.TBRSize == 0 {
		spec.TBRSize = tbrSize(spec.InterfaceBandwidth, v.mtu(spec.InterfaceName))
	}

	v.log.V(4).Info("interface admitted", "interface", spec.InterfaceName,
		"scheduler", spec.Scheduler.String(), "bandwidth", spec.InterfaceBandwidth, "tbrsize", spec.TBRSize)
	v.reg.Store(spec)
	return nil
}

// Admit evaluates a queue entry against the interface and parent it references and stores it.
// Scheduler specific parameters are computed as part of admission.
func (v *Validator) Admit(spec *types.QueueSpec) error {
	if err := checkNames(spec); err != nil {
		return err
	}
	if spec.IsInterface() {
		return errors.Errorf("%s is not a queue entry", spec)
	}

	root := v.reg.LookupRoot(spec.InterfaceName)
	if root == nil {
		return types.NewQueueError(types.ErrorKindNoSuchInterface, spec.InterfaceName, spec.QueueName,
			"altq not defined on interface")
	}
	spec.Scheduler = root.Scheduler
	spec.InterfaceBandwidth = root.InterfaceBandwidth

	if v.reg.LookupNamed(spec.QueueName, spec.InterfaceName) != nil {
		return types.NewQueueError(types.ErrorKindDuplicateQueue, spec.InterfaceName, spec.QueueName,
			"queue already exists on interface")
	}
	spec.QID = v.qids.get(spec.QueueName)

	var parent *types.QueueSpec
	if spec.HasParent() {
		parent = v.reg.LookupNamed(spec.ParentName, spec.InterfaceName)
		if parent == nil {
			return types.NewQueueError(types.ErrorKindNoSuchParent, spec.InterfaceName, spec.QueueName,
				"parent %s not found", spec.ParentName)
		}
		spec.ParentID = parent.QID
	}

	if spec.QLimit == 0 {
		spec.QLimit = types.DefaultQLimit
	}

	if err := v.evalBandwidth(spec, parent); err != nil {
		return err
	}

	switch spec.Scheduler {
	case types.SchedulerCBQ:
		p, err := cbq.Eval(spec, v.mtu(spec.InterfaceName))
		if err != nil {
			return err
		}
		if p.TooSlow {
			v.warn(types.NewQueueError(types.ErrorKindSlowClassWarning, spec.InterfaceName, spec.QueueName,
				"queue bandwidth must be larger than %s, queue is too slow", utils.RateToString(p.MinBandwidth)))
		}
		v.log.V(5).Info("cbq parameters computed", "queue", spec.QueueName, "interface", spec.InterfaceName,
			"nsPerByte", p.NsPerByte, "maxIdle", p.MaxIdle, "minIdle", p.MinIdle, "offTime", p.OffTime,
			"minBurst", p.MinBurst, "maxBurst", p.MaxBurst)
	case types.SchedulerPRIQ:
		if err := v.evalPRIQ(spec); err != nil {
			return err
		}
	}

	v.reg.Store(spec)
	return nil
}

// evalBandwidth resolves the requested bandwidth of spec and checks it against the interface and parent
func (v *Validator) evalBandwidth(spec *types.QueueSpec, parent *types.QueueSpec) error {
	switch {
	case spec.RequestedBandwidth.Absolute > 0:
		spec.Bandwidth = spec.RequestedBandwidth.Absolute
	case spec.RequestedBandwidth.Percent > 0 && parent != nil:
		spec.Bandwidth = spec.RequestedBandwidth.Eval(parent.Bandwidth)
	case spec.Scheduler == types.SchedulerCBQ || spec.Scheduler == types.SchedulerHFSC:
		return types.NewQueueError(types.ErrorKindAmbiguousBandwidth, spec.InterfaceName, spec.QueueName,
			"no absolute bandwidth and no parent to take a percentage of")
	default:
		// schedulers that do not share bandwidth may leave it unset
		spec.Bandwidth = 0
	}

	if spec.Bandwidth > spec.InterfaceBandwidth {
		return types.NewQueueError(types.ErrorKindBandwidthExceedsInterface, spec.InterfaceName, spec.QueueName,
			"bandwidth %d higher than interface bandwidth %d", spec.Bandwidth, spec.InterfaceBandwidth)
	}
	if parent == nil {
		return nil
	}
	if spec.Bandwidth > parent.Bandwidth {
		return types.NewQueueError(types.ErrorKindBandwidthExceedsParent, spec.InterfaceName, spec.QueueName,
			"bandwidth %d higher than parent %s bandwidth %d", spec.Bandwidth, parent.QueueName, parent.Bandwidth)
	}

	sum := spec.Bandwidth
	for _, sibling := range v.reg.Children(spec.ParentName, spec.InterfaceName) {
		sum += sibling.Bandwidth
	}
	if sum > parent.Bandwidth {
		klog.Warningf("the sum of the child bandwidth (%s) higher than parent %q on %s",
			utils.RateToString(float64(sum)), parent.QueueName, spec.InterfaceName)
	}
	return nil
}

// evalPRIQ checks the priority of a PRIQ queue is in range and unique on its interface
func (v *Validator) evalPRIQ(spec *types.QueueSpec) error {
	if spec.Priority >= PRIQMaxPriority {
		return types.NewQueueError(types.ErrorKindPriorityOutOfRange, spec.InterfaceName, spec.QueueName,
			"priority %d out of range: max %d", spec.Priority, PRIQMaxPriority-1)
	}
	for _, q := range v.reg.ListInterface(spec.InterfaceName) {
		if !q.IsInterface() && q.Priority == spec.Priority {
			return types.NewQueueError(types.ErrorKindDuplicatePriority, spec.InterfaceName, spec.QueueName,
				"priority %d already used by queue %s", spec.Priority, q.QueueName)
		}
	}
	return nil
}

// ValidateTree checks the queue tree of ifName has exactly one root class and exactly one default
// class. It does not modify the registry.
func (v *Validator) ValidateTree(ifName string) error {
	t, err := tree.Build(v.reg.ListInterface(ifName))
	if err != nil {
		return err
	}

	var rootClasses, defaultClasses int
	t.Walk(func(n *tree.Node, _ int) bool {
		if n.Spec.IsInterface() {
			return true
		}
		if n.Spec.CBQOpts.Flags.Has(types.CBQFlagRootClass) {
			rootClasses++
		}
		if n.Spec.CBQOpts.Flags.Has(types.CBQFlagDefaultClass) {
			defaultClasses++
		}
		return true
	})

	var errs []error
	if rootClasses != 1 {
		errs = append(errs, types.NewQueueError(types.ErrorKindMissingRootClass, ifName, "",
			"should have one root queue, found %d", rootClasses))
	}
	if defaultClasses != 1 {
		errs = append(errs, types.NewQueueError(types.ErrorKindMissingDefaultClass, ifName, "",
			"should have one default queue, found %d", defaultClasses))
	}
	return utilerrors.NewAggregate(errs)
}

// ValidateInterfaces runs ValidateTree for every CBQ interface in ifNames
func (v *Validator) ValidateInterfaces(ifNames []string) error {
	var errs []error
	for _, ifName := range ifNames {
		root := v.reg.LookupRoot(ifName)
		if root == nil {
			errs = append(errs, types.NewQueueError(types.ErrorKindNoSuchInterface, ifName, "",
				"altq not defined on interface"))
			continue
		}
		if root.Scheduler != types.SchedulerCBQ {
			continue
		}
		if err := v.ValidateTree(ifName); err != nil {
			errs = append(errs, err)
		}
	}
	return utilerrors.Flatten(utilerrors.NewAggregate(errs))
}

func (v *Validator) warn(err *types.QueueError) {
	klog.Warningf("%v", err)
	v.warnings = append(v.warnings, err)
}

// mtu returns the MTU of ifName, falling back to types.DefaultMTU
func (v *Validator) mtu(ifName string) uint32 {
	if mtu, ok := v.mtus[ifName]; ok {
		return mtu
	}
	mtu, err := v.links.MTU(ifName)
	if err != nil || mtu == 0 {
		v.log.V(2).Info("failed to get interface mtu, using default", "interface", ifName,
			"default", types.DefaultMTU, "err", err)
		mtu = types.DefaultMTU
	}
	v.mtus[ifName] = mtu
	return mtu
}

// tbrSize returns the token bucket regulator depth for an interface of bandwidth bps
func tbrSize(bps uint64, mtu uint32) uint32 {
	var n uint64
	switch {
	case bps <= 1*1000*1000:
		n = 1
	case bps <= 10*1000*1000:
		n = 4
	case bps <= 200*1000*1000:
		n = 8
	default:
		n = 24
	}
	size := n * uint64(mtu)
	if size > maxTBRSize {
		size = maxTBRSize
	}
	return uint32(size)
}

// checkNames checks interface and queue names fit their fixed size fields
func checkNames(spec *types.QueueSpec) error {
	if len(spec.InterfaceName) >= types.IfNameSize {
		return types.NewQueueError(types.ErrorKindNameTooLong, spec.InterfaceName, spec.QueueName,
			"interface name longer than %d", types.IfNameSize-1)
	}
	if len(spec.QueueName) >= types.QNameSize || len(spec.ParentName) >= types.QNameSize {
		return types.NewQueueError(types.ErrorKindNameTooLong, spec.InterfaceName, spec.QueueName,
			"queue name longer than %d", types.QNameSize-1)
	}
	return nil
}
