package tc

import (
	"sort"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/k8snetworkplumbingwg/altqctl/pkg/tc/generator"
	"github.com/k8snetworkplumbingwg/altqctl/pkg/tc/types"
)

// NewActuatorTCImpl creates a new ActuatorTCImpl
func NewActuatorTCImpl(tcIfc TC, log klog.Logger) *ActuatorTCImpl {
	return &ActuatorTCImpl{tcAPI: tcIfc, log: log}
}

// ActuatorTCImpl is an implementation of Actuator interface using provided TC interface to apply TC objects
type ActuatorTCImpl struct {
	tcAPI TC
	log   klog.Logger
}

// Actuate is an implementation of Actuator interface. it applies Objects on the netdev
// Note: only the root qdisc and its classes are managed
func (a *ActuatorTCImpl) Actuate(objects *generator.Objects) error {
	if objects.QDisc == nil && len(objects.Classes) > 0 {
		return errors.New("Qdisc cannot be nil if Classes are provided")
	}

	// list qdiscs
	currentQDiscs, err := a.tcAPI.QDiscList()
	if err != nil {
		return errors.Wrap(err, "failed to list qdiscs")
	}

	var rootQDisc types.QDisc
	for _, q := range currentQDiscs {
		if q.Type() == types.QDiscHTBType && isRoot(q) {
			rootQDisc = q
			break
		}
	}

	if objects.QDisc == nil {
		// delete root htb qdisc if exist, its classes go with it
		if rootQDisc != nil {
			a.log.V(4).Info("deleting root qdisc")
			return errors.Wrap(a.tcAPI.QDiscDel(rootQDisc), "failed to delete qdisc")
		}
		return nil
	}

	existingClassSet := NewClassSetImpl()
	if rootQDisc != nil && rootQDisc.Equals(objects.QDisc) {
		existing, err := a.tcAPI.ClassList()
		if err != nil {
			return errors.Wrap(err, "failed to list classes")
		}
		for _, c := range existing {
			existingClassSet.Add(c)
		}
	} else {
		// replacing the root qdisc drops all of its classes
		a.log.V(4).Info("replacing root qdisc", "qdisc", objects.QDisc.GenCmdLineArgs())
		if err := a.tcAPI.QDiscAdd(objects.QDisc); err != nil {
			return errors.Wrap(err, "failed to add qdisc")
		}
	}

	newClassSet := NewClassSetImpl()
	for _, c := range objects.Classes {
		newClassSet.Add(c)
	}

	if existingClassSet.Equals(newClassSet) {
		// same classes nothing to do
		return nil
	}

	// class change cannot move a class to another parent. moved classes are deleted together with
	// their current subtree and added again below.
	if err := a.deleteMoved(existingClassSet, newClassSet); err != nil {
		return err
	}

	// add or change classes, parents come before children in objects.Classes
	for _, c := range newClassSet.List() {
		if existingClassSet.Has(c) {
			continue
		}
		if existingClassSet.Get(c.Attrs().Handle) != nil {
			a.log.V(6).Info("changing class", "class", c.GenCmdLineArgs())
			err = a.tcAPI.ClassChange(c)
		} else {
			a.log.V(6).Info("adding class", "class", c.GenCmdLineArgs())
			err = a.tcAPI.ClassAdd(c)
		}
		if err != nil {
			return err
		}
	}

	// remove classes no longer needed
	var toRemove []types.Class
	for _, c := range existingClassSet.List() {
		if newClassSet.Get(c.Attrs().Handle) == nil {
			toRemove = append(toRemove, c)
		}
	}
	return a.deleteClasses(existingClassSet, toRemove)
}

// deleteMoved deletes the existing classes whose parent differs in newClassSet, along with their
// existing descendants, and removes them from existingClassSet
func (a *ActuatorTCImpl) deleteMoved(existingClassSet, newClassSet ClassSet) error {
	moved := make(map[uint32]bool)
	for _, c := range newClassSet.List() {
		if old := existingClassSet.Get(c.Attrs().Handle); old != nil && old.Attrs().Parent != c.Attrs().Parent {
			moved[c.Attrs().Handle] = true
		}
	}
	if len(moved) == 0 {
		return nil
	}

	var toRemove []types.Class
	for _, c := range existingClassSet.List() {
		if moved[c.Attrs().Handle] || hasAncestorIn(existingClassSet, c, moved) {
			toRemove = append(toRemove, c)
		}
	}
	a.log.V(4).Info("recreating reparented classes", "count", len(toRemove))
	if err := a.deleteClasses(existingClassSet, toRemove); err != nil {
		return err
	}
	for _, c := range toRemove {
		existingClassSet.Remove(c.Attrs().Handle)
	}
	return nil
}

// deleteClasses deletes classes, children before parents as found in existingClassSet
func (a *ActuatorTCImpl) deleteClasses(existingClassSet ClassSet, classes []types.Class) error {
	sort.SliceStable(classes, func(i, j int) bool {
		return depth(existingClassSet, classes[i]) > depth(existingClassSet, classes[j])
	})
	for _, c := range classes {
		a.log.V(6).Info("deleting class", "class", c.GenCmdLineArgs())
		if err := a.tcAPI.ClassDel(c); err != nil {
			return err
		}
	}
	return nil
}

// hasAncestorIn returns true if one of the ancestors of class in cs has its handle in handles
func hasAncestorIn(cs ClassSet, class types.Class, handles map[uint32]bool) bool {
	seen := map[uint32]bool{class.Attrs().Handle: true}
	for p := cs.Get(class.Attrs().Parent); p != nil; p = cs.Get(p.Attrs().Parent) {
		if seen[p.Attrs().Handle] {
			return false
		}
		if handles[p.Attrs().Handle] {
			return true
		}
		seen[p.Attrs().Handle] = true
	}
	return false
}

func isRoot(q types.QDisc) bool {
	return q.Attrs().Parent == nil || *q.Attrs().Parent == types.HandleRoot
}
