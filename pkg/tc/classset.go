package tc

import "github.com/k8snetworkplumbingwg/altqctl/pkg/tc/types"

// ClassSet interface defines an API for a set of classes keyed by class handle, which allows
// to perform set operations on a collection of Classes
type ClassSet interface {
	// Add adds class element to set, replacing an element with the same handle
	Add(class types.Class)
	// Remove removes the element with handle from set. if no such element exists, the call is a no-op
	Remove(handle uint32)
	// Get returns the element with handle, nil if it does not exist
	Get(handle uint32) types.Class
	// Has returns true if an element equal to class is in the set, else returns false
	Has(class types.Class) bool
	// Len returns the number of elements in the set
	Len() int
	// Difference returns elements in this ClassSet that have no equal element in other ClassSet
	Difference(other ClassSet) ClassSet
	// Equals returns true if this and other ClassSet are equal (have the same elements)
	Equals(other ClassSet) bool
	// List returns the Class elements in ClassSet in insertion order
	List() []types.Class
}

// NewClassSetImpl returns a new *ClassSetImpl
func NewClassSetImpl() *ClassSetImpl {
	return &ClassSetImpl{
		items: make([]types.Class, 0),
	}
}

// ClassSetImpl implements ClassSet
type ClassSetImpl struct {
	items []types.Class
}

// Add implements ClassSet
func (c *ClassSetImpl) Add(class types.Class) {
	if idx := c.index(class.Attrs().Handle); idx != -1 {
		c.items[idx] = class
		return
	}
	c.items = append(c.items, class)
}

// Remove implements ClassSet
func (c *ClassSetImpl) Remove(handle uint32) {
	if idx := c.index(handle); idx != -1 {
		c.items = append(c.items[:idx], c.items[idx+1:]...)
	}
}

// Get implements ClassSet
func (c *ClassSetImpl) Get(handle uint32) types.Class {
	if idx := c.index(handle); idx != -1 {
		return c.items[idx]
	}
	return nil
}

// Has implements ClassSet
func (c *ClassSetImpl) Has(class types.Class) bool {
	existing := c.Get(class.Attrs().Handle)
	return existing != nil && existing.Equals(class)
}

// Len implements ClassSet
func (c *ClassSetImpl) Len() int {
	return len(c.items)
}

// Difference implements ClassSet
func (c *ClassSetImpl) Difference(other ClassSet) ClassSet {
	cs := NewClassSetImpl()
	for _, cl := range c.items {
		if !other.Has(cl) {
			cs.Add(cl)
		}
	}
	return cs
}

// Equals implements ClassSet
func (c *ClassSetImpl) Equals(other ClassSet) bool {
	if c.Len() != other.Len() {
		return false
	}
	for _, cl := range c.items {
		if !other.Has(cl) {
			return false
		}
	}
	return true
}

// List implements ClassSet
func (c *ClassSetImpl) List() []types.Class {
	return c.items
}

func (c *ClassSetImpl) index(handle uint32) int {
	for idx, cl := range c.items {
		if cl.Attrs().Handle == handle {
			return idx
		}
	}
	return -1
}

// depth returns the number of ancestors of class within the set
func depth(cs ClassSet, class types.Class) int {
	d := 0
	seen := map[uint32]bool{class.Attrs().Handle: true}
	for p := cs.Get(class.Attrs().Parent); p != nil; p = cs.Get(p.Attrs().Parent) {
		if seen[p.Attrs().Handle] {
			break
		}
		seen[p.Attrs().Handle] = true
		d++
	}
	return d
}
