package admission

// qidAllocator hands out queue ids by name. the same name gets the same id on every interface,
// ids start at 1.
type qidAllocator struct {
	next uint32
	ids  map[string]uint32
}

func newQIDAllocator() *qidAllocator {
	return &qidAllocator{next: 1, ids: make(map[string]uint32)}
}

func (a *qidAllocator) get(name string) uint32 {
	if id, ok := a.ids[name]; ok {
		return id
	}
	id := a.next
	a.next++
	a.ids[name] = id
	return id
}
