package memory

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/k8snetworkplumbingwg/altqctl/pkg/records"
	"github.com/k8snetworkplumbingwg/altqctl/pkg/transaction"
)

// ErrStaleTicket is returned when a ticket other than the last one issued for a class is presented
var ErrStaleTicket = errors.New("stale ticket")

// table holds the active and the staged records of one resource class
type table struct {
	ticket   transaction.Ticket
	open     bool
	inactive []records.Record
	active   []records.Record
}

// NewStore creates an empty Store
func NewStore() *Store {
	s := &Store{tables: make(map[records.ResourceClass]*table)}
	for _, class := range records.CommitOrder {
		s.tables[class] = &table{active: make([]records.Record, 0)}
	}
	return s
}

// Store is an in memory transaction.Backend. Every class keeps an active and an inactive table;
// Begin clears the inactive table, Commit swaps it in. It is safe for concurrent use, concurrent
// writers of the same class are serialized by tickets.
type Store struct {
	mu     sync.Mutex
	tables map[records.ResourceClass]*table
}

// Begin implements transaction.Backend
func (s *Store) Begin(class records.ResourceClass) (transaction.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.table(class)
	if err != nil {
		return 0, err
	}
	t.ticket++
	t.open = true
	t.inactive = make([]records.Record, 0)
	return t.ticket, nil
}

// Add implements transaction.Backend
func (s *Store) Add(class records.ResourceClass, ticket transaction.Ticket, rec records.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.openTable(class, ticket)
	if err != nil {
		return err
	}
	t.inactive = append(t.inactive, rec)
	return nil
}

// Commit implements transaction.Backend
func (s *Store) Commit(class records.ResourceClass, ticket transaction.Ticket) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.openTable(class, ticket)
	if err != nil {
		return err
	}
	t.active = t.inactive
	t.inactive = nil
	t.open = false
	return nil
}

// Staged returns the records staged under ticket
func (s *Store) Staged(class records.ResourceClass, ticket transaction.Ticket) ([]records.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.openTable(class, ticket)
	if err != nil {
		return nil, err
	}
	out := make([]records.Record, len(t.inactive))
	copy(out, t.inactive)
	return out, nil
}

// Active returns the committed records of class in staging order
func (s *Store) Active(class records.ResourceClass) []records.Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tables[class]
	if !ok {
		return nil
	}
	out := make([]records.Record, len(t.active))
	copy(out, t.active)
	return out
}

// Ticket returns the last ticket issued for class
func (s *Store) Ticket(class records.ResourceClass) transaction.Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.tables[class]; ok {
		return t.ticket
	}
	return 0
}

func (s *Store) table(class records.ResourceClass) (*table, error) {
	t, ok := s.tables[class]
	if !ok {
		return nil, errors.Errorf("unknown resource class: %s", class)
	}
	return t, nil
}

// openTable returns the table of class if ticket is its current, uncommitted ticket
func (s *Store) openTable(class records.ResourceClass, ticket transaction.Ticket) (*table, error) {
	t, err := s.table(class)
	if err != nil {
		return nil, err
	}
	if !t.open || t.ticket != ticket {
		return nil, errors.Wrapf(ErrStaleTicket, "class %s ticket %d, current %d", class, ticket, t.ticket)
	}
	return t, nil
}
