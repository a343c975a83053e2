package transaction

import (
	"context"

	"github.com/k8snetworkplumbingwg/altqctl/pkg/records"
)

// Ticket is issued by a Backend when a resource class is opened for staging. it must be presented
// on every staged record and on commit.
type Ticket uint32

// Backend is the store configuration is loaded into. Each resource class is staged and committed
// independently. a Backend must reject Add and Commit calls carrying a ticket other than the last
// one it issued for that class. a ticket that is never committed must leave the active
// configuration untouched.
type Backend interface {
	// Begin opens class for staging and returns its ticket
	Begin(class records.ResourceClass) (Ticket, error)
	// Add stages rec under ticket
	Add(class records.ResourceClass, ticket Ticket, rec records.Record) error
	// Commit makes the records staged under ticket the active configuration of class
	Commit(class records.ResourceClass, ticket Ticket) error
}

// Source produces configuration records in order
type Source interface {
	// Records calls yield for every record. it stops and returns the error of yield if yield fails.
	Records(ctx context.Context, yield func(rec records.Record) error) error
}

// SourceFunc adapts a function to Source
type SourceFunc func(ctx context.Context, yield func(rec records.Record) error) error

// Records implements Source
func (f SourceFunc) Records(ctx context.Context, yield func(rec records.Record) error) error {
	return f(ctx, yield)
}

// RecordsSource returns a Source yielding recs in order
func RecordsSource(recs ...records.Record) Source {
	return SourceFunc(func(ctx context.Context, yield func(rec records.Record) error) error {
		for _, r := range recs {
			if err := yield(r); err != nil {
				return err
			}
		}
		return nil
	})
}
