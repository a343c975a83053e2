package generator

import (
	altqtypes "github.com/k8snetworkplumbingwg/altqctl/pkg/altq/types"
	tctypes "github.com/k8snetworkplumbingwg/altqctl/pkg/tc/types"
)

// Objects is a struct containing TC objects
type Objects struct {
	// QDisc is the root qdisc of the netdev, nil if the netdev should have none
	QDisc tctypes.QDisc
	// Classes are the classes of QDisc, parents before children
	Classes []tctypes.Class
}

// Generator is an interface to generate Objects from the admitted queues of an interface
type Generator interface {
	// GenerateFromQueues creates Objects that realize queues. queues must hold the interface
	// entry and the queues of a single interface, parents before children.
	GenerateFromQueues(queues []*altqtypes.QueueSpec) (*Objects, error)
}
