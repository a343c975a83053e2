package tc

import (
	"github.com/k8snetworkplumbingwg/altqctl/pkg/tc/generator"
	tctypes "github.com/k8snetworkplumbingwg/altqctl/pkg/tc/types"
)

// TC defines an interface to interact with Linux Traffic Control subsystem
// an implementation should be associated with a specific network interface (netdev).
type TC interface {
	// QDiscAdd adds the specified Qdisc, replacing the qdisc attached at the same parent
	QDiscAdd(qdisc tctypes.QDisc) error
	// QDiscDel deletes the specified Qdisc
	QDiscDel(qdisc tctypes.QDisc) error
	// QDiscList lists QDiscs
	QDiscList() ([]tctypes.QDisc, error)

	// ClassAdd adds class
	ClassAdd(class tctypes.Class) error
	// ClassChange changes the parameters of an existing class
	ClassChange(class tctypes.Class) error
	// ClassDel deletes class
	ClassDel(class tctypes.Class) error
	// ClassList lists classes
	ClassList() ([]tctypes.Class, error)
}

// Actuator applies generated TC objects to the netdev it was created for
type Actuator interface {
	// Actuate makes the qdisc and classes of the netdev match objects.
	// a nil objects.QDisc removes the qdisc.
	Actuate(objects *generator.Objects) error
}
