package netlink

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/vishvananda/netlink"
	klog "k8s.io/klog/v2"

	multinet "github.com/k8snetworkplumbingwg/altqctl/pkg/net"
	"github.com/k8snetworkplumbingwg/altqctl/pkg/tc/types"
)

// NewTcNetlinkImpl creates a new instance of TcNetlinkImpl
func NewTcNetlinkImpl(linkDev netlink.Link, log klog.Logger, netlinkIfc multinet.NetlinkProvider) *TcNetlinkImpl {
	return &TcNetlinkImpl{
		link:       linkDev,
		netlinkIfc: netlinkIfc,
		log:        log,
	}
}

// TcNetlinkImpl is a concrete implementation of TC interface utilizing netlink lib
type TcNetlinkImpl struct {
	link       netlink.Link
	netlinkIfc multinet.NetlinkProvider
	log        klog.Logger
}

func (t *TcNetlinkImpl) htbQdisc(qdisc types.QDisc) (*types.HTBQDisc, error) {
	htb, ok := qdisc.(*types.HTBQDisc)
	if !ok {
		return nil, fmt.Errorf("unsupported qdisc type: %s", qdisc.Type())
	}
	return htb, nil
}

func (t *TcNetlinkImpl) htbClass(class types.Class) (*netlink.HtbClass, error) {
	htb, ok := class.(*types.HTBClass)
	if !ok {
		return nil, fmt.Errorf("unsupported class type: %s", class.Type())
	}
	return classToNlClass(htb, t.link.Attrs().Index), nil
}

// QDiscAdd implements TC interface
func (t *TcNetlinkImpl) QDiscAdd(qdisc types.QDisc) error {
	t.log.V(10).Info("QDiscAdd()")

	htb, err := t.htbQdisc(qdisc)
	if err != nil {
		return err
	}
	return t.netlinkIfc.QdiscReplace(qdiscToNlQdisc(htb, t.link.Attrs().Index))
}

// QDiscDel implements TC interface
func (t *TcNetlinkImpl) QDiscDel(qdisc types.QDisc) error {
	t.log.V(10).Info("QDiscDel()")

	htb, err := t.htbQdisc(qdisc)
	if err != nil {
		return err
	}
	return t.netlinkIfc.QdiscDel(qdiscToNlQdisc(htb, t.link.Attrs().Index))
}

// QDiscList implements TC interface
func (t *TcNetlinkImpl) QDiscList() ([]types.QDisc, error) {
	t.log.V(10).Info("QDiscList()")

	nlQdiscs, err := t.netlinkIfc.QdiscList(t.link)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list qdiscs")
	}

	qdiscs := []types.QDisc{}
	for _, nlQdisc := range nlQdiscs {
		htb, ok := nlQdisc.(*netlink.Htb)
		if !ok {
			// skip non htb qdiscs
			continue
		}
		qdiscs = append(qdiscs, nlQdiscToQdisc(htb))
	}
	return qdiscs, nil
}

// ClassAdd implements TC interface
func (t *TcNetlinkImpl) ClassAdd(class types.Class) error {
	t.log.V(10).Info("ClassAdd()")

	nlClass, err := t.htbClass(class)
	if err != nil {
		return err
	}
	return t.netlinkIfc.ClassAdd(nlClass)
}

// ClassChange implements TC interface
func (t *TcNetlinkImpl) ClassChange(class types.Class) error {
	t.log.V(10).Info("ClassChange()")

	nlClass, err := t.htbClass(class)
	if err != nil {
		return err
	}
	return t.netlinkIfc.ClassChange(nlClass)
}

// ClassDel implements TC interface
func (t *TcNetlinkImpl) ClassDel(class types.Class) error {
	t.log.V(10).Info("ClassDel()")

	nlClass, err := t.htbClass(class)
	if err != nil {
		return err
	}
	return t.netlinkIfc.ClassDel(nlClass)
}

// ClassList implements TC interface
func (t *TcNetlinkImpl) ClassList() ([]types.Class, error) {
	t.log.V(10).Info("ClassList()")

	nlClasses, err := t.netlinkIfc.ClassList(t.link, netlink.HANDLE_NONE)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list classes")
	}

	classes := []types.Class{}
	for _, nlClass := range nlClasses {
		htb, ok := nlClass.(*netlink.HtbClass)
		if !ok {
			continue
		}
		classes = append(classes, nlClassToClass(htb))
	}
	return classes, nil
}
