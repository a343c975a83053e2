package net

import (
	"github.com/vishvananda/netlink"
)

// NetlinkProvider is a wrapper interface over vishvananda/netlink lib
type NetlinkProvider interface {
	// LinkByName returns Link by netdev name
	LinkByName(name string) (netlink.Link, error)

	// QdiscReplace adds qdisc, replacing the qdisc attached at the same parent
	QdiscReplace(qdisc netlink.Qdisc) error
	// QdiscDel deletes qdisc
	QdiscDel(qdisc netlink.Qdisc) error
	// QdiscList lists Qdiscs for link
	QdiscList(link netlink.Link) ([]netlink.Qdisc, error)

	// ClassAdd adds class
	ClassAdd(class netlink.Class) error
	// ClassChange changes an existing class
	ClassChange(class netlink.Class) error
	// ClassDel deletes class
	ClassDel(class netlink.Class) error
	// ClassList lists classes of link under parent, netlink.HANDLE_NONE lists all classes
	ClassList(link netlink.Link, parent uint32) ([]netlink.Class, error)
}

// NewNetlinkProviderImpl creates a new NetlinkProviderImpl
func NewNetlinkProviderImpl() *NetlinkProviderImpl {
	return &NetlinkProviderImpl{}
}

type NetlinkProviderImpl struct{}

// LinkByName implements NetlinkProvider interface
func (n NetlinkProviderImpl) LinkByName(name string) (netlink.Link, error) {
	return netlink.LinkByName(name)
}

// QdiscReplace implements NetlinkProvider interface
func (n NetlinkProviderImpl) QdiscReplace(qdisc netlink.Qdisc) error {
	return netlink.QdiscReplace(qdisc)
}

// QdiscDel implements NetlinkProvider interface
func (n NetlinkProviderImpl) QdiscDel(qdisc netlink.Qdisc) error {
	return netlink.QdiscDel(qdisc)
}

// QdiscList implements NetlinkProvider interface
func (n NetlinkProviderImpl) QdiscList(link netlink.Link) ([]netlink.Qdisc, error) {
	return netlink.QdiscList(link)
}

// ClassAdd implements NetlinkProvider interface
func (n NetlinkProviderImpl) ClassAdd(class netlink.Class) error {
	return netlink.ClassAdd(class)
}

// ClassChange implements NetlinkProvider interface
func (n NetlinkProviderImpl) ClassChange(class netlink.Class) error {
	return netlink.ClassChange(class)
}

// ClassDel implements NetlinkProvider interface
func (n NetlinkProviderImpl) ClassDel(class netlink.Class) error {
	return netlink.ClassDel(class)
}

// ClassList implements NetlinkProvider interface
func (n NetlinkProviderImpl) ClassList(link netlink.Link, parent uint32) ([]netlink.Class, error) {
	return netlink.ClassList(link, parent)
}
