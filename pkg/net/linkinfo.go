package net

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const (
	// SysfsRoot is the default mount point of sysfs
	SysfsRoot = "/sys"
	// bitsPerMbit converts the sysfs speed unit to bits/sec
	bitsPerMbit = 1000000
)

// NewLinkInfoImpl creates a new LinkInfoImpl querying links through nl and reading link speed under sysfsRoot
func NewLinkInfoImpl(nl NetlinkProvider, sysfsRoot string) *LinkInfoImpl {
	return &LinkInfoImpl{nl: nl, sysfsRoot: sysfsRoot}
}

// LinkInfoImpl provides MTU and speed of host network interfaces
type LinkInfoImpl struct {
	nl        NetlinkProvider
	sysfsRoot string
}

// MTU returns the MTU of ifName
func (l *LinkInfoImpl) MTU(ifName string) (uint32, error) {
	link, err := l.nl.LinkByName(ifName)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to get link %s", ifName)
	}
	if link.Attrs().MTU <= 0 {
		return 0, errors.Errorf("link %s reports invalid MTU %d", ifName, link.Attrs().MTU)
	}
	return uint32(link.Attrs().MTU), nil
}

// Speed returns the speed of ifName in bits/sec. links that do not report a speed
// (virtual devices, links that are down) return 0.
func (l *LinkInfoImpl) Speed(ifName string) (uint64, error) {
	if _, err := l.nl.LinkByName(ifName); err != nil {
		return 0, errors.Wrapf(err, "failed to get link %s", ifName)
	}
	data, err := os.ReadFile(filepath.Join(l.sysfsRoot, "class", "net", ifName, "speed"))
	if err != nil {
		return 0, nil
	}
	mbits, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
	if err != nil || mbits <= 0 {
		return 0, nil
	}
	return uint64(mbits) * bitsPerMbit, nil
}

// StaticLink holds the properties of a link known in advance
type StaticLink struct {
	MTU uint32
	// Speed in bits/sec, 0 if unknown
	Speed uint64
}

// NewStaticLinkInfo creates a StaticLinkInfo for links. unknown links report defaultLink.
func NewStaticLinkInfo(links map[string]StaticLink, defaultLink *StaticLink) *StaticLinkInfo {
	if links == nil {
		links = make(map[string]StaticLink)
	}
	return &StaticLinkInfo{links: links, defaultLink: defaultLink}
}

// StaticLinkInfo provides link properties from a fixed table, used when the
// configuration is not applied to the host
type StaticLinkInfo struct {
	links       map[string]StaticLink
	defaultLink *StaticLink
}

func (s *StaticLinkInfo) get(ifName string) (StaticLink, error) {
	if l, ok := s.links[ifName]; ok {
		return l, nil
	}
	if s.defaultLink != nil {
		return *s.defaultLink, nil
	}
	return StaticLink{}, errors.Errorf("unknown link %s", ifName)
}

// MTU returns the MTU of ifName
func (s *StaticLinkInfo) MTU(ifName string) (uint32, error) {
	l, err := s.get(ifName)
	return l.MTU, err
}

// Speed returns the speed of ifName in bits/sec
func (s *StaticLinkInfo) Speed(ifName string) (uint64, error) {
	l, err := s.get(ifName)
	return l.Speed, err
}
