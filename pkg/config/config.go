package config

import (
	"os"

	"github.com/pkg/errors"
	"sigs.k8s.io/yaml"
)

// Config is the declarative configuration loaded by altqctl
type Config struct {
	// Links overrides the MTU and speed of interfaces, used when links are not queried from the host
	Links []Link `json:"links,omitempty"`
	// Interfaces declares the queueing discipline of interfaces and their queues
	Interfaces []Interface `json:"interfaces,omitempty"`

	NAT      []NatRule      `json:"nat,omitempty"`
	Binat    []BinatRule    `json:"binat,omitempty"`
	Redirect []RedirectRule `json:"rdr,omitempty"`
	Filter   []FilterRule   `json:"filter,omitempty"`
}

// Link holds known properties of a network interface
type Link struct {
	Name  string    `json:"name"`
	MTU   uint32    `json:"mtu,omitempty"`
	Speed Bandwidth `json:"speed,omitempty"`
}

// Interface is an altq declaration on a network interface
type Interface struct {
	Name      string    `json:"name"`
	Scheduler string    `json:"scheduler"`
	Bandwidth Bandwidth `json:"bandwidth,omitempty"`
	QLimit    uint32    `json:"qlimit,omitempty"`
	TBRSize   uint32    `json:"tbrsize,omitempty"`
	Queues    []Queue   `json:"queues,omitempty"`
}

// Queue is a queue declaration, queues without parent are top level queues of the interface
type Queue struct {
	Name      string    `json:"name"`
	Parent    string    `json:"parent,omitempty"`
	Bandwidth Bandwidth `json:"bandwidth,omitempty"`
	// Priority defaults to DefaultPriority when unset
	Priority *uint8 `json:"priority,omitempty"`
	QLimit   uint32 `json:"qlimit,omitempty"`
	// Flags are scheduler options such as default, borrow or red
	Flags         []string `json:"flags,omitempty"`
	PacketSize    uint32   `json:"packetSize,omitempty"`
	MaxPacketSize uint32   `json:"maxPacketSize,omitempty"`
	MinBurst      uint32   `json:"minBurst,omitempty"`
	MaxBurst      uint32   `json:"maxBurst,omitempty"`
}

// Match is the packet match of a rule
type Match struct {
	On    string `json:"on,omitempty"`
	Proto string `json:"proto,omitempty"`
	From  string `json:"from,omitempty"`
	To    string `json:"to,omitempty"`
	Port  uint16 `json:"port,omitempty"`
}

// FilterRule is a pass or block rule
type FilterRule struct {
	Match     `json:",inline"`
	Action    string `json:"action"`
	Direction string `json:"direction,omitempty"`
	Quick     bool   `json:"quick,omitempty"`
	Queue     string `json:"queue,omitempty"`
}

// NatRule translates source addresses
type NatRule struct {
	Match     `json:",inline"`
	Translate string `json:"translate"`
}

// BinatRule maps an internal address to an external one
type BinatRule struct {
	On       string `json:"on"`
	Internal string `json:"internal"`
	External string `json:"external"`
}

// RedirectRule redirects matched packets
type RedirectRule struct {
	Match      `json:",inline"`
	Target     string `json:"target"`
	TargetPort uint16 `json:"targetPort,omitempty"`
}

// Load reads and parses the configuration file at path
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read configuration file %s", path)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse configuration file %s", path)
	}
	return cfg, nil
}

// Parse decodes a YAML (or JSON) configuration. unknown fields are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.UnmarshalStrict(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
