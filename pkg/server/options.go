package server

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/spf13/pflag"
	"k8s.io/klog/v2"

	"github.com/k8snetworkplumbingwg/altqctl/pkg/altq/admission"
	netwrappers "github.com/k8snetworkplumbingwg/altqctl/pkg/net"
	"github.com/k8snetworkplumbingwg/altqctl/pkg/records"
	"github.com/k8snetworkplumbingwg/altqctl/pkg/tc"
)

const (
	TCDriverNone    = "none"
	TCDriverNetlink = "netlink"
	TCDriverCmdline = "cmdline"
)

// Options stores option for the command
type Options struct {
	// ConfigFile is the path of the configuration to load
	ConfigFile string
	// Load is the resource class scope of the load: all, filter, nat or queue
	Load   string
	DryRun bool
	// Show prints the loaded queues and their scheduler parameters
	Show bool
	// TCDriver selects how queues are realized on the host
	TCDriver string
	// RulesPath is a directory the generated tc objects of every interface are saved to
	RulesPath   string
	MetricsFile string
	Timeout     time.Duration

	// overrides, used in tests
	linkInfo            admission.LinkInfo
	netlinkProvider     netwrappers.NetlinkProvider
	createActuatorForIf func(string) (tc.Actuator, error)
	out                 io.Writer
}

// AddFlags adds command line flags into command
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	klog.InitFlags(nil)
	fs.SortFlags = false
	fs.StringVarP(&o.ConfigFile, "file", "f", o.ConfigFile, "Configuration file to load.")
	fs.StringVar(&o.Load, "load", o.Load, "Only load the given resource classes: all, filter, nat or queue.")
	fs.BoolVarP(&o.DryRun, "dry-run", "n", o.DryRun, "Validate the configuration without committing it.")
	fs.BoolVar(&o.Show, "show", o.Show, "Print the loaded queues and their computed scheduler parameters.")
	fs.StringVar(&o.TCDriver, "tc-driver", o.TCDriver, "Driver used to realize queues on the host: none, netlink or cmdline.")
	fs.StringVar(&o.RulesPath, "rules-path", o.RulesPath, "If non-empty, will use this path to store the tc objects of every interface for troubleshooting.")
	fs.StringVar(&o.MetricsFile, "metrics-file", o.MetricsFile, "If non-empty, write load metrics to this file in the prometheus text format.")
	fs.DurationVar(&o.Timeout, "timeout", o.Timeout, "Maximum duration of the load, 0 disables the timeout.")
	fs.AddGoFlagSet(flag.CommandLine)
}

// Validate checks the options are consistent
func (o *Options) Validate() error {
	if o.ConfigFile == "" {
		return fmt.Errorf("configuration file is required")
	}
	if _, err := records.ParseScope(o.Load); err != nil {
		return err
	}
	switch o.TCDriver {
	case TCDriverNone, TCDriverNetlink, TCDriverCmdline:
	default:
		return fmt.Errorf("unknown TC driver: %s", o.TCDriver)
	}
	if o.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}
	return nil
}

// NewOptions initializes Options
func NewOptions() *Options {
	return &Options{
		Load:     "all",
		TCDriver: TCDriverNetlink,
	}
}
