package server

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"
	"k8s.io/utils/exec"

	"github.com/k8snetworkplumbingwg/altqctl/pkg/altq/admission"
	"github.com/k8snetworkplumbingwg/altqctl/pkg/altq/registry"
	"github.com/k8snetworkplumbingwg/altqctl/pkg/backend/kernel"
	"github.com/k8snetworkplumbingwg/altqctl/pkg/backend/memory"
	"github.com/k8snetworkplumbingwg/altqctl/pkg/config"
	"github.com/k8snetworkplumbingwg/altqctl/pkg/metrics"
	netwrappers "github.com/k8snetworkplumbingwg/altqctl/pkg/net"
	"github.com/k8snetworkplumbingwg/altqctl/pkg/printer"
	"github.com/k8snetworkplumbingwg/altqctl/pkg/records"
	"github.com/k8snetworkplumbingwg/altqctl/pkg/tc"
	cmdlinedriver "github.com/k8snetworkplumbingwg/altqctl/pkg/tc/driver/cmdline"
	netlinkdriver "github.com/k8snetworkplumbingwg/altqctl/pkg/tc/driver/netlink"
	"github.com/k8snetworkplumbingwg/altqctl/pkg/tc/generator"
	"github.com/k8snetworkplumbingwg/altqctl/pkg/transaction"
)

// Server structure defines data for server
type Server struct {
	Options *Options

	cfg         *config.Config
	registry    *registry.Registry
	store       *memory.Store
	coordinator *transaction.Coordinator
	recorder    *metrics.Recorder
	out         io.Writer
	log         klog.Logger

	netlinkProvider        netwrappers.NetlinkProvider
	createActuatorFromIfFn func(string) (tc.Actuator, error)
}

// NewServer creates a new *Server instance
func NewServer(o *Options) (*Server, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	scope, _ := records.ParseScope(o.Load)

	cfg, err := config.Load(o.ConfigFile)
	if err != nil {
		return nil, err
	}

	if o.RulesPath != "" {
		// create rules directory if it does not exist
		if _, err := os.Stat(o.RulesPath); os.IsNotExist(err) {
			err = os.Mkdir(o.RulesPath, 0700)
			if err != nil {
				return nil, err
			}
		}
	}

	if o.netlinkProvider == nil {
		o.netlinkProvider = netwrappers.NewNetlinkProviderImpl()
	}

	if o.linkInfo == nil {
		if len(cfg.Links) > 0 {
			links, err := cfg.StaticLinks()
			if err != nil {
				return nil, err
			}
			o.linkInfo = netwrappers.NewStaticLinkInfo(links, nil)
		} else {
			o.linkInfo = netwrappers.NewLinkInfoImpl(o.netlinkProvider, netwrappers.SysfsRoot)
		}
	}

	if o.out == nil {
		o.out = os.Stdout
	}

	s := &Server{
		Options:                o,
		cfg:                    cfg,
		registry:               registry.New(),
		store:                  memory.NewStore(),
		recorder:               metrics.NewRecorder(),
		out:                    o.out,
		log:                    klog.NewKlogr().WithName("altqctl"),
		netlinkProvider:        o.netlinkProvider,
		createActuatorFromIfFn: o.createActuatorForIf,
	}

	var factories []kernel.ActuatorFactory
	if s.createActuatorFromIfFn == nil && o.TCDriver != TCDriverNone {
		// use builtin method if unspecified
		s.createActuatorFromIfFn = s.createActuatorForIf
	}
	if s.createActuatorFromIfFn != nil {
		factories = append(factories, s.createActuatorFromIfFn)
	}
	if o.RulesPath != "" {
		factories = append(factories, s.createFileActuatorForIf)
	}

	validator := admission.NewValidator(s.registry, o.linkInfo, klog.NewKlogr().WithName("admission"))
	backend := kernel.NewBackend(s.store, generator.NewHTBGenerator(),
		klog.NewKlogr().WithName("kernel-backend"), factories...)
	s.coordinator = transaction.NewCoordinator(backend, validator, transaction.Options{
		Scope:   scope,
		DryRun:  o.DryRun,
		Timeout: o.Timeout,
	}, klog.NewKlogr().WithName("coordinator"))

	return s, nil
}

// Run loads the configuration once. metrics are written whether the load succeeds or not.
func (s *Server) Run(ctx context.Context) error {
	now := time.Now()
	defer func() {
		s.log.V(4).Info("load done", "execution time", time.Since(now))
	}()

	result, err := s.coordinator.Load(ctx, s.cfg)
	if result != nil {
		for _, w := range result.Warnings {
			s.log.Info("warning", "msg", w.Error())
		}
	}

	s.recorder.RecordLoad(result, s.queueCounts(result), err)
	if s.Options.MetricsFile != "" {
		if merr := s.recorder.WriteToTextfile(s.Options.MetricsFile); merr != nil {
			s.log.Error(merr, "failed to write metrics", "path", s.Options.MetricsFile)
		}
	}

	if err != nil {
		return errors.Wrap(err, "failed to load configuration")
	}

	if s.Options.Show {
		if err := s.show(result); err != nil {
			return err
		}
	}

	s.log.Info("configuration loaded", "load", result.ID, "dryRun", result.DryRun,
		"interfaces", result.Interfaces, "committed", len(result.Committed))
	return nil
}

// show prints the queues of every loaded interface followed by the CBQ parameter table
func (s *Server) show(result *transaction.LoadResult) error {
	for _, ifName := range result.Interfaces {
		if err := printer.PrintQueues(s.out, s.registry.ListInterface(ifName)); err != nil {
			return errors.Wrapf(err, "failed to print queues of %s", ifName)
		}
	}
	if len(result.Interfaces) == 0 {
		return nil
	}
	_, err := fmt.Fprintln(s.out, printer.ParamsTable(s.registry.List()).Render())
	return err
}

// queueCounts returns the number of queues of every loaded interface
func (s *Server) queueCounts(result *transaction.LoadResult) map[string]int {
	counts := make(map[string]int)
	if result == nil {
		return counts
	}
	for _, ifName := range result.Interfaces {
		// the interface entry is not a queue
		counts[ifName] = len(s.registry.ListInterface(ifName)) - 1
	}
	return counts
}

// createActuatorForIf creates a new tc.Actuator given tc Driver type and interface name
func (s *Server) createActuatorForIf(ifName string) (tc.Actuator, error) {
	var tcAPI tc.TC

	switch s.Options.TCDriver {
	case TCDriverNetlink:
		lnk, err := s.netlinkProvider.LinkByName(ifName)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to get link: %s", ifName)
		}
		tcAPI = netlinkdriver.NewTcNetlinkImpl(
			lnk, klog.NewKlogr().WithName("tc-netlink-driver"), s.netlinkProvider)
	case TCDriverCmdline:
		tcAPI = cmdlinedriver.NewTcCmdLineImpl(
			ifName, klog.NewKlogr().WithName("tc-cmdline-driver"), exec.New())
	default:
		return nil, fmt.Errorf("unknown TC driver: %s", s.Options.TCDriver)
	}

	return tc.NewActuatorTCImpl(tcAPI, klog.NewKlogr().WithName("tc-actuator")), nil
}

// createFileActuatorForIf creates an actuator saving the tc objects of ifName under RulesPath
func (s *Server) createFileActuatorForIf(ifName string) (tc.Actuator, error) {
	fullPath := filepath.Join(s.Options.RulesPath, fmt.Sprintf("%s.rules", ifName))
	s.log.V(4).Info("saving interface rules", "path", fullPath)
	return tc.NewActuatorFileWriterImpl(fullPath, klog.NewKlogr().WithName("actuator-file-writer")), nil
}
