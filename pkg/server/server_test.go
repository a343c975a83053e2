package server

import (
	"bytes"
	"context"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/mock"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	netwrappers "github.com/k8snetworkplumbingwg/altqctl/pkg/net"
	"github.com/k8snetworkplumbingwg/altqctl/pkg/tc"
	"github.com/k8snetworkplumbingwg/altqctl/pkg/tc/generator"
	"github.com/k8snetworkplumbingwg/altqctl/pkg/tc/mocks"
)

const testConfig = `
interfaces:
- name: eth0
  scheduler: cbq
  bandwidth: 10Mb
  queues:
  - name: root_q
    bandwidth: 10Mb
  - name: std
    parent: root_q
    bandwidth: 60%
    flags: [default]
  - name: ssh
    parent: root_q
    bandwidth: 20%
    priority: 4
    flags: [borrow]
filter:
- action: pass
  direction: out
  on: eth0
  proto: tcp
  port: 22
  queue: ssh
`

const noDefaultConfig = `
interfaces:
- name: eth0
  scheduler: cbq
  bandwidth: 10Mb
  queues:
  - name: root_q
    bandwidth: 10Mb
  - name: std
    parent: root_q
    bandwidth: 60%
`

func writeConfig(dir, content string) string {
	path := filepath.Join(dir, "altq.yaml")
	ExpectWithOffset(1, os.WriteFile(path, []byte(content), 0o600)).To(Succeed())
	return path
}

func hasClasses(n int) interface{} {
	return mock.MatchedBy(func(objs *generator.Objects) bool {
		return objs.QDisc != nil && len(objs.Classes) == n
	})
}

var _ = Describe("Options", func() {
	It("registers flags", func() {
		o := NewOptions()
		fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
		o.AddFlags(fs)
		Expect(fs.Parse([]string{"-f", "/etc/altq.yaml", "--load", "queue", "-n", "--show",
			"--tc-driver", "cmdline", "--rules-path", "/tmp/rules", "--metrics-file", "/tmp/m.prom",
			"--timeout", "5s"})).To(Succeed())
		Expect(o.ConfigFile).To(Equal("/etc/altq.yaml"))
		Expect(o.Load).To(Equal("queue"))
		Expect(o.DryRun).To(BeTrue())
		Expect(o.Show).To(BeTrue())
		Expect(o.TCDriver).To(Equal(TCDriverCmdline))
		Expect(o.RulesPath).To(Equal("/tmp/rules"))
		Expect(o.MetricsFile).To(Equal("/tmp/m.prom"))
		Expect(o.Timeout.Seconds()).To(Equal(5.0))
		Expect(o.Validate()).To(Succeed())
	})

	DescribeTable("Validate",
		func(mutate func(o *Options), msg string) {
			o := NewOptions()
			o.ConfigFile = "altq.yaml"
			mutate(o)
			Expect(o.Validate()).To(MatchError(ContainSubstring(msg)))
		},
		Entry("no file", func(o *Options) { o.ConfigFile = "" }, "configuration file is required"),
		Entry("bad scope", func(o *Options) { o.Load = "everything" }, "unknown load scope"),
		Entry("bad driver", func(o *Options) { o.TCDriver = "ioctl" }, "unknown TC driver"),
		Entry("negative timeout", func(o *Options) { o.Timeout = -1 }, "timeout"),
	)
})

var _ = Describe("Server test", func() {
	var dir string
	var out *bytes.Buffer
	var mockActuator *mocks.Actuator
	var o *Options

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		out = &bytes.Buffer{}
		mockActuator = mocks.NewActuator(GinkgoT())
		o = NewOptions()
		o.ConfigFile = writeConfig(dir, testConfig)
		o.MetricsFile = filepath.Join(dir, "altqctl.prom")
		o.linkInfo = netwrappers.NewStaticLinkInfo(nil, &netwrappers.StaticLink{MTU: 1500, Speed: 100000000})
		o.createActuatorForIf = func(ifName string) (tc.Actuator, error) {
			if ifName != "eth0" {
				return nil, errors.Errorf("unexpected interface %s", ifName)
			}
			return mockActuator, nil
		}
		o.out = out
	})

	Context("NewServer", func() {
		It("fails on a missing configuration file", func() {
			o.ConfigFile = filepath.Join(dir, "missing.yaml")
			_, err := NewServer(o)
			Expect(err).To(HaveOccurred())
		})

		It("fails on invalid options", func() {
			o.TCDriver = "ioctl"
			_, err := NewServer(o)
			Expect(err).To(HaveOccurred())
		})

		It("uses links from the configuration", func() {
			o.linkInfo = nil
			o.ConfigFile = writeConfig(dir, "links:\n- name: eth0\n  mtu: 9000\n  speed: 1Gb\n"+testConfig)
			s, err := NewServer(o)
			Expect(err).ToNot(HaveOccurred())
			Expect(s.Options.linkInfo.MTU("eth0")).To(Equal(uint32(9000)))
		})

		It("creates the rules directory", func() {
			o.RulesPath = filepath.Join(dir, "rules")
			_, err := NewServer(o)
			Expect(err).ToNot(HaveOccurred())
			Expect(o.RulesPath).To(BeADirectory())
		})
	})

	Context("Run", func() {
		It("loads and realizes the configuration", func() {
			mockActuator.On("Actuate", hasClasses(3)).Return(nil).Once()
			s, err := NewServer(o)
			Expect(err).ToNot(HaveOccurred())

			Expect(s.Run(context.Background())).To(Succeed())
			Expect(out.String()).To(BeEmpty())

			data, err := os.ReadFile(o.MetricsFile)
			Expect(err).ToNot(HaveOccurred())
			Expect(string(data)).To(ContainSubstring(`altqctl_interface_queues{interface="eth0"} 3`))
			Expect(string(data)).To(ContainSubstring(`altqctl_commits_total{class="filter"} 1`))
			Expect(string(data)).To(ContainSubstring(`altqctl_staged_records_total{class="queue"} 4`))
		})

		It("does not realize anything on dry run", func() {
			o.DryRun = true
			s, err := NewServer(o)
			Expect(err).ToNot(HaveOccurred())
			Expect(s.Run(context.Background())).To(Succeed())
			mockActuator.AssertNotCalled(GinkgoT(), "Actuate", mock.Anything)
		})

		It("skips queues outside the load scope", func() {
			o.Load = "filter"
			s, err := NewServer(o)
			Expect(err).ToNot(HaveOccurred())
			Expect(s.Run(context.Background())).To(Succeed())
			mockActuator.AssertNotCalled(GinkgoT(), "Actuate", mock.Anything)
		})

		It("shows the loaded queues", func() {
			o.DryRun = true
			o.Show = true
			s, err := NewServer(o)
			Expect(err).ToNot(HaveOccurred())
			Expect(s.Run(context.Background())).To(Succeed())
			Expect(out.String()).To(ContainSubstring("altq on eth0 cbq bandwidth 10Mb"))
			Expect(out.String()).To(ContainSubstring(
				"    queue std on eth0 bandwidth 6Mb priority 1 cbq( default )\n"))
			Expect(out.String()).To(ContainSubstring(
				"    queue ssh on eth0 bandwidth 2Mb priority 4 cbq( borrow )\n"))
			Expect(out.String()).To(ContainSubstring("NSPERBYTE"))
		})

		It("fails and records the error kind on an invalid tree", func() {
			o.ConfigFile = writeConfig(dir, noDefaultConfig)
			s, err := NewServer(o)
			Expect(err).ToNot(HaveOccurred())
			Expect(s.Run(context.Background())).To(MatchError(ContainSubstring("should have one default queue")))

			data, err := os.ReadFile(o.MetricsFile)
			Expect(err).ToNot(HaveOccurred())
			Expect(string(data)).To(ContainSubstring(`altqctl_load_failures_total{kind="MissingDefaultClass"} 1`))
		})

		It("fails when the queues cannot be realized", func() {
			mockActuator.On("Actuate", mock.Anything).Return(errors.New("netlink failure")).Once()
			s, err := NewServer(o)
			Expect(err).ToNot(HaveOccurred())
			Expect(s.Run(context.Background())).To(MatchError(ContainSubstring("netlink failure")))

			data, err := os.ReadFile(o.MetricsFile)
			Expect(err).ToNot(HaveOccurred())
			Expect(string(data)).To(ContainSubstring(`altqctl_load_failures_total{kind="BackendCommitFailed"} 1`))
		})

		It("saves the generated rules", func() {
			o.TCDriver = TCDriverNone
			o.createActuatorForIf = nil
			o.RulesPath = filepath.Join(dir, "rules")
			s, err := NewServer(o)
			Expect(err).ToNot(HaveOccurred())
			Expect(s.Run(context.Background())).To(Succeed())

			data, err := os.ReadFile(filepath.Join(o.RulesPath, "eth0.rules"))
			Expect(err).ToNot(HaveOccurred())
			Expect(string(data)).To(HavePrefix("qdisc: root handle 1: htb default 2\n"))
		})
	})
})
