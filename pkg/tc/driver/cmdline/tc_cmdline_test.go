package cmdline_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/pkg/errors"
	klog "k8s.io/klog/v2"
	"k8s.io/utils/exec"

	testingexec "k8s.io/utils/exec/testing"

	"github.com/k8snetworkplumbingwg/altqctl/pkg/tc"
	driver "github.com/k8snetworkplumbingwg/altqctl/pkg/tc/driver/cmdline"
	tctypes "github.com/k8snetworkplumbingwg/altqctl/pkg/tc/types"
)

const (
	fakeNetDev = "fake"
)

// fakeExecHelper is a wrapper around testingexec.FakeExec which provides some
// utility functionality to aid in testing
type fakeExecHelper struct {
	testingexec.FakeExec
}

// AddFakeCmd adds a new testingexec.FakeCommandAction to fakeExecHelper.CommandScript
// that creates a new *testingexec.FakeCmd with the called arguments to Command()
func (feh *fakeExecHelper) AddFakeCmd() *testingexec.FakeCmd {
	fakeCmd := &testingexec.FakeCmd{}
	var action testingexec.FakeCommandAction = func(cmd string, args ...string) exec.Cmd {
		return testingexec.InitFakeCmd(fakeCmd, cmd, args...)
	}
	feh.CommandScript = append(feh.CommandScript, action)
	return fakeCmd
}

func newFakeAction(stdout, stderr []byte, err error) testingexec.FakeAction {
	return func() ([]byte, []byte, error) {
		return stdout, stderr, err
	}
}

var _ = Describe("TC Cmdline driver tests", func() {
	var fakeExec *fakeExecHelper
	var tcCmdLine tc.TC
	var log = klog.NewKlogr().WithName("tc-driver-cmdline-test")
	var testError = errors.New("test error!")

	htbQdisc := tctypes.NewHTBQDiscBuilder().WithHandle(tctypes.MakeHandle(1, 0)).WithDefaultClass(2).Build()
	htbClass := tctypes.NewHTBClassBuilder().
		WithParent(tctypes.MakeHandle(1, 1)).
		WithHandle(tctypes.MakeHandle(1, 2)).
		WithRate(1000000).
		WithCeil(2000000).
		WithPrio(6).
		Build()

	BeforeEach(func() {
		fakeExec = &fakeExecHelper{testingexec.FakeExec{}}
		tcCmdLine = driver.NewTcCmdLineImpl(fakeNetDev, log, fakeExec)
	})

	DescribeTable("commands without output",
		func(call func() error, expectedArgs []string) {
			fakeCmd := fakeExec.AddFakeCmd()
			fakeCmd.RunScript = append(fakeCmd.RunScript, newFakeAction(nil, nil, nil))

			Expect(call()).To(Succeed())
			Expect(fakeCmd.Argv).To(BeEquivalentTo(append([]string{"tc", "-json"}, expectedArgs...)))
		},
		Entry("QDiscAdd replaces root qdisc",
			func() error { return tcCmdLine.QDiscAdd(htbQdisc) },
			[]string{"qdisc", "replace", "dev", fakeNetDev, "root", "handle", "1:", "htb", "default", "2"}),
		Entry("QDiscDel",
			func() error { return tcCmdLine.QDiscDel(htbQdisc) },
			[]string{"qdisc", "del", "dev", fakeNetDev, "root", "handle", "1:"}),
		Entry("ClassAdd",
			func() error { return tcCmdLine.ClassAdd(htbClass) },
			[]string{"class", "add", "dev", fakeNetDev, "parent", "1:1", "classid", "1:2",
				"htb", "rate", "1000000bit", "ceil", "2000000bit", "prio", "6"}),
		Entry("ClassChange",
			func() error { return tcCmdLine.ClassChange(htbClass) },
			[]string{"class", "change", "dev", fakeNetDev, "parent", "1:1", "classid", "1:2",
				"htb", "rate", "1000000bit", "ceil", "2000000bit", "prio", "6"}),
		Entry("ClassDel",
			func() error { return tcCmdLine.ClassDel(htbClass) },
			[]string{"class", "del", "dev", fakeNetDev, "parent", "1:1", "classid", "1:2"}),
	)

	DescribeTable("returns error when underlying command errors",
		func(call func() error) {
			fakeCmd := fakeExec.AddFakeCmd()
			fakeCmd.RunScript = append(fakeCmd.RunScript, newFakeAction(nil, nil, testError))
			Expect(call()).ToNot(Succeed())
		},
		Entry("QDiscAdd", func() error { return tcCmdLine.QDiscAdd(htbQdisc) }),
		Entry("QDiscDel", func() error { return tcCmdLine.QDiscDel(htbQdisc) }),
		Entry("ClassAdd", func() error { return tcCmdLine.ClassAdd(htbClass) }),
		Entry("ClassChange", func() error { return tcCmdLine.ClassChange(htbClass) }),
		Entry("ClassDel", func() error { return tcCmdLine.ClassDel(htbClass) }),
	)

	Context("QDiscList", func() {
		var fakeCmd *testingexec.FakeCmd
		expectedCmdArgs := []string{"tc", "-json", "qdisc", "list", "dev", fakeNetDev}

		BeforeEach(func() {
			fakeCmd = fakeExec.AddFakeCmd()
		})

		It("returns htb qdisc only without error when underlying command passes", func() {
			qdiscListOut := `[
			{"kind":"htb","handle":"1:","root":true,"refcnt":2,"options":
				{"r2q":10,"default":"0x2","direct_packets_stat":0,"direct_qlen":1000}},
			{"kind":"fq_codel","handle":"0:","parent":":1","options":
				{"limit":10240,"flows":1024,"quantum":1514,"target":4999,"interval":99999,"ecn":true}},
			{"kind":"ingress","handle":"ffff:","parent":"ffff:fff1","options":{}}
		]`
			fakeCmd.OutputScript = append(fakeCmd.OutputScript, newFakeAction([]byte(qdiscListOut), nil, nil))

			qdiscs, err := tcCmdLine.QDiscList()

			Expect(err).ToNot(HaveOccurred())
			Expect(fakeCmd.Argv).To(BeEquivalentTo(expectedCmdArgs))
			Expect(qdiscs).To(HaveLen(1))
			Expect(qdiscs[0].Equals(htbQdisc)).To(BeTrue())
		})

		It("accepts numeric default class", func() {
			qdiscListOut := `[{"kind":"htb","handle":"1:","root":true,"options":{"r2q":10,"default":2}}]`
			fakeCmd.OutputScript = append(fakeCmd.OutputScript, newFakeAction([]byte(qdiscListOut), nil, nil))

			qdiscs, err := tcCmdLine.QDiscList()

			Expect(err).ToNot(HaveOccurred())
			Expect(qdiscs).To(HaveLen(1))
			Expect(qdiscs[0].(*tctypes.HTBQDisc).DefaultClass).To(Equal(uint32(2)))
		})

		It("parses non root htb qdisc parent", func() {
			qdiscListOut := `[{"kind":"htb","handle":"10:","parent":"1:5","options":{"default":"0"}}]`
			fakeCmd.OutputScript = append(fakeCmd.OutputScript, newFakeAction([]byte(qdiscListOut), nil, nil))

			qdiscs, err := tcCmdLine.QDiscList()

			Expect(err).ToNot(HaveOccurred())
			Expect(qdiscs).To(HaveLen(1))
			Expect(*qdiscs[0].Attrs().Parent).To(Equal(tctypes.MakeHandle(1, 5)))
			Expect(*qdiscs[0].Attrs().Handle).To(Equal(tctypes.MakeHandle(0x10, 0)))
		})

		It("returns error when underlying command errors", func() {
			fakeCmd.OutputScript = append(fakeCmd.OutputScript, newFakeAction(
				nil, nil, testError))

			qdiscs, err := tcCmdLine.QDiscList()

			Expect(err).To(HaveOccurred())
			Expect(qdiscs).To(BeNil())
		})

		It("returns error on malformed output", func() {
			fakeCmd.OutputScript = append(fakeCmd.OutputScript, newFakeAction([]byte("[{"), nil, nil))
			_, err := tcCmdLine.QDiscList()
			Expect(err).To(HaveOccurred())
		})
	})

	Context("ClassList", func() {
		var fakeCmd *testingexec.FakeCmd
		expectedCmdArgs := []string{"tc", "-json", "class", "list", "dev", fakeNetDev}

		BeforeEach(func() {
			fakeCmd = fakeExec.AddFakeCmd()
		})

		It("returns classes without error when underlying command passes", func() {
			classListOut := `[
			{"class":"htb","handle":"1:1","root":true,"prio":7,"rate":2000000,"ceil":2000000,"burst":1600,"cburst":1600},
			{"class":"htb","handle":"1:2","parent":"1:1","prio":6,"rate":1000000,"ceil":2000000,"burst":1600,"cburst":1600}
		]`
			fakeCmd.OutputScript = append(fakeCmd.OutputScript, newFakeAction([]byte(classListOut), nil, nil))

			classes, err := tcCmdLine.ClassList()

			Expect(err).ToNot(HaveOccurred())
			Expect(fakeCmd.Argv).To(BeEquivalentTo(expectedCmdArgs))
			Expect(classes).To(HaveLen(2))
			Expect(classes[0].Attrs().Parent).To(Equal(tctypes.MakeHandle(1, 0)))
			Expect(classes[1].Equals(htbClass)).To(BeTrue())
		})

		It("returns error on unexpected class kind", func() {
			classListOut := `[{"class":"hfsc","handle":"1:1","root":true}]`
			fakeCmd.OutputScript = append(fakeCmd.OutputScript, newFakeAction([]byte(classListOut), nil, nil))
			_, err := tcCmdLine.ClassList()
			Expect(err).To(HaveOccurred())
		})

		It("returns error when underlying command errors", func() {
			fakeCmd.OutputScript = append(fakeCmd.OutputScript, newFakeAction(nil, nil, testError))
			classes, err := tcCmdLine.ClassList()
			Expect(err).To(HaveOccurred())
			Expect(classes).To(BeNil())
		})
	})
})
