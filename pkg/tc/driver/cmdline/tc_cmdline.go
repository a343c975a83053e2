package cmdline

import (
	"encoding/json"
	"fmt"

	"k8s.io/klog/v2"
	"k8s.io/utils/exec"

	"github.com/k8snetworkplumbingwg/altqctl/pkg/tc/types"
)

// NewTcCmdLineImpl creates a new instance of TcCmdLineImpl
func NewTcCmdLineImpl(dev string, log klog.Logger, executor exec.Interface) *TcCmdLineImpl {
	return &TcCmdLineImpl{
		netDev:   dev,
		log:      log,
		executor: executor,
		options:  []string{"-json"},
	}
}

// TcCmdLineImpl is a concrete implementation of TC interface utilizing TC command line
type TcCmdLineImpl struct {
	netDev   string
	log      klog.Logger
	executor exec.Interface

	options []string
}

// execTcCmdNoOutput executes tc command with args, returning error if occurred
func (t *TcCmdLineImpl) execTcCmdNoOutput(args []string) error {
	finalArgs := append(append([]string{}, t.options...), args...)
	t.log.V(10).Info("executing", "cmd", "tc", "args", finalArgs)
	cmd := t.executor.Command("tc", finalArgs...)
	err := cmd.Run()
	t.log.V(10).Info("exec result", "err", err)
	return err
}

// execTcCmd executes tc command with args, returning stdout output and error
func (t *TcCmdLineImpl) execTcCmd(args []string) ([]byte, error) {
	finalArgs := append(append([]string{}, t.options...), args...)
	t.log.V(10).Info("executing", "cmd", "tc", "args", finalArgs)
	cmd := t.executor.Command("tc", finalArgs...)
	out, err := cmd.Output()
	t.log.V(10).Info("exec result", "err", err, "out", out)
	return out, err
}

// QDiscAdd implements TC interface
func (t *TcCmdLineImpl) QDiscAdd(qdisc types.QDisc) error {
	args := []string{"qdisc", "replace", "dev", t.netDev}
	args = append(args, qdisc.GenCmdLineArgs()...)
	return t.execTcCmdNoOutput(args)
}

// QDiscDel implements TC interface
func (t *TcCmdLineImpl) QDiscDel(qdisc types.QDisc) error {
	args := []string{"qdisc", "del", "dev", t.netDev}
	args = append(args, qdisc.Attrs().GenCmdLineArgs()...)
	return t.execTcCmdNoOutput(args)
}

// QDiscList implements TC interface
func (t *TcCmdLineImpl) QDiscList() ([]types.QDisc, error) {
	args := []string{"qdisc", "list", "dev", t.netDev}
	out, err := t.execTcCmd(args)
	if err != nil {
		return nil, err
	}
	// parse output and return objects
	var cQdiscs []cQDisc
	err = json.Unmarshal(out, &cQdiscs)
	if err != nil {
		return nil, err
	}

	objs := []types.QDisc{}
	for i := range cQdiscs {
		if cQdiscs[i].Kind != string(types.QDiscHTBType) {
			// skip non htb qdiscs
			continue
		}
		qdisc, err := cQDiscToQDisc(&cQdiscs[i])
		if err != nil {
			return nil, err
		}
		objs = append(objs, qdisc)
	}
	return objs, nil
}

// ClassAdd implements TC interface
func (t *TcCmdLineImpl) ClassAdd(class types.Class) error {
	args := []string{"class", "add", "dev", t.netDev}
	args = append(args, class.GenCmdLineArgs()...)
	return t.execTcCmdNoOutput(args)
}

// ClassChange implements TC interface
func (t *TcCmdLineImpl) ClassChange(class types.Class) error {
	args := []string{"class", "change", "dev", t.netDev}
	args = append(args, class.GenCmdLineArgs()...)
	return t.execTcCmdNoOutput(args)
}

// ClassDel implements TC interface
func (t *TcCmdLineImpl) ClassDel(class types.Class) error {
	args := []string{"class", "del", "dev", t.netDev}
	args = append(args, class.Attrs().GenCmdLineArgs()...)
	return t.execTcCmdNoOutput(args)
}

// ClassList implements TC interface
func (t *TcCmdLineImpl) ClassList() ([]types.Class, error) {
	args := []string{"class", "list", "dev", t.netDev}
	out, err := t.execTcCmd(args)
	if err != nil {
		return nil, err
	}
	// parse output and return objects
	var cClasses []cClass
	err = json.Unmarshal(out, &cClasses)
	if err != nil {
		return nil, err
	}

	objs := []types.Class{}
	for i := range cClasses {
		if cClasses[i].Kind != string(types.ClassHTBType) {
			return nil, fmt.Errorf("unexpected class kind: %s", cClasses[i].Kind)
		}
		class, err := cClassToClass(&cClasses[i])
		if err != nil {
			return nil, err
		}
		objs = append(objs, class)
	}
	return objs, nil
}
