package tc

import (
	"bytes"
	"os"
	"strings"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/k8snetworkplumbingwg/altqctl/pkg/tc/generator"
	"github.com/k8snetworkplumbingwg/altqctl/pkg/utils"
)

// NewActuatorFileWriterImpl returns a new ActuatorFileWriterImpl instance
func NewActuatorFileWriterImpl(path string, log klog.Logger) *ActuatorFileWriterImpl {
	return &ActuatorFileWriterImpl{
		log:  log,
		path: path,
	}
}

// ActuatorFileWriterImpl implements Actuator interface and is used to save TC objects to file
// in tc command line notation, one object per line. the file is only rewritten if its content changes.
type ActuatorFileWriterImpl struct {
	log  klog.Logger
	path string
}

// Actuate implements Actuator interface
func (a ActuatorFileWriterImpl) Actuate(objects *generator.Objects) error {
	exist, err := utils.PathExists(a.path)
	if err != nil {
		return errors.Wrapf(err, "failed to determine if path exist: %s", a.path)
	}

	var current []byte
	if exist {
		current, err = os.ReadFile(a.path)
		if err != nil {
			a.log.Error(err, "failed to read file", "path", a.path)
		}
	}

	newBuf := bytes.Buffer{}
	if objects.QDisc == nil {
		_, _ = newBuf.WriteString("qdisc: <nil>\n")
	} else {
		_, _ = newBuf.WriteString("qdisc: ")
		_, _ = newBuf.WriteString(strings.Join(objects.QDisc.GenCmdLineArgs(), " "))
		_, _ = newBuf.WriteRune('\n')
	}

	_, _ = newBuf.WriteString("classes:\n")
	for _, c := range objects.Classes {
		_, _ = newBuf.WriteString(strings.Join(c.GenCmdLineArgs(), " "))
		_, _ = newBuf.WriteRune('\n')
	}

	if bytes.Equal(current, newBuf.Bytes()) {
		a.log.V(2).Info("current and new classes are the same - no action needed.", "path", a.path)
		return nil
	}

	a.log.Info("saving classes", "path", a.path)
	return os.WriteFile(a.path, newBuf.Bytes(), 0o644)
}
