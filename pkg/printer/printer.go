package printer

import (
	"fmt"
	"io"
	"strings"

	prettytable "github.com/jedib0t/go-pretty/v6/table"

	"github.com/k8snetworkplumbingwg/altqctl/pkg/altq/tree"
	"github.com/k8snetworkplumbingwg/altqctl/pkg/altq/types"
	"github.com/k8snetworkplumbingwg/altqctl/pkg/utils"
)

const indent = "  "

// QueueLine returns the textual form of an interface or queue entry, e.g
// "queue std on em0 bandwidth 5Mb priority 1 cbq( default )"
func QueueLine(spec *types.QueueSpec, children []string) string {
	var sb strings.Builder
	if spec.IsInterface() {
		fmt.Fprintf(&sb, "altq on %s %s bandwidth %s", spec.InterfaceName, spec.Scheduler.String(),
			bandwidthString(spec))
		if spec.QLimit != 0 && spec.QLimit != types.DefaultQLimit {
			fmt.Fprintf(&sb, " qlimit %d", spec.QLimit)
		}
		if spec.TBRSize != 0 {
			fmt.Fprintf(&sb, " tbrsize %d", spec.TBRSize)
		}
	} else {
		fmt.Fprintf(&sb, "queue %s on %s bandwidth %s", spec.QueueName, spec.InterfaceName,
			bandwidthString(spec))
		if spec.Scheduler == types.SchedulerCBQ || spec.Scheduler == types.SchedulerPRIQ {
			fmt.Fprintf(&sb, " priority %d", spec.Priority)
		}
		if spec.QLimit != 0 && spec.QLimit != types.DefaultQLimit {
			fmt.Fprintf(&sb, " qlimit %d", spec.QLimit)
		}
		if names := spec.CBQOpts.Flags.Names(); len(names) > 0 && spec.Scheduler == types.SchedulerCBQ {
			fmt.Fprintf(&sb, " cbq( %s )", strings.Join(names, " "))
		}
	}
	if len(children) > 0 {
		fmt.Fprintf(&sb, " queue { %s }", strings.Join(children, " "))
	}
	return sb.String()
}

// bandwidthString prints the resolved bandwidth, falling back to the requested one
func bandwidthString(spec *types.QueueSpec) string {
	if spec.Bandwidth > 0 {
		return utils.RateToString(float64(spec.Bandwidth))
	}
	if spec.RequestedBandwidth.Absolute > 0 {
		return utils.RateToString(float64(spec.RequestedBandwidth.Absolute))
	}
	if spec.RequestedBandwidth.Percent > 0 {
		return fmt.Sprintf("%d%%", spec.RequestedBandwidth.Percent)
	}
	return "0b"
}

// PrintQueues writes the queues of one interface in tree preorder, children indented below
// their parent. specs must start with the interface entry.
func PrintQueues(w io.Writer, specs []*types.QueueSpec) error {
	t, err := tree.Build(specs)
	if err != nil {
		return err
	}

	var topQueues []string
	if root := t.Root(); root != nil {
		t.Walk(func(n *tree.Node, depth int) bool {
			if depth == 0 && n != root {
				topQueues = append(topQueues, n.Spec.QueueName)
			}
			return true
		})
	}

	t.Walk(func(n *tree.Node, depth int) bool {
		var children []string
		if n.Spec.IsInterface() {
			children = topQueues
		} else {
			for _, c := range t.Children(n) {
				children = append(children, c.Spec.QueueName)
			}
		}
		if n.Spec.IsInterface() {
			depth = 0
		} else {
			depth++
		}
		_, err = fmt.Fprintf(w, "%s%s\n", strings.Repeat(indent, depth), QueueLine(&n.Spec, children))
		return err == nil
	})
	return err
}

// ParamsTable returns a table of the CBQ scheduler parameters of the CBQ queues in specs
func ParamsTable(specs []*types.QueueSpec) prettytable.Writer {
	w := prettytable.NewWriter()
	w.AppendHeader(prettytable.Row{"Interface", "Queue", "QID", "Parent", "Bandwidth", "Priority",
		"PktSize", "MaxPktSize", "MinBurst", "MaxBurst", "NsPerByte", "MaxIdle", "MinIdle", "OffTime",
		"Flags"})
	for _, s := range specs {
		if s.IsInterface() || s.Scheduler != types.SchedulerCBQ {
			continue
		}
		o := s.CBQOpts
		w.AppendRow(prettytable.Row{s.InterfaceName, s.QueueName, s.QID, s.ParentName,
			utils.RateToString(float64(s.Bandwidth)), s.Priority, o.PacketSize, o.MaxPacketSize,
			o.MinBurst, o.MaxBurst, o.NsPerByte, o.MaxIdle, o.MinIdle, o.OffTime, o.Flags.String()})
	}
	return w
}
