package cbq

import (
	"github.com/k8snetworkplumbingwg/altqctl/pkg/altq/types"
)

// Eval completes the CBQ options of an admitted queue: it checks the priority, fills in packet
// sizes from the interface MTU, marks parentless queues as root classes and computes the idle
// time parameters. spec is modified in place.
func Eval(spec *types.QueueSpec, ifMTU uint32) (Params, error) {
	if spec.Priority >= types.CBQMaxPriority {
		return Params{}, types.NewQueueError(types.ErrorKindPriorityOutOfRange,
			spec.InterfaceName, spec.QueueName, "priority %d out of range: max %d",
			spec.Priority, types.CBQMaxPriority-1)
	}

	opts := &spec.CBQOpts
	if opts.PacketSize == 0 {
		opts.PacketSize = ifMTU
		if opts.PacketSize > types.MCLBytes {
			// compatibility quirk: the default is masked, not clamped, to match what the kernel
			// scheduler has always been given
			opts.PacketSize &^= types.MCLBytes
		}
	} else if opts.PacketSize > ifMTU {
		opts.PacketSize = ifMTU
	}
	if opts.MaxPacketSize == 0 {
		opts.MaxPacketSize = ifMTU
	}
	if opts.PacketSize > opts.MaxPacketSize {
		opts.PacketSize = opts.MaxPacketSize
	}

	if !spec.HasParent() {
		opts.Flags |= types.CBQFlagRootClass | types.CBQFlagEfficient
	}

	p := ComputeIdleTime(Input{
		Bandwidth:          spec.Bandwidth,
		InterfaceBandwidth: spec.InterfaceBandwidth,
		PacketSize:         opts.PacketSize,
		MaxPacketSize:      opts.MaxPacketSize,
		MinBurst:           opts.MinBurst,
		MaxBurst:           opts.MaxBurst,
	})
	p.Apply(opts)
	return p, nil
}
