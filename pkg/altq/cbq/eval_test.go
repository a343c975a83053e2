package cbq_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/k8snetworkplumbingwg/altqctl/pkg/altq/cbq"
	"github.com/k8snetworkplumbingwg/altqctl/pkg/altq/types"
)

var _ = Describe("CBQ eval tests", func() {
	var spec *types.QueueSpec

	BeforeEach(func() {
		spec = types.NewQueueSpecBuilder().WithInterface("eth0").WithName("q").WithParent("p").Build()
		spec.Bandwidth = 1000000
		spec.InterfaceBandwidth = 10000000
	})

	It("defaults packet sizes to the mtu", func() {
		_, err := cbq.Eval(spec, 1500)
		Expect(err).ToNot(HaveOccurred())
		Expect(spec.CBQOpts.PacketSize).To(Equal(uint32(1500)))
		Expect(spec.CBQOpts.MaxPacketSize).To(Equal(uint32(1500)))
		Expect(spec.CBQOpts.NsPerByte).To(Equal(uint32(8000)))
	})

	It("masks a defaulted packet size above the cluster size", func() {
		_, err := cbq.Eval(spec, 9000)
		Expect(err).ToNot(HaveOccurred())
		Expect(spec.CBQOpts.PacketSize).To(Equal(uint32(9000 &^ types.MCLBytes)))
		Expect(spec.CBQOpts.MaxPacketSize).To(Equal(uint32(9000)))
	})

	It("clamps an explicit packet size to the mtu", func() {
		spec.CBQOpts.PacketSize = 4000
		_, err := cbq.Eval(spec, 1500)
		Expect(err).ToNot(HaveOccurred())
		Expect(spec.CBQOpts.PacketSize).To(Equal(uint32(1500)))
	})

	It("clamps packet size to max packet size", func() {
		spec.CBQOpts.PacketSize = 1400
		spec.CBQOpts.MaxPacketSize = 1000
		_, err := cbq.Eval(spec, 1500)
		Expect(err).ToNot(HaveOccurred())
		Expect(spec.CBQOpts.PacketSize).To(Equal(uint32(1000)))
		Expect(spec.CBQOpts.MaxPacketSize).To(Equal(uint32(1000)))
	})

	It("marks parentless queues as efficient root classes", func() {
		spec.ParentName = ""
		_, err := cbq.Eval(spec, 1500)
		Expect(err).ToNot(HaveOccurred())
		Expect(spec.CBQOpts.Flags.Has(types.CBQFlagRootClass | types.CBQFlagEfficient)).To(BeTrue())
	})

	It("does not mark child queues", func() {
		_, err := cbq.Eval(spec, 1500)
		Expect(err).ToNot(HaveOccurred())
		Expect(spec.CBQOpts.Flags).To(BeZero())
	})

	It("rejects out of range priority", func() {
		spec.Priority = types.CBQMaxPriority
		_, err := cbq.Eval(spec, 1500)
		Expect(errors.Is(err, types.ErrPriorityOutOfRange)).To(BeTrue())
	})
})
