package records_test

import (
	"net"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/k8snetworkplumbingwg/altqctl/pkg/records"
)

func mustCIDR(s string) *net.IPNet {
	_, n, err := net.ParseCIDR(s)
	ExpectWithOffset(1, err).ToNot(HaveOccurred())
	return n
}

var _ = Describe("records", func() {
	Context("Scope", func() {
		DescribeTable("ParseScope",
			func(in string, classes []records.ResourceClass) {
				s, err := records.ParseScope(in)
				Expect(err).ToNot(HaveOccurred())
				Expect(s.Classes()).To(Equal(classes))
			},
			Entry("all", "all", []records.ResourceClass{records.ClassNAT, records.ClassBinat,
				records.ClassRedirect, records.ClassQueue, records.ClassFilter}),
			Entry("empty is all", "", records.CommitOrder),
			Entry("nat covers binat and rdr", "nat", []records.ResourceClass{records.ClassNAT,
				records.ClassBinat, records.ClassRedirect}),
			Entry("queue", "queue", []records.ResourceClass{records.ClassQueue}),
			Entry("filter", "filter", []records.ResourceClass{records.ClassFilter}),
		)

		It("rejects unknown scopes", func() {
			_, err := records.ParseScope("binat")
			Expect(err).To(HaveOccurred())
		})

		It("prints combined scopes", func() {
			Expect(records.ScopeAll.String()).To(Equal("all"))
			Expect((records.ScopeFilter | records.ScopeQueue).String()).To(Equal("filter,queue"))
		})

		It("names resource classes", func() {
			Expect(records.ClassRedirect.String()).To(Equal("rdr"))
			Expect(records.ResourceClass(42).String()).To(Equal("Unknown(42)"))
		})
	})

	Context("Record", func() {
		It("formats a filter rule", func() {
			r := &records.FilterRule{
				Action:    records.ActionDrop,
				Direction: records.DirectionIn,
				Match:     records.Match{Interface: "em0", Src: mustCIDR("10.0.0.0/8")},
			}
			Expect(r.Class()).To(Equal(records.ClassFilter))
			Expect(r.String()).To(Equal("block in on em0 from 10.0.0.0/8 to any"))
		})

		It("formats a nat rule", func() {
			r := &records.NatRule{
				Match:     records.Match{Interface: "em0", Protocol: records.ProtocolUDP, DstPort: 53},
				Translate: mustCIDR("192.0.2.1/32"),
			}
			Expect(r.Class()).To(Equal(records.ClassNAT))
			Expect(r.String()).To(Equal("nat on em0 proto udp from any to any port 53 -> 192.0.2.1/32"))
		})

		It("formats a binat rule", func() {
			r := &records.BinatRule{Interface: "em0", Internal: mustCIDR("10.0.0.1/32"),
				External: mustCIDR("192.0.2.1/32")}
			Expect(r.Class()).To(Equal(records.ClassBinat))
			Expect(r.String()).To(Equal("binat on em0 from 10.0.0.1/32 to any -> 192.0.2.1/32"))
		})

		It("formats a rdr rule without target port", func() {
			r := &records.RedirectRule{Match: records.Match{Interface: "em0"}, Target: mustCIDR("10.0.0.2/32")}
			Expect(r.Class()).To(Equal(records.ClassRedirect))
			Expect(r.String()).To(Equal("rdr on em0 from any to any -> 10.0.0.2/32"))
		})
	})
})
