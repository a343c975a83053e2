package types_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/k8snetworkplumbingwg/altqctl/pkg/tc/types"
)

var _ = Describe("Class tests", func() {
	parent := types.MakeHandle(1, 0)
	handle := types.MakeHandle(1, 3)

	newClass := func() *types.HTBClass {
		return types.NewHTBClassBuilder().WithParent(parent).WithHandle(handle).
			WithRate(1000000).WithCeil(5000000).WithPrio(2).Build()
	}

	Context("HTBClassBuilder", func() {
		It("builds class with attributes", func() {
			c := newClass()
			Expect(c.Attrs().Parent).To(Equal(parent))
			Expect(c.Attrs().Handle).To(Equal(handle))
			Expect(c.Rate).To(Equal(uint64(1000000)))
			Expect(c.Ceil).To(Equal(uint64(5000000)))
			Expect(c.Prio).To(Equal(uint32(2)))
			Expect(c.Type()).To(Equal(types.ClassHTBType))
		})
		It("defaults ceil to rate", func() {
			c := types.NewHTBClassBuilder().WithRate(1000).Build()
			Expect(c.Ceil).To(Equal(uint64(1000)))
		})
	})

	Context("CmdLineGenerator", func() {
		It("generates expected command line args", func() {
			Expect(newClass().GenCmdLineArgs()).To(Equal([]string{
				"parent", "1:0", "classid", "1:3", "htb", "rate", "1000000bit", "ceil", "5000000bit", "prio", "2"}))
		})
		It("generates attribute args", func() {
			Expect(newClass().Attrs().GenCmdLineArgs()).To(Equal([]string{"parent", "1:0", "classid", "1:3"}))
		})
	})

	Context("Equals", func() {
		It("is equal to identical class", func() {
			Expect(newClass().Equals(newClass())).To(BeTrue())
		})
		DescribeTable("is not equal if a field differs",
			func(mutate func(c *types.HTBClass)) {
				other := newClass()
				mutate(other)
				Expect(newClass().Equals(other)).To(BeFalse())
			},
			Entry("rate", func(c *types.HTBClass) { c.Rate++ }),
			Entry("ceil", func(c *types.HTBClass) { c.Ceil++ }),
			Entry("prio", func(c *types.HTBClass) { c.Prio++ }),
			Entry("parent", func(c *types.HTBClass) { c.Parent++ }),
			Entry("handle", func(c *types.HTBClass) { c.Handle++ }),
		)
	})
})
