package types_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/k8snetworkplumbingwg/altqctl/pkg/tc/types"
)

var _ = Describe("QDisc tests", func() {
	handle := types.MakeHandle(1, 0)

	Describe("Creational", func() {
		Context("HTBQDiscBuilder", func() {
			It("Builds a root HTB QDisc by default", func() {
				q := types.NewHTBQDiscBuilder().WithHandle(handle).WithDefaultClass(5).Build()
				Expect(*q.Parent).To(Equal(types.HandleRoot))
				Expect(*q.Handle).To(Equal(handle))
				Expect(q.DefaultClass).To(Equal(uint32(5)))
				Expect(q.Type()).To(Equal(types.QDiscHTBType))
			})

			It("Builds HTB QDisc with parent", func() {
				q := types.NewHTBQDiscBuilder().WithParent(types.MakeHandle(2, 1)).Build()
				Expect(*q.Attrs().Parent).To(Equal(types.MakeHandle(2, 1)))
				Expect(q.Handle).To(BeNil())
			})
		})
	})

	Describe("QDisc Interface", func() {
		q := types.NewHTBQDiscBuilder().WithHandle(handle).WithDefaultClass(0x1a).Build()

		Context("CmdLineGenerator", func() {
			It("generates expected command line args", func() {
				Expect(q.GenCmdLineArgs()).To(Equal(
					[]string{"root", "handle", "1:", "htb", "default", "1a"}))
			})
			It("generates parent for non root qdisc", func() {
				nq := types.NewHTBQDiscBuilder().WithParent(types.MakeHandle(1, 2)).WithHandle(types.MakeHandle(10, 0)).Build()
				Expect(nq.GenCmdLineArgs()).To(Equal(
					[]string{"parent", "1:2", "handle", "a:", "htb", "default", "0"}))
			})
		})

		Context("Equals", func() {
			It("is equal to identical qdisc", func() {
				other := types.NewHTBQDiscBuilder().WithHandle(handle).WithDefaultClass(0x1a).Build()
				Expect(q.Equals(other)).To(BeTrue())
			})
			It("treats missing parent as root", func() {
				other := &types.HTBQDisc{QDiscAttrs: types.QDiscAttrs{Handle: &handle}, DefaultClass: 0x1a}
				Expect(q.Equals(other)).To(BeTrue())
			})
			It("is not equal if default class differs", func() {
				other := types.NewHTBQDiscBuilder().WithHandle(handle).WithDefaultClass(1).Build()
				Expect(q.Equals(other)).To(BeFalse())
			})
			It("is not equal if handle differs", func() {
				other := types.NewHTBQDiscBuilder().WithHandle(types.MakeHandle(2, 0)).WithDefaultClass(0x1a).Build()
				Expect(q.Equals(other)).To(BeFalse())
			})
		})
	})
})
