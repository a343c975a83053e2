package tree_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/k8snetworkplumbingwg/altqctl/pkg/altq/tree"
	"github.com/k8snetworkplumbingwg/altqctl/pkg/altq/types"
)

func newQueue(qName, parent string) *types.QueueSpec {
	return types.NewQueueSpecBuilder().WithInterface("eth0").WithName(qName).WithParent(parent).Build()
}

func preorder(t *tree.Tree) []string {
	names := []string{}
	t.Walk(func(n *tree.Node, _ int) bool {
		names = append(names, n.Spec.QueueName)
		return true
	})
	return names
}

var _ = Describe("Tree tests", func() {
	Context("Insert()", func() {
		It("makes the first node the root and finds it", func() {
			t := tree.New()
			Expect(t.Insert(newQueue("a", ""))).To(Succeed())
			n := t.Find("a")
			Expect(n).ToNot(BeNil())
			Expect(n.Spec.QueueName).To(Equal("a"))
			Expect(t.Root()).To(BeIdenticalTo(n))
		})

		It("makes the first node the root even if it names a parent", func() {
			t := tree.New()
			Expect(t.Insert(newQueue("a", "x"))).To(Succeed())
			Expect(t.Root().Spec.QueueName).To(Equal("a"))
		})

		It("appends parentless nodes as top level siblings", func() {
			t := tree.New()
			Expect(t.Insert(newQueue("a", ""))).To(Succeed())
			Expect(t.Insert(newQueue("b", ""))).To(Succeed())
			Expect(t.Parent(t.Find("b"))).To(BeNil())
			Expect(preorder(t)).To(Equal([]string{"a", "b"}))
		})

		It("appends children in insertion order", func() {
			t := tree.New()
			Expect(t.Insert(newQueue("a", ""))).To(Succeed())
			Expect(t.Insert(newQueue("b", "a"))).To(Succeed())
			Expect(t.Insert(newQueue("c", "a"))).To(Succeed())
			children := t.Children(t.Find("a"))
			Expect(children).To(HaveLen(2))
			Expect(children[0].Spec.QueueName).To(Equal("b"))
			Expect(children[1].Spec.QueueName).To(Equal("c"))
			Expect(t.Parent(children[1]).Spec.QueueName).To(Equal("a"))
		})

		It("fails with ParentNotFound for an undeclared parent", func() {
			t := tree.New()
			Expect(t.Insert(newQueue("a", ""))).To(Succeed())
			err := t.Insert(newQueue("b", "c"))
			Expect(errors.Is(err, types.ErrParentNotFound)).To(BeTrue())
			Expect(t.Len()).To(Equal(1))
		})

		It("copies the spec", func() {
			t := tree.New()
			s := newQueue("a", "")
			Expect(t.Insert(s)).To(Succeed())
			s.Bandwidth = 100
			Expect(t.Find("a").Spec.Bandwidth).To(BeZero())
		})

		It("resolves parents on the same interface only", func() {
			t := tree.New()
			Expect(t.Insert(newQueue("a", ""))).To(Succeed())
			other := types.NewQueueSpecBuilder().WithInterface("eth1").WithName("b").WithParent("a").Build()
			Expect(errors.Is(t.Insert(other), types.ErrParentNotFound)).To(BeTrue())
		})
	})

	Context("Walk()", func() {
		var t *tree.Tree

		BeforeEach(func() {
			t = tree.New()
			for _, q := range [][2]string{{"", ""}, {"a", ""}, {"b", ""}, {"a1", "a"}, {"a2", "a"}, {"a11", "a1"}, {"b1", "b"}} {
				Expect(t.Insert(newQueue(q[0], q[1]))).To(Succeed())
			}
		})

		It("visits nodes in preorder", func() {
			Expect(preorder(t)).To(Equal([]string{"", "a", "a1", "a11", "a2", "b", "b1"}))
		})

		It("reports depth", func() {
			depths := map[string]int{}
			t.Walk(func(n *tree.Node, depth int) bool {
				depths[n.Spec.QueueName] = depth
				return true
			})
			Expect(depths).To(Equal(map[string]int{"": 0, "a": 0, "b": 0, "a1": 1, "a2": 1, "a11": 2, "b1": 1}))
		})

		It("stops when fn returns false", func() {
			visited := 0
			t.Walk(func(n *tree.Node, _ int) bool {
				visited++
				return n.Spec.QueueName != "a1"
			})
			Expect(visited).To(Equal(3))
		})

		It("handles deep nesting", func() {
			deep := tree.New()
			Expect(deep.Insert(newQueue("q0", ""))).To(Succeed())
			prev := "q0"
			for i := 1; i < 5000; i++ {
				name := "q" + string(rune('a'+i%26)) + string(rune('a'+(i/26)%26)) + string(rune('a'+(i/676)%26))
				Expect(deep.Insert(newQueue(name, prev))).To(Succeed())
				prev = name
			}
			maxDepth := 0
			deep.Walk(func(_ *tree.Node, depth int) bool {
				if depth > maxDepth {
					maxDepth = depth
				}
				return true
			})
			Expect(maxDepth).To(Equal(4999))
		})
	})

	Context("Build()", func() {
		It("resolves forward references", func() {
			t, err := tree.Build([]*types.QueueSpec{
				newQueue("b", "a"),
				newQueue("", ""),
				newQueue("a", ""),
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(t.Root().Spec.IsInterface()).To(BeTrue())
			Expect(t.Parent(t.Find("b")).Spec.QueueName).To(Equal("a"))
			Expect(preorder(t)).To(Equal([]string{"", "a", "b"}))
		})

		It("fails with ParentNotFound for an undeclared parent", func() {
			_, err := tree.Build([]*types.QueueSpec{
				newQueue("", ""),
				newQueue("a", ""),
				newQueue("b", "c"),
			})
			Expect(errors.Is(err, types.ErrParentNotFound)).To(BeTrue())
		})

		It("builds an empty tree from no specs", func() {
			t, err := tree.Build(nil)
			Expect(err).ToNot(HaveOccurred())
			Expect(t.Len()).To(BeZero())
			Expect(t.Root()).To(BeNil())
		})
	})
})
