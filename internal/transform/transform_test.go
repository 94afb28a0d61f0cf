package transform_test

import (
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/bclonan/sight/internal/grid"
	"github.com/bclonan/sight/internal/palette"
	"github.com/bclonan/sight/internal/transform"
)

var hue = palette.New(palette.HueRotation)

func mustGrid(values [][]int, domain int) *grid.Grid {
	g, err := grid.FromValues(values, domain, hue)
	Expect(err).NotTo(HaveOccurred())
	return g
}

func valueAt(g *grid.Grid, r, c int) float64 {
	cell, err := g.At(r, c)
	Expect(err).NotTo(HaveOccurred())
	return cell.Value
}

var _ = Describe("Resonance", func() {
	It("shifts every value modulo the domain and recolors", func() {
		g := mustGrid([][]int{{0, 5}, {8, 9}}, grid.DecimalDomain)
		Expect(transform.Resonance(g, 3)).To(Succeed())
		Expect(g.Ints()).To(Equal([][]int{{3, 8}, {1, 2}}))

		cell, _ := g.At(1, 0)
		Expect(cell.Color).To(Equal(hue.Color(1, 1, 0)))
	})

	It("composes additively", func() {
		base := [][]int{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}}
		for _, pair := range [][2]int{{3, 4}, {7, 9}, {9, 9}, {0, 5}} {
			twice := mustGrid(base, grid.DecimalDomain)
			Expect(transform.Resonance(twice, pair[0])).To(Succeed())
			Expect(transform.Resonance(twice, pair[1])).To(Succeed())

			once := mustGrid(base, grid.DecimalDomain)
			Expect(transform.Resonance(once, (pair[0]+pair[1])%grid.DecimalDomain)).To(Succeed())

			Expect(twice.Equal(once)).To(BeTrue(), "frequencies %v", pair)
		}
	})

	It("handles negative frequencies", func() {
		g := mustGrid([][]int{{0, 1}}, grid.DecimalDomain)
		Expect(transform.Resonance(g, -3)).To(Succeed())
		Expect(g.Ints()).To(Equal([][]int{{7, 8}}))
	})
})

var _ = Describe("Spiral", func() {
	It("updates only cells within the inclusive radius", func() {
		g, err := grid.New(7, 7, grid.DecimalDomain, hue)
		Expect(err).NotTo(HaveOccurred())

		Expect(transform.Spiral(g, 3, 3, 2)).To(Succeed())

		Expect(valueAt(g, 3, 3)).To(Equal(2.0))
		Expect(valueAt(g, 1, 3)).To(Equal(2.0), "distance exactly 2 is inside")
		Expect(valueAt(g, 2, 2)).To(Equal(2.0))
		Expect(valueAt(g, 1, 2)).To(Equal(0.0), "distance sqrt(5) is outside")
		Expect(valueAt(g, 0, 0)).To(Equal(0.0))
	})

	It("works in the 360 space regardless of the grid domain", func() {
		g := mustGrid([][]int{{9}}, grid.DecimalDomain)
		Expect(transform.Spiral(g, 0, 0, 5)).To(Succeed())
		Expect(valueAt(g, 0, 0)).To(Equal(14.0))

		h := mustGrid([][]int{{358}}, grid.HueDomain)
		Expect(transform.Spiral(h, 0, 0, 5)).To(Succeed())
		Expect(valueAt(h, 0, 0)).To(Equal(3.0))

		cell, _ := g.At(0, 0)
		Expect(cell.Color).To(Equal(hue.Color(14, 0, 0)))
	})

	It("accepts a center outside the grid", func() {
		g, _ := grid.New(3, 3, grid.DecimalDomain, hue)
		Expect(transform.Spiral(g, -1, -1, 2)).To(Succeed())
		Expect(valueAt(g, 0, 0)).To(Equal(2.0))
		Expect(valueAt(g, 2, 2)).To(Equal(0.0))
	})

	It("reports radius membership", func() {
		Expect(transform.WithinRadius(0, 0, 3, 4, 5)).To(BeTrue())
		Expect(transform.WithinRadius(0, 0, 3, 4, 4)).To(BeFalse())
	})
})

var _ = Describe("Diffuse", func() {
	var g *grid.Grid

	BeforeEach(func() {
		g = mustGrid([][]int{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}}, grid.DecimalDomain)
	})

	It("averages the existing Moore neighbors from a snapshot", func() {
		Expect(transform.Diffuse(g)).To(Succeed())

		Expect(valueAt(g, 1, 1)).To(BeNumerically("~", 5.0, 1e-12))
		Expect(valueAt(g, 0, 0)).To(BeNumerically("~", 11.0/3, 1e-12), "corner divides by 3")
		Expect(valueAt(g, 0, 1)).To(BeNumerically("~", 3.8, 1e-12), "edge divides by 5")
		Expect(valueAt(g, 2, 2)).To(BeNumerically("~", 19.0/3, 1e-12))
	})

	It("recolors with fractional values", func() {
		Expect(transform.Diffuse(g)).To(Succeed())
		cell, _ := g.At(0, 0)
		Expect(cell.Color).To(Equal(hue.Color(cell.Value, 0, 0)))
	})

	It("diverges from a single in-place sweep", func() {
		swept := g.Clone()
		Expect(transform.Diffuse(g)).To(Succeed())
		Expect(transform.DiffuseInPlace(swept)).To(Succeed())

		Expect(valueAt(g, 0, 0)).To(Equal(valueAt(swept, 0, 0)), "first cell sees no updates yet")
		Expect(valueAt(swept, 0, 1)).NotTo(BeNumerically("~", valueAt(g, 0, 1), 1e-9))
		Expect(valueAt(swept, 1, 1)).NotTo(BeNumerically("~", 5.0, 1e-9))
		Expect(swept.Equal(g)).To(BeFalse())
	})

	It("handles a single row", func() {
		row := mustGrid([][]int{{2, 4, 6}}, grid.DecimalDomain)
		Expect(transform.Diffuse(row)).To(Succeed())
		Expect(row.Values()).To(Equal([][]float64{{4, 4, 4}}))
	})

	It("fails without mutation when a cell has no neighbors", func() {
		single := mustGrid([][]int{{7}}, grid.DecimalDomain)
		err := transform.Diffuse(single)
		Expect(err).To(MatchError(grid.ErrEmptyNeighborhood))
		Expect(valueAt(single, 0, 0)).To(Equal(7.0))
	})

	It("lists neighbors that exist", func() {
		Expect(transform.Neighbors(g, 0, 0)).To(Equal([]float64{2, 4, 5}))
		Expect(transform.Neighbors(g, 1, 1)).To(HaveLen(8))
	})
})

var _ = Describe("Registry", func() {
	var reg *transform.Registry

	BeforeEach(func() {
		reg = transform.NewRegistry()
	})

	It("builds ops with defaults", func() {
		op, err := reg.Get("resonance", nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(op).To(Equal(transform.ResonanceOp{Frequency: 1}))

		op, err = reg.Get("spiral", map[string]int{"row": 2, "col": 3})
		Expect(err).NotTo(HaveOccurred())
		Expect(op).To(Equal(transform.SpiralOp{Row: 2, Col: 3, Power: 5}))

		Expect(reg.Names()).To(Equal([]string{"diffuse", "resonance", "spiral"}))
	})

	It("rejects unknown names", func() {
		_, err := reg.Get("warp", nil)
		Expect(err).To(MatchError(ContainSubstring("unknown transform")))
	})

	It("applies ops in order and wraps failures", func() {
		g := mustGrid([][]int{{1}}, grid.DecimalDomain)
		err := transform.Apply(g, transform.ResonanceOp{Frequency: 2}, transform.DiffuseOp{})
		Expect(err).To(MatchError(grid.ErrEmptyNeighborhood))
		Expect(err.Error()).To(ContainSubstring("op 2 (diffuse)"))
		Expect(valueAt(g, 0, 0)).To(Equal(3.0))
	})
})

var _ = Describe("RandomFrequency", func() {
	It("stays within 1..9", func() {
		rng := rand.New(rand.NewSource(7))
		for i := 0; i < 200; i++ {
			Expect(transform.RandomFrequency(rng)).To(And(BeNumerically(">=", 1), BeNumerically("<=", 9)))
		}
	})
})
