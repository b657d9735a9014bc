package draw

import (
	"bufio"
	"bytes"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/gridroute/router"
)

var _ = Describe("WriteCongestion", func() {
	It("should emit a P3 header with interleaved dimensions", func() {
		g := router.NewGrid(3, 2, router.NewEdge(1), router.NewEdge(1))

		var buf bytes.Buffer
		Expect(WriteCongestion(&buf, g, Options{})).To(Succeed())

		sc := bufio.NewScanner(&buf)
		Expect(sc.Scan()).To(BeTrue())
		Expect(sc.Text()).To(Equal("P3"))
		Expect(sc.Scan()).To(BeTrue())
		Expect(sc.Text()).To(Equal("5 3"))
		Expect(sc.Scan()).To(BeTrue())
		Expect(sc.Text()).To(Equal("255"))
	})

	It("should scale the image", func() {
		g := router.NewGrid(2, 2, router.NewEdge(1), router.NewEdge(1))

		var buf bytes.Buffer
		Expect(WriteCongestion(&buf, g, Options{Scale: 4})).To(Succeed())

		lines := strings.SplitN(buf.String(), "\n", 3)
		Expect(lines[1]).To(Equal("12 12"))
	})

	It("should render blockages black and overflow red", func() {
		blocked := router.NewEdge(0)
		Expect(edgeColor(&blocked)).To(Equal(cell{0, 0, 0}))

		over := router.NewEdge(1)
		over.Demand = 3
		c := edgeColor(&over)
		Expect(c.r).To(Equal(255))
		Expect(c.g).To(BeNumerically("<", 81))
	})

	It("should ramp load from green toward red", func() {
		light := router.NewEdge(10)
		light.Demand = 1
		heavy := router.NewEdge(10)
		heavy.Demand = 9

		Expect(edgeColor(&light).g).To(BeNumerically(">", edgeColor(&light).r))
		Expect(edgeColor(&heavy).r).To(BeNumerically(">", edgeColor(&heavy).g))
	})
})
