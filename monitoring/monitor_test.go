package monitoring

import (
	"encoding/json"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sirupsen/logrus"

	"github.com/sarchlab/gridroute/engine"
	"github.com/sarchlab/gridroute/ispd"
)

func loadedRouter() *engine.GlobalRouter {
	log := logrus.New()
	log.SetOutput(GinkgoWriter)

	gr := engine.NewGlobalRouter()
	gr.SetLogger(log)
	gr.Init(&ispd.Data{
		NumXGrid: 2, NumYGrid: 2, NumLayer: 1,
		VerticalCapacity:   []int{10},
		HorizontalCapacity: []int{20},
		MinimumWidth:       []int{1},
		MinimumSpacing:     []int{0},
		ViaSpacing:         []int{0},
		TileWidth:          10,
		TileHeight:         10,
		NumNet:             1,
		Nets: []*ispd.Net{{
			Name: "n1", ID: 1, NumPins: 2,
			Pins: []ispd.Pin{
				{X: 0, Y: 0, Z: 1},
				{X: 10, Y: 10, Z: 1},
			},
		}},
	})
	return gr
}

var _ = Describe("Monitor", func() {
	var (
		m  *Monitor
		gr *engine.GlobalRouter
	)

	BeforeEach(func() {
		gr = loadedRouter()
		m = NewMonitor()
		m.RegisterRouter(gr)
	})

	It("should serve the routing progress", func() {
		srv := httptest.NewServer(m.Handler())
		defer srv.Close()

		rsp, err := srv.Client().Get(srv.URL + "/api/progress")
		Expect(err).NotTo(HaveOccurred())
		defer rsp.Body.Close()

		var p engine.Progress
		Expect(json.NewDecoder(rsp.Body).Decode(&p)).To(Succeed())
		Expect(p.Done).To(BeFalse())
		Expect(p.Stats.Wirelength).To(Equal(2))
	})

	It("should serve the congestion grid", func() {
		srv := httptest.NewServer(m.Handler())
		defer srv.Close()

		rsp, err := srv.Client().Get(srv.URL + "/api/grid")
		Expect(err).NotTo(HaveOccurred())
		defer rsp.Body.Close()

		var g gridRsp
		Expect(json.NewDecoder(rsp.Body).Decode(&g)).To(Succeed())
		Expect(g.Width).To(Equal(2))
		Expect(g.Height).To(Equal(2))
		Expect(g.VCap).To(HaveLen(2))
		Expect(g.HCap).To(HaveLen(2))
	})

	It("should serve process resources", func() {
		srv := httptest.NewServer(m.Handler())
		defer srv.Close()

		rsp, err := srv.Client().Get(srv.URL + "/api/resource")
		Expect(err).NotTo(HaveOccurred())
		defer rsp.Body.Close()

		var r resourceRsp
		Expect(json.NewDecoder(rsp.Body).Decode(&r)).To(Succeed())
		Expect(r.MemorySize).To(BeNumerically(">", 0))
	})

	It("should cancel the run through the stop endpoint", func() {
		srv := httptest.NewServer(m.Handler())
		defer srv.Close()

		rsp, err := srv.Client().Get(srv.URL + "/api/stop")
		Expect(err).NotTo(HaveOccurred())
		rsp.Body.Close()

		Expect(gr.Route()).To(Succeed())
		Expect(gr.Engine().Progress().Done).To(BeTrue())
	})

	It("should refuse privileged port numbers", func() {
		monitor := NewMonitor().WithPortNumber(80)

		Expect(monitor.portNumber).To(BeZero())
	})
})
