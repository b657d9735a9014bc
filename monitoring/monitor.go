// Package monitoring turns a routing run into a small web server so the
// run can be watched and cancelled from outside. The server speaks JSON
// only; dashboards poll the /api endpoints.
package monitoring

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"

	// Enable profiling endpoints on the default mux.
	_ "net/http/pprof"

	"github.com/gorilla/mux"
	"github.com/pkg/browser"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"

	"github.com/sarchlab/gridroute/engine"
)

// A Monitor serves the state of one global router over HTTP.
type Monitor struct {
	router      *engine.GlobalRouter
	portNumber  int
	openBrowser bool
}

// NewMonitor creates an unbound monitor.
func NewMonitor() *Monitor {
	return &Monitor{}
}

// WithPortNumber sets the listening port. Ports below 1000 are refused
// and replaced with a random port.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is not allowed for the monitoring server. "+
				"Using a random port instead.\n", portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// WithBrowser makes StartServer open the server URL in a browser.
func (m *Monitor) WithBrowser() *Monitor {
	m.openBrowser = true
	return m
}

// RegisterRouter attaches the router to monitor.
func (m *Monitor) RegisterRouter(r *engine.GlobalRouter) {
	m.router = r
}

// Handler returns the monitor's HTTP routes.
func (m *Monitor) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/api/progress", m.listProgress)
	r.HandleFunc("/api/grid", m.listGrid)
	r.HandleFunc("/api/resource", m.listResources)
	r.HandleFunc("/api/state", m.listState)
	r.HandleFunc("/api/stop", m.stop)
	return r
}

// StartServer starts serving in the background and reports the URL on
// stderr.
func (m *Monitor) StartServer() {
	http.Handle("/", m.Handler())

	actualPort := ":0"
	if m.portNumber >= 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	dieOnErr(err)

	url := fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)
	fmt.Fprintf(os.Stderr, "Monitoring routing run with %s\n", url)

	if m.openBrowser {
		_ = browser.OpenURL(url)
	}

	go func() {
		err := http.Serve(listener, nil)
		dieOnErr(err)
	}()
}

func (m *Monitor) listProgress(w http.ResponseWriter, _ *http.Request) {
	p := m.router.Engine().Progress()

	bytes, err := json.Marshal(p)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

type gridRsp struct {
	Width  int   `json:"width"`
	Height int   `json:"height"`
	VCap   []int `json:"v_cap"`
	VDem   []int `json:"v_demand"`
	HCap   []int `json:"h_cap"`
	HDem   []int `json:"h_demand"`
}

func (m *Monitor) listGrid(w http.ResponseWriter, _ *http.Request) {
	g := m.router.Engine().Grid()

	rsp := gridRsp{Width: g.Width(), Height: g.Height()}
	for y := 0; y < g.Height()-1; y++ {
		for x := 0; x < g.Width(); x++ {
			e := g.At(x, y, false)
			rsp.VCap = append(rsp.VCap, e.Cap)
			rsp.VDem = append(rsp.VDem, e.Demand)
		}
	}
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width()-1; x++ {
			e := g.At(x, y, true)
			rsp.HCap = append(rsp.HCap, e.Cap)
			rsp.HDem = append(rsp.HDem, e.Demand)
		}
	}

	bytes, err := json.Marshal(rsp)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	pid := os.Getpid()
	p, err := process.NewProcess(int32(pid))
	dieOnErr(err)

	cpuPercent, err := p.CPUPercent()
	dieOnErr(err)

	memoryInfo, err := p.MemoryInfo()
	dieOnErr(err)

	rsp := resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memoryInfo.RSS,
	}

	bytes, err := json.Marshal(rsp)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func (m *Monitor) listState(w http.ResponseWriter, _ *http.Request) {
	serializer := goseth.NewSerializer()
	serializer.SetRoot(m.router.Engine())
	serializer.SetMaxDepth(1)

	err := serializer.Serialize(w)
	dieOnErr(err)
}

func (m *Monitor) stop(w http.ResponseWriter, _ *http.Request) {
	m.router.Cancel()
	_, err := w.Write(nil)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		panic(err)
	}
}
