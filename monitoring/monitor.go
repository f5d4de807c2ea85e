package monitoring

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"strconv"
	"sync"
	"time"

	// Enable profiling
	_ "net/http/pprof"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/pkg/browser"
	"github.com/sarchlab/jbodsim/jbod"
	"github.com/sarchlab/jbodsim/mdadm"
	"github.com/sarchlab/jbodsim/monitoring/web"
	"github.com/sarchlab/jbodsim/sim"
	"github.com/sarchlab/jbodsim/tracing"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"
)

// Monitor turns a simulated array into a server that can be inspected over
// HTTP.
type Monitor struct {
	array       *mdadm.SyncArray
	counter     *tracing.OpCounter
	idGen       sim.IDGenerator
	portNumber  int
	openBrowser bool

	progressBarsLock sync.Mutex
	progressBars     []*ProgressBar
}

// NewMonitor creates a new Monitor
func NewMonitor(array *mdadm.SyncArray) *Monitor {
	return &Monitor{
		array: array,
		idGen: sim.NewSequentialIDGenerator(),
	}
}

// WithPortNumber sets the port number of the monitor.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber != 0 && portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the monitoring server, "+
				"which is not allowed. Using a random port instead.\n", portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// WithOpCounter makes the monitor report the counts of the counter.
func (m *Monitor) WithOpCounter(c *tracing.OpCounter) *Monitor {
	m.counter = c
	return m
}

// WithBrowser makes StartServer open the server in a browser.
func (m *Monitor) WithBrowser() *Monitor {
	m.openBrowser = true
	return m
}

// CreateProgressBar creates a new progress bar.
func (m *Monitor) CreateProgressBar(name string, total uint64) *ProgressBar {
	bar := &ProgressBar{
		ID:        m.idGen.Generate(),
		Name:      name,
		StartTime: time.Now(),
		Total:     total,
	}

	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	m.progressBars = append(m.progressBars, bar)

	return bar
}

// CompleteProgressBar removes a bar from the progress report.
func (m *Monitor) CompleteProgressBar(pb *ProgressBar) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	newBars := make([]*ProgressBar, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		if b != pb {
			newBars = append(newBars, b)
		}
	}

	m.progressBars = newBars
}

// Router returns the HTTP routes of the monitor.
func (m *Monitor) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/api/session", m.session)
	r.HandleFunc("/api/geometry", m.geometry)
	r.HandleFunc("/api/block/{disk:[0-9]+}/{block:[0-9]+}", m.block)
	r.HandleFunc("/api/read", m.read)
	r.HandleFunc("/api/sign/{addr:[0-9]+}", m.sign)
	r.HandleFunc("/api/bank", m.bank)
	r.HandleFunc("/api/ops", m.ops)
	r.HandleFunc("/api/progress", m.listProgressBars)
	r.HandleFunc("/api/resource", m.listResources)
	r.HandleFunc("/api/profile", m.collectProfile)
	r.PathPrefix("/debug/pprof/").Handler(http.DefaultServeMux)
	r.PathPrefix("/").Handler(http.FileServer(web.GetAssets()))

	return r
}

// StartServer starts the monitor as a web server and returns its URL.
func (m *Monitor) StartServer() string {
	actualPort := ":0"
	if m.portNumber > 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	dieOnErr(err)

	url := fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)

	fmt.Fprintf(os.Stderr, "Monitoring array %s with %s\n",
		m.array.Name(), url)

	go func() {
		err := http.Serve(listener, m.Router())
		dieOnErr(err)
	}()

	if m.openBrowser {
		err = browser.OpenURL(url)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Cannot open browser: %v\n", err)
		}
	}

	return url
}

type sessionRsp struct {
	Name           string `json:"name"`
	Mounted        bool   `json:"mounted"`
	WritePermitted bool   `json:"write_permitted"`
}

func (m *Monitor) session(w http.ResponseWriter, _ *http.Request) {
	mounted, permitted := m.array.State()

	writeJSON(w, sessionRsp{
		Name:           m.array.Name(),
		Mounted:        mounted,
		WritePermitted: permitted,
	})
}

type geometryRsp struct {
	NumDisks      int    `json:"num_disks"`
	BlocksPerDisk int    `json:"blocks_per_disk"`
	BlockSize     int    `json:"block_size"`
	DiskSize      uint64 `json:"disk_size"`
	Capacity      uint64 `json:"capacity"`
	MaxTransfer   int    `json:"max_transfer"`
}

func (m *Monitor) geometry(w http.ResponseWriter, _ *http.Request) {
	var rsp geometryRsp

	m.array.Do(func(a *mdadm.Array) {
		g := a.Geometry()
		rsp = geometryRsp{
			NumDisks:      g.NumDisks,
			BlocksPerDisk: g.BlocksPerDisk,
			BlockSize:     g.BlockSize,
			DiskSize:      g.DiskSize(),
			Capacity:      g.Capacity(),
			MaxTransfer:   a.MaxTransfer(),
		}
	})

	writeJSON(w, rsp)
}

type dataRsp struct {
	Disk  int    `json:"disk"`
	Block int    `json:"block"`
	Addr  uint32 `json:"addr"`
	Data  string `json:"data"`
}

type errorRsp struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

var errNoBank = errors.New("array device is not a jbod bank")

func (m *Monitor) block(w http.ResponseWriter, r *http.Request) {
	disk, err := strconv.Atoi(mux.Vars(r)["disk"])
	if err != nil {
		writeError(w, http.StatusBadRequest, err, 0)
		return
	}

	block, err := strconv.Atoi(mux.Vars(r)["block"])
	if err != nil {
		writeError(w, http.StatusBadRequest, err, 0)
		return
	}

	var data []byte

	m.array.Do(func(a *mdadm.Array) {
		bank, ok := a.Device().(*jbod.Bank)
		if !ok {
			err = errNoBank
			return
		}

		data, err = bank.Peek(disk, block)
	})

	switch {
	case errors.Is(err, errNoBank):
		writeError(w, http.StatusNotImplemented, err, 0)
	case err != nil:
		writeError(w, http.StatusNotFound, err, 0)
	default:
		writeJSON(w, dataRsp{Disk: disk, Block: block, Data: hex.EncodeToString(data)})
	}
}

func (m *Monitor) read(w http.ResponseWriter, r *http.Request) {
	addr, err := parseUint32(r.URL.Query().Get("addr"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err, 0)
		return
	}

	length, err := parseUint32(r.URL.Query().Get("len"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err, 0)
		return
	}

	if int64(length) > int64(m.array.MaxTransfer()) {
		writeError(w, http.StatusBadRequest,
			mdadm.ErrLengthTooLarge, mdadm.CodeLengthTooLarge)
		return
	}

	buf := make([]byte, length)

	n, err := m.array.Read(addr, length, buf)
	if err != nil {
		writeError(w, http.StatusBadRequest, err, mdadm.Code(err))
		return
	}

	writeJSON(w, dataRsp{Addr: addr, Data: hex.EncodeToString(buf[:n])})
}

type signRsp struct {
	Addr      uint32 `json:"addr"`
	Signature string `json:"signature"`
}

func (m *Monitor) sign(w http.ResponseWriter, r *http.Request) {
	addr, err := parseUint32(mux.Vars(r)["addr"])
	if err != nil {
		writeError(w, http.StatusBadRequest, err, 0)
		return
	}

	sig, err := m.array.Signature(addr)
	if err != nil {
		writeError(w, http.StatusBadRequest, err, mdadm.Code(err))
		return
	}

	writeJSON(w, signRsp{Addr: addr, Signature: fmt.Sprintf("%016x", sig)})
}

func (m *Monitor) bank(w http.ResponseWriter, _ *http.Request) {
	var err error

	m.array.Do(func(a *mdadm.Array) {
		serializer := goseth.NewSerializer()
		serializer.SetRoot(a.Device())
		serializer.SetMaxDepth(1)
		err = serializer.Serialize(w)
	})

	dieOnErr(err)
}

func (m *Monitor) ops(w http.ResponseWriter, _ *http.Request) {
	if m.counter == nil {
		writeJSON(w, map[string]uint64{})
		return
	}

	writeJSON(w, m.counter.Snapshot())
}

func (m *Monitor) listProgressBars(w http.ResponseWriter, _ *http.Request) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	rsp := make([]ProgressBar, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		b.Lock()
		rsp = append(rsp, ProgressBar{
			ID:        b.ID,
			Name:      b.Name,
			StartTime: b.StartTime,
			Total:     b.Total,
			Finished:  b.Finished,
			Failed:    b.Failed,
		})
		b.Unlock()
	}

	writeJSON(w, rsp)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	pid := os.Getpid()
	process, err := process.NewProcess(int32(pid))
	dieOnErr(err)

	cpuPercent, err := process.CPUPercent()
	dieOnErr(err)

	memorySize, err := process.MemoryInfo()
	dieOnErr(err)

	writeJSON(w, resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memorySize.RSS,
	})
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	dieOnErr(err)

	time.Sleep(time.Second)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	dieOnErr(err)

	writeJSON(w, prof)
}

func parseUint32(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}

	return uint32(v), nil
}

func writeJSON(w http.ResponseWriter, v any) {
	bytes, err := json.Marshal(v)
	dieOnErr(err)

	w.Header().Set("Content-Type", "application/json")

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func writeError(w http.ResponseWriter, status int, err error, code int) {
	bytes, mErr := json.Marshal(errorRsp{Error: err.Error(), Code: code})
	dieOnErr(mErr)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_, mErr = w.Write(bytes)
	dieOnErr(mErr)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
