package stats

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shirou/gopsutil/v4/process"
)

// Report is the resource usage of one generator run.
type Report struct {
	Algorithm  string          `json:"algorithm"`
	Params     json.RawMessage `json:"params,omitempty"`
	Points     int             `json:"points"`
	StartTime  time.Time       `json:"start_time"`
	EndTime    time.Time       `json:"end_time"`
	Elapsed    string          `json:"elapsed"`
	Stages     []Stage         `json:"stages"`
	Samples    []Sample        `json:"samples"`
	PeakHeap   uint64          `json:"peak_heap_alloc"`
	PeakRSS    uint64          `json:"peak_process_rss"`
	PeakCPU    float64         `json:"peak_cpu_percent"`
	TotalAlloc uint64          `json:"total_alloc"`
	NumGC      uint32          `json:"num_gc"`
}

// Stage is a named step of the run and how long it took.
type Stage struct {
	Name     string        `json:"name"`
	Duration time.Duration `json:"duration_ns"`
}

type Sample struct {
	ElapsedSeconds float64 `json:"elapsed_seconds"`
	HeapAlloc      uint64  `json:"heap_alloc"`
	ProcessRSS     uint64  `json:"process_rss"`
	CPUPercent     float64 `json:"cpu_percent"`
	NumGoroutine   int     `json:"num_goroutine"`
}

// Collector samples memory and CPU of the current process in the background.
type Collector struct {
	mu       sync.Mutex
	report   Report
	interval time.Duration
	proc     *process.Process

	stageName  string
	stageStart time.Time

	stop chan struct{}
	done chan struct{}
}

func NewCollector(algorithm string, interval time.Duration) (*Collector, error) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, fmt.Errorf("failed to get process info: %w", err)
	}

	return &Collector{
		report:   Report{Algorithm: algorithm},
		interval: interval,
		proc:     proc,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}, nil
}

func (c *Collector) Start() {
	c.report.StartTime = time.Now()
	go c.collect()
}

func (c *Collector) collect() {
	defer close(c.done)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	c.sample()
	for {
		select {
		case <-c.stop:
			c.sample()
			return
		case <-ticker.C:
			c.sample()
		}
	}
}

func (c *Collector) sample() {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	s := Sample{
		ElapsedSeconds: time.Since(c.report.StartTime).Seconds(),
		HeapAlloc:      mem.HeapAlloc,
		NumGoroutine:   runtime.NumGoroutine(),
	}
	if info, err := c.proc.MemoryInfo(); err == nil && info != nil {
		s.ProcessRSS = info.RSS
	}
	if cpu, err := c.proc.CPUPercent(); err == nil {
		s.CPUPercent = cpu
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.report.Samples = append(c.report.Samples, s)
	c.report.PeakHeap = max(c.report.PeakHeap, s.HeapAlloc)
	c.report.PeakRSS = max(c.report.PeakRSS, s.ProcessRSS)
	c.report.PeakCPU = max(c.report.PeakCPU, s.CPUPercent)
	c.report.TotalAlloc = mem.TotalAlloc
	c.report.NumGC = mem.NumGC
}

// Stage closes the running stage, if any, and starts timing the named one.
func (c *Collector) Stage(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeStage(time.Now())
	c.stageName, c.stageStart = name, time.Now()
}

func (c *Collector) closeStage(now time.Time) {
	if c.stageName == "" {
		return
	}
	c.report.Stages = append(c.report.Stages, Stage{Name: c.stageName, Duration: now.Sub(c.stageStart)})
	c.stageName = ""
}

func (c *Collector) SetParams(params []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.report.Params = json.RawMessage(params)
}

func (c *Collector) SetPoints(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.report.Points = n
}

// Stop ends sampling and returns the finished report.
func (c *Collector) Stop() Report {
	close(c.stop)
	<-c.done

	c.mu.Lock()
	defer c.mu.Unlock()

	c.report.EndTime = time.Now()
	c.closeStage(c.report.EndTime)
	c.report.Elapsed = c.report.EndTime.Sub(c.report.StartTime).String()

	return c.report
}

func (r Report) SaveToFile(filename string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode stats: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write stats file: %w", err)
	}
	return nil
}

func (r Report) Log(log *slog.Logger) {
	log.Info("run statistics",
		"algorithm", r.Algorithm,
		"points", humanize.Comma(int64(r.Points)),
		"elapsed", r.Elapsed,
		"peak_heap", humanize.IBytes(r.PeakHeap),
		"peak_rss", humanize.IBytes(r.PeakRSS),
		"total_alloc", humanize.IBytes(r.TotalAlloc),
		"peak_cpu", fmt.Sprintf("%.1f%%", r.PeakCPU),
		"gc_cycles", r.NumGC,
	)
}
