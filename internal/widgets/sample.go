// Package widgets renders the content of dashboard cards.
//
// A Sampler collects host metrics and a directory listing; a Board keeps the
// most recent Sample and renders it into the box the layout gives each card.
// Sampling blocks and belongs in a background command, rendering never does.
package widgets

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/net"
)

// maxFiles caps the directory listing kept in a Sample.
const maxFiles = 200

// HostInfo is the static part of the system-info card.
type HostInfo struct {
	Hostname string
	Platform string
	Kernel   string
	Arch     string
	CPUModel string
	Cores    int
	Uptime   time.Duration
}

// Usage holds utilization percentages for the resource monitor.
type Usage struct {
	CPU       float64
	Memory    float64
	MemUsed   uint64
	MemTotal  uint64
	Disk      float64
	DiskUsed  uint64
	DiskTotal uint64
}

// NetworkInfo holds interface addresses and transfer rates.
type NetworkInfo struct {
	Interfaces []Interface
	BytesSent  uint64
	BytesRecv  uint64
	SendRate   float64 // bytes per second since the previous sample
	RecvRate   float64
}

// Interface is one network interface that is up and has an address.
type Interface struct {
	Name string
	Addr string
}

// FileEntry is one directory entry of the file browser.
type FileEntry struct {
	Name  string
	Dir   bool
	Size  int64
	Mtime time.Time
}

// Sample is one collection round. A section that failed keeps its zero
// value and records the error under its card id.
type Sample struct {
	At      time.Time
	Host    HostInfo
	Usage   Usage
	Network NetworkInfo
	Dir     string
	Files   []FileEntry
	Errors  map[string]error
}

// Err returns the sampling error recorded for a card, if any.
func (s Sample) Err(id string) error {
	if s.Errors == nil {
		return nil
	}
	return s.Errors[id]
}

// Sampler collects Samples. It remembers the previous network counters to
// compute transfer rates, so it must not be shared between goroutines.
type Sampler struct {
	dir      string
	diskPath string

	prevAt   time.Time
	prevSent uint64
	prevRecv uint64
}

// NewSampler returns a sampler listing dir, or the working directory when dir
// is empty.
func NewSampler(dir string) *Sampler {
	if dir == "" {
		if wd, err := os.Getwd(); err == nil {
			dir = wd
		} else {
			dir = "."
		}
	}
	return &Sampler{dir: dir, diskPath: "/"}
}

// Dir returns the listed directory.
func (s *Sampler) Dir() string { return s.dir }

// Sample collects every section. It always returns a Sample; failures are in
// Sample.Errors.
func (s *Sampler) Sample(ctx context.Context) Sample {
	out := Sample{At: time.Now(), Dir: s.dir, Errors: make(map[string]error)}

	if h, err := sampleHost(ctx); err != nil {
		out.Errors[SystemInfo] = err
	} else {
		out.Host = h
	}

	if u, err := s.sampleUsage(ctx); err != nil {
		out.Errors[ResourceMonitor] = err
	} else {
		out.Usage = u
	}

	if n, err := s.sampleNetwork(ctx, out.At); err != nil {
		out.Errors[NetworkStatus] = err
	} else {
		out.Network = n
	}

	if f, err := ListDir(s.dir); err != nil {
		out.Errors[FileBrowser] = err
	} else {
		out.Files = f
	}

	return out
}

func sampleHost(ctx context.Context) (HostInfo, error) {
	info, err := host.InfoWithContext(ctx)
	if err != nil {
		return HostInfo{}, fmt.Errorf("host info: %w", err)
	}
	h := HostInfo{
		Hostname: info.Hostname,
		Platform: strings.TrimSpace(info.Platform + " " + info.PlatformVersion),
		Kernel:   info.KernelVersion,
		Arch:     info.KernelArch,
		Uptime:   time.Duration(info.Uptime) * time.Second,
	}
	if cores, err := cpu.CountsWithContext(ctx, true); err == nil {
		h.Cores = cores
	}
	if cpus, err := cpu.InfoWithContext(ctx); err == nil && len(cpus) > 0 {
		h.CPUModel = strings.TrimSpace(cpus[0].ModelName)
	}
	return h, nil
}

func (s *Sampler) sampleUsage(ctx context.Context) (Usage, error) {
	var u Usage

	// Interval 0 compares against the previous call, so the first round is 0.
	percents, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil {
		return u, fmt.Errorf("cpu percent: %w", err)
	}
	if len(percents) > 0 {
		u.CPU = percents[0]
	}

	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return u, fmt.Errorf("memory: %w", err)
	}
	u.Memory, u.MemUsed, u.MemTotal = vm.UsedPercent, vm.Used, vm.Total

	if d, err := disk.UsageWithContext(ctx, s.diskPath); err == nil {
		u.Disk, u.DiskUsed, u.DiskTotal = d.UsedPercent, d.Used, d.Total
	}
	return u, nil
}

func (s *Sampler) sampleNetwork(ctx context.Context, now time.Time) (NetworkInfo, error) {
	var n NetworkInfo

	counters, err := net.IOCountersWithContext(ctx, false)
	if err != nil {
		return n, fmt.Errorf("network counters: %w", err)
	}
	if len(counters) > 0 {
		n.BytesSent, n.BytesRecv = counters[0].BytesSent, counters[0].BytesRecv
	}
	if !s.prevAt.IsZero() {
		n.SendRate = rate(s.prevSent, n.BytesSent, now.Sub(s.prevAt))
		n.RecvRate = rate(s.prevRecv, n.BytesRecv, now.Sub(s.prevAt))
	}
	s.prevAt, s.prevSent, s.prevRecv = now, n.BytesSent, n.BytesRecv

	ifaces, err := net.InterfacesWithContext(ctx)
	if err != nil {
		return n, nil
	}
	for _, iface := range ifaces {
		if !slices.Contains(iface.Flags, "up") || slices.Contains(iface.Flags, "loopback") {
			continue
		}
		if len(iface.Addrs) == 0 {
			continue
		}
		n.Interfaces = append(n.Interfaces, Interface{Name: iface.Name, Addr: iface.Addrs[0].Addr})
	}
	return n, nil
}

// rate returns bytes per second; a counter that went backwards counts as 0.
func rate(prev, cur uint64, elapsed time.Duration) float64 {
	if cur < prev || elapsed <= 0 {
		return 0
	}
	return float64(cur-prev) / elapsed.Seconds()
}

// ListDir lists dir with directories first, then by name. Hidden entries are
// skipped.
func ListDir(dir string) ([]FileEntry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}

	files := make([]FileEntry, 0, min(len(entries), maxFiles))
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".") {
			continue
		}
		f := FileEntry{Name: e.Name(), Dir: e.IsDir()}
		if info, err := e.Info(); err == nil {
			f.Size = info.Size()
			f.Mtime = info.ModTime()
		}
		files = append(files, f)
	}

	slices.SortFunc(files, func(a, b FileEntry) int {
		if a.Dir != b.Dir {
			if a.Dir {
				return -1
			}
			return 1
		}
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})
	if len(files) > maxFiles {
		files = files[:maxFiles]
	}
	return files, nil
}
