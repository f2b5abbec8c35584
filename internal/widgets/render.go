package widgets

import (
	"fmt"
	"image/color"
	"strings"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/Gaurav-Gosain/tuidash/internal/theme"
	"github.com/charmbracelet/x/ansi"
)

// Card ids with built-in content.
const (
	SystemInfo      = "system-info"
	ResourceMonitor = "resource-monitor"
	NetworkStatus   = "network-status"
	FileBrowser     = "file-browser"
)

// Renderer produces the content of a card. width and height are the inner
// size in terminal cells; the result never exceeds them.
type Renderer interface {
	Render(id string, width, height int) string
}

type renderFunc func(s Sample, width int) []string

// Board is the Renderer for the built-in cards. Update it with each new
// Sample; cards without a registered renderer show a placeholder.
type Board struct {
	sample    Sample
	renderers map[string]renderFunc
}

// NewBoard returns a board with the built-in renderers and no sample yet.
func NewBoard() *Board {
	return &Board{
		renderers: map[string]renderFunc{
			SystemInfo:      renderSystemInfo,
			ResourceMonitor: renderResources,
			NetworkStatus:   renderNetwork,
			FileBrowser:     renderFiles,
		},
	}
}

// Update replaces the sample the board renders from.
func (b *Board) Update(s Sample) { b.sample = s }

// Sample returns the current sample.
func (b *Board) Sample() Sample { return b.sample }

// Render implements Renderer.
func (b *Board) Render(id string, width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}

	var lines []string
	fn, ok := b.renderers[id]
	switch {
	case !ok:
		lines = []string{dim("no content for " + id)}
	case b.sample.At.IsZero():
		lines = []string{dim("loading...")}
	case b.sample.Err(id) != nil:
		lines = []string{
			lipgloss.NewStyle().Foreground(theme.NotificationError()).Render("unavailable"),
			dim(b.sample.Err(id).Error()),
		}
	default:
		lines = fn(b.sample, width)
	}
	return fit(lines, width, height)
}

// fit truncates every line to width and drops lines past height.
func fit(lines []string, width, height int) string {
	if len(lines) > height {
		lines = lines[:height]
	}
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = ansi.Truncate(l, width, "…")
	}
	return strings.Join(out, "\n")
}

func dim(s string) string {
	return lipgloss.NewStyle().Foreground(theme.CardDim()).Render(s)
}

func label(name, value string) string {
	return dim(fmt.Sprintf("%-9s", name)) +
		lipgloss.NewStyle().Foreground(theme.CardText()).Render(value)
}

func renderSystemInfo(s Sample, _ int) []string {
	h := s.Host
	lines := []string{
		label("host", h.Hostname),
		label("os", h.Platform),
		label("kernel", h.Kernel),
		label("arch", h.Arch),
		label("uptime", formatUptime(h.Uptime)),
	}
	if h.CPUModel != "" {
		lines = append(lines, label("cpu", fmt.Sprintf("%s (%d)", h.CPUModel, h.Cores)))
	}
	return lines
}

func renderResources(s Sample, width int) []string {
	u := s.Usage
	barWidth := max(width-15, 4)
	return []string{
		dim("cpu   ") + Gauge(u.CPU, barWidth) + fmt.Sprintf(" %5.1f%%", u.CPU),
		dim("mem   ") + Gauge(u.Memory, barWidth) + fmt.Sprintf(" %5.1f%%", u.Memory),
		dim("      ") + dim(FormatBytes(u.MemUsed)+" / "+FormatBytes(u.MemTotal)),
		dim("disk  ") + Gauge(u.Disk, barWidth) + fmt.Sprintf(" %5.1f%%", u.Disk),
		dim("      ") + dim(FormatBytes(u.DiskUsed)+" / "+FormatBytes(u.DiskTotal)),
	}
}

func renderNetwork(s Sample, _ int) []string {
	n := s.Network
	lines := []string{
		label("up", FormatBytes(uint64(n.SendRate))+"/s"),
		label("down", FormatBytes(uint64(n.RecvRate))+"/s"),
		label("sent", FormatBytes(n.BytesSent)),
		label("recv", FormatBytes(n.BytesRecv)),
	}
	if len(n.Interfaces) == 0 {
		return append(lines, dim("no interfaces up"))
	}
	for _, iface := range n.Interfaces {
		lines = append(lines, label(iface.Name, iface.Addr))
	}
	return lines
}

func renderFiles(s Sample, width int) []string {
	lines := []string{dim(s.Dir)}
	if len(s.Files) == 0 {
		return append(lines, dim("(empty)"))
	}

	dirStyle := lipgloss.NewStyle().Foreground(theme.Directory()).Bold(true)
	fileStyle := lipgloss.NewStyle().Foreground(theme.CardText())
	for _, f := range s.Files {
		if f.Dir {
			lines = append(lines, dirStyle.Render(f.Name+"/"))
			continue
		}
		size := FormatBytes(uint64(max(f.Size, 0)))
		pad := max(width-ansi.StringWidth(f.Name)-len(size), 1)
		lines = append(lines, fileStyle.Render(f.Name)+strings.Repeat(" ", pad)+dim(size))
	}
	return lines
}

// Gauge draws a horizontal bar filled to percent, colored by load.
func Gauge(percent float64, width int) string {
	if width <= 0 {
		return ""
	}
	p := min(max(percent, 0), 100)
	filled := int(p/100*float64(width) + 0.5)

	var c color.Color
	switch {
	case p >= 85:
		c = theme.GaugeHigh()
	case p >= 60:
		c = theme.GaugeMid()
	default:
		c = theme.GaugeLow()
	}
	return lipgloss.NewStyle().Foreground(c).Render(strings.Repeat("█", filled)) +
		dim(strings.Repeat("░", width-filled))
}

// FormatBytes renders n with a binary unit suffix.
func FormatBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := uint64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

func formatUptime(d time.Duration) string {
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	mins := int(d.Minutes()) % 60
	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm", days, hours, mins)
	}
	return fmt.Sprintf("%dh %dm", hours, mins)
}
