package observ

import (
	"fmt"
	"time"
)

// Phase records the duration and volume of one tokenization phase.
type Phase struct {
	Name  string
	Start time.Time
	Dur   time.Duration
	Bytes int
	Items int
	Note  string
}

// Timer tracks the execution time of multiple phases.
// Not safe for concurrent use; parallel runs keep one Timer per file.
type Timer struct {
	phases []Phase
}

// NewTimer creates a new empty Timer.
func NewTimer() *Timer { return &Timer{phases: make([]Phase, 0, 4)} }

// Begin starts a new phase and returns its index.
func (t *Timer) Begin(name string) int {
	t.phases = append(t.phases, Phase{Name: name, Start: time.Now()})
	return len(t.phases) - 1
}

// End finishes a phase by its index.
func (t *Timer) End(idx int, note string) {
	t.EndWith(idx, 0, 0, note)
}

// EndWith finishes a phase and records how many bytes and items it handled.
func (t *Timer) EndWith(idx, bytes, items int, note string) {
	if t == nil || idx < 0 || idx >= len(t.phases) {
		return
	}
	p := &t.phases[idx]
	p.Dur = time.Since(p.Start)
	p.Bytes = bytes
	p.Items = items
	p.Note = note
}

// Record appends an already measured phase.
func (t *Timer) Record(name string, dur time.Duration, bytes, items int, note string) {
	t.phases = append(t.phases, Phase{Name: name, Start: time.Now().Add(-dur), Dur: dur, Bytes: bytes, Items: items, Note: note})
}

// Summary returns a human-readable string summarizing all tracked phases.
func (t *Timer) Summary() string {
	report := t.Report()
	out := "timings:\n"
	for _, p := range report.Phases {
		out += fmt.Sprintf("  %-12s %9.3f ms", p.Name, p.DurationMS)
		if p.MBPerSec > 0 {
			out += fmt.Sprintf("  %8.1f MB/s", p.MBPerSec)
		}
		if p.Items > 0 {
			out += fmt.Sprintf("  %d tokens", p.Items)
		}
		if p.Note != "" {
			out += "  // " + p.Note
		}
		out += "\n"
	}
	out += fmt.Sprintf("  %-12s %9.3f ms\n", "total", report.TotalMS)
	return out
}

// PhaseReport представляет сжатую информацию о фазе таймера для сериализации.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Bytes      int     `json:"bytes,omitempty"`
	Items      int     `json:"items,omitempty"`
	MBPerSec   float64 `json:"mb_per_sec,omitempty"`
	Note       string  `json:"note,omitempty"`
}

// Report описывает агрегированные данные таймера.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

// Report формирует срез фаз и общую длительность в миллисекундах.
func (t *Timer) Report() Report {
	if t == nil || len(t.phases) == 0 {
		return Report{}
	}
	report := Report{
		Phases: make([]PhaseReport, len(t.phases)),
	}
	var total time.Duration
	for i, phase := range t.phases {
		total += phase.Dur
		report.Phases[i] = PhaseReport{
			Name:       phase.Name,
			DurationMS: durationToMillis(phase.Dur),
			Bytes:      phase.Bytes,
			Items:      phase.Items,
			MBPerSec:   throughput(phase.Bytes, phase.Dur),
			Note:       phase.Note,
		}
	}
	report.TotalMS = durationToMillis(total)
	return report
}

// Merge appends the phases of other, prefixing their names.
func (t *Timer) Merge(prefix string, other *Timer) {
	if t == nil || other == nil {
		return
	}
	for _, p := range other.phases {
		p.Name = prefix + p.Name
		t.phases = append(t.phases, p)
	}
}

func durationToMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

func throughput(bytes int, d time.Duration) float64 {
	if bytes <= 0 || d <= 0 {
		return 0
	}
	return float64(bytes) / (1 << 20) / d.Seconds()
}
