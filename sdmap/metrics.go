package sdmap

import "time"

// PhaseTimings tracks an exponential moving average of wall-clock duration
// and call rate for each named phase of the per-frame pipeline, mirroring
// the Hz/ms bookkeeping the original mapper kept per observe/regularize/
// propagate/fill/set-depth phase.
type PhaseTimings struct {
	samples map[string]*phaseSample
	last    time.Time
}

type phaseSample struct {
	avgMillis float64
	avgHz     float64
	count     int
}

const timingSmoothing = 0.1

// NewPhaseTimings returns an empty timing tracker.
func NewPhaseTimings() *PhaseTimings {
	return &PhaseTimings{samples: make(map[string]*phaseSample), last: time.Time{}}
}

// Track runs fn, attributing its wall-clock duration to name.
func (p *PhaseTimings) Track(name string, fn func()) {
	start := time.Now()
	fn()
	p.record(name, time.Since(start))
}

func (p *PhaseTimings) record(name string, d time.Duration) {
	s, ok := p.samples[name]
	if !ok {
		s = &phaseSample{}
		p.samples[name] = s
	}
	ms := float64(d.Microseconds()) / 1000.0
	s.avgMillis = (1-timingSmoothing)*s.avgMillis + timingSmoothing*ms
	s.count++
}

// Flush folds each phase's call count over the elapsed window into its
// smoothed Hz estimate and resets the count, matching addTimingSample's
// once-per-second rollup. Callers invoke this periodically, not once per
// frame.
func (p *PhaseTimings) Flush(now time.Time) {
	if p.last.IsZero() {
		p.last = now
		return
	}
	elapsed := now.Sub(p.last).Seconds()
	if elapsed <= 1.0 {
		return
	}
	for _, s := range p.samples {
		hz := float64(s.count) / elapsed
		s.avgHz = 0.8*s.avgHz + 0.2*hz
		s.count = 0
	}
	p.last = now
}

// Snapshot returns the current (avgMillis, avgHz) for name.
func (p *PhaseTimings) Snapshot(name string) (avgMillis, avgHz float64) {
	s, ok := p.samples[name]
	if !ok {
		return 0, 0
	}
	return s.avgMillis, s.avgHz
}
