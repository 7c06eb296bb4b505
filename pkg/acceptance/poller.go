package acceptance

import (
	"context"
	"math"
	"time"

	"github.com/sirupsen/logrus"
	"k8s.io/utils/clock"

	"github.com/teknique/fatest/pkg/instrument"
)

// sampleErrorBackoff keeps a failing sampler from spinning for the whole capture.
const sampleErrorBackoff = 500 * time.Millisecond

// PollStats summarizes the samples taken during a capture.
type PollStats struct {
	Samples        int
	Errors         int
	AvgTemperature float64
	MaxTemperature float64
	MinTemperature float64
	AvgPower       float64
}

// Poller samples the DUT for a fixed duration.
type Poller struct {
	Sampler instrument.Sampler
	Clock   clock.Clock
	// MinInterval spaces samples. Zero samples back to back.
	MinInterval time.Duration
	Log         logrus.FieldLogger
}

// Poll samples until duration has elapsed on the poller's clock and
// returns the aggregate. Sample errors are logged and skipped.
func (p *Poller) Poll(ctx context.Context, duration time.Duration) PollStats {
	var temperatures, powers []float64
	errs := 0

	deadline := p.Clock.Now().Add(duration)
	for p.Clock.Now().Before(deadline) {
		if ctx.Err() != nil {
			p.Log.Warnf("Sampling interrupted: %v", ctx.Err())
			break
		}
		started := p.Clock.Now()

		s, err := p.Sampler.Sample(ctx)
		if err != nil {
			errs++
			p.Log.Warnf("Failed to sample instrumentation: %v", err)
			p.sleep(sampleErrorBackoff, deadline)
			continue
		}
		temperatures = append(temperatures, s.Temperature)
		powers = append(powers, s.Power)
		p.Log.Infof("STREAMING %s", s.Reading)
		p.Log.Infof("Current temperature: %gC", s.Temperature)

		if p.MinInterval > 0 {
			p.sleep(p.MinInterval-p.Clock.Since(started), deadline)
		}
	}

	stats := PollStats{Samples: len(powers), Errors: errs}
	if stats.Samples == 0 {
		return stats
	}
	stats.AvgTemperature = round2(mean(temperatures))
	stats.MaxTemperature, stats.MinTemperature = maxMin(temperatures)
	stats.AvgPower = round2(mean(powers))
	return stats
}

// sleep waits for d but never past the deadline.
func (p *Poller) sleep(d time.Duration, deadline time.Time) {
	if remaining := deadline.Sub(p.Clock.Now()); d > remaining {
		d = remaining
	}
	if d > 0 {
		p.Clock.Sleep(d)
	}
}

func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func maxMin(values []float64) (float64, float64) {
	max, min := values[0], values[0]
	for _, v := range values[1:] {
		max = math.Max(max, v)
		min = math.Min(min, v)
	}
	return max, min
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
