// Package instrument reads the station's power and temperature instrumentation.
package instrument

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// Reading is one snapshot of the instrumentation board, keyed by channel name,
// e.g. "DUT DC Power (W)".
type Reading map[string]float64

func (r Reading) String() string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %g", k, r[k]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Meter returns the current instrumentation reading.
type Meter interface {
	Read(ctx context.Context) (Reading, error)
}

// Sample is a paired temperature and power measurement.
type Sample struct {
	Temperature float64
	Power       float64
	Reading     Reading
}

// Sampler takes one combined measurement of the DUT.
type Sampler interface {
	Sample(ctx context.Context) (Sample, error)
}

// Thermometer reports the DUT's temperature in degrees Celsius.
type Thermometer interface {
	CurrentTemperature(ctx context.Context) (float64, error)
}

// DeviceSampler pairs the DUT's own temperature sensor with the meter's power channel.
type DeviceSampler struct {
	meter       Meter
	thermometer Thermometer
	powerKey    string
}

var _ Sampler = (*DeviceSampler)(nil)

func NewDeviceSampler(meter Meter, thermometer Thermometer, powerKey string) *DeviceSampler {
	return &DeviceSampler{meter: meter, thermometer: thermometer, powerKey: powerKey}
}

func (s *DeviceSampler) Sample(ctx context.Context) (Sample, error) {
	temperature, err := s.thermometer.CurrentTemperature(ctx)
	if err != nil {
		return Sample{}, errors.Wrap(err, "temperature")
	}
	reading, err := s.meter.Read(ctx)
	if err != nil {
		return Sample{}, errors.Wrap(err, "power")
	}
	power, ok := reading[s.powerKey]
	if !ok {
		return Sample{}, errors.Errorf("reading has no %q channel", s.powerKey)
	}
	return Sample{Temperature: temperature, Power: power, Reading: reading}, nil
}
