package instrument_test

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/teknique/fatest/pkg/instrument"
	mock_instrument "github.com/teknique/fatest/pkg/instrument/mock"
)

type fixedThermometer struct {
	temperature float64
	err         error
}

func (f fixedThermometer) CurrentTemperature(context.Context) (float64, error) {
	return f.temperature, f.err
}

func TestDeviceSampler(t *testing.T) {
	const key = "DUT DC Power (W)"
	tests := []struct {
		name        string
		thermometer fixedThermometer
		reading     instrument.Reading
		readErr     error
		skipRead    bool
		want        instrument.Sample
		wantErr     string
	}{
		{
			name:        "sample",
			thermometer: fixedThermometer{temperature: 48.5},
			reading:     instrument.Reading{key: 4.1, "DUT DC Current (A)": 0.82},
			want: instrument.Sample{
				Temperature: 48.5,
				Power:       4.1,
				Reading:     instrument.Reading{key: 4.1, "DUT DC Current (A)": 0.82},
			},
		},
		{
			name:        "thermometer error",
			thermometer: fixedThermometer{err: errors.New("console timeout")},
			skipRead:    true,
			wantErr:     "temperature: console timeout",
		},
		{
			name:        "meter error",
			thermometer: fixedThermometer{temperature: 40},
			readErr:     errors.New("connection refused"),
			wantErr:     "power: connection refused",
		},
		{
			name:        "missing power channel",
			thermometer: fixedThermometer{temperature: 40},
			reading:     instrument.Reading{"DUT DC Current (A)": 0.82},
			wantErr:     `reading has no "DUT DC Power (W)" channel`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			meter := mock_instrument.NewMockMeter(ctrl)
			if !tt.skipRead {
				meter.EXPECT().Read(gomock.Any()).Return(tt.reading, tt.readErr)
			}

			s := instrument.NewDeviceSampler(meter, tt.thermometer, key)
			got, err := s.Sample(context.Background())
			if tt.wantErr != "" {
				req.EqualError(err, tt.wantErr)
				return
			}
			req.NoError(err)
			req.Equal(tt.want, got)
		})
	}
}

func TestReadingString(t *testing.T) {
	r := instrument.Reading{"b": 2.5, "a": 1}
	require.Equal(t, "{a: 1, b: 2.5}", r.String())
}
