package dut_test

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/teknique/fatest/pkg/dut"
	mock_dut "github.com/teknique/fatest/pkg/dut/mock"
)

func TestWithStream(t *testing.T) {
	tests := []struct {
		name     string
		openErr  error
		fnErr    error
		fnPanic  bool
		closeErr error
		wantErr  string
	}{
		{
			name: "success",
		},
		{
			name:    "open fails",
			openErr: dut.ErrStreamActive,
			wantErr: "open stream: a stream is already active on the device",
		},
		{
			name:    "body fails",
			fnErr:   errors.New("capture failed"),
			wantErr: "capture failed",
		},
		{
			name:     "close fails",
			closeErr: errors.New("kill failed"),
			wantErr:  "close stream: kill failed",
		},
		{
			name:     "body error wins over close error",
			fnErr:    errors.New("capture failed"),
			closeErr: errors.New("kill failed"),
			wantErr:  "capture failed",
		},
		{
			name:    "released on panic",
			fnPanic: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			ctx := context.Background()
			device := mock_dut.NewMockDevice(ctrl)
			stream := mock_dut.NewMockStreamHandle(ctrl)

			if tt.openErr != nil {
				device.EXPECT().OpenStream(ctx, "pipeline").Return(nil, tt.openErr)
			} else {
				device.EXPECT().OpenStream(ctx, "pipeline").Return(stream, nil)
				stream.EXPECT().Close(ctx).Return(tt.closeErr)
			}

			called := false
			run := func() error {
				return dut.WithStream(ctx, device, "pipeline", func(h dut.StreamHandle) error {
					called = true
					req.Equal(stream, h)
					if tt.fnPanic {
						panic("boom")
					}
					return tt.fnErr
				})
			}

			if tt.fnPanic {
				req.Panics(func() { _ = run() })
				return
			}

			err := run()
			req.Equal(tt.openErr == nil, called)
			if tt.wantErr != "" {
				req.EqualError(err, tt.wantErr)
				return
			}
			req.NoError(err)
		})
	}
}
