package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		files   map[string]string
		path    string
		env     map[string]string
		assert  func(*require.Assertions, Config)
		wantErr string
	}{
		{
			name: "defaults without a config file",
			assert: func(req *require.Assertions, cfg Config) {
				req.Equal("zeus", cfg.ShortTitle)
				req.Equal("2.2.0", cfg.Firmware.Version)
				req.Equal(120*time.Second, cfg.Streaming.Duration)
				req.Equal(20*time.Second, cfg.Streaming.Slack)
				req.Equal(3, cfg.BusScan.Attempts)
				req.Len(cfg.BusScan.Buses, 7)
				req.Equal(117, cfg.BusScan.Buses[1].GridCells)
				req.Equal(5, cfg.BusScan.Buses[1].MinDevices)
				req.Equal([]string{"-strict", "-2"}, cfg.Streaming.ExtraArgs)
				req.Equal(4.3, cfg.Streaming.MaxPower)
			},
		},
		{
			name: "working directory file overrides defaults",
			files: map[string]string{
				"fatest.yaml": `
title: Hera
short_title: hera
streaming:
  duration: 30s
  black_detect:
    max_duration: 0.5
device:
  serial_port: /dev/ttyUSB1
`,
			},
			assert: func(req *require.Assertions, cfg Config) {
				req.Equal("hera", cfg.ShortTitle)
				req.Equal(30*time.Second, cfg.Streaming.Duration)
				req.Equal(0.5, cfg.Streaming.BlackDetect.MaxDuration)
				req.Equal(0.1, cfg.Streaming.BlackDetect.PixelThreshold)
				req.Equal("/dev/ttyUSB1", cfg.Device.SerialPort)
				req.Equal(115200, cfg.Device.BaudRate)
			},
		},
		{
			name: "explicit path",
			path: "/etc/fatest/station.yaml",
			files: map[string]string{
				"/etc/fatest/station.yaml": `
bus_scan:
  attempts: 5
  buses:
  - bus: 3
    min_devices: 1
    grid_cells: 117
`,
			},
			assert: func(req *require.Assertions, cfg Config) {
				req.Equal(5, cfg.BusScan.Attempts)
				req.Equal([]BusExpectation{{Bus: 3, MinDevices: 1, GridCells: 117}}, cfg.BusScan.Buses)
			},
		},
		{
			name: "environment overrides file",
			files: map[string]string{
				"fatest.yaml": "device:\n  serial_port: /dev/ttyUSB1\n",
			},
			env: map[string]string{
				"FATEST_DEVICE_SERIAL_PORT": "/dev/ttyACM0",
				"FATEST_STREAMING_SLACK":    "45s",
			},
			assert: func(req *require.Assertions, cfg Config) {
				req.Equal("/dev/ttyACM0", cfg.Device.SerialPort)
				req.Equal(45*time.Second, cfg.Streaming.Slack)
			},
		},
		{
			name:    "missing explicit path",
			path:    "/nope.yaml",
			wantErr: "read config /nope.yaml",
		},
		{
			name: "invalid boot mode",
			files: map[string]string{
				"fatest.yaml": "firmware:\n  boot_mode: jumper\n",
			},
			wantErr: `unknown firmware.boot_mode "jumper"`,
		},
		{
			name: "command boot mode requires a command",
			files: map[string]string{
				"fatest.yaml": "firmware:\n  boot_mode: command\n",
			},
			wantErr: "boot_mode_command is required",
		},
		{
			name: "zero attempts",
			files: map[string]string{
				"fatest.yaml": "bus_scan:\n  attempts: 0\n",
			},
			wantErr: "bus_scan.attempts must be at least 1",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)

			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			wd, err := os.Getwd()
			req.NoError(err)

			fs := afero.NewMemMapFs()
			for name, contents := range tt.files {
				if !filepath.IsAbs(name) {
					name = filepath.Join(wd, name)
				}
				req.NoError(afero.WriteFile(fs, name, []byte(contents), 0644))
			}

			cfg, err := Load(viper.New(), fs, tt.path)
			if tt.wantErr != "" {
				req.Error(err)
				req.Contains(err.Error(), tt.wantErr)
				return
			}
			req.NoError(err)
			tt.assert(req, cfg)
		})
	}
}

func TestRequireDevice(t *testing.T) {
	req := require.New(t)

	cfg := Defaults()
	req.Error(cfg.RequireDevice())

	cfg.Device.SerialPort = "/dev/ttyUSB0"
	req.NoError(cfg.RequireDevice())

	cfg.Device.BaudRate = 0
	req.Error(cfg.RequireDevice())
}

func TestDefaultsValidate(t *testing.T) {
	require.NoError(t, Defaults().Validate())
}
