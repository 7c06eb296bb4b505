package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	mock_cli "github.com/teknique/fatest/pkg/cli/mock"
	"github.com/teknique/fatest/pkg/config"
	mock_dut "github.com/teknique/fatest/pkg/dut/mock"
	"github.com/teknique/fatest/pkg/host"
	"github.com/teknique/fatest/pkg/logging"
	"github.com/teknique/fatest/pkg/version"
	"gopkg.in/yaml.v3"
	clocktesting "k8s.io/utils/clock/testing"
)

func executeCmd(t *testing.T, fs afero.Fs, args ...string) (string, string, error) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	mockCLI := mock_cli.NewMockCLI(mockCtrl)
	mockCLI.EXPECT().GetViper().Return(viper.New()).MinTimes(1)
	mockCLI.EXPECT().GetFS().Return(fs).AnyTimes()
	mockCLI.EXPECT().GetReadline().Return(nil).AnyTimes()

	cmd := NewFatCmd(mockCLI)
	bOut, bErr := bytes.NewBufferString(""), bytes.NewBufferString("")
	cmd.SetOut(bOut)
	cmd.SetErr(bErr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return bOut.String(), bErr.String(), err
}

func TestVersionCmd(t *testing.T) {
	stdout, _, err := executeCmd(t, afero.NewMemMapFs(), "version")
	require.NoError(t, err)

	buf := bytes.NewBuffer(nil)
	version.Fprint(buf)
	assert.Equal(t, buf.String(), stdout)
}

func TestConfigCmd(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		check   func(t *testing.T, got map[string]interface{})
		wantErr string
	}{
		{
			name: "defaults and file values",
			yaml: `short_title: hermes
device:
  serial_port: /dev/ttyUSB1
streaming:
  duration: 90s
`,
			check: func(t *testing.T, got map[string]interface{}) {
				req := require.New(t)
				req.Equal("hermes", got["short_title"])

				device := got["device"].(map[string]interface{})
				req.Equal("/dev/ttyUSB1", device["serial_port"])
				req.Equal(115200, device["baud_rate"])
				req.Equal("3s", device["power_off_period"])

				streaming := got["streaming"].(map[string]interface{})
				req.Equal("1m30s", streaming["duration"])
				req.Equal("20s", streaming["slack"])

				wantLEDs := []interface{}{
					map[string]interface{}{"name": "RED", "id": 0},
					map[string]interface{}{"name": "GREEN", "id": 1},
					map[string]interface{}{"name": "BLUE", "id": 2},
				}
				if diff := cmp.Diff(wantLEDs, got["leds"]); diff != "" {
					t.Errorf("leds mismatch (-want +got):\n%s", diff)
				}
			},
		},
		{
			name: "invalid",
			yaml: `bus_scan:
  attempts: 0
`,
			wantErr: "invalid config: bus_scan.attempts must be at least 1, got 0",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)

			fs := afero.NewMemMapFs()
			req.NoError(afero.WriteFile(fs, "/etc/fatest/station.yaml", []byte(tt.yaml), 0644))

			stdout, _, err := executeCmd(t, fs, "config", "--config", "/etc/fatest/station.yaml")
			if tt.wantErr != "" {
				req.EqualError(err, tt.wantErr)
				return
			}
			req.NoError(err)

			got := map[string]interface{}{}
			req.NoError(yaml.Unmarshal([]byte(stdout), &got))
			tt.check(t, got)
		})
	}
}

func TestRunCmd(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{
			name:    "no serial port",
			args:    []string{"run"},
			wantErr: "device.serial_port is required",
		},
		{
			name:    "serial port flag overrides the config",
			args:    []string{"run", "--config", "/etc/fatest/station.yaml", "--serial-port", "/dev/fatest-missing-port"},
			wantErr: "open serial port /dev/fatest-missing-port",
		},
		{
			name:    "missing config file",
			args:    []string{"run", "--config", "/etc/fatest/other.yaml"},
			wantErr: "read config /etc/fatest/other.yaml",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)

			fs := afero.NewMemMapFs()
			req.NoError(afero.WriteFile(fs, "/etc/fatest/station.yaml", []byte("device:\n  serial_port: /dev/ttyUSB0\n"), 0644))

			_, _, err := executeCmd(t, fs, tt.args...)
			req.Error(err)
			req.Contains(err.Error(), tt.wantErr)
			req.False(errors.Is(err, ErrRejected))
		})
	}
}

func TestLogFileCmd(t *testing.T) {
	req := require.New(t)

	fs := afero.NewMemMapFs()
	req.NoError(afero.WriteFile(fs, "/etc/fatest/station.yaml", []byte("log_dir: /var/log/fat\n"), 0644))

	stdout, _, err := executeCmd(t, fs, "log-file", "--config", "/etc/fatest/station.yaml")
	req.NoError(err)

	hostname, err := host.GetHostname()
	req.NoError(err)
	req.Equal(filepath.Join("/var/log/fat", logging.FileName(hostname, "zeus"))+"\n", stdout)
}

func TestScanBuses(t *testing.T) {
	scan := config.BusScanConfig{
		Attempts: 3,
		Delay:    2 * time.Second,
		Buses: []config.BusExpectation{
			{Bus: 0, MinDevices: 0, GridCells: 117},
			{Bus: 1, MinDevices: 5, GridCells: 117},
		},
	}
	tests := []struct {
		name    string
		outputs map[string][]string
		errs    map[string]error
		want    []string
		wantOK  bool
	}{
		{
			name: "pass",
			outputs: map[string][]string{
				"i2cdetect -y 0": {strings.Repeat("-- ", 117)},
				"i2cdetect -y 1": {strings.Repeat("-- ", 112)},
			},
			want: []string{
				OutputPassGreen() + " bus 0: 0 devices, expected at least 0",
				OutputPassGreen() + " bus 1: 5 devices, expected at least 5",
			},
			wantOK: true,
		},
		{
			name: "recovered on the third attempt",
			outputs: map[string][]string{
				"i2cdetect -y 0": {strings.Repeat("-- ", 117)},
				"i2cdetect -y 1": {strings.Repeat("-- ", 117), strings.Repeat("-- ", 115), strings.Repeat("-- ", 111)},
			},
			want: []string{
				OutputPassGreen() + " bus 0: 0 devices, expected at least 0",
				OutputWarnYellow() + " bus 1: 6 devices, expected at least 5 (attempt 3)",
			},
			wantOK: true,
		},
		{
			name: "short",
			outputs: map[string][]string{
				"i2cdetect -y 0": {strings.Repeat("-- ", 117)},
				"i2cdetect -y 1": {strings.Repeat("-- ", 114), strings.Repeat("-- ", 114), strings.Repeat("-- ", 114)},
			},
			want: []string{
				OutputPassGreen() + " bus 0: 0 devices, expected at least 0",
				OutputFailRed() + " bus 1: 3 devices, expected at least 5",
			},
		},
		{
			name: "command fails",
			outputs: map[string][]string{
				"i2cdetect -y 1": {strings.Repeat("-- ", 112)},
			},
			errs: map[string]error{
				"i2cdetect -y 0": errors.New("i2cdetect: not found"),
			},
			want: []string{
				OutputFailRed() + " bus 0: i2cdetect: not found",
				OutputPassGreen() + " bus 1: 5 devices, expected at least 5",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			mockCtrl := gomock.NewController(t)
			defer mockCtrl.Finish()

			calls := map[string]int{}
			device := mock_dut.NewMockDevice(mockCtrl)
			device.EXPECT().RunCommand(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, command string) (string, error) {
				defer func() { calls[command]++ }()
				if err := tt.errs[command]; err != nil {
					return "", err
				}
				return tt.outputs[command][calls[command]], nil
			}).AnyTimes()

			buf := bytes.NewBuffer(nil)
			ok := scanBuses(context.Background(), buf, device, scan, clocktesting.NewFakeClock(time.Now()))

			req.Equal(tt.wantOK, ok)
			req.Equal(strings.Join(tt.want, "\n")+"\n", buf.String())
		})
	}
}
