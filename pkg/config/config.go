package config

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix is prepended to every environment override, e.g. FATEST_DEVICE_SERIAL_PORT.
	EnvPrefix = "FATEST"

	// DefaultConfigName is looked up in the working directory when --config is not given.
	DefaultConfigName = "fatest"

	// BootModeManual asks the operator to put the board into USB boot mode by hand.
	BootModeManual = "manual"
	// BootModeCommand runs firmware.boot_mode_command to enter USB boot mode.
	BootModeCommand = "command"
)

// Config is the complete station configuration.
type Config struct {
	Title          string `mapstructure:"title" yaml:"title"`
	ShortTitle     string `mapstructure:"short_title" yaml:"short_title"`
	LogDir         string `mapstructure:"log_dir" yaml:"log_dir"`
	ArtifactsDir   string `mapstructure:"artifacts_dir" yaml:"artifacts_dir"`
	CleanupCommand string `mapstructure:"cleanup_command" yaml:"cleanup_command"`
	PauseAtEnd     bool   `mapstructure:"pause_at_end" yaml:"pause_at_end"`

	Device     DeviceConfig     `mapstructure:"device" yaml:"device"`
	Firmware   FirmwareConfig   `mapstructure:"firmware" yaml:"firmware"`
	LEDs       []LED            `mapstructure:"leds" yaml:"leds"`
	BusScan    BusScanConfig    `mapstructure:"bus_scan" yaml:"bus_scan"`
	Instrument InstrumentConfig `mapstructure:"instrument" yaml:"instrument"`
	Streaming  StreamingConfig  `mapstructure:"streaming" yaml:"streaming"`
	Tools      ToolsConfig      `mapstructure:"tools" yaml:"tools"`
}

// DeviceConfig describes how the station reaches and controls the DUT.
type DeviceConfig struct {
	SerialPort          string        `mapstructure:"serial_port" yaml:"serial_port"`
	BaudRate            int           `mapstructure:"baud_rate" yaml:"baud_rate"`
	CommandTimeout      time.Duration `mapstructure:"command_timeout" yaml:"command_timeout"`
	BootTimeout         time.Duration `mapstructure:"boot_timeout" yaml:"boot_timeout"`
	PowerOffPeriod      time.Duration `mapstructure:"power_off_period" yaml:"power_off_period"`
	PowerOnCommand      string        `mapstructure:"power_on_command" yaml:"power_on_command"`
	PowerOffCommand     string        `mapstructure:"power_off_command" yaml:"power_off_command"`
	Interface           string        `mapstructure:"interface" yaml:"interface"`
	SerialNumberCommand string        `mapstructure:"serial_number_command" yaml:"serial_number_command"`
	ModelCommand        string        `mapstructure:"model_command" yaml:"model_command"`
	TemperatureCommand  string        `mapstructure:"temperature_command" yaml:"temperature_command"`
	ResolutionCommand   string        `mapstructure:"resolution_command" yaml:"resolution_command"`
	LEDCommand          string        `mapstructure:"led_command" yaml:"led_command"`
	StreamLogDir        string        `mapstructure:"stream_log_dir" yaml:"stream_log_dir"`
	StreamReadyKeyword  string        `mapstructure:"stream_ready_keyword" yaml:"stream_ready_keyword"`
	StreamReadyTimeout  time.Duration `mapstructure:"stream_ready_timeout" yaml:"stream_ready_timeout"`
}

// FirmwareConfig selects the image flashed during the firmware stage.
type FirmwareConfig struct {
	Version               string        `mapstructure:"version" yaml:"version"`
	ExpectedModel         string        `mapstructure:"expected_model" yaml:"expected_model"`
	Released              bool          `mapstructure:"released" yaml:"released"`
	Yocto                 bool          `mapstructure:"yocto" yaml:"yocto"`
	FlashCommand          string        `mapstructure:"flash_command" yaml:"flash_command"`
	BootMode              string        `mapstructure:"boot_mode" yaml:"boot_mode"`
	BootModeCommand       string        `mapstructure:"boot_mode_command" yaml:"boot_mode_command"`
	BootModeDetectCommand string        `mapstructure:"boot_mode_detect_command" yaml:"boot_mode_detect_command"`
	BootModeTimeout       time.Duration `mapstructure:"boot_mode_timeout" yaml:"boot_mode_timeout"`
}

// LED maps an operator-facing color name to the board indicator id.
type LED struct {
	Name string `mapstructure:"name" yaml:"name"`
	ID   int    `mapstructure:"id" yaml:"id"`
}

// BusExpectation is the presence-detection baseline for one i2c bus.
type BusExpectation struct {
	Bus        int `mapstructure:"bus" yaml:"bus"`
	MinDevices int `mapstructure:"min_devices" yaml:"min_devices"`
	GridCells  int `mapstructure:"grid_cells" yaml:"grid_cells"`
}

type BusScanConfig struct {
	Attempts int              `mapstructure:"attempts" yaml:"attempts"`
	Delay    time.Duration    `mapstructure:"delay" yaml:"delay"`
	Buses    []BusExpectation `mapstructure:"buses" yaml:"buses"`
}

type InstrumentConfig struct {
	Endpoint    string        `mapstructure:"endpoint" yaml:"endpoint"`
	PowerKey    string        `mapstructure:"power_key" yaml:"power_key"`
	IdleSamples int           `mapstructure:"idle_samples" yaml:"idle_samples"`
	Timeout     time.Duration `mapstructure:"timeout" yaml:"timeout"`
	Retries     int           `mapstructure:"retries" yaml:"retries"`
}

type StreamingConfig struct {
	AddressTimeout     time.Duration     `mapstructure:"address_timeout" yaml:"address_timeout"`
	Pipeline           string            `mapstructure:"pipeline" yaml:"pipeline"`
	URL                string            `mapstructure:"url" yaml:"url"`
	Duration           time.Duration     `mapstructure:"duration" yaml:"duration"`
	Slack              time.Duration     `mapstructure:"slack" yaml:"slack"`
	PrecheckDuration   time.Duration     `mapstructure:"precheck_duration" yaml:"precheck_duration"`
	ExtraArgs          []string          `mapstructure:"extra_args" yaml:"extra_args"`
	MinSampleInterval  time.Duration     `mapstructure:"min_sample_interval" yaml:"min_sample_interval"`
	MaxPower           float64           `mapstructure:"max_power" yaml:"max_power"`
	TemperatureWarning float64           `mapstructure:"temperature_warning" yaml:"temperature_warning"`
	MinFrameRate       float64           `mapstructure:"min_frame_rate" yaml:"min_frame_rate"`
	BlackDetect        BlackDetectConfig `mapstructure:"black_detect" yaml:"black_detect"`
}

// BlackDetectConfig holds the ffmpeg blackdetect parameters and the failure threshold in seconds.
type BlackDetectConfig struct {
	MinDuration      float64 `mapstructure:"min_duration" yaml:"min_duration"`
	PixelThreshold   float64 `mapstructure:"pixel_threshold" yaml:"pixel_threshold"`
	PictureThreshold float64 `mapstructure:"picture_threshold" yaml:"picture_threshold"`
	MaxDuration      float64 `mapstructure:"max_duration" yaml:"max_duration"`
}

type ToolsConfig struct {
	FFmpeg   string `mapstructure:"ffmpeg" yaml:"ffmpeg"`
	Exiftool string `mapstructure:"exiftool" yaml:"exiftool"`
}

// gridCells is the number of "--" cells in an empty `i2cdetect -y N` grid.
const gridCells = 13 + 16*6 + 8

// Defaults returns the configuration of the Zeus acceptance station.
func Defaults() Config {
	return Config{
		Title:          "Zeus",
		ShortTitle:     "zeus",
		LogDir:         ".",
		ArtifactsDir:   ".",
		CleanupCommand: "rm ~/nohup.out /mnt/media/*_temp_streaming_log ~/.bash_history; history -c",
		PauseAtEnd:     true,
		Device: DeviceConfig{
			BaudRate:            115200,
			CommandTimeout:      30 * time.Second,
			BootTimeout:         3 * time.Minute,
			PowerOffPeriod:      3 * time.Second,
			Interface:           "eth0",
			SerialNumberCommand: "tr -d '\\0' < /proc/device-tree/serial-number",
			ModelCommand:        "tr -d '\\0' < /proc/device-tree/model",
			TemperatureCommand:  "cat /sys/class/thermal/thermal_zone0/temp",
			ResolutionCommand:   "oclea_sensor_info --max-resolution",
			LEDCommand:          "echo {{ .Brightness }} > /sys/class/leds/led{{ .ID }}/brightness",
			StreamLogDir:        "/mnt/media",
			StreamReadyKeyword:  "stream ready at",
			StreamReadyTimeout:  30 * time.Second,
		},
		Firmware: FirmwareConfig{
			Version:               "2.2.0",
			ExpectedModel:         "Oclea CV25 Zeus",
			Released:              false,
			Yocto:                 true,
			FlashCommand:          "ambausb_flash --version {{ .Version }}{{ if .Yocto }} --yocto{{ end }}{{ if not .Released }} --unreleased{{ end }}",
			BootMode:              BootModeManual,
			BootModeDetectCommand: "lsusb -d 4255:0001",
			BootModeTimeout:       5 * time.Minute,
		},
		LEDs: []LED{
			{Name: "RED", ID: 0},
			{Name: "GREEN", ID: 1},
			{Name: "BLUE", ID: 2},
		},
		BusScan: BusScanConfig{
			Attempts: 3,
			Delay:    2 * time.Second,
			// bus 1 expects 5 rather than 6 because 0x1a does not always answer
			Buses: []BusExpectation{
				{Bus: 0, MinDevices: 0, GridCells: gridCells},
				{Bus: 1, MinDevices: 5, GridCells: gridCells},
				{Bus: 2, MinDevices: 2, GridCells: gridCells},
				{Bus: 20, MinDevices: 4, GridCells: gridCells},
				{Bus: 21, MinDevices: 5, GridCells: gridCells},
				{Bus: 22, MinDevices: 2, GridCells: gridCells},
				{Bus: 23, MinDevices: 2, GridCells: gridCells},
			},
		},
		Instrument: InstrumentConfig{
			Endpoint:    "http://127.0.0.1:8080/readings",
			PowerKey:    "DUT DC Power (W)",
			IdleSamples: 5,
			Timeout:     5 * time.Second,
			Retries:     2,
		},
		Streaming: StreamingConfig{
			AddressTimeout:     time.Minute,
			Pipeline:           "oclea_rtsp_example -s -w {{ .Width }} -h {{ .Height }}",
			URL:                "rtsp://{{ .Address }}:8554/test",
			Duration:           120 * time.Second,
			Slack:              20 * time.Second,
			PrecheckDuration:   10 * time.Second,
			ExtraArgs:          []string{"-strict", "-2"},
			MaxPower:           4.3,
			TemperatureWarning: 60,
			MinFrameRate:       29,
			BlackDetect: BlackDetectConfig{
				MinDuration:      0,
				PixelThreshold:   0.1,
				PictureThreshold: 0.8,
				MaxDuration:      0.3,
			},
		},
		Tools: ToolsConfig{
			FFmpeg:   "ffmpeg",
			Exiftool: "exiftool",
		},
	}
}

// SetDefaults registers every default so that environment overrides resolve for all keys.
func SetDefaults(v *viper.Viper) {
	d := Defaults()

	v.SetDefault("title", d.Title)
	v.SetDefault("short_title", d.ShortTitle)
	v.SetDefault("log_dir", d.LogDir)
	v.SetDefault("artifacts_dir", d.ArtifactsDir)
	v.SetDefault("cleanup_command", d.CleanupCommand)
	v.SetDefault("pause_at_end", d.PauseAtEnd)

	v.SetDefault("device.serial_port", d.Device.SerialPort)
	v.SetDefault("device.baud_rate", d.Device.BaudRate)
	v.SetDefault("device.command_timeout", d.Device.CommandTimeout)
	v.SetDefault("device.boot_timeout", d.Device.BootTimeout)
	v.SetDefault("device.power_off_period", d.Device.PowerOffPeriod)
	v.SetDefault("device.power_on_command", d.Device.PowerOnCommand)
	v.SetDefault("device.power_off_command", d.Device.PowerOffCommand)
	v.SetDefault("device.interface", d.Device.Interface)
	v.SetDefault("device.serial_number_command", d.Device.SerialNumberCommand)
	v.SetDefault("device.model_command", d.Device.ModelCommand)
	v.SetDefault("device.temperature_command", d.Device.TemperatureCommand)
	v.SetDefault("device.resolution_command", d.Device.ResolutionCommand)
	v.SetDefault("device.led_command", d.Device.LEDCommand)
	v.SetDefault("device.stream_log_dir", d.Device.StreamLogDir)
	v.SetDefault("device.stream_ready_keyword", d.Device.StreamReadyKeyword)
	v.SetDefault("device.stream_ready_timeout", d.Device.StreamReadyTimeout)

	v.SetDefault("firmware.version", d.Firmware.Version)
	v.SetDefault("firmware.expected_model", d.Firmware.ExpectedModel)
	v.SetDefault("firmware.released", d.Firmware.Released)
	v.SetDefault("firmware.yocto", d.Firmware.Yocto)
	v.SetDefault("firmware.flash_command", d.Firmware.FlashCommand)
	v.SetDefault("firmware.boot_mode", d.Firmware.BootMode)
	v.SetDefault("firmware.boot_mode_command", d.Firmware.BootModeCommand)
	v.SetDefault("firmware.boot_mode_detect_command", d.Firmware.BootModeDetectCommand)
	v.SetDefault("firmware.boot_mode_timeout", d.Firmware.BootModeTimeout)

	v.SetDefault("leds", d.LEDs)

	v.SetDefault("bus_scan.attempts", d.BusScan.Attempts)
	v.SetDefault("bus_scan.delay", d.BusScan.Delay)
	v.SetDefault("bus_scan.buses", d.BusScan.Buses)

	v.SetDefault("instrument.endpoint", d.Instrument.Endpoint)
	v.SetDefault("instrument.power_key", d.Instrument.PowerKey)
	v.SetDefault("instrument.idle_samples", d.Instrument.IdleSamples)
	v.SetDefault("instrument.timeout", d.Instrument.Timeout)
	v.SetDefault("instrument.retries", d.Instrument.Retries)

	v.SetDefault("streaming.address_timeout", d.Streaming.AddressTimeout)
	v.SetDefault("streaming.pipeline", d.Streaming.Pipeline)
	v.SetDefault("streaming.url", d.Streaming.URL)
	v.SetDefault("streaming.duration", d.Streaming.Duration)
	v.SetDefault("streaming.slack", d.Streaming.Slack)
	v.SetDefault("streaming.precheck_duration", d.Streaming.PrecheckDuration)
	v.SetDefault("streaming.extra_args", d.Streaming.ExtraArgs)
	v.SetDefault("streaming.min_sample_interval", d.Streaming.MinSampleInterval)
	v.SetDefault("streaming.max_power", d.Streaming.MaxPower)
	v.SetDefault("streaming.temperature_warning", d.Streaming.TemperatureWarning)
	v.SetDefault("streaming.min_frame_rate", d.Streaming.MinFrameRate)
	v.SetDefault("streaming.black_detect.min_duration", d.Streaming.BlackDetect.MinDuration)
	v.SetDefault("streaming.black_detect.pixel_threshold", d.Streaming.BlackDetect.PixelThreshold)
	v.SetDefault("streaming.black_detect.picture_threshold", d.Streaming.BlackDetect.PictureThreshold)
	v.SetDefault("streaming.black_detect.max_duration", d.Streaming.BlackDetect.MaxDuration)

	v.SetDefault("tools.ffmpeg", d.Tools.FFmpeg)
	v.SetDefault("tools.exiftool", d.Tools.Exiftool)
}

// Load resolves the configuration from defaults, an optional YAML file, FATEST_* environment
// variables and any flags already bound to v. An empty path looks for fatest.yaml in the
// working directory and silently continues without it.
func Load(v *viper.Viper, fs afero.Fs, path string) (Config, error) {
	SetDefaults(v)
	v.SetFs(fs)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, errors.Wrapf(err, "read config %s", path)
		}
	} else {
		v.SetConfigName(DefaultConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, errors.Wrap(err, "read config")
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, errors.Wrap(err, "invalid config")
	}
	return cfg, nil
}

// Validate checks the values the acceptance run depends on.
func (c Config) Validate() error {
	if c.ShortTitle == "" {
		return errors.New("short_title must not be empty")
	}
	if c.Device.CommandTimeout <= 0 {
		return errors.New("device.command_timeout must be positive")
	}
	if c.BusScan.Attempts < 1 {
		return errors.Errorf("bus_scan.attempts must be at least 1, got %d", c.BusScan.Attempts)
	}
	if c.BusScan.Delay < 0 {
		return errors.New("bus_scan.delay must not be negative")
	}
	for _, bus := range c.BusScan.Buses {
		if bus.GridCells <= 0 {
			return errors.Errorf("bus_scan.buses: bus %d has no grid cells", bus.Bus)
		}
		if bus.MinDevices < 0 || bus.MinDevices > bus.GridCells {
			return errors.Errorf("bus_scan.buses: bus %d min_devices %d out of range", bus.Bus, bus.MinDevices)
		}
	}
	s := c.Streaming
	if s.Duration <= 0 || s.Slack <= 0 || s.PrecheckDuration <= 0 {
		return errors.New("streaming durations must be positive")
	}
	if s.AddressTimeout <= 0 {
		return errors.New("streaming.address_timeout must be positive")
	}
	if s.MinSampleInterval < 0 {
		return errors.New("streaming.min_sample_interval must not be negative")
	}
	switch c.Firmware.BootMode {
	case BootModeManual:
	case BootModeCommand:
		if c.Firmware.BootModeCommand == "" {
			return errors.New("firmware.boot_mode_command is required when boot_mode is command")
		}
	default:
		return errors.Errorf("unknown firmware.boot_mode %q", c.Firmware.BootMode)
	}
	return nil
}

// RequireDevice reports whether the settings needed to talk to real hardware are present.
func (c Config) RequireDevice() error {
	if c.Device.SerialPort == "" {
		return errors.New("device.serial_port is required (--serial-port or FATEST_DEVICE_SERIAL_PORT)")
	}
	if c.Device.BaudRate <= 0 {
		return errors.Errorf("device.baud_rate must be positive, got %d", c.Device.BaudRate)
	}
	return nil
}
