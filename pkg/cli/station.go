package cli

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/teknique/fatest/pkg/capture"
	"github.com/teknique/fatest/pkg/config"
	"github.com/teknique/fatest/pkg/dut"
	"github.com/teknique/fatest/pkg/instrument"
	"github.com/teknique/fatest/pkg/media"
	"k8s.io/utils/clock"
)

// station holds the hardware and tool adapters of one test bench.
type station struct {
	console   *dut.Console
	board     *dut.Board
	meter     *instrument.HTTPMeter
	sampler   *instrument.DeviceSampler
	recorder  *capture.FFmpeg
	extractor *media.Exiftool
}

func openStation(cfg config.Config, prompter dut.Prompter, log logrus.FieldLogger) (*station, error) {
	extractor, err := media.NewExiftool(cfg.Tools.Exiftool, nil)
	if err != nil {
		return nil, errors.Wrap(err, "exiftool")
	}

	console, err := dut.OpenConsole(cfg.Device.SerialPort, cfg.Device.BaudRate, cfg.Device.CommandTimeout, log)
	if err != nil {
		return nil, err
	}

	flasher := dut.NewCommandFlasher(
		cfg.Firmware.FlashCommand,
		cfg.Firmware.Released,
		cfg.Firmware.Yocto,
		newBootMode(cfg.Firmware, prompter, log),
		dut.ShellRunner,
		log,
	)
	board := dut.NewBoard(dut.BoardOptions{
		Console: console,
		Power:   dut.NewCommandSwitch(cfg.Device.PowerOnCommand, cfg.Device.PowerOffCommand, dut.ShellRunner),
		Flasher: flasher,
		Config:  cfg.Device,
		Log:     log,
	})
	meter := instrument.NewHTTPMeter(cfg.Instrument.Endpoint, cfg.Instrument.Timeout, cfg.Instrument.Retries, log)

	return &station{
		console:   console,
		board:     board,
		meter:     meter,
		sampler:   instrument.NewDeviceSampler(meter, board, cfg.Instrument.PowerKey),
		recorder:  capture.NewFFmpeg(cfg.Tools.FFmpeg, nil, log),
		extractor: extractor,
	}, nil
}

func (s *station) Close() error {
	return s.console.Close()
}

func newBootMode(fw config.FirmwareConfig, prompter dut.Prompter, log logrus.FieldLogger) dut.BootMode {
	if fw.BootMode == config.BootModeCommand {
		return dut.NewCommandBootMode(fw.BootModeCommand, fw.BootModeDetectCommand, fw.BootModeTimeout, dut.ShellRunner, clock.RealClock{})
	}
	return dut.NewManualBootMode(fw.BootModeDetectCommand, prompter, fw.BootModeTimeout, dut.ShellRunner, clock.RealClock{}, log)
}
