//go:build tools

// Package tools pins the code generators used by this module. Regenerate the
// mocks with "go generate -tags tools ./tools".
package tools

//go:generate mockgen -destination ../pkg/cli/mock/mock_cli.go -package mock_cli github.com/teknique/fatest/pkg/cli CLI
//go:generate mockgen -destination ../pkg/dut/mock/mock_dut.go -package mock_dut github.com/teknique/fatest/pkg/dut Device,StreamHandle
//go:generate mockgen -destination ../pkg/instrument/mock/mock_instrument.go -package mock_instrument github.com/teknique/fatest/pkg/instrument Meter,Sampler
//go:generate mockgen -destination ../pkg/capture/mock/mock_capture.go -package mock_capture github.com/teknique/fatest/pkg/capture Recorder
//go:generate mockgen -destination ../pkg/media/mock/mock_media.go -package mock_media github.com/teknique/fatest/pkg/media Extractor
//go:generate mockgen -destination ../pkg/operator/mock/mock_operator.go -package mock_operator github.com/teknique/fatest/pkg/operator Operator

import (
	_ "github.com/golang/mock/mockgen"
)
