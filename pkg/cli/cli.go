package cli

import (
	"github.com/chzyer/readline"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

type CLI interface {
	GetViper() *viper.Viper
	GetFS() afero.Fs
	GetReadline() *readline.Instance
}

type FatCLI struct {
	fs       afero.Fs
	readline *readline.Instance
}

func (cli *FatCLI) GetViper() *viper.Viper {
	return viper.GetViper()
}

func (cli *FatCLI) GetFS() afero.Fs {
	return cli.fs
}

func (cli *FatCLI) GetReadline() *readline.Instance {
	return cli.readline
}

func NewFatCLI() (*FatCLI, error) {
	rl, err := readline.New("")
	if err != nil {
		return nil, errors.Wrap(err, "new readline")
	}
	return &FatCLI{
		fs:       afero.NewOsFs(),
		readline: rl,
	}, nil
}
