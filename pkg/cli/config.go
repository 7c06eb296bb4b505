package cli

import (
	"reflect"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/teknique/fatest/pkg/config"
	"gopkg.in/yaml.v3"
)

func newConfigCmd(cli CLI) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Prints the effective station config as YAML",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return cli.GetViper().BindPFlags(cmd.Flags())
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			v := cli.GetViper()

			cfg, err := config.Load(v, cli.GetFS(), v.GetString("config"))
			if err != nil {
				return err
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(configValue(reflect.ValueOf(cfg))); err != nil {
				return errors.Wrap(err, "encode config")
			}
			return enc.Close()
		},
	}
	return cmd
}

var durationType = reflect.TypeOf(time.Duration(0))

// configValue converts the config into plain maps keyed by yaml tag, with
// durations written the way they are read ("1m30s" rather than nanoseconds).
func configValue(v reflect.Value) interface{} {
	switch {
	case v.Type() == durationType:
		return time.Duration(v.Int()).String()
	case v.Kind() == reflect.Struct:
		m := map[string]interface{}{}
		for i := 0; i < v.NumField(); i++ {
			field := v.Type().Field(i)
			name := strings.Split(field.Tag.Get("yaml"), ",")[0]
			if name == "" || name == "-" {
				continue
			}
			m[name] = configValue(v.Field(i))
		}
		return m
	case v.Kind() == reflect.Slice:
		s := make([]interface{}, v.Len())
		for i := range s {
			s[i] = configValue(v.Index(i))
		}
		return s
	default:
		return v.Interface()
	}
}
