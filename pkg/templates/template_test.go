package templates

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type resolution struct {
	Width  int
	Height int
}

func TestExecute(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		data    interface{}
		want    string
		wantErr bool
	}{
		{
			name: "pipeline",
			text: "oclea_rtsp_example -s -w {{.Width}} -h {{.Height}}",
			data: resolution{Width: 1920, Height: 1080},
			want: "oclea_rtsp_example -s -w 1920 -h 1080",
		},
		{
			name: "sprig functions",
			text: `flash --version {{ .Version | quote }}{{ if .Yocto }} --yocto{{ end }}`,
			data: map[string]interface{}{"Version": "2.2.0", "Yocto": true},
			want: `flash --version "2.2.0" --yocto`,
		},
		{
			name:    "missing key",
			text:    "{{ .Missing }}",
			data:    map[string]interface{}{},
			wantErr: true,
		},
		{
			name:    "parse error",
			text:    "{{ .Width ",
			data:    resolution{},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)

			got, err := Execute(tt.name, tt.text, tt.data)
			if tt.wantErr {
				req.Error(err)
				return
			}
			req.NoError(err)
			req.Equal(tt.want, got)
		})
	}
}
