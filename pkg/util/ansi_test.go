package util

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStripANSIWriter(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: "HELLO from ZEUS0000LF12!\n", want: "HELLO from ZEUS0000LF12!\n"},
		{name: "colored tags", in: "\033[32m[PASS]\033[0m led\n", want: "[PASS] led\n"},
		{name: "bold banner", in: "\033[1;31mREJECTED\033[0m", want: "REJECTED"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)

			buf := bytes.NewBuffer(nil)
			n, err := NewStripANSIWriter(buf).Write([]byte(tt.in))
			req.NoError(err)
			req.Equal(len(tt.in), n)
			req.Equal(tt.want, buf.String())
			req.Equal(tt.want, StripANSI(tt.in))
		})
	}
}
