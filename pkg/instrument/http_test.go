package instrument

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func quietLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestHTTPMeterRead(t *testing.T) {
	tests := []struct {
		name     string
		handler  func(calls int32, w http.ResponseWriter)
		retries  int
		want     Reading
		wantErr  string
		minCalls int32
	}{
		{
			name: "reading",
			handler: func(_ int32, w http.ResponseWriter) {
				w.Write([]byte(`{"DUT DC Power (W)": 4.17, "DUT DC Voltage (V)": 5.02, "board": "atsio"}`))
			},
			want: Reading{"DUT DC Power (W)": 4.17, "DUT DC Voltage (V)": 5.02},
		},
		{
			name:    "recovers after a server error",
			retries: 2,
			handler: func(calls int32, w http.ResponseWriter) {
				if calls == 1 {
					w.WriteHeader(http.StatusServiceUnavailable)
					return
				}
				w.Write([]byte(`{"DUT DC Power (W)": 3.9}`))
			},
			want:     Reading{"DUT DC Power (W)": 3.9},
			minCalls: 2,
		},
		{
			name: "not found",
			handler: func(_ int32, w http.ResponseWriter) {
				w.WriteHeader(http.StatusNotFound)
				w.Write([]byte("no such channel"))
			},
			wantErr: "unexpected status 404",
		},
		{
			name: "bad json",
			handler: func(_ int32, w http.ResponseWriter) {
				w.Write([]byte(`not json`))
			},
			wantErr: "unmarshal reading",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)

			var calls int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodGet {
					w.WriteHeader(http.StatusMethodNotAllowed)
					return
				}
				tt.handler(atomic.AddInt32(&calls, 1), w)
			}))
			defer server.Close()

			m := NewHTTPMeter(server.URL, time.Second, tt.retries, quietLogger())
			got, err := m.Read(context.Background())
			if tt.wantErr != "" {
				req.Error(err)
				req.Contains(err.Error(), tt.wantErr)
				return
			}
			req.NoError(err)
			req.Equal(tt.want, got)
			req.GreaterOrEqual(atomic.LoadInt32(&calls), tt.minCalls)
		})
	}
}

func TestHTTPMeterUnreachable(t *testing.T) {
	req := require.New(t)

	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := NewHTTPMeter(url, 200*time.Millisecond, 0, quietLogger()).Read(context.Background())
	req.Error(err)
}
