package instrument

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// HTTPMeter reads the instrumentation board through its JSON endpoint.
type HTTPMeter struct {
	endpoint string
	client   *retryablehttp.Client
}

var _ Meter = (*HTTPMeter)(nil)

func NewHTTPMeter(endpoint string, timeout time.Duration, retries int, log logrus.FieldLogger) *HTTPMeter {
	client := retryablehttp.NewClient()
	client.RetryMax = retries
	client.RetryWaitMin = 50 * time.Millisecond
	client.RetryWaitMax = 500 * time.Millisecond
	client.HTTPClient.Timeout = timeout
	client.Logger = leveledLogger{log: log}

	return &HTTPMeter{endpoint: endpoint, client: client}
}

func (m *HTTPMeter) Read(ctx context.Context) (Reading, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, m.endpoint, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "build request for %s", m.endpoint)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "get %s", m.endpoint)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read response body")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("unexpected status %d from %s: %s", resp.StatusCode, m.endpoint, body)
	}

	raw := map[string]interface{}{}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, errors.Wrapf(err, "unmarshal reading %s", body)
	}
	reading := Reading{}
	for k, v := range raw {
		if f, ok := v.(float64); ok {
			reading[k] = f
		}
	}
	return reading, nil
}

// leveledLogger sends retryablehttp's logs to logrus, demoting request chatter to debug.
type leveledLogger struct {
	log logrus.FieldLogger
}

var _ retryablehttp.LeveledLogger = leveledLogger{}

func (l leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.with(keysAndValues).Error(msg)
}

func (l leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.with(keysAndValues).Warn(msg)
}

func (l leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.with(keysAndValues).Debug(msg)
}

func (l leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.with(keysAndValues).Debug(msg)
}

func (l leveledLogger) with(keysAndValues []interface{}) logrus.FieldLogger {
	fields := logrus.Fields{}
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		if k, ok := keysAndValues[i].(string); ok {
			fields[k] = keysAndValues[i+1]
		}
	}
	return l.log.WithFields(fields)
}
