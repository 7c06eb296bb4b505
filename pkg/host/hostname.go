package host

import (
	"os"
	"strings"

	"github.com/pkg/errors"
)

// GetHostname returns the station's lower-cased hostname, which prefixes the
// device log so logs collected from several stations can be told apart.
func GetHostname() (string, error) {
	return normalizeHostname(os.Hostname())
}

func normalizeHostname(name string, err error) (string, error) {
	if err != nil {
		return "", errors.Wrap(err, "couldn't determine hostname")
	}
	// /proc/sys/kernel/hostname may carry trailing whitespace
	name = strings.TrimSpace(name)
	if len(name) == 0 {
		return "", errors.New("empty hostname is invalid")
	}
	return strings.ToLower(name), nil
}
