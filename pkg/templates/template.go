package templates

import (
	"bytes"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig"
	"github.com/pkg/errors"
)

// Execute renders a station command template. Templates have access to the sprig text functions.
func Execute(name, text string, data interface{}) (string, error) {
	t, err := template.New(name).Funcs(sprig.TxtFuncMap()).Option("missingkey=error").Parse(text)
	if err != nil {
		return "", errors.Wrap(err, "parse")
	}
	b := bytes.NewBuffer(nil)
	if err := t.Execute(b, data); err != nil {
		return "", errors.Wrap(err, "execute")
	}
	return strings.TrimSpace(b.String()), nil
}
