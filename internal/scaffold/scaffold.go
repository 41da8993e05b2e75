// Package scaffold renders spec-file skeletons for the generate command.
package scaffold

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"text/template"
	"unicode"
	"unicode/utf8"
)

var (
	// ErrNoPackage is returned when the target package name is missing.
	ErrNoPackage = errors.New("package name required")

	// ErrNoDescription is returned when the group description is missing.
	ErrNoDescription = errors.New("description required")
)

// Data carries the values a skeleton is rendered from.
type Data struct {
	Package     string
	Description string
	Values      []string
	Subject     bool
}

var specTemplate = template.Must(template.New("spec").Funcs(template.FuncMap{
	"testName": testName,
}).Parse(`package {{.Package}}

import (
	"testing"
{{- if or .Values .Subject}}

	"github.com/stretchr/testify/require"
{{- end}}

	"lazyspec.dev/pkg/lazyspec/let"
	"lazyspec.dev/pkg/lazyspec/let/lettest"
)

func Test{{testName .Description}}(t *testing.T) {
	w := let.NewWorld()
	g := w.NewGroup({{printf "%q" .Description}})
{{- range .Values}}

	require.NoError(t, g.Let({{printf "%q" .}}, func(env *let.Env) (any, error) {
		return nil, nil // TODO: build {{.}}
	}))
{{- end}}
{{- if .Subject}}

	require.NoError(t, g.Subject(func(env *let.Env) (any, error) {
		return nil, nil // TODO: build the subject
	}))
{{- end}}

	lettest.Run(t, g, func(ex *let.Example) {
{{- if .Subject}}
		subject, err := ex.Subject()
		require.NoError(t, err)
		require.NotNil(t, subject)
{{- else}}
		_ = ex
{{- end}}
	})
}
`))

// Render produces a spec-file skeleton from data.
func Render(data Data) ([]byte, error) {
	if data.Package == "" {
		return nil, ErrNoPackage
	}

	if data.Description == "" {
		return nil, ErrNoDescription
	}

	var buf bytes.Buffer
	if err := specTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("rendering spec skeleton: %w", err)
	}

	return buf.Bytes(), nil
}

// Filename derives the target test file name from a group description.
func Filename(description string) string {
	var b strings.Builder

	pendingUnderscore := false

	for _, r := range strings.ToLower(description) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingUnderscore && b.Len() > 0 {
				b.WriteByte('_')
			}

			pendingUnderscore = false

			b.WriteRune(r)

			continue
		}

		pendingUnderscore = true
	}

	name := b.String()
	if name == "" {
		name = "spec"
	}

	return name + "_test.go"
}

// testName turns a free-form description into an exported test
// identifier.
func testName(description string) string {
	var b strings.Builder

	upper := true

	for _, r := range description {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			upper = true

			continue
		}

		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}

		b.WriteRune(r)
	}

	name := b.String()

	first, _ := utf8.DecodeRuneInString(name)
	if name == "" || unicode.IsDigit(first) {
		name = "Spec" + name
	}

	return name
}
