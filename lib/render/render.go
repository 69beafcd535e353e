// Copyright 2026 The Entrypoint Authors
// SPDX-License-Identifier: Apache-2.0

package render

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/jira-docker/entrypoint/lib/environ"
	"github.com/jira-docker/entrypoint/lib/fault"
	"github.com/jira-docker/entrypoint/templates"
)

// TemplateSuffix is stripped from a template name to find the output
// file name whose extension selects the escaping strategy.
const TemplateSuffix = ".tmpl"

// Renderer renders a named template against a Context.
type Renderer interface {
	Render(name string, context environ.Context) (string, error)
}

// Func adapts a function to [Renderer].
type Func func(name string, context environ.Context) (string, error)

// Render calls f.
func (f Func) Render(name string, context environ.Context) (string, error) {
	return f(name, context)
}

// Format is an output format with its own escaping strategy.
type Format string

const (
	// FormatXML escapes every value for use in element text and
	// attribute values.
	FormatXML Format = "xml"

	// FormatPlain passes values through unchanged.
	FormatPlain Format = "plain"
)

// FormatOf returns the output format of the template name:
// "server.xml.tmpl" is XML, "cluster.properties.tmpl" is plain.
func FormatOf(name string) Format {
	output := strings.TrimSuffix(path.Base(name), TemplateSuffix)
	if strings.EqualFold(path.Ext(output), ".xml") {
		return FormatXML
	}
	return FormatPlain
}

// FSRenderer loads templates from a single fs.FS root.
type FSRenderer struct {
	root fs.FS
}

// NewFSRenderer returns a renderer resolving template names in root.
func NewFSRenderer(root fs.FS) *FSRenderer {
	return &FSRenderer{root: root}
}

// Render parses the template called name and executes it against
// context, escaping values according to [FormatOf](name).
func (r *FSRenderer) Render(name string, context environ.Context) (string, error) {
	source, err := fs.ReadFile(r.root, name)
	if errors.Is(err, fs.ErrNotExist) {
		return "", fault.Newf(fault.TemplateError, "template %q not found", name)
	}
	if err != nil {
		return "", fault.New(fault.TemplateError, fmt.Errorf("reading template %q: %w", name, err))
	}

	parsed, err := template.New(name).
		Option("missingkey=error").
		Funcs(funcs()).
		Parse(string(source))
	if err != nil {
		return "", fault.New(fault.TemplateError, fmt.Errorf("parsing template %q: %w", name, err))
	}

	var buffer bytes.Buffer
	if err := parsed.Execute(&buffer, templateData(context, FormatOf(name))); err != nil {
		return "", fault.New(fault.TemplateError, fmt.Errorf("executing template %q: %w", name, err))
	}
	return buffer.String(), nil
}

// funcs is sprig's function map plus getOr.
func funcs() template.FuncMap {
	functions := sprig.TxtFuncMap()
	functions["getOr"] = getOr
	return functions
}

// getOr returns data[key] when key is set, even to the empty string,
// and fallback only when key is absent. sprig's default treats empty
// as unset, which would replace a value the operator set to "".
func getOr(data map[string]any, key string, fallback any) any {
	if value, ok := data[key]; ok {
		return value
	}
	return fallback
}

// templateData converts context to the map the templates see. The
// value type is any so sprig's map helpers (get, hasKey, pick) apply.
func templateData(context environ.Context, format Format) map[string]any {
	entries := context.Map()
	data := make(map[string]any, len(entries))
	for key, value := range entries {
		if format == FormatXML {
			value = escapeXML(value)
		}
		data[key] = value
	}
	return data
}

func escapeXML(value string) string {
	var buffer strings.Builder
	// EscapeText only fails when the writer does.
	_ = xml.EscapeText(&buffer, []byte(value))
	return buffer.String()
}

// OpenTemplates returns the template root for dir. When dir exists it
// is the root, and a template missing from it is an error at render
// time. When dir does not exist at all the embedded default templates
// are returned and embedded is true.
func OpenTemplates(dir string) (root fs.FS, embedded bool, err error) {
	info, err := os.Stat(dir)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return templates.FS, true, nil
	case err != nil:
		return nil, false, fault.New(fault.FilesystemError, fmt.Errorf("opening templates directory: %w", err))
	case !info.IsDir():
		return nil, false, fault.Newf(fault.FilesystemError, "templates path %s is not a directory", dir)
	}
	return os.DirFS(dir), false, nil
}
