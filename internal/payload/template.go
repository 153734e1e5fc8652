// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package payload

import (
	_ "embed"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"
	"text/template"

	"github.com/aibor/anactest/internal/definition"
)

const templateName = "suite.py"

//go:embed suite.py.tmpl
var defaultTemplate string

// SuiteData is the data the suite entry point template is rendered with.
type SuiteData struct {
	// Environ is a statement that adds the definition's environment
	// variables to the environment of the tests.
	Environ string

	// Imports are statements importing the test case classes.
	Imports []string

	// AddTests are statements adding the test cases to the suite in order.
	AddTests []string

	// AnacondaArgs are additional installer arguments.
	AnacondaArgs string
}

// NewSuiteData creates the [SuiteData] for the given definition.
func NewSuiteData(def definition.Definition, anacondaArgs string) SuiteData {
	data := SuiteData{
		Environ:      environStatement(def.Environ),
		Imports:      make([]string, 0, len(def.Tests)),
		AddTests:     make([]string, 0, len(def.Tests)),
		AnacondaArgs: anacondaArgs,
	}

	for _, test := range def.Tests {
		data.Imports = append(data.Imports,
			"    from inside."+test.Module+" import "+test.Class)
		data.AddTests = append(data.AddTests,
			"    s.addTest("+test.Class+"())")
	}

	return data
}

func environStatement(environ map[string]string) string {
	items := make([]string, 0, len(environ))

	for _, key := range slices.Sorted(maps.Keys(environ)) {
		items = append(items,
			strconv.Quote(key)+": "+strconv.Quote(environ[key]))
	}

	return "    os.environ.update({" + strings.Join(items, ", ") + "})"
}

// LoadTemplate parses the template file at path. If path is empty, the
// built-in template is used.
func LoadTemplate(path string) (*template.Template, error) {
	text := defaultTemplate

	if path != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read template: %w", err)
		}

		text = string(content)
	}

	tmpl, err := template.New(templateName).
		Option("missingkey=error").
		Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse template: %w", err)
	}

	return tmpl, nil
}

// Render writes the suite entry point for the given data.
func Render(w io.Writer, tmpl *template.Template, data SuiteData) error {
	err := tmpl.Execute(w, data)
	if err != nil {
		return fmt.Errorf("render %s: %w", tmpl.Name(), err)
	}

	return nil
}
