// Package templates provides the starter files pulley init writes.
package templates

import (
	"bytes"
	_ "embed"
	"os"
	"path/filepath"
	"text/template"
)

//go:embed config.yaml.tmpl
var configTemplate string

// ConfigData carries the values rendered into the starter configuration
type ConfigData struct {
	AppName      string
	Interpreter  string
	Venv         string
	Requirements string
	Remote       string
	Branch       string
}

// WriteInitialConfig renders the commented starter configuration to
// path, creating parent directories as needed. The rendered file must
// still pass schema validation; callers load it back to confirm.
func WriteInitialConfig(path string, data ConfigData) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	tmpl, err := template.New("config").Parse(configTemplate)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return err
	}

	return os.WriteFile(path, buf.Bytes(), 0o644)
}
