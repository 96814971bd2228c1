// Package render writes merged secret sets to files in dotenv, JSON or YAML
// form.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format selects the output file format.
type Format string

const (
	FormatDotenv Format = "dotenv"
	FormatJSON   Format = "json"
	FormatYAML   Format = "yaml"
)

// ParseFormat validates a format string
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatDotenv:
		return FormatDotenv, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML:
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown output format %q (supported: dotenv, json, yaml)", s)
	}
}

// Dotenv renders the mapping in .env format: one KEY=VALUE line per key,
// keys uppercased and sorted. A value containing a space is wrapped in
// double quotes. That heuristic is deliberately minimal, not full shell
// escaping; values with embedded quotes are written as-is.
func Dotenv(vars map[string]string) []byte {
	var buf bytes.Buffer
	buf.WriteString("# Generated by secretenv. Do not commit this file.\n")

	for _, key := range sortedKeys(vars) {
		value := vars[key]
		if strings.Contains(value, " ") {
			fmt.Fprintf(&buf, "%s=\"%s\"\n", strings.ToUpper(key), value)
		} else {
			fmt.Fprintf(&buf, "%s=%s\n", strings.ToUpper(key), value)
		}
	}

	return buf.Bytes()
}

// Render produces the file content for the given format
func Render(vars map[string]string, format Format) ([]byte, error) {
	switch format {
	case FormatDotenv:
		return Dotenv(vars), nil
	case FormatJSON:
		upper := uppercaseKeys(vars)
		data, err := json.MarshalIndent(upper, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal JSON output: %w", err)
		}
		return append(data, '\n'), nil
	case FormatYAML:
		data, err := yaml.Marshal(uppercaseKeys(vars))
		if err != nil {
			return nil, fmt.Errorf("failed to marshal YAML output: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

// WriteFile renders the mapping and overwrites path. The file is written
// owner read/write only; no atomic-replace guarantee is made.
func WriteFile(path string, vars map[string]string, format Format) error {
	data, err := Render(vars, format)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func sortedKeys(vars map[string]string) []string {
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func uppercaseKeys(vars map[string]string) map[string]string {
	out := make(map[string]string, len(vars))
	for k, v := range vars {
		out[strings.ToUpper(k)] = v
	}
	return out
}
