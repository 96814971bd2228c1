// Package sources reads the external configuration formats that may carry
// secret references: a devcontainer descriptor and a dotenv-style template.
package sources

import (
	"encoding/json"
	"fmt"
	"os"
)

// Devcontainer holds the environment-bearing sections of a devcontainer
// descriptor. Each section is scanned for secret references independently.
type Devcontainer struct {
	ContainerEnv map[string]string
	BuildArgs    map[string]string
	RemoteEnv    map[string]string
}

// Flatten merges the sections into one mapping. Sections are applied in
// descriptor order (containerEnv, build.args, remoteEnv); a later section
// wins on key collision.
func (d Devcontainer) Flatten() map[string]string {
	out := make(map[string]string, len(d.ContainerEnv)+len(d.BuildArgs)+len(d.RemoteEnv))
	for k, v := range d.ContainerEnv {
		out[k] = v
	}
	for k, v := range d.BuildArgs {
		out[k] = v
	}
	for k, v := range d.RemoteEnv {
		out[k] = v
	}
	return out
}

type devcontainerFile struct {
	ContainerEnv map[string]string `json:"containerEnv"`
	RemoteEnv    map[string]string `json:"remoteEnv"`
	Build        struct {
		Args map[string]string `json:"args"`
	} `json:"build"`
}

// ReadDevcontainer parses a devcontainer.json file. The format is JSONC in
// the wild, so line and block comments are stripped before decoding.
func ReadDevcontainer(path string) (Devcontainer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Devcontainer{}, err
	}

	var file devcontainerFile
	if err := json.Unmarshal(stripJSONComments(data), &file); err != nil {
		return Devcontainer{}, fmt.Errorf("invalid devcontainer JSON in %s: %w", path, err)
	}

	return Devcontainer{
		ContainerEnv: file.ContainerEnv,
		BuildArgs:    file.Build.Args,
		RemoteEnv:    file.RemoteEnv,
	}, nil
}

// stripJSONComments removes // and /* */ comments while respecting string
// literals. Comment bytes are replaced with spaces so decode error offsets
// stay meaningful.
func stripJSONComments(data []byte) []byte {
	out := make([]byte, len(data))
	copy(out, data)

	const (
		codeState = iota
		stringState
		lineComment
		blockComment
	)

	state := codeState
	for i := 0; i < len(out); i++ {
		c := out[i]
		switch state {
		case codeState:
			switch {
			case c == '"':
				state = stringState
			case c == '/' && i+1 < len(out) && out[i+1] == '/':
				state = lineComment
				out[i] = ' '
			case c == '/' && i+1 < len(out) && out[i+1] == '*':
				state = blockComment
				out[i] = ' '
			}
		case stringState:
			if c == '\\' {
				i++ // skip escaped character
			} else if c == '"' {
				state = codeState
			}
		case lineComment:
			if c == '\n' {
				state = codeState
			} else {
				out[i] = ' '
			}
		case blockComment:
			if c == '*' && i+1 < len(out) && out[i+1] == '/' {
				out[i] = ' '
				out[i+1] = ' '
				i++
				state = codeState
			} else if c != '\n' {
				out[i] = ' '
			}
		}
	}

	return out
}
