package sources

import (
	"bufio"
	"io"
	"os"
	"strings"
)

// ReadEnvFile parses a dotenv-style template file into a flat mapping.
// Lines are KEY=VALUE; "#" comments and blank lines are ignored; optional
// surrounding double quotes on VALUE are stripped. A duplicate key keeps the
// last value seen.
func ReadEnvFile(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseEnv(f)
}

// ParseEnv reads dotenv-format key-value pairs from r.
func ParseEnv(r io.Reader) (map[string]string, error) {
	out := make(map[string]string)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, found := strings.Cut(line, "=")
		if !found {
			continue // not a KEY=VALUE line
		}

		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}

		value = strings.TrimSpace(value)
		if len(value) >= 2 && strings.HasPrefix(value, `"`) && strings.HasSuffix(value, `"`) {
			value = value[1 : len(value)-1]
		}

		out[key] = value
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return out, nil
}
