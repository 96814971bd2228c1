// Package reference recognizes AWS Secrets Manager placeholder references
// embedded in configuration values.
//
// A reference is a string of the exact form
//
//	${arn:aws:secretsmanager:<region>:<account>:secret:<name>}
//
// The literal tokens (arn, aws, secretsmanager, secret) match
// case-insensitively; region, account and name are case-preserving. The
// pattern must span the entire string, so values that merely contain a
// placeholder are not references.
package reference

import (
	"fmt"
	"regexp"
	"strings"
)

// pattern anchors the whole string. Region and account carry no colons, the
// secret name carries no closing brace (it may carry colons).
var pattern = regexp.MustCompile(`^\$\{((?i:arn:aws:secretsmanager):([^:]*):([^:]*):(?i:secret):[^}]+)\}$`)

// Reference is a detected placeholder inside a configuration value.
type Reference struct {
	// Raw is the original string as it appeared in the source, braces included.
	Raw string

	// Region and Account are the ARN segments, case-preserved.
	Region  string
	Account string

	arn string // content between ${ and }
}

// IsReference reports whether s is a secret reference. It is total: empty
// strings, near-misses and malformed input all return false.
func IsReference(s string) bool {
	return pattern.MatchString(s)
}

// Parse evaluates s against the reference grammar. The second return value
// is false when s is not a reference.
func Parse(s string) (Reference, bool) {
	m := pattern.FindStringSubmatch(s)
	if m == nil {
		return Reference{}, false
	}
	return Reference{
		Raw:     s,
		Region:  m[2],
		Account: m[3],
		arn:     m[1],
	}, true
}

// ARN returns the resource identifier under the brace-stripping policy: the
// content between "${" and the final "}". Used on resolution paths whose
// backend accepts a full ARN directly (the SSM path).
func (r Reference) ARN() string {
	return r.arn
}

// SecretName returns the resource identifier under the ARN-stripping policy:
// the ARN is split on ":" and everything from segment index 6 onward is
// rejoined. This keeps a trailing ":suffix" intact when the secret name
// itself contains colons. Used on resolution paths that address the backend
// by friendly name (the Secrets Manager path).
func (r Reference) SecretName() (string, error) {
	segments := strings.Split(r.arn, ":")
	if len(segments) < 7 {
		return "", fmt.Errorf("malformed secret ARN %q: expected at least 7 colon-delimited segments, got %d", r.arn, len(segments))
	}
	return strings.Join(segments[6:], ":"), nil
}
