package reference_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/secretenv/secretenv/internal/reference"
)

const validRef = "${arn:aws:secretsmanager:us-east-1:123456789012:secret:my-secret-abc123}"

func TestIsReference(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value string
		want  bool
	}{
		{name: "valid", value: validRef, want: true},
		{name: "valid_uppercase_tokens", value: "${ARN:AWS:SECRETSMANAGER:us-east-1:123456789012:SECRET:db-abc123}", want: true},
		{name: "name_with_colons", value: "${arn:aws:secretsmanager:us-east-1:123456789012:secret:team:db-abc123}", want: true},
		{name: "empty", value: "", want: false},
		{name: "plain_value", value: "true", want: false},
		{name: "missing_closing_brace", value: "${arn:aws:secretsmanager:us-east-1:123456789012:secret:foo", want: false},
		{name: "missing_wrapper", value: "arn:aws:secretsmanager:us-east-1:123456789012:secret:foo", want: false},
		{name: "non_arn_placeholder", value: "${HOME}", want: false},
		{name: "wrong_service", value: "${arn:aws:ssm:us-east-1:123456789012:secret:foo}", want: false},
		{name: "empty_name", value: "${arn:aws:secretsmanager:us-east-1:123456789012:secret:}", want: false},
		{name: "surrounding_text", value: "prefix ${arn:aws:secretsmanager:us-east-1:123456789012:secret:foo} suffix", want: false},
		{name: "region_with_colon", value: "${arn:aws:secretsmanager:us:east:123456789012:secret:foo}", want: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, reference.IsReference(tt.value))
		})
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	ref, ok := reference.Parse(validRef)
	require.True(t, ok)
	assert.Equal(t, validRef, ref.Raw)
	assert.Equal(t, "us-east-1", ref.Region)
	assert.Equal(t, "123456789012", ref.Account)
}

func TestParseRejectsNonReference(t *testing.T) {
	t.Parallel()

	_, ok := reference.Parse("not-a-reference")
	assert.False(t, ok)

	_, ok = reference.Parse("")
	assert.False(t, ok)
}

func TestARNBraceStripping(t *testing.T) {
	t.Parallel()

	ref, ok := reference.Parse(validRef)
	require.True(t, ok)
	assert.Equal(t, "arn:aws:secretsmanager:us-east-1:123456789012:secret:my-secret-abc123", ref.ARN())
}

func TestSecretNameARNStripping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value string
		want  string
	}{
		{
			name:  "simple_name",
			value: validRef,
			want:  "my-secret-abc123",
		},
		{
			name:  "name_with_colons_preserved",
			value: "${arn:aws:secretsmanager:us-east-1:123456789012:secret:team:db-abc123}",
			want:  "team:db-abc123",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ref, ok := reference.Parse(tt.value)
			require.True(t, ok)
			name, err := ref.SecretName()
			require.NoError(t, err)
			assert.Equal(t, tt.want, name)
		})
	}
}

func TestSecretNameCasePreserved(t *testing.T) {
	t.Parallel()

	ref, ok := reference.Parse("${ARN:AWS:SECRETSMANAGER:US-East-1:123456789012:SECRET:MySecret-AbCdEf}")
	require.True(t, ok)
	name, err := ref.SecretName()
	require.NoError(t, err)
	assert.Equal(t, "MySecret-AbCdEf", name)
	assert.Equal(t, "US-East-1", ref.Region)
}
