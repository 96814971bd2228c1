package backend_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/secretenv/secretenv/internal/backend"
)

// mockSecretsManager implements backend.SecretsManagerAPI for tests
type mockSecretsManager struct {
	secrets map[string]string
	err     error
	calls   int
}

func (m *mockSecretsManager) GetSecretValue(_ context.Context, params *secretsmanager.GetSecretValueInput, _ ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	value, ok := m.secrets[aws.ToString(params.SecretId)]
	if !ok {
		return nil, &types.ResourceNotFoundException{}
	}
	return &secretsmanager.GetSecretValueOutput{SecretString: aws.String(value)}, nil
}

func (m *mockSecretsManager) ListSecrets(_ context.Context, _ *secretsmanager.ListSecretsInput, _ ...func(*secretsmanager.Options)) (*secretsmanager.ListSecretsOutput, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &secretsmanager.ListSecretsOutput{}, nil
}

func newSecretsManagerBackend(t *testing.T, mock *mockSecretsManager) *backend.SecretsManagerBackend {
	t.Helper()
	b, err := backend.NewSecretsManagerBackend(context.Background(),
		backend.Options{Region: "us-east-1"},
		backend.WithSecretsManagerClient(mock))
	require.NoError(t, err)
	return b
}

func TestSecretsManagerFetchValue(t *testing.T) {
	t.Parallel()

	mock := &mockSecretsManager{secrets: map[string]string{"db-abc123": "postgres://x"}}
	b := newSecretsManagerBackend(t, mock)

	value, err := b.FetchValue(context.Background(), "db-abc123")
	require.NoError(t, err)
	assert.Equal(t, "postgres://x", value)
	assert.Equal(t, 1, mock.calls)
}

func TestSecretsManagerFetchValueNotFound(t *testing.T) {
	t.Parallel()

	b := newSecretsManagerBackend(t, &mockSecretsManager{secrets: map[string]string{}})

	_, err := b.FetchValue(context.Background(), "missing")
	var notFound backend.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "missing", notFound.ResourceID)
	assert.Equal(t, "aws-secretsmanager", notFound.Backend)
}

func TestSecretsManagerErrorClassification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		err    error
		target any
	}{
		{
			name:   "access_denied_api_code",
			err:    &smithy.GenericAPIError{Code: "AccessDeniedException", Message: "not authorized"},
			target: &backend.AccessDeniedError{},
		},
		{
			name:   "expired_token",
			err:    &smithy.GenericAPIError{Code: "ExpiredTokenException", Message: "token expired"},
			target: &backend.AccessDeniedError{},
		},
		{
			name:   "invalid_request",
			err:    &types.InvalidRequestException{},
			target: &backend.MalformedRequestError{},
		},
		{
			name:   "invalid_parameter",
			err:    &types.InvalidParameterException{},
			target: &backend.MalformedRequestError{},
		},
		{
			name:   "network_failure_is_transient",
			err:    errors.New("dial tcp: connection refused"),
			target: &backend.TransientError{},
		},
		{
			name:   "internal_service_error_is_transient",
			err:    &types.InternalServiceError{},
			target: &backend.TransientError{},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			b := newSecretsManagerBackend(t, &mockSecretsManager{err: tt.err})

			_, err := b.FetchValue(context.Background(), "any")
			require.Error(t, err)
			assert.ErrorAs(t, err, tt.target)
		})
	}
}

func TestSecretsManagerFetchBundle(t *testing.T) {
	t.Parallel()

	mock := &mockSecretsManager{secrets: map[string]string{
		"myapp/secrets": `{"DATABASE_URL":"postgres://x","API_KEY":"k-123"}`,
	}}
	b := newSecretsManagerBackend(t, mock)

	bundle, err := b.FetchBundle(context.Background(), "myapp/secrets")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"DATABASE_URL": "postgres://x",
		"API_KEY":      "k-123",
	}, bundle)
}

func TestSecretsManagerFetchBundleDecodeFailure(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		payload string
	}{
		{name: "not_json", payload: "plain-string-secret"},
		{name: "nested_object", payload: `{"db":{"url":"x"}}`},
		{name: "array", payload: `["a","b"]`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			mock := &mockSecretsManager{secrets: map[string]string{"bundle": tt.payload}}
			b := newSecretsManagerBackend(t, mock)

			_, err := b.FetchBundle(context.Background(), "bundle")
			var decodeErr backend.DecodeError
			require.ErrorAs(t, err, &decodeErr)
			assert.Equal(t, "bundle", decodeErr.Name)
		})
	}
}

func TestSecretsManagerValidate(t *testing.T) {
	t.Parallel()

	b := newSecretsManagerBackend(t, &mockSecretsManager{})
	assert.NoError(t, b.Validate(context.Background()))

	denied := newSecretsManagerBackend(t, &mockSecretsManager{
		err: &smithy.GenericAPIError{Code: "AccessDeniedException", Message: "nope"},
	})
	var accessErr backend.AccessDeniedError
	assert.ErrorAs(t, denied.Validate(context.Background()), &accessErr)
}
