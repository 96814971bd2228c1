package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager/types"
	"github.com/aws/smithy-go"
)

// SecretsManagerAPI defines the Secrets Manager operations used by the
// backend. This allows for mocking in tests.
type SecretsManagerAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
	ListSecrets(ctx context.Context, params *secretsmanager.ListSecretsInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.ListSecretsOutput, error)
}

// SecretsManagerBackend fetches secrets from AWS Secrets Manager, addressed
// by friendly name. References resolved through this backend use the
// ARN-stripping identifier policy.
type SecretsManagerBackend struct {
	client SecretsManagerAPI
	region string
}

// SecretsManagerOption is a functional option for configuring the backend
type SecretsManagerOption func(*SecretsManagerBackend)

// WithSecretsManagerClient sets a custom Secrets Manager client (for testing)
func WithSecretsManagerClient(client SecretsManagerAPI) SecretsManagerOption {
	return func(b *SecretsManagerBackend) {
		b.client = client
	}
}

// NewSecretsManagerBackend creates a Secrets Manager backend. Credentials
// are resolved once here: explicit static credentials win, then the
// environment, then the provider default chain.
func NewSecretsManagerBackend(ctx context.Context, o Options, opts ...SecretsManagerOption) (*SecretsManagerBackend, error) {
	b := &SecretsManagerBackend{region: o.Region}

	for _, opt := range opts {
		opt(b)
	}

	if b.client == nil {
		cfg, err := loadAWSConfig(ctx, o)
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}

		var clientOpts []func(*secretsmanager.Options)
		if o.Endpoint != "" {
			clientOpts = append(clientOpts, func(so *secretsmanager.Options) {
				so.BaseEndpoint = aws.String(o.Endpoint)
			})
		}
		b.client = secretsmanager.NewFromConfig(cfg, clientOpts...)
	}

	return b, nil
}

// Name returns the backend identifier
func (b *SecretsManagerBackend) Name() string {
	return "aws-secretsmanager"
}

// FetchValue retrieves a secret's plaintext value by name or ARN
func (b *SecretsManagerBackend) FetchValue(ctx context.Context, resourceID string) (string, error) {
	result, err := b.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(resourceID),
	})
	if err != nil {
		return "", b.classify(err, resourceID)
	}

	if result.SecretString != nil {
		return *result.SecretString, nil
	}
	if result.SecretBinary != nil {
		return string(result.SecretBinary), nil
	}
	return "", NotFoundError{Backend: b.Name(), ResourceID: resourceID}
}

// FetchBundle retrieves a named secret and decodes its JSON payload into a
// flat string map
func (b *SecretsManagerBackend) FetchBundle(ctx context.Context, name string) (map[string]string, error) {
	payload, err := b.FetchValue(ctx, name)
	if err != nil {
		return nil, err
	}
	return decodeBundle(b.Name(), name, payload)
}

// Validate verifies credentials by listing a single secret
func (b *SecretsManagerBackend) Validate(ctx context.Context) error {
	_, err := b.client.ListSecrets(ctx, &secretsmanager.ListSecretsInput{
		MaxResults: aws.Int32(1),
	})
	if err != nil {
		return b.classify(err, "")
	}
	return nil
}

// classify converts AWS SDK errors into the backend error taxonomy
func (b *SecretsManagerBackend) classify(err error, resourceID string) error {
	var notFound *types.ResourceNotFoundException
	if errors.As(err, &notFound) {
		return NotFoundError{Backend: b.Name(), ResourceID: resourceID}
	}

	var invalidParam *types.InvalidParameterException
	if errors.As(err, &invalidParam) {
		return MalformedRequestError{Backend: b.Name(), ResourceID: resourceID, Err: err}
	}
	var invalidReq *types.InvalidRequestException
	if errors.As(err, &invalidReq) {
		return MalformedRequestError{Backend: b.Name(), ResourceID: resourceID, Err: err}
	}

	if isAccessDenied(err) {
		return AccessDeniedError{Backend: b.Name(), Message: err.Error()}
	}

	return TransientError{Backend: b.Name(), Err: err}
}

// isAccessDenied checks for authentication/authorization failures across the
// AWS service error codes
func isAccessDenied(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "AccessDeniedException", "AccessDenied", "UnauthorizedOperation", "UnrecognizedClientException", "ExpiredTokenException":
			return true
		}
	}
	errStr := err.Error()
	return strings.Contains(errStr, "AccessDenied") ||
		strings.Contains(errStr, "UnauthorizedOperation") ||
		strings.Contains(errStr, "Forbidden")
}

// decodeBundle parses a secret payload that is expected to be a flat JSON
// string-to-string object
func decodeBundle(backendName, secretName, payload string) (map[string]string, error) {
	var bundle map[string]string
	if err := json.Unmarshal([]byte(payload), &bundle); err != nil {
		return nil, DecodeError{Backend: backendName, Name: secretName, Err: err}
	}
	return bundle, nil
}

// loadAWSConfig resolves the AWS configuration layered per the backend
// contract: explicit credentials > environment > provider default chain.
func loadAWSConfig(ctx context.Context, o Options) (aws.Config, error) {
	var configOpts []func(*awsconfig.LoadOptions) error
	if o.Region != "" {
		configOpts = append(configOpts, awsconfig.WithRegion(o.Region))
	}
	if o.AccessKeyID != "" && o.SecretAccessKey != "" {
		configOpts = append(configOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(o.AccessKeyID, o.SecretAccessKey, ""),
		))
	}
	return awsconfig.LoadDefaultConfig(ctx, configOpts...)
}
