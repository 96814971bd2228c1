package backend

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
)

// SSMAPI defines the Parameter Store operations used by the backend. This
// allows for mocking in tests.
type SSMAPI interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
	DescribeParameters(ctx context.Context, params *ssm.DescribeParametersInput, optFns ...func(*ssm.Options)) (*ssm.DescribeParametersOutput, error)
}

// SSMBackend fetches secrets through AWS Systems Manager Parameter Store,
// including "/aws/reference/secretsmanager/<name>" passthrough parameters.
// It accepts full ARNs as identifiers, so references resolved through this
// backend use the brace-stripping identifier policy.
type SSMBackend struct {
	client SSMAPI
	region string
}

// SSMOption is a functional option for configuring the backend
type SSMOption func(*SSMBackend)

// WithSSMClient sets a custom SSM client (for testing)
func WithSSMClient(client SSMAPI) SSMOption {
	return func(b *SSMBackend) {
		b.client = client
	}
}

// NewSSMBackend creates a Parameter Store backend
func NewSSMBackend(ctx context.Context, o Options, opts ...SSMOption) (*SSMBackend, error) {
	b := &SSMBackend{region: o.Region}

	for _, opt := range opts {
		opt(b)
	}

	if b.client == nil {
		cfg, err := loadAWSConfig(ctx, o)
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}

		var clientOpts []func(*ssm.Options)
		if o.Endpoint != "" {
			clientOpts = append(clientOpts, func(so *ssm.Options) {
				so.BaseEndpoint = aws.String(o.Endpoint)
			})
		}
		b.client = ssm.NewFromConfig(cfg, clientOpts...)
	}

	return b, nil
}

// Name returns the backend identifier
func (b *SSMBackend) Name() string {
	return "aws-ssm"
}

// FetchValue retrieves a parameter's decrypted value
func (b *SSMBackend) FetchValue(ctx context.Context, resourceID string) (string, error) {
	result, err := b.client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(resourceID),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return "", b.classify(err, resourceID)
	}

	if result.Parameter == nil || result.Parameter.Value == nil {
		return "", NotFoundError{Backend: b.Name(), ResourceID: resourceID}
	}
	return *result.Parameter.Value, nil
}

// FetchBundle retrieves a named parameter and decodes its JSON payload into
// a flat string map
func (b *SSMBackend) FetchBundle(ctx context.Context, name string) (map[string]string, error) {
	payload, err := b.FetchValue(ctx, name)
	if err != nil {
		return nil, err
	}
	return decodeBundle(b.Name(), name, payload)
}

// Validate verifies credentials by describing a single parameter
func (b *SSMBackend) Validate(ctx context.Context) error {
	_, err := b.client.DescribeParameters(ctx, &ssm.DescribeParametersInput{
		MaxResults: aws.Int32(1),
	})
	if err != nil {
		return b.classify(err, "")
	}
	return nil
}

// classify converts SSM SDK errors into the backend error taxonomy
func (b *SSMBackend) classify(err error, resourceID string) error {
	var notFound *types.ParameterNotFound
	if errors.As(err, &notFound) {
		return NotFoundError{Backend: b.Name(), ResourceID: resourceID}
	}

	var invalidKey *types.InvalidKeyId
	if errors.As(err, &invalidKey) {
		return MalformedRequestError{Backend: b.Name(), ResourceID: resourceID, Err: err}
	}

	if isAccessDenied(err) {
		return AccessDeniedError{Backend: b.Name(), Message: err.Error()}
	}

	return TransientError{Backend: b.Name(), Err: err}
}
