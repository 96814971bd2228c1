package backend

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// STSAPI defines the STS operations used for connectivity checks. This
// allows for mocking in tests.
type STSAPI interface {
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

// Identity describes the AWS principal the tool is running as.
type Identity struct {
	Account string
	ARN     string
	UserID  string
}

// IdentityChecker resolves the current AWS caller identity. Used by the
// doctor command to verify credentials before any secret is fetched.
type IdentityChecker struct {
	client STSAPI
}

// NewIdentityChecker creates an identity checker against the real STS
// service
func NewIdentityChecker(ctx context.Context, o Options) (*IdentityChecker, error) {
	cfg, err := loadAWSConfig(ctx, o)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return &IdentityChecker{client: sts.NewFromConfig(cfg)}, nil
}

// NewIdentityCheckerWithClient creates an identity checker with a custom
// client (for testing)
func NewIdentityCheckerWithClient(client STSAPI) *IdentityChecker {
	return &IdentityChecker{client: client}
}

// WhoAmI returns the caller identity
func (c *IdentityChecker) WhoAmI(ctx context.Context) (Identity, error) {
	out, err := c.client.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		if isAccessDenied(err) {
			return Identity{}, AccessDeniedError{Backend: "aws-sts", Message: err.Error()}
		}
		return Identity{}, TransientError{Backend: "aws-sts", Err: err}
	}

	id := Identity{}
	if out.Account != nil {
		id.Account = *out.Account
	}
	if out.Arn != nil {
		id.ARN = *out.Arn
	}
	if out.UserId != nil {
		id.UserID = *out.UserId
	}
	return id, nil
}
