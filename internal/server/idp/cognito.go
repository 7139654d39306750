package idp

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/dmitrijs2005/userdir/internal/server/models"
)

// roleAttribute is the custom user-pool attribute carrying the role; it is
// what later shows up as the custom:role token claim.
const roleAttribute = "custom:role"

// CognitoAPI is the subset of the Cognito identity-provider client used here.
type CognitoAPI interface {
	AdminCreateUser(ctx context.Context, params *cognitoidentityprovider.AdminCreateUserInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.AdminCreateUserOutput, error)
	AdminSetUserPassword(ctx context.Context, params *cognitoidentityprovider.AdminSetUserPasswordInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.AdminSetUserPasswordOutput, error)
	AdminDeleteUser(ctx context.Context, params *cognitoidentityprovider.AdminDeleteUserInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.AdminDeleteUserOutput, error)
}

type CognitoProvider struct {
	client     CognitoAPI
	userPoolID string
}

func NewCognitoProvider(client CognitoAPI, userPoolID string) *CognitoProvider {
	return &CognitoProvider{client: client, userPoolID: userPoolID}
}

// CreateAccount provisions a user-pool account with a permanent password,
// suppressing the welcome message (no temporary-password flow).
func (p *CognitoProvider) CreateAccount(ctx context.Context, username string, role models.Role, password string) error {
	_, err := p.client.AdminCreateUser(ctx, &cognitoidentityprovider.AdminCreateUserInput{
		UserPoolId:        aws.String(p.userPoolID),
		Username:          aws.String(username),
		TemporaryPassword: aws.String(password),
		MessageAction:     types.MessageActionTypeSuppress,
		UserAttributes: []types.AttributeType{
			{Name: aws.String(roleAttribute), Value: aws.String(role.String())},
		},
	})
	if err != nil {
		var exists *types.UsernameExistsException
		if errors.As(err, &exists) {
			return fmt.Errorf("username already exists in user pool: %s", username)
		}
		return fmt.Errorf("cognito create error: %w", err)
	}

	_, err = p.client.AdminSetUserPassword(ctx, &cognitoidentityprovider.AdminSetUserPasswordInput{
		UserPoolId: aws.String(p.userPoolID),
		Username:   aws.String(username),
		Password:   aws.String(password),
		Permanent:  true,
	})
	if err != nil {
		return fmt.Errorf("cognito set password error: %w", err)
	}
	return nil
}

// DeleteAccount removes the user-pool account. A missing account is treated
// as success so retries stay idempotent.
func (p *CognitoProvider) DeleteAccount(ctx context.Context, username string) error {
	_, err := p.client.AdminDeleteUser(ctx, &cognitoidentityprovider.AdminDeleteUserInput{
		UserPoolId: aws.String(p.userPoolID),
		Username:   aws.String(username),
	})
	if err != nil {
		var notFound *types.UserNotFoundException
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("cognito delete error: %w", err)
	}
	return nil
}
