package grpc

import (
	"context"
	"errors"

	authpb "messaging-service/pb/auth"
)

// AuthClient wraps the auth-service gRPC client.
type AuthClient struct {
	client authpb.AuthServiceClient
}

// NewAuthClient constructs the wrapper.
func NewAuthClient(client authpb.AuthServiceClient) *AuthClient {
	return &AuthClient{client: client}
}

// ValidateToken verifies the JWT and returns the authenticated user id and
// role. The role feeds the messaging policy and the purge capability gate.
func (a *AuthClient) ValidateToken(ctx context.Context, token string) (int, string, error) {
	resp, err := a.client.ValidateToken(ctx, &authpb.ValidateTokenRequest{Token: token})
	if err != nil {
		return 0, "", err
	}
	if !resp.Valid || resp.UserId == 0 {
		return 0, "", errors.New("invalid token")
	}
	return int(resp.UserId), resp.Role, nil
}
