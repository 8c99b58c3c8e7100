package grpc

import (
	"context"
	"errors"

	userpb "messaging-service/pb/user"
)

// UserDirectory is the slice of the user service the sync core needs:
// display names for tray titles and list decoration, roles for the
// recipient policy.
type UserDirectory interface {
	DisplayName(ctx context.Context, userID int) (string, error)
	DisplayNames(ctx context.Context, ids []int) (map[int]string, error)
	Role(ctx context.Context, userID int) (string, error)
}

// UserClient wraps the user-service gRPC client.
type UserClient struct {
	client userpb.UserInternalClient
}

// NewUserClient constructs the wrapper.
func NewUserClient(client userpb.UserInternalClient) *UserClient {
	return &UserClient{client: client}
}

// GetUser retrieves user details.
func (u *UserClient) GetUser(ctx context.Context, userID int) (*userpb.GetUserResponse, error) {
	resp, err := u.client.GetUser(ctx, &userpb.GetUserRequest{UserId: int64(userID)})
	if err != nil {
		return nil, err
	}
	if resp == nil || resp.GetId() == 0 {
		return nil, errors.New("user not found")
	}
	return resp, nil
}

// BulkUsers fetches multiple users in one call.
func (u *UserClient) BulkUsers(ctx context.Context, ids []int) ([]*userpb.GetUserResponse, error) {
	if len(ids) == 0 {
		return []*userpb.GetUserResponse{}, nil
	}
	id64s := make([]int64, 0, len(ids))
	for _, id := range ids {
		id64s = append(id64s, int64(id))
	}

	resp, err := u.client.BulkUsers(ctx, &userpb.BulkUsersRequest{Ids: id64s})
	if err != nil {
		return nil, err
	}
	return resp.GetUsers(), nil
}

// DisplayName resolves the name shown on tray windows for a user, falling
// back to the username when no display name is set.
func (u *UserClient) DisplayName(ctx context.Context, userID int) (string, error) {
	resp, err := u.GetUser(ctx, userID)
	if err != nil {
		return "", err
	}
	if name := resp.GetDisplayName(); name != "" {
		return name, nil
	}
	return resp.GetUsername(), nil
}

// DisplayNames resolves display names for a batch of user ids. Unknown
// ids are simply absent from the result.
func (u *UserClient) DisplayNames(ctx context.Context, ids []int) (map[int]string, error) {
	users, err := u.BulkUsers(ctx, ids)
	if err != nil {
		return nil, err
	}
	names := make(map[int]string, len(users))
	for _, usr := range users {
		name := usr.GetDisplayName()
		if name == "" {
			name = usr.GetUsername()
		}
		names[int(usr.GetId())] = name
	}
	return names, nil
}

// Role returns the role of a user as known by the user service.
func (u *UserClient) Role(ctx context.Context, userID int) (string, error) {
	resp, err := u.GetUser(ctx, userID)
	if err != nil {
		return "", err
	}
	return resp.GetRole(), nil
}
