package ports

import "context"

// AuthService gates the admin API behind one shared password.
type AuthService interface {
	Login(ctx context.Context, password string) (token string, err error)
	ValidateToken(ctx context.Context, token string) bool
}
