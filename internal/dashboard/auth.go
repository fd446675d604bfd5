package dashboard

import (
	"context"
	"errors"
)

// ErrNoCredentials means neither an API key nor a username/password pair
// was configured.
var ErrNoCredentials = errors.New("no dashboard credentials configured")

// Credentials are the ways a caller can authenticate.
type Credentials struct {
	APIKey   string
	Username string
	Password string
}

// Token returns a bearer token: the API key when set, otherwise one obtained
// by logging in.
func (c *Client) Token(ctx context.Context, creds Credentials) (string, error) {
	if creds.APIKey != "" {
		return creds.APIKey, nil
	}
	if creds.Username == "" || creds.Password == "" {
		return "", ErrNoCredentials
	}
	return c.Login(ctx, creds.Username, creds.Password)
}
