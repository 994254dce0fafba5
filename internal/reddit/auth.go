package reddit

import (
	"context"
	"strings"

	"golang.org/x/oauth2"

	"mentionscli/internal/config"
	apperrors "mentionscli/internal/errors"
)

type meResponse struct {
	Name string `json:"name"`
}

// Authenticate exchanges the script-app credentials for a bearer token using
// the password grant, then confirms the token belongs to creds.Username.
// Subsequent requests carry the token.
func (c *Client) Authenticate(ctx context.Context, creds *config.RedditCredentials) error {
	if creds == nil {
		return apperrors.NewAuthError("no credentials supplied", nil)
	}
	if c.userAgent == "" {
		c.userAgent = creds.UserAgent
	}

	conf := &oauth2.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		Endpoint: oauth2.Endpoint{
			TokenURL:  c.tokenURL,
			AuthStyle: oauth2.AuthStyleInHeader,
		},
		Scopes: []string{"read", "identity"},
	}

	base := withUserAgent(c.httpClient, c.userAgent)
	ctx = context.WithValue(ctx, oauth2.HTTPClient, base)

	token, err := conf.PasswordCredentialsToken(ctx, creds.Username, creds.Password)
	if err != nil {
		return apperrors.NewAuthError("token exchange failed", err).
			WithContext("profile", creds.Profile).
			WithContext("username", creds.Username)
	}

	c.httpClient = conf.Client(ctx, token)

	name, err := c.Me(ctx)
	if err != nil {
		return apperrors.NewAuthError("identity check failed", err).WithContext("username", creds.Username)
	}
	if !strings.EqualFold(name, creds.Username) {
		return apperrors.NewAuthError("token belongs to a different account", nil).
			WithContext("expected", creds.Username).
			WithContext("actual", name)
	}

	c.authenticated = true
	c.logger.Info("Authenticated with reddit",
		"profile", creds.Profile,
		"username", name,
		"read_only", true)

	return nil
}

// Me returns the name of the authenticated account
func (c *Client) Me(ctx context.Context) (string, error) {
	var me meResponse
	if err := c.get(ctx, "/api/v1/me", nil, &me); err != nil {
		return "", err
	}
	return me.Name, nil
}
