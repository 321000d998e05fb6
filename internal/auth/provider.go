package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"resty.dev/v3"
)

const googleUserInfoURL = "https://openidconnect.googleapis.com/v1/userinfo"

var ErrNoSubject = errors.New("identity provider returned no subject")

// Provider is the external identity provider the login flow delegates to.
type Provider interface {
	Name() string
	AuthCodeURL(state string) string
	// Subject exchanges an authorization code and returns the provider's stable user id.
	Subject(ctx context.Context, code string) (string, error)
}

type GoogleProvider struct {
	oauth  *oauth2.Config
	client *resty.Client
}

func NewGoogleProvider(clientID, clientSecret, redirectURL string) *GoogleProvider {
	return &GoogleProvider{
		oauth: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"openid", "profile"},
			Endpoint:     google.Endpoint,
		},
		client: resty.New(),
	}
}

func (p *GoogleProvider) Name() string { return "google" }

func (p *GoogleProvider) AuthCodeURL(state string) string {
	return p.oauth.AuthCodeURL(state)
}

func (p *GoogleProvider) Subject(ctx context.Context, code string) (string, error) {
	tok, err := p.oauth.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("exchange code: %w", err)
	}

	type userInfo struct {
		Sub string `json:"sub"`
	}
	res, err := p.client.R().
		WithContext(ctx).
		SetAuthToken(tok.AccessToken).
		SetResult(&userInfo{}).
		Get(googleUserInfoURL)
	if err != nil {
		return "", fmt.Errorf("fetch userinfo: %w", err)
	}
	if res.StatusCode() >= 400 {
		return "", fmt.Errorf("fetch userinfo: status %d", res.StatusCode())
	}
	info := res.Result().(*userInfo)
	if info.Sub == "" {
		return "", ErrNoSubject
	}
	return info.Sub, nil
}

func (p *GoogleProvider) Close() error { return p.client.Close() }
