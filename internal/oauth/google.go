package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"

	"blog-api/internal/config"
)

var (
	ErrExchangeFailed = errors.New("oauth code exchange failed")
	ErrUserInfoFailed = errors.New("oauth user info request failed")
)

// UserInfo is the subset of the provider's userinfo payload this service uses.
type UserInfo struct {
	Sub     string `json:"sub"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// GoogleProvider exchanges authorization codes with Google and resolves the
// end user's profile. Endpoints are configurable so tests can point it at a
// local server.
type GoogleProvider struct {
	oauth2Config *oauth2.Config
	userInfoURL  string
}

func NewGoogleProvider(cfg *config.Config) *GoogleProvider {
	return &GoogleProvider{
		oauth2Config: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Scopes:       []string{"email", "profile"},
			Endpoint: oauth2.Endpoint{
				AuthURL:  cfg.GoogleAuthURL,
				TokenURL: cfg.GoogleTokenURL,
			},
		},
		userInfoURL: cfg.GoogleUserInfoURL,
	}
}

// AuthCodeURL builds the provider authorization URL the browser is sent to.
// Consent is forced so a refresh token is granted on every login.
func (p *GoogleProvider) AuthCodeURL(state string) string {
	return p.oauth2Config.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)
}

// Authenticate exchanges the authorization code for an access token and
// fetches the provider's userinfo endpoint with it. Codes are single-use;
// nothing here is retried or persisted.
func (p *GoogleProvider) Authenticate(ctx context.Context, code string) (*UserInfo, error) {
	providerToken, err := p.oauth2Config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExchangeFailed, err)
	}

	client := p.oauth2Config.Client(ctx, providerToken)

	resp, err := client.Get(p.userInfoURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUserInfoFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrUserInfoFailed, resp.StatusCode)
	}

	var info UserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUserInfoFailed, err)
	}

	if info.Email == "" {
		return nil, fmt.Errorf("%w: missing email in response", ErrUserInfoFailed)
	}

	return &info, nil
}
