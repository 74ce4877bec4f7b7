package autofill

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"

	"github.com/wefitness/signup/pkg/logger"
)

// DefaultInstagramProfileURL returns the signed-in user's id and username.
const DefaultInstagramProfileURL = "https://graph.instagram.com/me?fields=id,username"

// Instagram resolves the name through Instagram's OAuth redirect: the
// callback carries either an access token or a code to exchange for one, and
// the token is used once against the profile endpoint.
type Instagram struct {
	config     *oauth2.Config
	states     *StateSigner
	profileURL string
}

// InstagramOption customizes the provider.
type InstagramOption func(*Instagram)

// WithEndpoint overrides the authorize and token URLs.
func WithEndpoint(e oauth2.Endpoint) InstagramOption {
	return func(i *Instagram) { i.config.Endpoint = e }
}

// WithProfileURL overrides the profile endpoint.
func WithProfileURL(u string) InstagramOption {
	return func(i *Instagram) { i.profileURL = u }
}

func NewInstagram(clientID, clientSecret, redirectURL string, states *StateSigner, opts ...InstagramOption) *Instagram {
	i := &Instagram{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"user_profile"},
			Endpoint:     endpoints.Instagram,
		},
		states:     states,
		profileURL: DefaultInstagramProfileURL,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

func (i *Instagram) Name() string { return "instagram" }

// AuthCodeURL starts the redirect flow for the given wizard session.
func (i *Instagram) AuthCodeURL(sessionID string) (string, error) {
	state, err := i.states.Sign(sessionID)
	if err != nil {
		return "", &Error{Provider: i.Name(), Message: "could not start Instagram sign-in", Err: err}
	}
	return i.config.AuthCodeURL(state), nil
}

// Resolve handles the provider's redirect back to us.
func (i *Instagram) Resolve(ctx context.Context, r *http.Request) (Candidate, error) {
	q := r.URL.Query()

	sessionID, err := i.states.Verify(q.Get("state"))
	if err != nil {
		return Candidate{}, &Error{Provider: i.Name(), Message: "the sign-in link has expired, please try again", Err: err}
	}
	if reason := q.Get("error"); reason != "" {
		return Candidate{SessionID: sessionID}, &Error{Provider: i.Name(),
			Message: "Instagram sign-in was not completed", Err: fmt.Errorf("%s: %s", reason, q.Get("error_description"))}
	}

	token, err := i.token(ctx, q.Get("access_token"), q.Get("code"))
	if err != nil {
		return Candidate{SessionID: sessionID}, err
	}

	name, err := i.username(ctx, token)
	if err != nil {
		return Candidate{SessionID: sessionID}, err
	}
	return Candidate{Name: name, SessionID: sessionID}, nil
}

func (i *Instagram) token(ctx context.Context, accessToken, code string) (*oauth2.Token, error) {
	if accessToken != "" {
		return &oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"}, nil
	}
	if code == "" {
		return nil, &Error{Provider: i.Name(), Message: "Instagram did not return an access token"}
	}
	token, err := i.config.Exchange(ctx, code)
	if err != nil {
		return nil, &Error{Provider: i.Name(), Message: "could not confirm your Instagram sign-in", Err: err}
	}
	return token, nil
}

func (i *Instagram) username(ctx context.Context, token *oauth2.Token) (string, error) {
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, i.profileURL, nil)
	if err != nil {
		return "", &Error{Provider: i.Name(), Message: "could not load your Instagram profile", Err: err}
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", &Error{Provider: i.Name(), Message: "could not load your Instagram profile", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &Error{Provider: i.Name(), Message: "could not load your Instagram profile", Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return "", &Error{Provider: i.Name(), Message: "could not load your Instagram profile",
			Err: fmt.Errorf("status %d: %s", resp.StatusCode, string(body))}
	}

	var profile struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	}
	if err := json.Unmarshal(body, &profile); err != nil {
		return "", &Error{Provider: i.Name(), Message: "Instagram returned an unexpected response", Err: err}
	}
	name := strings.TrimSpace(profile.Username)
	if name == "" {
		return "", &Error{Provider: i.Name(), Message: "Instagram returned an unexpected response",
			Err: fmt.Errorf("profile %s has no username", profile.ID)}
	}

	logger.Debug("Resolved Instagram profile %s", profile.ID)
	return name, nil
}
