package sheets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/oliveiraenergia/oilsample/internal/domain"
)

// Scope grants read/write access to spreadsheets.
const Scope = "https://www.googleapis.com/auth/spreadsheets"

// Credentials selects how the spreadsheet client authenticates. The first
// non-empty source wins: inline service account JSON, service account file,
// then the authorized-user token file.
type Credentials struct {
	ServiceAccountJSON string
	ServiceAccountFile string
	TokenFile          string
}

// tokenFile is the authorized-user token layout shared with the Google python
// client (token.json).
type tokenFile struct {
	Token        string   `json:"token"`
	RefreshToken string   `json:"refresh_token"`
	TokenURI     string   `json:"token_uri"`
	ClientID     string   `json:"client_id"`
	ClientSecret string   `json:"client_secret"`
	Scopes       []string `json:"scopes"`
	Expiry       string   `json:"expiry,omitempty"`
}

// NewHTTPClient returns an HTTP client that attaches and refreshes OAuth2 tokens.
func NewHTTPClient(ctx context.Context, c Credentials) (*http.Client, error) {
	ts, err := TokenSource(ctx, c)
	if err != nil {
		return nil, err
	}
	return oauth2.NewClient(ctx, ts), nil
}

func TokenSource(ctx context.Context, c Credentials) (oauth2.TokenSource, error) {
	switch {
	case c.ServiceAccountJSON != "":
		return fromGoogleJSON(ctx, []byte(c.ServiceAccountJSON))
	case c.ServiceAccountFile != "":
		data, err := os.ReadFile(c.ServiceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("%w: read service account: %w", domain.ErrCredentials, err)
		}
		return fromGoogleJSON(ctx, data)
	case c.TokenFile != "":
		return loadTokenFile(ctx, c.TokenFile)
	default:
		return nil, fmt.Errorf("%w: no token file or service account configured", domain.ErrCredentials)
	}
}

func fromGoogleJSON(ctx context.Context, data []byte) (oauth2.TokenSource, error) {
	creds, err := google.CredentialsFromJSON(ctx, data, Scope)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrCredentials, err)
	}
	return creds.TokenSource, nil
}

func loadTokenFile(ctx context.Context, path string) (oauth2.TokenSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s not found, run `oilsample auth` first", domain.ErrCredentials, path)
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrCredentials, err)
	}

	var kind struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &kind); err != nil {
		return nil, fmt.Errorf("%w: invalid token file: %w", domain.ErrCredentials, err)
	}
	if kind.Type != "" {
		return fromGoogleJSON(ctx, data)
	}

	var tf tokenFile
	if err := json.Unmarshal(data, &tf); err != nil {
		return nil, fmt.Errorf("%w: invalid token file: %w", domain.ErrCredentials, err)
	}
	if tf.RefreshToken == "" && tf.Token == "" {
		return nil, fmt.Errorf("%w: token file has no token", domain.ErrCredentials)
	}

	cfg := tf.config()
	return cfg.TokenSource(ctx, tf.oauthToken()), nil
}

func (tf tokenFile) config() *oauth2.Config {
	endpoint := google.Endpoint
	if tf.TokenURI != "" {
		endpoint.TokenURL = tf.TokenURI
	}
	scopes := tf.Scopes
	if len(scopes) == 0 {
		scopes = []string{Scope}
	}
	return &oauth2.Config{
		ClientID:     tf.ClientID,
		ClientSecret: tf.ClientSecret,
		Endpoint:     endpoint,
		Scopes:       scopes,
	}
}

func (tf tokenFile) oauthToken() *oauth2.Token {
	tok := &oauth2.Token{
		AccessToken:  tf.Token,
		RefreshToken: tf.RefreshToken,
		TokenType:    "Bearer",
	}
	if tf.Expiry == "" {
		return tok
	}
	expiry, err := time.Parse(time.RFC3339Nano, tf.Expiry)
	if err != nil {
		// Unknown expiry: force a refresh instead of trusting the access token.
		tok.AccessToken = ""
		return tok
	}
	tok.Expiry = expiry
	return tok
}

// SaveToken writes tok in the token.json layout.
func SaveToken(path string, cfg *oauth2.Config, tok *oauth2.Token) error {
	tf := tokenFile{
		Token:        tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		TokenURI:     cfg.Endpoint.TokenURL,
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Scopes:       cfg.Scopes,
	}
	if !tok.Expiry.IsZero() {
		tf.Expiry = tok.Expiry.UTC().Format(time.RFC3339Nano)
	}
	data, err := json.MarshalIndent(tf, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
