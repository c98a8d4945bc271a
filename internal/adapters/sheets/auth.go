package sheets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/oliveiraenergia/oilsample/internal/domain"
)

// ConsentConfig parses an OAuth client secret (installed/web app JSON).
func ConsentConfig(clientSecretJSON []byte) (*oauth2.Config, error) {
	if len(clientSecretJSON) == 0 {
		return nil, fmt.Errorf("%w: GOOGLE_CLIENT_SECRET is not set", domain.ErrCredentials)
	}
	cfg, err := google.ConfigFromJSON(clientSecretJSON, Scope)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid client secret JSON: %w", domain.ErrCredentials, err)
	}
	return cfg, nil
}

// RunConsentFlow asks the user to authorize access in a browser, receives the
// code on a loopback listener and saves the resulting token to tokenPath.
func RunConsentFlow(ctx context.Context, cfg *oauth2.Config, tokenPath string, out io.Writer) error {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return fmt.Errorf("listen for oauth callback: %w", err)
	}
	defer ln.Close()

	cfg.RedirectURL = fmt.Sprintf("http://%s/", ln.Addr().String())
	state := uuid.NewString()

	codes := make(chan string, 1)
	errs := make(chan error, 1)
	srv := &http.Server{
		ReadHeaderTimeout: 10 * time.Second,
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			if q.Get("state") != state {
				http.Error(w, "invalid state", http.StatusBadRequest)
				return
			}
			if e := q.Get("error"); e != "" {
				http.Error(w, e, http.StatusBadRequest)
				notify(errs, fmt.Errorf("%w: consent denied: %s", domain.ErrCredentials, e))
				return
			}
			_, _ = io.WriteString(w, "Autorização concluída. Pode fechar esta janela.")
			notify(codes, q.Get("code"))
		}),
	}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			notify(errs, err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	authURL := cfg.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
	fmt.Fprintf(out, "Open this URL in a browser to authorize spreadsheet access:\n\n%s\n\n", authURL)

	var code string
	select {
	case code = <-codes:
	case err := <-errs:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}

	tok, err := cfg.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("%w: exchange code: %w", domain.ErrCredentials, err)
	}
	if err := SaveToken(tokenPath, cfg, tok); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	fmt.Fprintf(out, "Token saved to %s\n", tokenPath)
	return nil
}

func notify[T any](ch chan T, v T) {
	select {
	case ch <- v:
	default:
	}
}
