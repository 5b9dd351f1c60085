package googlecal

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
)

const authCallbackPort = "6789"

// Login runs the OAuth authorization-code flow through a temporary
// local web server and writes the obtained token to creds.TokenPath.
// The URL to open is written to out for the user.
func Login(ctx context.Context, creds Credentials, out *os.File) error {
	secrets, err := os.ReadFile(creds.ClientSecretsPath)
	if err != nil {
		return fmt.Errorf("reading client secrets %s: %w", creds.ClientSecretsPath, err)
	}
	config, err := google.ConfigFromJSON(secrets, calendar.CalendarReadonlyScope)
	if err != nil {
		return fmt.Errorf("parsing client secrets: %w", err)
	}
	config.RedirectURL = "http://localhost:" + authCallbackPort + "/oauth2callback"

	token, err := tokenFromWeb(ctx, config, out)
	if err != nil {
		return err
	}
	return SaveToken(creds.TokenPath, token)
}

func tokenFromWeb(ctx context.Context, config *oauth2.Config, out *os.File) (*oauth2.Token, error) {
	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)

	listener, err := net.Listen("tcp", ":"+authCallbackPort)
	if err != nil {
		return nil, fmt.Errorf("starting callback listener: %w", err)
	}
	defer listener.Close()

	server := &http.Server{
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			code := r.URL.Query().Get("code")
			if code == "" {
				http.Error(w, "authorization code not found", http.StatusBadRequest)
				errCh <- fmt.Errorf("authorization code missing from redirect")
				return
			}
			fmt.Fprint(w, "Authentication successful. You can close this window.")
			codeCh <- code
		}),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	go func() {
		if serveErr := server.Serve(listener); serveErr != nil && serveErr != http.ErrServerClosed {
			errCh <- serveErr
		}
	}()
	defer server.Shutdown(context.Background())

	authURL := config.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	fmt.Fprintf(out, "Open the following URL in your browser to authorize calendar access:\n%s\n", authURL)

	select {
	case code := <-codeCh:
		exchangeCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		return config.Exchange(exchangeCtx, code)
	case err := <-errCh:
		return nil, err
	case <-time.After(5 * time.Minute):
		return nil, fmt.Errorf("authorization timed out")
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
