package kakao

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"
)

const (
	authorizePath = "/oauth/authorize"

	// maxPortAttempts caps the fallback to successive ports when the
	// callback port is already bound.
	maxPortAttempts = 3

	shutdownTimeout = 2 * time.Second
)

const callbackResponse = `<html>
<head><title>Authorization complete</title></head>
<body>
<h1>Authorization complete</h1>
<p>You can close this window and return to the terminal.</p>
</body>
</html>`

// defaultCallbackPort is used when the redirect URI does not name a port.
const defaultCallbackPort = 8080

// CallbackPort extracts the local listener port from a redirect URI.
func CallbackPort(redirectURI string) int {
	u, err := url.Parse(redirectURI)
	if err != nil {
		return defaultCallbackPort
	}

	port, err := strconv.Atoi(u.Port())
	if err != nil {
		return defaultCallbackPort
	}

	return port
}

// AuthorizationURL builds the user-facing consent URL for the
// authorization-code grant.
func (s *Sender) AuthorizationURL() string {
	params := url.Values{
		"client_id":     {s.appKey},
		"redirect_uri":  {s.redirectURI},
		"response_type": {"code"},
		"scope":         {"talk_message"},
	}

	return s.authBaseURL + authorizePath + "?" + params.Encode()
}

// ExchangeCode trades a one-time authorization code for a credential and
// persists it.
func (s *Sender) ExchangeCode(code string) error {
	form := url.Values{
		"grant_type":   {"authorization_code"},
		"client_id":    {s.appKey},
		"redirect_uri": {s.redirectURI},
		"code":         {code},
	}

	return s.requestToken(form)
}

// CaptureCode runs a short-lived local HTTP server that captures a single
// authorization code from the consent redirect. The listener resolves the
// code exactly once and terminates; on a bind conflict it falls back to
// successive ports, capped at maxPortAttempts.
func CaptureCode(ctx context.Context, port int) (string, error) {
	ln, boundPort, err := listenWithFallback(port)
	if err != nil {
		return "", err
	}

	codeCh := make(chan string, 1)

	var once sync.Once

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			http.Error(w, "missing authorization code", http.StatusBadRequest)
			return
		}

		once.Do(func() {
			codeCh <- code
		})

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, callbackResponse)
	})

	srv := &http.Server{Handler: mux}

	go func() {
		if err := srv.Serve(ln); err != nil &&
			!errors.Is(err, http.ErrServerClosed) {
			slog.Error("callback server failed", slog.Any("error", err))
		}
	}()

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(
			context.Background(),
			shutdownTimeout,
		)
		defer cancel()

		_ = srv.Shutdown(shutdownCtx)
	}()

	slog.Info(
		"waiting for authorization callback",
		slog.Int("port", boundPort),
	)

	select {
	case code := <-codeCh:
		return code, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// listenWithFallback binds the callback listener, trying successive ports
// on conflict.
func listenWithFallback(port int) (net.Listener, int, error) {
	var lastErr error

	for i := 0; i < maxPortAttempts; i++ {
		addr := fmt.Sprintf("localhost:%d", port+i)

		ln, err := net.Listen("tcp", addr)
		if err == nil {
			return ln, port + i, nil
		}

		lastErr = err

		slog.Warn(
			"callback port unavailable, trying the next one",
			slog.String("addr", addr),
		)
	}

	return nil, 0, fmt.Errorf(
		"no free callback port after %d attempts: %w",
		maxPortAttempts,
		lastErr,
	)
}
