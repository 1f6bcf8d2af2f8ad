// Package kakao delivers messages through the Kakao Talk memo API. It
// owns a refreshable credential: a send that fails authentication
// triggers exactly one token refresh followed by exactly one retry.
package kakao

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/ayoisaiah/appwatch/internal/models"
)

const (
	defaultAPIBaseURL  = "https://kapi.kakao.com"
	defaultAuthBaseURL = "https://kauth.kakao.com"

	sendMemoPath = "/v2/api/talk/memo/default/send"
	tokenPath    = "/oauth/token"

	httpTimeout = 10 * time.Second
)

var (
	// ErrAuth indicates the remote endpoint rejected the access token.
	ErrAuth = errors.New("messaging transport rejected the credential")

	// ErrDelivery indicates a non-authentication send failure.
	ErrDelivery = errors.New("message could not be delivered")

	// ErrRefresh indicates the refresh token could not be exchanged for a
	// new access token.
	ErrRefresh = errors.New("access token refresh failed")

	errNoRefreshToken = errors.New("no refresh token is configured")
)

// Sender is a client for the messaging transport.
type Sender struct {
	appKey      string
	redirectURI string
	client      *http.Client
	apiBaseURL  string
	authBaseURL string
	persist     func(models.Credential) error

	mu   sync.Mutex
	cred models.Credential
}

// Option modifies a Sender.
type Option func(*Sender)

// WithBaseURLs overrides the API and auth endpoints.
func WithBaseURLs(api, auth string) Option {
	return func(s *Sender) {
		s.apiBaseURL = api
		s.authBaseURL = auth
	}
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Sender) {
		s.client = c
	}
}

// WithPersist registers a callback invoked whenever the credential
// changes so it can be written back to the config file.
func WithPersist(fn func(models.Credential) error) Option {
	return func(s *Sender) {
		s.persist = fn
	}
}

// NewSender returns a client that consumes an already-valid or
// refreshable credential.
func NewSender(
	appKey, redirectURI string,
	cred models.Credential,
	opts ...Option,
) *Sender {
	s := &Sender{
		appKey:      appKey,
		redirectURI: redirectURI,
		cred:        cred,
		client:      &http.Client{Timeout: httpTimeout},
		apiBaseURL:  defaultAPIBaseURL,
		authBaseURL: defaultAuthBaseURL,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Credential returns the current token pair.
func (s *Sender) Credential() models.Credential {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cred
}

func (s *Sender) accessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cred.AccessToken
}

// SendText delivers a plain text message.
func (s *Sender) SendText(message string) error {
	return s.sendWithRetry(func(token string) error {
		return s.postTemplate(textTemplate(message), token)
	})
}

// SendImages delivers an optional caption followed by each image as an
// independent unit of work. The call succeeds if at least one unit was
// delivered and fails only if every unit failed.
func (s *Sender) SendImages(images [][]byte, caption string) error {
	var results []error

	if caption != "" {
		results = append(results, s.SendText(caption))
	}

	for i, img := range images {
		title := fmt.Sprintf("Usage chart %d", i+1)

		err := s.sendWithRetry(func(token string) error {
			return s.postTemplate(imageTemplate(img, title), token)
		})

		results = append(results, err)
	}

	if anyDelivered(results) {
		return nil
	}

	return fmt.Errorf("%w: all %d units failed", ErrDelivery, len(results))
}

// anyDelivered reduces per-unit results to the overall best-effort
// fan-out policy.
func anyDelivered(results []error) bool {
	for _, err := range results {
		if err == nil {
			return true
		}
	}

	return false
}

// sendWithRetry attempts a send with the current access token. On an
// authentication failure it refreshes the token once and retries the send
// once. The retry is never itself retried, so a server that persistently
// rejects the credential cannot cause unbounded recursion.
func (s *Sender) sendWithRetry(do func(token string) error) error {
	err := do(s.accessToken())
	if !errors.Is(err, ErrAuth) {
		return err
	}

	if err := s.refreshAccessToken(); err != nil {
		return err
	}

	return do(s.accessToken())
}

// postTemplate submits a template object to the memo endpoint.
func (s *Sender) postTemplate(template map[string]any, token string) error {
	body, err := json.Marshal(template)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDelivery, err)
	}

	form := url.Values{
		"template_object": {string(body)},
	}

	req, err := http.NewRequest(
		http.MethodPost,
		s.apiBaseURL+sendMemoPath,
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDelivery, err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDelivery, err)
	}

	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		return nil
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrAuth
	default:
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf(
			"%w: status %d: %s",
			ErrDelivery,
			resp.StatusCode,
			string(b),
		)
	}
}

// refreshAccessToken exchanges the refresh token for a new access token
// and persists the updated credential.
func (s *Sender) refreshAccessToken() error {
	s.mu.Lock()
	refreshToken := s.cred.RefreshToken
	s.mu.Unlock()

	if refreshToken == "" {
		return fmt.Errorf("%w: %v", ErrRefresh, errNoRefreshToken)
	}

	form := url.Values{
		"grant_type":    {"refresh_token"},
		"client_id":     {s.appKey},
		"refresh_token": {refreshToken},
	}

	return s.requestToken(form)
}

// requestToken performs a token-endpoint exchange and stores the result.
func (s *Sender) requestToken(form url.Values) error {
	resp, err := s.client.PostForm(s.authBaseURL+tokenPath, form)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRefresh, err)
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf(
			"%w: status %d: %s",
			ErrRefresh,
			resp.StatusCode,
			string(b),
		)
	}

	var tokens struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&tokens); err != nil {
		return fmt.Errorf("%w: %v", ErrRefresh, err)
	}

	s.mu.Lock()
	s.cred.AccessToken = tokens.AccessToken
	if tokens.RefreshToken != "" {
		s.cred.RefreshToken = tokens.RefreshToken
	}
	cred := s.cred
	s.mu.Unlock()

	if s.persist != nil {
		if err := s.persist(cred); err != nil {
			return fmt.Errorf("persisting refreshed credential: %w", err)
		}
	}

	return nil
}

func textTemplate(message string) map[string]any {
	return map[string]any{
		"object_type": "text",
		"text":        message,
		"link": map[string]any{
			"web_url":        "https://developers.kakao.com",
			"mobile_web_url": "https://developers.kakao.com",
		},
	}
}

func imageTemplate(image []byte, title string) map[string]any {
	encoded := base64.StdEncoding.EncodeToString(image)

	return map[string]any{
		"object_type": "feed",
		"content": map[string]any{
			"title":       title,
			"description": "App usage statistics",
			"image_url":   "data:image/png;base64," + encoded,
			"link": map[string]any{
				"web_url":        "https://developers.kakao.com",
				"mobile_web_url": "https://developers.kakao.com",
			},
		},
	}
}
