package storefront

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
)

const refreshPath = "/api/user/refresh-token"

// ErrSessionExpired is returned when the refresh token is rejected. The
// credential store has been cleared by then.
var ErrSessionExpired = errors.New("storefront: session expired")

// AuthTransport attaches the access token as a bearer header. On a 401 it
// trades the refresh token for a new access token and retries the request
// once.
type AuthTransport struct {
	Base        http.RoundTripper
	Credentials CredentialStore
	BaseURL     string

	mu sync.Mutex
}

func (t *AuthTransport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}

func (t *AuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	access, refresh := t.Credentials.Tokens()

	resp, err := t.base().RoundTrip(withBearer(req, access))
	if err != nil || resp.StatusCode != http.StatusUnauthorized || refresh == "" {
		return resp, err
	}
	if req.Body != nil && req.GetBody == nil {
		return resp, nil
	}
	drain(resp)

	fresh, err := t.refresh(req, access)
	if err != nil {
		return nil, err
	}

	retry := req.Clone(req.Context())
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, err
		}
		retry.Body = body
	}
	return t.base().RoundTrip(withBearer(retry, fresh))
}

// refresh serializes token renewal. A caller that waited behind another
// refresh reuses its result.
func (t *AuthTransport) refresh(orig *http.Request, stale string) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	access, refresh := t.Credentials.Tokens()
	if access != stale && access != "" {
		return access, nil
	}

	req, err := http.NewRequestWithContext(orig.Context(), http.MethodPost, t.BaseURL+refreshPath, bytes.NewReader([]byte("{}")))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.base().RoundTrip(withBearer(req, refresh))
	if err != nil {
		return "", fmt.Errorf("refresh token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		t.Credentials.Clear()
		return "", ErrSessionExpired
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("refresh token: status %d", resp.StatusCode)
	}

	var env struct {
		Data struct {
			AccessToken string `json:"accessToken"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return "", fmt.Errorf("decode refresh response: %w", err)
	}
	if env.Data.AccessToken == "" {
		return "", fmt.Errorf("refresh token: empty access token")
	}

	t.Credentials.SetAccess(env.Data.AccessToken)
	return env.Data.AccessToken, nil
}

func withBearer(req *http.Request, token string) *http.Request {
	out := req.Clone(req.Context())
	if token != "" {
		out.Header.Set("Authorization", "Bearer "+token)
	}
	return out
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
