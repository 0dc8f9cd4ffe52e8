package captcha

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var (
	// ErrRejected means the provider returned a definitive negative verdict.
	ErrRejected = errors.New("captcha: token rejected")

	// ErrUnavailable means the provider could not be reached or gave an
	// unusable answer. Callers must treat this as an internal failure,
	// never as a pass.
	ErrUnavailable = errors.New("captcha: verification unavailable")
)

// Verifier checks a client-submitted captcha token. Absence of a definitive
// positive verdict is always a rejection.
type Verifier interface {
	Verify(ctx context.Context, token string) error
}

// HTTPVerifier verifies tokens against an hCaptcha-compatible siteverify
// endpoint.
type HTTPVerifier struct {
	secret    string
	verifyURL string
	client    *http.Client
}

func NewHTTPVerifier(secret, verifyURL string, timeout time.Duration) *HTTPVerifier {
	return &HTTPVerifier{
		secret:    secret,
		verifyURL: verifyURL,
		client:    &http.Client{Timeout: timeout},
	}
}

type verdict struct {
	Success bool `json:"success"`
}

func (v *HTTPVerifier) Verify(ctx context.Context, token string) error {
	form := url.Values{
		"secret":   {v.secret},
		"response": {token},
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		v.verifyURL,
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var result verdict
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if !result.Success {
		return ErrRejected
	}
	return nil
}
