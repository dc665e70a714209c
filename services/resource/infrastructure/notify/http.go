package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/ghuser/volunteerhub/services/resource/domain/events"
)

const (
	tokenIssuer   = "volunteerhub"
	tokenLifetime = time.Minute
)

// HTTPSink POSTs notifications as JSON to the realtime gateway. Each request
// carries a short-lived HS256 bearer token so the gateway can authenticate it.
type HTTPSink struct {
	url    string
	key    []byte
	client *http.Client
}

// NewHTTPSink returns an HTTPSink posting to url, signing with key.
func NewHTTPSink(url string, key []byte, timeout time.Duration) *HTTPSink {
	return &HTTPSink{
		url: url,
		key: key,
		client: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// Emit delivers n. Any non-2xx response is an error.
func (s *HTTPSink) Emit(ctx context.Context, n events.Notification) error {
	body, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("notify: marshal: %w", err)
	}

	token, err := s.sign(n)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("notify: new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Idempotency-Key", n.EventID.String())

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("notify: post %s: %w", n.Kind, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("notify: post %s: unexpected status %d", n.Kind, resp.StatusCode)
	}
	return nil
}

func (s *HTTPSink) sign(n events.Notification) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		Subject:   string(n.Kind),
		ID:        n.EventID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenLifetime)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("notify: sign token: %w", err)
	}
	return signed, nil
}
