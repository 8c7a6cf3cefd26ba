package session

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// HTTPValidator probes session validity with a lightweight GET against
// the configured probe URL, carrying the candidate cookies.
type HTTPValidator struct {
	client    *http.Client
	probeURL  string
	userAgent string
}

// NewHTTPValidator creates a validator for probeURL
func NewHTTPValidator(probeURL, userAgent string, timeout time.Duration) *HTTPValidator {
	return &HTTPValidator{
		client:    &http.Client{Timeout: timeout},
		probeURL:  probeURL,
		userAgent: userAgent,
	}
}

// Probe returns nil when the site accepts the cookies
func (v *HTTPValidator) Probe(ctx context.Context, cookies []Cookie) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.probeURL, nil)
	if err != nil {
		return fmt.Errorf("create probe request: %w", err)
	}
	req.Header.Set("User-Agent", v.userAgent)
	for _, c := range cookies {
		req.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
	}

	resp, err := v.client.Do(req)
	if err != nil {
		return fmt.Errorf("probe: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return fmt.Errorf("probe rejected with status %d", resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 400 {
		return fmt.Errorf("probe returned status %d", resp.StatusCode)
	}
	return nil
}
