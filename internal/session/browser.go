package session

import (
	"context"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// consentButtonSelectors covers the accept-all buttons of the consent
// walls the lyrics sites put in front of anonymous clients.
var consentButtonSelectors = []string{
	`button[mode="primary"]`,
	`button.fc-cta-consent`,
	`#onetrust-accept-btn-handler`,
}

// BrowserAuthenticator acquires cookies by driving a headless browser
// through the site's consent flow and exporting the resulting cookies.
type BrowserAuthenticator struct {
	url     string
	timeout time.Duration
	logger  *zap.Logger
}

// NewBrowserAuthenticator creates an authenticator for the given consent page
func NewBrowserAuthenticator(url string, timeout time.Duration, logger *zap.Logger) *BrowserAuthenticator {
	return &BrowserAuthenticator{url: url, timeout: timeout, logger: logger}
}

// Acquire opens the consent page, accepts the cookie dialog if one is
// shown, and returns the browser's cookies.
func (b *BrowserAuthenticator) Acquire(ctx context.Context) ([]Cookie, error) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, chromedp.DefaultExecAllocatorOptions[:]...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	var cookies []Cookie
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(b.url),
		chromedp.ActionFunc(b.acceptConsent),
		chromedp.ActionFunc(func(ctx context.Context) error {
			raw, err := network.GetCookies().Do(ctx)
			if err != nil {
				return err
			}
			for _, c := range raw {
				cookie := Cookie{
					Name:   c.Name,
					Value:  c.Value,
					Domain: c.Domain,
					Path:   c.Path,
				}
				if c.Expires > 0 {
					cookie.Expires = time.Unix(int64(c.Expires), 0)
				}
				cookies = append(cookies, cookie)
			}
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}

	b.logger.Info("browser authentication complete",
		zap.String("url", b.url),
		zap.Int("cookies", len(cookies)))
	return cookies, nil
}

// acceptConsent clicks the first consent button that appears. A page
// without a consent wall is fine; the click attempts simply time out.
func (b *BrowserAuthenticator) acceptConsent(ctx context.Context) error {
	for _, sel := range consentButtonSelectors {
		clickCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err := chromedp.Run(clickCtx, chromedp.Click(sel, chromedp.NodeVisible))
		cancel()
		if err == nil {
			b.logger.Debug("consent accepted", zap.String("selector", sel))
			return nil
		}
	}
	return nil
}
