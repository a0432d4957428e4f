package loader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"

	"go.uber.org/zap"
)

// Fetch downloads a web page or document and extracts its text. Requests share one
// rate limiter so a burst of summaries cannot hammer remote hosts.
func (l *Loader) Fetch(ctx context.Context, rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("%w: invalid url %q", ErrFetch, rawURL)
	}
	if err := l.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("%w: %v", ErrFetch, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFetch, err)
	}
	req.Header.Set("User-Agent", l.cfg.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,text/plain,application/pdf;q=0.9,*/*;q=0.5")

	resp, err := l.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: %s returned %s", ErrFetch, u.Host, resp.Status)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, l.cfg.MaxBytes+1))
	if err != nil {
		return "", fmt.Errorf("%w: reading body: %v", ErrFetch, err)
	}
	if int64(len(body)) > l.cfg.MaxBytes {
		return "", fmt.Errorf("%w: body of %s is over %d bytes", ErrTooLarge, u.Host, l.cfg.MaxBytes)
	}
	l.log.Info("page fetched",
		zap.String("host", u.Host),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(body)),
	)

	return l.Load(ctx, Source{
		Name:        path.Base(u.Path),
		ContentType: resp.Header.Get("Content-Type"),
		Data:        body,
	})
}
