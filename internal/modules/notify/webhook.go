package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Webhook posts {"content": summary} to every URL returned by urls.
// The URLs are looked up per event since admins can change them at runtime.
type Webhook struct {
	urls   func() []string
	client *http.Client
}

// NewWebhook creates a webhook notifier with the given request timeout.
func NewWebhook(urls func() []string, timeout time.Duration) *Webhook {
	return &Webhook{urls: urls, client: &http.Client{Timeout: timeout}}
}

func (w *Webhook) OrderPlaced(ctx context.Context, e Event) error {
	body, err := json.Marshal(map[string]string{"content": e.Summary()})
	if err != nil {
		return fmt.Errorf("failed to marshal webhook body: %w", err)
	}

	var errs []error
	for _, url := range w.urls() {
		if err := w.post(ctx, url, body); err != nil {
			errs = append(errs, fmt.Errorf("webhook %s: %w", url, err))
		}
	}
	return errors.Join(errs...)
}

func (w *Webhook) post(ctx context.Context, url string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return nil
}
