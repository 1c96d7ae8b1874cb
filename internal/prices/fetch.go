package prices

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/hashicorp/go-retryablehttp"
)

// DocumentFetcher fetches a fully rendered copy of the price page. The price
// table is populated client-side, so a plain GET of the source URL only works
// against a render service or a pre-rendered mirror; extraction and detection
// depend only on this interface so the rendering technology can be swapped.
type DocumentFetcher interface {
	Fetch(ctx context.Context) (*goquery.Document, error)
}

// RenderClient fetches the source page through a browserless-style render
// service when one is configured, and falls back to a plain GET otherwise.
type RenderClient struct {
	sourceURL string
	renderURL string
	client    *retryablehttp.Client
}

// NewRenderClient builds a fetcher for sourceURL. renderURL is the optional
// render-service content endpoint (e.g. http://browserless:3000/content); pass
// "" to fetch the source URL directly.
func NewRenderClient(sourceURL, renderURL string, timeout time.Duration) *RenderClient {
	c := retryablehttp.NewClient()
	c.RetryMax = 2
	c.Logger = nil
	c.HTTPClient.Timeout = timeout
	return &RenderClient{
		sourceURL: sourceURL,
		renderURL: renderURL,
		client:    c,
	}
}

func (c *RenderClient) Fetch(ctx context.Context) (*goquery.Document, error) {
	var (
		req *retryablehttp.Request
		err error
	)
	if c.renderURL != "" {
		payload, merr := json.Marshal(map[string]string{"url": c.sourceURL})
		if merr != nil {
			return nil, merr
		}
		req, err = retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.renderURL, bytes.NewReader(payload))
		if err == nil {
			req.Header.Set("Content-Type", "application/json")
		}
	} else {
		req, err = retryablehttp.NewRequestWithContext(ctx, http.MethodGet, c.sourceURL, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("build fetch request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch price page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("price page returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse price page: %w", err)
	}
	return doc, nil
}
