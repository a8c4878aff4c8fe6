package service

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Harshrb2424/jntuh-mcp-server/config"
)

// Renderer converts a result page's HTML into PDF bytes. It is an
// injected capability so handler tests can substitute a fake.
type Renderer interface {
	Render(ctx context.Context, html string) ([]byte, error)
}

// HTTPRenderer delegates conversion to an external convert endpoint
// (a Gotenberg-style service): the HTML goes out as the request body and
// the PDF comes back as the response body.
type HTTPRenderer struct {
	config     *config.RendererConfig
	httpClient *http.Client
}

func NewHTTPRenderer(cfg *config.RendererConfig) *HTTPRenderer {
	return &HTTPRenderer{
		config: cfg,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
	}
}

func (r *HTTPRenderer) Render(ctx context.Context, html string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.config.APIURL, strings.NewReader(html))
	if err != nil {
		return nil, &RenderError{Msg: "build convert request", Err: err}
	}

	req.Header.Set("Content-Type", "text/html")
	req.Header.Set("Accept", "application/pdf")
	if r.config.APIToken != "" {
		req.Header.Set("Authorization", "Bearer "+r.config.APIToken)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, &RenderError{Msg: "convert request failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &RenderError{Msg: "convert service returned " + resp.Status}
	}

	pdf, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RenderError{Msg: "read converted document", Err: err}
	}
	if len(pdf) == 0 {
		return nil, &RenderError{Msg: "convert service returned an empty document"}
	}

	return pdf, nil
}
