package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Harshrb2424/jntuh-mcp-server/config"
)

// notFoundPhrases are the literal markers the result endpoint embeds in an
// otherwise-200 page when no record exists. Matching is case-sensitive.
var notFoundPhrases = []string{
	"No Records Found",
	"Invalid Hall Ticket Number",
	"Invalid HTNO",
	"Result Not Found",
}

// JNTUHService performs the result lookup against the university endpoint.
type JNTUHService struct {
	config     *config.JNTUHConfig
	httpClient *http.Client
}

func NewJNTUHService(cfg *config.JNTUHConfig) *JNTUHService {
	return &JNTUHService{
		config: cfg,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
	}
}

// FetchResult posts the resolved parameter set for one hall ticket number
// and returns the raw result page HTML. The htno is set last so a
// same-named value leaked from the reference string can never win.
// Classification: connection/timeout or non-2xx wraps into TransportError,
// a known not-found phrase in the body maps to ErrRecordNotFound,
// everything else is a success. Every call is a fresh network request;
// there are no retries and no caching.
func (s *JNTUHService) FetchResult(ctx context.Context, params map[string]string, htno, referer string) (string, error) {
	form := url.Values{}
	for key, value := range params {
		form.Set(key, value)
	}
	form.Set("htno", htno)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.ResultURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", &TransportError{Op: "build request", Err: err}
	}

	// The endpoint rejects requests that don't look like the search page
	// posting back to it.
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", s.config.UserAgent)
	req.Header.Set("Referer", referer)
	req.Header.Set("Origin", s.config.Origin)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", &TransportError{Op: "post result request", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &TransportError{Op: "read result response", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &TransportError{Op: "post result request", Err: &statusError{code: resp.StatusCode}}
	}

	text := string(body)
	for _, phrase := range notFoundPhrases {
		if strings.Contains(text, phrase) {
			return "", ErrRecordNotFound
		}
	}

	return text, nil
}

type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.code)
}
