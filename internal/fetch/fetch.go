// Package fetch provides the HTTP session each fuel company uses to download its prices.
package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"github.com/andygrunwald/fuelprices-dk/internal/useragent"
)

// StatusError is returned when a company answers with a non 2xx status code.
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code %d from %s: %s", e.StatusCode, e.URL, e.Body)
}

// IsRecoverable reports whether err is a transport failure that should only skip the
// company for this refresh: timeouts, cancelled deadlines and HTTP error statuses.
func IsRecoverable(err error) bool {
	if err == nil {
		return false
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return true
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	return false
}

// Session performs the requests of one company.
type Session struct {
	client    *http.Client
	userAgent string
	logger    zerolog.Logger
}

// NewSession creates a session with its own client. A nil transport uses
// http.DefaultTransport.
func NewSession(timeout time.Duration, transport http.RoundTripper, logger zerolog.Logger) *Session {
	if transport == nil {
		transport = http.DefaultTransport
	}
	return &Session{
		client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		userAgent: useragent.Default,
		logger:    logger,
	}
}

// Timeout returns the per request timeout.
func (s *Session) Timeout() time.Duration {
	return s.client.Timeout
}

// Transport returns the round tripper used by the session.
func (s *Session) Transport() http.RoundTripper {
	return s.client.Transport
}

// Get fetches url and returns the body.
func (s *Session) Get(ctx context.Context, url string, header http.Header) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	copyHeader(req.Header, header)
	return s.do(req)
}

// PostJSON posts payload encoded as JSON to url and returns the body.
func (s *Session) PostJSON(ctx context.Context, url string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	return s.do(req)
}

// Document fetches url and parses it as HTML.
func (s *Session) Document(ctx context.Context, url string) (*goquery.Document, error) {
	body, err := s.Get(ctx, url, nil)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return doc, nil
}

// Download streams url into the file at dst. The file is replaced atomically.
func (s *Session) Download(ctx context.Context, url, dst string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	resp, err := s.send(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("creating download directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), filepath.Base(dst)+".*")
	if err != nil {
		return fmt.Errorf("creating download file: %w", err)
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, resp.Body)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("writing %s: %w", dst, err)
	}

	if err := os.Rename(tmp.Name(), dst); err != nil {
		return fmt.Errorf("moving download into place: %w", err)
	}

	s.logger.Debug().
		Str("url", url).
		Str("path", dst).
		Int64("bytes", n).
		Msg("downloaded file")

	return nil
}

func (s *Session) do(req *http.Request) ([]byte, error) {
	resp, err := s.send(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	return body, nil
}

// send executes req and checks the status code. The caller closes the body.
func (s *Session) send(req *http.Request) (*http.Response, error) {
	req.Header.Set("User-Agent", s.userAgent)

	s.logger.Debug().
		Str("method", req.Method).
		Str("url", req.URL.String()).
		Msg("sending request")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &StatusError{
			URL:        req.URL.String(),
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}

	return resp, nil
}

func copyHeader(dst, src http.Header) {
	for k, values := range src {
		for _, v := range values {
			dst.Add(k, v)
		}
	}
}
