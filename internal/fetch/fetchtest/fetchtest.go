// Package fetchtest provides an http.RoundTripper serving canned responses so
// company scrapers can be tested without network access.
package fetchtest

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
)

// Responder produces the response for a request.
type Responder func(req *http.Request) (*http.Response, error)

// Transport routes requests by "METHOD URL" or by URL to a Responder.
// Unrouted requests fail with a 404 response.
type Transport struct {
	mu       sync.Mutex
	routes   map[string]Responder
	requests []*http.Request
	bodies   []string
}

// NewTransport returns an empty Transport.
func NewTransport() *Transport {
	return &Transport{routes: make(map[string]Responder)}
}

// Handle registers r for url. A key of the form "POST https://..." restricts the route
// to that method. URL fragments are ignored.
func (t *Transport) Handle(key string, r Responder) *Transport {
	if i := strings.IndexByte(key, '#'); i >= 0 {
		key = key[:i]
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.routes[key] = r
	return t
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	var body string
	if req.Body != nil {
		b, err := io.ReadAll(req.Body)
		if err != nil {
			return nil, err
		}
		body = string(b)
	}

	t.mu.Lock()
	t.requests = append(t.requests, req)
	t.bodies = append(t.bodies, body)
	u := *req.URL
	u.Fragment, u.RawFragment = "", ""
	r, ok := t.routes[req.Method+" "+u.String()]
	if !ok {
		r, ok = t.routes[u.String()]
	}
	t.mu.Unlock()

	if !ok {
		return Status(http.StatusNotFound)(req)
	}
	return r(req)
}

// Requests returns the requests seen so far.
func (t *Transport) Requests() []*http.Request {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]*http.Request, len(t.requests))
	copy(out, t.requests)
	return out
}

// Bodies returns the request bodies seen so far, in request order.
func (t *Transport) Bodies() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, len(t.bodies))
	copy(out, t.bodies)
	return out
}

// Body responds with 200 and the given content type and body.
func Body(contentType, body string) Responder {
	return func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusOK,
			Status:     "200 OK",
			Header:     http.Header{"Content-Type": []string{contentType}},
			Body:       io.NopCloser(strings.NewReader(body)),
			Request:    req,
		}, nil
	}
}

// HTML responds with an HTML document.
func HTML(body string) Responder {
	return Body("text/html; charset=utf-8", body)
}

// JSON responds with a JSON document.
func JSON(body string) Responder {
	return Body("application/json", body)
}

// Status responds with an empty body and the given status code.
func Status(code int) Responder {
	return func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: code,
			Status:     fmt.Sprintf("%d %s", code, http.StatusText(code)),
			Header:     http.Header{},
			Body:       io.NopCloser(strings.NewReader("")),
			Request:    req,
		}, nil
	}
}

// TimeoutError is a net.Error reporting a timeout.
type TimeoutError struct{}

func (TimeoutError) Error() string   { return "dial tcp: i/o timeout" }
func (TimeoutError) Timeout() bool   { return true }
func (TimeoutError) Temporary() bool { return true }

// Timeout fails the request like a connect timeout.
func Timeout() Responder {
	return func(req *http.Request) (*http.Response, error) {
		return nil, TimeoutError{}
	}
}
