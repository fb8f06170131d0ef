package exchange

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	formContentType = "application/x-www-form-urlencoded"
)

//
// Request describes a single call against an exchange's API. URI is the path plus (optionally) the
// encoded query string, exactly as it will appear on the request line. Form, when non-nil, is sent
// as an URL-encoded body.
//
type Request struct {
	Method string
	URI    string
	Header http.Header
	Form   url.Values
}

//
// Op returns a short human-readable description of the request used to tag errors and log entries.
//
func (o *Request) Op() string {
	return o.Method + " " + o.URI
}

//
// Transport performs requests against a single API base URL and wraps the results. It holds no
// mutable state and is safe for concurrent use as long as the underlying http.Client is.
//
type Transport struct {
	baseURL    string
	pathPrefix string
	httpClient *http.Client
	logger     logrus.FieldLogger
}

//
// NewTransport instantiates a transport. A nil http.Client falls back to a fresh one with no
// timeout and a nil logger falls back to one that discards everything.
//
func NewTransport(baseURL string, httpClient *http.Client, logger logrus.FieldLogger) *Transport {
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	if logger == nil {
		logger = DiscardLogger()
	}

	baseURL = strings.TrimRight(baseURL, "/")

	//
	// A base URL that fails to parse is reported by Do, when the request itself is built.
	//
	var pathPrefix string

	if u, err := url.Parse(baseURL); err == nil {
		pathPrefix = u.EscapedPath()
	}

	return &Transport{
		baseURL:    baseURL,
		pathPrefix: pathPrefix,
		httpClient: httpClient,
		logger:     logger,
	}
}

func (o *Transport) BaseURL() string {
	return o.baseURL
}

//
// RequestURI returns the path and query that a request to the specified URI carries on its request
// line, i.e. the URI prefixed with the path of the base URL (if any).
//
func (o *Transport) RequestURI(uri string) string {
	return o.pathPrefix + uri
}

//
// Do makes the specified request and returns the wrapped response. Only failures to obtain a
// response at all are reported here (as Transport kind errors); status codes are left to the
// caller, since some APIs carry meaningful payloads on non-2xx responses.
//
func (o *Transport) Do(ctx context.Context, r *Request) (*Response, error) {
	op := r.Op()

	//
	// Build the request.
	//
	var body io.Reader

	if r.Form != nil {
		body = strings.NewReader(r.Form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, o.baseURL+r.URI, body)
	if err != nil {
		return nil, NewTransportError(op, err)
	}

	for k, vs := range r.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	if r.Form != nil {
		req.Header.Set("Content-Type", formContentType)
	}

	req.Header.Set("Accept", "application/json")

	//
	// Make the request.
	//
	start := time.Now()

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, NewTransportError(op, err)
	}
	defer resp.Body.Close()

	//
	// Read the response.
	//
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewTransportError(op, fmt.Errorf("failed to read response body: %w", err))
	}

	o.logger.WithFields(logrus.Fields{
		"op":       op,
		"status":   resp.StatusCode,
		"bytes":    len(respBody),
		"duration": time.Since(start),
	}).Debug("request completed")

	return &Response{
		op:       op,
		response: resp,
		body:     respBody,
	}, nil
}

//
// DiscardLogger returns a logger that drops every entry. Clients use it unless the embedding
// application provides its own.
//
func DiscardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	l.SetLevel(logrus.PanicLevel)

	return l
}
