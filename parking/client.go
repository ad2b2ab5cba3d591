package parking

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"
)

// Client performs raw calls against the parking server. It owns a cookie
// jar so the session cookie set by login rides along on every request,
// and it normalizes responses into a uniform Response envelope. It does
// no retries and sets no per-call deadline; cancellation comes from the
// caller's context.
type Client struct {
	base string
	http *http.Client
	log  *slog.Logger
}

// NewClient builds a Client for the server at base (e.g. "http://localhost:5000").
func NewClient(base string, logger *slog.Logger) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("cookie jar: %w", err)
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{Jar: jar},
		log:  logger,
	}, nil
}

// CallOptions mirror the knobs a single request needs. When JSON is set
// the body is its serialized form with Content-Type application/json;
// otherwise Body (if any) is passed through unmodified.
type CallOptions struct {
	Method string // default GET
	JSON   any
	Body   io.Reader
	Header http.Header
}

// Response is the normalized result of a call. OK mirrors the 2xx range.
// JSON responses are kept as a raw message for the caller to decode;
// everything else lands in Text. Transport failures are returned as an
// error from Call and never produce a Response.
type Response struct {
	OK     bool
	Status int
	JSON   json.RawMessage
	Text   string
}

// Decode unmarshals a JSON response body into v.
func (r Response) Decode(v any) error {
	if r.JSON == nil {
		return fmt.Errorf("response is not JSON")
	}
	return json.Unmarshal(r.JSON, v)
}

// ErrorMessage extracts the server's {"error": "..."} string, if any.
func (r Response) ErrorMessage() string {
	if r.JSON == nil {
		return ""
	}
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(r.JSON, &body); err != nil {
		return ""
	}
	return body.Error
}

// Call issues one request against path (must start with "/") and returns
// the normalized envelope.
func (c *Client) Call(ctx context.Context, path string, opts CallOptions) (Response, error) {
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if opts.JSON != nil {
		buf, err := json.Marshal(opts.JSON)
		if err != nil {
			return Response{}, fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(buf)
	} else {
		body = opts.Body
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return Response{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	for k, vs := range opts.Header {
		req.Header[k] = vs
	}
	if opts.JSON != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("request failed", "method", method, "path", path, "err", err)
		return Response{}, err
	}
	defer resp.Body.Close()

	out := Response{
		OK:     resp.StatusCode >= 200 && resp.StatusCode < 300,
		Status: resp.StatusCode,
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, fmt.Errorf("read response body: %w", err)
	}
	if isJSON(resp.Header.Get("Content-Type")) {
		out.JSON = json.RawMessage(raw)
	} else {
		out.Text = string(raw)
	}

	c.log.Debug("request",
		"method", method, "path", path,
		"status", resp.StatusCode, "dur", time.Since(start))
	return out, nil
}

// Download streams the body of a GET at path into w. Used for fetching
// completed export files, which are attachments rather than JSON.
func (c *Client) Download(ctx context.Context, path string, w io.Writer) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, fmt.Errorf("download: unexpected status %d", resp.StatusCode)
	}
	return io.Copy(w, resp.Body)
}

func isJSON(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mt == "application/json"
}
