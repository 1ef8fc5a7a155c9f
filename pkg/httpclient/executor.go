package httpclient

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/go-resty/resty/v2"
)

// ContentTypeJSON is sent on every request regardless of method.
const ContentTypeJSON = "application/json"

// BodyMode selects how the response body is turned into the returned string.
type BodyMode string

const (
	// BodyModeLines concatenates the body lines with no separator, dropping line breaks.
	BodyModeLines BodyMode = "lines"
	// BodyModeRaw returns the body bytes untouched.
	BodyModeRaw BodyMode = "raw"
)

// ParseBodyMode validates a configured body mode. Empty means BodyModeLines.
func ParseBodyMode(s string) (BodyMode, error) {
	switch BodyMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", BodyModeLines:
		return BodyModeLines, nil
	case BodyModeRaw:
		return BodyModeRaw, nil
	default:
		return "", fmt.Errorf("unsupported response body mode %q (expected %q or %q)", s, BodyModeLines, BodyModeRaw)
	}
}

// Request describes a single call. Payload is only sent for POST and PUT.
type Request struct {
	URL     string
	Method  string
	Payload string
}

// Result is the decoded response. StatusCode is reported but never inspected.
type Result struct {
	Body       string
	StatusCode int
	Status     string
}

// Executor issues one blocking request per call. It keeps no per-call state.
type Executor struct {
	client Client
	mode   BodyMode
	log    resty.Logger
}

// Option configures an Executor.
type Option func(*Executor)

// WithClient injects the transport used by the executor.
func WithClient(c Client) Option {
	return func(e *Executor) { e.client = c }
}

// WithBodyMode selects how response bodies are decoded.
func WithBodyMode(m BodyMode) Option {
	return func(e *Executor) { e.mode = m }
}

// WithLogger hands a logger to the default resty transport.
func WithLogger(l resty.Logger) Option {
	return func(e *Executor) { e.log = l }
}

// NewExecutor builds an executor backed by resty with no timeout and no retries.
func NewExecutor(opts ...Option) *Executor {
	e := &Executor{mode: BodyModeLines}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	if e.client == nil {
		rc := NewRestyClient(0)
		rc.SetLogger(e.log)
		e.client = rc
	}
	if e.mode == "" {
		e.mode = BodyModeLines
	}
	return e
}

var defaultExecutor = sync.OnceValue(func() *Executor { return NewExecutor() })

// Execute performs the request with the package default executor.
func Execute(ctx context.Context, url, method, payload string) (string, error) {
	return defaultExecutor().Execute(ctx, url, method, payload)
}

// Execute sends method to url and returns the decoded body. A payload is
// written only for POST and PUT. Any transport failure is a *NetworkError.
func (e *Executor) Execute(ctx context.Context, url, method, payload string) (string, error) {
	res, err := e.Do(ctx, Request{URL: url, Method: method, Payload: payload})
	if err != nil {
		return "", err
	}
	return res.Body, nil
}

// Do is Execute with the status line kept alongside the body.
func (e *Executor) Do(ctx context.Context, req Request) (*Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	method := normalizeMethod(req.Method)

	var body []byte
	if writesBody(method) {
		body = []byte(req.Payload)
		if body == nil {
			body = []byte{}
		}
	}

	resp, err := e.client.Do(ctx, method, req.URL, map[string]string{"Content-Type": ContentTypeJSON}, body)
	if err != nil {
		return nil, &NetworkError{Method: method, URL: req.URL, Err: err}
	}

	return &Result{
		Body:       decodeBody(resp.Body(), e.mode),
		StatusCode: resp.StatusCode(),
		Status:     resp.Status(),
	}, nil
}

// normalizeMethod upper-cases the verb; anything else passes through to the transport.
func normalizeMethod(method string) string {
	method = strings.ToUpper(strings.TrimSpace(method))
	if method == "" {
		return http.MethodGet
	}
	return method
}

func writesBody(method string) bool {
	return method == http.MethodPost || method == http.MethodPut
}

func decodeBody(body []byte, mode BodyMode) string {
	if mode == BodyModeRaw {
		return string(body)
	}
	return joinLines(body)
}

// joinLines concatenates the body's lines with their terminators removed.
// Terminators are "\r\n", "\n", "\r", U+0085, U+2028 and U+2029.
func joinLines(body []byte) string {
	sc := bufio.NewScanner(bytes.NewReader(body))
	sc.Buffer(nil, max(len(body)+1, bufio.MaxScanTokenSize))
	sc.Split(scanLines)

	var b strings.Builder
	b.Grow(len(body))
	for sc.Scan() {
		b.Write(sc.Bytes())
	}
	return b.String()
}

// scanLines is a bufio.SplitFunc that recognises every line terminator joinLines drops.
func scanLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	for i := 0; i < len(data); {
		if !atEOF && !utf8.FullRune(data[i:]) {
			return 0, nil, nil
		}
		r, size := utf8.DecodeRune(data[i:])
		switch r {
		case '\n', '\u0085', '\u2028', '\u2029':
			return i + size, data[:i], nil
		case '\r':
			if i+1 < len(data) {
				if data[i+1] == '\n' {
					return i + 2, data[:i], nil
				}
				return i + 1, data[:i], nil
			}
			if !atEOF {
				return 0, nil, nil
			}
			return i + 1, data[:i], nil
		}
		i += size
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}
