// Package ollama is a small client for the HTTP API the Ollama server in the
// container publishes on the host.
package ollama

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultModel is the model generate uses when none is given.
	DefaultModel = "gpt-oss:20b"
	// DefaultReadyTimeout bounds WaitReady when the caller has no deadline.
	DefaultReadyTimeout = 2 * time.Minute
	// DefaultReadyInterval is the interval between readiness checks.
	DefaultReadyInterval = time.Second
	// MaxStreamLine bounds one line of a streamed response. The final
	// /api/generate chunk carries the whole context array and easily
	// exceeds bufio's default token size.
	MaxStreamLine = 16 << 20
)

// Client represents an Ollama API client
type Client struct {
	baseURL  string
	client   *http.Client
	interval time.Duration
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(o *Client) {
		if c != nil {
			o.client = c
		}
	}
}

// WithReadyInterval sets how often WaitReady polls the server.
func WithReadyInterval(d time.Duration) Option {
	return func(o *Client) {
		if d > 0 {
			o.interval = d
		}
	}
}

// NewClient creates a new Ollama client
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		client:   &http.Client{},
		interval: DefaultReadyInterval,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL builds the API URL for a host and port as published by the
// container, e.g. http://127.0.0.1:11434. host may also be given in the
// OLLAMA_HOST forms host:port or scheme://host:port, in which case the
// embedded scheme and port win.
func BaseURL(host string, port int) string {
	scheme := "http"
	if s, rest, ok := strings.Cut(host, "://"); ok {
		scheme, host = s, rest
	}
	host, _, _ = strings.Cut(host, "/")
	if h, p, err := net.SplitHostPort(host); err == nil {
		host = h
		if n, err := strconv.Atoi(p); err == nil {
			port = n
		}
	}
	host = strings.Trim(host, "[]")
	if host == "" || host == "0.0.0.0" {
		host = "127.0.0.1"
	}
	return scheme + "://" + net.JoinHostPort(host, strconv.Itoa(port))
}

// URL returns the client's base URL.
func (c *Client) URL() string {
	return c.baseURL
}

// Pull pulls a model from the ollama registry
func (c *Client) Pull(ctx context.Context, modelName string, progressCallback func(string)) error {
	resp, err := c.post(ctx, APIPrefix+"/pull", PullRequest{Name: modelName, Stream: true})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError("pull", resp)
	}

	scanner := newStreamScanner(resp.Body)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var pullResp PullStatus
		if err := json.Unmarshal(line, &pullResp); err != nil {
			continue // Skip malformed lines
		}
		if pullResp.Error != "" {
			return fmt.Errorf("pull failed: %s", pullResp.Error)
		}

		if progressCallback != nil {
			if pullResp.Total > 0 && pullResp.Completed > 0 {
				percent := float64(pullResp.Completed) / float64(pullResp.Total) * 100
				progressCallback(fmt.Sprintf("%s: %.1f%%", pullResp.Status, percent))
			} else {
				progressCallback(pullResp.Status)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading response: %w", err)
	}

	return nil
}

// Generate streams the completion for req to streamCallback and returns
// the final chunk, which carries the timing statistics. The request is
// always sent in streaming mode.
func (c *Client) Generate(ctx context.Context, req GenerateRequest, streamCallback func(string)) (*GenerateResponse, error) {
	req.Stream = true
	resp, err := c.post(ctx, APIPrefix+"/generate", req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError("generate", resp)
	}

	var last GenerateResponse
	scanner := newStreamScanner(resp.Body)
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var genResp GenerateResponse
		if err := json.Unmarshal(line, &genResp); err != nil {
			continue // Skip malformed lines
		}
		if genResp.Error != "" {
			return nil, fmt.Errorf("generate failed: %s", genResp.Error)
		}

		if streamCallback != nil && genResp.Response != "" {
			streamCallback(genResp.Response)
		}
		last = genResp
		if genResp.Done {
			break
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading response: %w", err)
	}
	if !last.Done {
		return nil, errors.New("generate stream ended before completion")
	}

	return &last, nil
}

// List returns the installed models.
func (c *Client) List(ctx context.Context) ([]ModelResponse, error) {
	var out ListResponse
	if err := c.getJSON(ctx, APIPrefix+"/tags", "list", &out); err != nil {
		return nil, err
	}
	return out.Models, nil
}

// Version returns the server version.
func (c *Client) Version(ctx context.Context) (string, error) {
	var out VersionResponse
	if err := c.getJSON(ctx, APIPrefix+"/version", "version", &out); err != nil {
		return "", err
	}
	return out.Version, nil
}

// WaitReady polls the server until it answers /api/version. Without a
// deadline on ctx it gives up after DefaultReadyTimeout.
func (c *Client) WaitReady(ctx context.Context) (string, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultReadyTimeout)
		defer cancel()
	}

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		version, err := c.Version(ctx)
		if err == nil {
			return version, nil
		}
		select {
		case <-ctx.Done():
			return "", fmt.Errorf("ollama API at %s not ready: %w (last error: %v)", c.baseURL, ctx.Err(), err)
		case <-ticker.C:
		}
	}
}

func newStreamScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxStreamLine)
	return scanner
}

func (c *Client) post(ctx context.Context, path string, body any) (*http.Response, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("error marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error making request: %w", err)
	}
	return resp, nil
}

func (c *Client) getJSON(ctx context.Context, path, op string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError(op, resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("error decoding %s response: %w", op, err)
	}
	return nil
}

func statusError(op string, resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)
	return fmt.Errorf("%s failed with status %s: %s", op, resp.Status, strings.TrimSpace(string(body)))
}

// ExtractModelName extracts the model name from an ollama.com URL
// For example: "ollama.com/library/smollm:135m" -> "library/smollm:135m"
func ExtractModelName(fullName string) string {
	// Remove the "ollama.com/" prefix
	return strings.TrimPrefix(fullName, "ollama.com/")
}
