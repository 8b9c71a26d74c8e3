// Package gateway talks to the spreadsheet-backed Apps Script endpoint.
//
// Reads are GET requests with an action query parameter. Writes are POSTs
// whose body is a JSON {action, data} document sent as text/plain, which
// avoids a CORS preflight on the endpoint side.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Read actions.
const (
	ActionGetTransactions = "getTransactions"
	ActionGetPrograms     = "getPrograms"
	ActionGetLocations    = "getLocations"
	ActionGetConfig       = "getConfig"
)

// Write actions.
const (
	ActionUpdateConfig            = "updateConfig"
	ActionApproveTransaction      = "approveTransaction"
	ActionSubmitDonation          = "submitDonation"
	ActionSubmitManualTransaction = "submitManualTransaction"
)

const (
	statusSuccess = "success"
	statusError   = "error"

	// maxBodyBytes bounds a response body; attachments never come back.
	maxBodyBytes = 16 << 20
)

// ErrNoEndpoint is returned when no endpoint URL is configured.
var ErrNoEndpoint = errors.New("gateway endpoint not configured")

// Envelope is the response document of every action.
type Envelope struct {
	Status  string          `json:"status"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
}

// Client performs requests against one endpoint.
type Client struct {
	endpoint string
	http     *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout bounds every request. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// NewClient creates a Client for endpoint.
func NewClient(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint: strings.TrimSpace(endpoint),
		http:     &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the configured endpoint URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Get runs a read action and returns the decoded data payload: a []any,
// a map[string]any, or a scalar. Numbers decode as json.Number.
func (c *Client) Get(ctx context.Context, action string, params url.Values) (any, error) {
	if c.endpoint == "" {
		return nil, &Error{Kind: KindNetwork, Action: action, Err: ErrNoEndpoint}
	}

	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Action: action, Err: fmt.Errorf("parsing endpoint: %w", err)}
	}
	q := u.Query()
	q.Set("action", action)
	for k, vs := range params {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Action: action, Err: fmt.Errorf("building request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")

	body, err := c.do(req, action)
	if err != nil {
		return nil, err
	}
	return decodeData(body, action)
}

// Post runs a write action. It succeeds only when the endpoint answers
// with status "success".
func (c *Client) Post(ctx context.Context, action string, data any) error {
	if c.endpoint == "" {
		return &Error{Kind: KindNetwork, Action: action, Err: ErrNoEndpoint}
	}

	payload, err := json.Marshal(struct {
		Action string `json:"action"`
		Data   any    `json:"data"`
	}{Action: action, Data: data})
	if err != nil {
		return &Error{Kind: KindParse, Action: action, Err: fmt.Errorf("encoding payload: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return &Error{Kind: KindNetwork, Action: action, Err: fmt.Errorf("building request: %w", err)}
	}
	req.Header.Set("Content-Type", "text/plain;charset=utf-8")

	body, err := c.do(req, action)
	if err != nil {
		return err
	}
	env, err := decodeEnvelope(body, action)
	if err != nil {
		return err
	}
	if env.Status != statusSuccess {
		return remoteError(action, env)
	}
	return nil
}

func (c *Client) do(req *http.Request, action string) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Action: action, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Action: action, Err: fmt.Errorf("reading body: %w", err)}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{Kind: KindNetwork, Action: action, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}
	if isHTML(resp.Header.Get("Content-Type"), body) {
		// Apps Script answers with an HTML page when the deployment is not public.
		return nil, &Error{Kind: KindParse, Action: action, Err: errors.New("endpoint returned HTML; check deployment access")}
	}
	return body, nil
}

func decodeData(body []byte, action string) (any, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		// Some deployments return the bare row array.
		return decodeAny(trimmed, action)
	}

	env, err := decodeEnvelope(trimmed, action)
	if err != nil {
		return nil, err
	}
	if env.Status == statusError {
		return nil, remoteError(action, env)
	}
	if len(env.Data) == 0 {
		return nil, &Error{Kind: KindShape, Action: action, Err: errors.New("response has no data")}
	}
	return decodeAny(env.Data, action)
}

func decodeEnvelope(body []byte, action string) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return Envelope{}, &Error{Kind: KindParse, Action: action, Err: fmt.Errorf("decoding response: %w", err)}
	}
	return env, nil
}

func decodeAny(raw []byte, action string) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, &Error{Kind: KindParse, Action: action, Err: fmt.Errorf("decoding data: %w", err)}
	}
	return v, nil
}

func remoteError(action string, env Envelope) error {
	msg := env.Message
	if msg == "" {
		msg = fmt.Sprintf("status %q", env.Status)
	}
	return &Error{Kind: KindRemote, Action: action, Err: errors.New(msg)}
}

func isHTML(contentType string, body []byte) bool {
	if strings.Contains(strings.ToLower(contentType), "text/html") {
		return true
	}
	trimmed := bytes.TrimSpace(body)
	return len(trimmed) > 0 && trimmed[0] == '<'
}
