package agentengine

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/oauth2"

	"github.com/datatonic/weatherops/pkg/utils/json"
)

const (
	apiVersion = "v1"

	// DefaultStagingBucket is the staging location the managed runtime
	// requires at initialization; nothing in this repository writes to it.
	DefaultStagingBucket = "gs://test-data-source-for-agentspace"
)

// Config locates one deployed reasoning engine.
type Config struct {
	ProjectID string
	Location  string
	EngineID  string

	// StagingBucket is the runtime's staging location, a required
	// initialization parameter. Defaults to DefaultStagingBucket.
	StagingBucket string

	// Endpoint overrides the regional API endpoint; tests point it at a
	// local server. The zero value routes to
	// https://<location>-aiplatform.googleapis.com.
	Endpoint string
}

// ResourceName returns the fully qualified engine resource path.
func (c Config) ResourceName() string {
	return fmt.Sprintf("projects/%s/locations/%s/reasoningEngines/%s", c.ProjectID, c.Location, c.EngineID)
}

func (c Config) baseURL() string {
	endpoint := c.Endpoint
	if endpoint == "" {
		endpoint = fmt.Sprintf("https://%s-aiplatform.googleapis.com", c.Location)
	}
	return fmt.Sprintf("%s/%s/%s", endpoint, apiVersion, c.ResourceName())
}

// Engine is the deployed reasoning engine resource.
type Engine struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
}

// Session is a remote, server-side conversation context keyed by
// (user ID, session ID). Created and destroyed explicitly by the client.
type Session struct {
	ID     string         `json:"id"`
	UserID string         `json:"userId"`
	State  map[string]any `json:"state"`
}

// Client drives a deployed reasoning engine over its REST surface:
// resource lookup, session lifecycle, and streamed queries. Errors are
// returned untouched; this tooling has no retry or recovery layer.
type Client struct {
	cfg        Config
	baseURL    string
	tokens     oauth2.TokenSource
	httpClient *http.Client
}

// NewClient creates a client for cfg. A nil httpClient gets a default
// without an overall timeout, since streamed queries stay open for the
// whole agent turn.
func NewClient(cfg Config, tokens oauth2.TokenSource, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if cfg.StagingBucket == "" {
		cfg.StagingBucket = DefaultStagingBucket
	}
	return &Client{
		cfg:        cfg,
		baseURL:    cfg.baseURL(),
		tokens:     tokens,
		httpClient: httpClient,
	}
}

// Get fetches the engine resource, verifying it exists and is visible to
// the caller.
func (c *Client) Get(ctx context.Context) (*Engine, error) {
	raw, err := c.roundTrip(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return nil, err
	}
	var engine Engine
	if err := json.Unmarshal(raw, &engine); err != nil {
		return nil, fmt.Errorf("decode engine resource: %w", err)
	}
	return &engine, nil
}

// CreateSession opens a new session for userID and returns it.
func (c *Client) CreateSession(ctx context.Context, userID string) (*Session, error) {
	output, err := c.query(ctx, "create_session", map[string]any{"user_id": userID})
	if err != nil {
		return nil, err
	}
	var session Session
	if err := json.Unmarshal(output, &session); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	if session.UserID == "" {
		session.UserID = userID
	}
	return &session, nil
}

// DeleteSession destroys the session on the server.
func (c *Client) DeleteSession(ctx context.Context, userID, sessionID string) error {
	_, err := c.query(ctx, "delete_session", map[string]any{
		"user_id":    userID,
		"session_id": sessionID,
	})
	return err
}

// StreamQuery submits one user message against an open session and
// invokes fn for every event the engine streams back. Consumption is a
// sequential pull; fn runs on the calling goroutine.
func (c *Client) StreamQuery(ctx context.Context, userID, sessionID, message string, fn func(Event)) error {
	payload := map[string]any{
		"class_method": "stream_query",
		"input": map[string]any{
			"user_id":    userID,
			"session_id": sessionID,
			"message":    message,
		},
	}
	req, err := c.newRequest(ctx, http.MethodPost, c.baseURL+":streamQuery?alt=sse", payload)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("engine returned %s: %s", resp.Status, string(body))
	}

	scanner := bufio.NewScanner(resp.Body)
	// Events carry whole model turns; allow large lines.
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		line = strings.TrimPrefix(line, "data: ")

		var event Event
		if err := json.Unmarshal([]byte(line), &event); err != nil {
			return fmt.Errorf("decode stream event: %w", err)
		}
		event.Raw = []byte(line)
		if fn != nil {
			fn(event)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read stream: %w", err)
	}
	return nil
}

// query issues one :query call for a registered class method and returns
// the raw output payload.
func (c *Client) query(ctx context.Context, classMethod string, input map[string]any) ([]byte, error) {
	payload := map[string]any{
		"class_method": classMethod,
		"input":        input,
	}
	raw, err := c.roundTrip(ctx, http.MethodPost, c.baseURL+":query", payload)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", classMethod, err)
	}
	var envelope struct {
		Output json.RawMessage `json:"output"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("%s: decode response: %w", classMethod, err)
	}
	if len(envelope.Output) == 0 {
		return raw, nil
	}
	return envelope.Output, nil
}

func (c *Client) newRequest(ctx context.Context, method, url string, payload any) (*http.Request, error) {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	token, err := c.tokens.Token()
	if err != nil {
		return nil, fmt.Errorf("resolve access token: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func (c *Client) roundTrip(ctx context.Context, method, url string, payload any) ([]byte, error) {
	req, err := c.newRequest(ctx, method, url, payload)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("engine returned %s: %s", resp.Status, string(raw))
	}
	return raw, nil
}
