package agentspace

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"github.com/datatonic/weatherops/pkg/utils/json"
)

const defaultTimeout = 30 * time.Second

// Client issues single-shot authenticated calls against the agent
// directory of one Agentspace application. Calls are never retried and
// never idempotency-guarded; each operation is exactly one HTTP round
// trip. The client classifies nothing and prints nothing — failures come
// back as typed errors for the caller to categorize.
type Client struct {
	cfg        Config
	baseURL    string
	tokens     oauth2.TokenSource
	httpClient *http.Client
}

// NewClient creates a client for cfg. A nil httpClient gets a default
// with a request timeout.
func NewClient(cfg Config, tokens oauth2.TokenSource, httpClient *http.Client) *Client {
	if cfg.UserProject == "" {
		cfg.UserProject = cfg.ProjectID
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	baseURL := cfg.Endpoint
	if baseURL == "" {
		baseURL = EndpointURL(cfg)
	}
	return &Client{
		cfg:        cfg,
		baseURL:    baseURL,
		tokens:     tokens,
		httpClient: httpClient,
	}
}

// Link creates a directory entry pointing at the given reasoning engine.
func (c *Client) Link(ctx context.Context, engine ReasoningEngine, displayName, description, toolDescription string) (*LinkResult, error) {
	payload := linkRequest{
		DisplayName: displayName,
		Description: description,
		AdkAgentDefinition: adkAgentDefinition{
			ToolSettings:               toolSettings{ToolDescription: toolDescription},
			ProvisionedReasoningEngine: provisionedReasoningEngine{ReasoningEngine: engine.ResourcePath()},
		},
	}
	raw, err := c.do(ctx, http.MethodPost, c.baseURL, payload)
	if err != nil {
		return nil, err
	}
	var agent Agent
	if err := json.Unmarshal(raw, &agent); err != nil {
		return nil, fmt.Errorf("decode link response: %w", err)
	}
	return &LinkResult{Agent: agent, Raw: raw}, nil
}

// List returns every agent currently linked into the application.
func (c *Client) List(ctx context.Context) (*ListResult, error) {
	raw, err := c.do(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return nil, err
	}
	var listing listResponse
	if err := json.Unmarshal(raw, &listing); err != nil {
		return nil, fmt.Errorf("decode list response: %w", err)
	}
	return &ListResult{Agents: listing.Agents, Raw: raw}, nil
}

// Delete removes the directory entry with the given per-agent resource
// ID.
func (c *Client) Delete(ctx context.Context, agentID string) (*DeleteResult, error) {
	raw, err := c.do(ctx, http.MethodDelete, c.baseURL+"/"+agentID, nil)
	if err != nil {
		return nil, err
	}
	return &DeleteResult{AgentID: agentID, Raw: raw}, nil
}

func (c *Client) do(ctx context.Context, method, url string, payload any) ([]byte, error) {
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
	req.Header.Set("X-Goog-User-Project", c.cfg.UserProject)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &StatusError{Code: resp.StatusCode, Status: resp.Status, Body: string(raw)}
	}
	return raw, nil
}
