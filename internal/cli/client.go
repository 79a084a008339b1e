package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// GatewayClient talks to a running authgate instance over its public HTTP
// contract.
type GatewayClient struct {
	httpClient *http.Client
	baseURL    string
}

func NewGatewayClient(baseURL string) *GatewayClient {
	return &GatewayClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    baseURL,
	}
}

type registerResult struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (c *GatewayClient) Register(ctx context.Context, username, email string, password []byte) (*registerResult, error) {
	var out registerResult
	err := c.postJSON(ctx, "/register", map[string]string{
		"username": username,
		"email":    email,
		"password": string(password),
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *GatewayClient) Login(ctx context.Context, username string, password []byte) (string, error) {
	var out struct {
		Token string `json:"token"`
	}
	err := c.postJSON(ctx, "/login", map[string]string{
		"username": username,
		"password": string(password),
	}, &out)
	if err != nil {
		return "", err
	}
	return out.Token, nil
}

func (c *GatewayClient) Me(ctx context.Context, token string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/me", nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var out struct {
		Username string `json:"username"`
		Error    string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gateway: %s", out.Error)
	}
	return out.Username, nil
}

func (c *GatewayClient) postJSON(ctx context.Context, path string, body, out any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return fmt.Errorf("gateway: %s", apiErr.Error)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
