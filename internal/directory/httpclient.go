package directory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/authgate/internal/common"
)

// HTTPClient is the production Client: it POSTs query documents to the
// directory endpoint as JSON and decodes the {data, errors} envelope.
type HTTPClient struct {
	httpClient  *http.Client
	url         string
	adminSecret string
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient returns an HTTPClient for the given endpoint. Every call is
// bounded by timeout in addition to the caller's context; there are no
// retries, since create-user is not idempotent under the backend contract.
func NewHTTPClient(url, adminSecret string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		httpClient:  &http.Client{Timeout: timeout},
		url:         url,
		adminSecret: adminSecret,
	}
}

// CreateUser persists a new account and returns the created identity. The
// returned User never carries the credential representation back.
func (c *HTTPClient) CreateUser(ctx context.Context, user *User) (*User, error) {
	vars := CreateUserVariables{
		Username:     user.Username,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
	}

	var data CreateUserData
	if err := c.query(ctx, CreateUserDocument, vars, &data); err != nil {
		return nil, err
	}

	if data.InsertUsersOne == nil {
		return nil, fmt.Errorf("%w: create returned no user", common.ErrInconsistent)
	}

	return &User{Username: data.InsertUsersOne.Username, Email: data.InsertUsersOne.Email}, nil
}

// GetUser fetches the stored credential representation for username.
// An unknown username is (nil, nil), not an error.
func (c *HTTPClient) GetUser(ctx context.Context, username string) (*User, error) {
	var data GetUserData
	if err := c.query(ctx, GetUserDocument, GetUserVariables{Username: username}, &data); err != nil {
		return nil, err
	}

	row := data.UsersByPK
	if row == nil {
		return nil, nil
	}

	return &User{Username: row.Username, Email: row.Email, PasswordHash: row.PasswordHash}, nil
}

// query runs one document against the directory and decodes the data field
// into out. Outcome mapping lives here so both operations behave alike.
func (c *HTTPClient) query(ctx context.Context, document string, variables any, out any) error {
	rawVars, err := json.Marshal(variables)
	if err != nil {
		return fmt.Errorf("error encoding variables: %w", err)
	}

	body, err := json.Marshal(Request{Query: document, Variables: rawVars})
	if err != nil {
		return fmt.Errorf("error encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(AdminSecretHeader, c.adminSecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: directory returned status %d", common.ErrUnavailable, resp.StatusCode)
	}

	var envelope struct {
		Data   json.RawMessage `json:"data"`
		Errors []Error         `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("%w: %v", common.ErrInconsistent, err)
	}

	if len(envelope.Errors) > 0 {
		return mapReportedErrors(envelope.Errors)
	}

	if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return fmt.Errorf("%w: empty data", common.ErrInconsistent)
	}

	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("%w: %v", common.ErrInconsistent, err)
	}

	return nil
}

// mapReportedErrors classifies the backend's error list. A uniqueness
// violation means the account already exists; anything else is treated as
// the directory failing us. The raw messages stay inside the wrapped error
// for logging and are never shown to clients.
func mapReportedErrors(errs []Error) error {
	messages := make([]string, 0, len(errs))
	for _, e := range errs {
		if e.Extensions.Code == CodeConstraintViolation ||
			strings.Contains(e.Message, "Uniqueness violation") {
			return common.ErrConflict
		}
		messages = append(messages, e.Message)
	}
	return fmt.Errorf("%w: %s", common.ErrUnavailable, strings.Join(messages, "; "))
}
