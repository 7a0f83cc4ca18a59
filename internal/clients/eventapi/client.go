// Package eventapi is the HTTP client for the event service: event
// mutations, shared-access lookup and tag-based notification settings.
package eventapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/evermail/eventdialog/internal/domain"
)

// GraphQLError is one structured error entry from the service.
type GraphQLError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// APIError is a failed request with a decoded error body. Code exposes the
// first structured error code, the way conflict detection consumes it.
type APIError struct {
	StatusCode int
	Errors     []GraphQLError
}

func (e *APIError) Error() string {
	if len(e.Errors) > 0 {
		return fmt.Sprintf("event api error %d: %s (%s)", e.StatusCode, e.Errors[0].Message, e.Errors[0].Code)
	}
	return fmt.Sprintf("event api error %d", e.StatusCode)
}

// Code returns the first structured error code, empty when the body carried
// none.
func (e *APIError) Code() string {
	if len(e.Errors) > 0 {
		return e.Errors[0].Code
	}
	return ""
}

// Client is an event service API client.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a new event service client.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// doRequest performs an HTTP request with auth and decodes error bodies.
func (c *Client) doRequest(ctx context.Context, method, path string, body interface{}) ([]byte, error) {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var errBody struct {
			Errors []GraphQLError `json:"errors"`
		}
		if json.Unmarshal(respBody, &errBody) == nil {
			apiErr.Errors = errBody.Errors
		}
		return nil, apiErr
	}

	return respBody, nil
}

// CreateEvent creates an event from a message.
func (c *Client) CreateEvent(ctx context.Context, input CreateEventInput) (*domain.Event, error) {
	data, err := c.doRequest(ctx, http.MethodPost, "/events", input)
	if err != nil {
		return nil, err
	}

	var resp eventResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal event: %w", err)
	}
	return resp.toDomain(), nil
}

// UpdateEvent updates an existing event.
func (c *Client) UpdateEvent(ctx context.Context, id string, input EventInput) (*domain.Event, error) {
	data, err := c.doRequest(ctx, http.MethodPut, "/events/"+url.PathEscape(id), input)
	if err != nil {
		return nil, err
	}

	var resp eventResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal event: %w", err)
	}
	return resp.toDomain(), nil
}

// DeleteEvent deletes an event by id.
func (c *Client) DeleteEvent(ctx context.Context, id string) error {
	_, err := c.doRequest(ctx, http.MethodDelete, "/events/"+url.PathEscape(id), nil)
	return err
}

// GetSharedAccess returns the users sharing their calendars with the caller.
func (c *Client) GetSharedAccess(ctx context.Context) (*domain.SharedAccess, error) {
	data, err := c.doRequest(ctx, http.MethodGet, "/shared-access", nil)
	if err != nil {
		return nil, err
	}

	var resp sharedAccessResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal shared access: %w", err)
	}

	access := &domain.SharedAccess{}
	for _, u := range resp.TargetUsers {
		access.TargetUsers = append(access.TargetUsers, u.toDomain())
	}
	return access, nil
}

// NotificationSettingsByTag returns the tag-derived default lead times.
func (c *Client) NotificationSettingsByTag(ctx context.Context, tagID string) ([]domain.NotificationSetting, error) {
	data, err := c.doRequest(ctx, http.MethodGet, "/notification-settings?tag_id="+url.QueryEscape(tagID), nil)
	if err != nil {
		return nil, err
	}

	var resp notificationSettingsResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal notification settings: %w", err)
	}

	var settings []domain.NotificationSetting
	for _, item := range resp.Items {
		settings = append(settings, domain.NotificationSetting{
			NotifyBefore: time.Duration(item.NotifyBefore) * time.Millisecond,
		})
	}
	return settings, nil
}
