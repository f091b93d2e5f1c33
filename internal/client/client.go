// Package client is a Go client for the compliance document API.
//
// Mutating calls (upload, verify, delete, mark read) are sent exactly once; failures are
// returned to the caller, who decides whether to retry.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"compliancedocs/internal/errs"
	"compliancedocs/internal/model"
)

// APIError is a non-2xx response. It matches the errs sentinels of its status class.
type APIError struct {
	Status    int
	Code      string
	Message   string
	RequestID string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d %s: %s", e.Status, e.Code, e.Message)
}

func (e *APIError) Is(target error) bool {
	switch e.Status {
	case http.StatusUnprocessableEntity, http.StatusBadRequest:
		return target == errs.ErrValidation
	case http.StatusConflict:
		return target == errs.ErrConflict
	case http.StatusNotFound:
		return target == errs.ErrNotFound
	case http.StatusUnauthorized:
		return target == errs.ErrUnauthorized
	case http.StatusForbidden:
		return target == errs.ErrForbidden
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return target == errs.ErrTransient
	}
	return false
}

// Client calls the API with a bearer token.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

type Option func(*Client)

// WithToken sets the bearer token sent with every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithHTTPClient replaces the default traced HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DownloadLink is a presigned URL to a stored file.
type DownloadLink struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// UploadRequest describes one file upload.
type UploadRequest struct {
	SubjectID       string
	DocumentTypeKey string
	FileName        string
	Content         io.Reader
	IssueDate       *time.Time
}

// DocumentTypes lists the catalog of kind. Kind may be empty for subject tokens.
func (c *Client) DocumentTypes(ctx context.Context, kind model.SubjectKind) ([]model.DocumentType, bool, error) {
	var res struct {
		Data  []model.DocumentType `json:"data"`
		Stale bool                 `json:"stale"`
	}
	q := url.Values{}
	if kind != "" {
		q.Set("kind", string(kind))
	}
	if err := c.do(ctx, http.MethodGet, "/document-types", q, nil, "", &res); err != nil {
		return nil, false, err
	}
	return res.Data, res.Stale, nil
}

// Overview returns a subject's derived document statuses. Admin tokens must pass kind.
func (c *Client) Overview(ctx context.Context, subjectID string, kind model.SubjectKind) (*model.Overview, error) {
	q := url.Values{}
	if kind != "" {
		q.Set("kind", string(kind))
	}
	var ov model.Overview
	if err := c.do(ctx, http.MethodGet, "/subjects/"+url.PathEscape(subjectID)+"/overview", q, nil, "", &ov); err != nil {
		return nil, err
	}
	return &ov, nil
}

// Documents returns a subject's current records in canonical form.
func (c *Client) Documents(ctx context.Context, subjectID string) ([]model.DocumentRecord, bool, error) {
	var res struct {
		Data  []json.RawMessage `json:"data"`
		Stale bool              `json:"stale"`
	}
	if err := c.do(ctx, http.MethodGet, "/documents/"+url.PathEscape(subjectID), nil, nil, "", &res); err != nil {
		return nil, false, err
	}
	records := make([]model.DocumentRecord, 0, len(res.Data))
	for _, raw := range res.Data {
		rec, err := NormalizeRecord(raw)
		if err != nil {
			return nil, false, err
		}
		records = append(records, rec)
	}
	return records, res.Stale, nil
}

func (c *Client) Upload(ctx context.Context, in UploadRequest) (*model.DocumentRecord, error) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	fields := map[string]string{
		"subject_id":        in.SubjectID,
		"document_type_key": in.DocumentTypeKey,
	}
	if in.IssueDate != nil {
		fields["issue_date"] = in.IssueDate.Format(time.DateOnly)
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, err
		}
	}
	part, err := w.CreateFormFile("file", in.FileName)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, in.Content); err != nil {
		return nil, fmt.Errorf("read upload content: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPost, "/documents/upload", nil, body, w.FormDataContentType(), &raw); err != nil {
		return nil, err
	}
	rec, err := NormalizeRecord(raw)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Verify sends a review decision. A stale id fails with an error matching errs.ErrConflict.
func (c *Client) Verify(ctx context.Context, recordID string, status model.VerificationStatus, notes string) (*model.DocumentRecord, error) {
	payload, err := json.Marshal(map[string]string{
		"verification_status": string(status),
		"notes":               notes,
	})
	if err != nil {
		return nil, err
	}
	var raw json.RawMessage
	path := "/documents/" + url.PathEscape(recordID) + "/verify"
	if err := c.do(ctx, http.MethodPut, path, nil, bytes.NewReader(payload), "application/json", &raw); err != nil {
		return nil, err
	}
	rec, err := NormalizeRecord(raw)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (c *Client) Delete(ctx context.Context, recordID string) error {
	return c.do(ctx, http.MethodDelete, "/documents/"+url.PathEscape(recordID), nil, nil, "", nil)
}

func (c *Client) DownloadURL(ctx context.Context, recordID string) (*DownloadLink, error) {
	var link DownloadLink
	if err := c.do(ctx, http.MethodGet, "/documents/"+url.PathEscape(recordID)+"/download", nil, nil, "", &link); err != nil {
		return nil, err
	}
	return &link, nil
}

// Notifications returns a subject's feed.
func (c *Client) Notifications(ctx context.Context, subjectID string) (*model.NotificationFeed, error) {
	return c.feed(ctx, http.MethodGet, "/subjects/"+url.PathEscape(subjectID)+"/notifications")
}

func (c *Client) MarkRead(ctx context.Context, subjectID, notificationID string) (*model.NotificationFeed, error) {
	return c.feed(ctx, http.MethodPut, "/subjects/"+url.PathEscape(subjectID)+"/notifications/"+url.PathEscape(notificationID)+"/read")
}

func (c *Client) MarkAllRead(ctx context.Context, subjectID string) (*model.NotificationFeed, error) {
	return c.feed(ctx, http.MethodPut, "/subjects/"+url.PathEscape(subjectID)+"/notifications/read-all")
}

// AdminNotifications returns the review queue.
func (c *Client) AdminNotifications(ctx context.Context) (*model.NotificationFeed, error) {
	return c.feed(ctx, http.MethodGet, "/admin/notifications")
}

func (c *Client) AdminMarkRead(ctx context.Context, notificationID string) (*model.NotificationFeed, error) {
	return c.feed(ctx, http.MethodPut, "/admin/notifications/"+url.PathEscape(notificationID)+"/read")
}

func (c *Client) AdminMarkAllRead(ctx context.Context) (*model.NotificationFeed, error) {
	return c.feed(ctx, http.MethodPut, "/admin/notifications/read-all")
}

func (c *Client) feed(ctx context.Context, method, path string) (*model.NotificationFeed, error) {
	var feed model.NotificationFeed
	if err := c.do(ctx, method, path, nil, nil, "", &feed); err != nil {
		return nil, err
	}
	return &feed, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return errs.Transient(method+" "+path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode, RequestID: resp.Header.Get("X-Request-ID")}
	var payload struct {
		RequestID string `json:"request_id"`
		Error     struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(data, &payload); err == nil {
		apiErr.Code = payload.Error.Code
		apiErr.Message = payload.Error.Message
		if payload.RequestID != "" {
			apiErr.RequestID = payload.RequestID
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}
