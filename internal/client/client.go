// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package client is the HTTP client of the Libris API used by editing tools.

It unwraps the {"data": ...} envelope of successful responses, turns error
envelopes into [*APIError], and implements [form.Transport] so a wizard can
post its submission through it.
*/
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/taibuivan/libris/internal/core/entity"
	"github.com/taibuivan/libris/internal/core/revision"
	"github.com/taibuivan/libris/internal/form"
	"github.com/taibuivan/libris/internal/platform/constants"
)

// apiPrefix is the versioned root of every endpoint.
const apiPrefix = "/api/v1"

// APIError is a non-2xx response of the API.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("libris api: %d %s: %s", e.Status, e.Code, e.Message)
}

// Client talks to one Libris API server.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// New creates a client for baseURL. An empty token sends anonymous requests.
func New(baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: timeout},
	}
}

// GetEntity loads the master revision of an entity.
func (c *Client) GetEntity(ctx context.Context, t entity.Type, bbid string) (*entity.Page, error) {
	var page entity.Page
	if err := c.do(ctx, http.MethodGet, "/"+t.Kebab()+"/"+url.PathEscape(bbid), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// ListIdentifierTypes returns the identifier types allowed for a new entity of
// family t, or for the existing entity bbid when it is not empty.
func (c *Client) ListIdentifierTypes(ctx context.Context, t entity.Type, bbid string) ([]entity.IdentifierType, error) {
	query := url.Values{entity.FieldEntityType: {string(t)}}
	if bbid != "" {
		query.Set(entity.FieldBBID, bbid)
	}

	var identifierTypes []entity.IdentifierType
	err := c.do(ctx, http.MethodGet, "/identifier-types?"+query.Encode(), nil, &identifierTypes)
	return identifierTypes, err
}

// ListRevisions returns one page of the editing history, newest first.
func (c *Client) ListRevisions(ctx context.Context, from, size int) ([]revision.Assembled, error) {
	query := url.Values{"from": {strconv.Itoa(from)}, "size": {strconv.Itoa(size)}}

	var revisions []revision.Assembled
	err := c.do(ctx, http.MethodGet, "/revisions?"+query.Encode(), nil, &revisions)
	return revisions, err
}

// Submit implements [form.Transport].
//
// A 401 response is reported as [form.ErrUnauthorized].
func (c *Client) Submit(ctx context.Context, target form.Target, submission entity.Submission) (*entity.SubmissionResult, error) {
	path := "/" + target.Type.Kebab() + "/create/handler"
	if target.BBID != "" {
		path = "/" + target.Type.Kebab() + "/" + url.PathEscape(target.BBID) + "/edit/handler"
	}

	submission.Type = target.Type

	var result entity.SubmissionResult
	if err := c.do(ctx, http.MethodPost, path, submission, &result); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
			return nil, fmt.Errorf("%w: %s", form.ErrUnauthorized, apiErr.Message)
		}
		return nil, err
	}

	return &result, nil
}

// do sends one request and decodes the data envelope of the response into out.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	request, err := http.NewRequestWithContext(ctx, method, c.baseURL+apiPrefix+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	request.Header.Set("Accept", "application/json")
	if in != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		request.Header.Set(constants.HeaderAuthorization, "Bearer "+c.token)
	}

	response, err := c.http.Do(request)
	if err != nil {
		return fmt.Errorf("libris request failed: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode >= http.StatusBadRequest {
		return decodeError(response)
	}

	if out == nil || response.StatusCode == http.StatusNoContent {
		return nil
	}

	envelope := struct {
		Data any `json:"data"`
	}{Data: out}
	if err := json.NewDecoder(response.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

func decodeError(response *http.Response) error {
	apiErr := &APIError{Status: response.StatusCode, Code: http.StatusText(response.StatusCode)}

	raw, _ := io.ReadAll(io.LimitReader(response.Body, 64<<10))
	var envelope struct {
		Error string `json:"error"`
		Code  string `json:"code"`
	}
	if json.Unmarshal(raw, &envelope) == nil && envelope.Code != "" {
		apiErr.Code = envelope.Code
		apiErr.Message = envelope.Error
	} else {
		apiErr.Message = strings.TrimSpace(string(raw))
	}

	return apiErr
}
