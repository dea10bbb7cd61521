package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// maxErrorBodySize bounds how much of a failed response is read while looking for a provider error.
const maxErrorBodySize = 64 * 1024

// postJSON posts payload as JSON to the method under baseURL and decodes the reply into T.
//
//nolint:revive // Has no sense, it's cause Go doesn't allow struct methods to be generic.
func postJSON[T any](c *ClientImpl, ctx context.Context, baseURL, method string, payload any) (*T, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s request: %w", method, err)
	}

	return post[T](c, ctx, baseURL, method, "application/json", bytes.NewReader(body))
}

// postForm posts form as application/x-www-form-urlencoded to the method under baseURL and decodes the reply into T.
//
//nolint:revive // Has no sense, it's cause Go doesn't allow struct methods to be generic.
func postForm[T any](c *ClientImpl, ctx context.Context, baseURL, method string, form url.Values) (*T, error) {
	return post[T](c, ctx, baseURL, method, "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
}

//nolint:revive // Has no sense, it's cause Go doesn't allow struct methods to be generic.
func post[T any](
	c *ClientImpl,
	ctx context.Context,
	baseURL string,
	method string,
	contentType string,
	body io.Reader,
) (*T, error) {
	route, err := url.JoinPath(baseURL, method)
	if err != nil {
		return nil, err
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, route, body)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("key", c.apiKey)
	request.URL.RawQuery = query.Encode()
	request.Header.Set("Content-Type", contentType)

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, err
	}

	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, decodeError(response)
	}

	var result T
	if err = json.NewDecoder(response.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode %s response: %w", method, err)
	}

	return &result, nil
}

// decodeError turns a failed response into an *APIError when the body carries the provider's error envelope.
func decodeError(response *http.Response) error {
	data, err := io.ReadAll(io.LimitReader(response.Body, maxErrorBodySize))
	if err != nil {
		return fmt.Errorf("%w: %d", ErrUnexpectedHTTPStatus, response.StatusCode)
	}

	var envelope errorResponse
	if err = json.Unmarshal(data, &envelope); err != nil || envelope.Error == nil || envelope.Error.Message == "" {
		return fmt.Errorf("%w: %d", ErrUnexpectedHTTPStatus, response.StatusCode)
	}

	return newAPIError(response.StatusCode, envelope.Error.Message)
}
