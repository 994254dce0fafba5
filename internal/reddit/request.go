package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	apperrors "mentionscli/internal/errors"
)

// APIError represents a non-2xx response from the Reddit API.
type APIError struct {
	StatusCode int
	Message    string
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("reddit api error %d: %s", e.StatusCode, e.Message)
}

// doRequest performs a GET against path and returns the response body.
// Failed requests are not retried.
func (c *Client) doRequest(ctx context.Context, path string, query url.Values) ([]byte, error) {
	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	c.logger.Debug("reddit request", "path", path, "query", query.Encode())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.NewNetworkError("request failed", err).WithContext("path", path)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.NewNetworkError("read response", err).WithContext("path", path)
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{
			StatusCode: resp.StatusCode,
			Message:    http.StatusText(resp.StatusCode),
			Body:       body,
		}
		switch resp.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return nil, apperrors.NewAuthError("reddit rejected credentials", apiErr).WithContext("path", path)
		case http.StatusNotFound:
			return nil, apperrors.NewAppError(apperrors.ErrTypeNotFound, "reddit resource not found", apiErr).WithContext("path", path)
		default:
			return nil, apperrors.NewNetworkError("reddit request failed", apiErr).WithContext("path", path)
		}
	}

	return body, nil
}

// get performs a GET request and decodes the JSON response into result.
func (c *Client) get(ctx context.Context, path string, query url.Values, result any) error {
	body, err := c.doRequest(ctx, path, query)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, result); err != nil {
		return apperrors.NewDataError("unmarshal response", err).WithContext("path", path)
	}

	return nil
}

func rawQuery(kv ...string) url.Values {
	q := url.Values{"raw_json": {"1"}}
	for i := 0; i+1 < len(kv); i += 2 {
		q.Set(kv[i], kv[i+1])
	}
	return q
}
