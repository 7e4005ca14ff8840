// Package httputil provides HTTP error handling utilities for upstream calls.
package httputil

import (
	"fmt"
	"io"
	"net/http"
)

// MaxErrorBodySize caps how much of an upstream error body is kept in the error.
const MaxErrorBodySize = 500

// HTTPError represents a non-success HTTP response with status code and a
// truncated copy of the response body.
type HTTPError struct {
	StatusCode int
	Status     string
	Body       string
	URL        string
}

func (e *HTTPError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("%s (status %d): %s", e.Status, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("%s (status %d)", e.Status, e.StatusCode)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// CheckResponse returns an *HTTPError for 4xx/5xx responses and nil
// otherwise. On error the body is consumed and closed; callers should not
// read it again.
func CheckResponse(resp *http.Response) error {
	if resp.StatusCode < 400 {
		return nil
	}

	bodyBytes, readErr := io.ReadAll(resp.Body)
	resp.Body.Close()

	bodyStr := ""
	if readErr == nil && len(bodyBytes) > 0 {
		bodyStr = truncate(string(bodyBytes), MaxErrorBodySize)
	}

	url := ""
	if resp.Request != nil && resp.Request.URL != nil {
		url = resp.Request.URL.String()
	}

	return &HTTPError{
		StatusCode: resp.StatusCode,
		Status:     http.StatusText(resp.StatusCode),
		Body:       bodyStr,
		URL:        url,
	}
}
