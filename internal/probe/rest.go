// Package probe verifies a harvested token against the live API, over plain
// HTTP and over the streaming WebSocket endpoint.
package probe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// RESTResult is the outcome of one authorized REST call.
type RESTResult struct {
	StatusCode int
	LatencyMs  float64
	// Authorized is false when the API rejected the credential outright.
	Authorized bool
}

// CheckREST issues one GET with the token as bearer credential and reports
// status and latency. A non-2xx status is not an error: the call itself
// succeeded and the status is part of the result.
func CheckREST(ctx context.Context, baseURL, path, token string) (RESTResult, error) {
	client := &http.Client{Timeout: 10 * time.Second}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+path, nil)
	if err != nil {
		return RESTResult{}, fmt.Errorf("could not create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := client.Do(req)
	latencyMs := float64(time.Since(start).Milliseconds())
	if err != nil {
		return RESTResult{LatencyMs: latencyMs}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	// drain so the connection can be reused
	_, _ = io.Copy(io.Discard, resp.Body)

	return RESTResult{
		StatusCode: resp.StatusCode,
		LatencyMs:  latencyMs,
		Authorized: resp.StatusCode != http.StatusUnauthorized && resp.StatusCode != http.StatusForbidden,
	}, nil
}
