package travelport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/AbdulQureshi11/flight-listing-backend/internal/metrics"
)

const DefaultTimeout = 90 * time.Second

type ClientConfig struct {
	Endpoint string
	Username string
	Password string
	Timeout  time.Duration
}

// Client posts SOAP payloads to the Travelport endpoint. It does not retry.
type Client struct {
	endpoint string
	username string
	password string
	hc       *http.Client
}

func NewClient(cfg ClientConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}

	return &Client{
		endpoint: cfg.Endpoint,
		username: cfg.Username,
		password: cfg.Password,
		hc:       &http.Client{Timeout: timeout, Transport: transport},
	}
}

// Call submits payload and returns the raw response body whatever the HTTP
// status. Faults are detected by the caller from the body itself.
func (c *Client) Call(ctx context.Context, operation string, payload []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, NewUpstreamError(operation, err)
	}
	req.SetBasicAuth(c.username, c.password)
	req.Header.Set("Content-Type", "text/xml; charset=UTF-8")
	req.Header.Set("Accept", "text/xml")
	req.Header.Set("SOAPAction", "")

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		metrics.ObserveUpstream(operation, 0, time.Since(start))
		log.Error().Err(err).Str("operation", operation).Dur("duration", time.Since(start)).Msg("travelport request failed")
		return nil, NewUpstreamError(operation, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	dur := time.Since(start)
	metrics.ObserveUpstream(operation, resp.StatusCode, dur)
	if err != nil {
		return nil, NewUpstreamError(operation, fmt.Errorf("read body: %w", err))
	}

	log.Info().
		Str("operation", operation).
		Int("status", resp.StatusCode).
		Int("bytes", len(body)).
		Dur("duration", dur).
		Msg("travelport response")
	return body, nil
}
