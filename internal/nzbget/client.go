package nzbget

import (
	"net"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"
)

// Client talks to the NZBGet control socket over JSON-RPC. Credentials are
// carried in the URL userinfo the same way NZBGet's own scripts build it.
type Client struct {
	baseURL *url.URL
	http    *http.Client
}

// NewClient builds a client for an explicit endpoint URL.
func NewClient(rawURL string, timeout time.Duration) (*Client, error) {
	baseURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	return &Client{baseURL: baseURL, http: &http.Client{Timeout: timeout}}, nil
}

// NewClientFromEnv builds a client from the NZBOP_CONTROL* variables NZBGet
// hands to its scripts, falling back to local defaults so the sidecar can
// also run standalone. NZBGET_RPC_URL overrides the whole endpoint.
func NewClientFromEnv() (*Client, error) {
	ms := 3000
	if v := os.Getenv("NZBGET_TIMEOUT_MS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			ms = parsed
		}
	}

	if rawURL := os.Getenv("NZBGET_RPC_URL"); rawURL != "" {
		return NewClient(rawURL, time.Duration(ms)*time.Millisecond)
	}

	host := getenv("NZBOP_CONTROLIP", "127.0.0.1")
	if host == "0.0.0.0" {
		// The host listens on all interfaces; reach it via loopback.
		host = "127.0.0.1"
	}
	port := getenv("NZBOP_CONTROLPORT", "6789")
	user := getenv("NZBOP_CONTROLUSERNAME", "nzbget")
	pass := os.Getenv("NZBOP_CONTROLPASSWORD")

	baseURL := &url.URL{
		Scheme: "http",
		User:   url.UserPassword(user, pass),
		Host:   net.JoinHostPort(host, port),
		Path:   "/jsonrpc",
	}
	return &Client{baseURL: baseURL, http: &http.Client{Timeout: time.Duration(ms) * time.Millisecond}}, nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func (c *Client) BaseURL() *url.URL  { return c.baseURL }
func (c *Client) HTTP() *http.Client { return c.http }
