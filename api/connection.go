package api

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

type Connection interface {
	Request(ctx context.Context, endpoint *url.URL) (*http.Response, error)
}

type ClientHost struct {
	client *http.Client
	host   string
	scheme string
}

type Client struct {
	Connection Connection
	ApiKey     string
}

func (conn *ClientHost) Request(ctx context.Context, endpoint *url.URL) (*http.Response, error) {
	endpoint.Scheme = conn.scheme
	endpoint.Host = conn.host
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, err
	}
	return conn.client.Do(req)
}

func ClientFactory(host string, apiKey string, timeout time.Duration) *Client {
	return &Client{
		Connection: NewClientHost("https", host, timeout),
		ApiKey:     apiKey,
	}
}

func NewClientHost(scheme, host string, timeout time.Duration) *ClientHost {
	return &ClientHost{
		client: &http.Client{Timeout: timeout},
		host:   host,
		scheme: scheme,
	}
}
