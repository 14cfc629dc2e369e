package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	ex "ratios.service/data/extensions"
)

func TestClientHostRequestRewritesHost(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	host := strings.TrimPrefix(server.URL, "http://")
	conn := NewClientHost("http", host, time.Second)

	endpoint := &url.URL{Path: "query", RawQuery: "function=OVERVIEW&symbol=IBM"}
	response, err := conn.Request(context.Background(), endpoint)
	if err != nil {
		t.Fatalf("error requesting endpoint: %s", err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		t.Fatalf("error reading body: %s", err)
	}

	ex.AssertAreEqual(t, "body", `{"ok":true}`, string(body))
	ex.AssertAreEqual(t, "query", "function=OVERVIEW&symbol=IBM", gotQuery)
	ex.AssertAreEqual(t, "host", host, endpoint.Host)
}

func TestClientHostRequestHonoursContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	conn := NewClientHost("http", strings.TrimPrefix(server.URL, "http://"), 5*time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := conn.Request(ctx, &url.URL{Path: "query"}); err == nil {
		t.Fatalf("expected cancelled context to fail the request")
	}
}

func TestClientFactory(t *testing.T) {
	c := ClientFactory("www.alphavantage.co", "demo", time.Second)
	ex.AssertAreEqual(t, "api key", "demo", c.ApiKey)

	host, ok := c.Connection.(*ClientHost)
	if !ok {
		t.Fatalf("expected *ClientHost connection, got %T", c.Connection)
	}
	ex.AssertAreEqual(t, "scheme", "https", host.scheme)
}
