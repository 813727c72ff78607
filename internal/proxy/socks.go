// Package proxy builds the optional SOCKS5 egress used by the LLM and web API
// clients in locked-down networks.
package proxy

import (
	"context"
	"net"
	"net/http"
	"time"

	"golang.org/x/net/proxy"
)

// NewHTTPClient returns an http.Client dialing through the SOCKS5 proxy at
// socksAddr, or a plain client when socksAddr is empty.
func NewHTTPClient(socksAddr string, timeout time.Duration) (*http.Client, error) {
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	if socksAddr == "" {
		return &http.Client{Timeout: timeout}, nil
	}

	dialer, err := proxy.SOCKS5("tcp", socksAddr, nil, proxy.Direct)
	if err != nil {
		return nil, err
	}

	transport := &http.Transport{
		DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			return dialer.Dial(network, addr)
		},
	}
	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}, nil
}
