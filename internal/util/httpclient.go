package util

import (
	"net/http"
	"net/url"
	"time"

	"github.com/ppiankov/vocabcheck/internal/model"
	"golang.org/x/net/http/httpproxy"
)

// NewProxyFunc creates a proxy function for outbound backend calls.
// Explicit proxy settings take precedence; a scheme or no_proxy list left
// unset falls back to the environment.
func NewProxyFunc(cfg model.HTTPConfig) func(*http.Request) (*url.URL, error) {
	if cfg.HTTPProxy == "" && cfg.HTTPSProxy == "" {
		return http.ProxyFromEnvironment
	}

	proxyCfg := httpproxy.FromEnvironment()
	if cfg.HTTPProxy != "" {
		proxyCfg.HTTPProxy = cfg.HTTPProxy
	}
	if cfg.HTTPSProxy != "" {
		proxyCfg.HTTPSProxy = cfg.HTTPSProxy
	}
	if cfg.NoProxy != "" {
		proxyCfg.NoProxy = cfg.NoProxy
	}
	proxy := proxyCfg.ProxyFunc()

	return func(req *http.Request) (*url.URL, error) {
		return proxy(req.URL)
	}
}

// NewHTTPClient builds the client shared by the HTTP tagger and classifier backends
func NewHTTPClient(timeout time.Duration, cfg model.HTTPConfig) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy: NewProxyFunc(cfg),
		},
	}
}
