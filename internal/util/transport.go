package util

import (
	"fmt"
	"net/http"
	"net/url"
)

// NewTransport returns an HTTP transport routed through the given proxies.
// With both proxies empty it honours HTTP_PROXY, HTTPS_PROXY and NO_PROXY.
func NewTransport(httpProxy, httpsProxy string) (*http.Transport, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()

	if httpProxy == "" && httpsProxy == "" {
		transport.Proxy = http.ProxyFromEnvironment
		return transport, nil
	}

	var httpURL, httpsURL *url.URL
	var err error
	if httpProxy != "" {
		if httpURL, err = url.Parse(httpProxy); err != nil {
			return nil, fmt.Errorf("parse http proxy: %w", err)
		}
	}
	if httpsProxy != "" {
		if httpsURL, err = url.Parse(httpsProxy); err != nil {
			return nil, fmt.Errorf("parse https proxy: %w", err)
		}
	}

	transport.Proxy = func(req *http.Request) (*url.URL, error) {
		if req.URL.Scheme == "https" && httpsURL != nil {
			return httpsURL, nil
		}
		if httpURL != nil {
			return httpURL, nil
		}
		return http.ProxyFromEnvironment(req)
	}
	return transport, nil
}
