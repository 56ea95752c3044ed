// Package httpclient builds the HTTP client used to fetch remote ranking lists.
package httpclient

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/imroc/req/v3"

	"github.com/tbckr/asnmap/internal/version"
)

// DefaultUserAgent identifies asnmap honestly so server operators can recognise its traffic.
// var (not const) because version.Version is a link-time variable.
var DefaultUserAgent = "asnmap/" + version.Version + " (+https://github.com/tbckr/asnmap)"

// New builds a *req.Client with optional proxy and User-Agent configuration.
// If userAgent is empty, DefaultUserAgent is used.
// proxy supports http://, https://, and socks5:// URLs via req's SetProxyURL.
// When proxy is empty, HTTP_PROXY / HTTPS_PROXY / NO_PROXY are honoured via
// http.ProxyFromEnvironment.
// When debug is true and logger is non-nil, every response is logged at DEBUG level.
func New(proxy, userAgent string, logger *slog.Logger, debug bool) (*req.Client, error) {
	client := req.NewClient()

	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	client.SetUserAgent(userAgent)

	if proxy != "" {
		if err := validateProxy(proxy); err != nil {
			return nil, fmt.Errorf("invalid proxy URL %q: %w", proxy, err)
		}
		client.SetProxyURL(proxy)
	} else {
		client.SetProxy(http.ProxyFromEnvironment)
	}

	if debug && logger != nil {
		attachDebugHook(client, logger)
	}

	return client, nil
}

// attachDebugHook logs the HTTP method, URL, and status code of every response.
func attachDebugHook(client *req.Client, logger *slog.Logger) {
	client.OnAfterResponse(func(_ *req.Client, resp *req.Response) error {
		if resp.Request == nil || resp.Request.RawRequest == nil {
			return nil
		}
		logger.Debug("http response",
			"method", resp.Request.RawRequest.Method,
			"url", resp.Request.RawRequest.URL.String(),
			"status", resp.StatusCode,
			"bytes", resp.ContentLength,
		)
		return nil
	})
}

func validateProxy(proxy string) error {
	for _, scheme := range []string{"http://", "https://", "socks5://"} {
		if strings.HasPrefix(proxy, scheme) {
			return nil
		}
	}
	return fmt.Errorf("proxy scheme must be http://, https://, or socks5://")
}
