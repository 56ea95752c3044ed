package httpclient

import (
	"github.com/imroc/req/v3"

	"github.com/tbckr/asnmap/internal/ratelimit"
)

// AttachRateLimit gates every outbound request of client on limiter.
// Requests are sent once; a failed request is never retried.
func AttachRateLimit(client *req.Client, limiter *ratelimit.Limiter) {
	client.OnBeforeRequest(func(_ *req.Client, r *req.Request) error {
		return limiter.Wait(r.Context())
	})
}
