package httpclient_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbckr/asnmap/internal/httpclient"
	"github.com/tbckr/asnmap/internal/ratelimit"
)

func TestAttachRateLimit_Passes(t *testing.T) {
	client, err := httpclient.New("", "", nil, false)
	require.NoError(t, err)
	httpclient.AttachRateLimit(client, ratelimit.New(1000, 1000))

	httpmock.ActivateNonDefault(client.GetClient())
	t.Cleanup(httpmock.DeactivateAndReset)
	httpmock.RegisterResponder(http.MethodGet, "https://example.com/",
		httpmock.NewStringResponder(http.StatusOK, "ok"))

	resp, err := client.R().Get("https://example.com/")
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.String())
	assert.Equal(t, 1, httpmock.GetTotalCallCount())
}

func TestAttachRateLimit_CancelledBeforeSend(t *testing.T) {
	client, err := httpclient.New("", "", nil, false)
	require.NoError(t, err)
	httpclient.AttachRateLimit(client, ratelimit.New(1, 1))

	httpmock.ActivateNonDefault(client.GetClient())
	t.Cleanup(httpmock.DeactivateAndReset)
	httpmock.RegisterResponder(http.MethodGet, "https://example.com/",
		httpmock.NewStringResponder(http.StatusOK, "ok"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = client.R().SetContext(ctx).Get("https://example.com/")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, httpmock.GetTotalCallCount())
}

func TestAttachRateLimit_NoRetry(t *testing.T) {
	client, err := httpclient.New("", "", nil, false)
	require.NoError(t, err)
	httpclient.AttachRateLimit(client, nil)

	httpmock.ActivateNonDefault(client.GetClient())
	t.Cleanup(httpmock.DeactivateAndReset)
	httpmock.RegisterResponder(http.MethodGet, "https://example.com/",
		httpmock.NewErrorResponder(errors.New("connection reset by peer")))

	_, err = client.R().Get("https://example.com/")
	require.Error(t, err)
	assert.Equal(t, 1, httpmock.GetTotalCallCount())
}
