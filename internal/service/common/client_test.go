//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/atom-check-updates/internal/domain/release"
)

// TestClient_callContext checks timeout vs cancel-only behavior of callContext.
func TestClient_callContext(t *testing.T) {
	t.Parallel()

	c := NewClient()

	ctx, cancel := c.callContext(context.Background())
	cancel()

	require.NotNil(t, ctx)

	_, ok := ctx.Deadline()
	require.False(t, ok)

	c = NewClient(WithCallTimeout(10 * time.Millisecond))

	ctx, cancel = c.callContext(context.Background())
	defer cancel()

	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	require.WithinDuration(t, time.Now().Add(10*time.Millisecond), deadline, 30*time.Millisecond)
}

// TestGetJSON_SendsUserAgentAndDecodes verifies headers and decoding.
func TestGetJSON_SendsUserAgentAndDecodes(t *testing.T) {
	t.Parallel()

	agents := make(chan string, 1)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		agents <- r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(`[{"name":"1.60.0","prerelease":false}]`))
	}))
	defer ts.Close()

	c := NewClient(WithUserAgent("atom-check-updates/test"), WithHTTPClient(ts.Client()))

	var out []struct {
		Name string `json:"name"`
	}

	require.NoError(t, c.GetJSON(context.Background(), ts.URL, &out))
	require.Equal(t, "atom-check-updates/test", <-agents)
	require.Len(t, out, 1)
	require.Equal(t, "1.60.0", out[0].Name)
}

// TestGetJSON_Failures classifies status, body and transport failures as network errors.
func TestGetJSON_Failures(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/broken" {
			_, _ = w.Write([]byte("{not json"))

			return
		}

		w.WriteHeader(http.StatusForbidden)
	}))

	c := NewClient()

	var out []any

	err := c.GetJSON(context.Background(), ts.URL+"/limited", &out)
	require.ErrorIs(t, err, release.ErrNetwork)
	require.ErrorIs(t, err, errBadHTTPStatus)

	err = c.GetJSON(context.Background(), ts.URL+"/broken", &out)
	require.ErrorIs(t, err, release.ErrNetwork)

	ts.Close()

	err = c.GetJSON(context.Background(), ts.URL, &out)
	require.ErrorIs(t, err, release.ErrNetwork)

	require.ErrorIs(t, c.GetJSON(context.Background(), "", &out), errURLRequired)
}

// TestPostForm_DoesNotFollowRedirects ensures the Location header of a redirect is returned as is.
func TestPostForm_DoesNotFollowRedirects(t *testing.T) {
	t.Parallel()

	submitted := make(chan string, 2)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()

		submitted <- r.PostForm.Get("url")

		w.Header().Set("Location", "https://git.io/abc")
		w.WriteHeader(http.StatusCreated)
	}))
	defer ts.Close()

	c := NewClient()

	header, err := c.PostForm(context.Background(), ts.URL, url.Values{"url": {"https://example.com/v1"}})
	require.NoError(t, err)
	require.Equal(t, "https://example.com/v1", <-submitted)
	require.Equal(t, "https://git.io/abc", header.Get("Location"))

	redirect := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, ts.URL+"/elsewhere", http.StatusFound)
	}))
	defer redirect.Close()

	header, err = c.PostForm(context.Background(), redirect.URL, url.Values{})
	require.NoError(t, err)
	require.Equal(t, ts.URL+"/elsewhere", header.Get("Location"))
}

// TestStream_BadStatus verifies that Stream rejects non-200 responses.
func TestStream_BadStatus(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.NotFoundHandler())
	defer ts.Close()

	resp, err := NewClient().Stream(context.Background(), ts.URL)
	require.Nil(t, resp)
	require.ErrorIs(t, err, release.ErrNetwork)
}
