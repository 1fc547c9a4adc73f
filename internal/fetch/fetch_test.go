package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURL_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	result, err := URL(context.Background(), srv.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, result.StatusCode)
	assert.Equal(t, "application/json", result.ContentType)
	assert.JSONEq(t, `{"ok":true}`, string(result.Body))
}

func TestURL_Query(t *testing.T) {
	var gotQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	opts := DefaultOptions()
	opts.Query = url.Values{"location": {"Calgary"}, "page": {"2"}}

	_, err := URL(context.Background(), srv.URL, opts)
	require.NoError(t, err)
	assert.Equal(t, "Calgary", gotQuery.Get("location"))
	assert.Equal(t, "2", gotQuery.Get("page"))
}

func TestURL_UserAgentAndHeaders(t *testing.T) {
	var gotUA, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	opts := DefaultOptions()
	opts.Headers = map[string]string{"Authorization": "Bearer token123"}

	_, err := URL(context.Background(), srv.URL, opts)
	require.NoError(t, err)
	assert.Equal(t, DefaultUserAgent, gotUA)
	assert.Equal(t, "Bearer token123", gotAuth)
}

func TestURL_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	result, err := URL(context.Background(), srv.URL, nil)
	require.Error(t, err)
	require.NotNil(t, result)
	assert.Equal(t, http.StatusNotFound, result.StatusCode)

	var fe *Error
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe.Message, "404")
}

func TestURL_InvalidURL(t *testing.T) {
	_, err := URL(context.Background(), "not-a-url", nil)
	require.Error(t, err)

	var fe *Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "invalid URL", fe.Message)
}

func TestHTMLToText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain text passes through",
			input:    "A welcome night for newcomers.",
			expected: "A welcome night for newcomers.",
		},
		{
			name:     "tags stripped",
			input:    "<p>Join us for a <strong>community potluck</strong>.</p>",
			expected: "Join us for a community potluck.",
		},
		{
			name:     "script content removed",
			input:    "<div>Free workshop<script>alert(1)</script></div>",
			expected: "Free workshop",
		},
		{
			name:     "whitespace collapsed",
			input:    "<p>Line one</p>\n\n  <p>Line   two</p>",
			expected: "Line one Line two",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HTMLToText(tt.input))
		})
	}
}
