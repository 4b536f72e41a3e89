package brightdata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Configured(t *testing.T) {
	assert.False(t, New("", "").Configured())
	assert.False(t, New("https://api.example.com", "").Configured())
	assert.False(t, New("", "token").Configured())
	assert.True(t, New("https://api.example.com", "token").Configured())
}

func TestClient_SearchNews(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Acme Capital investments", r.URL.Query().Get("q"))
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))
		w.Write([]byte(`{"results": [
			{"title": "Acme leads round", "url": "https://news.example.com/a", "content": "details"},
			{"headline": "Acme exits", "link": "https://news.example.com/b", "snippet": "more details"}
		]}`))
	}))
	defer server.Close()

	c := New(server.URL, "token")
	sources, err := c.SearchNews(context.Background(), "Acme Capital investments", 5)

	require.NoError(t, err)
	require.Len(t, sources, 2)
	assert.Equal(t, "Acme leads round", sources[0].Title)
	assert.Equal(t, "Acme exits", sources[1].Title, "headline/link/snippet normalized")
	assert.Equal(t, "https://news.example.com/b", sources[1].URL)
	assert.Equal(t, "more details", sources[1].Content)
}

func TestClient_SearchNews_AlternateShapes(t *testing.T) {
	for _, shape := range []string{"data", "items"} {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"` + shape + `": [{"title": "t", "url": "https://example.com"}]}`))
		}))

		c := New(server.URL, "token")
		sources, err := c.SearchNews(context.Background(), "q", 1)
		server.Close()

		require.NoError(t, err, shape)
		assert.Len(t, sources, 1, shape)
	}
}

func TestClient_SearchNews_Unconfigured(t *testing.T) {
	sources, err := New("", "").SearchNews(context.Background(), "q", 5)
	require.NoError(t, err)
	assert.Nil(t, sources)
}
