package wiki

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	pkgerrors "wikiracer/pkg/errors"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, 5*time.Second, zap.NewNop()), server
}

func TestClient_GetLinks(t *testing.T) {
	t.Run("returns links in response order", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "query", r.URL.Query().Get("action"))
			assert.Equal(t, "links", r.URL.Query().Get("prop"))
			assert.Equal(t, "Дружба", r.URL.Query().Get("titles"))
			w.Write([]byte(`{"query":{"pages":{"123":{"title":"Дружба","links":[
				{"ns":0,"title":"Любов"},
				{"ns":0,"title":"Приятельство"},
				{"ns":0,"title":"Рим"}
			]}}}}`))
		})

		links, err := client.GetLinks(context.Background(), "Дружба", 200)

		require.NoError(t, err)
		assert.Equal(t, []string{"Любов", "Приятельство", "Рим"}, links)
	})

	t.Run("excludes titles carrying separator characters", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"query":{"pages":{"123":{"title":"Дружба","links":[
				{"ns":4,"title":"Вікіпедія:Довідка"},
				{"ns":0,"title":"Любов"},
				{"ns":0,"title":"Дружба/Архів"}
			]}}}}`))
		})

		links, err := client.GetLinks(context.Background(), "Дружба", 200)

		require.NoError(t, err)
		assert.Equal(t, []string{"Любов"}, links)
	})

	t.Run("truncates to the limit", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "2", r.URL.Query().Get("pllimit"))
			w.Write([]byte(`{"query":{"pages":{"123":{"title":"A","links":[
				{"ns":0,"title":"B"},
				{"ns":0,"title":"C"},
				{"ns":0,"title":"D"}
			]}}}}`))
		})

		links, err := client.GetLinks(context.Background(), "A", 2)

		require.NoError(t, err)
		assert.Equal(t, []string{"B", "C"}, links)
	})

	t.Run("missing links member is a valid empty result", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"query":{"pages":{"-1":{"title":"Nosuchpage","missing":""}}}}`))
		})

		links, err := client.GetLinks(context.Background(), "Nosuchpage", 200)

		require.NoError(t, err)
		assert.Empty(t, links)
	})

	t.Run("server error is a provider fault", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})

		links, err := client.GetLinks(context.Background(), "Дружба", 200)

		require.Error(t, err)
		assert.True(t, pkgerrors.IsProviderFault(err))
		assert.Nil(t, links)
	})

	t.Run("malformed body is a provider fault", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<html>not json</html>`))
		})

		_, err := client.GetLinks(context.Background(), "Дружба", 200)

		require.Error(t, err)
		assert.True(t, pkgerrors.IsProviderFault(err))
	})

	t.Run("api error member is a provider fault", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"error":{"code":"toomanyvalues","info":"Too many values supplied"}}`))
		})

		_, err := client.GetLinks(context.Background(), "Дружба", 200)

		require.Error(t, err)
		assert.True(t, pkgerrors.IsProviderFault(err))
	})

	t.Run("unreachable endpoint is a provider fault", func(t *testing.T) {
		client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
		server.Close()

		_, err := client.GetLinks(context.Background(), "Дружба", 200)

		require.Error(t, err)
		assert.True(t, pkgerrors.IsProviderFault(err))
	})
}

func TestClient_GetBacklinks(t *testing.T) {
	t.Run("returns backlinks truncated to the limit", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "backlinks", r.URL.Query().Get("list"))
			assert.Equal(t, "Рим", r.URL.Query().Get("bltitle"))
			w.Write([]byte(`{"query":{"backlinks":[
				{"ns":0,"title":"Італія"},
				{"ns":0,"title":"Колізей"},
				{"ns":0,"title":"Ватикан"}
			]}}`))
		})

		backlinks, err := client.GetBacklinks(context.Background(), "Рим", 2)

		require.NoError(t, err)
		assert.Equal(t, []string{"Італія", "Колізей"}, backlinks)
	})

	t.Run("no backlinks is a valid empty result", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"query":{"backlinks":[]}}`))
		})

		backlinks, err := client.GetBacklinks(context.Background(), "Рим", 200)

		require.NoError(t, err)
		assert.Empty(t, backlinks)
	})
}
