package stats

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"cityevents/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatsClient_RecordHit(t *testing.T) {
	ctx := context.Background()

	t.Run("posts the hit as json", func(t *testing.T) {
		var got domain.Hit
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "/hit", r.URL.Path)
			require.Equal(t, "application/json", r.Header.Get("Content-Type"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			w.WriteHeader(http.StatusCreated)
		}))
		defer srv.Close()

		client := NewHTTPClient(srv.URL, srv.Client())
		err := client.RecordHit(ctx, domain.Hit{
			App:       "cityevents",
			URI:       "/events/1",
			IP:        "192.163.0.1",
			Timestamp: "2025-05-05 00:00:00",
		})
		require.NoError(t, err)
		assert.Equal(t, "/events/1", got.URI)
	})

	t.Run("non-2xx status is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
		}))
		defer srv.Close()

		client := NewHTTPClient(srv.URL, srv.Client())
		err := client.RecordHit(ctx, domain.Hit{App: "cityevents", URI: "/events/1", IP: "1.1.1.1", Timestamp: "2025-05-05 00:00:00"})
		require.Error(t, err)
	})
}

func TestHTTPStatsClient_QueryViews(t *testing.T) {
	ctx := context.Background()

	t.Run("sends the window and unwraps the envelope", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/stats", r.URL.Path)
			q := r.URL.Query()
			require.Equal(t, "2025-01-01 00:00:00", q.Get("start"))
			require.Equal(t, "2025-01-10 00:00:00", q.Get("end"))
			require.Equal(t, []string{"/events/1"}, q["uris"])
			require.Equal(t, "true", q.Get("unique"))

			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{
				"data":  []domain.ViewStats{{App: "cityevents", URI: "/events/1", Hits: 6}},
				"error": nil,
			})
		}))
		defer srv.Close()

		client := NewHTTPClient(srv.URL, srv.Client())
		got, err := client.QueryViews(ctx, "2025-01-01 00:00:00", "2025-01-10 00:00:00", []string{"/events/1"}, true)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, int64(6), got[0].Hits)
	})

	t.Run("collector failure is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		client := NewHTTPClient(srv.URL, srv.Client())
		_, err := client.QueryViews(ctx, "2025-01-01 00:00:00", "2025-01-10 00:00:00", nil, false)
		require.Error(t, err)
	})
}
