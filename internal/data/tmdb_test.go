package data

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"movieranker/internal/biz"
	"movieranker/internal/conf"
	"movieranker/internal/pkg/metrics"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	searchBody = `{"page":1,"results":[
		{"id":27205,"title":"Inception","original_title":"Inception","release_date":"2010-07-15","overview":"Dreams.","poster_path":"/abc.jpg"},
		{"id":64956,"title":"Inception: The Cobol Job","original_title":"Inception: The Cobol Job","release_date":"2010-12-07","overview":"","poster_path":null}
	],"total_pages":1,"total_results":2}`
	detailsBody = `{"id":27205,"original_title":"Inception","release_date":"2010-07-15","overview":"Dreams.","poster_path":"/abc.jpg","runtime":148}`
)

type fakeTMDB struct {
	*httptest.Server
	hits atomic.Int32
}

func newFakeTMDB(t *testing.T, handler http.HandlerFunc) *fakeTMDB {
	t.Helper()
	f := &fakeTMDB{}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.hits.Add(1)
		if r.Header.Get("Authorization") != "Bearer test-token" || r.URL.Query().Get("api_key") != "test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"status_code":7,"status_message":"Invalid API key"}`))
			return
		}
		handler(w, r)
	}))
	t.Cleanup(f.Close)
	return f
}

func tmdbRoutes(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/search/movie":
			assert.Equal(t, "Inception", r.URL.Query().Get("query"))
			_, _ = w.Write([]byte(searchBody))
		case "/movie/27205":
			_, _ = w.Write([]byte(detailsBody))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"status_code":34}`))
		}
	}
}

func newTestClient(t *testing.T, baseURL, token string, d *Data) biz.MovieSearcher {
	t.Helper()
	c := &conf.TMDB{
		BaseURL: baseURL + "/",
		APIKey:  "test-key",
		Token:   token,
		Timeout: 2 * time.Second,
	}
	if d == nil {
		d = &Data{}
	}
	return NewTMDBClient(c, d, metrics.New(), log.DefaultLogger)
}

func TestTMDBClient_SearchByTitle(t *testing.T) {
	srv := newFakeTMDB(t, tmdbRoutes(t))
	client := newTestClient(t, srv.URL, "test-token", nil)

	candidates, err := client.SearchByTitle(context.Background(), "Inception")
	require.NoError(t, err)
	require.Len(t, candidates, 2)

	assert.Equal(t, int64(27205), candidates[0].ExternalID)
	assert.Equal(t, "Inception", candidates[0].Title)
	assert.Equal(t, "/abc.jpg", candidates[0].PosterPath)
	assert.Equal(t, "", candidates[1].PosterPath)
}

func TestTMDBClient_FetchDetails(t *testing.T) {
	srv := newFakeTMDB(t, tmdbRoutes(t))
	client := newTestClient(t, srv.URL, "test-token", nil)

	details, err := client.FetchDetails(context.Background(), "27205")
	require.NoError(t, err)
	assert.Equal(t, &biz.MovieDetails{
		ExternalID:    27205,
		OriginalTitle: "Inception",
		ReleaseDate:   "2010-07-15",
		Overview:      "Dreams.",
		PosterPath:    "/abc.jpg",
	}, details)
}

func TestTMDBClient_Failures(t *testing.T) {
	tests := []struct {
		name    string
		token   string
		handler http.HandlerFunc
		call    func(biz.MovieSearcher) error
	}{
		{
			name:  "unauthorized",
			token: "wrong-token",
			call: func(c biz.MovieSearcher) error {
				_, err := c.SearchByTitle(context.Background(), "Inception")
				return err
			},
		},
		{
			name:  "unknown movie",
			token: "test-token",
			call: func(c biz.MovieSearcher) error {
				_, err := c.FetchDetails(context.Background(), "1")
				return err
			},
		},
		{
			name:  "malformed search body",
			token: "test-token",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"results": [`))
			},
			call: func(c biz.MovieSearcher) error {
				_, err := c.SearchByTitle(context.Background(), "Inception")
				return err
			},
		},
		{
			name:  "search body without results",
			token: "test-token",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"page":1}`))
			},
			call: func(c biz.MovieSearcher) error {
				_, err := c.SearchByTitle(context.Background(), "Inception")
				return err
			},
		},
		{
			name:  "details without title",
			token: "test-token",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"id":27205}`))
			},
			call: func(c biz.MovieSearcher) error {
				_, err := c.FetchDetails(context.Background(), "27205")
				return err
			},
		},
		{
			name:  "server error",
			token: "test-token",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
			},
			call: func(c biz.MovieSearcher) error {
				_, err := c.FetchDetails(context.Background(), "27205")
				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := tt.handler
			if handler == nil {
				handler = tmdbRoutes(t)
			}
			srv := newFakeTMDB(t, handler)
			client := newTestClient(t, srv.URL, tt.token, nil)

			err := tt.call(client)
			require.Error(t, err)
			assert.ErrorIs(t, err, biz.ErrUpstream)
		})
	}
}

func TestTMDBClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := newTestClient(t, url, "test-token", nil)
	_, err := client.SearchByTitle(context.Background(), "Inception")
	assert.ErrorIs(t, err, biz.ErrUpstream)
}

func TestTMDBClient_Cache(t *testing.T) {
	mr := miniredis.RunT(t)
	srv := newFakeTMDB(t, tmdbRoutes(t))
	client := newTestClient(t, srv.URL, "test-token", newTestData(t, mr.Addr()))
	ctx := context.Background()

	first, err := client.FetchDetails(ctx, "27205")
	require.NoError(t, err)
	second, err := client.FetchDetails(ctx, "27205")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	_, err = client.SearchByTitle(ctx, "Inception")
	require.NoError(t, err)
	cached, err := client.SearchByTitle(ctx, "Inception")
	require.NoError(t, err)
	assert.Len(t, cached, 2)

	assert.Equal(t, int32(2), srv.hits.Load(), "repeat lookups are served from redis")
	assert.True(t, mr.Exists("tmdb:movie:27205"))
	assert.True(t, mr.Exists("tmdb:search:inception"))

	mr.FastForward(time.Hour)
	_, err = client.FetchDetails(ctx, "27205")
	require.NoError(t, err)
	assert.Equal(t, int32(3), srv.hits.Load(), "expired entries are refetched")
}
