package data

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"movieranker/internal/biz"
	"movieranker/internal/conf"
	"movieranker/internal/pkg/metrics"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

const (
	opSearch  = "search"
	opDetails = "details"
)

type tmdbClient struct {
	data    *Data
	client  *http.Client
	baseURL string
	apiKey  string
	token   string
	limiter *rate.Limiter
	metrics *metrics.Metrics
	log     *log.Helper
}

// NewTMDBClient creates a client for the movie database search and detail
// endpoints. Successful responses are cached in Redis when it is available.
func NewTMDBClient(c *conf.TMDB, data *Data, m *metrics.Metrics, logger log.Logger) biz.MovieSearcher {
	limit := rate.Inf
	if c.RequestsPerSecond > 0 {
		limit = rate.Limit(c.RequestsPerSecond)
	}
	return &tmdbClient{
		data: data,
		client: &http.Client{
			Timeout: c.Timeout,
		},
		baseURL: strings.TrimSuffix(c.BaseURL, "/"),
		apiKey:  c.APIKey,
		token:   c.Token,
		limiter: rate.NewLimiter(limit, 1),
		metrics: m,
		log:     log.NewHelper(log.With(logger, "module", "data/tmdb")),
	}
}

type searchResponse struct {
	Page    int            `json:"page"`
	Results []searchResult `json:"results"`
}

type searchResult struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	OriginalTitle string `json:"original_title"`
	ReleaseDate   string `json:"release_date"`
	Overview      string `json:"overview"`
	PosterPath    string `json:"poster_path"`
}

type detailsResponse struct {
	ID            int64  `json:"id"`
	OriginalTitle string `json:"original_title"`
	ReleaseDate   string `json:"release_date"`
	Overview      string `json:"overview"`
	PosterPath    string `json:"poster_path"`
}

func (c *tmdbClient) SearchByTitle(ctx context.Context, title string) ([]*biz.Candidate, error) {
	cacheKey := fmt.Sprintf("tmdb:search:%s", strings.ToLower(title))
	var cached []*biz.Candidate
	if c.cacheGet(ctx, opSearch, cacheKey, &cached) {
		return cached, nil
	}

	var resp searchResponse
	query := url.Values{"query": {title}}
	if err := c.get(ctx, opSearch, "/search/movie", query, &resp); err != nil {
		return nil, err
	}
	if resp.Results == nil {
		return nil, biz.ErrUpstream.WithCause(errors.New("search response has no results field"))
	}

	candidates := make([]*biz.Candidate, 0, len(resp.Results))
	for _, r := range resp.Results {
		candidates = append(candidates, &biz.Candidate{
			ExternalID:    r.ID,
			Title:         r.Title,
			OriginalTitle: r.OriginalTitle,
			ReleaseDate:   r.ReleaseDate,
			Overview:      r.Overview,
			PosterPath:    r.PosterPath,
		})
	}

	c.cacheSet(ctx, cacheKey, candidates)
	return candidates, nil
}

func (c *tmdbClient) FetchDetails(ctx context.Context, externalID string) (*biz.MovieDetails, error) {
	cacheKey := fmt.Sprintf("tmdb:movie:%s", externalID)
	var cached biz.MovieDetails
	if c.cacheGet(ctx, opDetails, cacheKey, &cached) {
		return &cached, nil
	}

	var resp detailsResponse
	if err := c.get(ctx, opDetails, "/movie/"+url.PathEscape(externalID), url.Values{}, &resp); err != nil {
		return nil, err
	}
	if resp.OriginalTitle == "" {
		return nil, biz.ErrUpstream.WithCause(fmt.Errorf("movie %s has no original_title", externalID))
	}

	details := &biz.MovieDetails{
		ExternalID:    resp.ID,
		OriginalTitle: resp.OriginalTitle,
		ReleaseDate:   resp.ReleaseDate,
		Overview:      resp.Overview,
		PosterPath:    resp.PosterPath,
	}

	c.cacheSet(ctx, cacheKey, details)
	return details, nil
}

// get performs an authenticated GET and decodes the JSON body into out.
// Every failure is reported as biz.ErrUpstream.
func (c *tmdbClient) get(ctx context.Context, op, path string, query url.Values, out interface{}) (err error) {
	start := time.Now()
	defer func() {
		c.metrics.ObserveUpstream(op, err == nil, time.Since(start))
	}()

	if err := c.limiter.Wait(ctx); err != nil {
		return biz.ErrUpstream.WithCause(fmt.Errorf("rate limiter: %w", err))
	}

	query.Set("api_key", c.apiKey)
	endpoint := c.baseURL + path + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return biz.ErrUpstream.WithCause(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return biz.ErrUpstream.WithCause(fmt.Errorf("request failed: %w", err))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.log.WithContext(ctx).Warnf("%s returned status %d: %s", path, resp.StatusCode, string(body))
		return biz.ErrUpstream.WithCause(fmt.Errorf("unexpected status code: %d", resp.StatusCode))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return biz.ErrUpstream.WithCause(fmt.Errorf("failed to decode response: %w", err))
	}
	return nil
}

func (c *tmdbClient) cacheGet(ctx context.Context, op, key string, out interface{}) bool {
	if c.data.rdb == nil {
		return false
	}
	cached, err := c.data.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.WithContext(ctx).Warnf("cache read %s: %v", key, err)
		}
		c.metrics.ObserveCache(op, false)
		return false
	}
	if err := json.Unmarshal(cached, out); err != nil {
		c.metrics.ObserveCache(op, false)
		return false
	}
	c.log.WithContext(ctx).Debugf("cache hit for %s", key)
	c.metrics.ObserveCache(op, true)
	return true
}

func (c *tmdbClient) cacheSet(ctx context.Context, key string, v interface{}) {
	if c.data.rdb == nil || c.data.cacheTTL <= 0 {
		return
	}
	payload, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.data.rdb.Set(ctx, key, payload, c.data.cacheTTL).Err(); err != nil {
		c.log.WithContext(ctx).Warnf("cache write %s: %v", key, err)
	}
}
