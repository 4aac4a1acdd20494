package server

import (
	"net/http"

	"movieranker/internal/conf"
	"movieranker/internal/pkg/csrf"
	"movieranker/internal/pkg/metrics"
	"movieranker/internal/service"

	"github.com/go-chi/httprate"
	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware/logging"
	"github.com/go-kratos/kratos/v2/middleware/recovery"
	khttp "github.com/go-kratos/kratos/v2/transport/http"
)

// ErrTooManyRequests is rendered when a client exceeds the rate limit.
var ErrTooManyRequests = errors.New(http.StatusTooManyRequests, "TOO_MANY_REQUESTS", "too many requests, slow down")

// NewHTTPServer new an HTTP server.
func NewHTTPServer(c *conf.Server, auth *conf.Auth, movieSvc *service.MovieService, views *service.Renderer, m *metrics.Metrics, logger log.Logger) *khttp.Server {
	encodeError := func(w http.ResponseWriter, _ *http.Request, err error) {
		views.WriteError(w, err)
	}

	filters := []khttp.FilterFunc{
		RequestIDFilter(),
		MetricsFilter(m),
	}
	if c.RateLimit.Requests > 0 {
		filters = append(filters, httprate.Limit(
			c.RateLimit.Requests,
			c.RateLimit.Window,
			httprate.WithKeyFuncs(httprate.KeyByIP),
			httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
				encodeError(w, r, ErrTooManyRequests)
			}),
		))
	}
	// /find is reached from plain links on the select page and carries no form.
	filters = append(filters, csrf.New(auth.SecretKey).Filter(encodeError, "/find"))

	var opts = []khttp.ServerOption{
		khttp.Middleware(
			recovery.Recovery(),
			logging.Server(logger),
		),
		khttp.Filter(filters...),
		khttp.ErrorEncoder(encodeError),
	}
	if c.HTTP.Network != "" {
		opts = append(opts, khttp.Network(c.HTTP.Network))
	}
	if c.HTTP.Addr != "" {
		opts = append(opts, khttp.Address(c.HTTP.Addr))
	}
	if c.HTTP.Timeout > 0 {
		opts = append(opts, khttp.Timeout(c.HTTP.Timeout))
	}
	srv := khttp.NewServer(opts...)
	srv.Handle("/metrics", m.Handler())
	srv.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	service.RegisterMovieServiceHTTPServer(srv, movieSvc, views)
	return srv
}
