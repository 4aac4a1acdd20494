package biz

import (
	"net/http"

	"github.com/go-kratos/kratos/v2/errors"
)

// Error reasons surfaced to the error page.
const (
	ReasonMovieNotFound   = "MOVIE_NOT_FOUND"
	ReasonDuplicateTitle  = "DUPLICATE_TITLE"
	ReasonUpstream        = "UPSTREAM_ERROR"
	ReasonInvalidArgument = "INVALID_ARGUMENT"
)

var (
	// ErrMovieNotFound is returned when an id does not resolve in the store.
	ErrMovieNotFound = errors.NotFound(ReasonMovieNotFound, "movie not found")
	// ErrDuplicateTitle is returned when an insert violates title uniqueness.
	ErrDuplicateTitle = errors.Conflict(ReasonDuplicateTitle, "a movie with this title already exists")
	// ErrUpstream is returned for non-success or malformed movie database responses.
	ErrUpstream = errors.New(http.StatusBadGateway, ReasonUpstream, "movie database request failed")
	// ErrInvalidArgument is returned for malformed request parameters.
	ErrInvalidArgument = errors.BadRequest(ReasonInvalidArgument, "invalid or missing id parameter")
)
