package biz

import "context"

// Movie domain model
type Movie struct {
	ID          int64
	Title       string
	Year        int
	Description string
	Rating      float64
	Ranking     int
	Review      string
	ImgURL      string
}

// Candidate is one search hit from the movie database.
type Candidate struct {
	ExternalID    int64
	Title         string
	OriginalTitle string
	ReleaseDate   string
	Overview      string
	PosterPath    string
}

// MovieDetails is the full metadata for one external movie.
type MovieDetails struct {
	ExternalID    int64
	OriginalTitle string
	ReleaseDate   string
	Overview      string
	PosterPath    string
}

// MovieRepo defines the repository interface for movies
type MovieRepo interface {
	Insert(ctx context.Context, movie *Movie) error
	GetByID(ctx context.Context, id int64) (*Movie, error)
	FindByTitle(ctx context.Context, title string) (*Movie, error)
	// ListOrderedByRating returns every movie ordered by rating, then id, ascending.
	ListOrderedByRating(ctx context.Context) ([]*Movie, error)
	Update(ctx context.Context, movie *Movie) error
	// UpdateRankings persists id -> ranking in a single commit.
	UpdateRankings(ctx context.Context, rankings map[int64]int) error
	DeleteByID(ctx context.Context, id int64) error
}

// MovieSearcher defines the interface for the external movie database client
type MovieSearcher interface {
	SearchByTitle(ctx context.Context, title string) ([]*Candidate, error)
	FetchDetails(ctx context.Context, externalID string) (*MovieDetails, error)
}
