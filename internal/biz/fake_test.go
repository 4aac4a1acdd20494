package biz

import (
	"context"
	"errors"
	"sort"
	"sync"
)

// memRepo is an in-memory MovieRepo for use case tests.
type memRepo struct {
	mu       sync.Mutex
	nextID   int64
	movies   map[int64]Movie
	failRank error

	rankingWrites int
}

func newMemRepo(movies ...Movie) *memRepo {
	r := &memRepo{movies: make(map[int64]Movie)}
	for _, m := range movies {
		r.nextID++
		m.ID = r.nextID
		r.movies[m.ID] = m
	}
	return r
}

func (r *memRepo) Insert(_ context.Context, movie *Movie) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.movies {
		if m.Title == movie.Title {
			return ErrDuplicateTitle
		}
	}
	r.nextID++
	stored := *movie
	stored.ID = r.nextID
	r.movies[stored.ID] = stored
	return nil
}

func (r *memRepo) GetByID(_ context.Context, id int64) (*Movie, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.movies[id]
	if !ok {
		return nil, ErrMovieNotFound
	}
	return &m, nil
}

func (r *memRepo) FindByTitle(_ context.Context, title string) (*Movie, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.movies {
		if m.Title == title {
			return &m, nil
		}
	}
	return nil, ErrMovieNotFound
}

func (r *memRepo) ListOrderedByRating(_ context.Context) ([]*Movie, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Movie, 0, len(r.movies))
	for _, m := range r.movies {
		m := m
		out = append(out, &m)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Rating != out[j].Rating {
			return out[i].Rating < out[j].Rating
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *memRepo) Update(_ context.Context, movie *Movie) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.movies[movie.ID]; !ok {
		return ErrMovieNotFound
	}
	r.movies[movie.ID] = *movie
	return nil
}

func (r *memRepo) UpdateRankings(_ context.Context, rankings map[int64]int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failRank != nil {
		return r.failRank
	}
	r.rankingWrites++
	for id, ranking := range rankings {
		m := r.movies[id]
		m.Ranking = ranking
		r.movies[id] = m
	}
	return nil
}

func (r *memRepo) DeleteByID(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.movies[id]; !ok {
		return ErrMovieNotFound
	}
	delete(r.movies, id)
	return nil
}

func (r *memRepo) snapshot() map[int64]Movie {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[int64]Movie, len(r.movies))
	for id, m := range r.movies {
		out[id] = m
	}
	return out
}

// stubSearcher is a canned MovieSearcher.
type stubSearcher struct {
	candidates []*Candidate
	details    map[string]*MovieDetails
	err        error

	searched []string
	fetched  []string
}

func (s *stubSearcher) SearchByTitle(_ context.Context, title string) ([]*Candidate, error) {
	s.searched = append(s.searched, title)
	if s.err != nil {
		return nil, s.err
	}
	return s.candidates, nil
}

func (s *stubSearcher) FetchDetails(_ context.Context, externalID string) (*MovieDetails, error) {
	s.fetched = append(s.fetched, externalID)
	if s.err != nil {
		return nil, s.err
	}
	d, ok := s.details[externalID]
	if !ok {
		return nil, ErrUpstream.WithCause(errors.New("unexpected status code: 404"))
	}
	return d, nil
}
