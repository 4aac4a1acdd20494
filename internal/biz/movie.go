package biz

import (
	"context"
	"fmt"

	"github.com/go-kratos/kratos/v2/log"
)

// MovieUseCase handles listing, editing and deleting stored movies.
type MovieUseCase struct {
	repo MovieRepo
	log  *log.Helper
}

// NewMovieUseCase creates a new MovieUseCase instance
func NewMovieUseCase(repo MovieRepo, logger log.Logger) *MovieUseCase {
	return &MovieUseCase{
		repo: repo,
		log:  log.NewHelper(logger),
	}
}

// ListRanked recomputes the ranking of every movie, persists the changes
// and returns the movies ordered by rating ascending.
func (uc *MovieUseCase) ListRanked(ctx context.Context) ([]*Movie, error) {
	movies, err := uc.repo.ListOrderedByRating(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list movies: %w", err)
	}

	changed := Rank(movies)
	if len(changed) == 0 {
		return movies, nil
	}

	if err := uc.repo.UpdateRankings(ctx, changed); err != nil {
		return nil, fmt.Errorf("failed to update rankings: %w", err)
	}
	uc.log.WithContext(ctx).Debugf("rankings updated for %d of %d movies", len(changed), len(movies))

	return movies, nil
}

// Get retrieves a movie by its id
func (uc *MovieUseCase) Get(ctx context.Context, id int64) (*Movie, error) {
	movie, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get movie %d: %w", id, err)
	}
	return movie, nil
}

// Edit overwrites the rating and review of a movie.
func (uc *MovieUseCase) Edit(ctx context.Context, id int64, rating float64, review string) (*Movie, error) {
	movie, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get movie %d: %w", id, err)
	}

	movie.Rating = rating
	movie.Review = review
	if err := uc.repo.Update(ctx, movie); err != nil {
		return nil, fmt.Errorf("failed to update movie %d: %w", id, err)
	}

	uc.log.WithContext(ctx).Infof("movie %d rated %.1f", id, rating)
	return movie, nil
}

// Delete removes a movie by its id
func (uc *MovieUseCase) Delete(ctx context.Context, id int64) error {
	if err := uc.repo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete movie %d: %w", id, err)
	}
	uc.log.WithContext(ctx).Infof("movie %d deleted", id)
	return nil
}
