package data

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"movieranker/internal/biz"
	"movieranker/internal/pkg/metrics"

	"github.com/go-kratos/kratos/v2/log"
	"gorm.io/gorm"
)

type movieRepo struct {
	data    *Data
	metrics *metrics.Metrics
	log     *log.Helper
}

// NewMovieRepo creates a new movie repository
func NewMovieRepo(data *Data, m *metrics.Metrics, logger log.Logger) biz.MovieRepo {
	return &movieRepo{
		data:    data,
		metrics: m,
		log:     log.NewHelper(logger),
	}
}

func (r *movieRepo) Insert(ctx context.Context, movie *biz.Movie) error {
	dbMovie := r.bizToModel(movie)
	dbMovie.ID = 0

	if err := r.data.db.WithContext(ctx).Create(dbMovie).Error; err != nil {
		if isUniqueViolation(err) {
			return biz.ErrDuplicateTitle.WithCause(err)
		}
		return fmt.Errorf("failed to create movie: %w", err)
	}
	return nil
}

func (r *movieRepo) GetByID(ctx context.Context, id int64) (*biz.Movie, error) {
	var dbMovie Movie
	if err := r.data.db.WithContext(ctx).Where("id = ?", id).First(&dbMovie).Error; err != nil {
		return nil, notFound(err)
	}
	return r.modelToBiz(&dbMovie), nil
}

func (r *movieRepo) FindByTitle(ctx context.Context, title string) (*biz.Movie, error) {
	var dbMovie Movie
	if err := r.data.db.WithContext(ctx).Where("title = ?", title).First(&dbMovie).Error; err != nil {
		return nil, notFound(err)
	}
	return r.modelToBiz(&dbMovie), nil
}

func (r *movieRepo) ListOrderedByRating(ctx context.Context) ([]*biz.Movie, error) {
	var dbMovies []Movie
	err := r.data.db.WithContext(ctx).
		Order("rating ASC").
		Order("id ASC").
		Find(&dbMovies).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list movies: %w", err)
	}

	movies := make([]*biz.Movie, 0, len(dbMovies))
	for i := range dbMovies {
		movies = append(movies, r.modelToBiz(&dbMovies[i]))
	}
	r.metrics.SetMovies(len(movies))
	return movies, nil
}

func (r *movieRepo) Update(ctx context.Context, movie *biz.Movie) error {
	res := r.data.db.WithContext(ctx).
		Model(&Movie{}).
		Where("id = ?", movie.ID).
		Updates(map[string]interface{}{
			"rating": movie.Rating,
			"review": movie.Review,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to update movie: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return biz.ErrMovieNotFound
	}
	return nil
}

func (r *movieRepo) UpdateRankings(ctx context.Context, rankings map[int64]int) error {
	err := r.data.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for id, ranking := range rankings {
			err := tx.Model(&Movie{}).Where("id = ?", id).Update("ranking", ranking).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to update rankings: %w", err)
	}
	r.metrics.ObserveRankingUpdate(len(rankings))
	return nil
}

func (r *movieRepo) DeleteByID(ctx context.Context, id int64) error {
	res := r.data.db.WithContext(ctx).Where("id = ?", id).Delete(&Movie{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete movie: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return biz.ErrMovieNotFound
	}
	return nil
}

// Helper: Convert biz.Movie to data.Movie
func (r *movieRepo) bizToModel(m *biz.Movie) *Movie {
	return &Movie{
		ID:          m.ID,
		Title:       m.Title,
		Year:        m.Year,
		Description: m.Description,
		Rating:      m.Rating,
		Ranking:     m.Ranking,
		Review:      m.Review,
		ImgURL:      m.ImgURL,
	}
}

// Helper: Convert data.Movie to biz.Movie
func (r *movieRepo) modelToBiz(m *Movie) *biz.Movie {
	return &biz.Movie{
		ID:          m.ID,
		Title:       m.Title,
		Year:        m.Year,
		Description: m.Description,
		Rating:      m.Rating,
		Ranking:     m.Ranking,
		Review:      m.Review,
		ImgURL:      m.ImgURL,
	}
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return biz.ErrMovieNotFound
	}
	return fmt.Errorf("failed to query movie: %w", err)
}

// isUniqueViolation covers drivers that do not translate their constraint
// errors into gorm.ErrDuplicatedKey.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}
