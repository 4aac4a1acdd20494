package biz

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-kratos/kratos/v2/log"
)

// Placeholder values for a freshly found movie; the edit step replaces
// rating and review and the next list view replaces ranking.
const (
	PlaceholderRating  = 0
	PlaceholderRanking = 10
	PlaceholderReview  = "PASS"
)

// MaxTextLen bounds the stored text columns.
const MaxTextLen = 250

// WorkflowUseCase drives add -> select -> find: a title search, then a
// detail fetch and record creation for the chosen candidate.
type WorkflowUseCase struct {
	repo         MovieRepo
	searcher     MovieSearcher
	imageBaseURL string
	log          *log.Helper
}

// NewWorkflowUseCase creates a new WorkflowUseCase instance
func NewWorkflowUseCase(repo MovieRepo, searcher MovieSearcher, imageBaseURL ImageBaseURL, logger log.Logger) *WorkflowUseCase {
	return &WorkflowUseCase{
		repo:         repo,
		searcher:     searcher,
		imageBaseURL: string(imageBaseURL),
		log:          log.NewHelper(logger),
	}
}

// ImageBaseURL is the prefix joined with a poster path to form img_url.
type ImageBaseURL string

// Search returns the movie database candidates for a title. Nothing is
// persisted.
func (uc *WorkflowUseCase) Search(ctx context.Context, title string) ([]*Candidate, error) {
	candidates, err := uc.searcher.SearchByTitle(ctx, title)
	if err != nil {
		return nil, fmt.Errorf("failed to search %q: %w", title, err)
	}
	return candidates, nil
}

// Find fetches the details of externalID, stores a new movie with
// placeholder rating, ranking and review, and returns the stored record.
// Nothing is stored if the fetch fails.
func (uc *WorkflowUseCase) Find(ctx context.Context, externalID string) (*Movie, error) {
	details, err := uc.searcher.FetchDetails(ctx, externalID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch movie %s: %w", externalID, err)
	}

	year, err := ParseReleaseYear(details.ReleaseDate)
	if err != nil {
		return nil, ErrUpstream.WithCause(fmt.Errorf("movie %s: %w", externalID, err))
	}

	movie := &Movie{
		Title:       details.OriginalTitle,
		Year:        year,
		Description: truncate(details.Overview, MaxTextLen),
		Rating:      PlaceholderRating,
		Ranking:     PlaceholderRanking,
		Review:      PlaceholderReview,
		ImgURL:      uc.imageBaseURL + details.PosterPath,
	}
	if err := uc.repo.Insert(ctx, movie); err != nil {
		return nil, fmt.Errorf("failed to create movie %q: %w", movie.Title, err)
	}

	created, err := uc.repo.FindByTitle(ctx, movie.Title)
	if err != nil {
		return nil, fmt.Errorf("failed to look up created movie %q: %w", movie.Title, err)
	}

	uc.log.WithContext(ctx).Infof("movie %q (%d) added as %d", created.Title, created.Year, created.ID)
	return created, nil
}

// ParseReleaseYear returns the integer prefix of a release date up to its
// first '-'. A date without '-' must be a bare year.
func ParseReleaseYear(releaseDate string) (int, error) {
	prefix, _, _ := strings.Cut(strings.TrimSpace(releaseDate), "-")
	if prefix == "" {
		return 0, fmt.Errorf("malformed release date %q", releaseDate)
	}
	year, err := strconv.Atoi(prefix)
	if err != nil {
		return 0, fmt.Errorf("malformed release date %q: %w", releaseDate, err)
	}
	return year, nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
