package service

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"movieranker/internal/biz"
	"movieranker/internal/pkg/csrf"
)

// HomeRequest is the list view; it has no parameters.
type HomeRequest struct{}

// EditRequest carries the raw id query parameter and, for POST, the form.
type EditRequest struct {
	ID   string
	Form url.Values
}

type DeleteRequest struct {
	ID string
}

type AddRequest struct {
	Form url.Values
}

// FindRequest carries the external id picked from the search results.
type FindRequest struct {
	ID string
}

type indexView struct {
	Movies []*biz.Movie
}

type editView struct {
	CSRFToken string
	Movie     *biz.Movie
	Rating    string
	Review    string
	Errors    FieldErrors
}

type addView struct {
	CSRFToken string
	Title     string
	Errors    FieldErrors
}

type selectView struct {
	Query      string
	Candidates []*biz.Candidate
}

type errorView struct {
	Code    int
	Reason  string
	Message string
}

// MovieService implements the movie list pages
type MovieService struct {
	movieUC    *biz.MovieUseCase
	workflowUC *biz.WorkflowUseCase
}

// NewMovieService creates a new MovieService
func NewMovieService(movieUC *biz.MovieUseCase, workflowUC *biz.WorkflowUseCase) *MovieService {
	return &MovieService{
		movieUC:    movieUC,
		workflowUC: workflowUC,
	}
}

// Home renders every movie with freshly computed rankings.
func (s *MovieService) Home(ctx context.Context, _ *HomeRequest) (*Page, error) {
	movies, err := s.movieUC.ListRanked(ctx)
	if err != nil {
		return nil, err
	}
	return &Page{View: ViewIndex, Data: indexView{Movies: movies}}, nil
}

// ShowEdit renders the edit form pre-filled from the stored movie.
func (s *MovieService) ShowEdit(ctx context.Context, req *EditRequest) (*Page, error) {
	id, err := parseID(req.ID)
	if err != nil {
		return nil, err
	}
	movie, err := s.movieUC.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.editPage(ctx, movie, strconv.FormatFloat(movie.Rating, 'f', -1, 64), movie.Review, nil), nil
}

// Edit stores a new rating and review, then returns to the list.
func (s *MovieService) Edit(ctx context.Context, req *EditRequest) (*Page, error) {
	id, err := parseID(req.ID)
	if err != nil {
		return nil, err
	}

	form, errs := validateEditForm(req.Form)
	if len(errs) > 0 {
		movie, err := s.movieUC.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		return s.editPage(ctx, movie, req.Form.Get(fieldNewRating), req.Form.Get(fieldNewReview), errs), nil
	}

	if _, err := s.movieUC.Edit(ctx, id, form.Rating, form.Review); err != nil {
		return nil, err
	}
	return redirect("/"), nil
}

// Delete removes a movie, then returns to the list.
func (s *MovieService) Delete(ctx context.Context, req *DeleteRequest) (*Page, error) {
	id, err := parseID(req.ID)
	if err != nil {
		return nil, err
	}
	if err := s.movieUC.Delete(ctx, id); err != nil {
		return nil, err
	}
	return redirect("/"), nil
}

// ShowAdd renders the title form.
func (s *MovieService) ShowAdd(ctx context.Context, _ *AddRequest) (*Page, error) {
	return &Page{View: ViewAdd, Data: addView{CSRFToken: csrf.Token(ctx)}}, nil
}

// Add searches the movie database and renders the candidates.
func (s *MovieService) Add(ctx context.Context, req *AddRequest) (*Page, error) {
	form, errs := validateAddForm(req.Form)
	if len(errs) > 0 {
		return &Page{View: ViewAdd, Data: addView{
			CSRFToken: csrf.Token(ctx),
			Title:     req.Form.Get(fieldNewTitle),
			Errors:    errs,
		}}, nil
	}

	candidates, err := s.workflowUC.Search(ctx, form.Title)
	if err != nil {
		return nil, err
	}
	return &Page{View: ViewSelect, Data: selectView{Query: form.Title, Candidates: candidates}}, nil
}

// Find creates a movie from the chosen candidate and hands over to edit.
func (s *MovieService) Find(ctx context.Context, req *FindRequest) (*Page, error) {
	if _, err := parseID(req.ID); err != nil {
		return nil, err
	}
	movie, err := s.workflowUC.Find(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	return redirect(fmt.Sprintf("/edit?id=%d", movie.ID)), nil
}

func (s *MovieService) editPage(ctx context.Context, movie *biz.Movie, rating, review string, errs FieldErrors) *Page {
	return &Page{View: ViewEdit, Data: editView{
		CSRFToken: csrf.Token(ctx),
		Movie:     movie,
		Rating:    rating,
		Review:    review,
		Errors:    errs,
	}}
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, biz.ErrInvalidArgument.WithMetadata(map[string]string{"id": raw})
	}
	return id, nil
}
