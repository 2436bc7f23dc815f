package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/filmstack/filmstack/internal/metrics"
	"github.com/filmstack/filmstack/internal/model"
	"github.com/filmstack/filmstack/internal/repository"
)

// Pagination bounds for the catalog.
const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// MovieService serves the read-only, paginated movie catalog.
type MovieService struct {
	movies  MovieStore
	metrics metrics.Recorder
}

// NewMovieService creates a new MovieService.
func NewMovieService(movies MovieStore, recorder metrics.Recorder) *MovieService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &MovieService{movies: movies, metrics: recorder}
}

// ListMoviesInput defines the catalog query.
type ListMoviesInput struct {
	// Page is 1-based.
	Page     int
	PageSize int
	// Search matches case-insensitively against title and synopsis.
	Search string
	// Year filters by exact release year; zero means no filter.
	Year int
	// OrderBy is "title" or "year"; empty keeps insertion order.
	OrderBy string
	// Order is "asc" (default) or "desc".
	Order string
}

// ListMoviesOutput is one page of the filtered catalog.
// TotalItems counts the whole filtered set, not the page.
type ListMoviesOutput struct {
	TotalItems int            `json:"totalItems"`
	Items      []*model.Movie `json:"items"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
}

// List returns one page of the filtered, sorted catalog.
// An out-of-range page yields an empty item list with the total unchanged.
func (s *MovieService) List(ctx context.Context, input ListMoviesInput) (*ListMoviesOutput, error) {
	page := input.Page
	if page < 1 {
		page = 1
	}

	limit := input.PageSize
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	filter := repository.MovieFilter{
		Search:     input.Search,
		Year:       input.Year,
		OrderBy:    input.OrderBy,
		Descending: strings.EqualFold(input.Order, "desc"),
	}

	movies, total, err := s.movies.ListMovies(ctx, filter, (page-1)*limit, limit)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidSortField) {
			return nil, ErrInvalidSortField
		}
		return nil, fmt.Errorf("failed to list movies: %w", err)
	}

	s.metrics.IncMovieQuery()

	return &ListMoviesOutput{
		TotalItems: total,
		Items:      movies,
		Page:       page,
		Limit:      limit,
	}, nil
}
