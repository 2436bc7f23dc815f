package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"

	"github.com/filmstack/filmstack/internal/model"
)

// Common errors for movie repository operations.
var (
	ErrMovieNotFound    = errors.New("movie not found")
	ErrInvalidSortField = errors.New("invalid sort field")
)

// movieSortColumns whitelists the fields a caller may sort by.
// Keys are API-facing names, values the underlying columns.
var movieSortColumns = map[string]string{
	"title": "title",
	"year":  "year",
}

// MovieFilter defines the predicate for listing movies.
// The same predicate drives both the page query and the total count.
type MovieFilter struct {
	// Search matches case-insensitively against title and extract.
	Search string
	// Year filters by exact release year; zero means no filter.
	Year int
	// OrderBy is one of the whitelisted sort fields; empty means insertion order.
	OrderBy string
	// Descending flips the sort direction.
	Descending bool
}

const movieColumns = `id, title, year, "cast", genres, href, extract, thumbnail, thumbnail_width, thumbnail_height`

// ListMovies retrieves one page of the filtered, sorted movie set together
// with the total count of rows matching the same filter.
func (r *Repository) ListMovies(ctx context.Context, filter MovieFilter, offset, limit int) ([]*model.Movie, int, error) {
	where, args := buildMovieWhere(filter)

	countQuery := `SELECT count(*) FROM movies` + where
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count movies: %w", err)
	}

	orderClause, err := buildMovieOrder(filter)
	if err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + movieColumns + ` FROM movies` + where + orderClause +
		` LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list movies: %w", err)
	}
	defer rows.Close()

	movies := make([]*model.Movie, 0, limit)
	for rows.Next() {
		movie, err := scanMovie(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan movie: %w", err)
		}
		movies = append(movies, movie)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate movies: %w", err)
	}

	return movies, total, nil
}

// GetMovieByID retrieves a single movie.
func (r *Repository) GetMovieByID(ctx context.Context, id string) (*model.Movie, error) {
	query := `SELECT ` + movieColumns + ` FROM movies WHERE id = $1`

	movie, err := scanMovie(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMovieNotFound
		}
		return nil, fmt.Errorf("failed to get movie by ID: %w", err)
	}

	return movie, nil
}

// CreateMovie inserts a catalog entry. Only the seed loader writes movies;
// the API itself is read-only over this table.
func (r *Repository) CreateMovie(ctx context.Context, movie *model.Movie) error {
	query := `
		INSERT INTO movies (id, title, year, "cast", genres, href, extract, thumbnail, thumbnail_width, thumbnail_height)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.pool.Exec(ctx, query,
		movie.ID,
		movie.Title,
		movie.Year,
		pq.Array(movie.Cast),
		pq.Array(movie.Genres),
		movie.Href,
		movie.Extract,
		movie.Thumbnail,
		movie.ThumbnailWidth,
		movie.ThumbnailHeight,
	)
	if err != nil {
		return fmt.Errorf("failed to create movie: %w", err)
	}

	return nil
}

// buildMovieWhere renders the WHERE clause and its arguments for a filter.
func buildMovieWhere(filter MovieFilter) (string, []any) {
	var conditions []string
	var args []any

	if filter.Year != 0 {
		args = append(args, filter.Year)
		conditions = append(conditions, fmt.Sprintf("year = $%d", len(args)))
	}

	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		conditions = append(conditions, fmt.Sprintf("(title ILIKE $%d OR extract ILIKE $%d)", n, n))
	}

	if len(conditions) == 0 {
		return "", nil
	}

	return " WHERE " + strings.Join(conditions, " AND "), args
}

// buildMovieOrder renders the ORDER BY clause with a deterministic tiebreak.
func buildMovieOrder(filter MovieFilter) (string, error) {
	if filter.OrderBy == "" {
		return " ORDER BY id", nil
	}

	column, ok := movieSortColumns[filter.OrderBy]
	if !ok {
		return "", ErrInvalidSortField
	}

	direction := "ASC"
	if filter.Descending {
		direction = "DESC"
	}

	return fmt.Sprintf(" ORDER BY %s %s, id", column, direction), nil
}

// scanMovie scans a single movie row.
func scanMovie(row pgx.Row) (*model.Movie, error) {
	var movie model.Movie
	err := row.Scan(
		&movie.ID,
		&movie.Title,
		&movie.Year,
		pq.Array(&movie.Cast),
		pq.Array(&movie.Genres),
		&movie.Href,
		&movie.Extract,
		&movie.Thumbnail,
		&movie.ThumbnailWidth,
		&movie.ThumbnailHeight,
	)
	if err != nil {
		return nil, err
	}
	return &movie, nil
}
