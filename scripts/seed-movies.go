// Command seed-movies loads a wikipedia-style movie JSON dump into the
// movies table. The input is an array of objects with title, year, cast,
// genres, href, extract and thumbnail fields.
package main

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/filmstack/filmstack/internal/model"
	"github.com/filmstack/filmstack/internal/repository"
)

type movieRecord struct {
	Title           string   `json:"title"`
	Year            int      `json:"year"`
	Cast            []string `json:"cast"`
	Genres          []string `json:"genres"`
	Href            string   `json:"href"`
	Extract         string   `json:"extract"`
	Thumbnail       string   `json:"thumbnail"`
	ThumbnailWidth  int      `json:"thumbnail_width"`
	ThumbnailHeight int      `json:"thumbnail_height"`
}

func main() {
	var (
		databaseURL = flag.String("database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")
		file        = flag.String("file", "movies.json", "Path to the movie JSON dump")
		migrate     = flag.Bool("migrate", false, "Run schema migrations before seeding")
	)
	flag.Parse()

	if *databaseURL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL is required")
		os.Exit(1)
	}

	data, err := os.ReadFile(*file)
	if err != nil {
		fmt.Fprintln(os.Stderr, "read dump:", err)
		os.Exit(1)
	}

	var records []movieRecord
	if err := json.Unmarshal(data, &records); err != nil {
		fmt.Fprintln(os.Stderr, "parse dump:", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if *migrate {
		if err := repository.RunMigrations(ctx, *databaseURL); err != nil {
			fmt.Fprintln(os.Stderr, "run migrations:", err)
			os.Exit(1)
		}
	}

	repo, err := repository.New(ctx, *databaseURL)
	if err != nil {
		fmt.Fprintln(os.Stderr, "connect database:", err)
		os.Exit(1)
	}
	defer repo.Close()

	var inserted, skipped int
	for _, rec := range records {
		if rec.Title == "" {
			skipped++
			continue
		}

		movie := &model.Movie{
			ID:              ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String(),
			Title:           rec.Title,
			Year:            rec.Year,
			Cast:            rec.Cast,
			Genres:          rec.Genres,
			Href:            rec.Href,
			Extract:         rec.Extract,
			Thumbnail:       rec.Thumbnail,
			ThumbnailWidth:  rec.ThumbnailWidth,
			ThumbnailHeight: rec.ThumbnailHeight,
		}

		if err := repo.CreateMovie(ctx, movie); err != nil {
			fmt.Fprintf(os.Stderr, "insert %q: %v\n", rec.Title, err)
			os.Exit(1)
		}
		inserted++
	}

	fmt.Printf("seeded %d movies (%d skipped)\n", inserted, skipped)
}
