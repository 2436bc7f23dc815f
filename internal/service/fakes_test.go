package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/filmstack/filmstack/internal/model"
	"github.com/filmstack/filmstack/internal/repository"
)

// fakeUserStore is an in-memory UserStore keyed by user id.
type fakeUserStore struct {
	users map[string]*model.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*model.User)}
}

func (f *fakeUserStore) CreateUser(_ context.Context, user *model.User) error {
	for _, u := range f.users {
		if u.Email == user.Email {
			return repository.ErrEmailExists
		}
	}
	clone := *user
	f.users[user.ID] = &clone
	return nil
}

func (f *fakeUserStore) GetUserByID(_ context.Context, id string) (*model.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}

func (f *fakeUserStore) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (f *fakeUserStore) ListUsers(_ context.Context) ([]*model.User, error) {
	out := make([]*model.User, 0, len(f.users))
	for _, u := range f.users {
		clone := *u
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeUserStore) UpdateUser(_ context.Context, user *model.User) error {
	if _, ok := f.users[user.ID]; !ok {
		return repository.ErrUserNotFound
	}
	for _, u := range f.users {
		if u.ID != user.ID && u.Email == user.Email {
			return repository.ErrEmailExists
		}
	}
	clone := *user
	f.users[user.ID] = &clone
	return nil
}

func (f *fakeUserStore) DeleteUser(_ context.Context, id string) error {
	if _, ok := f.users[id]; !ok {
		return repository.ErrUserNotFound
	}
	delete(f.users, id)
	return nil
}

// fakeTokenStore is an in-memory blacklist table.
type fakeTokenStore struct {
	tokens map[string]time.Time
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{tokens: make(map[string]time.Time)}
}

func (f *fakeTokenStore) BlacklistToken(_ context.Context, token string, expiresAt time.Time) error {
	if _, ok := f.tokens[token]; ok {
		return repository.ErrTokenBlacklisted
	}
	f.tokens[token] = expiresAt
	return nil
}

func (f *fakeTokenStore) IsTokenBlacklisted(_ context.Context, token string) (bool, error) {
	_, ok := f.tokens[token]
	return ok, nil
}

func (f *fakeTokenStore) GetBlacklistedToken(_ context.Context, token string) (*model.BlacklistedToken, error) {
	exp, ok := f.tokens[token]
	if !ok {
		return nil, repository.ErrTokenNotFound
	}
	return &model.BlacklistedToken{Token: token, ExpiresAt: exp}, nil
}

// fakeBlacklistCache mirrors the redis fast path.
type fakeBlacklistCache struct {
	entries map[string]bool
}

func newFakeBlacklistCache() *fakeBlacklistCache {
	return &fakeBlacklistCache{entries: make(map[string]bool)}
}

func (f *fakeBlacklistCache) SetBlacklisted(_ context.Context, token string, _ time.Time) error {
	f.entries[token] = true
	return nil
}

func (f *fakeBlacklistCache) IsBlacklisted(_ context.Context, token string) (bool, error) {
	return f.entries[token], nil
}

// fakeMovieStore implements the catalog predicate in memory, mirroring the
// SQL the repository generates.
type fakeMovieStore struct {
	movies []*model.Movie
}

func (f *fakeMovieStore) ListMovies(_ context.Context, filter repository.MovieFilter, offset, limit int) ([]*model.Movie, int, error) {
	if filter.OrderBy != "" && filter.OrderBy != "title" && filter.OrderBy != "year" {
		return nil, 0, repository.ErrInvalidSortField
	}

	var matched []*model.Movie
	for _, m := range f.movies {
		if filter.Year != 0 && m.Year != filter.Year {
			continue
		}
		if filter.Search != "" {
			needle := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(m.Title), needle) &&
				!strings.Contains(strings.ToLower(m.Extract), needle) {
				continue
			}
		}
		matched = append(matched, m)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		switch filter.OrderBy {
		case "title":
			if a.Title != b.Title {
				if filter.Descending {
					return a.Title > b.Title
				}
				return a.Title < b.Title
			}
		case "year":
			if a.Year != b.Year {
				if filter.Descending {
					return a.Year > b.Year
				}
				return a.Year < b.Year
			}
		}
		return a.ID < b.ID
	})

	total := len(matched)
	if offset >= total {
		return []*model.Movie{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

// fakeMailer records delivered verification tokens.
type fakeMailer struct {
	sent map[string]string // email -> last token
	err  error
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{sent: make(map[string]string)}
}

func (f *fakeMailer) SendVerificationToken(_ context.Context, to, token string) error {
	if f.err != nil {
		return f.err
	}
	f.sent[to] = token
	return nil
}
