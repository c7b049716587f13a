package service

import (
	"context"
	"sync"
	"time"

	"notecards/internal/generator"
	"notecards/internal/models"
	"notecards/internal/repository"
)

// fakeUsers is an in-memory repository.Authorization.
type fakeUsers struct {
	mu     sync.Mutex
	byID   map[int]models.User
	nextID int
	err    error

	createCalls []models.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byID: map[int]models.User{}}
}

func (f *fakeUsers) Create(ctx context.Context, u models.User) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls = append(f.createCalls, u)
	if f.err != nil {
		return 0, f.err
	}
	for _, existing := range f.byID {
		if existing.Email == u.Email || existing.Username == u.Username {
			return 0, repository.ErrDuplicateUser
		}
	}
	f.nextID++
	u.ID = f.nextID
	f.byID[u.ID] = u
	return u.ID, nil
}

func (f *fakeUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.byID {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (f *fakeUsers) GetByID(ctx context.Context, id int) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if u, ok := f.byID[id]; ok {
		return &u, nil
	}
	return nil, nil
}

func (f *fakeUsers) Delete(ctx context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return repository.ErrUserNotFound
	}
	delete(f.byID, id)
	return nil
}

// fakeSessions is an in-memory repository.SessionRepo.
type fakeSessions struct {
	mu       sync.Mutex
	byID     map[string]models.Session
	err      error
	sweepErr error
	swept    []time.Time
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{byID: map[string]models.Session{}}
}

func (f *fakeSessions) Create(ctx context.Context, s models.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.byID[s.ID] = s
	return nil
}

func (f *fakeSessions) Get(ctx context.Context, id string) (*models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.byID[id]; ok {
		return &s, nil
	}
	return nil, nil
}

func (f *fakeSessions) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.byID, id)
	return nil
}

func (f *fakeSessions) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.swept = append(f.swept, now)
	if f.sweepErr != nil {
		return 0, f.sweepErr
	}
	var n int64
	for id, s := range f.byID {
		if s.Expired(now) {
			delete(f.byID, id)
			n++
		}
	}
	return n, nil
}

func (f *fakeSessions) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.byID)
}

// fakeCards is an in-memory repository.FlashcardRepo.
type fakeCards struct {
	saved   map[int][]models.Flashcard
	saveErr error
	ctxErrs []error
}

func newFakeCards() *fakeCards {
	return &fakeCards{saved: map[int][]models.Flashcard{}}
}

func (f *fakeCards) SaveAll(ctx context.Context, userID int, cards []models.Flashcard) ([]models.Flashcard, error) {
	f.ctxErrs = append(f.ctxErrs, ctx.Err())
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	out := make([]models.Flashcard, len(cards))
	for i, c := range cards {
		c.ID = len(f.saved[userID]) + i + 1
		c.UserID = userID
		out[i] = c
	}
	f.saved[userID] = append(f.saved[userID], out...)
	return out, nil
}

func (f *fakeCards) ListByUser(ctx context.Context, userID int) ([]models.Flashcard, error) {
	return f.saved[userID], nil
}

// fakeEventRepo satisfies repository.EventRepo and captures its inputs.
type fakeEventRepo struct {
	gotUserID   int
	gotFrom     time.Time
	gotTo       time.Time
	gotStrategy string

	appended  []models.GenerationEvent
	appendErr error
	events    []models.GenerationEvent
	err       error

	calls int
}

func (f *fakeEventRepo) Append(ctx context.Context, e models.GenerationEvent) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.appended = append(f.appended, e)
	return nil
}

func (f *fakeEventRepo) List(ctx context.Context, userID int, from, to time.Time, strategy string) ([]models.GenerationEvent, error) {
	f.calls++
	f.gotUserID = userID
	f.gotFrom = from
	f.gotTo = to
	f.gotStrategy = strategy
	return f.events, f.err
}

// fakeGenerator stands in for the strategy pipeline.
type fakeGenerator struct {
	res   generator.Result
	err   error
	caps  generator.Capabilities
	calls int
}

func (f *fakeGenerator) Generate(ctx context.Context, notes string) (generator.Result, error) {
	f.calls++
	return f.res, f.err
}

func (f *fakeGenerator) Capabilities() generator.Capabilities { return f.caps }
