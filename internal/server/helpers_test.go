package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/alaik/settlerr/internal/config"
	"github.com/alaik/settlerr/internal/db"
	"github.com/alaik/settlerr/internal/matchmaking"
	"github.com/alaik/settlerr/internal/tasks"
	"github.com/alaik/settlerr/internal/types"
)

// testNow is the fixed request clock used by handler tests. Event fixtures
// are dated relative to it.
var testNow = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

// fakeStore is an in-memory Store for handler tests.
type fakeStore struct {
	mu     sync.Mutex
	users  map[uuid.UUID]*db.User
	events map[uuid.UUID]*types.Event
	tasks  map[uuid.UUID][]types.SettlingTask
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:  make(map[uuid.UUID]*db.User),
		events: make(map[uuid.UUID]*types.Event),
		tasks:  make(map[uuid.UUID][]types.SettlingTask),
	}
}

func (f *fakeStore) CreateUser(_ context.Context, input *db.NewUser) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := uuid.New()
	f.users[id] = &db.User{
		ID:              id,
		Username:        input.Username,
		Name:            input.Name,
		Email:           input.Email,
		Phone:           input.Phone,
		DOB:             input.DOB,
		Status:          input.Status,
		Occupation:      input.Occupation,
		Interests:       append(db.StringArray{}, input.Interests...),
		Location:        input.Location,
		Languages:       append(db.StringArray{}, input.Languages...),
		Bio:             input.Bio,
		Social:          db.JSONMap{},
		EventsAttending: db.StringArray{},
		PasswordHash:    input.PasswordHash,
		CreatedAt:       testNow,
		UpdatedAt:       testNow,
	}
	return id, nil
}

func (f *fakeStore) GetUser(_ context.Context, userID uuid.UUID) (*db.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.users[userID], nil
}

func (f *fakeStore) GetUserByUsername(_ context.Context, username string) (*db.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) CheckUsernameExists(_ context.Context, username string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) CheckEmailExists(_ context.Context, email string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) UpdatePassword(_ context.Context, userID uuid.UUID, passwordHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return db.ErrNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

func (f *fakeStore) ListUsersByInterest(_ context.Context, interest string, limit int) ([]db.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if limit <= 0 {
		limit = 50
	}
	var out []db.User
	for _, u := range f.users {
		for _, have := range u.Interests {
			if have == interest {
				out = append(out, *u)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeStore) UpdateProfile(_ context.Context, userID uuid.UUID, update *db.ProfileUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return db.ErrNotFound
	}
	if update.Name != nil {
		u.Name = *update.Name
	}
	if update.Phone != nil {
		u.Phone = *update.Phone
	}
	if update.DOB != nil {
		u.DOB = *update.DOB
	}
	if update.Status != nil {
		u.Status = *update.Status
	}
	if update.Occupation != nil {
		u.Occupation = *update.Occupation
	}
	if update.Interests != nil {
		u.Interests = append(db.StringArray{}, *update.Interests...)
	}
	if update.Location != nil {
		u.Location = *update.Location
	}
	if update.Languages != nil {
		u.Languages = append(db.StringArray{}, *update.Languages...)
	}
	if update.Bio != nil {
		u.Bio = *update.Bio
	}
	if update.PhotoURL != nil {
		u.PhotoURL = *update.PhotoURL
	}
	u.UpdatedAt = testNow
	return nil
}

func (f *fakeStore) DeleteUser(_ context.Context, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[userID]; !ok {
		return db.ErrNotFound
	}
	delete(f.users, userID)
	return nil
}

func (f *fakeStore) CreateEvent(_ context.Context, event *types.Event) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := uuid.New()
	stored := *event
	stored.ID = id
	stored.CreatedAt = testNow
	if stored.RSVPUsers == nil {
		stored.RSVPUsers = []string{}
	}
	f.events[id] = &stored
	return id, nil
}

func (f *fakeStore) GetEvent(_ context.Context, eventID uuid.UUID) (*types.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.events[eventID], nil
}

func (f *fakeStore) GetEventByName(_ context.Context, name string) (*types.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.events {
		if e.Name == name {
			return e, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) ListEvents(_ context.Context, limit int) ([]types.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listLocked(func(*types.Event) bool { return true }, limit), nil
}

func (f *fakeStore) ListUpcomingEvents(_ context.Context, fromDate string, limit int) ([]types.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listLocked(func(e *types.Event) bool { return e.Date >= fromDate }, limit), nil
}

// listLocked filters and returns events sorted by date. Callers hold the lock.
func (f *fakeStore) listLocked(keep func(*types.Event) bool, limit int) []types.Event {
	var out []types.Event
	for _, e := range f.events {
		if keep(e) {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (f *fakeStore) JoinEvent(_ context.Context, eventID, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.events[eventID]
	if !ok {
		return db.ErrNotFound
	}
	uid := userID.String()
	for _, existing := range e.RSVPUsers {
		if existing == uid {
			return db.ErrAlreadyJoined
		}
	}
	if e.RSVPLimit > 0 && len(e.RSVPUsers) >= e.RSVPLimit {
		return db.ErrEventFull
	}
	e.RSVPUsers = append(e.RSVPUsers, uid)
	if u, ok := f.users[userID]; ok {
		u.EventsAttending = append(u.EventsAttending, eventID.String())
	}
	return nil
}

func (f *fakeStore) LeaveEvent(_ context.Context, eventID, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.events[eventID]
	if !ok {
		return db.ErrNotFound
	}
	uid := userID.String()
	idx := -1
	for i, existing := range e.RSVPUsers {
		if existing == uid {
			idx = i
			break
		}
	}
	if idx < 0 {
		return db.ErrNotJoined
	}
	e.RSVPUsers = append(e.RSVPUsers[:idx], e.RSVPUsers[idx+1:]...)
	if u, ok := f.users[userID]; ok {
		eid := eventID.String()
		kept := u.EventsAttending[:0]
		for _, existing := range u.EventsAttending {
			if existing != eid {
				kept = append(kept, existing)
			}
		}
		u.EventsAttending = kept
	}
	return nil
}

func (f *fakeStore) GetTasks(_ context.Context, userID uuid.UUID) ([]types.SettlingTask, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[userID]; !ok {
		return nil, db.ErrNotFound
	}
	return f.tasks[userID], nil
}

func (f *fakeStore) SaveTasks(_ context.Context, userID uuid.UUID, list []types.SettlingTask) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[userID]; !ok {
		return db.ErrNotFound
	}
	f.tasks[userID] = append([]types.SettlingTask{}, list...)
	return nil
}

func (f *fakeStore) RemoveTask(_ context.Context, userID uuid.UUID, description string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	list, ok := f.tasks[userID]
	if !ok {
		return false, nil
	}
	want := strings.ToLower(strings.TrimSpace(description))
	for i, task := range list {
		if strings.ToLower(strings.TrimSpace(task.Description)) == want {
			f.tasks[userID] = append(list[:i], list[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// newTestServer builds a Server on the fake store with a nil LLM client, so
// the engine and task service run their deterministic fallbacks.
func newTestServer(_ *testing.T) (*Server, *fakeStore) {
	store := newFakeStore()
	jwtService := NewJWTService(&config.JWTConfig{
		Secret:          "test-secret-key-for-jwt-signing-minimum-32-bytes",
		ExpirationHours: 24,
	})
	userService := NewUserService(store, &config.PasswordConfig{BcryptCost: 10})

	s := &Server{
		store:       store,
		jwtService:  jwtService,
		userService: userService,
		authHandler: NewAuthHandler(userService, jwtService),
		engine:      matchmaking.NewEngine(nil),
		tasks:       tasks.NewService(nil, nil),
		now:         func() time.Time { return testNow },
	}
	return s, store
}

// doJSON sends a request through the router and returns the recorder. A
// non-empty token is sent as a Bearer credential.
func doJSON(t *testing.T, s *Server, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.routes().ServeHTTP(w, req)
	return w
}

// registerTestUser registers a user through the API and returns the ID and a
// valid token.
func registerTestUser(t *testing.T, s *Server, username string) (uuid.UUID, string) {
	t.Helper()
	w := doJSON(t, s, http.MethodPost, "/auth/register", "", types.RegisterRequest{
		Username: username,
		Name:     "Test User",
		Email:    fmt.Sprintf("%s@example.com", username),
		Password: "password123",
		Status:   "S",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp types.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.User)
	require.NotEmpty(t, resp.Token)
	return resp.User.ID, resp.Token
}

// seedUser inserts a user directly into the fake store.
func seedUser(t *testing.T, store *fakeStore, input *db.NewUser) uuid.UUID {
	t.Helper()
	id, err := store.CreateUser(context.Background(), input)
	require.NoError(t, err)
	return id
}

// seedEvent inserts an event directly into the fake store.
func seedEvent(t *testing.T, store *fakeStore, event *types.Event) uuid.UUID {
	t.Helper()
	id, err := store.CreateEvent(context.Background(), event)
	require.NoError(t, err)
	return id
}
