package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kamgaa/lab-reservation/internal/admission"
	"github.com/kamgaa/lab-reservation/internal/events"
	"github.com/kamgaa/lab-reservation/internal/handlers/mdlwr"
	"github.com/kamgaa/lab-reservation/pkg/reservation"
	"github.com/kamgaa/lab-reservation/pkg/team"
	"github.com/kamgaa/lab-reservation/pkg/user"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var kst = time.FixedZone("KST", 9*60*60)

// Monday 2024-06-10, 08:00 in the lab's timezone.
var now = time.Date(2024, time.June, 10, 8, 0, 0, 0, kst)

type fakeUsers struct {
	mu    sync.Mutex
	users map[string]*user.User
	// store mirrors owner teams into the reservation store like the users table join does
	store *reservation.MemoryStore
}

func (f *fakeUsers) Create(_ context.Context, u *user.User) (*user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[u.UserID]; ok {
		return nil, user.ErrUserExists
	}
	c := *u
	f.users[u.UserID] = &c
	f.store.SetOwnerTeam(u.UserID, u.TeamName)
	return &c, nil
}

func (f *fakeUsers) GetByID(_ context.Context, userID string) (*user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	c := *u
	return &c, nil
}

func (f *fakeUsers) Authenticate(ctx context.Context, userID, password string) (*user.User, error) {
	u, err := f.GetByID(ctx, userID)
	if err != nil {
		return nil, user.ErrInvalidCredentials
	}
	if err := u.CheckPassword(password); err != nil {
		return nil, err
	}
	return u, nil
}

func (f *fakeUsers) UpdateProfile(_ context.Context, userID string, p user.Profile) (*user.User, error) {
	if err := user.Validate(p); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	if _, taken := f.users[p.UserID]; taken && p.UserID != userID {
		return nil, user.ErrUserExists
	}

	delete(f.users, userID)
	u.UserID, u.Name, u.TeamName = p.UserID, p.Name, p.TeamName
	f.users[u.UserID] = u
	f.store.SetOwnerTeam(u.UserID, u.TeamName)

	c := *u
	return &c, nil
}

func (f *fakeUsers) ListUsers(context.Context) ([]*user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*user.User, 0, len(f.users))
	for _, u := range f.users {
		c := *u
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

type fakeTeams struct {
	teams []team.Team
	users *fakeUsers
}

func (f *fakeTeams) CreateTeam(_ context.Context, teamName, color string) (*team.Team, error) {
	for _, t := range f.teams {
		if t.TeamName == teamName {
			return nil, team.ErrTeamExists
		}
	}
	f.teams = append(f.teams, team.Team{TeamName: teamName, Color: color})
	return &team.Team{TeamName: teamName, Color: color}, nil
}

func (f *fakeTeams) GetTeam(ctx context.Context, teamName string) (*team.Team, error) {
	for _, t := range f.teams {
		if t.TeamName != teamName {
			continue
		}
		out := t
		users, _ := f.users.ListUsers(ctx)
		for _, u := range users {
			if u.TeamName == teamName {
				out.Members = append(out.Members, u)
			}
		}
		return &out, nil
	}
	return nil, team.ErrTeamNotFound
}

func (f *fakeTeams) ListTeams(context.Context) ([]*team.Team, error) {
	out := make([]*team.Team, 0, len(f.teams))
	for i := range f.teams {
		t := f.teams[i]
		out = append(out, &t)
	}
	return out, nil
}

func (f *fakeTeams) EnsureTeams(_ context.Context, teams []team.Team) error {
	for _, t := range teams {
		_, _ = f.CreateTeam(context.Background(), t.TeamName, t.Color)
	}
	return nil
}

type sentEvent struct {
	key string
	v   any
}

type recordingPublisher struct {
	mu   sync.Mutex
	sent []sentEvent
}

func (p *recordingPublisher) PublishJSON(_ context.Context, key string, v any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent = append(p.sent, sentEvent{key: key, v: v})
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

type testEnv struct {
	store  *reservation.MemoryStore
	users  *fakeUsers
	teams  *fakeTeams
	pub    *recordingPublisher
	engine *admission.Engine
	router *gin.Engine
}

// asUser stands in for the token middleware.
func asUser(c *gin.Context) {
	if id := c.GetHeader("X-Test-User"); id != "" {
		c.Set(mdlwr.IdentityKey, &mdlwr.Identity{UserID: id, Role: mdlwr.RoleMember})
	}
	c.Next()
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := zap.NewNop().Sugar()
	store := reservation.NewMemoryStore()
	users := &fakeUsers{users: make(map[string]*user.User), store: store}
	teams := &fakeTeams{users: users}
	require.NoError(t, teams.EnsureTeams(context.Background(), team.DefaultTeams))

	pub := &recordingPublisher{}
	notifier := events.NewNotifier(logger, pub)
	engine := admission.NewEngine(logger, store, admission.Policy{Location: kst}, admission.FixedClock(now))

	userHandler := NewUserHandler(logger, users, teams)
	teamHandler := NewTeamHandler(logger, teams, engine)
	reservationHandler := NewReservationHandler(logger, engine, store, teams, notifier)
	adminHandler := NewAdminHandler(logger, store, users, notifier)

	router := gin.New()
	router.Use(asUser)
	router.POST("/users/register", userHandler.Register)
	router.GET("/users/me", userHandler.Me)
	router.PUT("/users/profile", userHandler.UpdateProfile)
	router.GET("/teams", teamHandler.ListTeams)
	router.GET("/teams/get", teamHandler.GetTeam)
	router.GET("/teams/quota", teamHandler.Quota)
	router.POST("/reservations", reservationHandler.Reserve)
	router.GET("/reservations", reservationHandler.ListByDate)
	router.GET("/reservations/schedule", reservationHandler.Schedule)
	router.GET("/reservations/mine", reservationHandler.Mine)
	router.GET("/admin/reservations", adminHandler.ListReservations)
	router.DELETE("/admin/reservations/:id", adminHandler.DeleteReservation)
	router.GET("/admin/users", adminHandler.ListUsers)

	return &testEnv{store: store, users: users, teams: teams, pub: pub, engine: engine, router: router}
}

func (e *testEnv) addUser(t *testing.T, userID, name, teamName string) {
	t.Helper()
	u, err := user.New(userID, name, "password", teamName)
	require.NoError(t, err)
	_, err = e.users.Create(context.Background(), u)
	require.NoError(t, err)
}

func (e *testEnv) do(method, path, asUserID string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if asUserID != "" {
		req.Header.Set("X-Test-User", asUserID)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

type errBody struct {
	Error struct {
		Code           string   `json:"code"`
		RemainingHours *float64 `json:"remaining_hours"`
	} `json:"error"`
}
