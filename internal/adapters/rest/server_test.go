package rest

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"rental-client/internal/adapters/notifier"
	"rental-client/internal/core/domain"
	"rental-client/internal/core/port"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Info(string, port.Fields)                 {}
func (nopLogger) Warn(string, port.Fields)                 {}
func (nopLogger) Error(string, error, port.Fields)         {}
func (nopLogger) Debug(string, port.Fields)                {}
func (l nopLogger) WithFields(port.Fields) port.LoggerPort { return l }

type stubSession struct {
	user *domain.User
}

func (s *stubSession) CurrentUser() (*domain.User, bool) { return s.user, s.user != nil }
func (s *stubSession) Token() (string, bool)             { return "tok", s.user != nil }
func (s *stubSession) Start(string) (*domain.User, error) {
	return nil, errors.New("not supported")
}
func (s *stubSession) End() { s.user = nil }

// fakeBrowser записывает вызовы экрана списка и отвечает заранее заданными значениями.
type fakeBrowser struct {
	mu        sync.Mutex
	state     domain.ViewState
	patches   []domain.FilterPatch
	pages     []int
	drafts    []domain.ListingDraft
	deleted   []string
	toggled   []string
	err       error
	refreshes int
}

func (b *fakeBrowser) Snapshot() domain.ViewState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *fakeBrowser) UpdateFilters(_ context.Context, patch domain.FilterPatch) domain.ViewState {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.patches = append(b.patches, patch)
	return b.state
}

func (b *fakeBrowser) ClearFilters(context.Context) domain.ViewState { return b.Snapshot() }

func (b *fakeBrowser) SetPage(_ context.Context, page int) (domain.ViewState, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if page < 1 {
		return b.state, domain.ErrInvalidPage
	}
	b.pages = append(b.pages, page)
	b.state.Page = page
	return b.state, nil
}

func (b *fakeBrowser) Refresh(context.Context) domain.ViewState {
	b.mu.Lock()
	b.refreshes++
	b.mu.Unlock()
	return b.Snapshot()
}

func (b *fakeBrowser) CreateListing(_ context.Context, draft domain.ListingDraft) (domain.Listing, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return domain.Listing{}, b.err
	}
	b.drafts = append(b.drafts, draft)
	return domain.Listing{ID: "new-1", Title: draft.Title}, nil
}

func (b *fakeBrowser) UpdateListing(_ context.Context, id string, draft domain.ListingDraft) (domain.Listing, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return domain.Listing{}, b.err
	}
	return domain.Listing{ID: id, Title: draft.Title}, nil
}

func (b *fakeBrowser) DeleteListing(_ context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.deleted = append(b.deleted, id)
	return b.err
}

func (b *fakeBrowser) ToggleFavorite(_ context.Context, listingID string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return false, b.err
	}
	b.toggled = append(b.toggled, listingID)
	return true, nil
}

func (b *fakeBrowser) OpenCreateForm(context.Context) error { return b.err }

func (b *fakeBrowser) OpenEditForm(context.Context, string) error { return b.err }

func (b *fakeBrowser) CloseForm(context.Context) {}

type authStub func(ctx context.Context, creds domain.Credentials) (*domain.User, error)

func (f authStub) Execute(ctx context.Context, creds domain.Credentials) (*domain.User, error) {
	return f(ctx, creds)
}

type logoutStub struct{ calls int }

func (l *logoutStub) Execute(context.Context) { l.calls++ }

type profileStub struct {
	profile domain.Profile
	err     error
}

func (p profileStub) Execute(context.Context) (domain.Profile, error) { return p.profile, p.err }

type profileUpdateStub struct{}

func (profileUpdateStub) Execute(_ context.Context, u domain.ProfileUpdate) (domain.Profile, error) {
	return domain.Profile{ID: "u1", FullName: u.FullName}, nil
}

type favoritesStub struct{ favorites []domain.Favorite }

func (f favoritesStub) Execute(context.Context) ([]domain.Favorite, error) { return f.favorites, nil }

type removeFavoriteStub struct{ removed []string }

func (r *removeFavoriteStub) Execute(_ context.Context, id string) error {
	r.removed = append(r.removed, id)
	return nil
}

type receivedStub struct{}

func (receivedStub) Execute(context.Context) (domain.ReceivedRecommendations, error) {
	return domain.ReceivedRecommendations{DeletedListingsCount: 2}, nil
}

type sendStub struct{ drafts []domain.RecommendationDraft }

func (s *sendStub) Execute(_ context.Context, d domain.RecommendationDraft) error {
	s.drafts = append(s.drafts, d)
	return nil
}

type routerFixture struct {
	router  http.Handler
	browser *fakeBrowser
	session *stubSession
	logout  *logoutStub
	remove  *removeFavoriteStub
	send    *sendStub
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()
	f := &routerFixture{
		browser: &fakeBrowser{state: domain.ViewState{Status: domain.ListStatusReady, Page: 1, PageSize: 10}},
		session: &stubSession{},
		logout:  &logoutStub{},
		remove:  &removeFavoriteStub{},
		send:    &sendStub{},
	}

	login := authStub(func(_ context.Context, creds domain.Credentials) (*domain.User, error) {
		if creds.Password != "secret" {
			return nil, &domain.APIError{StatusCode: http.StatusUnauthorized, Message: "Incorrect email or password"}
		}
		return &domain.User{ID: "u1", Email: creds.Email}, nil
	})

	hub := notifier.NewSSENotifier(nopLogger{})
	t.Cleanup(hub.Close)

	f.router = NewRouter(Handlers{
		Listings:        NewListingsHandler(f.browser),
		Account:         NewAccountHandler(login, login, f.logout, profileStub{profile: domain.Profile{ID: "u1", FullName: "Ann"}}, profileUpdateStub{}, f.session),
		Favorites:       NewFavoritesHandler(favoritesStub{favorites: []domain.Favorite{{ID: "f1", ListingID: "p1"}}}, f.remove),
		Recommendations: NewRecommendationsHandler(receivedStub{}, f.send),
		Events:          NewEventsHandler(hub, f.browser),
	}, f.session, []string{"http://localhost:5173"}, nopLogger{})
	return f
}

func (f *routerFixture) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestStatusForError(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{domain.ErrAuthRequired, http.StatusUnauthorized},
		{domain.ErrSessionExpired, http.StatusUnauthorized},
		{domain.ErrNotOwner, http.StatusForbidden},
		{domain.ErrListingNotFound, http.StatusNotFound},
		{domain.ErrFavoritePending, http.StatusConflict},
		{domain.ErrInvalidPage, http.StatusBadRequest},
		{&domain.APIError{StatusCode: http.StatusUnprocessableEntity}, http.StatusUnprocessableEntity},
		{&domain.APIError{StatusCode: http.StatusServiceUnavailable}, http.StatusBadGateway},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, statusForError(tc.err), tc.err.Error())
	}
}

func TestRouter_StateAndTraceHeader(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(http.MethodGet, "/api/state", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Header().Get("X-Trace-ID"))

	body := decodeBody(t, rec)
	assert.Equal(t, "ready", body["status"])
	assert.Equal(t, float64(10), body["pageSize"])
}

func TestRouter_UpdateFilters(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(http.MethodPatch, "/api/filters", `{"city": "Pune", "amenities": ["gym"], "isVerified": "yes"}`)
	require.Equal(t, http.StatusAccepted, rec.Code)

	require.Len(t, f.browser.patches, 1)
	patch := f.browser.patches[0]
	require.NotNil(t, patch.City)
	assert.Equal(t, "Pune", *patch.City)
	assert.Nil(t, patch.State)
	require.NotNil(t, patch.Amenities)
	assert.Equal(t, []string{"gym"}, *patch.Amenities)
	require.NotNil(t, patch.IsVerified)
	assert.Equal(t, domain.TriTrue, *patch.IsVerified)
}

func TestRouter_UpdateFiltersRejectsBadInput(t *testing.T) {
	f := newRouterFixture(t)

	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodPatch, "/api/filters", `{"isVerified": "maybe"}`).Code)
	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodPatch, "/api/filters", `not json`).Code)
	assert.Empty(t, f.browser.patches)
}

func TestRouter_SetPage(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(http.MethodPut, "/api/page", `{"page": 3}`)
	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, float64(3), decodeBody(t, rec)["page"])

	rec = f.do(http.MethodPut, "/api/page", `{"page": 0}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, domain.ErrInvalidPage.Error(), decodeBody(t, rec)["error"])
}

func TestRouter_CreateListingValidatesBody(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(http.MethodPost, "/api/listings", `{"title": "Loft"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, f.browser.drafts)

	rec = f.do(http.MethodPost, "/api/listings", `{
		"title": " Loft ", "type": "Apartment", "price": 900, "state": "Maharashtra", "city": "Pune",
		"listingType": "Rent", "amenities": ["gym"], "availableFrom": "2024-06-01"
	}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, f.browser.drafts, 1)
	assert.Equal(t, "Loft", f.browser.drafts[0].Title)
	assert.Equal(t, 2024, f.browser.drafts[0].AvailableFrom.Year())
	assert.Equal(t, "new-1", decodeBody(t, rec)["id"])
}

func TestRouter_ListingErrorsMapToStatus(t *testing.T) {
	f := newRouterFixture(t)
	valid := `{"title": "x", "type": "Apartment", "price": 1, "state": "Goa", "city": "Panaji", "listingType": "Sale"}`

	f.browser.err = domain.ErrAuthRequired
	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodPost, "/api/listings", valid).Code)

	f.browser.err = domain.ErrNotOwner
	assert.Equal(t, http.StatusForbidden, f.do(http.MethodPut, "/api/listings/p1", valid).Code)
	assert.Equal(t, http.StatusForbidden, f.do(http.MethodDelete, "/api/listings/p1", "").Code)

	f.browser.err = domain.ErrFavoritePending
	assert.Equal(t, http.StatusConflict, f.do(http.MethodPost, "/api/listings/p1/favorite", "").Code)

	f.browser.err = &domain.APIError{StatusCode: http.StatusInternalServerError, Message: "db down"}
	rec := f.do(http.MethodPost, "/api/forms/create", "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "db down", decodeBody(t, rec)["error"])
}

func TestRouter_DeleteAndToggle(t *testing.T) {
	f := newRouterFixture(t)

	assert.Equal(t, http.StatusNoContent, f.do(http.MethodDelete, "/api/listings/p1", "").Code)
	assert.Equal(t, []string{"p1"}, f.browser.deleted)

	rec := f.do(http.MethodPost, "/api/listings/p2/favorite", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "p2", body["listingId"])
	assert.Equal(t, true, body["isFavorite"])
}

func TestRouter_Auth(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(http.MethodPost, "/api/auth/login", `{"email": "ann@example.com", "password": "secret"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u1", decodeBody(t, rec)["id"])

	rec = f.do(http.MethodPost, "/api/auth/register", `{"email": "ann@example.com", "password": "secret"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = f.do(http.MethodPost, "/api/auth/login", `{"email": "ann@example.com", "password": "wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Incorrect email or password", decodeBody(t, rec)["error"])

	rec = f.do(http.MethodPost, "/api/auth/login", `{"email": "nope", "password": "secret"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodGet, "/api/auth/me", "").Code)
	f.session.user = &domain.User{ID: "u1", Email: "ann@example.com"}
	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/api/auth/me", "").Code)

	assert.Equal(t, http.StatusNoContent, f.do(http.MethodPost, "/api/auth/logout", "").Code)
	assert.Equal(t, 1, f.logout.calls)
}

func TestRouter_SessionGuard(t *testing.T) {
	f := newRouterFixture(t)

	for _, path := range []string{"/api/profile", "/api/favorites", "/api/recommendations"} {
		rec := f.do(http.MethodGet, path, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
		assert.Equal(t, "Please sign in to continue", decodeBody(t, rec)["error"], path)
	}

	f.session.user = &domain.User{ID: "u1"}

	rec := f.do(http.MethodGet, "/api/profile", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Ann", body["full_name"])
	assert.NotEmpty(t, body["avatar"])

	rec = f.do(http.MethodGet, "/api/favorites", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"listingId":"p1"`)

	assert.Equal(t, http.StatusNoContent, f.do(http.MethodDelete, "/api/favorites/f1", "").Code)
	assert.Equal(t, []string{"f1"}, f.remove.removed)

	rec = f.do(http.MethodPost, "/api/recommendations", `{"recipientEmail": "bob@example.com", "propertyId": "p1"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, f.send.drafts, 1)
	assert.Equal(t, "p1", f.send.drafts[0].ListingID)

	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodPost, "/api/recommendations", `{"propertyId": "p1"}`).Code)
}

func TestRouter_Locations(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(http.MethodGet, "/api/locations/states", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Maharashtra")

	rec = f.do(http.MethodGet, "/api/locations/states/maharashtra/cities", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Maharashtra", decodeBody(t, rec)["state"])

	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/api/locations/states/Atlantis/cities", "").Code)
}

func TestRouter_EventsStreamStartsWithSnapshot(t *testing.T) {
	f := newRouterFixture(t)
	srv := httptest.NewServer(f.router)
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	var events []string
	for len(events) < 2 {
		line, err := reader.ReadString('\n')
		require.NoError(t, err)
		if strings.HasPrefix(line, "event: ") {
			events = append(events, strings.TrimSpace(strings.TrimPrefix(line, "event: ")))
		}
	}
	assert.Equal(t, []string{"connected", "state"}, events)

	data, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(data, "data: "))
	assert.Contains(t, data, `"status":"ready"`)
}
