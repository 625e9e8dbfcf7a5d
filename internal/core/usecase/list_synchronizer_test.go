package usecase

import (
	"context"
	"rental-client/internal/core/domain"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testWindow = 30 * time.Millisecond

type syncFixture struct {
	sync      *ListSynchronizer
	listings  *fakeListingAPI
	favorites *fakeFavoritesAPI
	session   *fakeSession
	notifier  *recordingNotifier
}

func newSyncFixture(t *testing.T, session *fakeSession, window time.Duration, items ...domain.Listing) *syncFixture {
	t.Helper()
	f := &syncFixture{
		listings:  newFakeListingAPI(items...),
		favorites: &fakeFavoritesAPI{},
		session:   session,
		notifier:  &recordingNotifier{},
	}
	f.sync = NewListSynchronizer(f.listings, f.favorites, f.session, f.notifier, ListSynchronizerConfig{
		PageSize:       DefaultPageSize,
		DebounceWindow: window,
	})
	t.Cleanup(f.sync.Close)
	return f
}

// settle ждёт завершения всех запущенных запросов списка.
func (f *syncFixture) settle() {
	f.sync.inflight.Wait()
}

func strPtr(s string) *string { return &s }

func TestListSynchronizer_MountLoadsFirstPageAndFavorites(t *testing.T) {
	f := newSyncFixture(t, signedIn("u1"), testWindow, listing("p1", "u1"), listing("p2", "u2"))
	f.favorites.favorites = []domain.Favorite{{ID: "f2", ListingID: "p2"}}

	require.NoError(t, f.sync.Mount(context.Background()))

	calls := f.listings.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "page=1&limit=12", calls[0].Encode())

	state := f.sync.Snapshot()
	assert.Equal(t, domain.ListStatusReady, state.Status)
	assert.Len(t, state.Items, 2)
	assert.Equal(t, []string{"p2"}, state.FavoriteListingIDs)
	assert.Equal(t, 1, state.Page)
	assert.Equal(t, 1, state.TotalPages)
}

func TestListSynchronizer_MountSignedOutSkipsFavorites(t *testing.T) {
	f := newSyncFixture(t, &fakeSession{}, testWindow, listing("p1", "u1"))
	f.favorites.listErr = errBackend

	require.NoError(t, f.sync.Mount(context.Background()))
	assert.Empty(t, f.sync.Snapshot().FavoriteListingIDs)
}

func TestListSynchronizer_FilterBurstFetchesOnce(t *testing.T) {
	f := newSyncFixture(t, &fakeSession{}, testWindow)
	ctx := context.Background()

	f.sync.UpdateFilters(ctx, domain.FilterPatch{MinPrice: strPtr("1")})
	f.sync.UpdateFilters(ctx, domain.FilterPatch{MinPrice: strPtr("10")})
	state := f.sync.UpdateFilters(ctx, domain.FilterPatch{MinPrice: strPtr("100")})

	assert.Equal(t, "100", state.Filters.MinPrice)
	assert.Zero(t, f.listings.callCount(), "nothing is sent inside the quiet window")

	require.Eventually(t, func() bool { return f.listings.callCount() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(3 * testWindow)
	f.settle()

	calls := f.listings.calls()
	require.Len(t, calls, 1)
	v, _ := calls[0].Get("price[gte]")
	assert.Equal(t, "100", v)
}

func TestListSynchronizer_FilterChangeResetsPage(t *testing.T) {
	f := newSyncFixture(t, &fakeSession{}, testWindow)
	ctx := context.Background()

	_, err := f.sync.SetPage(ctx, 3)
	require.NoError(t, err)
	f.settle()

	state := f.sync.UpdateFilters(ctx, domain.FilterPatch{City: strPtr("Pune")})
	assert.Equal(t, 1, state.Page)

	require.Eventually(t, func() bool { return f.listings.callCount() == 2 }, time.Second, 5*time.Millisecond)
	f.settle()
	page, _ := f.listings.calls()[1].Get("page")
	assert.Equal(t, "1", page)
}

func TestListSynchronizer_NoOpPatchDoesNothing(t *testing.T) {
	f := newSyncFixture(t, &fakeSession{}, testWindow)
	ctx := context.Background()

	_, err := f.sync.SetPage(ctx, 2)
	require.NoError(t, err)
	f.settle()

	state := f.sync.UpdateFilters(ctx, domain.FilterPatch{City: strPtr("")})
	assert.Equal(t, 2, state.Page)

	time.Sleep(3 * testWindow)
	assert.Equal(t, 1, f.listings.callCount())
}

func TestListSynchronizer_PageChangeBypassesDebounce(t *testing.T) {
	f := newSyncFixture(t, &fakeSession{}, time.Hour)
	ctx := context.Background()

	f.sync.UpdateFilters(ctx, domain.FilterPatch{PropertyType: strPtr("Villa")})
	_, err := f.sync.SetPage(ctx, 2)
	require.NoError(t, err)
	f.settle()

	calls := f.listings.calls()
	require.Len(t, calls, 1, "pending filter fetch is absorbed by the page fetch")
	typ, _ := calls[0].Get("type")
	page, _ := calls[0].Get("page")
	assert.Equal(t, "Villa", typ)
	assert.Equal(t, "2", page)
	assert.False(t, f.sync.debouncer.Pending())
}

func TestListSynchronizer_SetPageRejectsInvalid(t *testing.T) {
	f := newSyncFixture(t, &fakeSession{}, testWindow)

	_, err := f.sync.SetPage(context.Background(), 0)
	assert.ErrorIs(t, err, domain.ErrInvalidPage)
	assert.Zero(t, f.listings.callCount())
}

func TestListSynchronizer_StaleResponseDiscarded(t *testing.T) {
	f := newSyncFixture(t, &fakeSession{}, testWindow)
	ctx := context.Background()

	release := make(chan struct{})
	f.listings.setHandler(func(ctx context.Context, q domain.Query) (domain.ListingPage, error) {
		page, _ := q.Get("page")
		if page == "2" {
			<-release
			return domain.ListingPage{Items: []domain.Listing{listing("stale", "x")}, TotalCount: 1}, nil
		}
		return domain.ListingPage{Items: []domain.Listing{listing("fresh", "x")}, TotalCount: 1}, nil
	})

	_, err := f.sync.SetPage(ctx, 2)
	require.NoError(t, err)
	_, err = f.sync.SetPage(ctx, 3)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return f.sync.Snapshot().Status == domain.ListStatusReady
	}, time.Second, 5*time.Millisecond)

	close(release)
	f.settle()

	state := f.sync.Snapshot()
	require.Len(t, state.Items, 1)
	assert.Equal(t, "fresh", state.Items[0].ID)
	assert.Equal(t, 3, state.Page)
}

func TestListSynchronizer_FilterChangeDiscardsHeldRefresh(t *testing.T) {
	f := newSyncFixture(t, &fakeSession{}, 150*time.Millisecond)
	ctx := context.Background()

	release := make(chan struct{})
	f.listings.setHandler(func(ctx context.Context, q domain.Query) (domain.ListingPage, error) {
		if !q.Has("city") {
			<-release
			return domain.ListingPage{Items: []domain.Listing{listing("held", "x")}, TotalCount: 1}, nil
		}
		return domain.ListingPage{Items: []domain.Listing{listing("fresh", "x")}, TotalCount: 1}, nil
	})

	f.sync.Refresh(ctx)
	require.Eventually(t, func() bool { return f.listings.callCount() == 1 }, time.Second, 5*time.Millisecond)

	f.sync.UpdateFilters(ctx, domain.FilterPatch{City: strPtr("Pune")})
	close(release)
	// В полёте только удержанный Refresh: запрос по фильтру ждёт окна тишины.
	f.settle()

	require.True(t, f.sync.debouncer.Pending())
	state := f.sync.Snapshot()
	assert.Empty(t, state.Items)
	assert.Equal(t, domain.ListStatusLoading, state.Status)

	require.Eventually(t, func() bool { return f.listings.callCount() == 2 }, time.Second, 5*time.Millisecond)
	f.settle()

	state = f.sync.Snapshot()
	require.Len(t, state.Items, 1)
	assert.Equal(t, "fresh", state.Items[0].ID)
	for _, published := range f.notifier.states() {
		for _, item := range published.Items {
			assert.NotEqual(t, "held", item.ID)
		}
	}
}

func TestListSynchronizer_FetchErrorKeepsItemsAndNotifiesOnce(t *testing.T) {
	f := newSyncFixture(t, &fakeSession{}, testWindow, listing("p1", "u1"))
	ctx := context.Background()
	require.NoError(t, f.sync.Mount(ctx))

	f.listings.setHandler(func(ctx context.Context, q domain.Query) (domain.ListingPage, error) {
		return domain.ListingPage{}, &domain.APIError{StatusCode: 500, Message: "database is down"}
	})
	f.sync.Refresh(ctx)
	f.settle()

	state := f.sync.Snapshot()
	assert.Equal(t, domain.ListStatusError, state.Status)
	assert.Equal(t, "database is down", state.LastError)
	require.Len(t, state.Items, 1)
	assert.Equal(t, "p1", state.Items[0].ID)
	assert.Equal(t, 1, f.notifier.notificationsTitled("Error fetching properties"))
}

func TestListSynchronizer_CreateRequiresSession(t *testing.T) {
	f := newSyncFixture(t, &fakeSession{}, testWindow)

	_, err := f.sync.CreateListing(context.Background(), domain.ListingDraft{Title: "Flat"})

	assert.ErrorIs(t, err, domain.ErrAuthRequired)
	assert.Zero(t, f.listings.writes())
	assert.Zero(t, f.listings.callCount())
	assert.Equal(t, 1, f.notifier.notificationsTitled("Authentication required"))
}

func TestListSynchronizer_CreateClosesFormAndRefetchesOnce(t *testing.T) {
	f := newSyncFixture(t, signedIn("u1"), testWindow)
	ctx := context.Background()

	require.NoError(t, f.sync.OpenCreateForm(ctx))
	assert.Equal(t, domain.FormCreate, f.sync.Snapshot().Form.Kind)

	created, err := f.sync.CreateListing(ctx, domain.ListingDraft{Title: "Flat"})
	require.NoError(t, err)
	f.settle()

	assert.Equal(t, "new-1", created.ID)
	assert.Equal(t, domain.FormNone, f.sync.Snapshot().Form.Kind)
	assert.Equal(t, 1, f.listings.callCount())
	assert.Equal(t, 1, f.notifier.notificationsTitled("Success"))
}

func TestListSynchronizer_CreateFailureKeepsForm(t *testing.T) {
	f := newSyncFixture(t, signedIn("u1"), testWindow)
	ctx := context.Background()
	f.listings.writeErr = errBackend

	require.NoError(t, f.sync.OpenCreateForm(ctx))
	_, err := f.sync.CreateListing(ctx, domain.ListingDraft{Title: "Flat"})

	assert.ErrorIs(t, err, errBackend)
	assert.Equal(t, domain.FormCreate, f.sync.Snapshot().Form.Kind)
	assert.Zero(t, f.listings.callCount())
	assert.Equal(t, 1, f.notifier.notificationsTitled("Error adding property"))
}

func TestListSynchronizer_UpdateRejectsNonOwner(t *testing.T) {
	f := newSyncFixture(t, signedIn("u1"), testWindow, listing("p2", "u2"))
	ctx := context.Background()
	require.NoError(t, f.sync.Mount(ctx))

	_, err := f.sync.UpdateListing(ctx, "p2", domain.ListingDraft{Title: "Mine now"})

	assert.ErrorIs(t, err, domain.ErrNotOwner)
	assert.Zero(t, f.listings.writes())
	assert.Equal(t, 1, f.notifier.notificationsTitled("Permission denied"))
	assert.False(t, f.sync.CanManage(listing("p2", "u2")))
	assert.True(t, f.sync.CanManage(listing("p1", "u1")))
}

func TestListSynchronizer_DeleteClosesMatchingEditForm(t *testing.T) {
	f := newSyncFixture(t, signedIn("u1"), testWindow, listing("p1", "u1"), listing("p3", "u1"))
	ctx := context.Background()
	require.NoError(t, f.sync.Mount(ctx))

	require.NoError(t, f.sync.OpenEditForm(ctx, "p1"))
	require.NoError(t, f.sync.DeleteListing(ctx, "p3"))
	f.settle()
	assert.Equal(t, domain.FormEdit, f.sync.Snapshot().Form.Kind, "other listing's form stays open")

	require.NoError(t, f.sync.DeleteListing(ctx, "p1"))
	f.settle()
	assert.Equal(t, domain.FormNone, f.sync.Snapshot().Form.Kind)
	assert.Equal(t, 3, f.listings.callCount())
}

func TestListSynchronizer_OpenEditFormChecksOwnership(t *testing.T) {
	f := newSyncFixture(t, signedIn("u1"), testWindow, listing("p2", "u2"))
	ctx := context.Background()
	require.NoError(t, f.sync.Mount(ctx))

	assert.ErrorIs(t, f.sync.OpenEditForm(ctx, "p2"), domain.ErrNotOwner)
	assert.ErrorIs(t, f.sync.OpenEditForm(ctx, "missing"), domain.ErrListingNotFound)
}

func TestListSynchronizer_ToggleFavoriteRequiresSession(t *testing.T) {
	f := newSyncFixture(t, &fakeSession{}, testWindow)

	_, err := f.sync.ToggleFavorite(context.Background(), "p1")

	assert.ErrorIs(t, err, domain.ErrAuthRequired)
	assert.Zero(t, f.favorites.callCount())
	assert.Equal(t, 1, f.notifier.notificationsTitled("Authentication required"))
}

func TestListSynchronizer_ToggleFavoriteAddAndRemove(t *testing.T) {
	f := newSyncFixture(t, signedIn("u1"), testWindow, listing("p1", "u2"))
	ctx := context.Background()

	on, err := f.sync.ToggleFavorite(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, on)
	f.settle()
	assert.Equal(t, []string{"p1"}, f.sync.Snapshot().FavoriteListingIDs)

	on, err = f.sync.ToggleFavorite(ctx, "p1")
	require.NoError(t, err)
	assert.False(t, on)
	f.settle()

	assert.Empty(t, f.sync.Snapshot().FavoriteListingIDs)
	assert.Equal(t, []string{"fav-p1"}, f.favorites.removed)
	assert.Equal(t, 2, f.listings.callCount(), "each toggle refetches once")
}

func TestListSynchronizer_ToggleFavoriteIsOptimistic(t *testing.T) {
	f := newSyncFixture(t, signedIn("u1"), testWindow)
	ctx := context.Background()
	f.favorites.gate = make(chan struct{})

	done := make(chan error, 1)
	go func() {
		_, err := f.sync.ToggleFavorite(ctx, "p1")
		done <- err
	}()

	require.Eventually(t, func() bool {
		state, ok := f.notifier.lastState()
		return ok && len(state.FavoriteListingIDs) == 1
	}, time.Second, 5*time.Millisecond, "favorite is shown before the server answers")

	_, err := f.sync.ToggleFavorite(ctx, "p1")
	assert.ErrorIs(t, err, domain.ErrFavoritePending)

	close(f.favorites.gate)
	require.NoError(t, <-done)
	f.settle()
}

func TestListSynchronizer_ToggleFavoriteRollsBackOnError(t *testing.T) {
	f := newSyncFixture(t, signedIn("u1"), testWindow)
	ctx := context.Background()

	f.favorites.addErr = errBackend
	on, err := f.sync.ToggleFavorite(ctx, "p1")
	assert.ErrorIs(t, err, errBackend)
	assert.False(t, on)
	assert.Empty(t, f.sync.Snapshot().FavoriteListingIDs)

	f.favorites.favorites = []domain.Favorite{{ID: "f9", ListingID: "p9"}}
	f.sync.OnSessionStarted(ctx)
	f.favorites.removeErr = errBackend

	on, err = f.sync.ToggleFavorite(ctx, "p9")
	assert.ErrorIs(t, err, errBackend)
	assert.True(t, on)
	assert.Equal(t, []string{"p9"}, f.sync.Snapshot().FavoriteListingIDs)
	assert.Equal(t, 2, f.notifier.notificationsTitled("Failed to update favorites"))
	assert.Zero(t, f.listings.callCount())
}

func TestListSynchronizer_ToggleFavoriteWithoutIDReloadsFavorites(t *testing.T) {
	f := newSyncFixture(t, signedIn("u1"), testWindow, listing("p1", "u2"))
	ctx := context.Background()
	f.favorites.omitAddID = true
	f.favorites.favorites = []domain.Favorite{{ID: "fav-1", ListingID: "p1"}}

	on, err := f.sync.ToggleFavorite(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, on)
	f.settle()
	assert.Equal(t, []string{"p1"}, f.sync.Snapshot().FavoriteListingIDs)

	on, err = f.sync.ToggleFavorite(ctx, "p1")
	require.NoError(t, err, "the entry must not stay pending")
	assert.False(t, on)
	f.settle()

	assert.Equal(t, []string{"fav-1"}, f.favorites.removed)
	assert.Empty(t, f.sync.Snapshot().FavoriteListingIDs)
}

func TestListSynchronizer_ToggleFavoriteWithoutIDAndFailedReload(t *testing.T) {
	f := newSyncFixture(t, signedIn("u1"), testWindow)
	ctx := context.Background()
	f.favorites.omitAddID = true
	f.favorites.listErr = errBackend

	on, err := f.sync.ToggleFavorite(ctx, "p1")
	assert.ErrorIs(t, err, errBackend)
	assert.False(t, on)
	f.settle()
	assert.Empty(t, f.sync.Snapshot().FavoriteListingIDs)
	assert.Equal(t, 1, f.notifier.notificationsTitled("Failed to update favorites"))

	f.favorites.omitAddID = false
	f.favorites.listErr = nil
	on, err = f.sync.ToggleFavorite(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, on)
	f.settle()
	assert.Equal(t, []string{"p1", "p1"}, f.favorites.added)
}

func TestListSynchronizer_ToggleFavoriteWithoutIDMissingFromReload(t *testing.T) {
	f := newSyncFixture(t, signedIn("u1"), testWindow)
	ctx := context.Background()
	f.favorites.omitAddID = true

	on, err := f.sync.ToggleFavorite(ctx, "p1")
	require.NoError(t, err)
	assert.False(t, on)
	f.settle()

	assert.Empty(t, f.sync.Snapshot().FavoriteListingIDs)

	f.favorites.omitAddID = false
	on, err = f.sync.ToggleFavorite(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, on)
	f.settle()
}

func TestListSynchronizer_ReloadKeepsUnconfirmedAdds(t *testing.T) {
	f := newSyncFixture(t, signedIn("u1"), testWindow)
	ctx := context.Background()
	f.favorites.gate = make(chan struct{})
	f.favorites.favorites = []domain.Favorite{{ID: "f9", ListingID: "p9"}}

	done := make(chan error, 1)
	go func() {
		_, err := f.sync.ToggleFavorite(ctx, "p1")
		done <- err
	}()
	require.Eventually(t, func() bool {
		state, ok := f.notifier.lastState()
		return ok && len(state.FavoriteListingIDs) == 1
	}, time.Second, 5*time.Millisecond)

	f.sync.OnSessionStarted(ctx)
	assert.Equal(t, []string{"p1", "p9"}, f.sync.Snapshot().FavoriteListingIDs)

	close(f.favorites.gate)
	require.NoError(t, <-done)
	f.settle()

	on, err := f.sync.ToggleFavorite(ctx, "p1")
	require.NoError(t, err)
	assert.False(t, on)
	f.settle()
	assert.Equal(t, []string{"fav-p1"}, f.favorites.removed)
}

func TestListSynchronizer_ForgetFavorite(t *testing.T) {
	f := newSyncFixture(t, signedIn("u1"), testWindow)
	ctx := context.Background()
	f.favorites.favorites = []domain.Favorite{{ID: "f1", ListingID: "p1"}}
	f.sync.OnSessionStarted(ctx)

	f.sync.ForgetFavorite(ctx, "f1")
	assert.Empty(t, f.sync.Snapshot().FavoriteListingIDs)
}

func TestListSynchronizer_SessionEndClearsUserData(t *testing.T) {
	f := newSyncFixture(t, signedIn("u1"), testWindow)
	ctx := context.Background()
	f.favorites.favorites = []domain.Favorite{{ID: "f1", ListingID: "p1"}}
	f.sync.OnSessionStarted(ctx)
	require.NoError(t, f.sync.OpenCreateForm(ctx))

	f.session.End()
	assert.Empty(t, f.sync.Snapshot().FavoriteListingIDs, "favorites are hidden as soon as the session is gone")

	f.sync.OnSessionEnded(ctx)
	state := f.sync.Snapshot()
	assert.Nil(t, state.Viewer)
	assert.Equal(t, domain.FormNone, state.Form.Kind)
	assert.Zero(t, f.sync.favs.Len())
}

func TestListSynchronizer_ClearFilters(t *testing.T) {
	f := newSyncFixture(t, &fakeSession{}, testWindow)
	ctx := context.Background()

	f.sync.ClearFilters(ctx)
	time.Sleep(3 * testWindow)
	assert.Zero(t, f.listings.callCount(), "clearing empty filters on page 1 is a no-op")

	f.sync.UpdateFilters(ctx, domain.FilterPatch{City: strPtr("Pune")})
	state := f.sync.ClearFilters(ctx)
	assert.True(t, state.Filters.IsEmpty())

	require.Eventually(t, func() bool { return f.listings.callCount() == 1 }, time.Second, 5*time.Millisecond)
	f.settle()
	assert.Equal(t, "page=1&limit=12", f.listings.calls()[0].Encode())
}

func TestListSynchronizer_ClosedRejectsWork(t *testing.T) {
	f := newSyncFixture(t, &fakeSession{}, testWindow)
	f.sync.Close()

	assert.ErrorIs(t, f.sync.Mount(context.Background()), ErrSynchronizerClosed)
	f.sync.Refresh(context.Background())
	assert.Zero(t, f.listings.callCount())
}
