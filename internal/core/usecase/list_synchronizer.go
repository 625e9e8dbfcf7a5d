package usecase

import (
	"context"
	"errors"
	"fmt"
	"rental-client/internal/contextkeys"
	"rental-client/internal/core/domain"
	"rental-client/internal/core/port"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultPageSize - размер страницы списка объявлений.
const DefaultPageSize = 12

var ErrSynchronizerClosed = errors.New("list synchronizer is closed")

type ListSynchronizerConfig struct {
	PageSize       int
	DebounceWindow time.Duration
}

// ListSynchronizer владеет состоянием списка объявлений (фильтр, страница, избранное, открытая форма)
// и переводит именованные события представления в запросы к бэкенду.
//
// Каждый запущенный запрос списка получает номер поколения. Ответ применяется, только если его
// поколение всё ещё последнее: порядок определяется моментом запуска, а не моментом ответа.
type ListSynchronizer struct {
	listings  port.ListingAPIPort
	favorites port.FavoritesAPIPort
	session   port.SessionPort
	notifier  port.NotifierPort
	debouncer *FetchDebouncer
	pageSize  int

	mu         sync.Mutex
	filters    domain.FilterState
	page       int
	status     domain.ListStatus
	shown      domain.ListingPage
	lastErr    string
	favs       *domain.FavoriteSet
	form       domain.FormState
	generation uint64
	closed     bool

	inflight sync.WaitGroup
}

func NewListSynchronizer(
	listings port.ListingAPIPort,
	favorites port.FavoritesAPIPort,
	session port.SessionPort,
	notifier port.NotifierPort,
	cfg ListSynchronizerConfig,
) *ListSynchronizer {
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	return &ListSynchronizer{
		listings:  listings,
		favorites: favorites,
		session:   session,
		notifier:  notifier,
		debouncer: NewFetchDebouncer(cfg.DebounceWindow),
		pageSize:  cfg.PageSize,
		page:      1,
		status:    domain.ListStatusIdle,
		favs:      domain.NewFavoriteSet(),
		form:      domain.FormState{Kind: domain.FormNone},
	}
}

type fetchRequest struct {
	generation uint64
	page       int
	query      domain.Query
	reason     string
}

func (s *ListSynchronizer) eventLogger(ctx context.Context, event string) port.LoggerPort {
	return contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "ListSynchronizer",
		"event":    event,
	})
}

// Mount - первичная загрузка: первая страница и, если пользователь вошёл, его избранное.
// Ошибка загрузки списка отражается в состоянии, возвращается только ошибка загрузки избранного.
func (s *ListSynchronizer) Mount(ctx context.Context) error {
	logger := s.eventLogger(ctx, "Mount")
	logger.Info("Use case started", nil)

	detached := context.WithoutCancel(ctx)

	s.mu.Lock()
	req, ok := s.beginFetchLocked("mount")
	s.publishLocked(detached)
	s.mu.Unlock()
	if !ok {
		return ErrSynchronizerClosed
	}

	var g errgroup.Group
	g.Go(func() error {
		s.runFetch(detached, req)
		return nil
	})
	if _, signedIn := s.session.CurrentUser(); signedIn {
		g.Go(func() error {
			return s.loadFavorites(detached)
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("Initial load finished with an error", err, nil)
		return err
	}

	logger.Info("Use case finished successfully", nil)
	return nil
}

// UpdateFilters применяет патч фильтра. Страница сбрасывается на первую,
// запрос уходит после окна тишины.
func (s *ListSynchronizer) UpdateFilters(ctx context.Context, patch domain.FilterPatch) domain.ViewState {
	s.mu.Lock()
	next := s.filters.Apply(patch)
	return s.changeFilters(ctx, next, "UpdateFilters", false)
}

// ClearFilters сбрасывает все ограничения.
func (s *ListSynchronizer) ClearFilters(ctx context.Context) domain.ViewState {
	s.mu.Lock()
	return s.changeFilters(ctx, domain.FilterState{}, "ClearFilters", true)
}

// changeFilters вызывается с захваченным s.mu и отпускает его.
// Патч без изменений ничего не делает; явный сброс (resetPage) ещё и возвращает на первую страницу.
func (s *ListSynchronizer) changeFilters(ctx context.Context, next domain.FilterState, event string, resetPage bool) domain.ViewState {
	if next.Equal(s.filters) && (!resetPage || s.page == 1) {
		state := s.snapshotLocked()
		s.mu.Unlock()
		return state
	}

	detached := context.WithoutCancel(ctx)
	s.filters = next
	s.page = 1
	// Ответы на запросы со старым фильтром больше не должны попасть на экран.
	s.generation++
	s.publishLocked(detached)
	state := s.snapshotLocked()
	s.mu.Unlock()

	s.eventLogger(ctx, event).Debug("Filters changed, fetch scheduled", port.Fields{
		"query": BuildListingQuery(next, 1, s.pageSize).Encode(),
	})
	s.debouncer.Trigger(func() { s.onFiltersSettled(detached) })
	return state
}

func (s *ListSynchronizer) onFiltersSettled(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetchAsyncLocked(ctx, "filters_settled")
	s.publishLocked(ctx)
}

// SetPage переключает страницу. Запрос уходит сразу, без дебаунса.
func (s *ListSynchronizer) SetPage(ctx context.Context, page int) (domain.ViewState, error) {
	if page < 1 {
		return s.Snapshot(), domain.ErrInvalidPage
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if page == s.page {
		return s.snapshotLocked(), nil
	}

	detached := context.WithoutCancel(ctx)
	// Отложенный запрос по фильтру поглощается: немедленный запрос уже берёт текущий фильтр.
	s.debouncer.Cancel()
	s.page = page
	s.fetchAsyncLocked(detached, "page_changed")
	s.publishLocked(detached)
	return s.snapshotLocked(), nil
}

// Refresh перезапрашивает текущую страницу с текущим фильтром.
func (s *ListSynchronizer) Refresh(ctx context.Context) domain.ViewState {
	s.mu.Lock()
	defer s.mu.Unlock()

	detached := context.WithoutCancel(ctx)
	s.debouncer.Cancel()
	s.fetchAsyncLocked(detached, "refresh")
	s.publishLocked(detached)
	return s.snapshotLocked()
}

// CreateListing создает объявление, закрывает форму и перезапрашивает текущую страницу.
func (s *ListSynchronizer) CreateListing(ctx context.Context, draft domain.ListingDraft) (domain.Listing, error) {
	logger := s.eventLogger(ctx, "CreateListing")
	logger.Info("Use case started", nil)

	if _, err := s.requireUser(ctx, "Please sign in to add a property"); err != nil {
		logger.Warn("Rejected: no active session", nil)
		return domain.Listing{}, err
	}

	created, err := s.listings.CreateListing(ctx, draft)
	if err != nil {
		logger.Error("Listing API returned an error", err, nil)
		s.notifyError(ctx, "Error adding property", err)
		return domain.Listing{}, fmt.Errorf("failed to create listing: %w", err)
	}

	s.afterMutation(ctx, "listing_created", func() bool { return true })
	s.notifySuccess(ctx, "Property added successfully")

	logger.Info("Use case finished successfully", port.Fields{"listing_id": created.ID})
	return created, nil
}

// UpdateListing обновляет объявление владельца и перезапрашивает текущую страницу.
// Объявление может исчезнуть из списка, если перестало подходить под фильтр: это видно только после ответа.
func (s *ListSynchronizer) UpdateListing(ctx context.Context, id string, draft domain.ListingDraft) (domain.Listing, error) {
	logger := s.eventLogger(ctx, "UpdateListing").WithFields(port.Fields{"listing_id": id})
	logger.Info("Use case started", nil)

	user, err := s.requireUser(ctx, "Please sign in to edit properties")
	if err != nil {
		logger.Warn("Rejected: no active session", nil)
		return domain.Listing{}, err
	}
	if err := s.checkOwnership(ctx, user, id, "You can only edit your own properties"); err != nil {
		logger.Warn("Rejected: viewer is not the owner", port.Fields{"user_id": user.ID})
		return domain.Listing{}, err
	}

	updated, err := s.listings.UpdateListing(ctx, id, draft)
	if err != nil {
		logger.Error("Listing API returned an error", err, nil)
		s.notifyError(ctx, "Error updating property", err)
		return domain.Listing{}, fmt.Errorf("failed to update listing: %w", err)
	}

	s.afterMutation(ctx, "listing_updated", func() bool { return true })
	s.notifySuccess(ctx, "Property updated successfully")

	logger.Info("Use case finished successfully", nil)
	return updated, nil
}

// DeleteListing удаляет объявление владельца и перезапрашивает текущую страницу.
func (s *ListSynchronizer) DeleteListing(ctx context.Context, id string) error {
	logger := s.eventLogger(ctx, "DeleteListing").WithFields(port.Fields{"listing_id": id})
	logger.Info("Use case started", nil)

	user, err := s.requireUser(ctx, "Please sign in to delete properties")
	if err != nil {
		logger.Warn("Rejected: no active session", nil)
		return err
	}
	if err := s.checkOwnership(ctx, user, id, "You can only delete your own properties"); err != nil {
		logger.Warn("Rejected: viewer is not the owner", port.Fields{"user_id": user.ID})
		return err
	}

	if err := s.listings.DeleteListing(ctx, id); err != nil {
		logger.Error("Listing API returned an error", err, nil)
		s.notifyError(ctx, "Error deleting property", err)
		return fmt.Errorf("failed to delete listing: %w", err)
	}

	s.afterMutation(ctx, "listing_deleted", func() bool {
		return s.form.Kind == domain.FormEdit && s.form.Listing != nil && s.form.Listing.ID == id
	})
	s.notifySuccess(ctx, "Property deleted successfully")

	logger.Info("Use case finished successfully", nil)
	return nil
}

// ToggleFavorite добавляет или убирает объявление из избранного.
// Множество избранного меняется сразу, до ответа сервера, и откатывается при ошибке.
// Возвращает новое состояние: true - объявление в избранном.
func (s *ListSynchronizer) ToggleFavorite(ctx context.Context, listingID string) (bool, error) {
	logger := s.eventLogger(ctx, "ToggleFavorite").WithFields(port.Fields{"listing_id": listingID})
	logger.Info("Use case started", nil)

	if _, err := s.requireUser(ctx, "Please sign in to save favorites"); err != nil {
		logger.Warn("Rejected: no active session", nil)
		return false, err
	}

	detached := context.WithoutCancel(ctx)

	s.mu.Lock()
	if s.favs.IsPending(listingID) {
		s.mu.Unlock()
		return true, domain.ErrFavoritePending
	}

	if favoriteID, ok := s.favs.FavoriteID(listingID); ok {
		s.favs.Remove(listingID)
		s.publishLocked(detached)
		s.mu.Unlock()

		if err := s.favorites.RemoveFavorite(ctx, favoriteID); err != nil {
			logger.Error("Favorites API failed to remove entry, rolling back", err, port.Fields{"favorite_id": favoriteID})
			s.mu.Lock()
			if !s.favs.Contains(listingID) {
				s.favs.Put(listingID, favoriteID)
			}
			s.publishLocked(detached)
			s.mu.Unlock()
			s.notifyError(ctx, "Failed to update favorites", err)
			return true, fmt.Errorf("failed to remove favorite: %w", err)
		}

		s.afterMutation(ctx, "favorite_removed", func() bool { return false })
		s.notifySuccess(ctx, "Removed from favorites")
		logger.Info("Use case finished successfully", port.Fields{"favorited": false})
		return false, nil
	}

	s.favs.MarkPending(listingID)
	s.publishLocked(detached)
	s.mu.Unlock()

	favorite, err := s.favorites.AddFavorite(ctx, listingID)
	if err != nil {
		logger.Error("Favorites API failed to add entry, rolling back", err, nil)
		s.mu.Lock()
		if s.favs.IsPending(listingID) {
			s.favs.Remove(listingID)
		}
		s.publishLocked(detached)
		s.mu.Unlock()
		s.notifyError(ctx, "Failed to update favorites", err)
		return false, fmt.Errorf("failed to add favorite: %w", err)
	}

	if favorite.ID == "" {
		return s.confirmFavoriteWithoutID(ctx, logger, listingID)
	}

	s.mu.Lock()
	if s.favs.IsPending(listingID) {
		s.favs.Put(listingID, favorite.ID)
	}
	s.mu.Unlock()

	s.afterMutation(ctx, "favorite_added", func() bool { return false })
	s.notifySuccess(ctx, "Added to favorites")
	logger.Info("Use case finished successfully", port.Fields{"favorited": true, "favorite_id": favorite.ID})
	return true, nil
}

// confirmFavoriteWithoutID обрабатывает успешное добавление, в ответе которого нет ID записи.
// ID берётся из списка избранного; пока его нет, объявление не остаётся в ожидании.
func (s *ListSynchronizer) confirmFavoriteWithoutID(ctx context.Context, logger port.LoggerPort, listingID string) (bool, error) {
	detached := context.WithoutCancel(ctx)
	logger.Warn("Favorites API returned an entry without id, reloading favorites", nil)

	loadErr := s.loadFavorites(detached)

	s.mu.Lock()
	if s.favs.IsPending(listingID) {
		s.favs.Remove(listingID)
		s.publishLocked(detached)
	}
	favorited := s.favs.Contains(listingID)
	s.mu.Unlock()

	s.afterMutation(ctx, "favorite_added", func() bool { return false })

	if loadErr != nil {
		logger.Error("Failed to reload favorites after add", loadErr, nil)
		s.notifyError(ctx, "Failed to update favorites", loadErr)
		return false, fmt.Errorf("failed to confirm favorite: %w", loadErr)
	}
	if !favorited {
		logger.Warn("Added favorite is missing from the reloaded list", nil)
		return false, nil
	}

	s.notifySuccess(ctx, "Added to favorites")
	logger.Info("Use case finished successfully", port.Fields{"favorited": true})
	return true, nil
}

// OpenCreateForm открывает форму создания. Требует активной сессии.
func (s *ListSynchronizer) OpenCreateForm(ctx context.Context) error {
	if _, err := s.requireUser(ctx, "Please sign in to add a property"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form = domain.FormState{Kind: domain.FormCreate}
	s.publishLocked(context.WithoutCancel(ctx))
	return nil
}

// OpenEditForm открывает форму редактирования объявления с текущей страницы. Только для владельца.
func (s *ListSynchronizer) OpenEditForm(ctx context.Context, listingID string) error {
	user, err := s.requireUser(ctx, "Please sign in to edit properties")
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	listing, found := s.shown.Find(listingID)
	if !found {
		return domain.ErrListingNotFound
	}
	if !listing.ManageableBy(user) {
		return domain.ErrNotOwner
	}
	s.form = domain.FormState{Kind: domain.FormEdit, Listing: &listing}
	s.publishLocked(context.WithoutCancel(ctx))
	return nil
}

func (s *ListSynchronizer) CloseForm(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form = domain.FormState{Kind: domain.FormNone}
	s.publishLocked(context.WithoutCancel(ctx))
}

// ForgetFavorite убирает запись, удалённую вне списка (например, со страницы избранного).
func (s *ListSynchronizer) ForgetFavorite(ctx context.Context, favoriteID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.favs.RemoveByFavoriteID(favoriteID); ok {
		s.publishLocked(context.WithoutCancel(ctx))
	}
}

// OnSessionStarted загружает избранное нового пользователя.
func (s *ListSynchronizer) OnSessionStarted(ctx context.Context) {
	logger := s.eventLogger(ctx, "OnSessionStarted")
	if err := s.loadFavorites(context.WithoutCancel(ctx)); err != nil {
		logger.Error("Failed to load favorites for the new session", err, nil)
	}
}

// OnSessionEnded очищает данные пользователя.
func (s *ListSynchronizer) OnSessionEnded(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.favs.Replace(nil)
	s.form = domain.FormState{Kind: domain.FormNone}
	s.publishLocked(context.WithoutCancel(ctx))
}

// CanManage сообщает, показывать ли текущему пользователю действия владельца.
func (s *ListSynchronizer) CanManage(listing domain.Listing) bool {
	user, _ := s.session.CurrentUser()
	return listing.ManageableBy(user)
}

// Snapshot возвращает копию текущего состояния.
func (s *ListSynchronizer) Snapshot() domain.ViewState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Close останавливает дебаунсер и дожидается запросов в полёте.
func (s *ListSynchronizer) Close() {
	s.debouncer.Stop()
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.inflight.Wait()
}

func (s *ListSynchronizer) loadFavorites(ctx context.Context) error {
	favorites, err := s.favorites.ListFavorites(ctx)
	if err != nil {
		return fmt.Errorf("failed to load favorites: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	pending := s.favs.PendingListingIDs()
	s.favs.Replace(favorites)
	// Неподтверждённые добавления переживают перезагрузку списка.
	for _, listingID := range pending {
		if !s.favs.Contains(listingID) {
			s.favs.MarkPending(listingID)
		}
	}
	s.publishLocked(ctx)
	return nil
}

// beginFetchLocked занимает новое поколение и переводит список в loading.
func (s *ListSynchronizer) beginFetchLocked(reason string) (fetchRequest, bool) {
	if s.closed {
		return fetchRequest{}, false
	}
	s.generation++
	s.status = domain.ListStatusLoading
	return fetchRequest{
		generation: s.generation,
		page:       s.page,
		query:      BuildListingQuery(s.filters, s.page, s.pageSize),
		reason:     reason,
	}, true
}

func (s *ListSynchronizer) fetchAsyncLocked(ctx context.Context, reason string) {
	req, ok := s.beginFetchLocked(reason)
	if !ok {
		return
	}
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		s.runFetch(ctx, req)
	}()
}

// runFetch выполняет запрос и применяет результат, если он не устарел.
func (s *ListSynchronizer) runFetch(ctx context.Context, req fetchRequest) {
	logger := s.eventLogger(ctx, "Fetch").WithFields(port.Fields{
		"generation": req.generation,
		"reason":     req.reason,
		"page":       req.page,
	})
	logger.Debug("Requesting listings", port.Fields{"query": req.query.Encode()})

	result, err := s.listings.ListListings(ctx, req.query)

	s.mu.Lock()
	defer s.mu.Unlock()

	if req.generation != s.generation {
		logger.Debug("Discarding stale listings response", port.Fields{"latest_generation": s.generation})
		return
	}

	if err != nil {
		logger.Error("Failed to fetch listings, keeping previous page", err, nil)
		s.status = domain.ListStatusError
		s.lastErr = domain.UserMessage(err)
		s.notifier.Notify(ctx, port.NotificationEvent(domain.Notification{
			Kind:        domain.NotificationError,
			Title:       "Error fetching properties",
			Description: s.lastErr,
		}))
		s.publishLocked(ctx)
		return
	}

	if len(result.Items) > s.pageSize {
		logger.Warn("Backend returned more items than the page size, truncating", port.Fields{"items": len(result.Items)})
		result.Items = result.Items[:s.pageSize]
	}
	result.Page = req.page
	if result.TotalPages == 0 {
		result.TotalPages = domain.PagesFor(result.TotalCount, s.pageSize)
	}

	s.shown = result
	s.status = domain.ListStatusReady
	s.lastErr = ""
	s.publishLocked(ctx)

	logger.Info("Listings page applied", port.Fields{"items": len(result.Items), "total": result.TotalCount})
}

// afterMutation закрывает форму (если closeForm вернул true) и запускает ровно один перезапрос.
func (s *ListSynchronizer) afterMutation(ctx context.Context, reason string, closeForm func() bool) {
	detached := context.WithoutCancel(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if closeForm() {
		s.form = domain.FormState{Kind: domain.FormNone}
	}
	s.debouncer.Cancel()
	s.fetchAsyncLocked(detached, reason)
	s.publishLocked(detached)
}

// requireUser проверяет сессию до обращения к бэкенду.
func (s *ListSynchronizer) requireUser(ctx context.Context, description string) (*domain.User, error) {
	user, ok := s.session.CurrentUser()
	if !ok {
		s.notifier.Notify(ctx, port.NotificationEvent(domain.Notification{
			Kind:        domain.NotificationError,
			Title:       "Authentication required",
			Description: description,
		}))
		return nil, domain.ErrAuthRequired
	}
	return user, nil
}

// checkOwnership отклоняет правку чужого объявления, если оно есть на текущей странице.
// Объявления вне страницы проверяет бэкенд.
func (s *ListSynchronizer) checkOwnership(ctx context.Context, user *domain.User, listingID, description string) error {
	s.mu.Lock()
	listing, found := s.shown.Find(listingID)
	s.mu.Unlock()

	if found && !listing.ManageableBy(user) {
		s.notifier.Notify(ctx, port.NotificationEvent(domain.Notification{
			Kind:        domain.NotificationError,
			Title:       "Permission denied",
			Description: description,
		}))
		return domain.ErrNotOwner
	}
	return nil
}

func (s *ListSynchronizer) notifyError(ctx context.Context, title string, err error) {
	s.notifier.Notify(ctx, port.NotificationEvent(domain.Notification{
		Kind:        domain.NotificationError,
		Title:       title,
		Description: domain.UserMessage(err),
	}))
}

func (s *ListSynchronizer) notifySuccess(ctx context.Context, description string) {
	s.notifier.Notify(ctx, port.NotificationEvent(domain.Notification{
		Kind:        domain.NotificationSuccess,
		Title:       "Success",
		Description: description,
	}))
}

// publishLocked отправляет снимок под s.mu, чтобы порядок снимков совпадал с порядком изменений.
func (s *ListSynchronizer) publishLocked(ctx context.Context) {
	s.notifier.Notify(ctx, port.StateEvent(s.snapshotLocked()))
}

func (s *ListSynchronizer) snapshotLocked() domain.ViewState {
	items := make([]domain.Listing, len(s.shown.Items))
	copy(items, s.shown.Items)

	form := s.form
	if form.Listing != nil {
		listing := *form.Listing
		form.Listing = &listing
	}

	// Избранное показывается только при активной сессии: истёкший токен скрывает его сразу.
	var viewer *domain.User
	favorites := []string{}
	if user, ok := s.session.CurrentUser(); ok {
		u := *user
		viewer = &u
		favorites = s.favs.ListingIDs()
	}

	return domain.ViewState{
		Status:             s.status,
		Filters:            s.filters,
		Page:               s.page,
		PageSize:           s.pageSize,
		TotalCount:         s.shown.TotalCount,
		TotalPages:         domain.PagesFor(s.shown.TotalCount, s.pageSize),
		Items:              items,
		FavoriteListingIDs: favorites,
		LastError:          s.lastErr,
		Form:               form,
		Viewer:             viewer,
		Generation:         s.generation,
	}
}
