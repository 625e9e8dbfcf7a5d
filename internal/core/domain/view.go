package domain

// ListStatus - состояние синхронизатора списка объявлений.
type ListStatus string

const (
	ListStatusIdle    ListStatus = "idle"
	ListStatusLoading ListStatus = "loading"
	ListStatusError   ListStatus = "error"
	ListStatusReady   ListStatus = "ready"
)

// FormKind - какая форма объявления сейчас открыта.
type FormKind string

const (
	FormNone   FormKind = "none"
	FormCreate FormKind = "create"
	FormEdit   FormKind = "edit"
)

// FormState - открытая форма и, для редактирования, выбранное объявление.
type FormState struct {
	Kind    FormKind
	Listing *Listing
}

// ViewState - неизменяемый снимок состояния списка для представления.
type ViewState struct {
	Status     ListStatus
	Filters    FilterState
	Page       int
	PageSize   int
	TotalCount int
	TotalPages int
	Items      []Listing
	// FavoriteListingIDs - ID избранных объявлений текущего пользователя.
	FavoriteListingIDs []string
	LastError          string
	Form               FormState
	Viewer             *User
	// Generation растёт с каждым запущенным запросом списка.
	Generation uint64
}

// NotificationKind - тип пользовательского уведомления.
type NotificationKind string

const (
	NotificationSuccess NotificationKind = "success"
	NotificationError   NotificationKind = "error"
)

// Notification - одноразовое уведомление для пользователя.
type Notification struct {
	Kind        NotificationKind
	Title       string
	Description string
}
