package port

import (
	"context"
	"rental-client/internal/core/domain"
)

type EventType string

const (
	// EventStateChanged - изменился снимок состояния списка. Data: domain.ViewState.
	EventStateChanged EventType = "state"
	// EventNotification - уведомление для пользователя. Data: domain.Notification.
	EventNotification EventType = "notification"
)

// ViewEvent - событие, которое отправляется представлению.
type ViewEvent struct {
	Type EventType
	Data interface{}
}

// NotifierPort - порт для отправки событий представлению.
type NotifierPort interface {
	Notify(ctx context.Context, event ViewEvent)
}

// NotificationEvent - хелпер для событий-уведомлений.
func NotificationEvent(n domain.Notification) ViewEvent {
	return ViewEvent{Type: EventNotification, Data: n}
}

// StateEvent - хелпер для событий изменения состояния.
func StateEvent(s domain.ViewState) ViewEvent {
	return ViewEvent{Type: EventStateChanged, Data: s}
}
