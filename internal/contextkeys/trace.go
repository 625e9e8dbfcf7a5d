package contextkeys

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// TraceHeader - заголовок, в котором trace_id идет от фронтенда через клиент к API маркетплейса.
const TraceHeader = "X-Trace-ID"

type traceKey struct{}

// WithTraceID привязывает trace_id к контексту. Пустой ID контекст не меняет.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	if traceID == "" {
		return ctx
	}
	return context.WithValue(ctx, traceKey{}, traceID)
}

// TraceID возвращает trace_id или пустую строку.
func TraceID(ctx context.Context) string {
	traceID, _ := ctx.Value(traceKey{}).(string)
	return traceID
}

// NormalizeTraceID принимает внешний trace_id только в виде UUID и приводит его к каноничной записи.
// На всё остальное выдается новый ID.
func NormalizeTraceID(raw string) string {
	if id, err := uuid.Parse(strings.TrimSpace(raw)); err == nil {
		return id.String()
	}
	return uuid.NewString()
}

// EnsureTraceID возвращает контекст с trace_id, создавая ID, если его нет.
// Так все запросы одной фоновой операции (старт, дебаунс) идут с общим ID.
// created сообщает, что ID выдан здесь, а не пришел с контекстом.
func EnsureTraceID(ctx context.Context) (_ context.Context, traceID string, created bool) {
	if traceID = TraceID(ctx); traceID != "" {
		return ctx, traceID, false
	}
	traceID = uuid.NewString()
	return WithTraceID(ctx, traceID), traceID, true
}
