package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"rental-client/internal/adapters/view_dto"
	"rental-client/internal/contextkeys"
	"rental-client/internal/core/port"
	"sync"
)

// ClientChannel - канал, через который события отправляются одному подключению (вкладке браузера).
type ClientChannel chan []byte

const (
	eventBufferSize  = 100
	clientBufferSize = 100
)

// структура для передачи в канал
type eventWithContext struct {
	ctx   context.Context
	event port.ViewEvent
}

// SSENotifier - реализация NotifierPort. Рассылает события всем подключённым клиентам
// в том порядке, в котором их отправило ядро.
type SSENotifier struct {
	clients map[ClientChannel]struct{}
	// mu защищает clients от одновременного доступа из разных горутин
	mu sync.RWMutex

	// eventChan - внутренний канал, в который Use Cases бросают события
	eventChan chan eventWithContext
	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once

	logger port.LoggerPort
}

// NewSSENotifier создает и запускает новый нотификатор
func NewSSENotifier(baseLogger port.LoggerPort) *SSENotifier {
	n := &SSENotifier{
		clients:   make(map[ClientChannel]struct{}),
		eventChan: make(chan eventWithContext, eventBufferSize),
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
		logger:    baseLogger.WithFields(port.Fields{"component": "SSENotifier"}),
	}

	go n.dispatcher()

	return n
}

// dispatcher работает в фоне до вызова Close
func (n *SSENotifier) dispatcher() {
	defer close(n.done)
	n.logger.Debug("Notifier dispatcher started.", nil)

	for {
		select {
		case <-n.stop:
			n.logger.Debug("Notifier dispatcher stopped.", nil)
			return
		case pkg := <-n.eventChan:
			n.dispatch(pkg)
		}
	}
}

func (n *SSENotifier) dispatch(pkg eventWithContext) {
	eventLogger := contextkeys.LoggerFromContext(pkg.ctx).WithFields(port.Fields{
		"component":  "SSENotifier.dispatcher",
		"event_type": pkg.event.Type,
	})

	message, err := FormatEvent(pkg.event)
	if err != nil {
		eventLogger.Error("Failed to marshal event", err, nil)
		return
	}

	n.mu.RLock()
	defer n.mu.RUnlock()

	if len(n.clients) == 0 {
		eventLogger.Debug("No active clients, event dropped.", nil)
		return
	}

	for ch := range n.clients {
		// select с default, чтобы медленный клиент не блокировал остальных
		select {
		case ch <- message:
		default:
			eventLogger.Warn("Client channel is full, skipping.", nil)
		}
	}
}

// FormatEvent форматирует событие представления для SSE.
func FormatEvent(event port.ViewEvent) ([]byte, error) {
	data, err := json.Marshal(view_dto.ToEventPayload(event.Data))
	if err != nil {
		return nil, err
	}
	return []byte(fmt.Sprintf("event: %s\ndata: %s\n\n", event.Type, data)), nil
}

// Notify - реализация метода из NotifierPort. Событие уходит во внутренний канал.
// После Close события молча отбрасываются.
func (n *SSENotifier) Notify(ctx context.Context, event port.ViewEvent) {
	select {
	case <-n.stop:
		return
	default:
	}

	select {
	case n.eventChan <- eventWithContext{ctx: ctx, event: event}:
	case <-n.stop:
	}
}

// AddClient регистрирует новое SSE-соединение. Вызывается из HTTP-хендлера.
func (n *SSENotifier) AddClient() ClientChannel {
	n.mu.Lock()
	defer n.mu.Unlock()

	ch := make(ClientChannel, clientBufferSize)
	n.clients[ch] = struct{}{}

	n.logger.Info("Client connected", port.Fields{"total_connections": len(n.clients)})
	return ch
}

// RemoveClient удаляет канал клиента при отключении.
func (n *SSENotifier) RemoveClient(ch ClientChannel) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if _, found := n.clients[ch]; !found {
		return
	}
	delete(n.clients, ch)
	n.logger.Info("Client disconnected", port.Fields{"remaining_connections": len(n.clients)})
}

// ClientCount - число активных подключений.
func (n *SSENotifier) ClientCount() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.clients)
}

// Close останавливает диспетчер и дожидается его завершения.
func (n *SSENotifier) Close() {
	n.closeOnce.Do(func() {
		close(n.stop)
	})
	<-n.done
}
