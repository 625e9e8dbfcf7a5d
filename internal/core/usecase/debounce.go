package usecase

import (
	"sync"
	"time"
)

// DefaultFilterDebounce - окно тишины, после которого правка фильтра превращается в запрос.
const DefaultFilterDebounce = 500 * time.Millisecond

// FetchDebouncer откладывает запрос, пока изменения фильтра не затихнут на время окна.
// Серия вызовов Trigger в пределах окна приводит ровно к одному вызову последней функции.
type FetchDebouncer struct {
	mu      sync.Mutex
	window  time.Duration
	timer   *time.Timer
	pending func()
	// generation отличает актуальный таймер от того, что уже сработал, но проиграл гонку с Cancel.
	generation uint64
	stopped    bool
}

// NewFetchDebouncer создает дебаунсер с заданным окном.
func NewFetchDebouncer(window time.Duration) *FetchDebouncer {
	return &FetchDebouncer{window: window}
}

// Trigger (пере)запускает окно. Функция будет вызвана через window после последнего вызова.
func (d *FetchDebouncer) Trigger(fn func()) {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	if d.window <= 0 {
		d.resetLocked()
		d.mu.Unlock()
		fn()
		return
	}

	d.resetLocked()
	gen := d.generation
	d.pending = fn
	d.timer = time.AfterFunc(d.window, func() { d.fire(gen) })
	d.mu.Unlock()
}

func (d *FetchDebouncer) fire(gen uint64) {
	d.mu.Lock()
	if d.stopped || gen != d.generation || d.pending == nil {
		d.mu.Unlock()
		return
	}
	fn := d.pending
	d.pending = nil
	d.timer = nil
	d.mu.Unlock()

	fn()
}

// resetLocked останавливает текущий таймер и инвалидирует его поколение.
func (d *FetchDebouncer) resetLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = nil
	d.generation++
}

// Cancel отменяет отложенный вызов. Возвращает true, если он был.
func (d *FetchDebouncer) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	hadPending := d.pending != nil
	d.resetLocked()
	return hadPending
}

// Flush немедленно выполняет отложенный вызов, если он есть.
func (d *FetchDebouncer) Flush() bool {
	d.mu.Lock()
	fn := d.pending
	d.resetLocked()
	stopped := d.stopped
	d.mu.Unlock()

	if fn == nil || stopped {
		return false
	}
	fn()
	return true
}

// Pending сообщает, ожидается ли отложенный вызов.
func (d *FetchDebouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}

// Stop отменяет отложенный вызов и запрещает новые.
func (d *FetchDebouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.resetLocked()
	d.stopped = true
}
