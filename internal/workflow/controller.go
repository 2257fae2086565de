// Пакет workflow — контроллеры пользовательских сценариев.
// Каждый контроллер проводит одну асинхронную операцию через состояния
// Idle → Pending → Succeeded|Failed и допускает повторный запуск из
// терминального состояния. Пока операция Pending, новые запуски
// отклоняются (ErrBusy): один сценарий — одна операция в полёте.
package workflow

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// State — состояние контроллера.
type State string

const (
	StateIdle      State = "idle"
	StatePending   State = "pending"
	StateSucceeded State = "succeeded"
	StateFailed    State = "failed"
)

var (
	// ErrBusy — операция уже выполняется, повторный запуск отклонён.
	ErrBusy = errors.New("операция уже выполняется")

	// ErrClosed — контроллер закрыт, запуски невозможны.
	ErrClosed = errors.New("контроллер закрыт")
)

// Snapshot — согласованный снимок состояния контроллера.
// Result и Err заполнены только в терминальных состояниях.
type Snapshot[T any] struct {
	State  State
	Result T
	Err    error
}

// Controller проводит операцию типа op через состояния сценария.
// Потокобезопасен. Результат операции, завершившейся после Close
// или после запуска более новой попытки, отбрасывается: никакой
// «поздний» результат не перезаписывает актуальное состояние.
type Controller[T any] struct {
	name   string
	logger *slog.Logger

	mu         sync.Mutex
	state      State
	result     T
	err        error
	generation uint64
	closed     bool
	done       chan struct{}
}

// NewController создаёт контроллер в состоянии Idle.
// name — имя сценария для логов и метрик.
func NewController[T any](name string, logger *slog.Logger) *Controller[T] {
	return &Controller[T]{
		name:   name,
		logger: logger.With(slog.String("component", "workflow"), slog.String("workflow", name)),
		state:  StateIdle,
	}
}

// Submit запускает операцию. Возвращает ErrBusy, если предыдущая
// попытка ещё Pending, и ErrClosed после Close. Из Succeeded и Failed
// контроллер перезапускается: новая попытка получает новый номер
// поколения, и результат старой, если она ещё жива, будет отброшен.
func (c *Controller[T]) Submit(ctx context.Context, op func(ctx context.Context) (T, error)) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.state == StatePending {
		c.mu.Unlock()
		return ErrBusy
	}

	c.generation++
	gen := c.generation
	c.state = StatePending
	var zero T
	c.result = zero
	c.err = nil
	c.done = make(chan struct{})
	done := c.done
	c.mu.Unlock()

	go func() {
		result, err := op(ctx)

		c.mu.Lock()
		defer c.mu.Unlock()
		// Поздний результат: контроллер закрыт или уже идёт новая попытка
		if c.closed || gen != c.generation {
			c.logger.Debug("Результат устаревшей попытки отброшен",
				slog.Uint64("generation", gen),
			)
			submissionsTotal.WithLabelValues(c.name, outcomeDiscarded).Inc()
			return
		}

		c.result = result
		c.err = err
		if err != nil {
			c.state = StateFailed
			submissionsTotal.WithLabelValues(c.name, outcomeFailed).Inc()
		} else {
			c.state = StateSucceeded
			submissionsTotal.WithLabelValues(c.name, outcomeSucceeded).Inc()
		}
		close(done)
	}()

	return nil
}

// Wait блокируется до завершения текущей попытки или отмены контекста.
// В терминальном состоянии возвращается сразу.
func (c *Controller[T]) Wait(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StatePending {
		c.mu.Unlock()
		return nil
	}
	done := c.done
	c.mu.Unlock()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}

// Run — синхронный сценарий: Submit, затем Wait.
// Удобен в HTTP-обработчиках, где обмен запрос/ответ и есть попытка.
func (c *Controller[T]) Run(ctx context.Context, op func(ctx context.Context) (T, error)) (Snapshot[T], error) {
	if err := c.Submit(ctx, op); err != nil {
		return c.SnapshotState(), err
	}
	if err := c.Wait(ctx); err != nil {
		return c.SnapshotState(), err
	}
	return c.SnapshotState(), nil
}

// SnapshotState возвращает согласованный снимок состояния.
func (c *Controller[T]) SnapshotState() Snapshot[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot[T]{State: c.state, Result: c.result, Err: c.err}
}

// Close останавливает контроллер: дальнейшие Submit отклоняются,
// результаты живых попыток отбрасываются.
func (c *Controller[T]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	// Поколение сдвигается, чтобы живые попытки не прошли проверку
	c.generation++
	// Ожидающие Wait освобождаются
	if c.state == StatePending {
		c.state = StateIdle
		close(c.done)
	}
}
