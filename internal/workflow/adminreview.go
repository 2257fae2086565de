// adminreview.go — сценарий проверки документов администратором.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/arturkryukov/docverify/web-module/internal/domain/model"
	"github.com/arturkryukov/docverify/web-module/internal/verifyclient"
)

// ErrInvalidDecision — статус решения не verified и не rejected.
var ErrInvalidDecision = errors.New("недопустимый статус решения")

// ReviewAPI — операции API, нужные сценарию администратора.
type ReviewAPI interface {
	ListPendingDocuments(ctx context.Context) ([]verifyclient.PendingDocument, error)
	SubmitReviewDecision(ctx context.Context, decision model.ReviewDecision) (*verifyclient.DecisionAck, error)
}

// ReviewOutcome — результат решения: подтверждение сервера и
// перечитанная очередь. Очередь никогда не правится локально:
// после решения она запрашивается заново.
type ReviewOutcome struct {
	Ack     *verifyclient.DecisionAck
	Pending []verifyclient.PendingDocument
}

// AdminReview — контроллер панели администратора: загрузка очереди
// pending-документов и отправка решений.
type AdminReview struct {
	client  ReviewAPI
	pending *Controller[[]verifyclient.PendingDocument]
	review  *Controller[*ReviewOutcome]
}

// NewAdminReview создаёт контроллер администратора.
func NewAdminReview(client ReviewAPI, logger *slog.Logger) *AdminReview {
	return &AdminReview{
		client:  client,
		pending: NewController[[]verifyclient.PendingDocument]("admin_pending", logger),
		review:  NewController[*ReviewOutcome]("admin_review", logger),
	}
}

// SubmitLoadPending запускает загрузку очереди документов на проверку.
func (a *AdminReview) SubmitLoadPending(ctx context.Context) error {
	return a.pending.Submit(ctx, func(ctx context.Context) ([]verifyclient.PendingDocument, error) {
		return a.client.ListPendingDocuments(ctx)
	})
}

// SubmitDecision запускает решение по документу. После успешной
// отправки очередь перечитывается в той же попытке; отказ перечтения
// не отменяет принятое решение, но попытка считается неуспешной.
func (a *AdminReview) SubmitDecision(ctx context.Context, decision model.ReviewDecision) error {
	if !model.IsDecisionStatus(decision.Status) {
		return ErrInvalidDecision
	}
	return a.review.Submit(ctx, func(ctx context.Context) (*ReviewOutcome, error) {
		ack, err := a.client.SubmitReviewDecision(ctx, decision)
		if err != nil {
			return nil, err
		}
		pending, err := a.client.ListPendingDocuments(ctx)
		if err != nil {
			return nil, fmt.Errorf("решение принято, но очередь не перечитана: %w", err)
		}
		return &ReviewOutcome{Ack: ack, Pending: pending}, nil
	})
}

// WaitPending блокируется до завершения загрузки очереди.
func (a *AdminReview) WaitPending(ctx context.Context) error { return a.pending.Wait(ctx) }

// WaitDecision блокируется до завершения решения.
func (a *AdminReview) WaitDecision(ctx context.Context) error { return a.review.Wait(ctx) }

// PendingSnapshot возвращает снимок загрузки очереди.
func (a *AdminReview) PendingSnapshot() Snapshot[[]verifyclient.PendingDocument] {
	return a.pending.SnapshotState()
}

// DecisionSnapshot возвращает снимок последнего решения.
func (a *AdminReview) DecisionSnapshot() Snapshot[*ReviewOutcome] {
	return a.review.SnapshotState()
}

// Close останавливает оба контроллера.
func (a *AdminReview) Close() {
	a.pending.Close()
	a.review.Close()
}

// RunLoadPending — синхронная загрузка очереди.
func (a *AdminReview) RunLoadPending(ctx context.Context) (Snapshot[[]verifyclient.PendingDocument], error) {
	return a.pending.Run(ctx, func(ctx context.Context) ([]verifyclient.PendingDocument, error) {
		return a.client.ListPendingDocuments(ctx)
	})
}

// RunDecision — синхронное решение с перечтением очереди.
func (a *AdminReview) RunDecision(ctx context.Context, decision model.ReviewDecision) (Snapshot[*ReviewOutcome], error) {
	if err := a.SubmitDecision(ctx, decision); err != nil {
		return a.DecisionSnapshot(), err
	}
	if err := a.WaitDecision(ctx); err != nil {
		return a.DecisionSnapshot(), err
	}
	return a.DecisionSnapshot(), nil
}
