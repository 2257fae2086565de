// verify.go — сценарий публичной проверки документа по fingerprint.
package workflow

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/arturkryukov/docverify/web-module/internal/verifyclient"
)

// ErrBlankFingerprint — пустой fingerprint; запрос к API не выполняется.
var ErrBlankFingerprint = errors.New("fingerprint не указан")

// Verifier — операция проверки документа в API.
type Verifier interface {
	VerifyByFingerprint(ctx context.Context, fingerprint string) (*verifyclient.VerificationReport, error)
}

// Verify — контроллер проверки. «Документ не найден» (NOT_FOUND) —
// содержательный результат проверки, отличимый от сетевого сбоя
// через verifyclient.IsCode.
type Verify struct {
	client Verifier
	ctrl   *Controller[*verifyclient.VerificationReport]
}

// NewVerify создаёт контроллер проверки.
func NewVerify(client Verifier, logger *slog.Logger) *Verify {
	return &Verify{
		client: client,
		ctrl:   NewController[*verifyclient.VerificationReport]("verify", logger),
	}
}

// Submit запускает проверку. Fingerprint обрезается от пробелов;
// пустой отклоняется без запроса.
func (v *Verify) Submit(ctx context.Context, fingerprint string) error {
	fingerprint = strings.TrimSpace(fingerprint)
	if fingerprint == "" {
		return ErrBlankFingerprint
	}
	return v.ctrl.Submit(ctx, func(ctx context.Context) (*verifyclient.VerificationReport, error) {
		return v.client.VerifyByFingerprint(ctx, fingerprint)
	})
}

// Wait блокируется до завершения текущей попытки.
func (v *Verify) Wait(ctx context.Context) error { return v.ctrl.Wait(ctx) }

// Snapshot возвращает снимок состояния сценария.
func (v *Verify) Snapshot() Snapshot[*verifyclient.VerificationReport] { return v.ctrl.SnapshotState() }

// Close останавливает контроллер.
func (v *Verify) Close() { v.ctrl.Close() }

// Run — синхронная проверка: Submit и Wait одной операцией.
func (v *Verify) Run(ctx context.Context, fingerprint string) (Snapshot[*verifyclient.VerificationReport], error) {
	if err := v.Submit(ctx, fingerprint); err != nil {
		return v.Snapshot(), err
	}
	if err := v.Wait(ctx); err != nil {
		return v.Snapshot(), err
	}
	return v.Snapshot(), nil
}
