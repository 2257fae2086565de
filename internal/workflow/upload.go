// upload.go — сценарий загрузки документа.
package workflow

import (
	"context"
	"errors"
	"log/slog"

	"github.com/arturkryukov/docverify/web-module/internal/verifyclient"
)

// ErrNoFile — файл не выбран или пуст; запрос к API не выполняется.
var ErrNoFile = errors.New("файл не выбран")

// Uploader — операция загрузки документа в API.
type Uploader interface {
	Upload(ctx context.Context, userID int, docType, filename string, data []byte) (*verifyclient.UploadResult, error)
}

// Upload — контроллер загрузки документа. Тип и размер файла клиент
// не проверяет: это делает сервер, а его отказ показывается как есть.
type Upload struct {
	client Uploader
	ctrl   *Controller[*verifyclient.UploadResult]
}

// NewUpload создаёт контроллер загрузки.
func NewUpload(client Uploader, logger *slog.Logger) *Upload {
	return &Upload{
		client: client,
		ctrl:   NewController[*verifyclient.UploadResult]("upload", logger),
	}
}

// Submit запускает загрузку. Пустой выбор файла отклоняется сразу,
// без запроса к API.
func (u *Upload) Submit(ctx context.Context, userID int, docType, filename string, data []byte) error {
	if filename == "" || len(data) == 0 {
		return ErrNoFile
	}
	return u.ctrl.Submit(ctx, func(ctx context.Context) (*verifyclient.UploadResult, error) {
		return u.client.Upload(ctx, userID, docType, filename, data)
	})
}

// Wait блокируется до завершения текущей попытки.
func (u *Upload) Wait(ctx context.Context) error { return u.ctrl.Wait(ctx) }

// Snapshot возвращает снимок состояния сценария.
func (u *Upload) Snapshot() Snapshot[*verifyclient.UploadResult] { return u.ctrl.SnapshotState() }

// Close останавливает контроллер.
func (u *Upload) Close() { u.ctrl.Close() }

// Run — синхронная загрузка: Submit и Wait одной операцией.
func (u *Upload) Run(ctx context.Context, userID int, docType, filename string, data []byte) (Snapshot[*verifyclient.UploadResult], error) {
	if err := u.Submit(ctx, userID, docType, filename, data); err != nil {
		return u.Snapshot(), err
	}
	if err := u.Wait(ctx); err != nil {
		return u.Snapshot(), err
	}
	return u.Snapshot(), nil
}
