// auth.go — сценарии входа и регистрации.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/arturkryukov/docverify/web-module/internal/domain/model"
	"github.com/arturkryukov/docverify/web-module/internal/verifyclient"
)

// ErrRegisteredLoginFailed — учётная запись создана, но последующий
// вход не удался. Пользователь может войти вручную.
var ErrRegisteredLoginFailed = errors.New("регистрация выполнена, но вход не удался")

// Authenticator — операции API, нужные сценариям аутентификации.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*model.Identity, error)
	Register(ctx context.Context, name, email, password string) (*verifyclient.RegisterAck, error)
}

// Auth — контроллер сценариев входа и регистрации.
// Результат успешной попытки — аутентифицированная Identity;
// сохранение её в сессию — ответственность вызывающей стороны.
type Auth struct {
	client Authenticator
	ctrl   *Controller[*model.Identity]
}

// NewAuth создаёт контроллер аутентификации.
func NewAuth(client Authenticator, logger *slog.Logger) *Auth {
	return &Auth{
		client: client,
		ctrl:   NewController[*model.Identity]("auth", logger),
	}
}

// SubmitLogin запускает вход по email и паролю.
func (a *Auth) SubmitLogin(ctx context.Context, email, password string) error {
	return a.ctrl.Submit(ctx, func(ctx context.Context) (*model.Identity, error) {
		return a.client.Login(ctx, email, password)
	})
}

// SubmitRegister запускает регистрацию. Вход с теми же учётными данными
// выполняется строго после успешной регистрации, в той же попытке:
// отказ регистрации означает, что login не вызывался вовсе.
func (a *Auth) SubmitRegister(ctx context.Context, name, email, password string) error {
	return a.ctrl.Submit(ctx, func(ctx context.Context) (*model.Identity, error) {
		if _, err := a.client.Register(ctx, name, email, password); err != nil {
			return nil, err
		}
		identity, err := a.client.Login(ctx, email, password)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrRegisteredLoginFailed, err)
		}
		return identity, nil
	})
}

// Wait блокируется до завершения текущей попытки.
func (a *Auth) Wait(ctx context.Context) error { return a.ctrl.Wait(ctx) }

// Snapshot возвращает снимок состояния сценария.
func (a *Auth) Snapshot() Snapshot[*model.Identity] { return a.ctrl.SnapshotState() }

// Close останавливает контроллер.
func (a *Auth) Close() { a.ctrl.Close() }

// RunLogin — синхронный вход: Submit и Wait одной операцией.
func (a *Auth) RunLogin(ctx context.Context, email, password string) (Snapshot[*model.Identity], error) {
	return a.ctrl.Run(ctx, func(ctx context.Context) (*model.Identity, error) {
		return a.client.Login(ctx, email, password)
	})
}

// RunRegister — синхронная регистрация со входом.
func (a *Auth) RunRegister(ctx context.Context, name, email, password string) (Snapshot[*model.Identity], error) {
	if err := a.SubmitRegister(ctx, name, email, password); err != nil {
		return a.Snapshot(), err
	}
	if err := a.Wait(ctx); err != nil {
		return a.Snapshot(), err
	}
	return a.Snapshot(), nil
}
