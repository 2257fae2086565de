// errors.go — типизированные отказы API верификации.
// Каждая операция клиента завершается либо результатом, либо *Error
// с машиночитаемым кодом. Автоматических повторов нет: отказ — терминальное
// состояние попытки, новую инициирует пользователь.
package verifyclient

import (
	"errors"
	"fmt"
)

// Коды отказов API верификации.
const (
	// CodeUnavailable — транспортная ошибка, 5xx или нечитаемый ответ.
	CodeUnavailable = "API_UNAVAILABLE"
	// CodeValidation — некорректные входные данные, отклонённые сервером.
	CodeValidation = "VALIDATION_ERROR"
	// CodeNotFound — fingerprint или документ неизвестен серверу.
	CodeNotFound = "NOT_FOUND"
	// CodeUnauthorized — неверные учётные данные при login.
	CodeUnauthorized = "UNAUTHORIZED"
	// CodeConflict — конфликт (email уже зарегистрирован).
	CodeConflict = "CONFLICT"
	// CodeUnsupportedType — тип файла не принимается сервером.
	CodeUnsupportedType = "UNSUPPORTED_TYPE"
	// CodeTooLarge — файл превышает серверный лимит.
	CodeTooLarge = "PAYLOAD_TOO_LARGE"
)

// Error — отказ операции API верификации.
type Error struct {
	// Code — машиночитаемый код отказа.
	Code string
	// StatusCode — HTTP-статус ответа (0 при транспортной ошибке).
	StatusCode int
	// Message — человекочитаемое описание (обычно из тела ответа сервера).
	Message string
	// Err — исходная ошибка (транспорт, декодирование), может быть nil.
	Err error
}

// Error реализует интерфейс error.
func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s (HTTP %d): %s", e.Code, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap возвращает исходную ошибку для errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Err
}

// CodeOf возвращает код отказа или пустую строку, если err — не *Error.
func CodeOf(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return ""
}

// IsCode проверяет, что err — отказ API с указанным кодом.
func IsCode(err error, code string) bool {
	return CodeOf(err) == code
}
