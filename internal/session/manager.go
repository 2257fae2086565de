// Пакет session — хранилище сессии пользователя Web Module.
// Identity сериализуется в зашифрованный cookie (AES-256-GCM) под фиксированным
// именем — это единственное долговременное состояние на стороне клиента.
// Повреждённый или нечитаемый cookie эквивалентен «не залогинен».
package session

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/arturkryukov/docverify/web-module/internal/domain/model"
)

// Имя cookie с зашифрованной Identity — фиксированный ключ хранения.
const CookieName = "docverify_session"

// Manager шифрует/дешифрует Identity в HTTP cookie через AES-256-GCM.
type Manager struct {
	// gcm — AEAD cipher для шифрования/дешифрования.
	gcm cipher.AEAD
	// secure — использовать Secure flag для cookie (true для HTTPS).
	secure bool
	// maxAge — время жизни session cookie.
	maxAge time.Duration
}

// NewManager создаёт менеджер сессий.
// key — ключ AES-256: base64 от 32 байт либо произвольная строка
// (хешируется SHA-256 до 32 байт). Пустой ключ — случайный,
// сессии не переживут рестарт процесса.
func NewManager(key string, secure bool, maxAge time.Duration) (*Manager, error) {
	var keyBytes []byte

	if key == "" {
		keyBytes = make([]byte, 32)
		if _, err := io.ReadFull(rand.Reader, keyBytes); err != nil {
			return nil, fmt.Errorf("ошибка генерации ключа сессии: %w", err)
		}
	} else {
		var err error
		keyBytes, err = base64.StdEncoding.DecodeString(key)
		if err != nil || len(keyBytes) != 32 {
			// Не base64 — хешируем строку до 32 bytes (удобство конфигурации)
			keyBytes = sha256Key(key)
		}
	}

	block, err := aes.NewCipher(keyBytes)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания AES cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания GCM: %w", err)
	}

	return &Manager{
		gcm:    gcm,
		secure: secure,
		maxAge: maxAge,
	}, nil
}

// Encrypt шифрует Identity и возвращает base64-строку.
func (m *Manager) Encrypt(id *model.Identity) (string, error) {
	plaintext, err := json.Marshal(id)
	if err != nil {
		return "", fmt.Errorf("ошибка сериализации сессии: %w", err)
	}

	// Уникальный nonce для каждого шифрования
	nonce := make([]byte, m.gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("ошибка генерации nonce: %w", err)
	}

	// Nonce prepended к ciphertext
	ciphertext := m.gcm.Seal(nonce, nonce, plaintext, nil)

	return base64.URLEncoding.EncodeToString(ciphertext), nil
}

// Decrypt дешифрует base64-строку обратно в Identity.
func (m *Manager) Decrypt(encrypted string) (*model.Identity, error) {
	ciphertext, err := base64.URLEncoding.DecodeString(encrypted)
	if err != nil {
		return nil, fmt.Errorf("ошибка декодирования base64: %w", err)
	}

	nonceSize := m.gcm.NonceSize()
	if len(ciphertext) < nonceSize {
		return nil, errors.New("зашифрованные данные слишком короткие")
	}

	nonce, ciphertext := ciphertext[:nonceSize], ciphertext[nonceSize:]
	plaintext, err := m.gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("ошибка дешифрования сессии: %w", err)
	}

	var id model.Identity
	if err := json.Unmarshal(plaintext, &id); err != nil {
		return nil, fmt.Errorf("ошибка десериализации сессии: %w", err)
	}

	return &id, nil
}

// SetCookie устанавливает зашифрованный session cookie в ответ.
func (m *Manager) SetCookie(w http.ResponseWriter, id *model.Identity) error {
	encrypted, err := m.Encrypt(id)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    encrypted,
		Path:     "/",
		MaxAge:   int(m.maxAge.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// FromRequest извлекает и дешифрует Identity из cookie запроса.
// Возвращает nil, nil если cookie отсутствует.
func (m *Manager) FromRequest(r *http.Request) (*model.Identity, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return nil, nil
		}
		return nil, err
	}

	return m.Decrypt(cookie.Value)
}

// ClearCookie удаляет session cookie из ответа (logout).
func (m *Manager) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// sha256Key хеширует строковый ключ в 32 bytes через SHA-256.
func sha256Key(key string) []byte {
	h := sha256.Sum256([]byte(key))
	return h[:]
}
