package session

import (
	"net/http"
	"sync"

	"github.com/arturkryukov/docverify/web-module/internal/domain/model"
)

// Store — реестр текущей Identity в рамках одного обмена с браузером.
// Читает durable-копию (cookie) ровно один раз при создании; любая ошибка
// разбора трактуется как отсутствие сессии, никогда не как сбой.
// Set публикует значение в память только после записи durable-копии,
// поэтому читатели не видят «порванное» состояние.
type Store struct {
	manager *Manager

	mu sync.RWMutex
	// identity — текущая аутентифицированная Identity (nil — не залогинен).
	identity *model.Identity
	// corrupt — durable-копия была повреждена; cookie стоит очистить.
	corrupt bool
}

// NewStore создаёт Store и загружает Identity из cookie запроса.
// Вызывается один раз на обмен — дальнейшие чтения идут из памяти.
func NewStore(manager *Manager, r *http.Request) *Store {
	s := &Store{manager: manager}

	id, err := manager.FromRequest(r)
	if err != nil {
		// Повреждённый cookie = нет сессии. Ошибку не поднимаем.
		s.corrupt = true
		return s
	}
	s.identity = id
	return s
}

// Get возвращает текущую Identity или nil.
func (s *Store) Get() *model.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity
}

// Set заменяет Identity: сначала durable-копия (cookie в ответ),
// затем публикация в память. При ошибке записи cookie память не меняется.
func (s *Store) Set(w http.ResponseWriter, id *model.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.manager.SetCookie(w, id); err != nil {
		return err
	}
	s.identity = id
	s.corrupt = false
	return nil
}

// Clear удаляет Identity из памяти и из durable-хранилища (logout).
func (s *Store) Clear(w http.ResponseWriter) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.manager.ClearCookie(w)
	s.identity = nil
	s.corrupt = false
}

// Corrupt сообщает, была ли durable-копия повреждена при загрузке.
// Guard-middleware по этому признаку очищает cookie у клиента.
func (s *Store) Corrupt() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.corrupt
}
