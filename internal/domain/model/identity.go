// Пакет model — доменные модели Web Module.
package model

// Identity — аутентифицированный пользователь сервиса верификации.
// Создаётся при успешном login/register, живёт в зашифрованном session cookie,
// уничтожается при logout. Единственный источник правды между перезагрузками.
type Identity struct {
	// UserID — идентификатор пользователя на стороне API
	UserID int `json:"user_id"`
	// Name — полное имя пользователя
	Name string `json:"name"`
	// Email — адрес электронной почты
	Email string `json:"email"`
	// Role — роль пользователя (user, admin)
	Role string `json:"role"`
}
