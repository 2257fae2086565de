// Пакет rbac — логика ролей пользователей Web Module.
// Ролей две: user (обычный пользователь) и admin (проверяющий).
// Роль приходит от API верификации при login и нигде не повышается локально:
// admin-маршруты не должны рендериться для role != admin даже на мгновение.
package rbac

// Роли в порядке возрастания привилегий.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// IsValidRole проверяет, что строка — известная роль.
func IsValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}

// IsAdmin сообщает, даёт ли роль доступ к admin-маршрутам.
func IsAdmin(role string) bool {
	return role == RoleAdmin
}

// Normalize приводит роль к допустимому значению.
// Неизвестная или пустая роль трактуется как user — привилегии
// никогда не выводятся из непонятных данных.
func Normalize(role string) string {
	if !IsValidRole(role) {
		return RoleUser
	}
	return role
}
