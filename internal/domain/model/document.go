package model

// Статусы верификации документа. Переходы между статусами выполняет
// только сервер; клиент лишь отправляет запросы на смену статуса.
const (
	StatusPending  = "pending"
	StatusVerified = "verified"
	StatusRejected = "rejected"
)

// ReviewDecision — решение администратора по документу.
// Конструируется на клиенте и существует только на время одного запроса
// POST /admin/verify/{doc_id}.
type ReviewDecision struct {
	// DocID — идентификатор документа
	DocID int
	// AdminID — идентификатор администратора, принявшего решение
	AdminID int
	// Status — новый статус (verified, rejected)
	Status string
	// Remarks — комментарий администратора
	Remarks string
}

// IsDecisionStatus проверяет, что статус допустим для решения администратора.
// Допустимы только verified и rejected — pending выставляется сервером при загрузке.
func IsDecisionStatus(status string) bool {
	return status == StatusVerified || status == StatusRejected
}
