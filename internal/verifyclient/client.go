// Пакет verifyclient — HTTP-клиент API сервиса верификации документов.
// Тонкий типизированный слой над remote API: login, register, upload,
// verify-by-fingerprint, списки документов, решения администратора.
// Каждая операция — один запрос/ответ без автоматических повторов;
// отмена — через context вызывающей стороны.
package verifyclient

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/arturkryukov/docverify/web-module/internal/domain/model"
	"github.com/arturkryukov/docverify/web-module/internal/domain/rbac"
)

// Client — HTTP-клиент API верификации.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// New создаёт клиент API верификации.
// baseURL — базовый адрес API (trailing slash убирается).
// caCertPath — путь к CA-сертификату для TLS (пустая строка — стандартный пул).
func New(baseURL, caCertPath string, timeout time.Duration, logger *slog.Logger) (*Client, error) {
	httpClient := &http.Client{Timeout: timeout}

	if caCertPath != "" {
		tlsConfig, err := buildTLSConfig(caCertPath)
		if err != nil {
			return nil, fmt.Errorf("загрузка CA-сертификата API: %w", err)
		}
		httpClient.Transport = &http.Transport{
			TLSClientConfig: tlsConfig,
		}
		logger.Info("CA-сертификат API добавлен в пул доверия",
			slog.String("ca_cert", caCertPath),
		)
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     logger.With(slog.String("component", "verify_client")),
	}, nil
}

// buildTLSConfig создаёт TLS-конфигурацию с кастомным CA.
func buildTLSConfig(caCertPath string) (*tls.Config, error) {
	caCert, err := os.ReadFile(caCertPath)
	if err != nil {
		return nil, fmt.Errorf("чтение CA-сертификата: %w", err)
	}

	caCertPool, err := x509.SystemCertPool()
	if err != nil {
		caCertPool = x509.NewCertPool()
	}
	caCertPool.AppendCertsFromPEM(caCert)

	return &tls.Config{
		RootCAs: caCertPool,
	}, nil
}

// BaseURL возвращает базовый адрес API (для health-проверок и метрик).
func (c *Client) BaseURL() string {
	return c.baseURL
}

// --- Типы ответов API ---

// RegisterAck — подтверждение регистрации (POST /register).
// Регистрация сама по себе не аутентифицирует: за ней следует отдельный login.
type RegisterAck struct {
	UserID int    `json:"user_id"`
	Email  string `json:"email"`
}

// UploadReceipt — принятый сервером документ (часть ответа POST /upload).
type UploadReceipt struct {
	DocID       int    `json:"doc_id"`
	Filename    string `json:"filename"`
	DocType     string `json:"doc_type"`
	Fingerprint string `json:"blockchain_hash"`
	TxHash      string `json:"tx_hash"`
	Status      string `json:"verification_status"`
}

// ExtractionSummary — сводка извлечения данных из документа.
// Отображается как есть, клиент её не интерпретирует.
type ExtractionSummary struct {
	TotalEntities int `json:"total_entities"`
	TextLength    int `json:"text_length"`
}

// UploadResult — полный ответ POST /upload.
type UploadResult struct {
	Message    string            `json:"message"`
	Document   UploadReceipt     `json:"document"`
	Extraction ExtractionSummary `json:"extraction_summary"`
}

// DocumentRecord — запись документа пользователя (GET /user/{id}/documents).
// Read-only: статусом управляет исключительно сервер.
type DocumentRecord struct {
	DocID       int    `json:"doc_id"`
	DocName     string `json:"doc_name"`
	DocType     string `json:"doc_type"`
	UploadDate  string `json:"upload_date"`
	Status      string `json:"verification_status"`
	Fingerprint string `json:"blockchain_hash"`
}

// PendingDocument — документ в очереди на проверку (GET /admin/pending).
type PendingDocument struct {
	DocID      int    `json:"doc_id"`
	DocName    string `json:"doc_name"`
	UserID     int    `json:"user_id"`
	UploadDate string `json:"upload_date"`
}

// ExtractedField — извлечённое из документа поле.
type ExtractedField struct {
	KeyName         string  `json:"key_name"`
	ValueText       string  `json:"value_text"`
	ConfidenceScore float64 `json:"confidence_score"`
}

// VerifiedDocument — данные документа в отчёте верификации.
type VerifiedDocument struct {
	DocID      int    `json:"doc_id"`
	DocName    string `json:"doc_name"`
	DocType    string `json:"doc_type"`
	UploadDate string `json:"upload_date"`
	Status     string `json:"verification_status"`
	UserName   string `json:"user_name"`
}

// VerificationReport — отчёт верификации по fingerprint (GET /verify/{hash}).
type VerificationReport struct {
	Verified      bool             `json:"verified"`
	Message       string           `json:"message"`
	Document      VerifiedDocument `json:"document"`
	ExtractedInfo []ExtractedField `json:"extracted_info"`
}

// ReviewLogEntry — запись журнала проверок документа.
type ReviewLogEntry struct {
	VerifyID  int    `json:"verify_id"`
	AdminID   *int   `json:"admin_id"`
	Status    string `json:"verification_status"`
	Verified  string `json:"verified_at"`
	Remarks   string `json:"remarks"`
	AdminName string `json:"admin_name"`
}

// DocumentDetails — полные данные документа (GET /document/{id}).
type DocumentDetails struct {
	Document struct {
		DocID      int    `json:"doc_id"`
		DocName    string `json:"doc_name"`
		DocType    string `json:"doc_type"`
		UploadDate string `json:"upload_date"`
		Status     string `json:"verification_status"`
		UserID     int    `json:"user_id"`
		UserName   string `json:"user_name"`
	} `json:"document"`
	ExtractedInfo []ExtractedField `json:"extracted_info"`
	History       []ReviewLogEntry `json:"verification_history"`
}

// DecisionAck — подтверждение решения администратора (POST /admin/verify/{id}).
type DecisionAck struct {
	Message string `json:"message"`
	DocID   int    `json:"doc_id"`
	Status  string `json:"status"`
}

// ComparisonResult — результат сравнения двух документов (GET /admin/compare).
type ComparisonResult struct {
	Doc1            int     `json:"doc1"`
	Doc2            int     `json:"doc2"`
	SimilarityRatio float64 `json:"similarity_ratio"`
	Conclusion      string  `json:"conclusion"`
}

// --- Операции ---

// Login аутентифицирует пользователя. POST /login.
// Неверные учётные данные — *Error{Code: UNAUTHORIZED}.
func (c *Client) Login(ctx context.Context, email, password string) (*model.Identity, error) {
	body := map[string]string{"email": email, "password": password}

	var resp struct {
		Message string         `json:"message"`
		User    model.Identity `json:"user"`
	}
	if err := c.postJSON(ctx, "/login", body, &resp); err != nil {
		return nil, err
	}

	// Роль от сервера нормализуется: неизвестная роль никогда не даёт привилегий
	resp.User.Role = rbac.Normalize(resp.User.Role)
	resp.User.Email = firstNonEmpty(resp.User.Email, email)

	c.logger.Debug("Пользователь аутентифицирован",
		slog.Int("user_id", resp.User.UserID),
		slog.String("role", resp.User.Role),
	)
	return &resp.User, nil
}

// Register создаёт учётную запись. POST /register.
// Дубликат email — *Error{Code: CONFLICT}. Не аутентифицирует:
// последующий login — ответственность вызывающей стороны.
func (c *Client) Register(ctx context.Context, name, email, password string) (*RegisterAck, error) {
	body := map[string]string{"name": name, "email": email, "password": password}

	var ack RegisterAck
	if err := c.postJSON(ctx, "/register", body, &ack); err != nil {
		return nil, err
	}
	return &ack, nil
}

// Upload отправляет документ на fingerprinting. POST /upload (multipart).
// Тип и размер файла валидирует сервер; клиент лишь транслирует отказ.
func (c *Client) Upload(ctx context.Context, userID int, docType, filename string, data []byte) (*UploadResult, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("создание multipart part: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, fmt.Errorf("запись файла в multipart: %w", err)
	}
	if err := mw.WriteField("user_id", strconv.Itoa(userID)); err != nil {
		return nil, fmt.Errorf("запись user_id: %w", err)
	}
	if err := mw.WriteField("doc_type", docType); err != nil {
		return nil, fmt.Errorf("запись doc_type: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("завершение multipart: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", &buf)
	if err != nil {
		return nil, fmt.Errorf("создание запроса Upload: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var result UploadResult
	if err := c.do(req, &result); err != nil {
		return nil, err
	}

	c.logger.Debug("Документ загружен",
		slog.Int("doc_id", result.Document.DocID),
		slog.String("fingerprint", result.Document.Fingerprint),
	)
	return &result, nil
}

// VerifyByFingerprint запрашивает отчёт верификации. GET /verify/{fingerprint}.
// Неизвестный fingerprint — *Error{Code: NOT_FOUND} с сообщением сервера:
// «не верифицирован» — отдельный от сетевого сбоя результат.
func (c *Client) VerifyByFingerprint(ctx context.Context, fingerprint string) (*VerificationReport, error) {
	var report VerificationReport
	if err := c.getJSON(ctx, "/verify/"+url.PathEscape(fingerprint), &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// ListOwnDocuments возвращает документы пользователя. GET /user/{id}/documents.
func (c *Client) ListOwnDocuments(ctx context.Context, userID int) ([]DocumentRecord, error) {
	var resp struct {
		UserID    int              `json:"user_id"`
		Total     int              `json:"total_documents"`
		Documents []DocumentRecord `json:"documents"`
	}
	if err := c.getJSON(ctx, fmt.Sprintf("/user/%d/documents", userID), &resp); err != nil {
		return nil, err
	}
	return resp.Documents, nil
}

// ListPendingDocuments возвращает очередь документов на проверку.
// GET /admin/pending. Авторизацию admin-операций контролирует сервер.
func (c *Client) ListPendingDocuments(ctx context.Context) ([]PendingDocument, error) {
	var resp struct {
		Total   int               `json:"total_pending"`
		Pending []PendingDocument `json:"pending_documents"`
	}
	if err := c.getJSON(ctx, "/admin/pending", &resp); err != nil {
		return nil, err
	}
	return resp.Pending, nil
}

// SubmitReviewDecision отправляет решение администратора.
// POST /admin/verify/{doc_id}.
func (c *Client) SubmitReviewDecision(ctx context.Context, decision model.ReviewDecision) (*DecisionAck, error) {
	body := map[string]any{
		"admin_id": decision.AdminID,
		"status":   decision.Status,
		"remarks":  decision.Remarks,
	}

	var ack DecisionAck
	if err := c.postJSON(ctx, fmt.Sprintf("/admin/verify/%d", decision.DocID), body, &ack); err != nil {
		return nil, err
	}

	c.logger.Debug("Решение по документу отправлено",
		slog.Int("doc_id", decision.DocID),
		slog.String("status", decision.Status),
	)
	return &ack, nil
}

// GetDocument возвращает полные данные документа. GET /document/{doc_id}.
func (c *Client) GetDocument(ctx context.Context, docID int) (*DocumentDetails, error) {
	var details DocumentDetails
	if err := c.getJSON(ctx, fmt.Sprintf("/document/%d", docID), &details); err != nil {
		return nil, err
	}
	return &details, nil
}

// CompareDocuments сравнивает два документа по извлечённому тексту.
// GET /admin/compare?doc1=&doc2=.
func (c *Client) CompareDocuments(ctx context.Context, doc1, doc2 int) (*ComparisonResult, error) {
	var result ComparisonResult
	path := fmt.Sprintf("/admin/compare?doc1=%d&doc2=%d", doc1, doc2)
	if err := c.getJSON(ctx, path, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// --- Внутренние помощники ---

// getJSON выполняет GET и декодирует успешный ответ в out.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("создание запроса GET %s: %w", path, err)
	}
	return c.do(req, out)
}

// postJSON выполняет POST с JSON-телом и декодирует успешный ответ в out.
func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("сериализация тела %s: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("создание запроса POST %s: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

// do выполняет запрос, транслирует статусы в типизированные отказы
// и декодирует успешный ответ. Неожиданная форма ответа — закрытый отказ
// (API_UNAVAILABLE), а не неопределённое поведение.
func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{
			Code:    CodeUnavailable,
			Message: "сервис верификации недоступен",
			Err:     err,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.errorFromResponse(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{
			Code:       CodeUnavailable,
			StatusCode: resp.StatusCode,
			Message:    "неожиданный формат ответа API",
			Err:        err,
		}
	}
	return nil
}

// errorFromResponse строит *Error из ответа с кодом >= 400.
func (c *Client) errorFromResponse(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))

	// Flask-style тело: {"error": "..."} либо {"message": "..."}
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	_ = json.Unmarshal(raw, &body)
	message := firstNonEmpty(body.Error, body.Message, strings.TrimSpace(string(raw)))

	code := CodeUnavailable
	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		code = CodeUnauthorized
	case resp.StatusCode == http.StatusConflict:
		code = CodeConflict
	case resp.StatusCode == http.StatusNotFound:
		code = CodeNotFound
	case resp.StatusCode == http.StatusRequestEntityTooLarge:
		code = CodeTooLarge
	case resp.StatusCode == http.StatusBadRequest:
		code = CodeValidation
		// Сервер сообщает о неподдерживаемом типе файла обычным 400
		if strings.Contains(strings.ToLower(message), "type not allowed") {
			code = CodeUnsupportedType
		}
	}

	c.logger.Debug("API вернул отказ",
		slog.String("path", resp.Request.URL.Path),
		slog.Int("status", resp.StatusCode),
		slog.String("code", code),
	)

	return &Error{
		Code:       code,
		StatusCode: resp.StatusCode,
		Message:    message,
	}
}

// firstNonEmpty возвращает первую непустую строку.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
