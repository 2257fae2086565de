// Пакет pages — серверный рендеринг страниц веб-интерфейса.
// Шаблоны встраиваются в бинарник через go:embed; каждая страница —
// пара layout + content. Разметка минимальна: оформление не задача
// этого модуля.
package pages

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/arturkryukov/docverify/web-module/internal/domain/model"
	"github.com/arturkryukov/docverify/web-module/internal/verifyclient"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page — имя страницы, совпадает с именем файла шаблона без расширения.
type Page string

const (
	PageHome      Page = "home"
	PageLogin     Page = "login"
	PageRegister  Page = "register"
	PageVerify    Page = "verify"
	PageUpload    Page = "upload"
	PageDashboard Page = "dashboard"
	PageDocument  Page = "document"
	PageAdmin     Page = "admin"
	PageNotFound  Page = "not_found"
)

// Base — общие данные всех страниц: текущий пользователь для навигации.
type Base struct {
	Identity *model.Identity
	Title    string
}

// LoginData — данные страницы входа.
type LoginData struct {
	Base
	Email string
	Error string
}

// RegisterData — данные страницы регистрации.
type RegisterData struct {
	Base
	Name   string
	Email  string
	Error  string
	Notice string
}

// VerifyData — данные публичной страницы проверки.
type VerifyData struct {
	Base
	Fingerprint string
	Report      *verifyclient.VerificationReport
	NotFound    bool
	Error       string
}

// UploadData — данные страницы загрузки документа.
type UploadData struct {
	Base
	Result *verifyclient.UploadResult
	Error  string
}

// DashboardData — данные страницы «мои документы».
type DashboardData struct {
	Base
	Documents []verifyclient.DocumentRecord
	Error     string
}

// DocumentData — данные страницы деталей документа.
type DocumentData struct {
	Base
	Details *verifyclient.DocumentDetails
	Error   string
}

// AdminData — данные панели администратора.
type AdminData struct {
	Base
	Pending    []verifyclient.PendingDocument
	Notice     string
	Comparison *verifyclient.ComparisonResult
	Error      string
}

// Renderer рендерит страницы. Шаблоны разбираются один раз при создании;
// ошибка разбора — ошибка запуска, не запроса.
type Renderer struct {
	templates map[Page]*template.Template
}

// NewRenderer разбирает все встроенные шаблоны.
func NewRenderer() (*Renderer, error) {
	pages := []Page{
		PageHome, PageLogin, PageRegister, PageVerify, PageUpload,
		PageDashboard, PageDocument, PageAdmin, PageNotFound,
	}

	templates := make(map[Page]*template.Template, len(pages))
	for _, page := range pages {
		tmpl, err := template.ParseFS(templateFS,
			"templates/layout.html",
			fmt.Sprintf("templates/%s.html", page),
		)
		if err != nil {
			return nil, fmt.Errorf("разбор шаблона %s: %w", page, err)
		}
		templates[page] = tmpl
	}

	return &Renderer{templates: templates}, nil
}

// Render рендерит страницу в w. data — соответствующая структура *Data.
func (r *Renderer) Render(w io.Writer, page Page, data any) error {
	tmpl, ok := r.templates[page]
	if !ok {
		return fmt.Errorf("неизвестная страница: %s", page)
	}
	if err := tmpl.ExecuteTemplate(w, "layout", data); err != nil {
		return fmt.Errorf("рендеринг страницы %s: %w", page, err)
	}
	return nil
}
