// Пакет routeguard — решение о доступе к страницам Web Module.
// Чистая функция Decide: по пути и текущей Identity возвращает либо
// разрешение рендерить view, либо redirect. Никаких сайд-эффектов —
// запись cookie и сам redirect выполняет guard-middleware.
package routeguard

import (
	"strings"

	"github.com/arturkryukov/docverify/web-module/internal/domain/model"
	"github.com/arturkryukov/docverify/web-module/internal/domain/rbac"
)

// View — страница, которую разрешено рендерить.
type View string

// Страницы Web Module.
const (
	ViewHome      View = "home"
	ViewLogin     View = "login"
	ViewRegister  View = "register"
	ViewVerify    View = "verify"
	ViewUpload    View = "upload"
	ViewDashboard View = "dashboard"
	ViewDocument  View = "document"
	ViewAdmin     View = "admin"
	ViewNotFound  View = "not_found"
)

// Путь страницы входа — цель всех redirect.
const LoginPath = "/login"

// Decision — результат проверки доступа: либо Allow(view), либо Redirect(target).
type Decision struct {
	// View — страница для рендеринга (пусто при redirect).
	View View
	// Redirect — путь redirect (пусто при allow).
	Redirect string
}

// Allowed сообщает, разрешён ли рендеринг.
func (d Decision) Allowed() bool {
	return d.Redirect == ""
}

// Decide возвращает решение о доступе к path для identity (nil — не залогинен).
//
// Публичные страницы доступны всегда. /upload и /dashboard требуют
// аутентификации. /admin требует роль admin; неаутентифицированный и
// неавторизованный доступ дают один и тот же redirect на /login,
// не раскрывая существование страницы администратора.
// Неизвестный путь — страница not found, проверяется последней.
func Decide(path string, identity *model.Identity) Decision {
	switch normalize(path) {
	case "/":
		return Decision{View: ViewHome}
	case "/login":
		return Decision{View: ViewLogin}
	case "/register":
		return Decision{View: ViewRegister}
	case "/verify":
		return Decision{View: ViewVerify}
	case "/upload":
		if identity == nil {
			return Decision{Redirect: LoginPath}
		}
		return Decision{View: ViewUpload}
	case "/dashboard":
		if identity == nil {
			return Decision{Redirect: LoginPath}
		}
		return Decision{View: ViewDashboard}
	case "/documents":
		if identity == nil {
			return Decision{Redirect: LoginPath}
		}
		return Decision{View: ViewDocument}
	case "/admin":
		if identity == nil || !rbac.IsAdmin(identity.Role) {
			return Decision{Redirect: LoginPath}
		}
		return Decision{View: ViewAdmin}
	}

	return Decision{View: ViewNotFound}
}

// normalize убирает trailing slash и сводит подмаршруты к их странице:
// /documents/7 решается как /documents, /admin/compare — как /admin.
func normalize(path string) string {
	if path != "/" {
		path = strings.TrimRight(path, "/")
	}
	if path == "" {
		return "/"
	}
	for _, prefix := range []string{"/documents", "/admin"} {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return prefix
		}
	}
	return path
}
