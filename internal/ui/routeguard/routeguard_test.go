package routeguard

import (
	"testing"

	"github.com/arturkryukov/docverify/web-module/internal/domain/model"
)

var (
	anon      *model.Identity
	plainUser = &model.Identity{UserID: 1, Name: "A", Email: "a@b.com", Role: "user"}
	adminUser = &model.Identity{UserID: 2, Name: "B", Email: "b@b.com", Role: "admin"}
)

// TestDecidePublicPaths проверяет, что публичные страницы доступны без сессии.
func TestDecidePublicPaths(t *testing.T) {
	for _, path := range []string{"/", "/login", "/register", "/verify"} {
		d := Decide(path, anon)
		if !d.Allowed() {
			t.Errorf("Decide(%q, nil): ожидался Allow, получен redirect на %q", path, d.Redirect)
		}
	}
}

// TestDecideProtectedPathsUnauthenticated проверяет redirect на /login
// для защищённых страниц без Identity.
func TestDecideProtectedPathsUnauthenticated(t *testing.T) {
	for _, path := range []string{"/upload", "/dashboard", "/documents/7", "/admin"} {
		d := Decide(path, anon)
		if d.Allowed() {
			t.Errorf("Decide(%q, nil): ожидался redirect", path)
			continue
		}
		if d.Redirect != LoginPath {
			t.Errorf("Decide(%q, nil): redirect want %q, got %q", path, LoginPath, d.Redirect)
		}
	}
}

// TestDecideProtectedPathsAuthenticated проверяет доступ залогиненного
// пользователя к своим страницам.
func TestDecideProtectedPathsAuthenticated(t *testing.T) {
	tests := []struct {
		path string
		view View
	}{
		{"/upload", ViewUpload},
		{"/dashboard", ViewDashboard},
		{"/documents/7", ViewDocument},
	}

	for _, tt := range tests {
		d := Decide(tt.path, plainUser)
		if !d.Allowed() {
			t.Errorf("Decide(%q, user): ожидался Allow", tt.path)
			continue
		}
		if d.View != tt.view {
			t.Errorf("Decide(%q, user): view want %q, got %q", tt.path, tt.view, d.View)
		}
	}
}

// TestDecideAdminPath проверяет, что /admin доступен только роли admin.
// Неаутентифицированный и неавторизованный доступ дают одинаковый redirect.
func TestDecideAdminPath(t *testing.T) {
	if d := Decide("/admin", adminUser); !d.Allowed() || d.View != ViewAdmin {
		t.Errorf("Decide(/admin, admin): ожидался Allow(admin), получено %+v", d)
	}

	for name, id := range map[string]*model.Identity{"nil": anon, "user": plainUser} {
		d := Decide("/admin", id)
		if d.Allowed() {
			t.Errorf("Decide(/admin, %s): ожидался redirect", name)
			continue
		}
		if d.Redirect != LoginPath {
			t.Errorf("Decide(/admin, %s): redirect want %q, got %q", name, LoginPath, d.Redirect)
		}
	}
}

// TestDecideUnknownPath проверяет, что неизвестные пути дают страницу not found,
// а не redirect — catch-all проверяется последним.
func TestDecideUnknownPath(t *testing.T) {
	for _, path := range []string{"/nope", "/upload/extra", "/Login"} {
		d := Decide(path, anon)
		if !d.Allowed() || d.View != ViewNotFound {
			t.Errorf("Decide(%q, nil): ожидался Allow(not_found), получено %+v", path, d)
		}
	}
}

// TestDecideTrailingSlash проверяет нормализацию trailing slash.
func TestDecideTrailingSlash(t *testing.T) {
	if d := Decide("/dashboard/", plainUser); !d.Allowed() || d.View != ViewDashboard {
		t.Errorf("Decide(/dashboard/, user): ожидался Allow(dashboard), получено %+v", d)
	}
	if d := Decide("/admin/compare", adminUser); !d.Allowed() || d.View != ViewAdmin {
		t.Errorf("Decide(/admin/compare, admin): ожидался Allow(admin), получено %+v", d)
	}
}
