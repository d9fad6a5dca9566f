package authz

import (
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupAuthzServiceTest(t *testing.T) *Service {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	svc, err := NewService(db)
	if err != nil {
		t.Fatalf("new authz service failed: %v", err)
	}
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap builtin roles failed: %v", err)
	}
	return svc
}

func TestEnforceRoleUserPolicies(t *testing.T) {
	svc := setupAuthzServiceTest(t)

	cases := []struct {
		name   string
		role   string
		object string
		action string
		want   bool
	}{
		{name: "user cart read", role: "user", object: "/api/v1/cart", action: "GET", want: true},
		{name: "user cart add", role: "user", object: "/api/v1/cart/add", action: "POST", want: true},
		{name: "user cart item update", role: "user", object: "/api/v1/cart/update/:product_id", action: "PUT", want: true},
		{name: "user order read", role: "user", object: "/api/v1/orders/42", action: "GET", want: true},
		{name: "user order status denied", role: "user", object: "/api/v1/orders/42/status", action: "PUT", want: false},
		{name: "user product write denied", role: "user", object: "/api/v1/products", action: "POST", want: false},
		{name: "user admin area denied", role: "user", object: "/api/v1/admin/orders", action: "GET", want: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			allow, err := svc.EnforceRole(tc.role, tc.object, tc.action)
			if err != nil {
				t.Fatalf("enforce failed: %v", err)
			}
			if allow != tc.want {
				t.Fatalf("allow want %v got %v", tc.want, allow)
			}
		})
	}
}

func TestEnforceRoleAdminInheritsUser(t *testing.T) {
	svc := setupAuthzServiceTest(t)

	// 管理员继承用户策略
	allow, err := svc.EnforceRole("admin", "/api/v1/cart", "GET")
	if err != nil {
		t.Fatalf("enforce inherited policy failed: %v", err)
	}
	if !allow {
		t.Fatalf("admin should inherit user cart access")
	}

	// 管理员专属策略
	adminOnly := []struct {
		object string
		action string
	}{
		{object: "/api/v1/products", action: "POST"},
		{object: "/api/v1/products/7", action: "PUT"},
		{object: "/api/v1/products/7", action: "DELETE"},
		{object: "/api/v1/orders/7/status", action: "PUT"},
		{object: "/api/v1/admin/orders", action: "GET"},
		{object: "/api/v1/admin/users/3/status", action: "PUT"},
	}
	for _, tc := range adminOnly {
		allow, err := svc.EnforceRole("admin", tc.object, tc.action)
		if err != nil {
			t.Fatalf("enforce %s %s failed: %v", tc.action, tc.object, err)
		}
		if !allow {
			t.Fatalf("admin should be allowed %s %s", tc.action, tc.object)
		}
	}
}

func TestEnforceRoleUnknownRoleDenied(t *testing.T) {
	svc := setupAuthzServiceTest(t)

	allow, err := svc.EnforceRole("guest", "/api/v1/cart", "GET")
	if err != nil {
		t.Fatalf("enforce unknown role failed: %v", err)
	}
	if allow {
		t.Fatalf("unknown role should be denied")
	}

	if _, err := svc.EnforceRole("  ", "/api/v1/cart", "GET"); err == nil {
		t.Fatalf("blank role should fail")
	}
}

func TestNormalizeRole(t *testing.T) {
	got, err := NormalizeRole("admin")
	if err != nil || got != "role:admin" {
		t.Fatalf("normalize admin got %q err %v", got, err)
	}
	got, err = NormalizeRole("role:user")
	if err != nil || got != "role:user" {
		t.Fatalf("normalize prefixed role got %q err %v", got, err)
	}
	if _, err := NormalizeRole(""); err == nil {
		t.Fatalf("empty role should fail")
	}
	if _, err := NormalizeRole("role:"); err == nil {
		t.Fatalf("bare role prefix should fail")
	}
}

func TestNormalizeObject(t *testing.T) {
	cases := map[string]string{
		"/api/v1/cart": "/cart",
		"/api/v1":      "/",
		"cart":         "/cart",
		"":             "/",
		"/orders/1":    "/orders/1",
	}
	for input, want := range cases {
		if got := NormalizeObject(input); got != want {
			t.Fatalf("normalize %q want %q got %q", input, want, got)
		}
	}
}
