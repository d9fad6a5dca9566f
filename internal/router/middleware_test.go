package router

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopmart-api/internal/authz"
	"github.com/shopmart-api/internal/models"
	"github.com/shopmart-api/internal/repository"
	"github.com/shopmart-api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

const testJWTSecret = "unit-test-secret-key-0123456789abcdef"

func TestResolveAllowedOrigin(t *testing.T) {
	got := resolveAllowedOrigin("https://example.com", []string{"*"}, false)
	if got != "*" {
		t.Fatalf("wildcard without credentials should return *, got %s", got)
	}

	got = resolveAllowedOrigin("https://example.com", []string{"*"}, true)
	if got != "https://example.com" {
		t.Fatalf("wildcard with credentials should echo origin, got %s", got)
	}

	got = resolveAllowedOrigin("https://a.example.com", []string{"https://a.example.com", "https://b.example.com"}, false)
	if got != "https://a.example.com" {
		t.Fatalf("allow-list should return matched origin, got %s", got)
	}

	got = resolveAllowedOrigin("https://x.example.com", []string{"https://a.example.com"}, false)
	if got != "" {
		t.Fatalf("unmatched origin should be empty, got %s", got)
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"request_id": getRequestID(c)})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(requestIDHeader, "req-123")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
	if w.Header().Get(requestIDHeader) != "req-123" {
		t.Fatalf("response request id want req-123 got %s", w.Header().Get(requestIDHeader))
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp["request_id"] != "req-123" {
		t.Fatalf("context request id want req-123 got %s", resp["request_id"])
	}

	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodGet, "/ping", nil)
	r.ServeHTTP(w2, req2)
	if strings.TrimSpace(w2.Header().Get(requestIDHeader)) == "" {
		t.Fatalf("generated request id should not be empty")
	}
}

func setupJWTTestDB(t *testing.T) (*gorm.DB, repository.UserRepository) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("migrate users failed: %v", err)
	}
	return db, repository.NewUserRepository(db)
}

func signTestUserToken(t *testing.T, user *models.User) string {
	t.Helper()
	now := time.Now()
	claims := service.UserJWTClaims{
		UserID:       user.ID,
		Email:        user.Email,
		Role:         user.Role,
		TokenVersion: user.TokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	if err != nil {
		t.Fatalf("sign token failed: %v", err)
	}
	return tokenString
}

func newJWTTestRouter(userRepo repository.UserRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(UserJWTAuthMiddleware(testJWTSecret, userRepo))
	r.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id":   c.GetUint("user_id"),
			"user_role": c.GetString("user_role"),
		})
	})
	return r
}

func TestUserJWTAuthMiddlewareRejectsBadRequests(t *testing.T) {
	_, userRepo := setupJWTTestDB(t)
	r := newJWTTestRouter(userRepo)

	cases := []struct {
		name   string
		header string
	}{
		{name: "missing header", header: ""},
		{name: "not bearer", header: "Basic abc"},
		{name: "garbage token", header: "Bearer not-a-jwt"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			r.ServeHTTP(w, req)
			if w.Code != http.StatusUnauthorized {
				t.Fatalf("status want 401 got %d", w.Code)
			}
		})
	}
}

func TestUserJWTAuthMiddlewareMissingSecret(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(UserJWTAuthMiddleware("", nil))
	r.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status want 401 got %d", w.Code)
	}
}

func TestUserJWTAuthMiddlewareValidToken(t *testing.T) {
	db, userRepo := setupJWTTestDB(t)
	user := &models.User{Name: "Alice", Email: "alice@example.com", PasswordHash: "x", Role: "user", Status: "active"}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}

	r := newJWTTestRouter(userRepo)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+signTestUserToken(t, user))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		UserID   uint   `json:"user_id"`
		UserRole string `json:"user_role"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp.UserID != user.ID {
		t.Fatalf("user_id want %d got %d", user.ID, resp.UserID)
	}
	if resp.UserRole != "user" {
		t.Fatalf("user_role want user got %s", resp.UserRole)
	}
}

func TestUserJWTAuthMiddlewareDisabledUser(t *testing.T) {
	db, userRepo := setupJWTTestDB(t)
	user := &models.User{Name: "Bob", Email: "bob@example.com", PasswordHash: "x", Role: "user", Status: "disabled"}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}

	r := newJWTTestRouter(userRepo)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+signTestUserToken(t, user))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status want 401 got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "account is disabled") {
		t.Fatalf("expected disabled message, got %s", w.Body.String())
	}
}

func TestUserJWTAuthMiddlewareRevokedTokenVersion(t *testing.T) {
	db, userRepo := setupJWTTestDB(t)
	user := &models.User{Name: "Carol", Email: "carol@example.com", PasswordHash: "x", Role: "user", Status: "active"}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	token := signTestUserToken(t, user)

	// 模拟改密后版本号递增，旧 Token 应被拒绝
	if err := db.Model(user).Update("token_version", user.TokenVersion+1).Error; err != nil {
		t.Fatalf("bump token version failed: %v", err)
	}

	r := newJWTTestRouter(userRepo)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status want 401 got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "token has been revoked") {
		t.Fatalf("expected revoked message, got %s", w.Body.String())
	}
}

func setupRBACTestRouter(t *testing.T, role string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	authzService, err := authz.NewService(db)
	if err != nil {
		t.Fatalf("new authz service failed: %v", err)
	}
	if err := authzService.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap builtin roles failed: %v", err)
	}

	r := gin.New()
	r.Use(func(c *gin.Context) {
		if role != "" {
			c.Set("user_role", role)
		}
		c.Next()
	})
	r.Use(RBACMiddleware(authzService))
	r.GET("/api/v1/cart", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	r.POST("/api/v1/products", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func TestRBACMiddlewareAllowsUserRoute(t *testing.T) {
	r := setupRBACTestRouter(t, "user")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d: %s", w.Code, w.Body.String())
	}
}

func TestRBACMiddlewareDeniesUserOnAdminRoute(t *testing.T) {
	r := setupRBACTestRouter(t, "user")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/products", nil))
	if w.Code != http.StatusForbidden {
		t.Fatalf("status want 403 got %d: %s", w.Code, w.Body.String())
	}
}

func TestRBACMiddlewareAllowsAdminOnAdminRoute(t *testing.T) {
	r := setupRBACTestRouter(t, "admin")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/products", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d: %s", w.Code, w.Body.String())
	}
}

func TestRBACMiddlewareRequiresRole(t *testing.T) {
	r := setupRBACTestRouter(t, "")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status want 401 got %d: %s", w.Code, w.Body.String())
	}
}
