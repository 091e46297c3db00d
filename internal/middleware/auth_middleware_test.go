package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/emre/akademix/internal/app/models"
	"github.com/emre/akademix/internal/pkg/auth"
)

func newTestRouter(t *testing.T, accessExp time.Duration) (*gin.Engine, *AuthMiddleware, *auth.JWTService) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:       "middleware-test-secret",
		AccessTokenExp:  accessExp,
		RefreshTokenExp: 24 * time.Hour,
	})
	return gin.New(), NewAuthMiddleware(jwtService), jwtService
}

func tokenFor(t *testing.T, jwtService *auth.JWTService, role models.Role) string {
	t.Helper()
	access, _, _, _, err := jwtService.GenerateTokenPair(&models.User{
		ID:       1,
		Username: "tester",
		Role:     role,
		IsActive: true,
	})
	if err != nil {
		t.Fatalf("generating token: %v", err)
	}
	return access
}

func TestJWTAuth(t *testing.T) {
	router, m, jwtService := newTestRouter(t, time.Hour)
	router.GET("/protected", m.JWTAuth(), func(c *gin.Context) {
		id, _ := GetUserID(c)
		c.JSON(http.StatusOK, gin.H{"userID": id, "username": GetUsername(c)})
	})

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{name: "valid token", authHeader: "Bearer " + tokenFor(t, jwtService, models.RoleAdmin), wantStatus: http.StatusOK},
		{name: "missing header", authHeader: "", wantStatus: http.StatusUnauthorized},
		{name: "garbage token", authHeader: "Bearer not-a-jwt", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestJWTAuthExpiredToken(t *testing.T) {
	router, m, jwtService := newTestRouter(t, -time.Minute)
	router.GET("/protected", m.JWTAuth(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, jwtService, models.RoleAdmin))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestRoleRequired(t *testing.T) {
	router, m, jwtService := newTestRouter(t, time.Hour)
	router.GET("/admin-only", m.JWTAuth(), m.RoleRequired(models.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	router.GET("/front-office", m.JWTAuth(), m.RoleRequired(models.RoleReceptionist, models.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	tests := []struct {
		name       string
		path       string
		role       models.Role
		wantStatus int
	}{
		{name: "admin on admin route", path: "/admin-only", role: models.RoleAdmin, wantStatus: http.StatusOK},
		{name: "receptionist on admin route", path: "/admin-only", role: models.RoleReceptionist, wantStatus: http.StatusForbidden},
		{name: "staff on admin route", path: "/admin-only", role: models.RoleStaff, wantStatus: http.StatusForbidden},
		{name: "receptionist on shared route", path: "/front-office", role: models.RoleReceptionist, wantStatus: http.StatusOK},
		{name: "admin on shared route", path: "/front-office", role: models.RoleAdmin, wantStatus: http.StatusOK},
		{name: "staff on shared route", path: "/front-office", role: models.RoleStaff, wantStatus: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			req.Header.Set("Authorization", "Bearer "+tokenFor(t, jwtService, tt.role))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestRoleRequiredWithoutAuth(t *testing.T) {
	router, m, _ := newTestRouter(t, time.Hour)
	// RoleRequired without JWTAuth in front has no role in context.
	router.GET("/orphan", m.RoleRequired(models.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/orphan", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}
