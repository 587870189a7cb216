package service

import (
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/burbuqebeqiraj/PlusAPI/config"
	"github.com/burbuqebeqiraj/PlusAPI/internal/repository"
	"github.com/burbuqebeqiraj/PlusAPI/internal/testutil"
	"github.com/burbuqebeqiraj/PlusAPI/pkg/jwt"
)

const testSecret = "test-secret-at-least-16-chars"

func testAuthConfig() *config.AuthConfig {
	return &config.AuthConfig{
		JWTSecret: testSecret,
		Issuer:    "plus-api-test",
		TokenTTL:  time.Hour,
		Lockout: config.LockoutConfig{
			MaxFailedAttempts: 3,
			Duration:          15 * time.Minute,
		},
	}
}

// newTestRepo 返回已建表并写入超级管理员的 sqlite 仓储
func newTestRepo(t *testing.T) *repository.Repository {
	t.Helper()
	return repository.NewRepository(testutil.NewSQLiteDB(t))
}

func newTestService(t *testing.T) (*Service, *repository.Repository) {
	t.Helper()
	repo := newTestRepo(t)
	cfg := &config.Config{Auth: *testAuthConfig()}
	svc := NewService(cfg, repo, jwt.NewManager(&cfg.Auth), nil, zap.NewNop())
	return svc, repo
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func intPtr(i int) *int { return &i }
