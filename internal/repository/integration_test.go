//go:build integration

package repository_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/burbuqebeqiraj/PlusAPI/internal/model"
	"github.com/burbuqebeqiraj/PlusAPI/internal/repository"
	"github.com/burbuqebeqiraj/PlusAPI/pkg/database"
	pkgerrors "github.com/burbuqebeqiraj/PlusAPI/pkg/errors"
)

// ═══════════════════════════════════════════════════════════
// Test Setup
// ═══════════════════════════════════════════════════════════

var pgDB *gorm.DB

// TestMain 优先使用 TEST_DATABASE_DSN，否则启动临时 PostgreSQL 容器
func TestMain(m *testing.M) {
	ctx := context.Background()

	dsn := os.Getenv("TEST_DATABASE_DSN")
	var container testcontainers.Container
	if dsn == "" {
		var err error
		container, dsn, err = startPostgres(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "启动 PostgreSQL 容器失败: %v\n", err)
			os.Exit(1)
		}
	}

	var err error
	pgDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "无法连接测试数据库: %v\n", err)
		os.Exit(1)
	}

	if err := database.Migrate(pgDB, "postgres", zap.NewNop()); err != nil {
		fmt.Fprintf(os.Stderr, "迁移失败: %v\n", err)
		os.Exit(1)
	}
	if err := database.Seed(ctx, pgDB, "super@admin@2025", zap.NewNop()); err != nil {
		fmt.Fprintf(os.Stderr, "写入初始数据失败: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()

	if container != nil {
		_ = container.Terminate(ctx)
	}
	os.Exit(code)
}

func startPostgres(ctx context.Context) (testcontainers.Container, string, error) {
	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "plus",
			"POSTGRES_PASSWORD": "plus",
			"POSTGRES_DB":       "plus_test",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, "", err
	}

	host, err := c.Host(ctx)
	if err != nil {
		return c, "", err
	}
	port, err := c.MappedPort(ctx, "5432")
	if err != nil {
		return c, "", err
	}

	dsn := fmt.Sprintf("host=%s port=%s user=plus password=plus dbname=plus_test sslmode=disable TimeZone=UTC",
		host, port.Port())
	return c, dsn, nil
}

// ═══════════════════════════════════════════════════════════
// Tests
// ═══════════════════════════════════════════════════════════

func TestPostgres_IdentityStartsAfterSeed(t *testing.T) {
	repo := repository.NewRepository(pgDB)
	ctx := context.Background()

	role, err := repo.UserRole.Insert(ctx, newRole(fmt.Sprintf("Identity-%d", time.Now().UnixNano())))
	if err != nil {
		t.Fatalf("插入角色失败: %v", err)
	}
	defer repo.UserRole.Delete(ctx, role.UserRoleID)

	if role.UserRoleID < 3 {
		t.Errorf("期望自增主键从 3 开始，实际=%d", role.UserRoleID)
	}
}

func TestPostgres_CaseInsensitiveUniqueIndex(t *testing.T) {
	repo := repository.NewRepository(pgDB)
	ctx := context.Background()

	name := fmt.Sprintf("Reviewer%d", time.Now().UnixNano())
	role, err := repo.UserRole.Insert(ctx, newRole(name))
	if err != nil {
		t.Fatalf("插入角色失败: %v", err)
	}
	defer repo.UserRole.Delete(ctx, role.UserRoleID)

	// 只差大小写，唯一索引应拒绝
	_, err = repo.UserRole.Insert(ctx, newRole(strings.ToLower(name)))
	if !errors.Is(err, pkgerrors.ErrDuplicateKey) {
		t.Fatalf("期望 ErrDuplicateKey，实际: %v", err)
	}
}

func TestPostgres_TransactionRollback(t *testing.T) {
	repo := repository.NewRepository(pgDB)
	ctx := context.Background()
	name := fmt.Sprintf("Rollback%d", time.Now().UnixNano())

	err := repo.Transaction(ctx, func(tx *repository.Repository) error {
		if _, err := tx.UserRole.Insert(ctx, newRole(name)); err != nil {
			return err
		}
		return errors.New("abort")
	})
	if err == nil {
		t.Fatal("期望返回错误")
	}

	found, err := repo.UserRole.SelectSingle(ctx, repository.Where("role_name = ?", name))
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if found != nil {
		t.Fatal("期望回滚后查不到角色，但实际查到了")
	}
}

func TestPostgres_RoleInUseRestrict(t *testing.T) {
	repo := repository.NewRepository(pgDB)
	ctx := context.Background()

	// 内置超级管理员引用角色 1，外键 RESTRICT 应拒绝删除
	_, err := repo.UserRole.Delete(ctx, model.RoleIDSuperAdmin)
	if err == nil {
		t.Fatal("期望外键约束阻止删除")
	}
}
