package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/burbuqebeqiraj/PlusAPI/config"
	"github.com/burbuqebeqiraj/PlusAPI/internal/api/handler"
	"github.com/burbuqebeqiraj/PlusAPI/internal/repository"
	"github.com/burbuqebeqiraj/PlusAPI/internal/service"
	"github.com/burbuqebeqiraj/PlusAPI/internal/testutil"
	"github.com/burbuqebeqiraj/PlusAPI/pkg/database"
	"github.com/burbuqebeqiraj/PlusAPI/pkg/jwt"
	"github.com/burbuqebeqiraj/PlusAPI/pkg/metrics"
	"github.com/burbuqebeqiraj/PlusAPI/pkg/redis"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Status  string          `json:"status"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	engine *gin.Engine
	mr     *miniredis.Miniredis
}

func testConfig(loginRequests int) *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:         8080,
			MaxBodyBytes: 1 << 20,
			CORS:         config.CORSConfig{AllowOrigins: []string{"*"}},
		},
		Auth: config.AuthConfig{
			JWTSecret: "router-test-secret-0123456789",
			Issuer:    "plus-api-test",
			TokenTTL:  time.Hour,
			Lockout:   config.LockoutConfig{MaxFailedAttempts: 5, Duration: 15 * time.Minute},
		},
		Metrics:   config.MetricsConfig{Enabled: true, Namespace: "plus_api"},
		RateLimit: config.RateLimitConfig{LoginRequests: loginRequests, LoginWindow: time.Minute},
	}
}

// newTestServer 组装 sqlite + miniredis 的完整服务
func newTestServer(t *testing.T, loginRequests int) *testServer {
	t.Helper()

	cfg := testConfig(loginRequests)
	logger := zap.NewNop()

	mr := miniredis.RunT(t)
	rdb, err := redis.NewClient(&config.RedisConfig{Addr: mr.Addr()}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })

	db := testutil.NewSQLiteDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)

	jwtMgr := jwt.NewManager(&cfg.Auth)
	svc := service.NewService(cfg, repository.NewRepository(db), jwtMgr, rdb, logger)
	m := metrics.New(cfg.Metrics)

	engine := Setup(Deps{
		Config:  cfg,
		Handler: handler.NewHandler(svc, m, logger),
		JWT:     jwtMgr,
		Redis:   rdb,
		Metrics: m,
		DB:      sqlDB,
		Logger:  logger,
	})
	return &testServer{engine: engine, mr: mr}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		_ = json.Unmarshal(w.Body.Bytes(), &env)
	}
	return w, env
}

func (s *testServer) login(t *testing.T, email, password string) string {
	t.Helper()

	w, env := s.do(t, http.MethodPost, "/api/user/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.Token)
	return data.Token
}

func createdID(t *testing.T, env envelope) int {
	t.Helper()
	var data struct {
		ID int `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Positive(t, data.ID)
	return data.ID
}

// ═══════════════════════════════════════════════════════════
// 健康检查 / 指标
// ═══════════════════════════════════════════════════════════

func TestHealth(t *testing.T) {
	s := newTestServer(t, 10)

	w, _ := s.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"database":"ok"`)
	assert.Contains(t, w.Body.String(), `"redis":"ok"`)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, 10)
	s.login(t, database.SuperAdminEmail, testutil.SeedPassword)

	w, _ := s.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `plus_api_login_attempts_total{result="success"} 1`)
	assert.Contains(t, w.Body.String(), `route="/api/user/login"`)
}

// ═══════════════════════════════════════════════════════════
// 认证
// ═══════════════════════════════════════════════════════════

func TestLoginViaPath(t *testing.T) {
	s := newTestServer(t, 10)

	path := fmt.Sprintf("/api/user/getlogininfo/%s/%s", database.SuperAdminEmail, testutil.SeedPassword)
	w, env := s.do(t, http.MethodGet, path, "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "success", env.Status)

	w, env = s.do(t, http.MethodGet, "/api/user/getlogininfo/superadmin@gmail.com/wrong-pass1!", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, 11001, env.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := newTestServer(t, 10)

	for _, path := range []string{
		"/api/user/me",
		"/api/user/getallroles",
		"/api/user/getuserlist",
		"/api/department/getdepartmentlist",
	} {
		w, env := s.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
		assert.Equal(t, 10002, env.Code, path)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	s := newTestServer(t, 10)
	token := s.login(t, database.SuperAdminEmail, testutil.SeedPassword)

	w, env := s.do(t, http.MethodGet, "/api/user/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var me struct {
		Email    string `json:"email"`
		RoleName string `json:"roleName"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &me))
	assert.Equal(t, database.SuperAdminEmail, me.Email)
	assert.Equal(t, "SuperAdmin", me.RoleName)

	w, _ = s.do(t, http.MethodPost, "/api/user/logout", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = s.do(t, http.MethodGet, "/api/user/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// 新 Token 的登录历史中包含上一次的登出时间
	token = s.login(t, database.SuperAdminEmail, testutil.SeedPassword)
	w, env = s.do(t, http.MethodGet, "/api/user/loginhistory", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var history []struct {
		LogOutTime *string `json:"logOutTime"`
		Browser    string  `json:"browser"`
		Platform   string  `json:"platform"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &history))
	require.Len(t, history, 2)
	assert.Nil(t, history[0].LogOutTime)
	assert.NotNil(t, history[1].LogOutTime)
	assert.Equal(t, "Chrome", history[1].Browser)
	assert.Equal(t, "Linux x86_64", history[1].Platform)
}

func TestLoginRateLimited(t *testing.T) {
	s := newTestServer(t, 2)

	body := map[string]string{"email": "nobody@example.com", "password": "whatever1!"}
	for i := 0; i < 2; i++ {
		w, _ := s.do(t, http.MethodPost, "/api/user/login", "", body)
		assert.Equal(t, http.StatusNotFound, w.Code)
	}

	w, env := s.do(t, http.MethodPost, "/api/user/login", "", body)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, 10004, env.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

// ═══════════════════════════════════════════════════════════
// 业务流程
// ═══════════════════════════════════════════════════════════

func TestAdminFlow(t *testing.T) {
	s := newTestServer(t, 100)
	admin := s.login(t, database.SuperAdminEmail, testutil.SeedPassword)

	// 角色
	w, env := s.do(t, http.MethodPost, "/api/user/createuserrole", admin, map[string]string{
		"roleName":    "Viewer",
		"displayName": "Viewer",
		"roleDesc":    "Read only",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	roleID := createdID(t, env)

	w, env = s.do(t, http.MethodPost, "/api/user/createuserrole", admin, map[string]string{
		"roleName":    "viewer",
		"displayName": "Viewer 2",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "duplicate", env.Status)

	// 部门
	w, env = s.do(t, http.MethodPost, "/api/department/createdepartment", admin, map[string]string{
		"name": "Finance",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	deptID := createdID(t, env)

	// 用户
	w, env = s.do(t, http.MethodPost, "/api/user/createuser", admin, map[string]any{
		"userRoleId":   roleID,
		"departmentId": deptID,
		"fullName":     "Jane Viewer",
		"email":        "jane@example.com",
		"password":     "viewer#2025",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	userID := createdID(t, env)

	w, env = s.do(t, http.MethodGet, fmt.Sprintf("/api/user/getuserbyid/%d", userID), admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, string(env.Data), "password")
	assert.Contains(t, string(env.Data), `"departmentName":"Finance"`)

	// 部门有成员时不可删除
	w, env = s.do(t, http.MethodDelete, fmt.Sprintf("/api/department/deletedepartment/%d", deptID), admin, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, 13003, env.Code)

	// 普通角色只读
	viewer := s.login(t, "JANE@example.com", "viewer#2025")

	w, _ = s.do(t, http.MethodGet, "/api/department/getdepartmentlist", viewer, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, env = s.do(t, http.MethodPost, "/api/department/createdepartment", viewer, map[string]string{"name": "Ops"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, 10003, env.Code)

	w, _ = s.do(t, http.MethodDelete, fmt.Sprintf("/api/user/deleteuser/%d", userID), viewer, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// 修改本人密码允许，修改他人密码拒绝
	w, _ = s.do(t, http.MethodPut, "/api/user/changeuserpassword", viewer, map[string]any{
		"userId":      userID,
		"newPassword": "viewer#2026",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	w, env = s.do(t, http.MethodPut, "/api/user/changeuserpassword", viewer, map[string]any{
		"userId":      1,
		"newPassword": "hijack#2026",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, 14008, env.Code)

	// 角色被使用时不可删除
	w, env = s.do(t, http.MethodDelete, fmt.Sprintf("/api/user/deleterole/%d", roleID), admin, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, 12004, env.Code)

	// 内置用户不可删除
	w, env = s.do(t, http.MethodDelete, "/api/user/deleteuser/1", admin, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "restricted", env.Status)

	// 删除用户后部门与角色均可删除
	w, _ = s.do(t, http.MethodDelete, fmt.Sprintf("/api/user/deleteuser/%d", userID), admin, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = s.do(t, http.MethodDelete, fmt.Sprintf("/api/department/deletedepartment/%d", deptID), admin, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = s.do(t, http.MethodDelete, fmt.Sprintf("/api/user/deleterole/%d", roleID), admin, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestBodyTooLarge(t *testing.T) {
	s := newTestServer(t, 10)
	admin := s.login(t, database.SuperAdminEmail, testutil.SeedPassword)

	big := map[string]string{"name": strings.Repeat("x", 2<<20)}
	w, env := s.do(t, http.MethodPost, "/api/department/createdepartment", admin, big)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, 10005, env.Code)
}
