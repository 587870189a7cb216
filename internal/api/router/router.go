package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/burbuqebeqiraj/PlusAPI/config"
	"github.com/burbuqebeqiraj/PlusAPI/internal/api/handler"
	"github.com/burbuqebeqiraj/PlusAPI/internal/api/middleware"
	"github.com/burbuqebeqiraj/PlusAPI/internal/model"
	"github.com/burbuqebeqiraj/PlusAPI/pkg/jwt"
	"github.com/burbuqebeqiraj/PlusAPI/pkg/metrics"
	"github.com/burbuqebeqiraj/PlusAPI/pkg/redis"
)

// Pinger 健康检查依赖
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Deps 路由依赖，Redis / Metrics / DB 可为 nil
type Deps struct {
	Config  *config.Config
	Handler *handler.Handler
	JWT     *jwt.Manager
	Redis   *redis.Client
	Metrics *metrics.Metrics
	DB      Pinger
	Logger  *zap.Logger
}

// Setup 初始化并返回 Gin 路由引擎
func Setup(d Deps) *gin.Engine {
	cfg, h := d.Config, d.Handler

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	if cfg.Trace.Enabled {
		r.Use(otelgin.Middleware(cfg.Trace.ServiceName))
	}
	if d.Metrics != nil {
		r.Use(d.Metrics.Middleware())
	}
	r.Use(middleware.Logger(d.Logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))

	// Redis 未启用时传入 nil 接口，避免带类型的 nil
	var (
		checker middleware.TokenChecker
		limiter middleware.WindowLimiter
	)
	if d.Redis != nil {
		checker = d.Redis
		limiter = d.Redis
	}

	// ── 健康检查 / 指标 ──
	r.GET("/health", healthHandler(d.DB, d.Redis))
	if d.Metrics != nil {
		r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}

	adminOnly := middleware.RoleIDAuth(model.RoleIDSuperAdmin, model.RoleIDAdmin)
	loginLimit := middleware.RateLimit(limiter, cfg.RateLimit.LoginRequests, cfg.RateLimit.LoginWindow, d.Logger)

	api := r.Group("/api")

	// 用户与角色模块
	user := api.Group("/user")
	{
		// 登录（无需认证）
		user.GET("/getlogininfo/:email/:password", loginLimit, h.Auth.LoginFromPath)
		user.POST("/login", loginLimit, h.Auth.Login)

		authorized := user.Group("")
		authorized.Use(middleware.JWTAuth(d.JWT, checker))
		{
			authorized.POST("/logout", h.Auth.Logout)
			authorized.GET("/me", h.Auth.Me)
			authorized.GET("/loginhistory", h.Auth.History)

			authorized.POST("/createuserrole", adminOnly, h.UserRole.CreateRole)
			authorized.GET("/getallroles", h.UserRole.ListRoles)
			authorized.GET("/getrolebyid/:id", h.UserRole.GetRole)
			authorized.PUT("/updateuserrole/:id", adminOnly, h.UserRole.UpdateRole)
			authorized.DELETE("/deleterole/:id", adminOnly, h.UserRole.DeleteRole)

			authorized.POST("/createuser", adminOnly, h.User.CreateUser)
			authorized.GET("/getuserlist", h.User.ListUsers)
			authorized.GET("/getuserbyid/:id", h.User.GetUser)
			authorized.PUT("/updateuser/:id", adminOnly, h.User.UpdateUser)
			authorized.DELETE("/deleteuser/:id", adminOnly, h.User.DeleteUser)
			authorized.PUT("/changeuserpassword", h.User.ChangePassword) // 本人或管理员（Service 层鉴权）
		}
	}

	// 部门模块
	department := api.Group("/department")
	department.Use(middleware.JWTAuth(d.JWT, checker))
	{
		department.GET("/getdepartmentlist", h.Department.ListDepartments)
		department.GET("/getdepartmentbyid/:id", h.Department.GetDepartment)
		department.POST("/createdepartment", adminOnly, h.Department.CreateDepartment)
		department.PUT("/updatedepartment/:id", adminOnly, h.Department.UpdateDepartment)
		department.DELETE("/deletedepartment/:id", adminOnly, h.Department.DeleteDepartment)
	}

	return r
}

func healthHandler(db Pinger, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := gin.H{"status": "ok", "database": "ok"}
		code := http.StatusOK

		if db != nil {
			if err := db.PingContext(ctx); err != nil {
				status["status"] = "unavailable"
				status["database"] = "down"
				code = http.StatusServiceUnavailable
			}
		}
		if rdb != nil {
			if err := rdb.Ping(ctx); err != nil {
				status["redis"] = "down"
			} else {
				status["redis"] = "ok"
			}
		}

		c.JSON(code, status)
	}
}
