package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/burbuqebeqiraj/PlusAPI/pkg/response"
)

// WindowLimiter 分布式滑动窗口限流，由 Redis 客户端实现
type WindowLimiter interface {
	CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// RateLimit 速率限制中间件
// 优先使用 Redis 滑动窗口；remote 为 nil 或 Redis 出错时使用进程内令牌桶
func RateLimit(remote WindowLimiter, limit int, window time.Duration, logger *zap.Logger) gin.HandlerFunc {
	local := newLocalLimiter(limit, window)

	return func(c *gin.Context) {
		if limit <= 0 {
			c.Next()
			return
		}

		key := fmt.Sprintf("rate_limit:%s:%s", c.ClientIP(), c.FullPath())

		allowed := true
		var err error
		if remote != nil {
			allowed, err = remote.CheckRateLimit(c.Request.Context(), key, limit, window)
			if err != nil {
				logger.Warn("Redis 限流失败，降级为进程内限流", zap.Error(err))
			}
		}
		if remote == nil || err != nil {
			allowed = local.get(key).Allow()
		}

		if !allowed {
			c.Header("Retry-After", strconv.Itoa(max(int(window.Seconds()), 1)))
			response.Error(c, http.StatusTooManyRequests, response.CodeTooManyReq, "请求过于频繁，请稍后再试")
			c.Abort()
			return
		}

		c.Next()
	}
}

// localLimiter 按 key 维护令牌桶
type localLimiter struct {
	limiters    sync.Map // map[string]*rate.Limiter
	rate        rate.Limit
	burst       int
	mu          sync.Mutex
	lastCleanup time.Time
}

func newLocalLimiter(limit int, window time.Duration) *localLimiter {
	l := &localLimiter{burst: limit, lastCleanup: time.Now()}
	if limit > 0 && window > 0 {
		l.rate = rate.Limit(float64(limit) / window.Seconds())
	}
	return l
}

func (l *localLimiter) get(key string) *rate.Limiter {
	if v, ok := l.limiters.Load(key); ok {
		return v.(*rate.Limiter)
	}

	actual, _ := l.limiters.LoadOrStore(key, rate.NewLimiter(l.rate, l.burst))
	l.maybeCleanup()
	return actual.(*rate.Limiter)
}

// maybeCleanup 每 5 分钟清理令牌已满（长时间未使用）的限流器
func (l *localLimiter) maybeCleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if time.Since(l.lastCleanup) < 5*time.Minute {
		return
	}
	l.lastCleanup = time.Now()

	l.limiters.Range(func(key, value any) bool {
		if value.(*rate.Limiter).Tokens() >= float64(l.burst) {
			l.limiters.Delete(key)
		}
		return true
	})
}
