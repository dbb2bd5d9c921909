package router

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shared-tw/backend/internal/config"
	"github.com/shared-tw/backend/internal/handler"
	"github.com/shared-tw/backend/internal/logger"
	"github.com/shared-tw/backend/internal/logic"
)

const requestIdHeader = "X-Request-ID"

// CORS中间件
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// requestIdMiddleware 为每个请求分配 id，客户端传入时沿用
func requestIdMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIdHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(requestIdHeader, id)
		c.Next()
	}
}

// accessLogMiddleware 访问日志
func accessLogMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("[%s] %s %s %d %s",
			c.GetString("request_id"), c.Request.Method, c.Request.URL.Path,
			c.Writer.Status(), time.Since(start))
	}
}

// authMiddleware 校验 HS256 Bearer 令牌，sub 为用户 id
func authMiddleware(cfg config.AuthConfig, accounts *logic.AccountLogic) gin.HandlerFunc {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	parser := jwt.NewParser(opts...)

	return func(c *gin.Context) {
		raw, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || raw == "" {
			abortUnauthorized(c, "missing bearer token")
			return
		}

		var claims jwt.RegisteredClaims
		_, err := parser.ParseWithClaims(raw, &claims, func(*jwt.Token) (interface{}, error) {
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil {
			abortUnauthorized(c, "invalid token")
			return
		}
		userId, err := strconv.ParseInt(claims.Subject, 10, 64)
		if err != nil {
			abortUnauthorized(c, "invalid token subject")
			return
		}

		user, err := accounts.ResolveUser(c.Request.Context(), userId)
		if err != nil {
			if errors.Is(err, logic.ErrNotFound) {
				abortUnauthorized(c, "unknown user")
				return
			}
			logger.Error("Failed to resolve user %d: %v", userId, err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, handler.Response{Message: "internal server error"})
			return
		}

		c.Set(handler.ContextUserKey, user)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, handler.Response{Message: message})
}
