package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/casetrail/casetrail/internal/middleware"
)

type RouterDeps struct {
	Auth          *AuthHandler
	Documents     *DocumentHandler
	Chat          *ChatHandler
	JWTSecret     []byte
	ChatRateLimit time.Duration
}

func RegisterRoutes(api *gin.RouterGroup, deps RouterDeps) {
	api.POST("/auth/register", deps.Auth.Register)
	api.POST("/auth/login", deps.Auth.Login)

	authGroup := api.Group("")
	authGroup.Use(middleware.JWTAuth(deps.JWTSecret))
	authGroup.POST("/documents", deps.Documents.Upload)
	authGroup.GET("/documents", deps.Documents.List)
	authGroup.GET("/documents/:id", deps.Documents.Get)
	authGroup.GET("/documents/:id/content", deps.Documents.Download)
	authGroup.GET("/receipts/:receipt", deps.Documents.GetByReceipt)

	authGroup.POST("/chunks/search", deps.Chat.Search)

	chatGroup := authGroup.Group("")
	chatGroup.Use(middleware.RateLimit(deps.ChatRateLimit))
	chatGroup.POST("/chat", deps.Chat.Chat)
}
