package api

import (
	"Inkwell/internal/api/middleware"
	"Inkwell/internal/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

// RouterOptions 路由层需要的配置项
type RouterOptions struct {
	AllowedOrigins []string
}

func SetupRouter(group *HandlersGroup, opts RouterOptions) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.CORSMiddleware(opts.AllowedOrigins))
	logger.SetupGin(r)

	apiGroup := r.Group("/api")
	apiGroup.Use(middleware.AuditMiddleware())
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "pong"})
		})

		authGroup := apiGroup.Group("/auth")
		{
			authGroup.POST("/register", group.UserHandler.Register)
			authGroup.POST("/login", group.UserHandler.Login)
			authGroup.POST("/logout", group.UserHandler.Logout)
			authGroup.GET("/me", group.UserHandler.Me)
		}

		apiGroup.GET("/users/:username/posts", group.UserHandler.GetUserPosts)

		postGroup := apiGroup.Group("/posts")
		{
			authOptGroup := postGroup.Group("")
			authOptGroup.Use(middleware.AuthOptionalMiddleware())
			{
				authOptGroup.GET("", group.PostHandler.ListPosts)
				authOptGroup.GET("/:id", group.PostHandler.GetPost)
				authOptGroup.GET("/:id/comments", group.PostActionHandler.ListComments)
				authOptGroup.GET("/:id/likes", group.PostActionHandler.GetLikeStatus)
			}

			authGroup := postGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.POST("", group.PostHandler.CreatePost)
				authGroup.PUT("/:id", group.PostHandler.UpdatePost)
				authGroup.DELETE("/:id", group.PostHandler.DeletePost)
				authGroup.POST("/:id/comments", group.PostActionHandler.CreateComment)
				authGroup.POST("/:id/likes", group.PostActionHandler.ToggleLike)
			}
		}
	}

	// 其余路径均为前端页面
	r.NoRoute(group.PageHandler.RejectAPI, middleware.PageGateMiddleware(), group.PageHandler.Serve)

	return r
}
