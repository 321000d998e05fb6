package api

import (
	"strings"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	_ "github.com/d60-Lab/microblog/docs"
	"github.com/d60-Lab/microblog/internal/api/handler"
	"github.com/d60-Lab/microblog/internal/api/middleware"
	"github.com/d60-Lab/microblog/internal/model"
	"github.com/d60-Lab/microblog/pkg/metrics"
)

// Options 路由可选项
type Options struct {
	Mode        string
	Tracing     bool
	ServiceName string
}

// NewRouter 注册全部路由与中间件
func NewRouter(h *handler.Handler, opts Options) *gin.Engine {
	if opts.Mode != "" {
		gin.SetMode(opts.Mode)
	}
	registerValidations()

	r := gin.New()
	r.Use(middleware.Recovery())
	if opts.Tracing {
		r.Use(otelgin.Middleware(opts.ServiceName))
	}
	r.Use(metrics.Middleware())
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	r.GET("/healthz", h.Health)
	r.GET("/metrics", metrics.Handler())
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	authed := middleware.OptionalAuth(h.Sessions(), h.Identity(), h.CookieName())

	authGroup := r.Group("/auth", middleware.Logger())
	{
		authGroup.GET("/google", h.Login)
		authGroup.GET("/google/callback", h.Callback)
		authGroup.POST("/register", h.Register)
		authGroup.POST("/logout", h.Logout)
	}

	v1 := r.Group("/api/v1", authed, middleware.Logger())
	{
		v1.GET("/feed", h.ListFeed)
		v1.GET("/posts/:id/reactions", h.ListReactions)

		private := v1.Group("", middleware.RequireAuth())
		private.POST("/posts", h.CreatePost)
		private.DELETE("/posts/:id", h.DeletePost)
		private.POST("/posts/:id/like", h.ToggleLike)
		private.POST("/posts/:id/react", h.ToggleReaction)
		private.GET("/profile", h.Profile)
		private.PUT("/profile/username", h.Rename)
		private.DELETE("/account", h.DeleteAccount)
	}
	return r
}

func registerValidations() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return model.ValidateUsername(strings.TrimSpace(fl.Field().String())) == nil
	})
}
