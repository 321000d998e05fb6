package response

import (
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/microblog/pkg/errs"
	"github.com/d60-Lab/microblog/pkg/logger"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Success 写出 {"status":"success", ...fields}
func Success(c *gin.Context, fields gin.H) {
	body := gin.H{"status": StatusSuccess}
	for k, v := range fields {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}

// Fail 写出 {"status":"error","message":msg}
func Fail(c *gin.Context, code int, msg string) {
	c.AbortWithStatusJSON(code, gin.H{"status": StatusError, "message": msg})
}

func BadRequest(c *gin.Context, msg string) { Fail(c, http.StatusBadRequest, msg) }

func Unauthorized(c *gin.Context) { Fail(c, http.StatusUnauthorized, "authentication required") }

func NotFound(c *gin.Context, msg string) { Fail(c, http.StatusNotFound, msg) }

// Error 按错误类型映射状态码；内部错误只返回通用信息并上报 Sentry
func Error(c *gin.Context, err error) {
	if !errs.IsInternal(err) {
		Fail(c, errs.HTTPStatus(err), err.Error())
		return
	}
	InternalError(c, err)
}

func InternalError(c *gin.Context, err error) {
	logger.Error("internal error",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	if hub := sentry.CurrentHub(); hub.Client() != nil {
		hub.Clone().CaptureException(err)
	}
	Fail(c, http.StatusInternalServerError, "internal server error")
}
