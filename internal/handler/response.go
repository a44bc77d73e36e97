package handler

import (
	"ClipHub/internal/apperr"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ErrorResponse 所有错误响应的统一结构
type ErrorResponse struct {
	Message string `json:"message"`
}

// MessageResponse 没有资源可返回的成功响应
type MessageResponse struct {
	Message string `json:"message"`
}

// statusByKind 业务错误分类到HTTP状态码的唯一映射表
// Forbidden沿用旧客户端依赖的401
var statusByKind = map[apperr.Kind]int{
	apperr.KindBadRequest:         http.StatusBadRequest,
	apperr.KindUnauthorized:       http.StatusUnauthorized,
	apperr.KindForbidden:          http.StatusUnauthorized,
	apperr.KindNotFound:           http.StatusNotFound,
	apperr.KindConflict:           http.StatusBadRequest,
	apperr.KindInvalidCredentials: http.StatusBadRequest,
	apperr.KindUpstream:           http.StatusInternalServerError,
	apperr.KindInternal:           http.StatusInternalServerError,
}

// StatusFor 未知的分类按500处理
func StatusFor(kind apperr.Kind) int {
	if status, ok := statusByKind[kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// sendErrorResponse 发送标准格式的错误响应并中断后续处理
func sendErrorResponse(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, ErrorResponse{Message: message})
}

// respondError 把service返回的错误翻译成响应；服务端错误记Error，客户端错误记Warn
func respondError(c *gin.Context, logCtx *logrus.Entry, err error) {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		appErr = apperr.Internal("Server error", err)
	}
	status := StatusFor(appErr.Kind)
	if status >= http.StatusInternalServerError {
		logCtx.WithError(err).Error("请求处理失败")
	} else {
		logCtx.WithError(err).Warn("请求被拒绝")
	}
	sendErrorResponse(c, status, appErr.Message)
}
