package handler

import (
	"ClipHub/internal/dto"
	"ClipHub/internal/middleware"
	"ClipHub/internal/service"
	"ClipHub/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

type UserHandler interface {
	Register(c *gin.Context)
	Login(c *gin.Context)
	GetProfile(c *gin.Context)
	DeleteAccount(c *gin.Context)
}

type userHandler struct {
	AuthService service.AuthService
}

func NewUserHandler(authService service.AuthService) UserHandler {
	return &userHandler{AuthService: authService}
}

// 注册：1、解析请求体 2、service层注册并签发token 3、返回token和用户信息
func (h *userHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	// ShouldBindJSON同时做绑定和校验，缺required字段或邮箱格式不对都会报错
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Log.WithError(err).Warn("注册请求参数解析失败")
		sendErrorResponse(c, http.StatusBadRequest, "Please provide a username, a valid email and a password")
		return
	}

	logCtx := logger.Log.WithFields(map[string]interface{}{
		"username":   req.Username,
		"request_id": middleware.GetRequestID(c),
	})
	logCtx.Info("开始处理用户注册请求")

	user, token, err := h.AuthService.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		respondError(c, logCtx, err)
		return
	}

	logCtx.WithField("user_id", user.ID).Info("用户注册成功")
	c.JSON(http.StatusOK, dto.AuthResponse{Token: token, User: dto.ToUserInfo(user)})
}

// 登录：成功返回和注册一样的结构
func (h *userHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Log.WithError(err).Warn("登录请求参数解析失败")
		sendErrorResponse(c, http.StatusBadRequest, "Invalid credentials")
		return
	}

	logCtx := logger.Log.WithFields(map[string]interface{}{
		"email":      req.Email,
		"request_id": middleware.GetRequestID(c),
	})
	logCtx.Info("开始处理用户登录请求")

	user, token, err := h.AuthService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, logCtx, err)
		return
	}

	logCtx.WithField("user_id", user.ID).Info("用户登录成功")
	c.JSON(http.StatusOK, dto.AuthResponse{Token: token, User: dto.ToUserInfo(user)})
}

// 获取个人信息，用户ID来自认证中间件
func (h *userHandler) GetProfile(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	logCtx := logger.Log.WithField("user_id", userID)

	user, err := h.AuthService.Profile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, logCtx, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToProfileResponse(user))
}

// 注销账号，歌单和收藏一并删除
func (h *userHandler) DeleteAccount(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	logCtx := logger.Log.WithField("user_id", userID)
	logCtx.Info("开始处理注销账号请求")

	if err := h.AuthService.DeleteAccount(c.Request.Context(), userID); err != nil {
		respondError(c, logCtx, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Account deleted successfully"})
}
