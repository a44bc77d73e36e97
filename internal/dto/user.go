package dto

import (
	"ClipHub/internal/model"
	"time"
)

// UserInfo 对外暴露的用户信息，不含密码哈希
type UserInfo struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// ProfileResponse GET /api/auth/user 的响应，比UserInfo多一个注册时间
type ProfileResponse struct {
	UserInfo
	CreatedAt time.Time `json:"createdAt"`
}

// AuthResponse 注册和登录成功后返回同样的结构
type AuthResponse struct {
	Token string   `json:"token"`
	User  UserInfo `json:"user"`
}

func ToUserInfo(user *model.User) UserInfo {
	return UserInfo{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	}
}

func ToProfileResponse(user *model.User) ProfileResponse {
	return ProfileResponse{UserInfo: ToUserInfo(user), CreatedAt: user.CreatedAt}
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}
