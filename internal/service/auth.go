package service

import (
	"ClipHub/internal/apperr"
	"ClipHub/internal/model"
	"ClipHub/internal/repository"
	"ClipHub/pkg/logger"
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// 认证服务：1、注册 2、登录 3、解析会话 4、个人信息 5、注销账号
type AuthService interface {
	Register(ctx context.Context, username, email, password string) (*model.User, string, error)
	Login(ctx context.Context, email, password string) (*model.User, string, error)
	ResolveSession(ctx context.Context, token string) (string, error)
	Profile(ctx context.Context, userID string) (*model.User, error)
	DeleteAccount(ctx context.Context, userID string) error
}

type authService struct {
	store  repository.Store
	tokens *TokenManager
}

func NewAuthService(store repository.Store, tokens *TokenManager) AuthService {
	return &authService{store: store, tokens: tokens}
}

// 注册逻辑：1、校验字段 2、检查邮箱和用户名是否占用 3、密码加密存储 4、签发token
func (s *authService) Register(ctx context.Context, username, email, password string) (*model.User, string, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" || password == "" {
		return nil, "", apperr.BadRequest("Username, email and password are required")
	}
	if err := validate.Var(email, "email"); err != nil {
		return nil, "", apperr.BadRequest("Please provide a valid email")
	}

	users := s.store.Users()
	if _, err := users.FindByEmail(ctx, email); err == nil {
		return nil, "", apperr.Conflict("User already exists")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, "", apperr.Internal("Server error", err)
	}
	if _, err := users.FindByUsername(ctx, username); err == nil {
		return nil, "", apperr.Conflict("Username already taken")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, "", apperr.Internal("Server error", err)
	}

	hashed, err := HashPassword(password)
	if err != nil {
		return nil, "", apperr.Internal("Server error", err)
	}
	user := &model.User{Username: username, Email: email, PasswordHash: hashed}
	if err := users.Create(ctx, user); err != nil {
		// 并发注册时预检查可能漏掉，最终以唯一索引为准
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, "", apperr.Conflict("User already exists")
		}
		return nil, "", apperr.Internal("Server error", err)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", apperr.Internal("Server error", err)
	}
	return user, token, nil
}

// 登录逻辑：邮箱不存在和密码错误返回同一个错误，不泄露账号是否存在
func (s *authService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	user, err := s.store.Users().FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", apperr.InvalidCredentials()
		}
		return nil, "", apperr.Internal("Server error", err)
	}
	if !CheckPassword(user.PasswordHash, password) {
		return nil, "", apperr.InvalidCredentials()
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", apperr.Internal("Server error", err)
	}
	return user, token, nil
}

// ResolveSession token合法且用户仍然存在才算登录
func (s *authService) ResolveSession(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", apperr.Unauthorized("No token, authorization denied")
	}
	userID, err := s.tokens.Parse(token)
	if err != nil {
		return "", apperr.Wrap(apperr.KindUnauthorized, "Token is not valid", err)
	}
	if _, err := s.store.Users().FindByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", apperr.Unauthorized("Token is not valid")
		}
		return "", apperr.Internal("Server error", err)
	}
	return userID, nil
}

func (s *authService) Profile(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.store.Users().FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, apperr.Internal("Server error", err)
	}
	return user, nil
}

// DeleteAccount 连同歌单和收藏视频一起删除
func (s *authService) DeleteAccount(ctx context.Context, userID string) error {
	if err := s.store.DeleteUserCascade(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("User not found")
		}
		return apperr.Internal("Server error", err)
	}
	logger.Log.WithField("user_id", userID).Info("用户已注销")
	return nil
}
