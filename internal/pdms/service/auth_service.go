package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/ndganesh6973/pdms-mcc/internal/config"
	"github.com/ndganesh6973/pdms-mcc/internal/pdms/entity"
	"github.com/ndganesh6973/pdms-mcc/internal/pdms/repository"
	"github.com/ndganesh6973/pdms-mcc/internal/shared/apperr"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService 注册、登录与用户管理
type AuthService struct {
	db       *gorm.DB
	repos    *repository.Repositories
	activity *ActivityService
	jwt      config.JWTConfig
}

func NewAuthService(db *gorm.DB, repos *repository.Repositories, activity *ActivityService, jwtCfg config.JWTConfig) *AuthService {
	return &AuthService{db: db, repos: repos, activity: activity, jwt: jwtCfg}
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"`
	Shift    string `json:"shift"`
}

// LoginResult 登录结果
type LoginResult struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Role        string `json:"role"`
	Username    string `json:"username"`
}

func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*entity.User, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if !strings.Contains(req.Email, "@") {
		return nil, apperr.Validation("invalid email")
	}
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		return nil, apperr.Validation("username and password are required")
	}
	if req.Role == "" {
		req.Role = entity.RoleOperator
	}
	if !entity.IsValidRole(req.Role) {
		return nil, apperr.Validation(fmt.Sprintf("invalid role %q", req.Role))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Internal(err, "hash password")
	}

	user := &entity.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         req.Role,
		Shift:        req.Shift,
		IsActive:     true,
	}
	var log *entity.ActivityLog
	err = inTx(ctx, s.db, func(repos *repository.Repositories) error {
		exists, err := repos.User.ExistsByEmail(ctx, req.Email)
		if err != nil {
			return err
		}
		if exists {
			return apperr.Conflict("Email already registered")
		}
		// 并发注册由唯一索引兜底
		if err := repos.User.Create(ctx, user); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return apperr.Conflict("Email already registered")
			}
			return err
		}
		log, err = s.activity.Record(ctx, repos,
			fmt.Sprintf("New User Registered: %s", user.Username),
			"Admin", entity.LogTypeInfo,
			map[string]interface{}{"user_id": user.ID, "role": user.Role})
		return err
	})
	if err != nil {
		return nil, classify(err, "register user")
	}
	s.activity.Publish(ctx, log)
	return user, nil
}

// Login 校验密码并签发 access token
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.repos.User.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.Forbidden("Invalid Credentials")
		}
		return nil, apperr.Internal(err, "find user")
	}
	if !user.IsActive {
		return nil, apperr.Forbidden("Invalid Credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperr.Forbidden("Invalid Credentials")
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return nil, apperr.Internal(err, "issue token")
	}
	s.activity.Log(ctx, "User Session Started (Login)", user.Username, entity.LogTypeSuccess,
		map[string]interface{}{"user_id": user.ID})

	return &LoginResult{
		AccessToken: token,
		TokenType:   "bearer",
		Role:        user.Role,
		Username:    user.Username,
	}, nil
}

// IssueToken 签发 HS256 access token，sub 为邮箱
func (s *AuthService) IssueToken(user *entity.User) (string, error) {
	now := nowFunc()
	claims := jwt.MapClaims{
		"sub":   user.Email,
		"uid":   user.ID,
		"name":  user.Username,
		"email": user.Email,
		"role":  user.Role,
		"iss":   s.jwt.Issuer,
		"iat":   now.Unix(),
		"exp":   now.Add(s.jwt.AccessTokenExpire).Unix(),
		"jti":   uuid.New().String(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwt.Secret))
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return signed, nil
}

// Lookup 鉴权中间件按 token subject 回查用户，已删除或停用返回 Unauthorized
func (s *AuthService) Lookup(ctx context.Context, email string) (*entity.User, error) {
	user, err := s.repos.User.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.Unauthorized("user no longer exists")
		}
		return nil, apperr.Internal(err, "find user")
	}
	if !user.IsActive {
		return nil, apperr.Unauthorized("user is inactive")
	}
	return user, nil
}

func (s *AuthService) Me(ctx context.Context, userID string) (*entity.User, error) {
	user, err := s.repos.User.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, apperr.Internal(err, "find user")
	}
	return user, nil
}

func (s *AuthService) ListUsers(ctx context.Context) ([]entity.User, error) {
	users, err := s.repos.User.List(ctx)
	if err != nil {
		return nil, apperr.Internal(err, "list users")
	}
	return users, nil
}

func (s *AuthService) DeleteUser(ctx context.Context, userID, operator string) error {
	var log *entity.ActivityLog
	err := inTx(ctx, s.db, func(repos *repository.Repositories) error {
		user, err := repos.User.FindByID(ctx, userID)
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("User not found")
		}
		if err != nil {
			return err
		}
		if err := repos.User.Delete(ctx, user.ID); err != nil {
			return err
		}
		log, err = s.activity.Record(ctx, repos,
			fmt.Sprintf("User Deleted: %s", user.Username),
			actorOr(operator, "Admin"), entity.LogTypeDanger,
			map[string]interface{}{"user_id": user.ID, "email": user.Email})
		return err
	})
	if err != nil {
		return classify(err, "delete user")
	}
	s.activity.Publish(ctx, log)
	return nil
}
