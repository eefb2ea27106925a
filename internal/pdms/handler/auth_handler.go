package handler

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ndganesh6973/pdms-mcc/internal/middleware"
	"github.com/ndganesh6973/pdms-mcc/internal/pdms/service"
)

// AuthHandler 注册登录与用户管理
type AuthHandler struct {
	svc *service.AuthService
}

func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Register POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request: "+err.Error())
		return
	}
	user, err := h.svc.Register(c.Request.Context(), req)
	if err != nil {
		RespondError(c, err)
		return
	}
	Created(c, user)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login POST /auth/login
// 支持 JSON {email,password} 与表单 username/password（username 填邮箱）
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if strings.HasPrefix(c.ContentType(), "application/x-www-form-urlencoded") ||
		strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		req.Email = c.PostForm("username")
		req.Password = c.PostForm("password")
	} else if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request: "+err.Error())
		return
	}
	if req.Email == "" || req.Password == "" {
		BadRequest(c, "email and password are required")
		return
	}

	result, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, result)
}

// Me GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.svc.Me(c.Request.Context(), GetUserID(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, user)
}

// ListUsers GET /auth/users
func (h *AuthHandler) ListUsers(c *gin.Context) {
	users, err := h.svc.ListUsers(c.Request.Context())
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, users)
}

// DeleteUser DELETE /auth/users/:id
func (h *AuthHandler) DeleteUser(c *gin.Context) {
	if err := h.svc.DeleteUser(c.Request.Context(), c.Param("id"), GetUserName(c)); err != nil {
		RespondError(c, err)
		return
	}
	Success(c, gin.H{"message": "User deleted"})
}

// UserLookup 供 JWTAuth 回查当前用户
func UserLookup(svc *service.AuthService) middleware.UserLookup {
	return func(ctx context.Context, email string) (*middleware.Identity, error) {
		user, err := svc.Lookup(ctx, email)
		if err != nil {
			return nil, err
		}
		return &middleware.Identity{UserID: user.ID, Name: user.Username, Email: user.Email, Role: user.Role}, nil
	}
}
