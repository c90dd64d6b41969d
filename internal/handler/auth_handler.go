package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"aadhaarqms/internal/auth"
	"aadhaarqms/internal/model"
	"aadhaarqms/internal/store"
)

type registerInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type loginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a citizen account and returns a signed token.
func (h *Handler) Register(c *gin.Context) {
	var in registerInput
	if err := c.ShouldBindJSON(&in); err != nil {
		failMsg(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if in.Name == "" || in.Email == "" || in.Phone == "" || in.Password == "" {
		failMsg(c, http.StatusBadRequest, "all fields are required")
		return
	}
	if !model.ValidEmail(in.Email) {
		failMsg(c, http.StatusBadRequest, "invalid email format")
		return
	}
	if !model.ValidPhone(in.Phone) {
		failMsg(c, http.StatusBadRequest, "invalid phone number, must be 10 digits starting with 6-9")
		return
	}
	if !model.ValidPassword(in.Password) {
		failMsg(c, http.StatusBadRequest, "password must be at least 8 characters with uppercase, lowercase, and number")
		return
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		failMsg(c, http.StatusInternalServerError, "internal error")
		return
	}

	u := &model.User{
		ID:           "USER_" + uuid.New().String(),
		Name:         in.Name,
		Email:        in.Email,
		Phone:        in.Phone,
		PasswordHash: hash,
		Role:         model.RoleUser,
		CreatedAt:    time.Now(),
	}
	if err := h.store.CreateUser(c.Request.Context(), u); err != nil {
		if errors.Is(err, store.ErrEmailTaken) {
			failMsg(c, http.StatusBadRequest, "user with this email already exists")
			return
		}
		h.log.Errorw("create user failed", "error", err)
		failMsg(c, http.StatusInternalServerError, "error registering user")
		return
	}

	tok, err := auth.MakeToken(u.ID, u.Email, u.Role, h.cfg.Auth.JWTSecret, h.cfg.Auth.JWTExpire)
	if err != nil {
		failMsg(c, http.StatusInternalServerError, "internal error")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "user registered successfully",
		"data":    u,
		"token":   tok,
	})
}

// Login authenticates a citizen.
func (h *Handler) Login(c *gin.Context) {
	var in loginInput
	if err := c.ShouldBindJSON(&in); err != nil || in.Email == "" || in.Password == "" {
		failMsg(c, http.StatusBadRequest, "email and password are required")
		return
	}

	u, err := h.store.UserByEmail(c.Request.Context(), in.Email)
	if err != nil || !auth.CheckPassword(u.PasswordHash, in.Password) {
		failMsg(c, http.StatusUnauthorized, "invalid email or password")
		return
	}

	tok, err := auth.MakeToken(u.ID, u.Email, u.Role, h.cfg.Auth.JWTSecret, h.cfg.Auth.JWTExpire)
	if err != nil {
		failMsg(c, http.StatusInternalServerError, "internal error")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "login successful",
		"data":    u,
		"token":   tok,
	})
}

// AdminLogin authenticates against the admin collection.
func (h *Handler) AdminLogin(c *gin.Context) {
	var in loginInput
	if err := c.ShouldBindJSON(&in); err != nil || in.Email == "" || in.Password == "" {
		failMsg(c, http.StatusBadRequest, "email and password are required")
		return
	}

	a, err := h.store.AdminByEmail(c.Request.Context(), in.Email)
	if err != nil || !auth.CheckPassword(a.PasswordHash, in.Password) {
		failMsg(c, http.StatusUnauthorized, "invalid admin credentials")
		return
	}

	tok, err := auth.MakeToken(a.ID, a.Email, model.RoleAdmin, h.cfg.Auth.JWTSecret, h.cfg.Auth.JWTExpire)
	if err != nil {
		failMsg(c, http.StatusInternalServerError, "internal error")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "admin login successful",
		"data":    a,
		"token":   tok,
	})
}

// CreateDefaultAdmin is the one-time bootstrap. At most one admin exists
// per configured email.
func (h *Handler) CreateDefaultAdmin(c *gin.Context) {
	email := h.cfg.Auth.DefaultAdminEmail

	if _, err := h.store.AdminByEmail(c.Request.Context(), email); err == nil {
		failMsg(c, http.StatusBadRequest, "default admin already exists")
		return
	}

	hash, err := auth.HashPassword(h.cfg.Auth.DefaultAdminPassword)
	if err != nil {
		failMsg(c, http.StatusInternalServerError, "internal error")
		return
	}
	a := &model.Admin{
		ID:           "ADMIN_" + uuid.New().String(),
		Name:         "System Administrator",
		Email:        email,
		PasswordHash: hash,
		Role:         model.RoleAdmin,
		CreatedAt:    time.Now(),
	}
	if err := h.store.CreateAdmin(c.Request.Context(), a); err != nil {
		if errors.Is(err, store.ErrEmailTaken) {
			failMsg(c, http.StatusBadRequest, "default admin already exists")
			return
		}
		h.log.Errorw("create default admin failed", "error", err)
		failMsg(c, http.StatusInternalServerError, "error creating default admin")
		return
	}

	ok(c, http.StatusCreated, "default admin created successfully", gin.H{
		"email": email,
		"note":  "please change the password after first login",
	})
}
