package controller

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"schoolku_backend/internals/configs"
	"schoolku_backend/internals/features/users/auth/dto"
	"schoolku_backend/internals/features/users/auth/model"
	helper "schoolku_backend/internals/helpers"
	authmw "schoolku_backend/internals/middlewares/auth"
)

const accessTokenTTL = 12 * time.Hour

type AuthController struct {
	DB *gorm.DB
}

func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{DB: db}
}

// POST /api/auth/login
func (h *AuthController) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := helper.Validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	var user model.User
	err := h.DB.WithContext(c.Context()).
		First(&user, "email = ?", strings.ToLower(strings.TrimSpace(req.Email))).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusUnauthorized, "Invalid email or password")
		}
		return helper.DomainError(c, err)
	}
	if !user.IsActive || !user.CheckPassword(req.Password) {
		return helper.Error(c, fiber.StatusUnauthorized, "Invalid email or password")
	}

	expiresAt := time.Now().Add(accessTokenTTL)
	claims := jwt.MapClaims{
		"sub":  user.ID.String(),
		"role": string(user.Role),
		"iat":  time.Now().Unix(),
		"exp":  expiresAt.Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(configs.JWTSecret))
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Could not sign token")
	}

	now := time.Now()
	_ = h.DB.WithContext(c.Context()).Model(&user).Update("last_login_at", &now).Error

	return helper.Success(c, "Login successful", dto.LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
		User: dto.UserResponse{
			ID:       user.ID.String(),
			Email:    user.Email,
			FullName: user.FullName,
			Role:     string(user.Role),
		},
	})
}

// POST /api/auth/register — admin-only staff account creation.
func (h *AuthController) Register(c *fiber.Ctx) error {
	if role, _ := c.Locals(authmw.LocRole).(string); role != string(model.UserRoleAdmin) {
		return helper.Error(c, fiber.StatusForbidden, "Only admins can create accounts")
	}

	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := helper.Validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	user := model.User{
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		FullName: req.FullName,
		Role:     model.UserRole(req.Role),
		IsActive: true,
	}
	if err := user.SetPassword(req.Password); err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Could not hash password")
	}

	if err := h.DB.WithContext(c.Context()).Create(&user).Error; err != nil {
		if strings.Contains(err.Error(), "UNIQUE") || strings.Contains(err.Error(), "23505") {
			return helper.Error(c, fiber.StatusConflict, "Email already registered")
		}
		return helper.DomainError(c, err)
	}

	return helper.SuccessWithCode(c, fiber.StatusCreated, "User created", dto.UserResponse{
		ID:       user.ID.String(),
		Email:    user.Email,
		FullName: user.FullName,
		Role:     string(user.Role),
	})
}

// GET /api/auth/me
func (h *AuthController) Me(c *fiber.Ctx) error {
	id := authmw.UserIDFromLocals(c)
	if id == uuid.Nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var user model.User
	if err := h.DB.WithContext(c.Context()).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "User not found")
		}
		return helper.DomainError(c, err)
	}
	return helper.Success(c, "ok", dto.UserResponse{
		ID:       user.ID.String(),
		Email:    user.Email,
		FullName: user.FullName,
		Role:     string(user.Role),
	})
}
