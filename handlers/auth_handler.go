package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/lyc2760008/EduHub-sub006/database"
	"github.com/lyc2760008/EduHub-sub006/models"
)

/* ====================== Config & Helpers ====================== */

type AuthHandler struct {
	JWTSecret string
}

func NewAuthHandler(secret string) *AuthHandler {
	return &AuthHandler{JWTSecret: secret}
}

func (h *AuthHandler) signJWT(sub, tenantID uint, role, name string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":    sub,
		"tenant": tenantID,
		"role":   role,
		"name":   name,
		"exp":    time.Now().Add(ttl).Unix(),
		"iat":    time.Now().Unix(),
	}
	tk := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tk.SignedString([]byte(h.JWTSecret))
}

// หา tenant จาก slug ที่ FE ส่งมา (login/register เท่านั้น — หลังจากนั้นใช้ claim)
func findTenant(slug string) (*models.Tenant, error) {
	var t models.Tenant
	err := database.DB.Where("slug = ? AND status = 'active'", strings.ToLower(strings.TrimSpace(slug))).First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

/* ====================== DTOs ====================== */

type ParentRegisterReq struct {
	Center    string `json:"center"` // tenant slug
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Password  string `json:"password"`
	Name      string `json:"name"`
	AgreePDPA bool   `json:"agree_pdpa"`
}

type ParentLoginReq struct {
	Center   string `json:"center"`
	Identity string `json:"identity"` // email หรือ phone
	Password string `json:"password"`
}

type StaffLoginReq struct {
	Center   string `json:"center"`
	Username string `json:"username"`
	Password string `json:"password"`
}

/* ====================== Handlers ====================== */

// POST /auth/parents/register
func (h *AuthHandler) ParentRegister(c echo.Context) error {
	var req ParentRegisterReq
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}

	email := strings.TrimSpace(strings.ToLower(req.Email))
	phone := strings.TrimSpace(req.Phone)
	pass := strings.TrimSpace(req.Password)
	if req.Center == "" || email == "" || phone == "" || pass == "" || !req.AgreePDPA {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "MISSING_FIELDS"})
	}

	tenant, err := findTenant(req.Center)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, map[string]any{"error": "CENTER_NOT_FOUND"})
	}

	// ตรวจซ้ำ email ภายใน tenant
	var dup models.Parent
	if err := database.DB.Where("tenant_id = ? AND email = ?", tenant.ID, email).First(&dup).Error; err == nil {
		return echo.NewHTTPError(http.StatusConflict, map[string]any{"error": "EMAIL_EXISTS", "code": "EMAIL_EXISTS"})
	}

	hash, _ := bcrypt.GenerateFromPassword([]byte(pass), bcrypt.DefaultCost)
	rec := models.Parent{
		TenantID: tenant.ID,
		Email:    email,
		Phone:    phone,
		Password: string(hash),
		Name:     strings.TrimSpace(req.Name),
		PdpaOK:   true,
	}
	if err := database.DB.Create(&rec).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, map[string]any{"id": rec.ID})
}

// GET /auth/check-email?center=...&email=...
func (h *AuthHandler) CheckEmail(c echo.Context) error {
	email := strings.TrimSpace(strings.ToLower(c.QueryParam("email")))
	tenant, err := findTenant(c.QueryParam("center"))
	if email == "" || err != nil {
		return c.JSON(http.StatusOK, map[string]bool{"exists": false})
	}
	var p models.Parent
	err = database.DB.Where("tenant_id = ? AND email = ?", tenant.ID, email).First(&p).Error
	return c.JSON(http.StatusOK, map[string]bool{"exists": err == nil})
}

// POST /auth/parent/login
func (h *AuthHandler) ParentLogin(c echo.Context) error {
	var req ParentLoginReq
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}

	id := strings.TrimSpace(strings.ToLower(req.Identity))
	if req.Center == "" || id == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "MISSING_FIELDS"})
	}

	tenant, err := findTenant(req.Center)
	if err != nil {
		// ไม่บอกว่า center ผิดหรือรหัสผิด
		return echo.NewHTTPError(http.StatusUnauthorized, map[string]any{"error": "INVALID_CREDENTIALS"})
	}

	var p models.Parent
	q := database.DB.Where("tenant_id = ?", tenant.ID)
	if strings.Contains(id, "@") {
		q = q.Where("email = ?", id)
	} else {
		q = q.Where("phone = ?", id)
	}
	if err := q.First(&p).Error; err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, map[string]any{"error": "INVALID_CREDENTIALS"})
	}
	if bcrypt.CompareHashAndPassword([]byte(p.Password), []byte(req.Password)) != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, map[string]any{"error": "INVALID_CREDENTIALS"})
	}

	token, err := h.signJWT(p.ID, tenant.ID, "parent", p.Name, 7*24*time.Hour)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": "TOKEN_GEN_FAILED"})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"token": token,
		"user":  map[string]any{"id": p.ID, "role": "parent", "emailOrPhone": id, "name": p.Name},
	})
}

// POST /auth/staff/login — owner/admin/tutor ใช้ endpoint เดียวกัน
func (h *AuthHandler) StaffLogin(c echo.Context) error {
	var req StaffLoginReq
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}

	username := strings.TrimSpace(req.Username)
	if req.Center == "" || username == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "MISSING_FIELDS"})
	}

	tenant, err := findTenant(req.Center)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, map[string]any{"error": "INVALID_CREDENTIALS"})
	}

	var u models.User
	if err := database.DB.Where("tenant_id = ? AND username = ?", tenant.ID, username).First(&u).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": "DB_QUERY_FAILED"})
		}
		return echo.NewHTTPError(http.StatusUnauthorized, map[string]any{"error": "INVALID_CREDENTIALS"})
	}
	if !u.Enabled {
		return echo.NewHTTPError(http.StatusForbidden, map[string]any{"error": "ACCOUNT_DISABLED"})
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.Password)) != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, map[string]any{"error": "INVALID_CREDENTIALS"})
	}

	token, err := h.signJWT(u.ID, tenant.ID, u.Role, u.Name, 7*24*time.Hour)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": "TOKEN_GEN_FAILED"})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"token": token,
		"user": map[string]any{
			"id": u.ID, "role": u.Role, "username": u.Username, "name": u.Name,
			"force_password_change": u.ForcePasswordChange,
		},
	})
}
