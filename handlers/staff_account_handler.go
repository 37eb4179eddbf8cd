package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/lyc2760008/EduHub-sub006/database"
	"github.com/lyc2760008/EduHub-sub006/middlewares"
	"github.com/lyc2760008/EduHub-sub006/models"
)

// -----------------------------
// Handler & ctor
// -----------------------------

type StaffAccountHandler struct{}

func NewStaffAccountHandler() *StaffAccountHandler { return &StaffAccountHandler{} }

// -----------------------------
// Request/Response payloads
// -----------------------------

type createStaffAccountReq struct {
	TutorID  uint   `json:"tutor_id" validate:"required"`
	Username string `json:"username" validate:"required,min=3,max=60"`
	Password string `json:"password" validate:"required,min=8"`
}

type patchStaffAccountReq struct {
	Enabled             *bool `json:"enabled,omitempty"`
	ForcePasswordChange *bool `json:"force_password_change,omitempty"`
}

type staffAccountDTO struct {
	ID                  uint      `json:"id"`
	TutorID             uint      `json:"tutor_id"`
	Username            string    `json:"username"`
	Enabled             bool      `json:"enabled"`
	ForcePasswordChange bool      `json:"force_password_change"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// -----------------------------
// Helpers
// -----------------------------

func toStaffAccountDTO(u models.User) staffAccountDTO {
	var tid uint
	if u.TutorID != nil {
		tid = *u.TutorID
	}
	return staffAccountDTO{
		ID:                  u.ID,
		TutorID:             tid,
		Username:            u.Username,
		Enabled:             u.Enabled,
		ForcePasswordChange: u.ForcePasswordChange,
		UpdatedAt:           u.UpdatedAt,
	}
}

func hashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	return string(b), err
}

// one-time password แบบเดาไม่ได้ — ตัดจาก uuid 2 ตัว
func oneTimePassword() string {
	s := strings.ReplaceAll(uuid.NewString(), "-", "")
	return s[:12]
}

// -----------------------------
// List accounts
// GET /admin/staff-accounts
// -----------------------------

func (h *StaffAccountHandler) List(c echo.Context) error {
	act, ok := middlewares.ActorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]any{"error": "INVALID_CLAIMS"})
	}
	var users []models.User
	q := database.DB.Where("tenant_id = ? AND role = ?", act.TenantID, "tutor")
	if err := q.Order("updated_at desc").Find(&users).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "DB_ERROR"})
	}

	out := make([]staffAccountDTO, 0, len(users))
	for _, u := range users {
		out = append(out, toStaffAccountDTO(u))
	}
	return c.JSON(http.StatusOK, out)
}

// -----------------------------
// Create account
// POST /admin/staff-accounts
// -----------------------------

func (h *StaffAccountHandler) Create(c echo.Context) error {
	act, ok := middlewares.ActorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]any{"error": "INVALID_CLAIMS"})
	}
	var req createStaffAccountReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	req.Username = strings.TrimSpace(req.Username)
	if err := validate.Struct(req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, map[string]any{"error": "VALIDATION_ERROR", "detail": err.Error()})
	}

	// ตรวจว่ามี tutor จริงใน tenant นี้
	var t models.Tutor
	if err := database.DB.Where("id = ? AND tenant_id = ?", req.TutorID, act.TenantID).First(&t).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, map[string]any{"error": "TUTOR_NOT_FOUND"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "DB_ERROR"})
	}

	var cnt int64
	if err := database.DB.Model(&models.User{}).
		Where("tenant_id = ? AND username = ?", act.TenantID, req.Username).Count(&cnt).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "DB_ERROR"})
	}
	if cnt > 0 {
		return c.JSON(http.StatusConflict, map[string]any{"error": "USERNAME_TAKEN"})
	}

	if err := database.DB.Model(&models.User{}).
		Where("tenant_id = ? AND tutor_id = ?", act.TenantID, req.TutorID).Count(&cnt).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "DB_ERROR"})
	}
	if cnt > 0 {
		return c.JSON(http.StatusConflict, map[string]any{"error": "TUTOR_ALREADY_HAS_ACCOUNT"})
	}

	hashed, err := hashPassword(req.Password)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "HASH_FAILED"})
	}
	u := models.User{
		TenantID: act.TenantID,
		Username: req.Username,
		Password: hashed,
		Role:     "tutor",
		Name:     strings.TrimSpace(t.FirstName + " " + t.LastName),
		TutorID:  &req.TutorID,
		Enabled:  true,
	}
	if err := database.DB.Create(&u).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "DB_ERROR"})
	}
	return c.JSON(http.StatusCreated, toStaffAccountDTO(u))
}

// -----------------------------
// Reset password
// POST /admin/staff-accounts/:id/reset — คืน one_time_password
// -----------------------------

func (h *StaffAccountHandler) ResetPassword(c echo.Context) error {
	act, ok := middlewares.ActorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]any{"error": "INVALID_CLAIMS"})
	}
	var u models.User
	if err := database.DB.Where("id = ? AND tenant_id = ?", c.Param("id"), act.TenantID).First(&u).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, map[string]any{"error": "NOT_FOUND"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "DB_ERROR"})
	}

	otp := oneTimePassword()
	hashed, err := hashPassword(otp)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "HASH_FAILED"})
	}
	updates := map[string]any{
		"password":              hashed,
		"force_password_change": true,
	}
	if err := database.DB.Model(&u).Updates(updates).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "DB_ERROR"})
	}
	return c.JSON(http.StatusOK, map[string]any{"one_time_password": otp})
}

// -----------------------------
// Patch flags
// PATCH /admin/staff-accounts/:id
// -----------------------------

func (h *StaffAccountHandler) Patch(c echo.Context) error {
	act, ok := middlewares.ActorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]any{"error": "INVALID_CLAIMS"})
	}
	var u models.User
	if err := database.DB.Where("id = ? AND tenant_id = ?", c.Param("id"), act.TenantID).First(&u).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, map[string]any{"error": "NOT_FOUND"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "DB_ERROR"})
	}

	var req patchStaffAccountReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	updates := map[string]any{}
	if req.Enabled != nil {
		updates["enabled"] = *req.Enabled
	}
	if req.ForcePasswordChange != nil {
		updates["force_password_change"] = *req.ForcePasswordChange
	}
	if len(updates) == 0 {
		return c.JSON(http.StatusOK, toStaffAccountDTO(u))
	}
	if err := database.DB.Model(&u).Updates(updates).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "DB_ERROR"})
	}
	return c.JSON(http.StatusOK, toStaffAccountDTO(u))
}
