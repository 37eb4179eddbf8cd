package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/lyc2760008/EduHub-sub006/database"
	"github.com/lyc2760008/EduHub-sub006/middlewares"
	"github.com/lyc2760008/EduHub-sub006/models"
)

type SessionHandler struct{}

func NewSessionHandler() *SessionHandler { return &SessionHandler{} }

type sessionPayload struct {
	TutorID  uint   `json:"tutor_id" validate:"required"`
	Subject  string `json:"subject" validate:"required,max=80"`
	Room     string `json:"room" validate:"max=30"`
	StartsAt string `json:"starts_at" validate:"required"` // RFC3339
	EndsAt   string `json:"ends_at" validate:"required"`
	Note     string `json:"note" validate:"max=255"`
}

func (p *sessionPayload) parseTimes() (time.Time, time.Time, bool) {
	st, err1 := time.Parse(time.RFC3339, strings.TrimSpace(p.StartsAt))
	en, err2 := time.Parse(time.RFC3339, strings.TrimSpace(p.EndsAt))
	if err1 != nil || err2 != nil || !en.After(st) {
		return time.Time{}, time.Time{}, false
	}
	return st, en, true
}

// GET /staff/sessions?from=&to=&tutorId=&page=&size=
func (h *SessionHandler) List(c echo.Context) error {
	act, ok := middlewares.ActorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]any{"error": "INVALID_CLAIMS"})
	}
	page, size := pageSize(c)

	tx := database.DB.Model(&models.Session{}).Where("tenant_id = ?", act.TenantID)
	if v := strings.TrimSpace(c.QueryParam("from")); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			tx = tx.Where("starts_at >= ?", t)
		}
	}
	if v := strings.TrimSpace(c.QueryParam("to")); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			tx = tx.Where("starts_at < ?", t.AddDate(0, 0, 1))
		}
	}
	if v := strings.TrimSpace(c.QueryParam("tutorId")); v != "" {
		tx = tx.Where("tutor_id = ?", v)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_COUNT_FAILED"})
	}
	var rows []models.Session
	if err := tx.Order("starts_at ASC, id ASC").Limit(size).Offset((page - 1) * size).Find(&rows).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	return c.JSON(http.StatusOK, map[string]any{"data": rows, "page": page, "size": size, "total": total})
}

// GET /staff/sessions/:id
func (h *SessionHandler) Get(c echo.Context) error {
	act, ok := middlewares.ActorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]any{"error": "INVALID_CLAIMS"})
	}
	var s models.Session
	if err := database.DB.Where("id = ? AND tenant_id = ?", c.Param("id"), act.TenantID).First(&s).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "NOT_FOUND"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	return c.JSON(http.StatusOK, s)
}

// POST /admin/sessions
func (h *SessionHandler) Create(c echo.Context) error {
	act, ok := middlewares.ActorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]any{"error": "INVALID_CLAIMS"})
	}
	var p sessionPayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_PAYLOAD"})
	}
	if err := validate.Struct(p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR", "detail": err.Error()})
	}
	st, en, ok2 := p.parseTimes()
	if !ok2 {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR", "detail": "starts_at/ends_at must be RFC3339 and ends after start"})
	}

	// tutor ต้องอยู่ tenant เดียวกัน
	var tutor models.Tutor
	if err := database.DB.Where("id = ? AND tenant_id = ?", p.TutorID, act.TenantID).First(&tutor).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "TUTOR_NOT_FOUND"})
	}

	s := models.Session{
		TenantID: act.TenantID,
		TutorID:  p.TutorID,
		Subject:  strings.TrimSpace(p.Subject),
		Room:     strings.TrimSpace(p.Room),
		StartsAt: st,
		EndsAt:   en,
		Status:   "scheduled",
		Note:     strings.TrimSpace(p.Note),
	}
	if err := database.DB.Create(&s).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, s)
}

// PUT /admin/sessions/:id
func (h *SessionHandler) Update(c echo.Context) error {
	act, ok := middlewares.ActorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]any{"error": "INVALID_CLAIMS"})
	}
	var existing models.Session
	if err := database.DB.Where("id = ? AND tenant_id = ?", c.Param("id"), act.TenantID).First(&existing).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "NOT_FOUND"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	var p sessionPayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_PAYLOAD"})
	}
	if err := validate.Struct(p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR", "detail": err.Error()})
	}
	st, en, ok2 := p.parseTimes()
	if !ok2 {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR", "detail": "starts_at/ends_at must be RFC3339 and ends after start"})
	}
	existing.TutorID = p.TutorID
	existing.Subject = strings.TrimSpace(p.Subject)
	existing.Room = strings.TrimSpace(p.Room)
	existing.StartsAt = st
	existing.EndsAt = en
	existing.Note = strings.TrimSpace(p.Note)
	if err := database.DB.Save(&existing).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, existing)
}

// DELETE /admin/sessions/:id
func (h *SessionHandler) Delete(c echo.Context) error {
	act, ok := middlewares.ActorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]any{"error": "INVALID_CLAIMS"})
	}
	if err := database.DB.Where("tenant_id = ?", act.TenantID).
		Delete(&models.Session{}, "id = ?", c.Param("id")).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.NoContent(http.StatusNoContent)
}

/* ===== Roster ===== */

type rosterReq struct {
	StudentID uint `json:"student_id" validate:"required"`
}

// GET /staff/sessions/:id/roster
func (h *SessionHandler) Roster(c echo.Context) error {
	act, ok := middlewares.ActorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]any{"error": "INVALID_CLAIMS"})
	}
	sessionID := atoiOr(c.Param("id"), 0)

	type rosterRow struct {
		StudentID uint   `json:"student_id"`
		Code      string `json:"code"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	}
	var rows []rosterRow
	err := database.DB.Table("session_rosters AS r").
		Select("r.student_id, s.code, s.first_name, s.last_name").
		Joins("JOIN students s ON s.id = r.student_id").
		Where("r.tenant_id = ? AND r.session_id = ?", act.TenantID, sessionID).
		Order("s.code ASC").
		Scan(&rows).Error
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	return c.JSON(http.StatusOK, rows)
}

// POST /admin/sessions/:id/roster
func (h *SessionHandler) AddToRoster(c echo.Context) error {
	act, ok := middlewares.ActorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]any{"error": "INVALID_CLAIMS"})
	}
	sessionID := uint(atoiOr(c.Param("id"), 0))

	var req rosterReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_PAYLOAD"})
	}
	if err := validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR"})
	}

	var sess models.Session
	if err := database.DB.Where("id = ? AND tenant_id = ?", sessionID, act.TenantID).First(&sess).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "NOT_FOUND"})
	}
	var stu models.Student
	if err := database.DB.Where("id = ? AND tenant_id = ?", req.StudentID, act.TenantID).First(&stu).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "STUDENT_NOT_FOUND"})
	}

	row := models.SessionRoster{TenantID: act.TenantID, SessionID: sessionID, StudentID: req.StudentID}
	if err := database.DB.Create(&row).Error; err != nil {
		// ซ้ำ = อยู่ใน roster แล้ว
		return c.JSON(http.StatusConflict, map[string]string{"error": "ALREADY_ON_ROSTER"})
	}
	return c.JSON(http.StatusCreated, row)
}

// DELETE /admin/sessions/:id/roster/:studentId
func (h *SessionHandler) RemoveFromRoster(c echo.Context) error {
	act, ok := middlewares.ActorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]any{"error": "INVALID_CLAIMS"})
	}
	res := database.DB.Where("tenant_id = ? AND session_id = ? AND student_id = ?",
		act.TenantID, atoiOr(c.Param("id"), 0), atoiOr(c.Param("studentId"), 0)).
		Delete(&models.SessionRoster{})
	if res.Error != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": res.Error.Error()})
	}
	if res.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "NOT_FOUND"})
	}
	return c.NoContent(http.StatusNoContent)
}
