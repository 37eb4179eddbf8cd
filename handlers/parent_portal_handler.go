package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/lyc2760008/EduHub-sub006/database"
	"github.com/lyc2760008/EduHub-sub006/middlewares"
	"github.com/lyc2760008/EduHub-sub006/models"
)

// ParentPortalHandler — หน้าอ่านฝั่งผู้ปกครอง (ลูก ๆ + ตาราง session ที่จะถึง)
type ParentPortalHandler struct{}

func NewParentPortalHandler() *ParentPortalHandler { return &ParentPortalHandler{} }

// GET /parent/children — นักเรียนที่ parent คนนี้มี guardian link เท่านั้น
func (h *ParentPortalHandler) Children(c echo.Context) error {
	act, ok := middlewares.ActorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]any{"error": "INVALID_CLAIMS"})
	}

	type childRow struct {
		StudentID uint   `json:"student_id"`
		Code      string `json:"code"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Level     string `json:"level"`
		Relation  string `json:"relation"`
	}
	var rows []childRow
	err := database.DB.Table("guardian_links AS g").
		Select("g.student_id, s.code, s.first_name, s.last_name, s.level, g.relation").
		Joins("JOIN students s ON s.id = g.student_id").
		Where("g.tenant_id = ? AND g.parent_id = ?", act.TenantID, act.UserID).
		Order("s.code ASC").
		Scan(&rows).Error
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "DB_QUERY_FAILED"})
	}
	return c.JSON(http.StatusOK, rows)
}

// GET /parent/children/:studentId/sessions — session ที่จะถึงของลูกคนนั้น
// เช็ก guardian link ก่อน: ไม่มี link ตอบ 404 เสมอ
func (h *ParentPortalHandler) ChildSessions(c echo.Context) error {
	act, ok := middlewares.ActorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]any{"error": "INVALID_CLAIMS"})
	}
	studentID := atoiOr(c.Param("studentId"), 0)

	var n int64
	database.DB.Model(&models.GuardianLink{}).
		Where("tenant_id = ? AND parent_id = ? AND student_id = ?", act.TenantID, act.UserID, studentID).
		Count(&n)
	if n == 0 {
		return c.JSON(http.StatusNotFound, map[string]any{"error": "NOT_FOUND"})
	}

	type sessionRow struct {
		SessionID uint      `json:"session_id"`
		Subject   string    `json:"subject"`
		Room      string    `json:"room"`
		StartsAt  time.Time `json:"starts_at"`
		EndsAt    time.Time `json:"ends_at"`
		RequestID *uint     `json:"request_id,omitempty"`
		ReqStatus *string   `json:"request_status,omitempty"`
	}
	var rows []sessionRow
	err := database.DB.Table("session_rosters AS r").
		Select(`s.id AS session_id, s.subject, s.room, s.starts_at, s.ends_at,
			a.id AS request_id, a.status AS req_status`).
		Joins("JOIN sessions s ON s.id = r.session_id").
		Joins(`LEFT JOIN absence_requests a
			ON a.session_id = r.session_id AND a.student_id = r.student_id AND a.tenant_id = r.tenant_id`).
		Where("r.tenant_id = ? AND r.student_id = ? AND s.starts_at >= ?", act.TenantID, studentID, time.Now()).
		Order("s.starts_at ASC").
		Scan(&rows).Error
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "DB_QUERY_FAILED"})
	}
	return c.JSON(http.StatusOK, rows)
}
