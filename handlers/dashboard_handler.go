package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/lyc2760008/EduHub-sub006/database"
	"github.com/lyc2760008/EduHub-sub006/middlewares"
	"github.com/lyc2760008/EduHub-sub006/models"
)

type DashboardHandler struct{}

func NewDashboardHandler() *DashboardHandler { return &DashboardHandler{} }

// GET /staff/dashboard/daily?date=YYYY-MM-DD
// session ของวันนั้น + จำนวนคำขอลาค้างตัดสิน + จำนวนที่เช็กชื่อแล้วต่อ session
func (h *DashboardHandler) Daily(c echo.Context) error {
	act, ok := middlewares.ActorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]any{"error": "INVALID_CLAIMS"})
	}

	date := strings.TrimSpace(c.QueryParam("date"))
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_DATE"})
	}

	var sessions []models.Session
	err = database.DB.
		Where("tenant_id = ? AND starts_at >= ? AND starts_at < ?", act.TenantID, day, day.AddDate(0, 0, 1)).
		Order("starts_at ASC").
		Find(&sessions).Error
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "DB_QUERY_FAILED"})
	}

	type sessionRow struct {
		models.Session
		RosterCount int64 `json:"roster_count"`
		MarkedCount int64 `json:"marked_count"`
	}
	rows := make([]sessionRow, 0, len(sessions))
	for _, s := range sessions {
		var roster, marked int64
		database.DB.Model(&models.SessionRoster{}).
			Where("tenant_id = ? AND session_id = ?", act.TenantID, s.ID).Count(&roster)
		database.DB.Model(&models.Attendance{}).
			Where("tenant_id = ? AND session_id = ?", act.TenantID, s.ID).Count(&marked)
		rows = append(rows, sessionRow{Session: s, RosterCount: roster, MarkedCount: marked})
	}

	var pending int64
	database.DB.Model(&models.AbsenceRequest{}).
		Where("tenant_id = ? AND status = ?", act.TenantID, models.AbsencePending).
		Count(&pending)

	return c.JSON(http.StatusOK, map[string]any{
		"date":             date,
		"sessions":         rows,
		"pending_requests": pending,
	})
}

// GET /staff/dashboard/summary — ตัวเลขคร่าว ๆ สำหรับหน้าแรก
func (h *DashboardHandler) Summary(c echo.Context) error {
	act, ok := middlewares.ActorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]any{"error": "INVALID_CLAIMS"})
	}
	var (
		cntStudents int64
		cntTutors   int64
		cntSessions int64
		cntPending  int64
	)
	database.DB.Model(&models.Student{}).Where("tenant_id = ?", act.TenantID).Count(&cntStudents)
	database.DB.Model(&models.Tutor{}).Where("tenant_id = ?", act.TenantID).Count(&cntTutors)
	database.DB.Model(&models.Session{}).
		Where("tenant_id = ? AND starts_at >= ?", act.TenantID, time.Now()).Count(&cntSessions)
	database.DB.Model(&models.AbsenceRequest{}).
		Where("tenant_id = ? AND status = ?", act.TenantID, models.AbsencePending).Count(&cntPending)

	return c.JSON(http.StatusOK, map[string]any{
		"students":          cntStudents,
		"tutors":            cntTutors,
		"upcoming_sessions": cntSessions,
		"pending_requests":  cntPending,
	})
}
