package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm/clause"

	"github.com/lyc2760008/EduHub-sub006/absence"
	"github.com/lyc2760008/EduHub-sub006/database"
	"github.com/lyc2760008/EduHub-sub006/middlewares"
	"github.com/lyc2760008/EduHub-sub006/models"
)

type AttendanceHandler struct {
	Svc *absence.Service
}

func NewAttendanceHandler(svc *absence.Service) *AttendanceHandler {
	return &AttendanceHandler{Svc: svc}
}

// GET /staff/sessions/:id/attendance
// หน้าเช็กชื่อ: roster + ค่าที่บันทึกแล้ว + banner คำขอลา + ค่า suggest
// endpoint นี้อ่านอย่างเดียว — suggest ไม่ถูกเขียนลง DB จนกว่าจะกด submit
func (h *AttendanceHandler) SessionView(c echo.Context) error {
	act, ok := middlewares.ActorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]any{"error": "INVALID_CLAIMS"})
	}
	view, err := h.Svc.AttendanceAssist(act, uint(atoiOr(c.Param("id"), 0)))
	if err != nil {
		return absenceError(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

type markEntry struct {
	StudentID uint   `json:"student_id" validate:"required"`
	Status    string `json:"status" validate:"required,oneof=PRESENT LATE ABSENT EXCUSED"`
	Note      string `json:"note" validate:"max=500"`
}

type submitMarksReq struct {
	Entries []markEntry `json:"entries" validate:"required,min=1,dive"`
}

// POST /staff/sessions/:id/attendance
// จุดเดียวที่ผลเช็กชื่อถูก persist — upsert ต่อ (session, student)
func (h *AttendanceHandler) Submit(c echo.Context) error {
	act, ok := middlewares.ActorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]any{"error": "INVALID_CLAIMS"})
	}
	sessionID := uint(atoiOr(c.Param("id"), 0))

	var req submitMarksReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	if err := validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR"})
	}

	// session ต้องเป็นของ tenant นี้
	var sess models.Session
	if err := database.DB.Where("id = ? AND tenant_id = ?", sessionID, act.TenantID).First(&sess).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]any{"error": "NOT_FOUND"})
	}

	rows := make([]models.Attendance, 0, len(req.Entries))
	for _, e := range req.Entries {
		// รับเฉพาะนักเรียนที่อยู่ใน roster
		var n int64
		database.DB.Model(&models.SessionRoster{}).
			Where("tenant_id = ? AND session_id = ? AND student_id = ?", act.TenantID, sessionID, e.StudentID).
			Count(&n)
		if n == 0 {
			return c.JSON(http.StatusBadRequest, map[string]any{
				"error":      "STUDENT_NOT_ON_ROSTER",
				"student_id": e.StudentID,
			})
		}
		rows = append(rows, models.Attendance{
			TenantID:       act.TenantID,
			SessionID:      sessionID,
			StudentID:      e.StudentID,
			Status:         e.Status,
			Note:           e.Note,
			MarkedByUserID: act.UserID,
		})
	}

	err := database.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "tenant_id"}, {Name: "session_id"}, {Name: "student_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"status", "note", "marked_by_user_id", "updated_at",
		}),
	}).Create(&rows).Error
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "DB_WRITE_FAILED"})
	}
	return c.JSON(http.StatusOK, map[string]any{"saved": len(rows)})
}

// GET /staff/attendance?sessionId=&studentId=&statuses=PRESENT,LATE
func (h *AttendanceHandler) List(c echo.Context) error {
	act, ok := middlewares.ActorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]any{"error": "INVALID_CLAIMS"})
	}

	tx := database.DB.Model(&models.Attendance{}).Where("tenant_id = ?", act.TenantID)
	if v := strings.TrimSpace(c.QueryParam("sessionId")); v != "" {
		tx = tx.Where("session_id = ?", v)
	}
	if v := strings.TrimSpace(c.QueryParam("studentId")); v != "" {
		tx = tx.Where("student_id = ?", v)
	}
	if v := strings.TrimSpace(c.QueryParam("statuses")); v != "" {
		parts := []string{}
		for _, p := range strings.Split(v, ",") {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
		if len(parts) > 0 {
			tx = tx.Where("status IN ?", parts)
		}
	}

	var rows []models.Attendance
	if err := tx.Order("session_id ASC, student_id ASC").Find(&rows).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "DB_QUERY_FAILED"})
	}
	return c.JSON(http.StatusOK, rows)
}
