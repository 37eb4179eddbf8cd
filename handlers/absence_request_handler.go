package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/lyc2760008/EduHub-sub006/absence"
	"github.com/lyc2760008/EduHub-sub006/database"
	"github.com/lyc2760008/EduHub-sub006/middlewares"
	"github.com/lyc2760008/EduHub-sub006/models"
)

type AbsenceRequestHandler struct {
	Svc *absence.Service
}

func NewAbsenceRequestHandler(svc *absence.Service) *AbsenceRequestHandler {
	return &AbsenceRequestHandler{Svc: svc}
}

/* ===== Parent side ===== */

type createAbsenceReq struct {
	SessionID  uint   `json:"session_id" validate:"required"`
	StudentID  uint   `json:"student_id" validate:"required"`
	ReasonCode string `json:"reason_code" validate:"required,max=40"`
	Message    string `json:"message" validate:"max=500"`
}

// POST /parent/absence-requests
func (h *AbsenceRequestHandler) Create(c echo.Context) error {
	act, ok := middlewares.ActorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]any{"error": "INVALID_CLAIMS"})
	}
	var req createAbsenceReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	if err := validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR"})
	}

	row, err := h.Svc.Create(act, absence.CreateInput{
		SessionID:  req.SessionID,
		StudentID:  req.StudentID,
		ReasonCode: req.ReasonCode,
		Message:    req.Message,
	})
	if err != nil {
		return absenceError(c, err)
	}
	return c.JSON(http.StatusCreated, row)
}

// POST /parent/absence-requests/:id/withdraw
func (h *AbsenceRequestHandler) Withdraw(c echo.Context) error {
	act, ok := middlewares.ActorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]any{"error": "INVALID_CLAIMS"})
	}
	row, err := h.Svc.Withdraw(act, uint(atoiOr(c.Param("id"), 0)))
	if err != nil {
		return absenceError(c, err)
	}
	return c.JSON(http.StatusOK, row)
}

type resubmitAbsenceReq struct {
	ReasonCode string `json:"reason_code" validate:"required,max=40"`
	Message    string `json:"message" validate:"max=500"`
}

// POST /parent/absence-requests/:id/resubmit
func (h *AbsenceRequestHandler) Resubmit(c echo.Context) error {
	act, ok := middlewares.ActorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]any{"error": "INVALID_CLAIMS"})
	}
	var req resubmitAbsenceReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	if err := validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR"})
	}
	row, err := h.Svc.Resubmit(act, uint(atoiOr(c.Param("id"), 0)), req.ReasonCode, req.Message)
	if err != nil {
		return absenceError(c, err)
	}
	return c.JSON(http.StatusOK, row)
}

// GET /parent/absence-requests — คำขอของตัวเองทั้งหมด ล่าสุดก่อน
func (h *AbsenceRequestHandler) ListOwn(c echo.Context) error {
	act, ok := middlewares.ActorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]any{"error": "INVALID_CLAIMS"})
	}
	var rows []models.AbsenceRequest
	tx := database.DB.Where("tenant_id = ? AND parent_id = ?", act.TenantID, act.UserID)
	if st := strings.TrimSpace(c.QueryParam("status")); st != "" {
		tx = tx.Where("status = ?", st)
	}
	if err := tx.Order("updated_at DESC, id DESC").Find(&rows).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "DB_QUERY_FAILED"})
	}
	return c.JSON(http.StatusOK, rows)
}

/* ===== Staff side ===== */

type resolveAbsenceReq struct {
	Status string `json:"status" validate:"required,oneof=APPROVED DECLINED"`
}

// POST /staff/absence-requests/:id/resolve
func (h *AbsenceRequestHandler) Resolve(c echo.Context) error {
	act, ok := middlewares.ActorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]any{"error": "INVALID_CLAIMS"})
	}
	var req resolveAbsenceReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	if err := validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR"})
	}
	row, err := h.Svc.Resolve(act, uint(atoiOr(c.Param("id"), 0)), req.Status, act.UserID)
	if err != nil {
		return absenceError(c, err)
	}
	return c.JSON(http.StatusOK, row)
}

// GET /staff/absence-requests/:id
func (h *AbsenceRequestHandler) Get(c echo.Context) error {
	act, ok := middlewares.ActorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]any{"error": "INVALID_CLAIMS"})
	}
	row, err := h.Svc.Get(act, uint(atoiOr(c.Param("id"), 0)))
	if err != nil {
		return absenceError(c, err)
	}
	return c.JSON(http.StatusOK, row)
}

// GET /staff/absence-requests?status=&studentId=&sessionId=&page=&size=
func (h *AbsenceRequestHandler) List(c echo.Context) error {
	act, ok := middlewares.ActorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]any{"error": "INVALID_CLAIMS"})
	}

	status := strings.TrimSpace(c.QueryParam("status"))
	studentID := strings.TrimSpace(c.QueryParam("studentId"))
	sessionID := strings.TrimSpace(c.QueryParam("sessionId"))
	page, size := pageSize(c)

	tx := database.DB.Model(&models.AbsenceRequest{}).Where("tenant_id = ?", act.TenantID)
	if status != "" {
		tx = tx.Where("status = ?", status)
	}
	if studentID != "" {
		tx = tx.Where("student_id = ?", studentID)
	}
	if sessionID != "" {
		tx = tx.Where("session_id = ?", sessionID)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "DB_COUNT_FAILED"})
	}
	var rows []models.AbsenceRequest
	if err := tx.Order("updated_at DESC, id DESC").Offset((page - 1) * size).Limit(size).Find(&rows).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "DB_QUERY_FAILED"})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"data":  rows,
		"page":  page,
		"size":  size,
		"total": total,
	})
}

// GET /staff/absence-requests/pending-count — ตัวเลข badge หน้า staff
func (h *AbsenceRequestHandler) PendingCount(c echo.Context) error {
	act, ok := middlewares.ActorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]any{"error": "INVALID_CLAIMS"})
	}
	var n int64
	if err := database.DB.Model(&models.AbsenceRequest{}).
		Where("tenant_id = ? AND status = ?", act.TenantID, models.AbsencePending).
		Count(&n).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "DB_COUNT_FAILED"})
	}
	return c.JSON(http.StatusOK, map[string]any{"count": n})
}
