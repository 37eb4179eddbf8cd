package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/lyc2760008/EduHub-sub006/database"
	"github.com/lyc2760008/EduHub-sub006/middlewares"
	"github.com/lyc2760008/EduHub-sub006/models"
)

// GuardianLinkHandler — admin ผูก/ถอด parent กับ student
// link นี้คือด่านแรกของ eligibility gate ตอน parent ยื่นคำขอลา
type GuardianLinkHandler struct{}

func NewGuardianLinkHandler() *GuardianLinkHandler { return &GuardianLinkHandler{} }

type guardianLinkReq struct {
	ParentID  uint   `json:"parent_id" validate:"required"`
	StudentID uint   `json:"student_id" validate:"required"`
	Relation  string `json:"relation" validate:"max=30"`
}

// GET /admin/guardian-links?parentId=&studentId=
func (h *GuardianLinkHandler) List(c echo.Context) error {
	act, ok := middlewares.ActorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]any{"error": "INVALID_CLAIMS"})
	}
	tx := database.DB.Model(&models.GuardianLink{}).Where("tenant_id = ?", act.TenantID)
	if v := strings.TrimSpace(c.QueryParam("parentId")); v != "" {
		tx = tx.Where("parent_id = ?", v)
	}
	if v := strings.TrimSpace(c.QueryParam("studentId")); v != "" {
		tx = tx.Where("student_id = ?", v)
	}
	var rows []models.GuardianLink
	if err := tx.Order("id ASC").Find(&rows).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	return c.JSON(http.StatusOK, rows)
}

// POST /admin/guardian-links
func (h *GuardianLinkHandler) Create(c echo.Context) error {
	act, ok := middlewares.ActorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]any{"error": "INVALID_CLAIMS"})
	}
	var req guardianLinkReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_PAYLOAD"})
	}
	if err := validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR"})
	}

	// ทั้งสองฝั่งต้องอยู่ tenant นี้จริง
	var parent models.Parent
	if err := database.DB.Where("id = ? AND tenant_id = ?", req.ParentID, act.TenantID).First(&parent).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "PARENT_NOT_FOUND"})
	}
	var student models.Student
	if err := database.DB.Where("id = ? AND tenant_id = ?", req.StudentID, act.TenantID).First(&student).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "STUDENT_NOT_FOUND"})
	}

	link := models.GuardianLink{
		TenantID:  act.TenantID,
		ParentID:  req.ParentID,
		StudentID: req.StudentID,
		Relation:  strings.TrimSpace(req.Relation),
	}
	if err := database.DB.Create(&link).Error; err != nil {
		return c.JSON(http.StatusConflict, map[string]string{"error": "LINK_EXISTS"})
	}
	return c.JSON(http.StatusCreated, link)
}

// DELETE /admin/guardian-links/:id
func (h *GuardianLinkHandler) Delete(c echo.Context) error {
	act, ok := middlewares.ActorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]any{"error": "INVALID_CLAIMS"})
	}
	res := database.DB.Where("tenant_id = ?", act.TenantID).
		Delete(&models.GuardianLink{}, "id = ?", c.Param("id"))
	if res.Error != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": res.Error.Error()})
	}
	if res.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "NOT_FOUND"})
	}
	return c.NoContent(http.StatusNoContent)
}
