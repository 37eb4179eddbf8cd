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

type StudentHandler struct{}

func NewStudentHandler() *StudentHandler { return &StudentHandler{} }

type studentPayload struct {
	Code      string `json:"code" validate:"required,max=20,alphanum"`
	FirstName string `json:"first_name" validate:"required,max=50"`
	LastName  string `json:"last_name" validate:"required,max=50"`
	BirthDate string `json:"birth_date" validate:"omitempty,datetime=2006-01-02"` // YYYY-MM-DD หรือว่าง
	School    string `json:"school" validate:"max=120"`
	Level     string `json:"level" validate:"required,max=30"`
	Phone     string `json:"phone" validate:"omitempty,max=15"`
	Status    string `json:"status" validate:"required,oneof=active inactive"`
	Note      string `json:"note" validate:"max=500"`
}

func (p *studentPayload) normalize() {
	p.Code = strings.TrimSpace(p.Code)
	p.FirstName = strings.Join(strings.Fields(p.FirstName), " ")
	p.LastName = strings.Join(strings.Fields(p.LastName), " ")
	p.BirthDate = strings.TrimSpace(p.BirthDate)
	p.School = strings.TrimSpace(p.School)
	p.Level = strings.TrimSpace(p.Level)
	p.Phone = strings.TrimSpace(p.Phone)
	p.Status = strings.TrimSpace(p.Status)
}

func (p *studentPayload) toModel(tenantID uint) models.Student {
	var birth *time.Time
	if p.BirthDate != "" {
		if b, err := time.Parse("2006-01-02", p.BirthDate); err == nil {
			birth = &b
		}
	}
	return models.Student{
		TenantID:  tenantID,
		Code:      p.Code,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		BirthDate: birth,
		School:    p.School,
		Level:     p.Level,
		Phone:     p.Phone,
		Status:    p.Status,
		Note:      p.Note,
	}
}

/* ===== Handlers ===== */

// GET /staff/students?q=&page=&size=
func (h *StudentHandler) List(c echo.Context) error {
	act, ok := middlewares.ActorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]any{"error": "INVALID_CLAIMS"})
	}
	q := strings.TrimSpace(c.QueryParam("q"))
	page, size := pageSize(c)

	tx := database.DB.Model(&models.Student{}).Where("tenant_id = ?", act.TenantID)
	if q != "" {
		like := "%" + strings.ToLower(q) + "%"
		tx = tx.Where("LOWER(code) LIKE ? OR LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ?", like, like, like)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_COUNT_FAILED"})
	}
	var items []models.Student
	if err := tx.Order("id DESC").Limit(size).Offset((page - 1) * size).Find(&items).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"data":  items,
		"page":  page,
		"size":  size,
		"total": total,
	})
}

// GET /staff/students/:id
func (h *StudentHandler) Get(c echo.Context) error {
	act, ok := middlewares.ActorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]any{"error": "INVALID_CLAIMS"})
	}
	var s models.Student
	if err := database.DB.Where("id = ? AND tenant_id = ?", c.Param("id"), act.TenantID).First(&s).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "NOT_FOUND"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	return c.JSON(http.StatusOK, s)
}

// POST /admin/students
func (h *StudentHandler) Create(c echo.Context) error {
	act, ok := middlewares.ActorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]any{"error": "INVALID_CLAIMS"})
	}
	var p studentPayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_PAYLOAD"})
	}
	p.normalize()
	if err := validate.Struct(p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR", "detail": err.Error()})
	}
	s := p.toModel(act.TenantID)
	if err := database.DB.Create(&s).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "DUPLICATE_OR_INVALID"})
	}
	return c.JSON(http.StatusCreated, s)
}

// PUT /admin/students/:id
func (h *StudentHandler) Update(c echo.Context) error {
	act, ok := middlewares.ActorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]any{"error": "INVALID_CLAIMS"})
	}
	var existing models.Student
	if err := database.DB.Where("id = ? AND tenant_id = ?", c.Param("id"), act.TenantID).First(&existing).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "NOT_FOUND"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	var p studentPayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_PAYLOAD"})
	}
	p.normalize()
	if err := validate.Struct(p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR", "detail": err.Error()})
	}

	updated := p.toModel(act.TenantID)
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	if err := database.DB.Save(&updated).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "DUPLICATE_OR_INVALID"})
	}
	return c.JSON(http.StatusOK, updated)
}

// DELETE /admin/students/:id
func (h *StudentHandler) Delete(c echo.Context) error {
	act, ok := middlewares.ActorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]any{"error": "INVALID_CLAIMS"})
	}
	if err := database.DB.Where("tenant_id = ?", act.TenantID).
		Delete(&models.Student{}, "id = ?", c.Param("id")).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.NoContent(http.StatusNoContent)
}

// POST /admin/students/import — รับเป็น array ทั้งชุด ผ่านหมดถึง insert
func (h *StudentHandler) Import(c echo.Context) error {
	act, ok := middlewares.ActorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]any{"error": "INVALID_CLAIMS"})
	}
	var arr []studentPayload
	if err := c.Bind(&arr); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_PAYLOAD"})
	}
	var inserted []models.Student
	issues := []map[string]any{}

	for i := range arr {
		arr[i].normalize()
		if err := validate.Struct(arr[i]); err != nil {
			issues = append(issues, map[string]any{"index": i, "detail": err.Error()})
			continue
		}
		inserted = append(inserted, arr[i].toModel(act.TenantID))
	}
	if len(issues) > 0 {
		return c.JSON(http.StatusBadRequest, map[string]any{
			"error":  "BULK_VALIDATION_ERROR",
			"issues": issues,
		})
	}
	if err := database.DB.Create(&inserted).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "DUPLICATE_OR_INVALID"})
	}
	return c.JSON(http.StatusCreated, map[string]any{"inserted": len(inserted)})
}
