package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/lyc2760008/EduHub-sub006/absence"
)

// validator ตัวเดียวใช้ร่วมทุก handler
var validate = validator.New()

// แปลง string -> int; ถ้าแปลงไม่ได้ให้คืนค่าเริ่มต้น
func atoiOr(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func pageSize(c echo.Context) (int, int) {
	page := atoiOr(c.QueryParam("page"), 1)
	size := atoiOr(c.QueryParam("size"), 20)
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 20
	}
	return page, size
}

// แปลง error จาก absence package เป็น HTTP response ตาม taxonomy เดียวกันทุก endpoint
func absenceError(c echo.Context, err error) error {
	var ve *absence.ValidationError
	if errors.As(err, &ve) {
		return c.JSON(http.StatusBadRequest, map[string]any{
			"error": "VALIDATION_ERROR",
			"field": ve.Field,
		})
	}
	if errors.Is(err, absence.ErrNotFound) {
		return c.JSON(http.StatusNotFound, map[string]any{"error": "NOT_FOUND"})
	}
	var fe *absence.ForbiddenError
	if errors.As(err, &fe) {
		return c.JSON(http.StatusForbidden, map[string]any{
			"error":  "FORBIDDEN",
			"reason": fe.Reason,
		})
	}
	var ce *absence.ConflictError
	if errors.As(err, &ce) {
		body := map[string]any{"error": "CONFLICT", "reason": ce.Reason}
		if ce.CurrentStatus != "" {
			body["current_status"] = ce.CurrentStatus
		}
		return c.JSON(http.StatusConflict, body)
	}
	return c.JSON(http.StatusInternalServerError, map[string]any{"error": "INTERNAL_ERROR"})
}
