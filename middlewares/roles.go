package middlewares

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/lyc2760008/EduHub-sub006/absence"
)

// RequireRole("admin") หรือ RequireRole("tutor","admin") — ผ่านถ้าตรงอย่างน้อย 1 ค่า
func RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := map[string]struct{}{}
	for _, r := range roles {
		allowed[strings.ToLower(strings.TrimSpace(r))] = struct{}{}
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(string)
			if _, ok := allowed[strings.ToLower(role)]; !ok {
				return echo.NewHTTPError(http.StatusForbidden, map[string]any{"error": "FORBIDDEN"})
			}
			return next(c)
		}
	}
}

// RequireStaff — owner/admin/tutor เท่านั้น
func RequireStaff() echo.MiddlewareFunc {
	return RequireRole(string(absence.RoleOwner), string(absence.RoleAdmin), string(absence.RoleTutor))
}

// ActorFromContext ประกอบ actor bundle จากค่าที่ RequireAuth แนบไว้
func ActorFromContext(c echo.Context) (absence.Actor, bool) {
	uid, ok1 := c.Get("user_id").(uint)
	tid, ok2 := c.Get("tenant_id").(uint)
	role, ok3 := c.Get("role").(string)
	act := absence.Actor{TenantID: tid, UserID: uid, Role: absence.Role(role)}
	if !ok1 || !ok2 || !ok3 || !act.Role.Valid() {
		return absence.Actor{}, false
	}
	return act, true
}
