package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lyc2760008/EduHub-sub006/absence"
)

func ctxWithRole(role string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if role != "" {
		c.Set("role", role)
	}
	return c, rec
}

func TestRequireStaff(t *testing.T) {
	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	mw := RequireStaff()(next)

	for _, role := range []string{"owner", "admin", "tutor"} {
		c, _ := ctxWithRole(role)
		assert.NoError(t, mw(c), role)
	}

	for _, role := range []string{"parent", "student", ""} {
		c, _ := ctxWithRole(role)
		err := mw(c)
		var he *echo.HTTPError
		require.ErrorAs(t, err, &he, "role %q must be blocked", role)
		assert.Equal(t, http.StatusForbidden, he.Code)
	}
}

func TestActorFromContext(t *testing.T) {
	c, _ := ctxWithRole("parent")
	c.Set("user_id", uint(7))
	c.Set("tenant_id", uint(3))

	act, ok := ActorFromContext(c)
	require.True(t, ok)
	assert.Equal(t, absence.Actor{TenantID: 3, UserID: 7, Role: absence.RoleParent}, act)

	// role นอกเซ็ตถือว่า claim เสีย
	c.Set("role", "superadmin")
	_, ok = ActorFromContext(c)
	assert.False(t, ok)

	// ขาด tenant_id ก็ไม่ผ่าน
	c2, _ := ctxWithRole("parent")
	c2.Set("user_id", uint(7))
	_, ok = ActorFromContext(c2)
	assert.False(t, ok)
}
