package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/lyc2760008/EduHub-sub006/absence"
	"github.com/lyc2760008/EduHub-sub006/audit"
	"github.com/lyc2760008/EduHub-sub006/database"
	"github.com/lyc2760008/EduHub-sub006/models"
)

const testJWTSecret = "test-secret"

type env struct {
	e   *echo.Echo
	db  *gorm.DB
	svc *absence.Service

	tenant  models.Tenant
	parent  models.Parent
	student models.Student
	tutor   models.Tutor
	staff   models.User
	session models.Session
}

// newEnv เปิด sqlite in-memory แล้วชี้ database.DB global ไปที่มัน
// (handler CRUD ใช้ global ตามสไตล์เดิมของ codebase)
func newEnv(t *testing.T) *env {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	prev := database.DB
	database.DB = db
	t.Cleanup(func() { database.DB = prev })

	v := &env{
		e:   echo.New(),
		db:  db,
		svc: absence.NewService(db, audit.New(db)),
	}

	v.tenant = models.Tenant{Slug: "alpha", Name: "Alpha Tutoring", Status: "active"}
	mustSeed(t, db, &v.tenant)
	v.parent = models.Parent{TenantID: v.tenant.ID, Email: "parent@example.com", Phone: "0812345678", Password: "x", PdpaOK: true, Name: "Parent A"}
	mustSeed(t, db, &v.parent)
	v.student = models.Student{TenantID: v.tenant.ID, Code: "S001", FirstName: "First", LastName: "Student", Level: "m3", Status: "active"}
	mustSeed(t, db, &v.student)
	mustSeed(t, db, &models.GuardianLink{TenantID: v.tenant.ID, ParentID: v.parent.ID, StudentID: v.student.ID})
	v.tutor = models.Tutor{TenantID: v.tenant.ID, FirstName: "Tutor", LastName: "One", Status: "active"}
	mustSeed(t, db, &v.tutor)
	v.staff = models.User{TenantID: v.tenant.ID, Username: "admin", Password: "x", Role: "admin", Enabled: true}
	mustSeed(t, db, &v.staff)

	start := time.Now().Add(24 * time.Hour)
	v.session = models.Session{TenantID: v.tenant.ID, TutorID: v.tutor.ID, Subject: "Math", StartsAt: start, EndsAt: start.Add(2 * time.Hour), Status: "scheduled"}
	mustSeed(t, db, &v.session)
	mustSeed(t, db, &models.SessionRoster{TenantID: v.tenant.ID, SessionID: v.session.ID, StudentID: v.student.ID})
	return v
}

func mustSeed(t *testing.T, db *gorm.DB, v any) {
	t.Helper()
	if err := db.Create(v).Error; err != nil {
		t.Fatalf("seed %T: %v", v, err)
	}
}

func (v *env) parentActor() absence.Actor {
	return absence.Actor{TenantID: v.tenant.ID, UserID: v.parent.ID, Role: absence.RoleParent}
}

func (v *env) staffActor() absence.Actor {
	return absence.Actor{TenantID: v.tenant.ID, UserID: v.staff.ID, Role: absence.RoleAdmin}
}

type call struct {
	method string
	path   string
	body   any
	actor  *absence.Actor
	params map[string]string
	query  string
}

// invoke — ยิง handler ตรง ๆ ผ่าน echo context ปลอม (ไม่ผ่าน router/middleware)
func (v *env) invoke(t *testing.T, h echo.HandlerFunc, cl call) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if cl.body != nil {
		raw, err := json.Marshal(cl.body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	target := cl.path
	if cl.query != "" {
		target += "?" + cl.query
	}
	req := httptest.NewRequest(cl.method, target, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := v.e.NewContext(req, rec)

	if cl.actor != nil {
		c.Set("user_id", cl.actor.UserID)
		c.Set("tenant_id", cl.actor.TenantID)
		c.Set("role", string(cl.actor.Role))
	}
	if len(cl.params) > 0 {
		names := make([]string, 0, len(cl.params))
		values := make([]string, 0, len(cl.params))
		for k, val := range cl.params {
			names = append(names, k)
			values = append(values, val)
		}
		c.SetParamNames(names...)
		c.SetParamValues(values...)
	}

	if err := h(c); err != nil {
		v.e.HTTPErrorHandler(err, c)
	}
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return out
}
