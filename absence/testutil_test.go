package absence

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/lyc2760008/EduHub-sub006/audit"
	"github.com/lyc2760008/EduHub-sub006/database"
	"github.com/lyc2760008/EduHub-sub006/models"
)

// sqlite in-memory ต่อ 1 เทสต์ — จำกัด 1 connection ไม่งั้น :memory: ได้คนละ DB
func newTestDB(t *testing.T) *gorm.DB {
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
	return db
}

type fixture struct {
	db  *gorm.DB
	svc *Service

	tenant  models.Tenant
	other   models.Tenant
	parent  models.Parent
	student models.Student
	tutor   models.Tutor
	staff   models.User
	session models.Session // เริ่มพรุ่งนี้
}

// newFixture เซ็ตข้อมูลมาตรฐาน: ศูนย์ 1 แห่ง + parent มี link กับ student
// และ session พรุ่งนี้ที่ student อยู่ใน roster
func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{db: newTestDB(t)}
	f.svc = NewService(f.db, audit.New(f.db))

	f.tenant = models.Tenant{Slug: "alpha", Name: "Alpha Tutoring", Status: "active"}
	f.other = models.Tenant{Slug: "beta", Name: "Beta Tutoring", Status: "active"}
	mustCreate(t, f.db, &f.tenant)
	mustCreate(t, f.db, &f.other)

	f.parent = models.Parent{TenantID: f.tenant.ID, Email: "parent@example.com", Phone: "0812345678", Password: "x", PdpaOK: true, Name: "Parent A"}
	mustCreate(t, f.db, &f.parent)

	f.student = models.Student{TenantID: f.tenant.ID, Code: "S001", FirstName: "First", LastName: "Student", Level: "m3", Status: "active"}
	mustCreate(t, f.db, &f.student)

	mustCreate(t, f.db, &models.GuardianLink{TenantID: f.tenant.ID, ParentID: f.parent.ID, StudentID: f.student.ID})

	f.tutor = models.Tutor{TenantID: f.tenant.ID, FirstName: "Tutor", LastName: "One", Status: "active"}
	mustCreate(t, f.db, &f.tutor)

	f.staff = models.User{TenantID: f.tenant.ID, Username: "admin", Password: "x", Role: "admin", Enabled: true}
	mustCreate(t, f.db, &f.staff)

	f.session = f.addSession(t, time.Now().Add(24*time.Hour))
	f.addToRoster(t, f.session.ID, f.student.ID)
	return f
}

func mustCreate(t *testing.T, db *gorm.DB, v any) {
	t.Helper()
	if err := db.Create(v).Error; err != nil {
		t.Fatalf("create %T: %v", v, err)
	}
}

func (f *fixture) addSession(t *testing.T, startsAt time.Time) models.Session {
	t.Helper()
	s := models.Session{
		TenantID: f.tenant.ID,
		TutorID:  f.tutor.ID,
		Subject:  "Math",
		StartsAt: startsAt,
		EndsAt:   startsAt.Add(2 * time.Hour),
		Status:   "scheduled",
	}
	mustCreate(t, f.db, &s)
	return s
}

func (f *fixture) addToRoster(t *testing.T, sessionID, studentID uint) {
	t.Helper()
	mustCreate(t, f.db, &models.SessionRoster{TenantID: f.tenant.ID, SessionID: sessionID, StudentID: studentID})
}

func (f *fixture) parentActor() Actor {
	return Actor{TenantID: f.tenant.ID, UserID: f.parent.ID, Role: RoleParent}
}

func (f *fixture) staffActor() Actor {
	return Actor{TenantID: f.tenant.ID, UserID: f.staff.ID, Role: RoleAdmin}
}

func (f *fixture) createInput() CreateInput {
	return CreateInput{
		SessionID:  f.session.ID,
		StudentID:  f.student.ID,
		ReasonCode: "SICK",
		Message:    "fever since last night",
	}
}

func (f *fixture) auditRows(t *testing.T) []models.AuditLog {
	t.Helper()
	var rows []models.AuditLog
	if err := f.db.Order("id ASC").Find(&rows).Error; err != nil {
		t.Fatalf("load audit rows: %v", err)
	}
	return rows
}
