package absence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lyc2760008/EduHub-sub006/models"
)

func (f *fixture) assistEntry(t *testing.T, studentID uint) RosterEntry {
	t.Helper()
	view, err := f.svc.AttendanceAssist(f.staffActor(), f.session.ID)
	require.NoError(t, err)
	for _, e := range view.Entries {
		if e.StudentID == studentID {
			return e
		}
	}
	t.Fatalf("student %d not in assist view", studentID)
	return RosterEntry{}
}

func TestAssistNoRequest(t *testing.T) {
	f := newFixture(t)

	e := f.assistEntry(t, f.student.ID)
	assert.Nil(t, e.Request)
	assert.Empty(t, e.SuggestedStatus)
	assert.Empty(t, e.MarkedStatus)
	assert.Equal(t, "S001", e.StudentCode)
	assert.Equal(t, "First Student", e.StudentName)
}

func TestAssistPendingBannerOnly(t *testing.T) {
	f := newFixture(t)
	created, err := f.svc.Create(f.parentActor(), f.createInput())
	require.NoError(t, err)

	e := f.assistEntry(t, f.student.ID)
	require.NotNil(t, e.Request)
	assert.Equal(t, created.ID, e.Request.RequestID)
	assert.Equal(t, models.AbsencePending, e.Request.Status)
	assert.Empty(t, e.SuggestedStatus, "pending must not pre-select anything")
}

func TestAssistApprovedSuggestsExcused(t *testing.T) {
	f := newFixture(t)
	created, err := f.svc.Create(f.parentActor(), f.createInput())
	require.NoError(t, err)
	_, err = f.svc.Resolve(f.staffActor(), created.ID, models.AbsenceApproved, f.staff.ID)
	require.NoError(t, err)

	e := f.assistEntry(t, f.student.ID)
	require.NotNil(t, e.Request)
	assert.Equal(t, models.AbsenceApproved, e.Request.Status)
	assert.Equal(t, models.AttendanceExcused, e.SuggestedStatus)
	assert.Empty(t, e.MarkedStatus)
}

func TestAssistDeclinedBannerOnly(t *testing.T) {
	f := newFixture(t)
	created, err := f.svc.Create(f.parentActor(), f.createInput())
	require.NoError(t, err)
	_, err = f.svc.Resolve(f.staffActor(), created.ID, models.AbsenceDeclined, f.staff.ID)
	require.NoError(t, err)

	e := f.assistEntry(t, f.student.ID)
	require.NotNil(t, e.Request)
	assert.Equal(t, models.AbsenceDeclined, e.Request.Status)
	assert.Empty(t, e.SuggestedStatus)
}

func TestAssistWithdrawnInvisible(t *testing.T) {
	f := newFixture(t)
	created, err := f.svc.Create(f.parentActor(), f.createInput())
	require.NoError(t, err)
	_, err = f.svc.Withdraw(f.parentActor(), created.ID)
	require.NoError(t, err)

	e := f.assistEntry(t, f.student.ID)
	assert.Nil(t, e.Request, "withdrawn request must look like no request at all")
	assert.Empty(t, e.SuggestedStatus)
}

// ค่าที่ staff บันทึกเองแล้วต้องชนะ suggest เสมอ
func TestAssistMarkedValueBeatsSuggestion(t *testing.T) {
	f := newFixture(t)
	created, err := f.svc.Create(f.parentActor(), f.createInput())
	require.NoError(t, err)
	_, err = f.svc.Resolve(f.staffActor(), created.ID, models.AbsenceApproved, f.staff.ID)
	require.NoError(t, err)

	mustCreate(t, f.db, &models.Attendance{
		TenantID:       f.tenant.ID,
		SessionID:      f.session.ID,
		StudentID:      f.student.ID,
		Status:         models.AttendancePresent,
		MarkedByUserID: f.staff.ID,
	})

	e := f.assistEntry(t, f.student.ID)
	assert.Equal(t, models.AttendancePresent, e.MarkedStatus)
	assert.Empty(t, e.SuggestedStatus)
	require.NotNil(t, e.Request) // banner ยังอยู่ แค่ไม่ suggest ทับ
}

// เปิดหน้าเช็กชื่อกี่ครั้งก็ห้ามมีแถว attendance เกิดขึ้นเอง
func TestAssistNeverPersists(t *testing.T) {
	f := newFixture(t)
	created, err := f.svc.Create(f.parentActor(), f.createInput())
	require.NoError(t, err)
	_, err = f.svc.Resolve(f.staffActor(), created.ID, models.AbsenceApproved, f.staff.ID)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := f.svc.AttendanceAssist(f.staffActor(), f.session.ID)
		require.NoError(t, err)
	}

	var count int64
	require.NoError(t, f.db.Model(&models.Attendance{}).Count(&count).Error)
	assert.Zero(t, count)

	// และไม่มี audit เพิ่มจากการอ่าน
	assert.Len(t, f.auditRows(t), 2)
}

func TestAssistParentForbidden(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.AttendanceAssist(f.parentActor(), f.session.ID)
	var forbidden *ForbiddenError
	require.ErrorAs(t, err, &forbidden)
	assert.Equal(t, ReasonStaffOnly, forbidden.Reason)
}

func TestAssistCrossTenantSession(t *testing.T) {
	f := newFixture(t)
	outsider := Actor{TenantID: f.other.ID, UserID: 1, Role: RoleAdmin}
	_, err := f.svc.AttendanceAssist(outsider, f.session.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
