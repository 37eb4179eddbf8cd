package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lyc2760008/EduHub-sub006/models"
)

func TestAttendanceViewSuggestion(t *testing.T) {
	v := newEnv(t)
	h := NewAttendanceHandler(v.svc)
	id := v.createRequest(t)
	_, err := v.svc.Resolve(v.staffActor(), id, models.AbsenceApproved, v.staff.ID)
	require.NoError(t, err)
	act := v.staffActor()

	rec := v.invoke(t, h.SessionView, call{
		method: http.MethodGet,
		path:   "/staff/sessions/:id/attendance",
		actor:  &act,
		params: map[string]string{"id": fmt.Sprint(v.session.ID)},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decodeBody(t, rec)
	entries := body["entries"].([]any)
	require.Len(t, entries, 1)
	entry := entries[0].(map[string]any)
	assert.Equal(t, "EXCUSED", entry["suggested_status"])
	assert.Equal(t, "", entry["marked_status"])
	banner := entry["absence_request"].(map[string]any)
	assert.Equal(t, "APPROVED", banner["status"])

	// เนื้อหา message ต้องไม่โผล่ใน response หน้าเช็กชื่อ
	assert.NotContains(t, rec.Body.String(), "fever")

	// เปิดดูอย่างเดียวห้ามสร้างแถว attendance
	var count int64
	require.NoError(t, v.db.Model(&models.Attendance{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestAttendanceSubmitThenView(t *testing.T) {
	v := newEnv(t)
	h := NewAttendanceHandler(v.svc)
	act := v.staffActor()

	rec := v.invoke(t, h.Submit, call{
		method: http.MethodPost,
		path:   "/staff/sessions/:id/attendance",
		actor:  &act,
		params: map[string]string{"id": fmt.Sprint(v.session.ID)},
		body: map[string]any{
			"entries": []map[string]any{
				{"student_id": v.student.ID, "status": "LATE", "note": "10 min"},
			},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.EqualValues(t, 1, decodeBody(t, rec)["saved"])

	rec = v.invoke(t, h.SessionView, call{
		method: http.MethodGet,
		path:   "/staff/sessions/:id/attendance",
		actor:  &act,
		params: map[string]string{"id": fmt.Sprint(v.session.ID)},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	entry := decodeBody(t, rec)["entries"].([]any)[0].(map[string]any)
	assert.Equal(t, "LATE", entry["marked_status"])
	assert.Nil(t, entry["suggested_status"])
}

// submit ซ้ำคนเดิม = แก้ค่าเดิม ไม่ใช่เพิ่มแถว
func TestAttendanceSubmitUpsert(t *testing.T) {
	v := newEnv(t)
	h := NewAttendanceHandler(v.svc)
	act := v.staffActor()

	for _, status := range []string{"ABSENT", "PRESENT"} {
		rec := v.invoke(t, h.Submit, call{
			method: http.MethodPost,
			path:   "/staff/sessions/:id/attendance",
			actor:  &act,
			params: map[string]string{"id": fmt.Sprint(v.session.ID)},
			body: map[string]any{
				"entries": []map[string]any{{"student_id": v.student.ID, "status": status}},
			},
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}

	var rows []models.Attendance
	require.NoError(t, v.db.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, models.AttendancePresent, rows[0].Status)
}

func TestAttendanceSubmitRejectsNonRoster(t *testing.T) {
	v := newEnv(t)
	h := NewAttendanceHandler(v.svc)
	other := models.Student{TenantID: v.tenant.ID, Code: "S002", FirstName: "Off", LastName: "Roster", Level: "m2", Status: "active"}
	mustSeed(t, v.db, &other)
	act := v.staffActor()

	rec := v.invoke(t, h.Submit, call{
		method: http.MethodPost,
		path:   "/staff/sessions/:id/attendance",
		actor:  &act,
		params: map[string]string{"id": fmt.Sprint(v.session.ID)},
		body: map[string]any{
			"entries": []map[string]any{{"student_id": other.ID, "status": "PRESENT"}},
		},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "STUDENT_NOT_ON_ROSTER", decodeBody(t, rec)["error"])
}

func TestAttendanceSubmitBadStatus(t *testing.T) {
	v := newEnv(t)
	h := NewAttendanceHandler(v.svc)
	act := v.staffActor()

	rec := v.invoke(t, h.Submit, call{
		method: http.MethodPost,
		path:   "/staff/sessions/:id/attendance",
		actor:  &act,
		params: map[string]string{"id": fmt.Sprint(v.session.ID)},
		body: map[string]any{
			"entries": []map[string]any{{"student_id": v.student.ID, "status": "SLEEPING"}},
		},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAttendanceViewParentForbidden(t *testing.T) {
	v := newEnv(t)
	h := NewAttendanceHandler(v.svc)
	act := v.parentActor()

	rec := v.invoke(t, h.SessionView, call{
		method: http.MethodGet,
		path:   "/staff/sessions/:id/attendance",
		actor:  &act,
		params: map[string]string{"id": fmt.Sprint(v.session.ID)},
	})
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "STAFF_ONLY", decodeBody(t, rec)["reason"])
}

func TestAttendanceListStatusFilter(t *testing.T) {
	v := newEnv(t)
	h := NewAttendanceHandler(v.svc)
	mustSeed(t, v.db, &models.Attendance{
		TenantID: v.tenant.ID, SessionID: v.session.ID, StudentID: v.student.ID,
		Status: models.AttendanceLate, MarkedByUserID: v.staff.ID,
	})
	act := v.staffActor()

	rec := v.invoke(t, h.List, call{
		method: http.MethodGet,
		path:   "/staff/attendance",
		actor:  &act,
		query:  "statuses=" + strings.Join([]string{"PRESENT", "LATE"}, ","),
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"LATE"`)
}
