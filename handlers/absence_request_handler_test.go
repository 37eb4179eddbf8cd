package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lyc2760008/EduHub-sub006/absence"
	"github.com/lyc2760008/EduHub-sub006/models"
)

func (v *env) createRequest(t *testing.T) uint {
	t.Helper()
	row, err := v.svc.Create(v.parentActor(), absence.CreateInput{
		SessionID:  v.session.ID,
		StudentID:  v.student.ID,
		ReasonCode: "SICK",
		Message:    "fever",
	})
	require.NoError(t, err)
	return row.ID
}

func TestAbsenceCreateEndpoint(t *testing.T) {
	v := newEnv(t)
	h := NewAbsenceRequestHandler(v.svc)
	act := v.parentActor()

	rec := v.invoke(t, h.Create, call{
		method: http.MethodPost,
		path:   "/parent/absence-requests",
		actor:  &act,
		body: map[string]any{
			"session_id":  v.session.ID,
			"student_id":  v.student.ID,
			"reason_code": "SICK",
			"message":     "fever",
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	assert.Equal(t, "PENDING", body["status"])
	assert.NotZero(t, body["id"])
}

func TestAbsenceCreateEndpointDuplicate(t *testing.T) {
	v := newEnv(t)
	h := NewAbsenceRequestHandler(v.svc)
	v.createRequest(t)
	act := v.parentActor()

	rec := v.invoke(t, h.Create, call{
		method: http.MethodPost,
		path:   "/parent/absence-requests",
		actor:  &act,
		body: map[string]any{
			"session_id":  v.session.ID,
			"student_id":  v.student.ID,
			"reason_code": "SICK",
		},
	})
	require.Equal(t, http.StatusConflict, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "CONFLICT", body["error"])
	assert.Equal(t, "DUPLICATE_REQUEST", body["reason"])
	assert.Equal(t, "PENDING", body["current_status"])
}

func TestAbsenceCreateEndpointUnlinkedStudent(t *testing.T) {
	v := newEnv(t)
	h := NewAbsenceRequestHandler(v.svc)

	other := models.Student{TenantID: v.tenant.ID, Code: "S002", FirstName: "No", LastName: "Link", Level: "m1", Status: "active"}
	mustSeed(t, v.db, &other)
	act := v.parentActor()

	rec := v.invoke(t, h.Create, call{
		method: http.MethodPost,
		path:   "/parent/absence-requests",
		actor:  &act,
		body: map[string]any{
			"session_id":  v.session.ID,
			"student_id":  other.ID,
			"reason_code": "SICK",
		},
	})
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", decodeBody(t, rec)["error"])
}

func TestAbsenceCreateEndpointMissingReason(t *testing.T) {
	v := newEnv(t)
	h := NewAbsenceRequestHandler(v.svc)
	act := v.parentActor()

	rec := v.invoke(t, h.Create, call{
		method: http.MethodPost,
		path:   "/parent/absence-requests",
		actor:  &act,
		body: map[string]any{
			"session_id": v.session.ID,
			"student_id": v.student.ID,
		},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", decodeBody(t, rec)["error"])
}

func TestAbsenceCreateEndpointNoActor(t *testing.T) {
	v := newEnv(t)
	h := NewAbsenceRequestHandler(v.svc)

	rec := v.invoke(t, h.Create, call{
		method: http.MethodPost,
		path:   "/parent/absence-requests",
		body:   map[string]any{"session_id": 1, "student_id": 1, "reason_code": "SICK"},
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAbsenceResolveEndpoint(t *testing.T) {
	v := newEnv(t)
	h := NewAbsenceRequestHandler(v.svc)
	id := v.createRequest(t)
	act := v.staffActor()

	rec := v.invoke(t, h.Resolve, call{
		method: http.MethodPost,
		path:   "/staff/absence-requests/:id/resolve",
		actor:  &act,
		params: map[string]string{"id": fmt.Sprint(id)},
		body:   map[string]any{"status": "APPROVED"},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	assert.Equal(t, "APPROVED", body["status"])
	assert.NotNil(t, body["resolved_at"])
	assert.EqualValues(t, v.staff.ID, body["resolved_by_user_id"])
}

func TestAbsenceResolveEndpointBadDecision(t *testing.T) {
	v := newEnv(t)
	h := NewAbsenceRequestHandler(v.svc)
	id := v.createRequest(t)
	act := v.staffActor()

	// oneof ใน validator ดักก่อนถึง service
	rec := v.invoke(t, h.Resolve, call{
		method: http.MethodPost,
		path:   "/staff/absence-requests/:id/resolve",
		actor:  &act,
		params: map[string]string{"id": fmt.Sprint(id)},
		body:   map[string]any{"status": "MAYBE"},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAbsenceResolveEndpointAfterWithdraw(t *testing.T) {
	v := newEnv(t)
	h := NewAbsenceRequestHandler(v.svc)
	id := v.createRequest(t)
	_, err := v.svc.Withdraw(v.parentActor(), id)
	require.NoError(t, err)
	act := v.staffActor()

	rec := v.invoke(t, h.Resolve, call{
		method: http.MethodPost,
		path:   "/staff/absence-requests/:id/resolve",
		actor:  &act,
		params: map[string]string{"id": fmt.Sprint(id)},
		body:   map[string]any{"status": "DECLINED"},
	})
	require.Equal(t, http.StatusConflict, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "REQUEST_WITHDRAWN_NOT_RESOLVABLE", body["reason"])
	assert.Equal(t, "WITHDRAWN", body["current_status"])
}

func TestAbsenceWithdrawResubmitEndpoints(t *testing.T) {
	v := newEnv(t)
	h := NewAbsenceRequestHandler(v.svc)
	id := v.createRequest(t)
	act := v.parentActor()

	rec := v.invoke(t, h.Withdraw, call{
		method: http.MethodPost,
		path:   "/parent/absence-requests/:id/withdraw",
		actor:  &act,
		params: map[string]string{"id": fmt.Sprint(id)},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "WITHDRAWN", decodeBody(t, rec)["status"])

	rec = v.invoke(t, h.Resubmit, call{
		method: http.MethodPost,
		path:   "/parent/absence-requests/:id/resubmit",
		actor:  &act,
		params: map[string]string{"id": fmt.Sprint(id)},
		body:   map[string]any{"reason_code": "FAMILY", "message": "changed plans"},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	assert.EqualValues(t, id, body["id"])
	assert.Equal(t, "PENDING", body["status"])
	assert.Equal(t, "FAMILY", body["reason_code"])
}

func TestAbsenceListEndpointFilters(t *testing.T) {
	v := newEnv(t)
	h := NewAbsenceRequestHandler(v.svc)
	id := v.createRequest(t)
	_, err := v.svc.Resolve(v.staffActor(), id, models.AbsenceApproved, v.staff.ID)
	require.NoError(t, err)
	act := v.staffActor()

	rec := v.invoke(t, h.List, call{
		method: http.MethodGet,
		path:   "/staff/absence-requests",
		actor:  &act,
		query:  "status=APPROVED",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.EqualValues(t, 1, body["total"])

	rec = v.invoke(t, h.List, call{
		method: http.MethodGet,
		path:   "/staff/absence-requests",
		actor:  &act,
		query:  "status=PENDING",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 0, decodeBody(t, rec)["total"])
}

func TestAbsencePendingCountEndpoint(t *testing.T) {
	v := newEnv(t)
	h := NewAbsenceRequestHandler(v.svc)
	v.createRequest(t)
	act := v.staffActor()

	rec := v.invoke(t, h.PendingCount, call{
		method: http.MethodGet,
		path:   "/staff/absence-requests/pending-count",
		actor:  &act,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, decodeBody(t, rec)["count"])
}

func TestAbsenceGetEndpointCrossTenant(t *testing.T) {
	v := newEnv(t)
	h := NewAbsenceRequestHandler(v.svc)
	id := v.createRequest(t)

	other := models.Tenant{Slug: "beta", Name: "Beta", Status: "active"}
	mustSeed(t, v.db, &other)
	outsider := absence.Actor{TenantID: other.ID, UserID: 9, Role: absence.RoleOwner}

	rec := v.invoke(t, h.Get, call{
		method: http.MethodGet,
		path:   "/staff/absence-requests/:id",
		actor:  &outsider,
		params: map[string]string{"id": fmt.Sprint(id)},
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
