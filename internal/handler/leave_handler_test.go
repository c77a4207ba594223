package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrms-suite/ledger-api/internal/middleware"
	"github.com/hrms-suite/ledger-api/internal/models"
	"github.com/hrms-suite/ledger-api/internal/service"
)

type leaveServiceMock struct {
	created      *models.LeaveRequest
	createErr    error
	lastDecision service.LeaveDecision
}

func (m *leaveServiceMock) Create(ctx context.Context, actor models.JWTClaims, sub service.LeaveSubmission) (*models.LeaveRequest, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	return m.created, nil
}

func (m *leaveServiceMock) Get(ctx context.Context, actor models.JWTClaims, id string) (*models.LeaveRequest, error) {
	return m.created, nil
}

func (m *leaveServiceMock) List(ctx context.Context, actor models.JWTClaims, req service.LeaveListRequest) ([]models.LeaveRow, *models.Pagination, error) {
	return []models.LeaveRow{}, &models.Pagination{Page: 1, PageSize: 50}, nil
}

func (m *leaveServiceMock) Update(ctx context.Context, actor models.JWTClaims, id string, sub service.LeaveSubmission) (*models.LeaveRequest, error) {
	return m.created, nil
}

func (m *leaveServiceMock) Delete(ctx context.Context, actor models.JWTClaims, id string) error {
	return nil
}

func (m *leaveServiceMock) SetStatus(ctx context.Context, actor models.JWTClaims, id string, decision service.LeaveDecision) (*models.LeaveRequest, error) {
	m.lastDecision = decision
	return m.created, nil
}

func newLeaveTestContext(t *testing.T, method, target, body string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, err := http.NewRequest(method, target, bytes.NewBufferString(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "emp-1", Role: models.RoleEmployee})
	return c, w
}

func TestLeaveHandlerCreateInvalidBody(t *testing.T) {
	handler := NewLeaveHandler(&leaveServiceMock{})
	c, w := newLeaveTestContext(t, http.MethodPost, "/leaves", `not json`)

	handler.Create(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLeaveHandlerCreateBadDateFormat(t *testing.T) {
	handler := NewLeaveHandler(&leaveServiceMock{})
	c, w := newLeaveTestContext(t, http.MethodPost, "/leaves",
		`{"from":"12-04-2026","to":"2026-04-15","type":"Paid","reason":"Family function out of town"}`)

	handler.Create(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "YYYY-MM-DD")
}

func TestLeaveHandlerCreateSuccess(t *testing.T) {
	created := &models.LeaveRequest{
		ID:       "lr-1",
		OwnerID:  "emp-1",
		FromDate: time.Date(2026, time.April, 12, 0, 0, 0, 0, time.UTC),
		ToDate:   time.Date(2026, time.April, 15, 0, 0, 0, 0, time.UTC),
		Days:     4,
		Type:     models.LeaveTypePaid,
		Status:   models.LeaveStatusPending,
	}
	handler := NewLeaveHandler(&leaveServiceMock{created: created})
	c, w := newLeaveTestContext(t, http.MethodPost, "/leaves",
		`{"from":"2026-04-12","to":"2026-04-15","type":"Paid","reason":"Family function out of town"}`)

	handler.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"lr-1"`)
	assert.Contains(t, w.Body.String(), `"days":4`)
}

func TestLeaveHandlerSetStatusMissingStatus(t *testing.T) {
	handler := NewLeaveHandler(&leaveServiceMock{})
	c, w := newLeaveTestContext(t, http.MethodPatch, "/leaves/lr-1/status", `{"remark":"no status"}`)
	c.Params = gin.Params{{Key: "id", Value: "lr-1"}}

	handler.SetStatus(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLeaveHandlerSetStatusForwardsDecision(t *testing.T) {
	mock := &leaveServiceMock{created: &models.LeaveRequest{ID: "lr-1", Status: models.LeaveStatusRejected}}
	handler := NewLeaveHandler(mock)
	c, w := newLeaveTestContext(t, http.MethodPatch, "/leaves/lr-1/status", `{"status":"Rejected","remark":"Roster is full that week"}`)
	c.Params = gin.Params{{Key: "id", Value: "lr-1"}}

	handler.SetStatus(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.LeaveStatusRejected, mock.lastDecision.Status)
	assert.Equal(t, "Roster is full that week", mock.lastDecision.Remark)
}
