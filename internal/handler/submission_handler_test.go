package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/streetbars/streetbars-api/internal/dto"
	"github.com/streetbars/streetbars-api/internal/handler"
	"github.com/streetbars/streetbars-api/internal/models"
	"github.com/streetbars/streetbars-api/internal/service"
)

type mockSubmissionService struct {
	lastCaller uuid.UUID
	lastCreate dto.SubmissionCreateRequest
	response   dto.SubmissionResponse
	list       dto.SubmissionListResponse
	err        error
}

func (m *mockSubmissionService) List(_ context.Context, callerID uuid.UUID, req dto.SubmissionListRequest) (dto.SubmissionListResponse, error) {
	m.lastCaller = callerID
	if m.err != nil {
		return dto.SubmissionListResponse{}, m.err
	}
	return m.list, nil
}

func (m *mockSubmissionService) Create(_ context.Context, callerID uuid.UUID, req dto.SubmissionCreateRequest) (dto.SubmissionResponse, error) {
	m.lastCaller = callerID
	m.lastCreate = req
	if m.err != nil {
		return dto.SubmissionResponse{}, m.err
	}
	return m.response, nil
}

func (m *mockSubmissionService) Edit(_ context.Context, id, callerID uuid.UUID, req dto.SubmissionUpdateRequest) (dto.SubmissionResponse, error) {
	m.lastCaller = callerID
	if m.err != nil {
		return dto.SubmissionResponse{}, m.err
	}
	return m.response, nil
}

func newSubmissionTestApp(svc service.SubmissionService, user uuid.UUID) *fiber.App {
	app := fiber.New()
	handler.NewSubmissionHandler(svc, testLogger()).Register(app.Group("/api/v1/submissions", authStub(user)))
	return app
}

func TestSubmissionHandler_Create(t *testing.T) {
	user := uuid.New()
	svc := &mockSubmissionService{response: dto.SubmissionResponse{
		ID:     uuid.New(),
		Status: models.SubmissionStatusPending,
	}}
	app := newSubmissionTestApp(svc, user)

	payload, err := json.Marshal(map[string]interface{}{
		"entity_type": "skill",
		"action":      "create",
		"data":        map[string]interface{}{"title": "Muscle Up", "level": "advanced", "difficulty": 8},
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/submissions", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	require.Equal(t, user, svc.lastCaller)
	require.Equal(t, models.EntityTypeSkill, svc.lastCreate.EntityType)

	var body dto.SubmissionResponse
	decodeResponse(t, resp, &body)
	require.Equal(t, models.SubmissionStatusPending, body.Status)
}

func TestSubmissionHandler_CreateInvalidPayload(t *testing.T) {
	svc := &mockSubmissionService{err: service.ErrInvalidPayload}
	app := newSubmissionTestApp(svc, uuid.New())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/submissions", bytes.NewReader([]byte(`{"entity_type":"skill","action":"create","data":{}}`)))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var body struct {
		Error string `json:"error"`
	}
	decodeResponse(t, resp, &body)
	require.NotEmpty(t, body.Error)
}

func TestSubmissionHandler_List(t *testing.T) {
	user := uuid.New()
	svc := &mockSubmissionService{list: dto.SubmissionListResponse{
		Data:       []dto.SubmissionResponse{{ID: uuid.New(), SubmittedBy: user}},
		Pagination: dto.NewPaginationMeta(1, 20, 1),
	}}
	app := newSubmissionTestApp(svc, user)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/submissions?status=pending", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, user, svc.lastCaller)
}

func TestSubmissionHandler_EditNotEditable(t *testing.T) {
	svc := &mockSubmissionService{err: service.ErrNotEditable}
	app := newSubmissionTestApp(svc, uuid.New())

	req := httptest.NewRequest(http.MethodPut, "/api/v1/submissions/"+uuid.NewString(), bytes.NewReader([]byte(`{"data":{"difficulty":9}}`)))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode, "non-editable and missing submissions look identical")
}
