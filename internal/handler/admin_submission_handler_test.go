package handler_test

import (
	"context"
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

type mockModerationService struct {
	lastReviewer uuid.UUID
	response     dto.SubmissionResponse
	err          error
}

func (m *mockModerationService) Approve(_ context.Context, submissionID, reviewerID uuid.UUID) (dto.SubmissionResponse, error) {
	m.lastReviewer = reviewerID
	if m.err != nil {
		return dto.SubmissionResponse{}, m.err
	}
	return m.response, nil
}

func (m *mockModerationService) Reject(_ context.Context, submissionID, reviewerID uuid.UUID) (dto.SubmissionResponse, error) {
	m.lastReviewer = reviewerID
	if m.err != nil {
		return dto.SubmissionResponse{}, m.err
	}
	return m.response, nil
}

func newModerationTestApp(svc service.ModerationService, admin uuid.UUID) *fiber.App {
	app := fiber.New()
	handler.NewAdminSubmissionHandler(svc, testLogger()).Register(app.Group("/api/v1/admin/submissions", authStub(admin)))
	return app
}

func TestAdminSubmissionHandler_Approve(t *testing.T) {
	admin := uuid.New()
	svc := &mockModerationService{response: dto.SubmissionResponse{
		ID:         uuid.New(),
		Status:     models.SubmissionStatusApproved,
		ReviewedBy: &admin,
	}}
	app := newModerationTestApp(svc, admin)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/v1/admin/submissions/"+uuid.NewString()+"/approve", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, admin, svc.lastReviewer)

	var body dto.SubmissionResponse
	decodeResponse(t, resp, &body)
	require.Equal(t, models.SubmissionStatusApproved, body.Status)
}

func TestAdminSubmissionHandler_ResolutionErrors(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"already resolved", service.ErrAlreadyResolved, fiber.StatusConflict},
		{"missing", service.ErrNotFound, fiber.StatusNotFound},
		{"invalid payload", service.ErrInvalidPayload, fiber.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := newModerationTestApp(&mockModerationService{err: tc.err}, uuid.New())

			resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/v1/admin/submissions/"+uuid.NewString()+"/reject", nil))
			require.NoError(t, err)
			require.Equal(t, tc.status, resp.StatusCode)
		})
	}
}
