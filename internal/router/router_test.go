package router_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/streetbars/streetbars-api/internal/config"
	"github.com/streetbars/streetbars-api/internal/dto"
	"github.com/streetbars/streetbars-api/internal/handler"
	"github.com/streetbars/streetbars-api/internal/middleware"
	"github.com/streetbars/streetbars-api/internal/router"
)

const routerTestSecret = "router-test-secret"

type stubSkillService struct{}

func (stubSkillService) List(context.Context, dto.SkillListRequest) (dto.SkillListResponse, error) {
	return dto.SkillListResponse{Data: []dto.SkillResponse{}, Pagination: dto.NewPaginationMeta(1, 20, 0)}, nil
}

func (stubSkillService) Get(context.Context, uuid.UUID) (dto.SkillDetailResponse, error) {
	return dto.SkillDetailResponse{}, nil
}

func (stubSkillService) Update(context.Context, uuid.UUID, dto.SkillUpdateRequest, uuid.UUID) (dto.SkillResponse, error) {
	return dto.SkillResponse{}, nil
}

func (stubSkillService) Delete(context.Context, uuid.UUID, uuid.UUID) error { return nil }

type stubPlaceService struct{}

func (stubPlaceService) List(context.Context, dto.PlaceListRequest) (dto.PlaceListResponse, error) {
	return dto.PlaceListResponse{Data: []dto.PlaceResponse{}, Pagination: dto.NewPaginationMeta(1, 20, 0)}, nil
}

func (stubPlaceService) Get(context.Context, uuid.UUID, uuid.UUID) (dto.PlaceDetailResponse, error) {
	return dto.PlaceDetailResponse{}, nil
}

func (stubPlaceService) Update(context.Context, uuid.UUID, dto.PlaceUpdateRequest, uuid.UUID) (dto.PlaceResponse, error) {
	return dto.PlaceResponse{}, nil
}

func (stubPlaceService) Delete(context.Context, uuid.UUID, uuid.UUID) error { return nil }

func (stubPlaceService) ToggleUpvote(context.Context, uuid.UUID, uuid.UUID) (dto.UpvoteResponse, error) {
	return dto.UpvoteResponse{Upvoted: true}, nil
}

func newRouterTestApp() *fiber.App {
	logger := zerolog.New(io.Discard)
	app := fiber.New()
	router.Register(app, config.Config{AppName: "streetbars-test"}, router.Dependencies{
		SkillHandler:  handler.NewSkillHandler(stubSkillService{}, logger),
		PlaceHandler:  handler.NewPlaceHandler(stubPlaceService{}, logger),
		JWTMiddleware: middleware.JWTProtected(routerTestSecret),
	})
	return app
}

func bearerToken(t *testing.T) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": uuid.NewString()})
	signed, err := token.SignedString([]byte(routerTestSecret))
	require.NoError(t, err)
	return "Bearer " + signed
}

func TestCatalogueReadsRequireAuthentication(t *testing.T) {
	app := newRouterTestApp()

	paths := []string{
		"/api/v1/skills",
		"/api/v1/skills/" + uuid.NewString(),
		"/api/v1/places",
		"/api/v1/places/" + uuid.NewString(),
	}

	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
			require.NoError(t, err)
			require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

			req := httptest.NewRequest(http.MethodGet, path, nil)
			req.Header.Set("Authorization", bearerToken(t))
			resp, err = app.Test(req)
			require.NoError(t, err)
			require.Equal(t, fiber.StatusOK, resp.StatusCode)
		})
	}
}

func TestUpvoteRequiresAuthentication(t *testing.T) {
	app := newRouterTestApp()

	path := "/api/v1/places/" + uuid.NewString() + "/upvote"
	resp, err := app.Test(httptest.NewRequest(http.MethodPost, path, nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req := httptest.NewRequest(http.MethodPost, path, nil)
	req.Header.Set("Authorization", bearerToken(t))
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestHealthStaysPublic(t *testing.T) {
	app := newRouterTestApp()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}
