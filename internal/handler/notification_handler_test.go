package handler

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/praxislab/praxis-go-api/internal/dto"
	"github.com/praxislab/praxis-go-api/internal/service"
)

type stubNotificationService struct {
	lastUnreadOnly bool
	lastLimit      int
	lastOffset     int
}

func (s *stubNotificationService) Create(_ context.Context, _ service.Principal, _ dto.NotificationCreateRequest) (dto.NotificationResponse, error) {
	return dto.NotificationResponse{}, nil
}

func (s *stubNotificationService) List(_ context.Context, _ uint, unreadOnly bool, limit, offset int) ([]dto.NotificationResponse, error) {
	s.lastUnreadOnly = unreadOnly
	s.lastLimit = limit
	s.lastOffset = offset
	return nil, nil
}

func (s *stubNotificationService) MarkRead(_ context.Context, _, _ uint) (dto.NotificationResponse, error) {
	return dto.NotificationResponse{}, nil
}

func (s *stubNotificationService) UnreadCount(_ context.Context, _ uint) (dto.UnreadCountResponse, error) {
	return dto.UnreadCountResponse{}, nil
}

func (s *stubNotificationService) Subscribe(_ uint) (<-chan dto.NotificationResponse, func()) {
	stream := make(chan dto.NotificationResponse)
	close(stream)
	return stream, func() {}
}

func (s *stubNotificationService) Start(_ context.Context) {}

func newNotificationTestApp(svc service.NotificationService) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", uint(2))
		c.Locals("user_role", "student")
		return c.Next()
	})
	h := NewNotificationHandler(svc, zerolog.New(io.Discard), 0)
	h.Register(app.Group("/notifications"))
	return app
}

func TestNotificationListReadsUnreadOnlyFilter(t *testing.T) {
	svc := &stubNotificationService{}
	app := newNotificationTestApp(svc)

	req := httptest.NewRequest(http.MethodGet, "/notifications/?unread_only=true&limit=5", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.True(t, svc.lastUnreadOnly)
	require.Equal(t, 5, svc.lastLimit)
}

func TestNotificationListDefaultsToAll(t *testing.T) {
	svc := &stubNotificationService{}
	app := newNotificationTestApp(svc)

	req := httptest.NewRequest(http.MethodGet, "/notifications/", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.False(t, svc.lastUnreadOnly)
	require.Zero(t, svc.lastLimit)
}
