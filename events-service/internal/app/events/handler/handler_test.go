package handler

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"eventhub/events-service/internal/app/events/entity"
	"eventhub/events-service/internal/app/events/infrastructure"
	"eventhub/events-service/internal/app/events/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type MockEventService struct {
	mock.Mock
}

func (m *MockEventService) ListEvents(ctx context.Context) ([]entity.Event, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Event), args.Error(1)
}

func (m *MockEventService) CreateEvent(ctx context.Context, identity entity.Identity, req *entity.CreateEventRequest, upload *service.ImageUpload) (*entity.Event, error) {
	args := m.Called(ctx, identity, req, upload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Event), args.Error(1)
}

func (m *MockEventService) GetEvent(ctx context.Context, eventID uuid.UUID) (*entity.EventWithReviews, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.EventWithReviews), args.Error(1)
}

func (m *MockEventService) UpdateEvent(ctx context.Context, identity entity.Identity, eventID uuid.UUID, req *entity.UpdateEventRequest, upload *service.ImageUpload) (*entity.Event, error) {
	args := m.Called(ctx, identity, eventID, req, upload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Event), args.Error(1)
}

func (m *MockEventService) DeleteEvent(ctx context.Context, identity entity.Identity, eventID uuid.UUID) error {
	args := m.Called(ctx, identity, eventID)
	return args.Error(0)
}

func (m *MockEventService) OpenImage(ctx context.Context, filename string) (*infrastructure.ImageObject, error) {
	args := m.Called(ctx, filename)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*infrastructure.ImageObject), args.Error(1)
}

func (m *MockEventService) RegisterForEvent(ctx context.Context, identity entity.Identity, eventID uuid.UUID) (*entity.Membership, error) {
	args := m.Called(ctx, identity, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Membership), args.Error(1)
}

func (m *MockEventService) UnregisterFromEvent(ctx context.Context, identity entity.Identity, eventID uuid.UUID) error {
	args := m.Called(ctx, identity, eventID)
	return args.Error(0)
}

func (m *MockEventService) GetAnalytics(ctx context.Context, identity entity.Identity, eventID uuid.UUID) (*entity.EventAnalytics, error) {
	args := m.Called(ctx, identity, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.EventAnalytics), args.Error(1)
}

type MockReviewService struct {
	mock.Mock
}

func (m *MockReviewService) CreateReview(ctx context.Context, identity entity.Identity, eventID uuid.UUID, req *entity.CreateReviewRequest) (*entity.Review, error) {
	args := m.Called(ctx, identity, eventID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Review), args.Error(1)
}

func (m *MockReviewService) DeleteReview(ctx context.Context, identity entity.Identity, eventID, reviewID uuid.UUID) error {
	args := m.Called(ctx, identity, eventID, reviewID)
	return args.Error(0)
}

func (m *MockReviewService) RespondToReview(ctx context.Context, identity entity.Identity, eventID, reviewID uuid.UUID, req *entity.AdminResponseRequest) (*entity.Review, error) {
	args := m.Called(ctx, identity, eventID, reviewID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Review), args.Error(1)
}

type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) ListNotifications(ctx context.Context, identity entity.Identity) ([]entity.Notification, error) {
	args := m.Called(ctx, identity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Notification), args.Error(1)
}

func (m *MockNotificationService) MarkRead(ctx context.Context, identity entity.Identity, id uuid.UUID) error {
	args := m.Called(ctx, identity, id)
	return args.Error(0)
}

func (m *MockNotificationService) MarkAllRead(ctx context.Context, identity entity.Identity) (int64, error) {
	args := m.Called(ctx, identity)
	return args.Get(0).(int64), args.Error(1)
}

type MockBlacklist struct {
	mock.Mock
}

func (m *MockBlacklist) IsBlacklisted(ctx context.Context, token string) (bool, error) {
	args := m.Called(ctx, token)
	return args.Bool(0), args.Error(1)
}

type testEnv struct {
	router        *gin.Engine
	events        *MockEventService
	reviews       *MockReviewService
	notifications *MockNotificationService
}

func newTestEnv(t *testing.T, blacklist infrastructure.TokenBlacklist) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	env := &testEnv{
		events:        new(MockEventService),
		reviews:       new(MockReviewService),
		notifications: new(MockNotificationService),
	}
	env.router = SetupRoutes(
		NewEventHandler(env.events, 5<<20),
		NewReviewHandler(env.reviews),
		NewNotificationHandler(env.notifications),
		NewAuthMiddleware(testSecret, blacklist),
		[]string{"http://localhost:3000"},
	)

	t.Cleanup(func() {
		env.events.AssertExpectations(t)
		env.reviews.AssertExpectations(t)
		env.notifications.AssertExpectations(t)
	})
	return env
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func signToken(t *testing.T, identity entity.Identity) string {
	t.Helper()
	claims := JWTClaims{
		UserID:   identity.UserID.String(),
		Username: identity.Username,
		Email:    identity.Username + "@example.com",
		IsAdmin:  identity.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func authorized(t *testing.T, req *http.Request, identity entity.Identity) *http.Request {
	req.Header.Set("Authorization", "Bearer "+signToken(t, identity))
	return req
}

type formFile struct {
	field    string
	filename string
	content  []byte
}

func multipartRequest(t *testing.T, method, target string, fields map[string]string, file *formFile) *http.Request {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for name, value := range fields {
		require.NoError(t, writer.WriteField(name, value))
	}
	if file != nil {
		part, err := writer.CreateFormFile(file.field, file.filename)
		require.NoError(t, err)
		_, err = part.Write(file.content)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func newIdentity(username string, admin bool) entity.Identity {
	return entity.Identity{UserID: uuid.New(), Username: username, IsAdmin: admin}
}
