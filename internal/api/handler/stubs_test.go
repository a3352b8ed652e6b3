package handler

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/store-api/internal/api/middleware"
	"github.com/99minutos/store-api/internal/core/domain"
	"github.com/99minutos/store-api/internal/core/ports"
)

type stubAuthService struct {
	loginFn func(ctx context.Context, username, password string) (ports.AccessToken, *domain.User, error)
}

func (s *stubAuthService) Authenticate(context.Context, string, string) (*domain.User, error) {
	return nil, domain.ErrAuthFailed
}

func (s *stubAuthService) IssueToken(string) (ports.AccessToken, error) {
	return ports.AccessToken{}, nil
}

func (s *stubAuthService) Login(ctx context.Context, username, password string) (ports.AccessToken, *domain.User, error) {
	return s.loginFn(ctx, username, password)
}

func (s *stubAuthService) CurrentUser(context.Context, string) (*domain.User, error) {
	return nil, domain.ErrInvalidToken
}

type stubUserService struct {
	registerFn func(ctx context.Context, input ports.RegisterUserInput) (*domain.User, error)
	updateFn   func(ctx context.Context, current *domain.User, input ports.UpdateUserInput) (*domain.User, error)
}

func (s *stubUserService) Register(ctx context.Context, input ports.RegisterUserInput) (*domain.User, error) {
	return s.registerFn(ctx, input)
}

func (s *stubUserService) Update(ctx context.Context, current *domain.User, input ports.UpdateUserInput) (*domain.User, error) {
	return s.updateFn(ctx, current, input)
}

type stubProductService struct {
	createFn func(ctx context.Context, input ports.CreateProductInput) (*domain.Product, error)
	listFn   func(ctx context.Context, input ports.ListProductsInput) ([]*domain.Product, error)
}

func (s *stubProductService) CreateProduct(ctx context.Context, input ports.CreateProductInput) (*domain.Product, error) {
	return s.createFn(ctx, input)
}

func (s *stubProductService) ListProducts(ctx context.Context, input ports.ListProductsInput) ([]*domain.Product, error) {
	return s.listFn(ctx, input)
}

type stubOrderService struct {
	createFn func(ctx context.Context, input ports.CreateOrderInput) (*domain.Order, error)
}

func (s *stubOrderService) CreateOrder(ctx context.Context, input ports.CreateOrderInput) (*domain.Order, error) {
	return s.createFn(ctx, input)
}

func newTestContext(method, target string, body io.Reader, contentType string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// withUser stores user the way the Auth middleware does.
func withUser(c echo.Context, user *domain.User) {
	handler := middleware.Auth(&fixedUserAuth{user: user}, zerolog.Nop())(func(echo.Context) error { return nil })
	c.Request().Header.Set(echo.HeaderAuthorization, "Bearer test")
	if err := handler(c); err != nil {
		panic(err)
	}
}

type fixedUserAuth struct {
	stubAuthService
	user *domain.User
}

func (f *fixedUserAuth) CurrentUser(context.Context, string) (*domain.User, error) {
	return f.user, nil
}

func expectHTTPError(t *testing.T, err error, code int) *echo.HTTPError {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected *echo.HTTPError with %d, got %v", code, err)
	}
	if he.Code != code {
		t.Fatalf("expected status %d, got %d (%v)", code, he.Code, he.Message)
	}
	return he
}
