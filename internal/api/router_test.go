package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/99minutos/store-api/internal/core/domain"
	"github.com/99minutos/store-api/internal/core/service"
	"github.com/99minutos/store-api/internal/infrastructure/ratelimit"
	"github.com/99minutos/store-api/internal/infrastructure/security/password"
	"github.com/99minutos/store-api/internal/infrastructure/security/token"
)

// memStore is an in-process stand-in for the database.
type memStore struct {
	mu       sync.Mutex
	users    map[string]domain.User
	products map[string]domain.Product
	orders   []domain.Order
}

func newMemStore() *memStore {
	return &memStore{
		users:    map[string]domain.User{},
		products: map[string]domain.Product{},
	}
}

type memUsers struct{ *memStore }

func (m memUsers) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Username == u.Username {
			return nil, domain.ErrUserExists
		}
	}
	m.users[u.ID] = *u
	out := *u
	return &out, nil
}

func (m memUsers) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			out := u
			return &out, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m memUsers) FindByID(_ context.Context, id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (m memUsers) Update(_ context.Context, u *domain.User) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.ID]; !ok {
		return nil, domain.ErrUserNotFound
	}
	for id, existing := range m.users {
		if id != u.ID && existing.Username == u.Username {
			return nil, domain.ErrUserExists
		}
	}
	m.users[u.ID] = *u
	out := *u
	return &out, nil
}

func (m memUsers) UpdatePasswordHash(_ context.Context, id, hash string, updatedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.HashedPassword = hash
	u.UpdatedAt = updatedAt
	m.users[id] = u
	return nil
}

type memProducts struct{ *memStore }

func (m memProducts) Create(_ context.Context, p *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products[p.ID] = *p
	return nil
}

func (m memProducts) FindByID(_ context.Context, id string) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return &p, nil
}

func (m memProducts) List(_ context.Context, skip, limit int) ([]*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := make([]*domain.Product, 0, len(m.products))
	for _, p := range m.products {
		p := p
		all = append(all, &p)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	if skip >= len(all) {
		return []*domain.Product{}, nil
	}
	all = all[skip:]
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

type memOrders struct{ *memStore }

func (m memOrders) Create(_ context.Context, o *domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders = append(m.orders, *o)
	return nil
}

func newTestRouter(t *testing.T, loginMax int) *echo.Echo {
	t.Helper()
	log := zerolog.Nop()
	store := newMemStore()

	hasher, err := password.NewHasher(password.AlgorithmBcrypt, password.Options{BcryptCost: bcrypt.MinCost})
	require.NoError(t, err)
	codec, err := token.NewCodec("test-secret", "HS256")
	require.NoError(t, err)

	users := memUsers{store}
	products := memProducts{store}
	return NewRouter(Dependencies{
		Logger:   log,
		Auth:     service.NewAuthService(users, hasher, codec, 30*time.Minute, log),
		Users:    service.NewUserService(users, hasher, log),
		Products: service.NewProductService(products, log),
		Orders:   service.NewOrderService(memOrders{store}, products, log),
		Limiter:  ratelimit.NewMemoryLimiter(loginMax, time.Minute),
		Registry: prometheus.NewRegistry(),
	})
}

type call struct {
	method, path, body, contentType, token string
}

func do(e *echo.Echo, c call) *httptest.ResponseRecorder {
	req := httptest.NewRequest(c.method, c.path, strings.NewReader(c.body))
	if c.contentType != "" {
		req.Header.Set(echo.HeaderContentType, c.contentType)
	}
	if c.token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+c.token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func register(t *testing.T, e *echo.Echo, username, pass string) map[string]any {
	t.Helper()
	rec := do(e, call{
		method:      http.MethodPost,
		path:        "/users/",
		body:        `{"username":"` + username + `","email":"` + username + `@example.com","password":"` + pass + `"}`,
		contentType: echo.MIMEApplicationJSON,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode(t, rec)
}

func login(t *testing.T, e *echo.Echo, username, pass string) *httptest.ResponseRecorder {
	t.Helper()
	form := url.Values{"username": {username}, "password": {pass}}
	return do(e, call{
		method:      http.MethodPost,
		path:        "/token",
		body:        form.Encode(),
		contentType: echo.MIMEApplicationForm,
	})
}

func accessToken(t *testing.T, e *echo.Echo, username, pass string) string {
	t.Helper()
	rec := login(t, e, username, pass)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, "bearer", body["token_type"])
	assert.EqualValues(t, 1800, body["expires_in"])
	tok, _ := body["access_token"].(string)
	require.NotEmpty(t, tok)
	return tok
}

func TestRouter_ShoppingFlow(t *testing.T) {
	e := newTestRouter(t, 20)

	user := register(t, e, "alice", "wonderland")
	assert.Equal(t, true, user["is_active"])
	assert.NotContains(t, user, "hashed_password")

	tok := accessToken(t, e, "alice", "wonderland")

	rec := do(e, call{method: http.MethodGet, path: "/users/me", token: tok})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, user["id"], decode(t, rec)["id"])

	rec = do(e, call{
		method: http.MethodPost, path: "/products/", token: tok,
		body: `{"name":"Mug","description":"Stoneware","price":1200}`, contentType: echo.MIMEApplicationJSON,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	product := decode(t, rec)

	rec = do(e, call{method: http.MethodGet, path: "/products?limit=5"})
	require.Equal(t, http.StatusOK, rec.Code)
	var listed []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, product["id"], listed[0]["id"])

	rec = do(e, call{
		method: http.MethodPost, path: "/orders/", token: tok,
		body: `{"product_id":"` + product["id"].(string) + `"}`, contentType: echo.MIMEApplicationJSON,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	order := decode(t, rec)
	assert.Equal(t, user["id"], order["user_id"])
	assert.Equal(t, product["id"], order["product_id"])
}

func TestRouter_OrderRules(t *testing.T) {
	e := newTestRouter(t, 20)
	register(t, e, "alice", "wonderland")
	bob := register(t, e, "bob", "builder1")
	tok := accessToken(t, e, "alice", "wonderland")

	rec := do(e, call{
		method: http.MethodPost, path: "/orders", token: tok,
		body: `{"product_id":"missing"}`, contentType: echo.MIMEApplicationJSON,
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(e, call{
		method: http.MethodPost, path: "/orders", token: tok,
		body: `{"product_id":"missing","user_id":"` + bob["id"].(string) + `"}`, contentType: echo.MIMEApplicationJSON,
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRouter_Unauthorized(t *testing.T) {
	e := newTestRouter(t, 20)
	register(t, e, "alice", "wonderland")
	tok := accessToken(t, e, "alice", "wonderland")

	cases := map[string]string{
		"missing token": "",
		"garbage token": "not-a-jwt",
		"tampered":      tok[:len(tok)-2] + "xx",
	}
	for name, bearer := range cases {
		t.Run(name, func(t *testing.T) {
			rec := do(e, call{method: http.MethodGet, path: "/users/me", token: bearer})
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, "Bearer", rec.Header().Get(echo.HeaderWWWAuthenticate))
			assert.Equal(t, "could not validate credentials", decode(t, rec)["error"])
		})
	}
}

func TestRouter_CreateProductNeedsToken(t *testing.T) {
	e := newTestRouter(t, 20)

	rec := do(e, call{
		method: http.MethodPost, path: "/products",
		body: `{"name":"Mug","price":1200}`, contentType: echo.MIMEApplicationJSON,
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(e, call{method: http.MethodGet, path: "/products"})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_LoginFailuresLookTheSame(t *testing.T) {
	e := newTestRouter(t, 20)
	register(t, e, "alice", "wonderland")

	wrongPassword := login(t, e, "alice", "nope-nope")
	unknownUser := login(t, e, "mallory", "wonderland")

	for _, rec := range []*httptest.ResponseRecorder{wrongPassword, unknownUser} {
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Bearer", rec.Header().Get(echo.HeaderWWWAuthenticate))
	}
	assert.Equal(t, wrongPassword.Body.String(), unknownUser.Body.String())
}

func TestRouter_DuplicateUsername(t *testing.T) {
	e := newTestRouter(t, 20)
	register(t, e, "alice", "wonderland")

	rec := do(e, call{
		method:      http.MethodPost,
		path:        "/users",
		body:        `{"username":"alice","email":"other@example.com","password":"another1"}`,
		contentType: echo.MIMEApplicationJSON,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Username already registered", decode(t, rec)["error"])
}

func TestRouter_LongPasswords(t *testing.T) {
	e := newTestRouter(t, 20)

	for _, pass := range []string{strings.Repeat("p", 73), strings.Repeat("é", 40)} {
		username := "user" + strconv.Itoa(len(pass))
		register(t, e, username, pass)
		accessToken(t, e, username, pass)

		rec := login(t, e, username, pass[:72])
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "a 72-byte prefix must not log in")
	}
}

func TestRouter_RenameInvalidatesOldToken(t *testing.T) {
	e := newTestRouter(t, 20)
	register(t, e, "alice", "wonderland")
	tok := accessToken(t, e, "alice", "wonderland")

	rec := do(e, call{
		method: http.MethodPut, path: "/users/me", token: tok,
		body: `{"username":"alice2"}`, contentType: echo.MIMEApplicationJSON,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(e, call{method: http.MethodGet, path: "/users/me", token: tok})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	fresh := accessToken(t, e, "alice2", "wonderland")
	rec = do(e, call{method: http.MethodGet, path: "/users/me", token: fresh})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_LoginRateLimited(t *testing.T) {
	e := newTestRouter(t, 2)

	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusUnauthorized, login(t, e, "ghost", "whatever").Code)
	}
	rec := login(t, e, "ghost", "whatever")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestRouter_OpsEndpoints(t *testing.T) {
	e := newTestRouter(t, 20)

	assert.Equal(t, http.StatusOK, do(e, call{method: http.MethodGet, path: "/health"}).Code)
	assert.Equal(t, http.StatusOK, do(e, call{method: http.MethodGet, path: "/health/ready"}).Code)

	do(e, call{method: http.MethodGet, path: "/products"})
	rec := do(e, call{method: http.MethodGet, path: "/metrics"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "store_http_requests_total")

	assert.Equal(t, http.StatusNotFound, do(e, call{method: http.MethodGet, path: "/nope"}).Code)
}
