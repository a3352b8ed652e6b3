package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/99minutos/store-api/internal/core/domain"
)

// ---------------------------------------------------------------------------
// Users
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	mu        sync.Mutex
	users     map[string]*domain.User // keyed by username
	findErr   error
	updateErr error
	lookups   []string
	updates   int

	hashUpdates int
	// beforeHashUpdate runs inside UpdatePasswordHash before the write.
	beforeHashUpdate func()
}

func newStubUserRepo(users ...*domain.User) *stubUserRepo {
	r := &stubUserRepo{users: make(map[string]*domain.User)}
	for _, u := range users {
		r.users[u.Username] = cloneUser(u)
	}
	return r
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lookups = append(r.lookups, username)
	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.users[user.Username]; exists {
		return nil, domain.ErrUserExists
	}
	r.users[user.Username] = cloneUser(user)
	return cloneUser(user), nil
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return nil, r.updateErr
	}
	var previous string
	for name, u := range r.users {
		if u.ID == user.ID {
			previous = name
		}
	}
	if previous == "" {
		return nil, domain.ErrUserNotFound
	}
	if other, taken := r.users[user.Username]; taken && other.ID != user.ID {
		return nil, domain.ErrUserExists
	}
	delete(r.users, previous)
	r.users[user.Username] = cloneUser(user)
	r.updates++
	return cloneUser(user), nil
}

func (r *stubUserRepo) UpdatePasswordHash(_ context.Context, id, hash string, updatedAt time.Time) error {
	if r.beforeHashUpdate != nil {
		r.beforeHashUpdate()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return r.updateErr
	}
	for _, u := range r.users {
		if u.ID == id {
			u.HashedPassword = hash
			u.UpdatedAt = updatedAt
			r.hashUpdates++
			return nil
		}
	}
	return domain.ErrUserNotFound
}

// lookupOnly hides the update methods so the rehash path cannot persist.
type lookupOnly struct{ repo *stubUserRepo }

func (l lookupOnly) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return l.repo.FindByUsername(ctx, username)
}

// ---------------------------------------------------------------------------
// Security
// ---------------------------------------------------------------------------

// stubHasher produces "<scheme>$<n>$<plain>" so tests can read back what was
// hashed. n changes per call, mimicking a random salt.
type stubHasher struct {
	mu      sync.Mutex
	scheme  string
	n       int
	hashErr error
	hashed  []string
	checked []string
}

func newStubHasher() *stubHasher { return &stubHasher{scheme: "stub"} }

func (h *stubHasher) Hash(plain string) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.hashErr != nil {
		return "", h.hashErr
	}
	h.n++
	h.hashed = append(h.hashed, plain)
	return fmt.Sprintf("%s$%d$%s", h.scheme, h.n, plain), nil
}

func (h *stubHasher) Verify(plain, hash string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checked = append(h.checked, hash)
	parts := strings.SplitN(hash, "$", 3)
	return len(parts) == 3 && parts[2] == plain
}

func (h *stubHasher) NeedsRehash(hash string) bool {
	return !strings.HasPrefix(hash, h.scheme+"$")
}

func (h *stubHasher) mustHash(plain string) string {
	hash, err := h.Hash(plain)
	if err != nil {
		panic(err)
	}
	return hash
}

type issued struct {
	subject string
	ttl     time.Duration
}

// stubCodec hands out "tok-<n>" and remembers which subject each belongs to.
type stubCodec struct {
	mu       sync.Mutex
	tokens   map[string]string
	issued   []issued
	issueErr error
	now      time.Time
}

func newStubCodec() *stubCodec {
	return &stubCodec{
		tokens: make(map[string]string),
		now:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (c *stubCodec) Issue(subject string, ttl time.Duration) (string, time.Time, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.issueErr != nil {
		return "", time.Time{}, c.issueErr
	}
	c.issued = append(c.issued, issued{subject: subject, ttl: ttl})
	tok := fmt.Sprintf("tok-%d", len(c.issued))
	c.tokens[tok] = subject
	return tok, c.now.Add(ttl), nil
}

func (c *stubCodec) Decode(token string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	subject, ok := c.tokens[token]
	if !ok {
		return "", fmt.Errorf("%w: unknown token", domain.ErrInvalidToken)
	}
	return subject, nil
}

// ---------------------------------------------------------------------------
// Catalogue
// ---------------------------------------------------------------------------

type stubProductRepo struct {
	products  map[string]*domain.Product
	order     []string
	createErr error
	listErr   error
	lastSkip  int
	lastLimit int
}

func newStubProductRepo(products ...*domain.Product) *stubProductRepo {
	r := &stubProductRepo{products: make(map[string]*domain.Product)}
	for _, p := range products {
		r.products[p.ID] = p
		r.order = append(r.order, p.ID)
	}
	return r
}

func (r *stubProductRepo) Create(_ context.Context, p *domain.Product) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.products[p.ID] = p
	r.order = append(r.order, p.ID)
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id string) (*domain.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return p, nil
}

func (r *stubProductRepo) List(_ context.Context, skip, limit int) ([]*domain.Product, error) {
	r.lastSkip, r.lastLimit = skip, limit
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []*domain.Product
	for i, id := range r.order {
		if i < skip {
			continue
		}
		if len(out) == limit {
			break
		}
		out = append(out, r.products[id])
	}
	return out, nil
}

type stubOrderRepo struct {
	created   []*domain.Order
	createErr error
}

func (r *stubOrderRepo) Create(_ context.Context, o *domain.Order) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.created = append(r.created, o)
	return nil
}

var errStore = errors.New("store unavailable")
