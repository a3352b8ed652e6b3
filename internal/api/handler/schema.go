package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Auth ---

// tokenRequest accepts the OAuth2 password grant as form fields or JSON.
type tokenRequest struct {
	Username string `form:"username" json:"username" validate:"required"`
	Password string `form:"password" json:"password" validate:"required"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// --- Users ---

type registerUserRequest struct {
	Username string `json:"username"  validate:"required,max=50"`
	Email    string `json:"email"     validate:"required,email"`
	FullName string `json:"full_name" validate:"omitempty,max=100"`
	Password string `json:"password"  validate:"required,min=6"`
}

// updateUserRequest fields are optional; absent fields are left untouched.
type updateUserRequest struct {
	Username *string `json:"username"  validate:"omitempty,min=1,max=50"`
	FullName *string `json:"full_name" validate:"omitempty,max=100"`
	Password *string `json:"password"  validate:"omitempty,min=6"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// --- Products ---

type listProductsQuery struct {
	Skip  int `query:"skip"  validate:"gte=0"`
	Limit int `query:"limit" validate:"omitempty,min=1,max=100"`
}

type createProductRequest struct {
	Name        string `json:"name"        validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
	Price       int64  `json:"price"       validate:"gte=0"`
}

type productResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       int64     `json:"price"`
	CreatedAt   time.Time `json:"created_at"`
}

// --- Orders ---

type createOrderRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	// UserID defaults to the authenticated user and must match it when set.
	UserID string `json:"user_id"`
}

type orderResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ProductID string    `json:"product_id"`
	CreatedAt time.Time `json:"created_at"`
}
