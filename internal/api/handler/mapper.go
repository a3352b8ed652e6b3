package handler

import "github.com/99minutos/store-api/internal/core/domain"

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FullName:  u.FullName,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

func toProductResponse(p *domain.Product) productResponse {
	return productResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		CreatedAt:   p.CreatedAt,
	}
}

func toOrderResponse(o *domain.Order) orderResponse {
	return orderResponse{
		ID:        o.ID,
		UserID:    o.UserID,
		ProductID: o.ProductID,
		CreatedAt: o.CreatedAt,
	}
}
