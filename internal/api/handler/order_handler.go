package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/store-api/internal/api/metrics"
	"github.com/99minutos/store-api/internal/core/ports"
)

type OrderHandler struct {
	service ports.OrderService
}

func NewOrderHandler(service ports.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

// Create handles POST /orders/.
//
// @Summary      Place an order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createOrderRequest  true  "Order"
// @Success      201   {object}  orderResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /orders/ [post]
func (h *OrderHandler) Create(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req createOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	order, err := h.service.CreateOrder(c.Request().Context(), ports.CreateOrderInput{
		UserID:    req.UserID,
		ProductID: req.ProductID,
		Caller:    user,
	})
	if err != nil {
		return err
	}

	metrics.OrdersCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, toOrderResponse(order))
}
