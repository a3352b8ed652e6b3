package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/store-api/internal/api/metrics"
	"github.com/99minutos/store-api/internal/core/ports"
)

type ProductHandler struct {
	service ports.ProductService
}

func NewProductHandler(service ports.ProductService) *ProductHandler {
	return &ProductHandler{service: service}
}

// List handles GET /products/.
//
// @Summary      List products
// @Tags         products
// @Produce      json
// @Param        skip   query     int  false  "Items to skip"  default(0)
// @Param        limit  query     int  false  "Page size (1-100)"  default(10)
// @Success      200    {array}   productResponse
// @Failure      400    {object}  errorResponse
// @Failure      422    {object}  errorResponse
// @Router       /products/ [get]
func (h *ProductHandler) List(c echo.Context) error {
	var q listProductsQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query parameters")
	}
	if err := c.Validate(&q); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	products, err := h.service.ListProducts(c.Request().Context(), ports.ListProductsInput{
		Skip:  q.Skip,
		Limit: q.Limit,
	})
	if err != nil {
		return err
	}

	resp := make([]productResponse, 0, len(products))
	for _, p := range products {
		resp = append(resp, toProductResponse(p))
	}
	return c.JSON(http.StatusOK, resp)
}

// Create handles POST /products/.
//
// @Summary      Create a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createProductRequest  true  "Product"
// @Success      201   {object}  productResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /products/ [post]
func (h *ProductHandler) Create(c echo.Context) error {
	if _, err := currentUser(c); err != nil {
		return err
	}

	var req createProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	product, err := h.service.CreateProduct(c.Request().Context(), ports.CreateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
	})
	if err != nil {
		return err
	}

	metrics.ProductsCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, toProductResponse(product))
}
