package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/talkincode/salesledger/internal/domain"
	"github.com/talkincode/salesledger/internal/webserver"
)

type productPayload struct {
	Name  string  `json:"name" validate:"required,min=1"`
	Price float64 `json:"price" validate:"gt=0"`
}

type productResponse struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

func newProductResponse(p domain.Product) productResponse {
	return productResponse{ID: p.ID, Name: p.Name, Price: p.Price}
}

func (h *Handlers) registerProductRoutes(s *webserver.WebServer) {
	s.GET("/products", h.listProducts)
	s.POST("/products", h.createProduct)
}

func (h *Handlers) listProducts(c echo.Context) error {
	products, err := h.catalog.ListProducts(c.Request().Context())
	if err != nil {
		return handleServiceError(c, err, "query products")
	}
	resp := make([]productResponse, 0, len(products))
	for _, p := range products {
		resp = append(resp, newProductResponse(p))
	}
	return ok(c, http.StatusOK, resp)
}

func (h *Handlers) createProduct(c echo.Context) error {
	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return handleBindError(c, err, "Unable to parse product")
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}
	in, err := domain.NewProductInput(payload.Name, payload.Price)
	if err != nil {
		return handleValidationError(c, err)
	}

	p, err := h.catalog.CreateProduct(c.Request().Context(), in)
	if err != nil {
		return handleServiceError(c, err, "create product")
	}
	return ok(c, http.StatusCreated, newProductResponse(*p))
}
