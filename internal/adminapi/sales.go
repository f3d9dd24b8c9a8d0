package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/talkincode/salesledger/internal/domain"
	"github.com/talkincode/salesledger/internal/webserver"
)

type salePayload struct {
	ProductID *int64 `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gt=0"`
}

func (h *Handlers) registerSaleRoutes(s *webserver.WebServer) {
	s.GET("/sales", h.listSales)
	s.POST("/sales", h.createSale)
}

func (h *Handlers) listSales(c echo.Context) error {
	sales, err := h.ledger.ListSales(c.Request().Context())
	if err != nil {
		return handleServiceError(c, err, "query sales")
	}
	return ok(c, http.StatusOK, sales)
}

func (h *Handlers) createSale(c echo.Context) error {
	var payload salePayload
	if err := c.Bind(&payload); err != nil {
		return handleBindError(c, err, "Unable to parse sale")
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}
	in, err := domain.NewSaleInput(*payload.ProductID, payload.Quantity)
	if err != nil {
		return handleValidationError(c, err)
	}

	sale, err := h.ledger.CreateSale(c.Request().Context(), in)
	if err != nil {
		return handleServiceError(c, err, "create sale")
	}
	return ok(c, http.StatusCreated, sale)
}
