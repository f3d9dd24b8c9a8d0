package adminapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/talkincode/salesledger/internal/app"
	"github.com/talkincode/salesledger/internal/catalog"
	"github.com/talkincode/salesledger/internal/domain"
	"github.com/talkincode/salesledger/internal/ledger"
	"github.com/talkincode/salesledger/internal/metrics"
	"github.com/talkincode/salesledger/internal/report"
	"github.com/talkincode/salesledger/internal/webserver"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Handlers translates HTTP requests into catalog, ledger and report
// operations.
type Handlers struct {
	catalog *catalog.Service
	ledger  *ledger.Service
	reports *report.Service
	metrics *metrics.Metrics
	db      *gorm.DB
}

func New(appCtx app.AppContext) *Handlers {
	return &Handlers{
		catalog: appCtx.Catalog(),
		ledger:  appCtx.Ledger(),
		reports: appCtx.Reports(),
		metrics: appCtx.Metrics(),
		db:      appCtx.DB(),
	}
}

// Register mounts every API route on s.
func (h *Handlers) Register(s *webserver.WebServer) {
	h.registerSystemRoutes(s)
	h.registerProductRoutes(s)
	h.registerSaleRoutes(s)
	h.registerReportRoutes(s)
	h.registerDbmsRoutes(s)
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

type fieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Value string `json:"value,omitempty"`
}

func ok(c echo.Context, status int, data interface{}) error {
	return c.JSON(status, data)
}

func fail(c echo.Context, status int, code, message string, details interface{}) error {
	return c.JSON(status, ErrorResponse{Code: code, Message: message, Details: details})
}

// handleBindError keeps echo's status for payload decoding failures: 400
// for malformed JSON, 422 for values of the wrong type.
func handleBindError(c echo.Context, err error, message string) error {
	var he *echo.HTTPError
	if errors.As(err, &he) && he.Code == http.StatusUnprocessableEntity {
		return fail(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", message, he.Message)
	}
	return fail(c, http.StatusBadRequest, "INVALID_REQUEST", message, err.Error())
}

// handleValidationError reports payload tag failures and domain input
// errors as 422.
func handleValidationError(c echo.Context, err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make([]fieldError, 0, len(verrs))
		for _, fe := range verrs {
			details = append(details, fieldError{Field: fe.Field(), Rule: fe.Tag(), Value: fe.Param()})
		}
		return fail(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Request validation failed", details)
	}
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return fail(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", ve.Error(),
			[]fieldError{{Field: ve.Field, Rule: ve.Reason}})
	}
	return fail(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error(), nil)
}

// handleServiceError maps a service error to its HTTP status.
func handleServiceError(c echo.Context, err error, action string) error {
	switch {
	case domain.IsValidationError(err):
		return handleValidationError(c, err)
	case domain.IsConflictError(err):
		return fail(c, http.StatusBadRequest, "PRODUCT_EXISTS", "Product already exists", err.Error())
	case domain.IsNotFoundError(err):
		return fail(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found", err.Error())
	default:
		zap.L().Error(action+" failed", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to "+action, err.Error())
	}
}
