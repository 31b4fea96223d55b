package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/tallerhq/taller-backend/internal/domain"
	"github.com/tallerhq/taller-backend/internal/service"
)

// PaymentMethodHandler handles payment method HTTP requests
type PaymentMethodHandler struct {
	methodService *service.PaymentMethodService
}

// NewPaymentMethodHandler creates a new PaymentMethodHandler
func NewPaymentMethodHandler(methodService *service.PaymentMethodService) *PaymentMethodHandler {
	return &PaymentMethodHandler{methodService: methodService}
}

// CreatePaymentMethodRequest represents the create payment method request body
type CreatePaymentMethodRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Kind        string  `json:"kind,omitempty"`
}

// UpdatePaymentMethodRequest represents the update payment method request body
type UpdatePaymentMethodRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Kind        *string `json:"kind,omitempty"`
	Active      *bool   `json:"active,omitempty"`
}

// PaymentMethodResponse represents a payment method in API responses
type PaymentMethodResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Kind        string  `json:"kind,omitempty"`
	Active      bool    `json:"active"`
	CreatedAt   string  `json:"createdAt,omitempty"`
	UpdatedAt   string  `json:"updatedAt,omitempty"`
}

// CreatePaymentMethod handles POST /api/v1/payment-methods
func (h *PaymentMethodHandler) CreatePaymentMethod(c echo.Context) error {
	var req CreatePaymentMethodRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	method, err := h.methodService.CreatePaymentMethod(service.CreatePaymentMethodInput{
		Name:        req.Name,
		Description: req.Description,
		Kind:        domain.PaymentMethodKind(req.Kind),
	})
	if err != nil {
		if errors.Is(err, domain.ErrNameRequired) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "name", Message: "Name is required"},
			})
		}
		if errors.Is(err, domain.ErrNameTooLong) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "name", Message: "Name must be 100 characters or less"},
			})
		}
		if errors.Is(err, domain.ErrInvalidPaymentMethodKind) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "kind", Message: "Kind must be one of: cash, bank, other"},
			})
		}
		if errors.Is(err, domain.ErrDescriptionTooLong) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "description", Message: "Description must be 200 characters or less"},
			})
		}
		log.Error().Err(err).Msg("Failed to create payment method")
		return NewInternalError(c, "Failed to create payment method")
	}

	log.Info().Str("payment_method_id", method.ID.String()).Str("name", method.Name).Msg("Payment method created")
	return c.JSON(http.StatusCreated, toPaymentMethodDetailResponse(method))
}

// GetPaymentMethods handles GET /api/v1/payment-methods
func (h *PaymentMethodHandler) GetPaymentMethods(c echo.Context) error {
	activeOnly := c.QueryParam("activeOnly") == "true"

	methods, err := h.methodService.GetPaymentMethods(activeOnly)
	if err != nil {
		log.Error().Err(err).Msg("Failed to get payment methods")
		return NewInternalError(c, "Failed to get payment methods")
	}

	response := make([]PaymentMethodResponse, len(methods))
	for i, m := range methods {
		response[i] = toPaymentMethodDetailResponse(m)
	}
	return c.JSON(http.StatusOK, response)
}

// GetPaymentMethod handles GET /api/v1/payment-methods/:id
func (h *PaymentMethodHandler) GetPaymentMethod(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid payment method ID", nil)
	}

	method, err := h.methodService.GetPaymentMethodByID(id)
	if err != nil {
		if errors.Is(err, domain.ErrPaymentMethodNotFound) {
			return NewNotFoundError(c, "Payment method not found")
		}
		log.Error().Err(err).Str("payment_method_id", id.String()).Msg("Failed to get payment method")
		return NewInternalError(c, "Failed to get payment method")
	}
	return c.JSON(http.StatusOK, toPaymentMethodDetailResponse(method))
}

// UpdatePaymentMethod handles PUT /api/v1/payment-methods/:id
func (h *PaymentMethodHandler) UpdatePaymentMethod(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid payment method ID", nil)
	}

	var req UpdatePaymentMethodRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input := service.UpdatePaymentMethodInput{
		Name:        req.Name,
		Description: req.Description,
		Active:      req.Active,
	}
	if req.Kind != nil {
		kind := domain.PaymentMethodKind(*req.Kind)
		input.Kind = &kind
	}

	method, err := h.methodService.UpdatePaymentMethod(id, input)
	if err != nil {
		if errors.Is(err, domain.ErrPaymentMethodNotFound) {
			return NewNotFoundError(c, "Payment method not found")
		}
		if errors.Is(err, domain.ErrNameRequired) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "name", Message: "Name is required"},
			})
		}
		if errors.Is(err, domain.ErrNameTooLong) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "name", Message: "Name must be 100 characters or less"},
			})
		}
		if errors.Is(err, domain.ErrInvalidPaymentMethodKind) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "kind", Message: "Kind must be one of: cash, bank, other"},
			})
		}
		if errors.Is(err, domain.ErrDescriptionTooLong) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "description", Message: "Description must be 200 characters or less"},
			})
		}
		log.Error().Err(err).Str("payment_method_id", id.String()).Msg("Failed to update payment method")
		return NewInternalError(c, "Failed to update payment method")
	}

	log.Info().Str("payment_method_id", method.ID.String()).Bool("active", method.Active).Msg("Payment method updated")
	return c.JSON(http.StatusOK, toPaymentMethodDetailResponse(method))
}

// toPaymentMethodResponse converts an embedded payment method reference
// (joined rows carry no timestamps).
func toPaymentMethodResponse(m *domain.PaymentMethod) PaymentMethodResponse {
	if m == nil {
		return PaymentMethodResponse{}
	}
	return PaymentMethodResponse{
		ID:          m.ID.String(),
		Name:        m.Name,
		Description: m.Description,
		Kind:        string(m.Kind),
		Active:      m.Active,
	}
}

func toPaymentMethodDetailResponse(m *domain.PaymentMethod) PaymentMethodResponse {
	resp := toPaymentMethodResponse(m)
	resp.CreatedAt = m.CreatedAt.Format(time.RFC3339)
	resp.UpdatedAt = m.UpdatedAt.Format(time.RFC3339)
	return resp
}
