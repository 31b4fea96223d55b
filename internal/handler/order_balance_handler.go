package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/tallerhq/taller-backend/internal/domain"
	"github.com/tallerhq/taller-backend/internal/service"
)

// OrderBalanceHandler handles order payment status HTTP requests
type OrderBalanceHandler struct {
	orderBalanceService *service.OrderBalanceService
}

// NewOrderBalanceHandler creates a new OrderBalanceHandler
func NewOrderBalanceHandler(orderBalanceService *service.OrderBalanceService) *OrderBalanceHandler {
	return &OrderBalanceHandler{orderBalanceService: orderBalanceService}
}

// OrderPaymentEntryResponse represents one method's share of payments
type OrderPaymentEntryResponse struct {
	PaymentMethod PaymentMethodResponse `json:"paymentMethod"`
	Total         string                `json:"total"`
	Count         int64                 `json:"count"`
	Pct           string                `json:"pct"`
	Average       string                `json:"average"`
	FirstPayment  *string               `json:"firstPayment,omitempty"`
	LastPayment   *string               `json:"lastPayment,omitempty"`
}

// OrderBalanceResponse represents an order's payment status
type OrderBalanceResponse struct {
	OrderID        string                      `json:"orderId"`
	OrderNumber    string                      `json:"orderNumber"`
	ClientName     string                      `json:"clientName"`
	OrderTotal     string                      `json:"orderTotal"`
	Currency       string                      `json:"currency"`
	TotalPaid      string                      `json:"totalPaid"`
	PendingBalance string                      `json:"pendingBalance"`
	CollectedPct   string                      `json:"collectedPct"`
	Payments       []TransactionResponse       `json:"payments"`
	ByMethod       []OrderPaymentEntryResponse `json:"byMethod"`
	MostUsedMethod *PaymentMethodResponse      `json:"mostUsedMethod,omitempty"`
}

// GetOrderBalance handles GET /api/v1/orders/:id/balance
func (h *OrderBalanceHandler) GetOrderBalance(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid order ID", nil)
	}

	balance, err := h.orderBalanceService.GetOrderBalance(id)
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			return NewNotFoundError(c, "Order not found")
		}
		log.Error().Err(err).Str("order_id", id.String()).Msg("Failed to get order balance")
		return NewInternalError(c, "Failed to get order balance")
	}

	payments := make([]TransactionResponse, len(balance.Payments))
	for i, p := range balance.Payments {
		payments[i] = toTransactionResponse(p)
	}
	byMethod := make([]OrderPaymentEntryResponse, len(balance.ByMethod))
	for i, entry := range balance.ByMethod {
		byMethod[i] = OrderPaymentEntryResponse{
			PaymentMethod: toPaymentMethodResponse(entry.PaymentMethod),
			Total:         entry.Total.StringFixed(2),
			Count:         entry.Count,
			Pct:           entry.Pct.StringFixed(2),
			Average:       entry.Average.StringFixed(2),
			FirstPayment:  optionalTimeString(entry.FirstPayment),
			LastPayment:   optionalTimeString(entry.LastPayment),
		}
	}

	resp := OrderBalanceResponse{
		OrderID:        balance.Order.ID.String(),
		OrderNumber:    balance.Order.Number,
		ClientName:     balance.Order.ClientName,
		OrderTotal:     balance.Order.Total.StringFixed(2),
		Currency:       string(balance.Order.Currency),
		TotalPaid:      balance.TotalPaid.StringFixed(2),
		PendingBalance: balance.PendingBalance.StringFixed(2),
		CollectedPct:   balance.CollectedPct.StringFixed(2),
		Payments:       payments,
		ByMethod:       byMethod,
	}
	if balance.MostUsedMethod != nil {
		pm := toPaymentMethodResponse(balance.MostUsedMethod)
		resp.MostUsedMethod = &pm
	}

	return c.JSON(http.StatusOK, resp)
}
