package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/tallerhq/taller-backend/internal/service"
)

// DashboardHandler handles dashboard HTTP requests
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// MethodUsageResponse represents a payment method's usage summary
type MethodUsageResponse struct {
	PaymentMethod PaymentMethodResponse `json:"paymentMethod"`
	Count         int64                 `json:"count"`
	Total         string                `json:"total"`
}

// DashboardSummaryResponse represents the dashboard summary API response
type DashboardSummaryResponse struct {
	MonthIncome      string                `json:"monthIncome"`
	MonthExpense     string                `json:"monthExpense"`
	MonthNet         string                `json:"monthNet"`
	MarginPct        string                `json:"marginPct"`
	IncomeTrendPct   *string               `json:"incomeTrendPct"`
	ExpenseTrendPct  *string               `json:"expenseTrendPct"`
	SalesProjection  string                `json:"salesProjection"`
	PendingBalance   string                `json:"pendingBalance"`
	TransactionCount int64                 `json:"transactionCount"`
	TopMethods       []MethodUsageResponse `json:"topMethods"`
	RecentActivity   []TransactionResponse `json:"recentActivity"`
}

// GetSummary handles GET /api/v1/dashboard/summary
func (h *DashboardHandler) GetSummary(c echo.Context) error {
	summary, err := h.dashboardService.GetSummary()
	if err != nil {
		log.Error().Err(err).Msg("Failed to get dashboard summary")
		return NewInternalError(c, "Failed to get dashboard summary")
	}

	topMethods := make([]MethodUsageResponse, len(summary.TopMethods))
	for i, u := range summary.TopMethods {
		topMethods[i] = MethodUsageResponse{
			PaymentMethod: toPaymentMethodResponse(u.PaymentMethod),
			Count:         u.Count,
			Total:         u.Total.StringFixed(2),
		}
	}
	recent := make([]TransactionResponse, len(summary.RecentActivity))
	for i, t := range summary.RecentActivity {
		recent[i] = toTransactionResponse(t)
	}

	return c.JSON(http.StatusOK, DashboardSummaryResponse{
		MonthIncome:      summary.MonthIncome.StringFixed(2),
		MonthExpense:     summary.MonthExpense.StringFixed(2),
		MonthNet:         summary.MonthNet.StringFixed(2),
		MarginPct:        summary.MarginPct.StringFixed(2),
		IncomeTrendPct:   optionalDecimalString(summary.IncomeTrendPct, 2),
		ExpenseTrendPct:  optionalDecimalString(summary.ExpenseTrendPct, 2),
		SalesProjection:  summary.SalesProjection.StringFixed(2),
		PendingBalance:   summary.PendingBalance.StringFixed(2),
		TransactionCount: summary.TransactionCount,
		TopMethods:       topMethods,
		RecentActivity:   recent,
	})
}
