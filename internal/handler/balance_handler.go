package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/tallerhq/taller-backend/internal/domain"
	"github.com/tallerhq/taller-backend/internal/service"
)

// BalanceHandler handles balance report HTTP requests
type BalanceHandler struct {
	balanceService *service.BalanceService
}

// NewBalanceHandler creates a new BalanceHandler
func NewBalanceHandler(balanceService *service.BalanceService) *BalanceHandler {
	return &BalanceHandler{balanceService: balanceService}
}

// MoneyFlowResponse represents one direction of movement for a method
type MoneyFlowResponse struct {
	Total  string  `json:"total"`
	Count  int     `json:"count"`
	LastAt *string `json:"lastAt,omitempty"`
}

// MethodBalanceResponse represents one payment method's balance
type MethodBalanceResponse struct {
	PaymentMethod      PaymentMethodResponse `json:"paymentMethod"`
	Income             MoneyFlowResponse     `json:"income"`
	Expense            MoneyFlowResponse     `json:"expense"`
	Balance            string                `json:"balance"`
	State              string                `json:"state"`
	IncomeExpenseRatio *string               `json:"incomeExpenseRatio"`
	ParticipationPct   string                `json:"participationPct"`
	LastActivity       *string               `json:"lastActivity,omitempty"`
}

// BalanceTotalsResponse represents the aggregate totals
type BalanceTotalsResponse struct {
	TotalIncome      string `json:"totalIncome"`
	TotalExpense     string `json:"totalExpense"`
	TotalBalance     string `json:"totalBalance"`
	MethodCount      int    `json:"methodCount"`
	TransactionCount int    `json:"transactionCount"`
}

// BalanceAlertsResponse represents the alert flags
type BalanceAlertsResponse struct {
	InTheRed               int  `json:"inTheRed"`
	ExcessiveConcentration bool `json:"excessiveConcentration"`
	Inactive               int  `json:"inactive"`
}

// DistributionEntryResponse represents one method's share of movement
type DistributionEntryResponse struct {
	Method     string `json:"method"`
	IncomePct  string `json:"incomePct"`
	ExpensePct string `json:"expensePct"`
	Balance    string `json:"balance"`
}

// BalanceAnalysisResponse represents the derived analysis block
type BalanceAnalysisResponse struct {
	TopMethod        *MethodBalanceResponse      `json:"topMethod"`
	BottomMethod     *MethodBalanceResponse      `json:"bottomMethod"`
	MostActiveMethod *MethodBalanceResponse      `json:"mostActiveMethod"`
	Distribution     []DistributionEntryResponse `json:"distribution"`
	Alerts           BalanceAlertsResponse       `json:"alerts"`
}

// HealthScoreResponse represents the financial health block
type HealthScoreResponse struct {
	Score           int      `json:"score"`
	Band            string   `json:"band"`
	Message         string   `json:"message"`
	Recommendations []string `json:"recommendations"`
}

// CashFlowResponse represents the cash flow projection block
type CashFlowResponse struct {
	MonthlyProjection string `json:"monthlyProjection"`
	Trend             string `json:"trend"`
	LiquidityDays     string `json:"liquidityDays"`
}

// BalanceParamsResponse echoes the applied query parameters
type BalanceParamsResponse struct {
	From            *string `json:"from"`
	To              *string `json:"to"`
	PaymentMethodID *string `json:"paymentMethodId"`
	IncludeIncome   bool    `json:"includeIncome"`
	IncludeExpenses bool    `json:"includeExpenses"`
	Currency        string  `json:"currency"`
}

// BalanceReportResponse represents the full balance report
type BalanceReportResponse struct {
	Balance     []MethodBalanceResponse `json:"balance"`
	Totals      BalanceTotalsResponse   `json:"totals"`
	Analysis    BalanceAnalysisResponse `json:"analysis"`
	Health      HealthScoreResponse     `json:"health"`
	CashFlow    CashFlowResponse        `json:"cashFlow"`
	Params      BalanceParamsResponse   `json:"params"`
	GeneratedAt string                  `json:"generatedAt"`
}

// GetBalance handles GET /api/v1/finance/balance
// @Summary Get the per-payment-method balance report
// @Description Consolidates transactions, budget expenses and general expenses into per-method balances with alerts, health score and cash flow projection
// @Tags finance
// @Produce json
// @Param from query string false "Start date (RFC 3339)"
// @Param to query string false "End date (RFC 3339)"
// @Param paymentMethodId query string false "Restrict to one payment method"
// @Param includeIncome query bool false "Include income records (default true)"
// @Param includeExpenses query bool false "Include expense records (default true)"
// @Param currency query string false "Currency (ARS or USD, default ARS)"
// @Success 200 {object} BalanceReportResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Security BearerAuth
// @Router /finance/balance [get]
func (h *BalanceHandler) GetBalance(c echo.Context) error {
	input := service.BalanceInput{
		IncludeIncome:   true,
		IncludeExpenses: true,
		Currency:        domain.CurrencyARS,
	}

	if fromStr := c.QueryParam("from"); fromStr != "" {
		from, err := time.Parse(time.RFC3339, fromStr)
		if err != nil {
			return NewValidationError(c, "Invalid date format", []ValidationError{
				{Field: "from", Message: "Must be an RFC 3339 timestamp"},
			})
		}
		input.From = &from
	}
	if toStr := c.QueryParam("to"); toStr != "" {
		to, err := time.Parse(time.RFC3339, toStr)
		if err != nil {
			return NewValidationError(c, "Invalid date format", []ValidationError{
				{Field: "to", Message: "Must be an RFC 3339 timestamp"},
			})
		}
		input.To = &to
	}
	if input.From != nil && input.To != nil && input.From.After(*input.To) {
		return NewValidationError(c, "Invalid date range", []ValidationError{
			{Field: "from", Message: "Must not be after 'to'"},
		})
	}
	if idStr := c.QueryParam("paymentMethodId"); idStr != "" {
		id, err := uuid.Parse(idStr)
		if err != nil {
			return NewValidationError(c, "Invalid payment method ID", []ValidationError{
				{Field: "paymentMethodId", Message: "Must be a valid UUID"},
			})
		}
		input.PaymentMethodID = &id
	}
	if v := c.QueryParam("includeIncome"); v != "" {
		input.IncludeIncome = v == "true"
	}
	if v := c.QueryParam("includeExpenses"); v != "" {
		input.IncludeExpenses = v == "true"
	}
	if v := c.QueryParam("currency"); v != "" {
		currency := domain.Currency(v)
		if !currency.Valid() {
			return NewValidationError(c, "Invalid currency", []ValidationError{
				{Field: "currency", Message: "Must be ARS or USD"},
			})
		}
		input.Currency = currency
	}

	report, err := h.balanceService.GetBalance(input)
	if err != nil {
		log.Error().Err(err).Msg("Failed to build balance report")
		return NewInternalError(c, "Failed to build balance report")
	}

	return c.JSON(http.StatusOK, toBalanceReportResponse(report))
}

func toBalanceReportResponse(report *domain.BalanceReport) BalanceReportResponse {
	methods := make([]MethodBalanceResponse, len(report.Methods))
	for i, m := range report.Methods {
		methods[i] = toMethodBalanceResponse(m)
	}

	distribution := make([]DistributionEntryResponse, len(report.Analysis.Distribution))
	for i, d := range report.Analysis.Distribution {
		distribution[i] = DistributionEntryResponse{
			Method:     d.Method,
			IncomePct:  d.IncomePct.StringFixed(2),
			ExpensePct: d.ExpensePct.StringFixed(2),
			Balance:    d.Balance.StringFixed(2),
		}
	}

	return BalanceReportResponse{
		Balance: methods,
		Totals: BalanceTotalsResponse{
			TotalIncome:      report.Totals.TotalIncome.StringFixed(2),
			TotalExpense:     report.Totals.TotalExpense.StringFixed(2),
			TotalBalance:     report.Totals.TotalBalance.StringFixed(2),
			MethodCount:      report.Totals.MethodCount,
			TransactionCount: report.Totals.TransactionCount,
		},
		Analysis: BalanceAnalysisResponse{
			TopMethod:        toOptionalMethodBalance(report.Analysis.TopMethod),
			BottomMethod:     toOptionalMethodBalance(report.Analysis.BottomMethod),
			MostActiveMethod: toOptionalMethodBalance(report.Analysis.MostActiveMethod),
			Distribution:     distribution,
			Alerts: BalanceAlertsResponse{
				InTheRed:               report.Analysis.Alerts.InTheRed,
				ExcessiveConcentration: report.Analysis.Alerts.ExcessiveConcentration,
				Inactive:               report.Analysis.Alerts.Inactive,
			},
		},
		Health: HealthScoreResponse{
			Score:           report.Health.Score,
			Band:            string(report.Health.Band),
			Message:         report.Health.Message,
			Recommendations: report.Health.Recommendations,
		},
		CashFlow: CashFlowResponse{
			MonthlyProjection: report.CashFlow.MonthlyProjection.StringFixed(2),
			Trend:             string(report.CashFlow.Trend),
			LiquidityDays:     report.CashFlow.LiquidityDays.StringFixed(1),
		},
		Params: BalanceParamsResponse{
			From:            optionalTimeString(report.Params.From),
			To:              optionalTimeString(report.Params.To),
			PaymentMethodID: report.Params.PaymentMethodID,
			IncludeIncome:   report.Params.IncludeIncome,
			IncludeExpenses: report.Params.IncludeExpenses,
			Currency:        string(report.Params.Currency),
		},
		GeneratedAt: report.GeneratedAt.Format(time.RFC3339),
	}
}

func toMethodBalanceResponse(m *domain.MethodBalance) MethodBalanceResponse {
	return MethodBalanceResponse{
		PaymentMethod:      toPaymentMethodResponse(m.PaymentMethod),
		Income:             toMoneyFlowResponse(m.Income),
		Expense:            toMoneyFlowResponse(m.Expense),
		Balance:            m.Balance.StringFixed(2),
		State:              string(m.State),
		IncomeExpenseRatio: optionalDecimalString(m.IncomeExpenseRatio, 4),
		ParticipationPct:   m.ParticipationPct.StringFixed(2),
		LastActivity:       optionalTimeString(m.LastActivity),
	}
}

func toOptionalMethodBalance(m *domain.MethodBalance) *MethodBalanceResponse {
	if m == nil {
		return nil
	}
	resp := toMethodBalanceResponse(m)
	return &resp
}

func toMoneyFlowResponse(f domain.MoneyFlow) MoneyFlowResponse {
	return MoneyFlowResponse{
		Total:  f.Total.StringFixed(2),
		Count:  f.Count,
		LastAt: optionalTimeString(f.LastAt),
	}
}

func optionalDecimalString(d *decimal.Decimal, places int32) *string {
	if d == nil {
		return nil
	}
	s := d.StringFixed(places)
	return &s
}

func optionalTimeString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}
