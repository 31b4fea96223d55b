package domain

import "github.com/shopspring/decimal"

// HealthBand is the qualitative level a health score falls into.
type HealthBand string

const (
	HealthBandExcellent HealthBand = "excellent"
	HealthBandGood      HealthBand = "good"
	HealthBandFair      HealthBand = "fair"
	HealthBandPoor      HealthBand = "poor"
	HealthBandCritical  HealthBand = "critical"
)

// HealthScore is a composite 0-100 rating of overall balance health.
// Purely derived; recomputed per request.
type HealthScore struct {
	Score           int        `json:"score"`
	Band            HealthBand `json:"band"`
	Message         string     `json:"message"`
	Recommendations []string   `json:"recommendations"`
}

// Recommendation strings, emitted in scoring-rule order.
const (
	RecommendationReduceExpenses     = "Reduce expenses or increase income"
	RecommendationDiversifyMethods   = "Diversify payment methods to reduce risk"
	RecommendationAvoidConcentration = "Avoid excessive concentration in a single payment method"
	RecommendationNegativeMethods    = "Several payment methods have a negative balance"
	RecommendationExpensesExceed     = "Expenses exceed income"
)

const healthBaseScore = 50

var (
	ratioHealthy       = decimal.New(12, -1) // 1.2
	risingTrendFactor  = decimal.New(1, -1)  // 0.1
	fallingTrendFactor = decimal.New(5, -2)  // 0.05
	daysPerMonth       = decimal.NewFromInt(30)
)

// ComputeHealthScore applies the fixed scoring rules to the aggregate
// totals and alerts. All rules are independent; the order only matters
// for the recommendation list.
func ComputeHealthScore(totals AggregateTotals, alerts BalanceAlerts) *HealthScore {
	score := healthBaseScore
	recommendations := []string{}

	// Rule 1: overall balance.
	switch totals.TotalBalance.Sign() {
	case 1:
		score += 30
	case -1:
		score -= 20
		recommendations = append(recommendations, RecommendationReduceExpenses)
	}

	// Rule 2: diversification.
	if totals.MethodCount >= 3 {
		score += 20
	} else if totals.MethodCount < 2 {
		score -= 10
		recommendations = append(recommendations, RecommendationDiversifyMethods)
	}

	// Rule 3: concentration.
	if alerts.ExcessiveConcentration {
		score -= 15
		recommendations = append(recommendations, RecommendationAvoidConcentration)
	} else {
		score += 10
	}

	// Rule 4: methods in the red. Ratio > 0.5 without division:
	// 2 * inTheRed > max(1, methodCount).
	methodCount := totals.MethodCount
	if methodCount < 1 {
		methodCount = 1
	}
	if 2*alerts.InTheRed > methodCount {
		score -= 15
		recommendations = append(recommendations, RecommendationNegativeMethods)
	}

	// Rule 5: global income/expense ratio. Defaults to 1 when there are
	// no expenses, which triggers neither branch.
	globalRatio := decimal.NewFromInt(1)
	if totals.TotalExpense.IsPositive() {
		globalRatio = totals.TotalIncome.Div(totals.TotalExpense)
	}
	if globalRatio.GreaterThanOrEqual(ratioHealthy) {
		score += 20
	} else if globalRatio.LessThan(decimal.NewFromInt(1)) {
		score -= 20
		recommendations = append(recommendations, RecommendationExpensesExceed)
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	band, message := healthBandOf(score)
	return &HealthScore{
		Score:           score,
		Band:            band,
		Message:         message,
		Recommendations: recommendations,
	}
}

func healthBandOf(score int) (HealthBand, string) {
	switch {
	case score >= 85:
		return HealthBandExcellent, "Excellent financial health"
	case score >= 70:
		return HealthBandGood, "Good financial health"
	case score >= 50:
		return HealthBandFair, "Fair financial health, room for improvement"
	case score >= 30:
		return HealthBandPoor, "Financial situation needs attention"
	default:
		return HealthBandCritical, "Critical financial situation"
	}
}

// CashFlowTrend is the direction of the projected cash flow.
type CashFlowTrend string

const (
	TrendRising  CashFlowTrend = "rising"
	TrendFalling CashFlowTrend = "falling"
	TrendStable  CashFlowTrend = "stable"
)

// CashFlowProjection extrapolates liquidity from current-period totals.
type CashFlowProjection struct {
	// MonthlyProjection is the current-period net flow. It is not
	// extrapolated by day of month; the name is kept for compatibility
	// with the consumers of this figure.
	MonthlyProjection decimal.Decimal `json:"monthlyProjection"`
	Trend             CashFlowTrend   `json:"trend"`
	// LiquidityDays is how many days of current burn rate the cash pool
	// covers. Never negative.
	LiquidityDays decimal.Decimal `json:"liquidityDays"`
}

// ProjectCashFlow derives the cash-flow projection from the aggregate
// totals and the per-method balances. The cash pool sums balances of
// cash-equivalent methods; daily expense assumes a fixed 30-day month.
func ProjectCashFlow(totals AggregateTotals, methods []*MethodBalance) *CashFlowProjection {
	netFlow := totals.TotalIncome.Sub(totals.TotalExpense)

	cashPool := decimal.Zero
	for _, m := range methods {
		if m.PaymentMethod.IsCashEquivalent() {
			cashPool = cashPool.Add(m.Balance)
		}
	}

	liquidityDays := decimal.Zero
	dailyExpense := totals.TotalExpense.Div(daysPerMonth)
	if dailyExpense.IsPositive() {
		liquidityDays = cashPool.Div(dailyExpense)
		if liquidityDays.IsNegative() {
			liquidityDays = decimal.Zero
		}
	}

	trend := TrendStable
	if netFlow.GreaterThan(totals.TotalIncome.Mul(risingTrendFactor)) {
		trend = TrendRising
	} else if netFlow.LessThan(totals.TotalExpense.Mul(fallingTrendFactor).Neg()) {
		trend = TrendFalling
	}

	return &CashFlowProjection{
		MonthlyProjection: netFlow,
		Trend:             trend,
		LiquidityDays:     liquidityDays,
	}
}
