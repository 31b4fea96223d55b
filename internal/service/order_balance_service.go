package service

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tallerhq/taller-backend/internal/domain"
)

// OrderBalanceService computes the payment status of a single order
// from its recorded work payments.
type OrderBalanceService struct {
	orderRepo       domain.OrderRepository
	transactionRepo domain.TransactionRepository
}

// NewOrderBalanceService creates a new OrderBalanceService
func NewOrderBalanceService(orderRepo domain.OrderRepository, transactionRepo domain.TransactionRepository) *OrderBalanceService {
	return &OrderBalanceService{
		orderRepo:       orderRepo,
		transactionRepo: transactionRepo,
	}
}

// OrderPaymentEntry is one payment method's share of an order's payments.
type OrderPaymentEntry struct {
	PaymentMethod *domain.PaymentMethod `json:"paymentMethod"`
	Total         decimal.Decimal       `json:"total"`
	Count         int64                 `json:"count"`
	Pct           decimal.Decimal       `json:"pct"`
	Average       decimal.Decimal       `json:"average"`
	FirstPayment  *time.Time            `json:"firstPayment,omitempty"`
	LastPayment   *time.Time            `json:"lastPayment,omitempty"`
}

// OrderBalance is the payment status of one order.
type OrderBalance struct {
	Order          *domain.Order         `json:"order"`
	TotalPaid      decimal.Decimal       `json:"totalPaid"`
	PendingBalance decimal.Decimal       `json:"pendingBalance"`
	CollectedPct   decimal.Decimal       `json:"collectedPct"`
	Payments       []*domain.Transaction `json:"payments"`
	ByMethod       []*OrderPaymentEntry  `json:"byMethod"`
	MostUsedMethod *domain.PaymentMethod `json:"mostUsedMethod,omitempty"`
}

// GetOrderBalance sums an order's work payments and breaks them down by
// payment method. Payments in a currency other than the order's are
// listed but excluded from the paid total.
func (s *OrderBalanceService) GetOrderBalance(orderID uuid.UUID) (*OrderBalance, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}

	payments, err := s.transactionRepo.ListByOrder(orderID, domain.TransactionTypeWorkPayment)
	if err != nil {
		return nil, err
	}

	totalPaid := decimal.Zero
	entries := make(map[uuid.UUID]*OrderPaymentEntry)
	entryOrder := make([]*OrderPaymentEntry, 0)

	for _, p := range payments {
		if p.Currency != order.Currency {
			continue
		}
		totalPaid = totalPaid.Add(p.Amount)
		if p.PaymentMethod == nil {
			continue
		}
		entry, ok := entries[p.PaymentMethod.ID]
		if !ok {
			entry = &OrderPaymentEntry{PaymentMethod: p.PaymentMethod, Total: decimal.Zero}
			entries[p.PaymentMethod.ID] = entry
			entryOrder = append(entryOrder, entry)
		}
		entry.Total = entry.Total.Add(p.Amount)
		entry.Count++
		paymentDate := p.Date
		if entry.FirstPayment == nil || paymentDate.Before(*entry.FirstPayment) {
			entry.FirstPayment = &paymentDate
		}
		if entry.LastPayment == nil || paymentDate.After(*entry.LastPayment) {
			entry.LastPayment = &paymentDate
		}
	}

	collectedPct := decimal.Zero
	if order.Total.IsPositive() {
		collectedPct = totalPaid.Div(order.Total).Mul(hundred)
	}

	var mostUsed *domain.PaymentMethod
	var mostUsedCount int64
	for _, entry := range entryOrder {
		if totalPaid.IsPositive() {
			entry.Pct = entry.Total.Div(totalPaid).Mul(hundred)
		}
		if entry.Count > 0 {
			entry.Average = entry.Total.Div(decimal.NewFromInt(entry.Count))
		}
		if entry.Count > mostUsedCount {
			mostUsedCount = entry.Count
			mostUsed = entry.PaymentMethod
		}
	}

	return &OrderBalance{
		Order:          order,
		TotalPaid:      totalPaid,
		PendingBalance: order.Total.Sub(totalPaid),
		CollectedPct:   collectedPct,
		Payments:       payments,
		ByMethod:       entryOrder,
		MostUsedMethod: mostUsed,
	}, nil
}
