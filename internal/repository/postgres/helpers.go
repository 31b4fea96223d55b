package postgres

import (
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/tallerhq/taller-backend/internal/domain"
)

// Shared scan/convert helpers for the pgx repositories.

func decimalToPgNumeric(d decimal.Decimal) (pgtype.Numeric, error) {
	var num pgtype.Numeric
	if err := num.Scan(d.String()); err != nil {
		return pgtype.Numeric{}, err
	}
	return num, nil
}

func pgNumericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid || n.Int == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(n.Int, n.Exp)
}

// joinedPaymentMethod assembles the optional payment method from a LEFT
// JOIN's nullable columns.
func joinedPaymentMethod(id *uuid.UUID, name, kind *string, active *bool) *domain.PaymentMethod {
	if id == nil || name == nil {
		return nil
	}
	method := &domain.PaymentMethod{
		ID:   *id,
		Name: *name,
	}
	if kind != nil {
		method.Kind = domain.PaymentMethodKind(*kind)
	}
	if active != nil {
		method.Active = *active
	}
	return method
}
