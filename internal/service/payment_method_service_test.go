package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/tallerhq/taller-backend/internal/domain"
	"github.com/tallerhq/taller-backend/internal/testutil"
)

func TestCreatePaymentMethod(t *testing.T) {
	methodRepo := testutil.NewMockPaymentMethodRepository()
	svc := NewPaymentMethodService(methodRepo)

	desc := "Cuenta corriente Galicia"
	created, err := svc.CreatePaymentMethod(CreatePaymentMethodInput{
		Name:        "  Banco Galicia  ",
		Description: &desc,
		Kind:        domain.PaymentMethodBank,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if created.Name != "Banco Galicia" {
		t.Errorf("Expected trimmed name, got %q", created.Name)
	}
	if !created.Active {
		t.Error("Expected new method to be active")
	}
	if created.ID == uuid.Nil {
		t.Error("Expected an ID to be assigned")
	}
}

func TestCreatePaymentMethod_Validation(t *testing.T) {
	methodRepo := testutil.NewMockPaymentMethodRepository()
	svc := NewPaymentMethodService(methodRepo)

	longDesc := strings.Repeat("x", domain.MaxDescriptionLength+1)
	tests := []struct {
		name    string
		input   CreatePaymentMethodInput
		wantErr error
	}{
		{"empty name", CreatePaymentMethodInput{Name: "  "}, domain.ErrNameRequired},
		{"name too long", CreatePaymentMethodInput{Name: strings.Repeat("a", domain.MaxNameLength+1)}, domain.ErrNameTooLong},
		{"bad kind", CreatePaymentMethodInput{Name: "Tarjeta", Kind: "crypto"}, domain.ErrInvalidPaymentMethodKind},
		{"long description", CreatePaymentMethodInput{Name: "Tarjeta", Description: &longDesc}, domain.ErrDescriptionTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreatePaymentMethod(tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestCreatePaymentMethod_KindOptional(t *testing.T) {
	methodRepo := testutil.NewMockPaymentMethodRepository()
	svc := NewPaymentMethodService(methodRepo)

	created, err := svc.CreatePaymentMethod(CreatePaymentMethodInput{Name: "Cheque"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if created.Kind != domain.PaymentMethodUnknown {
		t.Errorf("Expected unknown kind, got %q", created.Kind)
	}
}

func TestGetPaymentMethods_ActiveOnly(t *testing.T) {
	methodRepo := testutil.NewMockPaymentMethodRepository()
	svc := NewPaymentMethodService(methodRepo)

	methodRepo.AddMethod(&domain.PaymentMethod{ID: uuid.New(), Name: "Efectivo", Active: true})
	methodRepo.AddMethod(&domain.PaymentMethod{ID: uuid.New(), Name: "Cuenta cerrada", Active: false})

	all, err := svc.GetPaymentMethods(false)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(all) != 2 {
		t.Errorf("Expected 2 methods, got %d", len(all))
	}

	active, err := svc.GetPaymentMethods(true)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(active) != 1 {
		t.Fatalf("Expected 1 active method, got %d", len(active))
	}
	if active[0].Name != "Efectivo" {
		t.Errorf("Expected Efectivo, got %s", active[0].Name)
	}
}

func TestUpdatePaymentMethod_PartialUpdate(t *testing.T) {
	methodRepo := testutil.NewMockPaymentMethodRepository()
	svc := NewPaymentMethodService(methodRepo)

	method := &domain.PaymentMethod{ID: uuid.New(), Name: "Banco", Kind: domain.PaymentMethodBank, Active: true}
	methodRepo.AddMethod(method)

	inactive := false
	updated, err := svc.UpdatePaymentMethod(method.ID, UpdatePaymentMethodInput{Active: &inactive})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if updated.Active {
		t.Error("Expected method deactivated")
	}
	if updated.Name != "Banco" {
		t.Errorf("Expected name untouched, got %q", updated.Name)
	}
	if updated.Kind != domain.PaymentMethodBank {
		t.Errorf("Expected kind untouched, got %q", updated.Kind)
	}
}

func TestUpdatePaymentMethod_NotFound(t *testing.T) {
	methodRepo := testutil.NewMockPaymentMethodRepository()
	svc := NewPaymentMethodService(methodRepo)

	name := "Nuevo"
	_, err := svc.UpdatePaymentMethod(uuid.New(), UpdatePaymentMethodInput{Name: &name})
	if !errors.Is(err, domain.ErrPaymentMethodNotFound) {
		t.Errorf("Expected ErrPaymentMethodNotFound, got %v", err)
	}
}

func TestUpdatePaymentMethod_RejectsEmptyName(t *testing.T) {
	methodRepo := testutil.NewMockPaymentMethodRepository()
	svc := NewPaymentMethodService(methodRepo)

	method := &domain.PaymentMethod{ID: uuid.New(), Name: "Banco", Active: true}
	methodRepo.AddMethod(method)

	empty := "   "
	_, err := svc.UpdatePaymentMethod(method.ID, UpdatePaymentMethodInput{Name: &empty})
	if !errors.Is(err, domain.ErrNameRequired) {
		t.Errorf("Expected ErrNameRequired, got %v", err)
	}
}
