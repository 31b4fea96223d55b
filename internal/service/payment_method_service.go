package service

import (
	"strings"

	"github.com/google/uuid"
	"github.com/tallerhq/taller-backend/internal/domain"
	"github.com/tallerhq/taller-backend/internal/websocket"
)

// PaymentMethodService handles payment method business logic
type PaymentMethodService struct {
	methodRepo     domain.PaymentMethodRepository
	eventPublisher websocket.EventPublisher
}

// NewPaymentMethodService creates a new PaymentMethodService
func NewPaymentMethodService(methodRepo domain.PaymentMethodRepository) *PaymentMethodService {
	return &PaymentMethodService{methodRepo: methodRepo}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *PaymentMethodService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// publishEvent publishes a WebSocket event if a publisher is configured
func (s *PaymentMethodService) publishEvent(event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(event)
	}
}

// CreatePaymentMethodInput holds the input for creating a payment method
type CreatePaymentMethodInput struct {
	Name        string
	Description *string
	Kind        domain.PaymentMethodKind
}

// CreatePaymentMethod validates and creates a new payment method.
// New methods are always created active.
func (s *PaymentMethodService) CreatePaymentMethod(input CreatePaymentMethodInput) (*domain.PaymentMethod, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if len(name) > domain.MaxNameLength {
		return nil, domain.ErrNameTooLong
	}
	if input.Kind != domain.PaymentMethodUnknown && !input.Kind.Valid() {
		return nil, domain.ErrInvalidPaymentMethodKind
	}
	if input.Description != nil && len(*input.Description) > domain.MaxDescriptionLength {
		return nil, domain.ErrDescriptionTooLong
	}

	method := &domain.PaymentMethod{
		Name:        name,
		Description: input.Description,
		Kind:        input.Kind,
		Active:      true,
	}
	created, err := s.methodRepo.Create(method)
	if err != nil {
		return nil, err
	}

	s.publishEvent(websocket.PaymentMethodCreated(created))

	return created, nil
}

// GetPaymentMethods retrieves payment methods, optionally active only
func (s *PaymentMethodService) GetPaymentMethods(activeOnly bool) ([]*domain.PaymentMethod, error) {
	return s.methodRepo.GetAll(activeOnly)
}

// GetPaymentMethodByID retrieves a payment method by ID
func (s *PaymentMethodService) GetPaymentMethodByID(id uuid.UUID) (*domain.PaymentMethod, error) {
	return s.methodRepo.GetByID(id)
}

// UpdatePaymentMethodInput holds the editable fields of a payment
// method. Nil fields are left unchanged.
type UpdatePaymentMethodInput struct {
	Name        *string
	Description *string
	Kind        *domain.PaymentMethodKind
	Active      *bool
}

// UpdatePaymentMethod applies a partial update. Deactivating a method
// hides it from new records but keeps it attached to historical ones,
// so past balances stay reconstructible.
func (s *PaymentMethodService) UpdatePaymentMethod(id uuid.UUID, input UpdatePaymentMethodInput) (*domain.PaymentMethod, error) {
	method, err := s.methodRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, domain.ErrNameRequired
		}
		if len(name) > domain.MaxNameLength {
			return nil, domain.ErrNameTooLong
		}
		method.Name = name
	}
	if input.Description != nil {
		if len(*input.Description) > domain.MaxDescriptionLength {
			return nil, domain.ErrDescriptionTooLong
		}
		method.Description = input.Description
	}
	if input.Kind != nil {
		if *input.Kind != domain.PaymentMethodUnknown && !input.Kind.Valid() {
			return nil, domain.ErrInvalidPaymentMethodKind
		}
		method.Kind = *input.Kind
	}
	if input.Active != nil {
		method.Active = *input.Active
	}

	updated, err := s.methodRepo.Update(method)
	if err != nil {
		return nil, err
	}

	s.publishEvent(websocket.PaymentMethodUpdated(updated))

	return updated, nil
}

// requireActiveMethod loads a payment method and checks it can take new
// records. Shared by the services that write money movements.
func requireActiveMethod(repo domain.PaymentMethodRepository, id uuid.UUID) (*domain.PaymentMethod, error) {
	method, err := repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !method.Active {
		return nil, domain.ErrPaymentMethodInactive
	}
	return method, nil
}
