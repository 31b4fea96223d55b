package testutil

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tallerhq/taller-backend/internal/domain"
)

// MockUserRepository is a mock implementation of domain.UserRepository
type MockUserRepository struct {
	BySubject map[string]*domain.User
	ByID      map[uuid.UUID]*domain.User
}

// NewMockUserRepository creates a new MockUserRepository
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		BySubject: make(map[string]*domain.User),
		ByID:      make(map[uuid.UUID]*domain.User),
	}
}

// GetByID retrieves a user by ID
func (m *MockUserRepository) GetByID(id uuid.UUID) (*domain.User, error) {
	if user, ok := m.ByID[id]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// GetBySubject retrieves a user by JWT subject
func (m *MockUserRepository) GetBySubject(subject string) (*domain.User, error) {
	if user, ok := m.BySubject[subject]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// CreateOrGetBySubject creates or retrieves a user by JWT subject
func (m *MockUserRepository) CreateOrGetBySubject(subject, email string, name *string) (*domain.User, error) {
	if user, ok := m.BySubject[subject]; ok {
		return user, nil
	}
	user := &domain.User{
		ID:      uuid.New(),
		Subject: subject,
		Email:   email,
		Name:    name,
		Role:    domain.RoleUser,
	}
	m.BySubject[subject] = user
	m.ByID[user.ID] = user
	return user, nil
}

// AddUser adds a user to the mock repository (helper for tests)
func (m *MockUserRepository) AddUser(user *domain.User) {
	m.BySubject[user.Subject] = user
	m.ByID[user.ID] = user
}

// MockPaymentMethodRepository is a mock implementation of domain.PaymentMethodRepository
type MockPaymentMethodRepository struct {
	Methods map[uuid.UUID]*domain.PaymentMethod
	order   []uuid.UUID
}

// NewMockPaymentMethodRepository creates a new MockPaymentMethodRepository
func NewMockPaymentMethodRepository() *MockPaymentMethodRepository {
	return &MockPaymentMethodRepository{
		Methods: make(map[uuid.UUID]*domain.PaymentMethod),
	}
}

// GetAll retrieves payment methods, optionally active only
func (m *MockPaymentMethodRepository) GetAll(activeOnly bool) ([]*domain.PaymentMethod, error) {
	var methods []*domain.PaymentMethod
	for _, id := range m.order {
		method := m.Methods[id]
		if activeOnly && !method.Active {
			continue
		}
		methods = append(methods, method)
	}
	return methods, nil
}

// GetByID retrieves a payment method by ID
func (m *MockPaymentMethodRepository) GetByID(id uuid.UUID) (*domain.PaymentMethod, error) {
	if method, ok := m.Methods[id]; ok {
		return method, nil
	}
	return nil, domain.ErrPaymentMethodNotFound
}

// Create creates a new payment method
func (m *MockPaymentMethodRepository) Create(method *domain.PaymentMethod) (*domain.PaymentMethod, error) {
	method.ID = uuid.New()
	method.CreatedAt = time.Now()
	method.UpdatedAt = time.Now()
	m.Methods[method.ID] = method
	m.order = append(m.order, method.ID)
	return method, nil
}

// Update updates an existing payment method
func (m *MockPaymentMethodRepository) Update(method *domain.PaymentMethod) (*domain.PaymentMethod, error) {
	if _, ok := m.Methods[method.ID]; !ok {
		return nil, domain.ErrPaymentMethodNotFound
	}
	method.UpdatedAt = time.Now()
	m.Methods[method.ID] = method
	return method, nil
}

// AddMethod adds a payment method to the mock repository (helper for tests)
func (m *MockPaymentMethodRepository) AddMethod(method *domain.PaymentMethod) {
	m.Methods[method.ID] = method
	m.order = append(m.order, method.ID)
}

// MockTransactionRepository is a mock implementation of domain.TransactionRepository
type MockTransactionRepository struct {
	Transactions []*domain.Transaction
}

// NewMockTransactionRepository creates a new MockTransactionRepository
func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{}
}

// AddTransaction adds a transaction to the mock repository (helper for tests)
func (m *MockTransactionRepository) AddTransaction(t *domain.Transaction) {
	m.Transactions = append(m.Transactions, t)
}

// Create creates a new transaction
func (m *MockTransactionRepository) Create(t *domain.Transaction) (*domain.Transaction, error) {
	t.ID = uuid.New()
	t.CreatedAt = time.Now()
	t.UpdatedAt = time.Now()
	m.Transactions = append(m.Transactions, t)
	return t, nil
}

// GetByID retrieves a transaction by ID
func (m *MockTransactionRepository) GetByID(id uuid.UUID) (*domain.Transaction, error) {
	for _, t := range m.Transactions {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, domain.ErrTransactionNotFound
}

func matchesTransactionFilters(t *domain.Transaction, filters *domain.TransactionFilters) bool {
	if len(filters.Types) > 0 {
		found := false
		for _, ft := range filters.Types {
			if t.Type == ft {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if filters.PaymentMethodID != nil {
		if t.PaymentMethodID == nil || *t.PaymentMethodID != *filters.PaymentMethodID {
			return false
		}
	}
	if filters.From != nil && t.Date.Before(*filters.From) {
		return false
	}
	if filters.To != nil && t.Date.After(*filters.To) {
		return false
	}
	if filters.Currency != nil && t.Currency != *filters.Currency {
		return false
	}
	return true
}

// List retrieves a filtered, paginated transaction list
func (m *MockTransactionRepository) List(filters *domain.TransactionFilters) (*domain.PaginatedTransactions, error) {
	all, err := m.ListAll(filters)
	if err != nil {
		return nil, err
	}

	page := filters.Page
	if page < 1 {
		page = 1
	}
	pageSize := filters.PageSize
	if pageSize < 1 {
		pageSize = domain.DefaultPageSize
	}

	totalItems := int64(len(all))
	totalPages := int32((totalItems + int64(pageSize) - 1) / int64(pageSize))

	start := int((page - 1) * pageSize)
	if start > len(all) {
		start = len(all)
	}
	end := start + int(pageSize)
	if end > len(all) {
		end = len(all)
	}

	return &domain.PaginatedTransactions{
		Data:       all[start:end],
		Page:       page,
		PageSize:   pageSize,
		TotalItems: totalItems,
		TotalPages: totalPages,
	}, nil
}

// ListAll retrieves every transaction matching the filters
func (m *MockTransactionRepository) ListAll(filters *domain.TransactionFilters) ([]*domain.Transaction, error) {
	var matched []*domain.Transaction
	for _, t := range m.Transactions {
		if matchesTransactionFilters(t, filters) {
			matched = append(matched, t)
		}
	}
	return matched, nil
}

// ListByOrder retrieves transactions of a type attached to an order
func (m *MockTransactionRepository) ListByOrder(orderID uuid.UUID, transactionType domain.TransactionType) ([]*domain.Transaction, error) {
	var matched []*domain.Transaction
	for _, t := range m.Transactions {
		if t.OrderID != nil && *t.OrderID == orderID && t.Type == transactionType {
			matched = append(matched, t)
		}
	}
	return matched, nil
}

// ListRecent retrieves the most recent transactions by date
func (m *MockTransactionRepository) ListRecent(limit int32) ([]*domain.Transaction, error) {
	sorted := make([]*domain.Transaction, len(m.Transactions))
	copy(sorted, m.Transactions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date)
	})
	if int32(len(sorted)) > limit {
		sorted = sorted[:limit]
	}
	return sorted, nil
}

// SumByTypes sums transaction amounts by type within a date range
func (m *MockTransactionRepository) SumByTypes(types []domain.TransactionType, from, to time.Time) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, t := range m.Transactions {
		if t.Date.Before(from) || t.Date.After(to) {
			continue
		}
		for _, ft := range types {
			if t.Type == ft {
				sum = sum.Add(t.Amount)
				break
			}
		}
	}
	return sum, nil
}

// CountByDateRange counts transactions within a date range
func (m *MockTransactionRepository) CountByDateRange(from, to time.Time) (int64, error) {
	var count int64
	for _, t := range m.Transactions {
		if !t.Date.Before(from) && !t.Date.After(to) {
			count++
		}
	}
	return count, nil
}

// TopMethodUsage groups transaction counts and totals per payment method
func (m *MockTransactionRepository) TopMethodUsage(from, to time.Time, limit int32) ([]*domain.MethodUsage, error) {
	byMethod := make(map[uuid.UUID]*domain.MethodUsage)
	var order []uuid.UUID
	for _, t := range m.Transactions {
		if t.PaymentMethod == nil || t.Date.Before(from) || t.Date.After(to) {
			continue
		}
		usage, ok := byMethod[t.PaymentMethod.ID]
		if !ok {
			usage = &domain.MethodUsage{PaymentMethod: t.PaymentMethod, Total: decimal.Zero}
			byMethod[t.PaymentMethod.ID] = usage
			order = append(order, t.PaymentMethod.ID)
		}
		usage.Count++
		usage.Total = usage.Total.Add(t.Amount)
	}

	usages := make([]*domain.MethodUsage, 0, len(byMethod))
	for _, id := range order {
		usages = append(usages, byMethod[id])
	}
	sort.SliceStable(usages, func(i, j int) bool {
		return usages[i].Count > usages[j].Count
	})
	if int32(len(usages)) > limit {
		usages = usages[:limit]
	}
	return usages, nil
}

// MockGeneralExpenseRepository is a mock implementation of domain.GeneralExpenseRepository
type MockGeneralExpenseRepository struct {
	Expenses []*domain.GeneralExpense
}

// NewMockGeneralExpenseRepository creates a new MockGeneralExpenseRepository
func NewMockGeneralExpenseRepository() *MockGeneralExpenseRepository {
	return &MockGeneralExpenseRepository{}
}

// AddExpense adds an expense to the mock repository (helper for tests)
func (m *MockGeneralExpenseRepository) AddExpense(e *domain.GeneralExpense) {
	m.Expenses = append(m.Expenses, e)
}

// Create creates a new general expense
func (m *MockGeneralExpenseRepository) Create(e *domain.GeneralExpense) (*domain.GeneralExpense, error) {
	e.ID = uuid.New()
	e.CreatedAt = time.Now()
	e.UpdatedAt = time.Now()
	m.Expenses = append(m.Expenses, e)
	return e, nil
}

// GetByID retrieves a general expense by ID
func (m *MockGeneralExpenseRepository) GetByID(id uuid.UUID) (*domain.GeneralExpense, error) {
	for _, e := range m.Expenses {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, domain.ErrExpenseNotFound
}

func matchesExpenseFilters(category string, period *string, methodID uuid.UUID, date time.Time, currency domain.Currency, filters *domain.ExpenseFilters) bool {
	if filters.Category != nil && category != *filters.Category {
		return false
	}
	if filters.Period != nil {
		if period == nil || *period != *filters.Period {
			return false
		}
	}
	if filters.PaymentMethodID != nil && methodID != *filters.PaymentMethodID {
		return false
	}
	if filters.From != nil && date.Before(*filters.From) {
		return false
	}
	if filters.To != nil && date.After(*filters.To) {
		return false
	}
	if filters.Currency != nil && currency != *filters.Currency {
		return false
	}
	return true
}

// List retrieves a filtered, paginated general expense list
func (m *MockGeneralExpenseRepository) List(filters *domain.ExpenseFilters) (*domain.PaginatedGeneralExpenses, error) {
	all, err := m.ListAll(filters)
	if err != nil {
		return nil, err
	}

	page := filters.Page
	if page < 1 {
		page = 1
	}
	pageSize := filters.PageSize
	if pageSize < 1 {
		pageSize = domain.DefaultPageSize
	}

	totalItems := int64(len(all))
	totalPages := int32((totalItems + int64(pageSize) - 1) / int64(pageSize))

	start := int((page - 1) * pageSize)
	if start > len(all) {
		start = len(all)
	}
	end := start + int(pageSize)
	if end > len(all) {
		end = len(all)
	}

	return &domain.PaginatedGeneralExpenses{
		Data:       all[start:end],
		Page:       page,
		PageSize:   pageSize,
		TotalItems: totalItems,
		TotalPages: totalPages,
	}, nil
}

// ListAll retrieves every general expense matching the filters
func (m *MockGeneralExpenseRepository) ListAll(filters *domain.ExpenseFilters) ([]*domain.GeneralExpense, error) {
	var matched []*domain.GeneralExpense
	for _, e := range m.Expenses {
		if matchesExpenseFilters(e.Category, e.Period, e.PaymentMethodID, e.Date, e.Currency, filters) {
			matched = append(matched, e)
		}
	}
	return matched, nil
}

// Update updates an existing general expense
func (m *MockGeneralExpenseRepository) Update(e *domain.GeneralExpense) (*domain.GeneralExpense, error) {
	for i, existing := range m.Expenses {
		if existing.ID == e.ID {
			e.UpdatedAt = time.Now()
			m.Expenses[i] = e
			return e, nil
		}
	}
	return nil, domain.ErrExpenseNotFound
}

// Delete removes a general expense
func (m *MockGeneralExpenseRepository) Delete(id uuid.UUID) error {
	for i, e := range m.Expenses {
		if e.ID == id {
			m.Expenses = append(m.Expenses[:i], m.Expenses[i+1:]...)
			return nil
		}
	}
	return domain.ErrExpenseNotFound
}

// CountByYear counts general expenses dated within a year
func (m *MockGeneralExpenseRepository) CountByYear(year int) (int64, error) {
	var count int64
	for _, e := range m.Expenses {
		if e.Date.Year() == year {
			count++
		}
	}
	return count, nil
}

// StatsByCategory aggregates expenses per category
func (m *MockGeneralExpenseRepository) StatsByCategory(filters *domain.ExpenseFilters) ([]*domain.CategoryStat, error) {
	byCategory := make(map[string]*domain.CategoryStat)
	var order []string
	all, _ := m.ListAll(filters)
	for _, e := range all {
		stat, ok := byCategory[e.Category]
		if !ok {
			stat = &domain.CategoryStat{Category: e.Category, Amount: decimal.Zero}
			byCategory[e.Category] = stat
			order = append(order, e.Category)
		}
		stat.Count++
		stat.Amount = stat.Amount.Add(e.Amount)
	}
	stats := make([]*domain.CategoryStat, 0, len(order))
	for _, c := range order {
		stats = append(stats, byCategory[c])
	}
	return stats, nil
}

// StatsByMethod aggregates expenses per payment method
func (m *MockGeneralExpenseRepository) StatsByMethod(filters *domain.ExpenseFilters) ([]*domain.MethodStat, error) {
	byMethod := make(map[uuid.UUID]*domain.MethodStat)
	var order []uuid.UUID
	all, _ := m.ListAll(filters)
	for _, e := range all {
		if e.PaymentMethod == nil {
			continue
		}
		stat, ok := byMethod[e.PaymentMethod.ID]
		if !ok {
			stat = &domain.MethodStat{PaymentMethod: e.PaymentMethod, Amount: decimal.Zero}
			byMethod[e.PaymentMethod.ID] = stat
			order = append(order, e.PaymentMethod.ID)
		}
		stat.Count++
		stat.Amount = stat.Amount.Add(e.Amount)
	}
	stats := make([]*domain.MethodStat, 0, len(order))
	for _, id := range order {
		stats = append(stats, byMethod[id])
	}
	return stats, nil
}

// SetReceiptURL stores the receipt object key on a general expense
func (m *MockGeneralExpenseRepository) SetReceiptURL(id uuid.UUID, url *string) error {
	for _, e := range m.Expenses {
		if e.ID == id {
			e.ReceiptURL = url
			return nil
		}
	}
	return domain.ErrExpenseNotFound
}

// MockBudgetExpenseRepository is a mock implementation of domain.BudgetExpenseRepository
type MockBudgetExpenseRepository struct {
	Expenses []*domain.BudgetExpense
}

// NewMockBudgetExpenseRepository creates a new MockBudgetExpenseRepository
func NewMockBudgetExpenseRepository() *MockBudgetExpenseRepository {
	return &MockBudgetExpenseRepository{}
}

// AddExpense adds an expense to the mock repository (helper for tests)
func (m *MockBudgetExpenseRepository) AddExpense(e *domain.BudgetExpense) {
	m.Expenses = append(m.Expenses, e)
}

// Create creates a new budget expense
func (m *MockBudgetExpenseRepository) Create(e *domain.BudgetExpense) (*domain.BudgetExpense, error) {
	e.ID = uuid.New()
	e.CreatedAt = time.Now()
	e.UpdatedAt = time.Now()
	m.Expenses = append(m.Expenses, e)
	return e, nil
}

// GetByID retrieves a budget expense by ID
func (m *MockBudgetExpenseRepository) GetByID(id uuid.UUID) (*domain.BudgetExpense, error) {
	for _, e := range m.Expenses {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, domain.ErrExpenseNotFound
}

// ListByBudget retrieves the expenses charged against a budget
func (m *MockBudgetExpenseRepository) ListByBudget(budgetID uuid.UUID) ([]*domain.BudgetExpense, error) {
	var matched []*domain.BudgetExpense
	for _, e := range m.Expenses {
		if e.BudgetID == budgetID {
			matched = append(matched, e)
		}
	}
	return matched, nil
}

// ListAll retrieves every budget expense matching the filters
func (m *MockBudgetExpenseRepository) ListAll(filters *domain.ExpenseFilters) ([]*domain.BudgetExpense, error) {
	var matched []*domain.BudgetExpense
	for _, e := range m.Expenses {
		if matchesExpenseFilters(string(e.Category), nil, e.PaymentMethodID, e.Date, e.Currency, filters) {
			matched = append(matched, e)
		}
	}
	return matched, nil
}

// CountByBudget counts the expenses charged against a budget
func (m *MockBudgetExpenseRepository) CountByBudget(budgetID uuid.UUID) (int64, error) {
	var count int64
	for _, e := range m.Expenses {
		if e.BudgetID == budgetID {
			count++
		}
	}
	return count, nil
}

// SetReceiptURL stores the receipt object key on a budget expense
func (m *MockBudgetExpenseRepository) SetReceiptURL(id uuid.UUID, url *string) error {
	for _, e := range m.Expenses {
		if e.ID == id {
			e.ReceiptURL = url
			return nil
		}
	}
	return domain.ErrExpenseNotFound
}

// MockBudgetRepository is a mock implementation of domain.BudgetRepository
type MockBudgetRepository struct {
	Budgets map[uuid.UUID]*domain.Budget
}

// NewMockBudgetRepository creates a new MockBudgetRepository
func NewMockBudgetRepository() *MockBudgetRepository {
	return &MockBudgetRepository{
		Budgets: make(map[uuid.UUID]*domain.Budget),
	}
}

// GetByID retrieves a budget by ID
func (m *MockBudgetRepository) GetByID(id uuid.UUID) (*domain.Budget, error) {
	if budget, ok := m.Budgets[id]; ok {
		return budget, nil
	}
	return nil, domain.ErrBudgetNotFound
}

// AddBudget adds a budget to the mock repository (helper for tests)
func (m *MockBudgetRepository) AddBudget(budget *domain.Budget) {
	m.Budgets[budget.ID] = budget
}

// MockOrderRepository is a mock implementation of domain.OrderRepository
type MockOrderRepository struct {
	Orders map[uuid.UUID]*domain.Order
}

// NewMockOrderRepository creates a new MockOrderRepository
func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{
		Orders: make(map[uuid.UUID]*domain.Order),
	}
}

// GetByID retrieves an order by ID
func (m *MockOrderRepository) GetByID(id uuid.UUID) (*domain.Order, error) {
	if order, ok := m.Orders[id]; ok {
		return order, nil
	}
	return nil, domain.ErrOrderNotFound
}

// SumPendingBalance sums the pending balance across all orders
func (m *MockOrderRepository) SumPendingBalance() (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, o := range m.Orders {
		sum = sum.Add(o.PendingBalance)
	}
	return sum, nil
}

// AddOrder adds an order to the mock repository (helper for tests)
func (m *MockOrderRepository) AddOrder(order *domain.Order) {
	m.Orders[order.ID] = order
}
