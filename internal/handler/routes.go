package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/tallerhq/taller-backend/internal/middleware"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, paymentMethodHandler *PaymentMethodHandler, transactionHandler *TransactionHandler, generalExpenseHandler *GeneralExpenseHandler, budgetExpenseHandler *BudgetExpenseHandler, balanceHandler *BalanceHandler, orderBalanceHandler *OrderBalanceHandler, dashboardHandler *DashboardHandler, wsHandler *WebSocketHandler) {
	// API version 1
	api := e.Group("/api/v1")

	// Payment method routes (protected)
	paymentMethods := api.Group("/payment-methods")
	paymentMethods.Use(authMiddleware.Authenticate())
	paymentMethods.POST("", paymentMethodHandler.CreatePaymentMethod)
	paymentMethods.GET("", paymentMethodHandler.GetPaymentMethods)
	paymentMethods.GET("/:id", paymentMethodHandler.GetPaymentMethod)
	paymentMethods.PUT("/:id", paymentMethodHandler.UpdatePaymentMethod)

	// Transaction routes (protected)
	transactions := api.Group("/transactions")
	transactions.Use(authMiddleware.Authenticate())
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.GetTransactions)
	transactions.GET("/:id", transactionHandler.GetTransaction)

	// General expense routes (protected)
	generalExpenses := api.Group("/general-expenses")
	generalExpenses.Use(authMiddleware.Authenticate())
	generalExpenses.POST("", generalExpenseHandler.CreateGeneralExpense)
	generalExpenses.GET("", generalExpenseHandler.GetGeneralExpenses)
	generalExpenses.GET("/stats", generalExpenseHandler.GetStats)
	generalExpenses.GET("/:id", generalExpenseHandler.GetGeneralExpense)
	generalExpenses.PUT("/:id", generalExpenseHandler.UpdateGeneralExpense)
	generalExpenses.DELETE("/:id", generalExpenseHandler.DeleteGeneralExpense)
	generalExpenses.POST("/:id/receipt", generalExpenseHandler.UploadReceipt)
	generalExpenses.GET("/:id/receipt", generalExpenseHandler.GetReceipt)

	// Budget expense routes (protected)
	budgets := api.Group("/budgets")
	budgets.Use(authMiddleware.Authenticate())
	budgets.POST("/:budgetId/expenses", budgetExpenseHandler.CreateBudgetExpense)
	budgets.GET("/:budgetId/expenses", budgetExpenseHandler.GetBudgetExpenses)

	budgetExpenses := api.Group("/budget-expenses")
	budgetExpenses.Use(authMiddleware.Authenticate())
	budgetExpenses.POST("/:id/receipt", budgetExpenseHandler.UploadReceipt)

	// Finance routes (protected)
	finance := api.Group("/finance")
	finance.Use(authMiddleware.Authenticate())
	finance.GET("/balance", balanceHandler.GetBalance)

	// Order routes (protected)
	orders := api.Group("/orders")
	orders.Use(authMiddleware.Authenticate())
	orders.GET("/:id/balance", orderBalanceHandler.GetOrderBalance)

	// Dashboard routes (protected)
	dashboard := api.Group("/dashboard")
	dashboard.Use(authMiddleware.Authenticate())
	dashboard.GET("/summary", dashboardHandler.GetSummary)

	// WebSocket endpoint (token validated in handler, not middleware)
	e.GET("/ws", wsHandler.HandleWS)
}
