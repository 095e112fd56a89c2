package main

import (
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"finframe/internal/domain/user"
	"finframe/internal/shared/config"
	"finframe/internal/shared/middleware"
)

const hstsMaxAge = 365 * 24 * time.Hour

// SetupRoutes configures all HTTP routes and returns the final handler with middleware.
func SetupRoutes(deps *Dependencies, cfg *config.Config) http.Handler {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("/health", deps.HealthHandler.HandleHealth)

	// Public auth routes
	mux.HandleFunc("/api/auth/register", deps.AuthHandler.HandleRegister)
	mux.HandleFunc("/api/auth/login", deps.AuthHandler.HandleLogin)
	mux.HandleFunc("/api/auth/logout", deps.AuthHandler.HandleLogout)
	mux.HandleFunc("/api/auth/password-reset", deps.AuthHandler.HandlePasswordReset)
	mux.HandleFunc("/api/auth/password-reset/confirm", deps.AuthHandler.HandlePasswordResetConfirm)

	// Stateless calculators
	mux.HandleFunc("/api/tools/compound-interest", deps.ToolsHandler.HandleCompoundInterest)
	mux.HandleFunc("/api/tools/loan-payment", deps.ToolsHandler.HandleLoanPayment)
	mux.HandleFunc("/api/tools/mortgage-payment", deps.ToolsHandler.HandleMortgagePayment)
	mux.HandleFunc("/api/tools/investment-growth", deps.ToolsHandler.HandleInvestmentGrowth)
	mux.HandleFunc("/api/tools/vat", deps.ToolsHandler.HandleVAT)
	mux.HandleFunc("/api/tools/convert", deps.ToolsHandler.HandleConvert)
	mux.HandleFunc("/api/tools/format-currency", deps.ToolsHandler.HandleFormatCurrency)

	// Protected routes
	authMiddleware := middleware.Auth(deps.JWT)
	protected := func(h http.HandlerFunc) http.Handler {
		return authMiddleware(h)
	}

	mux.Handle("/api/users/me", protected(deps.UserHandler.HandleMe))
	mux.Handle("/api/users/me/financial-info", protected(deps.UserHandler.HandleFinancialInfo))
	mux.Handle("/api/categories/", protected(deps.CategoryHandler.HandleCategories))
	mux.Handle("/api/categories/{id}", protected(deps.CategoryHandler.HandleCategoryByID))
	mux.Handle("/api/transactions/", protected(deps.TransactionHandler.HandleTransactions))
	mux.Handle("/api/transactions/{id}", protected(deps.TransactionHandler.HandleTransactionByID))
	mux.Handle("/api/limits/", protected(deps.LimitHandler.HandleLimits))
	mux.Handle("/api/limits/{id}", protected(deps.LimitHandler.HandleLimitByID))
	mux.Handle("/api/goals/", protected(deps.GoalHandler.HandleSavingGoals))
	mux.Handle("/api/goals/{id}", protected(deps.GoalHandler.HandleSavingGoalByID))
	mux.Handle("/api/goals/{id}/deposit", protected(deps.GoalHandler.HandleDeposit))
	mux.Handle("/api/purchase-goals/", protected(deps.GoalHandler.HandlePurchaseGoals))
	mux.Handle("/api/purchase-goals/{id}", protected(deps.GoalHandler.HandlePurchaseGoalByID))
	mux.Handle("/api/notifications/devices", protected(deps.NotificationHandler.HandleDevices))
	mux.Handle("/api/notifications/preferences", protected(deps.NotificationHandler.HandlePreferences))
	mux.Handle("/api/notifications/{id}", protected(deps.NotificationHandler.HandleOpened))
	mux.Handle("/api/notifications/", protected(deps.NotificationHandler.HandleInbox))

	// Reports are browser pages as well as AJAX endpoints and need the
	// financial profile to be filled in.
	reports := func(h http.HandlerFunc) http.Handler {
		return middleware.AjaxLoginRequired(deps.JWT, cfg.Server.LoginURL)(
			middleware.UserHasAttribute(deps.Users, user.AttrFinancialInfoCompleted, true)(h),
		)
	}
	mux.Handle("/api/reports/summary", reports(deps.ReportHandler.HandleSummary))
	mux.Handle("/api/reports/breakdown", reports(deps.ReportHandler.HandleBreakdown))
	mux.Handle("/api/reports/trends", reports(deps.ReportHandler.HandleTrends))

	// Staff
	mux.Handle("/api/admin/cache/flush", authMiddleware(middleware.StaffRequired(
		http.HandlerFunc(deps.AdminHandler.HandleCacheFlush))))
	mux.Handle("/api/admin/users/{id}/attributes/{name}", authMiddleware(middleware.StaffRequired(
		http.HandlerFunc(deps.UserHandler.HandleSetAttribute))))
	mux.Handle("/api/admin/notifications/broadcast", authMiddleware(middleware.PermissionRequired("notifications.broadcast")(
		http.HandlerFunc(deps.AdminHandler.HandleBroadcast))))

	// Outermost first: request id, span, access log, CORS, then per-route
	// metrics right around the mux so they see the matched pattern.
	handler := middleware.Metrics(mux)
	handler = middleware.CORS(middleware.Hosts(cfg.Server.AllowedHosts))(handler)
	handler = middleware.Logging(handler)
	if cfg.Telemetry.Enabled {
		handler = middleware.Trace(cfg.Telemetry.ServiceName)(handler)
	}
	handler = middleware.RequestID(handler)

	security := middleware.SecurityOptions{}
	if cfg.TLS.Enabled {
		security.HSTSMaxAge = hstsMaxAge
		security.SecureCookies = true
		log.Info().Msg("HSTS and secure cookies enabled")
	}
	return middleware.SecurityHeaders(security)(handler)
}
