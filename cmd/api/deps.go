package main

import (
	"context"

	"github.com/rs/zerolog/log"

	"finframe/internal/domain/analytics"
	"finframe/internal/domain/category"
	"finframe/internal/domain/goal"
	"finframe/internal/domain/limit"
	"finframe/internal/domain/notification"
	"finframe/internal/domain/transaction"
	"finframe/internal/domain/user"
	"finframe/internal/infrastructure/exchangerate"
	"finframe/internal/infrastructure/firebase"
	"finframe/internal/infrastructure/mail"
	"finframe/internal/infrastructure/postgres"
	"finframe/internal/infrastructure/postgres/listener"
	httphandlers "finframe/internal/interfaces/http"
	"finframe/internal/shared/auth"
	"finframe/internal/shared/cache"
	"finframe/internal/shared/config"
	"finframe/internal/shared/messages"
	"finframe/internal/shared/money"
)

// Dependencies holds all initialized application components.
type Dependencies struct {
	DB            *postgres.DB
	Cache         *cache.Cache
	CacheListener *listener.CacheListener

	// Handlers
	HealthHandler       *httphandlers.HealthHandler
	AuthHandler         *httphandlers.AuthHandler
	UserHandler         *httphandlers.UserHandler
	CategoryHandler     *httphandlers.CategoryHandler
	TransactionHandler  *httphandlers.TransactionHandler
	LimitHandler        *httphandlers.LimitHandler
	GoalHandler         *httphandlers.GoalHandler
	ReportHandler       *httphandlers.ReportHandler
	ToolsHandler        *httphandlers.ToolsHandler
	NotificationHandler *httphandlers.NotificationHandler
	AdminHandler        *httphandlers.AdminHandler

	// Auth
	JWT   *auth.JWT
	Users *user.Service
}

// Formatter builds the currency formatter described by the finance config.
func Formatter(cfg config.FinanceConfig) money.Formatter {
	return money.Formatter{
		Places:   2,
		Symbol:   cfg.CurrencySymbol,
		Position: money.Position(cfg.SymbolPosition),
	}
}

// NewDependencies initializes all application dependencies.
func NewDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	db, err := postgres.New(cfg.Database)
	if err != nil {
		return nil, err
	}

	if cfg.Database.AutoMigrate {
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, err
		}
	}

	format := Formatter(cfg.Finance)

	texts, err := messages.Load(cfg.Notification.MessagesFile)
	if err != nil {
		db.Close()
		return nil, err
	}

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	categoryRepo := postgres.NewCategoryRepository(db)
	transactionRepo := postgres.NewTransactionRepository(db)
	limitRepo := postgres.NewLimitRepository(db)
	goalRepo := postgres.NewGoalRepository(db)
	notificationRepo := postgres.NewNotificationRepository(db)

	// Push delivery is optional; without credentials notifications are
	// only stored.
	var messenger notification.Messenger
	if cfg.Firebase.CredentialsFile != "" {
		fcm, err := firebase.NewClient(ctx, cfg.Firebase.CredentialsFile, notificationRepo.DeactivateDevice)
		if err != nil {
			log.Warn().Err(err).Msg("firebase disabled")
		} else {
			messenger = fcm
		}
	}

	// Domain services
	categoryService := category.NewService(categoryRepo)
	notificationService := notification.NewService(notificationRepo, messenger)
	goalService := goal.NewService(goalRepo, goalRepo, notificationService, format)
	goalService.SetMessages(texts)
	limitService := limit.NewService(limitRepo, categoryService, transactionRepo)
	limitChecker := limit.NewChecker(limitService, notificationService, format)
	limitChecker.SetMessages(texts)

	signals := user.NewSignals()
	signals.OnCreated("log", user.LogCreated)
	signals.OnCreated("seed_categories", user.SeedCategories(categoryService))
	signals.OnFinancialInfoCompleted("seed_categories", user.SeedCategories(categoryService))
	userService := user.NewService(userRepo, signals)
	userService.SetResetOptions(user.ResetOptions{
		Mailer: mail.New(cfg.Mail),
		URL:    cfg.Mail.ResetURL,
		TTL:    cfg.Mail.ResetTokenTTL,
	})

	hooks := transaction.Chain(
		transaction.NewUserTotals(userService, goalService),
		limitChecker,
	)
	transactionService := transaction.NewService(transactionRepo, categoryService, hooks)
	transactionService.SetTransactor(db)

	// Exchange rates, cached in-process and invalidated across processes
	// through Postgres notifications.
	c := cache.New()
	rateClient := exchangerate.NewClient(cfg.ExchangeRate.BaseURL, cfg.ExchangeRate.APIKey, cfg.ExchangeRate.Timeout)
	rates := exchangerate.NewService(rateClient, c, cfg.ExchangeRate.RatesCacheTTL, cfg.ExchangeRate.ConvertTTL)

	cacheListener := listener.NewCacheListener(cfg.Database.ConnectionString(), c)
	flush := func(ctx context.Context, prefix string) error {
		return listener.Publish(ctx, db, prefix)
	}

	jwt := auth.NewJWT(cfg.JWT.Secret, cfg.JWT.TTL)

	return &Dependencies{
		DB:                  db,
		Cache:               c,
		CacheListener:       cacheListener,
		HealthHandler:       httphandlers.NewHealthHandler(db),
		AuthHandler:         httphandlers.NewAuthHandler(userService, jwt),
		UserHandler:         httphandlers.NewUserHandler(userService),
		CategoryHandler:     httphandlers.NewCategoryHandler(categoryService),
		TransactionHandler:  httphandlers.NewTransactionHandler(transactionService),
		LimitHandler:        httphandlers.NewLimitHandler(limitService),
		GoalHandler:         httphandlers.NewGoalHandler(goalService),
		ReportHandler:       httphandlers.NewReportHandler(analytics.NewAnalyzer(transactionRepo)),
		ToolsHandler:        httphandlers.NewToolsHandler(rates, format, cfg.Finance.VATRate),
		NotificationHandler: httphandlers.NewNotificationHandler(notificationService),
		AdminHandler:        httphandlers.NewAdminHandler(notificationService, flush),
		JWT:                 jwt,
		Users:               userService,
	}, nil
}

// Close releases all resources held by dependencies.
func (d *Dependencies) Close() {
	if d.CacheListener != nil {
		d.CacheListener.Stop()
	}
	if d.DB != nil {
		if err := d.DB.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close database")
		}
	}
}
