package internal

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	logger_adapter "rental-client/internal/adapters/logger"
	marketplace_api_client "rental-client/internal/adapters/marketplace_client"
	"rental-client/internal/adapters/notifier"
	"rental-client/internal/adapters/rest"
	session_adapter "rental-client/internal/adapters/session"
	"rental-client/internal/configs"
	"rental-client/internal/contextkeys"
	"rental-client/internal/contracts"
	"rental-client/internal/core/port"
	"rental-client/internal/core/usecase"
	fluentlogger "rental-client/pkg/fluent_logger"
	"syscall"
	"time"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config       *configs.AppConfig
	apiServer    *rest.Server
	synchronizer *usecase.ListSynchronizer
	notifier     *notifier.SSENotifier

	logSinks     *logger_adapter.MultiLoggerAdapter
	logger       port.LoggerPort
	baseLogger   port.LoggerPort
}

func NewApp() (*App, error) {
	appConfig, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}

	// --- 1. ИНИЦИАЛИЗАЦИЯ ЛОГГЕРОВ ---
	var activeLoggers []port.LoggerPort

	stdoutLogger := logger_adapter.NewSlogAdapter(logger_adapter.SlogConfig{
		Level:    logger_adapter.ParseLevel(appConfig.StdoutLogger.Level),
		IsJSON:   false,
		UseColor: true,
	})
	activeLoggers = append(activeLoggers, stdoutLogger)

	if appConfig.FluentBit.Enabled {
		fluentClient, err := fluentlogger.NewClient(fluentlogger.Config{
			Host:      appConfig.FluentBit.Host,
			Port:      appConfig.FluentBit.Port,
			TagPrefix: appConfig.AppName,
			Async:     true,
		})
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit client", err, nil)
			return nil, fmt.Errorf("failed to create fluentbit client: %w", err)
		}

		fluentAdapter, err := logger_adapter.NewFluentLoggerAdapter(fluentClient, logger_adapter.ParseLevel(appConfig.FluentBit.Level))
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit adapter", err, nil)
			fluentClient.Close()
			return nil, err
		}
		activeLoggers = append(activeLoggers, fluentAdapter)
	}

	multiLogger, err := logger_adapter.NewMultiloggerAdapter(activeLoggers...)
	if err != nil {
		return nil, fmt.Errorf("failed to create multi-logger: %w", err)
	}

	// --- 2. БАЗОВЫЙ ЛОГГЕР ПРИЛОЖЕНИЯ ---
	baseLogger := multiLogger.WithFields(port.Fields{"service_name": appConfig.AppName})

	appLogger := baseLogger.WithFields(port.Fields{"component": "app"})
	appLogger.Info("Logger system initialized", port.Fields{
		"active_loggers": multiLogger.Sinks(), "fluent_enabled": appConfig.FluentBit.Enabled,
	})

	// Схемы компилируются при старте, чтобы ошибка в них не всплыла на первом запросе.
	if _, err := contracts.Keys(); err != nil {
		appLogger.Error("Failed to compile request schemas", err, nil)
		return nil, fmt.Errorf("failed to compile request schemas: %w", err)
	}

	// --- 3. АДАПТЕРЫ ---
	session := session_adapter.NewJWTSession(session_adapter.Config{FilePath: appConfig.Session.FilePath}, baseLogger)
	apiClient := marketplace_api_client.NewMarketplaceAPIClient(appConfig.API.BaseURL, appConfig.API.Timeout, session)
	sseNotifier := notifier.NewSSENotifier(baseLogger)
	appLogger.Info("Marketplace API client configured", port.Fields{"base_url": appConfig.API.BaseURL})

	// --- 4. USE CASES ---
	synchronizer := usecase.NewListSynchronizer(apiClient, apiClient, session, sseNotifier, usecase.ListSynchronizerConfig{
		PageSize:       appConfig.Listings.PageSize,
		DebounceWindow: appConfig.Listings.FilterDebounce,
	})

	loginUseCase := usecase.NewLoginUseCase(apiClient, session, synchronizer)
	registerUseCase := usecase.NewRegisterUseCase(apiClient, session, synchronizer)
	logoutUseCase := usecase.NewLogoutUseCase(session, synchronizer)
	getProfileUseCase := usecase.NewGetProfileUseCase(apiClient, session)
	updateProfileUseCase := usecase.NewUpdateProfileUseCase(apiClient, session)
	getFavoritesUseCase := usecase.NewGetFavoritesUseCase(apiClient, session)
	removeFavoriteUseCase := usecase.NewRemoveFavoriteUseCase(apiClient, session, synchronizer)
	getRecommendationsUseCase := usecase.NewGetReceivedRecommendationsUseCase(apiClient, session)
	sendRecommendationUseCase := usecase.NewSendRecommendationUseCase(apiClient, session)

	// --- 5. REST API ---
	handlers := rest.Handlers{
		Listings:        rest.NewListingsHandler(synchronizer),
		Account:         rest.NewAccountHandler(loginUseCase, registerUseCase, logoutUseCase, getProfileUseCase, updateProfileUseCase, session),
		Favorites:       rest.NewFavoritesHandler(getFavoritesUseCase, removeFavoriteUseCase),
		Recommendations: rest.NewRecommendationsHandler(getRecommendationsUseCase, sendRecommendationUseCase),
		Events:          rest.NewEventsHandler(sseNotifier, synchronizer),
	}
	router := rest.NewRouter(handlers, session, appConfig.Rest.CORSAllowedOrigins, baseLogger)
	apiServer := rest.NewServer(appConfig.Rest.PORT, router, baseLogger)
	appLogger.Info("REST API server configured.", nil)

	return &App{
		config:       appConfig,
		apiServer:    apiServer,
		synchronizer: synchronizer,
		notifier:     sseNotifier,
		logSinks:     multiLogger,
		logger:       appLogger,
		baseLogger:   baseLogger,
	}, nil
}

// Run запускает все компоненты приложения и управляет их жизненным циклом.
func (a *App) Run() error {
	appCtx, cancelApp := context.WithCancel(context.Background())
	defer cancelApp()

	defer a.shutdown()

	a.logger.Info("Application is starting...", nil)

	serverErrors := make(chan error, 1)
	go func() {
		if err := a.apiServer.Start(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	// Первичная загрузка списка и избранного
	go func() {
		mountCtx, traceID, _ := contextkeys.EnsureTraceID(appCtx)
		mountCtx = contextkeys.ContextWithLogger(mountCtx, a.baseLogger.WithFields(port.Fields{"trigger": "startup", "trace_id": traceID}))
		if err := a.synchronizer.Mount(mountCtx); err != nil {
			a.logger.Warn("Initial load finished with errors", port.Fields{"error": err.Error()})
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	a.logger.Info("Application running. Waiting for signals or server error...", nil)
	select {
	case receivedSignal := <-quit:
		a.logger.Warn("Received OS signal, shutting down...", port.Fields{"signal": receivedSignal.String()})
		return nil
	case err := <-serverErrors:
		a.logger.Error("Server failed to start, shutting down", err, nil)
		return err
	}
}

func (a *App) shutdown() {
	a.logger.Info("Shutdown sequence initiated...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if a.apiServer != nil {
		if err := a.apiServer.Stop(ctx); err != nil {
			a.logger.Error("Error during API server shutdown", err, nil)
		}
	}

	// Синхронизатор ждёт свои запросы, поэтому останавливается до нотификатора.
	a.synchronizer.Close()
	a.notifier.Close()

	a.logger.Info("Application shut down gracefully.", nil)

	if err := a.logSinks.Close(); err != nil {
		// fluent может быть уже недоступен
		fmt.Printf("ERROR: Error closing log sinks: %v\n", err)
	}
}
