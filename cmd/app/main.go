package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	adapterhttp "github.com/agendaclin/agenda-slots-engine/internal/adapters/in/http"
	"github.com/agendaclin/agenda-slots-engine/internal/adapters/in/rabbitmq"
	"github.com/agendaclin/agenda-slots-engine/internal/adapters/out/cache"
	"github.com/agendaclin/agenda-slots-engine/internal/adapters/out/logger"
	"github.com/agendaclin/agenda-slots-engine/internal/adapters/out/notifier"
	"github.com/agendaclin/agenda-slots-engine/internal/adapters/out/storage"
	"github.com/agendaclin/agenda-slots-engine/internal/config"
	"github.com/agendaclin/agenda-slots-engine/internal/core/ports/out"
	"github.com/agendaclin/agenda-slots-engine/internal/core/services/agenda_service"
	"github.com/agendaclin/agenda-slots-engine/internal/core/services/recurrence_service"
)

func main() {
	// Carrega a configuração do ambiente
	cfg, err := config.NewConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Logger com a timezone da clínica
	mainLogger, err := logger.NewConsoleLogger(cfg.App.Timezone)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	log := mainLogger.WithModule("Main")

	log.Info("app.starting", out.LogFields{
		"version":         cfg.App.Version,
		"env":             cfg.App.Env,
		"timezone":        cfg.App.Timezone,
		"rabbitmqEnabled": cfg.RabbitMQ.Enabled,
		"cacheEnabled":    cfg.Cache.Enabled,
	})

	if cfg.IsNotLocal() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Adapters de saída
	storageAdapter, err := storage.NewPostgresAdapter(ctx, cfg, log)
	if err != nil {
		log.Error("app.storage.init_failed", out.LogFields{
			"error": err.Error(),
		})
		os.Exit(1)
	}
	defer storageAdapter.Close()

	var cacheAdapter out.CachePort
	if cfg.Cache.Enabled {
		lruAdapter, err := cache.NewLRUCacheAdapter(cfg, log)
		if err != nil {
			log.Error("app.cache.init_failed", out.LogFields{
				"error": err.Error(),
			})
			os.Exit(1)
		}
		cacheAdapter = lruAdapter
	}

	notifierAdapter, err := notifier.NewAmqpNotifier(cfg, log)
	if err != nil {
		log.Error("app.notifier.init_failed", out.LogFields{
			"error": err.Error(),
		})
		os.Exit(1)
	}
	defer func() {
		if err := notifierAdapter.Stop(); err != nil {
			log.Error("app.notifier.stop_failed", out.LogFields{
				"error": err.Error(),
			})
		}
	}()

	// Serviços do núcleo
	agendaService := agenda_service.NewAgendaService(
		storageAdapter,
		cacheAdapter,
		notifierAdapter,
		cfg,
		mainLogger,
	)
	recurrenceService := recurrence_service.NewRecurrenceService(
		storageAdapter,
		cacheAdapter,
		cfg,
		mainLogger,
	)

	// HTTP
	router := gin.Default()
	adapterhttp.NewAgendaController(agendaService, cfg).RegisterRoutes(router)
	adapterhttp.NewRecurrenceController(recurrenceService, cfg).RegisterRoutes(router)

	// Listener de eventos de agendamento só quando o RabbitMQ está ligado
	if cfg.RabbitMQ.Enabled {
		listener, err := rabbitmq.NewAppointmentListener(
			agendaService,
			cfg,
			mainLogger.WithModule("RabbitMQListener"),
		)
		if err != nil {
			log.Error("app.rabbitmq.init_failed", out.LogFields{
				"error": err.Error(),
			})
			os.Exit(1)
		}

		if err := listener.Start(ctx); err != nil {
			log.Error("app.rabbitmq.start_failed", out.LogFields{
				"error": err.Error(),
			})
			os.Exit(1)
		}

		defer func() {
			if err := listener.Stop(); err != nil {
				log.Error("app.rabbitmq.stop_failed", out.LogFields{
					"error": err.Error(),
				})
			}
		}()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info("app.http.starting", out.LogFields{
			"host": cfg.HTTP.Host,
			"port": cfg.HTTP.Port,
		})

		if err := router.Run(cfg.HTTP.Host + ":" + cfg.HTTP.Port); err != nil {
			log.Error("app.http.failed", out.LogFields{
				"error": err.Error(),
			})
			sigChan <- syscall.SIGTERM
		}
	}()

	sig := <-sigChan
	log.Info("app.shutdown.initiated", out.LogFields{
		"signal": sig.String(),
	})
}
