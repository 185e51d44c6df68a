package bootstrap

import (
	"context"
	"log"
	"time"

	"activity-tracker-be/internal/classifier"
	"activity-tracker-be/internal/config"
	"activity-tracker-be/internal/controller"
	"activity-tracker-be/internal/monitor"
	"activity-tracker-be/internal/pkg/logger"
	"activity-tracker-be/internal/repository/implementation"
	"activity-tracker-be/internal/repository/memory"
	"activity-tracker-be/internal/service"
	"activity-tracker-be/internal/websocket"
	"activity-tracker-be/pkg/eventbus"
	pktNats "activity-tracker-be/pkg/nats"
	"activity-tracker-be/pkg/window"

	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	MonitorController controller.IMonitorController
	RuleController    controller.IRuleController

	// Core services (exposed for main.go and shutdown)
	MonitorService    service.IMonitorService
	ClassifierService service.IClassifierService

	// Event fabric
	Bus          *eventbus.Bus
	WebSocketHub *websocket.Hub

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// Event bus
	bus := eventbus.New()

	// Repositories
	sessionRepo := implementation.NewSessionRepository(db)
	ruleRepo := implementation.NewRuleRepository(db)

	// Classification
	catalog := classifier.NewCatalog()
	engine := classifier.NewEngine(catalog, sysLogger)
	catCache := memory.NewCategorizationCache()
	classifierService := service.NewClassifierService(catalog, engine, catCache, ruleRepo, sysLogger)
	if err := classifierService.Bootstrap(context.Background()); err != nil {
		log.Fatalf("[FATAL] Failed to bootstrap classifier: %v", err)
	}

	// Window source
	var source window.Source
	if cfg.Monitor.WindowSource == "simulated" {
		source = window.NewSimulatedSource()
		log.Printf("[INFO] Using simulated window source")
	} else {
		source = window.NewX11Source()
	}

	// Session tracker
	trackerCfg := monitor.Config{
		SampleInterval:    time.Duration(cfg.Monitor.SampleIntervalMs) * time.Millisecond,
		IdleCheckInterval: time.Duration(cfg.Monitor.IdleCheckIntervalMs) * time.Millisecond,
		IdleThreshold:     time.Duration(cfg.Monitor.IdleThresholdMs) * time.Millisecond,
		TrackWindowTitles: cfg.Monitor.TrackWindowTitles,
		ExcludedApps:      cfg.Monitor.ExcludedApps,
		TitleMaxLength:    cfg.Monitor.TitleMaxLength,
	}
	tracker, err := monitor.NewTracker(trackerCfg, source, sessionRepo, classifierServiceAsClassifier{classifierService}, bus, sysLogger)
	if err != nil {
		log.Fatalf("[FATAL] Invalid tracker config: %v", err)
	}
	monitorService := service.NewMonitorService(tracker, sessionRepo)

	// WebSocket hub, fed from the bus
	wsHub := websocket.NewHub(sysLogger)
	go wsHub.Run()
	if err := wsHub.Listen(context.Background(), bus); err != nil {
		sysLogger.Warn("Bootstrap", "Failed to attach websocket hub to bus", map[string]interface{}{"error": err.Error()})
	}

	// Optional NATS mirror
	if cfg.App.NatsEnabled {
		natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			sysLogger.Warn("Bootstrap", "Failed to connect to NATS, events stay in-process", map[string]interface{}{"error": err.Error()})
		} else if err := natsPub.Bridge(context.Background(), bus); err != nil {
			sysLogger.Warn("Bootstrap", "Failed to bridge events to NATS", map[string]interface{}{"error": err.Error()})
		}
	}

	return &Container{
		MonitorController: controller.NewMonitorController(monitorService, classifierService),
		RuleController:    controller.NewRuleController(classifierService),
		MonitorService:    monitorService,
		ClassifierService: classifierService,
		Bus:               bus,
		WebSocketHub:      wsHub,
		Logger:            sysLogger,
	}
}

// classifierServiceAsClassifier narrows the service to the tracker's
// Classifier port.
type classifierServiceAsClassifier struct {
	svc service.IClassifierService
}

func (c classifierServiceAsClassifier) Categorize(appName, windowTitle string) classifier.Categorization {
	return c.svc.Categorize(appName, windowTitle)
}
