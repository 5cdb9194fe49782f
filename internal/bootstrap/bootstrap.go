package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	evbus "github.com/asaskevich/EventBus"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"smartface-server-go/internal/app/services"
	asropenai "smartface-server-go/internal/domain/asr/openai"
	"smartface-server-go/internal/domain/audio/energy"
	audiointer "smartface-server-go/internal/domain/audio/inter"
	"smartface-server-go/internal/domain/eventbus"
	"smartface-server-go/internal/domain/nlp"
	nlpcache "smartface-server-go/internal/domain/nlp/cache"
	"smartface-server-go/internal/domain/nlp/embedding"
	"smartface-server-go/internal/domain/router"
	"smartface-server-go/internal/domain/skills/canned"
	"smartface-server-go/internal/domain/skills/reminder"
	"smartface-server-go/internal/domain/skills/search"
	"smartface-server-go/internal/domain/skills/smarthome"
	"smartface-server-go/internal/domain/skills/weather"
	ttsedge "smartface-server-go/internal/domain/tts/edge"
	ttsinter "smartface-server-go/internal/domain/tts/inter"
	platformconfig "smartface-server-go/internal/platform/config"
	platformerrors "smartface-server-go/internal/platform/errors"
	platformlogging "smartface-server-go/internal/platform/logging"
	platformstorage "smartface-server-go/internal/platform/storage"
	httptransport "smartface-server-go/internal/transport/http"
	"smartface-server-go/internal/transport/ws"
)

type stepFn func(context.Context, *appState) error

type initStep struct {
	ID        string
	Title     string
	DependsOn []string
	Kind      platformerrors.Kind
	Execute   stepFn
}

type appState struct {
	config     *platformconfig.Config
	logger     *platformlogging.Logger
	db         *gorm.DB
	bus        evbus.Bus
	cache      nlpcache.Cache
	classifier *nlp.Classifier
	extractor  *nlp.Extractor
	reminders  *reminder.Skill
	home       *smarthome.Controller
	history    *services.HistoryRecorder
	pipeline   *services.Pipeline
}

// Run starts the whole service lifecycle: configuration, dependencies, both
// transports and graceful shutdown.
func Run(ctx context.Context) error {
	state := &appState{}

	if err := executeInitSteps(ctx, InitGraph(), state); err != nil {
		return err
	}

	config := state.config
	logger := state.logger
	if config == nil || logger == nil {
		return platformerrors.New(
			platformerrors.KindBootstrap,
			"bootstrap state validation",
			"config/logger not initialised",
		)
	}
	defer logger.Close()

	defer func() {
		if state.cache != nil {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := state.cache.Close(closeCtx); err != nil {
				logger.WarnTag("Boot", "embedding cache close failed: %v", err)
			}
		}
	}()

	rootCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	signalCtx, stop := signal.NotifyContext(rootCtx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, groupCtx := errgroup.WithContext(rootCtx)

	if err := startServices(state, group, groupCtx); err != nil {
		cancel()
		return err
	}

	if err := waitForShutdown(signalCtx, cancel, logger, group); err != nil {
		return err
	}

	logger.InfoTag("Boot", "all services stopped")
	return nil
}

func executeInitSteps(ctx context.Context, steps []initStep, state *appState) error {
	if state == nil {
		return platformerrors.New(
			platformerrors.KindBootstrap,
			"execute init steps",
			"nil bootstrap state",
		)
	}

	completed := make(map[string]struct{}, len(steps))
	for _, step := range steps {
		for _, dep := range step.DependsOn {
			if _, ok := completed[dep]; !ok {
				return platformerrors.New(
					platformerrors.KindBootstrap,
					step.ID,
					fmt.Sprintf("dependency %s not satisfied", dep),
				)
			}
		}
		if step.Execute == nil {
			return platformerrors.New(
				platformerrors.KindBootstrap,
				step.ID,
				"missing execute function",
			)
		}
		if err := step.Execute(ctx, state); err != nil {
			var typed *platformerrors.Error
			if errors.As(err, &typed) {
				return err
			}

			kind := step.Kind
			if kind == "" {
				kind = platformerrors.KindBootstrap
			}
			return platformerrors.Wrap(kind, step.ID, "bootstrap step failed", err)
		}
		completed[step.ID] = struct{}{}
	}
	return nil
}

// InitGraph returns the ordered initialisation steps with their declared
// dependencies.
func InitGraph() []initStep {
	return []initStep{
		{
			ID:      "config:load",
			Title:   "Load configuration",
			Kind:    platformerrors.KindConfig,
			Execute: loadConfigStep,
		},
		{
			ID:        "logging:init",
			Title:     "Initialise logging",
			DependsOn: []string{"config:load"},
			Kind:      platformerrors.KindBootstrap,
			Execute:   initLoggingStep,
		},
		{
			ID:        "storage:open",
			Title:     "Open database",
			DependsOn: []string{"config:load", "logging:init"},
			Kind:      platformerrors.KindStorage,
			Execute:   openStorageStep,
		},
		{
			ID:        "nlp:init",
			Title:     "Initialise intent classifier",
			DependsOn: []string{"config:load", "logging:init"},
			Kind:      platformerrors.KindNLP,
			Execute:   initNLPStep,
		},
		{
			ID:        "skills:init",
			Title:     "Initialise skills",
			DependsOn: []string{"storage:open"},
			Kind:      platformerrors.KindSkill,
			Execute:   initSkillsStep,
		},
		{
			ID:        "pipeline:init",
			Title:     "Assemble voice pipeline",
			DependsOn: []string{"nlp:init", "skills:init"},
			Kind:      platformerrors.KindBootstrap,
			Execute:   initPipelineStep,
		},
	}
}

func loadConfigStep(_ context.Context, state *appState) error {
	config, err := platformconfig.NewLoader().Load()
	if err != nil {
		return err
	}
	state.config = config
	return nil
}

func initLoggingStep(_ context.Context, state *appState) error {
	logger, err := platformlogging.New(platformlogging.Config{
		Level:    state.config.Log.Level,
		Dir:      state.config.Log.Dir,
		Filename: state.config.Log.File,
	})
	if err != nil {
		return platformerrors.Wrap(platformerrors.KindBootstrap, "logging:init", "failed to initialise logging", err)
	}
	state.logger = logger
	logger.InfoTag("Boot", "logging ready [%s]", state.config.Log.Level)
	return nil
}

func openStorageStep(_ context.Context, state *appState) error {
	db, err := platformstorage.Open(state.config.Storage)
	if err != nil {
		return err
	}
	state.db = db
	state.logger.InfoTag("Boot", "database ready at %s/%s", state.config.Storage.Dir, state.config.Storage.File)
	return nil
}

func initNLPStep(ctx context.Context, state *appState) error {
	cfg := state.config.NLP

	cacheCfg := nlpcache.Config{
		Driver: cfg.Cache.Driver,
		TTL:    cfg.Cache.TTL,
	}
	if cacheCfg.Driver == "redis" {
		cacheCfg.Redis = &nlpcache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Username: cfg.Cache.Redis.Username,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
			Prefix:   cfg.Cache.Redis.Prefix,
		}
	}
	embedCache, err := nlpcache.New(cacheCfg)
	if err != nil {
		return platformerrors.Wrap(platformerrors.KindNLP, "nlp:init", "failed to create embedding cache", err)
	}
	state.cache = embedCache

	embedder, err := embedding.NewOpenAI(embedding.Config{
		APIKey:  cfg.Embedding.APIKey,
		BaseURL: cfg.Embedding.BaseURL,
		Model:   cfg.Embedding.Model,
	})
	if err != nil {
		return err
	}

	state.classifier = nlp.NewClassifier(embedder, embedCache, nlp.DefaultCatalog(), cfg.ConfidenceThreshold)
	state.extractor = nlp.NewExtractor()

	// Embedding the catalog needs the network; fall back to lazy warmup so a
	// transient outage does not block startup.
	if err := state.classifier.Warm(ctx); err != nil {
		state.logger.WarnTag("NLP", "catalog warmup failed, retrying on first request: %v", err)
	} else {
		state.logger.InfoTag("NLP", "intent catalog embedded (%d intents)", state.classifier.Catalog().Len())
	}
	return nil
}

func initSkillsStep(_ context.Context, state *appState) error {
	state.reminders = reminder.New(state.db)
	state.home = smarthome.New(state.config.Skills.SmartHome)
	return nil
}

func initPipelineStep(_ context.Context, state *appState) error {
	cfg := state.config
	logger := state.logger

	var weatherSkill weather.Provider
	if cfg.Skills.Weather.APIKey != "" {
		client, err := weather.NewClient(cfg.Skills.Weather)
		if err != nil {
			return err
		}
		weatherSkill = client
	} else {
		logger.WarnTag("Skill", "no weather api key, using the offline weather source")
		weatherSkill = weather.NewOffline(cfg.Skills.Weather)
	}

	route := router.New(
		canned.New(),
		search.New(cfg.Skills.Search),
		state.reminders,
		state.home,
		weatherSkill,
		logger,
	)

	asrProvider, err := asropenai.New(cfg.ASR)
	if err != nil {
		return err
	}

	var ttsProvider ttsinter.Provider
	if cfg.TTS.Enabled {
		ttsProvider = ttsedge.New(cfg.TTS)
	}

	state.bus = eventbus.New()
	history, err := services.NewHistoryRecorder(state.db, state.bus, logger)
	if err != nil {
		return err
	}
	state.history = history

	detectorCfg := audiointer.Config{
		SampleRate:      cfg.Audio.SampleRate,
		FrameSize:       cfg.Audio.FrameSize,
		EnergyThreshold: cfg.Audio.EnergyThreshold,
		SilenceWindow:   cfg.Audio.SilenceWindow,
		ListenTimeout:   cfg.Audio.ListenTimeout,
	}
	state.pipeline = services.NewPipeline(
		detectorCfg,
		func() audiointer.VADProvider { return energy.New(detectorCfg.EnergyThreshold) },
		state.classifier,
		state.extractor,
		route,
		asrProvider,
		ttsProvider,
		state.bus,
		logger,
	)
	return nil
}

func startServices(state *appState, g *errgroup.Group, groupCtx context.Context) error {
	logger := state.logger

	wsServer := ws.NewServer(state.config.Server, state.pipeline, logger)
	g.Go(func() error {
		if err := wsServer.Start(groupCtx); err != nil {
			logger.ErrorTag("WebSocket", "voice transport failed: %v", err)
			return err
		}
		return nil
	})

	if state.config.Web.Enabled {
		if err := startHTTPServer(state, g, groupCtx); err != nil {
			return fmt.Errorf("start http server: %w", err)
		}
	}
	return nil
}

func startHTTPServer(state *appState, g *errgroup.Group, groupCtx context.Context) error {
	config := state.config
	logger := state.logger

	httpRouter, err := httptransport.Build(httptransport.Options{
		Config: config,
		Logger: logger,
	})
	if err != nil {
		return err
	}

	api := httptransport.NewAPI(
		state.pipeline,
		state.classifier,
		state.reminders,
		state.home,
		state.history,
		logger,
	)
	api.Register(httpRouter.API)

	httpRouter.Engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})

	httpServer := &http.Server{
		Addr:    ":" + strconv.Itoa(config.Web.Port),
		Handler: httpRouter.Engine,
	}

	g.Go(func() error {
		logger.InfoTag("HTTP", "api listening on http://localhost:%d/api", config.Web.Port)

		go func() {
			<-groupCtx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				logger.ErrorTag("HTTP", "shutdown failed: %v", err)
			} else {
				logger.InfoTag("HTTP", "server stopped")
			}
		}()

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.ErrorTag("HTTP", "server failed: %v", err)
			return err
		}
		return nil
	})

	return nil
}

func waitForShutdown(
	ctx context.Context,
	cancel context.CancelFunc,
	logger *platformlogging.Logger,
	g *errgroup.Group,
) error {
	<-ctx.Done()
	logger.InfoTag("Boot", "shutdown signal received, cleaning up")

	cancel()

	done := make(chan error, 1)
	go func() {
		done <- g.Wait()
	}()

	select {
	case err := <-done:
		if err != nil {
			logger.ErrorTag("Boot", "shutdown finished with error: %v", err)
			return err
		}
	case <-time.After(15 * time.Second):
		logger.ErrorTag("Boot", "shutdown timed out, forcing exit")
		return errors.New("shutdown timed out")
	}
	return nil
}
