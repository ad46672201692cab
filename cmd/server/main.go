package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/suPer8Hu/health-triage/internal/ai"
	"github.com/suPer8Hu/health-triage/internal/chat"
	"github.com/suPer8Hu/health-triage/internal/config"
	"github.com/suPer8Hu/health-triage/internal/db"
	"github.com/suPer8Hu/health-triage/internal/httpapi"
	"github.com/suPer8Hu/health-triage/internal/httpapi/handlers"
	"github.com/suPer8Hu/health-triage/internal/locale"
	"github.com/suPer8Hu/health-triage/internal/speech"
	"github.com/suPer8Hu/health-triage/internal/store/rabbitmq"
	"github.com/suPer8Hu/health-triage/internal/store/redisstore"
	"github.com/suPer8Hu/health-triage/internal/store/sqlstore"
	"github.com/suPer8Hu/health-triage/internal/triage"
)

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slot, riskLog, closeStore := openSlot(cfg)
	defer closeStore()

	store := chat.NewSessionStore(slot, chat.WithGreetingName(cfg.GreetingName))
	store.Load(ctx)

	provider := newProvider(ctx, cfg)
	gateway := ai.NewGateway(provider,
		ai.WithTemperature(cfg.GenerationTemperature),
		ai.WithMaxOutputTokens(cfg.GenerationMaxTokens),
	)

	lang, err := locale.Parse(cfg.DefaultLanguage)
	if err != nil {
		log.Printf("DEFAULT_LANGUAGE=%q ignored: %v", cfg.DefaultLanguage, err)
		lang = locale.Default
	}

	broker := chat.NewBroker()
	send := func(cmd speech.Command) {
		broker.Publish(chat.Event{Type: chat.EventSpeech, Data: cmd})
	}
	recognizer := speech.NewBridgeRecognizer(send)
	synth := speech.NewBroadcastSynthesizer(send)
	output := speech.NewOutputController(synth,
		speech.WithMaxChars(cfg.SpeechMaxChars),
		speech.OnWarning(func(err error) {
			log.Printf("speech output unavailable: %v", err)
			broker.Publish(chat.Event{Type: chat.EventWarning, Data: err.Error()})
		}),
		speech.OnSpeakingChange(func(speaking bool) {
			broker.Publish(chat.Event{Type: chat.EventSpeaking, Data: speaking})
		}),
	)

	opts := []chat.ControllerOption{
		chat.WithBroker(broker),
		chat.WithOutput(output),
		chat.WithRecognizer(recognizer, speech.WithSettleDelay(cfg.SpeechSettleDelay)),
		chat.WithLanguage(lang),
	}
	if cfg.RabbitURL != "" {
		pub, err := rabbitmq.NewPublisher(cfg.RabbitURL, cfg.RabbitQueue)
		if err != nil {
			log.Fatalf("rabbit publisher: %v", err)
		}
		defer pub.Close()
		opts = append(opts, chat.WithRiskPublisher(pub))
	}

	ctrl := chat.NewController(ctx, store, gateway, triage.NewEngine(), opts...)

	h := &handlers.Handler{
		Chat:       ctrl,
		Broker:     broker,
		Recognizer: recognizer,
		Synth:      synth,
		RiskLog:    riskLog,
	}
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpapi.NewRouter(h, cfg.JWTSecret),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("server listening addr=%s provider=%s store=%s language=%s",
			cfg.HTTPAddr, providerName(cfg, provider), cfg.StoreBackend, lang)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
	ctrl.Wait()
	if err := store.Persist(shutdownCtx); err != nil {
		log.Printf("[Store] final persist failed err=%v", err)
	}
}

// openSlot picks the durable slot for the session list. The risk log is
// only available with a SQL backend.
func openSlot(cfg config.Config) (chat.Slot, *sqlstore.RiskLog, func()) {
	switch cfg.StoreBackend {
	case "memory":
		return chat.NewMemorySlot(nil), nil, func() {}

	case "redis":
		rds := redisstore.New(redisstore.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := rds.Ping(pingCtx); err != nil {
			log.Fatalf("redis ping: %v", err)
		}
		return rds.Slot(cfg.SessionSlotKey), nil, func() { _ = rds.Close() }

	case "mysql":
		gdb := db.Connect(db.DriverMySQL, cfg.DBDSN)
		return sqlstore.NewSlot(gdb, cfg.SessionSlotKey), sqlstore.NewRiskLog(gdb), func() {}

	case "", "sqlite":
		gdb := db.Connect(db.DriverSQLite, cfg.SQLitePath)
		return sqlstore.NewSlot(gdb, cfg.SessionSlotKey), sqlstore.NewRiskLog(gdb), func() {}

	default:
		log.Fatalf("unsupported STORE_BACKEND=%q", cfg.StoreBackend)
		return nil, nil, nil
	}
}

func newRegistry(cfg config.Config) *ai.Registry {
	reg := ai.NewRegistry()
	reg.Register("ollama", func(ctx context.Context, model string) (ai.Provider, error) {
		_ = ctx
		m := strings.TrimSpace(model)
		if m == "" {
			m = cfg.OllamaModel
		}
		return ai.NewOllamaProvider(cfg.OllamaBaseURL, m), nil
	})
	reg.Register("openrouter", func(ctx context.Context, model string) (ai.Provider, error) {
		_ = ctx
		if cfg.OpenRouterAPIKey == "" {
			return nil, errors.New("OPENROUTER_API_KEY is empty")
		}
		return ai.NewOpenRouterProvider(cfg.OpenRouterBaseURL, cfg.OpenRouterAPIKey, model, cfg.OpenRouterSiteURL, cfg.OpenRouterAppName), nil
	})
	reg.Register("gemini", func(ctx context.Context, model string) (ai.Provider, error) {
		return ai.NewGeminiProvider(ctx, cfg.GeminiAPIKey, model)
	})
	reg.Register("openai", func(ctx context.Context, model string) (ai.Provider, error) {
		_ = ctx
		return ai.NewOpenAIProvider(cfg.OpenAIAPIKey, model)
	})
	return reg
}

// newProvider returns nil for "offline" or when the provider cannot be
// built; the gateway then always falls back to the offline engine.
func newProvider(ctx context.Context, cfg config.Config) ai.Provider {
	if cfg.AIProvider == "" || cfg.AIProvider == "offline" {
		return nil
	}
	models := map[string]string{
		"ollama":     cfg.OllamaModel,
		"openrouter": cfg.OpenRouterModel,
		"gemini":     cfg.GeminiModel,
		"openai":     cfg.OpenAIModel,
	}
	reg := newRegistry(cfg)
	p, err := reg.Get(ctx, cfg.AIProvider, models[cfg.AIProvider])
	if err != nil {
		log.Printf("AI_PROVIDER=%s unavailable, replies come from the offline engine: %v (known: %s)",
			cfg.AIProvider, err, strings.Join(reg.Names(), ","))
		return nil
	}
	return p
}

func providerName(cfg config.Config, p ai.Provider) string {
	if p == nil {
		return "offline"
	}
	return cfg.AIProvider
}
