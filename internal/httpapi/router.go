package httpapi

import (
	"context"
	"database/sql"
	"log"
	"net/http"

	"wutzup/functions/internal/config"
	"wutzup/functions/internal/duckduckgo"
	"wutzup/functions/internal/fcm"
	"wutzup/functions/internal/gifgen"
	"wutzup/functions/internal/notify"
	"wutzup/functions/internal/openai"
	"wutzup/functions/internal/research"
	"wutzup/functions/internal/store"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter wires every component. Optional integrations (push, object
// storage) degrade to disabled with a log line instead of failing startup.
func NewRouter(ctx context.Context, cfg config.Config, database *sql.DB) http.Handler {
	st := store.NewStore(database)
	llm := openai.NewClient(cfg, nil)
	search := duckduckgo.NewClient(cfg, nil)
	reader := research.NewHTTPReader(research.ReaderConfig{RequestTimeout: cfg.RequestTimeout}, nil)
	pipeline := gifgen.NewPipeline(llm, nil, cfg)

	var push notify.Sender
	if cfg.FCMProjectID != "" {
		client, err := fcm.NewClient(ctx, cfg.FCMProjectID)
		if err != nil {
			log.Printf("push notifications disabled: %v", err)
		} else {
			push = client
		}
	}
	dispatcher := notify.NewDispatcher(st, push, cfg.NotificationPreviewLen)

	var objects objectStore
	if cfg.GCSBucket != "" {
		gcs, err := newGCSObjectStore(ctx, cfg.GCSBucket)
		if err != nil {
			log.Printf("gif storage disabled: %v", err)
		} else {
			objects = gcs
		}
	}

	h := NewHandler(cfg, st, llm, search, reader, dispatcher, push, pipeline, objects)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", h.Healthz)

	r.Route("/v1", func(v1 chi.Router) {
		v1.Post("/translate", h.Translate)
		v1.Post("/message-context", h.MessageContext)
		v1.Post("/language-tutor", h.LanguageTutor)
		v1.Post("/response-suggestions", h.ResponseSuggestions)
		v1.Post("/research", h.Research)
		v1.Post("/gif", h.GenerateGIF)

		v1.Route("/tutor", func(tutor chi.Router) {
			tutor.Post("/greeting", h.TutorGreeting)
			tutor.Post("/response", h.TutorResponse)
		})

		v1.Post("/notifications/test", h.TestNotification)
	})

	r.Route("/events", func(events chi.Router) {
		events.Post("/message-created", h.MessageCreated)
		events.Post("/conversation-created", h.ConversationCreated)
		events.Post("/presence-updated", h.PresenceUpdated)
	})

	return r
}
