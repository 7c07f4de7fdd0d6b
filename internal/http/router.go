package http

import (
	"net/http"
	"time"

	"journal/internal/auth"
	"journal/internal/config"
	"journal/internal/http/handler"
	mw "journal/internal/http/middleware"
	"journal/internal/impulse"
	"journal/internal/report"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

type Deps struct {
	Config    config.Config
	JWT       *auth.JWT
	Users     *auth.Users
	Logs      *impulse.Store
	Reports   *report.Store
	Generator handler.ReportGenerator
	Narrator  handler.Narrator
	Now       func() time.Time
	Log       logrus.FieldLogger
}

func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(mw.RequestLogger(d.Log))
	r.Use(chimw.Recoverer)

	if len(d.Config.CORSAllowedOrigins) > 0 {
		r.Use(mw.CORS(d.Config.CORSAllowedOrigins, d.Config.CORSAllowCredentials))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	ah := &handler.AuthHandler{Users: d.Users, JWT: d.JWT, Log: d.Log}
	r.Post("/auth/register", ah.Register)
	r.Post("/auth/login", ah.Login)

	logH := &handler.LogHandler{Store: d.Logs, Now: d.Now, Log: d.Log}
	statsH := &handler.StatsHandler{Logs: d.Logs, Now: d.Now, Log: d.Log}
	aiH := &handler.AIHandler{Narrator: d.Narrator, Log: d.Log}
	reportH := &handler.ReportHandler{Store: d.Reports, Generator: d.Generator, Now: d.Now, Log: d.Log}
	me := &handler.MeHandler{}

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(d.JWT))

		r.Get("/me", me.Me)

		r.Route("/logs", func(r chi.Router) {
			r.Post("/", logH.Create)
			r.Get("/", logH.List)
			r.Delete("/", logH.Clear)
			r.Delete("/{id}", logH.Delete)
		})

		r.Get("/stats", statsH.Get)

		r.Post("/analyze", aiH.Analyze)
		r.Post("/chat", aiH.Chat)

		r.Route("/reports", func(r chi.Router) {
			r.Get("/", reportH.List)
			r.Post("/", reportH.Create)
			r.Get("/{id}", reportH.Get)
		})
	})

	return r
}
