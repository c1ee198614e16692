package httpx

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/AngelCh415/channel-roi/internal/metrics"
	"github.com/AngelCh415/channel-roi/internal/report"
	"github.com/AngelCh415/channel-roi/internal/scenario"
	"github.com/AngelCh415/channel-roi/internal/store"
	"github.com/AngelCh415/channel-roi/internal/utils"
)

const maxBody = 1 << 20

func NewRouter(log *slog.Logger, svc *scenario.Service, m *metrics.Metrics) http.Handler {
	mux := chi.NewRouter()
	mux.Use(utils.RequestID)
	mux.Use(utils.Logger(log))
	mux.Use(middleware.Recoverer)

	mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ok")) })
	mux.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ready")) })
	mux.Method(http.MethodGet, "/metrics", m.Handler())

	mux.Get("/channels", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, svc.Channels())
	})

	// Query-string form of POST /scenarios: the run is stored too, and its id
	// is in the response.
	mux.Get("/scenarios/run", func(w http.ResponseWriter, r *http.Request) {
		in, err := scenario.ParseQuery(r.URL.Query())
		if err != nil {
			writeError(w, log, err)
			return
		}
		rep, err := svc.Run(r.Context(), in)
		if err != nil {
			writeError(w, log, err)
			return
		}
		writeJSON(w, report.Render(rep, report.ParseView(in.View)))
	})

	mux.Post("/scenarios", func(w http.ResponseWriter, r *http.Request) {
		var in scenario.RunInput
		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&in); err != nil {
			http.Error(w, "bad body: "+err.Error(), 400)
			return
		}
		rep, err := svc.Run(r.Context(), in)
		if err != nil {
			writeError(w, log, err)
			return
		}
		w.Header().Set("Location", "/scenarios/"+rep.ID)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		writeJSON(w, report.Render(rep, report.ParseView(in.View)))
	})

	mux.Get("/scenarios", func(w http.ResponseWriter, r *http.Request) {
		runs, err := svc.List(r.Context(), r.URL.Query())
		if err != nil {
			writeError(w, log, err)
			return
		}
		writeJSON(w, runs)
	})

	mux.Get("/scenarios/{id}", func(w http.ResponseWriter, r *http.Request) {
		rep, err := svc.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, log, err)
			return
		}
		writeJSON(w, report.Render(rep, report.ParseView(r.URL.Query().Get("view"))))
	})

	return mux
}

func writeError(w http.ResponseWriter, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, scenario.ErrInvalidInput):
		http.Error(w, err.Error(), 400)
	case errors.Is(err, store.ErrNotFound):
		http.Error(w, err.Error(), 404)
	default:
		log.Error("request failed", slog.String("err", err.Error()))
		http.Error(w, "internal error", 500)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "application/json")
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", " ")
	enc.Encode(v)
}
