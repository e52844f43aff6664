package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/pavelanni/gradesheet/internal/handler/views"
	appI18n "github.com/pavelanni/gradesheet/internal/i18n"
	"github.com/pavelanni/gradesheet/internal/model"
	"github.com/pavelanni/gradesheet/internal/partition"
	"github.com/pavelanni/gradesheet/internal/plan"
	"github.com/pavelanni/gradesheet/internal/render"
	"github.com/pavelanni/gradesheet/internal/roster"
	"github.com/pavelanni/gradesheet/internal/store"
)

// DefaultMaxUploadBytes limits request bodies when the config sets no limit.
const DefaultMaxUploadBytes = 10 << 20

// Handler holds shared dependencies for HTTP handlers.
type Handler struct {
	store  *store.Store
	sink   render.Sink
	config model.ServerConfig
}

// New creates a new Handler.
func New(s *store.Store, sink render.Sink, cfg model.ServerConfig) (*Handler, error) {
	if s == nil {
		return nil, errors.New("handler: store is required")
	}
	if sink == nil {
		sink = render.Excel{}
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = 10
	}
	if cfg.AdminUser == "" {
		cfg.AdminUser = "admin"
	}
	return &Handler{store: s, sink: sink, config: cfg}, nil
}

// Routes registers all HTTP routes.
func (h *Handler) Routes(r chi.Router) {
	r.Use(middleware.RequestSize(h.config.MaxUploadBytes))

	r.Group(func(r chi.Router) {
		r.Use(h.csrfMiddleware)
		r.Get("/", h.handleIndex)
		r.Post("/generate", h.handleGenerate)
	})
	r.Get("/template", h.handleTemplate)

	r.Route("/api", func(r chi.Router) {
		r.Get("/configs", h.handleListConfigs)
		r.Get("/configs/{name}", h.handleGetConfig)
		r.Get("/generations", h.handleListGenerations)
		r.Group(func(r chi.Router) {
			r.Use(h.requireAdmin)
			r.Post("/configs", h.handleUploadConfig)
			r.Put("/configs/{name}", h.handlePutConfig)
			r.Delete("/configs/{name}", h.handleDeleteConfig)
			r.Post("/configs/{name}/edit", h.handleEditConfig)
		})
	})
}

// BasePathMiddleware makes the configured base path available to views.
func (h *Handler) BasePathMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := model.ContextWithBasePath(r.Context(), h.config.BasePath)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// path prefixes p with the base path.
func (h *Handler) path(p string) string {
	return h.config.BasePath + p
}

func (h *Handler) cookiePath() string {
	if h.config.BasePath != "" {
		return h.config.BasePath + "/"
	}
	return "/"
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	info, err := h.store.GetExamInfo()
	if err != nil {
		writeError(w, err)
		return
	}
	configs, err := h.store.ListConfigurations()
	if err != nil {
		writeError(w, err)
		return
	}
	gens, err := h.store.ListGenerations(h.config.HistoryLimit)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	data := views.IndexData{Info: info, Configurations: configs, Generations: gens}
	if err := views.IndexPage(data).Render(r.Context(), w); err != nil {
		slog.Error("render error", "error", err)
	}
}

func (h *Handler) handleTemplate(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := roster.WriteTemplate(&buf); err != nil {
		writeError(w, err)
		return
	}
	sendFile(w, roster.TemplateFileName, buf.Bytes())
}

func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.config.MaxUploadBytes); err != nil {
		http.Error(w, "invalid upload: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("roster")
	if err != nil {
		http.Error(w, "no student list uploaded", http.StatusBadRequest)
		return
	}
	defer file.Close()
	students, err := roster.Load(file, header.Filename)
	if err != nil {
		writeError(w, err)
		return
	}

	info, err := examInfoFromForm(r)
	if err != nil {
		writeError(w, err)
		return
	}
	cfg, err := h.configurationFromForm(r)
	if err != nil {
		writeError(w, err)
		return
	}

	labels := appI18n.SheetLabels(r.Context())
	plans, err := plan.BuildWorkbook(cfg, students, info, labels)
	if err != nil {
		writeError(w, err)
		return
	}
	var buf bytes.Buffer
	if err := h.sink.Render(&buf, plans); err != nil {
		writeError(w, err)
		return
	}

	summary := partition.Summarize(len(students), info.FolderCapacity)
	name := plan.FileName(labels.FilePrefix, info.Term)
	gen, err := h.store.RecordGeneration(model.Generation{
		Term:           info.Term,
		ExamDate:       info.Date,
		Students:       summary.Students,
		Folders:        summary.Folders,
		FolderCapacity: summary.Capacity,
		TotalPoints:    cfg.TotalPoints(),
		FileName:       name,
	})
	if err != nil {
		slog.Error("failed to record generation", "error", err)
	}
	if err := h.store.SetExamInfo(info); err != nil {
		slog.Error("failed to store exam settings", "error", err)
	}

	slog.Info("generated gradesheet",
		"file", name,
		"students", summary.Students,
		"folders", summary.Folders,
		"last_folder", summary.LastSize,
		"total_points", cfg.TotalPoints(),
		"generation", gen.ID,
	)

	hd := w.Header()
	hd.Set("X-Gradesheet-Students", strconv.Itoa(summary.Students))
	hd.Set("X-Gradesheet-Folders", strconv.Itoa(summary.Folders))
	hd.Set("X-Gradesheet-Last-Folder", strconv.Itoa(summary.LastSize))
	hd.Set("X-Gradesheet-Sheets", strconv.Itoa(summary.Sheets))
	hd.Set("X-Gradesheet-Total-Points", strconv.Itoa(cfg.TotalPoints()))
	if gen.ID != "" {
		hd.Set("X-Gradesheet-Generation", gen.ID)
	}
	sendFile(w, name, buf.Bytes())
}

func examInfoFromForm(r *http.Request) (model.ExamInfo, error) {
	info := model.ExamInfo{
		Term:           strings.TrimSpace(r.FormValue("term")),
		FolderCapacity: model.DefaultFolderCapacity,
	}
	date, err := model.ParseExamDate(strings.TrimSpace(r.FormValue("date")))
	if err != nil {
		return info, err
	}
	info.Date = date
	if c := strings.TrimSpace(r.FormValue("capacity")); c != "" {
		n, err := strconv.Atoi(c)
		if err != nil {
			return info, fmt.Errorf("%w: folder capacity %q is not a number", model.ErrValidation, c)
		}
		info.FolderCapacity = n
	}
	return info, nil
}

// configurationFromForm picks the task configuration for a generation: an
// uploaded file, then a stored configuration, then the default.
func (h *Handler) configurationFromForm(r *http.Request) (model.Configuration, error) {
	if file, _, err := r.FormFile("config_file"); err == nil {
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			return model.Configuration{}, err
		}
		return model.ParseConfiguration(data)
	}
	if name := r.FormValue("config_name"); name != "" {
		cfg, err := h.store.GetConfiguration(name)
		if err != nil {
			return model.Configuration{}, err
		}
		if cfg == nil {
			return model.Configuration{}, fmt.Errorf("%w: unknown configuration %q", model.ErrConfiguration, name)
		}
		return *cfg, nil
	}
	return model.DefaultConfiguration(), nil
}

func (h *Handler) handleListGenerations(w http.ResponseWriter, r *http.Request) {
	limit := h.config.HistoryLimit
	if l := r.URL.Query().Get("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}
	gens, err := h.store.ListGenerations(limit)
	if err != nil {
		writeError(w, err)
		return
	}
	if gens == nil {
		gens = []model.Generation{}
	}
	writeJSON(w, http.StatusOK, gens)
}

func sendFile(w http.ResponseWriter, name string, data []byte) {
	w.Header().Set("Content-Type", render.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	if _, err := w.Write(data); err != nil {
		slog.Error("write response", "error", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

// writeError maps configuration and validation failures to 400 and
// everything else to 500.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrConfiguration), errors.Is(err, model.ErrValidation):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		slog.Error("request failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
