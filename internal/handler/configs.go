package handler

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/pavelanni/gradesheet/internal/model"
	"github.com/pavelanni/gradesheet/internal/store"
)

type configResponse struct {
	Name          string              `json:"name"`
	TotalPoints   int                 `json:"total_points"`
	Configuration model.Configuration `json:"configuration"`
}

func (h *Handler) handleListConfigs(w http.ResponseWriter, r *http.Request) {
	infos, err := h.store.ListConfigurations()
	if err != nil {
		writeError(w, err)
		return
	}
	if infos == nil {
		infos = []store.ConfigurationInfo{}
	}
	writeJSON(w, http.StatusOK, infos)
}

// loadConfig fetches the configuration named in the URL. It writes a 404
// and returns nil when there is none.
func (h *Handler) loadConfig(w http.ResponseWriter, r *http.Request) *model.Configuration {
	name := chi.URLParam(r, "name")
	cfg, err := h.store.GetConfiguration(name)
	if err != nil {
		writeError(w, err)
		return nil
	}
	if cfg == nil {
		http.Error(w, fmt.Sprintf("configuration %q not found", name), http.StatusNotFound)
		return nil
	}
	return cfg
}

func (h *Handler) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	cfg := h.loadConfig(w, r)
	if cfg == nil {
		return
	}
	writeJSON(w, http.StatusOK, configResponse{
		Name:          chi.URLParam(r, "name"),
		TotalPoints:   cfg.TotalPoints(),
		Configuration: *cfg,
	})
}

// handlePutConfig stores the YAML or JSON body under the URL name.
func (h *Handler) handlePutConfig(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}
	cfg, err := model.ParseConfiguration(data)
	if err != nil {
		writeError(w, err)
		return
	}
	h.saveConfig(w, chi.URLParam(r, "name"), cfg)
}

// handleUploadConfig imports a configuration file sent as multipart form.
// The name defaults to the file name without extension, and a file whose
// content was already imported under that name is skipped.
func (h *Handler) handleUploadConfig(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.config.MaxUploadBytes); err != nil {
		http.Error(w, "file too large", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("config_file")
	if err != nil {
		http.Error(w, "no file uploaded", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "failed to read file", http.StatusInternalServerError)
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		name = strings.TrimSuffix(header.Filename, filepath.Ext(header.Filename))
	}

	hashBytes := sha256.Sum256(data)
	hash := hex.EncodeToString(hashBytes[:])
	storedHash, err := h.store.GetImportedFileHash(store.UploadImportKey(name))
	if err != nil {
		slog.Error("failed to check import status", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if storedHash == hash {
		if existing, err := h.store.GetConfiguration(name); err == nil && existing != nil {
			slog.Info("configuration file unchanged, skipping", "name", name)
			writeJSON(w, http.StatusOK, configResponse{Name: name, TotalPoints: existing.TotalPoints(), Configuration: *existing})
			return
		}
	}

	cfg, err := model.ParseConfiguration(data)
	if err != nil {
		writeError(w, err)
		return
	}
	if !h.saveConfig(w, name, cfg) {
		return
	}
	if err := h.store.SetImportedFileHash(store.UploadImportKey(name), hash); err != nil {
		slog.Error("failed to record import", "error", err)
	}
	slog.Info("uploaded configuration", "filename", header.Filename, "name", name, "total_points", cfg.TotalPoints())
}

func (h *Handler) saveConfig(w http.ResponseWriter, name string, cfg model.Configuration) bool {
	if name == "" {
		http.Error(w, "configuration name is required", http.StatusBadRequest)
		return false
	}
	if err := h.store.SaveConfiguration(name, cfg); err != nil {
		writeError(w, err)
		return false
	}
	// The stored body no longer matches any uploaded file.
	if err := h.store.SetImportedFileHash(store.UploadImportKey(name), ""); err != nil {
		slog.Error("failed to reset import hash", "name", name, "error", err)
	}
	w.Header().Set("Location", h.path("/api/configs/"+name))
	writeJSON(w, http.StatusOK, configResponse{Name: name, TotalPoints: cfg.TotalPoints(), Configuration: cfg})
	return true
}

func (h *Handler) handleDeleteConfig(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	ok, err := h.store.DeleteConfiguration(name)
	if err != nil {
		writeError(w, err)
		return
	}
	if !ok {
		http.Error(w, fmt.Sprintf("configuration %q not found", name), http.StatusNotFound)
		return
	}
	if err := h.store.SetImportedFileHash(store.UploadImportKey(name), ""); err != nil {
		slog.Error("failed to reset import hash", "name", name, "error", err)
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleEditConfig applies a list of editor operations to a stored
// configuration. Either all edits apply or nothing is saved.
func (h *Handler) handleEditConfig(w http.ResponseWriter, r *http.Request) {
	cfg := h.loadConfig(w, r)
	if cfg == nil {
		return
	}

	var edits []model.Edit
	if err := json.NewDecoder(r.Body).Decode(&edits); err != nil {
		http.Error(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	for i, e := range edits {
		if err := cfg.Apply(e); err != nil {
			writeError(w, fmt.Errorf("edit %d (%s): %w", i+1, e.Op, err))
			return
		}
	}
	h.saveConfig(w, chi.URLParam(r, "name"), *cfg)
}
