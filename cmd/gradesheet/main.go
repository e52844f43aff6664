package main

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"

	"github.com/pavelanni/gradesheet/internal/handler"
	appI18n "github.com/pavelanni/gradesheet/internal/i18n"
	"github.com/pavelanni/gradesheet/internal/model"
	"github.com/pavelanni/gradesheet/internal/render"
	"github.com/pavelanni/gradesheet/internal/store"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("error reading .env file", "error", err)
	}
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "gradesheet",
		Short: "Generate scored answer sheets for hand-graded exams",
	}
	root.AddCommand(generateCmd(), templateCmd(), serveCmd(), configsCmd())
	return root
}

func addLogFlags(f *pflag.FlagSet) {
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP gradesheet server",
		RunE:  runServe,
	}
	f := cmd.Flags()
	f.StringP("addr", "a", ":8080", "HTTP listen address")
	f.String("db", "gradesheet.db", "SQLite database path")
	f.StringSliceP("configs", "c", nil, "Task configuration YAML files to import at startup (repeatable)")
	f.StringP("lang", "l", "en", "Default language for UI and sheets (en, de)")
	f.String("base-path", "", "URL prefix for sub-path deployments (e.g. /grades)")
	f.Bool("secure-cookies", true, "Set Secure flag on cookies")
	f.String("admin-user", "admin", "User name for configuration changes")
	f.String("admin-password", "", "Admin password for configuration changes (or set GRADESHEET_ADMIN_PASSWORD)")
	f.Int64("max-upload", handler.DefaultMaxUploadBytes, "Maximum upload size in bytes")
	f.Int("history", 10, "Number of recent generations shown on the start page")
	addLogFlags(f)
	return cmd
}

func setupLogging(cmd *cobra.Command) {
	v := viperForCmd(cmd)

	var logLevel slog.Level
	switch strings.ToLower(v.GetString("log-level")) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	handlerOpts := &slog.HandlerOptions{Level: logLevel}
	var logHandler slog.Handler
	switch strings.ToLower(v.GetString("log-format")) {
	case "json":
		logHandler = slog.NewJSONHandler(os.Stderr, handlerOpts)
	default:
		logHandler = slog.NewTextHandler(os.Stderr, handlerOpts)
	}
	slog.SetDefault(slog.New(logHandler))
}

// viperForCmd binds a command's flags and environment to a fresh viper instance.
func viperForCmd(cmd *cobra.Command) *viper.Viper {
	v := viper.New()
	_ = v.BindPFlags(cmd.Flags())

	v.SetEnvPrefix("GRADESHEET")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("gradesheet")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/gradesheet")
	v.AddConfigPath("/etc/gradesheet")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Warn("error reading config file", "error", err)
		}
	} else {
		slog.Debug("loaded config file", "path", v.ConfigFileUsed())
	}

	return v
}

func runServe(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	db, err := store.New(v.GetString("db"))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := seedAdmin(db, v.GetString("admin-password")); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	if err := importConfigurations(db, v.GetStringSlice("configs")); err != nil {
		return fmt.Errorf("import configurations: %w", err)
	}

	lang := v.GetString("lang")
	if err := appI18n.Init(lang); err != nil {
		return fmt.Errorf("init i18n: %w", err)
	}

	// Normalize base path.
	basePath := strings.TrimRight(v.GetString("base-path"), "/")
	if basePath != "" && !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}

	srvCfg := model.ServerConfig{
		BasePath:       basePath,
		SecureCookies:  v.GetBool("secure-cookies"),
		AdminUser:      v.GetString("admin-user"),
		MaxUploadBytes: v.GetInt64("max-upload"),
		HistoryLimit:   v.GetInt("history"),
	}

	h, err := handler.New(db, render.Excel{}, srvCfg)
	if err != nil {
		return fmt.Errorf("create handler: %w", err)
	}

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(appI18n.Middleware())

	if basePath != "" {
		r.Route(basePath, func(sub chi.Router) {
			sub.Use(h.BasePathMiddleware)
			h.Routes(sub)
		})
		r.Get(basePath, func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, basePath+"/", http.StatusMovedPermanently)
		})
	} else {
		r.Use(h.BasePathMiddleware)
		h.Routes(r)
	}

	addr := v.GetString("addr")
	slog.Info("starting server",
		"addr", addr,
		"lang", lang,
		"base_path", basePath,
		"max_upload", srvCfg.MaxUploadBytes,
	)
	return http.ListenAndServe(addr, r)
}

// importConfigurations stores each YAML file under its base name. Files
// whose content did not change since the last import are skipped.
func importConfigurations(db *store.Store, paths []string) error {
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}

		hash := sha256sum(data)
		storedHash, err := db.GetImportedFileHash(store.FileImportKey(path))
		if err != nil {
			return fmt.Errorf("check import status for %s: %w", path, err)
		}
		if storedHash == hash {
			slog.Info("configuration file unchanged, skipping", "path", path)
			continue
		}

		cfg, err := model.ParseConfiguration(data)
		if err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		name := configName(path)
		if err := db.SaveConfiguration(name, cfg); err != nil {
			return fmt.Errorf("save %s: %w", path, err)
		}
		if err := db.SetImportedFileHash(store.FileImportKey(path), hash); err != nil {
			return fmt.Errorf("record import for %s: %w", path, err)
		}
		slog.Info("imported configuration", "path", path, "name", name, "total_points", cfg.TotalPoints())
	}
	return nil
}

func configName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func sha256sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// seedAdmin stores the bcrypt hash of the admin password. Without a
// password the configuration API stays read-only.
func seedAdmin(db *store.Store, password string) error {
	if password == "" {
		existing, err := db.GetMetadata(store.AdminPasswordHashKey)
		if err != nil {
			return err
		}
		if existing == "" {
			slog.Warn("no admin password set, configuration changes over HTTP are disabled")
		}
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	if err := db.SetMetadata(store.AdminPasswordHashKey, string(hash)); err != nil {
		return fmt.Errorf("store admin password: %w", err)
	}
	slog.Info("admin password set")
	return nil
}
