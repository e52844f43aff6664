package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pavelanni/gradesheet/internal/model"

	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS configurations (
		name TEXT PRIMARY KEY,
		body TEXT NOT NULL,
		total_points INTEGER NOT NULL DEFAULT 0,
		updated_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS generations (
		id TEXT PRIMARY KEY,
		term TEXT NOT NULL,
		exam_date DATETIME NOT NULL,
		students INTEGER NOT NULL,
		folders INTEGER NOT NULL,
		folder_capacity INTEGER NOT NULL,
		total_points INTEGER NOT NULL,
		file_name TEXT NOT NULL,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS exam_metadata (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS imported_files (
		path TEXT PRIMARY KEY,
		hash TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// ConfigurationInfo summarizes a stored configuration.
type ConfigurationInfo struct {
	Name        string    `json:"name"`
	TotalPoints int       `json:"total_points"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SaveConfiguration stores cfg under name, replacing any previous version.
func (s *Store) SaveConfiguration(name string, cfg model.Configuration) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	body, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(
		`INSERT INTO configurations (name, body, total_points, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET body = ?, total_points = ?, updated_at = ?`,
		name, string(body), cfg.TotalPoints(), time.Now(),
		string(body), cfg.TotalPoints(), time.Now(),
	)
	return err
}

// GetConfiguration returns the configuration stored under name, or nil if
// there is none.
func (s *Store) GetConfiguration(name string) (*model.Configuration, error) {
	var body string
	err := s.db.QueryRow(`SELECT body FROM configurations WHERE name = ?`, name).Scan(&body)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var cfg model.Configuration
	if err := json.Unmarshal([]byte(body), &cfg); err != nil {
		return nil, fmt.Errorf("decode configuration %q: %w", name, err)
	}
	return &cfg, nil
}

// ListConfigurations returns all stored configurations ordered by name.
func (s *Store) ListConfigurations() ([]ConfigurationInfo, error) {
	rows, err := s.db.Query(`SELECT name, total_points, updated_at FROM configurations ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var infos []ConfigurationInfo
	for rows.Next() {
		var ci ConfigurationInfo
		if err := rows.Scan(&ci.Name, &ci.TotalPoints, &ci.UpdatedAt); err != nil {
			return nil, err
		}
		infos = append(infos, ci)
	}
	return infos, rows.Err()
}

// DeleteConfiguration removes a configuration. It reports whether one existed.
func (s *Store) DeleteConfiguration(name string) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM configurations WHERE name = ?`, name)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// RecordGeneration stores a generation run. Empty ID and CreatedAt are filled in.
func (s *Store) RecordGeneration(g model.Generation) (model.Generation, error) {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	if g.CreatedAt.IsZero() {
		g.CreatedAt = time.Now()
	}
	_, err := s.db.Exec(
		`INSERT INTO generations (id, term, exam_date, students, folders, folder_capacity, total_points, file_name, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		g.ID, g.Term, g.ExamDate, g.Students, g.Folders, g.FolderCapacity, g.TotalPoints, g.FileName, g.CreatedAt,
	)
	if err != nil {
		return model.Generation{}, err
	}
	return g, nil
}

// ListGenerations returns the most recent generations first. limit <= 0
// returns all of them.
func (s *Store) ListGenerations(limit int) ([]model.Generation, error) {
	query := `SELECT id, term, exam_date, students, folders, folder_capacity, total_points, file_name, created_at
		FROM generations ORDER BY created_at DESC, rowid DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var gens []model.Generation
	for rows.Next() {
		var g model.Generation
		if err := rows.Scan(&g.ID, &g.Term, &g.ExamDate, &g.Students, &g.Folders, &g.FolderCapacity,
			&g.TotalPoints, &g.FileName, &g.CreatedAt); err != nil {
			return nil, err
		}
		gens = append(gens, g)
	}
	return gens, rows.Err()
}

// Import hashes of configuration files read from disk and of files uploaded
// over HTTP live in the same table under different key prefixes.
const (
	fileImportPrefix   = "file:"
	uploadImportPrefix = "upload:"
)

// FileImportKey returns the imported_files key of a configuration file on disk.
func FileImportKey(path string) string {
	return fileImportPrefix + path
}

// UploadImportKey returns the imported_files key of a configuration uploaded
// under name.
func UploadImportKey(name string) string {
	return uploadImportPrefix + name
}

// GetImportedFileHash returns the stored hash for a configuration file, or
// an empty string if the file was never imported.
func (s *Store) GetImportedFileHash(path string) (string, error) {
	var hash string
	err := s.db.QueryRow(`SELECT hash FROM imported_files WHERE path = ?`, path).Scan(&hash)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return hash, err
}

// SetImportedFileHash records the hash of an imported configuration file.
func (s *Store) SetImportedFileHash(path, hash string) error {
	_, err := s.db.Exec(
		`INSERT INTO imported_files (path, hash) VALUES (?, ?)
		 ON CONFLICT(path) DO UPDATE SET hash = ?`,
		path, hash, hash,
	)
	return err
}
