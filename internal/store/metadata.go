package store

import (
	"database/sql"
	"strconv"
	"time"

	"github.com/pavelanni/gradesheet/internal/model"
)

// SetMetadata upserts a key-value pair in the exam_metadata table.
func (s *Store) SetMetadata(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO exam_metadata (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = ?`,
		key, value, value,
	)
	return err
}

// GetMetadata returns the value for a metadata key.
// Returns empty string and nil error if the key is missing.
func (s *Store) GetMetadata(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM exam_metadata WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

// SetExamInfo stores the last used exam settings as metadata rows.
func (s *Store) SetExamInfo(info model.ExamInfo) error {
	date := ""
	if !info.Date.IsZero() {
		date = info.Date.Format(model.DateLayout)
	}
	pairs := []struct{ k, v string }{
		{"term", info.Term},
		{"date", date},
		{"folder_capacity", strconv.Itoa(info.FolderCapacity)},
	}
	for _, p := range pairs {
		if err := s.SetMetadata(p.k, p.v); err != nil {
			return err
		}
	}
	return nil
}

// GetExamInfo reads the last used exam settings. Missing keys leave the
// corresponding field at its zero value.
func (s *Store) GetExamInfo() (model.ExamInfo, error) {
	var info model.ExamInfo
	var err error

	if info.Term, err = s.GetMetadata("term"); err != nil {
		return info, err
	}
	date, err := s.GetMetadata("date")
	if err != nil {
		return info, err
	}
	if date != "" {
		if info.Date, err = time.Parse(model.DateLayout, date); err != nil {
			return info, err
		}
	}
	capacity, err := s.GetMetadata("folder_capacity")
	if err != nil {
		return info, err
	}
	if capacity != "" {
		if info.FolderCapacity, err = strconv.Atoi(capacity); err != nil {
			return info, err
		}
	}
	return info, nil
}

// AdminPasswordHashKey is the metadata key holding the bcrypt hash of the
// admin password.
const AdminPasswordHashKey = "admin_password_hash"
