package model

import (
	"context"
	"fmt"
	"time"
)

// StudentRecord is one roster entry as delivered by the roster loader.
type StudentRecord struct {
	MatriculationID string `json:"matriculation_id"`
	LastName        string `json:"last_name"`
	FirstName       string `json:"first_name"`
}

// Folder is a contiguous group of students sharing one grading sheet.
type Folder struct {
	Number   int             `json:"number"` // 1-based
	Students []StudentRecord `json:"students"`
}

// Len returns the number of students in the folder.
func (f Folder) Len() int {
	return len(f.Students)
}

// ExamCode returns the exam code for the student at the given slot.
func (f Folder) ExamCode(slot int) string {
	return ExamCode(f.Number, slot)
}

// ExamCode formats the code written on an exam: "<folder>_<slot>".
func ExamCode(folder, slot int) string {
	return fmt.Sprintf("%d_%d", folder, slot)
}

// ExamInfo holds the exam-wide settings used for a generation run.
type ExamInfo struct {
	Term           string    `json:"term"`
	Date           time.Time `json:"date"`
	FolderCapacity int       `json:"folder_capacity"`
}

// DateLayout is the layout used for exam dates on the command line and in forms.
const DateLayout = "2006-01-02"

// DefaultFolderCapacity is the number of students per folder when none is given.
const DefaultFolderCapacity = 5

// ParseExamDate parses a DateLayout date. An empty string yields the zero
// time, which leaves the date cell of the sheets empty.
func ParseExamDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: exam date %q is not YYYY-MM-DD", ErrValidation, s)
	}
	return d, nil
}

// ServerConfig holds runtime settings of the HTTP server set via CLI flags.
type ServerConfig struct {
	BasePath       string // URL prefix for sub-path deployments (e.g. "/grades")
	SecureCookies  bool   // Set Secure flag on cookies (disable for local dev)
	AdminUser      string // Basic auth user for configuration changes
	MaxUploadBytes int64
	HistoryLimit   int // generations listed on the start page
}

// Generation records one completed workbook generation.
type Generation struct {
	ID             string    `json:"id"`
	Term           string    `json:"term"`
	ExamDate       time.Time `json:"exam_date"`
	Students       int       `json:"students"`
	Folders        int       `json:"folders"`
	FolderCapacity int       `json:"folder_capacity"`
	TotalPoints    int       `json:"total_points"`
	FileName       string    `json:"file_name"`
	CreatedAt      time.Time `json:"created_at"`
}

type basePathCtxKey struct{}

// ContextWithBasePath stores the base path prefix in context.
func ContextWithBasePath(ctx context.Context, basePath string) context.Context {
	return context.WithValue(ctx, basePathCtxKey{}, basePath)
}

// BasePathFromContext retrieves the base path from context (empty string if not set).
func BasePathFromContext(ctx context.Context) string {
	bp, _ := ctx.Value(basePathCtxKey{}).(string)
	return bp
}

type csrfCtxKey struct{}

// ContextWithCSRFToken stores the CSRF token in context.
func ContextWithCSRFToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, csrfCtxKey{}, token)
}

// CSRFTokenFromContext retrieves the CSRF token from context.
func CSRFTokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(csrfCtxKey{}).(string)
	return token
}
