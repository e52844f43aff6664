// Package partition splits an ordered roster into fixed-size folders.
package partition

import (
	"fmt"

	"github.com/pavelanni/gradesheet/internal/model"
)

// FolderCount returns how many folders n students fill at the given capacity.
func FolderCount(n, capacity int) int {
	if n <= 0 || capacity <= 0 {
		return 0
	}
	return (n-1)/capacity + 1
}

// Partition splits students into contiguous folders of the given capacity.
// Every folder except possibly the last is full. Folder numbers start at 1
// and students keep their roster order.
func Partition(students []model.StudentRecord, capacity int) ([]model.Folder, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("%w: folder capacity %d must be at least 1", model.ErrConfiguration, capacity)
	}
	folders := make([]model.Folder, 0, FolderCount(len(students), capacity))
	for start := 0; start < len(students); start += capacity {
		end := min(start+capacity, len(students))
		folders = append(folders, model.Folder{
			Number:   len(folders) + 1,
			Students: students[start:end:end],
		})
	}
	return folders, nil
}

// Summary describes a partition for logs and UI feedback.
type Summary struct {
	Students int `json:"students"`
	Folders  int `json:"folders"`
	Capacity int `json:"capacity"`
	LastSize int `json:"last_size"`
	Sheets   int `json:"sheets"` // folders plus the overview sheet
}

// Summarize computes the Summary for n students at the given capacity.
func Summarize(n, capacity int) Summary {
	s := Summary{Students: n, Capacity: capacity, Folders: FolderCount(n, capacity)}
	if s.Folders > 0 {
		s.LastSize = n - (s.Folders-1)*capacity
	}
	s.Sheets = s.Folders + 1
	return s
}
