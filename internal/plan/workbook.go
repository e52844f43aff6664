package plan

import (
	"fmt"

	"github.com/pavelanni/gradesheet/internal/layout"
	"github.com/pavelanni/gradesheet/internal/model"
	"github.com/pavelanni/gradesheet/internal/partition"
)

// BuildWorkbook builds the overview plan followed by one plan per folder.
// The layout is allocated once and reused for every folder.
func BuildWorkbook(cfg model.Configuration, students []model.StudentRecord, info model.ExamInfo, labels Labels) ([]Plan, error) {
	if len(students) == 0 {
		return nil, fmt.Errorf("%w: roster has no students", model.ErrValidation)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	l, err := layout.Allocate(cfg)
	if err != nil {
		return nil, err
	}
	folders, err := partition.Partition(students, info.FolderCapacity)
	if err != nil {
		return nil, err
	}

	overview, err := BuildOverview(students, info.FolderCapacity, labels)
	if err != nil {
		return nil, err
	}
	plans := make([]Plan, 0, len(folders)+1)
	plans = append(plans, overview)
	for _, f := range folders {
		p, err := BuildFolder(cfg, l, f, info, labels)
		if err != nil {
			return nil, fmt.Errorf("folder %d: %w", f.Number, err)
		}
		plans = append(plans, p)
	}
	return plans, nil
}
