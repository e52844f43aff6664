package i18n

import (
	"context"

	"github.com/pavelanni/gradesheet/internal/plan"
)

// SheetLabels returns the sheet texts for the localizer in ctx. The
// SS and S column headers are kept as they are in every language.
func SheetLabels(ctx context.Context) plan.Labels {
	l := plan.DefaultLabels()
	l.OverviewSheet = T(ctx, "SheetOverview")
	l.FolderSheet = T(ctx, "SheetFolder")
	l.OverviewHeaders = [6]string{
		T(ctx, "HeaderFolder"),
		T(ctx, "HeaderSlot"),
		T(ctx, "HeaderExamCode"),
		T(ctx, "HeaderMatriculation"),
		T(ctx, "HeaderLastName"),
		T(ctx, "HeaderFirstName"),
	}
	l.FolderHeaders = [6]string{
		T(ctx, "ColumnFolder"),
		T(ctx, "ColumnSlot"),
		T(ctx, "ColumnCode"),
		T(ctx, "ColumnMatriculation"),
		T(ctx, "HeaderLastName"),
		T(ctx, "HeaderFirstName"),
	}
	l.Sum = T(ctx, "LabelSum")
	l.Date = T(ctx, "LabelDate")
	l.Folder = T(ctx, "LabelFolder")
	l.MaxPoints = T(ctx, "LabelMaxPoints")
	l.AveragePoints = T(ctx, "LabelAveragePoints")
	l.FilePrefix = T(ctx, "FilePrefix")
	return l
}
