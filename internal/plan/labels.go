package plan

import (
	"strings"
)

// Labels holds the human-readable texts written into the sheets.
type Labels struct {
	OverviewSheet   string
	FolderSheet     string
	OverviewHeaders [6]string
	FolderHeaders   [6]string
	Sum             string
	Date            string
	Folder          string
	MaxPoints       string
	AveragePoints   string
	TaskSummary     string
	SubtaskSummary  string
	FilePrefix      string
}

// DefaultLabels returns English labels.
func DefaultLabels() Labels {
	return Labels{
		OverviewSheet:   "Students",
		FolderSheet:     "Folder",
		OverviewHeaders: [6]string{"Folder", "Slot in folder", "Exam code", "Matriculation no.", "Last name", "First name"},
		FolderHeaders:   [6]string{"Folder", "No", "Code", "Matr. no.", "Last name", "First name"},
		Sum:             "SUM",
		Date:            "Date:",
		Folder:          "Folder",
		MaxPoints:       "Maximum points",
		AveragePoints:   "Average points",
		TaskSummary:     "SS",
		SubtaskSummary:  "S",
		FilePrefix:      "Gradesheet",
	}
}

// FileName derives the workbook file name from the term label: whitespace
// runs become a single "_", leading and trailing whitespace is dropped, and
// so are slashes. An empty term gives "<prefix>.xlsx".
func FileName(prefix, term string) string {
	name := strings.Join(strings.Fields(term), "_")
	name = strings.ReplaceAll(name, "/", "")
	if name == "" {
		return prefix + ".xlsx"
	}
	return prefix + "_" + name + ".xlsx"
}
