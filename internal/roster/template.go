package roster

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// TemplateFileName is the suggested file name of the roster template.
const TemplateFileName = "Studierendenliste_Vorlage.xlsx"

var templateHeader = []any{"Matr-Nr", "Nachname", "Vorname"}

var templateStudents = [][2]string{
	{"Müller", "Anna"}, {"Schmidt", "Ben"}, {"Schneider", "Clara"},
	{"Fischer", "David"}, {"Weber", "Eva"}, {"Meyer", "Felix"},
	{"Wagner", "Greta"}, {"Becker", "Hans"}, {"Schulz", "Ida"},
	{"Hoffmann", "Jan"}, {"Koch", "Klara"}, {"Richter", "Lukas"},
}

// WriteTemplate writes an example roster with twelve students.
func WriteTemplate(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	if err := f.SetSheetRow(sheet, "A1", &templateHeader); err != nil {
		return err
	}
	for i, s := range templateStudents {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{fmt.Sprintf("%d", 100000+i), s[0], s[1]}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return f.Write(w)
}
