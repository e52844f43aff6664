// Package views renders the HTML pages of the gradesheet server.
package views

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	appI18n "github.com/pavelanni/gradesheet/internal/i18n"
	"github.com/pavelanni/gradesheet/internal/model"
	"github.com/pavelanni/gradesheet/internal/store"
)

// IndexData is everything the start page shows.
type IndexData struct {
	Info           model.ExamInfo
	Configurations []store.ConfigurationInfo
	Generations    []model.Generation
}

// IndexPage renders the upload form and the list of recent generations.
func IndexPage(d IndexData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		t := func(id string) string { return templ.EscapeString(appI18n.T(ctx, id)) }
		base := model.BasePathFromContext(ctx)

		b.WriteString(`<!DOCTYPE html><html><head><meta charset="utf-8"><title>`)
		b.WriteString(t("AppTitle"))
		b.WriteString(`</title></head><body><main>`)
		fmt.Fprintf(&b, `<h1>%s</h1>`, t("AppTitle"))
		fmt.Fprintf(&b, `<p><a href="%s/template">%s</a></p>`, templ.EscapeString(base), t("DownloadTemplate"))

		fmt.Fprintf(&b, `<form method="post" action="%s/generate" enctype="multipart/form-data">`, templ.EscapeString(base))
		fmt.Fprintf(&b, `<input type="hidden" name="csrf_token" value="%s">`,
			templ.EscapeString(model.CSRFTokenFromContext(ctx)))
		fmt.Fprintf(&b, `<label>%s <input type="file" name="roster" accept=".xlsx,.xlsm,.csv" required></label>`,
			t("UploadRoster"))
		fmt.Fprintf(&b, `<label>%s <input type="text" name="term" value="%s"></label>`,
			t("Term"), templ.EscapeString(d.Info.Term))
		date := ""
		if !d.Info.Date.IsZero() {
			date = d.Info.Date.Format(model.DateLayout)
		}
		fmt.Fprintf(&b, `<label>%s <input type="date" name="date" value="%s"></label>`, t("ExamDate"), date)
		capacity := d.Info.FolderCapacity
		if capacity < 1 {
			capacity = model.DefaultFolderCapacity
		}
		fmt.Fprintf(&b, `<label>%s <input type="number" name="capacity" min="1" value="%d"></label>`,
			t("FolderCapacity"), capacity)

		fmt.Fprintf(&b, `<label>%s <select name="config_name"><option value="">%s</option>`,
			t("StoredConfiguration"), t("DefaultConfiguration"))
		for _, c := range d.Configurations {
			fmt.Fprintf(&b, `<option value="%s">%s (%s: %d)</option>`,
				templ.EscapeString(c.Name), templ.EscapeString(c.Name), t("TotalPoints"), c.TotalPoints)
		}
		b.WriteString(`</select></label>`)
		fmt.Fprintf(&b, `<label>%s <input type="file" name="config_file" accept=".yaml,.yml,.json"></label>`,
			t("ConfigurationFile"))
		fmt.Fprintf(&b, `<button type="submit">%s</button></form>`, t("Generate"))

		fmt.Fprintf(&b, `<h2>%s</h2>`, t("RecentGenerations"))
		if len(d.Generations) == 0 {
			fmt.Fprintf(&b, `<p>%s</p>`, t("NoGenerations"))
		} else {
			b.WriteString(`<table><tbody>`)
			for _, g := range d.Generations {
				summary := appI18n.Td(ctx, "GenerationSummary", map[string]any{
					"Sheets": g.Folders + 1, "Students": g.Students, "Folders": g.Folders,
				})
				fmt.Fprintf(&b, `<tr title="%s"><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>`,
					templ.EscapeString(summary),
					templ.EscapeString(g.CreatedAt.Format("2006-01-02 15:04")),
					templ.EscapeString(g.Term),
					templ.EscapeString(g.FileName),
					templ.EscapeString(appI18n.Tp(ctx, "FoldersCreated", g.Folders)),
					strconv.Itoa(g.TotalPoints))
			}
			b.WriteString(`</tbody></table>`)
		}
		b.WriteString(`</main></body></html>`)

		_, err := io.WriteString(w, b.String())
		return err
	})
}
