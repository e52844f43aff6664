package render

import (
	"github.com/xuri/excelize/v2"

	"github.com/pavelanni/gradesheet/internal/plan"
)

const (
	fillGray   = "D9D9D9"
	fillOrange = "F4CCAF"

	borderNone   = 0
	borderThin   = 1
	borderMedium = 2

	numFmtTwoDecimals = 2 // built-in "0.00"
	dateFormat        = "DD.MM.YYYY"
)

var (
	center = &excelize.Alignment{Horizontal: "center", Vertical: "center"}
	right  = &excelize.Alignment{Horizontal: "right", Vertical: "center"}
	rotate = &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true, TextRotation: 90}

	fontTitle  = &excelize.Font{Bold: true, Size: 18}
	fontNormal = &excelize.Font{Size: 12}
	fontBold   = &excelize.Font{Bold: true, Size: 12}
)

func solid(color string) excelize.Fill {
	return excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{color}}
}

// baseStyle maps a style tag to its font, fill, alignment and number format.
func baseStyle(tag plan.Style) *excelize.Style {
	switch tag {
	case plan.StyleTitle:
		return &excelize.Style{Font: fontTitle, Alignment: center}
	case plan.StyleTitleRight:
		return &excelize.Style{Font: fontTitle, Alignment: right}
	case plan.StyleDate:
		format := dateFormat
		return &excelize.Style{Font: fontTitle, Alignment: center, CustomNumFmt: &format}
	case plan.StyleHeader:
		return &excelize.Style{Font: fontBold, Alignment: center, Fill: solid(fillGray)}
	case plan.StyleLabel:
		return &excelize.Style{Font: fontBold, Alignment: center, Fill: solid(fillGray)}
	case plan.StyleDescription:
		return &excelize.Style{Font: fontNormal, Alignment: rotate, Fill: solid(fillGray)}
	case plan.StylePointFill:
		return &excelize.Style{Font: fontBold, Alignment: center, Fill: solid(fillOrange)}
	case plan.StyleSummaryFill:
		return &excelize.Style{Font: fontNormal, Alignment: center, Fill: solid(fillGray)}
	case plan.StyleAverage:
		return &excelize.Style{Font: fontNormal, Alignment: center, Fill: solid(fillGray), NumFmt: numFmtTwoDecimals}
	default:
		return &excelize.Style{Font: fontNormal, Alignment: center}
	}
}

// edges holds left, right, top and bottom border weights.
type edges [4]int

type styleKey struct {
	tag    plan.Style
	border edges
}

// styleCache registers every distinct style once per workbook.
type styleCache struct {
	f   *excelize.File
	ids map[styleKey]int
}

func newStyleCache(f *excelize.File) *styleCache {
	return &styleCache{f: f, ids: make(map[styleKey]int)}
}

func (c *styleCache) id(key styleKey) (int, error) {
	if id, ok := c.ids[key]; ok {
		return id, nil
	}
	s := baseStyle(key.tag)
	for i, side := range []string{"left", "right", "top", "bottom"} {
		if key.border[i] != borderNone {
			s.Border = append(s.Border, excelize.Border{Type: side, Color: "000000", Style: key.border[i]})
		}
	}
	id, err := c.f.NewStyle(s)
	if err != nil {
		return 0, err
	}
	c.ids[key] = id
	return id, nil
}
