// Package export writes generated cycles to spreadsheet files.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/claude/liftcalc/internal/models"
	"github.com/claude/liftcalc/internal/program"
	"github.com/xuri/excelize/v2"
)

// SheetTrainingMaxes is the summary sheet name.
const SheetTrainingMaxes = "Training Maxes"

var weekHeader = []string{"Day", "Lift", "Type", "Exercise", "Sets", "Reps", "Weight", "% TM", "Plates / side"}

// WeekSheet returns the sheet name for a program week.
func WeekSheet(week int) string {
	return fmt.Sprintf("Week %d", week)
}

type workbookStyles struct {
	header  int
	text    int
	number  int
	percent int
}

func createStyles(f *excelize.File) (*workbookStyles, error) {
	var err error
	styles := &workbookStyles{}
	border := []excelize.Border{
		{Type: "left", Color: "#D9D9D9", Style: 1},
		{Type: "right", Color: "#D9D9D9", Style: 1},
		{Type: "top", Color: "#D9D9D9", Style: 1},
		{Type: "bottom", Color: "#D9D9D9", Style: 1},
	}

	styles.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#2E75B6"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border,
	})
	if err != nil {
		return nil, err
	}
	styles.text, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Size: 10},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
		Border:    border,
	})
	if err != nil {
		return nil, err
	}
	styles.number, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Size: 10},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border,
	})
	if err != nil {
		return nil, err
	}
	styles.percent, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Size: 10},
		NumFmt:    9,
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border,
	})
	if err != nil {
		return nil, err
	}
	return styles, nil
}

// Build lays the program out as a workbook with a training max summary and
// one sheet per week. The caller must close the returned file.
func Build(prog *program.Program) (*excelize.File, error) {
	f := excelize.NewFile()

	styles, err := createStyles(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("creating styles: %w", err)
	}

	if err := f.SetSheetName("Sheet1", SheetTrainingMaxes); err != nil {
		f.Close()
		return nil, fmt.Errorf("renaming default sheet: %w", err)
	}
	if err := writeTrainingMaxes(f, styles, prog); err != nil {
		f.Close()
		return nil, err
	}

	byWeek := map[int][]program.Day{}
	var weeks []int
	for _, d := range prog.Days {
		if _, ok := byWeek[d.Week]; !ok {
			weeks = append(weeks, d.Week)
		}
		byWeek[d.Week] = append(byWeek[d.Week], d)
	}
	for _, week := range weeks {
		if err := writeWeek(f, styles, week, byWeek[week]); err != nil {
			f.Close()
			return nil, err
		}
	}
	return f, nil
}

// WriteWorkbook saves the program as an .xlsx file.
func WriteWorkbook(prog *program.Program, path string) error {
	f, err := Build(prog)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}
	return nil
}

// Write streams the program as .xlsx to w.
func Write(prog *program.Program, w io.Writer) error {
	f, err := Build(prog)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeTrainingMaxes(f *excelize.File, styles *workbookStyles, prog *program.Program) error {
	sheet := SheetTrainingMaxes
	if err := f.SetSheetRow(sheet, "A1", &[]any{"Cycle", prog.Cycle}); err != nil {
		return fmt.Errorf("writing cycle: %w", err)
	}
	if err := f.SetSheetRow(sheet, "A3", &[]any{"Lift", "Training Max"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	f.SetCellStyle(sheet, "A3", "B3", styles.header)

	row := 4
	for _, lift := range models.MainLifts {
		tm, ok := prog.TrainingMaxes[lift]
		if !ok {
			continue
		}
		cell := fmt.Sprintf("A%d", row)
		if err := f.SetSheetRow(sheet, cell, &[]any{lift.DisplayName(), tm}); err != nil {
			return fmt.Errorf("writing training max: %w", err)
		}
		f.SetCellStyle(sheet, cell, cell, styles.text)
		f.SetCellStyle(sheet, fmt.Sprintf("B%d", row), fmt.Sprintf("B%d", row), styles.number)
		row++
	}
	f.SetColWidth(sheet, "A", "A", 18)
	f.SetColWidth(sheet, "B", "B", 14)
	return nil
}

func writeWeek(f *excelize.File, styles *workbookStyles, week int, days []program.Day) error {
	sheet := WeekSheet(week)
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("creating sheet %s: %w", sheet, err)
	}

	header := make([]any, len(weekHeader))
	for i, h := range weekHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	f.SetCellStyle(sheet, "A1", "I1", styles.header)
	f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})

	row := 2
	for _, d := range days {
		sets := append(append([]program.Set{}, d.Sets...), d.Jokers...)
		for _, set := range sets {
			values := []any{d.DayNum, d.MainLift.DisplayName(), string(set.Kind), set.Exercise, set.Sets, set.RepsText()}
			if set.Weight > 0 {
				values = append(values, set.Weight)
			} else {
				values = append(values, "")
			}
			if set.PercentOfTM > 0 {
				values = append(values, set.PercentOfTM)
			} else {
				values = append(values, "")
			}
			values = append(values, formatPlates(set.Plates))

			cell := fmt.Sprintf("A%d", row)
			if err := f.SetSheetRow(sheet, cell, &values); err != nil {
				return fmt.Errorf("writing row %d: %w", row, err)
			}
			f.SetCellStyle(sheet, cell, fmt.Sprintf("G%d", row), styles.number)
			f.SetCellStyle(sheet, fmt.Sprintf("B%d", row), fmt.Sprintf("D%d", row), styles.text)
			f.SetCellStyle(sheet, fmt.Sprintf("H%d", row), fmt.Sprintf("H%d", row), styles.percent)
			f.SetCellStyle(sheet, fmt.Sprintf("I%d", row), fmt.Sprintf("I%d", row), styles.text)
			row++
		}
	}

	f.SetColWidth(sheet, "A", "A", 6)
	f.SetColWidth(sheet, "B", "B", 16)
	f.SetColWidth(sheet, "C", "C", 10)
	f.SetColWidth(sheet, "D", "D", 18)
	f.SetColWidth(sheet, "E", "H", 9)
	f.SetColWidth(sheet, "I", "I", 22)
	return nil
}

// formatPlates renders a per-side breakdown like "45 + 25 + 2.5".
func formatPlates(plates []float64) string {
	parts := make([]string, len(plates))
	for i, p := range plates {
		parts[i] = fmt.Sprintf("%g", p)
	}
	return strings.Join(parts, " + ")
}
