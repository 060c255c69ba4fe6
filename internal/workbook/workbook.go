// Package workbook builds the downloadable spreadsheet templates whose column
// layout the import parser expects.
package workbook

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"lingoplay/internal/importer"
)

// Layout is the column layout of one import kind
type Layout struct {
	Sheet   string
	Headers []string
	Example []interface{}
}

var layouts = map[importer.Kind]Layout{
	importer.KindVocabulary: {
		Sheet:   "Vocabulary",
		Headers: []string{"word", "meaning_en", "meaning_vi", "pronunciation"},
		Example: []interface{}{"apple", "a round fruit", "quả táo", "/ˈæp.əl/"},
	},
	importer.KindMultipleChoice: {
		Sheet:   "MultipleChoice",
		Headers: []string{"content", "option_a", "option_b", "option_c", "option_d", "correct", "explanation_en", "explanation_vi"},
		Example: []interface{}{"Which one is a fruit?", "apple", "chair", "table", "door", "A", "An apple is a fruit.", "Táo là một loại trái cây."},
	},
	importer.KindListening: {
		Sheet:   "Listening",
		Headers: []string{"content", "media_url", "option_a", "option_b", "option_c", "option_d", "correct", "explanation_en", "explanation_vi"},
		Example: []interface{}{"What did you hear?", "https://cdn.example.com/audio/apple.mp3", "apple", "maple", "ample", "apply", "A", "The speaker says apple.", "Người nói đọc từ apple."},
	},
	importer.KindArrange: {
		Sheet:   "Arrange",
		Headers: []string{"sentence", "explanation_en", "explanation_vi"},
		Example: []interface{}{"I like green tea", "Subject, verb, then object.", "Chủ ngữ, động từ, rồi tân ngữ."},
	},
}

// LayoutFor returns the layout of kind
func LayoutFor(kind importer.Kind) (Layout, bool) {
	layout, ok := layouts[kind]
	return layout, ok
}

// Filename is the download name of kind's template
func Filename(kind importer.Kind) string {
	return fmt.Sprintf("%s_template.xlsx", kind)
}

// Build creates the template workbook for kind: a bold header row and one example row
func Build(kind importer.Kind) (*excelize.File, error) {
	layout, ok := layouts[kind]
	if !ok {
		return nil, importer.ErrUnknownKind
	}

	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), layout.Sheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	headers := make([]interface{}, len(layout.Headers))
	for i, h := range layout.Headers {
		headers[i] = h
	}
	if err := f.SetSheetRow(layout.Sheet, "A1", &headers); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write header row: %w", err)
	}
	example := layout.Example
	if err := f.SetSheetRow(layout.Sheet, "A2", &example); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write example row: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(layout.Headers))
	if err := f.SetCellStyle(layout.Sheet, "A1", lastCol+"1", bold); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to style header row: %w", err)
	}
	if err := f.SetColWidth(layout.Sheet, "A", lastCol, 22); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to size columns: %w", err)
	}
	return f, nil
}

// Write streams kind's template to w
func Write(w io.Writer, kind importer.Kind) error {
	f, err := Build(kind)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
