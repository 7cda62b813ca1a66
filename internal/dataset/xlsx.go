package dataset

import (
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "github.com/ceylinesp/quizlet/internal/errors"
	"github.com/ceylinesp/quizlet/internal/model"
)

// ImportRow is one spreadsheet row.
type ImportRow struct {
	Pair   model.WordPair
	Record model.AccuracyRecord
}

// ImportXLSX reads term and translation from columns A and B of sheet, plus an
// optional correct/attempted fraction in column C. An empty sheet name uses
// the first sheet.
func ImportXLSX(path, sheet string) ([]ImportRow, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		if isNotExist(err) {
			return nil, apperrors.NewNotFoundError(path, err)
		}
		return nil, apperrors.NewReadError(path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			// Best-effort close for read-only workbook.
			_ = cerr
		}
	}()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, apperrors.NewReadError(path, err)
	}
	var out []ImportRow
	for _, row := range rows {
		if len(row) < 2 {
			continue
		}
		pair := model.WordPair{
			Term:        strings.TrimSpace(row[0]),
			Translation: strings.TrimSpace(row[1]),
		}
		if pair.Term == "" {
			continue
		}
		item := ImportRow{Pair: pair}
		if len(row) >= 3 {
			item.Record = ParseFraction(row[2])
		}
		out = append(out, item)
	}
	return out, nil
}

// Merge appends rows whose term is new and returns how many were added.
// Existing pairs keep their translation and record.
func Merge(ds *Dataset, rows []ImportRow) int {
	added := 0
	for _, row := range rows {
		if ds.add(row.Pair, row.Record) {
			added++
		}
	}
	return added
}
