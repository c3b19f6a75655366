package dataprocessing

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "aetdeficit/internal/errors"
	"aetdeficit/pkg/contracts/domain"
)

// Column names every input table must carry.
const (
	ColumnVegType = "VegType"
	ColumnSource  = "Source"
)

// ErrUnsupportedFormat is returned for inputs that are neither .xlsx nor .csv.
var ErrUnsupportedFormat = errors.New("unsupported input format")

// missingMarkers are cell values read as a missing number.
var missingMarkers = map[string]bool{
	"":     true,
	"na":   true,
	"n/a":  true,
	"nan":  true,
	"null": true,
	"#n/a": true,
}

// LoadPoints reads the monitoring-location table at path. The format is
// chosen by extension: .xlsx is read from the first worksheet, .csv as
// comma-separated text. In both the first row is the header.
//
// numeric lists the columns that must be present and hold numbers; other
// numeric columns are kept when every cell parses.
func LoadPoints(path string, numeric []string) (*domain.PointTable, error) {
	ext := strings.ToLower(filepath.Ext(path))

	var (
		rows [][]string
		err  error
	)
	switch ext {
	case ".xlsx":
		rows, err = readXLSX(path)
	case ".csv":
		rows, err = readCSV(path)
	default:
		return nil, apperrors.NewParsingError(fmt.Sprintf("load %s", path), ErrUnsupportedFormat).
			WithContext("extension", ext)
	}
	if err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("load %s", path), err)
	}

	table, err := buildTable(rows, numeric)
	if err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("load %s", path), err)
	}

	slog.Debug("Loaded point table",
		slog.String("path", path),
		slog.String("format", ext),
		slog.Int("rows", table.Len()),
		slog.Int("columns", len(table.Columns)))
	return table, nil
}

// readXLSX returns the raw cell values of the first worksheet.
func readXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

// readCSV returns every record of a comma-separated file. Rows may have
// fewer fields than the header.
func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open CSV file: %w", err)
	}
	defer file.Close()

	return parseCSV(file)
}

func parseCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(bufio.NewReader(r))
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read CSV: %w", err)
	}
	if len(rows) > 0 && len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], "\ufeff")
	}
	return rows, nil
}

// buildTable maps raw rows onto points.
func buildTable(rows [][]string, numeric []string) (*domain.PointTable, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("input has no header row")
	}

	header := make([]string, len(rows[0]))
	columnMap := make(map[string]int, len(header))
	for i, name := range rows[0] {
		header[i] = strings.TrimSpace(name)
		if _, dup := columnMap[header[i]]; !dup {
			columnMap[header[i]] = i
		}
	}

	required := append([]string{ColumnVegType, ColumnSource}, numeric...)
	for _, name := range required {
		if _, ok := columnMap[name]; !ok {
			return nil, fmt.Errorf("missing required column %q", name)
		}
	}

	requiredNumeric := make(map[string]bool, len(numeric))
	for _, name := range numeric {
		requiredNumeric[name] = true
	}

	// Optional columns are kept only when the whole column is numeric.
	optional := make(map[string]bool)
	for name := range columnMap {
		if name != ColumnVegType && name != ColumnSource && !requiredNumeric[name] && name != "" {
			optional[name] = true
		}
	}

	table := &domain.PointTable{Columns: header}
	for r, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		lineNo := r + 2

		p := domain.Point{
			VegType: cell(row, columnMap[ColumnVegType]),
			Source:  cell(row, columnMap[ColumnSource]),
			Values:  make(map[string]float64, len(numeric)),
		}

		for _, name := range numeric {
			raw := cell(row, columnMap[name])
			v, err := parseNumber(raw)
			if err != nil {
				return nil, fmt.Errorf("row %d column %q: invalid number %q", lineNo, name, raw)
			}
			p.Values[name] = v
		}

		for name := range optional {
			v, err := parseNumber(cell(row, columnMap[name]))
			if err != nil {
				delete(optional, name)
				continue
			}
			p.Values[name] = v
		}

		table.Points = append(table.Points, p)
	}

	// Drop values of optional columns that turned out not to be numeric.
	for i := range table.Points {
		for name := range table.Points[i].Values {
			if !requiredNumeric[name] && !optional[name] {
				delete(table.Points[i].Values, name)
			}
		}
	}

	return table, nil
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// parseNumber parses a numeric cell; missing markers yield NaN.
func parseNumber(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if missingMarkers[strings.ToLower(s)] {
		return math.NaN(), nil
	}
	return strconv.ParseFloat(s, 64)
}
