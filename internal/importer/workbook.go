package importer

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/euRhuanOLiveira/Driverpro/internal/domain"
	"github.com/extrame/xls"
	"github.com/spf13/cast"
	"github.com/xuri/excelize/v2"
)

// Row maps a header to a non-empty cell value. Values are string, float64,
// bool or time.Time.
type Row map[string]any

type Sheet struct {
	Name string
	Rows []Row
}

// Workbook keeps the sheets in file order.
type Workbook struct {
	Sheets []Sheet
}

// Sheet returns the sheet with exactly this name.
func (wb *Workbook) Sheet(name string) (*Sheet, bool) {
	if wb == nil {
		return nil, false
	}
	for i := range wb.Sheets {
		if wb.Sheets[i].Name == name {
			return &wb.Sheets[i], true
		}
	}
	return nil, false
}

// ReadWorkbook picks the decoder from the file extension. Anything that is
// not .xls is tried as .xlsx.
func ReadWorkbook(r io.Reader, filename string) (*Workbook, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if len(data) == 0 {
		return nil, domain.ErrUnsupportedFile
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xls":
		return readXLS(data)
	case ".xlsx", ".xlsm", "":
		return readXLSX(data)
	default:
		return nil, domain.ErrUnsupportedFile
	}
}

// maxSheetRows bounds the data rows read from one sheet.
var maxSheetRows = 50_000

func readXLSX(data []byte) (*Workbook, error) {
	file, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnsupportedFile, err)
	}
	defer func() { _ = file.Close() }()

	wb := &Workbook{}
	for _, name := range file.GetSheetList() {
		raw, err := file.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", name, err)
		}
		if len(raw)-1 > maxSheetRows {
			return nil, fmt.Errorf("%w: sheet %q has %d rows", domain.ErrSheetTooLarge, name, len(raw)-1)
		}

		typer := newColumnTyper(file, name)
		grid := make([][]any, len(raw))
		for i, cols := range raw {
			grid[i] = make([]any, len(cols))
			for j, value := range cols {
				grid[i][j] = typer.cell(i, j, value)
			}
		}
		wb.Sheets = append(wb.Sheets, SheetFromGrid(name, grid))
	}
	return wb, nil
}

// columnTyper decides whether a raw xlsx value that reads as a number is one.
// Headers stay text. The stored type of the first numeric-looking data cell
// of a column is reused for the rest of that column.
type columnTyper struct {
	file  *excelize.File
	sheet string
	types map[int]excelize.CellType
}

func newColumnTyper(file *excelize.File, sheet string) *columnTyper {
	return &columnTyper{file: file, sheet: sheet, types: map[int]excelize.CellType{}}
}

func (c *columnTyper) cell(row, col int, value string) any {
	if value == "" {
		return ""
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || row == 0 {
		return value
	}

	switch c.typeOf(row, col) {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeError:
		return value
	case excelize.CellTypeBool:
		return f != 0
	default:
		return f
	}
}

func (c *columnTyper) typeOf(row, col int) excelize.CellType {
	if typ, ok := c.types[col]; ok {
		return typ
	}
	typ := excelize.CellTypeUnset
	if ref, err := excelize.CoordinatesToCellName(col+1, row+1); err == nil {
		if got, err := c.file.GetCellType(c.sheet, ref); err == nil {
			typ = got
		}
	}
	c.types[col] = typ
	return typ
}

func readXLS(data []byte) (*Workbook, error) {
	book, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnsupportedFile, err)
	}

	wb := &Workbook{}
	for i := 0; i < book.NumSheets(); i++ {
		ws := book.GetSheet(i)
		if ws == nil {
			continue
		}

		if int(ws.MaxRow) > maxSheetRows {
			return nil, fmt.Errorf("%w: sheet %q has %d rows", domain.ErrSheetTooLarge, ws.Name, ws.MaxRow)
		}

		grid := make([][]any, 0, int(ws.MaxRow)+1)
		for r := 0; r <= int(ws.MaxRow); r++ {
			row := ws.Row(r)
			if row == nil {
				grid = append(grid, nil)
				continue
			}
			cells := make([]any, row.LastCol()+1)
			for c := row.FirstCol(); c <= row.LastCol(); c++ {
				cells[c] = xlsCell(row.Col(c))
			}
			grid = append(grid, cells)
		}
		wb.Sheets = append(wb.Sheets, SheetFromGrid(ws.Name, grid))
	}
	return wb, nil
}

// The xls decoder only yields text. Values that look like the decoder's own
// float rendering are turned back into numbers so date serials and fares
// behave as they do for .xlsx.
func xlsCell(value string) any {
	if value == "" || strings.ContainsAny(value, " ,R$") {
		return value
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return value
	}
	if strconv.FormatFloat(f, 'f', -1, 64) != value {
		return value
	}
	return f
}

// SheetFromGrid keys every row after the first by the first row's headers.
// Empty headers and empty cells are dropped, blank rows are skipped and a
// repeated header keeps its first column.
func SheetFromGrid(name string, grid [][]any) Sheet {
	sheet := Sheet{Name: name, Rows: []Row{}}
	if len(grid) == 0 {
		return sheet
	}

	headers := make([]string, len(grid[0]))
	seen := make(map[string]bool, len(grid[0]))
	for i, h := range grid[0] {
		key := cast.ToString(h)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		headers[i] = key
	}

	for _, cells := range grid[1:] {
		row := Row{}
		for i, v := range cells {
			if i >= len(headers) || headers[i] == "" || isBlank(v) {
				continue
			}
			row[headers[i]] = v
		}
		if len(row) > 0 {
			sheet.Rows = append(sheet.Rows, row)
		}
	}
	return sheet
}

func isBlank(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	}
	return false
}
