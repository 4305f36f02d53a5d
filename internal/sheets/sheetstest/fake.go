// Package sheetstest provides an in-memory sheets.RangeAPI for tests.
package sheetstest

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"app/internal/sheets"
)

// Fake is an in-memory spreadsheet document. It understands the A1 subset the
// repositories actually use: whole-column ranges ("Hoja!A:E"), single cells
// ("Hoja!C5") and bounded row ranges ("Hoja!A5:E5").
type Fake struct {
	mu     sync.Mutex
	sheets map[string]*fakeSheet
	nextID int64

	// Optional failure hooks, called with the A1 range before the
	// operation is applied.
	GetRangeErr    func(rangeA1 string) error
	UpdateRangeErr func(rangeA1 string) error
	AppendRangeErr func(rangeA1 string) error
}

type fakeSheet struct {
	id   int64
	rows [][]interface{}
}

var _ sheets.RangeAPI = (*Fake)(nil)

// New returns an empty document.
func New() *Fake {
	return &Fake{sheets: map[string]*fakeSheet{}, nextID: 1}
}

// Seed creates a sheet with the given rows, replacing any existing content.
func (f *Fake) Seed(title string, rows [][]interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := f.ensure(title)
	s.rows = rows
}

// Rows returns the current contents of a sheet, nil if it does not exist.
func (f *Fake) Rows(title string) [][]interface{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sheets[title]
	if !ok {
		return nil
	}
	out := make([][]interface{}, len(s.rows))
	copy(out, s.rows)
	return out
}

func (f *Fake) ensure(title string) *fakeSheet {
	s, ok := f.sheets[title]
	if !ok {
		s = &fakeSheet{id: f.nextID}
		f.nextID++
		f.sheets[title] = s
	}
	return s
}

func (f *Fake) GetRange(_ context.Context, rangeA1 string) ([][]interface{}, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.GetRangeErr != nil {
		if err := f.GetRangeErr(rangeA1); err != nil {
			return nil, err
		}
	}
	title, ref, err := splitRange(rangeA1)
	if err != nil {
		return nil, err
	}
	s, ok := f.sheets[title]
	if !ok {
		return nil, fmt.Errorf("unable to parse range: %s", rangeA1)
	}
	start, end, cols, err := parseRef(ref)
	if err != nil {
		return nil, err
	}
	if cols {
		out := make([][]interface{}, len(s.rows))
		copy(out, s.rows)
		return out, nil
	}
	var out [][]interface{}
	for r := start; r <= end && r <= len(s.rows); r++ {
		out = append(out, s.rows[r-1])
	}
	return out, nil
}

func (f *Fake) UpdateRange(_ context.Context, rangeA1 string, values [][]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.UpdateRangeErr != nil {
		if err := f.UpdateRangeErr(rangeA1); err != nil {
			return err
		}
	}
	title, ref, err := splitRange(rangeA1)
	if err != nil {
		return err
	}
	s, ok := f.sheets[title]
	if !ok {
		return fmt.Errorf("unable to parse range: %s", rangeA1)
	}
	row, col, err := startCell(ref)
	if err != nil {
		return err
	}
	for i, vals := range values {
		r := row - 1 + i
		for len(s.rows) <= r {
			s.rows = append(s.rows, []interface{}{})
		}
		for j, v := range vals {
			c := col - 1 + j
			for len(s.rows[r]) <= c {
				s.rows[r] = append(s.rows[r], "")
			}
			s.rows[r][c] = v
		}
	}
	return nil
}

func (f *Fake) AppendRange(_ context.Context, rangeA1 string, values [][]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.AppendRangeErr != nil {
		if err := f.AppendRangeErr(rangeA1); err != nil {
			return err
		}
	}
	title, _, err := splitRange(rangeA1)
	if err != nil {
		return err
	}
	s, ok := f.sheets[title]
	if !ok {
		return fmt.Errorf("unable to parse range: %s", rangeA1)
	}
	s.rows = append(s.rows, values...)
	return nil
}

func (f *Fake) SheetID(_ context.Context, title string) (int64, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sheets[title]
	if !ok {
		return 0, false, nil
	}
	return s.id, true, nil
}

func (f *Fake) AddSheet(_ context.Context, title string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.sheets[title]; ok {
		return fmt.Errorf("a sheet with the name %q already exists", title)
	}
	f.ensure(title)
	return nil
}

func (f *Fake) DeleteRow(_ context.Context, sheetID int64, rowIndex int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.sheets {
		if s.id != sheetID {
			continue
		}
		i := int(rowIndex)
		if i < 0 || i >= len(s.rows) {
			return fmt.Errorf("row index %d out of range", i)
		}
		s.rows = append(s.rows[:i], s.rows[i+1:]...)
		return nil
	}
	return fmt.Errorf("no sheet with id %d", sheetID)
}

func splitRange(rangeA1 string) (title, ref string, err error) {
	parts := strings.SplitN(rangeA1, "!", 2)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("unable to parse range: %s", rangeA1)
	}
	return parts[0], parts[1], nil
}

// parseRef interprets a range reference. cols reports a whole-column range.
func parseRef(ref string) (startRow, endRow int, cols bool, err error) {
	parts := strings.SplitN(ref, ":", 2)
	r1, _, hasRow1, err := parseCell(parts[0])
	if err != nil {
		return 0, 0, false, err
	}
	if !hasRow1 {
		return 0, 0, true, nil
	}
	if len(parts) == 1 {
		return r1, r1, false, nil
	}
	r2, _, hasRow2, err := parseCell(parts[1])
	if err != nil {
		return 0, 0, false, err
	}
	if !hasRow2 {
		r2 = 1 << 20
	}
	return r1, r2, false, nil
}

func startCell(ref string) (row, col int, err error) {
	first := strings.SplitN(ref, ":", 2)[0]
	r, c, hasRow, err := parseCell(first)
	if err != nil {
		return 0, 0, err
	}
	if !hasRow {
		r = 1
	}
	return r, c, nil
}

func parseCell(cell string) (row, col int, hasRow bool, err error) {
	i := 0
	for i < len(cell) && cell[i] >= 'A' && cell[i] <= 'Z' {
		col = col*26 + int(cell[i]-'A') + 1
		i++
	}
	if col == 0 {
		return 0, 0, false, fmt.Errorf("bad cell reference %q", cell)
	}
	if i == len(cell) {
		return 0, col, false, nil
	}
	for ; i < len(cell); i++ {
		if cell[i] < '0' || cell[i] > '9' {
			return 0, 0, false, fmt.Errorf("bad cell reference %q", cell)
		}
		row = row*10 + int(cell[i]-'0')
	}
	return row, col, true, nil
}
