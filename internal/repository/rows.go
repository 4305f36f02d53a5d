package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"app/internal/sheets"
)

// ErrRowNotFound is returned when a scan finds no row matching the lookup key.
var ErrRowNotFound = errors.New("row not found")

// Sheet names and the column contracts of each range. Columns are positional:
// the encode/decode pairs below are the only places allowed to index into a
// row by offset.
const (
	userSheet     = "Usuarios"
	userRange     = "Usuarios!A:H"
	activitySheet = "Actividades"
	activityRange = "Actividades!A:E"
	familySheet   = "Familias"
	familyRange   = "Familias!A:E"
	forumSheet    = "Foros"
	forumRange    = "Foros!A:E"
	postSheet     = "Posts"
	postRange     = "Posts!A:G"
	commentSheet  = "Comentarios"
	commentRange  = "Comentarios!A:E"
)

// sheetCreateDelay gives the backend a moment to make a freshly added sheet
// addressable before the header write. Overridden to zero in tests.
var sheetCreateDelay = 500 * time.Millisecond

// ensureSheet creates the named sheet with a header row if it does not exist.
// Safe to call on every request; the existence check is one metadata read.
func ensureSheet(ctx context.Context, api sheets.RangeAPI, title string, headers []interface{}) error {
	_, exists, err := api.SheetID(ctx, title)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	if err := api.AddSheet(ctx, title); err != nil {
		// A concurrent first-time caller may have won the race.
		if _, ok, err2 := api.SheetID(ctx, title); err2 == nil && ok {
			return nil
		}
		return err
	}
	time.Sleep(sheetCreateDelay)
	hdr := [][]interface{}{headers}
	if err := api.UpdateRange(ctx, title+"!A1", hdr); err != nil {
		// The range is sometimes not addressable right away; retry once
		// with a plain value update.
		time.Sleep(sheetCreateDelay)
		return api.UpdateRange(ctx, title+"!A1", hdr)
	}
	return nil
}

// fetchOrCreate reads a range, lazily creating the sheet when the fetch fails
// because it does not exist yet. A newly created sheet yields only its header.
func fetchOrCreate(ctx context.Context, api sheets.RangeAPI, title, rangeA1 string, headers []interface{}) ([][]interface{}, error) {
	rows, err := api.GetRange(ctx, rangeA1)
	if err == nil {
		return rows, nil
	}
	if err := ensureSheet(ctx, api, title, headers); err != nil {
		return nil, err
	}
	return api.GetRange(ctx, rangeA1)
}

// parseSheetBool decodes the boolean representations the backend is known to
// return: native bools, the number 1, and the strings "true"/"1"/"verdadero"
// in any casing. Everything else is false.
func parseSheetBool(v interface{}) bool {
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t == 1
	case int:
		return t == 1
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "1", "verdadero":
			return true
		}
	}
	return false
}

func encodeSheetBool(b bool) string {
	if b {
		return "TRUE"
	}
	return "FALSE"
}

func cellString(row []interface{}, i int) string {
	if i >= len(row) || row[i] == nil {
		return ""
	}
	if s, ok := row[i].(string); ok {
		return s
	}
	return fmt.Sprint(row[i])
}

func cellBool(row []interface{}, i int) bool {
	if i >= len(row) {
		return false
	}
	return parseSheetBool(row[i])
}

func cellInt(row []interface{}, i int) int {
	if i >= len(row) || row[i] == nil {
		return 0
	}
	switch t := row[i].(type) {
	case float64:
		return int(t)
	case int:
		return t
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return 0
		}
		return n
	}
	return 0
}

// rowRange builds the A1 reference for one full data row, e.g. "Usuarios!A5:H5".
func rowRange(sheet, lastCol string, sheetRow int) string {
	return fmt.Sprintf("%s!A%d:%s%d", sheet, sheetRow, lastCol, sheetRow)
}

func cellRef(sheet, col string, sheetRow int) string {
	return fmt.Sprintf("%s!%s%d", sheet, col, sheetRow)
}
