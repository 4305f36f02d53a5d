package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"app/internal/model"
	"app/internal/sheets"
)

// ActivityRepository is the append-only event log in the Actividades sheet.
// Rows have no id column; update and delete resolve the target row by the
// (userEmail, timestamp) pair on every call. Two events logged at the exact
// same instant are indistinguishable; the first match wins.
type ActivityRepository interface {
	SaveActivity(ctx context.Context, a *model.Activity) error
	// GetActivitiesByEmails returns every activity belonging to any of the
	// given emails, in sheet order.
	GetActivitiesByEmails(ctx context.Context, emails []string) ([]model.Activity, error)
	UpdateActivity(ctx context.Context, email, originalTimestamp string, a *model.Activity) error
	DeleteActivity(ctx context.Context, email, timestamp string) error
	// UpdateBabyNameByEmails rewrites the baby-name cell of every activity
	// row owned by the given emails, one write per row. Returns the number
	// of rows written before any failure.
	UpdateBabyNameByEmails(ctx context.Context, emails []string, babyName string) (int, error)
}

type activityRepo struct {
	api    sheets.RangeAPI
	logger zerolog.Logger
}

func NewActivityRepo(api sheets.RangeAPI, logger zerolog.Logger) ActivityRepository {
	return &activityRepo{api: api, logger: logger.With().Str("repository", "ActivityRepository").Logger()}
}

func (r *activityRepo) SaveActivity(ctx context.Context, a *model.Activity) error {
	return r.api.AppendRange(ctx, activityRange, [][]interface{}{encodeActivityRow(a)})
}

func (r *activityRepo) GetActivitiesByEmails(ctx context.Context, emails []string) ([]model.Activity, error) {
	rows, err := r.api.GetRange(ctx, activityRange)
	if err != nil {
		return nil, fmt.Errorf("reading activity sheet: %w", err)
	}
	set := emailSet(emails)
	activities := []model.Activity{}
	for i, row := range rows {
		if i == 0 {
			continue
		}
		if _, ok := set[strings.ToLower(cellString(row, 1))]; !ok {
			continue
		}
		activities = append(activities, *r.decodeActivityRow(row))
	}
	return activities, nil
}

// UpdateActivity rewrites all five columns of the matched row.
func (r *activityRepo) UpdateActivity(ctx context.Context, email, originalTimestamp string, a *model.Activity) error {
	rows, err := r.api.GetRange(ctx, activityRange)
	if err != nil {
		return fmt.Errorf("reading activity sheet: %w", err)
	}
	idx := findActivityRow(rows, email, originalTimestamp)
	if idx < 0 {
		return ErrRowNotFound
	}
	return r.api.UpdateRange(ctx, rowRange(activitySheet, "E", idx+1), [][]interface{}{encodeActivityRow(a)})
}

// DeleteActivity removes the matched row with a row-dimension delete. The
// sheet id is looked up by name on every call.
func (r *activityRepo) DeleteActivity(ctx context.Context, email, timestamp string) error {
	rows, err := r.api.GetRange(ctx, activityRange)
	if err != nil {
		return fmt.Errorf("reading activity sheet: %w", err)
	}
	idx := findActivityRow(rows, email, timestamp)
	if idx < 0 {
		return ErrRowNotFound
	}
	sheetID, ok, err := r.api.SheetID(ctx, activitySheet)
	if err != nil {
		return fmt.Errorf("resolving activity sheet id: %w", err)
	}
	if !ok {
		return fmt.Errorf("sheet %s not found", activitySheet)
	}
	return r.api.DeleteRow(ctx, sheetID, int64(idx))
}

func (r *activityRepo) UpdateBabyNameByEmails(ctx context.Context, emails []string, babyName string) (int, error) {
	rows, err := r.api.GetRange(ctx, activityRange)
	if err != nil {
		return 0, fmt.Errorf("reading activity sheet: %w", err)
	}
	set := emailSet(emails)
	written := 0
	for i, row := range rows {
		if i == 0 {
			continue
		}
		if _, ok := set[strings.ToLower(cellString(row, 1))]; !ok {
			continue
		}
		if err := r.api.UpdateRange(ctx, cellRef(activitySheet, "C", i+1), [][]interface{}{{babyName}}); err != nil {
			return written, fmt.Errorf("renaming activity row %d: %w", i+1, err)
		}
		written++
	}
	return written, nil
}

// findActivityRow returns the 0-based index of the first data row matching
// the (email, timestamp) pair, or -1.
func findActivityRow(rows [][]interface{}, email, timestamp string) int {
	for i, row := range rows {
		if i == 0 {
			continue
		}
		if strings.EqualFold(cellString(row, 1), email) && cellString(row, 0) == timestamp {
			return i
		}
	}
	return -1
}

func emailSet(emails []string) map[string]struct{} {
	set := make(map[string]struct{}, len(emails))
	for _, e := range emails {
		set[strings.ToLower(e)] = struct{}{}
	}
	return set
}

func encodeActivityRow(a *model.Activity) []interface{} {
	details := "{}"
	if a.Details != nil {
		if b, err := json.Marshal(a.Details); err == nil {
			details = string(b)
		}
	}
	return []interface{}{a.Timestamp, a.UserEmail, a.BabyName, a.Type, details}
}

func (r *activityRepo) decodeActivityRow(row []interface{}) *model.Activity {
	a := &model.Activity{
		Timestamp: cellString(row, 0),
		UserEmail: cellString(row, 1),
		BabyName:  cellString(row, 2),
		Type:      cellString(row, 3),
		Details:   map[string]interface{}{},
	}
	raw := cellString(row, 4)
	if raw == "" {
		return a
	}
	if err := json.Unmarshal([]byte(raw), &a.Details); err != nil {
		r.logger.Warn().Str("timestamp", a.Timestamp).Msg("Malformed details blob, using empty object")
		a.Details = map[string]interface{}{}
	}
	return a
}
