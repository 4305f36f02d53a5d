package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"app/internal/model"
	"app/internal/sheets"
)

// UserRepository is the directory of registered accounts, one row per user in
// the Usuarios sheet.
type UserRepository interface {
	SaveUser(ctx context.Context, u *model.User) error
	// GetUserByEmail returns (nil, nil) when no row matches.
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetAllUsers(ctx context.Context) ([]model.User, error)
	// UpdateUser applies each set field as one targeted cell write.
	UpdateUser(ctx context.Context, email string, upd model.UserUpdate) error
}

type userRepo struct {
	api sheets.RangeAPI
}

func NewUserRepo(api sheets.RangeAPI) UserRepository {
	return &userRepo{api: api}
}

// SaveUser writes the new row immediately after the last non-empty row of
// column A rather than relying on the backend's own append heuristic. The
// sheet is assumed to carry its header in row 1; if the scan finds nothing
// the write still lands in row 2 so the header position stays clear. Not
// safe under concurrent registrations; two writers can compute the same
// target row.
func (r *userRepo) SaveUser(ctx context.Context, u *model.User) error {
	rows, err := r.api.GetRange(ctx, userSheet+"!A:A")
	if err != nil {
		return fmt.Errorf("scanning user sheet: %w", err)
	}
	last := 1
	for i, row := range rows {
		if cellString(row, 0) != "" {
			last = i + 1
		}
	}
	if u.RegistrationDate == "" {
		u.RegistrationDate = time.Now().Format(time.RFC3339)
	}
	target := last + 1
	return r.api.UpdateRange(ctx, rowRange(userSheet, "H", target), [][]interface{}{encodeUserRow(u)})
}

func (r *userRepo) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	rows, err := r.api.GetRange(ctx, userRange)
	if err != nil {
		return nil, fmt.Errorf("reading user sheet: %w", err)
	}
	if _, row := findUserRow(rows, email); row != nil {
		return decodeUserRow(row), nil
	}
	return nil, nil
}

func (r *userRepo) GetAllUsers(ctx context.Context) ([]model.User, error) {
	rows, err := r.api.GetRange(ctx, userRange)
	if err != nil {
		return nil, fmt.Errorf("reading user sheet: %w", err)
	}
	users := []model.User{}
	for i, row := range rows {
		if i == 0 || cellString(row, 1) == "" {
			continue
		}
		users = append(users, *decodeUserRow(row))
	}
	return users, nil
}

// UpdateUser issues one cell write per set field. A failure partway leaves
// the row partially updated.
func (r *userRepo) UpdateUser(ctx context.Context, email string, upd model.UserUpdate) error {
	rows, err := r.api.GetRange(ctx, userRange)
	if err != nil {
		return fmt.Errorf("reading user sheet: %w", err)
	}
	idx, _ := findUserRow(rows, email)
	if idx < 0 {
		return ErrRowNotFound
	}
	sheetRow := idx + 1

	cells := []struct {
		col string
		val *string
	}{
		{"C", upd.Name},
		{"D", upd.ImageURL},
		{"F", upd.Country},
		{"G", upd.PasswordHash},
	}
	for _, c := range cells {
		if c.val == nil {
			continue
		}
		if err := r.api.UpdateRange(ctx, cellRef(userSheet, c.col, sheetRow), [][]interface{}{{*c.val}}); err != nil {
			return fmt.Errorf("updating user %s: %w", email, err)
		}
	}
	flags := []struct {
		col string
		val *bool
	}{
		{"E", upd.IsPremium},
		{"H", upd.IsAdmin},
	}
	for _, c := range flags {
		if c.val == nil {
			continue
		}
		if err := r.api.UpdateRange(ctx, cellRef(userSheet, c.col, sheetRow), [][]interface{}{{encodeSheetBool(*c.val)}}); err != nil {
			return fmt.Errorf("updating user %s: %w", email, err)
		}
	}
	return nil
}

// findUserRow returns the 0-based index of the first row after the header
// whose email column matches, or -1.
func findUserRow(rows [][]interface{}, email string) (int, []interface{}) {
	for i, row := range rows {
		if i == 0 {
			continue
		}
		if strings.EqualFold(cellString(row, 1), email) {
			return i, row
		}
	}
	return -1, nil
}

func encodeUserRow(u *model.User) []interface{} {
	return []interface{}{
		u.RegistrationDate,
		u.Email,
		u.Name,
		u.ImageURL,
		encodeSheetBool(u.IsPremium),
		u.Country,
		u.PasswordHash,
		encodeSheetBool(u.IsAdmin),
	}
}

func decodeUserRow(row []interface{}) *model.User {
	return &model.User{
		RegistrationDate: cellString(row, 0),
		Email:            cellString(row, 1),
		Name:             cellString(row, 2),
		ImageURL:         cellString(row, 3),
		IsPremium:        cellBool(row, 4),
		Country:          cellString(row, 5),
		PasswordHash:     cellString(row, 6),
		IsAdmin:          cellBool(row, 7),
	}
}
