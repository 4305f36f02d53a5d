package repository

import (
	"context"
	"fmt"
	"strings"

	"app/internal/model"
	"app/internal/sheets"
)

var familyHeaders = []interface{}{"ID Familia", "Email", "Nombre del Bebé", "Es Propietario", "Rol"}

// FamilyRepository stores family memberships in the Familias sheet, one row
// per (family, member) pair. The sheet is created lazily on first use.
type FamilyRepository interface {
	// GetMembershipByEmail returns (nil, nil) when the user has no family.
	GetMembershipByEmail(ctx context.Context, email string) (*model.FamilyMember, error)
	GetMembersByFamilyID(ctx context.Context, familyID string) ([]model.FamilyMember, error)
	AddMember(ctx context.Context, m *model.FamilyMember) error
	// UpdateBabyName rewrites the baby-name cell on every membership row of
	// the family. Returns the number of rows written before any failure.
	UpdateBabyName(ctx context.Context, familyID, babyName string) (int, error)
	UpdateRole(ctx context.Context, familyID, email, role string) error
}

type familyRepo struct {
	api sheets.RangeAPI
}

func NewFamilyRepo(api sheets.RangeAPI) FamilyRepository {
	return &familyRepo{api: api}
}

func (r *familyRepo) GetMembershipByEmail(ctx context.Context, email string) (*model.FamilyMember, error) {
	rows, err := fetchOrCreate(ctx, r.api, familySheet, familyRange, familyHeaders)
	if err != nil {
		return nil, fmt.Errorf("reading family sheet: %w", err)
	}
	for i, row := range rows {
		if i == 0 {
			continue
		}
		if strings.EqualFold(cellString(row, 1), email) {
			return decodeFamilyRow(row), nil
		}
	}
	return nil, nil
}

func (r *familyRepo) GetMembersByFamilyID(ctx context.Context, familyID string) ([]model.FamilyMember, error) {
	rows, err := fetchOrCreate(ctx, r.api, familySheet, familyRange, familyHeaders)
	if err != nil {
		return nil, fmt.Errorf("reading family sheet: %w", err)
	}
	members := []model.FamilyMember{}
	for i, row := range rows {
		if i == 0 {
			continue
		}
		if cellString(row, 0) == familyID {
			members = append(members, *decodeFamilyRow(row))
		}
	}
	return members, nil
}

func (r *familyRepo) AddMember(ctx context.Context, m *model.FamilyMember) error {
	if err := ensureSheet(ctx, r.api, familySheet, familyHeaders); err != nil {
		return fmt.Errorf("initializing family sheet: %w", err)
	}
	return r.api.AppendRange(ctx, familyRange, [][]interface{}{encodeFamilyRow(m)})
}

func (r *familyRepo) UpdateBabyName(ctx context.Context, familyID, babyName string) (int, error) {
	rows, err := fetchOrCreate(ctx, r.api, familySheet, familyRange, familyHeaders)
	if err != nil {
		return 0, fmt.Errorf("reading family sheet: %w", err)
	}
	written := 0
	for i, row := range rows {
		if i == 0 || cellString(row, 0) != familyID {
			continue
		}
		if err := r.api.UpdateRange(ctx, cellRef(familySheet, "C", i+1), [][]interface{}{{babyName}}); err != nil {
			return written, fmt.Errorf("renaming family row %d: %w", i+1, err)
		}
		written++
	}
	return written, nil
}

func (r *familyRepo) UpdateRole(ctx context.Context, familyID, email, role string) error {
	rows, err := fetchOrCreate(ctx, r.api, familySheet, familyRange, familyHeaders)
	if err != nil {
		return fmt.Errorf("reading family sheet: %w", err)
	}
	for i, row := range rows {
		if i == 0 {
			continue
		}
		if cellString(row, 0) == familyID && strings.EqualFold(cellString(row, 1), email) {
			return r.api.UpdateRange(ctx, cellRef(familySheet, "E", i+1), [][]interface{}{{role}})
		}
	}
	return ErrRowNotFound
}

func encodeFamilyRow(m *model.FamilyMember) []interface{} {
	return []interface{}{m.FamilyID, m.UserEmail, m.BabyName, encodeSheetBool(m.IsOwner), m.Role}
}

func decodeFamilyRow(row []interface{}) *model.FamilyMember {
	return &model.FamilyMember{
		FamilyID:  cellString(row, 0),
		UserEmail: cellString(row, 1),
		BabyName:  cellString(row, 2),
		IsOwner:   cellBool(row, 3),
		Role:      cellString(row, 4),
	}
}
