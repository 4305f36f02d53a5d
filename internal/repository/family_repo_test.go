package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"app/internal/model"
)

func TestFamilySheetCreatedLazilyOnRead(t *testing.T) {
	doc := newDoc()
	repo := NewFamilyRepo(doc)

	m, err := repo.GetMembershipByEmail(context.Background(), "ana@x.com")
	require.NoError(t, err)
	assert.Nil(t, m)

	rows := doc.Rows(familySheet)
	require.Len(t, rows, 1)
	assert.Equal(t, "ID Familia", rows[0][0])
}

func TestAddMemberAndLookup(t *testing.T) {
	doc := newDoc()
	repo := NewFamilyRepo(doc)
	ctx := context.Background()

	require.NoError(t, repo.AddMember(ctx, &model.FamilyMember{
		FamilyID: "fam-1", UserEmail: "ana@x.com", BabyName: "Leo", IsOwner: true, Role: model.RoleMadre,
	}))
	require.NoError(t, repo.AddMember(ctx, &model.FamilyMember{
		FamilyID: "fam-1", UserEmail: "juan@x.com", BabyName: "Leo", Role: model.RolePadre,
	}))

	m, err := repo.GetMembershipByEmail(ctx, "juan@x.com")
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, "fam-1", m.FamilyID)
	assert.False(t, m.IsOwner)
	assert.Equal(t, model.RolePadre, m.Role)

	members, err := repo.GetMembersByFamilyID(ctx, "fam-1")
	require.NoError(t, err)
	assert.Len(t, members, 2)
}

func TestUpdateBabyNameTouchesOnlyTheFamily(t *testing.T) {
	doc := newDoc()
	repo := NewFamilyRepo(doc)
	ctx := context.Background()

	require.NoError(t, repo.AddMember(ctx, &model.FamilyMember{FamilyID: "fam-1", UserEmail: "a@x.com", BabyName: "Leo", IsOwner: true}))
	require.NoError(t, repo.AddMember(ctx, &model.FamilyMember{FamilyID: "fam-1", UserEmail: "b@x.com", BabyName: "Leo"}))
	require.NoError(t, repo.AddMember(ctx, &model.FamilyMember{FamilyID: "fam-2", UserEmail: "c@x.com", BabyName: "Mar", IsOwner: true}))

	n, err := repo.UpdateBabyName(ctx, "fam-1", "Nueva")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	other, err := repo.GetMembershipByEmail(ctx, "c@x.com")
	require.NoError(t, err)
	assert.Equal(t, "Mar", other.BabyName)
}

func TestUpdateRole(t *testing.T) {
	doc := newDoc()
	repo := NewFamilyRepo(doc)
	ctx := context.Background()

	require.NoError(t, repo.AddMember(ctx, &model.FamilyMember{FamilyID: "fam-1", UserEmail: "a@x.com", IsOwner: true, Role: model.RoleMadre}))

	require.NoError(t, repo.UpdateRole(ctx, "fam-1", "a@x.com", model.RoleCuidador))
	m, err := repo.GetMembershipByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, model.RoleCuidador, m.Role)

	assert.ErrorIs(t, repo.UpdateRole(ctx, "fam-1", "ghost@x.com", "x"), ErrRowNotFound)
}
