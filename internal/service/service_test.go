package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"app/internal/model"
	"app/internal/repository"
	"app/internal/sheets/sheetstest"
)

// testEnv wires real repositories over an in-memory document.
type testEnv struct {
	doc          *sheetstest.Fake
	userRepo     repository.UserRepository
	activityRepo repository.ActivityRepository
	familyRepo   repository.FamilyRepository

	users     UserService
	activity  ActivityService
	family    FamilyService
	community CommunityService
}

func newTestEnv(t *testing.T, monthlyLimit, dailyLimit int) *testEnv {
	t.Helper()
	doc := sheetstest.New()
	// Every sheet is pre-seeded with its header row so the tests exercise
	// the data paths rather than lazy creation (covered in the repository
	// tests).
	doc.Seed("Usuarios", [][]interface{}{{"Fecha de Registro", "Email", "Nombre", "Imagen", "Premium", "País", "Contraseña", "Admin"}})
	doc.Seed("Actividades", [][]interface{}{{"Fecha", "Email", "Bebé", "Tipo", "Detalles"}})
	doc.Seed("Familias", [][]interface{}{{"ID Familia", "Email", "Nombre del Bebé", "Es Propietario", "Rol"}})
	doc.Seed("Foros", [][]interface{}{{"ID", "Nombre", "Descripción", "Icono", "Categoría"}})
	doc.Seed("Posts", [][]interface{}{{"ID", "ID Foro", "Email", "Título", "Contenido", "Fecha", "Likes"}})
	doc.Seed("Comentarios", [][]interface{}{{"ID", "ID Post", "Email", "Contenido", "Fecha"}})

	log := zerolog.Nop()
	userRepo := repository.NewUserRepo(doc)
	activityRepo := repository.NewActivityRepo(doc, log)
	familyRepo := repository.NewFamilyRepo(doc)
	communityRepo := repository.NewCommunityRepo(doc)

	return &testEnv{
		doc:          doc,
		userRepo:     userRepo,
		activityRepo: activityRepo,
		familyRepo:   familyRepo,
		users:        NewUserService(userRepo, log),
		activity:     NewActivityService(activityRepo, familyRepo, userRepo, monthlyLimit, log),
		family:       NewFamilyService(familyRepo, activityRepo, userRepo, log),
		community:    NewCommunityService(communityRepo, userRepo, dailyLimit, log),
	}
}

func (e *testEnv) register(t *testing.T, email, name string) *model.User {
	t.Helper()
	u, err := e.users.Register(context.Background(), &model.User{Email: email, Name: name}, "contraseña1")
	require.NoError(t, err)
	return u
}
