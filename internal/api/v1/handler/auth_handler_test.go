package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"app/internal/api/v1/dto"
	"app/internal/repository"
	"app/internal/service"
	"app/internal/sheets/sheetstest"
	"app/internal/util"
)

func newAuthServer(t *testing.T) *httptest.Server {
	t.Helper()
	doc := sheetstest.New()
	doc.Seed("Usuarios", [][]interface{}{{"Fecha de Registro", "Email", "Nombre", "Imagen", "Premium", "País", "Contraseña", "Admin"}})

	log := zerolog.Nop()
	users := service.NewUserService(repository.NewUserRepo(doc), log)
	h := NewAuthHandler(users, validator.New(validator.WithRequiredStructEnabled()), "test-secret", log)

	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestRegisterThenLogin(t *testing.T) {
	srv := newAuthServer(t)

	body := `{"email":"ana@x.com","name":"Ana","password":"contraseña1"}`
	resp, err := http.Post(srv.URL+"/auth/register", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var reg dto.AuthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&reg))
	assert.Equal(t, "ana@x.com", reg.User.Email)

	claims, err := util.ValidateJWT(reg.Token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, "ana@x.com", claims.Subject)

	login, err := http.Post(srv.URL+"/auth/login", "application/json",
		strings.NewReader(`{"email":"ana@x.com","password":"contraseña1"}`))
	require.NoError(t, err)
	defer login.Body.Close()
	assert.Equal(t, http.StatusOK, login.StatusCode)
}

func TestLoginBadCredentials(t *testing.T) {
	srv := newAuthServer(t)

	resp, err := http.Post(srv.URL+"/auth/login", "application/json",
		strings.NewReader(`{"email":"nadie@x.com","password":"incorrecta"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	srv := newAuthServer(t)

	resp, err := http.Post(srv.URL+"/auth/register", "application/json",
		strings.NewReader(`{"email":"ana@x.com","name":"Ana","password":"corta"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
