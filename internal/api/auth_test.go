package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"huertohogar_api/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestRegisterCreatesUserAndToken(t *testing.T) {
	r, mock, _ := newTestRouter(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `usuarios`").
		WillReturnRows(countRows().AddRow(0))
	mock.ExpectExec("INSERT INTO `usuarios`").
		WillReturnResult(newResult(7))
	mock.ExpectCommit()

	w, env := doRequest(t, r, http.MethodPost, "/api/auth/register", map[string]any{
		"nombre":   "Ana",
		"apellido": "Pérez",
		"email":    "Ana@Test.cl",
		"password": "Secreta1",
	}, "")

	require.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, env.Success)

	var user domain.Usuario
	require.NoError(t, json.Unmarshal(env.Data["user"], &user))
	assert.Equal(t, uint(7), user.ID)
	assert.Equal(t, "ana@test.cl", user.Email) // Email is normalized
	assert.Equal(t, domain.RolCliente, user.Rol)
	assert.True(t, user.Activo)

	var token string
	require.NoError(t, json.Unmarshal(env.Data["token"], &token))
	assert.NotEmpty(t, token)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterDuplicateEmailConflict(t *testing.T) {
	r, mock, _ := newTestRouter(t)

	// The uniqueness check fails inside the transaction, so it rolls back
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `usuarios`").
		WillReturnRows(countRows().AddRow(1))
	mock.ExpectRollback()

	w, env := doRequest(t, r, http.MethodPost, "/api/auth/register", map[string]any{
		"nombre":   "Ana",
		"apellido": "Pérez",
		"email":    "ana@test.cl",
		"password": "Secreta1",
	}, "")

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "El email ya está registrado", env.Message)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterValidationErrors(t *testing.T) {
	r, _, _ := newTestRouter(t)

	// Weak password and bad email never reach the database
	w, env := doRequest(t, r, http.MethodPost, "/api/auth/register", map[string]any{
		"nombre":   "A",
		"apellido": "Pérez",
		"email":    "not-an-email",
		"password": "lowercaseonly",
	}, "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "Errores de validación", env.Message)

	var errs []map[string]any
	require.NoError(t, json.Unmarshal(env.Errors, &errs))
	fields := map[string]bool{}
	for _, e := range errs {
		fields[e["field"].(string)] = true
	}
	assert.True(t, fields["nombre"])
	assert.True(t, fields["email"])
	assert.True(t, fields["password"])
}

func TestLoginSuccess(t *testing.T) {
	r, mock, _ := newTestRouter(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("Secreta1"), bcrypt.MinCost)
	require.NoError(t, err)
	mock.ExpectQuery("SELECT \\* FROM `usuarios` WHERE email = \\?").
		WillReturnRows(userRow(3, "ana@test.cl", string(hash), domain.RolCliente, true))

	w, env := doRequest(t, r, http.MethodPost, "/api/auth/login", map[string]any{
		"email":    "ana@test.cl",
		"password": "Secreta1",
	}, "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Login exitoso", env.Message)

	var token string
	require.NoError(t, json.Unmarshal(env.Data["token"], &token))
	assert.NotEmpty(t, token)

	// The password hash never leaves the API
	assert.NotContains(t, string(env.Data["user"]), "password")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginWrongPassword(t *testing.T) {
	r, mock, _ := newTestRouter(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("Secreta1"), bcrypt.MinCost)
	require.NoError(t, err)
	mock.ExpectQuery("SELECT \\* FROM `usuarios` WHERE email = \\?").
		WillReturnRows(userRow(3, "ana@test.cl", string(hash), domain.RolCliente, true))

	w, env := doRequest(t, r, http.MethodPost, "/api/auth/login", map[string]any{
		"email":    "ana@test.cl",
		"password": "Incorrecta9",
	}, "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Credenciales inválidas", env.Message)
}

func TestLoginDeactivatedAccount(t *testing.T) {
	r, mock, _ := newTestRouter(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("Secreta1"), bcrypt.MinCost)
	require.NoError(t, err)
	mock.ExpectQuery("SELECT \\* FROM `usuarios` WHERE email = \\?").
		WillReturnRows(userRow(3, "ana@test.cl", string(hash), domain.RolCliente, false))

	w, env := doRequest(t, r, http.MethodPost, "/api/auth/login", map[string]any{
		"email":    "ana@test.cl",
		"password": "Secreta1",
	}, "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Cuenta desactivada. Contacta al administrador", env.Message)
}

// A token stays syntactically valid after the account is deactivated, but
// every protected call re-checks the live record and rejects it.
func TestVerifyTokenDeactivatedUser(t *testing.T) {
	r, mock, _ := newTestRouter(t)

	// The live-user lookup requires activo = true and finds nothing
	mock.ExpectQuery("SELECT \\* FROM `usuarios` WHERE id = \\? AND activo = \\?").
		WillReturnRows(emptyRows(userColumns))

	w, env := doRequest(t, r, http.MethodPost, "/api/auth/verify-token", nil, testToken(t, 3))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Usuario no encontrado o inactivo", env.Message)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestVerifyTokenValid(t *testing.T) {
	r, mock, _ := newTestRouter(t)

	mock.ExpectQuery("SELECT \\* FROM `usuarios` WHERE id = \\? AND activo = \\?").
		WillReturnRows(userRow(3, "ana@test.cl", "x", domain.RolCliente, true))

	w, env := doRequest(t, r, http.MethodPost, "/api/auth/verify-token", nil, testToken(t, 3))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Token válido", env.Message)

	var user domain.Usuario
	require.NoError(t, json.Unmarshal(env.Data["user"], &user))
	assert.Equal(t, uint(3), user.ID)
}

func TestVerifyTokenMissing(t *testing.T) {
	r, _, _ := newTestRouter(t)

	w, env := doRequest(t, r, http.MethodPost, "/api/auth/verify-token", nil, "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Token no proporcionado", env.Message)
}
