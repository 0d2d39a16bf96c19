package api

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"huertohogar_api/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// categoryColumns is the categorias column set in declaration order
var categoryColumns = []string{"id", "nombre", "descripcion", "activo", "fecha_creacion"}

// categoryRow builds a sqlmock row for one category
func categoryRow(id uint, nombre string, activo bool) *sqlmock.Rows {
	return sqlmock.NewRows(categoryColumns).AddRow(id, nombre, nil, activo, time.Now())
}

func TestListCategoriesDefaultsToActive(t *testing.T) {
	r, mock, _ := newTestRouter(t)

	// Without an activo parameter only active rows are selected
	mock.ExpectQuery("SELECT \\* FROM `categorias` WHERE activo = \\?").
		WithArgs(true).
		WillReturnRows(categoryRow(5, "frutas", true))

	w, env := doRequest(t, r, http.MethodGet, "/api/categories", nil, "")

	require.Equal(t, http.StatusOK, w.Code)
	var categories []domain.Categoria
	require.NoError(t, json.Unmarshal(env.Data["categories"], &categories))
	require.Len(t, categories, 1)
	assert.Equal(t, "frutas", categories[0].Nombre)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListCategoriesAll(t *testing.T) {
	r, mock, _ := newTestRouter(t)

	// activo=all lifts the filter entirely
	mock.ExpectQuery("SELECT \\* FROM `categorias` ORDER BY nombre ASC").
		WillReturnRows(categoryRow(5, "frutas", true).AddRow(6, "verduras", nil, false, time.Now()))

	w, env := doRequest(t, r, http.MethodGet, "/api/categories?activo=all", nil, "")

	require.Equal(t, http.StatusOK, w.Code)
	var categories []domain.Categoria
	require.NoError(t, json.Unmarshal(env.Data["categories"], &categories))
	assert.Len(t, categories, 2)
	require.NoError(t, mock.ExpectationsWereMet())
}

// Anything other than true, false or all is a client error, not a silent
// false filter
func TestListCategoriesUnknownActivoRejected(t *testing.T) {
	r, mock, _ := newTestRouter(t)

	w, env := doRequest(t, r, http.MethodGet, "/api/categories?activo=garbage", nil, "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "El parámetro activo debe ser true, false o all", env.Message)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateCategory(t *testing.T) {
	r, mock, _ := newTestRouter(t)

	expectAuthUser(mock, 1, domain.RolAdmin)
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `categorias`").
		WillReturnRows(countRows().AddRow(0))
	mock.ExpectExec("INSERT INTO `categorias`").
		WillReturnResult(newResult(5))
	mock.ExpectCommit()

	w, env := doRequest(t, r, http.MethodPost, "/api/categories", map[string]any{
		"nombre": "frutas",
	}, testToken(t, 1))

	require.Equal(t, http.StatusCreated, w.Code)

	var category domain.Categoria
	require.NoError(t, json.Unmarshal(env.Data["category"], &category))
	assert.Equal(t, uint(5), category.ID)
	assert.True(t, category.Activo) // New categories start active
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateCategoryDuplicateName(t *testing.T) {
	r, mock, _ := newTestRouter(t)

	expectAuthUser(mock, 1, domain.RolAdmin)
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `categorias`").
		WillReturnRows(countRows().AddRow(1))
	mock.ExpectRollback()

	w, env := doRequest(t, r, http.MethodPost, "/api/categories", map[string]any{
		"nombre": "frutas",
	}, testToken(t, 1))

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Ya existe una categoría con ese nombre", env.Message)
	require.NoError(t, mock.ExpectationsWereMet())
}

// A category with associated products cannot be deleted; guard and delete
// share a transaction.
func TestDeleteCategoryWithProductsRejected(t *testing.T) {
	r, mock, _ := newTestRouter(t)

	expectAuthUser(mock, 1, domain.RolAdmin)
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT `id` FROM `categorias`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `productos`").
		WillReturnRows(countRows().AddRow(3))
	mock.ExpectRollback()

	w, env := doRequest(t, r, http.MethodDelete, "/api/categories/5", nil, testToken(t, 1))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "No se puede eliminar la categoría porque tiene productos asociados", env.Message)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteCategoryWithoutProducts(t *testing.T) {
	r, mock, _ := newTestRouter(t)

	expectAuthUser(mock, 1, domain.RolAdmin)
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT `id` FROM `categorias`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `productos`").
		WillReturnRows(countRows().AddRow(0))
	mock.ExpectExec("DELETE FROM `categorias`").
		WillReturnResult(newResult(0))
	mock.ExpectCommit()

	w, env := doRequest(t, r, http.MethodDelete, "/api/categories/5", nil, testToken(t, 1))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Categoría eliminada exitosamente", env.Message)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetCategoryNotFound(t *testing.T) {
	r, mock, _ := newTestRouter(t)

	mock.ExpectQuery("SELECT \\* FROM `categorias`").
		WillReturnRows(emptyRows(categoryColumns))

	w, env := doRequest(t, r, http.MethodGet, "/api/categories/5", nil, "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Categoría no encontrada", env.Message)
}
