package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func expectOwnedCategory(mock sqlmock.Sqlmock, userId uint, isPublic bool) {
	mock.ExpectQuery(`SELECT \* FROM "categories"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "placeholder_image", "user_id", "is_public", "is_wishlist"}).
			AddRow(3, "Coins", "user_1/category_placeholders/ph.jpg", userId, isPublic, false))
}

func TestCreateCategoryRequiresName(t *testing.T) {
	app := newAuthedApp(http.MethodPost, "/categories", 1, createCategory)

	req := httptest.NewRequest(http.MethodPost, "/categories", strings.NewReader(`{"name": ""}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestToggleCategoryVisibility(t *testing.T) {
	mock := useMockDatabase(t)

	expectOwnedCategory(mock, 1, true)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "categories"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	app := newAuthedApp(http.MethodPatch, "/categories/:id/toggle-visibility", 1, toggleCategoryVisibility)

	resp, err := app.Test(httptest.NewRequest(http.MethodPatch, "/categories/3/toggle-visibility", nil))
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, false, body["is_public"])

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleCategoryVisibilityRejectsOtherOwners(t *testing.T) {
	mock := useMockDatabase(t)

	expectOwnedCategory(mock, 2, true)

	app := newAuthedApp(http.MethodPatch, "/categories/:id/toggle-visibility", 1, toggleCategoryVisibility)

	resp, err := app.Test(httptest.NewRequest(http.MethodPatch, "/categories/3/toggle-visibility", nil))
	require.NoError(t, err)

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleCategoryVisibilityUnknownCategory(t *testing.T) {
	mock := useMockDatabase(t)

	mock.ExpectQuery(`SELECT \* FROM "categories"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	app := newAuthedApp(http.MethodPatch, "/categories/:id/toggle-visibility", 1, toggleCategoryVisibility)

	resp, err := app.Test(httptest.NewRequest(http.MethodPatch, "/categories/3/toggle-visibility", nil))
	require.NoError(t, err)

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateCategoryTags(t *testing.T) {
	mock := useMockDatabase(t)

	expectOwnedCategory(mock, 1, true)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "categories"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	app := newAuthedApp(http.MethodPatch, "/categories/:id/update-tags", 1, updateCategoryTags)

	req := httptest.NewRequest(http.MethodPatch, "/categories/3/update-tags",
		strings.NewReader(`{"tags": ["Coins", "wartime"]}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Tags []string `json:"tags"`
	}

	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, []string{"Coins", "wartime"}, body.Tags)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteCategoryPurgesBlobsAndRows(t *testing.T) {
	fake := useFakeStorage(t)
	channels := useFakeChannels(t)
	mock := useMockDatabase(t)

	expectOwnedCategory(mock, 1, true)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "images"`).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "categories"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	app := newAuthedApp(http.MethodDelete, "/categories/:id", 1, deleteCategory)

	resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/categories/3", nil))
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, []string{"user_1/category_placeholders/ph.jpg"}, fake.deletes)
	assert.Equal(t, []string{"user_1/Coins/"}, fake.prefixPurges)

	require.Len(t, channels.events, 1)
	assert.Equal(t, "collection_3", channels.events[0].channel)

	assert.NoError(t, mock.ExpectationsWereMet())
}
