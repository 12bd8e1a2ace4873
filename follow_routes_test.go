package main

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func followRequest(path string, userId uint) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path,
		strings.NewReader(fmt.Sprintf(`{"user_id": %d}`, userId)))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func expectTargetUser(mock sqlmock.Sqlmock, id uint) {
	mock.ExpectQuery(`SELECT \* FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email"}).
			AddRow(id, "rival", "rival@example.com"))
}

func TestFollowUserRequiresTarget(t *testing.T) {
	app := newAuthedApp(http.MethodPost, "/follows/follow", 1, followUser)

	req := httptest.NewRequest(http.MethodPost, "/follows/follow", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestFollowUserRejectsSelfFollow(t *testing.T) {
	app := newAuthedApp(http.MethodPost, "/follows/follow", 1, followUser)

	resp, err := app.Test(followRequest("/follows/follow", 1))
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestFollowUserUnknownTarget(t *testing.T) {
	mock := useMockDatabase(t)

	mock.ExpectQuery(`SELECT \* FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	app := newAuthedApp(http.MethodPost, "/follows/follow", 1, followUser)

	resp, err := app.Test(followRequest("/follows/follow", 2))
	require.NoError(t, err)

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFollowUserRejectsDuplicateEdge(t *testing.T) {
	mock := useMockDatabase(t)

	expectTargetUser(mock, 2)

	mock.ExpectQuery(`SELECT \* FROM "user_follows"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "follower_id", "followed_id"}).
			AddRow(7, 1, 2))

	app := newAuthedApp(http.MethodPost, "/follows/follow", 1, followUser)

	resp, err := app.Test(followRequest("/follows/follow", 2))
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFollowUserCreatesEdge(t *testing.T) {
	mock := useMockDatabase(t)

	expectTargetUser(mock, 2)

	mock.ExpectQuery(`SELECT \* FROM "user_follows"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "user_follows"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectCommit()

	app := newAuthedApp(http.MethodPost, "/follows/follow", 1, followUser)

	resp, err := app.Test(followRequest("/follows/follow", 2))
	require.NoError(t, err)

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUnfollowUserWithoutEdge(t *testing.T) {
	mock := useMockDatabase(t)

	expectTargetUser(mock, 2)

	mock.ExpectQuery(`SELECT \* FROM "user_follows"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	app := newAuthedApp(http.MethodPost, "/follows/unfollow", 1, unfollowUser)

	resp, err := app.Test(followRequest("/follows/unfollow", 2))
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUnfollowUserRemovesEdge(t *testing.T) {
	mock := useMockDatabase(t)

	expectTargetUser(mock, 2)

	mock.ExpectQuery(`SELECT \* FROM "user_follows"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "follower_id", "followed_id"}).
			AddRow(7, 1, 2))

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "user_follows"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	app := newAuthedApp(http.MethodPost, "/follows/unfollow", 1, unfollowUser)

	resp, err := app.Test(followRequest("/follows/unfollow", 2))
	require.NoError(t, err)

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}
