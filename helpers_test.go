package main

import (
	"io"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// fakeBlobStore records calls and serves canned results so handlers can be
// exercised without a bucket.
type fakeBlobStore struct {
	uploads      []string
	copies       [][2]string
	deletes      []string
	prefixPurges []string
	copyErr      error
	deleteErr    error
	presignErr   error
}

func (f *fakeBlobStore) Upload(path string, body io.Reader, contentType string) error {
	f.uploads = append(f.uploads, path)
	return nil
}

func (f *fakeBlobStore) PresignedGet(path string) (string, error) {
	if f.presignErr != nil {
		return "", f.presignErr
	}

	return "https://blobs.test/" + path, nil
}

func (f *fakeBlobStore) Delete(path string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}

	f.deletes = append(f.deletes, path)
	return nil
}

func (f *fakeBlobStore) Copy(srcPath string, dstPath string) error {
	if f.copyErr != nil {
		return f.copyErr
	}

	f.copies = append(f.copies, [2]string{srcPath, dstPath})
	return nil
}

func (f *fakeBlobStore) ListByPrefix(prefix string) ([]string, error) {
	return nil, nil
}

func (f *fakeBlobStore) DeleteByPrefix(prefix string) (int, error) {
	f.prefixPurges = append(f.prefixPurges, prefix)
	return 0, nil
}

func useFakeStorage(t *testing.T) *fakeBlobStore {
	t.Helper()

	previous := Storage
	fake := &fakeBlobStore{}
	Storage = fake

	t.Cleanup(func() { Storage = previous })

	return fake
}

func useMockDatabase(t *testing.T) sqlmock.Sqlmock {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)

	conn, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		Logger: gormLogger.Discard,
	})
	require.NoError(t, err)

	previous := DatabaseConnection
	DatabaseConnection = conn

	t.Cleanup(func() {
		DatabaseConnection = previous
		db.Close()
	})

	return mock
}

// newAuthedApp mounts a handler behind a stub that injects the caller
// identity the way JwtRequired does.
func newAuthedApp(method string, path string, userId uint, handler fiber.Handler) *fiber.App {
	app := fiber.New()

	app.Add(method, path, func(c *fiber.Ctx) error {
		c.Locals("userId", userId)
		return handler(c)
	})

	return app
}
