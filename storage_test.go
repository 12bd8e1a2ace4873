package main

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectPath(t *testing.T) {
	path := ObjectPath(1, "Coins", false, "penny.JPG")

	assert.True(t, strings.HasPrefix(path, "user_1/Coins/"))
	assert.True(t, strings.HasSuffix(path, ".JPG"))
	assert.NotContains(t, path, "wishlist/")
	assert.NotContains(t, path, "penny")
}

func TestObjectPathWishlist(t *testing.T) {
	path := ObjectPath(1, "Coins", true, "penny.jpg")

	assert.True(t, strings.HasPrefix(path, "user_1/Coins/wishlist/"))
	assert.True(t, strings.HasSuffix(path, ".jpg"))
}

func TestObjectPathUnique(t *testing.T) {
	first := ObjectPath(1, "Coins", false, "penny.jpg")
	second := ObjectPath(1, "Coins", false, "penny.jpg")

	assert.NotEqual(t, first, second)
}

func TestPrefixes(t *testing.T) {
	assert.Equal(t, "user_7/", UserPrefix(7))
	assert.Equal(t, "user_7/Coins/", CategoryPrefix(7, "Coins"))

	path := ObjectPath(7, "Coins", true, "penny.jpg")
	require.True(t, strings.HasPrefix(path, CategoryPrefix(7, "Coins")))
	require.True(t, strings.HasPrefix(path, UserPrefix(7)))
}

func TestPresignedOrEmpty(t *testing.T) {
	useFakeStorage(t)

	assert.Equal(t, "https://blobs.test/user_1/Coins/abc.jpg", PresignedOrEmpty("user_1/Coins/abc.jpg"))
	assert.Equal(t, "", PresignedOrEmpty(""))
}

func TestPresignedOrEmptySwallowsFailures(t *testing.T) {
	fake := useFakeStorage(t)
	fake.presignErr = errors.New("expired credentials")

	assert.Equal(t, "", PresignedOrEmpty("user_1/Coins/abc.jpg"))
}
