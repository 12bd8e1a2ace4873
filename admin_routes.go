package main

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"curioApi/models"

	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var ctx = context.Background()

var ErrAlreadyRebuilding = fiber.Map{"error": "Search index rebuild is already running. Please wait."}

func adminRoutes(router fiber.Router) {
	router.Post("/admin/rebuild_search_index", EnforceAdminSecret, RebuildSearchIndex)
	router.Get("/admin/rebuild_search_index/status", EnforceAdminSecret, RebuildSearchIndexStatus)
}

func EnforceAdminSecret(c *fiber.Ctx) error {
	authorizationHeader := c.Get("Authorization")

	if !strings.HasPrefix(authorizationHeader, "Bearer ") {
		return c.Status(http.StatusUnauthorized).
			JSON(ErrMissingBearerToken)
	}

	authorizationHeader = strings.TrimPrefix(authorizationHeader, "Bearer ")

	if authorizationHeader != ServiceConfig.AdminSecret {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{})
	}

	return c.Next()
}

// IndexProfile writes a user's searchable profile document into the index.
func IndexProfile(u *models.User) error {
	key := fmt.Sprintf("profile_%d", u.ID)

	res, err := ReJsonClient.JSONSet(key, "$", u.GetLimitedProfile())

	if err != nil {
		return err
	}

	if res.(string) != "OK" {
		return fmt.Errorf("unexpected reply indexing profile %d: %v", u.ID, res)
	}

	return nil
}

func RebuildSearchIndex(c *fiber.Ctx) error {
	var users []models.User

	_, err := RedisConnection.Get(ctx, "rebuild_search_index").Int()

	if err == nil {
		return c.Status(http.StatusBadRequest).JSON(ErrAlreadyRebuilding)
	}

	RedisConnection.FlushAll(ctx)
	cmd := RedisConnection.Do(ctx, "FT.CREATE",
		"profileSearch", "ON", "JSON", "SCHEMA",
		"$.username", "AS", "username", "TEXT",
		"$.email", "AS", "email", "TEXT",
		"$.first_name", "AS", "first_name", "TEXT",
		"$.last_name", "AS", "last_name", "TEXT",
		"$.display_name", "AS", "display_name", "TEXT")
	cmd.Val()

	go func() {
		RedisConnection.Set(ctx, "rebuild_search_index", 0, 0)

		DatabaseConnection.Preload("Profile").FindInBatches(&users, 1000, func(tx *gorm.DB, batch int) error {
			for i := range users {
				if err := IndexProfile(&users[i]); err != nil {
					fmt.Println(err)
				}
			}

			fmt.Printf("Processed Batch: %d\n", batch)
			RedisConnection.Set(ctx, "rebuild_search_index", batch, 0)

			return nil
		})

		fmt.Println("Finished rebuilding search index")
		RedisConnection.Del(ctx, "rebuild_search_index")
	}()

	return c.Status(http.StatusOK).JSON(fiber.Map{})
}

func RebuildSearchIndexStatus(c *fiber.Ctx) error {
	batch, err := RedisConnection.Get(ctx, "rebuild_search_index").Result()

	if err == redis.Nil {
		return c.Status(http.StatusNoContent).JSON(fiber.Map{})
	} else if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(ErrInternalServerError)
	}

	batchInt, err := strconv.Atoi(batch)

	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(ErrInternalServerError)
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{"batch": batchInt})
}
