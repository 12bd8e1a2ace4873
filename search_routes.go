package main

import (
	"log"
	"net/http"

	"curioApi/models"

	"github.com/gofiber/fiber/v2"
)

var ErrTagParameterRequired = fiber.Map{"error": "Tag parameter is required"}

type TagSearchUser struct {
	Id                uint    `json:"id"`
	Username          string  `json:"username"`
	FirstName         string  `json:"first_name"`
	LastName          string  `json:"last_name"`
	Email             string  `json:"email"`
	ProfilePictureUrl *string `json:"profile_picture_url"`
	DisplayName       *string `json:"display_name"`
}

type TagSearchResult struct {
	Type         string        `json:"type"`
	Id           uint          `json:"id"`
	Title        string        `json:"title"`
	ImageUrl     *string       `json:"image_url"`
	CategoryId   uint          `json:"category_id,omitempty"`
	CategoryName string        `json:"category_name,omitempty"`
	User         TagSearchUser `json:"user"`
}

func searchRoutes(router fiber.Router) {
	router.Get("/search/by-tag", JwtRequired, searchByTag)
}

// searchByTag scans every other user's public content and matches the tag
// in the application layer after fetch. Categories come back first, then
// images, each bucket in primary-key order.
func searchByTag(c *fiber.Ctx) error {
	tag := c.Query("tag")

	if tag == "" {
		return c.Status(http.StatusBadRequest).JSON(ErrTagParameterRequired)
	}

	userId := CurrentUserId(c)

	var categories []models.Category

	tx := DatabaseConnection.Preload("User.Profile").
		Where("is_public = ? AND user_id <> ?", true, userId).
		Order("id").
		Find(&categories)

	if tx.Error != nil {
		log.Printf("tag search failed fetching categories: %s", tx.Error)
		return c.Status(http.StatusInternalServerError).
			JSON(fiber.Map{"error": "Search failed: " + tx.Error.Error()})
	}

	var images []models.Image

	tx = DatabaseConnection.Preload("Category.User.Profile").
		Joins("JOIN categories ON categories.id = images.category_id").
		Where("categories.is_public = ? AND categories.user_id <> ? AND images.is_wishlist = ?", true, userId, false).
		Order("images.id").
		Find(&images)

	if tx.Error != nil {
		log.Printf("tag search failed fetching images: %s", tx.Error)
		return c.Status(http.StatusInternalServerError).
			JSON(fiber.Map{"error": "Search failed: " + tx.Error.Error()})
	}

	return c.Status(http.StatusOK).JSON(BuildTagSearchResults(tag, categories, images, presignedOrNil))
}

func tagSearchUser(user *models.User, presign func(string) *string) TagSearchUser {
	result := TagSearchUser{
		Id:        user.ID,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
	}

	if user.Profile != nil {
		result.ProfilePictureUrl = presign(user.Profile.ProfilePicture)
		displayName := user.Profile.DisplayName
		result.DisplayName = &displayName
	}

	return result
}

// BuildTagSearchResults filters pre-fetched candidates by case-insensitive
// exact tag membership and assembles the flat two-bucket result sequence.
// presign failures surface as a missing image, never as a search failure.
func BuildTagSearchResults(tag string, categories []models.Category, images []models.Image, presign func(string) *string) []TagSearchResult {
	results := make([]TagSearchResult, 0)

	for i := range categories {
		category := &categories[i]

		if !models.HasTag(category.Tags, tag) || category.User == nil {
			continue
		}

		results = append(results, TagSearchResult{
			Type:     "category",
			Id:       category.ID,
			Title:    category.Name,
			ImageUrl: presign(category.PlaceholderImage),
			User:     tagSearchUser(category.User, presign),
		})
	}

	for i := range images {
		image := &images[i]

		if !models.HasTag(image.Tags, tag) || image.Category == nil || image.Category.User == nil {
			continue
		}

		results = append(results, TagSearchResult{
			Type:         "image",
			Id:           image.ID,
			Title:        image.Title,
			ImageUrl:     presign(image.Path),
			CategoryId:   image.Category.ID,
			CategoryName: image.Category.Name,
			User:         tagSearchUser(image.Category.User, presign),
		})
	}

	return results
}
