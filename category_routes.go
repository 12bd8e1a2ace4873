package main

import (
	"log"
	"net/http"

	"curioApi/models"

	"github.com/gofiber/fiber/v2"
)

var ErrCategoryNotFound = fiber.Map{"error": "Collection not found"}
var ErrCategoryNameRequired = fiber.Map{"error": "Name is required"}
var ErrNotCategoryOwner = fiber.Map{"error": "You do not have permission to modify this collection"}

func categoryRoutes(router fiber.Router) {
	router.Get("/categories", JwtRequired, listCategories)
	router.Get("/categories/:id", JwtRequired, getCategory)
	router.Post("/categories", JwtRequired, createCategory)
	router.Post("/upload-category-with-image", JwtRequired, createCategoryWithImage)
	router.Patch("/categories/:id/toggle-visibility", JwtRequired, toggleCategoryVisibility)
	router.Patch("/categories/:id/update-tags", JwtRequired, updateCategoryTags)
	router.Delete("/categories/:id", JwtRequired, deleteCategory)
}

// findOwnCategory resolves a route id to a category owned by the caller.
func findOwnCategory(c *fiber.Ctx) (*models.Category, fiber.Map, int) {
	var category models.Category

	tx := DatabaseConnection.Where("id = ?", c.Params("id")).First(&category)

	if tx.Error != nil {
		return nil, ErrCategoryNotFound, http.StatusNotFound
	}

	if category.UserID != CurrentUserId(c) {
		return nil, ErrNotCategoryOwner, http.StatusForbidden
	}

	return &category, nil, 0
}

func listCategories(c *fiber.Ctx) error {
	var categories []models.Category

	tx := DatabaseConnection.Preload("Images").
		Where("user_id = ?", CurrentUserId(c)).
		Order("id").
		Find(&categories)

	if tx.Error != nil {
		return c.Status(http.StatusInternalServerError).JSON(ErrInternalServerError)
	}

	response := make([]CategoryResponse, 0, len(categories))

	for i := range categories {
		response = append(response, SerializeCategory(&categories[i]))
	}

	return c.Status(http.StatusOK).JSON(response)
}

func getCategory(c *fiber.Ctx) error {
	category, errBody, status := findOwnCategory(c)

	if errBody != nil {
		return c.Status(status).JSON(errBody)
	}

	DatabaseConnection.Preload("Images").First(category, category.ID)

	return c.Status(http.StatusOK).JSON(SerializeCategory(category))
}

func createCategory(c *fiber.Ctx) error {
	var r CreateCategoryRequest

	if err := c.BodyParser(&r); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrInvalidRequestBody)
	}

	if r.Name == "" {
		return c.Status(http.StatusBadRequest).JSON(ErrCategoryNameRequired)
	}

	isPublic := true

	if r.IsPublic != nil {
		isPublic = *r.IsPublic
	}

	category := models.Category{
		Name:     r.Name,
		UserID:   CurrentUserId(c),
		IsPublic: isPublic,
		Tags:     models.NormalizeTags(r.Tags),
	}

	tx := DatabaseConnection.Create(&category)

	if tx.Error != nil {
		return c.Status(http.StatusInternalServerError).JSON(ErrInternalServerError)
	}

	return c.Status(http.StatusCreated).JSON(SerializeCategory(&category))
}

// createCategoryWithImage creates a category from a multipart form with an
// optional placeholder image.
func createCategoryWithImage(c *fiber.Ctx) error {
	userId := CurrentUserId(c)
	name := c.FormValue("name")

	if name == "" {
		return c.Status(http.StatusBadRequest).JSON(ErrCategoryNameRequired)
	}

	placeholderPath := ""

	file, err := c.FormFile("placeholder_image")

	if err == nil && file != nil {
		opened, err := file.Open()

		if err != nil {
			return c.Status(http.StatusInternalServerError).
				JSON(fiber.Map{"error": "Failed to upload placeholder image"})
		}

		defer opened.Close()

		placeholderPath = ObjectPath(userId, "category_placeholders", false, file.Filename)

		err = Storage.Upload(placeholderPath, opened, file.Header.Get("Content-Type"))

		if err != nil {
			log.Printf("placeholder upload failed: %s", err)
			return c.Status(http.StatusInternalServerError).
				JSON(fiber.Map{"error": "Failed to upload placeholder image"})
		}
	}

	category := models.Category{
		Name:             name,
		PlaceholderImage: placeholderPath,
		UserID:           userId,
		IsPublic:         c.FormValue("is_public", "true") != "false",
		IsWishlist:       c.FormValue("is_wishlist") == "true",
		Tags:             models.NormalizeTags(c.FormValue("tags")),
	}

	tx := DatabaseConnection.Create(&category)

	if tx.Error != nil {
		return c.Status(http.StatusInternalServerError).JSON(ErrInternalServerError)
	}

	return c.Status(http.StatusCreated).JSON(SerializeCategory(&category))
}

func toggleCategoryVisibility(c *fiber.Ctx) error {
	category, errBody, status := findOwnCategory(c)

	if errBody != nil {
		return c.Status(status).JSON(errBody)
	}

	category.IsPublic = !category.IsPublic

	tx := DatabaseConnection.Save(category)

	if tx.Error != nil {
		return c.Status(http.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to update collection visibility"})
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"id":        category.ID,
		"name":      category.Name,
		"is_public": category.IsPublic,
	})
}

func updateCategoryTags(c *fiber.Ctx) error {
	category, errBody, status := findOwnCategory(c)

	if errBody != nil {
		return c.Status(status).JSON(errBody)
	}

	var r UpdateTagsRequest

	if err := c.BodyParser(&r); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrInvalidRequestBody)
	}

	category.Tags = models.NormalizeTags(r.Tags)

	tx := DatabaseConnection.Save(category)

	if tx.Error != nil {
		return c.Status(http.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to update collection tags"})
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"id":   category.ID,
		"name": category.Name,
		"tags": category.Tags,
	})
}

// deleteCategory removes the category's blobs first, then its rows. The
// wishlist subfolder lives under the category prefix and goes with it.
func deleteCategory(c *fiber.Ctx) error {
	category, errBody, status := findOwnCategory(c)

	if errBody != nil {
		return c.Status(status).JSON(errBody)
	}

	if category.PlaceholderImage != "" {
		if err := Storage.Delete(category.PlaceholderImage); err != nil {
			log.Printf("failed to delete placeholder %s: %s", category.PlaceholderImage, err)
		}
	}

	deleted, err := Storage.DeleteByPrefix(CategoryPrefix(category.UserID, category.Name))

	if err != nil {
		log.Printf("failed to purge category folder for %d: %s", category.ID, err)
	} else {
		log.Printf("deleted %d objects for category %d", deleted, category.ID)
	}

	tx := DatabaseConnection.Where("category_id = ?", category.ID).Delete(&models.Image{})

	if tx.Error != nil {
		return c.Status(http.StatusInternalServerError).JSON(ErrInternalServerError)
	}

	tx = DatabaseConnection.Delete(category)

	if tx.Error != nil {
		return c.Status(http.StatusInternalServerError).JSON(ErrInternalServerError)
	}

	PublishCollectionEvent(category.ID, fiber.Map{
		"action":      "category_deleted",
		"category_id": category.ID,
	})

	return c.Status(http.StatusOK).JSON(fiber.Map{})
}
