package main

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"curioApi/models"

	"github.com/gofiber/fiber/v2"
)

var ErrImageNotFound = fiber.Map{"error": "Image not found"}
var ErrNotImageOwner = fiber.Map{"error": "You do not have permission to modify this image"}
var ErrNotWishlistItem = fiber.Map{"error": "This image is not a wishlist item"}
var ErrNoWishlistFolder = fiber.Map{"error": "Path does not contain wishlist folder"}
var ErrNoImageIds = fiber.Map{"error": "No image IDs provided"}

func imageRoutes(router fiber.Router) {
	router.Get("/images", JwtRequired, listImages)
	router.Post("/images/upload", JwtRequired, uploadImage)
	router.Patch("/images/:id/update-details", JwtRequired, updateImageDetails)
	router.Post("/images/:id/transfer-to-collection", JwtRequired, transferToCollection)
	router.Post("/images/bulk-delete", JwtRequired, bulkDeleteImages)
	router.Delete("/images/:id", JwtRequired, deleteImage)
}

// findOwnImage resolves a route id to an image whose category the caller
// owns. Ownership always goes through the category's owner field.
func findOwnImage(c *fiber.Ctx) (*models.Image, fiber.Map, int) {
	var image models.Image

	tx := DatabaseConnection.Preload("Category").Where("id = ?", c.Params("id")).First(&image)

	if tx.Error != nil || image.Category == nil {
		return nil, ErrImageNotFound, http.StatusNotFound
	}

	if image.Category.UserID != CurrentUserId(c) {
		return nil, ErrNotImageOwner, http.StatusForbidden
	}

	return &image, nil, 0
}

func listImages(c *fiber.Ctx) error {
	var images []models.Image

	tx := DatabaseConnection.
		Joins("JOIN categories ON categories.id = images.category_id").
		Where("categories.user_id = ?", CurrentUserId(c)).
		Order("images.id").
		Find(&images)

	if tx.Error != nil {
		return c.Status(http.StatusInternalServerError).JSON(ErrInternalServerError)
	}

	response := make([]ImageResponse, 0, len(images))

	for i := range images {
		response = append(response, SerializeImage(&images[i]))
	}

	return c.Status(http.StatusOK).JSON(response)
}

func uploadImage(c *fiber.Ctx) error {
	userId := CurrentUserId(c)

	title := c.FormValue("title")

	if title == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Title is required"})
	}

	categoryId, err := strconv.Atoi(c.FormValue("category"))

	if err != nil || categoryId <= 0 {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Category is required"})
	}

	file, err := c.FormFile("file")

	if err != nil || file == nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Image file is required"})
	}

	var category models.Category

	tx := DatabaseConnection.First(&category, categoryId)

	if tx.Error != nil {
		return c.Status(http.StatusNotFound).JSON(ErrCategoryNotFound)
	}

	if category.UserID != userId {
		return c.Status(http.StatusForbidden).JSON(ErrNotCategoryOwner)
	}

	isWishlist := c.FormValue("is_wishlist") == "true"

	opened, err := file.Open()

	if err != nil {
		return c.Status(http.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to upload image"})
	}

	defer opened.Close()

	path := ObjectPath(userId, category.Name, isWishlist, file.Filename)

	err = Storage.Upload(path, opened, file.Header.Get("Content-Type"))

	if err != nil {
		log.Printf("image upload failed: %s", err)
		return c.Status(http.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to upload image"})
	}

	image := models.Image{
		Title:       title,
		Path:        path,
		CategoryID:  category.ID,
		Description: c.FormValue("description"),
		Tags:        models.NormalizeTags(c.FormValue("tags")),
		PurchaseURL: c.FormValue("purchase_url"),
		IsWishlist:  isWishlist,
	}

	if raw := c.FormValue("valuation"); raw != "" {
		value, err := strconv.ParseFloat(raw, 64)

		if err == nil {
			image.Valuation = &value
		}
	}

	tx = DatabaseConnection.Create(&image)

	if tx.Error != nil {
		return c.Status(http.StatusInternalServerError).JSON(ErrInternalServerError)
	}

	return c.Status(http.StatusCreated).JSON(SerializeImage(&image))
}

func updateImageDetails(c *fiber.Ctx) error {
	image, errBody, status := findOwnImage(c)

	if errBody != nil {
		return c.Status(status).JSON(errBody)
	}

	var fields map[string]any

	if err := c.BodyParser(&fields); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrInvalidRequestBody)
	}

	if title, ok := fields["title"].(string); ok {
		image.Title = title
	}

	if description, ok := fields["description"].(string); ok {
		image.Description = description
	}

	if raw, ok := fields["valuation"]; ok {
		switch v := raw.(type) {
		case nil:
			image.Valuation = nil
		case float64:
			image.Valuation = &v
		case string:
			if strings.TrimSpace(v) == "" {
				image.Valuation = nil
			} else if value, err := strconv.ParseFloat(v, 64); err == nil {
				image.Valuation = &value
			}
		}
	}

	if raw, ok := fields["tags"]; ok {
		image.Tags = models.NormalizeTags(raw)
	}

	tx := DatabaseConnection.Save(image)

	if tx.Error != nil {
		return c.Status(http.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to update image details"})
	}

	return c.Status(http.StatusOK).JSON(SerializeImage(image))
}

// WishlistDestinationPath strips the wishlist segment from a blob path.
func WishlistDestinationPath(path string) (string, bool) {
	if !strings.Contains(path, "wishlist/") {
		return "", false
	}

	return strings.ReplaceAll(path, "wishlist/", ""), true
}

// transferToCollection moves a wishlist item into the owned part of the
// collection: copy the blob, delete the source, then persist the flipped
// record. The row is never updated unless the store-level move completed,
// so a failure can leave an orphaned copy but never a dangling reference.
func transferToCollection(c *fiber.Ctx) error {
	image, errBody, status := findOwnImage(c)

	if errBody != nil {
		return c.Status(status).JSON(errBody)
	}

	if !image.IsWishlist {
		return c.Status(http.StatusBadRequest).JSON(ErrNotWishlistItem)
	}

	newPath, ok := WishlistDestinationPath(image.Path)

	if !ok {
		return c.Status(http.StatusBadRequest).JSON(ErrNoWishlistFolder)
	}

	if err := Storage.Copy(image.Path, newPath); err != nil {
		return c.Status(http.StatusInternalServerError).
			JSON(fiber.Map{"error": fmt.Sprintf("Failed to transfer file in storage: %s", err)})
	}

	if err := Storage.Delete(image.Path); err != nil {
		return c.Status(http.StatusInternalServerError).
			JSON(fiber.Map{"error": fmt.Sprintf("Failed to transfer file in storage: %s", err)})
	}

	image.Path = newPath
	image.IsWishlist = false
	image.PurchaseURL = ""

	tx := DatabaseConnection.Save(image)

	if tx.Error != nil {
		return c.Status(http.StatusInternalServerError).JSON(ErrInternalServerError)
	}

	return c.Status(http.StatusOK).JSON(SerializeImage(image))
}

func deleteImage(c *fiber.Ctx) error {
	image, errBody, status := findOwnImage(c)

	if errBody != nil {
		return c.Status(status).JSON(errBody)
	}

	if image.Path != "" {
		if err := Storage.Delete(image.Path); err != nil {
			return c.Status(http.StatusInternalServerError).
				JSON(fiber.Map{"error": fmt.Sprintf("Failed to delete image: %s", err)})
		}
	}

	tx := DatabaseConnection.Delete(image)

	if tx.Error != nil {
		return c.Status(http.StatusInternalServerError).JSON(ErrInternalServerError)
	}

	PublishCollectionEvent(image.CategoryID, fiber.Map{
		"action":   "image_deleted",
		"image_id": image.ID,
	})

	return c.Status(http.StatusOK).JSON(fiber.Map{})
}

// bulkDeleteImages deletes a batch of the caller's images, tallying
// successes and skipping per-item failures.
func bulkDeleteImages(c *fiber.Ctx) error {
	var r BulkDeleteRequest

	if err := c.BodyParser(&r); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrInvalidRequestBody)
	}

	if len(r.ImageIds) == 0 {
		return c.Status(http.StatusBadRequest).JSON(ErrNoImageIds)
	}

	var images []models.Image

	tx := DatabaseConnection.
		Joins("JOIN categories ON categories.id = images.category_id").
		Where("images.id IN ? AND categories.user_id = ?", r.ImageIds, CurrentUserId(c)).
		Find(&images)

	if tx.Error != nil {
		return c.Status(http.StatusInternalServerError).JSON(ErrInternalServerError)
	}

	deletedByCategory := make(map[uint][]uint)
	deletedCount := 0

	for i := range images {
		image := &images[i]

		if image.Path != "" {
			if err := Storage.Delete(image.Path); err != nil {
				log.Printf("failed to delete blob for image %d: %s", image.ID, err)
				continue
			}
		}

		if err := DatabaseConnection.Delete(image).Error; err != nil {
			log.Printf("failed to delete image %d: %s", image.ID, err)
			continue
		}

		deletedByCategory[image.CategoryID] = append(deletedByCategory[image.CategoryID], image.ID)
		deletedCount++
	}

	for categoryId, imageIds := range deletedByCategory {
		PublishCollectionEvent(categoryId, fiber.Map{
			"action":    "images_bulk_deleted",
			"image_ids": imageIds,
		})
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{"deleted_count": deletedCount})
}
