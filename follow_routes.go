package main

import (
	"net/http"

	"curioApi/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var ErrFollowUserIdRequired = fiber.Map{"error": "User ID is required"}
var ErrSelfFollow = fiber.Map{"error": "You cannot follow yourself"}
var ErrAlreadyFollowing = fiber.Map{"error": "Already following this user"}
var ErrNotFollowing = fiber.Map{"error": "You are not following this user"}

func followRoutes(router fiber.Router) {
	router.Post("/follows/follow", JwtRequired, followUser)
	router.Post("/follows/unfollow", JwtRequired, unfollowUser)
	router.Get("/follows/followers", JwtRequired, listFollowers)
	router.Get("/follows/following", JwtRequired, listFollowing)
}

func followUser(c *fiber.Ctx) error {
	var r FollowRequest

	if err := c.BodyParser(&r); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrInvalidRequestBody)
	}

	if r.UserId == 0 {
		return c.Status(http.StatusBadRequest).JSON(ErrFollowUserIdRequired)
	}

	userId := CurrentUserId(c)

	if r.UserId == userId {
		return c.Status(http.StatusBadRequest).JSON(ErrSelfFollow)
	}

	var target models.User

	tx := DatabaseConnection.First(&target, r.UserId)

	if tx.Error == gorm.ErrRecordNotFound {
		return c.Status(http.StatusNotFound).JSON(ErrUserNotFound)
	} else if tx.Error != nil {
		return c.Status(http.StatusInternalServerError).JSON(ErrInternalServerError)
	}

	var existing models.UserFollow

	tx = DatabaseConnection.Where("follower_id = ? AND followed_id = ?", userId, target.ID).First(&existing)

	if tx.Error == nil {
		return c.Status(http.StatusBadRequest).JSON(ErrAlreadyFollowing)
	} else if tx.Error != gorm.ErrRecordNotFound {
		return c.Status(http.StatusInternalServerError).JSON(ErrInternalServerError)
	}

	follow := models.UserFollow{
		FollowerID: userId,
		FollowedID: target.ID,
	}

	tx = DatabaseConnection.Create(&follow)

	if tx.Error != nil {
		return c.Status(http.StatusInternalServerError).JSON(ErrInternalServerError)
	}

	return c.Status(http.StatusCreated).JSON(follow)
}

func unfollowUser(c *fiber.Ctx) error {
	var r FollowRequest

	if err := c.BodyParser(&r); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrInvalidRequestBody)
	}

	if r.UserId == 0 {
		return c.Status(http.StatusBadRequest).JSON(ErrFollowUserIdRequired)
	}

	userId := CurrentUserId(c)

	var target models.User

	tx := DatabaseConnection.First(&target, r.UserId)

	if tx.Error == gorm.ErrRecordNotFound {
		return c.Status(http.StatusNotFound).JSON(ErrUserNotFound)
	} else if tx.Error != nil {
		return c.Status(http.StatusInternalServerError).JSON(ErrInternalServerError)
	}

	var follow models.UserFollow

	tx = DatabaseConnection.Where("follower_id = ? AND followed_id = ?", userId, target.ID).First(&follow)

	if tx.Error == gorm.ErrRecordNotFound {
		return c.Status(http.StatusBadRequest).JSON(ErrNotFollowing)
	} else if tx.Error != nil {
		return c.Status(http.StatusInternalServerError).JSON(ErrInternalServerError)
	}

	tx = DatabaseConnection.Delete(&follow)

	if tx.Error != nil {
		return c.Status(http.StatusInternalServerError).JSON(ErrInternalServerError)
	}

	return c.SendStatus(http.StatusNoContent)
}

// followEdgeUsers loads the users on the far side of the given edges.
func followEdgeUsers(c *fiber.Ctx, column string, userId uint) error {
	var userIds []uint

	tx := DatabaseConnection.Model(&models.UserFollow{}).
		Where(column+" = ?", userId).
		Pluck(pluckColumn(column), &userIds)

	if tx.Error != nil {
		return c.Status(http.StatusInternalServerError).JSON(ErrInternalServerError)
	}

	var users []models.User

	if len(userIds) > 0 {
		tx = DatabaseConnection.Preload("Profile").Where("id IN ?", userIds).Order("id").Find(&users)

		if tx.Error != nil {
			return c.Status(http.StatusInternalServerError).JSON(ErrInternalServerError)
		}
	}

	response := make([]UserProfileResponse, 0, len(users))

	for i := range users {
		response = append(response, SerializeUserProfile(&users[i], CurrentUserId(c)))
	}

	return c.Status(http.StatusOK).JSON(response)
}

func pluckColumn(filterColumn string) string {
	if filterColumn == "followed_id" {
		return "follower_id"
	}

	return "followed_id"
}

func listFollowers(c *fiber.Ctx) error {
	return followEdgeUsers(c, "followed_id", CurrentUserId(c))
}

func listFollowing(c *fiber.Ctx) error {
	return followEdgeUsers(c, "follower_id", CurrentUserId(c))
}
