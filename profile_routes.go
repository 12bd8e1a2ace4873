package main

import (
	"log"
	"net/http"
	"strconv"

	"curioApi/models"

	"github.com/RediSearch/redisearch-go/redisearch"
	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var ErrNotOwnProfile = fiber.Map{"error": "You can only update your own profile"}
var ErrNotOwnResource = fiber.Map{"error": "You do not have permission to access this resource."}
var ErrProfileNotFound = fiber.Map{"error": "User profile not found."}

func profileRoutes(router fiber.Router) {
	// Literal routes go first so /profiles/:id does not shadow them.
	router.Get("/profiles/search", JwtRequired, searchProfiles)
	router.Get("/profiles/:id", JwtRequired, getProfile)
	router.Get("/profiles/:id/categories", JwtRequired, userCategories)
	router.Get("/profiles/:id/followers", JwtRequired, profileFollowers)
	router.Get("/profiles/:id/following", JwtRequired, profileFollowing)
	router.Put("/profiles/:id", JwtRequired, updateProfile)
	router.Patch("/profiles/:id", JwtRequired, updateProfile)
	router.Get("/profiles/:id/goals", JwtRequired, listGoals)
	router.Post("/profiles/:id/goals", JwtRequired, createGoal)
}

func findProfileUser(c *fiber.Ctx) (*models.User, fiber.Map, int) {
	var user models.User

	tx := DatabaseConnection.Preload("Profile").Where("id = ?", c.Params("id")).First(&user)

	if tx.Error != nil {
		return nil, ErrUserNotFound, http.StatusNotFound
	}

	return &user, nil, 0
}

func getProfile(c *fiber.Ctx) error {
	user, errBody, status := findProfileUser(c)

	if errBody != nil {
		return c.Status(status).JSON(errBody)
	}

	return c.Status(http.StatusOK).JSON(SerializeUserProfile(user, CurrentUserId(c)))
}

// userCategories lists a user's categories. Other users only ever see the
// public ones, whatever the query asks for.
func userCategories(c *fiber.Ctx) error {
	user, errBody, status := findProfileUser(c)

	if errBody != nil {
		return c.Status(status).JSON(errBody)
	}

	query := DatabaseConnection.Preload("Images").Where("user_id = ?", user.ID)

	if user.ID != CurrentUserId(c) {
		query = query.Where("is_public = ?", true)
	}

	var categories []models.Category

	tx := query.Order("id").Find(&categories)

	if tx.Error != nil {
		return c.Status(http.StatusInternalServerError).JSON(ErrInternalServerError)
	}

	response := make([]CategoryResponse, 0, len(categories))

	for i := range categories {
		response = append(response, SerializeCategory(&categories[i]))
	}

	return c.Status(http.StatusOK).JSON(response)
}

func profileFollowers(c *fiber.Ctx) error {
	user, errBody, status := findProfileUser(c)

	if errBody != nil {
		return c.Status(status).JSON(errBody)
	}

	return followEdgeUsers(c, "followed_id", user.ID)
}

func profileFollowing(c *fiber.Ctx) error {
	user, errBody, status := findProfileUser(c)

	if errBody != nil {
		return c.Status(status).JSON(errBody)
	}

	return followEdgeUsers(c, "follower_id", user.ID)
}

func updateProfile(c *fiber.Ctx) error {
	user, errBody, status := findProfileUser(c)

	if errBody != nil {
		return c.Status(status).JSON(errBody)
	}

	if user.ID != CurrentUserId(c) {
		return c.Status(http.StatusForbidden).JSON(ErrNotOwnProfile)
	}

	picturePath := ""

	file, err := c.FormFile("profile_picture")

	if err == nil && file != nil {
		opened, err := file.Open()

		if err != nil {
			return c.Status(http.StatusInternalServerError).
				JSON(fiber.Map{"error": "Failed to upload profile picture"})
		}

		defer opened.Close()

		picturePath = ObjectPath(user.ID, "profile_pictures", false, file.Filename)

		err = Storage.Upload(picturePath, opened, file.Header.Get("Content-Type"))

		if err != nil {
			log.Printf("profile picture upload failed: %s", err)
			return c.Status(http.StatusInternalServerError).
				JSON(fiber.Map{"error": "Failed to upload profile picture"})
		}
	}

	if firstName := c.FormValue("first_name"); firstName != "" {
		user.FirstName = firstName
	}

	if lastName := c.FormValue("last_name"); lastName != "" {
		user.LastName = lastName
	}

	tx := DatabaseConnection.Save(user)

	if tx.Error != nil {
		return c.Status(http.StatusInternalServerError).JSON(ErrInternalServerError)
	}

	profile := user.Profile

	if profile == nil {
		profile = &models.UserProfile{UserID: user.ID}
	}

	if bio := c.FormValue("bio"); bio != "" {
		profile.Bio = bio
	}

	if displayName := c.FormValue("display_name"); displayName != "" {
		profile.DisplayName = displayName
	}

	if picturePath != "" {
		profile.ProfilePicture = picturePath
	}

	tx = DatabaseConnection.Save(profile)

	if tx.Error != nil {
		return c.Status(http.StatusInternalServerError).JSON(ErrInternalServerError)
	}

	user.Profile = profile

	if err := IndexProfile(user); err != nil {
		log.Printf("failed to reindex profile %d: %s", user.ID, err)
	}

	return c.Status(http.StatusOK).JSON(SerializeUserProfile(user, user.ID))
}

func searchProfiles(c *fiber.Ctx) error {
	docs, total, err := RediSearchClient.Search(redisearch.NewQuery(c.Query("q")).Limit(0, 50))

	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(ErrInternalServerError)
	}

	results := make([]models.LimitedProfile, 0, total)

	for _, doc := range docs {
		raw, ok := doc.Properties["$"].(string)

		if !ok {
			continue
		}

		var profile models.LimitedProfile

		if err := sonic.Unmarshal([]byte(raw), &profile); err != nil {
			return c.Status(http.StatusInternalServerError).JSON(ErrInternalServerError)
		}

		results = append(results, profile)
	}

	return c.Status(http.StatusOK).JSON(results)
}

func findOwnGoalProfile(c *fiber.Ctx) (*models.UserProfile, fiber.Map, int) {
	profileUserId, err := strconv.Atoi(c.Params("id"))

	if err != nil || uint(profileUserId) != CurrentUserId(c) {
		return nil, ErrNotOwnResource, http.StatusForbidden
	}

	var profile models.UserProfile

	tx := DatabaseConnection.Where("user_id = ?", profileUserId).First(&profile)

	if tx.Error == gorm.ErrRecordNotFound {
		return nil, ErrProfileNotFound, http.StatusNotFound
	} else if tx.Error != nil {
		return nil, ErrInternalServerError, http.StatusInternalServerError
	}

	return &profile, nil, 0
}

func listGoals(c *fiber.Ctx) error {
	profile, errBody, status := findOwnGoalProfile(c)

	if errBody != nil {
		return c.Status(status).JSON(errBody)
	}

	var goals []models.Goal

	tx := DatabaseConnection.Where("user_profile_id = ?", profile.ID).Order("id").Find(&goals)

	if tx.Error != nil {
		return c.Status(http.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to fetch goals: " + tx.Error.Error()})
	}

	response := make([]GoalResponse, 0, len(goals))

	for i := range goals {
		response = append(response, SerializeGoal(&goals[i]))
	}

	return c.Status(http.StatusOK).JSON(response)
}

func createGoal(c *fiber.Ctx) error {
	profile, errBody, status := findOwnGoalProfile(c)

	if errBody != nil {
		return c.Status(status).JSON(errBody)
	}

	var r GoalRequest

	if err := c.BodyParser(&r); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrInvalidRequestBody)
	}

	goal := models.Goal{
		UserProfileID:   profile.ID,
		MonthlySpending: r.MonthlySpending,
		SpendingCushion: r.SpendingCushion,
		CushionAmount:   r.CushionAmount,
	}

	tx := DatabaseConnection.Create(&goal)

	if tx.Error != nil {
		return c.Status(http.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to create goal: " + tx.Error.Error()})
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message": "Goal created successfully!",
		"goal":    SerializeGoal(&goal),
	})
}
