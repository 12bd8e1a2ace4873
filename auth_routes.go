package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"time"

	"curioApi/models"

	"github.com/alexedwards/argon2id"
	"github.com/gofiber/fiber/v2"
	"google.golang.org/api/idtoken"
	"gorm.io/gorm"
)

// Argon2IdParams these are calibrated to the current hardware
var Argon2IdParams = argon2id.Params{
	Memory:      125000,
	Iterations:  1,
	Parallelism: 12,
	SaltLength:  16,
	KeyLength:   32,
}

var AllowedIssuers = []string{"accounts.google.com", "https://accounts.google.com"}

var ErrTokenRequired = fiber.Map{"error": "Token is required."}
var ErrWrongIssuer = fiber.Map{"error": "Wrong issuer."}
var ErrPersistentTokenInvalid = fiber.Map{"error": "Persistent token invalid."}
var ErrUserNotFound = fiber.Map{"error": "User not found"}

var LetterBytes = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ1234567890"

// verifyGoogleToken is swapped out in tests.
var verifyGoogleToken = func(token string) (*idtoken.Payload, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return idtoken.Validate(ctx, token, ServiceConfig.Google.OAuthClientId)
}

func authRoutes(router fiber.Router) {
	router.Post("/auth/google", doGoogleLogin)
	router.Post("/auth/token", doTokenLogin)
	router.Patch("/auth", JwtRequired, doRefreshToken)
	router.Delete("/auth/token", JwtRequired, doRevokeToken)
	router.Get("/auth/user", JwtRequired, doUserInfo)
	router.Post("/auth/delete-account", JwtRequired, doDeleteAccount)
}

func doGoogleLogin(c *fiber.Ctx) error {
	var g GoogleLoginRequest

	if err := c.BodyParser(&g); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrInvalidRequestBody)
	}

	if g.Token == "" {
		return c.Status(http.StatusBadRequest).JSON(ErrTokenRequired)
	}

	payload, err := verifyGoogleToken(g.Token)

	if err != nil {
		return c.Status(http.StatusUnauthorized).
			JSON(fiber.Map{"error": fmt.Sprintf("Token verification failed: %s", err)})
	}

	issuerAllowed := false

	for _, issuer := range AllowedIssuers {
		if payload.Issuer == issuer {
			issuerAllowed = true
			break
		}
	}

	if !issuerAllowed {
		return c.Status(http.StatusUnauthorized).JSON(ErrWrongIssuer)
	}

	email, _ := payload.Claims["email"].(string)
	givenName, _ := payload.Claims["given_name"].(string)
	familyName, _ := payload.Claims["family_name"].(string)

	if email == "" {
		return c.Status(http.StatusUnauthorized).JSON(ErrInvalidBearerToken)
	}

	var u models.User

	tx := DatabaseConnection.Preload("Profile").Where("email = ?", email).First(&u)

	if tx.Error == gorm.ErrRecordNotFound {
		u = models.User{
			Username:  email,
			Email:     email,
			FirstName: givenName,
			LastName:  familyName,
			CreatedAt: time.Now(),
		}

		tx = DatabaseConnection.Create(&u)

		if tx.Error != nil {
			return c.Status(http.StatusInternalServerError).JSON(ErrInternalServerError)
		}

		// Profile creation is an explicit part of provisioning, not a
		// side effect hung off a save hook.
		profile := models.UserProfile{UserID: u.ID}

		tx = DatabaseConnection.Create(&profile)

		if tx.Error != nil {
			return c.Status(http.StatusInternalServerError).JSON(ErrInternalServerError)
		}

		u.Profile = &profile

		if err := IndexProfile(&u); err != nil {
			log.Printf("failed to index profile %d: %s", u.ID, err)
		}
	} else if tx.Error != nil {
		return c.Status(http.StatusInternalServerError).JSON(ErrInternalServerError)
	}

	token, err := IssueToken(u.ID)

	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(ErrInternalServerError)
	}

	persistentToken := ""

	if g.NeedPersistentToken {
		persistentToken = GeneratePersistentToken()

		hash, err := argon2id.CreateHash(persistentToken, &Argon2IdParams)

		if err != nil {
			return c.Status(http.StatusInternalServerError).JSON(ErrInternalServerError)
		}

		t := models.PersistentToken{
			UserID:    u.ID,
			TokenHash: hash,
			CreatedAt: time.Now(),
		}

		tx = DatabaseConnection.Create(&t)

		if tx.Error != nil {
			return c.Status(http.StatusInternalServerError).JSON(ErrInternalServerError)
		}
	}

	return c.Status(http.StatusOK).JSON(AuthenticationResponse{
		Token:           token,
		PersistentToken: persistentToken,
		UserId:          u.ID,
		Email:           u.Email,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		IsAuthenticated: true,
	})
}

func doTokenLogin(c *fiber.Ctx) error {
	var t TokenLoginRequest

	if err := c.BodyParser(&t); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrInvalidRequestBody)
	}

	if t.UserId == 0 || t.PersistentToken == "" {
		return c.Status(http.StatusBadRequest).JSON(ErrPersistentTokenInvalid)
	}

	var tokens []models.PersistentToken

	tx := DatabaseConnection.Where("user_id = ?", t.UserId).Find(&tokens)

	if tx.Error != nil {
		return c.Status(http.StatusInternalServerError).JSON(ErrInternalServerError)
	}

	matched := false

	for _, stored := range tokens {
		match, err := argon2id.ComparePasswordAndHash(t.PersistentToken, stored.TokenHash)

		if err == nil && match {
			matched = true
			break
		}
	}

	if !matched {
		return c.Status(http.StatusUnauthorized).JSON(ErrPersistentTokenInvalid)
	}

	var u models.User

	tx = DatabaseConnection.First(&u, t.UserId)

	if tx.Error != nil {
		return c.Status(http.StatusUnauthorized).JSON(ErrPersistentTokenInvalid)
	}

	token, err := IssueToken(u.ID)

	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(ErrInternalServerError)
	}

	return c.Status(http.StatusOK).JSON(AuthenticationResponse{
		Token:           token,
		UserId:          u.ID,
		Email:           u.Email,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		IsAuthenticated: true,
	})
}

func GeneratePersistentToken() string {
	b := make([]byte, 128)

	for i := range b {
		b[i] = LetterBytes[rand.Intn(len(LetterBytes))]
	}

	return string(b)
}

func doRefreshToken(c *fiber.Ctx) error {
	userId := CurrentUserId(c)

	var u models.User

	tx := DatabaseConnection.First(&u, userId)

	if tx.Error != nil {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{})
	}

	token, err := IssueToken(userId)

	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(ErrInternalServerError)
	}

	return c.Status(http.StatusOK).JSON(AuthenticationResponse{
		Token:           token,
		UserId:          u.ID,
		Email:           u.Email,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		IsAuthenticated: true,
	})
}

func doRevokeToken(c *fiber.Ctx) error {
	tx := DatabaseConnection.Delete(&models.PersistentToken{}, "user_id = ?", CurrentUserId(c))

	if tx.Error != nil {
		return c.Status(http.StatusInternalServerError).JSON(ErrInternalServerError)
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{})
}

func doUserInfo(c *fiber.Ctx) error {
	var u models.User

	tx := DatabaseConnection.First(&u, CurrentUserId(c))

	if tx.Error != nil {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"is_authenticated": false})
	}

	return c.Status(http.StatusOK).JSON(AuthenticationResponse{
		UserId:          u.ID,
		Email:           u.Email,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		IsAuthenticated: true,
	})
}

// doDeleteAccount removes every blob under the caller's namespace, then the
// caller's rows. This is the only whole-namespace deletion in the system.
func doDeleteAccount(c *fiber.Ctx) error {
	userId := CurrentUserId(c)

	deleted, err := Storage.DeleteByPrefix(UserPrefix(userId))

	if err != nil {
		return c.Status(http.StatusInternalServerError).
			JSON(fiber.Map{"success": false, "message": fmt.Sprintf("Error deleting account: %s", err)})
	}

	log.Printf("deleted %d objects for user %d", deleted, userId)

	err = DatabaseConnection.Transaction(func(tx *gorm.DB) error {
		categoryIds := tx.Model(&models.Category{}).Select("id").Where("user_id = ?", userId)

		if err := tx.Where("category_id IN (?)", categoryIds).Delete(&models.Image{}).Error; err != nil {
			return err
		}

		if err := tx.Where("user_id = ?", userId).Delete(&models.Category{}).Error; err != nil {
			return err
		}

		profileIds := tx.Model(&models.UserProfile{}).Select("id").Where("user_id = ?", userId)

		if err := tx.Where("user_profile_id IN (?)", profileIds).Delete(&models.Goal{}).Error; err != nil {
			return err
		}

		if err := tx.Where("user_id = ?", userId).Delete(&models.UserProfile{}).Error; err != nil {
			return err
		}

		if err := tx.Where("follower_id = ? OR followed_id = ?", userId, userId).Delete(&models.UserFollow{}).Error; err != nil {
			return err
		}

		if err := tx.Where("user_id = ?", userId).Delete(&models.PersistentToken{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.User{}, userId).Error
	})

	if err != nil {
		return c.Status(http.StatusInternalServerError).
			JSON(fiber.Map{"success": false, "message": fmt.Sprintf("Error deleting account: %s", err)})
	}

	return c.Status(http.StatusOK).
		JSON(fiber.Map{"success": true, "message": "Account successfully deleted"})
}
