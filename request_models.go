package main

import "github.com/gofiber/fiber/v2"

var ErrInvalidRequestBody = fiber.Map{"error": "Invalid request body."}
var ErrInternalServerError = fiber.Map{"error": "Internal server error."}

type GoogleLoginRequest struct {
	Token               string `json:"token"`
	NeedPersistentToken bool   `json:"need_persistent_token"`
}

type TokenLoginRequest struct {
	UserId          uint   `json:"user_id"`
	PersistentToken string `json:"persistent_token"`
}

type AuthenticationResponse struct {
	Token           string `json:"token"`
	PersistentToken string `json:"persistent_token"`
	UserId          uint   `json:"user_id"`
	Email           string `json:"email"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	IsAuthenticated bool   `json:"is_authenticated"`
}

type CreateCategoryRequest struct {
	Name     string `json:"name"`
	IsPublic *bool  `json:"is_public"`
	Tags     any    `json:"tags"`
}

type UpdateTagsRequest struct {
	Tags any `json:"tags"`
}

type BulkDeleteRequest struct {
	ImageIds []uint `json:"image_ids"`
}

type FollowRequest struct {
	UserId uint `json:"user_id"`
}

type GoalRequest struct {
	MonthlySpending float64  `json:"monthly_spending"`
	SpendingCushion bool     `json:"spending_cushion"`
	CushionAmount   *float64 `json:"cushion_amount"`
}

type GenerateAIFieldsRequest struct {
	Title      string `json:"title"`
	Collection string `json:"collection"`
	IsWishlist bool   `json:"is_wishlist"`
}
