package main

import (
	"time"

	"curioApi/models"

	"github.com/lib/pq"
)

type ImageResponse struct {
	Id           uint           `json:"id"`
	Title        string         `json:"title"`
	Path         string         `json:"path"`
	PresignedUrl *string        `json:"presigned_url"`
	Category     uint           `json:"category"`
	UploadedAt   time.Time      `json:"uploaded_at"`
	Description  string         `json:"description"`
	Valuation    *float64       `json:"valuation"`
	Tags         pq.StringArray `json:"tags"`
	PurchaseUrl  string         `json:"purchase_url"`
	IsWishlist   bool           `json:"is_wishlist"`
}

type CategoryResponse struct {
	Id                        uint            `json:"id"`
	Name                      string          `json:"name"`
	CreatedAt                 time.Time       `json:"created_at"`
	PlaceholderImage          string          `json:"placeholder_image"`
	PlaceholderPresignedUrl   *string         `json:"placeholder_presigned_url"`
	Images                    []ImageResponse `json:"images"`
	IsPublic                  bool            `json:"is_public"`
	IsWishlist                bool            `json:"is_wishlist"`
	Tags                      pq.StringArray  `json:"tags"`
}

type UserProfileResponse struct {
	Id                uint               `json:"id"`
	Username          string             `json:"username"`
	Email             string             `json:"email"`
	FirstName         string             `json:"first_name"`
	LastName          string             `json:"last_name"`
	FollowerCount     int64              `json:"follower_count"`
	FollowingCount    int64              `json:"following_count"`
	IsFollowing       bool               `json:"is_following"`
	Categories        []CategoryResponse `json:"categories"`
	Bio               string             `json:"bio"`
	DisplayName       string             `json:"display_name"`
	ProfilePicture    string             `json:"profile_picture"`
	ProfilePictureUrl *string            `json:"profile_picture_url"`
}

type GoalResponse struct {
	Id              uint      `json:"id"`
	MonthlySpending float64   `json:"monthly_spending"`
	SpendingCushion bool      `json:"spending_cushion"`
	CushionAmount   *float64  `json:"cushion_amount"`
	CreatedAt       time.Time `json:"created_at"`
}

func presignedOrNil(path string) *string {
	if path == "" {
		return nil
	}

	link := PresignedOrEmpty(path)

	if link == "" {
		return nil
	}

	return &link
}

func emptyTags(tags pq.StringArray) pq.StringArray {
	if tags == nil {
		return pq.StringArray{}
	}

	return tags
}

func SerializeImage(image *models.Image) ImageResponse {
	return ImageResponse{
		Id:           image.ID,
		Title:        image.Title,
		Path:         image.Path,
		PresignedUrl: presignedOrNil(image.Path),
		Category:     image.CategoryID,
		UploadedAt:   image.UploadedAt,
		Description:  image.Description,
		Valuation:    image.Valuation,
		Tags:         emptyTags(image.Tags),
		PurchaseUrl:  image.PurchaseURL,
		IsWishlist:   image.IsWishlist,
	}
}

func SerializeCategory(category *models.Category) CategoryResponse {
	images := make([]ImageResponse, 0, len(category.Images))

	for i := range category.Images {
		images = append(images, SerializeImage(&category.Images[i]))
	}

	return CategoryResponse{
		Id:                      category.ID,
		Name:                    category.Name,
		CreatedAt:               category.CreatedAt,
		PlaceholderImage:        category.PlaceholderImage,
		PlaceholderPresignedUrl: presignedOrNil(category.PlaceholderImage),
		Images:                  images,
		IsPublic:                category.IsPublic,
		IsWishlist:              category.IsWishlist,
		Tags:                    emptyTags(category.Tags),
	}
}

// SerializeUserProfile builds the public profile view. requesterId is the
// authenticated caller, used only for the is_following flag.
func SerializeUserProfile(user *models.User, requesterId uint) UserProfileResponse {
	var followerCount int64
	var followingCount int64
	var isFollowingCount int64

	DatabaseConnection.Model(&models.UserFollow{}).Where("followed_id = ?", user.ID).Count(&followerCount)
	DatabaseConnection.Model(&models.UserFollow{}).Where("follower_id = ?", user.ID).Count(&followingCount)

	if requesterId != 0 && requesterId != user.ID {
		DatabaseConnection.Model(&models.UserFollow{}).
			Where("follower_id = ? AND followed_id = ?", requesterId, user.ID).
			Count(&isFollowingCount)
	}

	var categories []models.Category
	DatabaseConnection.Preload("Images").Where("user_id = ?", user.ID).Order("id").Find(&categories)

	serialized := make([]CategoryResponse, 0, len(categories))

	for i := range categories {
		serialized = append(serialized, SerializeCategory(&categories[i]))
	}

	response := UserProfileResponse{
		Id:             user.ID,
		Username:       user.Username,
		Email:          user.Email,
		FirstName:      user.FirstName,
		LastName:       user.LastName,
		FollowerCount:  followerCount,
		FollowingCount: followingCount,
		IsFollowing:    isFollowingCount > 0,
		Categories:     serialized,
	}

	if user.Profile != nil {
		response.Bio = user.Profile.Bio
		response.DisplayName = user.Profile.DisplayName
		response.ProfilePicture = user.Profile.ProfilePicture
		response.ProfilePictureUrl = presignedOrNil(user.Profile.ProfilePicture)
	}

	return response
}

func SerializeGoal(goal *models.Goal) GoalResponse {
	return GoalResponse{
		Id:              goal.ID,
		MonthlySpending: goal.MonthlySpending,
		SpendingCushion: goal.SpendingCushion,
		CushionAmount:   goal.CushionAmount,
		CreatedAt:       goal.CreatedAt,
	}
}
