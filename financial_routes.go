package main

import (
	"net/http"
	"sort"
	"time"

	"curioApi/models"

	"github.com/gofiber/fiber/v2"
)

type CollectionPrice struct {
	CollectionName string  `json:"collectionName"`
	Price          float64 `json:"price"`
}

type MonthlySpending struct {
	Month  string  `json:"month"`
	Amount float64 `json:"amount"`
}

type FinancialReport struct {
	TotalSpending   float64           `json:"totalSpending"`
	Collections     []CollectionPrice `json:"collections"`
	MonthlySpending []MonthlySpending `json:"monthlySpending"`
}

type ProfileStatsResponse struct {
	TotalValue       float64 `json:"totalValue"`
	TotalCollections int     `json:"totalCollections"`
	TotalItems       int     `json:"totalItems"`
}

func financialRoutes(router fiber.Router) {
	router.Get("/financial-data", JwtRequired, financialData)
	router.Get("/profiles/stats", JwtRequired, profileStats)
}

// ownedSpendingCategories loads the caller's non-wishlist categories with
// their images, the basis for every derived financial figure.
func ownedSpendingCategories(userId uint) ([]models.Category, error) {
	var categories []models.Category

	tx := DatabaseConnection.Preload("Images").
		Where("user_id = ? AND is_wishlist = ?", userId, false).
		Order("id").
		Find(&categories)

	return categories, tx.Error
}

// BuildFinancialReport derives spending figures from non-wishlist items in
// non-wishlist categories. Nothing here is ever persisted; totals are zero,
// not null, when no items qualify.
func BuildFinancialReport(categories []models.Category, now time.Time) FinancialReport {
	report := FinancialReport{
		Collections:     make([]CollectionPrice, 0, len(categories)),
		MonthlySpending: make([]MonthlySpending, 0),
	}

	twelveMonthsAgo := now.Add(-365 * 24 * time.Hour)
	monthly := make(map[string]float64)

	for i := range categories {
		category := &categories[i]
		price := 0.0

		for j := range category.Images {
			image := &category.Images[j]

			if image.IsWishlist || image.Valuation == nil {
				continue
			}

			price += *image.Valuation
			report.TotalSpending += *image.Valuation

			if image.UploadedAt.After(twelveMonthsAgo) {
				monthly[image.UploadedAt.Format("2006-01")] += *image.Valuation
			}
		}

		report.Collections = append(report.Collections, CollectionPrice{
			CollectionName: category.Name,
			Price:          price,
		})
	}

	months := make([]string, 0, len(monthly))

	for month := range monthly {
		months = append(months, month)
	}

	sort.Strings(months)

	for _, month := range months {
		report.MonthlySpending = append(report.MonthlySpending, MonthlySpending{
			Month:  month,
			Amount: monthly[month],
		})
	}

	return report
}

// BuildProfileStats counts collections and items and sums their value.
func BuildProfileStats(categories []models.Category) ProfileStatsResponse {
	stats := ProfileStatsResponse{TotalCollections: len(categories)}

	for i := range categories {
		for j := range categories[i].Images {
			image := &categories[i].Images[j]

			if image.IsWishlist {
				continue
			}

			stats.TotalItems++

			if image.Valuation != nil {
				stats.TotalValue += *image.Valuation
			}
		}
	}

	return stats
}

func financialData(c *fiber.Ctx) error {
	categories, err := ownedSpendingCategories(CurrentUserId(c))

	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(ErrInternalServerError)
	}

	return c.Status(http.StatusOK).JSON(BuildFinancialReport(categories, time.Now()))
}

func profileStats(c *fiber.Ctx) error {
	categories, err := ownedSpendingCategories(CurrentUserId(c))

	if err != nil {
		return c.Status(http.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to fetch profile stats: " + err.Error()})
	}

	return c.Status(http.StatusOK).JSON(BuildProfileStats(categories))
}
