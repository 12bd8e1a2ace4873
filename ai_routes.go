package main

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
)

var ErrTitleCollectionRequired = fiber.Map{"error": "Title and collection are required."}

var jsonBlockRegex = regexp.MustCompile(`(?s)\{.*\}`)

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func aiRoutes(router fiber.Router) {
	router.Post("/generate-ai-fields", JwtRequired, generateAIFields)
}

func buildAIPrompt(title string, collection string, isWishlist bool) string {
	purchaseLine := ""

	if isWishlist {
		purchaseLine = "Also provide a purchase URL."
	}

	return fmt.Sprintf(`Based off the title '%s' and in the collection '%s', find a purchase_url where the item is sold, generate a creative but brief description no more than 30 words, and based off the link found, use the value in that link (no ranges, no text, just a number), and three relevant tags for that item. %s

Respond ONLY in JSON format like this:
{
"description": "A brief description...",
"valuation": 250,
"tags": ["tag1", "tag2", "tag3"],
"purchase_url": "https://example.com/item"
}`, title, collection, purchaseLine)
}

// generateAIFields asks the generative text collaborator to fill in item
// metadata. Failures surface to the caller, never silently defaulted.
func generateAIFields(c *fiber.Ctx) error {
	var r GenerateAIFieldsRequest

	if err := c.BodyParser(&r); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrInvalidRequestBody)
	}

	if r.Title == "" || r.Collection == "" {
		return c.Status(http.StatusBadRequest).JSON(ErrTitleCollectionRequired)
	}

	body, err := sonic.Marshal(geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: buildAIPrompt(r.Title, r.Collection, r.IsWishlist)}}},
		},
	})

	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(ErrInternalServerError)
	}

	timeout := time.Duration(ServiceConfig.Gemini.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	client := http.Client{Timeout: timeout}
	endpoint := fmt.Sprintf(ServiceConfig.Gemini.Url, ServiceConfig.Gemini.ApiKey)

	resp, err := client.Post(endpoint, "application/json", bytes.NewReader(body))

	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.Status(http.StatusInternalServerError).
			JSON(fiber.Map{"error": fmt.Sprintf("Generative API returned %s", resp.Status)})
	}

	raw, err := io.ReadAll(resp.Body)

	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	var parsed geminiResponse

	if err := sonic.Unmarshal(raw, &parsed); err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return c.Status(http.StatusInternalServerError).
			JSON(fiber.Map{"error": "No content in AI response."})
	}

	text := parsed.Candidates[0].Content.Parts[0].Text

	fields, err := ExtractAIFields(text)

	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(http.StatusOK).JSON(fields)
}

// ExtractAIFields pulls the first JSON object out of the model's reply,
// which tends to wrap it in prose or code fences.
func ExtractAIFields(text string) (map[string]any, error) {
	block := jsonBlockRegex.FindString(text)

	if block == "" {
		return nil, fmt.Errorf("No JSON found in AI response.")
	}

	var fields map[string]any

	if err := sonic.Unmarshal([]byte(block), &fields); err != nil {
		return nil, fmt.Errorf("Failed to parse JSON: %s", err)
	}

	return fields, nil
}
