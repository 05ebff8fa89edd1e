package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"
)

// ListingInsights is what the hosted model returns for a new listing.
type ListingInsights struct {
	Description   string   `json:"description"`
	PriceAnalysis string   `json:"priceAnalysis"`
	Tags          []string `json:"tags"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// GenerateListingInsights asks the AI service for an enhanced description,
// price commentary and tags. It is best-effort: on any failure it returns
// the submitted description and no tags, and never blocks the listing write.
func GenerateListingInsights(title, description string, price float64, address, city string) ListingInsights {
	fallback := ListingInsights{Description: description, PriceAnalysis: "AI analysis unavailable", Tags: []string{}}

	apiKey := os.Getenv("AI_API_KEY")
	if apiKey == "" {
		return fallback
	}

	apiURL := os.Getenv("AI_API_URL")
	if apiURL == "" {
		apiURL = "https://api.openai.com/v1/chat/completions"
	}
	model := os.Getenv("AI_MODEL")
	if model == "" {
		model = "gpt-4-turbo-preview"
	}

	prompt := fmt.Sprintf(`As a real estate expert in East Africa, analyze this property:
Title: %s
Description: %s
Price: %.0f KES
Location: %s, %s

Provide an enhanced description (max 200 words), a price analysis against
similar properties in %s, and 5 relevant tags.

Format the response as JSON: {"description": string, "priceAnalysis": string, "tags": [string]}`,
		title, description, price, address, city, city)

	payload, err := json.Marshal(chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: "You are a real estate expert specializing in East African property markets."},
			{Role: "user", Content: prompt},
		},
		Temperature: 0.7,
	})
	if err != nil {
		log.Printf("Failed to marshal AI request: %v", err)
		return fallback
	}

	req, err := http.NewRequest("POST", apiURL, bytes.NewBuffer(payload))
	if err != nil {
		log.Printf("Failed to create AI request: %v", err)
		return fallback
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		log.Printf("AI insight request failed: %v", err)
		return fallback
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("AI insight request failed: received status code %d", resp.StatusCode)
		return fallback
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Printf("Failed to read AI response: %v", err)
		return fallback
	}

	var chat chatResponse
	if err := json.Unmarshal(body, &chat); err != nil || len(chat.Choices) == 0 {
		log.Printf("Failed to parse AI response: %v", err)
		return fallback
	}

	var insights ListingInsights
	if err := json.Unmarshal([]byte(chat.Choices[0].Message.Content), &insights); err != nil {
		log.Printf("AI response was not valid JSON: %v", err)
		return fallback
	}
	if insights.Description == "" {
		insights.Description = description
	}
	if insights.Tags == nil {
		insights.Tags = []string{}
	}
	return insights
}
