package ai

import (
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// Input identifies one bookmark to categorize. Two inputs with the same
// (URL, Title, Description) tuple are the same categorization request.
type Input struct {
	URL         string `json:"url"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

// Validate checks that the input carries a well-formed URL.
func (in Input) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.URL, validation.Required, is.URL),
	)
}

// Result is a categorization outcome. Category is always a member of the
// taxonomy once it has passed through the service.
type Result struct {
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning,omitempty"`
}

const systemPrompt = `You are an expert at categorizing bookmarks based on their URL, title, and description.

Your task is to analyze the provided bookmark information and assign it to the most appropriate category from this predefined list:
%s

Guidelines:
- Choose the MOST SPECIFIC category that fits the content
- If the content spans multiple categories, choose the PRIMARY one
- Use "Development" for programming, coding, software development content
- Use "Design" for UI/UX, graphic design, creative tools
- Use "Tools & Utilities" for productivity apps, browser extensions, general tools
- Use "Documentation" for official docs, API references, technical guides
- Use "Reference" for wikis, dictionaries, general reference materials
- Use "Technology" for tech news, hardware, general technology topics
- Use "Uncategorized" only when the content doesn't clearly fit any other category

Respond with a JSON object containing:
- category: string (must be exactly one of the predefined categories)
- confidence: number (0.0 to 1.0, where 1.0 is completely certain)
- reasoning: string (brief explanation of why this category was chosen)

Be decisive and confident in your categorization. Aim for confidence scores above 0.7 when possible.`

// buildPrompt assembles the full prompt sent to the LLM for one bookmark.
func buildPrompt(in Input) string {
	var b strings.Builder
	fmt.Fprintf(&b, systemPrompt, strings.Join(Categories, ", "))
	b.WriteString("\n\nPlease categorize this bookmark:\n\n")
	fmt.Fprintf(&b, "URL: %s", in.URL)
	if in.Title != "" {
		fmt.Fprintf(&b, "\nTitle: %s", in.Title)
	}
	if in.Description != "" {
		fmt.Fprintf(&b, "\nDescription: %s", in.Description)
	}
	return b.String()
}

// cacheKey derives a collision-free cache key from the input identity.
// Fields are length-prefixed so that separator characters inside a field
// cannot alias two distinct inputs.
func cacheKey(in Input) string {
	return fmt.Sprintf("%d:%s|%d:%s|%d:%s",
		len(in.URL), in.URL,
		len(in.Title), in.Title,
		len(in.Description), in.Description)
}
