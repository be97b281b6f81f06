package gemini

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"

	"github.com/scanify/backend/internal/domain"
)

const extractionInstructions = `You are reading a monthly stock and sales statement sent by a pharmaceutical stockist.
Extract every product row. Return only a JSON array, one object per row, with these fields:
  product_name  the product name exactly as printed
  pack          the pack size as printed, empty if missing
  product_code  the code from the catalog below when you are certain, otherwise empty
  opening_qty, purchase_qty, sales_qty, free_qty, return_qty, misc_out_qty  numbers, 0 when missing
Do not invent rows. Skip totals, headers and blank lines.

Product catalog (code | name | pack):
`

// buildParts assembles the prompt and the document for one request
func buildParts(doc domain.Document, catalog []domain.Product) ([]genai.Part, error) {
	if len(doc.Data) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", domain.ErrUnsupportedFile, doc.Name)
	}

	var prompt strings.Builder
	prompt.WriteString(extractionInstructions)
	for _, p := range catalog {
		fmt.Fprintf(&prompt, "%s | %s | %s\n", p.Code, p.Name, p.Pack)
	}

	switch {
	case doc.MIMEType == "application/pdf", strings.HasPrefix(doc.MIMEType, "image/"):
		return []genai.Part{
			genai.Text(prompt.String()),
			genai.Blob{MIMEType: doc.MIMEType, Data: doc.Data},
		}, nil
	case strings.HasPrefix(doc.MIMEType, "text/"):
		prompt.WriteString("\nStatement content:\n")
		prompt.Write(doc.Data)
		return []genai.Part{genai.Text(prompt.String())}, nil
	default:
		return nil, fmt.Errorf("%w: %s (%s)", domain.ErrUnsupportedFile, doc.Name, doc.MIMEType)
	}
}

// ParseItems decodes the model output. It accepts a bare array or an object with an
// "items" array, optionally wrapped in a markdown code fence.
func ParseItems(text string) ([]domain.ExtractedItem, error) {
	text = stripCodeFence(text)
	if text == "" {
		return nil, fmt.Errorf("empty response")
	}

	var items []domain.ExtractedItem
	if strings.HasPrefix(text, "{") {
		var wrapped struct {
			Items []domain.ExtractedItem `json:"items"`
		}
		if err := json.Unmarshal([]byte(text), &wrapped); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
		items = wrapped.Items
	} else if err := json.Unmarshal([]byte(text), &items); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	out := items[:0]
	for _, item := range items {
		item.Name = strings.TrimSpace(item.Name)
		item.Pack = strings.TrimSpace(item.Pack)
		item.ProductCode = strings.TrimSpace(item.ProductCode)
		if item.Name == "" && item.ProductCode == "" {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

func stripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimPrefix(text, "json")
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}
