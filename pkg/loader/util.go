package loader

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/OFFIS-RIT/kiwi-ke/internal/util"

	"github.com/pkoukk/tiktoken-go"
)

// DefaultMaxChars caps the document text handed to the inference service.
const DefaultMaxChars = 500_000

// TextLimits controls how document text is cut before extraction.
// MaxTokens <= 0 disables token based truncation.
type TextLimits struct {
	MaxChars     int
	MaxTokens    int
	TokenEncoder string
}

// CacheKey identifies a file in loader caches.
func CacheKey(file GraphFile) string {
	return file.ID + ":" + file.FilePath
}

// PrepareText sanitizes document text and truncates it to the configured
// limits. Whitespace-only text is returned as an empty string.
func PrepareText(text string, limits TextLimits) (string, error) {
	text = util.SanitizeText(text)
	if strings.TrimSpace(text) == "" {
		return "", nil
	}

	maxChars := limits.MaxChars
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	text = truncateRunes(text, maxChars)

	if limits.MaxTokens > 0 {
		encoder := limits.TokenEncoder
		if encoder == "" {
			encoder = "o200k_base"
		}
		enc, err := tiktoken.GetEncoding(encoder)
		if err != nil {
			return "", fmt.Errorf("token encoder %q: %w", encoder, err)
		}
		tokens := enc.Encode(text, nil, nil)
		if len(tokens) > limits.MaxTokens {
			text = enc.Decode(tokens[:limits.MaxTokens])
		}
	}

	return text, nil
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
