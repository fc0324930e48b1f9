// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/poiesic/docrag/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// maxClassifierInput bounds the classifier input length in runes.
// Longer texts are truncated before the model call.
const maxClassifierInput = 512

// SentimentClassifier implements ai.SentimentClassifier using
// OpenAI-compatible chat APIs.
type SentimentClassifier struct {
	client llms.Model
	logger *slog.Logger
}

// verdict is an internal type used for JSON unmarshaling.
// It matches the structure expected from the LLM.
type verdict struct {
	Sentiment  string  `json:"sentiment"`
	Confidence float64 `json:"confidence"`
}

// newSentimentClassifier is an internal constructor that returns the concrete
// type. Used by Provider to manage the instance.
func newSentimentClassifier(config *ai.Config) (*SentimentClassifier, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Use "none" as token for local OpenAI-compatible services that don't
	// require authentication
	client, err := openai.New(
		openai.WithBaseURL(config.ClassifierHost),
		openai.WithToken("none"),
		openai.WithModel(config.ClassifierModel),
	)
	if err != nil {
		return nil, err
	}

	return &SentimentClassifier{
		client: client,
		logger: slog.Default().With("component", "openai-classifier"),
	}, nil
}

// NewSentimentClassifier creates a new sentiment classifier using the
// provided configuration.
//
// Returns ai.SentimentClassifier interface to enforce abstraction.
func NewSentimentClassifier(config *ai.Config) (ai.SentimentClassifier, error) {
	return newSentimentClassifier(config)
}

// Classify determines the sentiment of the text using an LLM chat call with a
// strict-JSON prompt. Input longer than maxClassifierInput runes is truncated.
func (c *SentimentClassifier) Classify(ctx context.Context, text string) (ai.Sentiment, error) {
	text = truncateRunes(text, maxClassifierInput)

	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(buildSentimentPrompt()),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(text),
			},
		},
	}

	// Try up to 3 times in case of malformed JSON
	var result verdict
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		response, err := c.client.GenerateContent(ctx, content, llms.WithTemperature(0.0), llms.WithJSONMode())
		if err != nil {
			c.logger.Error("failed to generate content", "attempt", attempt+1, "err", err)
			return ai.Sentiment{}, err
		}

		if len(response.Choices) < 1 {
			lastErr = fmt.Errorf("no choices returned from model")
			c.logger.Warn("no choices returned from model", "attempt", attempt+1)
			continue
		}

		choice := response.Choices[0]

		// Strip markdown code fences if present
		responseText := strings.TrimSpace(choice.Content)
		responseText = strings.TrimPrefix(responseText, "```json")
		responseText = strings.TrimPrefix(responseText, "```")
		responseText = strings.TrimSuffix(responseText, "```")
		responseText = strings.TrimSpace(responseText)

		// Try to repair common JSON issues
		responseText = repairJSON(responseText)

		if err := json.Unmarshal([]byte(responseText), &result); err != nil {
			lastErr = err
			c.logger.Warn("error parsing classifier response",
				"attempt", attempt+1,
				"response", responseText,
				"err", err)
			continue
		}

		result.Sentiment = strings.ToLower(strings.TrimSpace(result.Sentiment))
		if !slices.Contains(ai.SentimentLabels, result.Sentiment) {
			lastErr = fmt.Errorf("unexpected sentiment label %q", result.Sentiment)
			c.logger.Warn("unexpected sentiment label",
				"attempt", attempt+1,
				"label", result.Sentiment)
			continue
		}

		// Success
		lastErr = nil
		break
	}

	if lastErr != nil {
		c.logger.Error("failed to classify sentiment after retries", "err", lastErr)
		return ai.Sentiment{}, lastErr
	}

	// Clamp confidence to [0, 1]
	if result.Confidence < 0 {
		result.Confidence = 0
	}
	if result.Confidence > 1 {
		result.Confidence = 1
	}

	c.logger.Debug("classified sentiment",
		"label", result.Sentiment,
		"confidence", result.Confidence)

	return ai.Sentiment{
		Label:      result.Sentiment,
		Confidence: result.Confidence,
	}, nil
}

// truncateRunes shortens s to at most n runes.
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
