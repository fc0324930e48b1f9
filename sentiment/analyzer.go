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


// Package sentiment provides a standalone sentiment analysis capability.
//
// The Analyzer is structurally separate from ingestion and search: it holds
// its own classifier reference, obtained once at construction, and shares no
// state with the document pipeline.
package sentiment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/poiesic/docrag/ai"
)

// Input and output bounds. Classifier input is truncated to maxInputLen
// runes; the echoed snippet is capped at snippetLen runes.
const (
	maxInputLen = 512
	snippetLen  = 50
)

// displayLabels maps raw classifier labels to the labels shown to callers.
// Unknown labels pass through unchanged.
var displayLabels = map[string]string{
	"positive": "Bullish (Positive)",
	"negative": "Bearish (Negative)",
	"neutral":  "Neutral",
}

var (
	// ErrClassifierRequired is returned when a classifier is not provided.
	ErrClassifierRequired = errors.New("sentiment classifier required")

	// ErrAnalysisFailed wraps classifier failures.
	ErrAnalysisFailed = errors.New("sentiment analysis failed")
)

// Report is the outcome of analyzing one piece of text.
type Report struct {
	Snippet     string  `json:"original_text_snippet"`
	Sentiment   string  `json:"sentiment"`
	Confidence  float64 `json:"confidence_score"`
	Model       string  `json:"model_used"`
	ProcessTime float64 `json:"process_time_seconds"`
}

// Analyzer classifies the emotional tone of arbitrary text.
type Analyzer struct {
	classifier ai.SentimentClassifier
	model      string
	logger     *slog.Logger
}

// NewAnalyzer creates an analyzer around the given classifier. The model
// name is echoed in every Report.
func NewAnalyzer(classifier ai.SentimentClassifier, model string) (*Analyzer, error) {
	if classifier == nil {
		return nil, ErrClassifierRequired
	}
	return &Analyzer{
		classifier: classifier,
		model:      model,
		logger:     slog.Default().With("component", "sentiment-analyzer"),
	}, nil
}

// Analyze classifies text and reports the display label, confidence and
// processing latency. Input beyond maxInputLen runes is truncated before the
// model call.
func (a *Analyzer) Analyze(ctx context.Context, text string) (*Report, error) {
	text = truncateRunes(text, maxInputLen)

	start := time.Now()
	result, err := a.classifier.Classify(ctx, text)
	if err != nil {
		a.logger.Error("classification failed", "err", err)
		return nil, fmt.Errorf("%w: %w", ErrAnalysisFailed, err)
	}
	elapsed := time.Since(start).Seconds()

	label := result.Label
	if display, ok := displayLabels[label]; ok {
		label = display
	}

	a.logger.Debug("analyzed sentiment",
		"label", label,
		"confidence", result.Confidence)

	return &Report{
		Snippet:     truncateRunes(text, snippetLen),
		Sentiment:   label,
		Confidence:  round(result.Confidence, 4),
		Model:       a.model,
		ProcessTime: round(elapsed, 3),
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

// round rounds v to the given number of decimal places.
func round(v float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(v*factor) / factor
}
