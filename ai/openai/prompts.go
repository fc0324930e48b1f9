package openai

import (
	"fmt"
	"strings"

	"github.com/poiesic/docrag/ai"
)

const sentimentResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "sentiment": {
      "type": "string",
      "enum": ["positive", "negative", "neutral"]
    },
    "confidence": {
      "type": "number",
      "minimum": 0,
      "maximum": 1
    }
  },
  "required": ["sentiment", "confidence"],
  "additionalProperties": false
}`

const sentimentPromptTemplate = `Classify the sentiment of the given text and return the result as JSON.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble, explanation,
greeting, or acknowledgment. Start your response directly with the opening brace { and end with the closing
brace }. Your output must exactly follow this schema:

%s

Rules:
- Sentiment must be exactly one of: %s.
- Confidence is a number from 0 (a pure guess) to 1 (completely certain). Rate how clearly the text expresses the sentiment.
- Judge the overall tone of the whole text, not individual words. Mixed texts with no dominant tone are neutral.
- Factual statements with no emotional charge are neutral.
- The JSON must parse without errors; no trailing commas, no extra keys, and no extraneous text outside the object.

Example (clearly positive):
Input: "This product exceeded all my expectations, absolutely wonderful!"
Output:
{"sentiment":"positive","confidence":0.97}

Example (clearly negative):
Input: "Terrible experience, the support team never responded."
Output:
{"sentiment":"negative","confidence":0.95}

Example (neutral statement of fact):
Input: "The report covers the fiscal year ending in March."
Output:
{"sentiment":"neutral","confidence":0.9}

Example (mixed, leaning positive):
Input: "Shipping was slow but the product itself is great."
Output:
{"sentiment":"positive","confidence":0.6}`

// buildSentimentPrompt creates the system prompt with the valid labels embedded.
func buildSentimentPrompt() string {
	return fmt.Sprintf(sentimentPromptTemplate,
		sentimentResponseSchema,
		strings.Join(ai.SentimentLabels, ", "))
}
