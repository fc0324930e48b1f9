package search

import (
	"fmt"
	"strings"
)

// NoAnswerText is returned verbatim when no stored chunk clears the
// similarity threshold. The generator is never consulted in that case.
const NoAnswerText = "Sorry, I could not find any information relevant to your question in the uploaded documents."

const answerPromptTemplate = `You are a professional financial and business analyst. Answer the user's question STRICTLY based on the reference material below.
If the reference material does not contain the answer, reply "This cannot be determined from the current documents." Never fabricate an answer.
Answer in a professional, concise tone.

[Reference material]
%s
[User's question]
%s

Begin your answer:`

// buildAnswerPrompt assembles the generation prompt from the retrieved
// context chunks, numbered in retrieval order, and the user's question.
func buildAnswerPrompt(contexts []string, query string) string {
	var b strings.Builder
	for i, c := range contexts {
		fmt.Fprintf(&b, "[Reference %d]\n%s\n\n", i+1, c)
	}
	return fmt.Sprintf(answerPromptTemplate, b.String(), query)
}
