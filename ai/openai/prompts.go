package openai

import (
	"fmt"
	"strings"
)

const judgeSystemPrompt = `You grade the answer a question-answering system produced.

Output ONLY valid JSON. Do not include any preamble, explanation,
greeting, or acknowledgment. Start your response directly with the opening
brace { and end with the closing brace }. Your output must exactly follow
this schema:

{
  "relevance": <number between 0.0 and 1.0>,
  "reason": "<one short sentence>"
}

Rules:
- relevance is 1.0 when the answer fully and correctly addresses the question using the provided context.
- relevance is 0.0 when the answer is unrelated to the question or contradicts the context.
- An answer that correctly states the context does not contain the information scores at least 0.5.
- Judge only against the provided context; do not use outside knowledge.
- The JSON must parse without errors; no trailing commas, no extra keys, and no extraneous text outside the object.`

// buildJudgePrompt assembles the user message the judge model grades.
func buildJudgePrompt(question, answer string, contexts []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Question:\n%s\n\n", question)
	fmt.Fprintf(&b, "Answer:\n%s\n\n", answer)
	b.WriteString("Context passages:\n")
	for i, c := range contexts {
		fmt.Fprintf(&b, "[%d] %s\n", i+1, c)
	}
	return b.String()
}
