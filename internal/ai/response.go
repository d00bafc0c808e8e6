package ai

import (
	"strings"

	"google.golang.org/genai"
)

// textAccessor pulls completion text out of one possible response shape.
type textAccessor func(resp *genai.GenerateContentResponse) string

// textAccessors are tried in order; the first non-empty result wins.
var textAccessors = []textAccessor{
	responseText,
	firstCandidateText,
	anyCandidateText,
}

// ResponseText normalizes resp into plain text. A response without any
// text yields "" rather than an error.
func ResponseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	for _, get := range textAccessors {
		if txt := get(resp); txt != "" {
			return txt
		}
	}
	return ""
}

func responseText(resp *genai.GenerateContentResponse) string {
	return resp.Text()
}

// firstCandidateText reads the parts directly, including thought parts.
func firstCandidateText(resp *genai.GenerateContentResponse) string {
	if len(resp.Candidates) == 0 {
		return ""
	}
	return partsText(resp.Candidates[0].Content)
}

func anyCandidateText(resp *genai.GenerateContentResponse) string {
	for _, c := range resp.Candidates {
		if txt := partsText(c.Content); txt != "" {
			return txt
		}
	}
	return ""
}

func partsText(content *genai.Content) string {
	if content == nil {
		return ""
	}
	var sb strings.Builder
	for _, p := range content.Parts {
		if p != nil {
			sb.WriteString(p.Text)
		}
	}
	return sb.String()
}
