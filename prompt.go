package main

import "github.com/muhammadolammi/profiletracer/internal/assistant"

const (
	agentName        = "profile mascot"
	agentDescription = "Answer students about their skills, certificates and careers"
)

func prompt() string {
	return assistant.MascotInstruction + `

Every message carries the userContext as JSON after CONTEXT and the question after USER MESSAGE.
Answer only the question. Reply in plain text, without JSON or markdown headings.
If the context does not hold what the user asks about, say so instead of guessing.
`
}
