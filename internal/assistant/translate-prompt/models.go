// internal/assistant/translate-prompt/models.go
package translateprompt

const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// Message is one chat turn sent to the completion endpoint.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Input struct {
	Question    string  `json:"question"`
	Temperature float64 `json:"temperature"`
}

// Output.Answer is either SQL text or "Error: <message>" when Degraded.
type Output struct {
	Answer   string `json:"answer"`
	Degraded bool   `json:"degraded"`
}
