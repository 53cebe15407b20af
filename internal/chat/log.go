package chat

// Turn is one exchange
type Turn struct {
	User  string `json:"user"`
	Reply string `json:"reply"`
}

// Log is an append-only conversation history
type Log []Turn

// Append returns a new history with the turn added; history itself is not modified
func Append(history Log, userMessage, reply string) Log {
	out := make(Log, len(history), len(history)+1)
	copy(out, history)
	return append(out, Turn{User: userMessage, Reply: reply})
}
