package chat

// FallbackMessage is shown in place of a reply whenever a request fails.
const FallbackMessage = "Sorry, something went wrong. Please try again."

// ChatPath is the endpoint every message is posted to.
const ChatPath = "/api/chat"

type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

// Entry is one rendered message in the log.
type Entry struct {
	Role Role
	Text string
}

// Request is the body posted to the chat endpoint.
type Request struct {
	Message string `json:"message"`
}

// Response is the body returned by the chat endpoint on success.
type Response struct {
	Reply string `json:"reply"`
}
