package domain

// WebSocketMessage is the standard envelope for every event pushed over a
// live connection.
type WebSocketMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Push event types delivered over a live connection.
const (
	// EventNewMessage carries one Message record, exactly as stored.
	EventNewMessage = "new_message"
	// EventPresenceChanged carries the complete current online set, never a
	// diff, so a client that missed an update self-heals on the next one.
	EventPresenceChanged = "presence_changed"
)

// PresencePayload is the payload of a presence_changed event.
type PresencePayload struct {
	OnlineUserIDs []string `json:"onlineUserIds"`
}

// SendMessageRequest is the body of a send request. The receiver comes from
// the URL path; at least one of Text/Image must be present.
type SendMessageRequest struct {
	Text  string `json:"text,omitempty"`
	Image string `json:"image,omitempty"`
}

// SignupRequest is the body of a signup request.
type SignupRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the body of a login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateProfileRequest is the body of a profile update. Zero-valued fields
// are left unchanged.
type UpdateProfileRequest struct {
	FullName   string `json:"fullName,omitempty"`
	Email      string `json:"email,omitempty"`
	Password   string `json:"password,omitempty"`
	ProfilePic string `json:"profilePic,omitempty"`
}
