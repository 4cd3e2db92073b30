// Package types holds the domain models shared between the API client, the
// match-session engine and the UI. Shapes mirror the backend's JSON verbatim;
// the client never derives or recomputes server-owned fields.
package types

import "time"

// CandidateProfile is a profile as returned by the browse endpoint.
// Immutable from the client's perspective for the lifetime of a match session.
type CandidateProfile struct {
	ID             int       `json:"id"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Age            int       `json:"age"`
	Location       string    `json:"location"`
	Biography      string    `json:"biography"`
	FameRating     float64   `json:"fame_rating"`
	IsOnline       bool      `json:"is_online"`
	LastSeen       time.Time `json:"last_seen"`
	ProfilePicture string    `json:"profile_picture"`
	Tags           []string  `json:"tags"`
	DistanceKm     *float64  `json:"distance_km,omitempty"`
}

// DisplayName is the profile's presentation name.
func (p CandidateProfile) DisplayName() string {
	if p.LastName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

// OwnProfile is the authenticated user's editable profile.
type OwnProfile struct {
	ID               int      `json:"id"`
	Email            string   `json:"email"`
	FirstName        string   `json:"first_name"`
	LastName         string   `json:"last_name"`
	Age              int      `json:"age"`
	Gender           string   `json:"gender"`
	SexualPreference string   `json:"sexual_preference"`
	Location         string   `json:"location"`
	Biography        string   `json:"biography"`
	FameRating       float64  `json:"fame_rating"`
	ProfilePicture   string   `json:"profile_picture"`
	Tags             []string `json:"tags"`
}

// Tag is a shared interest tag.
type Tag struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Notification is a server-side event addressed to the current user.
type Notification struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"` // like, unlike, visit, message, match
	FromID    int       `json:"from_id"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// Message is one chat message between two connected users.
// Pending marks a locally-sent message the server has not echoed back yet;
// it is never serialized.
type Message struct {
	ID       int       `json:"id"`
	SenderID int       `json:"sender_id"`
	Content  string    `json:"content"`
	SentAt   time.Time `json:"sent_at"`
	Pending  bool      `json:"-"`
}

// Connection is a mutual like, which unlocks chat.
type Connection struct {
	UserID         int       `json:"user_id"`
	FirstName      string    `json:"first_name"`
	ProfilePicture string    `json:"profile_picture"`
	IsOnline       bool      `json:"is_online"`
	LastSeen       time.Time `json:"last_seen"`
	LastMessage    string    `json:"last_message,omitempty"`
}
