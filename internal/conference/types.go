// ABOUTME: Wire types shared by the HTTP API, the API client, and the web views
// ABOUTME: JSON field names here are the contract between backend and clients

package conference

import "time"

// Registration is an attendee sign-up.
type Registration struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Designation string    `json:"designation"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Speaker is a profile referenced by sessions.
type Speaker struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Bio         string `json:"bio"`
	ImageURL    string `json:"imageUrl,omitempty"`
	LinkedInURL string `json:"linkedinUrl,omitempty"`
	TwitterURL  string `json:"twitterUrl,omitempty"`
}

// Session is a scheduled talk. SpeakerIDs reference Speaker.ID values.
type Session struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Time        string   `json:"time"`
	Duration    string   `json:"duration"`
	SpeakerIDs  []string `json:"speakerIds"`
}

// SessionWithSpeakers is a session with its referenced speakers resolved.
type SessionWithSpeakers struct {
	Session
	Speakers []Speaker `json:"speakers"`
}

// DesignationBreakdown is one row of the designation analytics.
type DesignationBreakdown struct {
	Designation string `json:"designation"`
	Count       int    `json:"count"`
}

// RegisterRequest is the JSON body for POST /api/register.
type RegisterRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Designation string `json:"designation"`
}

// LoginRequest is the JSON body for POST /api/admin/login.
type LoginRequest struct {
	Password string `json:"password"`
}

// LoginResponse carries the admin bearer token.
type LoginResponse struct {
	Token string `json:"token"`
}

// CountResponse is returned by GET /api/registrations/count.
type CountResponse struct {
	Count int `json:"count"`
}

// MessageResponse is returned by delete endpoints.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// DefaultDesignations are offered by the registration form when the
// event config does not list its own.
var DefaultDesignations = []string{
	"Software Engineer",
	"Product Manager",
	"Designer",
	"Data Scientist",
	"Student",
	"Other",
}
