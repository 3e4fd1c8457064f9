// Singleton records and their blob-per-key storage. The original persisted
// layout keeps one JSON blob per key (userProfile, notificationSettings,
// userType, language, hasOnboarded); the Pref table preserves that layout
// while collections get proper per-row tables.
package domain

import "time"

// Preference keys recognized by the prefs store.
const (
	PrefUserProfile          = "userProfile"
	PrefNotificationSettings = "notificationSettings"
	PrefUserType             = "userType"
	PrefLanguage             = "language"
	PrefHasOnboarded         = "hasOnboarded"
)

// Pref is a single key/value row holding a JSON-serialized singleton record.
type Pref struct {
	Key       string    `json:"key"   gorm:"type:varchar(64);primaryKey"`
	Value     string    `json:"value" gorm:"type:text;not null"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for Pref.
func (Pref) TableName() string { return "prefs" }

// Verification statuses for the identity/credential review workflow.
const (
	VerificationUnverified = "unverified"
	VerificationPending    = "pending"
	VerificationVerified   = "verified"
	VerificationRejected   = "rejected"
)

// Verification document types.
const (
	DocumentID            = "id"
	DocumentLicense       = "license"
	DocumentInsurance     = "insurance"
	DocumentCertification = "certification"
)

// VerificationDocument is a reference to an uploaded credential image.
type VerificationDocument struct {
	Type        string    `json:"type"`
	ImageURI    string    `json:"image_uri"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// UserProfile is the current user's profile record. One record per
// deployment; mutated wholesale via partial-update merge.
type UserProfile struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Profession  string          `json:"profession,omitempty"`
	Email       string          `json:"email"`
	Phone       string          `json:"phone"`
	Location    string          `json:"location"`
	Coordinates *LocationCoords `json:"coordinates,omitempty"`
	Avatar      string          `json:"avatar,omitempty"`

	Rating          float64 `json:"rating"`
	ReviewCount     int     `json:"review_count"`
	CompletedJobs   int     `json:"completed_jobs"`
	YearsExperience int     `json:"years_experience"`
	ResponseTime    string  `json:"response_time,omitempty"`

	About  string   `json:"about,omitempty"`
	Skills []string `json:"skills,omitempty"`

	VerificationStatus      string                 `json:"verification_status"`
	VerificationDocuments   []VerificationDocument `json:"verification_documents,omitempty"`
	VerificationSubmittedAt *time.Time             `json:"verification_submitted_at,omitempty"`
	VerificationCompletedAt *time.Time             `json:"verification_completed_at,omitempty"`
}

// NotificationSettings gates whether each notification type is created at
// all: a disabled toggle suppresses creation, not just display.
type NotificationSettings struct {
	PushEnabled            bool `json:"push_enabled"`
	NewJobNotifications    bool `json:"new_job_notifications"`
	NewOfferNotifications  bool `json:"new_offer_notifications"`
	MessageNotifications   bool `json:"message_notifications"`
	JobStatusNotifications bool `json:"job_status_notifications"`
	SoundEnabled           bool `json:"sound_enabled"`
	VibrationEnabled       bool `json:"vibration_enabled"`
}

// DefaultNotificationSettings returns the settings applied before the user
// has saved any preference: everything enabled.
func DefaultNotificationSettings() NotificationSettings {
	return NotificationSettings{
		PushEnabled:            true,
		NewJobNotifications:    true,
		NewOfferNotifications:  true,
		MessageNotifications:   true,
		JobStatusNotifications: true,
		SoundEnabled:           true,
		VibrationEnabled:       true,
	}
}
