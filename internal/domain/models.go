// Package domain defines the persistence models for the HomeFix marketplace:
// jobs, price offers, per-job chat conversations, and in-app notifications.
// These types are mapped with GORM and form the core data layer of the
// application. Singleton records (user profile, notification settings) live
// in domain/prefs.go and are persisted as JSON blobs rather than rows.
package domain

import (
	"time"

	"gorm.io/gorm"
)

// Job statuses. Transitions are monotonic: pending → in-progress → completed.
// A job reaches in-progress only through acceptance of exactly one offer.
const (
	JobStatusPending    = "pending"
	JobStatusInProgress = "in-progress"
	JobStatusCompleted  = "completed"
)

// Job urgency levels.
const (
	UrgencyLow    = "low"
	UrgencyMedium = "medium"
	UrgencyHigh   = "high"
)

// Offer statuses. Exactly one offer per job may become accepted; its
// siblings are force-declined at that moment.
const (
	OfferStatusPending  = "pending"
	OfferStatusAccepted = "accepted"
	OfferStatusDeclined = "declined"
)

// Participant roles.
const (
	RoleClient = "client"
	RoleFixer  = "fixer"
)

// LocationCoords is a geographic point attached to jobs and profiles.
type LocationCoords struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Job represents a client's posted repair request. It is the central
// aggregate of the marketplace: offers hang off it, and the assigned fixer
// plus agreed price are copied onto it when an offer is accepted.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - Title / Description / Category: client-supplied request details.
//   - Location: free-text address; Coordinates optionally pins it on a map.
//   - Urgency: low|medium|high (enforced by DB constraint).
//   - Status: pending|in-progress|completed (enforced by DB constraint).
//   - Price: agreed price, set when an offer is accepted.
//   - Images: optional local image references, stored as a JSON array.
//   - PostedAt: creation timestamp (UTC).
//   - ClientID/ClientName/ClientVerified/ClientPhone: client identity snapshot.
//   - FixerID/FixerName/FixerVerified/FixerPhone: assigned fixer snapshot,
//     empty until an offer is accepted.
//   - Offers: price quotes submitted against this job.
type Job struct {
	ID          string          `json:"id"          gorm:"type:char(36);primaryKey"`
	Title       string          `json:"title"       gorm:"type:varchar(255);not null"`
	Description string          `json:"description" gorm:"type:text;not null"`
	Category    string          `json:"category"    gorm:"type:varchar(64);not null;index:idx_jobs_category"`
	Location    string          `json:"location"    gorm:"type:varchar(255)"`
	Coordinates *LocationCoords `json:"coordinates,omitempty" gorm:"serializer:json"`
	Urgency     string          `json:"urgency"     gorm:"type:varchar(16);not null;check:urgency IN ('low','medium','high')"`
	Status      string          `json:"status"      gorm:"type:varchar(16);not null;index:idx_jobs_status;check:status IN ('pending','in-progress','completed')"`
	Price       *float64        `json:"price,omitempty"`
	Images      []string        `json:"images,omitempty" gorm:"serializer:json"`
	PostedAt    time.Time       `json:"posted_at"   gorm:"index:idx_jobs_posted"`

	ClientID       string `json:"client_id"       gorm:"type:varchar(64);not null;index:idx_jobs_client"`
	ClientName     string `json:"client_name"     gorm:"type:varchar(255);not null"`
	ClientVerified bool   `json:"client_verified"`
	ClientPhone    string `json:"client_phone,omitempty" gorm:"type:varchar(32)"`

	FixerID       string `json:"fixer_id,omitempty"   gorm:"type:varchar(64);index:idx_jobs_fixer"`
	FixerName     string `json:"fixer_name,omitempty" gorm:"type:varchar(255)"`
	FixerVerified bool   `json:"fixer_verified,omitempty"`
	FixerPhone    string `json:"fixer_phone,omitempty" gorm:"type:varchar(32)"`

	Offers []Offer `json:"offers" gorm:"foreignKey:JobID;references:ID"`

	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName returns the database table name for Job.
func (Job) TableName() string { return "jobs" }

// Offer represents a fixer's price quote against a job.
//
// Fields:
//   - ID: UUID primary key (char(36)).
//   - JobID: foreign key to the quoted job (indexed).
//   - FixerID/FixerName/FixerRating/FixerVerified/FixerPhone: identity
//     snapshot of the quoting fixer.
//   - Price: quoted price; Message: optional free-text pitch.
//   - SubmittedAt: submission timestamp (UTC).
//   - Status: pending|accepted|declined (enforced by DB constraint).
//
// A declined offer stays declined; the same fixer may supersede it by
// submitting a fresh offer.
type Offer struct {
	ID            string    `json:"id"             gorm:"type:char(36);primaryKey"`
	JobID         string    `json:"job_id"         gorm:"type:char(36);not null;index:idx_offers_job"`
	FixerID       string    `json:"fixer_id"       gorm:"type:varchar(64);not null;index:idx_offers_fixer"`
	FixerName     string    `json:"fixer_name"     gorm:"type:varchar(255);not null"`
	FixerRating   float64   `json:"fixer_rating"`
	FixerVerified bool      `json:"fixer_verified"`
	FixerPhone    string    `json:"fixer_phone,omitempty" gorm:"type:varchar(32)"`
	Price         float64   `json:"price"          gorm:"not null"`
	Message       string    `json:"message,omitempty" gorm:"type:text"`
	SubmittedAt   time.Time `json:"submitted_at"`
	Status        string    `json:"status"         gorm:"type:varchar(16);not null;check:status IN ('pending','accepted','declined')"`

	// Job is the quoted request. Offers are cascade-deleted with their job.
	Job Job `json:"-" gorm:"foreignKey:JobID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Offer.
func (Offer) TableName() string { return "offers" }

// ChatConversation is the per-job message thread between the client and the
// fixer. There is at most one conversation per job; participant slots are
// populated lazily from whichever party sends first.
//
// The cached LastMessage/LastMessageTime/UnreadCount fields are recomputed
// on every mutation so they never drift from the message rows; the
// aggregate unread query over messages remains the ground truth.
type ChatConversation struct {
	ID              string     `json:"id"        gorm:"type:char(36);primaryKey"`
	JobID           string     `json:"job_id"    gorm:"type:char(36);not null;uniqueIndex:ux_conversations_job"`
	JobTitle        string     `json:"job_title" gorm:"type:varchar(255)"`
	ClientID        string     `json:"client_id"   gorm:"type:varchar(64);index:idx_conversations_client"`
	ClientName      string     `json:"client_name" gorm:"type:varchar(255)"`
	FixerID         string     `json:"fixer_id"    gorm:"type:varchar(64);index:idx_conversations_fixer"`
	FixerName       string     `json:"fixer_name"  gorm:"type:varchar(255)"`
	LastMessage     string     `json:"last_message,omitempty"      gorm:"type:text"`
	LastMessageTime *time.Time `json:"last_message_time,omitempty"`
	UnreadCount     int        `json:"unread_count"`

	Messages []ChatMessage `json:"messages" gorm:"foreignKey:JobID;references:JobID"`

	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for ChatConversation.
func (ChatConversation) TableName() string { return "conversations" }

// ChatMessage is a single utterance within a per-job conversation.
// Messages are immutable once created except for the Read flag.
type ChatMessage struct {
	ID         string    `json:"id"          gorm:"type:char(36);primaryKey"`
	JobID      string    `json:"job_id"      gorm:"type:char(36);not null;index:idx_messages_job,priority:1"`
	SenderID   string    `json:"sender_id"   gorm:"type:varchar(64);not null;index:idx_messages_sender"`
	SenderName string    `json:"sender_name" gorm:"type:varchar(255);not null"`
	SenderRole string    `json:"sender_role" gorm:"type:varchar(16);not null;check:sender_role IN ('client','fixer')"`
	Text       string    `json:"text"        gorm:"type:text;not null"`
	SentAt     time.Time `json:"sent_at"     gorm:"index:idx_messages_job,priority:2"`
	Read       bool      `json:"read"        gorm:"not null;default:false"`
}

// TableName returns the database table name for ChatMessage.
func (ChatMessage) TableName() string { return "messages" }

// Notification types (closed enum).
const (
	NotificationNewJob          = "new_job"
	NotificationNewOffer        = "new_offer"
	NotificationOfferAccepted   = "offer_accepted"
	NotificationOfferDeclined   = "offer_declined"
	NotificationNewMessage      = "new_message"
	NotificationJobCompleted    = "job_completed"
	NotificationJobStatusChange = "job_status_change"
)

// AppNotification is an in-app notification feed entry. The feed is
// append-only except for read-flag mutation and deletion.
type AppNotification struct {
	ID        string         `json:"id"    gorm:"type:char(36);primaryKey"`
	UserID    string         `json:"user_id" gorm:"type:varchar(64);not null;index:idx_notifications_user"`
	Type      string         `json:"type"  gorm:"type:varchar(32);not null;check:type IN ('new_job','new_offer','offer_accepted','offer_declined','new_message','job_completed','job_status_change')"`
	Title     string         `json:"title" gorm:"type:varchar(255);not null"`
	Body      string         `json:"body"  gorm:"type:text;not null"`
	Data      map[string]any `json:"data,omitempty" gorm:"serializer:json"`
	CreatedAt time.Time      `json:"created_at" gorm:"index:idx_notifications_created"`
	Read      bool           `json:"read"  gorm:"not null;default:false"`
}

// TableName returns the database table name for AppNotification.
func (AppNotification) TableName() string { return "notifications" }
