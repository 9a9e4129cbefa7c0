package domain

import "time"

// Field names shared by every collection.
const (
	FieldID     = "id"
	FieldUserID = "userId"
)

// EventType classifies calendar events.
type EventType string

const (
	EventStudy      EventType = "study"
	EventExam       EventType = "exam"
	EventAssignment EventType = "assignment"
	EventOther      EventType = "other"
)

// Task is a study task owned by a student.
type Task struct {
	ID          string
	Title       string
	Description *string
	Subject     string
	Deadline    time.Time
	IsCompleted bool
	Priority    int
	CreatedAt   time.Time
	CompletedAt *time.Time
}

// Event is a calendar entry.
type Event struct {
	ID          string
	Title       string
	Description *string
	StartTime   time.Time
	EndTime     time.Time
	Type        EventType
	Subject     *string
	Location    *string
	IsAllDay    bool
	Color       string
}

// UserProfile describes a registered student.
type UserProfile struct {
	ID          string
	Name        string
	Email       string
	Avatar      *string
	Grade       *string
	School      *string
	CreatedAt   time.Time
	LastLoginAt *time.Time
}

// Document is a single stored record: an identifier plus its fields.
type Document struct {
	ID     string
	Fields map[string]any
}

// Dataset groups the records written by a seed run.
type Dataset struct {
	Tasks  []Task
	Events []Event
	Users  []UserProfile
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func optionalTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}

func optionalString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

// Optional fields of each record kind. They are always part of the stored
// shape, as null when unset.
var (
	TaskOptionalFields  = []string{"description", "completedAt"}
	EventOptionalFields = []string{"description", "subject", "location"}
	UserOptionalFields  = []string{"avatar", "grade", "school", "lastLoginAt"}
)

// TaskDocument converts a task to its stored shape under the given id.
func TaskDocument(id string, t Task) Document {
	return Document{ID: id, Fields: map[string]any{
		FieldID:       id,
		"title":       t.Title,
		"description": optionalString(t.Description),
		"subject":     t.Subject,
		"deadline":    formatTime(t.Deadline),
		"isCompleted": t.IsCompleted,
		"priority":    t.Priority,
		"createdAt":   formatTime(t.CreatedAt),
		"completedAt": optionalTime(t.CompletedAt),
	}}
}

// EventDocument converts an event to its stored shape under the given id.
func EventDocument(id string, e Event) Document {
	return Document{ID: id, Fields: map[string]any{
		FieldID:       id,
		"title":       e.Title,
		"description": optionalString(e.Description),
		"startTime":   formatTime(e.StartTime),
		"endTime":     formatTime(e.EndTime),
		"type":        string(e.Type),
		"subject":     optionalString(e.Subject),
		"location":    optionalString(e.Location),
		"isAllDay":    e.IsAllDay,
		"color":       e.Color,
	}}
}

// UserDocument converts a user profile to its stored shape under the given id.
func UserDocument(id string, u UserProfile) Document {
	return Document{ID: id, Fields: map[string]any{
		FieldID:       id,
		"name":        u.Name,
		"email":       u.Email,
		"avatar":      optionalString(u.Avatar),
		"grade":       optionalString(u.Grade),
		"school":      optionalString(u.School),
		"createdAt":   formatTime(u.CreatedAt),
		"lastLoginAt": optionalTime(u.LastLoginAt),
	}}
}
