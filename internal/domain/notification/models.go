package notification

import (
	"errors"
	"slices"
	"time"
)

// Categories a user can mute independently.
const (
	CategoryBudgets      = "budgets"
	CategoryGoals        = "goals"
	CategoryTransactions = "transactions"
	CategoryGeneral      = "general"
)

// Categories lists every category in display order.
var Categories = []string{CategoryBudgets, CategoryGoals, CategoryTransactions, CategoryGeneral}

// Device platforms accepted at registration.
const (
	PlatformIOS     = "ios"
	PlatformAndroid = "android"
	PlatformWeb     = "web"
)

var platforms = []string{PlatformIOS, PlatformAndroid, PlatformWeb}

var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrInvalidCategory      = errors.New("invalid notification category")
	ErrInvalidPlatform      = errors.New("platform must be ios, android or web")
	ErrInvalidToken         = errors.New("device token is required")
	ErrInvalidUser          = errors.New("valid user ID is required")
	ErrEmptyMessage         = errors.New("notification title and body are required")
)

// Device is a push target registered by a client app.
type Device struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"-"`
	Token     string    `json:"token"`
	Platform  string    `json:"platform"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
	LastSeen  time.Time `json:"lastSeen"`
}

// Preferences records which categories a user has muted. Categories that
// were never touched are enabled.
type Preferences struct {
	UserID int64
	Muted  map[string]bool
}

func (p Preferences) Enabled(category string) bool {
	return !p.Muted[category]
}

// Settings returns every category with its enabled flag.
func (p Preferences) Settings() map[string]bool {
	out := make(map[string]bool, len(Categories))
	for _, c := range Categories {
		out[c] = p.Enabled(c)
	}
	return out
}

// Message is what gets stored in the inbox and pushed to devices.
type Message struct {
	Title    string
	Body     string
	Category string
	Data     map[string]string
}

func (m Message) Validate() error {
	if m.Title == "" || m.Body == "" {
		return ErrEmptyMessage
	}
	if !IsValidCategory(m.Category) {
		return ErrInvalidCategory
	}
	return nil
}

// withRoute returns a copy of Data with a "route" key the apps use to
// open the right screen. A caller-provided route wins.
func (m Message) withRoute() Message {
	data := make(map[string]string, len(m.Data)+1)
	for k, v := range m.Data {
		data[k] = v
	}
	if _, ok := data["route"]; !ok {
		data["route"] = m.Category
	}
	m.Data = data
	return m
}

// Notification is a stored inbox entry.
type Notification struct {
	ID        string            `json:"id"`
	UserID    int64             `json:"-"`
	Title     string            `json:"title"`
	Body      string            `json:"body"`
	Category  string            `json:"category"`
	Data      map[string]string `json:"data"`
	OpenedAt  *time.Time        `json:"openedAt"`
	CreatedAt time.Time         `json:"createdAt"`
}

// Inbox is one page of a user's notifications.
type Inbox struct {
	Items  []*Notification
	Page   int
	Size   int
	Total  int
	Unread int
}

func IsValidCategory(c string) bool {
	return slices.Contains(Categories, c)
}

func IsValidPlatform(p string) bool {
	return slices.Contains(platforms, p)
}
