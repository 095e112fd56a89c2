package notification

import "context"

// Repository persists devices, mute settings and the inbox.
type Repository interface {
	SaveDevice(ctx context.Context, d *Device) (*Device, error)
	// ActiveDevices returns the active devices of userID, or of every
	// user when userID is 0.
	ActiveDevices(ctx context.Context, userID int64) ([]*Device, error)
	DeactivateDevice(ctx context.Context, token string) error

	MutedCategories(ctx context.Context, userID int64) (map[string]bool, error)
	SetCategoryEnabled(ctx context.Context, userID int64, category string, enabled bool) error

	Store(ctx context.Context, userID int64, msg Message) (*Notification, error)
	List(ctx context.Context, userID int64, limit, offset int) ([]*Notification, int, error)
	CountUnread(ctx context.Context, userID int64) (int, error)
	MarkOpened(ctx context.Context, userID int64, id string) error
	MarkAllOpened(ctx context.Context, userID int64) (int64, error)
}
