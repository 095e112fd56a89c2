package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"finframe/internal/domain/notification"
)

type NotificationRepository struct {
	db *DB
}

func NewNotificationRepository(db *DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

const deviceColumns = `id, user_id, token, platform, active, created_at, last_seen`

func scanDevice(row rowScanner) (*notification.Device, error) {
	var d notification.Device
	if err := row.Scan(&d.ID, &d.UserID, &d.Token, &d.Platform, &d.Active, &d.CreatedAt, &d.LastSeen); err != nil {
		return nil, err
	}
	return &d, nil
}

// SaveDevice inserts the token or, when it already exists, reactivates it
// under the given user.
func (r *NotificationRepository) SaveDevice(ctx context.Context, d *notification.Device) (*notification.Device, error) {
	query := `
		INSERT INTO devices (user_id, token, platform)
		VALUES ($1, $2, $3)
		ON CONFLICT (token) DO UPDATE
			SET user_id = EXCLUDED.user_id,
			    platform = EXCLUDED.platform,
			    active = true,
			    last_seen = NOW()
		RETURNING ` + deviceColumns

	saved, err := scanDevice(r.db.QueryRowContext(ctx, query, d.UserID, d.Token, d.Platform))
	if err != nil {
		return nil, fmt.Errorf("failed to save device: %w", err)
	}
	return saved, nil
}

func (r *NotificationRepository) ActiveDevices(ctx context.Context, userID int64) ([]*notification.Device, error) {
	query := `
		SELECT ` + deviceColumns + `
		FROM devices
		WHERE active AND ($1 = 0 OR user_id = $1)
		ORDER BY user_id, last_seen DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}
	defer rows.Close()

	var devices []*notification.Device
	for rows.Next() {
		d, err := scanDevice(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan device: %w", err)
		}
		devices = append(devices, d)
	}
	return devices, rows.Err()
}

// DeactivateDevice is also handed to the push client, which calls it for
// tokens FCM reports as unregistered.
func (r *NotificationRepository) DeactivateDevice(ctx context.Context, token string) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE devices SET active = false WHERE token = $1`, token); err != nil {
		return fmt.Errorf("failed to deactivate device: %w", err)
	}
	return nil
}

func (r *NotificationRepository) MutedCategories(ctx context.Context, userID int64) (map[string]bool, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT category FROM notification_settings WHERE user_id = $1 AND NOT enabled`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load notification settings: %w", err)
	}
	defer rows.Close()

	muted := make(map[string]bool)
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("failed to scan notification setting: %w", err)
		}
		muted[c] = true
	}
	return muted, rows.Err()
}

func (r *NotificationRepository) SetCategoryEnabled(ctx context.Context, userID int64, category string, enabled bool) error {
	query := `
		INSERT INTO notification_settings (user_id, category, enabled)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, category) DO UPDATE
			SET enabled = EXCLUDED.enabled, updated_at = NOW()`

	if _, err := r.db.ExecContext(ctx, query, userID, category, enabled); err != nil {
		return fmt.Errorf("failed to save notification setting: %w", err)
	}
	return nil
}

const notificationColumns = `id, user_id, title, body, category, data, opened_at, created_at`

func scanNotification(row rowScanner) (*notification.Notification, error) {
	var (
		n        notification.Notification
		data     []byte
		openedAt sql.NullTime
	)
	if err := row.Scan(&n.ID, &n.UserID, &n.Title, &n.Body, &n.Category, &data, &openedAt, &n.CreatedAt); err != nil {
		return nil, err
	}
	if openedAt.Valid {
		n.OpenedAt = &openedAt.Time
	}
	if err := json.Unmarshal(data, &n.Data); err != nil {
		return nil, fmt.Errorf("failed to decode notification data: %w", err)
	}
	return &n, nil
}

func (r *NotificationRepository) Store(ctx context.Context, userID int64, msg notification.Message) (*notification.Notification, error) {
	data, err := json.Marshal(msg.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode notification data: %w", err)
	}

	query := `
		INSERT INTO notifications (user_id, title, body, category, data)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + notificationColumns

	n, err := scanNotification(r.db.QueryRowContext(ctx, query, userID, msg.Title, msg.Body, msg.Category, string(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to store notification: %w", err)
	}
	return n, nil
}

func (r *NotificationRepository) List(ctx context.Context, userID int64, limit, offset int) ([]*notification.Notification, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notifications WHERE user_id = $1`, userID,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	query := `
		SELECT ` + notificationColumns + `
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var items []*notification.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan notification: %w", err)
		}
		items = append(items, n)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating notifications: %w", err)
	}
	return items, total, nil
}

func (r *NotificationRepository) CountUnread(ctx context.Context, userID int64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND opened_at IS NULL`, userID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return n, nil
}

// MarkOpened keeps the first opened_at. Another user's id reports not found.
func (r *NotificationRepository) MarkOpened(ctx context.Context, userID int64, id string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET opened_at = COALESCE(opened_at, NOW()) WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to mark notification opened: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return notification.ErrNotificationNotFound
	}
	return nil
}

func (r *NotificationRepository) MarkAllOpened(ctx context.Context, userID int64) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET opened_at = NOW() WHERE user_id = $1 AND opened_at IS NULL`,
		userID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications opened: %w", err)
	}
	return result.RowsAffected()
}
