package helper

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"restaurant_manager/model"
)

// NotificationDispatcher is the post-commit side effect of order placement.
type NotificationDispatcher interface {
	Dispatch(tenantID uint, message string) <-chan error
}

type NotificationEvent struct {
	TenantID   uint      `json:"tenantId"`
	Message    string    `json:"message"`
	Recipients int       `json:"recipients"`
	CreatedAt  time.Time `json:"createdAt"`
}

type Notifier struct {
	db      *gorm.DB
	redis   *redis.Client
	timeout time.Duration
}

// NewNotifier accepts a nil Redis client, in which case nothing is published.
func NewNotifier(db *gorm.DB, rdb *redis.Client) *Notifier {
	return &Notifier{db: db, redis: rdb, timeout: 10 * time.Second}
}

func NotificationChannel(tenantID uint) string {
	return fmt.Sprintf("restaurant:%d:notifications", tenantID)
}

// Fanout stores one notification per active staff user of the tenant and
// returns how many were written.
func (n *Notifier) Fanout(ctx context.Context, tenantID uint, message string) (int, error) {
	var userIDs []uint
	if err := n.db.WithContext(ctx).Model(&model.User{}).
		Where("restaurant_id = ? AND active = ? AND role IN ?", tenantID, true, model.StaffRoles).
		Pluck("id", &userIDs).Error; err != nil {
		return 0, fmt.Errorf("load staff of restaurant %d: %w", tenantID, err)
	}
	if len(userIDs) == 0 {
		return 0, nil
	}

	rows := make([]model.Notification, 0, len(userIDs))
	for _, id := range userIDs {
		rows = append(rows, model.Notification{UserID: id, Message: message})
	}
	if err := n.db.WithContext(ctx).CreateInBatches(&rows, 100).Error; err != nil {
		return 0, fmt.Errorf("insert notifications for restaurant %d: %w", tenantID, err)
	}

	if n.redis != nil {
		payload, _ := json.Marshal(NotificationEvent{
			TenantID:   tenantID,
			Message:    message,
			Recipients: len(rows),
			CreatedAt:  time.Now(),
		})
		// rows are already stored; a failed publish only delays live delivery
		if err := n.redis.Publish(ctx, NotificationChannel(tenantID), payload).Err(); err != nil {
			logrus.WithFields(logrus.Fields{"tenant_id": tenantID, "error": err}).Warn("notification publish failed")
		}
	}
	return len(rows), nil
}

// Dispatch runs Fanout detached from the caller. Failures are logged with
// enough context to reconcile by hand and sent on the returned channel,
// which callers are free to ignore.
func (n *Notifier) Dispatch(tenantID uint, message string) <-chan error {
	done := make(chan error, 1)
	go func() {
		defer close(done)
		defer func() {
			if r := recover(); r != nil {
				err := fmt.Errorf("notification fanout panic: %v", r)
				logrus.WithFields(logrus.Fields{"tenant_id": tenantID, "message": message}).Error(err)
				done <- err
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		defer cancel()
		count, err := n.Fanout(ctx, tenantID, message)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"tenant_id": tenantID,
				"message":   message,
				"error":     err,
			}).Error("notification fanout failed")
			done <- err
			return
		}
		logrus.WithFields(logrus.Fields{"tenant_id": tenantID, "recipients": count}).Debug("notifications created")
		done <- nil
	}()
	return done
}

// Subscribe opens the live notification stream of a tenant. It returns nil
// when Redis is not configured.
func (n *Notifier) Subscribe(ctx context.Context, tenantID uint) *redis.PubSub {
	if n.redis == nil {
		return nil
	}
	return n.redis.Subscribe(ctx, NotificationChannel(tenantID))
}
