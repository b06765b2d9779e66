package helper

import (
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"restaurant_manager/model"
)

// NotificationRetention is how long read notifications are kept.
const NotificationRetention = 30 * 24 * time.Hour

// SweepExpiredSubscriptions marks active restaurants past their end date as
// expired. Login gating reads SubscriptionEnd directly, so this only keeps
// Status honest for listings.
func SweepExpiredSubscriptions(db *gorm.DB, now time.Time) (int64, error) {
	res := db.Model(&model.Restaurant{}).
		Where("status = ? AND subscription_end IS NOT NULL AND subscription_end < ?", model.RestaurantActive, now).
		Update("status", model.RestaurantExpired)
	return res.RowsAffected, res.Error
}

func PruneReadNotifications(db *gorm.DB, before time.Time) (int64, error) {
	res := db.Where("is_read = ? AND created_at < ?", true, before).Delete(&model.Notification{})
	return res.RowsAffected, res.Error
}

func StartSubscriptionScheduler(db *gorm.DB, loc *time.Location) (gocron.Scheduler, error) {
	s, err := gocron.NewScheduler(gocron.WithLocation(loc))
	if err != nil {
		return nil, err
	}

	_, err = s.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(0, 5, 0))),
		gocron.NewTask(func() {
			n, err := SweepExpiredSubscriptions(db, time.Now())
			if err != nil {
				logrus.WithError(err).Error("subscription sweep failed")
				return
			}
			if n > 0 {
				logrus.WithField("restaurants", n).Info("subscriptions marked expired")
			}
		}),
	)
	if err != nil {
		return nil, err
	}

	s.Start()
	logrus.Info("subscription scheduler started (00:05 daily)")
	return s, nil
}

func StartNotificationPruner(db *gorm.DB) (*cron.Cron, error) {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	_, err := c.AddFunc("@hourly", func() {
		n, err := PruneReadNotifications(db, time.Now().Add(-NotificationRetention))
		if err != nil {
			logrus.WithError(err).Error("notification pruning failed")
			return
		}
		if n > 0 {
			logrus.WithField("notifications", n).Info("read notifications pruned")
		}
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}
