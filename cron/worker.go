package cron

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"gymflow/config"
	bookingsRepo "gymflow/database/repository/bookings"
	"gymflow/models"
	"gymflow/services/notification"
	"gymflow/utils"
)

// InitNotificationWorker runs the async worker in background. It consumes
// booking events immediately and reminders at their scheduled fire time.
func InitNotificationWorker(bookings bookingsRepo.BookingRepository) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(notification.TypeBookingEvent, handleBookingEvent)
	mux.HandleFunc(notification.TypeReminderSend, handleReminderTask(bookings))

	go monitorRedisConnection()

	// Start async worker with retry logic
	go func() {
		logger := utils.GetLogger()
		logger.Info("starting notification worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				logger.Error("notification worker failed to start",
					zap.Int("attempt", attempts), zap.Int("maxAttempts", maxAttempts), zap.Error(err))

				if attempts == maxAttempts {
					logger.Fatal("notification worker gave up after max attempts")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

func handleBookingEvent(ctx context.Context, task *asynq.Task) error {
	var p notification.BookingEventPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		utils.GetLogger().Error("invalid booking event payload", zap.Error(err))
		return err
	}

	// Delivery channel integration (email, push) plugs in here; for now the
	// event trail is the log.
	utils.GetLogger().Info("booking event",
		zap.String("event", p.Event),
		zap.String("bookingID", p.BookingID),
		zap.String("clientID", p.ClientID),
		zap.Time("start", p.StartTime),
		zap.Int("position", p.Position))
	return nil
}

// handleReminderTask fires a pre-session reminder. A booking cancelled or
// rescheduled since scheduling is skipped silently.
func handleReminderTask(bookings bookingsRepo.BookingRepository) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p notification.BookingEventPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			utils.GetLogger().Error("invalid reminder payload", zap.Error(err))
			return err
		}

		booking, err := bookings.GetByID(ctx, p.OrganizationID, p.BookingID)
		if err != nil {
			utils.GetLogger().Warn("reminder for unknown booking skipped",
				zap.String("bookingID", p.BookingID), zap.Error(err))
			return nil
		}
		if booking.Status == models.BookingStatusCancelled || !booking.StartTime.Equal(p.StartTime) {
			return nil
		}

		utils.GetLogger().Info("reminder fired",
			zap.String("bookingID", booking.ID),
			zap.String("clientID", booking.ClientID),
			zap.Time("start", booking.StartTime))
		return nil
	}
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func monitorRedisConnection() {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})

	ctx := context.Background()

	for {
		if err := client.Ping(ctx).Err(); err != nil {
			utils.GetLogger().Warn("redis connection lost", zap.Error(err))
		}
		time.Sleep(10 * time.Second)
	}
}
