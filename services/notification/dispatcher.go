package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"gymflow/config"
	"gymflow/models"
	"gymflow/utils"
)

// Task types consumed by the cron worker.
const (
	TypeBookingEvent = "booking:event"
	TypeReminderSend = "reminder:send"
)

// Booking event names carried in the task payload.
const (
	EventConfirmed   = "confirmed"
	EventWaitlisted  = "waitlisted"
	EventRescheduled = "rescheduled"
	EventCancelled   = "cancelled"
	EventPromoted    = "promoted"
)

// BookingEventPayload is the asynq task payload for booking notifications.
type BookingEventPayload struct {
	Event          string    `json:"event"`
	BookingID      string    `json:"booking_id"`
	OrganizationID string    `json:"organization_id"`
	ClientID       string    `json:"client_id"`
	StaffID        string    `json:"staff_id,omitempty"`
	SessionID      string    `json:"session_id,omitempty"`
	StartTime      time.Time `json:"start_time"`
	EndTime        time.Time `json:"end_time"`
	Position       int       `json:"position,omitempty"`
}

// AsynqDispatcher enqueues booking notifications onto the redis-backed task
// queue. Delivery is handled by the worker; enqueue failures are logged and
// swallowed so the booking path never depends on the queue.
type AsynqDispatcher struct {
	client       *asynq.Client
	reminderLead time.Duration
}

// NewAsynqDispatcher constructs a Dispatcher backed by asynq.
func NewAsynqDispatcher() *AsynqDispatcher {
	client := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	return &AsynqDispatcher{
		client:       client,
		reminderLead: time.Duration(config.AppConfig.ReminderLeadMinutes) * time.Minute,
	}
}

func (d *AsynqDispatcher) BookingConfirmed(ctx context.Context, booking *models.Booking) {
	d.enqueueEvent(EventConfirmed, booking, 0)
	d.scheduleReminder(booking)
}

func (d *AsynqDispatcher) BookingWaitlisted(ctx context.Context, booking *models.Booking, position int) {
	d.enqueueEvent(EventWaitlisted, booking, position)
}

func (d *AsynqDispatcher) BookingRescheduled(ctx context.Context, booking *models.Booking) {
	d.enqueueEvent(EventRescheduled, booking, 0)
	d.scheduleReminder(booking)
}

func (d *AsynqDispatcher) BookingCancelled(ctx context.Context, booking *models.Booking) {
	d.enqueueEvent(EventCancelled, booking, 0)
}

func (d *AsynqDispatcher) BookingPromoted(ctx context.Context, booking *models.Booking) {
	d.enqueueEvent(EventPromoted, booking, 0)
	d.scheduleReminder(booking)
}

func (d *AsynqDispatcher) enqueueEvent(event string, booking *models.Booking, position int) {
	payload := BookingEventPayload{
		Event:          event,
		BookingID:      booking.ID,
		OrganizationID: booking.OrganizationID,
		ClientID:       booking.ClientID,
		StaffID:        booking.StaffID,
		SessionID:      booking.SessionID,
		StartTime:      booking.StartTime,
		EndTime:        booking.EndTime,
		Position:       position,
	}
	b, err := json.Marshal(payload)
	if err != nil {
		utils.GetLogger().Error("failed to marshal booking event", zap.Error(err))
		return
	}
	task := asynq.NewTask(TypeBookingEvent, b)
	if _, err := d.client.Enqueue(task); err != nil {
		utils.GetLogger().Warn("failed to enqueue booking event",
			zap.String("event", event), zap.String("bookingID", booking.ID), zap.Error(err))
	}
}

// scheduleReminder enqueues a reminder ahead of the booking start. The task
// ID is derived from booking id and start time so re-enqueueing the same
// reminder is a no-op.
func (d *AsynqDispatcher) scheduleReminder(booking *models.Booking) {
	fireAt := booking.StartTime.Add(-d.reminderLead)
	if !fireAt.After(time.Now()) {
		return
	}
	payload := BookingEventPayload{
		Event:          EventConfirmed,
		BookingID:      booking.ID,
		OrganizationID: booking.OrganizationID,
		ClientID:       booking.ClientID,
		StaffID:        booking.StaffID,
		SessionID:      booking.SessionID,
		StartTime:      booking.StartTime,
		EndTime:        booking.EndTime,
	}
	b, err := json.Marshal(payload)
	if err != nil {
		utils.GetLogger().Error("failed to marshal reminder payload", zap.Error(err))
		return
	}
	task := asynq.NewTask(TypeReminderSend, b)
	opts := []asynq.Option{
		asynq.ProcessAt(fireAt),
		asynq.TaskID(fmt.Sprintf("reminder:%s:%d", booking.ID, booking.StartTime.Unix())),
	}
	if _, err := d.client.Enqueue(task, opts...); err != nil && err != asynq.ErrDuplicateTask {
		utils.GetLogger().Warn("failed to schedule reminder",
			zap.String("bookingID", booking.ID), zap.Error(err))
	}
}

// LogDispatcher logs booking events instead of enqueueing them. Used in
// development and tests where no queue is available.
type LogDispatcher struct{}

func (LogDispatcher) BookingConfirmed(ctx context.Context, booking *models.Booking) {
	utils.GetLogger().Info("booking confirmed", zap.String("bookingID", booking.ID))
}

func (LogDispatcher) BookingWaitlisted(ctx context.Context, booking *models.Booking, position int) {
	utils.GetLogger().Info("booking waitlisted",
		zap.String("bookingID", booking.ID), zap.Int("position", position))
}

func (LogDispatcher) BookingRescheduled(ctx context.Context, booking *models.Booking) {
	utils.GetLogger().Info("booking rescheduled", zap.String("bookingID", booking.ID))
}

func (LogDispatcher) BookingCancelled(ctx context.Context, booking *models.Booking) {
	utils.GetLogger().Info("booking cancelled", zap.String("bookingID", booking.ID))
}

func (LogDispatcher) BookingPromoted(ctx context.Context, booking *models.Booking) {
	utils.GetLogger().Info("booking promoted from waitlist", zap.String("bookingID", booking.ID))
}
