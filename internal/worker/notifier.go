package worker

import (
	"context"
	"math"
	"time"

	"holidaze/internal/domain"
	"holidaze/internal/metrics"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// RetryPolicy defines exponential backoff parameters for toast delivery.
type RetryPolicy struct {
	MaxRetries    int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
}

// NextDelay returns delay for a given attempt (1-based) with clamping.
func (r RetryPolicy) NextDelay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	if r.InitialDelay <= 0 {
		r.InitialDelay = time.Second
	}
	if r.BackoffFactor <= 0 {
		r.BackoffFactor = 2
	}

	delay := float64(r.InitialDelay) * math.Pow(r.BackoffFactor, float64(attempt-1))
	d := time.Duration(delay)
	if r.MaxDelay > 0 && d > r.MaxDelay {
		d = r.MaxDelay
	}
	if d <= 0 {
		d = time.Second
	}
	return d
}

const (
	ToastSuccess = "success"
	ToastError   = "error"
)

// Toast is one ephemeral notification: shown in the chat after an async
// operation finishes and removed again after the display TTL.
type Toast struct {
	ID      string
	ChatID  int64
	Type    string
	Message string
}

// NotifyWorker delivers toasts asynchronously so slow sends never block a
// flow, retrying transient failures with backoff. Implements
// domain.Notifier.
type NotifyWorker struct {
	tg     domain.TelegramService
	queue  chan Toast
	retry  RetryPolicy
	ttl    time.Duration
	logger *zerolog.Logger
}

func NewNotifyWorker(tg domain.TelegramService, retry RetryPolicy, ttl time.Duration, logger *zerolog.Logger) *NotifyWorker {
	if ttl <= 0 {
		ttl = 4 * time.Second
	}
	return &NotifyWorker{
		tg:     tg,
		queue:  make(chan Toast, 256),
		retry:  retry,
		ttl:    ttl,
		logger: logger,
	}
}

func (w *NotifyWorker) Success(chatID int64, message string) {
	w.enqueue(Toast{ID: uuid.NewString(), ChatID: chatID, Type: ToastSuccess, Message: message})
}

func (w *NotifyWorker) Error(chatID int64, message string) {
	w.enqueue(Toast{ID: uuid.NewString(), ChatID: chatID, Type: ToastError, Message: message})
}

func (w *NotifyWorker) enqueue(toast Toast) {
	select {
	case w.queue <- toast:
	default:
		// A full queue means the chat is being flooded; dropping feedback
		// beats blocking the flow that produced it.
		w.logger.Warn().Str("toast_id", toast.ID).Int64("chat_id", toast.ChatID).Msg("toast queue full, dropping")
	}
}

// Start consumes the queue until the context is cancelled.
func (w *NotifyWorker) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case toast := <-w.queue:
			w.deliver(ctx, toast)
		}
	}
}

func (w *NotifyWorker) deliver(ctx context.Context, toast Toast) {
	text := "✅ " + toast.Message
	if toast.Type == ToastError {
		text = "⚠️ " + toast.Message
	}

	for attempt := 1; ; attempt++ {
		msg, err := w.tg.SendMessage(toast.ChatID, text)
		if err == nil {
			metrics.IncToast(toast.Type)
			w.dismissLater(ctx, toast.ChatID, msg.MessageID)
			return
		}

		if w.retry.MaxRetries > 0 && attempt >= w.retry.MaxRetries {
			w.logger.Error().Err(err).Str("toast_id", toast.ID).Int64("chat_id", toast.ChatID).Msg("giving up on toast delivery")
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(w.retry.NextDelay(attempt)):
		}
	}
}

// dismissLater auto-removes the toast message after the display TTL.
func (w *NotifyWorker) dismissLater(ctx context.Context, chatID int64, messageID int) {
	go func() {
		select {
		case <-ctx.Done():
			return
		case <-time.After(w.ttl):
		}
		if err := w.tg.DeleteMessage(chatID, messageID); err != nil {
			w.logger.Debug().Err(err).Int64("chat_id", chatID).Int("message_id", messageID).Msg("toast cleanup failed")
		}
	}()
}
