package worker

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *zerolog.Logger {
	l := zerolog.New(io.Discard)
	return &l
}

// fakeTG records sent and deleted messages; failFirst makes the first
// send attempt fail to exercise the retry path.
type fakeTG struct {
	mu        sync.Mutex
	sent      []string
	deleted   []int
	failFirst bool
	attempts  int
}

func (f *fakeTG) SendMessage(chatID int64, text string) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attempts++
	if f.failFirst && f.attempts == 1 {
		return tgbotapi.Message{}, errors.New("telegram: 502")
	}
	f.sent = append(f.sent, text)
	return tgbotapi.Message{MessageID: len(f.sent)}, nil
}

func (f *fakeTG) DeleteMessage(chatID int64, messageID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, messageID)
	return nil
}

func (f *fakeTG) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

func (f *fakeTG) deletedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.deleted)
}

func (f *fakeTG) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	return tgbotapi.Message{}, nil
}
func (f *fakeTG) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) { return nil, nil }
func (f *fakeTG) SendMarkdown(chatID int64, text string) (tgbotapi.Message, error) {
	return tgbotapi.Message{}, nil
}
func (f *fakeTG) SendWithInlineKeyboard(chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) (tgbotapi.Message, error) {
	return tgbotapi.Message{}, nil
}
func (f *fakeTG) EditMessage(chatID int64, messageID int, text string, keyboard *tgbotapi.InlineKeyboardMarkup) (tgbotapi.Message, error) {
	return tgbotapi.Message{}, nil
}
func (f *fakeTG) AnswerCallback(callbackID string, text string) error { return nil }
func (f *fakeTG) GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return nil
}
func (f *fakeTG) GetSelf() tgbotapi.User { return tgbotapi.User{} }
func (f *fakeTG) StopReceivingUpdates()  {}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}

func TestRetryPolicyNextDelay(t *testing.T) {
	policy := RetryPolicy{InitialDelay: time.Second, MaxDelay: 10 * time.Second, BackoffFactor: 2}

	assert.Equal(t, time.Second, policy.NextDelay(1))
	assert.Equal(t, 2*time.Second, policy.NextDelay(2))
	assert.Equal(t, 4*time.Second, policy.NextDelay(3))
	assert.Equal(t, 10*time.Second, policy.NextDelay(10), "clamped to max")
	assert.Equal(t, time.Second, policy.NextDelay(0), "attempt floor")
}

func TestNotifyWorkerDeliversAndDismisses(t *testing.T) {
	tg := &fakeTG{}
	w := NewNotifyWorker(tg, RetryPolicy{MaxRetries: 3, InitialDelay: time.Millisecond}, 20*time.Millisecond, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	w.Success(1, "Booking successful! Find bookings in your profile.")
	w.Error(1, "Something went wrong. Please try again later.")

	waitFor(t, func() bool { return tg.sentCount() == 2 })

	tg.mu.Lock()
	assert.Contains(t, tg.sent[0], "✅")
	assert.Contains(t, tg.sent[1], "⚠️")
	tg.mu.Unlock()

	// Toasts auto-dismiss after the TTL.
	waitFor(t, func() bool { return tg.deletedCount() == 2 })
}

func TestNotifyWorkerRetriesTransientFailure(t *testing.T) {
	tg := &fakeTG{failFirst: true}
	w := NewNotifyWorker(tg, RetryPolicy{MaxRetries: 3, InitialDelay: time.Millisecond, BackoffFactor: 2}, time.Minute, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	w.Success(1, "hello")
	waitFor(t, func() bool { return tg.sentCount() == 1 })

	tg.mu.Lock()
	attempts := tg.attempts
	tg.mu.Unlock()
	require.Equal(t, 2, attempts)
}
