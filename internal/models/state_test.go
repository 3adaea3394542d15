package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatStateGetters(t *testing.T) {
	state := &ChatState{
		ChatID: 1,
		Step:   StepBookingGuests,
		Data: map[string]interface{}{
			"str":   "hello",
			"int":   3,
			"float": 2.5,
			"bool":  true,
			"date":  "2026-09-10",
		},
	}

	assert.Equal(t, "hello", state.GetString("str"))
	assert.Equal(t, 3, state.GetInt("int"))
	assert.Equal(t, 2.5, state.GetFloat("float"))
	assert.True(t, state.GetBool("bool"))
	assert.Equal(t, time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC), state.GetTime("date"))

	t.Run("missing keys return zero values", func(t *testing.T) {
		assert.Empty(t, state.GetString("missing"))
		assert.Zero(t, state.GetInt("missing"))
		assert.False(t, state.GetBool("missing"))
		assert.True(t, state.GetTime("missing").IsZero())
	})

	t.Run("nil state is safe", func(t *testing.T) {
		var nilState *ChatState
		assert.Empty(t, nilState.GetString("any"))
		assert.Zero(t, nilState.GetInt("any"))
	})
}

func TestChatStateSurvivesJSONRoundTrip(t *testing.T) {
	in := &ChatState{
		ChatID: 7,
		Step:   StepVenueConfirm,
		Data: map[string]interface{}{
			"guests": 2,
			"price":  1500.0,
		},
	}

	data, err := json.Marshal(in)
	require.NoError(t, err)

	var out ChatState
	require.NoError(t, json.Unmarshal(data, &out))

	// JSON numbers come back as float64; getters paper over that.
	assert.Equal(t, 2, out.GetInt("guests"))
	assert.Equal(t, 1500.0, out.GetFloat("price"))
}

func TestChatStateSet(t *testing.T) {
	state := &ChatState{}
	state.Set("key", "value")
	assert.Equal(t, "value", state.GetString("key"))
}
