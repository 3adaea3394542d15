package models

import "time"

// ChatState holds the bot conversation position for one chat plus the
// values collected so far in a wizard (search query, draft venue fields,
// selected booking dates). Round-trips through JSON, so numeric values may
// come back as float64 and times as RFC3339 strings.
type ChatState struct {
	ChatID int64                  `json:"chat_id"`
	Step   string                 `json:"step"`
	Data   map[string]interface{} `json:"data"`
}

func (s *ChatState) GetString(key string) string {
	if s == nil || s.Data == nil {
		return ""
	}
	if str, ok := s.Data[key].(string); ok {
		return str
	}
	return ""
}

func (s *ChatState) GetInt(key string) int {
	if s == nil || s.Data == nil {
		return 0
	}
	switch v := s.Data[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

func (s *ChatState) GetFloat(key string) float64 {
	if s == nil || s.Data == nil {
		return 0
	}
	switch v := s.Data[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return 0
	}
}

func (s *ChatState) GetBool(key string) bool {
	if s == nil || s.Data == nil {
		return false
	}
	if b, ok := s.Data[key].(bool); ok {
		return b
	}
	return false
}

func (s *ChatState) GetTime(key string) time.Time {
	if s == nil || s.Data == nil {
		return time.Time{}
	}
	switch v := s.Data[key].(type) {
	case time.Time:
		return v
	case string:
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			return t
		}
		if t, err := time.Parse("2006-01-02", v); err == nil {
			return t
		}
		return time.Time{}
	default:
		return time.Time{}
	}
}

func (s *ChatState) Set(key string, value interface{}) {
	if s.Data == nil {
		s.Data = make(map[string]interface{})
	}
	s.Data[key] = value
}
