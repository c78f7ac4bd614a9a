package amqp

import (
	"encoding/json"
	"time"
)

// WeekSavedMessage announces that a week was persisted. Consumers reload
// the week from the store rather than trusting a copy in the message.
type WeekSavedMessage struct {
	WeekKey    string    `json:"week_key"`
	Rows       int       `json:"rows"`
	TotalHours float64   `json:"total_hours"`
	Timestamp  time.Time `json:"timestamp"`
}

func NewWeekSavedMessage(weekKey string, rows int, totalHours float64) *WeekSavedMessage {
	return &WeekSavedMessage{
		WeekKey:    weekKey,
		Rows:       rows,
		TotalHours: totalHours,
		Timestamp:  time.Now(),
	}
}

func (m *WeekSavedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func WeekSavedMessageFromJSON(data []byte) (*WeekSavedMessage, error) {
	var msg WeekSavedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
