package model

import (
	"time"
)

// QuestStatus is the lifecycle state of a quest.
type QuestStatus string

const (
	StatusOpen   QuestStatus = "open"
	StatusClosed QuestStatus = "closed"
)

// Quest represents a posted local task fetched from the quest API.
type Quest struct {
	ID          string      `json:"_id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Topics      []string    `json:"topics"`
	Lon         float64     `json:"longitude"`
	Lat         float64     `json:"latitude"`
	Price       float64     `json:"price"`
	Deadline    time.Time   `json:"deadline"`
	Status      QuestStatus `json:"status"`
	CreatorID   string      `json:"creator_id"`
	Applicants  []string    `json:"applicants"`
}

// HasTopic reports whether the quest carries the given topic tag.
func (q *Quest) HasTopic(topic string) bool {
	for _, t := range q.Topics {
		if t == topic {
			return true
		}
	}
	return false
}

// HasApplicant reports whether the user already applied to the quest.
func (q *Quest) HasApplicant(userID string) bool {
	for _, a := range q.Applicants {
		if a == userID {
			return true
		}
	}
	return false
}

// LocationDescriptor is a reverse-geocoded place. Every field is optional;
// a descriptor with all fields empty is a valid (if unhelpful) resolution.
type LocationDescriptor struct {
	Village  string `json:"village,omitempty"`
	Town     string `json:"town,omitempty"`
	City     string `json:"city,omitempty"`
	State    string `json:"state,omitempty"`
	Province string `json:"province,omitempty"`
	Region   string `json:"region,omitempty"`
	Country  string `json:"country,omitempty"`
}

// IsEmpty reports whether no address field was resolved.
func (l *LocationDescriptor) IsEmpty() bool {
	return l.Village == "" && l.Town == "" && l.City == "" &&
		l.State == "" && l.Province == "" && l.Region == "" && l.Country == ""
}

// DisplayName returns the most specific place name available.
// Priority: Village > Town > City > Province > State > Region > Country.
// Empty descriptors render as "Unknown"; the caller never sees a blank.
func (l *LocationDescriptor) DisplayName() string {
	for _, s := range []string{l.Village, l.Town, l.City, l.Province, l.State, l.Region, l.Country} {
		if s != "" {
			return s
		}
	}
	return "Unknown"
}

// UserPosition is the viewer's position on the map.
// FromSensor distinguishes a real device fix from the unset placeholder.
type UserPosition struct {
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
	FromSensor bool    `json:"from_sensor"`
}

// User is the slice of the quest API's user payload the engine consumes.
type User struct {
	ID            string  `json:"_id"`
	Username      string  `json:"username"`
	CreatedQuests []Quest `json:"created_quests"`
	AppliedQuests []Quest `json:"applied_quests"`
}
