package models

import (
	"time"
)

type SessionStatus string

const (
	SessionActive    SessionStatus = "active"
	SessionCompleted SessionStatus = "completed"
)

type MessageRole string

const (
	RoleUser MessageRole = "user"
	RoleAI   MessageRole = "ai"
)

// ExperienceLevels is the fixed list a session preference must pick from.
var ExperienceLevels = []string{
	"Intern / Entry Level",
	"Junior (1-2 years)",
	"Mid-Level (3-5 years)",
	"Senior (5-8 years)",
	"Lead / Manager (8+ years)",
	"Executive",
}

// FocusAreas is the fixed list for the optional focus-area preference.
var FocusAreas = []string{
	"General Practice (Mix of all)",
	"Behavioral Questions",
	"Technical Skills",
	"Leadership & Management",
	"Culture Fit",
	"Problem Solving",
	"System Design",
}

// UserPreferences is the immutable setup snapshot a session is created with.
type UserPreferences struct {
	JobRole         string `json:"job_role"`
	Company         string `json:"company,omitempty"`
	ExperienceLevel string `json:"experience_level"`
	FocusArea       string `json:"focus_area,omitempty"`
}

// FeedbackData is the structured critique attached to a coached ai turn.
type FeedbackData struct {
	Praise         string `json:"praise"`
	Critique       string `json:"critique"`
	ImprovementTip string `json:"improvement_tip"`
	ExampleAnswer  string `json:"example_answer"`
	Score          int    `json:"score"`
}

// MessageData is the structured payload of a non-opening ai message.
type MessageData struct {
	Feedback     *FeedbackData `json:"feedback,omitempty"`
	NextQuestion string        `json:"next_question,omitempty"`
}

// Message is one conversation turn. User messages and the opening ai message
// carry Text; every later ai message carries Data instead.
type Message struct {
	ID        string       `json:"id"`
	Role      MessageRole  `json:"role"`
	Text      string       `json:"text,omitempty"`
	Data      *MessageData `json:"data,omitempty"`
	Timestamp time.Time    `json:"timestamp"`
}

// Session is one practice interview run. Messages are append-only and keep
// insertion order; status only ever moves active -> completed.
type Session struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	Preferences UserPreferences `json:"preferences"`
	Messages    []Message       `json:"messages"`
	CreatedAt   time.Time       `json:"created_at"`
	LastUpdated time.Time       `json:"last_updated"`
	Status      SessionStatus   `json:"status"`
}

// AnswerCount returns how many answers the candidate has given so far.
func (s *Session) AnswerCount() int {
	count := 0
	for _, m := range s.Messages {
		if m.Role == RoleUser {
			count++
		}
	}
	return count
}

// AverageScore averages the scores of all structured feedback turns. The
// second return reports whether any scored turn exists.
func (s *Session) AverageScore() (float64, bool) {
	total, scored := 0, 0
	for _, m := range s.Messages {
		if m.Role == RoleAI && m.Data != nil && m.Data.Feedback != nil {
			total += m.Data.Feedback.Score
			scored++
		}
	}
	if scored == 0 {
		return 0, false
	}
	return float64(total) / float64(scored), true
}
