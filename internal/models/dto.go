package models

import (
	"time"
)

// ===== SESSION SUMMARY DTOs =====

type SessionSummary struct {
	ID              string        `json:"id"`
	JobRole         string        `json:"job_role"`
	Company         string        `json:"company,omitempty"`
	ExperienceLevel string        `json:"experience_level"`
	Status          SessionStatus `json:"status"`
	AnswerCount     int           `json:"answer_count"`
	AverageScore    *float64      `json:"average_score,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	LastUpdated     time.Time     `json:"last_updated"`
}

type DashboardStats struct {
	UserID            string           `json:"user_id"`
	TotalSessions     int              `json:"total_sessions"`
	CompletedSessions int              `json:"completed_sessions"`
	TotalAnswers      int              `json:"total_answers"`
	AverageScore      *float64         `json:"average_score,omitempty"`
	Sessions          []SessionSummary `json:"sessions"`
}
