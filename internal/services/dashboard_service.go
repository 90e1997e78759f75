package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"github.com/preppal-app/coaching-service/internal/models"
	"github.com/preppal-app/coaching-service/internal/repositories"
)

type dashboardService struct {
	store  repositories.Store
	logger *slog.Logger
}

func NewDashboardService(store repositories.Store, logger *slog.Logger) DashboardService {
	return &dashboardService{
		store:  store,
		logger: logger,
	}
}

func (s *dashboardService) Stats(ctx context.Context, userID string) (*models.DashboardStats, error) {
	sessions, err := s.store.Sessions().List(ctx, repositories.SessionFilters{UserID: userID})
	if err != nil {
		return nil, fmt.Errorf("failed to load sessions: %w", err)
	}

	stats := &models.DashboardStats{
		UserID:   userID,
		Sessions: make([]models.SessionSummary, 0, len(sessions)),
	}

	scoreTotal, scoredTurns := 0.0, 0
	for _, session := range sessions {
		stats.TotalSessions++
		if session.Status == models.SessionCompleted {
			stats.CompletedSessions++
		}
		stats.TotalAnswers += session.AnswerCount()

		summary := models.SessionSummary{
			ID:              session.ID,
			JobRole:         session.Preferences.JobRole,
			Company:         session.Preferences.Company,
			ExperienceLevel: session.Preferences.ExperienceLevel,
			Status:          session.Status,
			AnswerCount:     session.AnswerCount(),
			CreatedAt:       session.CreatedAt,
			LastUpdated:     session.LastUpdated,
		}

		for _, m := range session.Messages {
			if m.Role == models.RoleAI && m.Data != nil && m.Data.Feedback != nil {
				scoreTotal += float64(m.Data.Feedback.Score)
				scoredTurns++
			}
		}
		if avg, ok := session.AverageScore(); ok {
			summary.AverageScore = &avg
		}

		stats.Sessions = append(stats.Sessions, summary)
	}

	if scoredTurns > 0 {
		avg := scoreTotal / float64(scoredTurns)
		stats.AverageScore = &avg
	}

	return stats, nil
}

var reportHeader = []string{
	"Session ID", "Job Role", "Company", "Experience Level",
	"Status", "Answers", "Average Score", "Created", "Last Updated",
}

func (s *dashboardService) ExportReport(ctx context.Context, userID string) ([]byte, error) {
	stats, err := s.Stats(ctx, userID)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sessions"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	for col, title := range reportHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	for row, summary := range stats.Sessions {
		values := []interface{}{
			summary.ID,
			summary.JobRole,
			summary.Company,
			summary.ExperienceLevel,
			string(summary.Status),
			summary.AnswerCount,
			nil,
			summary.CreatedAt.Format("2006-01-02 15:04"),
			summary.LastUpdated.Format("2006-01-02 15:04"),
		}
		if summary.AverageScore != nil {
			values[6] = *summary.AverageScore
		}
		for col, value := range values {
			if value == nil {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, fmt.Errorf("failed to write row: %w", err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render workbook: %w", err)
	}

	s.logger.Info("dashboard report exported",
		"user_id", userID, "sessions", len(stats.Sessions))

	return buf.Bytes(), nil
}
