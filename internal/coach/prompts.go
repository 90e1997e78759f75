package coach

import (
	"fmt"
	"strings"

	"github.com/preppal-app/coaching-service/internal/models"
)

func buildOpeningPrompt(prefs models.UserPreferences) string {
	var b strings.Builder
	b.WriteString("You are a friendly, encouraging, and professional interview coach.\n")
	fmt.Fprintf(&b, "The user is preparing for a %s role.\n", prefs.JobRole)
	fmt.Fprintf(&b, "Their experience level is: %s.\n", prefs.ExperienceLevel)
	if prefs.Company != "" {
		fmt.Fprintf(&b, "They are targeting a position at %s.\n", prefs.Company)
	}
	if prefs.FocusArea != "" {
		fmt.Fprintf(&b, "They want to focus on: %s.\n", prefs.FocusArea)
	}
	b.WriteString("\nStart the session by welcoming them warmly (keep it brief) and asking the FIRST interview question.\n")
	fmt.Fprintf(&b, "CRITICAL: The question MUST be strictly relevant to the job role: %s.\n", prefs.JobRole)
	b.WriteString("Do not ask a generic question if it doesn't fit the role.\n")
	b.WriteString("\nReturn ONLY the welcome message combined with the question as a plain string.\n")
	return b.String()
}

func buildTurnPrompt(prefs models.UserPreferences, history []models.Message, latestAnswer string) string {
	var b strings.Builder
	b.WriteString("You are a supportive interview coach.\n")
	b.WriteString("Context:\n")
	fmt.Fprintf(&b, "Role: %s\n", prefs.JobRole)
	fmt.Fprintf(&b, "Experience: %s\n", prefs.ExperienceLevel)
	b.WriteString("\nConversation History:\n")
	b.WriteString(renderTranscript(history))
	b.WriteString("\nCandidate's Latest Answer:\n")
	fmt.Fprintf(&b, "%q\n", latestAnswer)
	b.WriteString("\nTask:\n")
	fmt.Fprintf(&b, "1. Analyze the answer based on the role (%s) and experience level.\n", prefs.JobRole)
	b.WriteString("2. Provide a Score (0-100). Be fair but encouraging.\n")
	b.WriteString("3. Provide friendly, constructive feedback (Praise, Critique, Tip).\n")
	b.WriteString("4. Provide an 'exampleAnswer' - a corrected or \"ideal\" version of how they could have answered.\n")
	b.WriteString("5. Generate the NEXT question based on the context.\n")
	fmt.Fprintf(&b, "\nCRITICAL: The NEXT question must be highly relevant to the role of %s.\n", prefs.JobRole)
	b.WriteString("Do not drift into irrelevant topics.\n")
	b.WriteString("\nTone: Casual, motivating, professional. Like a helpful mentor.\n")
	b.WriteString("Format: JSON.\n")
	return b.String()
}

// renderTranscript flattens the conversation into alternating
// Candidate/Interviewer lines. An ai message contributes its literal text
// when present, otherwise the next-question it carried.
func renderTranscript(history []models.Message) string {
	lines := make([]string, 0, len(history))
	for _, msg := range history {
		speaker := "Interviewer"
		if msg.Role == models.RoleUser {
			speaker = "Candidate"
		}
		text := msg.Text
		if text == "" && msg.Data != nil {
			text = msg.Data.NextQuestion
		}
		lines = append(lines, fmt.Sprintf("%s: %s", speaker, text))
	}
	return strings.Join(lines, "\n")
}
