package assessment

import (
	"assessment-system/internal/models"
)

// Eligibility buckets derived from session accuracy.
const (
	HighlyEligible    = "Highly Eligible"
	Eligible          = "Eligible"
	PartiallyEligible = "Partially Eligible"
	NotEligible       = "Not Eligible"
)

// Report is the scored summary for a completed session.
type Report struct {
	Session        *models.Session `json:"session"`
	TotalQuestions int             `json:"totalQuestions"`
	CorrectAnswers int             `json:"correctAnswers"`
	Percentage     int             `json:"percentage"`
	Eligibility    string          `json:"eligibility"`
	Message        string          `json:"message"`
	TotalTimeSpent int             `json:"totalTimeSpent"`
}

// EligibilityFor maps an accuracy percentage to its bucket and the
// message shown alongside it.
func EligibilityFor(percentage int) (string, string) {
	switch {
	case percentage >= 80:
		return HighlyEligible, "Excellent performance! You are a strong candidate for this role."
	case percentage >= 60:
		return Eligible, "Good performance! You meet the requirements for this role."
	case percentage >= 40:
		return PartiallyEligible, "Fair performance. Consider strengthening your fundamentals."
	default:
		return NotEligible, "Keep practicing and try the assessment again."
	}
}

// BuildReport computes the report for a session. Percentage defaults to
// zero when the session has no answers, never a division error.
func BuildReport(session *models.Session) *Report {
	report := &Report{
		Session:        session,
		TotalQuestions: len(session.Answers),
	}
	for _, a := range session.Answers {
		if a.IsCorrect {
			report.CorrectAnswers++
		}
		report.TotalTimeSpent += a.TimeSpent
	}
	if report.TotalQuestions > 0 {
		report.Percentage = int(float64(report.CorrectAnswers)/float64(report.TotalQuestions)*100 + 0.5)
	}
	report.Eligibility, report.Message = EligibilityFor(report.Percentage)
	return report
}
