package models

// QuestionDTO is the client-facing question shape. The reference answer
// is only included for admin views.
type QuestionDTO struct {
	ID            string `json:"id"`
	Domain        string `json:"domain"`
	Level         string `json:"level"`
	Question      string `json:"question"`
	Points        int    `json:"points"`
	TimeLimit     int    `json:"timeLimit"`
	CorrectAnswer string `json:"correctAnswer,omitempty"`
}

const DefaultTimeLimit = 30 // seconds per question

func (q Question) ToDTO(includeAnswer bool) QuestionDTO {
	dto := QuestionDTO{
		ID:        q.ID,
		Domain:    q.Domain,
		Level:     q.Level,
		Question:  q.Question,
		Points:    q.Points,
		TimeLimit: DefaultTimeLimit,
	}
	if includeAnswer {
		dto.CorrectAnswer = q.CorrectAnswer
	}
	return dto
}
