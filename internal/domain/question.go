package domain

import "time"

// Question is an immutable catalog entry seeded from a question pack.
// CorrectOption is never sent to a client before it answers.
type Question struct {
	ID            int64
	Body          string
	Options       []string
	CorrectOption int
	Difficulty    int
	Source        string
	SubjectID     int64
	Hash          string
	CreatedAt     time.Time
}

// Public strips the fields a client must not see while answering.
func (q Question) Public() PublicQuestion {
	return PublicQuestion{
		ID:         q.ID,
		Body:       q.Body,
		Options:    q.Options,
		Difficulty: q.Difficulty,
		Source:     q.Source,
		SubjectID:  q.SubjectID,
	}
}

// PublicQuestion is the wire representation of a Question exposed to
// answering clients. It carries no correct-option index.
type PublicQuestion struct {
	ID         int64    `json:"id"`
	Body       string   `json:"body"`
	Options    []string `json:"options"`
	Difficulty int      `json:"difficulty"`
	Source     string   `json:"source,omitempty"`
	SubjectID  int64    `json:"subjectId"`
}

// QuestionSeed is a parsed question-pack entry before it is assigned an
// id and a subject.
type QuestionSeed struct {
	Body          string
	Options       []string
	CorrectOption int
	Difficulty    int
	Source        string
}

// Subject groups questions by topic.
type Subject struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// SubjectWithCount is a Subject annotated with its catalog size.
type SubjectWithCount struct {
	Subject
	QuestionCount int `json:"questionCount"`
}
