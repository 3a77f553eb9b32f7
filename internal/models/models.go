package models

import (
	"time"

	"github.com/google/uuid"
)

// Conversation roles understood by the completion API.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Message is a single role-tagged conversation turn
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// PreparedQuestion is a question generated ahead of a timed simulation
type PreparedQuestion struct {
	ID     string `json:"id"`
	Text   string `json:"text"`
	Advice string `json:"advice"`
}

// InterviewSession holds one user's conversation state
type InterviewSession struct {
	SessionID     string       `json:"session_id"`
	Profile       *UserProfile `json:"profile"`
	Stage         Stage        `json:"stage"`
	History       []Message    `json:"history"`
	CreatedAt     time.Time    `json:"created_at"`
	LastUpdatedAt time.Time    `json:"last_updated_at"`

	// Feedback only holds generated feedback text, keyed by label.
	Feedback           map[string]string  `json:"feedback"`
	PreparedQuestions  []PreparedQuestion `json:"prepared_questions"`
	PreparedCursor     int                `json:"prepared_cursor"`
	LastQuestionAdvice string             `json:"last_question_advice,omitempty"`
}

// NewInterviewSession seeds an Introduction-stage session with a default profile.
func NewInterviewSession(userID string) *InterviewSession {
	now := time.Now()
	return &InterviewSession{
		SessionID:     uuid.New().String(),
		Profile:       NewUserProfile(userID),
		Stage:         StageIntroduction,
		History:       []Message{},
		CreatedAt:     now,
		LastUpdatedAt: now,
		Feedback:      make(map[string]string),
	}
}

func (s *InterviewSession) touch() {
	s.LastUpdatedAt = time.Now()
}

func (s *InterviewSession) AddUserMessage(content string) {
	s.AddMessage(RoleUser, content)
}

func (s *InterviewSession) AddBotMessage(content string) {
	s.AddMessage(RoleAssistant, content)
}

func (s *InterviewSession) AddMessage(role, content string) {
	s.History = append(s.History, Message{Role: role, Content: content})
	s.touch()
}

// SetStage moves the session to stage and returns the previous one.
func (s *InterviewSession) SetStage(stage Stage) Stage {
	prev := s.Stage
	s.Stage = stage
	s.touch()
	return prev
}

// RecentHistory returns at most n trailing history entries. n <= 0 means all.
func (s *InterviewSession) RecentHistory(n int) []Message {
	if n <= 0 || len(s.History) <= n {
		out := make([]Message, len(s.History))
		copy(out, s.History)
		return out
	}
	out := make([]Message, n)
	copy(out, s.History[len(s.History)-n:])
	return out
}

// PrepareQuestions replaces the prepared question set and rewinds the cursor.
func (s *InterviewSession) PrepareQuestions(questions []InterviewQuestion) {
	s.PreparedQuestions = make([]PreparedQuestion, 0, len(questions))
	for _, q := range questions {
		s.PreparedQuestions = append(s.PreparedQuestions, PreparedQuestion{
			ID:     q.ID,
			Text:   q.Text,
			Advice: q.Tips,
		})
	}
	s.PreparedCursor = 0
	s.touch()
}

// NextPreparedQuestion returns the next unasked prepared question and advances the cursor.
func (s *InterviewSession) NextPreparedQuestion() (PreparedQuestion, bool) {
	if s.PreparedCursor >= len(s.PreparedQuestions) {
		return PreparedQuestion{}, false
	}
	q := s.PreparedQuestions[s.PreparedCursor]
	s.PreparedCursor++
	s.touch()
	return q, true
}

// PreparedIDs is the ordered manifest of prepared question ids.
func (s *InterviewSession) PreparedIDs() []string {
	ids := make([]string, len(s.PreparedQuestions))
	for i, q := range s.PreparedQuestions {
		ids[i] = q.ID
	}
	return ids
}

func (s *InterviewSession) SetFeedback(key, value string) {
	if s.Feedback == nil {
		s.Feedback = make(map[string]string)
	}
	s.Feedback[key] = value
	s.touch()
}

func (s *InterviewSession) SetLastQuestionAdvice(advice string) {
	s.LastQuestionAdvice = advice
	s.touch()
}

// HasStoredFeedback reports whether a summary can be built without the model.
func (s *InterviewSession) HasStoredFeedback() bool {
	return len(s.Feedback) > 0 || len(s.PreparedQuestions) > 0 || s.LastQuestionAdvice != ""
}

// Clone returns a deep copy safe to hand out of a store.
func (s *InterviewSession) Clone() *InterviewSession {
	c := *s
	if s.Profile != nil {
		c.Profile = s.Profile.Clone()
	}
	c.History = append([]Message(nil), s.History...)
	c.PreparedQuestions = append([]PreparedQuestion(nil), s.PreparedQuestions...)
	c.Feedback = cloneMap(s.Feedback)
	return &c
}

func cloneMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
