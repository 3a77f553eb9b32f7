package dialog

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"
	"github.com/xaenox/interview-bot/internal/models"
)

const feedbackHistory = 10

// GenerateFeedback summarizes stored feedback and prepared question advice, or asks the
// model for a narrative when nothing is stored. The session is not modified.
func (d *Dispatcher) GenerateFeedback(ctx context.Context, session *models.InterviewSession) (string, error) {
	if session.HasStoredFeedback() {
		return storedFeedback(session), nil
	}

	messages := append(session.RecentHistory(feedbackHistory), models.Message{
		Role:    models.RoleUser,
		Content: "Pouvez-vous me donner un feedback sur mes réponses en entretien ?",
	})
	reply, err := d.llm.Complete(ctx, messages, feedbackPrompt(session.Profile))
	if err != nil {
		return "", fmt.Errorf("failed to generate feedback: %w", err)
	}
	return reply, nil
}

func storedFeedback(session *models.InterviewSession) string {
	var b strings.Builder
	b.WriteString("Voici un résumé de vos performances :\n\n")

	keys := lo.Keys(session.Feedback)
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "• %s : %s\n", k, session.Feedback[k])
	}

	if session.LastQuestionAdvice != "" {
		fmt.Fprintf(&b, "• Conseil pour la dernière question : %s\n", session.LastQuestionAdvice)
	}

	prepared := lo.UniqBy(session.PreparedQuestions, func(q models.PreparedQuestion) string { return q.Text })
	if len(prepared) > 0 {
		b.WriteString("\nConseils pour améliorer vos réponses :\n\n")
		for _, q := range prepared {
			fmt.Fprintf(&b, "• Pour la question \"%s\" : %s\n\n", q.Text, q.Advice)
		}
	}

	return b.String()
}
