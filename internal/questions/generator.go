// Package questions picks or synthesizes interview questions adapted to a user profile.
package questions

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/xaenox/interview-bot/internal/journal"
	"github.com/xaenox/interview-bot/internal/llm"
	"github.com/xaenox/interview-bot/internal/models"
	"go.uber.org/zap"
)

const (
	genericTip  = "Soyez concis et mettez en avant vos principales réalisations."
	introText   = "Pouvez-vous vous présenter et me parler de votre parcours professionnel?"
	introTip    = "Présentez-vous de manière concise en mettant en avant vos expériences pertinentes pour le poste."
	minForClose = 5
)

// Generator keeps a bank of generated questions per category for the process lifetime.
type Generator struct {
	llm     llm.Completer
	journal journal.Recorder
	logger  *zap.Logger

	mu   sync.Mutex
	bank map[string][]models.InterviewQuestion
}

func NewGenerator(completer llm.Completer, recorder journal.Recorder, logger *zap.Logger) *Generator {
	bank := make(map[string][]models.InterviewQuestion, len(models.Categories))
	for _, c := range models.Categories {
		bank[c] = nil
	}
	return &Generator{
		llm:     completer,
		journal: recorder,
		logger:  logger,
		bank:    bank,
	}
}

// DifficultyFor maps a profile to a difficulty tier. Unevaluated profiles get Moyen.
func DifficultyFor(profile *models.UserProfile) models.Difficulty {
	if !profile.IsProfileEvaluated {
		return models.DifficultyMedium
	}

	anxiety := strings.ToLower(profile.AnxietyLevel)
	experience := strings.ToLower(profile.ExperienceLevel)
	switch {
	case strings.Contains(anxiety, "élevé") || strings.Contains(experience, "débutant"):
		return models.DifficultyEasy
	case strings.Contains(anxiety, "moyen") || strings.Contains(experience, "intermédiaire"):
		return models.DifficultyMedium
	default:
		return models.DifficultyHard
	}
}

// FallbackQuestion is returned whenever a question cannot be picked or generated.
func FallbackQuestion(profile *models.UserProfile, category string) models.InterviewQuestion {
	return models.InterviewQuestion{
		ID:         uuid.New().String(),
		Text:       fmt.Sprintf("Pouvez-vous me parler de votre expérience professionnelle dans le domaine %s?", profile.JobSector),
		Category:   category,
		Difficulty: models.DifficultyMedium,
		Tips:       genericTip,
	}
}

// GetAdaptedQuestion returns a bank question matching category and the profile's
// difficulty, or synthesizes a new one. It never fails.
func (g *Generator) GetAdaptedQuestion(ctx context.Context, profile *models.UserProfile, category string) models.InterviewQuestion {
	g.journal.LogInteraction(profile.UserID, "Demande de question adaptée", "Catégorie: "+category, "AdaptiveQuestions")

	if !models.IsCategory(category) {
		g.logger.Warn("Unknown question category", zap.String("category", category))
		return FallbackQuestion(profile, category)
	}

	difficulty := DifficultyFor(profile)
	if q, ok := g.pick(category, difficulty); ok {
		return q
	}

	q, err := g.generate(ctx, profile, category, difficulty)
	if err != nil {
		g.logger.Error("Failed to generate adapted question",
			zap.Error(err),
			zap.String("user_id", profile.UserID),
			zap.String("category", category))
		return FallbackQuestion(profile, category)
	}
	return q
}

func (g *Generator) pick(category string, difficulty models.Difficulty) (models.InterviewQuestion, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	matching := lo.Filter(g.bank[category], func(q models.InterviewQuestion, _ int) bool {
		return q.Difficulty == difficulty
	})
	if len(matching) == 0 {
		return models.InterviewQuestion{}, false
	}
	return lo.Sample(matching), true
}

func (g *Generator) generate(ctx context.Context, profile *models.UserProfile, category string, difficulty models.Difficulty) (models.InterviewQuestion, error) {
	messages := []models.Message{{
		Role:    models.RoleUser,
		Content: fmt.Sprintf("Génère une question d'entretien de type %s adaptée à mon profil.", category),
	}}

	reply, err := g.llm.Complete(ctx, messages, questionPrompt(profile, category, difficulty))
	if err != nil {
		return models.InterviewQuestion{}, err
	}

	text, tips := ParseQuestionReply(reply)
	q := models.InterviewQuestion{
		ID:         uuid.New().String(),
		Text:       text,
		Category:   category,
		Difficulty: difficulty,
		Tips:       tips,
		JobSectors: []string{profile.JobSector},
	}

	g.mu.Lock()
	g.bank[category] = append(g.bank[category], q)
	g.mu.Unlock()

	return q, nil
}

// BankSize returns the number of stored questions in category.
func (g *Generator) BankSize(category string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.bank[category])
}

// RelevantCategories returns the category pool used after the introduction question.
func RelevantCategories(profile *models.UserProfile) []string {
	pool := []string{models.CategoryExperience, models.CategoryCompetences, models.CategoryMotivation}

	if !profile.IsProfileEvaluated {
		pool = append(pool, lo.Without(models.Categories, models.CategoryIntroduction, models.CategoryConclusion)...)
		return lo.Uniq(pool)
	}

	if strings.Contains(strings.ToLower(profile.AnxietyLevel), "élevé") {
		pool = append(pool, models.CategoryAspirations)
	} else {
		pool = append(pool, models.CategorySituations, models.CategoryGaps, models.CategoryAspirations)
	}

	if strings.Contains(strings.ToLower(profile.VulnerabilityProfile["Question7"]), "oui") {
		pool = append(pool, models.CategoryGaps)
	}

	return lo.Uniq(pool)
}

// GenerateSequence builds count questions starting with an introduction and closing with a
// conclusion when count >= 5. Cancellation returns what was collected so far.
func (g *Generator) GenerateSequence(ctx context.Context, profile *models.UserProfile, count int) []models.InterviewQuestion {
	var questions []models.InterviewQuestion

	collect := func(category string) bool {
		if ctx.Err() != nil {
			return false
		}
		questions = append(questions, g.GetAdaptedQuestion(ctx, profile, category))
		return true
	}

	if !collect(models.CategoryIntroduction) {
		return g.sequenceFallback(profile, ctx.Err())
	}

	pool := RelevantCategories(profile)
	for remaining := count - 1; remaining > 0; remaining-- {
		if len(pool) == 0 {
			pool = lo.Without(models.Categories, models.CategoryIntroduction)
		}
		category := lo.Sample(pool)
		pool = lo.Without(pool, category)

		if !collect(category) {
			return g.partial(questions, profile, ctx.Err())
		}
	}

	hasConclusion := lo.ContainsBy(questions, func(q models.InterviewQuestion) bool {
		return q.Category == models.CategoryConclusion
	})
	if count >= minForClose && !hasConclusion {
		if !collect(models.CategoryConclusion) {
			return g.partial(questions, profile, ctx.Err())
		}
	}

	return questions
}

func (g *Generator) partial(questions []models.InterviewQuestion, profile *models.UserProfile, err error) []models.InterviewQuestion {
	if len(questions) == 0 {
		return g.sequenceFallback(profile, err)
	}
	g.logger.Warn("Question sequence interrupted",
		zap.Error(err),
		zap.String("user_id", profile.UserID),
		zap.Int("collected", len(questions)))
	return questions
}

func (g *Generator) sequenceFallback(profile *models.UserProfile, err error) []models.InterviewQuestion {
	g.logger.Error("Failed to generate question sequence",
		zap.Error(err),
		zap.String("user_id", profile.UserID))
	return []models.InterviewQuestion{{
		ID:         uuid.New().String(),
		Text:       introText,
		Category:   models.CategoryIntroduction,
		Difficulty: models.DifficultyMedium,
		Tips:       introTip,
	}}
}
