package models

import "strings"

// Interaction states of a profile.
const (
	StateMenu       = "menu"
	StateEvaluation = "evaluation"
	stateUpdate     = "update:"
)

// UserProfile carries identity and adaptation parameters for one user
type UserProfile struct {
	UserID            string            `json:"user_id"`
	Name              string            `json:"name"`
	PreferredLanguage string            `json:"preferred_language"`
	JobSector         string            `json:"job_sector"`
	Experience        string            `json:"experience"`
	LanguageLevel     string            `json:"language_level"`
	DigitalSkillLevel string            `json:"digital_skill_level"`
	SavedResponses    map[string]string `json:"saved_responses"`
	CurrentState      string            `json:"current_state"`

	EvaluationStep       int               `json:"evaluation_step"`
	VulnerabilityProfile map[string]string `json:"vulnerability_profile"`

	// Derived by the profile evaluation.
	ExperienceLevel    string `json:"experience_level"`
	AnxietyLevel       string `json:"anxiety_level"`
	LearningPreference string `json:"learning_preference"`
	SpecificNeeds      string `json:"specific_needs"`
	ProfileSummary     string `json:"profile_summary,omitempty"`
	IsProfileEvaluated bool   `json:"is_profile_evaluated"`
}

func NewUserProfile(userID string) *UserProfile {
	return &UserProfile{
		UserID:               userID,
		Name:                 "Utilisateur",
		PreferredLanguage:    "French",
		JobSector:            "Non spécifié",
		Experience:           "Débutant",
		LanguageLevel:        "Intermédiaire",
		DigitalSkillLevel:    "Faible",
		SavedResponses:       make(map[string]string),
		CurrentState:         StateMenu,
		VulnerabilityProfile: make(map[string]string),
		ExperienceLevel:      "débutant",
		AnxietyLevel:         "moyen",
		LearningPreference:   "progressif",
	}
}

// Editable profile fields.
const (
	FieldJobSector     = "job_sector"
	FieldExperience    = "experience"
	FieldLanguageLevel = "language_level"
	FieldDigitalSkill  = "digital_skill_level"
)

// PendingUpdate returns the field awaiting a value, if any.
func (p *UserProfile) PendingUpdate() (string, bool) {
	if !strings.HasPrefix(p.CurrentState, stateUpdate) {
		return "", false
	}
	return strings.TrimPrefix(p.CurrentState, stateUpdate), true
}

func (p *UserProfile) AwaitUpdate(field string) {
	p.CurrentState = stateUpdate + field
}

// ApplyUpdate stores value into field and returns to the menu state.
func (p *UserProfile) ApplyUpdate(field, value string) bool {
	switch field {
	case FieldJobSector:
		p.JobSector = value
	case FieldExperience:
		p.Experience = value
	case FieldLanguageLevel:
		p.LanguageLevel = value
	case FieldDigitalSkill:
		p.DigitalSkillLevel = value
	default:
		return false
	}
	if p.SavedResponses == nil {
		p.SavedResponses = make(map[string]string)
	}
	p.SavedResponses[field] = value
	p.CurrentState = StateMenu
	return true
}

func (p *UserProfile) InEvaluation() bool {
	return p.CurrentState == StateEvaluation
}

// Clone returns a deep copy of the profile.
func (p *UserProfile) Clone() *UserProfile {
	c := *p
	c.SavedResponses = cloneMap(p.SavedResponses)
	c.VulnerabilityProfile = cloneMap(p.VulnerabilityProfile)
	return &c
}
