package models

type Difficulty string

const (
	DifficultyEasy   Difficulty = "Facile"
	DifficultyMedium Difficulty = "Moyen"
	DifficultyHard   Difficulty = "Difficile"
)

// Question categories of the adaptive bank, in interview order.
const (
	CategoryIntroduction = "introduction"
	CategoryExperience   = "experience"
	CategoryCompetences  = "competences"
	CategoryMotivation   = "motivation"
	CategorySituations   = "situations"
	CategoryGaps         = "lacunes"
	CategoryAspirations  = "aspirations"
	CategoryConclusion   = "conclusion"
)

var Categories = []string{
	CategoryIntroduction,
	CategoryExperience,
	CategoryCompetences,
	CategoryMotivation,
	CategorySituations,
	CategoryGaps,
	CategoryAspirations,
	CategoryConclusion,
}

func IsCategory(name string) bool {
	for _, c := range Categories {
		if c == name {
			return true
		}
	}
	return false
}

// InterviewQuestion is one question of the adaptive bank
type InterviewQuestion struct {
	ID         string     `json:"id"`
	Text       string     `json:"text"`
	Category   string     `json:"category"`
	Difficulty Difficulty `json:"difficulty"`
	Tips       string     `json:"tips"`
	JobSectors []string   `json:"job_sectors"`
}
