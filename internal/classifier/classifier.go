package classifier

import (
	"regexp"
	"strings"
)

// Labels of the profile analysis reply.
const (
	LabelExperience = "Niveau d'expérience"
	LabelAnxiety    = "Niveau d'anxiété"
	LabelLearning   = "Format d'apprentissage"
	LabelNeeds      = "Besoins d'adaptation"
)

// FallbackValue is used when a label is absent from the analysis.
const FallbackValue = "standard"

// ProfileAnalysis holds the attributes extracted from a free text analysis.
type ProfileAnalysis struct {
	ExperienceLevel    string
	AnxietyLevel       string
	LearningPreference string
	SpecificNeeds      string
	Summary            string
}

// ParseProfileAnalysis extracts every labelled attribute from analysis.
func ParseProfileAnalysis(analysis string) ProfileAnalysis {
	return ProfileAnalysis{
		ExperienceLevel:    ExtractField(analysis, LabelExperience),
		AnxietyLevel:       ExtractField(analysis, LabelAnxiety),
		LearningPreference: ExtractField(analysis, LabelLearning),
		SpecificNeeds:      ExtractField(analysis, LabelNeeds),
		Summary:            strings.TrimSpace(analysis),
	}
}

// ExtractField finds label (case-insensitive) and returns the text after the first colon
// on the same line, trimmed. Missing label or colon yields FallbackValue.
func ExtractField(analysis, label string) string {
	if analysis == "" {
		return FallbackValue
	}

	re := regexp.MustCompile("(?i)" + regexp.QuoteMeta(label))
	loc := re.FindStringIndex(analysis)
	if loc == nil {
		return FallbackValue
	}

	line := analysis[loc[0]:]
	if end := strings.IndexByte(line, '\n'); end >= 0 {
		line = line[:end]
	}

	colon := strings.IndexByte(line, ':')
	if colon < 0 {
		return FallbackValue
	}
	return strings.TrimSpace(line[colon+1:])
}

// IsAffirmative reports whether a yes/no reply says yes.
func IsAffirmative(reply string) bool {
	return strings.Contains(strings.ToUpper(reply), "OUI")
}
