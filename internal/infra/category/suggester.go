// Package category suggests a shelter label from its free-text description.
// A keyword scorer stands in for the trained classifier; the labels match the
// ones the intake team already uses.
package category

import "strings"

const (
	LabelFamiliar    = "Familiar"
	LabelPetFriendly = "PetFriendly"
	LabelIdosos      = "Idosos"
	LabelCasais      = "Casais"
	LabelGeral       = "Geral"
)

var keywordLabels = map[string][]string{
	LabelFamiliar:    {"familia", "familias", "criança", "crianças", "crianca", "criancas", "filhos", "parquinho"},
	LabelPetFriendly: {"pet", "pets", "cão", "cães", "cao", "caes", "cachorro", "cachorros", "gato", "gatos", "animais"},
	LabelIdosos:      {"idoso", "idosos", "acessibilidade", "rampa", "rampas"},
	LabelCasais:      {"casal", "casais", "tranquilo", "descanso"},
}

type KeywordSuggester struct{}

func NewKeywordSuggester() *KeywordSuggester {
	return &KeywordSuggester{}
}

// Suggest returns the label whose keywords score highest for the description,
// Geral when nothing specific matches, and nil for an empty description.
func (s *KeywordSuggester) Suggest(description string) *string {
	desc := strings.ToLower(strings.TrimSpace(description))
	if desc == "" {
		return nil
	}

	best := LabelGeral
	bestScore := 0
	for _, label := range []string{LabelFamiliar, LabelPetFriendly, LabelIdosos, LabelCasais} {
		score := 0
		for _, kw := range keywordLabels[label] {
			score += strings.Count(desc, kw)
		}
		if score > bestScore {
			best = label
			bestScore = score
		}
	}
	return &best
}
