package scoring

import (
	"regexp"
	"sort"
	"strings"

	"github.com/spigell/fitscore/internal/profile"
)

// Vocabulary holds the fixed word lists used by the résumé signal detectors.
// It is immutable once built and safe to share between goroutines.
type Vocabulary struct {
	sections    map[string][]*regexp.Regexp
	actionVerbs map[string]struct{}
}

// DefaultSections maps canonical section names to header synonyms.
func DefaultSections() map[string][]string {
	return map[string][]string{
		"experience":     {"work experience", "professional experience", "employment history"},
		"education":      {"academic background"},
		"skills":         {"technical skills", "core competencies"},
		"projects":       {"personal projects", "key projects"},
		"certifications": {"certificates", "licenses"},
		"summary":        {"professional summary", "profile", "objective"},
		"contact":        {"contact information", "contact details"},
	}
}

// DefaultActionVerbs lists the verbs counted as strong résumé bullet openers.
func DefaultActionVerbs() []string {
	return []string{
		"achieved", "built", "designed", "developed", "implemented", "led", "managed",
		"created", "reduced", "improved", "optimized", "deployed", "automated", "analyzed",
	}
}

var defaultVocabulary = mustVocabulary(DefaultSections(), DefaultActionVerbs())

// DefaultVocabulary returns the shared built-in vocabulary.
func DefaultVocabulary() *Vocabulary {
	return defaultVocabulary
}

// NewVocabulary builds a vocabulary from section synonyms and action verbs.
// The canonical section name always counts as one of its own headers.
func NewVocabulary(sections map[string][]string, actionVerbs []string) (*Vocabulary, error) {
	v := &Vocabulary{
		sections:    make(map[string][]*regexp.Regexp, len(sections)),
		actionVerbs: make(map[string]struct{}, len(actionVerbs)),
	}

	for name, aliases := range sections {
		canonical := Normalize(name)
		if canonical == "" {
			return nil, &profile.ValidationError{Field: "vocabulary.sections", Message: "section name must not be empty"}
		}

		for _, header := range uniqueNormalized(append([]string{canonical}, aliases...)) {
			v.sections[canonical] = append(v.sections[canonical], headerPattern(header))
		}
	}

	for _, verb := range actionVerbs {
		if key := Normalize(verb); key != "" {
			v.actionVerbs[key] = struct{}{}
		}
	}

	return v, nil
}

func mustVocabulary(sections map[string][]string, verbs []string) *Vocabulary {
	v, err := NewVocabulary(sections, verbs)
	if err != nil {
		panic(err)
	}
	return v
}

// headerPattern matches the header as whole words followed by a colon or line break.
func headerPattern(header string) *regexp.Regexp {
	words := strings.Fields(header)
	for i, w := range words {
		words[i] = regexp.QuoteMeta(w)
	}
	return regexp.MustCompile(`(?i)\b` + strings.Join(words, `\s+`) + `\b\s*[:\n]`)
}

// DetectSections returns the sorted canonical names of the sections present in text.
func (v *Vocabulary) DetectSections(text string) []string {
	found := make([]string, 0, len(v.sections))
	if strings.TrimSpace(text) == "" {
		return found
	}

	for name, patterns := range v.sections {
		for _, re := range patterns {
			if re.MatchString(text) {
				found = append(found, name)
				break
			}
		}
	}

	sort.Strings(found)
	return found
}

// CountActionVerbs counts tokens of text that belong to the action-verb list.
func (v *Vocabulary) CountActionVerbs(text string) int {
	count := 0
	for _, token := range Tokenize(text) {
		if _, ok := v.actionVerbs[token]; ok {
			count++
		}
	}
	return count
}

// SectionNames lists the canonical sections the vocabulary looks for.
func (v *Vocabulary) SectionNames() []string {
	names := make([]string, 0, len(v.sections))
	for name := range v.sections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
