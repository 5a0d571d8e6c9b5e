package scoring

import (
	"fmt"
	"math"
	"strings"
)

const (
	sectionWeight = 0.30
	actionWeight  = 0.20
	keywordWeight = 0.40
	lengthWeight  = 0.10

	sectionTarget = 3
	actionTarget  = 4

	shortResumeWords = 80
	longResumeWords  = 1200
	longResumeScore  = 0.8
)

// ATS component names.
const (
	ComponentSections = "sections"
	ComponentActions  = "action_verbs"
	ComponentKeywords = "keywords"
	ComponentLength   = "length"
)

// LengthScore bands a résumé word count: short résumés earn proportional credit,
// overly long ones a fixed mild penalty.
func LengthScore(wordCount int) float64 {
	switch {
	case wordCount <= 0:
		return 0
	case wordCount < shortResumeWords:
		return float64(wordCount) / shortResumeWords
	case wordCount > longResumeWords:
		return longResumeScore
	}
	return 1
}

// KeywordCoverage is the fraction of keywords found in text, directly or through one of
// the synonyms mapped to the keyword. No keywords counts as full coverage.
func KeywordCoverage(text string, keywords []string, synonyms map[string][]string) float64 {
	want := uniqueNormalized(keywords)
	if len(want) == 0 {
		return 1
	}

	haystack := Normalize(text)
	alternatives := normalizeSynonyms(synonyms)
	hits := 0
	for _, kw := range want {
		if keywordPresent(haystack, kw, alternatives) {
			hits++
		}
	}

	return float64(hits) / float64(len(want))
}

func keywordPresent(haystack, keyword string, synonyms map[string][]string) bool {
	if haystack == "" {
		return false
	}
	if strings.Contains(haystack, keyword) {
		return true
	}
	for _, alt := range synonyms[keyword] {
		if strings.Contains(haystack, alt) {
			return true
		}
	}
	return false
}

// normalizeSynonyms folds keys and alternatives into normalized form. Keys that collapse
// to the same form share their alternatives.
func normalizeSynonyms(synonyms map[string][]string) map[string][]string {
	out := make(map[string][]string, len(synonyms))
	for skill, alts := range synonyms {
		key := Normalize(skill)
		if key == "" {
			continue
		}
		out[key] = append(out[key], nonBlankNormalized(alts)...)
	}
	return out
}

// ATSScorer rates résumé hygiene: sections, action verbs, keyword coverage and length.
type ATSScorer struct {
	vocabulary *Vocabulary
}

// NewATSScorer returns a scorer bound to vocabulary, or to the default one when nil.
func NewATSScorer(vocabulary *Vocabulary) *ATSScorer {
	if vocabulary == nil {
		vocabulary = DefaultVocabulary()
	}
	return &ATSScorer{vocabulary: vocabulary}
}

// Score computes the ATS result for a résumé text against the required keywords.
func (s *ATSScorer) Score(text string, required []string, synonyms map[string][]string) Result {
	sections := s.vocabulary.DetectSections(text)
	verbs := s.vocabulary.CountActionVerbs(text)
	words := len(Tokenize(text))

	sectionScore := math.Min(1, float64(len(sections))/sectionTarget)
	actionScore := math.Min(1, float64(verbs)/actionTarget)
	keywordScore := KeywordCoverage(text, required, synonyms)
	lengthScore := LengthScore(words)

	total := sectionScore*sectionWeight +
		actionScore*actionWeight +
		keywordScore*keywordWeight +
		lengthScore*lengthWeight

	return Result{
		Score: round(clampScore(total*100), 2),
		Components: map[string]float64{
			ComponentSections: clamp01(sectionScore),
			ComponentActions:  clamp01(actionScore),
			ComponentKeywords: clamp01(keywordScore),
			ComponentLength:   clamp01(lengthScore),
		},
		Explanations: atsExplanations(sections, verbs, keywordScore, words),
		Method:       MethodDeterministic,
	}
}

func atsExplanations(sections []string, verbs int, keywordScore float64, words int) []string {
	lines := make([]string, 0, 4)

	if len(sections) == 0 {
		lines = append(lines, "No standard section headers detected.")
	} else {
		lines = append(lines, fmt.Sprintf("Detected sections: %s.", strings.Join(sections, ", ")))
	}

	if verbs < actionTarget {
		lines = append(lines, fmt.Sprintf("Only %d action verbs found; lead bullets with verbs like built or led.", verbs))
	} else {
		lines = append(lines, fmt.Sprintf("Uses %d action verbs.", verbs))
	}

	lines = append(lines, fmt.Sprintf("Covers %.0f%% of the required keywords.", keywordScore*100))

	switch {
	case words < shortResumeWords:
		lines = append(lines, fmt.Sprintf("Résumé is short (%d words).", words))
	case words > longResumeWords:
		lines = append(lines, fmt.Sprintf("Résumé is long (%d words).", words))
	default:
		lines = append(lines, fmt.Sprintf("Résumé length is within range (%d words).", words))
	}

	return lines
}

// ComputeATSScore returns the 0-100 ATS score using the default vocabulary.
func ComputeATSScore(text string, required []string, synonyms map[string][]string) float64 {
	return NewATSScorer(nil).Score(text, required, synonyms).Score
}
