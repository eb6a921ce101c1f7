package patterns

import "regexp"

// #region banned-phrases

// BannedPhrase pairs a forbidden phrase with its required replacement.
type BannedPhrase struct {
	Phrase      string
	Replacement string
	pattern     *regexp.Regexp
}

// BannedPhrases may never appear in an assistant reply.
var BannedPhrases = []BannedPhrase{
	{Phrase: "I see", Replacement: "I understand", pattern: regexp.MustCompile(`(?i)\bi see\b`)},
	{Phrase: "I hear", Replacement: "I understand", pattern: regexp.MustCompile(`(?i)\bi hear\b`)},
	{Phrase: "don't worry", Replacement: "It's completely understandable that you're concerned", pattern: regexp.MustCompile(`(?i)\bdon't worry\b`)},
}

// Matches reports whether the banned phrase occurs in the text.
func (b BannedPhrase) Matches(text string) bool {
	return b.pattern.MatchString(text)
}

// #endregion banned-phrases

// #region jargon

// JargonTerms is the clinical vocabulary the assistant must translate into
// plain language. Whole-word matches only.
var JargonTerms = []SignalPattern{
	{ID: "myocardial infarction", Pattern: regexp.MustCompile(`(?i)\bmyocardial infarction\b`)},
	{ID: "angina", Pattern: regexp.MustCompile(`(?i)\bangina\b`)},
	{ID: "dyspnea", Pattern: regexp.MustCompile(`(?i)\bdyspnea\b`)},
	{ID: "syncope", Pattern: regexp.MustCompile(`(?i)\bsyncope\b`)},
	{ID: "tachycardia", Pattern: regexp.MustCompile(`(?i)\btachycardia\b`)},
	{ID: "hypertension", Pattern: regexp.MustCompile(`(?i)\bhypertension\b`)},
	{ID: "edema", Pattern: regexp.MustCompile(`(?i)\bedema\b`)},
	{ID: "hemorrhage", Pattern: regexp.MustCompile(`(?i)\bhemorrhage\b`)},
	{ID: "anaphylaxis", Pattern: regexp.MustCompile(`(?i)\banaphylaxis\b`)},
	{ID: "pyrexia", Pattern: regexp.MustCompile(`(?i)\bpyrexia\b`)},
	{ID: "analgesic", Pattern: regexp.MustCompile(`(?i)\banalgesic\b`)},
	{ID: "cephalalgia", Pattern: regexp.MustCompile(`(?i)\bcephalalgia\b`)},
}

// #endregion jargon
