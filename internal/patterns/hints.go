package patterns

import "regexp"

// #region symptom-hints

// SymptomHint maps a keyword pattern to the lay label used to personalize
// empathy text and self-care summaries.
type SymptomHint struct {
	Keyword *regexp.Regexp
	Label   string
}

// SymptomHints is ordered; the first match wins.
var SymptomHints = []SymptomHint{
	{Keyword: regexp.MustCompile(`(?i)headache|head pain`), Label: "your headache"},
	{Keyword: regexp.MustCompile(`(?i)fatigue|tired|exhausted`), Label: "your fatigue"},
	{Keyword: regexp.MustCompile(`(?i)cough|cold|congestion|runny nose|sore throat`), Label: "your cold symptoms"},
	{Keyword: regexp.MustCompile(`(?i)chest pain|chest pressure|chest tightness`), Label: "your chest discomfort"},
	{Keyword: regexp.MustCompile(`(?i)trouble breathing|difficulty breathing|shortness of breath`), Label: "your breathing trouble"},
	{Keyword: regexp.MustCompile(`(?i)dizzy|lightheaded`), Label: "your dizziness"},
	{Keyword: regexp.MustCompile(`(?i)stomach|nausea|vomit`), Label: "your stomach symptoms"},
}

// DefaultSymptomLabel is used when no hint matches.
const DefaultSymptomLabel = "your symptoms"

// SymptomLabel returns the label for the first matching hint.
func SymptomLabel(text string) string {
	if text == "" {
		return DefaultSymptomLabel
	}
	for _, h := range SymptomHints {
		if h.Keyword.MatchString(text) {
			return h.Label
		}
	}
	return DefaultSymptomLabel
}

// #endregion symptom-hints

// #region empathy-indicators

// Indicators that the user is describing pain or expressing worry; the
// validator and the repair generator key the empathy requirements on these.
var (
	PainIndicator  = regexp.MustCompile(`(?i)\b(pain|ache|hurts|hurting|sore|headache|head pain)\b`)
	WorryIndicator = regexp.MustCompile(`(?i)\b(worried|concerned|scared|anxious|nervous)\b`)
)

// #endregion empathy-indicators
