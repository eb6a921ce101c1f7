package orchestrator

// #region imports
import (
	"fmt"
	"strings"

	"github.com/carelane/triage-controller/internal/patterns"
	"github.com/carelane/triage-controller/internal/policy"
	"github.com/carelane/triage-controller/internal/stage"
	"github.com/carelane/triage-controller/internal/triage"
)

// #endregion

// #region build-feedback

// BuildFeedback converts validator errors into corrective instructions for
// the next generation attempt. Every instruction carries the exact
// verbatim phrase the generator must reproduce, deduplicated, with an
// explicit do-not-paraphrase directive.
func BuildFeedback(errors []string, valCtx policy.Context) string {
	symptomLabel := symptomLabelFor(valCtx)
	var fixes []string
	var verbatim []string

	for _, e := range errors {
		switch {
		case strings.Contains(e, `Missing required acknowledgment phrase "I understand"`):
			fixes = append(fixes, `Include the exact phrase "I understand".`)
			verbatim = append(verbatim, policy.Acknowledgment+".")
		case strings.Contains(e, "Missing required pain empathy phrase"):
			fixes = append(fixes, `Include the exact sentence "That sounds really uncomfortable."`)
			verbatim = append(verbatim, policy.PainEmpathy)
		case strings.Contains(e, "Missing required worry empathy phrase"):
			fixes = append(fixes, fmt.Sprintf("Include the exact sentence %q.", policy.WorryEmpathy(symptomLabel)))
			verbatim = append(verbatim, policy.WorryEmpathy(symptomLabel))
		case strings.Contains(e, "Worry empathy phrase must reference the specific symptom"):
			fixes = append(fixes, fmt.Sprintf("Reference the specific symptom in: %q.", policy.WorryEmpathy(symptomLabel)))
			verbatim = append(verbatim, policy.WorryEmpathy(symptomLabel))
		case strings.Contains(e, "Missing exact timeline question"):
			fixes = append(fixes, fmt.Sprintf("Ask exactly: %q.", policy.TimelineQuestion))
			verbatim = append(verbatim, policy.TimelineQuestion)
		case strings.Contains(e, `Missing exact "What concerns you most about this?" question`):
			fixes = append(fixes, fmt.Sprintf("Ask exactly: %q.", policy.ConcernQuestion))
			verbatim = append(verbatim, policy.ConcernQuestion)
		case strings.Contains(e, "Missing in-person examination disclaimer"):
			fixes = append(fixes, fmt.Sprintf("Include: %q.", policy.Disclaimer))
			verbatim = append(verbatim, policy.Disclaimer)
		case strings.Contains(e, "Missing exact follow-up timeframe sentence"):
			fixes = append(fixes, fmt.Sprintf("Include: %q.", policy.FollowUp))
			verbatim = append(verbatim, policy.FollowUp)
		case strings.Contains(e, "Mild response must include exactly 3 numbered recommendations"):
			fixes = append(fixes, "Provide exactly 3 numbered recommendations (1-3).")
		case strings.Contains(e, "must end with the check-in phrase"):
			fixes = append(fixes, `End each numbered recommendation with "How does this sound to you?"`)
			verbatim = append(verbatim, policy.CheckIn)
		case strings.Contains(e, "Emergency response must start with"):
			fixes = append(fixes, `Start with: "Based on what you've told me..."`)
			verbatim = append(verbatim, policy.EmergencyLeadIn)
		case strings.Contains(e, `Here's what I recommend`):
			fixes = append(fixes, `Include: "Here's what I recommend..."`)
			verbatim = append(verbatim, policy.RecommendLeadIn)
		case strings.Contains(e, "Emergency response missing escalation safety phrase"):
			fixes = append(fixes, `Include: "This is beyond what I can safely assess remotely".`)
			verbatim = append(verbatim, policy.EscalationPhrase)
		case strings.Contains(e, "Emergency response must end recommendation"):
			fixes = append(fixes, `End the recommendation with "How does this sound to you?" exactly once.`)
			verbatim = append(verbatim, policy.CheckIn)
		case strings.Contains(e, "at most one numbered recommendation"):
			fixes = append(fixes, "Provide a single action, not a numbered list.")
		case strings.Contains(e, "Contains banned phrase"):
			fixes = append(fixes, bannedPhraseFix())
		case strings.Contains(e, "Contains medical jargon"):
			fixes = append(fixes, "Remove medical jargon; use simple everyday words.")
		}
	}

	if valCtx.TriageLevel == triage.LevelMild {
		fixes = append(fixes, "Keep the response in the mild format with exactly 3 self-care items.")
	}
	if valCtx.TriageLevel != "" && valCtx.TriageLevel != triage.LevelMild {
		fixes = append(fixes, "Keep the emergency format: Based on what you've told me... This is beyond what I can safely assess remotely... Here's what I recommend...")
	}
	if valCtx.Stage == stage.Clarify || valCtx.Stage == stage.Concern {
		fixes = append(fixes, "Do not provide recommendations at this stage.")
	}
	if valCtx.Stage != stage.Greeting {
		verbatim = append(verbatim, policy.Acknowledgment+".")
	}

	parts := []string{strings.Join(fixes, " ")}
	if unique := dedupe(verbatim); len(unique) > 0 {
		parts = append(parts, "You MUST include these exact phrases verbatim: "+strings.Join(unique, " | "))
	}
	parts = append(parts, "Do not paraphrase the verbatim phrases.")
	return strings.Join(parts, " ")
}

// #endregion build-feedback

// #region assessment-feedback

// BuildAssessmentFeedback is the reduced feedback for the structured
// escalation sub-flow, where the template supplies every fixed phrase and
// only the model-authored assessment can go wrong.
func BuildAssessmentFeedback(errors []string) string {
	var fixes []string
	for _, e := range errors {
		switch {
		case strings.Contains(e, "Contains medical jargon"):
			fixes = append(fixes, "Remove all medical jargon; use simple everyday words.")
		case strings.Contains(e, "Contains banned phrase"):
			fixes = append(fixes, bannedPhraseFix())
		}
	}
	fixes = append(fixes, "Keep assessment under 20 words.")
	return strings.Join(fixes, " ")
}

// #endregion assessment-feedback

// #region helpers

func bannedPhraseFix() string {
	var quoted []string
	for _, b := range patterns.BannedPhrases {
		quoted = append(quoted, fmt.Sprintf("%q", b.Phrase))
	}
	return "Remove banned phrases: " + strings.Join(quoted, ", ") + "."
}

func symptomLabelFor(valCtx policy.Context) string {
	text := valCtx.SymptomContext
	if text == "" {
		text = valCtx.LatestUserMessage
	}
	return patterns.SymptomLabel(text)
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	var out []string
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// #endregion helpers
