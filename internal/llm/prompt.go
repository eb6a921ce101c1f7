// Package llm provides the generator implementations behind the
// orchestrator: an OpenAI-backed client, a deterministic mock for
// offline operation, and the semantic triage classifier.
package llm

// #region imports
import (
	"strings"

	"github.com/carelane/triage-controller/internal/orchestrator"
	"github.com/carelane/triage-controller/internal/stage"
	"github.com/carelane/triage-controller/internal/triage"
)

// #endregion

// #region system-prompt

// SystemPrompt is the standing instruction set sent with every
// generation request. The validator enforces each of these rules after
// the fact; stating them up front cuts the retry rate.
const SystemPrompt = `You are a careful health-triage assistant. You help people describe their symptoms and decide on a safe next step. You are not a doctor and you never diagnose.

Hard rules:
- Always acknowledge the user with the exact phrase "I understand." (never "I see" or "I hear").
- If the user mentions pain, include the exact sentence "That sounds really uncomfortable."
- If the user expresses worry, include the exact sentence "It's completely understandable that you're concerned about [their specific symptom]."
- Never say "don't worry".
- Use plain everyday language. No medical jargon (no terms like angina, dyspnea, syncope, edema).
- Include the disclaimer "I can provide guidance, but I cannot replace an in-person examination" where instructed.
- Follow the stage instructions exactly. Do not skip ahead to recommendations before the recommendation stage.`

// #endregion system-prompt

// #region developer-prompt

var stageGuidance = map[stage.Stage]string{
	stage.Greeting:       "Provide greeting, consent, and safety disclaimer. Ask the timeline question exactly.",
	stage.Clarify:        "Acknowledge, show empathy, and ask clarifying questions plus red-flag screening. Do not provide recommendations.",
	stage.Concern:        `Ask exactly: "What concerns you most about this?" Do not provide recommendations.`,
	stage.Recommendation: "Provide recommendations using the required format for mild or emergency.",
}

// BuildDeveloperPrompt renders the per-turn instruction block: the
// structured-output contract when the assessment_action format is
// requested, otherwise the stage template plus any validator feedback.
func BuildDeveloperPrompt(st stage.Stage, level triage.Level, feedback string, format orchestrator.ResponseFormat) string {
	if format == orchestrator.FormatAssessmentAction {
		lines := []string{
			"Return ONLY valid JSON with keys assessment and action.",
			"assessment: a short lay-language assessment sentence fragment, no period, no medical jargon.",
			`action: a specific next step in plain language (e.g., "call 911 now").`,
			"Do not include any extra text.",
		}
		if feedback != "" {
			lines = append(lines, "Feedback to fix: "+feedback)
		}
		return strings.Join(lines, " ")
	}

	levelText := "unknown"
	if level != "" {
		levelText = string(level)
	}

	lines := []string{
		"Stage: " + string(st) + ".",
		"Triage: " + levelText + ".",
		stageGuidance[st],
		"Follow all system constraints exactly. Respond with only the assistant message.",
		"If feedback is provided, you MUST follow it verbatim.",
	}

	switch st {
	case stage.Recommendation:
		if level == triage.LevelMild || level == "" {
			lines = append(lines,
				"You MUST output exactly these lines in this order and only fill in bracketed parts:",
				"I understand.",
				"[Optional empathy sentences if needed.]",
				"Based on what you shared about [specific symptom], here are some self-care steps:",
				"1. [Self-care recommendation sentence]. How does this sound to you?",
				"2. [Self-care recommendation sentence]. How does this sound to you?",
				"3. [Self-care recommendation sentence]. How does this sound to you?",
				"If this isn't improving in 3 days, please contact a local clinic or urgent care.",
				"I can provide guidance, but I cannot replace an in-person examination.",
				"Let's work through this together.",
			)
		} else {
			lines = append(lines,
				"You MUST output exactly these lines in this order and only fill in bracketed parts:",
				"Based on what you've told me, [assessment].",
				"I understand.",
				"[Optional empathy sentences if needed.]",
				"This is beyond what I can safely assess remotely.",
				"Here's what I recommend: [specific emergency action]. How does this sound to you?",
				"If this isn't improving in 3 days, please contact a local clinic or urgent care.",
				"I can provide guidance, but I cannot replace an in-person examination.",
				"Let's work through this together.",
			)
		}
		lines = append(lines,
			"Do NOT use markdown, bullets, or bold formatting.",
			"Do NOT add any extra sentences beyond the template lines.",
		)
	case stage.Concern:
		lines = append(lines,
			"You MUST output exactly these lines in this order and only fill in bracketed parts:",
			"I understand.",
			"[Optional empathy sentences if needed.]",
			"What concerns you most about this?",
			"Do NOT add any extra sentences.",
		)
	case stage.Greeting:
		lines = append(lines,
			"You MUST output exactly these lines in this order:",
			"Hi, I'm an AI health assistant.",
			"I can provide guidance, but I cannot replace an in-person examination.",
			"If you think you are in immediate danger, please call 911 now.",
			"When did this first start, and has it been getting better, worse, or staying the same?",
			"Do NOT add any extra sentences.",
		)
	}

	if feedback != "" {
		lines = append(lines, "Validation errors to fix: "+feedback)
	}

	return strings.Join(lines, " ")
}

// #endregion developer-prompt
