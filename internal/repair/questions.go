package repair

import (
	"regexp"
	"strings"
)

// #region categories

// questionCategory pairs a symptom-area pattern with the targeted yes/no
// screening questions asked when it matches.
type questionCategory struct {
	pattern   *regexp.Regexp
	questions []string
}

var questionCategories = []questionCategory{
	{
		// Head symptoms; word-bounded so "headache" matches but not
		// "ahead" or "heading".
		pattern: regexp.MustCompile(`(?i)\b(headache|head pain|migraine)\b`),
		questions: []string{
			"Is this the worst headache you've ever had?",
			"Do you have any neck stiffness or pain?",
			"Have you noticed any vision changes, confusion, or trouble speaking?",
		},
	},
	{
		pattern: regexp.MustCompile(`(?i)chest|breathing|breath|wheezing|cough`),
		questions: []string{
			"Are you having any chest pain, pressure, or tightness?",
			"Have you noticed any blue lips or difficulty catching your breath?",
			"Are you feeling lightheaded, dizzy, or like you might pass out?",
		},
	},
	{
		pattern: regexp.MustCompile(`(?i)stomach|nausea|vomit|vomiting|diarrhea|abdominal|belly`),
		questions: []string{
			"Are you vomiting blood or seeing blood in your stool?",
			"Is the pain severe or getting worse quickly?",
			"Are you able to keep fluids down?",
		},
	},
	{
		pattern: regexp.MustCompile(`(?i)dizzy|dizziness|lightheaded|faint|confusion|weakness|numb`),
		questions: []string{
			"Have you noticed any one-sided weakness or numbness?",
			"Are you having trouble speaking or seeing clearly?",
			"Have you fainted or lost consciousness?",
		},
	},
	{
		pattern: regexp.MustCompile(`(?i)swelling|swollen|rash|hives|allergic|tongue|face`),
		questions: []string{
			"Is your face, tongue, or throat swelling?",
			"Are you having trouble breathing or swallowing?",
			"Did this start after eating something or taking a medication?",
		},
	},
}

var generalPain = regexp.MustCompile(`(?i)pain|ache|hurts|hurting|sore`)

// Critical topics that must be screened somewhere in the question set.
var criticalTopics = []string{
	"chest pain", "trouble breathing", "fainting", "confusion", "weakness",
}

const (
	universalQuestion = "Are you having any chest pain, trouble breathing, or feeling like you might pass out?"
	bleedingQuestion  = "Are you experiencing severe bleeding that won't stop, or do your symptoms seem to be getting much worse very quickly?"
)

// #endregion categories

// #region screening

// screeningQuestions selects red-flag screening questions matched to the
// symptoms mentioned so far. Every question is normalized to end with a
// single question mark.
func screeningQuestions(symptomContext string) []string {
	text := strings.ToLower(symptomContext)
	var questions []string

	for _, cat := range questionCategories {
		if cat.pattern.MatchString(text) {
			questions = append(questions, cat.questions...)
		}
	}

	// General pain fallback when nothing more specific matched.
	if len(questions) == 0 && generalPain.MatchString(text) {
		questions = append(questions,
			"Is the pain severe or getting worse quickly?",
			"Are you able to function normally, or is it interfering with daily activities?",
		)
	}

	if !coversCriticalTopics(questions) {
		questions = append(questions, universalQuestion)
	}

	// Always screen for severe bleeding and rapid worsening.
	questions = append(questions, bleedingQuestion)

	for i, q := range questions {
		questions[i] = strings.TrimRight(q, "?") + "?"
	}
	return questions
}

func coversCriticalTopics(questions []string) bool {
	for _, q := range questions {
		for _, topic := range criticalTopics {
			if strings.Contains(q, topic) {
				return true
			}
		}
	}
	return false
}

// #endregion screening
