package question

import (
	"fmt"
	"strings"
)

// Issue captures a validation problem in a question catalog.
type Issue struct {
	Field   string
	Message string
}

// ValidationError reports one or more validation issues.
type ValidationError struct {
	Issues []Issue
}

// Error returns a readable message for validation failures.
func (err *ValidationError) Error() string {
	if err == nil || len(err.Issues) == 0 {
		return ""
	}
	parts := make([]string, 0, len(err.Issues))
	for _, issue := range err.Issues {
		parts = append(parts, fmt.Sprintf("%s: %s", issue.Field, issue.Message))
	}
	return fmt.Sprintf("question catalog validation failed: %s", strings.Join(parts, "; "))
}

type issueCollector struct {
	issues []Issue
}

func (collector *issueCollector) add(field, message string) {
	collector.issues = append(collector.issues, Issue{Field: field, Message: message})
}

func (collector *issueCollector) result() error {
	if len(collector.issues) == 0 {
		return nil
	}
	return &ValidationError{Issues: collector.issues}
}

var knownTopics = func() map[Topic]struct{} {
	set := make(map[Topic]struct{}, len(Topics))
	for _, topic := range Topics {
		set[topic] = struct{}{}
	}
	return set
}()

// NormalizeSpec trims whitespace and validates a question catalog.
func NormalizeSpec(spec Spec) (Spec, error) {
	collector := &issueCollector{}
	if spec.Version == 0 {
		collector.add("version", "is required")
	} else if spec.Version != 1 {
		collector.add("version", fmt.Sprintf("unsupported version %d", spec.Version))
	}
	if len(spec.Questions) == 0 {
		collector.add("questions", "must include at least one entry")
	}

	seenIDs := map[string]struct{}{}
	for i, question := range spec.Questions {
		prefix := fmt.Sprintf("questions[%d]", i)
		question.ID = strings.TrimSpace(question.ID)
		if question.ID == "" {
			collector.add(prefix+".id", "is required")
		} else if _, exists := seenIDs[question.ID]; exists {
			collector.add(prefix+".id", fmt.Sprintf("duplicate id %q", question.ID))
		} else {
			seenIDs[question.ID] = struct{}{}
		}

		question.Title = strings.TrimSpace(question.Title)
		if question.Title == "" {
			collector.add(prefix+".title", "is required")
		}
		question.Description = strings.TrimSpace(question.Description)

		switch question.Difficulty {
		case DifficultyEasy, DifficultyMedium, DifficultyHard:
		case "":
			collector.add(prefix+".difficulty", "is required")
		default:
			collector.add(prefix+".difficulty", fmt.Sprintf("unknown difficulty %q", question.Difficulty))
		}

		for topicIndex, topic := range question.Topics {
			if _, ok := knownTopics[topic]; !ok {
				collector.add(fmt.Sprintf("%s.topics[%d]", prefix, topicIndex), fmt.Sprintf("unknown topic %q", topic))
			}
		}
		if question.AverageTimeMin < 0 {
			collector.add(prefix+".average_time_min", "must not be negative")
		}

		if len(question.TestCases) == 0 {
			collector.add(prefix+".test_cases", "must include at least one entry")
		}
		seenCases := map[string]struct{}{}
		for caseIndex, tc := range question.TestCases {
			field := fmt.Sprintf("%s.test_cases[%d].id", prefix, caseIndex)
			tc.ID = strings.TrimSpace(tc.ID)
			tc.Description = strings.TrimSpace(tc.Description)
			if tc.ExpectedOutput == nil {
				tc.ExpectedOutput = true
			}
			switch {
			case tc.ID == "":
				collector.add(field, "is required")
			case !isWordToken(tc.ID):
				collector.add(field, fmt.Sprintf("id %q must contain only letters, digits, or underscores", tc.ID))
			case question.ID != "" && !strings.HasPrefix(tc.ID, question.ID+"t"):
				collector.add(field, fmt.Sprintf("id %q must start with %q", tc.ID, question.ID+"t"))
			}
			if _, exists := seenCases[tc.ID]; exists && tc.ID != "" {
				collector.add(field, fmt.Sprintf("duplicate id %q", tc.ID))
			}
			seenCases[tc.ID] = struct{}{}
			question.TestCases[caseIndex] = tc
		}

		seenHints := map[string]struct{}{}
		for hintIndex, hint := range question.Hints {
			field := fmt.Sprintf("%s.hints[%d]", prefix, hintIndex)
			hint.ID = strings.TrimSpace(hint.ID)
			hint.Text = strings.TrimSpace(hint.Text)
			if hint.ID == "" {
				collector.add(field+".id", "is required")
			} else if _, exists := seenHints[hint.ID]; exists {
				collector.add(field+".id", fmt.Sprintf("duplicate id %q", hint.ID))
			}
			seenHints[hint.ID] = struct{}{}
			if hint.Text == "" {
				collector.add(field+".text", "is required")
			}
			question.Hints[hintIndex] = hint
		}
		spec.Questions[i] = question
	}

	if err := collector.result(); err != nil {
		return Spec{}, err
	}
	return spec, nil
}

// isWordToken reports whether id would survive the [\w+] bracket token in test output.
func isWordToken(id string) bool {
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
		default:
			return false
		}
	}
	return id != ""
}
