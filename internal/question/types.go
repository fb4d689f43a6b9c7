package question

// Difficulty grades how hard a question is.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Topic is one of the fixed React subject areas a question covers.
type Topic string

const (
	TopicHooks       Topic = "React Hooks"
	TopicState       Topic = "State Management"
	TopicComponents  Topic = "Components"
	TopicProps       Topic = "Props"
	TopicJSX         Topic = "JSX"
	TopicContext     Topic = "Context API"
	TopicEvents      Topic = "Event Handling"
	TopicLifecycle   Topic = "Lifecycle Methods"
	TopicPerformance Topic = "Performance"
	TopicRendering   Topic = "Rendering"
)

// Topics lists every known topic in display order.
var Topics = []Topic{
	TopicHooks,
	TopicState,
	TopicComponents,
	TopicProps,
	TopicJSX,
	TopicContext,
	TopicEvents,
	TopicLifecycle,
	TopicPerformance,
	TopicRendering,
}

// Spec defines the catalog file schema loaded from JSON or YAML.
type Spec struct {
	Version   int        `json:"version" yaml:"version"`
	Questions []Question `json:"questions" yaml:"questions"`
}

// Question is a single coding exercise.
type Question struct {
	ID             string     `json:"id" yaml:"id"`
	Title          string     `json:"title" yaml:"title"`
	Description    string     `json:"description" yaml:"description"`
	Difficulty     Difficulty `json:"difficulty" yaml:"difficulty"`
	Topics         []Topic    `json:"topics" yaml:"topics"`
	AverageTimeMin int        `json:"averageTimeMin" yaml:"average_time_min"`
	StarterCode    string     `json:"starterCode" yaml:"starter_code"`
	TestCases      []TestCase `json:"testCases" yaml:"test_cases"`
	Hints          []Hint     `json:"hints" yaml:"hints"`
	Solution       string     `json:"-" yaml:"solution"`
}

// TestCase names one expected check for a question.
type TestCase struct {
	ID             string `json:"id" yaml:"id"`
	Description    string `json:"description" yaml:"description"`
	ExpectedOutput any    `json:"expectedOutput" yaml:"expected_output"`
}

// Hint is a progressive nudge toward a solution.
type Hint struct {
	ID   string `json:"id" yaml:"id"`
	Text string `json:"text" yaml:"text"`
}

// HasTopic reports whether q covers topic.
func (q Question) HasTopic(topic Topic) bool {
	for _, t := range q.Topics {
		if t == topic {
			return true
		}
	}
	return false
}

// TestCaseIDs returns the case IDs in declaration order.
func (q Question) TestCaseIDs() []string {
	ids := make([]string, 0, len(q.TestCases))
	for _, tc := range q.TestCases {
		ids = append(ids, tc.ID)
	}
	return ids
}
