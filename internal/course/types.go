package course

// ContentType identifies the kind of material a content item carries.
type ContentType string

const (
	TypeVideo    ContentType = "video"
	TypeAudio    ContentType = "audio"
	TypeImage    ContentType = "image"
	TypeDocument ContentType = "document"
	TypeWeb      ContentType = "web"
	TypeScorm    ContentType = "scorm"
	TypeQuiz     ContentType = "quiz"
)

// Valid reports whether t is one of the known content types.
func (t ContentType) Valid() bool {
	switch t {
	case TypeVideo, TypeAudio, TypeImage, TypeDocument, TypeWeb, TypeScorm, TypeQuiz:
		return true
	}
	return false
}

// QuizType distinguishes scored quizzes from surveys.
type QuizType string

const (
	QuizEvaluative QuizType = "evaluative"
	QuizSurvey     QuizType = "survey"
)

// QuestionType is the answer format of a quiz question.
type QuestionType string

const (
	QuestionMultipleChoice QuestionType = "multipleChoice"
	QuestionOpenText       QuestionType = "openText"
)

// Course is the document produced by the authoring side. The player treats
// it as immutable for the duration of a playback session.
type Course struct {
	Name           string         `json:"name"`
	InternalCode   string         `json:"internalCode,omitempty"`
	Description    string         `json:"description,omitempty"`
	FormatVersion  string         `json:"formatVersion,omitempty"`
	ContentLocking ContentLocking `json:"contentLocking"`
	Topics         []Topic        `json:"topics"`
}

// ContentLocking gates access to each item on completion of its predecessor.
type ContentLocking struct {
	Enabled bool `json:"enabled"`

	// MinimumTime is the dwell time in seconds before non-quiz content
	// counts as completed.
	MinimumTime int `json:"minimumTime"`
}

// Topic groups an ordered list of content items.
type Topic struct {
	ID       string        `json:"id"`
	Title    string        `json:"title"`
	Contents []ContentItem `json:"contents"`
}

// ContentItem is one unit of course material.
type ContentItem struct {
	ID          string      `json:"id"`
	Type        ContentType `json:"type"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	Source      string      `json:"source,omitempty"`

	// QuizData is present iff Type is TypeQuiz.
	QuizData *QuizSpec `json:"quizData,omitempty"`
}

// IsQuiz reports whether the item is a quiz.
func (c ContentItem) IsQuiz() bool {
	return c.Type == TypeQuiz
}

// QuizSpec is the quiz embedded in a quiz content item.
type QuizSpec struct {
	Name      string     `json:"name,omitempty"`
	QuizType  QuizType   `json:"quizType"`
	Questions []Question `json:"questions"`
	Config    QuizConfig `json:"config"`
}

// Question is a single quiz question.
type Question struct {
	ID           string       `json:"id"`
	QuestionType QuestionType `json:"questionType"`
	Text         string       `json:"questionText"`
	Alternatives []string     `json:"alternatives,omitempty"`

	// CorrectAnswerIndex is set for multiple choice questions of
	// evaluative quizzes.
	CorrectAnswerIndex *int `json:"correctAnswerIndex,omitempty"`
}

// IsMultipleChoice reports whether the question is answered by picking an alternative.
func (q Question) IsMultipleChoice() bool {
	return q.QuestionType == QuestionMultipleChoice
}

// QuizConfig carries the authoring-side quiz settings. Only
// ShowImmediateFeedback is enforced by the player; the rest is
// declarative and belongs to the quiz runtime.
type QuizConfig struct {
	ShowImmediateFeedback bool `json:"showImmediateFeedback"`
	MaxTimeMinutes        *int `json:"maxTimeMinutes,omitempty"`
	RetakeAttempts        int  `json:"retakeAttempts"`
	RandomizeQuestions    bool `json:"randomizeQuestions"`
	RandomizeAlternatives bool `json:"randomizeAlternatives"`
	QuestionsToDisplay    *int `json:"questionsToDisplay,omitempty"`
}

// DefaultQuizConfig returns the settings a freshly authored quiz starts with.
func DefaultQuizConfig() QuizConfig {
	return QuizConfig{
		ShowImmediateFeedback: true,
		RetakeAttempts:        1,
	}
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int {
	return &v
}
