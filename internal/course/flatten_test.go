package course

import "testing"

func sampleCourse() Course {
	return Course{
		Name: "Onboarding",
		Topics: []Topic{
			{ID: "topic_1", Title: "Welcome", Contents: []ContentItem{
				{ID: "content_1", Type: TypeVideo, Title: "A message from our CEO"},
				{ID: "content_2", Type: TypeDocument, Title: "Company handbook"},
			}},
			{ID: "topic_2", Title: "Empty"},
			{ID: "topic_3", Title: "Tools", Contents: []ContentItem{
				{ID: "content_3", Type: TypeVideo, Title: "Giving feedback"},
				{ID: "quiz_1", Type: TypeQuiz, Title: "Check", QuizData: &QuizSpec{QuizType: QuizSurvey}},
			}},
		},
	}
}

func TestFlatten_PreservesOrder(t *testing.T) {
	items := Flatten(sampleCourse())

	want := []string{"content_1", "content_2", "content_3", "quiz_1"}
	if len(items) != len(want) {
		t.Fatalf("len(Flatten) = %d, want %d", len(items), len(want))
	}
	for i, id := range want {
		if items[i].ID != id {
			t.Errorf("items[%d].ID = %q, want %q", i, items[i].ID, id)
		}
	}
}

func TestFlatten_LengthIsSumOfTopics(t *testing.T) {
	c := sampleCourse()
	total := 0
	for _, tp := range c.Topics {
		total += len(tp.Contents)
	}
	if got := len(Flatten(c)); got != total {
		t.Errorf("len(Flatten) = %d, want %d", got, total)
	}
}

func TestFlatten_EmptyCourse(t *testing.T) {
	items := Flatten(Course{})
	if len(items) != 0 {
		t.Errorf("len(Flatten(empty)) = %d, want 0", len(items))
	}
}

func TestFlatten_Stable(t *testing.T) {
	c := sampleCourse()
	a := Flatten(c)
	b := Flatten(c)
	for i := range a {
		if a[i].ID != b[i].ID {
			t.Fatalf("order changed at %d: %q vs %q", i, a[i].ID, b[i].ID)
		}
	}
}

func TestIndexOf(t *testing.T) {
	items := Flatten(sampleCourse())
	if got := IndexOf(items, "content_3"); got != 2 {
		t.Errorf("IndexOf(content_3) = %d, want 2", got)
	}
	if got := IndexOf(items, "missing"); got != -1 {
		t.Errorf("IndexOf(missing) = %d, want -1", got)
	}
}

func TestTopicOf(t *testing.T) {
	tp, ok := TopicOf(sampleCourse(), "quiz_1")
	if !ok {
		t.Fatal("expected topic for quiz_1")
	}
	if tp.ID != "topic_3" {
		t.Errorf("TopicOf(quiz_1) = %q, want topic_3", tp.ID)
	}
	if _, ok := TopicOf(sampleCourse(), "missing"); ok {
		t.Error("expected no topic for unknown content")
	}
}
