package event

import "github.com/dshills/sensetype/internal/event/topic"

// Topics published during a session.
const (
	TopicCursorMoved     topic.Topic = "engine.cursor.moved"
	TopicUnitCommitted   topic.Topic = "engine.unit.committed"
	TopicUnitUncommitted topic.Topic = "engine.unit.uncommitted"
	TopicCompleted       topic.Topic = "engine.completed"
	TopicExerciseLoaded  topic.Topic = "exercise.loaded"
	TopicAudioReady      topic.Topic = "audio.ready"
	TopicAudioFailed     topic.Topic = "audio.failed"
	TopicProgressSaved   topic.Topic = "progress.saved"
)

// CursorMoved is published when the cursor moves.
type CursorMoved struct {
	Session string
	Unit    int
	End     bool
}

// UnitCommitted is published when a unit is committed.
type UnitCommitted struct {
	Session string
	Unit    int
	Content string
	Correct bool
}

// UnitUncommitted is published when a retreat clears a commit.
type UnitUncommitted struct {
	Session string
	Unit    int
}

// Completed is published when the cursor reaches the end.
type Completed struct {
	Session   string
	Units     int
	Committed int
	Correct   int
	Incorrect int
}

// ExerciseLoaded is published for every load, including hot reloads.
type ExerciseLoaded struct {
	ID     string
	Title  string
	Path   string
	Units  int
	Reload bool
}

// AudioStatus is published when the audio asset settles.
type AudioStatus struct {
	Source string
	Err    error
}

// ProgressSaved is published after the resume offset was persisted.
type ProgressSaved struct {
	Exercise string
	Offset   int
}
