package topic

import "testing"

func TestMatches(t *testing.T) {
	tests := []struct {
		name    Topic
		pattern Topic
		want    bool
	}{
		{"engine.completed", "engine.completed", true},
		{"engine.completed", "engine.*", true},
		{"engine.cursor.moved", "engine.*", false},
		{"engine.cursor.moved", "engine.**", true},
		{"engine", "engine.**", true},
		{"audio.load.failed", "**.failed", true},
		{"audio.failed", "*.failed", true},
		{"audio.ready", "*.failed", false},
		{"engine.unit.committed", "engine.*.committed", true},
		{"anything.at.all", "**", true},
		{"engine.completed", "engine.completed.now", false},
	}

	for _, tt := range tests {
		if got := tt.name.Matches(tt.pattern); got != tt.want {
			t.Errorf("%q.Matches(%q) = %v, want %v", tt.name, tt.pattern, got, tt.want)
		}
	}
}

func TestValid(t *testing.T) {
	valid := []Topic{"a", "a.b", "engine.cursor.moved"}
	invalid := []Topic{"", ".a", "a.", "a..b"}

	for _, tp := range valid {
		if !tp.Valid() {
			t.Errorf("%q should be valid", tp)
		}
	}
	for _, tp := range invalid {
		if tp.Valid() {
			t.Errorf("%q should be invalid", tp)
		}
	}
}

func TestIsPatternAndJoin(t *testing.T) {
	if !Topic("engine.*").IsPattern() || !Topic("**").IsPattern() {
		t.Error("wildcard topics should be patterns")
	}
	if Topic("engine.completed").IsPattern() {
		t.Error("plain topic should not be a pattern")
	}
	if got := Join("engine", "cursor", "moved"); got != "engine.cursor.moved" {
		t.Errorf("Join = %q", got)
	}
}
