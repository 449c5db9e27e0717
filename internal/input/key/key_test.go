package key

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		want Event
	}{
		{"a", Event{Key: KeyRune, Rune: 'a'}},
		{"A", Event{Key: KeyRune, Rune: 'A', Modifiers: ModShift}},
		{"-", Event{Key: KeyRune, Rune: '-'}},
		{"CR", Event{Key: KeyEnter}},
		{"enter", Event{Key: KeyEnter}},
		{"BS", Event{Key: KeyBackspace}},
		{"Space", Event{Key: KeyRune, Rune: ' '}},
		{"lt", Event{Key: KeyRune, Rune: '<'}},
		{"C-s", Event{Key: KeyRune, Rune: 's', Modifiers: ModCtrl}},
		{"C-S", Event{Key: KeyRune, Rune: 's', Modifiers: ModCtrl}},
		{"C--", Event{Key: KeyRune, Rune: '-', Modifiers: ModCtrl}},
		{"S-Tab", Event{Key: KeyTab, Modifiers: ModShift}},
		{"a-m-Left", Event{Key: KeyLeft, Modifiers: ModAlt | ModMeta}},
	}
	for _, tt := range tests {
		got, err := Parse(tt.name)
		require.NoError(t, err, tt.name)
		assert.True(t, tt.want.Equals(got), "Parse(%q) = %+v", tt.name, got)
		assert.False(t, got.Timestamp.IsZero())
	}
}

func TestParseErrors(t *testing.T) {
	for name, want := range map[string]error{
		"":          ErrEmptySpec,
		"  ":        ErrEmptySpec,
		"X-a":       ErrInvalidSpec,
		"nosuchkey": ErrInvalidSpec,
	} {
		_, err := Parse(name)
		assert.ErrorIs(t, err, want, "%q", name)
	}
}

func TestParseSequence(t *testing.T) {
	seq, err := ParseSequence("H i <Space>x<BS><CR>")
	require.NoError(t, err)

	want := []Event{
		{Key: KeyRune, Rune: 'H', Modifiers: ModShift},
		{Key: KeyRune, Rune: 'i'},
		{Key: KeyRune, Rune: ' '},
		{Key: KeyRune, Rune: 'x'},
		{Key: KeyBackspace},
		{Key: KeyEnter},
	}
	require.Equal(t, len(want), seq.Len(), seq.String())
	for i, e := range want {
		assert.True(t, e.Equals(seq.Events[i]), "event %d = %+v", i, seq.Events[i])
	}
	assert.Equal(t, "H i <Space> x <BS> <CR>", seq.String())
}

func TestParseSequenceErrors(t *testing.T) {
	_, err := ParseSequence("ab<Space")
	assert.ErrorIs(t, err, ErrUnmatchedBracket)

	_, err = ParseSequence("a<Q-x>")
	assert.ErrorIs(t, err, ErrInvalidSpec)
}

func TestStringRoundTrips(t *testing.T) {
	events := []Event{
		NewRuneEvent('a', ModNone),
		NewRuneEvent('Z', ModShift),
		NewRuneEvent(' ', ModNone),
		NewRuneEvent('<', ModNone),
		NewRuneEvent('p', ModCtrl),
		NewSpecialEvent(KeyTab, ModShift),
		NewSpecialEvent(KeyBackspace, ModNone),
		NewSpecialEvent(KeyEscape, ModNone),
	}
	for _, e := range events {
		seq, err := ParseSequence(e.String())
		require.NoError(t, err, e.String())
		require.Equal(t, 1, seq.Len(), e.String())
		assert.True(t, e.Equals(seq.Events[0]), "%s parsed as %+v", e, seq.Events[0])
	}
}

func TestEventText(t *testing.T) {
	tests := []struct {
		event Event
		text  string
		ok    bool
	}{
		{NewRuneEvent('a', ModNone), "a", true},
		{NewRuneEvent('A', ModShift), "A", true},
		{NewRuneEvent(' ', ModNone), " ", true},
		{NewSpecialEvent(KeySpace, ModNone), " ", true},
		{NewSpecialEvent(KeyEnter, ModNone), "\n", true},
		{NewRuneEvent('s', ModCtrl), "", false},
		{NewRuneEvent('\x07', ModNone), "", false},
		{NewSpecialEvent(KeyTab, ModNone), "", false},
		{NewSpecialEvent(KeyBackspace, ModNone), "", false},
	}
	for _, tt := range tests {
		text, ok := tt.event.Text()
		assert.Equal(t, tt.text, text, "%v", tt.event)
		assert.Equal(t, tt.ok, ok, "%v", tt.event)
	}
}

func TestEventPredicates(t *testing.T) {
	assert.False(t, NewRuneEvent('A', ModShift).IsModified())
	assert.True(t, NewRuneEvent('a', ModAlt).IsModified())
	assert.True(t, NewSpecialEvent(KeyEnter, ModShift).IsModified())

	assert.True(t, NewSpecialEvent(KeyTab, ModNone).IsTab())
	assert.False(t, NewSpecialEvent(KeyTab, ModShift).IsTab())
	assert.True(t, NewSpecialEvent(KeyBackspace, ModCtrl).IsBackspace())
}

func TestKeyString(t *testing.T) {
	assert.Equal(t, "CR", KeyEnter.String())
	assert.Equal(t, "Left", KeyLeft.String())
	assert.Equal(t, "Rune", KeyRune.String())
	assert.Equal(t, "Key(200)", Key(200).String())
}
