package audio

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestampsArray(t *testing.T) {
	got, err := ParseTimestamps([]byte(`[
		{"word":"see","start":0.1,"end":0.4},
		{"word":"the","start":0.5,"end":0.7}
	]`))
	require.NoError(t, err)
	assert.Equal(t, []Timestamp{
		{Word: "see", Start: 0.1, End: 0.4},
		{Word: "the", Start: 0.5, End: 0.7},
	}, got)
}

func TestParseTimestampsWrapped(t *testing.T) {
	for _, key := range []string{"timestamps", "words"} {
		got, err := ParseTimestamps([]byte(`{"` + key + `":[{"text":"hi","start":"1.5s","end":"2s"}]}`))
		require.NoError(t, err, key)
		require.Len(t, got, 1)
		assert.Equal(t, Timestamp{Word: "hi", Start: 1.5, End: 2}, got[0])
	}
}

func TestParseTimestampsSpeechResults(t *testing.T) {
	data := `{"results":[
		{"alternatives":[{"words":[
			{"word":"one","startTime":"0s","endTime":"0.300s"},
			{"word":"two","startTime":{"seconds":0,"nanos":400000000},"endTime":{"seconds":1}}
		]}]},
		{"alternatives":[{"words":[
			{"word":"three","startTime":"1.2s","endTime":"1.5s"}
		]}]}
	]}`
	got, err := ParseTimestamps([]byte(data))
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "one", got[0].Word)
	assert.InDelta(t, 0.4, got[1].Start, 1e-9)
	assert.InDelta(t, 1.0, got[1].End, 1e-9)
	assert.Equal(t, "three", got[2].Word)
	assert.InDelta(t, 1.2, got[2].Start, 1e-9)
}

func TestParseTimestampsMissingTimeIsInvalid(t *testing.T) {
	got, err := ParseTimestamps([]byte(`[{"word":"a","start":0,"end":1},{"word":"b"}]`))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, got[0].Valid())
	assert.True(t, math.IsNaN(got[1].Start))
	assert.False(t, got[1].Valid())
}

func TestParseTimestampsRejectsBadInput(t *testing.T) {
	_, err := ParseTimestamps([]byte(`{not json`))
	assert.ErrorIs(t, err, ErrInvalidTimestamps)

	_, err = ParseTimestamps([]byte(`{"other":1}`))
	assert.ErrorIs(t, err, ErrInvalidTimestamps)
}

func TestTimestampValid(t *testing.T) {
	assert.True(t, Timestamp{Start: 0, End: 0}.Valid())
	assert.False(t, Timestamp{Start: 2, End: 1}.Valid())
	assert.False(t, Timestamp{Start: -1, End: 1}.Valid())
}
