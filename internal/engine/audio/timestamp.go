package audio

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// Timestamp locates one spoken word in the audio, in seconds.
type Timestamp struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Valid reports whether the timestamp can drive playback.
func (t Timestamp) Valid() bool {
	return !math.IsNaN(t.Start) && !math.IsNaN(t.End) && t.Start >= 0 && t.End >= t.Start
}

// ParseTimestamps reads word timestamps from JSON.
//
// Accepted shapes:
//
//	[{"word":"see","start":0.1,"end":0.4}, ...]
//	{"timestamps":[...]} or {"words":[...]}
//	{"results":[{"alternatives":[{"words":[{"word":"see","startTime":"0.100s","endTime":"0.400s"}]}]}]}
//
// Times may be numbers, duration strings ("1.2s") or {"seconds","nanos"}
// objects. Entries with missing times are kept in place as invalid so that
// later entries stay aligned with their word index.
func ParseTimestamps(data []byte) ([]Timestamp, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrInvalidTimestamps
	}
	root := gjson.ParseBytes(data)

	var list gjson.Result
	switch {
	case root.IsArray():
		list = root
	case root.Get("timestamps").IsArray():
		list = root.Get("timestamps")
	case root.Get("words").IsArray():
		list = root.Get("words")
	case root.Get("results").IsArray():
		list = root.Get("results.#.alternatives.0.words|@flatten")
	default:
		return nil, fmt.Errorf("%w: no word list found", ErrInvalidTimestamps)
	}

	items := list.Array()
	out := make([]Timestamp, 0, len(items))
	for _, item := range items {
		out = append(out, Timestamp{
			Word:  firstString(item, "word", "text", "punctuatedWord"),
			Start: seconds(item, "start", "startTime", "start_time", "t"),
			End:   seconds(item, "end", "endTime", "end_time"),
		})
	}
	return out, nil
}

func firstString(item gjson.Result, keys ...string) string {
	for _, k := range keys {
		if v := item.Get(k); v.Exists() {
			return v.String()
		}
	}
	return ""
}

func seconds(item gjson.Result, keys ...string) float64 {
	for _, k := range keys {
		v := item.Get(k)
		if !v.Exists() {
			continue
		}
		switch v.Type {
		case gjson.Number:
			return v.Float()
		case gjson.String:
			f, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(v.Str), "s"), 64)
			if err == nil {
				return f
			}
		case gjson.JSON:
			if v.IsObject() {
				return v.Get("seconds").Float() + v.Get("nanos").Float()/1e9
			}
		}
	}
	return math.NaN()
}
