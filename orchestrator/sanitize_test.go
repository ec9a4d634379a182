package orchestrator

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

type score float32
type label string

func TestSanitize(t *testing.T) {
	req := require.New(t)
	in := map[string]any{
		"f32":    float32(0.1),
		"named":  score(72.5),
		"label":  label("happy"),
		"int8":   int8(-3),
		"uint":   uint16(7),
		"number": json.Number("12"),
		"frac":   json.Number("0.25"),
		"ptr":    new(int),
		"nilptr": (*int)(nil),
		"list":   []float32{1.5},
		"nilsl":  []string(nil),
		"arr":    [2]bool{true, false},
		"keys":   map[int]string{1: "a"},
		"struct": VoiceAnalysis{WPM: 120, Pace: "ideal", Duration: 15},
	}

	got := Sanitize(in)
	req.Equal(map[string]any{
		"f32":    0.1,
		"named":  72.5,
		"label":  "happy",
		"int8":   int64(-3),
		"uint":   uint64(7),
		"number": int64(12),
		"frac":   0.25,
		"ptr":    0,
		"nilptr": nil,
		"list":   []any{1.5},
		"nilsl":  []any{},
		"arr":    []any{true, false},
		"keys":   map[string]any{"1": "a"},
		"struct": map[string]any{"wpm": 120.0, "pace": "ideal", "duration": 15.0},
	}, got)

	req.Equal(got, Sanitize(got))
}

func TestSanitizePlainValuesUntouched(t *testing.T) {
	req := require.New(t)
	for _, v := range []any{nil, 1.25, 3, int64(4), uint64(5), "x", true, []any{"a", 2.0}, map[string]any{"k": []any{}}} {
		req.Equal(v, Sanitize(v))
	}
}

func TestSanitizeNonFinite(t *testing.T) {
	req := require.New(t)
	req.Nil(Sanitize(math.NaN()))
	req.Nil(Sanitize(score(float32(math.Inf(1)))))
	req.Equal([]any{1.5, nil}, Sanitize([]float64{1.5, math.Inf(-1)}))
}

func TestRecordNeverNil(t *testing.T) {
	req := require.New(t)
	res := EmptyResult()
	res.OverallMarks = math.NaN()
	res.Breakdown.VocalConfidence = math.Inf(1)
	res.Transcript = "kept"

	rec := res.Record()
	req.NotNil(rec)
	req.Nil(rec["overall_marks"])
	req.Equal("kept", rec["transcript"])
	req.Nil(rec["breakdown"].(map[string]any)["vocal_confidence"])
	req.Equal(0.0, rec["breakdown"].(map[string]any)["clarity"])
	req.Equal(map[string]any{"wpm": 0.0, "pace": "none", "duration": 0.0}, rec["voice_analysis"])

	_, err := json.Marshal(rec)
	req.NoError(err)
}

func TestRecord(t *testing.T) {
	req := require.New(t)
	rec := EmptyResult().Record()

	req.Equal(0.0, rec["overall_marks"])
	req.Equal("none", rec["emotion_detected"])
	req.Equal(map[string]any{}, rec["emotion_details"])
	req.Equal(map[string]any{"matched": []any{}, "missed": []any{}}, rec["keywords"])
	req.Equal(map[string]any{"wpm": 0.0, "pace": "none", "duration": 0.0}, rec["voice_analysis"])
	req.Len(rec["breakdown"], 7)
	req.Len(rec["skill_scores"], 4)
	req.Len(rec, 12)
	req.Equal(rec, Sanitize(rec))
}
