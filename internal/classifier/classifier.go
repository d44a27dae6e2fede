// Package classifier loads the serialized personality model and scores
// feature vectors against it.
package classifier

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Features carries the seven behavioral inputs. StageFear and
// DrainedAfterSocializing are "Yes"/"No" answers, case-insensitive.
type Features struct {
	TimeSpentAlone          float64
	StageFear               string
	SocialEventAttendance   float64
	GoingOutside            float64
	DrainedAfterSocializing string
	FriendsCircleSize       float64
	PostFrequency           float64
}

// Model is the deserialized classifier artifact: a linear scorer whose
// weights are ordered Time_spent_Alone, Stage_fear,
// Social_event_attendance, Going_outside, Drained_after_socializing,
// Friends_circle_size, Post_frequency. The weight order matches the
// training pipeline and must not change. A Model is read-only after
// Load and safe for concurrent use.
type Model struct {
	Weights   [7]float64 `json:"weights"`
	Bias      float64    `json:"bias"`
	Threshold float64    `json:"threshold"`
}

// Load reads the model artifact from path. A missing file is not an
// error: it returns (nil, nil) and the caller serves without the
// prediction feature.
func Load(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read model: %w", err)
	}
	m := &Model{}
	if err := json.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}
	return m, nil
}

// Predict maps the two categorical answers onto {1,0}, assembles the
// vector in column order and returns "Extrovert" or "Introvert".
func (m *Model) Predict(f Features) string {
	vec := [7]float64{
		f.TimeSpentAlone,
		yesNo(f.StageFear),
		f.SocialEventAttendance,
		f.GoingOutside,
		yesNo(f.DrainedAfterSocializing),
		f.FriendsCircleSize,
		f.PostFrequency,
	}
	score := m.Bias
	for i, w := range m.Weights {
		score += w * vec[i]
	}
	if score >= m.Threshold {
		return "Extrovert"
	}
	return "Introvert"
}

func yesNo(s string) float64 {
	if strings.EqualFold(s, "yes") {
		return 1
	}
	return 0
}
