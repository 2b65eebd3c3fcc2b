package models

import "time"

// Confidence levels for a prediction
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// Trend values comparing recent outcomes against older history
const (
	TrendImproving = "improving"
	TrendStable    = "stable"
	TrendDeclining = "declining"
)

// PredictionFactor is one weighted component of the final score
type PredictionFactor struct {
	Score  float64 `json:"score"`
	Weight float64 `json:"weight"`
}

// PredictionFactors holds the five independent factor scores
type PredictionFactors struct {
	Persona             PredictionFactor `json:"persona"`
	Industry            PredictionFactor `json:"industry"`
	TimeOfDay           PredictionFactor `json:"time_of_day"`
	DayOfWeek           PredictionFactor `json:"day_of_week"`
	PreviousInteraction PredictionFactor `json:"previous_interaction"`
}

// BestCallTime is the recommended (weekday, hour) window for the next attempt
type BestCallTime struct {
	Weekday time.Weekday `json:"weekday"`
	Hour    int          `json:"hour"`
}

// SuccessPrediction is a derived value - recomputed on demand, never persisted
type SuccessPrediction struct {
	Score           int               `json:"score"` // 0-100
	Confidence      string            `json:"confidence"`
	Factors         PredictionFactors `json:"factors"`
	Trend           string            `json:"trend"`
	Recommendations []string          `json:"recommendations"`
	BestTime        BestCallTime      `json:"best_time"`
}
