package services

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolf-den/wolfden-backend/internal/models"
)

// tuesdayMorning is a fixed Tuesday 10:00am reference point
var tuesdayMorning = time.Date(2026, time.January, 6, 10, 0, 0, 0, time.UTC)

func logAt(at time.Time, outcome string) *models.CallLogEntry {
	return &models.CallLogEntry{
		ID:        fmt.Sprintf("log-%d-%s", at.UnixNano(), outcome),
		LeadID:    "some-other-lead",
		Persona:   models.PersonaStrategicCEO,
		Industry:  "retail",
		Outcome:   outcome,
		CreatedAt: at,
	}
}

func TestColdStartGatekeeperScenario(t *testing.T) {
	engine := NewPredictionEngine()
	prospect := testProspect() // gatekeeper, manufacturing

	prediction := engine.CalculatePrediction(prospect, nil, tuesdayMorning)

	assert.Equal(t, 45.0, prediction.Factors.Persona.Score, "gatekeeper default")
	assert.Equal(t, 65.0, prediction.Factors.Industry.Score, "industry default")
	assert.Equal(t, 85.0, prediction.Factors.TimeOfDay.Score, "9-11am band")
	assert.Equal(t, 85.0, prediction.Factors.DayOfWeek.Score, "Tuesday default")
	assert.Equal(t, 60.0, prediction.Factors.PreviousInteraction.Score, "never contacted")

	// round(45*.25 + 65*.20 + 85*.20 + 85*.15 + 60*.20) = 66
	assert.Equal(t, 66, prediction.Score)
	assert.Equal(t, models.ConfidenceLow, prediction.Confidence)
	assert.Equal(t, models.TrendStable, prediction.Trend)
	assert.Equal(t, models.BestCallTime{Weekday: time.Tuesday, Hour: 10}, prediction.BestTime)
}

func TestScoreBounds(t *testing.T) {
	engine := NewPredictionEngine()
	rng := rand.New(rand.NewSource(42))
	outcomes := []string{models.OutcomeMeetingBooked, models.OutcomeFollowUp, models.OutcomeNurture, models.OutcomeDisqualified}
	personas := []string{models.PersonaGatekeeper, models.PersonaStrategicCEO, models.PersonaROIFocusedExecutive, models.PersonaCultureChampion}

	for trial := 0; trial < 100; trial++ {
		var logs []*models.CallLogEntry
		for i := 0; i < rng.Intn(200); i++ {
			at := tuesdayMorning.Add(-time.Duration(rng.Intn(24*90)) * time.Hour)
			entry := logAt(at, outcomes[rng.Intn(len(outcomes))])
			entry.Persona = personas[rng.Intn(len(personas))]
			if rng.Intn(2) == 0 {
				entry.LeadID = "Acme-Insurance-Jane-Doe"
			}
			logs = append(logs, entry)
		}

		prospect := testProspect()
		prospect.Persona = personas[rng.Intn(len(personas))]
		now := tuesdayMorning.Add(time.Duration(rng.Intn(24*7)) * time.Hour)

		prediction := engine.CalculatePrediction(prospect, logs, now)
		require.GreaterOrEqual(t, prediction.Score, 0)
		require.LessOrEqual(t, prediction.Score, 100)
	}
}

func TestPreviousInteractionScore(t *testing.T) {
	engine := NewPredictionEngine()
	prospect := testProspect()
	leadID := prospect.LeadID()

	ownLog := func(age time.Duration, outcome string) *models.CallLogEntry {
		entry := logAt(tuesdayMorning.Add(-age), outcome)
		entry.LeadID = leadID
		return entry
	}

	tests := []struct {
		name     string
		logs     []*models.CallLogEntry
		expected float64
	}{
		{"never contacted", nil, 60},
		{
			"success within last three",
			[]*models.CallLogEntry{
				ownLog(time.Hour, models.OutcomeNurture),
				ownLog(2*time.Hour, models.OutcomeFollowUp),
				ownLog(3*time.Hour, models.OutcomeNurture),
			},
			85,
		},
		{
			"old success does not count as recent",
			[]*models.CallLogEntry{
				ownLog(time.Hour, models.OutcomeNurture),
				ownLog(2*time.Hour, models.OutcomeNurture),
				ownLog(3*time.Hour, models.OutcomeNurture),
				ownLog(4*time.Hour, models.OutcomeMeetingBooked),
			},
			75, // three recent nurtures dominate instead
		},
		{
			"disqualified",
			[]*models.CallLogEntry{ownLog(time.Hour, models.OutcomeDisqualified)},
			25,
		},
		{
			"nurture pattern wins over disqualification",
			[]*models.CallLogEntry{
				ownLog(time.Hour, models.OutcomeNurture),
				ownLog(2*time.Hour, models.OutcomeNurture),
				ownLog(3*time.Hour, models.OutcomeDisqualified),
			},
			75,
		},
		{
			"contacted before, nothing notable",
			[]*models.CallLogEntry{ownLog(time.Hour, models.OutcomeNurture)},
			65,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, engine.previousInteractionScore(prospect, tt.logs))
		})
	}
}

func TestTimeOfDayFallbackBands(t *testing.T) {
	engine := NewPredictionEngine()

	tests := []struct {
		hour     int
		expected float64
	}{
		{9, 85}, {10, 85},
		{14, 80}, {15, 80},
		{11, 65}, {13, 65},
		{8, 55}, {16, 55},
		{7, 30}, {17, 30}, {22, 30}, {2, 30},
	}

	for _, tt := range tests {
		now := time.Date(2026, time.January, 6, tt.hour, 0, 0, 0, time.UTC)
		assert.Equal(t, tt.expected, engine.timeOfDayScore(nil, now), "hour %d", tt.hour)
	}
}

func TestTimeOfDayUsesHourMatchedHistory(t *testing.T) {
	engine := NewPredictionEngine()

	logs := []*models.CallLogEntry{
		logAt(tuesdayMorning.Add(-7*24*time.Hour), models.OutcomeMeetingBooked), // 10am
		logAt(tuesdayMorning.Add(-14*24*time.Hour), models.OutcomeNurture),      // 10am
		logAt(tuesdayMorning.Add(-3*time.Hour), models.OutcomeDisqualified),     // 7am, different hour
	}

	assert.InDelta(t, 50.0, engine.timeOfDayScore(logs, tuesdayMorning), 0.01)
}

func TestDayOfWeekDefaults(t *testing.T) {
	engine := NewPredictionEngine()

	expected := map[time.Weekday]float64{
		time.Sunday:    20,
		time.Monday:    70,
		time.Tuesday:   85,
		time.Wednesday: 80,
		time.Thursday:  75,
		time.Friday:    50,
		time.Saturday:  25,
	}

	// 2026-01-04 is a Sunday
	for offset := 0; offset < 7; offset++ {
		now := time.Date(2026, time.January, 4+offset, 10, 0, 0, 0, time.UTC)
		assert.Equal(t, expected[now.Weekday()], engine.dayOfWeekScore(nil, now), "%s", now.Weekday())
	}
}

func TestTrend(t *testing.T) {
	engine := NewPredictionEngine()

	build := func(older, recent string, olderCount, recentCount int) []*models.CallLogEntry {
		var logs []*models.CallLogEntry
		at := tuesdayMorning.Add(-90 * 24 * time.Hour)
		for i := 0; i < olderCount; i++ {
			logs = append(logs, logAt(at, older))
			at = at.Add(time.Hour)
		}
		for i := 0; i < recentCount; i++ {
			logs = append(logs, logAt(at, recent))
			at = at.Add(time.Hour)
		}
		return logs
	}

	assert.Equal(t, models.TrendImproving, engine.trend(build(models.OutcomeNurture, models.OutcomeMeetingBooked, 10, 20)))
	assert.Equal(t, models.TrendDeclining, engine.trend(build(models.OutcomeMeetingBooked, models.OutcomeNurture, 10, 20)))
	assert.Equal(t, models.TrendStable, engine.trend(build(models.OutcomeFollowUp, models.OutcomeMeetingBooked, 10, 20)), "same success rate")
	assert.Equal(t, models.TrendStable, engine.trend(build(models.OutcomeNurture, models.OutcomeMeetingBooked, 2, 3)), "under the minimum history")
	assert.Equal(t, models.TrendStable, engine.trend(build(models.OutcomeNurture, models.OutcomeMeetingBooked, 0, 20)), "no preceding history to compare")
}

func TestBestTimeToCall(t *testing.T) {
	engine := NewPredictionEngine()

	var logs []*models.CallLogEntry
	add := func(day time.Time, count, successes int) {
		for i := 0; i < count; i++ {
			outcome := models.OutcomeNurture
			if i < successes {
				outcome = models.OutcomeMeetingBooked
			}
			logs = append(logs, logAt(day.Add(time.Duration(i)*7*24*time.Hour), outcome))
		}
	}

	tuesday10 := tuesdayMorning
	wednesday14 := time.Date(2026, time.January, 7, 14, 0, 0, 0, time.UTC)
	thursday9 := time.Date(2026, time.January, 8, 9, 0, 0, 0, time.UTC)

	add(tuesday10, 5, 2)   // 40%
	add(wednesday14, 5, 4) // 80% - best qualifying bucket
	add(thursday9, 3, 3)   // 100% but below the sample threshold

	best := engine.BestTimeToCall(logs)
	assert.Equal(t, models.BestCallTime{Weekday: time.Wednesday, Hour: 14}, best)

	// No qualifying bucket falls back to Tuesday 10am
	assert.Equal(t, models.BestCallTime{Weekday: time.Tuesday, Hour: 10}, engine.BestTimeToCall(nil))
}

func TestConfidenceLevels(t *testing.T) {
	engine := NewPredictionEngine()
	prospect := testProspect() // gatekeeper, manufacturing

	build := func(total, relevant int) []*models.CallLogEntry {
		var logs []*models.CallLogEntry
		for i := 0; i < total; i++ {
			entry := logAt(tuesdayMorning.Add(-time.Duration(i)*time.Hour), models.OutcomeNurture)
			if i < relevant {
				entry.Persona = prospect.Persona
			}
			logs = append(logs, entry)
		}
		return logs
	}

	assert.Equal(t, models.ConfidenceHigh, engine.confidence(prospect, build(120, 25)))
	assert.Equal(t, models.ConfidenceMedium, engine.confidence(prospect, build(60, 12)))
	assert.Equal(t, models.ConfidenceLow, engine.confidence(prospect, build(120, 5)), "volume without relevance is not enough")
	assert.Equal(t, models.ConfidenceLow, engine.confidence(prospect, build(30, 25)))
}

func TestRecommendations(t *testing.T) {
	engine := NewPredictionEngine()
	prospect := testProspect()

	// Cold-start gatekeeper on a Tuesday morning: only the persona rule fires
	morning := engine.CalculatePrediction(prospect, nil, tuesdayMorning)
	require.Len(t, morning.Recommendations, 1)
	assert.Contains(t, morning.Recommendations[0], models.PersonaGatekeeper)

	// Saturday evening adds the time and day rules, in fixed order
	saturdayEvening := time.Date(2026, time.January, 10, 20, 0, 0, 0, time.UTC)
	evening := engine.CalculatePrediction(prospect, nil, saturdayEvening)
	require.Len(t, evening.Recommendations, 3)
	assert.Contains(t, evening.Recommendations[0], models.PersonaGatekeeper)
	assert.Contains(t, evening.Recommendations[1], "9-11am")
	assert.Contains(t, evening.Recommendations[2], "Tuesday through Thursday")
}
