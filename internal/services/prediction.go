package services

import (
	"fmt"
	"log"
	"math"
	"sort"
	"time"

	"github.com/montanaflynn/stats"

	"github.com/wolf-den/wolfden-backend/internal/models"
)

// Factor weights. They sum to 1.0; the final score is the rounded weighted sum.
const (
	weightPersona             = 0.25
	weightIndustry            = 0.20
	weightTimeOfDay           = 0.20
	weightDayOfWeek           = 0.15
	weightPreviousInteraction = 0.20
)

// Per-persona default scores used when no history exists for the persona
var personaDefaults = map[string]float64{
	models.PersonaROIFocusedExecutive:   75,
	models.PersonaStrategicCEO:          70,
	models.PersonaBenefitsOptimizer:     65,
	models.PersonaCostConsciousEmployer: 60,
	models.PersonaOperationsLeader:      55,
	models.PersonaCultureChampion:       50,
	models.PersonaGatekeeper:            45,
}

const (
	defaultPersonaScore  = 50
	defaultIndustryScore = 65
)

// Per-weekday defaults (Sunday..Saturday) when no same-weekday history exists
var weekdayDefaults = [7]float64{20, 70, 85, 80, 75, 50, 25}

// trendWindow is how many recent logs the trend comparison looks at, and
// trendMinLogs the minimum history before a trend is reported at all
const (
	trendWindow   = 20
	trendMinLogs  = 10
	trendCutoff   = 5.0
	bucketMinimum = 5 // samples a (weekday, hour) bucket needs to be considered
)

// PredictionEngine scores the likelihood of a successful outcome for a
// prospect from historical call logs. It is stateless; construct one in
// main.go and inject it wherever sessions are owned.
type PredictionEngine struct{}

// NewPredictionEngine creates the heuristic scorer
func NewPredictionEngine() *PredictionEngine {
	return &PredictionEngine{}
}

// CalculatePrediction is a pure function of its inputs: five factor scores on
// a 0-100 scale combined as a fixed weighted sum, plus confidence, trend,
// recommendations, and the best time to call.
func (e *PredictionEngine) CalculatePrediction(prospect *models.Prospect, logs []*models.CallLogEntry, now time.Time) *models.SuccessPrediction {
	factors := models.PredictionFactors{
		Persona:             models.PredictionFactor{Score: e.personaScore(prospect, logs), Weight: weightPersona},
		Industry:            models.PredictionFactor{Score: e.industryScore(prospect, logs), Weight: weightIndustry},
		TimeOfDay:           models.PredictionFactor{Score: e.timeOfDayScore(logs, now), Weight: weightTimeOfDay},
		DayOfWeek:           models.PredictionFactor{Score: e.dayOfWeekScore(logs, now), Weight: weightDayOfWeek},
		PreviousInteraction: models.PredictionFactor{Score: e.previousInteractionScore(prospect, logs), Weight: weightPreviousInteraction},
	}

	weighted := factors.Persona.Score*factors.Persona.Weight +
		factors.Industry.Score*factors.Industry.Weight +
		factors.TimeOfDay.Score*factors.TimeOfDay.Weight +
		factors.DayOfWeek.Score*factors.DayOfWeek.Weight +
		factors.PreviousInteraction.Score*factors.PreviousInteraction.Weight

	score := int(math.Round(weighted))
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	trend := e.trend(logs)

	return &models.SuccessPrediction{
		Score:           score,
		Confidence:      e.confidence(prospect, logs),
		Factors:         factors,
		Trend:           trend,
		Recommendations: e.recommendations(prospect, factors, trend, score),
		BestTime:        e.BestTimeToCall(logs),
	}
}

// UpdateModel is an extension point for outcome-driven tuning. It only logs
// the event today.
func (e *PredictionEngine) UpdateModel(entry *models.CallLogEntry) {
	log.Printf("Prediction model update recorded: lead=%s outcome=%s", entry.LeadID, entry.Outcome)
}

// personaScore: success rate of logs with the prospect's persona, or the
// hardcoded per-persona default with no history
func (e *PredictionEngine) personaScore(prospect *models.Prospect, logs []*models.CallLogEntry) float64 {
	matched := filterLogs(logs, func(l *models.CallLogEntry) bool { return l.Persona == prospect.Persona })
	if rate, ok := successRate(matched); ok {
		return rate
	}
	if d, ok := personaDefaults[prospect.Persona]; ok {
		return d
	}
	return defaultPersonaScore
}

// industryScore: same success definition scoped by industry
func (e *PredictionEngine) industryScore(prospect *models.Prospect, logs []*models.CallLogEntry) float64 {
	matched := filterLogs(logs, func(l *models.CallLogEntry) bool { return l.Industry == prospect.Industry })
	if rate, ok := successRate(matched); ok {
		return rate
	}
	return defaultIndustryScore
}

// timeOfDayScore: success rate of calls placed in the same hour, falling back
// to fixed business-hours bands
func (e *PredictionEngine) timeOfDayScore(logs []*models.CallLogEntry, now time.Time) float64 {
	hour := now.Hour()
	matched := filterLogs(logs, func(l *models.CallLogEntry) bool { return l.CreatedAt.Hour() == hour })
	if rate, ok := successRate(matched); ok {
		return rate
	}

	switch {
	case hour >= 9 && hour < 11:
		return 85
	case hour >= 14 && hour < 16:
		return 80
	case hour >= 11 && hour < 14:
		return 65
	case hour >= 8 && hour < 9, hour >= 16 && hour < 17:
		return 55
	default:
		return 30
	}
}

// dayOfWeekScore: success rate of calls placed on the same weekday, falling
// back to the per-weekday defaults
func (e *PredictionEngine) dayOfWeekScore(logs []*models.CallLogEntry, now time.Time) float64 {
	weekday := now.Weekday()
	matched := filterLogs(logs, func(l *models.CallLogEntry) bool { return l.CreatedAt.Weekday() == weekday })
	if rate, ok := successRate(matched); ok {
		return rate
	}
	return weekdayDefaults[weekday]
}

// previousInteractionScore looks only at the prospect's own history, newest
// first. The checks run in a fixed order: recent win, nurture pattern,
// disqualification, plain prior contact, never contacted.
func (e *PredictionEngine) previousInteractionScore(prospect *models.Prospect, logs []*models.CallLogEntry) float64 {
	leadID := prospect.LeadID()
	own := filterLogs(logs, func(l *models.CallLogEntry) bool { return l.LeadID == leadID })
	if len(own) == 0 {
		return 60 // neutral: never contacted
	}

	sort.Slice(own, func(i, j int) bool { return own[i].CreatedAt.After(own[j].CreatedAt) })

	recent := own
	if len(recent) > 3 {
		recent = recent[:3]
	}
	for _, l := range recent {
		if l.Successful() {
			return 85
		}
	}

	nurtures := 0
	disqualified := false
	for _, l := range own {
		if l.Outcome == models.OutcomeNurture {
			nurtures++
		}
		if l.Outcome == models.OutcomeDisqualified {
			disqualified = true
		}
	}
	if nurtures >= 2 {
		return 75
	}
	if disqualified {
		return 25
	}
	return 65
}

// confidence grades on total history volume and how much of it is relevant
// to this prospect (persona- or industry-matched)
func (e *PredictionEngine) confidence(prospect *models.Prospect, logs []*models.CallLogEntry) string {
	relevant := 0
	for _, l := range logs {
		if l.Persona == prospect.Persona || l.Industry == prospect.Industry {
			relevant++
		}
	}

	switch {
	case len(logs) >= 100 && relevant >= 20:
		return models.ConfidenceHigh
	case len(logs) >= 50 && relevant >= 10:
		return models.ConfidenceMedium
	default:
		return models.ConfidenceLow
	}
}

// trend compares the most recent logs against everything before them
func (e *PredictionEngine) trend(logs []*models.CallLogEntry) string {
	if len(logs) < trendMinLogs {
		return models.TrendStable
	}

	ordered := make([]*models.CallLogEntry, len(logs))
	copy(ordered, logs)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].CreatedAt.Before(ordered[j].CreatedAt) })

	split := len(ordered) - trendWindow
	if split <= 0 {
		return models.TrendStable
	}

	priorRate, okPrior := successRate(ordered[:split])
	recentRate, okRecent := successRate(ordered[split:])
	if !okPrior || !okRecent {
		return models.TrendStable
	}

	delta := recentRate - priorRate
	switch {
	case delta > trendCutoff:
		return models.TrendImproving
	case delta < -trendCutoff:
		return models.TrendDeclining
	default:
		return models.TrendStable
	}
}

// recommendations evaluates a fixed-order rule list over the computed
// factors; every matching rule is included
func (e *PredictionEngine) recommendations(prospect *models.Prospect, f models.PredictionFactors, trend string, score int) []string {
	var recs []string

	if f.Persona.Score < 50 {
		recs = append(recs, fmt.Sprintf("Win rate for %s personas is low - adjust the opening approach", prospect.Persona))
	}
	if f.TimeOfDay.Score < 60 {
		recs = append(recs, "Call between 9-11am or 2-4pm for better connect rates")
	}
	if f.DayOfWeek.Score < 60 {
		recs = append(recs, "Midweek mornings convert best - try Tuesday through Thursday")
	}
	if f.PreviousInteraction.Score > 75 {
		recs = append(recs, "Reference prior conversations - this prospect has engaged before")
	}
	if f.PreviousInteraction.Score <= 25 {
		recs = append(recs, "A previous call ended in disqualification - re-qualify before pitching")
	}
	if trend == models.TrendImproving {
		recs = append(recs, "Recent outcomes are trending up - keep the current approach")
	}
	if trend == models.TrendDeclining {
		recs = append(recs, "Recent outcomes are trending down - revisit the script")
	}
	if score >= 80 {
		recs = append(recs, "High-probability prospect - prioritize this call")
	}

	return recs
}

// BestTimeToCall buckets successes by (weekday, hour) and returns the bucket
// with the highest success ratio among those with enough samples. Falls back
// to Tuesday 10am.
func (e *PredictionEngine) BestTimeToCall(logs []*models.CallLogEntry) models.BestCallTime {
	type bucket struct {
		total   int
		success int
	}
	buckets := make(map[int]*bucket)
	for _, l := range logs {
		if l.CreatedAt.IsZero() {
			continue
		}
		key := int(l.CreatedAt.Weekday())*24 + l.CreatedAt.Hour()
		b := buckets[key]
		if b == nil {
			b = &bucket{}
			buckets[key] = b
		}
		b.total++
		if l.Successful() {
			b.success++
		}
	}

	best := models.BestCallTime{Weekday: time.Tuesday, Hour: 10}
	bestRatio := -1.0
	for wd := 0; wd < 7; wd++ {
		for hour := 0; hour < 24; hour++ {
			b := buckets[wd*24+hour]
			if b == nil || b.total < bucketMinimum {
				continue
			}
			ratio := float64(b.success) / float64(b.total)
			if ratio > bestRatio {
				bestRatio = ratio
				best = models.BestCallTime{Weekday: time.Weekday(wd), Hour: hour}
			}
		}
	}
	return best
}

func filterLogs(logs []*models.CallLogEntry, keep func(*models.CallLogEntry) bool) []*models.CallLogEntry {
	var matched []*models.CallLogEntry
	for _, l := range logs {
		if keep(l) {
			matched = append(matched, l)
		}
	}
	return matched
}

// successRate returns the percentage of successful outcomes, or false when
// there is nothing to average
func successRate(logs []*models.CallLogEntry) (float64, bool) {
	if len(logs) == 0 {
		return 0, false
	}
	vals := make([]float64, len(logs))
	for i, l := range logs {
		if l.Successful() {
			vals[i] = 1
		}
	}
	mean, err := stats.Mean(vals)
	if err != nil {
		return 0, false
	}
	return mean * 100, true
}
