package models

// Call-flow step IDs - the six canonical steps of the call script
const (
	StepOpening      = "opening"
	StepPermission   = "permission"
	StepDiscovery    = "discovery"
	StepPresentation = "presentation"
	StepObjections   = "objections"
	StepClose        = "close"
)

// CallFlowStep is one checklist item in the call script. Steps are re-derived
// from the template whenever the selected content set changes, with the
// Completed flag carried forward by ID.
type CallFlowStep struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Completed   bool          `json:"completed"`
	Optional    bool          `json:"optional"`
	Tips        []string      `json:"tips"`
	Content     []ContentItem `json:"content,omitempty"` // absent when no cards match
}

// stepContentTypes maps step ID to the content type attached during step
// derivation. Steps without an entry get no attached content.
var stepContentTypes = map[string]string{
	StepOpening:      ContentTypeOpener,
	StepPresentation: ContentTypeThoughtLeader,
	StepObjections:   ContentTypeObjectionHandler,
}

// ContentTypeForStep returns the content type attached to a step, or "" when
// the step takes no content.
func ContentTypeForStep(stepID string) string {
	return stepContentTypes[stepID]
}

// DefaultCallFlow returns a fresh copy of the canonical six-step template.
// Objections is the only optional step.
func DefaultCallFlow() []CallFlowStep {
	return []CallFlowStep{
		{
			ID:          StepOpening,
			Title:       "Opening",
			Description: "Introduce yourself and the reason for the call",
			Tips: []string{
				"Lead with the prospect's name, not yours",
				"Reference something specific about their company",
			},
		},
		{
			ID:          StepPermission,
			Title:       "Permission",
			Description: "Ask for time before launching into the pitch",
			Tips: []string{
				"A 30-second ask disarms the brush-off",
			},
		},
		{
			ID:          StepDiscovery,
			Title:       "Discovery",
			Description: "Uncover current coverage, renewal dates, and pain points",
			Tips: []string{
				"Ask about their last renewal experience",
				"Listen for budget pressure and headcount changes",
			},
		},
		{
			ID:          StepPresentation,
			Title:       "Presentation",
			Description: "Position the value proposition against what you heard",
			Tips: []string{
				"Tie every point back to something they said",
			},
		},
		{
			ID:          StepObjections,
			Title:       "Objections",
			Description: "Handle pushback without getting defensive",
			Optional:    true,
			Tips: []string{
				"Acknowledge before you answer",
				"An objection is interest wearing armor",
			},
		},
		{
			ID:          StepClose,
			Title:       "Close",
			Description: "Ask for the meeting and confirm next steps",
			Tips: []string{
				"Offer two concrete time slots",
			},
		},
	}
}
