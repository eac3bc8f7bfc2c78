package model

// Canonical clarifier question ids.
const (
	QuestionTargetUser = "target-user"
	QuestionPainPoint  = "pain-point"
	QuestionPricing    = "pricing"
)

// ClarifierQuestion is a predefined follow-up question used to disambiguate
// a raw idea description.
type ClarifierQuestion struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Placeholder string `json:"placeholder,omitempty"`
	// Required marks questions the intake form expects an answer for.
	Required bool `json:"required"`
}

// Clarifiers is the fixed question catalog, in presentation order.
var Clarifiers = []ClarifierQuestion{
	{
		ID:          QuestionTargetUser,
		Label:       "Who is your target user or customer?",
		Placeholder: "e.g., Busy working parents with kids under 10",
		Required:    true,
	},
	{
		ID:          QuestionPainPoint,
		Label:       "What specific pain point or frustration does this solve?",
		Placeholder: "e.g., Spending 2+ hours weekly on meal planning and grocery lists",
		Required:    true,
	},
	{
		ID:          QuestionPricing,
		Label:       "How might you charge for this?",
		Placeholder: "e.g., $10/month subscription or free with premium tier",
	},
}

// QuestionLabel returns the question text for a clarifier id.
// Unknown ids are returned verbatim.
func QuestionLabel(id string) string {
	for _, q := range Clarifiers {
		if q.ID == id {
			return q.Label
		}
	}
	return id
}

// LookupClarifier returns the catalog entry for id.
func LookupClarifier(id string) (ClarifierQuestion, bool) {
	for _, q := range Clarifiers {
		if q.ID == id {
			return q, true
		}
	}
	return ClarifierQuestion{}, false
}
