package chat

import "strings"

// Routing thresholds, estimated via EstimateTokens. Any single trigger
// routes to the hard model.
const (
	routeContextTokensThreshold = 1800
	routeTotalTokensThreshold   = 2600
	routeMaxTokensThreshold     = 900
	routeQueryTokensThreshold   = 700
)

// Router reason strings. Observability depends on being able to tell the
// three outcomes apart.
const (
	ReasonHardTopicKeyword = "hard-topic keyword detected"
	ReasonHighTokenDemand  = "high token demand detected"
	ReasonDefault          = "default model for standard contexts"
)

// hardTopicKeywords route to the hard model on presence in the normalized
// query, independent of token pressure.
var hardTopicKeywords = []string{
	"architecture",
	"trade-off",
	"tradeoff",
	"deep dive",
	"debug",
	"optimize",
	"algorithm",
	"compare",
	"threat model",
	"postmortem",
	"root cause",
	"refactor",
}

// ModelChoice is the routing decision plus its justification.
type ModelChoice struct {
	Model  string
	Reason string

	QueryTokens    int
	ContextTokens  int
	TotalRequested int
	MatchedKeyword string
}

// RouteModel chooses between the default and hard completion model from
// estimated token pressure and keyword signals. Pure function, no side
// effects.
func RouteModel(normalizedQuery, contextText string, maxTokens int, defaultModel, hardModel string) *ModelChoice {
	choice := &ModelChoice{
		QueryTokens:   EstimateTokens(normalizedQuery),
		ContextTokens: EstimateTokens(contextText),
	}
	choice.TotalRequested = choice.QueryTokens + choice.ContextTokens + maxTokens

	for _, keyword := range hardTopicKeywords {
		if strings.Contains(normalizedQuery, keyword) {
			choice.Model = hardModel
			choice.Reason = ReasonHardTopicKeyword
			choice.MatchedKeyword = keyword
			return choice
		}
	}

	if choice.ContextTokens >= routeContextTokensThreshold ||
		choice.TotalRequested >= routeTotalTokensThreshold ||
		maxTokens >= routeMaxTokensThreshold ||
		choice.QueryTokens >= routeQueryTokensThreshold {
		choice.Model = hardModel
		choice.Reason = ReasonHighTokenDemand
		return choice
	}

	choice.Model = defaultModel
	choice.Reason = ReasonDefault
	return choice
}
