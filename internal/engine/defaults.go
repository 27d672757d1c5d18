package engine

// Analysis thresholds. They are fixed constants, not configuration.
const (
	// CycleConfidenceFloor is the minimum edge confidence considered by E008.
	CycleConfidenceFloor = 0.7

	// AmbiguityFloor is the Jaccard similarity of two description token sets
	// at which E110 fires.
	AmbiguityFloor = 0.7

	// MaxActionVerbs is the most distinct action verbs a description may
	// contain before W103 fires.
	MaxActionVerbs = 3

	// TokenCeiling is the estimated prompt-token cost above which W115 fires.
	TokenCeiling = 1000

	// DriftFraction is the share of input names that may be missing from the
	// description before W116 fires.
	DriftFraction = 0.5
)

// Token cost weights for W115.
const (
	CharsPerToken  = 4
	TokensPerField = 12
)
