package srs

// Params defines all tunable thresholds of the mastery state machine and the
// review schedules.
type Params struct {
	// Mastery promotion
	MasteryAnswerStreak  int     // consecutive understood answers that promote
	MasterySessionStreak int     // consecutive good sessions that promote
	MasteryMinShown      int     // minimum answers for the success-rate promotion
	MasteryMinPercent    float64 // success rate for the success-rate promotion

	// Mastery demotion
	DemotionStreak int // consecutive misses (answers or sessions) that demote

	// Leech detection
	LeechMinMisses    int
	LeechEnterPercent float64 // flag when successPercent is below this
	LeechExitPercent  float64 // clear when successPercent is at least this

	// Card intervals in days, chosen by session streak
	FirstInterval  int // sessionOkStreak == 1
	SecondInterval int // sessionOkStreak == 2
	MatureInterval int // sessionOkStreak >= MasterySessionStreak

	// Set schedule tiers, chosen by number of completed days
	SetDailyTierLimit    int // fewer completed days than this: SetDailyInterval
	SetDailyInterval     int
	SetFrequentTierLimit int // fewer completed days than this: SetFrequentInterval
	SetFrequentInterval  int
	SetWeeklyInterval    int

	// Review selection
	ReviewMinShown int
	ReviewPercent  float64
	InactivityDays int
}

// ParamsConfig allows overriding the default parameters when creating a new
// Params instance. Zero fields keep their defaults.
type ParamsConfig struct {
	MasteryAnswerStreak  int
	MasterySessionStreak int
	DemotionStreak       int
	FirstInterval        int
	SecondInterval       int
	MatureInterval       int
	InactivityDays       int
}

// NewDefaultParams creates a new Params instance with default values
func NewDefaultParams() *Params {
	return &Params{
		MasteryAnswerStreak:  3,
		MasterySessionStreak: 3,
		MasteryMinShown:      5,
		MasteryMinPercent:    85,

		DemotionStreak: 2,

		LeechMinMisses:    6,
		LeechEnterPercent: 60,
		LeechExitPercent:  70,

		FirstInterval:  1,
		SecondInterval: 6,
		MatureInterval: 16,

		SetDailyTierLimit:    5,
		SetDailyInterval:     1,
		SetFrequentTierLimit: 8,
		SetFrequentInterval:  3,
		SetWeeklyInterval:    7,

		ReviewMinShown: 3,
		ReviewPercent:  70,
		InactivityDays: 14,
	}
}

// NewParams creates a new Params instance with custom configuration
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	if config.MasteryAnswerStreak > 0 {
		params.MasteryAnswerStreak = config.MasteryAnswerStreak
	}
	if config.MasterySessionStreak > 0 {
		params.MasterySessionStreak = config.MasterySessionStreak
	}
	if config.DemotionStreak > 0 {
		params.DemotionStreak = config.DemotionStreak
	}
	if config.FirstInterval > 0 {
		params.FirstInterval = config.FirstInterval
	}
	if config.SecondInterval > 0 {
		params.SecondInterval = config.SecondInterval
	}
	if config.MatureInterval > 0 {
		params.MatureInterval = config.MatureInterval
	}
	if config.InactivityDays > 0 {
		params.InactivityDays = config.InactivityDays
	}

	return params
}
