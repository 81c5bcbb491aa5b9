package engine

// Balance constants. Content tables hold per-slot and per-item numbers; the values
// here shape the rules themselves.
const (
	caffeineAwake = 40
	caffeineZone  = 100
	caffeineToxic = 150

	studyBaseGain        = 6.0
	studyMinEfficiency   = 0.1
	progressionPerDay    = 0.05
	studyAllEfficiency   = 0.5
	studyAllCostFactor   = 1.5
	lateNightZoneBase    = 0.1
	lateNightZoneMult    = 1.8
	lateNightFailBase    = 0.15
	lateNightFailMult    = 0.05
	lateNightFailSanity  = 10
	caffeineCrashChance  = 0.2
	madnessSanityTrigger = 30
	madnessCap           = 4

	restInterferenceHP     = 0.3
	restInterferenceSanity = -2
	sleepQualityPoor       = 0.2
	sleepQualityNap        = 0.6
	sleepQualityGood       = 0.9

	workEventChance = 0.4

	escapismSanity        = 15
	escapismSatiety       = -5
	escapismCost          = 10
	escapismLateBonus     = 5
	escapismLateSleepDebt = 0.5

	sleepDebtPerTurn      = 0.5
	sleepDebtLateNight    = 1.0
	sleepDebtNapRelief    = 1.5
	sleepDebtSleepRelief  = 3.0
	dependencyChance      = 0.1
	caffeineDecayPerTurn  = 15
	satietyDecayPerTurn   = 5
	lateNightSatietyScale = 0.5
	starvationHP          = 3
	isolationTurns        = 10
	isolationSanity       = 3
	forgetGraceTurns      = 6
	forgetRate            = 0.05
	forgetMin             = 1
	turnEventChance       = 0.35

	lethalWarnThreshold = 20
)

// CaffeineTier buckets the caffeine level into the bands that change efficiency.
type CaffeineTier int

const (
	TierNone CaffeineTier = iota
	TierAwake
	TierZone
	TierToxic
)

func TierOf(caffeine int) CaffeineTier {
	switch {
	case caffeine >= caffeineToxic:
		return TierToxic
	case caffeine >= caffeineZone:
		return TierZone
	case caffeine >= caffeineAwake:
		return TierAwake
	}
	return TierNone
}

// Bonus is the efficiency multiplier of the tier.
func (t CaffeineTier) Bonus() float64 {
	switch t {
	case TierAwake:
		return 1.15
	case TierZone:
		return 1.3
	case TierToxic:
		return 1.4
	}
	return 1
}

// Harm is the per-action HP and Sanity cost of the tier.
func (t CaffeineTier) Harm() (hp, sanity int) {
	switch t {
	case TierZone:
		return -1, 0
	case TierToxic:
		return -3, -3
	}
	return 0, 0
}

func (t CaffeineTier) String() string {
	switch t {
	case TierAwake:
		return "AWAKE"
	case TierZone:
		return "ZONE"
	case TierToxic:
		return "TOXICITY"
	}
	return "NONE"
}
