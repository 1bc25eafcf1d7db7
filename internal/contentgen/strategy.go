package contentgen

// SelectStrategy maps a performance snapshot to an adaptation strategy.
// Rules are checked in order and the first match wins, so a score in
// [70, 90) selects MAINTAIN_WITH_ENRICHMENT even when attempts exceed 3.
func SelectStrategy(score float64, attemptsCount int) AdaptationStrategy {
	switch {
	case score >= 90 && attemptsCount <= 2:
		return IncreaseDifficulty
	case score >= 70 && score < 90:
		return MaintainWithEnrichment
	case score >= 50 && score < 70:
		return ProvideSupport
	case score < 50 || attemptsCount > 3:
		return SimplifyAndReinforce
	default:
		return Maintain
	}
}

// StrategyFor returns the strategy for an adaptation request and "" for
// every other kind.
func StrategyFor(req Request) AdaptationStrategy {
	ar, ok := req.(*AdaptationRequest)
	if !ok || ar.Performance == nil || ar.Performance.Score == nil || ar.Performance.AttemptsCount == nil {
		return ""
	}
	return SelectStrategy(*ar.Performance.Score, *ar.Performance.AttemptsCount)
}
