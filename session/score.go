package session

// Score maps the session counters to a privacy risk score in [0, 100].
//
// Pure and deterministic: a monotone penalty accumulator where every penalty
// is capped so no single signal can dominate, and every division floors to
// an integer before scaling.
func Score(s *Session) int {
	score := 100

	blocked := int(sumCounts(s.BlockedTrackers))
	thirdParties := int(sumCounts(s.ThirdPartyConnections))

	score -= minInt(40, blocked*2)
	score -= minInt(20, thirdParties/5)
	score -= minInt(10, int(s.SetCookieCount)/5)
	score -= minInt(10, (s.Storage.Local.Keys+s.Storage.Session.Keys)/10)
	if s.CanvasFingerprintEvents > 0 {
		score -= 15
	}
	if s.HookRiskEvents > 0 {
		score -= minInt(15, int(s.HookRiskEvents)/5*5)
	}
	if len(s.CookieSyncEvents) > 0 {
		score -= 15
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
