package domain

// ScoreRound computes the signed point delta for every roster player from a
// completed round description. isBock doubles the round value; the caller must
// capture the bock flag from the counter before calling.
//
// Team rounds are zero-sum. Solo rounds are not: the soloist wins or loses
// roundPoints*SoloMultiplier against N-1 opponents at roundPoints each, which
// is the house rule as played, not an accounting bug.
func ScoreRound(round *Round, rules RuleSet, isBock bool, roster []string) (map[string]int, error) {
	if err := round.Validate(roster); err != nil {
		return nil, err
	}

	base, err := rules.BasePoint()
	if err != nil {
		return nil, err
	}

	// Each announcement doubles the round value.
	multiplier := 1 << len(round.Announcements)

	// Special events add one flat point each. Herz-Rundlauf only triggers
	// bock rounds and carries no value of its own.
	extra := 0
	for tag := range round.Specials {
		if tag == TagHerzRundlauf {
			continue
		}
		extra++
	}

	roundPoints := (base + extra) * multiplier
	if isBock {
		roundPoints *= 2
	}

	scores := make(map[string]int, len(roster))
	for _, p := range roster {
		scores[p] = 0
	}

	switch round.Variant {
	case VariantTeam:
		reWins := round.Winner == SideRe
		for _, p := range roster {
			if round.OnTeam(p) == reWins {
				scores[p] = roundPoints
			} else {
				scores[p] = -roundPoints
			}
		}
	case VariantSolo:
		soloMult, err := rules.SoloMultiplier()
		if err != nil {
			return nil, err
		}
		soloistWins := round.Winner == SideSoloist
		for _, p := range roster {
			switch {
			case p == round.Soloist && soloistWins:
				scores[p] = roundPoints * soloMult
			case p == round.Soloist:
				scores[p] = -(roundPoints * soloMult)
			case soloistWins:
				scores[p] = -roundPoints
			default:
				scores[p] = roundPoints
			}
		}
	}

	return scores, nil
}

// TotalPositive sums the positive deltas of a scored round. This is the
// headline point value recorded in the ledger.
func TotalPositive(scores map[string]int) int {
	total := 0
	for _, s := range scores {
		if s > 0 {
			total += s
		}
	}
	return total
}
