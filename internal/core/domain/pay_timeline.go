package domain

// PayTimelineWildcard matches any category or scheme code.
const PayTimelineWildcard = "*"

// PayTimeline is a tenant rule naming the pension payment day for a category and scheme.
type PayTimeline struct {
	BusinessGroup string
	Category      string
	SchemeCode    string
}

// PayTimelineMatch says which fields of the chosen row were specific.
type PayTimelineMatch int

const (
	PayTimelineNoMatch PayTimelineMatch = iota
	PayTimelineWildcardMatch
	PayTimelineSchemeMatch
	PayTimelineCategoryMatch
	PayTimelineCategoryAndSchemeMatch
)

var payTimelineFlags = map[PayTimelineMatch]string{
	PayTimelineWildcardMatch:          "PD-LAST-DAY",
	PayTimelineSchemeMatch:            "PD-BOTH-DAY",
	PayTimelineCategoryMatch:          "PD-MONTH-DAY",
	PayTimelineCategoryAndSchemeMatch: "PD-BOTH-DAY",
}

func (p PayTimeline) matches(category, schemeCode string) bool {
	return (p.Category == category || p.Category == PayTimelineWildcard) &&
		(p.SchemeCode == schemeCode || p.SchemeCode == PayTimelineWildcard)
}

func (p PayTimeline) match() PayTimelineMatch {
	categorySpecific := p.Category != PayTimelineWildcard
	schemeSpecific := p.SchemeCode != PayTimelineWildcard
	switch {
	case categorySpecific && schemeSpecific:
		return PayTimelineCategoryAndSchemeMatch
	case categorySpecific:
		return PayTimelineCategoryMatch
	case schemeSpecific:
		return PayTimelineSchemeMatch
	default:
		return PayTimelineWildcardMatch
	}
}

// MatchPayTimeline returns how the most specific row matching the member's category and scheme matched.
// Category beats scheme; a row specific on both beats either.
func MatchPayTimeline(rows []PayTimeline, category, schemeCode string) PayTimelineMatch {
	best := PayTimelineNoMatch
	for _, row := range rows {
		if !row.matches(category, schemeCode) {
			continue
		}
		if m := row.match(); m > best {
			best = m
		}
	}
	return best
}

// WordingFlag renders the match as a "PD-..." flag, empty when nothing matched.
func (m PayTimelineMatch) WordingFlag() string {
	return payTimelineFlags[m]
}
