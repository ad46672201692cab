package risk

import (
	"regexp"
	"strconv"
	"strings"
)

// "Risk Assessment: 7/10", "**Risk Assessment:** 7 / 10", "### Risk assessment - 7.5/10".
var riskLine = regexp.MustCompile(`(?i)risk\s+assessment[\s:*_#\-]*(\d+)(?:\.\d+)?\s*/\s*10`)

// Parse extracts the first risk figure from assistant text. found is false
// when no figure is present, in which case the score is DefaultScore.
func Parse(text string) (a Assessment, found bool) {
	m := riskLine.FindStringSubmatch(text)
	if m == nil {
		return Assessment{Score: DefaultScore, Severity: SeverityOf(DefaultScore)}, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		// only digits match, so this is an overflow
		n = MaxScore
	}
	n = clamp(n)
	return Assessment{Score: n, Severity: SeverityOf(n)}, true
}

var userTextTiers = []struct {
	severity Severity
	keywords []string
}{
	{Emergency, []string{"chest pain", "not breathing", "unconscious"}},
	{High, []string{"severe", "intense", "high fever"}},
	{Medium, []string{"fever", "moderate", "persistent"}},
}

// DetectFromUserText is the fallback heuristic applied to the user's own
// message when the reply carries no explicit figure.
func DetectFromUserText(text string) Severity {
	lower := strings.ToLower(text)
	for _, tier := range userTextTiers {
		for _, kw := range tier.keywords {
			if strings.Contains(lower, kw) {
				return tier.severity
			}
		}
	}
	return Low
}

// Assess combines both: the reply's figure wins, otherwise the default score
// is kept and the severity comes from the user's text.
func Assess(reply, userText string) Assessment {
	a, found := Parse(reply)
	if found {
		return a
	}
	a.Severity = DetectFromUserText(userText)
	return a
}
