package domain

import (
	"errors"
	"strings"
)

// Web rule cache prefixes understood by the rule engine.
const (
	WebRuleCachePrefix   = "cache"
	WebRuleNoCachePrefix = "nocache"
)

var (
	errEmptyWebRule         = errors.New("web rule id and expected result are required")
	errUnknownWebRulePrefix = errors.New("unrecognised web rule cache prefix")
)

// ClassifierValue pairs a wording flag with the web rule that must hold for it to be emitted.
// Value is "{ruleId}={expectedResult}" or "{cachePrefix}:{ruleId}={expectedResult}".
type ClassifierValue struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// WebRule is a parsed classifier value.
type WebRule struct {
	RuleID         string
	ExpectedResult string
	UseCache       bool
}

// ParseWebRule splits a classifier value into its rule id, expected result and caching mode.
// The bare form is cached.
func ParseWebRule(value string) (WebRule, error) {
	rule := WebRule{UseCache: true}
	body := value
	if prefix, rest, ok := strings.Cut(value, ":"); ok {
		switch strings.ToLower(strings.TrimSpace(prefix)) {
		case WebRuleCachePrefix:
			rule.UseCache = true
		case WebRuleNoCachePrefix:
			rule.UseCache = false
		default:
			return WebRule{}, errUnknownWebRulePrefix
		}
		body = rest
	}
	ruleID, expected, _ := strings.Cut(body, "=")
	rule.RuleID = strings.TrimSpace(ruleID)
	rule.ExpectedResult = strings.TrimSpace(expected)
	if rule.RuleID == "" || rule.ExpectedResult == "" {
		return WebRule{}, errEmptyWebRule
	}
	return rule, nil
}

// WebRuleResult is the rule engine's verdict.
type WebRuleResult struct {
	Result string `json:"result"`
}
