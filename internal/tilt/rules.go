package tilt

import "regexp"

// Rule associates a compiled pattern with an integer weight. Patterns are
// matched case-insensitively; each non-overlapping match contributes its
// weight once.
type Rule struct {
	Pattern *regexp.Regexp
	Weight  int
}

func mustRule(pattern string, weight int) Rule {
	return Rule{Pattern: regexp.MustCompile(`(?i)` + pattern), Weight: weight}
}

// tiltRules raise the extracted magnitude. Weights reflect how strongly a
// phrase correlates with frustration in competitive-gaming chat.
var tiltRules = []Rule{
	mustRule(`\bf+\s*(?:u+|you+)\b`, 10),
	mustRule(`\bwhat\s+(?:the\s+)?(?:f+|hell|heck)\b`, 7),
	mustRule(`\bbs\b`, 5),
	mustRule(`\b(?:this|that)\s+is\s+(?:bs|bullshit)\b`, 8),
	mustRule(`\bgarbage\b`, 6),
	mustRule(`\btrash\b`, 6),
	mustRule(`\bthrow(?:ing)?\b`, 5),
	mustRule(`\bint(?:ing)?\b`, 5),
	mustRule(`\btoxic\b`, 6),
	mustRule(`\buninstall\b`, 8),
	mustRule(`\bdumb\b`, 5),
	mustRule(`\bstupid\b`, 5),
	mustRule(`\breport\b`, 4),
	mustRule(`\brage\b`, 7),
	mustRule(`\bquit(?:ting)?\b`, 7),
	mustRule(`\bdc\b`, 3),
	mustRule(`\bafk\b`, 3),
	mustRule(`\btilt(?:ed)?\b`, 5),
	mustRule(`\bgg\s+(?:wp|ez)\b`, 4),
	mustRule(`\bomg\b`, 3),
	mustRule(`\bomfg\b`, 5),
	mustRule(`\bunbelievable\b`, 4),
	mustRule(`\bunreal\b`, 4),
	mustRule(`\blagg?(?:ing)?\b`, 3),
	mustRule(`\bwhy\b`, 2),
	mustRule(`\bcan'?t\s+believe\b`, 4),
	mustRule(`\bseriously\b`, 3),
	mustRule(`\bwow\b`, 2),
	mustRule(`\bunplayable\b`, 6),
	mustRule(`\bbroken\b`, 5),
	mustRule(`\bnerf\b`, 3),
	mustRule(`\bop\b`, 2),
	mustRule(`\bbad\b`, 3),
	mustRule(`\bworst\b`, 5),
	mustRule(`\bhate\b`, 6),
	mustRule(`\bfeed(?:ing)?\b`, 5),
	mustRule(`\bsmurf\b`, 4),
	mustRule(`\bhack(?:s|er|ing)?\b`, 7),
	mustRule(`\bscript(?:er|ing)?\b`, 7),
	mustRule(`\bbot\b`, 3),
	mustRule(`\bnoob\b`, 4),
	mustRule(`\bretard(?:ed)?\b`, 9),
	mustRule(`\bidiot\b`, 7),
	mustRule(`\bmoron\b`, 7),
	mustRule(`\bcmon\b`, 3),
	mustRule(`\bcome\s+on\b`, 3),
	mustRule(`\bdude\b`, 2),
	mustRule(`\bwtf\b`, 6),
	mustRule(`\bholy\s+(?:shit|crap)\b`, 7),
	mustRule(`\bare\s+you\s+(?:serious|kidding)\b`, 5),
	mustRule(`\bwhat\s+are\s+you\s+doing\b`, 4),
	mustRule(`\bliterally\b`, 3),
	mustRule(`\bno\s+way\b`, 3),
	mustRule(`\bno\s+(?:cs|farm)\b`, 4),
	mustRule(`\bgank\b`, 3),
	mustRule(`\bjungle\s+(?:diff|gap)\b`, 5),
	mustRule(`\b(?:mid|top|bot|adc|supp?)\s+(?:diff|gap)\b`, 5),
	mustRule(`\bjustff\b`, 5),
}

// calmRules lower the extracted magnitude.
var calmRules = []Rule{
	mustRule(`\bgood\s+(?:job|play|kill|shot|ult|move|call)\b`, 3),
	mustRule(`\bnice\s+(?:job|play|kill|shot|ult|move|call)\b`, 3),
	mustRule(`\bgreat\s+(?:job|play|kill|shot|ult|move|call)\b`, 4),
	mustRule(`\bwell\s+played\b`, 4),
	mustRule(`\bwell\s+done\b`, 3),
	mustRule(`\bgood\s+try\b`, 2),
	mustRule(`\bthank\s+(?:you|u)\b`, 2),
	mustRule(`\bthanks\b`, 1),
	mustRule(`\bwe\s+can\s+(?:win|do)\s+this\b`, 4),
	mustRule(`\bwe\s+got\s+this\b`, 3),
	mustRule(`\bno\s+(?:problem|worries)\b`, 2),
	mustRule(`\byou'?re?\s+(?:good|great|amazing|awesome)\b`, 3),
	mustRule(`\bnp\b`, 1),
	mustRule(`\bI'?ll?\s+help\b`, 3),
	mustRule(`\blet'?s\s+group\b`, 2),
	mustRule(`\bstick\s+together\b`, 2),
	mustRule(`\bI\s+believe\b`, 3),
	mustRule(`\bcomeback\b`, 2),
	mustRule(`\bwinnable\b`, 2),
	mustRule(`\bthat\s+was\s+(?:awesome|amazing|sick|insane)\b`, 4),
	mustRule(`\bgood\s+game\b`, 2),
	mustRule(`\bgg\b`, 1),
	mustRule(`\bcarry\s+(?:on|us)\b`, 3),
	mustRule(`\bhave\s+fun\b`, 2),
}
