package classifier

import (
	"strings"

	"coastwatch/types"
)

// FallbackCeiling caps the confidence a keyword classification can carry.
// It sits below the hotspot promotion floor (0.75), so fallback-classified
// posts contribute context but can never promote a hotspot on their own.
const FallbackCeiling = 0.6

type keywordRule struct {
	term   string
	hazard types.HazardType
}

// Fixed per-language hazard vocabularies. Order matters: ties in match
// counts resolve to the earliest rule.
var keywordRules = map[string][]keywordRule{
	"en": {
		{"storm surge", types.StormSurge},
		{"flooding", types.Flood},
		{"flooded", types.Flood},
		{"flood", types.Flood},
		{"waterlogging", types.Flood},
		{"tsunami", types.Tsunami},
		{"high waves", types.HighWave},
		{"huge waves", types.HighWave},
		{"giant waves", types.HighWave},
		{"cyclone", types.Cyclone},
		{"hurricane", types.Cyclone},
	},
	"hi": {
		{"बाढ़", types.Flood},
		{"जलभराव", types.Flood},
		{"सुनामी", types.Tsunami},
		{"ऊंची लहरें", types.HighWave},
		{"तूफानी लहरें", types.StormSurge},
		{"चक्रवात", types.Cyclone},
	},
	"ta": {
		{"வெள்ளம்", types.Flood},
		{"சுனாமி", types.Tsunami},
		{"பெரிய அலைகள்", types.HighWave},
		{"புயல்", types.Cyclone},
	},
	"te": {
		{"వరద", types.Flood},
		{"సునామీ", types.Tsunami},
		{"పెద్ద అలలు", types.HighWave},
		{"తుఫాను", types.Cyclone},
	},
	"bn": {
		{"বন্যা", types.Flood},
		{"সুনামি", types.Tsunami},
		{"জলোচ্ছ্বাস", types.StormSurge},
		{"ঘূর্ণিঝড়", types.Cyclone},
	},
	"ml": {
		{"വെള്ളപ്പൊക്കം", types.Flood},
		{"സുനാമി", types.Tsunami},
		{"കടൽക്ഷോഭം", types.HighWave},
		{"ചുഴലിക്കാറ്റ്", types.Cyclone},
	},
}

var urgentTerms = map[string][]string{
	"en": {"help", "rescue", "urgent", "evacuate", "trapped", "sos", "drowning"},
	"hi": {"मदद", "बचाओ", "फंसे"},
	"ta": {"உதவி", "மீட்பு"},
	"te": {"సహాయం", "రక్షించండి"},
	"bn": {"সাহায্য", "উদ্ধার"},
	"ml": {"സഹായം", "രക്ഷിക്കൂ"},
}

// fallbackClassify is the deterministic keyword classifier used when the
// model is unreachable. Confidence grows with match count but never exceeds
// FallbackCeiling, and results are tagged ClassifiedByKeyword.
func fallbackClassify(post types.LocatedPost) types.ClassifiedPost {
	out := types.ClassifiedPost{
		LocatedPost: post,
		HazardType:  types.None,
		Urgency:     types.Low,
		Source:      types.ClassifiedByKeyword,
	}

	text := strings.ToLower(post.Text)
	rules := keywordRules[post.Language]
	if len(rules) == 0 {
		rules = keywordRules["en"]
	}

	matches := 0
	counts := map[types.HazardType]int{}
	var dominant types.HazardType
	for _, rule := range rules {
		if strings.Contains(text, rule.term) {
			matches++
			counts[rule.hazard]++
			if dominant == "" || counts[rule.hazard] > counts[dominant] {
				dominant = rule.hazard
			}
		}
	}
	// Code-mixed posts often carry English hazard words regardless of the
	// declared language.
	if matches == 0 && post.Language != "en" {
		for _, rule := range keywordRules["en"] {
			if strings.Contains(text, rule.term) {
				matches++
				counts[rule.hazard]++
				if dominant == "" || counts[rule.hazard] > counts[dominant] {
					dominant = rule.hazard
				}
			}
		}
	}

	if matches == 0 {
		return out
	}

	out.Relevance = true
	out.HazardType = dominant
	out.Confidence = 0.3 + 0.1*float64(matches)
	if out.Confidence > FallbackCeiling {
		out.Confidence = FallbackCeiling
	}

	out.Urgency = types.Low
	if matches >= 2 {
		out.Urgency = types.Medium
	}
	for _, term := range append(urgentTerms[post.Language], urgentTerms["en"]...) {
		if strings.Contains(text, term) {
			out.Urgency = types.High
			break
		}
	}
	return out
}
