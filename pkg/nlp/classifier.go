package nlp

import "regexp"

var (
	yesPattern = regexp.MustCompile(`^(yes|yeah|yep|yup|ya|y|sure|ok|okay|confirm|confirmed|go ahead|please do|absolutely|definitely|of course|sounds good|do it|correct|right)\b`)
	noPattern  = regexp.MustCompile(`^(no|nope|nah|n|not now|not really|don'?t|do not|no thanks|maybe later|later)\b`)
)

// defaultRules is evaluated top to bottom. Action intents sit above
// informational ones, which sit above the broad search patterns, so a search
// keyword inside a booking sentence cannot steal the turn.
func defaultRules() []Rule {
	return []Rule{
		{IntentGreeting, regexp.MustCompile(`^(hi|hello|hey|hiya|howdy|greetings|namaste|vanakkam|good (morning|afternoon|evening))([\s,!.]+(there|bot|assistant|team))?[\s!.]*$`)},
		{IntentBookNow, regexp.MustCompile(`\b(book|reserve)\b|\bmake a (reservation|booking)\b|\b(proceed|continue|go ahead) (with|to) (the )?booking\b`)},
		{IntentShowMore, regexp.MustCompile(`\b(show|see|view|load|give) (me )?more\b|\bmore (hotels|options|results|choices)\b|\bnext (page|ones?|results)\b|\bany others?\b|\bwhat else\b`)},
		{IntentShowDetails, regexp.MustCompile(`\bdetails?\b|\bmore (info|information) (about|on)\b|\b(first|second|third|last|1st|2nd|3rd|top) (one|hotel|option|result|choice)\b|^(the )?(first|second|third|last)( one)?[\s.!]*$|\btell me (more )?about (the |this |that )?(hotel|it|first|second|third|last)\b`)},
		{IntentCompare, regexp.MustCompile(`\bcompare\b|\b(vs|versus)\b|\bdifference between\b|\bwhich (one )?is better\b`)},
		{IntentDistance, regexp.MustCompile(`\bhow far\b|\bdistance\b|\btravel time\b|\bhow long (does it take|to reach|to get|is the drive)\b|\b(km|kms|kilometers?) from\b`)},
		{IntentCityInfo, regexp.MustCompile(`\btell me about\b|\babout the city\b|\b(info|information) (about|on)\b|\bwhat is .+ known for\b|\bdescribe\b`)},
		{IntentAttractions, regexp.MustCompile(`\battractions?\b|\bsightseeing\b|\bplaces to (visit|see)\b|\bthings to do\b|\btourist\b|\bwhat to see\b|\bmust.?see\b|\bspots\b|\bbeaches\b|\btemples\b|\bhill stations?\b`)},
		{IntentWeather, regexp.MustCompile(`\bweather\b|\bclimate\b|\btemperature\b|\brain(s|y|fall)?\b|\bmonsoon\b|\bbest time (to visit|to go)\b|\bseason\b`)},
		{IntentFood, regexp.MustCompile(`\bfood\b|\bcuisine\b|\beat\b|\brestaurants?\b|\bdish(es)?\b|\bmust.?try\b|\bspecialit(y|ies)\b|\bspecialt(y|ies)\b|\bdelicac(y|ies)\b`)},
		{IntentLuxurySearch, regexp.MustCompile(`\bluxury\b|\bluxurious\b|\b5.?star\b|\bfive.?star\b|\bpremium\b|\bupscale\b|\blavish\b`)},
		{IntentBudgetSearch, regexp.MustCompile(`\b(cheap|cheapest|budget|affordable|economical|low.?cost|inexpensive|pocket.?friendly)\b|\b(under|below|less than)\s*(₹|rs\.?|inr)?\s*\d`)},
		{IntentHotelSearch, regexp.MustCompile(`\bhotels?\b|\bstays?\b|\brooms? in\b|\baccommodations?\b|\blodges?\b|\bresorts?\b|\bplaces? to stay\b|\bsearch\b|\bfind\b|\blooking for\b`)},
		{IntentSelectDates, regexp.MustCompile(`\b(today|tonight|tomorrow|weekend|check.?in|check.?out|dates?|nights?)\b|\b\d{1,2}/\d{1,2}\b|\b\d{1,2}(st|nd|rd|th)?\s+(of\s+)?` + monthNames + `\b|\b` + monthNames + `\s+\d{1,2}\b`)},
		{IntentSelectGuests, regexp.MustCompile(`\b(\d+|one|two|three|four|five|six|seven|eight|nine|ten)\s*(adults?|child|children|kids?|people|persons?|guests?|pax)\b|\b(couple|family|solo|honeymoon|alone)\b`)},
		{IntentSelectRoom, regexp.MustCompile(`\broom types?\b|\bdeluxe\b|\bsuite\b|\bstandard room\b|\bsuperior\b|\bexecutive\b|\b(single|double|twin|king|queen) (room|bed)\b`)},
		{IntentHelp, regexp.MustCompile(`\bhelp\b|\bwhat can you do\b|\bhow does this work\b|\bcommands\b|\bassist\b`)},
		{IntentThanks, regexp.MustCompile(`\bthanks\b|\bthank you\b|\bthx\b|\bappreciate\b|\bgreat job\b`)},
		{IntentCancel, regexp.MustCompile(`\bcancel\b|\bstop\b|\bnever ?mind\b|\bstart over\b|\breset\b|\bforget it\b|\bquit\b`)},
		{IntentNavigation, regexp.MustCompile(`\bgo to\b|\btake me to\b|\bopen\b|\bmy bookings?\b|\bmy account\b|\bprofile\b|\blog ?in\b|\bsign ?in\b|\bsign ?up\b|\bregister\b|\bhome ?page\b|\bwishlist\b|\blog ?out\b|\bmap\b`)},
		{IntentYesConfirm, yesPattern},
		{IntentNoDecline, noPattern},
	}
}

type IntentClassifier struct {
	extractor *EntityExtractor
	rules     []Rule
	yes       Rule
	no        Rule
}

func NewIntentClassifier(extractor *EntityExtractor) *IntentClassifier {
	return &IntentClassifier{
		extractor: extractor,
		rules:     defaultRules(),
		yes:       Rule{IntentYesConfirm, yesPattern},
		no:        Rule{IntentNoDecline, noPattern},
	}
}

// Rules returns a copy of the ordered rule table.
func (c *IntentClassifier) Rules() []Rule {
	rules := make([]Rule, len(c.rules))
	copy(rules, c.rules)
	return rules
}

// Classify picks the intent for one utterance. With an outstanding pending
// action a bare yes/no is resolved before any other rule is tried.
func (c *IntentClassifier) Classify(text string, hasPendingAction bool, knownCities []string) Intent {
	text = Normalize(text)
	if text == "" {
		return IntentUnknown
	}

	if hasPendingAction {
		if c.yes.Match(text) {
			return IntentYesConfirm
		}
		if c.no.Match(text) {
			return IntentNoDecline
		}
	}

	for _, rule := range c.rules {
		if rule.Match(text) {
			return rule.Intent
		}
	}

	if c.extractor != nil && c.extractor.ExtractCity(text, knownCities) != "" {
		return IntentHotelSearch
	}

	return IntentUnknown
}
