// Package intent implements fixed-pattern intent classification for inbound
// messages. Classification is pure and synchronous: an ordered rule set is
// applied to the raw text and the first rule whose pattern matches wins.
//
// Entity extraction is deliberately crude: known trigger and filler phrases
// are stripped from the original text and the remainder is trimmed. The
// residue may contain noise; downstream normalization and slugification
// tolerate it, so the heuristic is preserved rather than hardened.
package intent

import (
	"regexp"
	"strings"
)

// Intent is the classified purpose of a user message.
type Intent string

const (
	// GetTicketPrice asks for admission pricing of a place.
	GetTicketPrice Intent = "get_ticket_price"
	// Unknown is the fallback when no rule matches.
	Unknown Intent = "unknown"
)

// Result is the classification outcome: the matched intent and the raw text
// span believed to name a place (empty when the rule extracts nothing or no
// rule matched).
type Result struct {
	Intent Intent
	Entity string
}

// rule pairs a co-occurrence pattern with an intent and the phrase set
// stripped from the text to expose the entity. Rules are evaluated in order;
// append new rules to extend the classifier without disturbing precedence.
type rule struct {
	intent Intent
	match  *regexp.Regexp
	strip  *regexp.Regexp
}

var rules = []rule{
	{
		// Ticket price: a price-question phrase followed by a place-category
		// keyword somewhere after it.
		intent: GetTicketPrice,
		match:  regexp.MustCompile(`(?i)(giá vé|vé vào|vé tham quan|bao nhiêu tiền|gia ve|ve vao|ve tham quan).*(đền|chùa|khu du lịch|động|hang|tràng an|bái đính|tam cốc|thái vi)`),
		strip:  regexp.MustCompile(`(?i)(giá vé|vé vào|vé tham quan|bao nhiêu tiền|gia ve|ve vao|ve tham quan|bao nhieu tien|là|bao nhiêu|o|tai|nhu the nao)`),
	},
}

// Classify applies the rule set to raw (unnormalized) text. No match yields
// {Unknown, ""}.
func Classify(text string) Result {
	for _, r := range rules {
		if !r.match.MatchString(text) {
			continue
		}
		entity := strings.TrimSpace(r.strip.ReplaceAllString(text, ""))
		return Result{Intent: r.intent, Entity: entity}
	}
	return Result{Intent: Unknown}
}
