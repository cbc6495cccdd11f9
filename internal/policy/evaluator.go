// Package policy decides whether a recipient may receive a message, based on
// the message's access policy and the recipient's profile attributes.
//
// Evaluate is a pure function: it never touches storage and is safe for
// unsynchronized concurrent use.
package policy

import "adrelay/internal/entity"

// Evaluate reports whether a recipient holding the given profile attributes
// satisfies the message's policy.
//
// PUBLIC admits everyone. WHITELIST requires every rule to match an
// identical profile attribute; a whitelist with no rules admits everyone,
// same as PUBLIC. BLACKLIST rejects the recipient when any rule matches.
func Evaluate(msg *entity.Message, profile map[string]string) bool {
	switch msg.Policy {
	case entity.PolicyPublic:
		return true
	case entity.PolicyWhitelist:
		for _, rule := range msg.Rules {
			if profile[rule.Key] != rule.Value {
				return false
			}
		}
		return true
	case entity.PolicyBlacklist:
		for _, rule := range msg.Rules {
			if profile[rule.Key] == rule.Value {
				return false
			}
		}
		return true
	}
	return false
}
