package chat

import "strings"

// Intent is the classified purpose of a chat message.
type Intent int

const (
	IntentUnknown Intent = iota
	IntentAdd
	IntentList
	IntentComplete
	IntentDelete
	IntentUpdate
)

func (i Intent) String() string {
	switch i {
	case IntentAdd:
		return "add"
	case IntentList:
		return "list"
	case IntentComplete:
		return "complete"
	case IntentDelete:
		return "delete"
	case IntentUpdate:
		return "update"
	default:
		return "unknown"
	}
}

// intentRule pairs trigger words with the intent they select.
type intentRule struct {
	intent   Intent
	keywords []string
}

// intentRules are evaluated in order and the first rule with any keyword
// present wins. Messages often contain several trigger words ("add task 3
// to the done pile"), so the order is part of the contract and locked by
// tests.
var intentRules = []intentRule{
	{IntentAdd, []string{"add", "create"}},
	{IntentList, []string{"list", "show"}},
	{IntentComplete, []string{"complete", "done", "finish"}},
	{IntentDelete, []string{"delete", "remove"}},
	{IntentUpdate, []string{"update", "change"}},
}

// Classify maps a normalized message to an intent using first-match-wins
// substring rules. Anything without a trigger word is IntentUnknown, which
// the resolver answers with help text.
func Classify(msg string) Intent {
	for _, rule := range intentRules {
		for _, kw := range rule.keywords {
			if strings.Contains(msg, kw) {
				return rule.intent
			}
		}
	}
	return IntentUnknown
}
