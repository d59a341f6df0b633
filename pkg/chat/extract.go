// CLAUDE:SUMMARY Ordered regex rules extracting task titles, task ids and status filters from chat messages.
package chat

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/hazyhaar/taskchat/pkg/task"
)

// titleRules are tried in order; the first match wins and its capture group
// becomes the title. When none match, the whole trimmed message is the
// title, so extraction is total for non-blank input.
var titleRules = []*regexp.Regexp{
	regexp.MustCompile(`(?i)add\s+(?:a\s+)?task\s+(?:to\s+)?(.+)`),
	regexp.MustCompile(`(?i)create\s+(?:a\s+)?task\s+(?:to\s+)?(.+)`),
	regexp.MustCompile(`(?i)(.+)\s+to\s+(?:my\s+)?(?:todo|task)`),
}

// ExtractTitle returns the task title carried by a message, falling back to
// the whole trimmed message. Only blank input yields "".
func ExtractTitle(msg string) string {
	for _, re := range titleRules {
		if m := re.FindStringSubmatch(msg); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return strings.TrimSpace(msg)
}

// taskIDRule matches the first run of digits, optionally preceded by the
// word "task".
var taskIDRule = regexp.MustCompile(`(?i)(?:task\s+)?(\d+)`)

// ExtractTaskID returns the first task id mentioned in the message.
func ExtractTaskID(msg string) (int64, bool) {
	m := taskIDRule.FindStringSubmatch(msg)
	if m == nil {
		return 0, false
	}
	id, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// ListStatus derives the listing filter from the message. "pending" wins
// over "completed" and "done"; anything else lists all tasks.
func ListStatus(msg string) task.Status {
	switch {
	case strings.Contains(msg, "pending"):
		return task.StatusPending
	case strings.Contains(msg, "completed"), strings.Contains(msg, "done"):
		return task.StatusCompleted
	default:
		return task.StatusAll
	}
}
