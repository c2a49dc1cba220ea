package permission

import (
	"regexp"
	"strings"
)

var wordSplitter = regexp.MustCompile(`[^a-zA-Z0-9]+`)

func hasWholeWord(name, word string) bool {
	for _, part := range wordSplitter.Split(name, -1) {
		if part == word {
			return true
		}
	}
	return false
}

// priority-ordered keyword sets for NeedsPermission. Write-ish keywords
// and delete/execute/network/move keywords all force true; the
// read-indicator list is the only way to get false, and only when none
// of the preceding categories matched.
var (
	writeKeywords   = []string{"write", "create", "update", "edit", "modify"}
	deleteKeywords  = []string{"delete", "remove"}
	executeKeywords = []string{"execute", "shell", "terminal", "run", "bash"}
	networkKeywords = []string{"http", "web", "url"}
	moveKeywords    = []string{"move", "rename", "mv"}
	readKeywords    = []string{"read", "get", "list", "show", "view", "load", "fetch", "search", "grep", "find", "glob"}
)

func containsAny(lower string, words []string) bool {
	for _, w := range words {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

// NeedsPermission is a case-insensitive priority classifier over a tool
// name: write/delete/execute/network/move keywords force true (in that
// priority order, "rm" only as a whole word); read-indicator keywords
// with none of the above present yield false; anything else defaults
// true (safe-by-default).
func NeedsPermission(toolName string) bool {
	lower := strings.ToLower(toolName)

	if containsAny(lower, writeKeywords) {
		return true
	}
	if containsAny(lower, deleteKeywords) || hasWholeWord(lower, "rm") {
		return true
	}
	if containsAny(lower, executeKeywords) {
		return true
	}
	if containsAny(lower, networkKeywords) {
		return true
	}
	if containsAny(lower, moveKeywords) {
		return true
	}
	if containsAny(lower, readKeywords) {
		return false
	}
	return true
}
