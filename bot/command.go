package bot

import "strings"

// command is one parsed chat command: a lower-cased name and the raw argument
// text after it ("answer" keeps its args verbatim, free text answers may
// contain spaces).
type command struct {
	name string
	args string
}

// firstArg returns the first whitespace-separated argument, lower-cased.
// Used for the category, which is a single token.
func (c command) firstArg() string {
	fields := strings.Fields(c.args)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToLower(fields[0])
}

// parseCommand splits a chat line into a command if it starts with the prefix.
func parseCommand(prefix, text string) (command, bool) {
	text = strings.TrimSpace(text)
	if prefix == "" || !strings.HasPrefix(text, prefix) {
		return command{}, false
	}
	rest := text[len(prefix):]
	if rest == "" {
		return command{}, false
	}
	name, args, _ := strings.Cut(rest, " ")
	if name == "" {
		return command{}, false
	}
	return command{name: strings.ToLower(name), args: strings.TrimSpace(args)}, true
}
