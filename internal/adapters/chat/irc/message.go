package irc

import "strings"

// line is one parsed IRC line. Tags are not requested, so none are parsed.
type line struct {
	nick     string
	command  string
	params   []string
	trailing string
}

func parseLine(raw string) line {
	var parsed line
	raw = strings.TrimRight(raw, "\r\n")

	if strings.HasPrefix(raw, ":") {
		prefix, rest, _ := strings.Cut(raw[1:], " ")
		parsed.nick, _, _ = strings.Cut(prefix, "!")
		raw = rest
	}

	head, trailing, hasTrailing := strings.Cut(raw, " :")
	if hasTrailing {
		parsed.trailing = trailing
	} else if strings.HasPrefix(head, ":") {
		parsed.trailing = head[1:]
		head = ""
	}

	fields := strings.Fields(head)
	if len(fields) > 0 {
		parsed.command = strings.ToUpper(fields[0])
		parsed.params = fields[1:]
	}
	return parsed
}

func splitLines(payload string) []string {
	var lines []string
	for _, raw := range strings.Split(payload, "\n") {
		if raw = strings.TrimRight(raw, "\r"); raw != "" {
			lines = append(lines, raw)
		}
	}
	return lines
}
