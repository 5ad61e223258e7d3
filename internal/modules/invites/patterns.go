package invites

import "regexp"

var (
	inviteRegex     = regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?(?:discord\.(?:gg|io|me|li|com/invite)|discordapp\.com/invite)/[a-zA-Z0-9]+`)
	obfuscatedRegex = regexp.MustCompile(`(?i)(?:d[1i!]sc[o0]rd\.gg|d[1i!]sc[o0]rd\.com/invite)/[a-zA-Z0-9]+`)
)

// Find returns invite links in content, canonical matches first. A link caught
// by both patterns is reported once.
func Find(content string) []string {
	canonical := inviteRegex.FindAllStringIndex(content, -1)
	out := make([]string, 0, len(canonical))
	for _, loc := range canonical {
		out = append(out, content[loc[0]:loc[1]])
	}
	for _, loc := range obfuscatedRegex.FindAllStringIndex(content, -1) {
		if overlaps(canonical, loc) {
			continue
		}
		out = append(out, content[loc[0]:loc[1]])
	}
	return out
}

func overlaps(spans [][]int, loc []int) bool {
	for _, span := range spans {
		if loc[0] < span[1] && span[0] < loc[1] {
			return true
		}
	}
	return false
}
