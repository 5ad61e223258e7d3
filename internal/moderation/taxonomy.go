package moderation

const (
	TriggerBadWords     = "bad_words"
	TriggerSpam         = "spam"
	TriggerInvites      = "invites"
	TriggerLinks        = "links"
	TriggerCaps         = "caps"
	TriggerMassMentions = "mass_mentions"
	TriggerBlacklist    = "blacklist"
)

// Stored trigger identifiers are read by statistics queries; keep the values stable.
var triggerTypes = map[string]string{
	FilterBadwords: TriggerBadWords,
	FilterSpam:     TriggerSpam,
	FilterInvites:  TriggerInvites,
	FilterLinks:    TriggerLinks,
	FilterCaps:     TriggerCaps,
	FilterMentions: TriggerMassMentions,
	FilterAntiRaid: TriggerBlacklist,
}

// TriggerType maps an internal filter name to its audit identifier. Unknown
// names are passed through.
func TriggerType(filter string) string {
	if value, ok := triggerTypes[filter]; ok {
		return value
	}
	return filter
}
