package moderation

import (
	"context"
	"time"
)

const (
	FilterBadwords = "badwords"
	FilterInvites  = "invites"
	FilterLinks    = "links"
	FilterCaps     = "caps"
	FilterMentions = "mentions"
	FilterSpam     = "spam"
	FilterAntiRaid = "antiraid"
)

// FilterNames lists every configurable filter, content filters in evaluation order.
var FilterNames = []string{FilterBadwords, FilterInvites, FilterLinks, FilterCaps, FilterMentions, FilterSpam, FilterAntiRaid}

type Message struct {
	ID        string
	GuildID   string
	GuildName string
	ChannelID string
	AuthorID  string
	AuthorBot bool
	WebhookID string
	Content   string
	CreatedAt time.Time

	AuthorRoles        []string
	AuthorIsAdmin      bool
	CanMentionEveryone bool

	MentionEveryone bool
	MentionedUsers  []string
	MentionedRoles  []string
}

type FilterResult struct {
	Triggered      bool
	Action         Action
	Reason         string
	MatchedContent string
}

// Pass is the result of a filter that did not match.
var Pass = FilterResult{}

type Filter interface {
	Name() string
	Check(ctx context.Context, msg Message, cfg GuildConfig) FilterResult
}

// BadwordAddResult reports whether a word was inserted or already listed.
type BadwordAddResult struct {
	Added         bool
	AlreadyExists bool
}

// InviteInfo is the resolved target of an invite code.
type InviteInfo struct {
	Code      string
	GuildID   string
	GuildName string
}
