package moderation

import (
	"errors"
	"fmt"
	"time"

	"sentinel-automod/internal/utils"
)

var (
	ErrUnknownFilter   = errors.New("unknown filter")
	ErrInvalidAction   = errors.New("invalid action")
	ErrInvalidDuration = utils.ErrInvalidDuration
	ErrInvalidLimit    = errors.New("invalid limit")
)

const DefaultMuteDuration = 5 * time.Minute

// MaxMuteDuration is the longest timeout Discord accepts.
const MaxMuteDuration = 28 * utils.Day

type FilterSettings struct {
	Enabled      bool
	Action       Action
	MuteDuration time.Duration
}

type BadwordsConfig struct {
	FilterSettings
	DetectLeet  bool
	WholeWord   bool
	UseDefaults bool
	CustomRegex []string
}

type SpamConfig struct {
	FilterSettings
	MaxMessages         int
	TimeWindow          time.Duration
	MaxDuplicates       int
	SimilarityThreshold float64
}

type InvitesConfig struct {
	FilterSettings
	AllowOwnServer bool
	AllowedServers []string
}

type LinksConfig struct {
	FilterSettings
	BlockAll            bool
	BlockSuspicious     bool
	UseDefaultWhitelist bool
	Whitelist           []string
}

type CapsConfig struct {
	FilterSettings
	MaxPercentage int
	MinLength     int
}

type MentionsConfig struct {
	FilterSettings
	MaxUserMentions int
	MaxRoleMentions int
	BlockEveryone   bool
}

type AntiRaidConfig struct {
	FilterSettings
	JoinThreshold  int
	JoinWindow     time.Duration
	AccountAgeDays int
}

// GuildConfig is the resolved AutoMod configuration of one guild. Stored rows
// are converted into this shape once, at the storage boundary.
type GuildConfig struct {
	GuildID        string
	Enabled        bool
	AdminBypass    bool
	ExemptRoles    []string
	ExemptChannels []string
	LogChannelID   string
	ModRoleID      string
	BadwordCount   int

	Badwords BadwordsConfig
	Spam     SpamConfig
	Invites  InvitesConfig
	Links    LinksConfig
	Caps     CapsConfig
	Mentions MentionsConfig
	AntiRaid AntiRaidConfig
}

func DefaultGuildConfig(guildID string) GuildConfig {
	return GuildConfig{
		GuildID: guildID,
		Badwords: BadwordsConfig{
			FilterSettings: FilterSettings{Enabled: false, Action: ActionDelete},
			DetectLeet:     true,
			UseDefaults:    true,
		},
		Spam: SpamConfig{
			FilterSettings:      FilterSettings{Enabled: true, Action: ActionDelete},
			MaxMessages:         5,
			TimeWindow:          5 * time.Second,
			MaxDuplicates:       3,
			SimilarityThreshold: 0.85,
		},
		Invites: InvitesConfig{
			FilterSettings: FilterSettings{Enabled: true, Action: ActionDelete},
			AllowOwnServer: true,
		},
		Links: LinksConfig{
			FilterSettings:      FilterSettings{Enabled: false, Action: ActionDelete},
			BlockSuspicious:     true,
			UseDefaultWhitelist: true,
		},
		Caps: CapsConfig{
			FilterSettings: FilterSettings{Enabled: true, Action: ActionDelete},
			MaxPercentage:  70,
			MinLength:      10,
		},
		Mentions: MentionsConfig{
			FilterSettings:  FilterSettings{Enabled: true, Action: ActionDelete},
			MaxUserMentions: 5,
			MaxRoleMentions: 3,
		},
		AntiRaid: AntiRaidConfig{
			FilterSettings: FilterSettings{Enabled: false, Action: ActionLockdown},
			JoinThreshold:  10,
			JoinWindow:     10 * time.Second,
			AccountAgeDays: 7,
		},
	}
}

// Normalize fills unset thresholds and actions with defaults so filters never
// see zero limits.
func (c *GuildConfig) Normalize() {
	def := DefaultGuildConfig(c.GuildID)
	for _, name := range FilterNames {
		settings := c.settingsRef(name)
		if settings.Action == "" || ValidateAction(name, settings.Action) != nil {
			settings.Action = def.settingsRef(name).Action
		}
		if settings.MuteDuration < 0 {
			settings.MuteDuration = 0
		}
		if settings.MuteDuration > MaxMuteDuration {
			settings.MuteDuration = MaxMuteDuration
		}
	}
	if c.Spam.MaxMessages <= 0 {
		c.Spam.MaxMessages = def.Spam.MaxMessages
	}
	if c.Spam.TimeWindow <= 0 {
		c.Spam.TimeWindow = def.Spam.TimeWindow
	}
	if c.Spam.MaxDuplicates <= 0 {
		c.Spam.MaxDuplicates = def.Spam.MaxDuplicates
	}
	if c.Spam.SimilarityThreshold <= 0 || c.Spam.SimilarityThreshold > 1 {
		c.Spam.SimilarityThreshold = def.Spam.SimilarityThreshold
	}
	if c.Caps.MaxPercentage <= 0 {
		c.Caps.MaxPercentage = def.Caps.MaxPercentage
	}
	if c.Caps.MinLength <= 0 {
		c.Caps.MinLength = def.Caps.MinLength
	}
	if c.Mentions.MaxUserMentions <= 0 {
		c.Mentions.MaxUserMentions = def.Mentions.MaxUserMentions
	}
	if c.Mentions.MaxRoleMentions <= 0 {
		c.Mentions.MaxRoleMentions = def.Mentions.MaxRoleMentions
	}
	if c.AntiRaid.JoinThreshold <= 0 {
		c.AntiRaid.JoinThreshold = def.AntiRaid.JoinThreshold
	}
	if c.AntiRaid.JoinWindow <= 0 {
		c.AntiRaid.JoinWindow = def.AntiRaid.JoinWindow
	}
	if c.AntiRaid.AccountAgeDays < 0 {
		c.AntiRaid.AccountAgeDays = def.AntiRaid.AccountAgeDays
	}
}

// Settings returns the shared settings block of a filter.
func (c GuildConfig) Settings(filter string) (FilterSettings, error) {
	if err := ValidateFilter(filter); err != nil {
		return FilterSettings{}, err
	}
	return *c.settingsRef(filter), nil
}

func (c GuildConfig) FilterEnabled(filter string) bool {
	settings, err := c.Settings(filter)
	return err == nil && settings.Enabled
}

func (c GuildConfig) EnabledCount() int {
	count := 0
	for _, name := range FilterNames {
		if c.FilterEnabled(name) {
			count++
		}
	}
	return count
}

func (c GuildConfig) IsExemptRole(roles []string) bool {
	for _, role := range roles {
		for _, exempt := range c.ExemptRoles {
			if role == exempt {
				return true
			}
		}
	}
	return false
}

func (c GuildConfig) IsExemptChannel(channelID string) bool {
	for _, exempt := range c.ExemptChannels {
		if exempt == channelID {
			return true
		}
	}
	return false
}

func (c *GuildConfig) settingsRef(filter string) *FilterSettings {
	switch filter {
	case FilterBadwords:
		return &c.Badwords.FilterSettings
	case FilterSpam:
		return &c.Spam.FilterSettings
	case FilterInvites:
		return &c.Invites.FilterSettings
	case FilterLinks:
		return &c.Links.FilterSettings
	case FilterCaps:
		return &c.Caps.FilterSettings
	case FilterMentions:
		return &c.Mentions.FilterSettings
	case FilterAntiRaid:
		return &c.AntiRaid.FilterSettings
	default:
		return &FilterSettings{}
	}
}

func ValidateFilter(filter string) error {
	for _, name := range FilterNames {
		if name == filter {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownFilter, filter)
}

// FilterUpdate changes one filter's shared settings. Nil fields are left as is.
type FilterUpdate struct {
	Enabled      *bool
	Action       *Action
	MuteDuration *time.Duration
}

// ConfigUpdate is a partial write of a guild configuration.
type ConfigUpdate struct {
	Enabled        *bool
	AdminBypass    *bool
	LogChannelID   *string
	ModRoleID      *string
	ExemptRoles    *[]string
	ExemptChannels *[]string
	Filters        map[string]FilterUpdate
	Limits         map[string]int
}

// Limit keys accepted by ConfigUpdate.Limits. Window limits are in milliseconds.
const (
	LimitSpamMaxMessages    = "spam_max_messages"
	LimitSpamTimeWindow     = "spam_time_window"
	LimitSpamMaxDuplicates  = "spam_max_duplicates"
	LimitCapsMaxPercentage  = "caps_max_percentage"
	LimitCapsMinLength      = "caps_min_length"
	LimitMentionsMaxUsers   = "mentions_max_users"
	LimitMentionsMaxRoles   = "mentions_max_roles"
	LimitAntiRaidThreshold  = "antiraid_join_threshold"
	LimitAntiRaidJoinWindow = "antiraid_join_window"
	LimitAntiRaidAccountAge = "antiraid_account_age"
)

var LimitKeys = []string{
	LimitSpamMaxMessages,
	LimitSpamTimeWindow,
	LimitSpamMaxDuplicates,
	LimitCapsMaxPercentage,
	LimitCapsMinLength,
	LimitMentionsMaxUsers,
	LimitMentionsMaxRoles,
	LimitAntiRaidThreshold,
	LimitAntiRaidJoinWindow,
	LimitAntiRaidAccountAge,
}

// Validate rejects unknown filters, actions outside a filter's subset and
// non-positive limits.
func (u ConfigUpdate) Validate() error {
	for name, update := range u.Filters {
		if err := ValidateFilter(name); err != nil {
			return err
		}
		if update.Action != nil {
			if err := ValidateAction(name, *update.Action); err != nil {
				return err
			}
		}
		if update.MuteDuration != nil && *update.MuteDuration <= 0 {
			return fmt.Errorf("%w: mute duration must be positive", ErrInvalidDuration)
		}
		if update.MuteDuration != nil && *update.MuteDuration > MaxMuteDuration {
			return fmt.Errorf("%w: mute duration is capped at 28 days", ErrInvalidDuration)
		}
	}
	for key, value := range u.Limits {
		if !isLimitKey(key) {
			return fmt.Errorf("%w: unknown key %q", ErrInvalidLimit, key)
		}
		if value < 0 || (value == 0 && key != LimitAntiRaidAccountAge) {
			return fmt.Errorf("%w: %s must be positive", ErrInvalidLimit, key)
		}
		if key == LimitCapsMaxPercentage && value > 100 {
			return fmt.Errorf("%w: %s must be at most 100", ErrInvalidLimit, key)
		}
	}
	return nil
}

func (u ConfigUpdate) Empty() bool {
	return u.Enabled == nil && u.AdminBypass == nil && u.LogChannelID == nil && u.ModRoleID == nil &&
		u.ExemptRoles == nil && u.ExemptChannels == nil && len(u.Filters) == 0 && len(u.Limits) == 0
}

// Apply merges the update into cfg. The storage layer persists the same
// fields; Apply keeps in-memory fakes and previews consistent with it.
func (u ConfigUpdate) Apply(cfg *GuildConfig) {
	if u.Enabled != nil {
		cfg.Enabled = *u.Enabled
	}
	if u.AdminBypass != nil {
		cfg.AdminBypass = *u.AdminBypass
	}
	if u.LogChannelID != nil {
		cfg.LogChannelID = *u.LogChannelID
	}
	if u.ModRoleID != nil {
		cfg.ModRoleID = *u.ModRoleID
	}
	if u.ExemptRoles != nil {
		cfg.ExemptRoles = append([]string(nil), (*u.ExemptRoles)...)
	}
	if u.ExemptChannels != nil {
		cfg.ExemptChannels = append([]string(nil), (*u.ExemptChannels)...)
	}
	for name, update := range u.Filters {
		settings := cfg.settingsRef(name)
		if update.Enabled != nil {
			settings.Enabled = *update.Enabled
		}
		if update.Action != nil {
			settings.Action = *update.Action
		}
		if update.MuteDuration != nil {
			settings.MuteDuration = *update.MuteDuration
		}
	}
	for key, value := range u.Limits {
		switch key {
		case LimitSpamMaxMessages:
			cfg.Spam.MaxMessages = value
		case LimitSpamTimeWindow:
			cfg.Spam.TimeWindow = time.Duration(value) * time.Millisecond
		case LimitSpamMaxDuplicates:
			cfg.Spam.MaxDuplicates = value
		case LimitCapsMaxPercentage:
			cfg.Caps.MaxPercentage = value
		case LimitCapsMinLength:
			cfg.Caps.MinLength = value
		case LimitMentionsMaxUsers:
			cfg.Mentions.MaxUserMentions = value
		case LimitMentionsMaxRoles:
			cfg.Mentions.MaxRoleMentions = value
		case LimitAntiRaidThreshold:
			cfg.AntiRaid.JoinThreshold = value
		case LimitAntiRaidJoinWindow:
			cfg.AntiRaid.JoinWindow = time.Duration(value) * time.Millisecond
		case LimitAntiRaidAccountAge:
			cfg.AntiRaid.AccountAgeDays = value
		}
	}
}

// SetAllFilters enables or disables the engine and every filter at once.
func SetAllFilters(enabled bool) ConfigUpdate {
	update := ConfigUpdate{Enabled: &enabled, Filters: make(map[string]FilterUpdate, len(FilterNames))}
	for _, name := range FilterNames {
		value := enabled
		update.Filters[name] = FilterUpdate{Enabled: &value}
	}
	return update
}

// EnableAutoMod turns the engine on with every filter except links.
func EnableAutoMod() ConfigUpdate {
	update := SetAllFilters(true)
	disabled := false
	update.Filters[FilterLinks] = FilterUpdate{Enabled: &disabled}
	return update
}

func isLimitKey(key string) bool {
	for _, candidate := range LimitKeys {
		if candidate == key {
			return true
		}
	}
	return false
}
