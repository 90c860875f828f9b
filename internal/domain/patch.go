package domain

// Patch types carry partial updates. Each field is optional; nil means "leave
// unchanged". The struct itself is the allowlist: a caller cannot smuggle a
// field outside the declared contract, so a profile update can never touch
// role or ban state.

// ProfilePatch is the self-service profile update contract.
type ProfilePatch struct {
	Bio         *string `json:"bio,omitempty"`
	AvatarEmoji *string `json:"avatar_emoji,omitempty"`
	Faction     *string `json:"faction,omitempty"`
	Gang        *string `json:"gang,omitempty"`
}

// IsZero reports whether no field is set.
func (p ProfilePatch) IsZero() bool {
	return p.Bio == nil && p.AvatarEmoji == nil && p.Faction == nil && p.Gang == nil
}

// UserAdminPatch is the admin-side user update contract.
type UserAdminPatch struct {
	Role      *Role   `json:"role,omitempty"`
	IsBanned  *bool   `json:"is_banned,omitempty"`
	BanReason *string `json:"ban_reason,omitempty"`
	Warnings  *int    `json:"warnings,omitempty"`
	Level     *int    `json:"level,omitempty"`
	Score     *int    `json:"score,omitempty"`
	Money     *int64  `json:"money,omitempty"`
	RankTitle *string `json:"rank_title,omitempty"`
	Faction   *string `json:"faction,omitempty"`
	Gang      *string `json:"gang,omitempty"`
}

func (p UserAdminPatch) IsZero() bool {
	return p.Role == nil && p.IsBanned == nil && p.BanReason == nil &&
		p.Warnings == nil && p.Level == nil && p.Score == nil &&
		p.Money == nil && p.RankTitle == nil && p.Faction == nil && p.Gang == nil
}

// CommandPatch is the command edit contract.
type CommandPatch struct {
	Category     *string `json:"category,omitempty"`
	SubCategory  *string `json:"sub_category,omitempty"`
	CommandCode  *string `json:"command_code,omitempty"`
	Label        *string `json:"label,omitempty"`
	Description  *string `json:"description,omitempty"`
	RequiresRole *Role   `json:"requires_role,omitempty"`
	SortOrder    *int    `json:"sort_order,omitempty"`
	IsActive     *bool   `json:"is_active,omitempty"`
}

func (p CommandPatch) IsZero() bool {
	return p.Category == nil && p.SubCategory == nil && p.CommandCode == nil &&
		p.Label == nil && p.Description == nil && p.RequiresRole == nil &&
		p.SortOrder == nil && p.IsActive == nil
}

// SectionUpsert is the insert-or-update contract for page sections, keyed by
// SectionKey.
type SectionUpsert struct {
	SectionKey   string `json:"section_key"`
	SectionTitle string `json:"section_title"`
	Content      string `json:"content"`
	ContentType  string `json:"content_type"`
	Page         string `json:"page"`
}
