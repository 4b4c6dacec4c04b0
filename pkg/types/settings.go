package types

// SettingsNamespace is the fixed key namespace the settings collaborator
// stores under.
const SettingsNamespace = "cardstable"

// Settings holds the persisted per-user preferences.
type Settings struct {
	PageSize      int     `json:"page_size"`
	DefaultSort   SortKey `json:"default_sort"`
	NSFWVisible   bool    `json:"nsfw_visible"`
	CacheEnabled  bool    `json:"cache_enabled"`
	ShowTagCounts bool    `json:"show_tag_counts"`
}

// SettingsPatch is a partial settings update. Nil fields keep their current
// values.
type SettingsPatch struct {
	PageSize      *int     `json:"page_size,omitempty"`
	DefaultSort   *SortKey `json:"default_sort,omitempty"`
	NSFWVisible   *bool    `json:"nsfw_visible,omitempty"`
	CacheEnabled  *bool    `json:"cache_enabled,omitempty"`
	ShowTagCounts *bool    `json:"show_tag_counts,omitempty"`
}
