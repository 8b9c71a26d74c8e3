package model

// AppConfig is the presentation configuration shared by every page.
type AppConfig struct {
	LogoURL           string `json:"logoUrl" yaml:"logo_url"`
	QrisURL           string `json:"qrisUrl" yaml:"qris_url"`
	YoutubePlaylistID string `json:"youtubePlaylistId" yaml:"youtube_playlist_id"`
}

// ConfigPatch is a partial AppConfig. Nil fields are left untouched by Apply.
type ConfigPatch struct {
	LogoURL           *string `json:"logoUrl,omitempty"`
	QrisURL           *string `json:"qrisUrl,omitempty"`
	YoutubePlaylistID *string `json:"youtubePlaylistId,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p ConfigPatch) IsEmpty() bool {
	return p.LogoURL == nil && p.QrisURL == nil && p.YoutubePlaylistID == nil
}

// Apply returns base with every non-nil patch field overlaid.
func (p ConfigPatch) Apply(base AppConfig) AppConfig {
	if p.LogoURL != nil {
		base.LogoURL = *p.LogoURL
	}
	if p.QrisURL != nil {
		base.QrisURL = *p.QrisURL
	}
	if p.YoutubePlaylistID != nil {
		base.YoutubePlaylistID = *p.YoutubePlaylistID
	}
	return base
}

// NotificationType classifies admin notifications.
type NotificationType string

const (
	NotificationDonation NotificationType = "DONATION"
	NotificationSystem   NotificationType = "SYSTEM"
)

// AdminNotification is derived from a pending transaction on every fetch.
// Read state is held in process memory only.
type AdminNotification struct {
	ID        string           `json:"id"`
	Message   string           `json:"message"`
	Timestamp string           `json:"timestamp"`
	IsRead    bool             `json:"isRead"`
	Type      NotificationType `json:"type"`
}
