package settings

import (
	"fmt"
	"strings"

	"github.com/georgemunganga/freshpavilion-backend/internal/platform/apperr"
)

// Setting keys as stored in site_settings.
const (
	KeySiteName               = "site_name"
	KeyLogo                   = "logo"
	KeyHeroImage              = "hero_image"
	KeyWhatsAppNumber         = "whatsapp_number"
	KeySupportPhone           = "support_phone"
	KeyNotificationWebhookURL = "notification_webhook_url"
)

// Settings is the site branding and contact configuration.
type Settings struct {
	SiteName               string `json:"site_name"`
	Logo                   string `json:"logo"`
	HeroImage              string `json:"hero_image"`
	WhatsAppNumber         string `json:"whatsapp_number"`
	SupportPhone           string `json:"support_phone"`
	NotificationWebhookURL string `json:"notification_webhook_url"`
}

// Entry is one stored key/value row.
type Entry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Defaults returns the settings used before anything is stored.
func Defaults() Settings {
	return Settings{
		SiteName:       "ফ্রেশ প্যাভিলিয়ন",
		HeroImage:      "https://images.unsplash.com/photo-1542838132-92c53300491e?auto=format&fit=crop&q=80&w=1600",
		WhatsAppNumber: "01630145305",
		SupportPhone:   "01630145305",
	}
}

func (s *Settings) field(key string) (*string, bool) {
	switch key {
	case KeySiteName:
		return &s.SiteName, true
	case KeyLogo:
		return &s.Logo, true
	case KeyHeroImage:
		return &s.HeroImage, true
	case KeyWhatsAppNumber:
		return &s.WhatsAppNumber, true
	case KeySupportPhone:
		return &s.SupportPhone, true
	case KeyNotificationWebhookURL:
		return &s.NotificationWebhookURL, true
	}
	return nil, false
}

// Apply overlays stored rows onto s. Unknown keys are ignored.
func (s Settings) Apply(entries []Entry) Settings {
	for _, e := range entries {
		if f, ok := s.field(e.Key); ok {
			*f = e.Value
		}
	}
	return s
}

// Set changes one key and rejects keys that are not settings.
func (s Settings) Set(key, value string) (Settings, error) {
	f, ok := s.field(key)
	if !ok {
		return s, apperr.Validation(fmt.Sprintf("unknown setting %q", key))
	}
	*f = value
	return s, nil
}

// WebhookURLs splits the comma-separated webhook setting.
func (s Settings) WebhookURLs() []string {
	var urls []string
	for _, u := range strings.Split(s.NotificationWebhookURL, ",") {
		if u = strings.TrimSpace(u); u != "" {
			urls = append(urls, u)
		}
	}
	return urls
}
