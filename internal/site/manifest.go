package site

import (
	"encoding/json"

	"git.home.luguber.info/inful/blogbuilder/internal/config"
	"git.home.luguber.info/inful/blogbuilder/internal/images"
)

// WebManifest is the web app manifest document.
type WebManifest struct {
	Name            string        `json:"name"`
	ShortName       string        `json:"short_name"`
	StartURL        string        `json:"start_url"`
	BackgroundColor string        `json:"background_color,omitempty"`
	ThemeColor      string        `json:"theme_color,omitempty"`
	Display         string        `json:"display,omitempty"`
	Icons           []images.Icon `json:"icons"`
}

// BuildManifest encodes the manifest for cfg. startURL is already prefixed.
func BuildManifest(cfg config.ManifestConfig, startURL string, icons []images.Icon) ([]byte, error) {
	if icons == nil {
		icons = []images.Icon{}
	}
	m := WebManifest{
		Name:            cfg.Name,
		ShortName:       cfg.ShortName,
		StartURL:        startURL,
		BackgroundColor: cfg.BackgroundColor,
		ThemeColor:      cfg.ThemeColor,
		Display:         cfg.Display,
		Icons:           icons,
	}
	return json.MarshalIndent(m, "", "  ")
}
