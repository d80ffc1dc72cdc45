package profile

import (
	"context"
	"log/slog"

	"sitechat/internal/assist"
)

// KeyStore defines the storage operations the Provider needs.
// Implemented by storage.Store.
type KeyStore interface {
	GetAllProfileKeys() (map[string]string, error)
	SetProfileKey(key, value string) error
}

// Provider assembles the owner's profile from flat key-value storage.
// It satisfies the assistant's ProfileFetcher contract and never surfaces a
// storage failure: missing or broken storage degrades to the fallback
// bundle.
type Provider struct {
	store    KeyStore
	fallback assist.Profile
}

// NewProvider creates a Provider with the given fallback bundle. Zero
// fallback fields are filled from assist.FallbackProfile.
func NewProvider(store KeyStore, fallback assist.Profile) *Provider {
	if fallback.Name == "" {
		fallback.Name = assist.FallbackProfile.Name
	}
	if fallback.Bio == "" {
		fallback.Bio = assist.FallbackProfile.Bio
	}
	return &Provider{store: store, fallback: fallback}
}

// Keys recognized in the profile table.
const (
	KeyName         = "name"
	KeyBio          = "bio"
	KeyAvatarURL    = "avatar_url"
	KeyGitHubURL    = "github_url"
	KeyLinkedInURL  = "linkedin_url"
	KeyInstagramURL = "instagram_url"
	KeyEmail        = "email"
)

// Profile returns the stored profile, with fallback values filling any gaps.
func (p *Provider) Profile(ctx context.Context) (assist.Profile, error) {
	keys, err := p.store.GetAllProfileKeys()
	if err != nil {
		slog.Warn("profile storage unavailable, using fallback", "error", err)
		return p.fallback, nil
	}

	out := p.fallback
	assign := func(key string, dst *string) {
		if v, ok := keys[key]; ok && v != "" {
			*dst = v
		}
	}
	assign(KeyName, &out.Name)
	assign(KeyBio, &out.Bio)
	assign(KeyAvatarURL, &out.AvatarURL)
	assign(KeyGitHubURL, &out.GitHubURL)
	assign(KeyLinkedInURL, &out.LinkedInURL)
	assign(KeyInstagramURL, &out.InstagramURL)
	assign(KeyEmail, &out.Email)
	return out, nil
}

// Set persists a single profile field.
func (p *Provider) Set(key, value string) error {
	return p.store.SetProfileKey(key, value)
}
