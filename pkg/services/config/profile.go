package config

import (
	"fmt"

	"gopkg.in/ini.v1"
)

// Profile holds workspace coordinates stored in an INI profile file:
//
//	[production]
//	subscription_id = ...
//	resource_group  = ...
//	workspace_name  = ...
type Profile struct {
	Name           string
	SubscriptionID string
	ResourceGroup  string
	WorkspaceName  string
	TenantID       string
}

type ProfileRegistry interface {
	GetProfiles() []string
	GetProfile(name string) (*Profile, error)
}

type iniRegistry struct {
	cfg *ini.File
}

func NewProfileRegistry(path string) (ProfileRegistry, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile file %s: %w", path, err)
	}
	return &iniRegistry{cfg: cfg}, nil
}

func (r *iniRegistry) GetProfiles() []string {
	var profiles []string
	for _, section := range r.cfg.Sections() {
		if len(section.Keys()) > 0 {
			profiles = append(profiles, section.Name())
		}
	}
	return profiles
}

func (r *iniRegistry) GetProfile(name string) (*Profile, error) {
	section, err := r.cfg.GetSection(name)
	if err != nil {
		return nil, fmt.Errorf("profile %s not found", name)
	}

	return &Profile{
		Name:           name,
		SubscriptionID: section.Key("subscription_id").String(),
		ResourceGroup:  section.Key("resource_group").String(),
		WorkspaceName:  section.Key("workspace_name").String(),
		TenantID:       section.Key("tenant_id").String(),
	}, nil
}
