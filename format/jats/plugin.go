package jats

import (
	"errors"

	"github.com/lehigh-university-libraries/oai-jats/format"
	"github.com/lehigh-university-libraries/oai-jats/settings"
)

const (
	// PluginName identifies the plugin in the host's plugin registry.
	PluginName = "OAIMetadataFormatPlugin_JATS"

	// SettingEnabled is the per-journal switch for the format.
	SettingEnabled = "enabled"

	// SettingForceTemplate makes a journal skip stored JATS files and always
	// synthesize its documents.
	SettingForceTemplate = "forceJatsTemplate"
)

var errNoSettings = errors.New("jats: plugin has no settings store")

// Plugin is the host-facing side of the format: its identity, its
// per-journal enabled flag and its settings form.
type Plugin struct {
	format   *Format
	settings settings.Store
}

// NewPlugin wraps a format for registration with the host.
func NewPlugin(f *Format, store settings.Store) *Plugin {
	return &Plugin{format: f, settings: store}
}

// Name returns the plugin's registry name.
func (p *Plugin) Name() string { return PluginName }

// DisplayName returns the name shown in plugin management.
func (p *Plugin) DisplayName() string { return "JATS Metadata Format" }

// Description returns the text shown in plugin management.
func (p *Plugin) Description() string {
	return "Exposes JATS XML article metadata through OAI-PMH using the metadata prefix \"" + MetadataPrefix + "\"."
}

// CanEnable reports that journal managers may enable the plugin.
func (p *Plugin) CanEnable() bool { return true }

// CanDisable reports that journal managers may disable the plugin.
func (p *Plugin) CanDisable() bool { return true }

// Format returns the wrapped metadata format.
func (p *Plugin) Format() *Format { return p.format }

// Enabled reports whether the format is enabled for a journal. Without a
// journal context the plugin is disabled.
func (p *Plugin) Enabled(contextID int) bool {
	if p.settings == nil || contextID == 0 {
		return false
	}
	return settings.Bool(p.settings, contextID, SettingEnabled)
}

// SetEnabled stores the enabled flag for a journal.
func (p *Plugin) SetEnabled(contextID int, enabled bool) error {
	if p.settings == nil {
		return errNoSettings
	}
	return settings.SetBool(p.settings, contextID, SettingEnabled, enabled)
}

// Register adds the format to a registry. A nil registry means
// format.DefaultRegistry.
func (p *Plugin) Register(r *format.Registry) {
	if r == nil {
		r = format.DefaultRegistry
	}
	r.Register(p.format)
}

// SettingsForm returns the settings form for a journal.
func (p *Plugin) SettingsForm(contextID int) *SettingsForm {
	return &SettingsForm{plugin: p, contextID: contextID}
}
