package jats

import (
	"bytes"
	"fmt"
	"html/template"
	"net/url"

	"github.com/lehigh-university-libraries/oai-jats/settings"
)

var settingsFormTemplate = template.Must(template.New("settingsForm").Parse(`<form class="pkp_form" id="oaiJatsSettingsForm" method="post" action="{{.Action}}">
	<input type="hidden" name="plugin" value="{{.PluginName}}">
	<fieldset>
		<legend>{{.DisplayName}}</legend>
		<label>
			<input type="checkbox" name="{{.Field}}" value="1"{{if .ForceTemplate}} checked{{end}}>
			Always generate JATS from article metadata instead of using uploaded JATS XML files
		</label>
	</fieldset>
	<button type="submit" name="save" value="1">Save</button>
</form>
`))

// SettingsForm edits a journal's JATS settings. It follows the host's form
// life cycle: InitData or ReadInputData, then Execute to save, and Fetch to
// render.
type SettingsForm struct {
	plugin    *Plugin
	contextID int

	// ForceTemplate is the form's force-template checkbox.
	ForceTemplate bool
}

// InitData loads the stored settings into the form.
func (f *SettingsForm) InitData() {
	if f.plugin.settings == nil {
		return
	}
	f.ForceTemplate = settings.Bool(f.plugin.settings, f.contextID, SettingForceTemplate)
}

// ReadInputData reads submitted form values. An unchecked box is absent from
// the submission and reads as false.
func (f *SettingsForm) ReadInputData(values url.Values) {
	switch values.Get(SettingForceTemplate) {
	case "", "0", "false", "off":
		f.ForceTemplate = false
	default:
		f.ForceTemplate = true
	}
}

// Execute saves the form.
func (f *SettingsForm) Execute() error {
	if f.plugin.settings == nil {
		return errNoSettings
	}
	if err := settings.SetBool(f.plugin.settings, f.contextID, SettingForceTemplate, f.ForceTemplate); err != nil {
		return fmt.Errorf("saving %s: %w", SettingForceTemplate, err)
	}
	return nil
}

// Fetch renders the form as an HTML fragment posting to action.
func (f *SettingsForm) Fetch(action string) (string, error) {
	var buf bytes.Buffer
	err := settingsFormTemplate.Execute(&buf, map[string]any{
		"Action":        action,
		"PluginName":    f.plugin.Name(),
		"DisplayName":   f.plugin.DisplayName(),
		"Field":         SettingForceTemplate,
		"ForceTemplate": f.ForceTemplate,
	})
	if err != nil {
		return "", fmt.Errorf("rendering settings form: %w", err)
	}
	return buf.String(), nil
}
