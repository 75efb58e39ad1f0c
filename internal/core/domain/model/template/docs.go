// Package template provides the TemplateLibrary entity and the documents it
// stores: legacy progress templates ({"nodes": [...]}) and process templates
// ({"steps": [...]}).
//
// A template is scoped either to one style or, with an empty style, as the
// default of its tenant (or of every tenant when the tenant is global). Once
// an order for the style enters production the template is locked and can
// only change after a supervisor unlocks it.
package template
