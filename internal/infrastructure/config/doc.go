// Package config loads and validates Campus Core configuration.
//
// Configuration comes from a YAML file with environment variable
// overrides (CAMPUSCORE_SECTION_KEY). Defaults are applied first, then
// file values, then environment values. Validation runs last so a bad
// override is caught the same way as a bad file value.
package config
