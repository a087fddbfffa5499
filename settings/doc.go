// Package settings describes the discrete fixed-function state that selects
// a program variant.
//
// # PipelineSettings
//
// PipelineSettings holds booleans and closed enumerations only. Defaults
// returns the state of a freshly created context and Validate rejects values
// the generators cannot express, reporting the first offending field:
//
//	s := settings.Defaults()
//	s.Lighting = true
//	s.Lights[0].Enabled = true
//	if err := settings.Validate(&s); err != nil {
//	    return err
//	}
//
// # Identity
//
// Equal is the variant identity: two settings compare equal exactly when
// they produce the same programs. Checksum is a bucket key only.
// LegacyEqual and LegacyChecksum keep the behavior of the legacy shader
// cache for comparison runs.
//
// # Documents
//
// Load, LoadFile and Encode read and write settings as TOML documents.
package settings
