// Package file provides the TOML configuration store.
//
// Keys are addressed with dot notation ("render.normalize_font") and stored
// as nested TOML tables:
//
//	[render]
//	normalize_font = true
//	strip_attributes = ["style", "class"]
//
//	[github]
//	token = "ghp_..."
package file
