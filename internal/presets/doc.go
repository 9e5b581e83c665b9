// Package presets loads browser options from files.
//
// A preset is a YAML, TOML or JSON document describing a session. Extension
// bundles are listed as glob patterns (doublestar syntax, ** allowed)
// relative to the preset file; each match must be a zip based bundle.
//
//	label: scraper
//	headless: true
//	browser: chromium
//	keepOpen: 300
//	extensions:
//	  - extensions/**/*.crx
//	proxy:
//	  host: 10.0.0.1
//	  port: "3128"
package presets
