// Package configs embeds the shipped rules, tank table and levels.
package configs

import "embed"

// FS holds rules.json, tanks.json and levels/*.json
//
//go:embed rules.json tanks.json levels
var FS embed.FS
