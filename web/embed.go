// Package web embeds the static chat page served at the root.
package web

import "embed"

//go:embed static
var Static embed.FS
