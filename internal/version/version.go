// ABOUTME: Version constants for the player
// ABOUTME: Reported in logs and over the media session interface
package version

const (
	// Version is the player release version.
	Version = "0.1.0"

	// Product is the player name shown to desktop integrations.
	Product = "Platter"
)
