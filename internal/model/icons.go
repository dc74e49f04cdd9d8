package model

// Glyphs used in console output. Kept in one place so messages stay consistent.
const (
	IconFire    = "🔥"
	IconShield  = "🛡️ "
	IconWarning = "⚠️ "
	IconCheck   = "✓"
	IconBullet  = "•"
)
