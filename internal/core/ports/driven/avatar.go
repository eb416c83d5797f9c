package driven

// AvatarURLBuilder renders a profile picture URL for a display name.
type AvatarURLBuilder interface {
	// URL returns the avatar URL for name.
	URL(name string) string
}
