package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

const (
	StorageLocal = "local"
	StorageMinio = "minio"
)

// Visitor flag fields. The "ccm-" prefix and names are the versioned keys
// the site has always used for per-browser state; changing them would reset
// every visitor's gate status.
const (
	FlagEmailSubscribed = "ccm-email-subscribed"
	FlagEmailDismissed  = "ccm-email-banner-dismissed"
	FlagGateSkipped     = "ccm-email-gate-skipped"
	FlagExitIntentShown = "ccm-exit-intent-shown"
	FlagPremiumToken    = "ccm-premium-token"
)

// VisitorCookie identifies a browser across requests; it stands in for the
// per-browser storage the flags used to live in.
const VisitorCookie = "academy_visitor"

const (
	MimeImage = "image/"
)

var AllowedAvatarExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".webp"}
