package device

import (
	"fmt"
	"regexp"
	"runtime"
)

var (
	androidRe = regexp.MustCompile(`(?i)Android`)
	iosRe     = regexp.MustCompile(`(?i)iPhone|iPad|iPod`)
)

// IsAndroid reports whether the user agent belongs to an Android device
func IsAndroid(userAgent string) bool {
	return androidRe.MatchString(userAgent)
}

// IsIOS reports whether the user agent belongs to an iOS device
func IsIOS(userAgent string) bool {
	return iosRe.MatchString(userAgent)
}

// IsMobile reports whether the user agent belongs to a phone or tablet
func IsMobile(userAgent string) bool {
	return IsAndroid(userAgent) || IsIOS(userAgent)
}

// DefaultUserAgent describes the running platform in user agent form
func DefaultUserAgent() string {
	switch runtime.GOOS {
	case "android":
		return fmt.Sprintf("glasscam (Linux; Android; %s)", runtime.GOARCH)
	case "ios":
		return fmt.Sprintf("glasscam (iPhone; %s)", runtime.GOARCH)
	default:
		return fmt.Sprintf("glasscam (%s; %s)", runtime.GOOS, runtime.GOARCH)
	}
}
