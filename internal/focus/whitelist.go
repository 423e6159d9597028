package focus

import "strings"

// defaultWhitelist names system, shell, and meta processes that never
// count as focus or distraction. A lock is never established on one of
// these and an existing lock is untouched while one is in front.
var defaultWhitelist = []string{
	// macOS
	"finder",
	"dock",
	"systemuiserver",
	"loginwindow",
	"windowserver",
	"screensaverengine",
	"notificationcenter",
	"spotlight",
	// Windows
	"explorer",
	"searchhost",
	"shellexperiencehost",
	"lockapp",
	"taskmgr",
	// Linux
	"gnome-shell",
	"plasmashell",
	"kwin",
	"xfdesktop",
	// our own status surfaces
	"lookout",
}

// whitelist is a case-insensitive set of exempt process names.
type whitelist map[string]struct{}

func newWhitelist(extra []string) whitelist {
	w := make(whitelist, len(defaultWhitelist)+len(extra))
	for _, name := range defaultWhitelist {
		w[name] = struct{}{}
	}
	for _, name := range extra {
		if name = strings.ToLower(strings.TrimSpace(name)); name != "" {
			w[name] = struct{}{}
		}
	}
	return w
}

func (w whitelist) contains(app string) bool {
	_, ok := w[strings.ToLower(strings.TrimSpace(app))]
	return ok
}
