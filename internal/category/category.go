// Package category maps (app, window title) pairs to usage categories.
package category

import (
	"sort"
	"strings"

	"github.com/theirongolddev/lookout/internal/model"
)

// rule matches an app-name substring, optionally narrowed by a title
// substring, to a category. Rules are evaluated in order; first hit wins.
type rule struct {
	app      string
	title    string
	category model.Category
}

// Title rules run before plain app rules so that e.g. a browser tab on
// Stack Overflow classifies as Research rather than Browsing.
var defaultRules = []rule{
	{app: "chrome", title: "stack overflow", category: model.CategoryResearch},
	{app: "chrome", title: "github", category: model.CategoryDevelopment},
	{app: "chrome", title: "youtube", category: model.CategoryDistraction},
	{app: "firefox", title: "stack overflow", category: model.CategoryResearch},
	{app: "firefox", title: "github", category: model.CategoryDevelopment},
	{app: "firefox", title: "youtube", category: model.CategoryDistraction},

	{app: "code", category: model.CategoryDevelopment},
	{app: "goland", category: model.CategoryDevelopment},
	{app: "intellij", category: model.CategoryDevelopment},
	{app: "vim", category: model.CategoryDevelopment},
	{app: "nvim", category: model.CategoryDevelopment},
	{app: "emacs", category: model.CategoryDevelopment},
	{app: "terminal", category: model.CategoryDevelopment},
	{app: "iterm", category: model.CategoryDevelopment},
	{app: "alacritty", category: model.CategoryDevelopment},
	{app: "kitty", category: model.CategoryDevelopment},

	{app: "chrome", category: model.CategoryBrowsing},
	{app: "firefox", category: model.CategoryBrowsing},
	{app: "safari", category: model.CategoryBrowsing},
	{app: "edge", category: model.CategoryBrowsing},
	{app: "brave", category: model.CategoryBrowsing},

	{app: "slack", category: model.CategoryCommunication},
	{app: "discord", category: model.CategoryCommunication},
	{app: "zoom", category: model.CategoryCommunication},
	{app: "teams", category: model.CategoryCommunication},
	{app: "mail", category: model.CategoryCommunication},
	{app: "thunderbird", category: model.CategoryCommunication},

	{app: "notion", category: model.CategoryProductivity},
	{app: "obsidian", category: model.CategoryProductivity},
	{app: "excel", category: model.CategoryProductivity},
	{app: "word", category: model.CategoryProductivity},
	{app: "calendar", category: model.CategoryProductivity},

	{app: "spotify", category: model.CategoryDistraction},
	{app: "netflix", category: model.CategoryDistraction},
	{app: "steam", category: model.CategoryDistraction},
	{app: "twitch", category: model.CategoryDistraction},
}

// browserApps identifies browser-class processes; the focus engine treats
// title changes inside these as new destinations.
var browserApps = []string{"chrome", "chromium", "firefox", "safari", "edge", "brave", "opera", "vivaldi"}

// Categorizer resolves categories from the built-in rule table, with
// optional per-app overrides applied first.
type Categorizer struct {
	overrides []rule
}

// New returns a Categorizer with the given app-substring overrides.
// Override values that name an unknown category are ignored. Overrides
// are ordered by substring so an app matching two of them categorizes
// the same way on every run.
func New(overrides map[string]string) *Categorizer {
	c := &Categorizer{}
	for app, name := range overrides {
		if cat, ok := parseCategory(name); ok {
			c.overrides = append(c.overrides, rule{app: strings.ToLower(app), category: cat})
		}
	}
	sort.Slice(c.overrides, func(i, j int) bool {
		return c.overrides[i].app < c.overrides[j].app
	})
	return c
}

// Categorize maps an (app, title) pair to a category.
func (c *Categorizer) Categorize(app, title string) model.Category {
	appLower := strings.ToLower(app)
	titleLower := strings.ToLower(title)

	for _, o := range c.overrides {
		if strings.Contains(appLower, o.app) {
			return o.category
		}
	}

	for _, r := range defaultRules {
		if !strings.Contains(appLower, r.app) {
			continue
		}
		if r.title != "" && !strings.Contains(titleLower, r.title) {
			continue
		}
		return r.category
	}

	return model.CategoryOther
}

// IsBrowser reports whether the app is a known browser.
func IsBrowser(app string) bool {
	appLower := strings.ToLower(app)
	for _, b := range browserApps {
		if strings.Contains(appLower, b) {
			return true
		}
	}
	return false
}

func parseCategory(name string) (model.Category, bool) {
	switch model.Category(name) {
	case model.CategoryDevelopment, model.CategoryBrowsing, model.CategoryResearch,
		model.CategoryCommunication, model.CategoryProductivity,
		model.CategoryDistraction, model.CategoryOther:
		return model.Category(name), true
	}
	return "", false
}
