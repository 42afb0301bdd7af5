package ui

import (
	"sort"

	tint "github.com/lrstanley/bubbletint"
)

// DefaultTheme is used when the configured theme is empty or unknown.
const DefaultTheme = "dracula"

// ThemeProvider wraps a bubbletint registry holding every bundled tint.
type ThemeProvider struct {
	registry *tint.Registry
	ids      []string
}

// NewThemeProvider selects the configured theme, falling back to
// DefaultTheme (or the first bundled tint) when it is not known.
func NewThemeProvider(configured string) *ThemeProvider {
	all := tint.DefaultTints()

	var fallback tint.Tint
	ids := make([]string, 0, len(all))
	for _, t := range all {
		ids = append(ids, t.ID())
		if t.ID() == DefaultTheme {
			fallback = t
		}
	}
	if fallback == nil && len(all) > 0 {
		fallback = all[0]
	}
	sort.Strings(ids)

	tp := &ThemeProvider{registry: tint.NewRegistry(fallback, all...), ids: ids}
	if configured != "" {
		tp.SetTheme(configured)
	}
	return tp
}

// SetTheme switches to the named theme and reports whether it exists.
// Unknown names leave the current theme in place.
func (tp *ThemeProvider) SetTheme(name string) bool {
	return tp.registry.SetTintID(name)
}

// Known reports whether name is a bundled theme id.
func (tp *ThemeProvider) Known(name string) bool {
	i := sort.SearchStrings(tp.ids, name)
	return i < len(tp.ids) && tp.ids[i] == name
}

func (tp *ThemeProvider) CurrentName() string {
	return tp.registry.ID()
}

func (tp *ThemeProvider) CurrentDisplayName() string {
	return tp.registry.DisplayName()
}

// AvailableThemes returns the sorted theme ids.
func (tp *ThemeProvider) AvailableThemes() []string {
	out := make([]string, len(tp.ids))
	copy(out, tp.ids)
	return out
}

func (tp *ThemeProvider) Registry() *tint.Registry {
	return tp.registry
}

// Styles builds the UI styles from the current theme.
func (tp *ThemeProvider) Styles() Styles {
	return NewStylesFromRegistry(tp.registry)
}
