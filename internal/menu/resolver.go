// Package menu resolves which navigation entries render as active for
// the current route. The resolver is pure: it depends only on the
// current path and the static tree, and is recomputed per navigation.
package menu

import (
	"strings"

	"storefront-chatkit/internal/domain"
)

// rootPath requires an exact match. Prefix matching here would mark the
// dashboard entry active on every back-office route.
const rootPath = "/admin"

// SubItemActive reports whether subs[i] is active for currentPath.
// An entry matches on path equality, or when currentPath is a strict
// descendant of its path. For descendant matches only the most specific
// matching sibling wins, so two nested entries never both highlight.
func SubItemActive(subs []domain.SubMenuItem, i int, currentPath string) bool {
	p := subs[i].Path
	if p == "" {
		return false
	}
	if currentPath == p {
		return true
	}
	if p == rootPath || !strings.HasPrefix(currentPath, p+"/") {
		return false
	}
	for j, other := range subs {
		if j == i || len(other.Path) <= len(p) {
			continue
		}
		if currentPath == other.Path || strings.HasPrefix(currentPath, other.Path+"/") {
			return false
		}
	}
	return true
}

// ItemActive reports whether a top-level entry renders as active: its
// own path matches, or any of its submenu children is active.
func ItemActive(item domain.MenuItem, currentPath string) bool {
	if pathActive(item.Path, currentPath) {
		return true
	}
	for i := range item.SubMenu {
		if SubItemActive(item.SubMenu, i, currentPath) {
			return true
		}
	}
	return false
}

// ActiveIDs resolves the whole tree at once, returning the set of entry
// ids that should highlight for currentPath.
func ActiveIDs(items []domain.MenuItem, currentPath string) map[string]bool {
	active := make(map[string]bool)
	for _, item := range items {
		if ItemActive(item, currentPath) {
			active[item.ID] = true
		}
		for i, sub := range item.SubMenu {
			if SubItemActive(item.SubMenu, i, currentPath) {
				active[sub.ID] = true
			}
		}
	}
	return active
}

func pathActive(p, currentPath string) bool {
	if p == "" {
		return false
	}
	if currentPath == p {
		return true
	}
	if p == rootPath {
		return false
	}
	return strings.HasPrefix(currentPath, p+"/")
}
