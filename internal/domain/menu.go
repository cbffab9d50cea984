package domain

// SubMenuItem is a second-level navigation entry.
type SubMenuItem struct {
	ID   string
	Name string
	Path string
}

// MenuItem is a top-level navigation entry. An item without a SubMenu
// is a leaf; paths must be unique across the whole tree.
type MenuItem struct {
	ID      string
	Name    string
	Path    string
	SubMenu []SubMenuItem
}
