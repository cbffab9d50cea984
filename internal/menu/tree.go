package menu

import (
	"storefront-chatkit/internal/domain"
)

// AdminMenu returns the back-office navigation tree. The tree is static
// and shared by reference; callers must treat it as read-only.
func AdminMenu() []domain.MenuItem {
	return []domain.MenuItem{
		{ID: "dashboard", Name: "Dashboard", Path: "/admin"},
		{ID: "products", Name: "Products", SubMenu: []domain.SubMenuItem{
			{ID: "product-list", Name: "All Products", Path: "/admin/products"},
			{ID: "brands", Name: "Brands", Path: "/admin/products/brands"},
			{ID: "categories", Name: "Categories", Path: "/admin/products/categories"},
			{ID: "materials", Name: "Materials", Path: "/admin/products/materials"},
			{ID: "colors", Name: "Colors", Path: "/admin/products/colors"},
			{ID: "sizes", Name: "Sizes", Path: "/admin/products/sizes"},
		}},
		{ID: "discounts", Name: "Discounts", SubMenu: []domain.SubMenuItem{
			{ID: "vouchers", Name: "Vouchers", Path: "/admin/discounts/vouchers"},
			{ID: "promotions", Name: "Promotions", Path: "/admin/discounts/promotions"},
		}},
		{ID: "orders", Name: "Orders", Path: "/admin/orders"},
		{ID: "returns", Name: "Returns", Path: "/admin/returns"},
		{ID: "accounts", Name: "Accounts", Path: "/admin/accounts"},
		{ID: "statistics", Name: "Statistics", Path: "/admin/statistics"},
	}
}
