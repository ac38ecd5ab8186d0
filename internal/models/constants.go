package models

// Category names of the built-in catalog.
const (
	CategoryHousing       = "Housing"
	CategoryFoodDining    = "Food & Dining"
	CategoryGroceries     = "Groceries"
	CategoryTransport     = "Transportation"
	CategoryShopping      = "Shopping"
	CategorySubscriptions = "Subscriptions & Entertainment"
	CategoryTravel        = "Travel"
	CategoryUtilities     = "Utilities & Bills"
	CategoryHealthcare    = "Healthcare"
	CategoryDonations     = "Donations & Memberships"
	CategoryTransfers     = "Transfers & Payments"
	CategoryIncome        = "Income"

	// CategoryNeedsReview is the sentinel returned when no rule matched.
	// It is not part of the catalog and cannot be taught.
	CategoryNeedsReview = "Needs Review"

	// CategoryOther collects the tail of a category breakdown.
	CategoryOther = "Other"
)

// Colour tags used for display.
const (
	ColorNeedsReview = "#9CA3AF"
	ColorOther       = "#6B7280"
)

// File permissions
const (
	PermissionConfigFile = 0600
	PermissionDirectory  = 0750
	PermissionReportFile = 0644
)
