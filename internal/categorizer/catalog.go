package categorizer

import (
	"strings"

	"fjacquet/spendscope/internal/models"
)

// catalog is the ordered category catalog. The first category with a keyword
// hit wins, so order is significant: delivery apps must resolve to Food &
// Dining before Transportation sees "uber".
var catalog = []models.CategoryDefinition{
	{
		Name:  models.CategoryHousing,
		Color: "#8B5CF6",
		Keywords: []string{
			"mortgage", "pennymac", "rent payment", "apartments", "property mgmt",
			"property management", "landlord", "hoa dues", "homeowners assoc",
		},
	},
	{
		Name:  models.CategoryFoodDining,
		Color: "#F97316",
		Keywords: []string{
			"uber eats", "ubereats", "doordash", "grubhub", "postmates", "seamless",
			"restaurant", "cafe", "coffee", "starbucks", "dunkin", "mcdonald",
			"chipotle", "pizza", "burger", "taco bell", "wendy's", "chick-fil-a",
			"panera", "diner", "bistro", "grill", "sushi", "bakery",
		},
	},
	{
		Name:  models.CategoryGroceries,
		Color: "#22C55E",
		Keywords: []string{
			"whole foods", "trader joe", "safeway", "kroger", "aldi", "publix",
			"wegmans", "costco", "sam's club", "h-e-b", "food lion", "sprouts",
			"grocery", "supermarket", "instacart", "market basket",
		},
	},
	{
		Name:  models.CategoryTransport,
		Color: "#3B82F6",
		Keywords: []string{
			"uber", "lyft", "shell oil", "shell service", "chevron", "exxon",
			"texaco", "sunoco", "speedway", "valero", "gas station", "fuel",
			"parking", "e-zpass", "ezpass", "metro transit", "clipper card", "dmv",
			"jiffy lube", "auto repair", "car wash",
		},
	},
	{
		Name:  models.CategoryShopping,
		Color: "#EC4899",
		Keywords: []string{
			"target", "walmart", "best buy", "ebay", "etsy", "ikea", "home depot",
			"lowe's", "lowes", "macy's", "nordstrom", "tj maxx", "marshalls",
			"old navy", "nike", "apple store", "wayfair", "kohl's", "dollar tree",
		},
	},
	{
		Name:  models.CategorySubscriptions,
		Color: "#A855F7",
		Keywords: []string{
			"netflix", "spotify", "hulu", "disney+", "disney plus", "hbo max",
			"paramount+", "peacock", "youtube premium", "amazon prime", "prime video",
			"audible", "kindle", "apple music", "pandora", "siriusxm", "xbox",
			"playstation", "nintendo", "steam games", "amc theatres", "cinema",
			"ticketmaster", "patreon", "adobe", "dropbox", "icloud", "openai",
			"chatgpt", "nytimes",
		},
	},
	{
		Name:  models.CategoryTravel,
		Color: "#06B6D4",
		Keywords: []string{
			"airbnb", "vrbo", "expedia", "booking.com", "hotels.com", "marriott",
			"hilton", "hyatt", "delta air", "united airlines", "american airlines",
			"southwest air", "jetblue", "alaska air", "airline", "hotel", "amtrak",
			"hertz", "avis rent", "enterprise rent",
		},
	},
	{
		Name:  models.CategoryUtilities,
		Color: "#EAB308",
		Keywords: []string{
			"electric", "pg&e", "con edison", "duke energy", "power co", "energy",
			"water dept", "water bill", "city water", "comcast", "xfinity",
			"spectrum", "verizon", "at&t", "t-mobile", "internet", "utility",
			"utilities", "waste management", "insurance", "geico", "state farm",
			"progressive", "allstate",
		},
	},
	{
		Name:  models.CategoryHealthcare,
		Color: "#EF4444",
		Keywords: []string{
			"pharmacy", "cvs", "walgreens", "rite aid", "hospital", "clinic",
			"medical", "dental", "dentist", "doctor", "optometr", "eye care",
			"kaiser", "labcorp", "quest diagnostics", "urgent care", "therapy",
		},
	},
	{
		Name:  models.CategoryDonations,
		Color: "#14B8A6",
		Keywords: []string{
			"donation", "charity", "red cross", "unicef", "salvation army",
			"goodwill", "church", "tithe", "gofundme", "wikimedia", "membership",
			"planet fitness", "ymca", "fitness", "gym",
		},
	},
	{
		Name:  models.CategoryTransfers,
		Color: "#64748B",
		Keywords: []string{
			"transfer", "zelle", "venmo", "paypal", "cash app", "payment thank you",
			"autopay", "credit card payment", "online pmt", "bill pay",
			"wire transfer", "loan payment",
		},
	},
	{
		Name:  models.CategoryIncome,
		Color: "#10B981",
		Keywords: []string{
			"payroll", "direct dep", "salary", "paycheck", "interest paid",
			"dividend", "tax refund", "irs treas", "reimbursement", "deposit",
		},
	},
}

var catalogIndex = func() map[string]int {
	idx := make(map[string]int, len(catalog))
	for i, def := range catalog {
		idx[strings.ToLower(def.Name)] = i
	}
	return idx
}()

// Catalog returns a copy of the category catalog in match order.
func Catalog() []models.CategoryDefinition {
	out := make([]models.CategoryDefinition, len(catalog))
	for i, def := range catalog {
		def.Keywords = append([]string(nil), def.Keywords...)
		out[i] = def
	}
	return out
}

// Lookup finds a catalog category by name, ignoring case.
func Lookup(name string) (models.CategoryDefinition, bool) {
	i, ok := catalogIndex[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return models.CategoryDefinition{}, false
	}
	return catalog[i], true
}

// CategoryFor returns the display category for name. Names outside the
// catalog keep their name and get the neutral colour.
func CategoryFor(name string) models.Category {
	if name == "" || strings.EqualFold(name, models.CategoryNeedsReview) {
		return NeedsReview()
	}
	if def, ok := Lookup(name); ok {
		return def.Category()
	}
	return models.Category{Name: name, Color: models.ColorOther}
}

// NeedsReview returns the sentinel category.
func NeedsReview() models.Category {
	return models.Category{Name: models.CategoryNeedsReview, Color: models.ColorNeedsReview}
}

// TeachableCategories lists the categories a user may assign to a pattern.
// The Needs Review sentinel is not one of them.
func TeachableCategories() []string {
	names := make([]string, len(catalog))
	for i, def := range catalog {
		names[i] = def.Name
	}
	return names
}

// CanonicalTeachable resolves a user-typed category name to its catalog
// spelling. It reports false for unknown names and for Needs Review.
func CanonicalTeachable(name string) (string, bool) {
	def, ok := Lookup(name)
	if !ok {
		return "", false
	}
	return def.Name, true
}
