package generator

import "order-analytics/internal/domain"

type product struct {
	Name string
	SKU  string
}

var catalog = map[domain.ProductCategory][]product{
	domain.CategorySofa: {
		{Name: "Jasper Modular Sofa", SKU: "KL-JMS-001"},
		{Name: "Felix Corner Lounge", SKU: "KL-FCL-002"},
		{Name: "Delta Modular System", SKU: "KL-DMS-003"},
		{Name: "Zara Sectional", SKU: "KL-ZS-004"},
	},
	domain.CategoryBed: {
		{Name: "Tivoli Bed Frame", SKU: "KL-TBF-101"},
		{Name: "Milano Storage Bed", SKU: "KL-MSB-102"},
		{Name: "Capri Platform Bed", SKU: "KL-CPB-103"},
	},
	domain.CategoryChair: {
		{Name: "Luxe Recliner", SKU: "KL-LR-201"},
		{Name: "Swivel Armchair", SKU: "KL-SA-202"},
		{Name: "Dining Chair Set", SKU: "KL-DCS-203"},
	},
	domain.CategoryTable: {
		{Name: "Marble Dining Table", SKU: "KL-MDT-301"},
		{Name: "Glass Coffee Table", SKU: "KL-GCT-302"},
		{Name: "Oak Side Table", SKU: "KL-OST-303"},
	},
	domain.CategoryAccessory: {
		{Name: "Luxury Cushion Set", SKU: "KL-LCS-401"},
		{Name: "Throw Blanket", SKU: "KL-TB-402"},
		{Name: "Floor Lamp", SKU: "KL-FL-403"},
	},
	domain.CategoryStorage: {
		{Name: "Modular Shelving", SKU: "KL-MS-501"},
		{Name: "Entertainment Unit", SKU: "KL-EU-502"},
		{Name: "Wardrobe System", SKU: "KL-WS-503"},
	},
}

type regionProfile struct {
	Countries []string
	Cities    []string
}

var regionProfiles = map[domain.Region]regionProfile{
	domain.RegionAPAC: {
		Countries: []string{"Australia", "New Zealand", "Singapore", "Hong Kong"},
		Cities:    []string{"Sydney", "Melbourne", "Auckland", "Singapore", "Hong Kong"},
	},
	domain.RegionUK: {
		Countries: []string{"United Kingdom"},
		Cities:    []string{"London", "Manchester", "Birmingham", "Edinburgh", "Bristol"},
	},
	domain.RegionUS: {
		Countries: []string{"United States"},
		Cities:    []string{"New York", "Los Angeles", "Chicago", "Houston", "Phoenix"},
	},
}

var (
	colors          = []string{"Charcoal", "Cream", "Navy", "Taupe", "Black", "White"}
	materials       = []string{"Leather", "Fabric", "Velvet", "Linen"}
	sofaLayouts     = []string{"2-Seater", "3-Seater", "Corner", "Modular"}
	cushionFirmness = []string{"Soft", "Medium", "Firm"}
	armStyles       = []string{"Low", "High", "Curved", "Square"}
	bedSizes        = []string{"Queen", "King", "Super King"}
	headboards      = []string{"Upholstered", "Wooden", "Metal"}
	warrantyStates  = []string{"Active", "Expired", "Pending"}

	orderNotes = []string{
		"Customer requested delivery after 5pm.",
		"Leave with building concierge if nobody is home.",
		"Fabric swatch approved over the phone.",
		"Stairs access only, two-person delivery required.",
		"Gift order, do not include the invoice in the box.",
		"Customer asked for a call one day before delivery.",
		"Replacement for a damaged item from a previous order.",
	}
)
