package domain

// Category groups catalog products by kind
type Category string

const (
	CategoryCable      Category = "Cable"
	CategoryWire       Category = "Wire"
	CategorySwitchgear Category = "Switchgear"
	CategoryAccessory  Category = "Accessory"
)

// Valid reports whether c is one of the known categories
func (c Category) Valid() bool {
	switch c {
	case CategoryCable, CategoryWire, CategorySwitchgear, CategoryAccessory:
		return true
	}
	return false
}

// Spec attribute names shared by requirements and catalog products
const (
	SpecVoltage    = "voltage"
	SpecMaterial   = "material"
	SpecCore       = "core"
	SpecInsulation = "insulation"
	SpecRating     = "rating"
	SpecType       = "type"
)

// CatalogProduct is an inventory item that requirements are matched against.
// Products are loaded once at startup and never mutated.
type CatalogProduct struct {
	ID          string            `json:"id" yaml:"id"`
	Name        string            `json:"name" yaml:"name"`
	Category    Category          `json:"category" yaml:"category"`
	Specs       map[string]string `json:"specs" yaml:"specs"`
	Description string            `json:"description" yaml:"description"`
	UnitPrice   int64             `json:"unitPrice" yaml:"unit_price"`
	Unit        string            `json:"unit,omitempty" yaml:"unit"` // e.g. "meter", "unit"
}

// ServiceDefinition is a flat-priced service triggered by keywords in the RFP
type ServiceDefinition struct {
	ID       string   `json:"id" yaml:"id"`
	Name     string   `json:"name" yaml:"name"`
	Price    int64    `json:"price" yaml:"price"`
	Keywords []string `json:"keywords" yaml:"keywords"` // lowercase substrings
}

// Requirement is one requested line item after normalization of the model output
type Requirement struct {
	Index    int               `json:"index"` // ordinal in the extracted list
	Name     string            `json:"name"`
	Quantity int               `json:"quantity"`
	Specs    map[string]string `json:"specs"`
}

// MatchCandidate pairs a catalog product with its compatibility score (0-100)
type MatchCandidate struct {
	Product CatalogProduct
	Score   float64
}

// Alternative is a ranked candidate kept on the line item for explainability
type Alternative struct {
	ID    string            `json:"id"`
	Name  string            `json:"name"`
	Score float64           `json:"score"`
	Specs map[string]string `json:"specs"`
}

// DroppedRequirement records an extracted entry that could not be used
type DroppedRequirement struct {
	Index  int    `json:"index"`
	Name   string `json:"name,omitempty"`
	Reason string `json:"reason"`
}

// Extraction is the guaranteed-shape result of normalizing raw model output
type Extraction struct {
	Company             string               `json:"company"`
	Requirements        []Requirement        `json:"requirements"`
	TestingRequirements []string             `json:"testingRequirements"`
	Dropped             []DroppedRequirement `json:"dropped,omitempty"`
}
