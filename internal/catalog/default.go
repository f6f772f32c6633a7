package catalog

import "github.com/anshumaan69/tenderflow/internal/domain"

func specs(voltage, material, core, insulation string) map[string]string {
	return map[string]string{
		domain.SpecVoltage:    voltage,
		domain.SpecMaterial:   material,
		domain.SpecCore:       core,
		domain.SpecInsulation: insulation,
	}
}

func withRating(s map[string]string, rating string) map[string]string {
	s[domain.SpecRating] = rating
	return s
}

var defaultProducts = []domain.CatalogProduct{
	// HV cables
	{
		ID:          "CBL-HV-001",
		Name:        "11kV XLPE 3-Core Aluminum Cable",
		Category:    domain.CategoryCable,
		Specs:       specs("11kV", "Aluminum", "3-Core", "XLPE"),
		Description: "Heavy duty high voltage power transmission cable, armored.",
		UnitPrice:   1200,
		Unit:        "meter",
	},
	{
		ID:          "CBL-HV-002",
		Name:        "33kV XLPE 3-Core Copper Cable",
		Category:    domain.CategoryCable,
		Specs:       specs("33kV", "Copper", "3-Core", "XLPE"),
		Description: "Premium high voltage cable for industrial substations.",
		UnitPrice:   2500,
		Unit:        "meter",
	},
	{
		ID:          "CBL-HV-003",
		Name:        "11kV PILC 3-Core Lead Sheathed Cable",
		Category:    domain.CategoryCable,
		Specs:       specs("11kV", "Copper", "3-Core", "Paper"),
		Description: "Traditional paper insulated lead covered cable for underground use.",
		UnitPrice:   1800,
		Unit:        "meter",
	},

	// LV cables
	{
		ID:          "CBL-LV-001",
		Name:        "1.1kV PVC 4-Core Aluminum Cable",
		Category:    domain.CategoryCable,
		Specs:       specs("1.1kV", "Aluminum", "4-Core", "PVC"),
		Description: "Standard low voltage distribution cable.",
		UnitPrice:   450,
		Unit:        "meter",
	},
	{
		ID:          "CBL-LV-002",
		Name:        "1.1kV XLPE 4-Core Copper Cable",
		Category:    domain.CategoryCable,
		Specs:       specs("1.1kV", "Copper", "4-Core", "XLPE"),
		Description: "High performance low voltage cable for commercial buildings.",
		UnitPrice:   850,
		Unit:        "meter",
	},
	{
		ID:          "CBL-LV-003",
		Name:        "1.1kV Control Cable 12-Core",
		Category:    domain.CategoryCable,
		Specs:       specs("1.1kV", "Copper", "12-Core", "PVC"),
		Description: "Multi-core control cable for instrumentation.",
		UnitPrice:   250,
		Unit:        "meter",
	},

	// House wires
	{
		ID:          "WIR-Hs-001",
		Name:        "FR House Wire 1.5sqmm",
		Category:    domain.CategoryWire,
		Specs:       specs("1100V", "Copper", "1-Core", "FR-PVC"),
		Description: "Flame retardant house wiring.",
		UnitPrice:   15,
		Unit:        "meter",
	},
	{
		ID:          "WIR-Hs-002",
		Name:        "FRLS House Wire 2.5sqmm",
		Category:    domain.CategoryWire,
		Specs:       specs("1100V", "Copper", "1-Core", "FRLS-PVC"),
		Description: "Flame retardant low smoke wire for high-rises.",
		UnitPrice:   28,
		Unit:        "meter",
	},
	{
		ID:          "WIR-Hs-003",
		Name:        "ZHFR House Wire 4.0sqmm",
		Category:    domain.CategoryWire,
		Specs:       specs("1100V", "Copper", "1-Core", "ZHFR"),
		Description: "Zero halogen flame retardant wire for critical safety.",
		UnitPrice:   45,
		Unit:        "meter",
	},

	// Switchgear
	{
		ID:          "SWG-MCCB-001",
		Name:        "MCCB 100A 3P 25kA",
		Category:    domain.CategorySwitchgear,
		Specs:       withRating(specs("415V", "N/A", "3-Pole", "N/A"), "100A"),
		Description: "Molded case circuit breaker for industrial protection.",
		UnitPrice:   3500,
		Unit:        "unit",
	},
	{
		ID:          "SWG-ACB-001",
		Name:        "ACB 800A 3P Drawout",
		Category:    domain.CategorySwitchgear,
		Specs:       withRating(specs("415V", "N/A", "3-Pole", "N/A"), "800A"),
		Description: "Air circuit breaker for main distribution panels.",
		UnitPrice:   45000,
		Unit:        "unit",
	},

	// Accessories
	{
		ID:          "ACC-LUG-001",
		Name:        "Aluminum Cable Lug 185sqmm",
		Category:    domain.CategoryAccessory,
		Specs:       specs("N/A", "Aluminum", "N/A", "N/A"),
		Description: "Crimping lug for 185sqmm cable.",
		UnitPrice:   45,
		Unit:        "unit",
	},
	{
		ID:          "ACC-GLAND-001",
		Name:        "Double Compression Cable Gland",
		Category:    domain.CategoryAccessory,
		Specs:       specs("N/A", "Brass", "N/A", "N/A"),
		Description: "Heavy duty brass gland for armored cables.",
		UnitPrice:   350,
		Unit:        "unit",
	},
}

var defaultServices = []domain.ServiceDefinition{
	{ID: "TEST-HV", Name: "High Voltage Test", Price: 15000,
		Keywords: []string{"high voltage test", "hv test", "insulation resistance"}},
	{ID: "TEST-ROUTINE", Name: "Routine Test", Price: 5000},
	{ID: "TEST-TYPE", Name: "Type Test", Price: 50000,
		Keywords: []string{"type test", "short circuit test", "impulse test", "temperature rise"}},
	{ID: "INSP-FACTORY", Name: "Factory Acceptance Test", Price: 10000,
		Keywords: []string{"factory acceptance", "fat", "pre-dispatch inspection", "witness test"}},
	{ID: "INSP-SITE", Name: "Site Inspection", Price: 20000,
		Keywords: []string{"site acceptance", "sat", "commissioning support"}},
	{ID: "LOGISTICS", Name: "Standard Shipping", Price: 25000},
	{ID: "COMMISSIONING", Name: "On-site Commissioning", Price: 45000,
		Keywords: []string{"installation and commissioning", "start-up support"}},
}

// Default returns the built-in inventory
func Default() *Catalog {
	c, err := New(defaultProducts, defaultServices)
	if err != nil {
		panic("catalog: invalid built-in inventory: " + err.Error())
	}
	return c
}
