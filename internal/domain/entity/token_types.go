package entity

// TokenMetadata is the display information for a denomination on a chain.
type TokenMetadata struct {
	Denom       string `json:"denom"`
	Symbol      string `json:"symbol"`
	Decimals    int    `json:"decimals"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
}

// DenomUnit is one unit of a bank-module denomination.
type DenomUnit struct {
	Denom    string   `json:"denom"`
	Exponent int      `json:"exponent"`
	Aliases  []string `json:"aliases,omitempty"`
}

// DenomMetadata mirrors the bank module's denomination metadata.
type DenomMetadata struct {
	Description string      `json:"description,omitempty"`
	DenomUnits  []DenomUnit `json:"denom_units"`
	Base        string      `json:"base"`
	Display     string      `json:"display"`
	Name        string      `json:"name,omitempty"`
	Symbol      string      `json:"symbol,omitempty"`
}

// Decimals derives the decimal count as the exponent difference between display and base units.
func (m DenomMetadata) Decimals() (int, bool) {
	var base, display *DenomUnit
	for i := range m.DenomUnits {
		if m.DenomUnits[i].Denom == m.Base {
			base = &m.DenomUnits[i]
		}
		if m.DenomUnits[i].Denom == m.Display {
			display = &m.DenomUnits[i]
		}
	}
	if base == nil || display == nil {
		return 0, false
	}
	d := display.Exponent - base.Exponent
	if d < 0 {
		return 0, false
	}
	return d, true
}
