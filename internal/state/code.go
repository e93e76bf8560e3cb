package state

import (
	"fmt"
	"strings"
)

// Code is a two-letter USPS state code. The set is closed: ParseCode rejects
// anything that is not one of the 50 states or DC. Whether a code has a tax
// module is a separate question answered by the registry.
type Code string

const (
	AL Code = "AL"
	AK Code = "AK"
	AZ Code = "AZ"
	AR Code = "AR"
	CA Code = "CA"
	CO Code = "CO"
	CT Code = "CT"
	DE Code = "DE"
	DC Code = "DC"
	FL Code = "FL"
	GA Code = "GA"
	HI Code = "HI"
	ID Code = "ID"
	IL Code = "IL"
	IN Code = "IN"
	IA Code = "IA"
	KS Code = "KS"
	KY Code = "KY"
	LA Code = "LA"
	ME Code = "ME"
	MD Code = "MD"
	MA Code = "MA"
	MI Code = "MI"
	MN Code = "MN"
	MS Code = "MS"
	MO Code = "MO"
	MT Code = "MT"
	NE Code = "NE"
	NV Code = "NV"
	NH Code = "NH"
	NJ Code = "NJ"
	NM Code = "NM"
	NY Code = "NY"
	NC Code = "NC"
	ND Code = "ND"
	OH Code = "OH"
	OK Code = "OK"
	OR Code = "OR"
	PA Code = "PA"
	RI Code = "RI"
	SC Code = "SC"
	SD Code = "SD"
	TN Code = "TN"
	TX Code = "TX"
	UT Code = "UT"
	VT Code = "VT"
	VA Code = "VA"
	WA Code = "WA"
	WV Code = "WV"
	WI Code = "WI"
	WY Code = "WY"
)

var names = map[Code]string{
	AL: "Alabama", AK: "Alaska", AZ: "Arizona", AR: "Arkansas", CA: "California",
	CO: "Colorado", CT: "Connecticut", DE: "Delaware", DC: "District of Columbia", FL: "Florida",
	GA: "Georgia", HI: "Hawaii", ID: "Idaho", IL: "Illinois", IN: "Indiana",
	IA: "Iowa", KS: "Kansas", KY: "Kentucky", LA: "Louisiana", ME: "Maine",
	MD: "Maryland", MA: "Massachusetts", MI: "Michigan", MN: "Minnesota", MS: "Mississippi",
	MO: "Missouri", MT: "Montana", NE: "Nebraska", NV: "Nevada", NH: "New Hampshire",
	NJ: "New Jersey", NM: "New Mexico", NY: "New York", NC: "North Carolina", ND: "North Dakota",
	OH: "Ohio", OK: "Oklahoma", OR: "Oregon", PA: "Pennsylvania", RI: "Rhode Island",
	SC: "South Carolina", SD: "South Dakota", TN: "Tennessee", TX: "Texas", UT: "Utah",
	VT: "Vermont", VA: "Virginia", WA: "Washington", WV: "West Virginia", WI: "Wisconsin",
	WY: "Wyoming",
}

// ParseCode normalizes raw and rejects anything outside the USPS set.
func ParseCode(raw string) (Code, error) {
	c := Code(strings.ToUpper(strings.TrimSpace(raw)))
	if !c.Valid() {
		return "", fmt.Errorf("invalid state code %q", raw)
	}
	return c, nil
}

// Valid reports whether c is a USPS state code.
func (c Code) Valid() bool {
	_, ok := names[c]
	return ok
}

// Name is the state's full name, or the code itself when unknown.
func (c Code) Name() string {
	if n, ok := names[c]; ok {
		return n
	}
	return string(c)
}

// prefix is the trace node namespace for the state.
func (c Code) prefix() string { return strings.ToLower(string(c)) }
