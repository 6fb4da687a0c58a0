package models

import (
	"encoding/json"
	"fmt"
)

// legacyAliases maps snake_case keys sent by older clients to their camelCase names.
var legacyAliases = map[string]string{
	"legal_business_name": "legalBusinessName",
	"contact_name":        "contactName",
	"contact_email":       "contactEmail",
	"contact_phone":       "contactPhone",
	"contact_title":       "contactTitle",
	"business_address":    "businessAddress",
	"city_state_zip":      "cityStateZip",
	"additional_info":     "additionalInfo",
	"federal_tax_id":      "federalTaxId",
	"contractor_license":  "contractorLicense",
	"years_in_business":   "yearsInBusiness",
}

// LegacyAliases returns a copy of the snake_case to camelCase key mapping.
func LegacyAliases() map[string]string {
	out := make(map[string]string, len(legacyAliases))
	for k, v := range legacyAliases {
		out[k] = v
	}
	return out
}

// UnmarshalJSON decodes camelCase keys and fills gaps from snake_case aliases.
func (a *Application) UnmarshalJSON(data []byte) error {
	type plain Application
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	app := Application(p)
	for snake, camel := range legacyAliases {
		if _, ok := raw[camel]; ok {
			continue
		}
		value, ok := raw[snake]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(value, &s); err != nil {
			return fmt.Errorf("%s: %w", snake, err)
		}
		field, _ := app.Field(camel)
		*field = s
	}

	*a = app
	return nil
}
