// Package fields defines the fixed extraction schema for real estate
// documents and the tolerant parsing and display formatting around it.
package fields

import "github.com/santhosh-tekuri/jsonschema/v5"

// SchemaKeys lists every field the extraction oracle must return, in display
// order. The set is closed: parsing drops unknown keys and fills missing ones
// with the null sentinel.
var SchemaKeys = []string{
	"address",
	"landlord",
	"tenant",
	"lease_start",
	"lease_end",
	"rent",
	"deposit",
	"late_fee",
	"utilities",
	"pet_policy",
	"termination_clause",
	"notes",
}

// Labels maps schema keys to human-readable display labels.
var Labels = map[string]string{
	"address":            "Address",
	"landlord":           "Landlord",
	"tenant":             "Tenant",
	"lease_start":        "Lease Start",
	"lease_end":          "Lease End",
	"rent":               "Rent",
	"deposit":            "Deposit",
	"late_fee":           "Late Fee",
	"utilities":          "Utilities",
	"pet_policy":         "Pet Policy",
	"termination_clause": "Termination Clause",
	"notes":              "Notes",
}

// fieldMapSchema accepts any JSON object whose values are null, scalars,
// arrays of scalars, or one level of nested object. It rejects the shapes the
// formatter cannot render (deeply nested structures) while tolerating
// everything a cooperative model plausibly emits.
const fieldMapSchemaJSON = `{
	"type": "object",
	"additionalProperties": {
		"anyOf": [
			{"type": ["string", "number", "boolean", "null"]},
			{"type": "array", "items": {"type": ["string", "number", "boolean", "null"]}},
			{"type": "object", "additionalProperties": {"type": ["string", "number", "boolean", "null"]}}
		]
	}
}`

var fieldMapSchema = jsonschema.MustCompileString("fieldmap.schema.json", fieldMapSchemaJSON)
