// Package config provides process configuration for the agent MCP servers.
//
// Configuration is read once at startup from command-line flags and the
// environment and is read-only afterwards.
package config

// Family names a downstream backend whose tools a server can expose.
type Family string

const (
	// FamilyLexi is the legal research backend.
	FamilyLexi Family = "lexi"
	// FamilyJuris is the patent search backend.
	FamilyJuris Family = "juris"
	// FamilyFilora is the browser automation backend.
	FamilyFilora Family = "filora"
	// FamilySage is the general chat backend.
	FamilySage Family = "sage"
	// FamilyDonna is the email triage workflow backend.
	FamilyDonna Family = "donna"
)

// AllFamilies lists every family in a stable order.
var AllFamilies = []Family{FamilyLexi, FamilyJuris, FamilyFilora, FamilySage, FamilyDonna}

var familyEnv = map[Family]string{
	FamilyLexi:   "LEXI_BACKEND_URL",
	FamilyJuris:  "JURIS_BACKEND_URL",
	FamilyFilora: "FILORA_BACKEND_URL",
	FamilySage:   "SAGE_BASE_URL",
	FamilyDonna:  "DONNA_BASE_URL",
}

// EnvVar returns the environment variable holding the family's base URL.
func (f Family) EnvVar() string {
	return familyEnv[f]
}
