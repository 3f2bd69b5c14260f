package resolver

// RootHint is one entry of the 13-server DNS root hint file.
type RootHint struct {
	Letter string
	IPv4   string
}

// RootHints lists the well-known root server IPv4 addresses. Resolve
// always starts from RootHints[0].IPv4 (198.41.0.4), matching the
// original program's single hardcoded seed; the rest of the table exists
// so a caller building on top of Resolve has somewhere to round-robin or
// fail over to, without this package deciding that policy itself.
var RootHints = []RootHint{
	{Letter: "a", IPv4: "198.41.0.4"},
	{Letter: "b", IPv4: "199.9.14.201"},
	{Letter: "c", IPv4: "192.33.4.12"},
	{Letter: "d", IPv4: "199.7.91.13"},
	{Letter: "e", IPv4: "192.203.230.10"},
	{Letter: "f", IPv4: "192.5.5.241"},
	{Letter: "g", IPv4: "192.112.36.4"},
	{Letter: "h", IPv4: "198.97.190.53"},
	{Letter: "i", IPv4: "192.36.148.17"},
	{Letter: "j", IPv4: "192.58.128.30"},
	{Letter: "k", IPv4: "193.0.14.129"},
	{Letter: "l", IPv4: "199.7.83.42"},
	{Letter: "m", IPv4: "202.12.27.33"},
}

// defaultRootServer is the seed address Resolve queries first, matching
// RootHints[0].IPv4.
const defaultRootServer = "198.41.0.4"
