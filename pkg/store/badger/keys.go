package badger

// Key namespace:
//
// Data Type     Prefix    Key Format        Value
// ==================================================================
// Services      "svc:"    svc:<name>        services.Desc (JSON)
// Credentials   "auth:"   auth:<name>       mountcmd.Credential (JSON)
//
// Service names are DNS labels, so they never contain the ':' separator.
// Badger iterates keys in byte order, which lists services sorted by name.

const (
	prefixService    = "svc:"
	prefixCredential = "auth:"
)

func keyService(name string) []byte {
	return []byte(prefixService + name)
}

func keyCredential(name string) []byte {
	return []byte(prefixCredential + name)
}
