// Package mint provides deterministic identifier construction. When a source
// token is not already a valid absolute URI, a new one is minted from a base
// namespace plus a local name or record key; a random UUID stands in when no
// key is available.
package mint

import (
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// Base namespaces for minted identifiers.
const (
	BaseURI          = "http://data.graphmint.org/"
	DataModelBaseURI = BaseURI + "datamodels/"
	RecordBaseURI    = BaseURI + "records/"
)

const (
	hash  = "#"
	slash = "/"
	at    = "@"
)

// TypeSuffix is appended to a term URI to mint the type of a nested entity.
const TypeSuffix = "Type"

// IsAbsoluteURI reports whether the token parses as an absolute URI with a
// scheme. Parse failures and empty tokens are false, never an error.
func IsAbsoluteURI(token string) bool {
	if token == "" {
		return false
	}

	u, err := url.Parse(token)

	return err == nil && u.IsAbs()
}

// MintTermURI appends localName to baseURI. A base ending in a slash is
// extended directly; any other base joins with a hash separator. Leading
// "#" and "@" markers on the local name are stripped first.
func MintTermURI(baseURI, localName string) string {
	name := strings.TrimPrefix(localName, hash)
	name = strings.TrimPrefix(name, at)

	if strings.HasSuffix(baseURI, slash) {
		return baseURI + name
	}

	return strings.TrimSuffix(baseURI, hash) + hash + name
}

// MintRecordURI returns the identifier for a record root. An externalKey
// that is already an absolute URI is returned unchanged; otherwise the URI
// is built under the data model's record namespace, with a random UUID
// standing in for a missing key. For a fixed non-empty (externalKey,
// dataModelID) pair the result is stable across calls.
func MintRecordURI(externalKey, dataModelID string) string {
	if IsAbsoluteURI(externalKey) {
		return externalKey
	}

	base := RecordBaseURI
	if dataModelID != "" {
		base = DataModelBaseURI + dataModelID + "/records/"
	}

	if externalKey == "" {
		return base + uuid.New().String()
	}

	return base + url.PathEscape(externalKey)
}

// DataModelSchemaURI returns the base namespace for terms minted within the
// given data model's schema.
func DataModelSchemaURI(dataModelID string) string {
	return DataModelBaseURI + dataModelID + "/schema" + hash
}

// DataModelGraphURI returns the graph namespace key under which a data
// model's records are stored.
func DataModelGraphURI(dataModelID string) string {
	return DataModelBaseURI + dataModelID + "/data"
}

// TermName returns the human-readable trailing segment of a URI: everything
// after the last hash, or failing that the last slash. A URI with neither
// separator is returned whole.
func TermName(uri string) string {
	if i := strings.LastIndex(uri, hash); i > 0 && i < len(uri)-1 {
		return uri[i+1:]
	}

	trimmed := strings.TrimSuffix(uri, slash)
	if i := strings.LastIndex(trimmed, slash); i > 0 && i < len(trimmed)-1 {
		return trimmed[i+1:]
	}

	return uri
}
