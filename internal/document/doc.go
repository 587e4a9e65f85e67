// Package document assembles entity and contract metadata documents and
// packages them as base64 data URIs.
//
// A Builder produces the JSON text of a document; EntityURI and ContractURI
// wrap any Builder's output in the wire form
//
//	data:application/json;charset=utf-8;base64,<payload>
//
// StandardBuilder is the default schema. Callers who need different field
// ordering or extra members supply their own Builder, typically by embedding
// StandardBuilder and replacing one method.
//
// Builders only read. A failed build returns an error and no document.
package document
