// Package manifest loads metadata from YAML files into a metadata backend.
//
// A manifest has three optional sections mirroring the storage tiers:
//
//	contract:
//	  name: My Collection
//	  description: Everything we made
//	defaults:
//	  name: Awesome NFT!
//	  trait_type: [Mood, Level]
//	  trait_value: [Sad, "3"]
//	entities:
//	  7:
//	    description: The seventh one
//
// Each field value is a scalar or a list of scalars. Scalars are stored
// as their literal YAML text, so 3 and "3" are the same value.
package manifest
