// Package harness runs metadata scenarios and checks the documents they
// produce.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: entity_overrides
//	description: "Entity overrides win over defaults"
//	backend: sqlite            # memory (default) or sqlite
//	manifest: base.yaml        # optional, relative to the scenario file
//	steps:
//	  - op: set
//	    scope: default
//	    key: name
//	    values: ["Awesome NFT!"]
//	  - op: add
//	    scope: entity
//	    entity: 1
//	    key: image
//	    values: [ipfs://one]
//	    expect_error: KEY_EXISTS
//	documents:
//	  - entity: 1
//	    expect: { name: "Awesome NFT!" }
//	  - contract: true
//	    expect_error: missing required field
//	assertions:
//	  - type: key_count
//	    scope: entity
//	    entity: 1
//	    count: 1
//	  - type: values
//	    entity: 1
//	    key: image
//	    values: [ipfs://one]
//	  - type: event_count
//	    count: 2
//
// Each scenario runs against a fresh backend. Event IDs come from a
// sequence generator so runs are reproducible and golden snapshots are
// stable.
//
// # Golden Files
//
// RunWithGolden writes a snapshot of the step trace and rendered
// documents to testdata/golden/<name>.golden. Regenerate with:
//
//	go test ./internal/harness -update
package harness
