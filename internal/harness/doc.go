// Package harness runs question corpora against the engine and checks the
// generated SOQL.
//
// # Suite Format
//
// Suites are YAML files with the following structure:
//
//	name: reference
//	description: "What this suite covers"
//	schema: schemas/support.cue      # optional, relative to the suite file
//	options:                         # optional engine options
//	  default_object: Account
//	  max_hops: 5
//	  conversion_policy: subject
//	  default_quantity: 1
//	cases:
//	  - name: explicit fields
//	    question: "Show me the ID and name of all accounts."
//	    expect: "SELECT Id, Name FROM Account"
//	    diagnostics: []
//	  - name: dropped relationship
//	    question: "leads and cases"
//	    object: Lead
//	    contains: ["FROM Lead"]
//	    not_contains: ["Case"]
//	    diagnostics: [RELATIONSHIP_NOT_FOUND]
//
// Unknown keys are rejected so typos fail loudly.
//
// # Checks
//
//   - expect: the query must match exactly
//   - contains / not_contains: substrings that must (not) appear
//   - object: the root object of the query
//   - diagnostics: the exact diagnostic codes, in order. Omit the key to
//     skip the check; an empty list asserts a clean generation.
//
// # Deterministic Runs
//
// Every run uses a fresh engine with sequential request IDs
// (testutil.SequentialIDs) and a resettable logical clock
// (testutil.DeterministicClock), so the same suite renders byte-identical
// output. RunWithGolden compares that output with testdata/golden.
//
// # Usage
//
//	suite, err := harness.LoadSuite("testdata/scenarios/reference.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(suite)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !result.Pass {
//	    os.Stdout.Write(harness.Render(result))
//	}
package harness
