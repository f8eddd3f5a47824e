// Package harness runs conformance scenarios against the sync engine.
//
// A scenario is a YAML script of user actions (evaluate, toggle a bit,
// select a width) executed against a fresh engine. The harness records
// every broadcast, checks per-step expectations, evaluates assertions on
// the trace and the final state, and can compare the whole run against a
// golden snapshot.
//
// # Scenario Format
//
//	name: toggle_sign_bit
//	description: "Toggling bit 7 of 0x7F flips the sign at 8 bits"
//	mode: hex
//	evaluator:
//	  - expr: "slow"
//	    result: "0x1"
//	steps:
//	  - evaluate: "0x7F"
//	    expect: { value: 127, width: 8, binary: "01111111" }
//	  - toggle: 7
//	    expect: { value: -1, hex: "FF" }
//	  - width: 16
//	  - evaluate: "slow"
//	    hold: true
//	  - evaluate: "0x2"
//	  - release: "slow"
//	    expect: { outcome: superseded }
//	assertions:
//	  - type: trace_contains
//	    message: { value: -1, bitWidth: 8 }
//	  - type: trace_count
//	    count: 4
//	  - type: discarded
//	    count: 1
//	  - type: final_state
//	    expect: { status: ok, value: 2 }
//
// Expressions without a scripted reply go to the real evaluator. A held
// evaluation stays in flight until its release step, which lets a
// scenario overlap requests deterministically.
//
// # Determinism
//
// Request ids come from testutil.SequentialIDs seeded with the scenario
// name, sequence numbers start at 1 for every run, and the trace records
// store revisions rather than wall-clock times. Two runs of one scenario
// produce byte-identical snapshots.
package harness
