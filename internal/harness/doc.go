// Package harness replays recorded export event streams.
//
// An event stream is a YAML file listing the events a document walker
// would send, in order. Replaying it drives a builder.EventSink exactly as
// the walker does, which makes the whole export pipeline testable without
// an authoring tool.
//
// # Scenario Format
//
//	name: triangle
//	description: "One red triangle on the stage"
//	tweens: false
//	events:
//	  - event: start_document
//	    background: {r: 255, a: 255}
//	    width: 480
//	    height: 800
//	    fps: 24
//	  - event: start_shape
//	    id: 1
//	  - event: start_fill
//	  - event: solid_fill
//	    color: {r: 255, a: 255}
//	  - event: start_boundary
//	  - event: line
//	    from: {x: 0, y: 0}
//	    to: {x: 10, y: 0}
//	  - event: end_boundary
//	  - event: end_fill
//	  - event: end_shape
//	    id: 1
//	  - event: start_timeline
//	  - event: place
//	    kind: shape
//	    object_id: 1
//	    place: {asset_id: 1}
//	  - event: show_frame
//	  - event: end_timeline
//	    id: 0
//	  - event: end_document
//	assertions:
//	  - type: shape_count
//	    count: 1
//
// Unknown keys are rejected so typos surface as load errors. An omitted
// transform means the identity transform.
//
// # Assertion Types
//
//   - error: the replay fails with the given code
//   - shape_count, timeline_count, tween_count: section sizes
//   - timeline_names: timeline names in document order
//   - frame_count: frames of the named timeline
//   - asset_count: exported bitmaps and sounds
//
// # Deterministic Testing
//
// Replays write into a caller-supplied folder with a fake asset exporter,
// so identical streams produce byte-identical documents for golden
// comparison.
package harness
