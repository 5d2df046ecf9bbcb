// Package canon encodes dynamic values as canonical JSON and derives
// content-addressed identifiers from that encoding.
//
// The harness compares expected and actual results by canonical bytes, and
// the run store keys evaluations by EvaluationID, so the encoding must be
// deterministic: map iteration order, Unicode normalization form and float
// formatting never leak into the output.
package canon
