// Package model defines the core data structures used throughout
// the exif-batch application.
//
// # TagValue
//
// TagValue is a tagged union over the value kinds a metadata tag can
// carry. Construct values with the kind-specific constructors:
//
//	v := model.Text("Alice")
//	v := model.Integer(400)
//	v := model.Rational(1, 250)
//	v := model.Raw([]byte{0x01, 0x02})
//
// # Outcome
//
// Outcome captures the result of one operation on one file. The engine
// aggregates Outcomes in input order; a failed file yields an Outcome
// with Err set rather than aborting the batch.
//
// # Operation
//
// Operation is the closed set {extract, modify, delete}. Use
// ParseOperation to map user input onto it:
//
//	op, ok := model.ParseOperation("Extract")
//	// op == model.OpExtract, ok == true
package model
