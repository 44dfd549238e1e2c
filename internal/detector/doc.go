// Package detector talks to the external detection service that proposes
// candidate sensitive regions for an image.
//
// The service receives a base64-encoded image and an instruction to find
// PII-like regions (faces, names, phone numbers, emails, addresses, card
// numbers, IDs, signatures, stamps, passwords) and returns an ordered
// list of labeled boxes on a normalized 0-1000 grid.
//
// A malformed response — wrong box_2d arity, missing fields, a non-JSON
// body — is a hard failure of the whole call. Callers never receive a
// partially valid detection list, so the session's working list is either
// replaced wholesale or left untouched.
//
// Detection accuracy, prompting, and model choice are the service's
// concern; this package only implements the wire contract.
package detector
