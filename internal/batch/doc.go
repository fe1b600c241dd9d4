// Package batch holds the list of calls queued for the next round trip.
//
// A batch is filled by any number of Add calls and consumed exactly once by
// Take, which hands the calls over and leaves the batch empty. Callers take
// the batch before sending it, so a failed round trip never leaks calls into
// the next one.
package batch
