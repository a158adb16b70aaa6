// Package j1939 decodes SAE J1939 frames in candump text form.
//
// It covers three pure operations:
//   - ParseFrame splits "<hex-id>#<hex-payload>" text and decodes the identifier
//   - DecodeIdentifier extracts the 29-bit identifier fields and the PGN
//   - DecodeSignal pulls a scaled SPN value out of payload bytes
//
// None of them keep state, so frames and signals may be decoded from any
// number of goroutines.
package j1939
