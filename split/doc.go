// Package split cuts documents into overlapping word-window chunks for
// embedding and retrieval.
package split
