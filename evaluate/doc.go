// Package evaluate measures retrieval and answer quality over a set of
// (question, expected sources) samples.
//
// Retrieval mode embeds each question, retrieves the nearest chunks,
// and computes precision, recall, and nDCG at each configured rank.
// Answer-quality mode additionally generates an answer per question,
// has a judge model score its relevance, and records wall-clock
// latency. Every run is logged to a tracking service and frozen when
// complete.
package evaluate
