// Package query answers questions over the ingested document store.
//
// The Engine embeds the question, retrieves the top-k most similar
// chunks, renders a grounded prompt, calls the language model, and
// returns the reply together with the chunks it was based on. When the
// context cannot answer the question the model emits a configurable
// sentinel and the answer is flagged NoAnswer.
package query
