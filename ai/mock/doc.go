// Package mock provides test doubles for the ai service interfaces.
// Defaults are deterministic so tests are repeatable without external
// services; behavior can be overridden per test via function fields.
package mock
