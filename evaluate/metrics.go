// Copyright 2026 Crenna Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package evaluate

import "math"

// Retrieval metrics over a ranked list of retrieved source labels and a
// set of expected labels. All metrics are in [0,1] and never NaN:
// degenerate inputs (k < 1, nothing expected, nothing retrieved) score
// zero.

// PrecisionAtK is the fraction of the top min(k, len(retrieved))
// results that are relevant.
func PrecisionAtK(retrieved []string, expected map[string]bool, k int) float64 {
	if k < 1 || len(expected) == 0 || len(retrieved) == 0 {
		return 0
	}
	if k > len(retrieved) {
		k = len(retrieved)
	}
	hits := 0
	for _, source := range retrieved[:k] {
		if expected[source] {
			hits++
		}
	}
	return float64(hits) / float64(k)
}

// RecallAtK is the fraction of expected sources found in the top k
// results.
func RecallAtK(retrieved []string, expected map[string]bool, k int) float64 {
	if k < 1 || len(expected) == 0 || len(retrieved) == 0 {
		return 0
	}
	if k > len(retrieved) {
		k = len(retrieved)
	}
	found := make(map[string]bool)
	for _, source := range retrieved[:k] {
		if expected[source] {
			found[source] = true
		}
	}
	return float64(len(found)) / float64(len(expected))
}

// NDCGAtK is the normalized discounted cumulative gain at rank k, with
// binary relevance. The ideal DCG places all relevant sources first.
func NDCGAtK(retrieved []string, expected map[string]bool, k int) float64 {
	if k < 1 || len(expected) == 0 || len(retrieved) == 0 {
		return 0
	}
	if k > len(retrieved) {
		k = len(retrieved)
	}

	var dcg float64
	for i, source := range retrieved[:k] {
		if expected[source] {
			dcg += 1 / math.Log2(float64(i)+2)
		}
	}

	ideal := len(expected)
	if ideal > k {
		ideal = k
	}
	var idcg float64
	for i := 0; i < ideal; i++ {
		idcg += 1 / math.Log2(float64(i)+2)
	}

	if idcg == 0 {
		return 0
	}
	return dcg / idcg
}
