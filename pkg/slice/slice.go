// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package slice holds the generic projections the ledger's reports are built
from: mapping roster rows into lines, filtering by publisher, bucketing by
role and summing percentages.
*/
package slice

// Map returns transform applied to every element, preserving order.
// A nil input yields nil.
func Map[T any, U any](input []T, transform func(T) U) []U {
	if input == nil {
		return nil
	}

	result := make([]U, len(input))
	for index, value := range input {
		result[index] = transform(value)
	}
	return result
}

// Filter keeps the elements for which predicate holds, preserving order.
func Filter[T any](input []T, predicate func(T) bool) []T {
	var result []T
	for _, value := range input {
		if predicate(value) {
			result = append(result, value)
		}
	}
	return result
}

// Reduce folds input left to right starting from initial.
func Reduce[T any, U any](input []T, initial U, reducer func(accumulator U, current T) U) U {
	result := initial
	for _, value := range input {
		result = reducer(result, value)
	}
	return result
}

// GroupBy buckets input by key. Elements keep their relative order inside
// each bucket.
func GroupBy[T any, K comparable](input []T, key func(T) K) map[K][]T {
	groups := make(map[K][]T)
	for _, value := range input {
		groups[key(value)] = append(groups[key(value)], value)
	}
	return groups
}
