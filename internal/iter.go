// Package internal holds helpers shared by the emulator packages.
package internal

import (
	"iter"
)

// Concat yields every value of each sequence in turn.
func Concat[T any](seqs ...iter.Seq[T]) iter.Seq[T] {
	return func(yield func(T) bool) {
		stopped := false
		for _, seq := range seqs {
			seq(func(val T) bool {
				stopped = !yield(val)
				return !stopped
			})
			if stopped {
				return
			}
		}
	}
}

// Concat2 yields every pair of each sequence in turn.
func Concat2[K any, V any](seqs ...iter.Seq2[K, V]) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		stopped := false
		for _, seq := range seqs {
			seq(func(key K, val V) bool {
				stopped = !yield(key, val)
				return !stopped
			})
			if stopped {
				return
			}
		}
	}
}
