// SPDX-License-Identifier: Apache-2.0

// Package bulk groups documents by target index and splits them into size
// bounded batches, one bulk request each.
package bulk

// Message is an item that can be batched by size.
type Message interface {
	// Size is the estimated number of bytes of the message.
	Size() int
}

// Batch is an ordered sequence of messages with their running total size.
type Batch[T any] struct {
	messages   []T
	totalBytes int
}

func NewBatch[T any](messages []T, totalBytes int) *Batch[T] {
	return &Batch[T]{
		messages:   messages,
		totalBytes: totalBytes,
	}
}

func (b *Batch[T]) GetMessages() []T {
	return b.messages
}

func (b *Batch[T]) TotalBytes() int {
	return b.totalBytes
}

func (b *Batch[T]) Len() int {
	return len(b.messages)
}

func (b *Batch[T]) add(msg T, size int) {
	b.messages = append(b.messages, msg)
	b.totalBytes += size
}

func (b *Batch[T]) drain() *Batch[T] {
	batch := &Batch[T]{
		messages:   b.messages,
		totalBytes: b.totalBytes,
	}

	b.messages = []T{}
	b.totalBytes = 0
	return batch
}

func (b *Batch[T]) isEmpty() bool {
	return len(b.messages) == 0
}

func (b *Batch[T]) maxBatchBytesReached(maxBatchBytes int64, size int) bool {
	return maxBatchBytes > 0 && int64(b.totalBytes+size) >= maxBatchBytes
}

// BatchBySize splits the messages into batches whose running size stays
// below maxBytes. See BatchBySizeFunc.
func BatchBySize[T Message](msgs []T, maxBytes int64) []*Batch[T] {
	return BatchBySizeFunc(msgs, maxBytes, func(m T) int { return m.Size() })
}

// BatchBySizeFunc splits the messages into batches in a single greedy pass.
// The running batch is closed before a message that would take its size to
// maxBytes or more, and that message starts the next batch. A message is never
// split, so a single message bigger than maxBytes is sent on its own. Input
// order is preserved and closed batches are never reopened. A maxBytes of
// zero or less disables the limit.
func BatchBySizeFunc[T any](msgs []T, maxBytes int64, sizeFn func(T) int) []*Batch[T] {
	batches := []*Batch[T]{}
	current := &Batch[T]{}
	for _, msg := range msgs {
		size := sizeFn(msg)
		if !current.isEmpty() && current.maxBatchBytesReached(maxBytes, size) {
			batches = append(batches, current.drain())
		}
		current.add(msg, size)
	}
	if !current.isEmpty() {
		batches = append(batches, current.drain())
	}
	return batches
}
