// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package task

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/zeebo/blake3"

	"github.com/bureau-foundation/tasktracker/lib/clock"
	"github.com/bureau-foundation/tasktracker/lib/codec"
)

// DefaultKey is the storage key the task list lives under. It matches
// the local storage key used by the browser tracker.
const DefaultKey = "tasks"

// Backend is durable key/value storage holding the serialized list.
// [localstore.Store] is the production implementation.
type Backend interface {
	// Get returns the value stored under key. found is false when the
	// key has never been written.
	Get(key string) (data []byte, found bool, err error)

	// Set replaces the value stored under key. The write must be
	// durable when Set returns.
	Set(key string, data []byte) error
}

// Format selects the on-disk encoding of the task list.
type Format string

const (
	// FormatJSON stores a JSON array, the shape the browser tracker
	// used. This is the default.
	FormatJSON Format = "json"
	// FormatCBOR stores a deterministic CBOR array with the same keys.
	FormatCBOR Format = "cbor"
)

// ParseFormat parses a storage format name. The empty string selects
// FormatJSON.
func ParseFormat(name string) (Format, error) {
	switch name {
	case "", string(FormatJSON):
		return FormatJSON, nil
	case string(FormatCBOR):
		return FormatCBOR, nil
	default:
		return "", fmt.Errorf("unknown storage format %q (want json or cbor)", name)
	}
}

// EventKind says what happened to a task.
type EventKind string

const (
	// EventPut is a created or changed task.
	EventPut EventKind = "put"
	// EventRemove is a deleted task.
	EventRemove EventKind = "remove"
)

// Event describes one change to the list, delivered on the channels
// returned by [Store.Subscribe]. For EventRemove, Task holds the task
// as it was before removal.
type Event struct {
	ID   int64
	Kind EventKind
	Task Task
}

// Options configures [Open].
type Options struct {
	// Backend holds the serialized list. Required.
	Backend Backend

	// Key is the storage key. Defaults to [DefaultKey].
	Key string

	// Format is the storage encoding. Defaults to [FormatJSON].
	Format Format

	// Clock stamps new ids. Defaults to the real clock.
	Clock clock.Clock

	// Logger receives load, seed, and reload records. Required.
	Logger *slog.Logger

	// SkipSamples leaves an empty store empty instead of seeding the
	// sample tasks.
	SkipSamples bool

	// DiscardMalformed opens with an empty list when the stored data
	// does not decode, instead of failing with [ErrMalformed]. The
	// damaged bytes stay in the backend until the next write replaces
	// them. Restoring from a backup opens this way.
	DiscardMalformed bool
}

// Store owns the ordered task list and mirrors it to a Backend. Every
// mutation ends with a synchronous write of the whole list. All
// methods are safe for concurrent use.
type Store struct {
	backend     Backend
	key         string
	format      Format
	clock       clock.Clock
	logger      *slog.Logger
	seedSamples bool

	discardMalformed bool

	mutex sync.Mutex
	tasks []Task

	// digest is the blake3 hash of the bytes last read from or
	// written to the backend. Reload compares against it so that the
	// store's own writes, echoed back by a file watcher, are ignored.
	digest [32]byte

	// subscribers is append-only.
	subscribers []chan Event
}

// Open creates a Store and loads the persisted list. When nothing is
// stored under the key, the sample tasks are seeded and written
// immediately (unless Options.SkipSamples is set). Stored data that
// does not decode returns an error wrapping [ErrMalformed].
func Open(ctx context.Context, options Options) (*Store, error) {
	if options.Backend == nil {
		return nil, fmt.Errorf("task store: backend is required")
	}
	if options.Logger == nil {
		return nil, fmt.Errorf("task store: logger is required")
	}
	if options.Key == "" {
		options.Key = DefaultKey
	}
	format, err := ParseFormat(string(options.Format))
	if err != nil {
		return nil, err
	}
	if options.Clock == nil {
		options.Clock = clock.Real()
	}

	store := &Store{
		backend:     options.Backend,
		key:         options.Key,
		format:      format,
		clock:       options.Clock,
		logger:      options.Logger.With("key", options.Key, "format", string(format)),
		seedSamples: !options.SkipSamples,

		discardMalformed: options.DiscardMalformed,
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	store.mutex.Lock()
	defer store.mutex.Unlock()
	if err := store.loadLocked(); err != nil {
		return nil, err
	}
	return store, nil
}

// Key returns the storage key.
func (store *Store) Key() string { return store.key }

// Format returns the storage encoding.
func (store *Store) Format() Format { return store.format }

// loadLocked rehydrates the list from the backend.
func (store *Store) loadLocked() error {
	data, found, err := store.backend.Get(store.key)
	if err != nil {
		return fmt.Errorf("reading task list %q: %w", store.key, err)
	}

	if !found || len(bytes.TrimSpace(data)) == 0 {
		if !store.seedSamples {
			store.tasks = []Task{}
			store.logger.Debug("no stored task list, starting empty")
			return nil
		}
		store.tasks = SampleTasks()
		if err := store.persistLocked(); err != nil {
			return fmt.Errorf("seeding sample tasks: %w", err)
		}
		store.logger.Info("seeded sample tasks", "count", len(store.tasks))
		return nil
	}

	tasks, err := store.decode(data)
	if err != nil {
		if !store.discardMalformed {
			return err
		}
		store.logger.Warn("discarding malformed task list", "error", err, "bytes", len(data))
		tasks = []Task{}
	}
	store.tasks = tasks
	store.digest = blake3.Sum256(data)
	store.warnDuplicates(tasks)
	store.logger.Debug("loaded task list", "count", len(tasks))
	return nil
}

// persistLocked writes the full list, overwriting prior state.
func (store *Store) persistLocked() error {
	data, err := store.encode(store.tasks)
	if err != nil {
		return fmt.Errorf("encoding task list: %w", err)
	}
	if err := store.backend.Set(store.key, data); err != nil {
		return fmt.Errorf("writing task list %q: %w", store.key, err)
	}
	store.digest = blake3.Sum256(data)
	return nil
}

func (store *Store) encode(tasks []Task) ([]byte, error) {
	if tasks == nil {
		tasks = []Task{}
	}
	switch store.format {
	case FormatCBOR:
		return codec.Marshal(tasks)
	default:
		return json.Marshal(tasks)
	}
}

func (store *Store) decode(data []byte) ([]Task, error) {
	var tasks []Task
	var err error
	switch store.format {
	case FormatCBOR:
		err = codec.Unmarshal(data, &tasks)
	default:
		err = json.Unmarshal(data, &tasks)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: decoding %q as %s: %v", ErrMalformed, store.key, store.format, err)
	}
	if tasks == nil {
		tasks = []Task{}
	}
	return tasks, nil
}

// warnDuplicates logs ids that appear more than once in loaded data.
// Mutations address the first occurrence.
func (store *Store) warnDuplicates(tasks []Task) {
	seen := make(map[int64]bool, len(tasks))
	for _, task := range tasks {
		if seen[task.ID] {
			store.logger.Warn("stored task list contains a duplicate id", "task_id", task.ID)
		}
		seen[task.ID] = true
	}
}

// Tasks returns a copy of the list in insertion order.
func (store *Store) Tasks() []Task {
	store.mutex.Lock()
	defer store.mutex.Unlock()
	return slices.Clone(store.tasks)
}

// Len returns the number of tasks.
func (store *Store) Len() int {
	store.mutex.Lock()
	defer store.mutex.Unlock()
	return len(store.tasks)
}

// Get returns the task with the given id.
func (store *Store) Get(id int64) (Task, bool) {
	store.mutex.Lock()
	defer store.mutex.Unlock()
	index := store.indexLocked(id)
	if index < 0 {
		return Task{}, false
	}
	return store.tasks[index], true
}

func (store *Store) indexLocked(id int64) int {
	return slices.IndexFunc(store.tasks, func(task Task) bool { return task.ID == id })
}

// NextID returns an id for a new task: the clock's Unix milliseconds,
// or one past the largest existing id when the clock has not moved
// beyond it.
func (store *Store) NextID() int64 {
	store.mutex.Lock()
	defer store.mutex.Unlock()
	candidate := store.clock.Now().UnixMilli()
	for _, task := range store.tasks {
		if task.ID >= candidate {
			candidate = task.ID + 1
		}
	}
	return candidate
}

// Today returns the store clock's current UTC calendar date. The form
// uses it to pre-fill the due date.
func (store *Store) Today() Date {
	return DateOf(store.clock.Now())
}

// Clock returns the store's time source.
func (store *Store) Clock() clock.Clock { return store.clock }

// Create appends a task and persists. An id already present in the
// list returns [ErrDuplicateID] and changes nothing. If the write
// fails, the list is left as it was before the call.
func (store *Store) Create(task Task) error {
	store.mutex.Lock()
	if store.indexLocked(task.ID) >= 0 {
		store.mutex.Unlock()
		return fmt.Errorf("%w: %d", ErrDuplicateID, task.ID)
	}
	previous := store.tasks
	store.tasks = append(slices.Clone(previous), task)
	if err := store.persistLocked(); err != nil {
		store.tasks = previous
		store.mutex.Unlock()
		return err
	}
	subscribers := store.subscribers
	store.mutex.Unlock()

	store.logger.Info("task created", "task_id", task.ID, "due", task.DueDate.String())
	dispatch(subscribers, Event{ID: task.ID, Kind: EventPut, Task: task})
	return nil
}

// Delete removes the task with the given id and persists. An unknown
// id is a no-op: found is false and nothing is written.
func (store *Store) Delete(id int64) (removed Task, found bool, err error) {
	store.mutex.Lock()
	index := store.indexLocked(id)
	if index < 0 {
		store.mutex.Unlock()
		return Task{}, false, nil
	}
	previous := store.tasks
	removed = previous[index]
	store.tasks = slices.Delete(slices.Clone(previous), index, index+1)
	if err := store.persistLocked(); err != nil {
		store.tasks = previous
		store.mutex.Unlock()
		return Task{}, true, err
	}
	subscribers := store.subscribers
	store.mutex.Unlock()

	store.logger.Info("task deleted", "task_id", id)
	dispatch(subscribers, Event{ID: id, Kind: EventRemove, Task: removed})
	return removed, true, nil
}

// ToggleComplete flips IsComplete on the task with the given id and
// persists. An unknown id is a no-op: found is false and nothing is
// written.
func (store *Store) ToggleComplete(id int64) (updated Task, found bool, err error) {
	store.mutex.Lock()
	index := store.indexLocked(id)
	if index < 0 {
		store.mutex.Unlock()
		return Task{}, false, nil
	}
	previous := store.tasks
	store.tasks = slices.Clone(previous)
	store.tasks[index].IsComplete = !store.tasks[index].IsComplete
	updated = store.tasks[index]
	if err := store.persistLocked(); err != nil {
		store.tasks = previous
		store.mutex.Unlock()
		return Task{}, true, err
	}
	subscribers := store.subscribers
	store.mutex.Unlock()

	store.logger.Info("task completion toggled", "task_id", id, "complete", updated.IsComplete)
	dispatch(subscribers, Event{ID: id, Kind: EventPut, Task: updated})
	return updated, true, nil
}

// Replace swaps the whole list (used by import), persists, and emits
// one event per task that was added, changed, or removed. The input
// must not repeat an id.
func (store *Store) Replace(tasks []Task) error {
	seen := make(map[int64]bool, len(tasks))
	for _, task := range tasks {
		if seen[task.ID] {
			return fmt.Errorf("%w: %d", ErrDuplicateID, task.ID)
		}
		seen[task.ID] = true
	}

	store.mutex.Lock()
	previous := store.tasks
	store.tasks = slices.Clone(tasks)
	if store.tasks == nil {
		store.tasks = []Task{}
	}
	if err := store.persistLocked(); err != nil {
		store.tasks = previous
		store.mutex.Unlock()
		return err
	}
	events := diffTasks(previous, store.tasks)
	subscribers := store.subscribers
	store.mutex.Unlock()

	store.logger.Info("task list replaced", "count", len(tasks), "changes", len(events))
	for _, event := range events {
		dispatch(subscribers, event)
	}
	return nil
}

// Reload re-reads the backend after an external change and applies the
// difference. Bytes identical to the last read or write are ignored,
// so a watcher observing the store's own writes produces no events. A
// missing key reloads as an empty list. Malformed data returns an
// error wrapping [ErrMalformed] and keeps the in-memory list.
func (store *Store) Reload(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	store.mutex.Lock()
	data, found, err := store.backend.Get(store.key)
	if err != nil {
		store.mutex.Unlock()
		return fmt.Errorf("reading task list %q: %w", store.key, err)
	}
	if !found {
		data = nil
	}
	digest := blake3.Sum256(data)
	if digest == store.digest {
		store.mutex.Unlock()
		return nil
	}

	current := []Task{}
	if len(bytes.TrimSpace(data)) > 0 {
		current, err = store.decode(data)
		if err != nil {
			store.mutex.Unlock()
			return err
		}
	}
	previous := store.tasks
	store.tasks = current
	store.digest = digest
	events := diffTasks(previous, current)
	subscribers := store.subscribers
	store.mutex.Unlock()

	store.logger.Info("task list reloaded", "count", len(current), "changes", len(events))
	for _, event := range events {
		dispatch(subscribers, event)
	}
	return nil
}

// Subscribe returns a channel that receives an Event for every change
// made through this store or picked up by Reload. The channel is
// buffered; events are dropped for a subscriber that falls behind, and
// it should re-read Tasks on the next event it does receive.
func (store *Store) Subscribe() <-chan Event {
	store.mutex.Lock()
	defer store.mutex.Unlock()
	channel := make(chan Event, 64)
	store.subscribers = append(store.subscribers, channel)
	return channel
}

func dispatch(subscribers []chan Event, event Event) {
	for _, subscriber := range subscribers {
		select {
		case subscriber <- event:
		default:
		}
	}
}

// diffTasks returns put events for tasks in current that are new or
// changed, followed by remove events for tasks only in previous.
func diffTasks(previous, current []Task) []Event {
	before := make(map[int64]Task, len(previous))
	for _, task := range previous {
		before[task.ID] = task
	}

	var events []Event
	present := make(map[int64]bool, len(current))
	for _, task := range current {
		present[task.ID] = true
		old, existed := before[task.ID]
		if !existed || !Equal(old, task) {
			events = append(events, Event{ID: task.ID, Kind: EventPut, Task: task})
		}
	}
	for _, task := range previous {
		if !present[task.ID] {
			events = append(events, Event{ID: task.ID, Kind: EventRemove, Task: task})
		}
	}
	return events
}

// Equal reports whether two tasks carry the same data. DateAdded is
// compared as an instant, ignoring location and monotonic readings.
func Equal(a, b Task) bool {
	return a.ID == b.ID &&
		a.Title == b.Title &&
		a.Description == b.Description &&
		a.DueDate == b.DueDate &&
		a.DateAdded.Equal(b.DateAdded) &&
		a.IsComplete == b.IsComplete
}

// Add builds a task from draft with a fresh id and the current time as
// dateAdded, then creates it. This is the form submission path.
func (store *Store) Add(draft Draft) (Task, error) {
	task, err := NewTask(draft, store.NextID(), store.clock.Now())
	if err != nil {
		return Task{}, err
	}
	if err := store.Create(task); err != nil {
		return Task{}, err
	}
	return task, nil
}
