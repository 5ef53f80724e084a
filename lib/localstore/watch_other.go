// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build !linux

package localstore

import "sync"

// Watch is unsupported off Linux. The returned channel never fires
// and is closed by stop, so callers can treat it like a live watch.
func (store *Store) Watch(key string) (<-chan struct{}, func(), error) {
	if _, err := store.Path(key); err != nil {
		return nil, nil, err
	}
	changes := make(chan struct{})
	var once sync.Once
	stop := func() {
		once.Do(func() { close(changes) })
	}
	store.logger.Debug("storage watch unavailable on this platform", "key", key)
	return changes, stop, nil
}
