// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build linux

package localstore

import (
	"encoding/binary"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sys/unix"
)

// watchDebounce coalesces bursts of writes (an import followed by a
// toggle, say) into one notification.
const watchDebounce = 50 * time.Millisecond

// Watch reports changes to key made by any writer, including this
// process. The returned channel receives one value per debounced burst
// of changes and is closed after stop is called. Notifications are
// coalesced: if the receiver is still busy with the previous one, the
// new one is dropped because the pending one already says "re-read".
//
// The watch is on the directory, not the file: Set replaces the file
// by rename, which creates a new inode that a file-level watch would
// miss.
func (store *Store) Watch(key string) (<-chan struct{}, func(), error) {
	if _, err := store.Path(key); err != nil {
		return nil, nil, err
	}

	fd, err := unix.InotifyInit1(unix.IN_NONBLOCK | unix.IN_CLOEXEC)
	if err != nil {
		return nil, nil, fmt.Errorf("initializing inotify: %w", err)
	}
	if _, err := unix.InotifyAddWatch(fd, store.directory, unix.IN_CLOSE_WRITE|unix.IN_MOVED_TO); err != nil {
		unix.Close(fd)
		return nil, nil, fmt.Errorf("watching %s: %w", store.directory, err)
	}

	changes := make(chan struct{}, 1)
	stopChannel := make(chan struct{})
	go store.watchLoop(fd, key, changes, stopChannel)

	var once sync.Once
	stop := func() {
		once.Do(func() { close(stopChannel) })
	}
	return changes, stop, nil
}

// watchLoop polls the inotify descriptor with a 100ms timeout so the
// stop channel is checked promptly, and closes changes on exit.
func (store *Store) watchLoop(fd int, key string, changes chan<- struct{}, stopChannel <-chan struct{}) {
	defer close(changes)
	defer unix.Close(fd)

	logger := store.logger.With("key", key)
	buffer := make([]byte, 4096)

	for {
		select {
		case <-stopChannel:
			return
		default:
		}

		pollDescriptors := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
		count, err := unix.Poll(pollDescriptors, 100)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			logger.Warn("storage watch stopped", "error", err)
			return
		}
		if count == 0 {
			continue
		}

		bytesRead, err := unix.Read(fd, buffer)
		if err != nil {
			if err == unix.EAGAIN || err == unix.EINTR {
				continue
			}
			logger.Warn("storage watch stopped", "error", err)
			return
		}

		if !inotifyMatchesName(buffer[:bytesRead], key) {
			continue
		}

		store.clock.Sleep(watchDebounce)
		drainInotifyEvents(fd, buffer)

		select {
		case changes <- struct{}{}:
		default:
		}
	}
}

// inotifyMatchesName reports whether any event in buffer names the
// target file. Event layout, from inotify(7):
//
//	struct inotify_event {
//	    int32_t  wd;     // offset 0
//	    uint32_t mask;   // offset 4
//	    uint32_t cookie; // offset 8
//	    uint32_t len;    // offset 12
//	    char     name[]; // offset 16, null-padded
//	};
func inotifyMatchesName(buffer []byte, target string) bool {
	offset := 0
	for offset+unix.SizeofInotifyEvent <= len(buffer) {
		nameLength := int(binary.NativeEndian.Uint32(buffer[offset+12 : offset+16]))
		eventSize := unix.SizeofInotifyEvent + nameLength
		if offset+eventSize > len(buffer) {
			break
		}
		if nameLength > 0 {
			name := nullTerminated(buffer[offset+unix.SizeofInotifyEvent : offset+eventSize])
			if name == target {
				return true
			}
		}
		offset += eventSize
	}
	return false
}

func nullTerminated(data []byte) string {
	for index, character := range data {
		if character == 0 {
			return string(data[:index])
		}
	}
	return string(data)
}

// drainInotifyEvents discards queued events after the debounce.
func drainInotifyEvents(fd int, buffer []byte) {
	for {
		if _, err := unix.Read(fd, buffer); err != nil {
			return
		}
	}
}
