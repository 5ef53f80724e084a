// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"filippo.io/age"
	"github.com/tidwall/jsonc"
	"github.com/zeebo/blake3"

	"github.com/bureau-foundation/tasktracker/lib/task"
)

// FormatName identifies an archive header.
const FormatName = "tasktracker-archive"

// FormatVersion is the header version this package writes and reads.
const FormatVersion = 1

// MaxPayloadSize bounds the uncompressed payload an archive header may
// declare. Import refuses anything larger before allocating.
const MaxPayloadSize = 256 << 20

var (
	// ErrChecksum marks an archive whose reconstructed list does not
	// match the header's blake3 hash.
	ErrChecksum = errors.New("archive checksum mismatch")

	// ErrNotEncrypted marks an encrypted archive imported without any
	// identity to open it. Identities given for a plain archive are
	// ignored.
	ErrNotEncrypted = errors.New("archive encryption mismatch")

	// ErrFormat marks input that is neither an archive nor a task
	// array.
	ErrFormat = errors.New("unrecognized archive format")
)

// Header is the first line of an archive.
type Header struct {
	Format      string      `json:"format"`
	Version     int         `json:"version"`
	Compression Compression `json:"compression"`
	Encrypted   bool        `json:"encrypted"`
	// Blake3 is the hex blake3-256 of the uncompressed JSON payload.
	Blake3 string `json:"blake3"`
	// Size is the length of the uncompressed JSON payload.
	Size int `json:"size"`
	// Count is the number of tasks, for display before import.
	Count int `json:"count"`
}

// ExportOptions configures [Export].
type ExportOptions struct {
	// Compression defaults to zstd.
	Compression Compression

	// Recipients are age X25519 public keys. When non-empty the
	// payload is encrypted so that any one of them can read it.
	Recipients []string
}

// Export writes tasks as an archive to writer and returns the header
// it wrote. Compression falls back to none when it would not shrink
// the payload; the header records what was actually used.
func Export(writer io.Writer, tasks []task.Task, options ExportOptions) (Header, error) {
	compression, err := ParseCompression(string(options.Compression))
	if err != nil {
		return Header{}, err
	}
	recipients, err := ParseRecipients(options.Recipients)
	if err != nil {
		return Header{}, err
	}

	if tasks == nil {
		tasks = []task.Task{}
	}
	plain, err := json.Marshal(tasks)
	if err != nil {
		return Header{}, fmt.Errorf("encoding tasks: %w", err)
	}
	digest := blake3.Sum256(plain)

	payload, err := compress(plain, compression)
	if errors.Is(err, errIncompressible) {
		compression = CompressionNone
		payload = plain
	} else if err != nil {
		return Header{}, err
	}

	if len(recipients) > 0 {
		var sealed bytes.Buffer
		encryptWriter, err := age.Encrypt(&sealed, recipients...)
		if err != nil {
			return Header{}, fmt.Errorf("starting age encryption: %w", err)
		}
		if _, err := encryptWriter.Write(payload); err != nil {
			return Header{}, fmt.Errorf("encrypting payload: %w", err)
		}
		if err := encryptWriter.Close(); err != nil {
			return Header{}, fmt.Errorf("finishing age encryption: %w", err)
		}
		payload = sealed.Bytes()
	}

	header := Header{
		Format:      FormatName,
		Version:     FormatVersion,
		Compression: compression,
		Encrypted:   len(recipients) > 0,
		Blake3:      hex.EncodeToString(digest[:]),
		Size:        len(plain),
		Count:       len(tasks),
	}
	headerLine, err := json.Marshal(header)
	if err != nil {
		return Header{}, fmt.Errorf("encoding archive header: %w", err)
	}
	headerLine = append(headerLine, '\n')

	if _, err := writer.Write(headerLine); err != nil {
		return Header{}, fmt.Errorf("writing archive header: %w", err)
	}
	if _, err := writer.Write(payload); err != nil {
		return Header{}, fmt.Errorf("writing archive payload: %w", err)
	}
	return header, nil
}

// ImportOptions configures [Import].
type ImportOptions struct {
	// Identities open encrypted archives. Required for those and
	// ignored otherwise.
	Identities []age.Identity
}

// Import reads an archive, or a bare JSON/JSONC task array, from
// reader. For archives the returned Header describes the input; for a
// bare array it is the zero Header.
func Import(reader io.Reader, options ImportOptions) ([]task.Task, Header, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, Header{}, fmt.Errorf("reading archive: %w", err)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, Header{}, fmt.Errorf("%w: input is empty", ErrFormat)
	}

	switch trimmed[0] {
	case '[', '/':
		// A task array, possibly with leading // or /* comments.
		tasks, err := decodeTasks(jsonc.ToJSON(trimmed))
		return tasks, Header{}, err
	case '{':
		return importArchive(data, options)
	default:
		return nil, Header{}, fmt.Errorf("%w: expected an archive header or a JSON array", ErrFormat)
	}
}

func importArchive(data []byte, options ImportOptions) ([]task.Task, Header, error) {
	headerLine, payload, found := bytes.Cut(data, []byte("\n"))
	if !found {
		return nil, Header{}, fmt.Errorf("%w: missing payload after header", ErrFormat)
	}
	var header Header
	if err := json.Unmarshal(headerLine, &header); err != nil {
		return nil, Header{}, fmt.Errorf("%w: header: %v", ErrFormat, err)
	}
	if header.Format != FormatName {
		return nil, header, fmt.Errorf("%w: header format %q", ErrFormat, header.Format)
	}
	if header.Version != FormatVersion {
		return nil, header, fmt.Errorf("%w: unsupported archive version %d", ErrFormat, header.Version)
	}
	if header.Size < 0 || header.Size > MaxPayloadSize {
		return nil, header, fmt.Errorf("%w: payload size %d outside 0..%d", ErrFormat, header.Size, MaxPayloadSize)
	}

	if header.Encrypted {
		if len(options.Identities) == 0 {
			return nil, header, fmt.Errorf("%w: archive is encrypted and no identity was given", ErrNotEncrypted)
		}
		decryptReader, err := age.Decrypt(bytes.NewReader(payload), options.Identities...)
		if err != nil {
			return nil, header, fmt.Errorf("decrypting archive: %w", err)
		}
		payload, err = io.ReadAll(decryptReader)
		if err != nil {
			return nil, header, fmt.Errorf("decrypting archive: %w", err)
		}
	}

	plain, err := decompress(payload, header.Compression, header.Size)
	if err != nil {
		return nil, header, err
	}

	digest := blake3.Sum256(plain)
	if hex.EncodeToString(digest[:]) != header.Blake3 {
		return nil, header, ErrChecksum
	}

	tasks, err := decodeTasks(plain)
	if err != nil {
		return nil, header, err
	}
	return tasks, header, nil
}

func decodeTasks(data []byte) ([]task.Task, error) {
	var tasks []task.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("%w: %v", task.ErrMalformed, err)
	}
	if tasks == nil {
		tasks = []task.Task{}
	}
	return tasks, nil
}
