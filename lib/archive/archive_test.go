// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"filippo.io/age"

	"github.com/bureau-foundation/tasktracker/lib/task"
)

// manyTasks returns a list large enough that every compression mode
// actually shrinks it.
func manyTasks(count int) []task.Task {
	added := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	tasks := make([]task.Task, count)
	for index := range tasks {
		tasks[index] = task.Task{
			ID:          int64(index + 1),
			Title:       fmt.Sprintf("Task number %d", index+1),
			Description: "Water the plants and check the mail before noon.",
			DueDate:     task.DateOf(added.AddDate(0, 0, index%7)),
			DateAdded:   added.Add(time.Duration(index) * time.Minute),
			IsComplete:  index%3 == 0,
		}
	}
	return tasks
}

func assertSameTasks(t *testing.T, got, want []task.Task) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d tasks, want %d", len(got), len(want))
	}
	for index := range want {
		if !task.Equal(got[index], want[index]) {
			t.Errorf("task %d = %+v, want %+v", index, got[index], want[index])
		}
	}
}

func TestRoundTrip(t *testing.T) {
	keypair, err := GenerateKeypair()
	if err != nil {
		t.Fatalf("GenerateKeypair: %v", err)
	}
	identities, err := ParseIdentities(strings.NewReader(keypair.IdentityFile()))
	if err != nil {
		t.Fatalf("ParseIdentities: %v", err)
	}

	tasks := manyTasks(40)
	for _, compression := range []Compression{CompressionNone, CompressionLZ4, CompressionZstd} {
		for _, encrypted := range []bool{false, true} {
			t.Run(fmt.Sprintf("%s/encrypted=%t", compression, encrypted), func(t *testing.T) {
				exportOptions := ExportOptions{Compression: compression}
				importOptions := ImportOptions{}
				if encrypted {
					exportOptions.Recipients = []string{keypair.Recipient}
					importOptions.Identities = identities
				}

				var buffer bytes.Buffer
				header, err := Export(&buffer, tasks, exportOptions)
				if err != nil {
					t.Fatalf("Export: %v", err)
				}
				if header.Compression != compression {
					t.Errorf("header compression = %q, want %q", header.Compression, compression)
				}
				if header.Encrypted != encrypted {
					t.Errorf("header encrypted = %t, want %t", header.Encrypted, encrypted)
				}
				if header.Count != len(tasks) {
					t.Errorf("header count = %d, want %d", header.Count, len(tasks))
				}

				got, readHeader, err := Import(&buffer, importOptions)
				if err != nil {
					t.Fatalf("Import: %v", err)
				}
				if readHeader != header {
					t.Errorf("Import header = %+v, want %+v", readHeader, header)
				}
				assertSameTasks(t, got, tasks)
			})
		}
	}
}

func TestExportEmptyListFallsBackToNone(t *testing.T) {
	var buffer bytes.Buffer
	header, err := Export(&buffer, nil, ExportOptions{Compression: CompressionZstd})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if header.Compression != CompressionNone {
		t.Errorf("compression = %q, want none for a two-byte payload", header.Compression)
	}
	if header.Size != len("[]") {
		t.Errorf("size = %d, want 2", header.Size)
	}

	got, _, err := Import(&buffer, ImportOptions{})
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("Import = %v, want empty non-nil list", got)
	}
}

func TestHeaderIsFirstLine(t *testing.T) {
	var buffer bytes.Buffer
	if _, err := Export(&buffer, task.SampleTasks(), ExportOptions{}); err != nil {
		t.Fatalf("Export: %v", err)
	}
	line, _, found := bytes.Cut(buffer.Bytes(), []byte("\n"))
	if !found {
		t.Fatal("archive has no header line")
	}
	var fields map[string]any
	if err := json.Unmarshal(line, &fields); err != nil {
		t.Fatalf("header is not JSON: %v", err)
	}
	for _, key := range []string{"format", "version", "compression", "encrypted", "blake3", "size"} {
		if _, ok := fields[key]; !ok {
			t.Errorf("header missing %q: %s", key, line)
		}
	}
	if fields["format"] != FormatName {
		t.Errorf("format = %v, want %q", fields["format"], FormatName)
	}
}

func TestCorruptedPayloadFailsChecksum(t *testing.T) {
	var buffer bytes.Buffer
	if _, err := Export(&buffer, manyTasks(5), ExportOptions{Compression: CompressionNone}); err != nil {
		t.Fatalf("Export: %v", err)
	}
	// Change one title character. The length is unchanged, so only
	// the hash can catch it.
	corrupted := bytes.Replace(buffer.Bytes(), []byte("Task number 3"), []byte("Task number 8"), 1)

	_, _, err := Import(bytes.NewReader(corrupted), ImportOptions{})
	if !errors.Is(err, ErrChecksum) {
		t.Fatalf("Import error = %v, want ErrChecksum", err)
	}
}

func TestCorruptedHeaderHashFailsChecksum(t *testing.T) {
	var buffer bytes.Buffer
	header, err := Export(&buffer, manyTasks(20), ExportOptions{Compression: CompressionZstd})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	zeros := strings.Repeat("0", len(header.Blake3))
	corrupted := bytes.Replace(buffer.Bytes(), []byte(header.Blake3), []byte(zeros), 1)

	_, _, err = Import(bytes.NewReader(corrupted), ImportOptions{})
	if !errors.Is(err, ErrChecksum) {
		t.Fatalf("Import error = %v, want ErrChecksum", err)
	}
}

// withHeaderSize rewrites the size field of an exported archive.
func withHeaderSize(t *testing.T, archived []byte, size int) []byte {
	t.Helper()
	headerLine, payload, _ := bytes.Cut(archived, []byte("\n"))
	var header Header
	if err := json.Unmarshal(headerLine, &header); err != nil {
		t.Fatalf("decoding header: %v", err)
	}
	header.Size = size
	rewritten, err := json.Marshal(header)
	if err != nil {
		t.Fatalf("encoding header: %v", err)
	}
	return append(append(rewritten, '\n'), payload...)
}

func TestImportRejectsOutOfRangeSize(t *testing.T) {
	for _, compression := range []Compression{CompressionZstd, CompressionLZ4, CompressionNone} {
		var buffer bytes.Buffer
		if _, err := Export(&buffer, manyTasks(20), ExportOptions{Compression: compression}); err != nil {
			t.Fatalf("Export %s: %v", compression, err)
		}
		for _, size := range []int{-1, MaxPayloadSize + 1, 1 << 62} {
			archived := withHeaderSize(t, buffer.Bytes(), size)
			_, _, err := Import(bytes.NewReader(archived), ImportOptions{})
			if !errors.Is(err, ErrFormat) {
				t.Errorf("%s with size %d: error = %v, want ErrFormat", compression, size, err)
			}
		}
	}
}

func TestImportUnderstatedSizeFails(t *testing.T) {
	var buffer bytes.Buffer
	header, err := Export(&buffer, manyTasks(20), ExportOptions{Compression: CompressionZstd})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	archived := withHeaderSize(t, buffer.Bytes(), header.Size/2)
	if _, _, err := Import(bytes.NewReader(archived), ImportOptions{}); err == nil {
		t.Fatal("Import accepted a payload longer than its header size")
	}
}

func TestImportPlainArchiveIgnoresIdentities(t *testing.T) {
	keypair, err := GenerateKeypair()
	if err != nil {
		t.Fatalf("GenerateKeypair: %v", err)
	}
	identities, err := ParseIdentities(strings.NewReader(keypair.IdentityFile()))
	if err != nil {
		t.Fatalf("ParseIdentities: %v", err)
	}
	var buffer bytes.Buffer
	if _, err := Export(&buffer, manyTasks(5), ExportOptions{}); err != nil {
		t.Fatalf("Export: %v", err)
	}
	got, _, err := Import(&buffer, ImportOptions{Identities: identities})
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	assertSameTasks(t, got, manyTasks(5))
}

func TestImportEncryptedWithoutIdentity(t *testing.T) {
	keypair, err := GenerateKeypair()
	if err != nil {
		t.Fatalf("GenerateKeypair: %v", err)
	}
	var buffer bytes.Buffer
	if _, err := Export(&buffer, task.SampleTasks(), ExportOptions{Recipients: []string{keypair.Recipient}}); err != nil {
		t.Fatalf("Export: %v", err)
	}

	_, header, err := Import(bytes.NewReader(buffer.Bytes()), ImportOptions{})
	if !errors.Is(err, ErrNotEncrypted) {
		t.Fatalf("Import error = %v, want ErrNotEncrypted", err)
	}
	if !header.Encrypted {
		t.Error("header should still be returned and report encryption")
	}
}

func TestImportEncryptedWithWrongIdentity(t *testing.T) {
	owner, err := GenerateKeypair()
	if err != nil {
		t.Fatalf("GenerateKeypair: %v", err)
	}
	stranger, err := age.GenerateX25519Identity()
	if err != nil {
		t.Fatalf("GenerateX25519Identity: %v", err)
	}
	var buffer bytes.Buffer
	if _, err := Export(&buffer, task.SampleTasks(), ExportOptions{Recipients: []string{owner.Recipient}}); err != nil {
		t.Fatalf("Export: %v", err)
	}

	_, _, err = Import(&buffer, ImportOptions{Identities: []age.Identity{stranger}})
	if err == nil {
		t.Fatal("Import with the wrong identity should fail")
	}
	if errors.Is(err, ErrChecksum) {
		t.Errorf("wrong identity should fail decryption, not the checksum: %v", err)
	}
}

func TestImportBareJSONC(t *testing.T) {
	input := `// exported by hand
[
  {
    "id": 7,
    "title": "Pay rent", /* monthly */
    "description": "",
    "dueDate": "2024-04-01",
    "dateAdded": "2024-03-01T09:00:00.000Z",
    "isComplete": false,
  },
]
`
	tasks, header, err := Import(strings.NewReader(input), ImportOptions{})
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if header != (Header{}) {
		t.Errorf("bare array should return the zero header, got %+v", header)
	}
	if len(tasks) != 1 || tasks[0].ID != 7 || tasks[0].Title != "Pay rent" {
		t.Fatalf("tasks = %+v", tasks)
	}
	if got := tasks[0].DueDate.String(); got != "2024-04-01" {
		t.Errorf("due date = %q", got)
	}
}

func TestImportRejectsUnknownInput(t *testing.T) {
	for name, input := range map[string]string{
		"empty":        "   \n",
		"text":         "hello",
		"wrong format": `{"format":"something-else","version":1}` + "\n",
		"no payload":   `{"format":"tasktracker-archive","version":1}`,
		"new version":  `{"format":"tasktracker-archive","version":99}` + "\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, _, err := Import(strings.NewReader(input), ImportOptions{})
			if !errors.Is(err, ErrFormat) {
				t.Errorf("Import error = %v, want ErrFormat", err)
			}
		})
	}
}

func TestImportMalformedArray(t *testing.T) {
	_, _, err := Import(strings.NewReader(`[{"id": "seven"}]`), ImportOptions{})
	if !errors.Is(err, task.ErrMalformed) {
		t.Errorf("Import error = %v, want task.ErrMalformed", err)
	}
}

func TestParseCompression(t *testing.T) {
	tests := []struct {
		input   string
		want    Compression
		wantErr bool
	}{
		{"", CompressionZstd, false},
		{"zstd", CompressionZstd, false},
		{"lz4", CompressionLZ4, false},
		{"none", CompressionNone, false},
		{"gzip", "", true},
	}
	for _, test := range tests {
		got, err := ParseCompression(test.input)
		if (err != nil) != test.wantErr {
			t.Errorf("ParseCompression(%q) error = %v, wantErr %t", test.input, err, test.wantErr)
			continue
		}
		if got != test.want {
			t.Errorf("ParseCompression(%q) = %q, want %q", test.input, got, test.want)
		}
	}
}

func TestParseRecipientsRejectsGarbage(t *testing.T) {
	if _, err := ParseRecipients([]string{"age1notarealkey"}); err == nil {
		t.Error("ParseRecipients should reject an invalid key")
	}
	recipients, err := ParseRecipients([]string{"", "  "})
	if err != nil || len(recipients) != 0 {
		t.Errorf("blank entries should be skipped, got %v, %v", recipients, err)
	}
}
