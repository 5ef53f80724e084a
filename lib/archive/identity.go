// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"fmt"
	"io"
	"strings"

	"filippo.io/age"
)

// Keypair is an age X25519 identity and its recipient.
type Keypair struct {
	// Identity is the secret key, "AGE-SECRET-KEY-1…". Whoever holds
	// it can read archives encrypted to Recipient.
	Identity string

	// Recipient is the public key, "age1…", passed to --recipient.
	Recipient string
}

// GenerateKeypair creates a new X25519 keypair.
func GenerateKeypair() (Keypair, error) {
	identity, err := age.GenerateX25519Identity()
	if err != nil {
		return Keypair{}, fmt.Errorf("generating age identity: %w", err)
	}
	return Keypair{
		Identity:  identity.String(),
		Recipient: identity.Recipient().String(),
	}, nil
}

// IdentityFile renders the keypair in age's identity file format,
// which ParseIdentities reads back.
func (keypair Keypair) IdentityFile() string {
	return "# public key: " + keypair.Recipient + "\n" + keypair.Identity + "\n"
}

// ParseRecipients parses X25519 recipient strings.
func ParseRecipients(keys []string) ([]age.Recipient, error) {
	recipients := make([]age.Recipient, 0, len(keys))
	for _, key := range keys {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		recipient, err := age.ParseX25519Recipient(key)
		if err != nil {
			return nil, fmt.Errorf("parsing recipient %q: %w", key, err)
		}
		recipients = append(recipients, recipient)
	}
	return recipients, nil
}

// ParseIdentities reads an age identity file: one AGE-SECRET-KEY per
// line, with # comments and blank lines ignored.
func ParseIdentities(reader io.Reader) ([]age.Identity, error) {
	identities, err := age.ParseIdentities(reader)
	if err != nil {
		return nil, fmt.Errorf("parsing age identities: %w", err)
	}
	return identities, nil
}
