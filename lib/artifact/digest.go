// Copyright 2026 The Entrypoint Authors
// SPDX-License-Identifier: Apache-2.0

package artifact

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// Digest is the 32-byte BLAKE3 keyed hash of a generated file.
type Digest [32]byte

// digestKey separates artifact digests from any other BLAKE3 use of
// the same bytes. ASCII, zero-padded to the 32 bytes NewKeyed needs.
var digestKey = [32]byte{
	'e', 'n', 't', 'r', 'y', 'p', 'o', 'i', 'n', 't', '.', 'a', 'r', 't', 'i', 'f',
	'a', 'c', 't', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
}

// DigestOf returns the digest of content.
func DigestOf(content []byte) Digest {
	// NewKeyed only fails for a key that is not 32 bytes.
	hasher, err := blake3.NewKeyed(digestKey[:])
	if err != nil {
		panic("artifact: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	hasher.Write(content)
	var digest Digest
	copy(digest[:], hasher.Sum(nil))
	return digest
}

// String returns the hex encoding, the form used in logs.
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}
