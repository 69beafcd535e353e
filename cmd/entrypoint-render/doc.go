// Copyright 2026 The Entrypoint Authors
// SPDX-License-Identifier: Apache-2.0

// Entrypoint-render previews what the container entrypoint would do
// with the current environment, without writing any file or exec'ing
// anything. Run it inside the container (docker exec) or locally with
// the same variables set.
//
//	entrypoint-render render server.xml     rendered template on stdout
//	entrypoint-render context               collected variables, secrets redacted
//	entrypoint-render settings              typed settings as YAML
//	entrypoint-render plan                  artifacts, ownership fix and exec line
//	entrypoint-render version
package main
