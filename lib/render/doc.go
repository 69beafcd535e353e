// Copyright 2026 The Entrypoint Authors
// SPDX-License-Identifier: Apache-2.0

// Package render turns a named template and the variable Context into
// configuration text.
//
// [Renderer] is the single-operation interface the rest of the
// entrypoint depends on, so tests can substitute a [Func] stub without
// any filesystem. [FSRenderer] is the real implementation: Go
// text/template with the sprig function map, templates looked up by
// name in one [fs.FS] root (the templates directory, or the embedded
// defaults when that directory does not exist; see [OpenTemplates]).
//
// Rendering is strict. Referencing a Context key directly ({{ .name }})
// when it is absent fails with a TemplateError, as does a template
// that cannot be found or parsed. Optional variables without a
// default are read with sprig's get, which yields "" for absent keys.
// Variables with a default use getOr, which falls back only when the
// key is absent; a variable set to "" renders as "":
//
//	port="{{ getOr . "atl_tomcat_port" "8080" }}"
//
// The escaping strategy follows the output format, derived from the
// template name with its ".tmpl" suffix removed: XML outputs have every
// Context value XML-escaped before execution, so a value such as
// `a"b&c` cannot break an attribute; other outputs (key=value
// properties, plain text) receive values verbatim.
package render
