// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the command-line framework for p2repo.
//
// The central type is [Command], a named subcommand with optional
// nested [Command.Subcommands], a [pflag.FlagSet] factory, and a Run
// function. Commands are assembled into a tree by the commands package
// and dispatched via [Command.Execute], which handles flag parsing,
// subcommand routing, and help output with examples.
//
// Flags are usually declared as tagged struct fields and bound with
// [FlagsFromParams]. When a user types an unknown subcommand or flag,
// the framework suggests the closest known name by Levenshtein edit
// distance (threshold: distance <= 3).
package cli
