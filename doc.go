// Package authz resolves named cluster privileges into composable, checkable
// permissions. A Registry maps privilege names (or raw action patterns) to
// Privilege values; a Builder composes privileges into an immutable
// Permission; Permission.Check decides whether an action and request are
// permitted; Permission.Implies compares two permissions for role merging
// and delegation-safety validation.
//
// All built values are immutable and safe for unsynchronized concurrent
// reads. Check performs no I/O and never blocks; it is meant for the hot
// path of every authorized request.
//
// # Implication semantics
//
// Permission.Implies is existential, not universal: A.Implies(B) is true iff
// at least one check of A covers at least one check of B. It does NOT verify
// that every grant of B is covered by A, so it is not a sound full-subset
// test when B carries multiple heterogeneous checks. Likewise, implication
// between configurable privileges is decided by definitional equality of the
// privileges, never by comparing what their predicates accept: two
// differently constructed but behaviorally identical configurable privileges
// do not imply each other. Role-merging callers depend on exactly these
// semantics; do not tighten them.
package authz
