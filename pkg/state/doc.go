// Package state persists controller selections.
//
// A Store loads and saves one choices.Snapshot per Ref. Save and Restore
// move snapshots between a Store and a live controller:
//
//	Controller.Snapshot() -> Store.Save(ref)
//	Store.Load(ref) -> Controller.Restore(snapshot)
//
// Ref.Identifier gives a deterministic storage key shaped like
// "<scope>/<scope id>/<domain>", or "system/<domain>" for global selections.
package state
