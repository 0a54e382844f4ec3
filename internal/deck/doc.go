// Package deck is the card source. It holds the generator contract, the
// catalog of folders and topics, the seeding policy for random draws and
// the loaders for static decks kept as YAML, CSV or XLSX files.
//
// A Generator is a first-class handle: every card drawn from the catalog
// carries the generator that produced it, so a session can ask the same
// generator for a fresh instance when a card repeats.
package deck
