/*
Package domain contains the core domain models of the rental desk.

It defines the persisted RentalRecord, the transient Session that the state
machine owns while a registration dialogue is in progress, the prompts emitted
to the conversational interface, and the error taxonomy shared by every layer.
This package is kept pure and free of I/O and persistence concerns.

# Key Entities

  - RentalRecord: one completed rental, immutable once written except through the edit engine.
  - Fields: the partially-filled field bag collected during a dialogue.
  - Session: per-conversation scratch space (current state, fields, base client snapshot).
  - Prompt: what the host should show next, with the closed set of choices if any.
  - Catalog: the configurable enumerations (SUP variants, lounger areas, durations).
*/
package domain
