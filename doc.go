/*
Package rentdesk drives the guided registration of equipment rentals (SUP boards,
kayaks, loungers, phone and dry bags) and the queries an operator runs over the
collected records.

A Desk combines a conversation state machine that asks for one field at a time,
the validators attached to each step, and a shared record store with search,
grouping, editing and CSV export. The chat transport is the host's concern: it
feeds inbound events to the Desk and shows the prompts the Desk returns (or
emits through a ports.Emitter).

# Usage

	desk, err := rentdesk.New(ctx,
		rentdesk.WithRecordBackend(file.NewBackend("rentals.json")),
	)
	if err != nil {
		log.Fatal(err)
	}

	reply, _ := desk.Begin(ctx, "chat-42")
	fmt.Println(reply.Prompts[0].Text) // Rental date (DD/MM/YYYY)?

	reply, err = desk.OnText(ctx, "chat-42", "15/07/2024")

Rejected inputs are not errors: the reply carries the reissued prompt and a
*domain.ValidationError describing why. A failed write returns a
*domain.PersistenceError and discards the rental in progress.
*/
package rentdesk
