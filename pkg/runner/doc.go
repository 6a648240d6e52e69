/*
Package runner implements the terminal host for the registration dialogue.

It reads operator input line by line, turns slash commands and choice numbers
into the inbound events of a rentdesk.Desk, and writes the prompts back through
a pluggable IOHandler (styled text for people, JSON lines for scripts).

# Commands

	/start         begin a new registration (discarding the one in progress)
	/cancel        discard the registration in progress
	/photo <ref>   attach the stored receipt photo with the given reference
	/quit          leave the runner

When the current prompt offers choices, typing a choice or its number selects it.

# Usage

	r := runner.NewRunner(
		runner.WithInputHandler(runner.NewTextHandler(os.Stdin, os.Stdout)),
	)
	if err := r.Run(ctx, desk); err != nil {
		log.Fatal(err)
	}
*/
package runner
