package core

// UserOutput shows blocking messages to the person running the game.
type UserOutput interface {
	Initialize() error
	CleanUp() error
	// Print shows message and blocks until it is dismissed.
	Print(message string) error
	// Confirm asks a yes/no question. A cancelled prompt counts as no.
	Confirm(title, question string) (bool, error)
}
