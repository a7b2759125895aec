package desktop

import (
	"errors"

	"github.com/ncruces/zenity"
	"github.com/rotisserie/eris"
)

// Dialogs shows native message boxes through zenity.
type Dialogs struct {
	title string
}

func NewDialogs(title string) *Dialogs {
	return &Dialogs{title: title}
}

func (d *Dialogs) Initialize() error {
	return nil
}

func (d *Dialogs) CleanUp() error {
	return nil
}

func (d *Dialogs) Print(message string) error {
	if err := zenity.Error(message, zenity.Title(d.title), zenity.ErrorIcon); err != nil && !errors.Is(err, zenity.ErrCanceled) {
		return eris.Wrap(err, "failed to show a message box")
	}
	return nil
}

func (d *Dialogs) Confirm(title, question string) (bool, error) {
	err := zenity.Question(question,
		zenity.Title(title),
		zenity.QuestionIcon,
		zenity.OKLabel("Yes"),
		zenity.CancelLabel("No"),
	)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, zenity.ErrCanceled):
		return false, nil
	default:
		return false, eris.Wrap(err, "failed to show a question box")
	}
}
