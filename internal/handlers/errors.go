package handlers

import (
	"errors"

	"github.com/pterm/pterm"

	"civicstrainer/internal/audio"
	"civicstrainer/internal/service"
)

// ErrUnknownCommand is returned for input that names no command
var ErrUnknownCommand = errors.New("unknown command")

// userMessage maps an error to the text shown to the learner
func userMessage(err error) string {
	switch {
	case errors.Is(err, ErrUnknownCommand):
		return "Unknown command. Type help for the list of commands."
	case errors.Is(err, service.ErrNoCurrentItem):
		return MsgNoCards
	case errors.Is(err, service.ErrWrongMode):
		return "That command does not apply to this card."
	case errors.Is(err, service.ErrOptionOutOfRange):
		return "There is no option with that number."
	case errors.Is(err, service.ErrInvalidPreference):
		return "That value is not allowed."
	case errors.Is(err, service.ErrNotLoaded):
		return MsgLoading
	case errors.Is(err, audio.ErrNothingToSpeak):
		return "This card has no text in the selected language."
	default:
		return "Something went wrong."
	}
}

func (h *StudyHandler) respondWithError(err error, logMsg string) {
	if logMsg != "" {
		h.logger.Warn(logMsg, "error", err)
	}
	h.print(pterm.Error.Sprint(userMessage(err)))
}
