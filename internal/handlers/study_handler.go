package handlers

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/pterm/pterm"

	"civicstrainer/internal/models"
	"civicstrainer/internal/service"
)

// Speaker reads a card aloud
type Speaker interface {
	GenerateCardAudio(ctx context.Context, item models.Item, lang models.Language) ([]string, error)
}

// StudyHandler drives a Trainer from line-based terminal input. Every read or
// write of session state goes through the trainer's event loop.
type StudyHandler struct {
	trainer *service.Trainer
	loop    *service.EventLoop
	speaker Speaker
	out     io.Writer
	logger  *slog.Logger

	mu sync.Mutex
}

// NewStudyHandler creates a handler writing to out. speaker may be nil.
// Create it before loading starts so timed advances are redrawn.
func NewStudyHandler(trainer *service.Trainer, loop *service.EventLoop, speaker Speaker, out io.Writer, logger *slog.Logger) *StudyHandler {
	h := &StudyHandler{
		trainer: trainer,
		loop:    loop,
		speaker: speaker,
		out:     out,
		logger:  logger,
	}
	trainer.OnAutoAdvance(func() { h.print(renderCard(NewCardViewData(trainer))) })
	return h
}

func (h *StudyHandler) print(s string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	fmt.Fprintln(h.out, s)
}

// Run waits for the question banks, then processes commands from in until
// quit, end of input or ctx cancellation
func (h *StudyHandler) Run(ctx context.Context, in io.Reader) error {
	h.print(pterm.DefaultHeader.Sprint("Naturalización Trainer"))
	h.print(MsgLoading)

	select {
	case <-h.trainer.Ready():
	case <-ctx.Done():
		return ctx.Err()
	}
	h.showCard()

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		cmd, err := ParseCommand(scanner.Text())
		if err != nil {
			h.respondWithError(err, "")
			continue
		}
		if cmd.Name == CmdQuit {
			h.print(MsgGoodbye)
			return nil
		}
		if cmd.Name == CmdReset {
			h.handleReset(scanner)
			continue
		}
		h.Handle(ctx, cmd)
	}
	return scanner.Err()
}

// Handle executes one command and redraws what it changed
func (h *StudyHandler) Handle(ctx context.Context, cmd Command) {
	var err error
	switch cmd.Name {
	case CmdSpeak:
		h.handleSpeak(ctx)
		return
	case CmdHelp:
		h.print(renderHelp())
		return
	case CmdStats:
		h.showProgress()
		return
	case CmdCategory:
		if cmd.Arg == "" {
			h.showProgress()
			return
		}
	}

	h.loop.Do(func() { err = h.apply(cmd) })
	if err != nil {
		h.respondWithError(err, "")
		return
	}
	h.showCard()
}

// apply runs on the event loop
func (h *StudyHandler) apply(cmd Command) error {
	t := h.trainer
	c := t.Controller()
	prefs := t.Preferences()

	switch cmd.Name {
	case CmdReveal:
		return c.ToggleReveal()
	case CmdRight, CmdWrong:
		_, err := c.Mark(cmd.Name == CmdRight)
		return err
	case CmdSelect:
		_, err := c.Select(cmd.Option)
		return err
	case CmdNext:
		c.Advance()
		return nil
	case CmdShuffle:
		return t.Reshuffle()
	case CmdCategory:
		return prefs.SetCategory(matchCategory(t.Categories(), cmd.Arg))
	case CmdOrder:
		order := models.Order(strings.ToUpper(cmd.Arg))
		if cmd.Arg == "" {
			order = models.OrderInOrder
			if prefs.Get().Order == models.OrderInOrder {
				order = models.OrderShuffle
			}
		}
		return prefs.SetOrder(order)
	case CmdMode:
		mode := models.Mode(strings.ToLower(cmd.Arg))
		if cmd.Arg == "" {
			mode = models.ModeMCQ
			if prefs.Get().Mode == models.ModeMCQ {
				mode = models.ModeShort
			}
		}
		return prefs.SetMode(mode)
	case CmdLang:
		lang := models.Language(strings.ToLower(cmd.Arg))
		if cmd.Arg == "" {
			lang = nextLanguage(prefs.Get().Language)
		}
		return prefs.SetLanguage(lang)
	case CmdDark:
		prefs.ToggleDarkTheme()
		return nil
	}
	return ErrUnknownCommand
}

// matchCategory resolves name case-insensitively against the known
// categories. Unknown names are kept as typed and simply yield an empty deck.
func matchCategory(categories []string, name string) string {
	for _, c := range categories {
		if strings.EqualFold(c, name) {
			return c
		}
	}
	return name
}

func nextLanguage(l models.Language) models.Language {
	switch l {
	case models.LangES:
		return models.LangEN
	case models.LangEN:
		return models.LangBoth
	default:
		return models.LangES
	}
}

func (h *StudyHandler) handleReset(scanner *bufio.Scanner) {
	h.print(pterm.Warning.Sprint(MsgResetConfirm))
	if !scanner.Scan() || strings.TrimSpace(strings.ToLower(scanner.Text())) != "yes" {
		h.print(MsgResetAborted)
		return
	}
	h.loop.Do(h.trainer.ResetProgress)
	h.print(pterm.Success.Sprint(MsgResetDone))
	h.showCard()
}

func (h *StudyHandler) handleSpeak(ctx context.Context) {
	if h.speaker == nil {
		h.print(pterm.Warning.Sprint("Audio is not available."))
		return
	}

	var item models.Item
	var lang models.Language
	h.loop.Do(func() {
		item = h.trainer.Controller().Current()
		lang = h.trainer.Preferences().Get().Language
	})
	if item == nil {
		h.respondWithError(service.ErrNoCurrentItem, "")
		return
	}

	paths, err := h.speaker.GenerateCardAudio(ctx, item, lang)
	if err != nil {
		h.respondWithError(err, "Failed to generate card audio")
		return
	}
	for _, p := range paths {
		h.print(pterm.Info.Sprintf("Audio saved to %s", p))
	}
}

func (h *StudyHandler) showCard() {
	var v CardViewData
	h.loop.Do(func() { v = NewCardViewData(h.trainer) })
	h.print(renderCard(v))
}

func (h *StudyHandler) showProgress() {
	var v ProgressViewData
	h.loop.Do(func() { v = NewProgressViewData(h.trainer) })
	out, err := renderProgress(v)
	if err != nil {
		h.respondWithError(err, "Failed to render progress")
		return
	}
	h.print(out)
}
