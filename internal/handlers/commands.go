package handlers

import (
	"strconv"
	"strings"
)

// Command is one parsed line of learner input
type Command struct {
	Name string
	Arg  string
	// Option is the zero-based option index of a CmdSelect
	Option int
}

var knownCommands = map[string]bool{
	CmdReveal: true, CmdRight: true, CmdWrong: true, CmdNext: true,
	CmdShuffle: true, CmdCategory: true, CmdOrder: true, CmdMode: true,
	CmdLang: true, CmdDark: true, CmdStats: true, CmdReset: true,
	CmdSpeak: true, CmdHelp: true, CmdQuit: true,
}

// commandAliases maps alternative spellings to their command
var commandAliases = map[string]string{
	"reveal": CmdReveal,
	"right":  CmdRight,
	"wrong":  CmdWrong,
	"si":     CmdRight,
	"sí":     CmdRight,
	"":       CmdNext,
	"exit":   CmdQuit,
	"q":      CmdQuit,
	"?":      CmdHelp,
}

// ParseCommand splits a line into a command and its argument.
// A bare number selects that (one-based) option.
func ParseCommand(line string) (Command, error) {
	line = strings.TrimSpace(line)
	name, arg, _ := strings.Cut(line, " ")
	name = strings.ToLower(name)
	arg = strings.TrimSpace(arg)

	if n, err := strconv.Atoi(name); err == nil && arg == "" {
		return Command{Name: CmdSelect, Option: n - 1}, nil
	}
	if alias, ok := commandAliases[name]; ok {
		name = alias
	}
	if !knownCommands[name] {
		return Command{}, ErrUnknownCommand
	}
	return Command{Name: name, Arg: arg}, nil
}
