package handlers

// Commands understood by the study handler
const (
	CmdReveal   = "r"
	CmdRight    = "y"
	CmdWrong    = "n"
	CmdNext     = "next"
	CmdShuffle  = "shuffle"
	CmdCategory = "cat"
	CmdOrder    = "order"
	CmdMode     = "mode"
	CmdLang     = "lang"
	CmdDark     = "dark"
	CmdStats    = "stats"
	CmdReset    = "reset"
	CmdSpeak    = "speak"
	CmdHelp     = "help"
	CmdQuit     = "quit"

	// CmdSelect is produced for a bare option number
	CmdSelect = "select"
)

const (
	MsgLoading      = "Loading questions…"
	MsgLoadFailed   = "Could not load the question bank."
	MsgNoCards      = "No cards found."
	MsgNoCardsHint  = `Try choosing "All" categories.`
	MsgRevealHint   = "Type r to reveal answers / Escribe r para ver las respuestas"
	MsgNextHint     = "Type next (or press Enter) for the next card"
	MsgResetConfirm = "Reset all right/wrong history? Type yes to confirm:"
	MsgResetDone    = "Progress reset."
	MsgResetAborted = "Reset cancelled."
	MsgGoodbye      = "¡Hasta luego!"
)
