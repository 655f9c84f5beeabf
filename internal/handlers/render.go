package handlers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pterm/pterm"

	"civicstrainer/internal/models"
)

// palette holds the colors of one theme
type palette struct {
	prompt pterm.Color
	text   pterm.Color
	muted  pterm.Color
	accent pterm.Color
}

func paletteFor(dark bool) palette {
	if dark {
		return palette{
			prompt: pterm.FgLightWhite,
			text:   pterm.FgWhite,
			muted:  pterm.FgGray,
			accent: pterm.FgLightCyan,
		}
	}
	return palette{
		prompt: pterm.FgLightBlue,
		text:   pterm.FgDefault,
		muted:  pterm.FgGray,
		accent: pterm.FgCyan,
	}
}

func renderCard(v CardViewData) string {
	p := paletteFor(v.DarkTheme)
	var b strings.Builder

	switch {
	case v.Loading:
		b.WriteString(p.muted.Sprint(MsgLoading))
		return b.String()
	case v.Empty:
		if v.LoadFailed {
			b.WriteString(pterm.Warning.Sprintln(MsgLoadFailed))
		}
		b.WriteString(pterm.DefaultSection.Sprint(MsgNoCards))
		b.WriteString(p.muted.Sprint(MsgNoCardsHint))
		return b.String()
	}

	b.WriteString(pterm.DefaultSection.Sprintf("#%s · %s    %d/%d", v.DisplayID, v.Category, v.Position, v.DeckSize))
	for _, line := range v.Prompt {
		b.WriteString(p.prompt.Sprintln(line))
	}
	b.WriteString(p.muted.Sprintln(strings.Repeat("─", 40)))

	if v.IsChoice {
		for _, o := range v.Options {
			b.WriteString(optionColor(o.Mark, p).Sprintf("%d. %s%s\n", o.Number, o.Text, markSuffix(o.Mark)))
		}
		if v.Answered {
			b.WriteString(p.accent.Sprintln(MsgNextHint))
		}
	} else {
		if v.ShowAnswer {
			b.WriteString(p.muted.Sprintln("Respuesta / Answer"))
			for _, line := range v.Answer {
				b.WriteString(p.text.Sprintln(line))
			}
		} else {
			b.WriteString(p.muted.Sprintln(MsgRevealHint))
		}
		if v.PendingAdvance {
			b.WriteString(p.accent.Sprintln(MsgNextHint))
		}
	}

	if v.Stats != nil {
		last := string(v.Stats.Last)
		if last == "" {
			last = "-"
		}
		b.WriteString(p.muted.Sprintf("This card: ✅ %d · ❌ %d · last: %s", v.Stats.Right, v.Stats.Wrong, last))
	}
	return b.String()
}

func optionColor(m OptionMark, p palette) pterm.Color {
	switch m {
	case MarkChosenRight, MarkCorrect:
		return pterm.FgGreen
	case MarkChosenWrong:
		return pterm.FgRed
	default:
		return p.text
	}
}

func markSuffix(m OptionMark) string {
	switch m {
	case MarkChosenRight:
		return "  ✅"
	case MarkChosenWrong:
		return "  ❌"
	case MarkCorrect:
		return "  ← correct"
	default:
		return ""
	}
}

func renderProgress(v ProgressViewData) (string, error) {
	var b strings.Builder

	b.WriteString(pterm.DefaultSection.Sprint("Progress"))
	b.WriteString(fmt.Sprintf("Mode: %s · Order: %s · Language: %s · Category: %s\n",
		v.Prefs.Mode, v.Prefs.Order, v.Prefs.Language, v.Prefs.Category))
	b.WriteString(fmt.Sprintf("Right: %d · Wrong: %d · Seen: %d/%d · Remaining in deck: %d\n",
		v.Totals.Right, v.Totals.Wrong, v.Totals.Seen, v.Totals.Total, v.DeckSize))
	b.WriteString(fmt.Sprintf("%s: %d/%d mastered (%d%%)\n",
		v.Prefs.Category, v.Current.Mastered, v.Current.Total, v.Current.Percent()))

	data := pterm.TableData{{"", "Category", "Cards", "Mastered", "%"}}
	for _, row := range v.Categories {
		marker := ""
		if row.Selected {
			marker = "›"
		}
		name := row.Name
		if row.Tally.Complete() {
			name += " ✓"
		}
		data = append(data, []string{
			marker,
			name,
			strconv.Itoa(row.Count),
			fmt.Sprintf("%d/%d", row.Tally.Mastered, row.Tally.Total),
			strconv.Itoa(row.Tally.Percent()),
		})
	}
	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return "", err
	}
	b.WriteString(table)
	return b.String(), nil
}

func renderHelp() string {
	rows := [][2]string{
		{CmdReveal, "reveal or hide the answer"},
		{CmdRight + " / " + CmdWrong, "mark the answer right or wrong"},
		{"1..n", "choose an option"},
		{CmdNext, "go to the next card (Enter works too)"},
		{CmdShuffle, "rebuild the deck without mastered cards"},
		{CmdCategory + " [name]", "list categories or switch to one"},
		{CmdOrder + " [" + string(models.OrderShuffle) + "|" + string(models.OrderInOrder) + "]", "toggle or set the order"},
		{CmdMode + " [" + string(models.ModeShort) + "|" + string(models.ModeMCQ) + "]", "toggle or set the mode"},
		{CmdLang + " [es|en|both]", "cycle or set the language"},
		{CmdDark, "toggle the dark theme"},
		{CmdStats, "show progress"},
		{CmdSpeak, "read the question aloud"},
		{CmdReset, "forget all answers"},
		{CmdQuit, "leave"},
	}
	var b strings.Builder
	b.WriteString(pterm.DefaultSection.Sprint("Commands"))
	for _, r := range rows {
		b.WriteString(fmt.Sprintf("  %-24s %s\n", r[0], r[1]))
	}
	return b.String()
}
