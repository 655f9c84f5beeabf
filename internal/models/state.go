package models

import (
	"encoding/json"
	"errors"
)

// ErrMalformedState is returned when a persisted blob is not a JSON object
var ErrMalformedState = errors.New("malformed persisted state")

// PersistedState is everything the trainer keeps between runs
type PersistedState struct {
	Results map[string]ResultRow
	Prefs   Preferences
}

// NewPersistedState returns an empty ledger with default preferences
func NewPersistedState() PersistedState {
	return PersistedState{
		Results: make(map[string]ResultRow),
		Prefs:   DefaultPreferences(),
	}
}

type resultRowJSON struct {
	Right int     `json:"right"`
	Wrong int     `json:"wrong"`
	Last  *string `json:"last"`
}

type prefsJSON struct {
	Category string `json:"category"`
	Order    string `json:"order"`
	Mode     string `json:"mode"`
	Lang     string `json:"lang"`
	Dark     bool   `json:"dark"`
}

type stateJSON struct {
	Results map[string]resultRowJSON `json:"results"`
	Prefs   prefsJSON                `json:"prefs"`
}

// MarshalJSON writes the blob layout shared with the browser version of the trainer
func (s PersistedState) MarshalJSON() ([]byte, error) {
	out := stateJSON{
		Results: make(map[string]resultRowJSON, len(s.Results)),
		Prefs: prefsJSON{
			Category: s.Prefs.Category,
			Order:    string(s.Prefs.Order),
			Mode:     string(s.Prefs.Mode),
			Lang:     string(s.Prefs.Language),
			Dark:     s.Prefs.DarkTheme,
		},
	}
	for id, row := range s.Results {
		r := resultRowJSON{Right: row.Right, Wrong: row.Wrong}
		if row.Last != OutcomeNone {
			last := string(row.Last)
			r.Last = &last
		}
		out.Results[id] = r
	}
	return json.Marshal(out)
}

// DecodeState parses a persisted blob leniently.
// Individual rows or preference fields that do not parse are dropped and
// defaulted; only a blob that is not a JSON object at all is an error.
func DecodeState(data []byte) (PersistedState, error) {
	state := NewPersistedState()
	if len(data) == 0 {
		return state, ErrMalformedState
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil || top == nil {
		return state, ErrMalformedState
	}

	var rows map[string]json.RawMessage
	if raw, ok := top["results"]; ok && json.Unmarshal(raw, &rows) == nil {
		for id, rawRow := range rows {
			var r resultRowJSON
			if err := json.Unmarshal(rawRow, &r); err != nil {
				continue
			}
			if r.Right < 0 || r.Wrong < 0 {
				continue
			}
			row := ResultRow{Right: r.Right, Wrong: r.Wrong}
			if r.Last != nil {
				switch Outcome(*r.Last) {
				case OutcomeRight, OutcomeWrong:
					row.Last = Outcome(*r.Last)
				}
			}
			state.Results[id] = row
		}
	}

	var fields map[string]json.RawMessage
	if raw, ok := top["prefs"]; ok && json.Unmarshal(raw, &fields) == nil {
		p := state.Prefs
		decodeString(fields, "category", &p.Category)
		decodeString(fields, "order", (*string)(&p.Order))
		decodeString(fields, "mode", (*string)(&p.Mode))
		decodeString(fields, "lang", (*string)(&p.Language))
		if raw, ok := fields["dark"]; ok {
			var dark bool
			if json.Unmarshal(raw, &dark) == nil {
				p.DarkTheme = dark
			}
		}
		state.Prefs = p.Sanitize()
	}

	return state, nil
}

// decodeString overwrites dst only when the field is a non-null string
func decodeString(fields map[string]json.RawMessage, key string, dst *string) {
	raw, ok := fields[key]
	if !ok {
		return
	}
	var s *string
	if json.Unmarshal(raw, &s) == nil && s != nil {
		*dst = *s
	}
}
