package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dgnsrekt/speakhost/internal/speech"
	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/text/language"
)

var voicesCmd = &cobra.Command{
	Use:   "voices [FILTER]",
	Short: "List the voices of the speech engine",
	Long: paragraph(fmt.Sprintf("\n%s the voices the selected engine offers, fuzzy filtered by FILTER. "+
		"Voices marked with * can be picked when random voices are on.", keyword("List"))),
	Example: paragraph("speakhost voices\nspeakhost voices --engine espeak en-gb"),
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		synth, err := newEngine()
		if err != nil {
			return err
		}
		defer synth.Close() //nolint:errcheck

		voices, err := synth.Voices(cmd.Context())
		if err != nil {
			return fmt.Errorf("unable to list voices: %w", err)
		}
		allowed, err := speech.ParseLocales(viper.GetStringSlice("voices.allowed"))
		if err != nil {
			return err
		}

		var pattern string
		if len(args) > 0 {
			pattern = args[0]
		}
		voices = filterVoices(voices, pattern)
		if len(voices) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), subtle("No voices found."))
			return nil
		}

		fmt.Fprintln(cmd.OutOrStdout(), voicesTable(voices, allowed))
		return nil
	},
}

// voiceSource lets fuzzy search voices by ID, name and language.
type voiceSource []speech.Voice

func (v voiceSource) String(i int) string {
	return v[i].ID + " " + v[i].Name + " " + v[i].Language
}

func (v voiceSource) Len() int { return len(v) }

// filterVoices returns the voices matching pattern, best match first. An
// empty pattern keeps every voice in order.
func filterVoices(voices []speech.Voice, pattern string) []speech.Voice {
	if pattern == "" {
		return voices
	}
	matches := fuzzy.FindFrom(pattern, voiceSource(voices))
	out := make([]speech.Voice, len(matches))
	for i, m := range matches {
		out[i] = voices[m.Index]
	}
	return out
}

func voicesTable(voices []speech.Voice, allowed []language.Tag) string {
	rows := make([][]string, len(voices))
	for i, v := range voices {
		mark := ""
		if speech.LocaleAllowed(v.Language, allowed) {
			mark = "*"
		}
		rows[i] = []string{mark, v.ID, v.Name, v.Language}
	}

	return table.New().
		Border(lipgloss.HiddenBorder()).
		Headers("", "ID", "NAME", "LANGUAGE").
		Rows(rows...).
		String()
}
