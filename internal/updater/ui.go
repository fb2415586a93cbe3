package updater

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/creativeprojects/go-selfupdate"
	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"

	"jdkfetch/internal/theme"
)

// Choices offered by Prompt
const (
	ActionUpdate = "update"
	ActionSkip   = "skip"
	ActionLater  = "later"
)

// Prompt asks whether release should be installed and returns one of the
// Action constants. Choosing ActionSkip is persisted.
func (u *Updater) Prompt(release *selfupdate.Release) (string, error) {
	description := fmt.Sprintf("Download size: %s\n\n%s",
		humanize.IBytes(uint64(release.AssetByteSize)),
		releaseNotes(release.ReleaseNotes, 400))

	var action string
	err := huh.NewSelect[string]().
		Title(theme.Subtitle.Render(fmt.Sprintf("jdkfetch %s is available (running %s)", release.Version(), u.current))).
		Description(theme.Faint.Render(description)).
		Options(
			huh.NewOption(theme.SuccessStyle.Render("Update now"), ActionUpdate),
			huh.NewOption(theme.InfoStyle.Render("Skip this version"), ActionSkip),
			huh.NewOption(theme.WarningStyle.Render("Remind me later"), ActionLater),
		).
		Value(&action).
		Run()
	if err != nil {
		return "", err
	}

	if action == ActionSkip {
		if err := u.Skip(release.Version()); err != nil {
			log.Warn().Err(err).Msg("failed to save skip preference")
		}
	}
	return action, nil
}

// Notice writes a one-line hint that latest can be installed
func Notice(w io.Writer, current, latest string) {
	fmt.Fprintf(w, "\n%s jdkfetch %s is available (running %s) %s\n",
		theme.InfoStyle.Render("ℹ"),
		theme.CurrentStyle.Render(latest),
		theme.Faint.Render(current),
		theme.Faint.Render("run 'jdkfetch update'"))
}

// Updated reports a finished self update
func Updated(w io.Writer, version string) {
	fmt.Fprintln(w, theme.SuccessBox.Render(theme.SuccessStyle.Render("✓ Updated to jdkfetch "+version)))
	fmt.Fprintln(w, theme.Faint.Render("The new version is used from the next invocation."))
}

// UpToDate reports that no newer release is offered
func UpToDate(w io.Writer, version string) {
	fmt.Fprintln(w, theme.SuccessMessage(fmt.Sprintf("jdkfetch %s is the latest version", version)))
}

// releaseNotes trims notes to at most limit bytes, cutting at a line or word
// boundary in the second half when there is one
func releaseNotes(notes string, limit int) string {
	notes = strings.TrimSpace(notes)
	if notes == "" {
		return "No release notes published."
	}
	if len(notes) <= limit {
		return notes
	}

	cut := notes[:limit]
	if i := strings.LastIndexAny(cut, "\n "); i > limit/2 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " \n") + "..."
}
