package download

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"jdkfetch/internal/theme"
)

const padding = 2

type progressMsg struct {
	percent    float64
	downloaded int64
	speed      string
}

type progressErrMsg struct{ err error }

type downloadCompleteMsg struct{}

// ProgressModel is the Bubble Tea model for download progress
type ProgressModel struct {
	progress   progress.Model
	totalBytes int64
	downloaded int64
	speed      string
	err        error
	done       bool
}

func NewProgressModel(totalBytes int64) ProgressModel {
	prog := progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(40),
		progress.WithoutPercentage(),
	)

	return ProgressModel{
		progress:   prog,
		totalBytes: totalBytes,
		speed:      "0 B/s",
	}
}

func (m ProgressModel) Init() tea.Cmd {
	return nil
}

func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m, nil

	case progressMsg:
		if m.done {
			return m, nil
		}
		m.downloaded = msg.downloaded
		m.speed = msg.speed
		return m, m.progress.SetPercent(msg.percent)

	case downloadCompleteMsg:
		m.done = true
		return m, tea.Quit

	case progressErrMsg:
		m.err = msg.err
		return m, tea.Quit

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		return m, cmd

	default:
		return m, nil
	}
}

func (m ProgressModel) View() string {
	if m.err != nil {
		return theme.ErrorMessage("Error downloading: "+m.err.Error()) + "\n"
	}

	if m.done {
		return ""
	}

	pad := strings.Repeat(" ", padding)

	total := "?"
	if m.totalBytes > 0 {
		total = humanize.IBytes(uint64(m.totalBytes))
	}
	info := fmt.Sprintf("%s / %s (%.0f%%) - %s",
		humanize.IBytes(uint64(m.downloaded)), total, m.progress.Percent()*100, m.speed)

	return "\n" +
		pad + m.progress.View() + "\n" +
		pad + theme.Faint.Render(info) + "\n"
}

// progressWriter is an io.Writer that sends progress updates to Bubble Tea
type progressWriter struct {
	total      int64
	downloaded int64
	startTime  time.Time
	send       func(tea.Msg)
}

func newProgressWriter(total int64, program *tea.Program) *progressWriter {
	return &progressWriter{
		total:     total,
		startTime: time.Now(),
		send:      program.Send,
	}
}

func (pw *progressWriter) Write(p []byte) (int, error) {
	n := len(p)
	pw.downloaded += int64(n)

	if pw.send != nil {
		var percent float64
		if pw.total > 0 {
			percent = float64(pw.downloaded) / float64(pw.total)
		}
		pw.send(progressMsg{
			percent:    percent,
			downloaded: pw.downloaded,
			speed:      pw.speed(),
		})
	}

	return n, nil
}

// speed returns the average transfer rate since the writer was created
func (pw *progressWriter) speed() string {
	elapsed := time.Since(pw.startTime).Seconds()
	if elapsed <= 0 {
		return "0 B/s"
	}
	return humanize.IBytes(uint64(float64(pw.downloaded)/elapsed)) + "/s"
}
