package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// FileStatus represents the measuring state of a single file.
type FileStatus int

const (
	StatusQueued FileStatus = iota
	StatusMeasuring
	StatusComplete
	StatusError
)

// ProgressMsg reports decoding progress of one file.
type ProgressMsg struct {
	FileIndex int
	Progress  float64 // 0.0 to 1.0
	ShortTerm float64 // Current short-term loudness in LUFS
}

// FileStartMsg indicates a file has started measuring.
type FileStartMsg struct {
	FileIndex int
	FileName  string
}

// FileCompleteMsg indicates a file has finished measuring.
type FileCompleteMsg struct {
	FileIndex  int
	Integrated float64
	TruePeak   float64 // dBTP
	Error      error
}

// AllCompleteMsg indicates every file has been measured.
type AllCompleteMsg struct{}

// FileProgress tracks progress for a single file.
type FileProgress struct {
	InputPath string
	Status    FileStatus
	Progress  float64
	ShortTerm float64
	StartTime time.Time
	Elapsed   time.Duration

	Integrated float64
	TruePeak   float64
	Error      error
}

// Model is the Bubbletea model for the batch progress view.
type Model struct {
	Files          []FileProgress
	TotalFiles     int
	CompletedFiles int
	FailedFiles    int

	StartTime time.Time
	Done      bool
	Cancelled bool

	// cancel stops the batch when the user quits early.
	cancel func()

	Width  int
	Height int
}

// NewModel creates a UI model for the given input files.
func NewModel(inputFiles []string, cancel func()) Model {
	files := make([]FileProgress, len(inputFiles))
	for i, path := range inputFiles {
		files[i] = FileProgress{
			InputPath: path,
			Status:    StatusQueued,
		}
	}

	return Model{
		Files:      files,
		TotalFiles: len(inputFiles),
		StartTime:  time.Now(),
		cancel:     cancel,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.Cancelled = true
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height

	case FileStartMsg:
		if f := m.file(msg.FileIndex); f != nil {
			f.Status = StatusMeasuring
			f.StartTime = time.Now()
		}

	case ProgressMsg:
		if f := m.file(msg.FileIndex); f != nil {
			f.Progress = msg.Progress
			f.ShortTerm = msg.ShortTerm
			f.Elapsed = time.Since(f.StartTime)
		}

	case FileCompleteMsg:
		if f := m.file(msg.FileIndex); f != nil {
			f.Elapsed = time.Since(f.StartTime)
			if msg.Error != nil {
				f.Status = StatusError
				f.Error = msg.Error
				m.FailedFiles++
			} else {
				f.Status = StatusComplete
				f.Progress = 1
				f.Integrated = msg.Integrated
				f.TruePeak = msg.TruePeak
				m.CompletedFiles++
			}
		}

	case AllCompleteMsg:
		m.Done = true
		return m, tea.Quit
	}

	return m, nil
}

func (m *Model) file(index int) *FileProgress {
	if index < 0 || index >= len(m.Files) {
		return nil
	}
	return &m.Files[index]
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(primaryColor).
		Render("loudness-wav - EBU R128 loudness meter")
	subtitle := lipgloss.NewStyle().
		Foreground(mutedColor).
		Italic(true).
		Render(fmt.Sprintf("Measuring %d file(s)", m.TotalFiles))

	b.WriteString(title + "\n" + subtitle + "\n\n")

	for _, f := range m.Files {
		b.WriteString(renderFileEntry(f))
		b.WriteString("\n")
	}

	done := m.CompletedFiles + m.FailedFiles
	b.WriteString("\n")
	b.WriteString(KeyStyle.Render(fmt.Sprintf("%d/%d done, %d failed, %s elapsed",
		done, m.TotalFiles, m.FailedFiles, time.Since(m.StartTime).Round(time.Second))))
	b.WriteString("\n")
	if !m.Done {
		b.WriteString(KeyStyle.Render("Press q to cancel"))
		b.WriteString("\n")
	}

	return b.String()
}

// renderFileEntry renders a single file entry in the queue.
func renderFileEntry(f FileProgress) string {
	name := filepath.Base(f.InputPath)

	switch f.Status {
	case StatusComplete:
		icon := lipgloss.NewStyle().Foreground(okColor).Render("✓")
		return fmt.Sprintf(" %s %s  %s LUFS  %s dBTP", icon, name, formatLUFS(f.Integrated), formatLUFS(f.TruePeak))

	case StatusMeasuring:
		icon := lipgloss.NewStyle().Foreground(warnColor).Render("⚙")
		return fmt.Sprintf(" %s %s  %s  S %s LUFS", icon, name, renderProgressBar(f.Progress, progressBarWidth), formatLUFS(f.ShortTerm))

	case StatusError:
		icon := lipgloss.NewStyle().Foreground(errorColor).Render("✗")
		return fmt.Sprintf(" %s %s  %v", icon, name, f.Error)

	default:
		icon := lipgloss.NewStyle().Foreground(mutedColor).Render("·")
		return fmt.Sprintf(" %s %s", icon, name)
	}
}

// renderProgressBar renders a fixed-width bar for progress in [0, 1].
func renderProgressBar(progress float64, width int) string {
	progress = max(0, min(progress, 1))
	filled := int(progress * float64(width))
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + "]" +
		fmt.Sprintf(" %3.0f%%", progress*percentScale)
}
