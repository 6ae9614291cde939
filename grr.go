//go:build gui

package main

import (
	"fmt"
	"image/color"
	"strings"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"github.com/metcalfc/jrr/internal/chunk"
	"github.com/metcalfc/jrr/internal/playback"
	"github.com/metcalfc/jrr/internal/reader"
	"github.com/metcalfc/jrr/internal/source"
)

var showTOC bool

func init() {
	rootCmd.Flags().BoolVar(&showTOC, "toc", false, "Show table of contents at startup")
}

// tocEntry is a section with the chunk it starts at.
type tocEntry struct {
	source.Section
	Index   int
	Preview string
}

func buildTOC(r *reader.Reader, sections []source.Section) []tocEntry {
	chunks := r.Chunks()
	toc := make([]tocEntry, 0, len(sections))
	for _, s := range sections {
		i := r.ChunkIndexAt(s.Offset)
		var preview strings.Builder
		for j := i; j < len(chunks) && j < i+8; j++ {
			preview.WriteString(chunks[j].Surface)
		}
		toc = append(toc, tocEntry{Section: s, Index: i, Preview: preview.String()})
	}
	return toc
}

// frameView is what the window shows, copied out of the reader under the
// driver's lock.
type frameView struct {
	surface  string
	current  int
	total    int
	rate     float64
	grouping chunk.GroupingConfig
	elapsed  time.Duration
	playing  bool
}

type gui struct {
	r          *reader.Reader
	drv        *playback.Driver
	log        *zap.Logger
	toc        []tocEntry
	fontSize   float32
	tocVisible bool
	finished   bool
}

func (g *gui) view() frameView {
	var v frameView
	g.drv.Do(func() {
		v = frameView{
			surface:  g.r.CurrentChunk().Surface,
			rate:     g.r.Rate(),
			grouping: g.r.Grouping(),
			elapsed:  g.r.Elapsed(),
			playing:  g.r.IsPlaying(),
		}
		v.current, v.total = g.r.Progress()
	})
	return v
}

// regroup rebuilds the chunks and refreshes the table of contents, whose
// chunk indices change with the grouping.
func (g *gui) regroup(next func(chunk.GroupingConfig) chunk.GroupingConfig) {
	g.drv.Do(func() {
		cfg := next(g.r.Grouping())
		if regroup(g.r, cfg) {
			g.toc = buildTOC(g.r, sectionsOf(g.toc))
			g.log.Debug("grouping changed", zap.Stringer("grouping", cfg))
		}
	})
}

func sectionsOf(toc []tocEntry) []source.Section {
	out := make([]source.Section, len(toc))
	for i, e := range toc {
		out[i] = e.Section
	}
	return out
}

func statusText(v frameView, fontSize float32, finished bool) string {
	s := fmt.Sprintf("Chunk %d/%d | %.0f CPM | %s | %s | Font: %.0f",
		v.current, v.total, v.rate, v.grouping, formatElapsed(v.elapsed), fontSize)
	switch {
	case finished:
		s += " [COMPLETE]"
	case !v.playing:
		s += " [PAUSED]"
	}
	return s
}

func createChunkDisplay(surface string, fontSize float32, windowWidth float32) *fyne.Container {
	before, focus, after := reader.SplitFocus(surface)

	beforeText := canvas.NewText(before, color.White)
	beforeText.TextSize = fontSize
	beforeText.TextStyle.Bold = true

	focusText := canvas.NewText(focus, color.RGBA{R: 255, G: 0, B: 0, A: 255})
	focusText.TextSize = fontSize
	focusText.TextStyle.Bold = true

	afterText := canvas.NewText(after, color.White)
	afterText.TextSize = fontSize
	afterText.TextStyle.Bold = true

	// Anchor the focus character at the centre
	centerX := windowWidth / 2
	beforeX := max(0, centerX-beforeText.MinSize().Width)
	afterX := centerX + focusText.MinSize().Width

	c := &fyne.Container{
		Layout:  &centerVerticalLayout{},
		Objects: []fyne.CanvasObject{beforeText, focusText, afterText},
	}

	beforeText.Move(fyne.NewPos(beforeX, 0))
	focusText.Move(fyne.NewPos(centerX, 0))
	afterText.Move(fyne.NewPos(afterX, 0))

	return c
}

// centerVerticalLayout centres its objects vertically and keeps the X
// positions they were given.
type centerVerticalLayout struct{}

func (l *centerVerticalLayout) MinSize(objects []fyne.CanvasObject) fyne.Size {
	return fyne.NewSize(0, maxHeight(objects))
}

func (l *centerVerticalLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	y := max(0, (size.Height-maxHeight(objects))/2)
	for _, o := range objects {
		o.Move(fyne.NewPos(o.Position().X, y))
		o.Resize(o.MinSize())
	}
}

func maxHeight(objects []fyne.CanvasObject) float32 {
	var h float32
	for _, o := range objects {
		h = max(h, o.MinSize().Height)
	}
	return h
}

func runReader(s *session) error {
	g := &gui{
		r:        s.reader,
		log:      s.log,
		fontSize: 72,
	}
	g.toc = buildTOC(s.reader, s.doc.Sections)
	g.tocVisible = showTOC && len(g.toc) > 0

	a := app.New()
	w := a.NewWindow("jrr - Speed Reader")

	statusLabel := widget.NewLabel("")
	statusLabel.Alignment = fyne.TextAlignCenter

	tocHint := ""
	if len(g.toc) > 0 {
		tocHint = "  T: TOC"
	}
	controlsLabel := widget.NewLabel("SPACE: pause  ↑/↓: speed  +/-: font  ←/→: sentence  M: mode  [/]: length  R: restart" + tocHint + "  F: fullscreen  Q: quit")
	controlsLabel.Alignment = fyne.TextAlignCenter

	chunkContainer := container.NewStack()

	updateDisplay := func() {
		v := g.view()
		canvasWidth := w.Canvas().Size().Width
		if canvasWidth <= 0 {
			canvasWidth = 800
		}
		chunkContainer.Objects = []fyne.CanvasObject{createChunkDisplay(v.surface, g.fontSize, canvasWidth)}
		chunkContainer.Refresh()
		statusLabel.SetText(statusText(v, g.fontSize, g.finished))
	}

	g.drv = playback.NewDriver(g.r, s.cfg.FrameRate, func(ev playback.Event) {
		if ev == playback.EventNone {
			return
		}
		fyne.Do(func() {
			if ev == playback.EventFinished {
				g.finished = true
				g.log.Info("reading complete")
			}
			updateDisplay()
		})
	})

	readingContent := container.NewBorder(statusLabel, controlsLabel, nil, nil, chunkContainer)

	var tocPanel *container.Split
	var tocList *widget.List
	mainContainer := container.NewStack(readingContent)

	if len(g.toc) > 0 {
		tocList = widget.NewList(
			func() int { return len(g.toc) },
			func() fyne.CanvasObject {
				return container.NewVBox(widget.NewLabel("Title"), widget.NewLabel("Preview"))
			},
			func(id widget.ListItemID, obj fyne.CanvasObject) {
				entry := g.toc[id]
				vbox := obj.(*fyne.Container)
				titleLabel := vbox.Objects[0].(*widget.Label)
				previewLabel := vbox.Objects[1].(*widget.Label)

				indent := strings.Repeat("  ", entry.Level)
				titleLabel.SetText(indent + entry.Title)
				titleLabel.TextStyle.Bold = true
				previewLabel.SetText(indent + entry.Preview + "…")
			},
		)

		tocContainer := container.NewBorder(
			widget.NewLabel("Table of Contents"),
			widget.NewLabel("Click to jump • T to close"),
			nil, nil,
			tocList,
		)
		tocPanel = container.NewHSplit(tocContainer, readingContent)
		tocPanel.Offset = 0.33
		if !g.tocVisible {
			tocContainer.Hide()
		}

		tocList.OnSelected = func(id widget.ListItemID) {
			if id < len(g.toc) {
				index := g.toc[id].Index
				g.drv.Do(func() { g.r.Seek(index) })
				g.finished = false
				g.tocVisible = false
				tocPanel.Leading.Hide()
				tocPanel.Refresh()
				updateDisplay()
			}
		}

		mainContainer = container.NewStack(tocPanel)
	}

	w.Canvas().SetOnTypedKey(func(key *fyne.KeyEvent) {
		switch key.Name {
		case fyne.KeySpace:
			g.finished = false
			g.drv.Toggle()
		case fyne.KeyUp:
			g.drv.Do(func() { g.r.SetRate(stepRate(g.r.Rate(), rateStep)) })
		case fyne.KeyDown:
			g.drv.Do(func() { g.r.SetRate(stepRate(g.r.Rate(), -rateStep)) })
		case fyne.KeyLeft:
			g.drv.Do(g.r.JumpToPrevSentence)
		case fyne.KeyRight:
			g.drv.Do(g.r.JumpToNextSentence)
		case fyne.KeyF:
			w.SetFullScreen(!w.FullScreen())
			return
		case fyne.KeyQ:
			g.drv.Stop()
			a.Quit()
			return
		default:
			return
		}
		updateDisplay()
	})

	w.Canvas().SetOnTypedRune(func(r rune) {
		switch r {
		case 't', 'T':
			if tocPanel == nil {
				return
			}
			g.tocVisible = !g.tocVisible
			if g.tocVisible {
				g.drv.Stop()
				tocList.Refresh()
				tocPanel.Leading.Show()
			} else {
				tocPanel.Leading.Hide()
			}
			tocPanel.Refresh()
		case 'r', 'R':
			g.drv.Do(func() { g.r.Seek(0) })
			g.finished = false
		case 'm', 'M':
			g.regroup(toggleMode)
		case ']':
			g.regroup(func(c chunk.GroupingConfig) chunk.GroupingConfig { return stepMaxLength(c, 1) })
		case '[':
			g.regroup(func(c chunk.GroupingConfig) chunk.GroupingConfig { return stepMaxLength(c, -1) })
		case '+', '=':
			g.fontSize = min(200, g.fontSize+5)
		case '-':
			g.fontSize = max(20, g.fontSize-5)
		default:
			return
		}
		updateDisplay()
	})

	w.Resize(fyne.NewSize(800, 600))
	w.SetContent(mainContainer)

	done := make(chan struct{})
	var closeOnce sync.Once
	shutdown := func() {
		closeOnce.Do(func() {
			close(done)
			g.drv.Stop()
		})
	}

	// Pause and redraw when the window width changes
	go func() {
		lastWidth := float32(800)
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				width := w.Canvas().Size().Width
				if width > 0 && width != lastWidth {
					lastWidth = width
					g.drv.Stop()
					fyne.Do(updateDisplay)
				}
			}
		}
	}()

	w.SetOnClosed(shutdown)

	go func() {
		time.Sleep(100 * time.Millisecond)
		fyne.Do(updateDisplay)
	}()

	w.ShowAndRun()
	shutdown()
	return nil
}
