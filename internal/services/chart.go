package services

import (
	"bytes"
	"context"
	"fmt"
	"image/color"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/yungbote/careercoach-backend/internal/platform/logger"
)

const (
	chartWidth     = 800
	chartRowHeight = 56
	chartHeader    = 90
	chartPadding   = 32
	chartLabelW    = 260
)

var (
	chartBackground = color.NRGBA{R: 0xFA, G: 0xFA, B: 0xF7, A: 0xFF}
	chartTrack      = color.NRGBA{R: 0xE4, G: 0xE4, B: 0xDE, A: 0xFF}
	chartFill       = color.NRGBA{R: 0x2E, G: 0x7D, B: 0x5B, A: 0xFF}
	chartText       = color.NRGBA{R: 0x22, G: 0x22, B: 0x22, A: 0xFF}
)

type ChartService interface {
	// ProgressChart renders per-phase completion of the latest plan as a PNG.
	ProgressChart(ctx context.Context, targetRole string) ([]byte, error)
}

type chartService struct {
	log      *logger.Logger
	progress ProgressService

	once      sync.Once
	titleFace font.Face
	bodyFace  font.Face
	fontErr   error
}

func NewChartService(log *logger.Logger, progress ProgressService) ChartService {
	return &chartService{
		log:      log.With("service", "ChartService"),
		progress: progress,
	}
}

func (cs *chartService) faces() (font.Face, font.Face, error) {
	cs.once.Do(func() {
		parsed, err := truetype.Parse(goregular.TTF)
		if err != nil {
			cs.fontErr = fmt.Errorf("failed to parse TTF: %w", err)
			return
		}
		cs.titleFace = truetype.NewFace(parsed, &truetype.Options{Size: 26, DPI: 72, Hinting: font.HintingNone})
		cs.bodyFace = truetype.NewFace(parsed, &truetype.Options{Size: 17, DPI: 72, Hinting: font.HintingNone})
	})
	return cs.titleFace, cs.bodyFace, cs.fontErr
}

func (cs *chartService) ProgressChart(ctx context.Context, targetRole string) ([]byte, error) {
	summary, err := cs.progress.Summary(ctx, targetRole, 0)
	if err != nil {
		return nil, err
	}
	title, body, err := cs.faces()
	if err != nil {
		return nil, err
	}

	rows := len(summary.Phases)
	if rows == 0 {
		rows = 1
	}
	height := chartHeader + rows*chartRowHeight + chartPadding
	dc := gg.NewContext(chartWidth, height)

	dc.SetColor(chartBackground)
	dc.DrawRectangle(0, 0, chartWidth, float64(height))
	dc.Fill()

	dc.SetFontFace(title)
	dc.SetColor(chartText)
	heading := "Learning progress"
	if summary.TargetRole != "" {
		heading += ": " + summary.TargetRole
	}
	dc.DrawStringAnchored(heading, chartPadding, 44, 0, 0.5)

	dc.SetFontFace(body)
	dc.DrawStringAnchored(
		fmt.Sprintf("%d of %d modules complete (%d%%)", summary.CompletedModules, summary.TotalModules, summary.OverallPercent),
		chartPadding, 74, 0, 0.5,
	)

	if len(summary.Phases) == 0 {
		dc.DrawStringAnchored("No learning plan yet.", chartPadding, chartHeader+chartRowHeight/2, 0, 0.5)
	}
	barX := float64(chartPadding + chartLabelW)
	barW := float64(chartWidth - chartPadding*2 - chartLabelW - 60)
	for i, ph := range summary.Phases {
		y := float64(chartHeader + i*chartRowHeight)
		mid := y + chartRowHeight/2

		dc.SetColor(chartText)
		label := fmt.Sprintf("Phase %d: %s", ph.Position, ph.Title)
		dc.DrawStringAnchored(ellipsize(dc, label, chartLabelW-12), chartPadding, mid, 0, 0.5)

		dc.SetColor(chartTrack)
		dc.DrawRoundedRectangle(barX, mid-10, barW, 20, 10)
		dc.Fill()
		if ph.Percent > 0 {
			dc.SetColor(chartFill)
			dc.DrawRoundedRectangle(barX, mid-10, barW*float64(ph.Percent)/100, 20, 10)
			dc.Fill()
		}
		dc.SetColor(chartText)
		dc.DrawStringAnchored(fmt.Sprintf("%d%%", ph.Percent), barX+barW+12, mid, 0, 0.5)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

func ellipsize(dc *gg.Context, s string, maxW float64) string {
	if w, _ := dc.MeasureString(s); w <= maxW {
		return s
	}
	r := []rune(s)
	for len(r) > 1 {
		r = r[:len(r)-1]
		cand := string(r) + "…"
		if w, _ := dc.MeasureString(cand); w <= maxW {
			return cand
		}
	}
	return string(r)
}
