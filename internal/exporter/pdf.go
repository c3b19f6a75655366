package exporter

import (
	"fmt"
	"log/slog"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgpdf"

	"aetdeficit/internal/charts"
	apperrors "aetdeficit/internal/errors"
)

// PlotFileName returns the output file name of a figure. It is a pure
// function of its inputs, so re-running a report overwrites rather than
// duplicates its files.
func PlotFileName(vegCode, periodLabel string) string {
	return vegCode + "_" + periodLabel + ".pdf"
}

// PDFWriter renders figures and writes them as single-page PDF files.
type PDFWriter struct {
	width  vg.Length
	height vg.Length
	logger *slog.Logger
}

// NewPDFWriter creates a writer for figures of the given size in inches.
func NewPDFWriter(widthInches, heightInches float64, logger *slog.Logger) *PDFWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &PDFWriter{
		width:  vg.Length(widthInches) * vg.Inch,
		height: vg.Length(heightInches) * vg.Inch,
		logger: logger,
	}
}

// Export renders fig and writes it to path.
func (w *PDFWriter) Export(fig charts.Figure, path string) error {
	p, err := charts.Render(fig)
	if err != nil {
		return err
	}
	return w.Write(p, path)
}

// Write draws p onto a PDF canvas and saves it to path, replacing any
// existing file.
func (w *PDFWriter) Write(p *plot.Plot, path string) error {
	if err := removeExisting(path); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("remove existing %s", path), err)
	}

	c := vgpdf.New(w.width, w.height)
	p.Draw(draw.New(c))

	file, err := os.Create(path)
	if err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("create %s", path), err)
	}

	n, err := c.WriteTo(file)
	if err != nil {
		file.Close()
		return apperrors.NewStorageError(fmt.Sprintf("write %s", path), err)
	}
	if err := file.Close(); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("close %s", path), err)
	}

	w.logger.Debug("Wrote PDF",
		slog.String("path", path),
		slog.Int64("bytes", n))
	return nil
}

func removeExisting(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	return os.Remove(path)
}
