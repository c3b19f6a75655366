// Package exporter writes report artifacts to disk.
//
// PDFWriter renders a charts.Figure with gonum/plot and saves it as a PDF,
// replacing any file of the same name:
//
//	w := exporter.NewPDFWriter(10, 6, logger)
//	err := w.Export(fig, filepath.Join(outDir, exporter.PlotFileName("REDW", "Historic (1981-2010)")))
//
// CSVWriter is the general CSV writer (optional UTF-8 BOM for Excel), and
// WriteManifest uses it to record the outcome of every plot of a run.
package exporter
