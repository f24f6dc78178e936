// Package pdf turns printable pages into PDF files kept in storage.
//
// A Printer holds a registry of engines keyed by output format and a
// storage backend. SavePrintable lays the pages out as a single HTML
// document, sanitizes each body, renders it with the chosen engine and
// writes the result to a storage URI.
//
//	engine, err := pdf.NewChromedp(pdf.ChromedpConfig{Timeout: 30 * time.Second})
//	if err != nil {
//		return err
//	}
//	defer engine.Close()
//
//	printer := pdf.NewPrinter(store, pdf.WithEngine(engine))
//
//	eng, err := printer.Engine(pdf.FormatPDF)
//	if err != nil {
//		return err
//	}
//	doc, err := printer.SavePrintable(ctx, []pdf.Page{entity}, eng,
//		"public://emailed_pdfs/Report.pdf")
//	// doc.URI, doc.Blob
package pdf
