// Package mergepdf merges PDF documents into one, stamping every page with
// the name of the file it came from.
//
// # Quick Start
//
// Merge two files with the default watermark:
//
//	res, err := mergepdf.Merge(ctx, []string{"a.pdf", "b.pdf"}, "merged.pdf")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.Pages, "pages written")
//
// Every page of a.pdf carries "Source: a.pdf" in its bottom-right corner,
// followed by every page of b.pdf carrying "Source: b.pdf".
//
// # Merge Pipeline
//
// For each input, in order:
//
//  1. The label is the base name of the input path.
//  2. The file is read into memory and parsed.
//  3. One overlay is rendered for the document's first page geometry.
//  4. The overlay is composited on top of every page.
//
// The stamped pages are then written once, to a temporary file next to the
// output, which is renamed over the output path. A failure at any step
// leaves no output behind and an existing output untouched.
//
// # Configuration
//
// Use functional options to customize the merger:
//
//	m, err := mergepdf.NewMerger(
//	    mergepdf.WithStyle(&mergepdf.Style{Prefix: "From: ", FontSize: 8, Margin: 12, Gray: 0.3}),
//	    mergepdf.WithGeometryPolicy(mergepdf.GeometryPerPage),
//	    mergepdf.WithCompression(6),
//	)
//
// # Error Handling
//
// Input failures are returned as *InputError and output failures as
// *OutputError. Both unwrap to sentinel errors:
//
//	_, err := mergepdf.Merge(ctx, inputs, "out.pdf")
//	var inErr *mergepdf.InputError
//	switch {
//	case errors.As(err, &inErr) && errors.Is(err, mergepdf.ErrInputNotFound):
//	    fmt.Println("missing:", inErr.Path)
//	case errors.Is(err, mergepdf.ErrOutputWrite):
//	    fmt.Println("cannot write output")
//	}
package mergepdf
