// Package io reads and writes diagram documents and exported images.
//
// # Choosers
//
// Every operation asks a [Chooser] for its target path. An empty path means
// the user cancelled, which is reported as [FileResult.Canceled] and is not
// an error. The CLI and HTTP API use [FixedChooser] with a path taken from
// arguments or request bodies.
//
// # Documents
//
// [Open] reads UTF-8 diagram source. [Save] writes to the document's current
// path without asking; [SaveAs] always asks, suggesting [DefaultDocumentName]
// when the caller has no better name:
//
//	res, err := io.Save(ctx, chooser, source, currentPath)
//	if err != nil {
//	    fmt.Println(io.Notice(io.OpSave, err))
//	}
//
// # Export
//
// [Export] writes a rendered image. The payload is a data URI as produced by
// render.Result.DataURI, or bare base64:
//
//	res, err := io.Export(ctx, chooser, result.DataURI(), render.FormatPNG, "")
//
// Failures are coded errors (FILE_IO, FILE_NOT_FOUND, INVALID_INPUT,
// INVALID_PATH). They never affect render state.
package io
