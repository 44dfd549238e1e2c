// Package redact renders redaction output: the interactive selection
// overlay and the exported artifact.
//
// Both renderers are pure functions of (source pixels, detection list,
// style). The overlay is display-only and never mutates the session's
// source image; the compositor allocates a fresh raster at the source's
// native dimensions, so every unredacted pixel in the export is
// bit-identical to the source.
//
// # Compositing
//
// Selected regions are obscured in stored list order. The default mode
// fills with a color at an opacity in [0,1] using alpha-over
// compositing; overlapping semi-transparent fills therefore accumulate,
// which is an accepted property of partial opacity. Blur and pixelate
// modes rewrite region content instead and ignore opacity.
//
// # Serialization
//
// Exports are PNG-encoded regardless of the source format, named
// "redacted-<stem>.png" after the uploaded file. PNG keeps the
// unredacted pixels losslessly reproducible.
package redact
