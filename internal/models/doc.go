// Package models defines domain entities for the upload macro.
//
// The package contains three categories of types:
//
// 1. Ledger entities: [Account] pairs platform credentials with an assigned
// asset folder and a durable uploaded_count quota counter.
//
// 2. Catalog entities: [CatalogEntry] describes one candidate video file with
// extracted artist/title metadata and a [Confidence] grade. Only high
// confidence entries with a title are ever eligible for upload.
//
// 3. History entities: [UploadRecord] marks one confirmed successful upload
// of a file by an account.
//
// Artist and title fields originate from an external extraction pipeline and
// may be absent, JSON null, or the literal string "null". [NullString]
// normalizes all of those to a single invalid state at the decoding boundary.
package models
