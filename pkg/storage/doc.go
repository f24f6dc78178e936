// Package storage provides URI-addressed file storage with local-disk and
// S3-compatible backends.
//
// Files are addressed by stream URIs of the form scheme://path, where the
// scheme selects a storage area:
//
//	public://emailed_pdfs/Annual Report.pdf
//	private://exports/2024/q1.csv
//	temporary://render/abc.html
//
// On local disk each scheme maps to its own root directory. In S3 each scheme
// becomes the first segment of the object key within a single bucket.
//
// # Basic Usage
//
//	store, err := storage.Open(storage.Config{
//		Driver: storage.DriverLocal,
//		Local: storage.LocalConfig{
//			PublicDir:  "/var/lib/pdfmail/public",
//			PrivateDir: "/var/lib/pdfmail/private",
//		},
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Make sure the destination folder exists and is writable.
//	err = store.EnsureDir(ctx, "public://emailed_pdfs",
//		storage.CreateDirectory|storage.ModifyPermissions)
//
//	// Write a file. An existing file at the same URI is replaced.
//	info, err := store.Put(ctx, "public://emailed_pdfs/report.pdf",
//		bytes.NewReader(blob), int64(len(blob)),
//		storage.WithContentType("application/pdf"),
//	)
//
//	// Delete is idempotent: a missing file is not an error.
//	err = store.Delete(ctx, info.URI)
//
// # Sweeping
//
// Backends that can enumerate their own files implement Sweeper:
//
//	if sw, ok := store.(storage.Sweeper); ok {
//		removed, err := sw.CleanupOlderThan(ctx, "public://emailed_pdfs", 24*time.Hour)
//	}
//
// # Configuration
//
// Config carries env tags and can be parsed with caarlos0/env:
//
//	STORAGE_DRIVER          local | s3 (default: local)
//	STORAGE_PUBLIC_DIR      root for public:// (default: ./var/public)
//	STORAGE_PRIVATE_DIR     root for private:// (default: ./var/private)
//	STORAGE_TEMPORARY_DIR   root for temporary:// (default: OS temp dir)
//	S3_BUCKET, S3_ACCESS_KEY, S3_SECRET_KEY, S3_ENDPOINT, S3_REGION, S3_PATH_STYLE
package storage
