package util

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

const (
	MimeJSON      = "application/json"
	MimeTextPlain = "text/plain"
)

// AllowedImportMimeTypes are accepted for uploaded dataset files. JSON is
// sniffed as plain text.
var AllowedImportMimeTypes = []string{MimeTextPlain, MimeJSON}
