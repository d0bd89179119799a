// Package storage provides a uniform contract for storing, retrieving, and
// addressing binary content across interchangeable object-storage backends.
//
// The contract is five operations (Upload, Download, Delete, Exists,
// Metadata) plus ResolveURL, which turns a stored key into a fetchable URL.
// All failures carry one of the taxonomy codes from objkit/errors, so callers
// never handle backend-specific error shapes.
//
// # Backends
//
//   - storage/s3: Amazon S3 and S3-compatible services
//   - storage/minio: MinIO (and other S3-compatible stores via minio-go)
//   - storage/local: local filesystem for development and testing
//
// Backends implement the small Backend primitive set (put/get/delete/stat/
// sign) and register themselves with the factory. Import the ones you need:
//
//	import _ "github.com/objkit/objkit/storage/minio"
//
// # URL resolution
//
// When Config.PublicBaseURL is set, every URL is "{base}/{key}" and no
// signing round-trip ever happens; objects are assumed publicly readable.
// Otherwise URLs are backend-signed with a bounded time to live (default
// one hour, overridable per call on ResolveURL).
//
// # Configuration
//
//	storage:
//	  provider: "minio"
//	  endpoint: "localhost:9000"
//	  bucket: "uploads"
//	  public_base_url: ""   # empty means signed URLs
package storage
