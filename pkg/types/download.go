package types

// Error kinds reported per item in a download batch.
const (
	ErrKindNotFound   = "NOT_FOUND"      // card missing from the catalog or the endpoint
	ErrKindBadPayload = "BAD_PAYLOAD"    // endpoint returned something that is not a PNG
	ErrKindDownload   = "DOWNLOAD_ERROR" // network failure, endpoint error, or import failure
)

// ItemResult is the outcome of one card in a batch download.
type ItemResult struct {
	Path       string `json:"path"`
	Name       string `json:"name,omitempty"`
	Bytes      int    `json:"bytes,omitempty"`
	SHA256     string `json:"sha256,omitempty"`
	Downloaded bool   `json:"downloaded"`
	Imported   bool   `json:"imported"`
	Dest       string `json:"dest,omitempty"`
	Error      string `json:"error,omitempty"`
	ErrorKind  string `json:"error_kind,omitempty"`
}

// DownloadReport summarizes a batch download. Items preserve request order
// regardless of completion order; a failed item never aborts the batch.
type DownloadReport struct {
	Requested int          `json:"requested"`
	Succeeded int          `json:"succeeded"`
	Failed    int          `json:"failed"`
	Items     []ItemResult `json:"items"`
}
