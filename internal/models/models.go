package models

// TimeUnknown is the capture-time sentinel stored when an image carries no
// usable EXIF timestamp. Duplicate matching treats it as "could be anything".
const TimeUnknown = "Time unknown"

// ImageRecord holds the fingerprint and metadata for one tracked file.
// Path is the primary key; Fingerprint equality defines "duplicate".
type ImageRecord struct {
	Path        string `json:"path"`
	Fingerprint string `json:"fingerprint"`
	FileSize    int64  `json:"file_size"`
	ImageSize   string `json:"image_size"`   // "W x H"
	CaptureTime string `json:"capture_time"` // EXIF DateTimeOriginal or TimeUnknown
}

// DuplicateGroup represents all tracked images sharing one fingerprint.
// Items are ordered by insertion, earliest first.
type DuplicateGroup struct {
	Fingerprint string         `json:"fingerprint"`
	Count       int            `json:"count"`
	Items       []*ImageRecord `json:"items"`
}

// InsertOutcome reports what Insert did with a record.
type InsertOutcome int

const (
	// Inserted means a new record was created.
	Inserted InsertOutcome = iota
	// AlreadyExists means a record with the same path was present and the
	// insert was a no-op.
	AlreadyExists
)

func (o InsertOutcome) String() string {
	switch o {
	case Inserted:
		return "inserted"
	case AlreadyExists:
		return "already exists"
	default:
		return "unknown"
	}
}
