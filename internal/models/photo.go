package models

import "time"

type PhotoStatus string

const (
	PhotoStatusPending  PhotoStatus = "pending"
	PhotoStatusApproved PhotoStatus = "approved"
)

// PhotoSource tags every photo created by the booth pipeline so listing
// queries never pick up unrelated stored images.
const PhotoSource = "photo_booth"

func (s PhotoStatus) Valid() bool {
	return s == PhotoStatusPending || s == PhotoStatusApproved
}

type Photo struct {
	ID        string
	EventID   string
	Source    string
	Status    PhotoStatus
	MIMEType  string
	SizeBytes int64
	Bucket    string
	ObjectKey string
	CreatedAt time.Time
}
