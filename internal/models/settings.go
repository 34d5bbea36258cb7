package models

const DefaultMaxImageSizeBytes = 5 << 20 // 5 MiB

func DefaultAllowedMIMETypes() []string {
	return []string{"image/jpeg", "image/png", "image/webp"}
}

// BoothSettings is looked up fresh on every submission so admin changes
// take effect without a restart.
type BoothSettings struct {
	MaxImageSizeBytes int64
	AllowedMIMETypes  []string
}

func (s BoothSettings) AllowsMIME(mime string) bool {
	for _, allowed := range s.AllowedMIMETypes {
		if allowed == mime {
			return true
		}
	}
	return false
}
