package model

import "time"

// DownloadToken grants bounded, time-limited access to one purchased file.
type DownloadToken struct {
	ID               int64
	Token            string
	OrderID          string
	ProductID        string
	ProductName      string
	ExpiresAt        time.Time
	DownloadCount    int
	MaxDownloads     int
	CreatedAt        time.Time
	LastDownloadedAt *time.Time
}

// Usable reports whether the token may still be redeemed at now.
func (t DownloadToken) Usable(now time.Time) bool {
	return now.Before(t.ExpiresAt) && t.DownloadCount < t.MaxDownloads
}

// Remaining returns the number of downloads left.
func (t DownloadToken) Remaining() int {
	if t.DownloadCount >= t.MaxDownloads {
		return 0
	}
	return t.MaxDownloads - t.DownloadCount
}

// ProductFile locates the stored file behind a product.
type ProductFile struct {
	ProductID   string
	Name        string
	FileKey     string
	FileName    string
	ContentType string
}
