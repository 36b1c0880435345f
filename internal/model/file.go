package model

// File holds an uploaded document (resume, logo) as raw bytes plus its
// extension. Uploads are mirrored to cloud storage under object name
// "<prefix>/<id><extension>" so signed links can be minted later.
type File struct {
	ID        int `gorm:"primaryKey"`
	Content   []byte
	Extension string
}
