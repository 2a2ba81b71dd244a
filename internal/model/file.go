package model

// FileAttachment is the metadata row for one stored file tied to a medical
// record. Filename is the caller-supplied display name; Filepath is the
// generated, collision-resistant object name under which the bytes live in
// the uploads area.
type FileAttachment struct {
	ID       int    `json:"id"`
	RecordID int    `json:"record_id"`
	Filename string `json:"filename"`
	Filepath string `json:"filepath"`
}
