package drive

const (
	mimeTypeFolder   = "application/vnd.google-apps.folder"
	mimeTypeShortcut = "application/vnd.google-apps.shortcut"
)

type ShortcutDetails struct {
	TargetID          string `json:"targetId"`
	TargetMimeType    string `json:"targetMimeType"`
	TargetResourceKey string `json:"targetResourceKey"`
}

// File is the subset of the Drive file resource this server asks for via
// the `fields` parameter.
type File struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	MimeType        string           `json:"mimeType"`
	ResourceKey     string           `json:"resourceKey"`
	DriveID         string           `json:"driveId"`
	WebViewLink     string           `json:"webViewLink"`
	ShortcutDetails *ShortcutDetails `json:"shortcutDetails"`
}

// Effective resolves a shortcut entry to its target identity. For regular
// entries it returns the entry's own id/mimeType/resourceKey. A shortcut is
// never used under its own ID.
func (f *File) Effective() (id, mimeType, resourceKey string) {
	id, mimeType, resourceKey = f.ID, f.MimeType, f.ResourceKey
	if f.MimeType == mimeTypeShortcut && f.ShortcutDetails != nil {
		id = f.ShortcutDetails.TargetID
		mimeType = f.ShortcutDetails.TargetMimeType
		if f.ShortcutDetails.TargetResourceKey != "" {
			resourceKey = f.ShortcutDetails.TargetResourceKey
		}
	}
	return id, mimeType, resourceKey
}

type FileList struct {
	NextPageToken string `json:"nextPageToken"`
	Files         []File `json:"files"`
}
