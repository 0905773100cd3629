package models

// ThemeRole describes the role a theme plays within a shop.
type ThemeRole string

const (
	// ThemeRoleMain is the currently published theme.
	ThemeRoleMain ThemeRole = "main"
	// ThemeRoleUnpublished is a draft or development theme.
	ThemeRoleUnpublished ThemeRole = "unpublished"
)

// ThemeRef identifies one theme version in the remote asset store.
// Immutable once obtained from the store.
type ThemeRef struct {
	ID   int64     `json:"id"`
	Name string    `json:"name"`
	Role ThemeRole `json:"role"`
}

// Asset is one entry of a theme's asset listing. Key uniquely identifies
// the file within the theme; intersection is computed by exact key equality.
type Asset struct {
	Key         string `json:"key"`
	ContentType string `json:"content_type,omitempty"`
	Size        int64  `json:"size,omitempty"`
	UpdatedAt   string `json:"updated_at,omitempty"`
}
