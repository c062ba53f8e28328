package core

// MaxRecentIDs caps the recents list; the oldest entry beyond the cap is dropped.
const MaxRecentIDs = 10

// NoteEntry is the covering projection of an active record used by list views.
type NoteEntry struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	UpdatedAt int64  `json:"updatedAt"`
}

// TrashEntry mirrors a deleted record in the metadata snapshot.
type TrashEntry struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	DeletedAt int64  `json:"deletedAt"`
}

// Sidebar holds the persisted layout state of the list sidebar.
type Sidebar struct {
	Collapsed bool `json:"collapsed"`
	Width     int  `json:"width"`
}

// Snapshot is the consolidated derived state used to render lists and the
// sidebar without querying the record store. It is rebuildable: the record
// store is authoritative and the reconciler repairs drift additively.
type Snapshot struct {
	ActiveRecordID *string      `json:"activeRecordId"`
	Sidebar        Sidebar      `json:"sidebar"`
	RecentIDs      []string     `json:"recentIds"`
	Notes          []NoteEntry  `json:"notes"`
	Favorites      []string     `json:"favorites"`
	Trash          []TrashEntry `json:"trash"`
}

// DefaultSnapshot returns the snapshot used when no metadata file exists yet
// or when the existing one fails to parse.
func DefaultSnapshot() Snapshot {
	return Snapshot{
		Sidebar:   Sidebar{Collapsed: false, Width: 280},
		RecentIDs: []string{},
		Notes:     []NoteEntry{},
		Favorites: []string{},
		Trash:     []TrashEntry{},
	}
}

// Clone returns a deep copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	out := s
	if s.ActiveRecordID != nil {
		v := *s.ActiveRecordID
		out.ActiveRecordID = &v
	}
	out.RecentIDs = append([]string(nil), s.RecentIDs...)
	out.Notes = append([]NoteEntry(nil), s.Notes...)
	out.Favorites = append([]string(nil), s.Favorites...)
	out.Trash = append([]TrashEntry(nil), s.Trash...)
	return out
}

// HasNote reports whether the notes list contains id.
func (s Snapshot) HasNote(id string) bool {
	for _, n := range s.Notes {
		if n.ID == id {
			return true
		}
	}
	return false
}

// HasFavorite reports whether the favorites set contains id.
func (s Snapshot) HasFavorite(id string) bool {
	for _, f := range s.Favorites {
		if f == id {
			return true
		}
	}
	return false
}

// HasTrash reports whether the trash list contains id.
func (s Snapshot) HasTrash(id string) bool {
	for _, t := range s.Trash {
		if t.ID == id {
			return true
		}
	}
	return false
}
