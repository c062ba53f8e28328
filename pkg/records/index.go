package records

import (
	"sort"

	"github.com/quillkit/quill/pkg/core"
)

// indexEntry is the covering projection of a record. It carries every field
// the list queries need so they never touch the (large) content payload.
type indexEntry struct {
	ID         string
	Title      string
	UpdatedAt  int64
	IsFavorite bool
	IsDeleted  bool
	DeletedAt  *int64
}

func indexOf(r core.Record) indexEntry {
	return indexEntry{
		ID:         r.ID,
		Title:      r.Title,
		UpdatedAt:  r.UpdatedAt,
		IsFavorite: r.IsFavorite,
		IsDeleted:  r.IsDeleted,
		DeletedAt:  r.DeletedAt,
	}
}

// record rebuilds a content-less record from the index entry.
func (e indexEntry) record() core.Record {
	return core.Record{
		ID:         e.ID,
		Title:      e.Title,
		UpdatedAt:  e.UpdatedAt,
		IsFavorite: e.IsFavorite,
		IsDeleted:  e.IsDeleted,
		DeletedAt:  e.DeletedAt,
	}
}

func sortByUpdatedDesc(recs []core.Record) {
	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].UpdatedAt != recs[j].UpdatedAt {
			return recs[i].UpdatedAt > recs[j].UpdatedAt
		}
		return recs[i].ID < recs[j].ID
	})
}

func sortByDeletedDesc(recs []core.Record) {
	sort.SliceStable(recs, func(i, j int) bool {
		di, dj := int64(0), int64(0)
		if recs[i].DeletedAt != nil {
			di = *recs[i].DeletedAt
		}
		if recs[j].DeletedAt != nil {
			dj = *recs[j].DeletedAt
		}
		if di != dj {
			return di > dj
		}
		return recs[i].ID < recs[j].ID
	})
}
