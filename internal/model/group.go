package model

import "sort"

// CameraGroup is the mutable set of records sharing one camera id.
type CameraGroup struct {
	CameraID string
	members  map[string]ImageRecord
}

// NewCameraGroup returns an empty group for cameraID.
func NewCameraGroup(cameraID string) *CameraGroup {
	return &CameraGroup{
		CameraID: cameraID,
		members:  make(map[string]ImageRecord),
	}
}

// Add inserts rec, keyed by file name. Adding an existing name is a no-op.
func (g *CameraGroup) Add(rec ImageRecord) {
	if _, exists := g.members[rec.Name]; exists {
		return
	}
	g.members[rec.Name] = rec
}

// Remove drops the record with the given file name.
func (g *CameraGroup) Remove(name string) {
	delete(g.members, name)
}

// Contains reports whether a record with the given file name is still in the set.
func (g *CameraGroup) Contains(name string) bool {
	_, ok := g.members[name]
	return ok
}

// Len returns the number of records in the set.
func (g *CameraGroup) Len() int {
	return len(g.members)
}

// Snapshot returns the current members ordered by file name.
func (g *CameraGroup) Snapshot() []ImageRecord {
	records := make([]ImageRecord, 0, len(g.members))
	for _, rec := range g.members {
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Name < records[j].Name
	})
	return records
}

// Pop removes and returns the record with the smallest file name.
func (g *CameraGroup) Pop() (ImageRecord, bool) {
	if len(g.members) == 0 {
		return ImageRecord{}, false
	}
	first := ""
	for name := range g.members {
		if first == "" || name < first {
			first = name
		}
	}
	rec := g.members[first]
	delete(g.members, first)
	return rec, true
}

// Groups maps camera ids to their groups.
type Groups map[string]*CameraGroup

// Add places rec into the group for its camera id, creating the group when absent.
func (gs Groups) Add(rec ImageRecord) {
	group, ok := gs[rec.CameraID]
	if !ok {
		group = NewCameraGroup(rec.CameraID)
		gs[rec.CameraID] = group
	}
	group.Add(rec)
}

// CameraIDs returns the camera ids in lexicographic order.
func (gs Groups) CameraIDs() []string {
	ids := make([]string, 0, len(gs))
	for id := range gs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Total returns the number of records across all groups.
func (gs Groups) Total() int {
	total := 0
	for _, g := range gs {
		total += g.Len()
	}
	return total
}
